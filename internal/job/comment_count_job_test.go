package job

import (
	"Amem/internal/model"
	"Amem/internal/pkg/consts"
	"Amem/internal/pkg/kafka"
	"Amem/internal/repository"
	"Amem/internal/service"
	"Amem/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDrift(t *testing.T) (*gorm.DB, *model.Post, *CommentCountJob) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "u1")
	post := testutil.SeedPost(t, db, user.ID)
	testutil.SeedComment(t, db, post.ID, user.ID, nil, time.Now())
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).UpdateColumn("comments_count", 4).Error)

	postSvc := service.NewPostService(repository.NewPostRepo(db), repository.NewPostActionRepo(db), kafka.NopPublisher{})
	return db, post, NewCommentCountJob(postSvc)
}

func storedCount(t *testing.T, db *gorm.DB, postID uint64) int {
	var post model.Post
	require.NoError(t, db.First(&post, postID).Error)
	return post.CommentsCount
}

func TestCommentCountJobFixesDrift(t *testing.T) {
	mr := testutil.NewRedis(t)
	db, post, job := setupDrift(t)

	job.Run()
	assert.Equal(t, 1, storedCount(t, db, post.ID))
	assert.False(t, mr.Exists(consts.CommentCountJobLock))
}

func TestCommentCountJobSkipsWhenLocked(t *testing.T) {
	mr := testutil.NewRedis(t)
	db, post, job := setupDrift(t)
	require.NoError(t, mr.Set(consts.CommentCountJobLock, "other-instance"))

	job.Run()
	assert.Equal(t, 4, storedCount(t, db, post.ID))

	got, err := mr.Get(consts.CommentCountJobLock)
	require.NoError(t, err)
	assert.Equal(t, "other-instance", got)
}
