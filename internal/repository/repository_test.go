package repository_test

import (
	"Amem/internal/model"
	"Amem/internal/repository"
	"Amem/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func commentsCount(t *testing.T, db *gorm.DB, postID uint64) int {
	t.Helper()
	var post model.Post
	require.NoError(t, db.First(&post, postID).Error)
	return post.CommentsCount
}

func TestCreateAndDeleteCommentMaintainCounter(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "u1")
	post := testutil.SeedPost(t, db, user.ID)
	repo := repository.NewCommentRepo(db)

	now := time.Now()
	c := &model.PostComment{PostID: post.ID, UserID: user.ID, Content: "Amém", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateComment(ctx, c))
	assert.NotZero(t, c.ID)
	assert.Equal(t, 1, commentsCount(t, db, post.ID))

	liked, err := repo.ToggleCommentLike(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, repo.DeleteComment(ctx, c))
	assert.Equal(t, 0, commentsCount(t, db, post.ID))

	var likes int64
	require.NoError(t, db.Model(&model.CommentLike{}).Where("comment_id = ?", c.ID).Count(&likes).Error)
	assert.Zero(t, likes)

	// 重复删除
	assert.True(t, repository.IsNotFound(repo.DeleteComment(ctx, c)))
	assert.Equal(t, 0, commentsCount(t, db, post.ID))
}

func TestCreateCommentOnMissingPostRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewCommentRepo(db)

	c := &model.PostComment{PostID: 999, UserID: 1, Content: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	err := repo.CreateComment(ctx, c)
	assert.True(t, repository.IsNotFound(err))

	var n int64
	require.NoError(t, db.Model(&model.PostComment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestToggleCommentLikeIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "u1")
	post := testutil.SeedPost(t, db, user.ID)
	c := testutil.SeedComment(t, db, post.ID, user.ID, nil, time.Now())
	repo := repository.NewCommentRepo(db)

	liked, err := repo.ToggleCommentLike(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := repo.GetCommentLikeCount(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	exists, err := repo.CheckCommentLikeExists(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	liked, err = repo.ToggleCommentLike(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err = repo.GetCommentLikeCount(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDuplicateLikeIsDetected(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&model.CommentLike{UserID: 1, CommentID: 1}).Error)
	err := db.Create(&model.CommentLike{UserID: 1, CommentID: 1}).Error
	assert.True(t, repository.IsDuplicateError(err))
}

func TestBatchedCommentStats(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "u1")
	post := testutil.SeedPost(t, db, user.ID)
	now := time.Now()
	a := testutil.SeedComment(t, db, post.ID, user.ID, nil, now)
	b := testutil.SeedComment(t, db, post.ID, user.ID, nil, now.Add(time.Second))
	repo := repository.NewCommentRepo(db)

	for _, uid := range []uint64{1, 2, 3} {
		_, err := repo.ToggleCommentLike(ctx, uid, a.ID)
		require.NoError(t, err)
	}
	_, err := repo.ToggleCommentLike(ctx, 2, b.ID)
	require.NoError(t, err)

	counts, err := repo.GetCommentLikeCounts(ctx, []uint64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[a.ID])
	assert.Equal(t, int64(1), counts[b.ID])

	liked, err := repo.GetLikedCommentIDs(ctx, 1, []uint64{a.ID, b.ID})
	require.NoError(t, err)
	assert.True(t, liked[a.ID])
	assert.False(t, liked[b.ID])

	liked, err = repo.GetLikedCommentIDs(ctx, 0, []uint64{a.ID})
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestGetCommentsByPostIDOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "u1")
	post := testutil.SeedPost(t, db, user.ID)
	now := time.Now()
	late := testutil.SeedComment(t, db, post.ID, user.ID, nil, now.Add(time.Minute))
	early := testutil.SeedComment(t, db, post.ID, user.ID, nil, now)

	list, err := repository.NewCommentRepo(db).GetCommentsByPostID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)
}

func TestTogglePostLikeAndShareCounters(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "u1")
	post := testutil.SeedPost(t, db, user.ID)
	actions := repository.NewPostActionRepo(db)
	posts := repository.NewPostRepo(db)

	liked, err := actions.TogglePostLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	require.NoError(t, actions.CreateShare(ctx, &model.PostShare{UserID: user.ID, PostID: post.ID, CreatedAt: time.Now()}))

	counters, err := posts.GetPostCounters(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counters.LikesCount)
	assert.Equal(t, int64(1), counters.SharesCount)

	liked, err = actions.TogglePostLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	counters, err = posts.GetPostCounters(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, counters.LikesCount)

	_, err = posts.GetPostCounters(ctx, 12345)
	assert.True(t, repository.IsNotFound(err))
}

func TestCommentCountDrift(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "u1")
	drifted := testutil.SeedPost(t, db, user.ID)
	healthy := testutil.SeedPost(t, db, user.ID)
	testutil.SeedComment(t, db, drifted.ID, user.ID, nil, time.Now())
	testutil.SeedComment(t, db, drifted.ID, user.ID, nil, time.Now())
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", drifted.ID).UpdateColumn("comments_count", 5).Error)
	posts := repository.NewPostRepo(db)

	drifts, err := posts.FindCommentCountDrift(ctx, 10)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, drifted.ID, drifts[0].PostID)
	assert.Equal(t, int64(5), drifts[0].Stored)
	assert.Equal(t, int64(2), drifts[0].Actual)
	assert.NotEqual(t, healthy.ID, drifts[0].PostID)

	require.NoError(t, posts.RecountComments(ctx, drifted.ID))
	drifts, err = posts.FindCommentCountDrift(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, drifts)

	counters, err := posts.GetPostCounters(ctx, drifted.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counters.CommentsCount)

	// 帖子之外的计数不受影响
	counters, err = posts.GetPostCounters(ctx, healthy.ID)
	require.NoError(t, err)
	assert.Zero(t, counters.CommentsCount)
}

func TestDeletePostCascade(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "u1")
	post := testutil.SeedPost(t, db, user.ID)
	c := testutil.SeedComment(t, db, post.ID, user.ID, nil, time.Now())
	require.NoError(t, db.Create(&model.CommentLike{UserID: user.ID, CommentID: c.ID}).Error)
	require.NoError(t, db.Create(&model.Like{UserID: user.ID, PostID: post.ID}).Error)

	posts := repository.NewPostRepo(db)
	require.NoError(t, posts.DeletePostCascade(ctx, post.ID))

	for _, m := range []any{&model.Post{}, &model.PostComment{}, &model.CommentLike{}, &model.Like{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}
	assert.True(t, repository.IsNotFound(posts.DeletePostCascade(ctx, post.ID)))
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	a := testutil.SeedUser(t, db, "alice")
	b := testutil.SeedUser(t, db, "bob")
	users := repository.NewUserRepo(db)

	found, err := users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	_, err = users.GetUserByUsername(ctx, "nobody")
	assert.True(t, repository.IsNotFound(err))

	m, err := users.GetUsersByIDs(ctx, []uint64{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Len(t, m, 2)

	dup := &model.User{Username: a.Username, Nickname: "x"}
	assert.True(t, repository.IsDuplicateError(users.CreateUser(ctx, dup)))
}
