package service_test

import (
	"Amem/internal/api/dto"
	"Amem/internal/model"
	"Amem/internal/pkg/kafka"
	"Amem/internal/repository"
	"Amem/internal/service"
	"Amem/internal/testutil"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*kafka.CommentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt *kafka.CommentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	db       *gorm.DB
	comments service.CommentService
	posts    service.PostService
	pub      *recordingPublisher
	author   *model.User
	other    *model.User
	post     *model.Post
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.NewRedis(t)

	pub := &recordingPublisher{}
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepo(db)
	f := &fixture{
		db:       db,
		comments: service.NewCommentService(repository.NewCommentRepo(db), postRepo, userRepo, pub),
		posts:    service.NewPostService(postRepo, repository.NewPostActionRepo(db), pub),
		pub:      pub,
		author:   testutil.SeedUser(t, db, "u1"),
		other:    testutil.SeedUser(t, db, "u2"),
	}
	f.post = testutil.SeedPost(t, db, f.author.ID)
	return f
}

func (f *fixture) commentsCount(t *testing.T) int64 {
	t.Helper()
	stats, err := f.posts.GetPostStats(context.Background(), 0, f.post.ID)
	require.NoError(t, err)
	return stats.CommentsCount
}

func TestCreateTopLevelComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.Zero(t, f.commentsCount(t))

	c, err := f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "  Amém irmão  "})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Nil(t, c.ParentCommentID)
	assert.Equal(t, "Amém irmão", c.Content)
	assert.Zero(t, c.LikesCount)
	assert.False(t, c.UserLiked)
	assert.False(t, c.Edited)
	assert.NotNil(t, c.Replies)
	assert.Equal(t, f.author.Nickname, c.Nickname)

	// 计数已缓存过，仍应立即反映新评论
	assert.Equal(t, int64(1), f.commentsCount(t))

	list, err := f.comments.ListComments(ctx, 0, f.post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Amém irmão", list[0].Content)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, kafka.EventCommentCreated, f.pub.events[0].Type)
	assert.Equal(t, f.author.ID, f.pub.events[0].PostAuthorID)
}

func TestCreateCommentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: " \n\t "})
	assert.ErrorIs(t, err, service.ErrContentEmpty)

	_, err = f.comments.CreateComment(ctx, f.author.ID, 999, &dto.CommentCreateDTO{Content: "x"})
	assert.ErrorIs(t, err, service.ErrPostNotFound)

	missing := uint64(999)
	_, err = f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "x", ParentCommentID: &missing})
	assert.ErrorIs(t, err, service.ErrParentCommentNotFound)

	otherPost := testutil.SeedPost(t, f.db, f.author.ID)
	foreign, err := f.comments.CreateComment(ctx, f.author.ID, otherPost.ID, &dto.CommentCreateDTO{Content: "x"})
	require.NoError(t, err)
	_, err = f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "x", ParentCommentID: &foreign.ID})
	assert.ErrorIs(t, err, service.ErrParentCommentNotFound)

	assert.Zero(t, f.commentsCount(t))
}

func TestReplyAppearsUnderParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "Amém"})
	require.NoError(t, err)
	reply, err := f.comments.CreateComment(ctx, f.other.ID, f.post.ID, &dto.CommentCreateDTO{Content: "Concordo", ParentCommentID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, root.ID, *reply.ParentCommentID)

	list, err := f.comments.ListComments(ctx, 0, f.post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Replies, 1)
	assert.Equal(t, "Concordo", list[0].Replies[0].Content)
	assert.Equal(t, int64(2), f.commentsCount(t))

	last := f.pub.events[len(f.pub.events)-1]
	assert.Equal(t, root.ID, last.ParentID)
	assert.Equal(t, f.author.ID, last.ParentAuthorID)
}

func TestReplyToReplyIsNormalizedToRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "a"})
	require.NoError(t, err)
	reply, err := f.comments.CreateComment(ctx, f.other.ID, f.post.ID, &dto.CommentCreateDTO{Content: "b", ParentCommentID: &root.ID})
	require.NoError(t, err)
	deep, err := f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "c", ParentCommentID: &reply.ID})
	require.NoError(t, err)
	assert.Equal(t, root.ID, *deep.ParentCommentID)

	list, err := f.comments.ListComments(ctx, 0, f.post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Replies, 2)
}

func TestReplyToDeepLegacyChainClimbsToRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	// 历史数据里存在多层嵌套
	root := testutil.SeedComment(t, f.db, f.post.ID, f.author.ID, nil, now)
	mid := testutil.SeedComment(t, f.db, f.post.ID, f.other.ID, &root.ID, now.Add(time.Second))
	deep := testutil.SeedComment(t, f.db, f.post.ID, f.author.ID, &mid.ID, now.Add(2*time.Second))

	reply, err := f.comments.CreateComment(ctx, f.other.ID, f.post.ID, &dto.CommentCreateDTO{Content: "d", ParentCommentID: &deep.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, root.ID, *reply.ParentCommentID)

	// 祖先缺失时停在链上最后一个存在的评论
	ghost := uint64(999999)
	orphan := testutil.SeedComment(t, f.db, f.post.ID, f.author.ID, &ghost, now.Add(3*time.Second))
	child := testutil.SeedComment(t, f.db, f.post.ID, f.other.ID, &orphan.ID, now.Add(4*time.Second))
	reply, err = f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "e", ParentCommentID: &child.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, orphan.ID, *reply.ParentCommentID)
}

func TestEditComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "antes"})
	require.NoError(t, err)

	err = f.comments.EditComment(ctx, f.other.ID, c.ID, "hack")
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.ErrorIs(t, f.comments.EditComment(ctx, f.author.ID, c.ID, "   "), service.ErrContentEmpty)
	assert.ErrorIs(t, f.comments.EditComment(ctx, f.author.ID, 999, "x"), service.ErrPostCommentNotFound)

	list, err := f.comments.ListComments(ctx, 0, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, "antes", list[0].Content)
	assert.False(t, list[0].Edited)

	require.NoError(t, f.comments.EditComment(ctx, f.author.ID, c.ID, "depois"))
	list, err = f.comments.ListComments(ctx, 0, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, "depois", list[0].Content)
	assert.True(t, list[0].Edited)
}

func TestDeleteCommentKeepsRepliesAsTopLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "raiz"})
	require.NoError(t, err)
	reply, err := f.comments.CreateComment(ctx, f.other.ID, f.post.ID, &dto.CommentCreateDTO{Content: "resposta", ParentCommentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.commentsCount(t))

	assert.ErrorIs(t, f.comments.DeleteComment(ctx, f.other.ID, root.ID), service.ErrForbidden)
	require.NoError(t, f.comments.DeleteComment(ctx, f.author.ID, root.ID))
	assert.Equal(t, int64(1), f.commentsCount(t))
	assert.ErrorIs(t, f.comments.DeleteComment(ctx, f.author.ID, root.ID), service.ErrPostCommentNotFound)

	list, err := f.comments.ListComments(ctx, 0, f.post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, reply.ID, list[0].ID)
	assert.Empty(t, list[0].Replies)

	// 回复已提升为一级评论，对它的回复挂在它下面
	child, err := f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "x", ParentCommentID: &reply.ID})
	require.NoError(t, err)
	assert.Equal(t, reply.ID, *child.ParentCommentID)
}

func TestToggleCommentLikeAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.comments.CreateComment(ctx, f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "Amém"})
	require.NoError(t, err)

	res, err := f.comments.ToggleCommentLike(ctx, f.other.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)

	stats, err := f.comments.GetCommentStats(ctx, f.other.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.CommentStatsDTO{LikesCount: 1, UserLiked: true}, stats)
	again, err := f.comments.GetCommentStats(ctx, f.other.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, stats, again)

	stats, err = f.comments.GetCommentStats(ctx, f.author.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, stats.UserLiked)
	stats, err = f.comments.GetCommentStats(ctx, 0, c.ID)
	require.NoError(t, err)
	assert.False(t, stats.UserLiked)

	list, err := f.comments.ListComments(ctx, f.other.ID, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list[0].LikesCount)
	assert.True(t, list[0].UserLiked)

	res, err = f.comments.ToggleCommentLike(ctx, f.other.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	stats, err = f.comments.GetCommentStats(ctx, f.other.ID, c.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.LikesCount)

	_, err = f.comments.ToggleCommentLike(ctx, f.other.ID, 999)
	assert.ErrorIs(t, err, service.ErrPostCommentNotFound)
	_, err = f.comments.GetCommentStats(ctx, 0, 999)
	assert.ErrorIs(t, err, service.ErrPostCommentNotFound)
	_, err = f.comments.ToggleCommentLike(ctx, 0, c.ID)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	c, err := f.comments.CreateComment(context.Background(), f.author.ID, f.post.ID, &dto.CommentCreateDTO{Content: "x"})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
}

func TestListCommentsUnknownPost(t *testing.T) {
	f := newFixture(t)
	_, err := f.comments.ListComments(context.Background(), 0, 999)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestListCommentsOrphanFromStorage(t *testing.T) {
	f := newFixture(t)
	base := time.Now()
	testutil.SeedComment(t, f.db, f.post.ID, f.author.ID, nil, base)
	ghost := uint64(12345)
	orphan := testutil.SeedComment(t, f.db, f.post.ID, f.other.ID, &ghost, base.Add(time.Second))

	list, err := f.comments.ListComments(context.Background(), 0, f.post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, orphan.ID, list[1].ID)
}

func errorsWrap(err error) error {
	return fmt.Errorf("wrapped: %w", err)
}
