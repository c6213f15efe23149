package service

import (
	"Amem/internal/api/dto"
	"Amem/internal/model"
	"Amem/internal/pkg/kafka"
	"Amem/internal/pkg/util"
	"Amem/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID, postID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	EditComment(ctx context.Context, userID, commentID uint64, content string) error
	DeleteComment(ctx context.Context, userID, commentID uint64) error
	ToggleCommentLike(ctx context.Context, userID, commentID uint64) (*dto.LikeToggleDTO, error)
	GetCommentStats(ctx context.Context, viewerID, commentID uint64) (*dto.CommentStatsDTO, error)
	ListComments(ctx context.Context, viewerID, postID uint64) ([]*dto.CommentDTO, error)
}

type commentServiceImpl struct {
	commentRepo repository.CommentRepo
	postRepo    repository.PostRepo
	userRepo    repository.UserRepo
	publisher   kafka.EventPublisher
}

func NewCommentService(
	commentRepo repository.CommentRepo,
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	publisher kafka.EventPublisher,
) CommentService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// CreateComment 发布评论或回复，回复的回复会被改挂到一级评论下
func (s *commentServiceImpl) CreateComment(ctx context.Context, userID, postID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	content := util.NormalizeContent(req.Content)
	if content == "" {
		return nil, ErrContentEmpty
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	var parent *model.PostComment
	if req.ParentCommentID != nil {
		parent, err = s.resolveParent(ctx, postID, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	comment := &model.PostComment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parent != nil {
		comment.ParentID = util.PtrUint64(parent.ID)
	}

	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	InvalidatePostStats(ctx, postID)

	evt := &kafka.CommentEvent{
		Type:         kafka.EventCommentCreated,
		ActorID:      userID,
		PostID:       postID,
		PostAuthorID: post.UserID,
		CommentID:    comment.ID,
		Content:      content,
		OccurredAt:   now,
	}
	if parent != nil {
		evt.ParentID = parent.ID
		evt.ParentAuthorID = parent.UserID
	}
	s.publish(ctx, evt)

	res, err := toCommentDTO(comment)
	if err != nil {
		return nil, err
	}
	if user, err := s.userRepo.GetUserByID(ctx, userID); err == nil {
		res.Nickname = user.Nickname
	}
	return res, nil
}

// resolveParent 父评论必须存在且属于同一帖子；父评论本身是回复时沿父链上溯到一级祖先。
// 链在某层断开（祖先已删除或不属于本帖）时停在最后一个有效节点，与列表展示的归属一致；
// 成环时使用父评论本身。
func (s *commentServiceImpl) resolveParent(ctx context.Context, postID, parentID uint64) (*model.PostComment, error) {
	parent, err := s.commentRepo.GetCommentByID(ctx, parentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrParentCommentNotFound
		}
		return nil, err
	}
	if parent.PostID != postID {
		return nil, ErrParentCommentNotFound
	}

	cur := parent
	visited := map[uint64]struct{}{cur.ID: {}}
	for !cur.IsTopLevel() {
		next, err := s.commentRepo.GetCommentByID(ctx, *cur.ParentID)
		if err != nil {
			if repository.IsNotFound(err) {
				break
			}
			return nil, err
		}
		if next.PostID != postID {
			break
		}
		if _, seen := visited[next.ID]; seen {
			return parent, nil
		}
		visited[next.ID] = struct{}{}
		cur = next
	}
	return cur, nil
}

// EditComment 仅作者可编辑，updated_at 至少比 created_at 晚 1ms，保证“已编辑”标记可判定
func (s *commentServiceImpl) EditComment(ctx context.Context, userID, commentID uint64, content string) error {
	content = util.NormalizeContent(content)
	if content == "" {
		return ErrContentEmpty
	}

	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}

	updatedAt := time.Now()
	if minUpdated := comment.CreatedAt.Add(time.Millisecond); updatedAt.Before(minUpdated) {
		updatedAt = minUpdated
	}

	err = s.commentRepo.UpdateCommentContent(ctx, commentID, content, updatedAt)
	if repository.IsNotFound(err) {
		return ErrPostCommentNotFound
	}
	return err
}

// DeleteComment 仅作者可删除；回复保留，展示时提升为一级评论
func (s *commentServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}

	if err = s.commentRepo.DeleteComment(ctx, comment); err != nil {
		if repository.IsNotFound(err) {
			return ErrPostCommentNotFound
		}
		return err
	}
	InvalidatePostStats(ctx, comment.PostID)

	log.InfoContext(ctx, "comment deleted", "commentID", commentID, "postID", comment.PostID)
	return nil
}

func (s *commentServiceImpl) ToggleCommentLike(ctx context.Context, userID, commentID uint64) (*dto.LikeToggleDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	liked, err := s.commentRepo.ToggleCommentLike(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	if liked {
		s.publish(ctx, &kafka.CommentEvent{
			Type:            kafka.EventCommentLiked,
			ActorID:         userID,
			PostID:          comment.PostID,
			CommentID:       commentID,
			CommentAuthorID: comment.UserID,
			Content:         comment.Content,
			OccurredAt:      time.Now(),
		})
	}
	return &dto.LikeToggleDTO{Liked: liked}, nil
}

// GetCommentStats 每次实时查询，不做服务端缓存
func (s *commentServiceImpl) GetCommentStats(ctx context.Context, viewerID, commentID uint64) (*dto.CommentStatsDTO, error) {
	if _, err := s.getComment(ctx, commentID); err != nil {
		return nil, err
	}

	count, err := s.commentRepo.GetCommentLikeCount(ctx, commentID)
	if err != nil {
		return nil, err
	}
	stats := &dto.CommentStatsDTO{LikesCount: count}
	if viewerID > 0 {
		stats.UserLiked, err = s.commentRepo.CheckCommentLikeExists(ctx, viewerID, commentID)
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// ListComments 返回两层评论树，附带当前访客的点赞状态
func (s *commentServiceImpl) ListComments(ctx context.Context, viewerID, postID uint64) ([]*dto.CommentDTO, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(comments))
	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
		userIDs = append(userIDs, c.UserID)
	}

	likeCounts, err := s.commentRepo.GetCommentLikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.commentRepo.GetLikedCommentIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		log.WarnContext(ctx, "load comment authors failed", "postID", postID, "err", err)
		users = map[uint64]*model.User{}
	}

	convert := func(c *model.PostComment) (*dto.CommentDTO, error) {
		d, err := toCommentDTO(c)
		if err != nil {
			return nil, err
		}
		d.LikesCount = likeCounts[c.ID]
		d.UserLiked = liked[c.ID]
		if u, ok := users[c.UserID]; ok {
			d.Nickname = u.Nickname
		}
		return d, nil
	}

	thread := BuildThread(comments)
	res := make([]*dto.CommentDTO, 0, len(thread))
	for _, node := range thread {
		root, err := convert(node.Comment)
		if err != nil {
			return nil, err
		}
		for _, r := range node.Replies {
			reply, err := convert(r)
			if err != nil {
				return nil, err
			}
			root.Replies = append(root.Replies, reply)
		}
		res = append(res, root)
	}
	return res, nil
}

func (s *commentServiceImpl) getPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *commentServiceImpl) getComment(ctx context.Context, commentID uint64) (*model.PostComment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// publish 事件发送失败只记录日志，不影响已提交的写操作
func (s *commentServiceImpl) publish(ctx context.Context, evt *kafka.CommentEvent) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.WarnContext(ctx, "publish comment event failed", "type", evt.Type, "err", err)
	}
}

var timeConverter = copier.TypeConverter{
	SrcType: time.Time{},
	DstType: copier.String,
	Fn: func(src interface{}) (interface{}, error) {
		t, ok := src.(time.Time)
		if !ok {
			return "", nil
		}
		return util.FormatTime(t), nil
	},
}

func toCommentDTO(c *model.PostComment) (*dto.CommentDTO, error) {
	d := &dto.CommentDTO{}
	if err := copier.CopyWithOption(d, c, copier.Option{Converters: []copier.TypeConverter{timeConverter}}); err != nil {
		return nil, err
	}
	if c.ParentID != nil {
		d.ParentCommentID = util.PtrUint64(*c.ParentID)
	}
	d.ContentHTML = util.RenderContent(c.Content)
	d.Edited = !c.UpdatedAt.Equal(c.CreatedAt)
	d.Replies = make([]*dto.CommentDTO, 0)
	return d, nil
}
