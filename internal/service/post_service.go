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
	"golang.org/x/sync/errgroup"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, postID uint64) (*dto.PostDTO, error)
	ListPosts(ctx context.Context, page, pageSize int) (*dto.PostListDTO, error)
	UpdatePost(ctx context.Context, userID, postID uint64, req *dto.PostUpdateDTO) error
	DeletePost(ctx context.Context, userID, postID uint64) error
	TogglePostLike(ctx context.Context, userID, postID uint64) (*dto.LikeToggleDTO, error)
	SharePost(ctx context.Context, userID, postID uint64) error
	GetPostStats(ctx context.Context, viewerID, postID uint64) (*dto.PostStatsDTO, error)
	ReconcileCommentCounts(ctx context.Context, batch int) (int, error)
}

type postServiceImpl struct {
	postRepo       repository.PostRepo
	postActionRepo repository.PostActionRepo
	publisher      kafka.EventPublisher
}

func NewPostService(postRepo repository.PostRepo, postActionRepo repository.PostActionRepo, publisher kafka.EventPublisher) PostService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &postServiceImpl{
		postRepo:       postRepo,
		postActionRepo: postActionRepo,
		publisher:      publisher,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	content := util.NormalizeContent(req.Content)
	if content == "" {
		return nil, ErrContentEmpty
	}

	post := &model.Post{
		UserID:    userID,
		Content:   content,
		ImageURL:  req.ImageURL,
		PostType:  model.PostTypeText,
		Community: req.Community,
	}
	if req.ImageURL != "" {
		post.PostType = model.PostTypeImage
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, post.ID)
}

func (s *postServiceImpl) GetPost(ctx context.Context, postID uint64) (*dto.PostDTO, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return toPostDTO(post)
}

func (s *postServiceImpl) ListPosts(ctx context.Context, page, pageSize int) (*dto.PostListDTO, error) {
	limit, offset := util.Pagination(page, pageSize)
	posts, err := s.postRepo.ListPosts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		d, err := toPostDTO(p)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	if page < 1 {
		page = 1
	}
	return &dto.PostListDTO{List: list, Page: page, PageSize: limit}, nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, userID, postID uint64, req *dto.PostUpdateDTO) error {
	content := util.NormalizeContent(req.Content)
	if content == "" {
		return ErrContentEmpty
	}
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}

	err = s.postRepo.UpdatePostContent(ctx, postID, content)
	if repository.IsNotFound(err) {
		return ErrPostNotFound
	}
	return err
}

// DeletePost 连同评论、点赞和分享一起删除
func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}

	if err = s.postRepo.DeletePostCascade(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return ErrPostNotFound
		}
		return err
	}
	InvalidatePostStats(ctx, postID)
	return nil
}

func (s *postServiceImpl) TogglePostLike(ctx context.Context, userID, postID uint64) (*dto.LikeToggleDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.postActionRepo.TogglePostLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	InvalidatePostStats(ctx, postID)

	if liked {
		evt := &kafka.CommentEvent{
			Type:         kafka.EventPostLiked,
			ActorID:      userID,
			PostID:       postID,
			PostAuthorID: post.UserID,
			Content:      post.Content,
			OccurredAt:   time.Now(),
		}
		if err = s.publisher.Publish(ctx, evt); err != nil {
			log.WarnContext(ctx, "publish post like event failed", "postID", postID, "err", err)
		}
	}
	return &dto.LikeToggleDTO{Liked: liked}, nil
}

func (s *postServiceImpl) SharePost(ctx context.Context, userID, postID uint64) error {
	if _, err := s.getPost(ctx, postID); err != nil {
		return err
	}
	share := &model.PostShare{UserID: userID, PostID: postID, CreatedAt: time.Now()}
	if err := s.postActionRepo.CreateShare(ctx, share); err != nil {
		return err
	}
	InvalidatePostStats(ctx, postID)
	return nil
}

// GetPostStats 计数走 redis 缓存，当前用户的点赞状态实时查询
func (s *postServiceImpl) GetPostStats(ctx context.Context, viewerID, postID uint64) (*dto.PostStatsDTO, error) {
	var counters *repository.PostCounters
	var userLiked bool

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		version, versioned := cacheVersion(gCtx, postID)
		if cached, ok := loadCachedCounters(gCtx, postID); ok {
			counters = cached
			return nil
		}
		c, err := s.postRepo.GetPostCounters(gCtx, postID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrPostNotFound
			}
			return err
		}
		if versioned {
			storeCachedCounters(gCtx, postID, version, c)
		}
		counters = c
		return nil
	})
	if viewerID > 0 {
		g.Go(func() error {
			var err error
			userLiked, err = s.postActionRepo.CheckLikeExists(gCtx, viewerID, postID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.PostStatsDTO{
		LikesCount:    counters.LikesCount,
		CommentsCount: counters.CommentsCount,
		SharesCount:   counters.SharesCount,
		UserLiked:     userLiked,
	}, nil
}

// ReconcileCommentCounts 按实际评论行数重算漂移的 comments_count，返回修正的帖子数
func (s *postServiceImpl) ReconcileCommentCounts(ctx context.Context, batch int) (int, error) {
	drifts, err := s.postRepo.FindCommentCountDrift(ctx, batch)
	if err != nil {
		return 0, err
	}

	fixed := make([]uint64, 0, len(drifts))
	for _, d := range drifts {
		if err = s.postRepo.RecountComments(ctx, d.PostID); err != nil {
			log.ErrorContext(ctx, "fix comments count failed", "postID", d.PostID, "err", err)
			continue
		}
		log.InfoContext(ctx, "comments count fixed", "postID", d.PostID, "stored", d.Stored, "actual", d.Actual)
		fixed = append(fixed, d.PostID)
	}
	if len(fixed) > 0 {
		InvalidatePostStats(ctx, fixed...)
	}
	return len(fixed), nil
}

func (s *postServiceImpl) getPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func toPostDTO(p *model.Post) (*dto.PostDTO, error) {
	d := &dto.PostDTO{}
	if err := copier.CopyWithOption(d, p, copier.Option{Converters: []copier.TypeConverter{timeConverter}}); err != nil {
		return nil, err
	}
	d.Nickname = p.User.Nickname
	d.ContentHTML = util.RenderContent(p.Content)
	return d, nil
}
