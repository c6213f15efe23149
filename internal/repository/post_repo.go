package repository

import (
	"Amem/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// PostCounters 帖子上的冗余计数
type PostCounters struct {
	LikesCount    int64
	CommentsCount int64
	SharesCount   int64
}

// CommentCountDrift 冗余评论数与实际行数不一致的帖子
type CommentCountDrift struct {
	PostID uint64
	Stored int64
	Actual int64
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, error)
	UpdatePostContent(ctx context.Context, id uint64, content string) error
	DeletePostCascade(ctx context.Context, id uint64) error
	GetPostCounters(ctx context.Context, id uint64) (*PostCounters, error)

	FindCommentCountDrift(ctx context.Context, limit int) ([]CommentCountDrift, error)
	RecountComments(ctx context.Context, id uint64) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Preload("User").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts 按发布时间倒序分页
func (s *PostRepoImpl) ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (s *PostRepoImpl) UpdatePostContent(ctx context.Context, id uint64, content string) error {
	res := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":    content,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePostCascade 删除帖子及其点赞、分享、评论与评论点赞
func (s *PostRepoImpl) DeletePostCascade(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&model.PostComment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostShare{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (s *PostRepoImpl) GetPostCounters(ctx context.Context, id uint64) (*PostCounters, error) {
	var counters PostCounters
	res := s.db.WithContext(ctx).Model(&model.Post{}).
		Select("likes_count, comments_count, shares_count").
		Where("id = ?", id).
		Limit(1).
		Scan(&counters)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &counters, nil
}

// FindCommentCountDrift 找出评论计数漂移的帖子
func (s *PostRepoImpl) FindCommentCountDrift(ctx context.Context, limit int) ([]CommentCountDrift, error) {
	var rows []CommentCountDrift
	err := s.db.WithContext(ctx).
		Table("posts AS p").
		Select("p.id AS post_id, p.comments_count AS stored, COUNT(c.id) AS actual").
		Joins("LEFT JOIN post_comments AS c ON c.post_id = p.id").
		Group("p.id, p.comments_count").
		Having("p.comments_count <> COUNT(c.id)").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RecountComments 在一条 UPDATE 内按实际行数重写 comments_count，并发的增删不会被覆盖
func (s *PostRepoImpl) RecountComments(ctx context.Context, id uint64) error {
	actual := s.db.Model(&model.PostComment{}).
		Select("COUNT(*)").
		Where("post_comments.post_id = posts.id")
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("comments_count", actual).Error
}
