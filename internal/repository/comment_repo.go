package repository

import (
	"Amem/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.PostComment) error
	DeleteComment(ctx context.Context, comment *model.PostComment) error
	UpdateCommentContent(ctx context.Context, commentID uint64, content string, updatedAt time.Time) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error)
	GetCommentsByPostID(ctx context.Context, postID uint64) ([]*model.PostComment, error)

	ToggleCommentLike(ctx context.Context, userID, commentID uint64) (bool, error)
	CheckCommentLikeExists(ctx context.Context, userID, commentID uint64) (bool, error)
	GetCommentLikeCount(ctx context.Context, commentID uint64) (int64, error)
	GetCommentLikeCounts(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error)
	GetLikedCommentIDs(ctx context.Context, userID uint64, commentIDs []uint64) (map[uint64]bool, error)
}

type CommentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &CommentRepoImpl{db}
}

// CreateComment 插入评论并在同一事务内增加帖子评论数，帖子不存在时返回 gorm.ErrRecordNotFound
func (s *CommentRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteComment 物理删除评论及其点赞并减少帖子评论数，回复不级联删除
func (s *CommentRepoImpl) DeleteComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", comment.ID).Delete(&model.PostComment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", decrementExpr("comments_count")).Error
	})
}

func (s *CommentRepoImpl) UpdateCommentContent(ctx context.Context, commentID uint64, content string, updatedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&model.PostComment{}).
		Where("id = ?", commentID).
		UpdateColumns(map[string]interface{}{
			"content":    content,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *CommentRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error) {
	var comment model.PostComment
	err := s.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID 按创建顺序获取帖子下的全部评论
func (s *CommentRepoImpl) GetCommentsByPostID(ctx context.Context, postID uint64) ([]*model.PostComment, error) {
	var comments []*model.PostComment
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// ToggleCommentLike 存在则删除，不存在则插入；并发插入撞上唯一约束时视为已点赞
func (s *CommentRepoImpl) ToggleCommentLike(ctx context.Context, userID, commentID uint64) (bool, error) {
	liked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&model.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		if err := tx.Create(&model.CommentLike{UserID: userID, CommentID: commentID, CreatedAt: time.Now()}).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		if IsDuplicateError(err) {
			return true, nil
		}
		return false, err
	}
	return liked, nil
}

func (s *CommentRepoImpl) CheckCommentLikeExists(ctx context.Context, userID, commentID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	return count > 0, err
}

func (s *CommentRepoImpl) GetCommentLikeCount(ctx context.Context, commentID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

type commentLikeCount struct {
	CommentID uint64
	Cnt       int64
}

// GetCommentLikeCounts 批量统计点赞数，未出现的评论计数为 0
func (s *CommentRepoImpl) GetCommentLikeCounts(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error) {
	res := make(map[uint64]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return res, nil
	}
	var rows []commentLikeCount
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Select("comment_id, COUNT(*) AS cnt").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.CommentID] = r.Cnt
	}
	return res, nil
}

// GetLikedCommentIDs 返回用户点赞过的评论集合
func (s *CommentRepoImpl) GetLikedCommentIDs(ctx context.Context, userID uint64, commentIDs []uint64) (map[uint64]bool, error) {
	res := make(map[uint64]bool)
	if userID == 0 || len(commentIDs) == 0 {
		return res, nil
	}
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		res[id] = true
	}
	return res, nil
}
