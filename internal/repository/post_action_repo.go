package repository

import (
	"Amem/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type PostActionRepo interface {
	TogglePostLike(ctx context.Context, userID, postID uint64) (bool, error)
	CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error)
	CreateShare(ctx context.Context, share *model.PostShare) error
}

type PostActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &PostActionRepoImpl{db}
}

// TogglePostLike 切换帖子点赞并在同一事务内维护 likes_count
func (s *PostActionRepoImpl) TogglePostLike(ctx context.Context, userID, postID uint64) (bool, error) {
	liked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Model(&model.Post{}).Where("id = ?", postID).
				UpdateColumn("likes_count", decrementExpr("likes_count")).Error
		}

		if err := tx.Create(&model.Like{UserID: userID, PostID: postID, CreatedAt: time.Now()}).Error; err != nil {
			return err
		}
		liked = true
		return tx.Model(&model.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
	if err != nil {
		if IsDuplicateError(err) {
			return true, nil
		}
		return false, err
	}
	return liked, nil
}

func (s *PostActionRepoImpl) CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// CreateShare 记录分享并增加 shares_count
func (s *PostActionRepoImpl) CreateShare(ctx context.Context, share *model.PostShare) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(share).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).Where("id = ?", share.PostID).
			UpdateColumn("shares_count", gorm.Expr("shares_count + ?", 1)).Error
	})
}
