package model

import (
	"time"
)

type PostComment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index:idx_post_comments_post_id" json:"postId"`
	UserID    uint64    `gorm:"not null" json:"userId"`
	Content   string    `gorm:"type:varchar(1000);not null" json:"content"`
	ParentID  *uint64   `gorm:"index:idx_post_comments_parent_id" json:"parentCommentId"` // nil 表示一级评论
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PostComment) TableName() string {
	return "post_comments"
}

// IsTopLevel 是否为一级评论
func (c *PostComment) IsTopLevel() bool {
	return c.ParentID == nil
}
