package model

import (
	"time"
)

type PostShare struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_post_shares_user_id" json:"userId"`
	PostID    uint64    `gorm:"not null;index:idx_post_shares_post_id" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostShare) TableName() string {
	return "post_shares"
}
