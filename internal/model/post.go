package model

import (
	"time"
)

const (
	PostTypeText  = "text"
	PostTypeImage = "image"
)

type Post struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	UserID        uint64    `gorm:"not null;index:idx_posts_user_id" json:"userId"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	ImageURL      string    `gorm:"type:varchar(512);not null;default:''" json:"imageUrl"`
	PostType      string    `gorm:"type:varchar(20);not null;default:'text'" json:"postType"`
	Community     string    `gorm:"type:varchar(50);not null;default:''" json:"community"`
	LikesCount    int       `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int       `gorm:"not null;default:0" json:"commentsCount"`
	SharesCount   int       `gorm:"not null;default:0" json:"sharesCount"`
	CreatedAt     time.Time `gorm:"index:idx_posts_created_at" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// 关联关系
	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}
