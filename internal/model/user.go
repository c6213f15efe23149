package model

import (
	"time"
)

type User struct {
	ID           uint64  `gorm:"primaryKey"`
	Username     *string `gorm:"type:varchar(50);uniqueIndex:idx_users_username"`
	Password     *string `gorm:"type:varchar(255)"`
	Nickname     string  `gorm:"type:varchar(50);not null;default:''"`
	Denomination string  `gorm:"type:varchar(100);not null;default:''"` // 教派/所属教会
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}
