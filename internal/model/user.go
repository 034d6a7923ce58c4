package model

import (
	"time"
)

type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(255);not null" json:"name"`
	Email     string `gorm:"type:varchar(255);uniqueIndex:idx_email" json:"email"`
	Password  string `gorm:"type:varchar(255)" json:"-"`
	AvatarURL string `gorm:"type:varchar(500)" json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
