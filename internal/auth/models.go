package auth

import "time"

type User struct {
	UserID         string    `gorm:"primaryKey" json:"user_id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	HashedPassword string    `json:"-"`
	Role           string    `gorm:"default:'admin'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

func (User) TableName() string { return "app_auth.users" }
