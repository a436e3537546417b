package models

import "time"

type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password       string     `gorm:"size:255;not null" json:"-"`
	Balance        float64    `gorm:"type:decimal(20,8);default:0" json:"balance"`
	XP             int        `gorm:"column:xp;default:0" json:"xp"`
	Rank           string     `gorm:"size:20;default:'beginner'" json:"rank"`
	LoginStreak    int        `gorm:"default:0" json:"login_streak"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	Mining         bool       `gorm:"default:false" json:"mining"`
	Blocked        bool       `gorm:"default:false" json:"blocked"`
	Theme          string     `gorm:"size:10;default:'light'" json:"theme"`
	Currency       string     `gorm:"size:20;default:'bitcoin'" json:"currency"`
	FailedAttempts int        `gorm:"default:0" json:"-"`
	LockUntil      *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"-"`
}

func (User) TableName() string {
	return "users"
}
