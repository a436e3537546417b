package models

import "time"

// TaskState is one user's instance of a task template. Username is stored
// normalized (trimmed, lowercase) so lookups are case-insensitive.
type TaskState struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:100;index;not null" json:"username"`
	Title      string    `gorm:"size:100;not null" json:"title"`
	Reward     float64   `gorm:"type:decimal(20,8);not null" json:"reward"`
	RewardType string    `gorm:"size:20;not null" json:"reward_type"` // currency | experience
	Condition  string    `gorm:"size:40;not null" json:"condition"`
	Daily      bool      `gorm:"default:false" json:"daily"`
	Completed  bool      `gorm:"default:false" json:"completed"`
	LastDone   *string   `gorm:"size:10" json:"last_done,omitempty"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (TaskState) TableName() string {
	return "task_states"
}
