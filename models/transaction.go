package models

import "time"

type Transaction struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Username string  `gorm:"size:100;index;not null" json:"username"`
	Amount   float64 `gorm:"type:decimal(20,8);not null" json:"amount"`
	OrderID  string  `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	// credit = value entering the balance, debit = value leaving it
	Flow      string    `gorm:"type:varchar(10);not null" json:"flow"`
	Type      string    `gorm:"type:varchar(30);not null" json:"type"` // mining, task_reward, purchase, withdraw, admin_adjust
	Message   *string   `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
