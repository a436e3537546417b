package models

import "time"

// Device is an owned mining rig. Catalog fields are copied at purchase time so
// later catalog changes never affect devices already sold.
type Device struct {
	ID          string    `gorm:"primaryKey;size:40" json:"id"`
	Owner       string    `gorm:"size:100;index;not null" json:"owner"`
	CatalogID   int       `gorm:"not null" json:"catalog_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Price       float64   `gorm:"type:decimal(20,8);not null" json:"price"`
	SatPerCycle int       `gorm:"not null" json:"sat_per_cycle"`
	Interval    int       `gorm:"not null" json:"interval"`
	PowerOn     bool      `gorm:"default:false" json:"power_on"`
	Active      bool      `gorm:"default:false" json:"active"`
	LastTick    *int64    `json:"last_tick,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Device) TableName() string {
	return "devices"
}
