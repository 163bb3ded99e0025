package models

import "time"

// Customer: dropdown entry for the customer a problem tag is filed against
type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	NameKey   string `gorm:"size:200;not null;uniqueIndex"` // lower(trim(name)), case-insensitive uniqueness
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time
}
