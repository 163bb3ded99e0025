package models

import "time"

// Employee: "mistake made by" dropdown entry
type Employee struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	NameKey   string `gorm:"size:200;not null;uniqueIndex"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time
}
