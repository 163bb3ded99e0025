package models

import "time"

// DailyReceivingRecord: one row per day, the error-rate baseline
type DailyReceivingRecord struct {
	ID             uint      `gorm:"primaryKey"`
	Date           time.Time `gorm:"uniqueIndex;not null"` // UTC midnight
	OrdersReceived int       `gorm:"not null;check:chk_orders_non_negative,orders_received >= 0"`
	EstimatedUnits int       `gorm:"not null;check:chk_units_non_negative,estimated_units >= 0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
