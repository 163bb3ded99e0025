package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpsert AuditAction = "upsert"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Which entity? ("customer", "employee", "problem_tag", "daily_receiving")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action AuditAction `gorm:"size:20" json:"action"`

	// Free-text actor, e.g. the problem tag author. No user accounts exist.
	Actor string `gorm:"size:100" json:"actor"`

	Description string `gorm:"size:255" json:"description"`

	// Snapshot of the written row
	AfterData datatypes.JSON `json:"after_data"`
}
