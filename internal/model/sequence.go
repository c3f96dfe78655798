package model

import "time"

// DocumentSequence is a persistent counter keyed by number prefix
// (e.g. "INV-20260214-"). It replaces in-memory counters for numbering.
type DocumentSequence struct {
	Key       string    `gorm:"type:varchar(50);primaryKey" json:"key"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt time.Time `json:"updated_at"`
}
