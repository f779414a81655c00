package model

import "time"

// AuditEntry records a mutation against the service.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Actor     string    `gorm:"size:64" json:"actor"`
	Action    string    `gorm:"size:32" json:"action"`
	Target    string    `gorm:"size:128" json:"target"`
	Detail    string    `gorm:"size:255" json:"detail,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}
