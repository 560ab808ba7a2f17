package models

import "time"

// AuditLog is append-only: rows are inserted alongside sensitive actions
// and never updated or deleted by the application. UserID is denormalized;
// the profile may be removed later and the viewer resolves missing actors
// as "unknown user".
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *string `gorm:"size:36;index" json:"user_id"`

	Action       string `gorm:"size:20;not null" json:"action"`
	ResourceType string `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   string `gorm:"size:64" json:"resource_id"`

	OldValues string `gorm:"type:text" json:"old_values"`
	NewValues string `gorm:"type:text" json:"new_values"`

	IPAddress string `gorm:"size:45" json:"ip_address"`
	UserAgent string `gorm:"size:255" json:"user_agent"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
