package models

import (
	"time"

	"github.com/google/uuid"
)

// Safety modes recorded on audit rows.
const (
	SafetyModeBlocked  = "blocked"
	SafetyModeOverride = "override"
)

// SafetyAuditLog is one append-only audit row: either a hard block or a
// consumed override. Rows are never updated or deleted by this service.
type SafetyAuditLog struct {
	ID                uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID            uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	MealRequestText   string    `gorm:"type:text;not null" json:"meal_request_text"`
	AllergenTriggered string    `gorm:"size:100" json:"allergen_triggered"`
	SafetyMode        string    `gorm:"size:20;not null" json:"safety_mode"`
	BuilderID         string    `gorm:"size:36" json:"builder_id"`
	OverrideReason    string    `gorm:"type:text" json:"override_reason,omitempty"`
	TablesVersion     string    `gorm:"size:20" json:"tables_version"`
	CreatedAt         time.Time `json:"created_at"`
}

func (SafetyAuditLog) TableName() string {
	return "safety_audit_logs"
}
