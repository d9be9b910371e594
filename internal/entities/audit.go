package entities

import "time"

type AuditEventType string

const (
	AuditEventLoad     AuditEventType = "load"
	AuditEventMutation AuditEventType = "mutation"
	AuditEventRollback AuditEventType = "rollback"
	AuditEventRefresh  AuditEventType = "refresh"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g., "book_add", "book_delete"
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityID    string         `gorm:"index;size:64" json:"entity_id,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
