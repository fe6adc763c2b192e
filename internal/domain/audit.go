package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit event types for ledger mutations.
const (
	AuditReserved = "RESERVED"
	AuditReleased = "RELEASED"
	AuditRepaired = "REPAIRED" // orphaned spot freed without a matching open ledger entry
)

// AuditEvent records one allocation-engine mutation against a ledger entry,
// appended in the same transaction as the mutation itself.
type AuditEvent struct {
	EventID       uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	LedgerEntryID *uuid.UUID     `gorm:"column:ledger_entry_id;type:uuid;index" json:"ledger_entry_id"`
	EventType     string         `gorm:"column:event_type;type:varchar(20);not null" json:"event_type"`
	EventData     datatypes.JSON `gorm:"column:event_data;type:json" json:"event_data"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func (AuditEvent) TableName() string {
	return "allocation_audit_events"
}

func (a *AuditEvent) BeforeCreate(tx *gorm.DB) error {
	if a.EventID == uuid.Nil {
		a.EventID = uuid.New()
	}
	return nil
}
