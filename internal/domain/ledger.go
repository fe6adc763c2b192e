package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerEntry is one parking session record: created at reservation,
// closed (ExitTime + Cost) at release, never deleted. A ledger entry with
// ExitTime == nil is an active reservation; at most one may exist per user
// at any time.
type LedgerEntry struct {
	EntryID       uuid.UUID  `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`
	UserID        uint       `gorm:"column:user_id;not null;index" json:"user_id"`
	SpotID        uint       `gorm:"column:spot_id;not null;index" json:"spot_id"`
	LotID         uint       `gorm:"column:lot_id;not null;index" json:"lot_id"`
	VehicleNumber string     `gorm:"column:vehicle_number;not null" json:"vehicle_number"`
	EntryTime     time.Time  `gorm:"column:entry_time;not null" json:"entry_time"`
	ExitTime      *time.Time `gorm:"column:exit_time" json:"exit_time"`
	Cost          *float64   `gorm:"column:cost;type:decimal(10,2)" json:"cost"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (LedgerEntry) TableName() string {
	return "reservation_ledger"
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryID == uuid.Nil {
		e.EntryID = uuid.New()
	}
	return nil
}

// Active reports whether the entry is an open reservation.
func (e *LedgerEntry) Active() bool {
	return e.ExitTime == nil
}
