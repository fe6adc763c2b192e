// Package overdue derives alerts for active reservations that have been
// open longer than a configured threshold. Read-only over the ledger.
package overdue

import (
	"context"
	"sort"
	"time"

	"parkwise-backend/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Alert flags one overdue active reservation.
type Alert struct {
	LedgerEntryID string        `json:"ledger_entry_id"`
	UserID        uint          `json:"user_id"`
	SpotID        uint          `json:"spot_id"`
	LotID         uint          `json:"lot_id"`
	VehicleNumber string        `json:"vehicle_number"`
	EntryTime     time.Time     `json:"entry_time"`
	Elapsed       time.Duration `json:"elapsed"`
}

// Scan returns every open ledger entry whose elapsed time exceeds the
// threshold, most overdue first.
func (s *Service) Scan(ctx context.Context, threshold time.Duration) ([]Alert, error) {
	var entries []domain.LedgerEntry
	err := s.DB.WithContext(ctx).
		Where("exit_time IS NULL").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	alerts := make([]Alert, 0)
	for i := range entries {
		elapsed := now.Sub(entries[i].EntryTime)
		if elapsed <= threshold {
			continue
		}
		alerts = append(alerts, Alert{
			LedgerEntryID: entries[i].EntryID.String(),
			UserID:        entries[i].UserID,
			SpotID:        entries[i].SpotID,
			LotID:         entries[i].LotID,
			VehicleNumber: entries[i].VehicleNumber,
			EntryTime:     entries[i].EntryTime,
			Elapsed:       elapsed,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].Elapsed > alerts[j].Elapsed
	})
	return alerts, nil
}
