// Package allocation is the spot allocation and billing state machine.
// It is the only component allowed to mutate Spot.Occupied and
// Lot.AvailableSpots; every mutation runs inside a single transaction,
// serialized per user and per lot through an in-process lock table.
package allocation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"parkwise-backend/internal/application/billing"
	"parkwise-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB    *gorm.DB
	locks *lockTable
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, locks: newLockTable()}
}

// SpotHandle identifies the spot assigned to a user.
type SpotHandle struct {
	SpotID     uint   `json:"spot_id"`
	SpotNumber string `json:"spot_number"`
	LotID      uint   `json:"lot_id"`
}

// Receipt summarizes a released reservation. Orphaned is set when the spot
// was freed defensively without a matching open ledger entry; cost is
// unknown (zero) in that case.
type Receipt struct {
	SpotNumber string        `json:"spot_number"`
	Duration   time.Duration `json:"duration"`
	Cost       float64       `json:"cost"`
	Orphaned   bool          `json:"orphaned,omitempty"`
}

// Reserve assigns the lowest-numbered free spot in the lot to the user and
// opens a ledger entry. Fails with ErrAlreadyReserved if the user holds an
// active reservation anywhere, ErrNotFound for an unknown lot, ErrLotFull
// when no spot is free. Spot state, lot counter and ledger append commit as
// one transaction.
func (s *Service) Reserve(ctx context.Context, userID, lotID uint, vehicleNumber string) (*SpotHandle, error) {
	userMu := s.locks.get(userKey(userID))
	userMu.Lock()
	defer userMu.Unlock()

	lotMu := s.locks.get(lotKey(lotID))
	lotMu.Lock()
	defer lotMu.Unlock()

	var handle *SpotHandle
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open domain.LedgerEntry
		err := tx.Where("user_id = ? AND exit_time IS NULL", userID).First(&open).Error
		if err == nil {
			return domain.ErrAlreadyReserved
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var lot domain.Lot
		if err := tx.First(&lot, lotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var spot domain.Spot
		err = tx.Where("lot_id = ? AND occupied = ?", lotID, false).
			Order("id").First(&spot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLotFull
		}
		if err != nil {
			return err
		}

		spot.Occupied = true
		spot.CurrentUserID = &userID
		if err := tx.Save(&spot).Error; err != nil {
			return err
		}

		lot.AvailableSpots--
		if err := tx.Save(&lot).Error; err != nil {
			return err
		}

		entry := domain.LedgerEntry{
			UserID:        userID,
			SpotID:        spot.ID,
			LotID:         lotID,
			VehicleNumber: vehicleNumber,
			EntryTime:     time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if err := appendAudit(tx, &entry.EntryID, domain.AuditReserved, map[string]interface{}{
			"user_id":        userID,
			"spot_number":    spot.SpotNumber,
			"vehicle_number": vehicleNumber,
		}); err != nil {
			return err
		}

		handle = &SpotHandle{SpotID: spot.ID, SpotNumber: spot.SpotNumber, LotID: lotID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return handle, nil
}

// Release frees the spot held by the user, closes the open ledger entry and
// computes the cost. A user with no spot is a no-op success returning
// (nil, nil). An occupied spot without an open ledger entry is a
// data-consistency fault: logged, freed defensively, receipt flagged
// Orphaned with unknown cost.
func (s *Service) Release(ctx context.Context, userID uint) (*Receipt, error) {
	userMu := s.locks.get(userKey(userID))
	userMu.Lock()
	defer userMu.Unlock()

	var held domain.Spot
	err := s.DB.WithContext(ctx).Where("current_user_id = ?", userID).First(&held).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lotMu := s.locks.get(lotKey(held.LotID))
	lotMu.Lock()
	defer lotMu.Unlock()

	var receipt *Receipt
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spot domain.Spot
		err := tx.Where("current_user_id = ?", userID).First(&spot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Released concurrently between the lookup and the lock.
			return nil
		}
		if err != nil {
			return err
		}

		var lot domain.Lot
		if err := tx.First(&lot, spot.LotID).Error; err != nil {
			return err
		}

		var entry domain.LedgerEntry
		err = tx.Where("user_id = ? AND spot_id = ? AND exit_time IS NULL", userID, spot.ID).
			First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.repairOrphan(tx, &spot, &lot, userID, &receipt)
		}
		if err != nil {
			return err
		}

		now := time.Now()
		cost, err := billing.Compute(entry.EntryTime, now, lot.Pricing)
		if err != nil {
			return err
		}

		spot.Occupied = false
		spot.CurrentUserID = nil
		if err := tx.Save(&spot).Error; err != nil {
			return err
		}

		lot.AvailableSpots++
		if err := tx.Save(&lot).Error; err != nil {
			return err
		}

		entry.ExitTime = &now
		entry.Cost = &cost
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}

		if err := appendAudit(tx, &entry.EntryID, domain.AuditReleased, map[string]interface{}{
			"user_id":     userID,
			"spot_number": spot.SpotNumber,
			"cost":        cost,
		}); err != nil {
			return err
		}

		receipt = &Receipt{
			SpotNumber: spot.SpotNumber,
			Duration:   now.Sub(entry.EntryTime),
			Cost:       cost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// repairOrphan frees an occupied spot that has no open ledger entry. The
// spot must not stay stuck, but there is nothing to bill against.
func (s *Service) repairOrphan(tx *gorm.DB, spot *domain.Spot, lot *domain.Lot, userID uint, receipt **Receipt) error {
	log.Warn().
		Uint("user_id", userID).
		Uint("spot_id", spot.ID).
		Str("spot_number", spot.SpotNumber).
		Msg("occupied spot has no open ledger entry; freeing defensively")

	spot.Occupied = false
	spot.CurrentUserID = nil
	if err := tx.Save(spot).Error; err != nil {
		return err
	}

	lot.AvailableSpots++
	if err := tx.Save(lot).Error; err != nil {
		return err
	}

	if err := appendAudit(tx, nil, domain.AuditRepaired, map[string]interface{}{
		"user_id":     userID,
		"spot_id":     spot.ID,
		"spot_number": spot.SpotNumber,
	}); err != nil {
		return err
	}

	*receipt = &Receipt{SpotNumber: spot.SpotNumber, Orphaned: true}
	return nil
}

// ActiveReservation returns the spot currently held by the user, nil if none.
func (s *Service) ActiveReservation(ctx context.Context, userID uint) (*SpotHandle, error) {
	var entry domain.LedgerEntry
	err := s.DB.WithContext(ctx).Where("user_id = ? AND exit_time IS NULL", userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var spot domain.Spot
	if err := s.DB.WithContext(ctx).First(&spot, entry.SpotID).Error; err != nil {
		return nil, err
	}
	return &SpotHandle{SpotID: spot.ID, SpotNumber: spot.SpotNumber, LotID: spot.LotID}, nil
}

// UserHistory returns the user's ledger entries, most recent first.
func (s *Service) UserHistory(ctx context.Context, userID uint) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_time DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func appendAudit(tx *gorm.DB, entryID *uuid.UUID, eventType string, data map[string]interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return tx.Create(&domain.AuditEvent{
		LedgerEntryID: entryID,
		EventType:     eventType,
		EventData:     datatypes.JSON(payload),
	}).Error
}
