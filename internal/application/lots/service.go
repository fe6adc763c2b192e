// Package lots is the data-access service for lots and their spot pools.
// It never touches occupancy state; that belongs to the allocation engine.
package lots

import (
	"context"
	"errors"
	"fmt"

	"parkwise-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// CreateLotInput carries the admin-supplied lot definition.
type CreateLotInput struct {
	Name       string
	Address    string
	PinCode    string
	TotalSpots int
	Pricing    domain.Pricing
}

// CreateLot inserts the lot and bulk-creates its spots, numbered
// Spot-1..Spot-N, all free. One transaction.
func (s *Service) CreateLot(ctx context.Context, input CreateLotInput) (*domain.Lot, error) {
	if input.TotalSpots <= 0 {
		return nil, errors.New("total_spots must be a positive number")
	}

	lot := domain.Lot{
		Name:           input.Name,
		Address:        input.Address,
		PinCode:        input.PinCode,
		TotalSpots:     input.TotalSpots,
		AvailableSpots: input.TotalSpots,
		Pricing:        input.Pricing,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lot).Error; err != nil {
			return err
		}
		spots := make([]domain.Spot, 0, input.TotalSpots)
		for i := 1; i <= input.TotalSpots; i++ {
			spots = append(spots, domain.Spot{
				LotID:      lot.ID,
				SpotNumber: fmt.Sprintf("Spot-%d", i),
			})
		}
		return tx.Create(&spots).Error
	})
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// DeleteLot removes the lot and its spots, but only if no ledger entry has
// ever referenced the lot. The ledger is a permanent audit trail; a lot
// with history stays.
func (s *Service) DeleteLot(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.Lot
		if err := tx.First(&lot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var historyCount int64
		if err := tx.Model(&domain.LedgerEntry{}).Where("lot_id = ?", id).Count(&historyCount).Error; err != nil {
			return err
		}
		if historyCount > 0 {
			return domain.ErrHasHistory
		}

		if err := tx.Where("lot_id = ?", id).Delete(&domain.Spot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lot).Error
	})
}

func (s *Service) ListLots(ctx context.Context) ([]domain.Lot, error) {
	var lots []domain.Lot
	if err := s.DB.WithContext(ctx).Order("id").Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

func (s *Service) GetLot(ctx context.Context, id uint) (*domain.Lot, error) {
	var lot domain.Lot
	if err := s.DB.WithContext(ctx).First(&lot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// UpdateLotMetadataInput holds the editable lot fields. Spot counts are not
// settable through this path.
type UpdateLotMetadataInput struct {
	Name              *string
	Address           *string
	PinCode           *string
	BasePrice         *float64
	BaseDurationHours *float64
	ExtraHourPrice    *float64
}

func (s *Service) UpdateLotMetadata(ctx context.Context, id uint, input UpdateLotMetadataInput) (*domain.Lot, error) {
	var lot domain.Lot
	if err := s.DB.WithContext(ctx).First(&lot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Column-scoped update. A full-row Save would also write the
	// available_spots counter, clobbering a concurrent reserve/release
	// commit with the value read above. Only the allocation engine may
	// write that column.
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.PinCode != nil {
		updates["pin_code"] = *input.PinCode
	}
	if input.BasePrice != nil {
		updates["base_price"] = *input.BasePrice
	}
	if input.BaseDurationHours != nil {
		updates["base_duration_hours"] = *input.BaseDurationHours
	}
	if input.ExtraHourPrice != nil {
		updates["extra_hour_price"] = *input.ExtraHourPrice
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&lot).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.DB.WithContext(ctx).First(&lot, id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (s *Service) SpotsForLot(ctx context.Context, lotID uint) ([]domain.Spot, error) {
	if _, err := s.GetLot(ctx, lotID); err != nil {
		return nil, err
	}
	var spots []domain.Spot
	if err := s.DB.WithContext(ctx).Where("lot_id = ?", lotID).Order("id").Find(&spots).Error; err != nil {
		return nil, err
	}
	return spots, nil
}

// Occupancy is the live view of a lot.
type Occupancy struct {
	Total     int           `json:"total"`
	Available int           `json:"available"`
	Spots     []domain.Spot `json:"spots"`
}

func (s *Service) Occupancy(ctx context.Context, lotID uint) (*Occupancy, error) {
	lot, err := s.GetLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	spots, err := s.SpotsForLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	return &Occupancy{Total: lot.TotalSpots, Available: lot.AvailableSpots, Spots: spots}, nil
}

// Drift is a lot whose maintained available-spots counter disagrees with
// the actual count of free spots.
type Drift struct {
	LotID     uint `json:"lot_id"`
	Counter   int  `json:"counter"`
	Recounted int  `json:"recounted"`
}

// RecountAvailability recomputes the free-spot count of every lot and
// compares it with the maintained counter. Counters are maintained
// incrementally under the allocation engine's transactions; this is a
// defensive check, not the primary mechanism, and it never auto-corrects.
func (s *Service) RecountAvailability(ctx context.Context) ([]Drift, error) {
	lots, err := s.ListLots(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for i := range lots {
		var free int64
		err := s.DB.WithContext(ctx).Model(&domain.Spot{}).
			Where("lot_id = ? AND occupied = ?", lots[i].ID, false).
			Count(&free).Error
		if err != nil {
			return nil, err
		}
		if int(free) != lots[i].AvailableSpots {
			log.Error().
				Uint("lot_id", lots[i].ID).
				Int("counter", lots[i].AvailableSpots).
				Int64("recounted", free).
				Msg("available-spots counter drifted from spot table")
			drifts = append(drifts, Drift{LotID: lots[i].ID, Counter: lots[i].AvailableSpots, Recounted: int(free)})
		}
	}
	return drifts, nil
}
