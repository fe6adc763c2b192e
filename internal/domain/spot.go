package domain

import (
	"time"
)

// Spot is one parking slot within a lot. Spots are bulk-created at lot
// creation, numbered "Spot-1".."Spot-N", and are never deleted independently
// of their lot. Invariant: Occupied == (CurrentUserID != nil).
type Spot struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LotID         uint      `gorm:"column:lot_id;not null;index" json:"lot_id"`
	SpotNumber    string    `gorm:"column:spot_number;not null" json:"spot_number"`
	Occupied      bool      `gorm:"column:occupied;not null;default:false" json:"occupied"`
	CurrentUserID *uint     `gorm:"column:current_user_id;index" json:"current_user_id"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Spot) TableName() string {
	return "parking_spots"
}
