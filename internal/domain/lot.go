package domain

import (
	"time"
)

// Pricing is the per-lot billing configuration: a flat base price covering
// the first BaseDurationHours, then ExtraHourPrice per additional hour
// (fractional hours are billed proportionally).
type Pricing struct {
	BasePrice         float64 `gorm:"column:base_price;type:decimal(10,2);not null;default:0" json:"base_price"`
	BaseDurationHours float64 `gorm:"column:base_duration_hours;type:decimal(6,2);not null;default:1" json:"base_duration_hours"`
	ExtraHourPrice    float64 `gorm:"column:extra_hour_price;type:decimal(10,2);not null;default:0" json:"extra_hour_price"`
}

// Lot is a parking facility with a fixed number of spots.
// AvailableSpots is a derived counter maintained by the allocation engine
// under the same transaction as the spot mutation; it must always equal the
// number of unoccupied spots in the lot.
type Lot struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Address        string    `gorm:"column:address;not null" json:"address"`
	PinCode        string    `gorm:"column:pin_code" json:"pin_code"`
	TotalSpots     int       `gorm:"column:total_spots;not null" json:"total_spots"`
	AvailableSpots int       `gorm:"column:available_spots;not null" json:"available_spots"`
	Pricing        Pricing   `gorm:"embedded" json:"pricing"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Lot) TableName() string {
	return "parking_lots"
}
