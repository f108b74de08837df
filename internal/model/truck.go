package model

import (
	"time"

	"github.com/google/uuid"
)

// Truck is a vehicle that can be bound to at most one Carrier at a time.
// CarrierID is the back-reference of that binding; both sides are written by
// the assignment operations in the service layer.
type Truck struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LicensePlate string      `gorm:"uniqueIndex;not null"`
	Model        string      `gorm:"not null"`
	CapacityKg   int         `gorm:"not null"`
	FuelType     string      `gorm:"type:varchar(20);not null;default:'diesel'"`
	Status       TruckStatus `gorm:"type:varchar(20);not null;default:'available';index"`
	CarrierID    *uuid.UUID  `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
