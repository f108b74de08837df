package model

import (
	"time"

	"github.com/google/uuid"
)

// Carrier is an individual transport operator, distinct from the User account
// that may own it. Status and TruckID move in lockstep: a carrier is
// "assigned" or "on_route" if and only if a truck is bound. That consistency
// is maintained by the service layer, never by this struct or the DB schema.
type Carrier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	DNI           string    `gorm:"uniqueIndex;not null"`
	LicenseNumber string    `gorm:"uniqueIndex;not null"`
	Phone         *string
	Status        CarrierStatus `gorm:"type:varchar(20);not null;default:'available';index"`
	TruckID       *uuid.UUID    `gorm:"type:uuid"`
	UserID        *uuid.UUID    `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Truck *Truck `gorm:"foreignKey:TruckID"`
}
