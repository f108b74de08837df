package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Route is the physical leg provisioned for a TransportRequest.
// A route with status "done" is immutable with respect to carrier assignment.
// Routes are soft-deleted (gorm.DeletedAt) so billing history keeps resolving.
type Route struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Origin           string          `gorm:"not null"`
	Destination      string          `gorm:"not null"`
	DistanceKm       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	EstimatedMinutes int             `gorm:"not null;default:0"`
	Status           RouteStatus     `gorm:"type:varchar(20);not null;default:'issued';index"`
	CarrierID        *uuid.UUID      `gorm:"type:uuid;index"`
	RequestID        *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}
