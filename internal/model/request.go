package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Priority levels accepted on a TransportRequest. They feed the pricing
// multiplier, not the scheduler.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// TransportRequest is a client's shipping order. Creating one provisions a
// linked Route; the request can only reach "done" once that route is done.
type TransportRequest struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	Origin                string          `gorm:"not null"`
	Destination           string          `gorm:"not null"`
	DistanceKm            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RequestedDeliveryDate time.Time       `gorm:"not null"`
	Status                RequestStatus   `gorm:"type:varchar(20);not null;default:'issued';index"`
	Priority              string          `gorm:"type:varchar(10);not null;default:'normal'"`
	RouteID               *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Client *Client `gorm:"foreignKey:ClientID"`
	Route  *Route  `gorm:"foreignKey:RouteID"`
}
