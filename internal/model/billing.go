package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Billing is an invoice provisioned when the route serving a request reaches
// "done". RequestID carries a unique index: it is the idempotency key that
// guarantees at most one invoice per request no matter how many completion
// notifications arrive.
type Billing struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	RequestID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IssuedAt  time.Time       `gorm:"not null"`
	DueAt     time.Time       `gorm:"not null;index"`
	Status    BillingStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PDFPath   *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Client  *Client           `gorm:"foreignKey:ClientID"`
	Request *TransportRequest `gorm:"foreignKey:RequestID"`
}
