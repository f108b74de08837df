package repository

import (
	"context"
	"time"

	"cargohub/internal/dto"
	"cargohub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingRepository interface {
	Create(ctx context.Context, b *model.Billing) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Billing, error)
	// FindByRequestID is the idempotency probe for invoice provisioning.
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Billing, error)
	List(ctx context.Context, filter dto.BillingFilter) ([]model.Billing, int64, error)
	Update(ctx context.Context, b *model.Billing) error

	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.BillingStatus) error

	// ListOverdue returns pending invoices whose due date has passed,
	// for the payment-reminder cron.
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.Billing, error)

	CountByStatus(ctx context.Context) (map[model.BillingStatus]int64, error)
}

type billingRepo struct{ db *gorm.DB }

func NewBillingRepository(db *gorm.DB) BillingRepository { return &billingRepo{db: db} }

func (r *billingRepo) Create(ctx context.Context, b *model.Billing) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *billingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Billing, error) {
	var b model.Billing
	err := r.db.WithContext(ctx).Preload("Client").First(&b, id).Error
	return &b, err
}

func (r *billingRepo) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Billing, error) {
	var b model.Billing
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&b).Error
	return &b, err
}

func (r *billingRepo) List(ctx context.Context, filter dto.BillingFilter) ([]model.Billing, int64, error) {
	var billings []model.Billing
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Billing{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Client").Order("issued_at DESC").Limit(filter.Limit).Offset(offset).Find(&billings).Error
	return billings, total, err
}

func (r *billingRepo) Update(ctx context.Context, b *model.Billing) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *billingRepo) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.BillingStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Billing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *billingRepo) ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.Billing, error) {
	var billings []model.Billing
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_at < ?", model.BillingPending, now).
		Order("due_at ASC").
		Limit(limit).
		Preload("Client").
		Find(&billings).Error
	return billings, err
}

func (r *billingRepo) CountByStatus(ctx context.Context) (map[model.BillingStatus]int64, error) {
	return countByStatus[model.BillingStatus](ctx, r.db, &model.Billing{})
}
