package repository

import (
	"context"

	"cargohub/internal/dto"
	"cargohub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, req *model.TransportRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TransportRequest, error)
	List(ctx context.Context, filter dto.RequestFilter) ([]model.TransportRequest, int64, error)
	Update(ctx context.Context, req *model.TransportRequest) error

	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.RequestStatus) error
	SetRoute(ctx context.Context, id, routeID uuid.UUID) error

	CountByStatus(ctx context.Context) (map[model.RequestStatus]int64, error)
}

type requestRepo struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) RequestRepository { return &requestRepo{db: db} }

func (r *requestRepo) Create(ctx context.Context, req *model.TransportRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TransportRequest, error) {
	var req model.TransportRequest
	err := r.db.WithContext(ctx).Preload("Route").First(&req, id).Error
	return &req, err
}

func (r *requestRepo) List(ctx context.Context, filter dto.RequestFilter) ([]model.TransportRequest, int64, error) {
	var requests []model.TransportRequest
	var total int64

	q := r.db.WithContext(ctx).Model(&model.TransportRequest{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Route").Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&requests).Error
	return requests, total, err
}

func (r *requestRepo) Update(ctx context.Context, req *model.TransportRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *requestRepo) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.RequestStatus) error {
	res := r.db.WithContext(ctx).Model(&model.TransportRequest{}).
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

func (r *requestRepo) SetRoute(ctx context.Context, id, routeID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.TransportRequest{}).
		Where("id = ?", id).
		Update("route_id", routeID).Error
}

func (r *requestRepo) CountByStatus(ctx context.Context) (map[model.RequestStatus]int64, error) {
	return countByStatus[model.RequestStatus](ctx, r.db, &model.TransportRequest{})
}
