package repository

import (
	"context"

	"cargohub/internal/dto"
	"cargohub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RouteRepository interface {
	Create(ctx context.Context, rt *model.Route) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Route, error)
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Route, error)
	List(ctx context.Context, filter dto.RouteFilter) ([]model.Route, int64, error)
	ListByCarrier(ctx context.Context, carrierID uuid.UUID) ([]model.Route, error)
	Update(ctx context.Context, rt *model.Route) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.RouteStatus) error

	// BindCarrier is conditional on the route having no carrier yet and not
	// being done; zero affected rows surfaces as ErrStaleStatus.
	BindCarrier(ctx context.Context, id, carrierID uuid.UUID) error
	ClearCarrier(ctx context.Context, id uuid.UUID) error

	CountByStatus(ctx context.Context) (map[model.RouteStatus]int64, error)
}

type routeRepo struct{ db *gorm.DB }

func NewRouteRepository(db *gorm.DB) RouteRepository { return &routeRepo{db: db} }

func (r *routeRepo) Create(ctx context.Context, rt *model.Route) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *routeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Route, error) {
	var rt model.Route
	err := r.db.WithContext(ctx).First(&rt, id).Error
	return &rt, err
}

func (r *routeRepo) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Route, error) {
	var rt model.Route
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&rt).Error
	return &rt, err
}

func (r *routeRepo) List(ctx context.Context, filter dto.RouteFilter) ([]model.Route, int64, error) {
	var routes []model.Route
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Route{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CarrierID != "" {
		q = q.Where("carrier_id = ?", filter.CarrierID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&routes).Error
	return routes, total, err
}

func (r *routeRepo) ListByCarrier(ctx context.Context, carrierID uuid.UUID) ([]model.Route, error) {
	var routes []model.Route
	err := r.db.WithContext(ctx).Where("carrier_id = ?", carrierID).Find(&routes).Error
	return routes, err
}

func (r *routeRepo) Update(ctx context.Context, rt *model.Route) error {
	return r.db.WithContext(ctx).Save(rt).Error
}

func (r *routeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Route{}, id).Error
}

func (r *routeRepo) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.RouteStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Route{}).
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

func (r *routeRepo) BindCarrier(ctx context.Context, id, carrierID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Route{}).
		Where("id = ? AND carrier_id IS NULL AND status <> ?", id, model.RouteDone).
		Update("carrier_id", carrierID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *routeRepo) ClearCarrier(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Route{}).
		Where("id = ?", id).
		Update("carrier_id", nil).Error
}

func (r *routeRepo) CountByStatus(ctx context.Context) (map[model.RouteStatus]int64, error) {
	return countByStatus[model.RouteStatus](ctx, r.db, &model.Route{})
}
