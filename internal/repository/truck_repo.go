package repository

import (
	"context"

	"cargohub/internal/dto"
	"cargohub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TruckRepository interface {
	Create(ctx context.Context, t *model.Truck) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Truck, error)
	FindByPlate(ctx context.Context, plate string) (*model.Truck, error)
	List(ctx context.Context, filter dto.TruckFilter) ([]model.Truck, int64, error)
	Update(ctx context.Context, t *model.Truck) error
	Delete(ctx context.Context, id uuid.UUID) error

	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.TruckStatus) error
	BindCarrierCAS(ctx context.Context, id, carrierID uuid.UUID, from, to model.TruckStatus) error
	ReleaseCarrierCAS(ctx context.Context, id uuid.UUID, from, to model.TruckStatus) error

	// ReleaseCarrier clears the carrier reference unconditionally (cascade path).
	ReleaseCarrier(ctx context.Context, id uuid.UUID, to model.TruckStatus) error

	CountByStatus(ctx context.Context) (map[model.TruckStatus]int64, error)
}

type truckRepo struct{ db *gorm.DB }

func NewTruckRepository(db *gorm.DB) TruckRepository { return &truckRepo{db: db} }

func (r *truckRepo) Create(ctx context.Context, t *model.Truck) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *truckRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Truck, error) {
	var t model.Truck
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *truckRepo) FindByPlate(ctx context.Context, plate string) (*model.Truck, error) {
	var t model.Truck
	err := r.db.WithContext(ctx).Where("license_plate = ?", plate).First(&t).Error
	return &t, err
}

func (r *truckRepo) List(ctx context.Context, filter dto.TruckFilter) ([]model.Truck, int64, error) {
	var trucks []model.Truck
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Truck{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.FuelType != "" {
		q = q.Where("fuel_type = ?", filter.FuelType)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("license_plate ASC").Limit(filter.Limit).Offset(offset).Find(&trucks).Error
	return trucks, total, err
}

func (r *truckRepo) Update(ctx context.Context, t *model.Truck) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *truckRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Truck{}, id).Error
}

func (r *truckRepo) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.TruckStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Truck{}).
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

func (r *truckRepo) BindCarrierCAS(ctx context.Context, id, carrierID uuid.UUID, from, to model.TruckStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Truck{}).
		Where("id = ? AND status = ? AND carrier_id IS NULL", id, from).
		Updates(map[string]interface{}{"status": to, "carrier_id": carrierID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *truckRepo) ReleaseCarrierCAS(ctx context.Context, id uuid.UUID, from, to model.TruckStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Truck{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "carrier_id": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *truckRepo) ReleaseCarrier(ctx context.Context, id uuid.UUID, to model.TruckStatus) error {
	return r.db.WithContext(ctx).Model(&model.Truck{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": to, "carrier_id": nil}).Error
}

func (r *truckRepo) CountByStatus(ctx context.Context) (map[model.TruckStatus]int64, error) {
	return countByStatus[model.TruckStatus](ctx, r.db, &model.Truck{})
}
