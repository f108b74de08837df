package repository

import (
	"context"

	"cargohub/internal/dto"
	"cargohub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CarrierRepository interface {
	Create(ctx context.Context, c *model.Carrier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Carrier, error)
	FindByTruckID(ctx context.Context, truckID uuid.UUID) (*model.Carrier, error)
	List(ctx context.Context, filter dto.CarrierFilter) ([]model.Carrier, int64, error)
	Update(ctx context.Context, c *model.Carrier) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Conditional status writes — see ErrStaleStatus.
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.CarrierStatus) error
	BindTruckCAS(ctx context.Context, id, truckID uuid.UUID, from, to model.CarrierStatus) error
	ReleaseTruckCAS(ctx context.Context, id uuid.UUID, from, to model.CarrierStatus) error

	// ReleaseTruck clears the truck reference unconditionally. Used by the
	// cascade path, where the caller has already decided the resulting status.
	ReleaseTruck(ctx context.Context, id uuid.UUID, to model.CarrierStatus) error

	CountByStatus(ctx context.Context) (map[model.CarrierStatus]int64, error)
}

type carrierRepo struct{ db *gorm.DB }

func NewCarrierRepository(db *gorm.DB) CarrierRepository { return &carrierRepo{db: db} }

func (r *carrierRepo) Create(ctx context.Context, c *model.Carrier) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *carrierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Carrier, error) {
	var c model.Carrier
	err := r.db.WithContext(ctx).Preload("Truck").First(&c, id).Error
	return &c, err
}

func (r *carrierRepo) FindByTruckID(ctx context.Context, truckID uuid.UUID) (*model.Carrier, error) {
	var c model.Carrier
	err := r.db.WithContext(ctx).Where("truck_id = ?", truckID).First(&c).Error
	return &c, err
}

func (r *carrierRepo) List(ctx context.Context, filter dto.CarrierFilter) ([]model.Carrier, int64, error) {
	var carriers []model.Carrier
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Carrier{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Truck").Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&carriers).Error
	return carriers, total, err
}

func (r *carrierRepo) Update(ctx context.Context, c *model.Carrier) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *carrierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Carrier{}, id).Error
}

func (r *carrierRepo) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to model.CarrierStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Carrier{}).
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

func (r *carrierRepo) BindTruckCAS(ctx context.Context, id, truckID uuid.UUID, from, to model.CarrierStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Carrier{}).
		Where("id = ? AND status = ? AND truck_id IS NULL", id, from).
		Updates(map[string]interface{}{"status": to, "truck_id": truckID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *carrierRepo) ReleaseTruckCAS(ctx context.Context, id uuid.UUID, from, to model.CarrierStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Carrier{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "truck_id": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *carrierRepo) ReleaseTruck(ctx context.Context, id uuid.UUID, to model.CarrierStatus) error {
	return r.db.WithContext(ctx).Model(&model.Carrier{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": to, "truck_id": nil}).Error
}

func (r *carrierRepo) CountByStatus(ctx context.Context) (map[model.CarrierStatus]int64, error) {
	return countByStatus[model.CarrierStatus](ctx, r.db, &model.Carrier{})
}
