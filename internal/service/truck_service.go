package service

import (
	"context"
	"fmt"

	"cargohub/internal/dto"
	"cargohub/internal/model"
	"cargohub/internal/repository"

	"github.com/google/uuid"
)

type TruckService interface {
	Create(ctx context.Context, req dto.CreateTruckRequest) (*dto.TruckResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TruckResponse, error)
	List(ctx context.Context, filter dto.TruckFilter) (*dto.TruckListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateTruckRequest) (*dto.TruckResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target model.TruckStatus) (*dto.TruckResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type truckService struct {
	repo        repository.TruckRepository
	carrierRepo repository.CarrierRepository
}

func NewTruckService(repo repository.TruckRepository, carrierRepo repository.CarrierRepository) TruckService {
	return &truckService{repo: repo, carrierRepo: carrierRepo}
}

func (s *truckService) Create(ctx context.Context, req dto.CreateTruckRequest) (*dto.TruckResponse, error) {
	if existing, err := s.repo.FindByPlate(ctx, req.LicensePlate); err == nil && existing != nil {
		return nil, &ValidationError{Field: "license_plate", Detail: "already registered"}
	}
	fuel := req.FuelType
	if fuel == "" {
		fuel = "diesel"
	}
	t := &model.Truck{
		LicensePlate: req.LicensePlate,
		Model:        req.Model,
		CapacityKg:   req.CapacityKg,
		FuelType:     fuel,
		Status:       model.TruckAvailable,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return truckToResponse(t), nil
}

func (s *truckService) Get(ctx context.Context, id uuid.UUID) (*dto.TruckResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "truck", ID: id}
	}
	return truckToResponse(t), nil
}

func (s *truckService) List(ctx context.Context, filter dto.TruckFilter) (*dto.TruckListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	trucks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TruckResponse, 0, len(trucks))
	for i := range trucks {
		items = append(items, *truckToResponse(&trucks[i]))
	}
	return &dto.TruckListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *truckService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTruckRequest) (*dto.TruckResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "truck", ID: id}
	}
	if req.Model != nil {
		t.Model = *req.Model
	}
	if req.CapacityKg != nil {
		t.CapacityKg = *req.CapacityKg
	}
	if req.FuelType != nil {
		t.FuelType = *req.FuelType
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return truckToResponse(t), nil
}

// UpdateStatus toggles a parked truck between available and maintenance. A
// truck that is assigned or on route follows its carrier and cannot be moved
// here.
func (s *truckService) UpdateStatus(ctx context.Context, id uuid.UUID, target model.TruckStatus) (*dto.TruckResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "truck", ID: id}
	}
	if t.Status == target {
		return truckToResponse(t), nil
	}
	if !canTransition(truckTransitions, t.Status, target) {
		return nil, &ConflictError{
			Entity: "truck", ID: id,
			Current: string(t.Status), Attempted: string(target),
			Rule: "transition not allowed",
		}
	}
	if err := s.repo.UpdateStatusCAS(ctx, id, t.Status, target); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "truck", ID: id,
				Current: string(t.Status), Attempted: string(target),
				Rule: "status changed concurrently",
			}
		}
		return nil, err
	}
	t.Status = target
	return truckToResponse(t), nil
}

// Delete removes a truck. A bound carrier is released back to available
// unless it is on route, in which case the deletion is refused and reported
// as a partial failure.
func (s *truckService) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &NotFoundError{Entity: "truck", ID: id}
	}

	if t.CarrierID != nil {
		carrier, err := s.carrierRepo.FindByID(ctx, *t.CarrierID)
		if err != nil {
			return &PartialFailure{
				Op: "delete truck",
				Failed: []StepError{{
					Step: fmt.Sprintf("release carrier %s", *t.CarrierID),
					Err:  err,
				}},
			}
		}
		if carrier.Status == model.CarrierOnRoute {
			return &PartialFailure{
				Op: "delete truck",
				Failed: []StepError{{
					Step: fmt.Sprintf("release carrier %s", carrier.ID),
					Err:  &ConflictError{Entity: "carrier", ID: carrier.ID, Current: string(carrier.Status), Rule: "carrier is on route"},
				}},
			}
		}
		if relErr := s.carrierRepo.ReleaseTruck(ctx, carrier.ID, model.CarrierAvailable); relErr != nil {
			return relErr
		}
	}

	return s.repo.Delete(ctx, id)
}

func truckToResponse(t *model.Truck) *dto.TruckResponse {
	resp := &dto.TruckResponse{
		ID:           t.ID.String(),
		LicensePlate: t.LicensePlate,
		Model:        t.Model,
		CapacityKg:   t.CapacityKg,
		FuelType:     t.FuelType,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if t.CarrierID != nil {
		cid := t.CarrierID.String()
		resp.CarrierID = &cid
	}
	return resp
}
