package service

import (
	"context"
	"fmt"

	"cargohub/internal/dto"
	"cargohub/internal/model"
	"cargohub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CarrierService interface {
	Create(ctx context.Context, req dto.CreateCarrierRequest) (*dto.CarrierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CarrierResponse, error)
	List(ctx context.Context, filter dto.CarrierFilter) (*dto.CarrierListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCarrierRequest) (*dto.CarrierResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target model.CarrierStatus) (*dto.CarrierResponse, error)
	AssignTruck(ctx context.Context, id, truckID uuid.UUID) (*dto.CarrierResponse, error)
	UnassignTruck(ctx context.Context, id uuid.UUID) (*dto.CarrierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type carrierService struct {
	repo      repository.CarrierRepository
	truckRepo repository.TruckRepository
	routeRepo repository.RouteRepository
}

func NewCarrierService(
	repo repository.CarrierRepository,
	truckRepo repository.TruckRepository,
	routeRepo repository.RouteRepository,
) CarrierService {
	return &carrierService{repo: repo, truckRepo: truckRepo, routeRepo: routeRepo}
}

func (s *carrierService) Create(ctx context.Context, req dto.CreateCarrierRequest) (*dto.CarrierResponse, error) {
	c := &model.Carrier{
		Name:          req.Name,
		DNI:           req.DNI,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
		Status:        model.CarrierAvailable,
	}
	if req.UserID != nil {
		uid, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, &ValidationError{Field: "user_id", Detail: "must be a valid UUID"}
		}
		c.UserID = &uid
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return carrierToResponse(c), nil
}

func (s *carrierService) Get(ctx context.Context, id uuid.UUID) (*dto.CarrierResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "carrier", ID: id}
	}
	return carrierToResponse(c), nil
}

func (s *carrierService) List(ctx context.Context, filter dto.CarrierFilter) (*dto.CarrierListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	carriers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CarrierResponse, 0, len(carriers))
	for i := range carriers {
		items = append(items, *carrierToResponse(&carriers[i]))
	}
	return &dto.CarrierListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *carrierService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCarrierRequest) (*dto.CarrierResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "carrier", ID: id}
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return carrierToResponse(c), nil
}

// UpdateStatus applies a manually requested status change. The handler layer
// restricts targets to resting/available/inactive; assigned and on_route are
// reachable only through assignment and route operations.
func (s *carrierService) UpdateStatus(ctx context.Context, id uuid.UUID, target model.CarrierStatus) (*dto.CarrierResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "carrier", ID: id}
	}
	if c.Status == target {
		return carrierToResponse(c), nil
	}
	if !canTransition(carrierTransitions, c.Status, target) {
		return nil, &ConflictError{
			Entity: "carrier", ID: id,
			Current: string(c.Status), Attempted: string(target),
			Rule: "transition not allowed",
		}
	}
	// A carrier may only leave assigned with its truck released first; any
	// other status must never hold a truck reference.
	if c.Status == model.CarrierAssigned && c.TruckID != nil {
		return nil, &ConflictError{
			Entity: "carrier", ID: id,
			Current: string(c.Status), Attempted: string(target),
			Rule: "release the truck before leaving assigned",
		}
	}
	if err := s.repo.UpdateStatusCAS(ctx, id, c.Status, target); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "carrier", ID: id,
				Current: string(c.Status), Attempted: string(target),
				Rule: "status changed concurrently",
			}
		}
		return nil, err
	}
	c.Status = target
	return carrierToResponse(c), nil
}

// ── AssignTruck ───────────────────────────────────────────────────────────────
// Binds a truck to a carrier. Both sides move available → assigned; the truck
// is claimed first so that two concurrent assignments of the same truck race
// on a single conditional update. If the carrier-side update then fails, the
// truck claim is rolled back.

func (s *carrierService) AssignTruck(ctx context.Context, id, truckID uuid.UUID) (*dto.CarrierResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "carrier", ID: id}
	}
	t, err := s.truckRepo.FindByID(ctx, truckID)
	if err != nil {
		return nil, &NotFoundError{Entity: "truck", ID: truckID}
	}

	if c.TruckID != nil {
		return nil, &ConflictError{
			Entity: "carrier", ID: id, Current: string(c.Status),
			Rule: "carrier already has a truck assigned",
		}
	}
	if c.Status != model.CarrierAvailable {
		return nil, &ConflictError{
			Entity: "carrier", ID: id, Current: string(c.Status),
			Attempted: string(model.CarrierAssigned),
			Rule:      "only an available carrier can take a truck",
		}
	}
	if t.Status != model.TruckAvailable || t.CarrierID != nil {
		return nil, &ConflictError{
			Entity: "truck", ID: truckID, Current: string(t.Status),
			Attempted: string(model.TruckAssigned),
			Rule:      "truck is not available",
		}
	}

	// Claim the truck first.
	if err := s.truckRepo.BindCarrierCAS(ctx, truckID, id, model.TruckAvailable, model.TruckAssigned); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "truck", ID: truckID, Current: string(t.Status),
				Attempted: string(model.TruckAssigned),
				Rule:      "truck was claimed concurrently",
			}
		}
		return nil, err
	}

	// Then the carrier; roll the truck back if the carrier moved meanwhile.
	if err := s.repo.BindTruckCAS(ctx, id, truckID, model.CarrierAvailable, model.CarrierAssigned); err != nil {
		if rbErr := s.truckRepo.ReleaseCarrier(ctx, truckID, model.TruckAvailable); rbErr != nil {
			log.Error().Err(rbErr).
				Str("truck_id", truckID.String()).
				Msg("assign rollback failed, truck left assigned without carrier binding")
		}
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "carrier", ID: id, Current: string(c.Status),
				Attempted: string(model.CarrierAssigned),
				Rule:      "carrier status changed concurrently",
			}
		}
		return nil, err
	}

	c.Status = model.CarrierAssigned
	c.TruckID = &truckID
	t.Status = model.TruckAssigned
	t.CarrierID = &id
	c.Truck = t
	return carrierToResponse(c), nil
}

// ── UnassignTruck ─────────────────────────────────────────────────────────────

func (s *carrierService) UnassignTruck(ctx context.Context, id uuid.UUID) (*dto.CarrierResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "carrier", ID: id}
	}
	if c.TruckID == nil {
		return nil, &ConflictError{
			Entity: "carrier", ID: id, Current: string(c.Status),
			Rule: "carrier has no truck assigned",
		}
	}
	if c.Status == model.CarrierOnRoute {
		return nil, &ConflictError{
			Entity: "carrier", ID: id, Current: string(c.Status),
			Rule: "cannot release a truck while on route",
		}
	}
	truckID := *c.TruckID

	if err := s.truckRepo.ReleaseCarrierCAS(ctx, truckID, model.TruckAssigned, model.TruckAvailable); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "truck", ID: truckID,
				Rule: "truck status changed concurrently",
			}
		}
		return nil, err
	}
	if err := s.repo.ReleaseTruckCAS(ctx, id, model.CarrierAssigned, model.CarrierAvailable); err != nil {
		// Re-claim the truck so both sides stay consistent.
		if rbErr := s.truckRepo.BindCarrierCAS(ctx, truckID, id, model.TruckAvailable, model.TruckAssigned); rbErr != nil {
			log.Error().Err(rbErr).
				Str("carrier_id", id.String()).
				Str("truck_id", truckID.String()).
				Msg("unassign rollback failed")
		}
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "carrier", ID: id, Current: string(c.Status),
				Rule: "carrier status changed concurrently",
			}
		}
		return nil, err
	}

	c.Status = model.CarrierAvailable
	c.TruckID = nil
	c.Truck = nil
	return carrierToResponse(c), nil
}

// ── Delete ────────────────────────────────────────────────────────────────────
// Removing a carrier releases its truck and detaches it from every route it
// still appears on. Routes already in transit block the deletion: those steps
// are reported through PartialFailure so an operator can intervene.

func (s *carrierService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &NotFoundError{Entity: "carrier", ID: id}
	}

	var completed []string
	var failed []StepError

	routes, err := s.routeRepo.ListByCarrier(ctx, id)
	if err != nil {
		return err
	}
	for i := range routes {
		rt := &routes[i]
		if rt.Status == model.RouteInTransit {
			failed = append(failed, StepError{
				Step: fmt.Sprintf("detach route %s", rt.ID),
				Err:  &ConflictError{Entity: "route", ID: rt.ID, Current: string(rt.Status), Rule: "route is in transit"},
			})
			continue
		}
		if err := s.routeRepo.ClearCarrier(ctx, rt.ID); err != nil {
			failed = append(failed, StepError{Step: fmt.Sprintf("detach route %s", rt.ID), Err: err})
			continue
		}
		completed = append(completed, fmt.Sprintf("detached route %s", rt.ID))
	}

	if c.TruckID != nil {
		if err := s.truckRepo.ReleaseCarrier(ctx, *c.TruckID, model.TruckAvailable); err != nil {
			failed = append(failed, StepError{Step: "release truck", Err: err})
		} else {
			completed = append(completed, fmt.Sprintf("released truck %s", c.TruckID))
		}
	}

	if len(failed) > 0 {
		return &PartialFailure{Op: "delete carrier", Completed: completed, Failed: failed}
	}
	return s.repo.Delete(ctx, id)
}

func carrierToResponse(c *model.Carrier) *dto.CarrierResponse {
	resp := &dto.CarrierResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		DNI:           c.DNI,
		LicenseNumber: c.LicenseNumber,
		Phone:         c.Phone,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if c.TruckID != nil {
		tid := c.TruckID.String()
		resp.TruckID = &tid
	}
	if c.Truck != nil {
		resp.Truck = truckToResponse(c.Truck)
	}
	return resp
}
