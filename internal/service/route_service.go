package service

import (
	"context"

	"cargohub/internal/dto"
	"cargohub/internal/model"
	"cargohub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type RouteService interface {
	Create(ctx context.Context, req dto.CreateRouteRequest) (*dto.RouteResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.RouteResponse, error)
	List(ctx context.Context, filter dto.RouteFilter) (*dto.RouteListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateRouteRequest) (*dto.RouteResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignCarrier(ctx context.Context, id, carrierID uuid.UUID) (*dto.RouteResponse, error)
	UnassignCarrier(ctx context.Context, id uuid.UUID) (*dto.RouteResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target model.RouteStatus) (*dto.RouteResponse, error)
}

type routeService struct {
	repo        repository.RouteRepository
	carrierRepo repository.CarrierRepository
	truckRepo   repository.TruckRepository
	requestRepo repository.RequestRepository
	billing     BillingService
}

func NewRouteService(
	repo repository.RouteRepository,
	carrierRepo repository.CarrierRepository,
	truckRepo repository.TruckRepository,
	requestRepo repository.RequestRepository,
	billing BillingService,
) RouteService {
	return &routeService{
		repo:        repo,
		carrierRepo: carrierRepo,
		truckRepo:   truckRepo,
		requestRepo: requestRepo,
		billing:     billing,
	}
}

func (s *routeService) Create(ctx context.Context, req dto.CreateRouteRequest) (*dto.RouteResponse, error) {
	distance, err := decimal.NewFromString(req.DistanceKm)
	if err != nil || distance.IsNegative() || distance.IsZero() {
		return nil, &ValidationError{Field: "distance_km", Detail: "must be a positive decimal"}
	}
	rt := &model.Route{
		Origin:           req.Origin,
		Destination:      req.Destination,
		DistanceKm:       distance,
		EstimatedMinutes: req.EstimatedMinutes,
		Status:           model.RouteIssued,
	}
	if err := s.repo.Create(ctx, rt); err != nil {
		return nil, err
	}
	return routeToResponse(rt), nil
}

func (s *routeService) Get(ctx context.Context, id uuid.UUID) (*dto.RouteResponse, error) {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "route", ID: id}
	}
	return routeToResponse(rt), nil
}

func (s *routeService) List(ctx context.Context, filter dto.RouteFilter) (*dto.RouteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	routes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RouteResponse, 0, len(routes))
	for i := range routes {
		items = append(items, *routeToResponse(&routes[i]))
	}
	return &dto.RouteListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *routeService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRouteRequest) (*dto.RouteResponse, error) {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "route", ID: id}
	}
	if rt.Status == model.RouteInTransit || rt.Status == model.RouteDone {
		return nil, &ConflictError{
			Entity: "route", ID: id, Current: string(rt.Status),
			Rule: "route details are frozen once in transit",
		}
	}
	if req.Origin != nil {
		rt.Origin = *req.Origin
	}
	if req.Destination != nil {
		rt.Destination = *req.Destination
	}
	if req.DistanceKm != nil {
		distance, err := decimal.NewFromString(*req.DistanceKm)
		if err != nil || distance.IsNegative() || distance.IsZero() {
			return nil, &ValidationError{Field: "distance_km", Detail: "must be a positive decimal"}
		}
		rt.DistanceKm = distance
	}
	if req.EstimatedMinutes != nil {
		rt.EstimatedMinutes = *req.EstimatedMinutes
	}
	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}
	return routeToResponse(rt), nil
}

// Delete soft-deletes a route. Routes in transit cannot be removed.
func (s *routeService) Delete(ctx context.Context, id uuid.UUID) error {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &NotFoundError{Entity: "route", ID: id}
	}
	if rt.Status == model.RouteInTransit {
		return &ConflictError{
			Entity: "route", ID: id, Current: string(rt.Status),
			Rule: "cannot delete a route in transit",
		}
	}
	return s.repo.SoftDelete(ctx, id)
}

// ── AssignCarrier ─────────────────────────────────────────────────────────────
// Attaches a carrier (which must already hold a truck) to the route and moves
// the route issued → pending. The carrier reference is set first; if the
// status step then fails, the reference is cleared again.

func (s *routeService) AssignCarrier(ctx context.Context, id, carrierID uuid.UUID) (*dto.RouteResponse, error) {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "route", ID: id}
	}
	carrier, err := s.carrierRepo.FindByID(ctx, carrierID)
	if err != nil {
		return nil, &NotFoundError{Entity: "carrier", ID: carrierID}
	}

	if rt.CarrierID != nil {
		return nil, &ConflictError{
			Entity: "route", ID: id, Current: string(rt.Status),
			Rule: "route already has a carrier",
		}
	}
	if rt.Status != model.RouteIssued {
		return nil, &ConflictError{
			Entity: "route", ID: id, Current: string(rt.Status),
			Attempted: string(model.RoutePending),
			Rule:      "only an issued route can take a carrier",
		}
	}
	if carrier.Status != model.CarrierAssigned || carrier.TruckID == nil {
		return nil, &ConflictError{
			Entity: "carrier", ID: carrierID, Current: string(carrier.Status),
			Rule: "carrier must hold a truck to take a route",
		}
	}

	if err := s.repo.BindCarrier(ctx, id, carrierID); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "route", ID: id, Current: string(rt.Status),
				Rule: "route was assigned concurrently",
			}
		}
		return nil, err
	}
	if err := s.repo.UpdateStatusCAS(ctx, id, model.RouteIssued, model.RoutePending); err != nil {
		if clrErr := s.repo.ClearCarrier(ctx, id); clrErr != nil {
			log.Error().Err(clrErr).Str("route_id", id.String()).Msg("assign rollback failed")
		}
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "route", ID: id, Current: string(rt.Status),
				Attempted: string(model.RoutePending),
				Rule:      "route status changed concurrently",
			}
		}
		return nil, err
	}

	rt.CarrierID = &carrierID
	rt.Status = model.RoutePending
	return routeToResponse(rt), nil
}

func (s *routeService) UnassignCarrier(ctx context.Context, id uuid.UUID) (*dto.RouteResponse, error) {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "route", ID: id}
	}
	if rt.CarrierID == nil {
		return nil, &ConflictError{
			Entity: "route", ID: id, Current: string(rt.Status),
			Rule: "route has no carrier",
		}
	}
	if rt.Status != model.RoutePending {
		return nil, &ConflictError{
			Entity: "route", ID: id, Current: string(rt.Status),
			Rule: "carrier can only be released from a pending route",
		}
	}
	if err := s.repo.UpdateStatusCAS(ctx, id, model.RoutePending, model.RouteIssued); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "route", ID: id, Current: string(rt.Status),
				Rule: "route status changed concurrently",
			}
		}
		return nil, err
	}
	if err := s.repo.ClearCarrier(ctx, id); err != nil {
		return nil, err
	}
	rt.CarrierID = nil
	rt.Status = model.RouteIssued
	return routeToResponse(rt), nil
}

// ── UpdateStatus ──────────────────────────────────────────────────────────────
// Route status drives the rest of the fleet:
//
//	pending → in_transit   carrier and its truck go on_route, the linked
//	                       request moves to in_progress
//	in_transit → done      carrier and truck return to assigned, the linked
//	                       request moves to pending and an invoice is
//	                       provisioned (idempotently)
//
// The route row is flipped first; follow-up steps that fail are reported as a
// PartialFailure rather than rolled back, because the route state change is
// the fact of record.

func (s *routeService) UpdateStatus(ctx context.Context, id uuid.UUID, target model.RouteStatus) (*dto.RouteResponse, error) {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "route", ID: id}
	}
	if rt.Status == target {
		return routeToResponse(rt), nil
	}
	if !canTransition(routeTransitions, rt.Status, target) {
		return nil, &ConflictError{
			Entity: "route", ID: id,
			Current: string(rt.Status), Attempted: string(target),
			Rule: "transition not allowed",
		}
	}
	if (target == model.RouteInTransit || target == model.RoutePending) && rt.CarrierID == nil {
		return nil, &ConflictError{
			Entity: "route", ID: id,
			Current: string(rt.Status), Attempted: string(target),
			Rule: "route needs a carrier first",
		}
	}

	if err := s.repo.UpdateStatusCAS(ctx, id, rt.Status, target); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "route", ID: id,
				Current: string(rt.Status), Attempted: string(target),
				Rule: "status changed concurrently",
			}
		}
		return nil, err
	}
	rt.Status = target

	var failed []StepError
	var completed []string

	switch target {
	case model.RouteInTransit:
		completed, failed = s.departSideEffects(ctx, rt)
	case model.RouteDone:
		completed, failed = s.arriveSideEffects(ctx, rt)
	}

	if len(failed) > 0 {
		return routeToResponse(rt), &PartialFailure{
			Op:        "route status " + string(target),
			Completed: completed,
			Failed:    failed,
		}
	}
	return routeToResponse(rt), nil
}

func (s *routeService) departSideEffects(ctx context.Context, rt *model.Route) (completed []string, failed []StepError) {
	carrier, err := s.carrierRepo.FindByID(ctx, *rt.CarrierID)
	if err != nil {
		failed = append(failed, StepError{Step: "load carrier", Err: err})
		return
	}
	if err := s.carrierRepo.UpdateStatusCAS(ctx, carrier.ID, model.CarrierAssigned, model.CarrierOnRoute); err != nil {
		failed = append(failed, StepError{Step: "carrier on_route", Err: err})
	} else {
		completed = append(completed, "carrier on_route")
	}
	if carrier.TruckID != nil {
		if err := s.truckRepo.UpdateStatusCAS(ctx, *carrier.TruckID, model.TruckAssigned, model.TruckOnRoute); err != nil {
			failed = append(failed, StepError{Step: "truck on_route", Err: err})
		} else {
			completed = append(completed, "truck on_route")
		}
	}
	if rt.RequestID != nil {
		if err := s.requestRepo.UpdateStatusCAS(ctx, *rt.RequestID, model.RequestIssued, model.RequestInProgress); err != nil && err != repository.ErrStaleStatus {
			failed = append(failed, StepError{Step: "request in_progress", Err: err})
		} else {
			completed = append(completed, "request in_progress")
		}
	}
	return
}

func (s *routeService) arriveSideEffects(ctx context.Context, rt *model.Route) (completed []string, failed []StepError) {
	carrier, err := s.carrierRepo.FindByID(ctx, *rt.CarrierID)
	if err != nil {
		failed = append(failed, StepError{Step: "load carrier", Err: err})
	} else {
		if err := s.carrierRepo.UpdateStatusCAS(ctx, carrier.ID, model.CarrierOnRoute, model.CarrierAssigned); err != nil {
			failed = append(failed, StepError{Step: "carrier assigned", Err: err})
		} else {
			completed = append(completed, "carrier assigned")
		}
		if carrier.TruckID != nil {
			if err := s.truckRepo.UpdateStatusCAS(ctx, *carrier.TruckID, model.TruckOnRoute, model.TruckAssigned); err != nil {
				failed = append(failed, StepError{Step: "truck assigned", Err: err})
			} else {
				completed = append(completed, "truck assigned")
			}
		}
	}

	if rt.RequestID != nil {
		if err := s.requestRepo.UpdateStatusCAS(ctx, *rt.RequestID, model.RequestInProgress, model.RequestPending); err != nil && err != repository.ErrStaleStatus {
			failed = append(failed, StepError{Step: "request pending", Err: err})
		} else {
			completed = append(completed, "request pending")
		}
		if s.billing != nil {
			if _, err := s.billing.ProvisionForRequest(ctx, *rt.RequestID); err != nil {
				failed = append(failed, StepError{Step: "provision invoice", Err: err})
			} else {
				completed = append(completed, "invoice provisioned")
			}
		}
	}
	return
}

func routeToResponse(rt *model.Route) *dto.RouteResponse {
	resp := &dto.RouteResponse{
		ID:               rt.ID.String(),
		Origin:           rt.Origin,
		Destination:      rt.Destination,
		DistanceKm:       rt.DistanceKm.StringFixed(2),
		EstimatedMinutes: rt.EstimatedMinutes,
		Status:           string(rt.Status),
		CreatedAt:        rt.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if rt.CarrierID != nil {
		cid := rt.CarrierID.String()
		resp.CarrierID = &cid
	}
	if rt.RequestID != nil {
		rid := rt.RequestID.String()
		resp.RequestID = &rid
	}
	return resp
}
