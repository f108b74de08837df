package service

import (
	"context"
	"time"

	"cargohub/internal/dto"
	"cargohub/internal/model"
	"cargohub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type RequestService interface {
	Create(ctx context.Context, req dto.CreateTransportRequest) (*dto.TransportRequestResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TransportRequestResponse, error)
	List(ctx context.Context, filter dto.RequestFilter) (*dto.RequestListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target model.RequestStatus) (*dto.TransportRequestResponse, error)
}

type requestService struct {
	repo       repository.RequestRepository
	routeRepo  repository.RouteRepository
	clientRepo repository.ClientRepository
}

func NewRequestService(
	repo repository.RequestRepository,
	routeRepo repository.RouteRepository,
	clientRepo repository.ClientRepository,
) RequestService {
	return &requestService{repo: repo, routeRepo: routeRepo, clientRepo: clientRepo}
}

// ── Create ────────────────────────────────────────────────────────────────────
// Accepting a transport request provisions its route in the same call: the
// request is stored first, then an issued route carrying the same origin,
// destination and distance, then the two are linked. A request without a
// route only exists transiently inside this method.

func (s *requestService) Create(ctx context.Context, req dto.CreateTransportRequest) (*dto.TransportRequestResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, &ValidationError{Field: "client_id", Detail: "must be a valid UUID"}
	}
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, &NotFoundError{Entity: "client", ID: clientID}
	}
	if !client.Active {
		return nil, &ConflictError{
			Entity: "client", ID: clientID,
			Rule: "client account is deactivated",
		}
	}

	distance, err := decimal.NewFromString(req.DistanceKm)
	if err != nil || distance.IsNegative() || distance.IsZero() {
		return nil, &ValidationError{Field: "distance_km", Detail: "must be a positive decimal"}
	}
	deliveryDate, err := time.Parse("2006-01-02", req.RequestedDeliveryDate)
	if err != nil {
		return nil, &ValidationError{Field: "requested_delivery_date", Detail: "must be YYYY-MM-DD"}
	}
	if deliveryDate.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		return nil, &ValidationError{Field: "requested_delivery_date", Detail: "must not be in the past"}
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	tr := &model.TransportRequest{
		ClientID:              clientID,
		Origin:                req.Origin,
		Destination:           req.Destination,
		DistanceKm:            distance,
		RequestedDeliveryDate: deliveryDate,
		Status:                model.RequestIssued,
		Priority:              priority,
	}
	if err := s.repo.Create(ctx, tr); err != nil {
		return nil, err
	}

	rt := &model.Route{
		Origin:           req.Origin,
		Destination:      req.Destination,
		DistanceKm:       distance,
		EstimatedMinutes: req.EstimatedMinutes,
		Status:           model.RouteIssued,
		RequestID:        &tr.ID,
	}
	if err := s.routeRepo.Create(ctx, rt); err != nil {
		return nil, err
	}
	if err := s.repo.SetRoute(ctx, tr.ID, rt.ID); err != nil {
		return nil, err
	}

	tr.RouteID = &rt.ID
	tr.Route = rt
	return requestToResponse(tr), nil
}

func (s *requestService) Get(ctx context.Context, id uuid.UUID) (*dto.TransportRequestResponse, error) {
	tr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "request", ID: id}
	}
	return requestToResponse(tr), nil
}

func (s *requestService) List(ctx context.Context, filter dto.RequestFilter) (*dto.RequestListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransportRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, *requestToResponse(&requests[i]))
	}
	return &dto.RequestListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// UpdateStatus applies a requested transition. Two rules sit on top of the
// transition table:
//   - "done" requires the linked route to be done already
//   - "cancelled" is refused while the route is in transit; otherwise the route
//     is detached from its carrier and soft-deleted
func (s *requestService) UpdateStatus(ctx context.Context, id uuid.UUID, target model.RequestStatus) (*dto.TransportRequestResponse, error) {
	tr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "request", ID: id}
	}
	if tr.Status == target {
		return requestToResponse(tr), nil
	}
	if !canTransition(requestTransitions, tr.Status, target) {
		return nil, &ConflictError{
			Entity: "request", ID: id,
			Current: string(tr.Status), Attempted: string(target),
			Rule: "transition not allowed",
		}
	}

	var route *model.Route
	if tr.RouteID != nil {
		route, _ = s.routeRepo.FindByID(ctx, *tr.RouteID)
	}

	switch target {
	case model.RequestDone:
		if route == nil || route.Status != model.RouteDone {
			current := "missing"
			if route != nil {
				current = string(route.Status)
			}
			return nil, &ConflictError{
				Entity: "request", ID: id,
				Current: string(tr.Status), Attempted: string(target),
				Rule: "linked route is " + current + ", must be done",
			}
		}
	case model.RequestCancelled:
		if route != nil && route.Status == model.RouteInTransit {
			return nil, &ConflictError{
				Entity: "request", ID: id,
				Current: string(tr.Status), Attempted: string(target),
				Rule: "cannot cancel while the route is in transit",
			}
		}
	}

	if err := s.repo.UpdateStatusCAS(ctx, id, tr.Status, target); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "request", ID: id,
				Current: string(tr.Status), Attempted: string(target),
				Rule: "status changed concurrently",
			}
		}
		return nil, err
	}
	tr.Status = target

	if target == model.RequestCancelled && route != nil && route.Status != model.RouteDone {
		if route.CarrierID != nil {
			if err := s.routeRepo.ClearCarrier(ctx, route.ID); err != nil {
				log.Warn().Err(err).Str("route_id", route.ID.String()).Msg("failed to detach carrier from cancelled route")
			}
		}
		if err := s.routeRepo.SoftDelete(ctx, route.ID); err != nil {
			log.Warn().Err(err).Str("route_id", route.ID.String()).Msg("failed to remove route of cancelled request")
		}
	}

	return requestToResponse(tr), nil
}

func requestToResponse(tr *model.TransportRequest) *dto.TransportRequestResponse {
	resp := &dto.TransportRequestResponse{
		ID:                    tr.ID.String(),
		ClientID:              tr.ClientID.String(),
		Origin:                tr.Origin,
		Destination:           tr.Destination,
		DistanceKm:            tr.DistanceKm.StringFixed(2),
		RequestedDeliveryDate: tr.RequestedDeliveryDate.Format("2006-01-02"),
		Status:                string(tr.Status),
		Priority:              tr.Priority,
		CreatedAt:             tr.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if tr.RouteID != nil {
		rid := tr.RouteID.String()
		resp.RouteID = &rid
	}
	if tr.Route != nil {
		resp.Route = routeToResponse(tr.Route)
	}
	return resp
}
