package service

import (
	"context"

	"cargohub/internal/dto"
	"cargohub/internal/repository"
)

// DashboardService aggregates per-status counts across the fleet for the
// operations overview endpoint.
type DashboardService interface {
	Overview(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	carrierRepo repository.CarrierRepository
	truckRepo   repository.TruckRepository
	routeRepo   repository.RouteRepository
	requestRepo repository.RequestRepository
	billingRepo repository.BillingRepository
}

func NewDashboardService(
	carrierRepo repository.CarrierRepository,
	truckRepo repository.TruckRepository,
	routeRepo repository.RouteRepository,
	requestRepo repository.RequestRepository,
	billingRepo repository.BillingRepository,
) DashboardService {
	return &dashboardService{
		carrierRepo: carrierRepo,
		truckRepo:   truckRepo,
		routeRepo:   routeRepo,
		requestRepo: requestRepo,
		billingRepo: billingRepo,
	}
}

func (s *dashboardService) Overview(ctx context.Context) (*dto.DashboardResponse, error) {
	carriers, err := s.carrierRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	trucks, err := s.truckRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	routes, err := s.routeRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	billing, err := s.billingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Carriers: stringKeys(carriers),
		Trucks:   stringKeys(trucks),
		Routes:   stringKeys(routes),
		Requests: stringKeys(requests),
		Billing:  stringKeys(billing),
	}, nil
}

func stringKeys[S ~string](in map[S]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}
