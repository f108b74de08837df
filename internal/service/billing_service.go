package service

import (
	"context"
	"time"

	"cargohub/internal/config"
	"cargohub/internal/dto"
	"cargohub/internal/infra"
	"cargohub/internal/model"
	"cargohub/internal/repository"
	"cargohub/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type BillingService interface {
	// ProvisionForRequest creates the invoice for a completed request. Calling
	// it again for the same request returns the existing invoice unchanged.
	ProvisionForRequest(ctx context.Context, requestID uuid.UUID) (*dto.BillingResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.BillingResponse, error)
	List(ctx context.Context, filter dto.BillingFilter) (*dto.BillingListResponse, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*dto.BillingResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.BillingResponse, error)
}

type billingService struct {
	repo        repository.BillingRepository
	requestRepo repository.RequestRepository
	pricer      infra.Pricer
	dispatcher  *worker.Dispatcher
	dueDays     int
}

func NewBillingService(
	repo repository.BillingRepository,
	requestRepo repository.RequestRepository,
	pricer infra.Pricer,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) BillingService {
	dueDays := 30
	if cfg != nil && cfg.InvoiceDueDays > 0 {
		dueDays = cfg.InvoiceDueDays
	}
	return &billingService{
		repo:        repo,
		requestRepo: requestRepo,
		pricer:      pricer,
		dispatcher:  dispatcher,
		dueDays:     dueDays,
	}
}

func (s *billingService) ProvisionForRequest(ctx context.Context, requestID uuid.UUID) (*dto.BillingResponse, error) {
	// Dedup probe: the unique index on request_id is the hard guarantee, this
	// check just avoids the insert round-trip on repeat notifications.
	if existing, err := s.repo.FindByRequestID(ctx, requestID); err == nil && existing != nil {
		return billingToResponse(existing), nil
	}

	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, &NotFoundError{Entity: "request", ID: requestID}
	}

	amount, err := s.pricer.Quote(ctx, req.DistanceKm, req.Priority)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &model.Billing{
		ClientID:  req.ClientID,
		RequestID: requestID,
		Amount:    amount,
		IssuedAt:  now,
		DueAt:     now.AddDate(0, 0, s.dueDays),
		Status:    model.BillingPending,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		// A concurrent provision may have won the insert race.
		if existing, ferr := s.repo.FindByRequestID(ctx, requestID); ferr == nil && existing != nil {
			return billingToResponse(existing), nil
		}
		return nil, err
	}

	if s.dispatcher != nil {
		payload := worker.InvoiceJobPayload{BillingID: b.ID.String()}
		if err := s.dispatcher.EnqueueInvoice(ctx, payload); err != nil {
			log.Warn().Err(err).Str("billing_id", b.ID.String()).Msg("failed to enqueue invoice job")
		}
	}

	return billingToResponse(b), nil
}

func (s *billingService) Get(ctx context.Context, id uuid.UUID) (*dto.BillingResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "billing", ID: id}
	}
	return billingToResponse(b), nil
}

func (s *billingService) List(ctx context.Context, filter dto.BillingFilter) (*dto.BillingListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	bills, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BillingResponse, 0, len(bills))
	for i := range bills {
		items = append(items, *billingToResponse(&bills[i]))
	}
	return &dto.BillingListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *billingService) MarkPaid(ctx context.Context, id uuid.UUID) (*dto.BillingResponse, error) {
	return s.setStatus(ctx, id, model.BillingPaid)
}

func (s *billingService) Cancel(ctx context.Context, id uuid.UUID) (*dto.BillingResponse, error) {
	return s.setStatus(ctx, id, model.BillingCancelled)
}

func (s *billingService) setStatus(ctx context.Context, id uuid.UUID, target model.BillingStatus) (*dto.BillingResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "billing", ID: id}
	}
	if b.Status == target {
		return billingToResponse(b), nil
	}
	if !canTransition(billingTransitions, b.Status, target) {
		return nil, &ConflictError{
			Entity: "billing", ID: id,
			Current: string(b.Status), Attempted: string(target),
			Rule: "transition not allowed",
		}
	}
	if err := s.repo.UpdateStatusCAS(ctx, id, b.Status, target); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, &ConflictError{
				Entity: "billing", ID: id,
				Current: string(b.Status), Attempted: string(target),
				Rule: "status changed concurrently",
			}
		}
		return nil, err
	}
	b.Status = target
	return billingToResponse(b), nil
}

func billingToResponse(b *model.Billing) *dto.BillingResponse {
	return &dto.BillingResponse{
		ID:        b.ID.String(),
		ClientID:  b.ClientID.String(),
		RequestID: b.RequestID.String(),
		Amount:    b.Amount.StringFixed(2),
		IssuedAt:  b.IssuedAt.Format("2006-01-02T15:04:05Z"),
		DueAt:     b.DueAt.Format("2006-01-02T15:04:05Z"),
		Status:    string(b.Status),
	}
}
