package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"cargohub/internal/dto"
	"cargohub/internal/infra"
	"cargohub/internal/model"
	"cargohub/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── In-memory repository stubs ────────────────────────────────────────────────
// The conditional-update methods mirror the SQL semantics: the write only
// lands when the current row still matches the expected status, otherwise
// repository.ErrStaleStatus comes back. A mutex makes them safe for the
// concurrency tests.

type stubCarrierRepo struct {
	mu       sync.Mutex
	carriers map[uuid.UUID]*model.Carrier
}

func newStubCarrierRepo() *stubCarrierRepo {
	return &stubCarrierRepo{carriers: make(map[uuid.UUID]*model.Carrier)}
}

func (r *stubCarrierRepo) seed(c *model.Carrier) *model.Carrier {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.carriers[c.ID] = c
	return c
}

func (r *stubCarrierRepo) Create(_ context.Context, c *model.Carrier) error {
	r.seed(c)
	return nil
}

func (r *stubCarrierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Carrier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carriers[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *c
	return &cp, nil
}

func (r *stubCarrierRepo) FindByTruckID(_ context.Context, truckID uuid.UUID) (*model.Carrier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.carriers {
		if c.TruckID != nil && *c.TruckID == truckID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubCarrierRepo) List(_ context.Context, filter dto.CarrierFilter) ([]model.Carrier, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Carrier
	for _, c := range r.carriers {
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCarrierRepo) Update(_ context.Context, c *model.Carrier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carriers[c.ID] = c
	return nil
}

func (r *stubCarrierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carriers, id)
	return nil
}

func (r *stubCarrierRepo) UpdateStatusCAS(_ context.Context, id uuid.UUID, from, to model.CarrierStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carriers[id]
	if !ok || c.Status != from {
		return repository.ErrStaleStatus
	}
	c.Status = to
	return nil
}

func (r *stubCarrierRepo) BindTruckCAS(_ context.Context, id, truckID uuid.UUID, from, to model.CarrierStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carriers[id]
	if !ok || c.Status != from || c.TruckID != nil {
		return repository.ErrStaleStatus
	}
	c.Status = to
	c.TruckID = &truckID
	return nil
}

func (r *stubCarrierRepo) ReleaseTruckCAS(_ context.Context, id uuid.UUID, from, to model.CarrierStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carriers[id]
	if !ok || c.Status != from {
		return repository.ErrStaleStatus
	}
	c.Status = to
	c.TruckID = nil
	return nil
}

func (r *stubCarrierRepo) ReleaseTruck(_ context.Context, id uuid.UUID, to model.CarrierStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carriers[id]
	if !ok {
		return errors.New("record not found")
	}
	c.Status = to
	c.TruckID = nil
	return nil
}

func (r *stubCarrierRepo) CountByStatus(_ context.Context) (map[model.CarrierStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[model.CarrierStatus]int64)
	for _, c := range r.carriers {
		out[c.Status]++
	}
	return out, nil
}

var _ repository.CarrierRepository = (*stubCarrierRepo)(nil)

type stubTruckRepo struct {
	mu     sync.Mutex
	trucks map[uuid.UUID]*model.Truck
}

func newStubTruckRepo() *stubTruckRepo {
	return &stubTruckRepo{trucks: make(map[uuid.UUID]*model.Truck)}
}

func (r *stubTruckRepo) seed(t *model.Truck) *model.Truck {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.trucks[t.ID] = t
	return t
}

func (r *stubTruckRepo) Create(_ context.Context, t *model.Truck) error {
	r.seed(t)
	return nil
}

func (r *stubTruckRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Truck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trucks[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *t
	return &cp, nil
}

func (r *stubTruckRepo) FindByPlate(_ context.Context, plate string) (*model.Truck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trucks {
		if t.LicensePlate == plate {
			cp := *t
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubTruckRepo) List(_ context.Context, filter dto.TruckFilter) ([]model.Truck, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Truck
	for _, t := range r.trucks {
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTruckRepo) Update(_ context.Context, t *model.Truck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trucks[t.ID] = t
	return nil
}

func (r *stubTruckRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trucks, id)
	return nil
}

func (r *stubTruckRepo) UpdateStatusCAS(_ context.Context, id uuid.UUID, from, to model.TruckStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trucks[id]
	if !ok || t.Status != from {
		return repository.ErrStaleStatus
	}
	t.Status = to
	return nil
}

func (r *stubTruckRepo) BindCarrierCAS(_ context.Context, id, carrierID uuid.UUID, from, to model.TruckStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trucks[id]
	if !ok || t.Status != from || t.CarrierID != nil {
		return repository.ErrStaleStatus
	}
	t.Status = to
	t.CarrierID = &carrierID
	return nil
}

func (r *stubTruckRepo) ReleaseCarrierCAS(_ context.Context, id uuid.UUID, from, to model.TruckStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trucks[id]
	if !ok || t.Status != from {
		return repository.ErrStaleStatus
	}
	t.Status = to
	t.CarrierID = nil
	return nil
}

func (r *stubTruckRepo) ReleaseCarrier(_ context.Context, id uuid.UUID, to model.TruckStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trucks[id]
	if !ok {
		return errors.New("record not found")
	}
	t.Status = to
	t.CarrierID = nil
	return nil
}

func (r *stubTruckRepo) CountByStatus(_ context.Context) (map[model.TruckStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[model.TruckStatus]int64)
	for _, t := range r.trucks {
		out[t.Status]++
	}
	return out, nil
}

var _ repository.TruckRepository = (*stubTruckRepo)(nil)

type stubRouteRepo struct {
	mu     sync.Mutex
	routes map[uuid.UUID]*model.Route
}

func newStubRouteRepo() *stubRouteRepo {
	return &stubRouteRepo{routes: make(map[uuid.UUID]*model.Route)}
}

func (r *stubRouteRepo) seed(rt *model.Route) *model.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	r.routes[rt.ID] = rt
	return rt
}

func (r *stubRouteRepo) Create(_ context.Context, rt *model.Route) error {
	r.seed(rt)
	return nil
}

func (r *stubRouteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routes[id]
	if !ok || rt.DeletedAt.Valid {
		return nil, errors.New("record not found")
	}
	cp := *rt
	return &cp, nil
}

func (r *stubRouteRepo) FindByRequestID(_ context.Context, requestID uuid.UUID) (*model.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rt := range r.routes {
		if rt.RequestID != nil && *rt.RequestID == requestID && !rt.DeletedAt.Valid {
			cp := *rt
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubRouteRepo) List(_ context.Context, filter dto.RouteFilter) ([]model.Route, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Route
	for _, rt := range r.routes {
		if rt.DeletedAt.Valid {
			continue
		}
		if filter.Status != "" && string(rt.Status) != filter.Status {
			continue
		}
		out = append(out, *rt)
	}
	return out, int64(len(out)), nil
}

func (r *stubRouteRepo) ListByCarrier(_ context.Context, carrierID uuid.UUID) ([]model.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Route
	for _, rt := range r.routes {
		if rt.CarrierID != nil && *rt.CarrierID == carrierID && !rt.DeletedAt.Valid {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (r *stubRouteRepo) Update(_ context.Context, rt *model.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[rt.ID] = rt
	return nil
}

func (r *stubRouteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routes[id]
	if !ok {
		return errors.New("record not found")
	}
	rt.DeletedAt.Time = time.Now()
	rt.DeletedAt.Valid = true
	return nil
}

func (r *stubRouteRepo) UpdateStatusCAS(_ context.Context, id uuid.UUID, from, to model.RouteStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routes[id]
	if !ok || rt.Status != from {
		return repository.ErrStaleStatus
	}
	rt.Status = to
	return nil
}

func (r *stubRouteRepo) BindCarrier(_ context.Context, id, carrierID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routes[id]
	if !ok || rt.CarrierID != nil || rt.Status == model.RouteDone {
		return repository.ErrStaleStatus
	}
	rt.CarrierID = &carrierID
	return nil
}

func (r *stubRouteRepo) ClearCarrier(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routes[id]
	if !ok {
		return errors.New("record not found")
	}
	rt.CarrierID = nil
	return nil
}

func (r *stubRouteRepo) CountByStatus(_ context.Context) (map[model.RouteStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[model.RouteStatus]int64)
	for _, rt := range r.routes {
		if !rt.DeletedAt.Valid {
			out[rt.Status]++
		}
	}
	return out, nil
}

var _ repository.RouteRepository = (*stubRouteRepo)(nil)

type stubRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.TransportRequest
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[uuid.UUID]*model.TransportRequest)}
}

func (r *stubRequestRepo) seed(tr *model.TransportRequest) *model.TransportRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	r.requests[tr.ID] = tr
	return tr
}

func (r *stubRequestRepo) Create(_ context.Context, tr *model.TransportRequest) error {
	r.seed(tr)
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TransportRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tr, ok := r.requests[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *tr
	return &cp, nil
}

func (r *stubRequestRepo) List(_ context.Context, filter dto.RequestFilter) ([]model.TransportRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.TransportRequest
	for _, tr := range r.requests {
		if filter.Status != "" && string(tr.Status) != filter.Status {
			continue
		}
		out = append(out, *tr)
	}
	return out, int64(len(out)), nil
}

func (r *stubRequestRepo) Update(_ context.Context, tr *model.TransportRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[tr.ID] = tr
	return nil
}

func (r *stubRequestRepo) UpdateStatusCAS(_ context.Context, id uuid.UUID, from, to model.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tr, ok := r.requests[id]
	if !ok || tr.Status != from {
		return repository.ErrStaleStatus
	}
	tr.Status = to
	return nil
}

func (r *stubRequestRepo) SetRoute(_ context.Context, id, routeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tr, ok := r.requests[id]
	if !ok {
		return errors.New("record not found")
	}
	tr.RouteID = &routeID
	return nil
}

func (r *stubRequestRepo) CountByStatus(_ context.Context) (map[model.RequestStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[model.RequestStatus]int64)
	for _, tr := range r.requests {
		out[tr.Status]++
	}
	return out, nil
}

var _ repository.RequestRepository = (*stubRequestRepo)(nil)

type stubBillingRepo struct {
	mu      sync.Mutex
	bills   map[uuid.UUID]*model.Billing
	byReq   map[uuid.UUID]uuid.UUID
	creates int
}

func newStubBillingRepo() *stubBillingRepo {
	return &stubBillingRepo{
		bills: make(map[uuid.UUID]*model.Billing),
		byReq: make(map[uuid.UUID]uuid.UUID),
	}
}

// Create enforces the unique index on request_id the way Postgres would.
func (r *stubBillingRepo) Create(_ context.Context, b *model.Billing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byReq[b.RequestID]; dup {
		return errors.New("duplicate key value violates unique constraint")
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.bills[b.ID] = b
	r.byReq[b.RequestID] = b.ID
	r.creates++
	return nil
}

func (r *stubBillingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Billing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *b
	return &cp, nil
}

func (r *stubBillingRepo) FindByRequestID(_ context.Context, requestID uuid.UUID) (*model.Billing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byReq[requestID]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *r.bills[id]
	return &cp, nil
}

func (r *stubBillingRepo) List(_ context.Context, filter dto.BillingFilter) ([]model.Billing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Billing
	for _, b := range r.bills {
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *stubBillingRepo) Update(_ context.Context, b *model.Billing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bills[b.ID] = b
	return nil
}

func (r *stubBillingRepo) UpdateStatusCAS(_ context.Context, id uuid.UUID, from, to model.BillingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok || b.Status != from {
		return repository.ErrStaleStatus
	}
	b.Status = to
	return nil
}

func (r *stubBillingRepo) ListOverdue(_ context.Context, now time.Time, limit int) ([]model.Billing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Billing
	for _, b := range r.bills {
		if b.Status == model.BillingPending && b.DueAt.Before(now) {
			out = append(out, *b)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubBillingRepo) CountByStatus(_ context.Context) (map[model.BillingStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[model.BillingStatus]int64)
	for _, b := range r.bills {
		out[b.Status]++
	}
	return out, nil
}

var _ repository.BillingRepository = (*stubBillingRepo)(nil)

type stubClientRepo struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*model.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *stubClientRepo) seed(c *model.Client) *model.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clients[c.ID] = c
	return c
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	r.seed(c)
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *c
	return &cp, nil
}

func (r *stubClientRepo) FindByEmail(_ context.Context, email string) (*model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubClientRepo) List(_ context.Context, _, _ int) ([]model.Client, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Client
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	return r.setActive(id, false)
}

func (r *stubClientRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	return r.setActive(id, true)
}

func (r *stubClientRepo) setActive(id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return errors.New("record not found")
	}
	c.Active = active
	return nil
}

var _ repository.ClientRepository = (*stubClientRepo)(nil)

// ── Pricer stub ───────────────────────────────────────────────────────────────

type stubPricer struct {
	mu     sync.Mutex
	quotes int
	amount decimal.Decimal
	err    error
}

func (p *stubPricer) Quote(_ context.Context, _ decimal.Decimal, _ string) (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quotes++
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.amount, nil
}

var _ infra.Pricer = (*stubPricer)(nil)
