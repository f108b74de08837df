package model

// Closed status vocabularies for every entity kind. These are the ONLY legal
// values for the corresponding columns; which edges between them are legal is
// decided exclusively by the transition tables in internal/service.

// CarrierStatus is the lifecycle state of a Carrier.
type CarrierStatus string

const (
	CarrierAvailable CarrierStatus = "available"
	CarrierAssigned  CarrierStatus = "assigned"
	CarrierOnRoute   CarrierStatus = "on_route"
	CarrierResting   CarrierStatus = "resting"
	CarrierInactive  CarrierStatus = "inactive"
)

func (s CarrierStatus) Valid() bool {
	switch s {
	case CarrierAvailable, CarrierAssigned, CarrierOnRoute, CarrierResting, CarrierInactive:
		return true
	}
	return false
}

// TruckStatus is the lifecycle state of a Truck.
type TruckStatus string

const (
	TruckAvailable   TruckStatus = "available"
	TruckAssigned    TruckStatus = "assigned"
	TruckOnRoute     TruckStatus = "on_route"
	TruckMaintenance TruckStatus = "maintenance"
)

func (s TruckStatus) Valid() bool {
	switch s {
	case TruckAvailable, TruckAssigned, TruckOnRoute, TruckMaintenance:
		return true
	}
	return false
}

// RouteStatus is the lifecycle state of a Route.
type RouteStatus string

const (
	RouteIssued    RouteStatus = "issued"
	RoutePending   RouteStatus = "pending"
	RouteInTransit RouteStatus = "in_transit"
	RouteDone      RouteStatus = "done"
)

func (s RouteStatus) Valid() bool {
	switch s {
	case RouteIssued, RoutePending, RouteInTransit, RouteDone:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a TransportRequest.
type RequestStatus string

const (
	RequestIssued     RequestStatus = "issued"
	RequestInProgress RequestStatus = "in_progress"
	RequestPending    RequestStatus = "pending"
	RequestDone       RequestStatus = "done"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestIssued, RequestInProgress, RequestPending, RequestDone, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// BillingStatus is the lifecycle state of a Billing record.
type BillingStatus string

const (
	BillingPending   BillingStatus = "pending"
	BillingPaid      BillingStatus = "paid"
	BillingCancelled BillingStatus = "cancelled"
)

func (s BillingStatus) Valid() bool {
	switch s {
	case BillingPending, BillingPaid, BillingCancelled:
		return true
	}
	return false
}
