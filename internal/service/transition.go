package service

import "cargohub/internal/model"

// Status transition tables. Every manual status change funnels through
// canTransition; assignment and route side effects bypass the tables because
// they are driven by their own operations, not by the status endpoints.

var carrierTransitions = map[model.CarrierStatus][]model.CarrierStatus{
	model.CarrierAvailable: {model.CarrierResting, model.CarrierInactive},
	model.CarrierAssigned:  {model.CarrierResting},
	model.CarrierResting:   {model.CarrierAvailable, model.CarrierInactive},
	model.CarrierInactive:  {model.CarrierAvailable},
}

var truckTransitions = map[model.TruckStatus][]model.TruckStatus{
	model.TruckAvailable:   {model.TruckMaintenance},
	model.TruckMaintenance: {model.TruckAvailable},
}

var routeTransitions = map[model.RouteStatus][]model.RouteStatus{
	model.RouteIssued:    {model.RoutePending},
	model.RoutePending:   {model.RouteInTransit},
	model.RouteInTransit: {model.RouteDone},
}

var requestTransitions = map[model.RequestStatus][]model.RequestStatus{
	model.RequestIssued:     {model.RequestInProgress, model.RequestCancelled},
	model.RequestInProgress: {model.RequestPending, model.RequestCancelled},
	model.RequestPending:    {model.RequestDone, model.RequestCancelled},
	model.RequestDone:       {model.RequestCompleted},
}

var billingTransitions = map[model.BillingStatus][]model.BillingStatus{
	model.BillingPending: {model.BillingPaid, model.BillingCancelled},
}

func canTransition[S comparable](table map[S][]S, from, to S) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}
