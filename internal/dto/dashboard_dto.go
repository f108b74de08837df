package dto

// DashboardResponse aggregates per-entity status counts for the ops overview.
type DashboardResponse struct {
	Carriers map[string]int64 `json:"carriers"`
	Trucks   map[string]int64 `json:"trucks"`
	Routes   map[string]int64 `json:"routes"`
	Requests map[string]int64 `json:"requests"`
	Billing  map[string]int64 `json:"billing"`
}
