package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateRouteRequest struct {
	Origin           string `json:"origin"            validate:"required,min=2,max=120"`
	Destination      string `json:"destination"       validate:"required,min=2,max=120"`
	DistanceKm       string `json:"distance_km"       validate:"required"`
	EstimatedMinutes int    `json:"estimated_minutes" validate:"required,min=1"`
}

type UpdateRouteRequest struct {
	Origin           *string `json:"origin"            validate:"omitempty,min=2,max=120"`
	Destination      *string `json:"destination"       validate:"omitempty,min=2,max=120"`
	DistanceKm       *string `json:"distance_km"`
	EstimatedMinutes *int    `json:"estimated_minutes" validate:"omitempty,min=1"`
}

type UpdateRouteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=issued pending in_transit done"`
}

type AssignCarrierRequest struct {
	CarrierID string `json:"carrier_id" validate:"required,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type RouteFilter struct {
	Status    string `form:"status"`
	CarrierID string `form:"carrier_id" validate:"omitempty,uuid"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RouteResponse struct {
	ID               string  `json:"id"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	DistanceKm       string  `json:"distance_km"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	Status           string  `json:"status"`
	CarrierID        *string `json:"carrier_id"`
	RequestID        *string `json:"request_id"`
	CreatedAt        string  `json:"created_at"`
}

type RouteListResponse struct {
	Data  []RouteResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
