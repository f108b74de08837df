package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTransportRequest struct {
	ClientID              string `json:"client_id"               validate:"required,uuid"`
	Origin                string `json:"origin"                  validate:"required,min=2,max=120"`
	Destination           string `json:"destination"             validate:"required,min=2,max=120"`
	DistanceKm            string `json:"distance_km"             validate:"required"`
	EstimatedMinutes      int    `json:"estimated_minutes"       validate:"required,min=1"`
	RequestedDeliveryDate string `json:"requested_delivery_date" validate:"required"`
	Priority              string `json:"priority"                validate:"omitempty,oneof=low normal high urgent"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=issued in_progress pending done completed cancelled"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type RequestFilter struct {
	Status   string `form:"status"`
	ClientID string `form:"client_id" validate:"omitempty,uuid"`
	Priority string `form:"priority"  validate:"omitempty,oneof=low normal high urgent"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransportRequestResponse struct {
	ID                    string         `json:"id"`
	ClientID              string         `json:"client_id"`
	Origin                string         `json:"origin"`
	Destination           string         `json:"destination"`
	DistanceKm            string         `json:"distance_km"`
	RequestedDeliveryDate string         `json:"requested_delivery_date"`
	Status                string         `json:"status"`
	Priority              string         `json:"priority"`
	RouteID               *string        `json:"route_id"`
	Route                 *RouteResponse `json:"route,omitempty"`
	CreatedAt             string         `json:"created_at"`
}

type RequestListResponse struct {
	Data  []TransportRequestResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}
