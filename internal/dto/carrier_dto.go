package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCarrierRequest struct {
	Name          string  `json:"name"           validate:"required,min=2,max=120"`
	DNI           string  `json:"dni"            validate:"required,min=5,max=20"`
	LicenseNumber string  `json:"license_number" validate:"required,min=5,max=30"`
	Phone         *string `json:"phone"`
	UserID        *string `json:"user_id"        validate:"omitempty,uuid"`
}

type UpdateCarrierRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2,max=120"`
	Phone *string `json:"phone"`
}

// UpdateCarrierStatusRequest carries the requested target status. Only
// "resting" and "available" are accepted at this endpoint; everything else in
// the carrier lifecycle is driven by assignment and route operations.
type UpdateCarrierStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=resting available inactive"`
}

type AssignTruckRequest struct {
	TruckID string `json:"truck_id" validate:"required,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type CarrierFilter struct {
	Status string `form:"status"`
	Name   string `form:"name"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CarrierResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	DNI           string         `json:"dni"`
	LicenseNumber string         `json:"license_number"`
	Phone         *string        `json:"phone"`
	Status        string         `json:"status"`
	TruckID       *string        `json:"truck_id"`
	Truck         *TruckResponse `json:"truck,omitempty"`
	CreatedAt     string         `json:"created_at"`
}

type CarrierListResponse struct {
	Data  []CarrierResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
