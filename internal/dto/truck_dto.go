package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTruckRequest struct {
	LicensePlate string `json:"license_plate" validate:"required,min=4,max=12"`
	Model        string `json:"model"         validate:"required,min=2,max=80"`
	CapacityKg   int    `json:"capacity_kg"   validate:"required,min=100,max=60000"`
	FuelType     string `json:"fuel_type"     validate:"omitempty,oneof=diesel gasoline electric hybrid"`
}

type UpdateTruckRequest struct {
	Model      *string `json:"model"       validate:"omitempty,min=2,max=80"`
	CapacityKg *int    `json:"capacity_kg" validate:"omitempty,min=100,max=60000"`
	FuelType   *string `json:"fuel_type"   validate:"omitempty,oneof=diesel gasoline electric hybrid"`
}

// UpdateTruckStatusRequest only toggles between the parked states; the rest
// of the truck lifecycle follows the carrier it is bound to.
type UpdateTruckStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available maintenance"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type TruckFilter struct {
	Status   string `form:"status"`
	FuelType string `form:"fuel_type"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TruckResponse struct {
	ID           string  `json:"id"`
	LicensePlate string  `json:"license_plate"`
	Model        string  `json:"model"`
	CapacityKg   int     `json:"capacity_kg"`
	FuelType     string  `json:"fuel_type"`
	Status       string  `json:"status"`
	CarrierID    *string `json:"carrier_id"`
	CreatedAt    string  `json:"created_at"`
}

type TruckListResponse struct {
	Data  []TruckResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
