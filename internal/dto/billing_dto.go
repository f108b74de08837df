package dto

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type BillingFilter struct {
	Status   string `form:"status"`
	ClientID string `form:"client_id" validate:"omitempty,uuid"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BillingResponse struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	RequestID string `json:"request_id"`
	Amount    string `json:"amount"`
	IssuedAt  string `json:"issued_at"`
	DueAt     string `json:"due_at"`
	Status    string `json:"status"`
}

type BillingListResponse struct {
	Data  []BillingResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
