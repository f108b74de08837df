package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

// VerifyTwoFactorRequest exchanges the emailed code for tokens.
type VerifyTwoFactorRequest struct {
	ChallengeToken string `json:"challenge_token" validate:"required"`
	Code           string `json:"code"            validate:"required,len=6,numeric"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateUserRequest struct {
	Username         string `json:"username" validate:"required,min=1,max=150"`
	Name             string `json:"name"     validate:"required,min=2,max=100"`
	Email            string `json:"email"    validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	Role             string `json:"role"     validate:"required,oneof=admin operator client"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

type UpdateUserRequest struct {
	Name             string  `json:"name"     validate:"omitempty,min=2,max=100"`
	Email            *string `json:"email"    validate:"omitempty,email"`
	Role             string  `json:"role"     validate:"omitempty,oneof=admin operator client"`
	Password         string  `json:"password" validate:"omitempty,min=8"`
	TwoFactorEnabled *bool   `json:"two_factor_enabled"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	Active           bool   `json:"active"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// TwoFactorChallengeResponse is returned instead of tokens when the account
// has two-factor enabled: the client must POST /verify-2fa with the code.
type TwoFactorChallengeResponse struct {
	ChallengeToken string `json:"challenge_token"`
	ExpiresIn      int    `json:"expires_in"` // seconds
}
