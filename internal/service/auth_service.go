package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"cargohub/internal/config"
	"cargohub/internal/dto"
	"cargohub/internal/model"
	"cargohub/internal/repository"
	"cargohub/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidTwoFactor = errors.New("invalid or expired two-factor code")

type AuthService interface {
	// Login returns tokens directly, or a TwoFactorChallengeResponse when the
	// account requires the emailed code.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, *dto.TwoFactorChallengeResponse, error)
	VerifyTwoFactor(ctx context.Context, req dto.VerifyTwoFactorRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	ReactivateUser(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo       repository.UserRepository
	rdb        *redis.Client
	dispatcher *worker.Dispatcher
	cfg        *config.Config
}

func NewAuthService(repo repository.UserRepository, rdb *redis.Client, dispatcher *worker.Dispatcher, cfg *config.Config) AuthService {
	return &authService{repo: repo, rdb: rdb, dispatcher: dispatcher, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, *dto.TwoFactorChallengeResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		challenge, err := s.startTwoFactor(ctx, user)
		if err != nil {
			return nil, nil, err
		}
		return nil, challenge, nil
	}

	resp, err := s.issueTokens(user)
	return resp, nil, err
}

// ── Two-factor ────────────────────────────────────────────────────────────────
// The six-digit code and the challenge token both live in Redis under a TTL.
// The challenge key stores "userID:code"; verification is a single GET plus
// compare, and the key is deleted on success so a code can be used once.

func twoFactorKey(token string) string { return "2fa:" + token }

func (s *authService) startTwoFactor(ctx context.Context, user *model.User) (*dto.TwoFactorChallengeResponse, error) {
	code, err := randomCode()
	if err != nil {
		return nil, err
	}
	token := uuid.NewString()
	ttl := time.Duration(s.cfg.TwoFactorTTLMin) * time.Minute

	if err := s.rdb.Set(ctx, twoFactorKey(token), user.ID.String()+":"+code, ttl).Err(); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		payload := worker.EmailJobPayload{
			ToEmail: user.Email,
			Subject: "Your CargoHub verification code",
			Body:    fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, s.cfg.TwoFactorTTLMin),
		}
		if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to enqueue 2fa email")
		}
	}

	return &dto.TwoFactorChallengeResponse{
		ChallengeToken: token,
		ExpiresIn:      int(ttl.Seconds()),
	}, nil
}

func (s *authService) VerifyTwoFactor(ctx context.Context, req dto.VerifyTwoFactorRequest) (*dto.LoginResponse, error) {
	key := twoFactorKey(req.ChallengeToken)
	stored, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, ErrInvalidTwoFactor
	}

	sep := len(stored) - len(req.Code) - 1
	if sep < 1 || stored[sep] != ':' || stored[sep+1:] != req.Code {
		return nil, ErrInvalidTwoFactor
	}
	uid, err := uuid.Parse(stored[:sep])
	if err != nil {
		return nil, ErrInvalidTwoFactor
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, ErrInvalidTwoFactor
	}

	_ = s.rdb.Del(ctx, key).Err()
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("malformed token claims")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("malformed token")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("malformed token")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, errors.New("user not found or inactive")
	}
	return s.issueTokens(user)
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:         req.Username,
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     string(hash),
		Role:             req.Role,
		TwoFactorEnabled: req.TwoFactorEnabled,
		Active:           true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	var users []model.User
	var err error
	if includeInactive {
		users, err = s.repo.ListAll(ctx)
	} else {
		users, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = *userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.TwoFactorEnabled != nil {
		user.TwoFactorEnabled = *req.TwoFactorEnabled
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *authService) ReactivateUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *userToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func userToResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:               u.ID.String(),
		Username:         u.Username,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		TwoFactorEnabled: u.TwoFactorEnabled,
		Active:           u.Active,
	}
}
