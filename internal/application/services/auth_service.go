package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	"github.com/upravdom/resident-portal/internal/infrastructure/observability"
	"github.com/upravdom/resident-portal/pkg/config"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

// TelegramProfile is the identity payload presented at login. TelegramID is
// the stable external identity; the remaining fields are display data
// refreshed on every login.
type TelegramProfile struct {
	TelegramID string `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// AuthService handles login, token issuance and token verification
type AuthService struct {
	userRepo repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.AuthConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
		logger:   observability.GetLogger().With().Str("service", "auth").Logger(),
	}
}

// TelegramLogin resolves the account for a Telegram identity, creating it on
// first contact, and issues a signed token for it.
func (s *AuthService) TelegramLogin(ctx context.Context, profile TelegramProfile) (*entities.User, string, error) {
	if profile.TelegramID == "" {
		return nil, "", apperrors.NewValidationError("telegram_id is required")
	}

	user, err := s.userRepo.GetByTelegramID(ctx, profile.TelegramID)
	switch {
	case err == nil:
		// Refresh display fields so renames on Telegram propagate
		user.FirstName = profile.FirstName
		user.LastName = profile.LastName
		user.Username = profile.Username
		user.UpdatedAt = time.Now().UTC()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, "", err
		}
	case apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		now := time.Now().UTC()
		user = &entities.User{
			ID:         uuid.New().String(),
			TelegramID: profile.TelegramID,
			FirstName:  profile.FirstName,
			LastName:   profile.LastName,
			Username:   profile.Username,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, "", err
		}
		s.logger.Info().Str("user_id", user.ID).Msg("registered new resident")
	default:
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// IssueToken signs a bearer token carrying the user ID
func (s *AuthService) IssueToken(user *entities.User) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID: user.ID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.NewInternalError("failed to sign token", err)
	}

	return signed, nil
}

// Authenticate verifies a bearer token and loads its account. Every failure
// mode collapses into an unauthorized error so callers leak nothing about
// which check tripped.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*entities.User, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.NewUnauthorizedError("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("account is deactivated")
	}

	return user, nil
}
