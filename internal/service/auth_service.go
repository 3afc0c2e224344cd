package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/config"
	"github.com/spec-kit/roster-service/internal/domain"
	apperrors "github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// ErrAdminNotConfigured is returned when neither an admin password nor a hash is set.
var ErrAdminNotConfigured = errors.New("admin credentials not configured")

// AuthService issues access tokens for the roster administrator.
type AuthService struct {
	tokenMgr      *auth.TokenManager
	adminUsername string
	adminHash     string
}

// NewAuthService builds the service. A plain admin password is hashed once here.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" && cfg.AdminPassword != "" {
		var err error
		hash, err = auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
	}
	if hash == "" {
		return nil, ErrAdminNotConfigured
	}
	return &AuthService{
		tokenMgr:      auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		adminUsername: cfg.AdminUsername,
		adminHash:     hash,
	}, nil
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates the administrator and returns a signed token.
func (s *AuthService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passErr := auth.ComparePassword(s.adminHash, password)
	if !userOK || passErr != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(s.adminUsername, domain.RoleAdmin)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}
