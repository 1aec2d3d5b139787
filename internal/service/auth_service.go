package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sgsprojects/timesheet-api/internal/config"
	"github.com/sgsprojects/timesheet-api/internal/models"
	"github.com/sgsprojects/timesheet-api/internal/repository"
	"github.com/sgsprojects/timesheet-api/internal/servicelayer"
	"github.com/sgsprojects/timesheet-api/pkg/utils/zaplogger"
)

// ErrInvalidCredentials means the ERP rejected the presented
// username/password at login time.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService issues bearer tokens. Credentials are validated directly
// against the ERP, so a token is only ever minted for a login the ERP
// itself accepted.
type AuthService struct {
	client      *servicelayer.Client
	credentials *repository.CredentialStore
	cache       *repository.SessionCache
	cfg         *config.Config
}

// NewAuthService creates a new service for the auth API
func NewAuthService(client *servicelayer.Client, credentials *repository.CredentialStore, cache *repository.SessionCache, cfg *config.Config) *AuthService {
	return &AuthService{
		client:      client,
		credentials: credentials,
		cache:       cache,
		cfg:         cfg,
	}
}

// Login validates the credentials against the ERP, binds them to a fresh
// caller key and returns a signed bearer token. The session obtained
// during validation is cached so the caller's first API call does not
// pay for a second ERP login.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	session, err := s.client.Login(ctx, username, password)
	if err != nil {
		var se *servicelayer.StatusError
		if errors.As(err, &se) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(s.cfg.JwtExpiry())
	callerKey := uuid.NewString()

	claims := jwt.RegisteredClaims{
		ID:        callerKey,
		Subject:   username,
		Issuer:    s.cfg.JwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return nil, err
	}

	s.credentials.Save(callerKey, username, password, expiresAt)

	if err := s.cache.Put(ctx, callerKey, session); err != nil {
		zaplogger.Warn("failed to cache login session", zaplogger.Fields{"caller": callerKey, "error": err.Error()})
	}

	zaplogger.Info("user logged in", zaplogger.Fields{"username": username})

	return &models.LoginResult{
		Token:     token,
		ExpiresIn: int(s.cfg.JwtExpiry().Seconds()),
	}, nil
}

// Logout releases the caller's cached ERP session and drops the stored
// credential. The token itself stays valid until expiry but can no
// longer reach the ERP.
func (s *AuthService) Logout(ctx context.Context, callerKey string) error {
	session, ok, err := s.cache.Get(ctx, callerKey)
	if err == nil && ok {
		if err := s.client.Logout(ctx, session); err != nil {
			zaplogger.Warn("upstream logout failed", zaplogger.Fields{"caller": callerKey, "error": err.Error()})
		}
	}

	if err := s.cache.Delete(ctx, callerKey); err != nil {
		return err
	}
	s.credentials.Remove(callerKey)
	return nil
}
