package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/joefazee/visaguide/internal/cache"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/internal/security"
	"github.com/joefazee/visaguide/models"
)

// Session is an issued admin token.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*security.Payload, error)
}

type authService struct {
	username string
	hash     []byte
	ttl      time.Duration
	maker    security.Maker
	revoked  cache.Cache[string]
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewAuthService checks credentials against cfg. A plaintext password is
// hashed once here so requests only ever compare bcrypt hashes.
func NewAuthService(cfg *Config,
	maker security.Maker,
	revoked cache.Cache[string],
	log logger.Logger,
	m *metrics.Metrics,
) (AuthService, error) {
	if log == nil {
		log = logger.NewNullLogger()
	}

	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}

	return &authService{
		username: cfg.Username,
		hash:     hash,
		ttl:      cfg.TokenTTL,
		maker:    maker,
		revoked:  revoked,
		logger:   log,
		metrics:  m,
	}, nil
}

func (s *authService) Login(_ context.Context, username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.hash, []byte(password))
	if !userOK || passErr != nil {
		s.metrics.IncrementLogin("failure")
		s.logger.Warn("admin login failed", map[string]interface{}{"username": username})
		return nil, models.ErrInvalidCredentials
	}

	token, payload, err := s.maker.CreateToken(s.username, s.ttl, security.TokenScopeAdmin)
	if err != nil {
		return nil, fmt.Errorf("create admin token: %w", err)
	}

	s.metrics.IncrementLogin("success")
	s.logger.Info("admin logged in", map[string]interface{}{"username": s.username, "token_id": payload.ID.String()})
	return &Session{Token: token, Username: s.username, ExpiresAt: payload.ExpiredAt}, nil
}

// Logout revokes token until it would have expired anyway. Invalid or
// expired tokens need no revocation.
func (s *authService) Logout(ctx context.Context, token string) error {
	payload, err := s.maker.VerifyToken(token)
	if err != nil {
		return nil
	}
	if err := s.revoked.Set(ctx, revokedKey(payload), "1", payload.TTL()); err != nil {
		return fmt.Errorf("revoke admin token: %w", err)
	}
	s.logger.Info("admin logged out", map[string]interface{}{"token_id": payload.ID.String()})
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*security.Payload, error) {
	payload, err := s.maker.VerifyToken(token)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	if payload.Scope != security.TokenScopeAdmin || payload.Subject != s.username {
		return nil, models.ErrForbidden
	}

	_, err = s.revoked.Get(ctx, revokedKey(payload))
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		return payload, nil
	case err == nil:
		return nil, models.ErrUnauthorized
	default:
		// Without the revocation list a logged out token cannot be told apart.
		s.logger.Error(err, map[string]interface{}{"op": "check_revoked"})
		return nil, models.ErrUnauthorized
	}
}

func revokedKey(p *security.Payload) string {
	return "admin:revoked:" + p.ID.String()
}
