package security

import (
	"time"
)

// TokenScopeAdmin is the only scope issued; it marks an editor session.
const TokenScopeAdmin = "admin"

// Maker issues and verifies admin session tokens.
type Maker interface {
	CreateToken(subject string, duration time.Duration, scope string) (string, *Payload, error)

	// VerifyToken returns ErrInvalidToken for tokens it cannot decrypt and
	// ErrExpiredToken for tokens past their expiry.
	VerifyToken(token string) (*Payload, error)
}
