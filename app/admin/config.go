package admin

import (
	"errors"
	"time"
)

type Config struct {
	Username string `env:"ADMIN_USERNAME" env-default:"editor" validate:"required"`
	// Exactly one of Password and PasswordHash is used. A bcrypt hash wins.
	Password     string        `env:"ADMIN_PASSWORD"`
	PasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	SymmetricKey string        `env:"ADMIN_SYMMETRIC_KEY" validate:"len=32"`
	TokenTTL     time.Duration `env:"ADMIN_TOKEN_TTL" env-default:"8h" validate:"gt=0"`
	CookieSecure bool          `env:"ADMIN_COOKIE_SECURE" env-default:"false"`
	CookieDomain string        `env:"ADMIN_COOKIE_DOMAIN"`
}

func (c *Config) Validate() error {
	if c.Password == "" && c.PasswordHash == "" {
		return errors.New("admin password or password hash must be set")
	}
	if len(c.SymmetricKey) != 32 {
		return errors.New("admin symmetric key must be 32 characters")
	}
	return nil
}
