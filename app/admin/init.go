package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/visaguide/internal/deps"
)

const (
	AuthServiceKey = "admin_auth_service"
	ConfigKey      = "admin_config"
)

// InitServices builds the auth service from the shared token maker and
// cache and registers it for this module.
func InitServices(container *deps.Container, cfg *Config) error {
	auth, err := NewAuthService(cfg, container.TokenMaker, container.Cache, container.Logger, container.Metrics)
	if err != nil {
		return err
	}
	container.Provide(AuthServiceKey, auth)
	container.Provide(ConfigKey, cfg)
	return nil
}

// Middleware returns the session check for the admin group.
func Middleware(container *deps.Container) gin.HandlerFunc {
	return RequireAdmin(deps.Resolve[AuthService](container, AuthServiceKey))
}

// MountPublic mounts the login route, which must stay outside the session check
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)
	r.POST("/login", handler.Login)
}

// MountAdmin mounts session routes behind the admin middleware
func MountAdmin(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)
	r.POST("/logout", handler.Logout)
	r.GET("/profile", handler.Profile)
}

func createHandler(container *deps.Container) *Handler {
	auth := deps.Resolve[AuthService](container, AuthServiceKey)
	cfg := deps.Resolve[*Config](container, ConfigKey)
	return NewHandler(auth, cfg, container.Logger)
}
