package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joefazee/visaguide/app/admin"
	"github.com/joefazee/visaguide/app/api"
	"github.com/joefazee/visaguide/app/countries"
	apiDoc "github.com/joefazee/visaguide/app/doc"
	"github.com/joefazee/visaguide/app/storage"
	"github.com/joefazee/visaguide/internal/cache"
	"github.com/joefazee/visaguide/internal/deps"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/internal/router"
	"github.com/joefazee/visaguide/internal/sanitizer"
	"github.com/joefazee/visaguide/internal/security"
)

// Server owns the wired dependencies behind the HTTP engine.
type Server struct {
	Config    *Config
	Engine    *gin.Engine
	Container *deps.Container
	Storage   *storage.Failover

	logger  logger.Logger
	metrics *metrics.Metrics
	closers []func() error
}

// NewServer dials storage, builds the shared container and mounts every
// module. Metrics are registered on reg and exposed on /metrics.
func NewServer(ctx context.Context, cfg *Config, log logger.Logger, reg *prometheus.Registry) (*Server, error) {
	s := &Server{
		Config:  cfg,
		logger:  log,
		metrics: metrics.New(reg),
	}

	failover, closeStorage, err := OpenStorage(ctx, &cfg.StorageConfig, log, s.metrics)
	if err != nil {
		return nil, err
	}
	s.Storage = failover
	s.closers = append(s.closers, closeStorage)

	sessionCache, err := cache.New[string](cfg.Cache)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if closer, ok := sessionCache.(io.Closer); ok {
		s.closers = append(s.closers, closer.Close)
	}

	tokenMaker, err := security.NewPasetoMaker(cfg.Admin.SymmetricKey)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	s.Container = deps.NewContainer(tokenMaker, sanitizer.NewHTMLStripper(), log, sessionCache, s.metrics)
	countries.InitRepositories(s.Container, failover, &cfg.Countries)
	if err := admin.InitServices(s.Container, &cfg.Admin); err != nil {
		_ = s.Close()
		return nil, err
	}

	s.Engine = s.routes(reg)
	return s, nil
}

func (s *Server) routes(reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(api.Recovery(s.logger), api.RequestLogger(s.logger), api.CorsMiddleware(s.Config.AllowedOrigins))

	mounter := router.NewMounter(s.Container)
	mounter.Public(r).Mount(countries.MountPublic).Mount(s.mountHealth)
	mounter.Admin(r).Mount(admin.MountPublic)
	mounter.Admin(r).
		WithAuth(admin.Middleware(s.Container)).
		Mount(admin.MountAdmin).
		Mount(countries.MountAdmin)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	apiDoc.Init(r, s.Config.Env, s.Config.PublicURL)
	return r
}

func (s *Server) mountHealth(r *gin.RouterGroup, _ *deps.Container) {
	r.GET("/healthz", api.HealthCheck(s.Config.Env, s.Config.Version, s.Storage))
}

// Close releases the backend connections opened while dialing storage.
func (s *Server) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
