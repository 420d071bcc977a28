package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/joefazee/visaguide/app"
	_ "github.com/joefazee/visaguide/docs"
	"github.com/joefazee/visaguide/internal/logger"
)

// @title Visa Guide API
// @version 1.0
// @description Visa requirements catalog. Public endpoints serve published countries; admin endpoints manage the catalog behind a session cookie.
// @termsOfService https://visaguide.example/terms

// @contact.name API Support Team
// @contact.email support@visaguide.example

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey AdminCookie
// @in cookie
// @name admin_token
// @description Session cookie set by the login endpoint.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	appLogger := logger.NewZeroLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel), logger.Fields{
		"service": "visaguide",
		"env":     cfg.Env,
		"version": cfg.Version,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server, err := app.NewServer(ctx, cfg, appLogger, reg)
	if err != nil {
		appLogger.Fatal(err, map[string]interface{}{"stage": "bootstrap"})
	}
	defer func() {
		if err := server.Close(); err != nil {
			appLogger.Error(err, map[string]interface{}{"stage": "close"})
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("starting visaguide API", map[string]interface{}{
			"addr":     httpServer.Addr,
			"storage":  server.Storage.Name(),
			"degraded": server.Storage.Degraded(),
		})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		appLogger.Info("shutting down", nil)
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error(err, map[string]interface{}{"stage": "serve"})
	}
}
