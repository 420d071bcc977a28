package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joefazee/visaguide/app"
	"github.com/joefazee/visaguide/app/countries"
	"github.com/joefazee/visaguide/app/importer"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/internal/nexus"
	"github.com/joefazee/visaguide/internal/sanitizer"
)

type config struct {
	app.StorageConfig
	LogLevel string `env:"LOG_LEVEL" env-default:"warn"`
}

var (
	filePath = flag.String("file", "", "path to the CSV file in the flat form layout")
	dryRun   = flag.Bool("dry-run", false, "validate every row without writing")
)

func main() {
	flag.Parse()
	if *filePath == "" && flag.NArg() > 0 {
		*filePath = flag.Arg(0)
	}
	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: importer [--dry-run] --file countries.csv")
		os.Exit(2)
	}

	cfg := &config{}
	if err := nexus.NewLoader().Load(cfg); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	appLogger := logger.NewZeroLogger(os.Stderr, logger.ParseLevel(cfg.LogLevel), logger.Fields{
		"service": "visaguide-importer",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, appLogger)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config, appLogger logger.Logger) int {
	m := metrics.New(prometheus.NewRegistry())
	store, closeStorage, err := app.OpenStorage(ctx, &cfg.StorageConfig, appLogger, m)
	if err != nil {
		appLogger.Error(err, map[string]interface{}{"stage": "storage"})
		return 1
	}
	defer func() {
		if err := closeStorage(); err != nil {
			appLogger.Error(err, map[string]interface{}{"stage": "close"})
		}
	}()
	if store.Degraded() {
		appLogger.Warn("primary storage unreachable, importing into the file fallback", map[string]interface{}{
			"backend": cfg.Storage.Backend,
			"file":    cfg.Storage.FilePath,
		})
	}

	f, err := os.Open(*filePath)
	if err != nil {
		appLogger.Error(err, map[string]interface{}{"file": *filePath})
		return 1
	}
	defer f.Close()

	stripper := sanitizer.NewHTMLStripper()
	repo := countries.NewRepository(store, stripper, appLogger, m)
	im := importer.New(repo, appLogger, importer.Options{
		DryRun: *dryRun,
		Apply:  countries.ApplyOptions{Clean: stripper.StripHTML},
	})

	report, err := im.Import(ctx, f)
	if report != nil {
		if werr := importer.WriteReport(os.Stdout, report); werr != nil {
			appLogger.Error(werr, nil)
		}
	}
	if err != nil {
		appLogger.Error(err, map[string]interface{}{"file": *filePath})
		return 1
	}
	if report.Failed() {
		return 1
	}
	return 0
}
