package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/metrics"
)

type Config struct {
	Backend        string        `env:"STORAGE_BACKEND" env-default:"mongo" validate:"oneof=mongo postgres file"`
	FilePath       string        `env:"STORAGE_FILE_PATH" env-default:"data/countries.json" validate:"required"`
	ConnectTimeout time.Duration `env:"STORAGE_CONNECT_TIMEOUT" env-default:"5s"`
}

// Connector dials the primary backend. It is called once at startup.
type Connector func(ctx context.Context) (Store, error)

// Open prepares the file fallback and then tries the primary backend. When
// the primary cannot be reached the returned adapter starts degraded and a
// warning is logged; the error return is reserved for a fallback that
// cannot be created.
func Open(ctx context.Context, cfg Config, connect Connector, log logger.Logger, m *metrics.Metrics) (*Failover, error) {
	fallback, err := NewFileStore(cfg.FilePath, m)
	if err != nil {
		return nil, fmt.Errorf("prepare file fallback: %w", err)
	}

	if cfg.Backend == BackendFile || connect == nil {
		return NewFailover(nil, fallback, log, m), nil
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	primary, err := connect(dialCtx)
	if err == nil {
		err = primary.Ping(dialCtx)
	}
	if err != nil {
		return NewDegraded(fallback, fmt.Errorf("%s: %w", cfg.Backend, err), log, m), nil
	}

	m.SetDegraded(false)
	return NewFailover(primary, fallback, log, m), nil
}
