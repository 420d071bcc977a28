package storage

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/models"
)

// Failover serves every call from the primary store until the primary
// reports ErrStorageUnavailable. From then on it stays on the file fallback
// for the life of the process so writes never split across two backends.
// Callers only ever see the fallback's result.
type Failover struct {
	primary  Store
	fallback Store
	logger   logger.Logger
	metrics  *metrics.Metrics
	degraded atomic.Bool
}

var _ Store = (*Failover)(nil)

// NewFailover wraps primary with fallback.
func NewFailover(primary, fallback Store, log logger.Logger, m *metrics.Metrics) *Failover {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Failover{primary: primary, fallback: fallback, logger: log, metrics: m}
}

// NewDegraded returns a Failover that starts on the fallback, used when the
// primary cannot be reached at startup.
func NewDegraded(fallback Store, reason error, log logger.Logger, m *metrics.Metrics) *Failover {
	f := NewFailover(nil, fallback, log, m)
	f.degrade("startup", reason)
	return f
}

// Degraded reports whether calls are being served by the fallback.
func (f *Failover) Degraded() bool {
	return f.degraded.Load()
}

// Name reports the backend currently serving calls.
func (f *Failover) Name() string {
	if f.Degraded() || f.primary == nil {
		return f.fallback.Name()
	}
	return f.primary.Name()
}

func (f *Failover) active() Store {
	if f.Degraded() || f.primary == nil {
		return f.fallback
	}
	return f.primary
}

func (f *Failover) degrade(op string, cause error) {
	if f.degraded.CompareAndSwap(false, true) {
		props := map[string]interface{}{
			"op":       op,
			"fallback": f.fallback.Name(),
		}
		if f.primary != nil {
			props["primary"] = f.primary.Name()
		}
		if cause != nil {
			props["cause"] = cause.Error()
		}
		f.logger.Warn("storage unavailable, serving catalog from file fallback", props)
		f.metrics.SetDegraded(true)
	}
}

// shouldFallback marks the adapter degraded when err is a connectivity failure.
func (f *Failover) shouldFallback(op string, err error) bool {
	if err == nil || !errors.Is(err, models.ErrStorageUnavailable) {
		return false
	}
	f.degrade(op, err)
	f.metrics.IncrementFallback()
	return true
}

func (f *Failover) Ping(ctx context.Context) error {
	return f.active().Ping(ctx)
}

func (f *Failover) Get(ctx context.Context, id string) (*models.Country, error) {
	store := f.active()
	c, err := store.Get(ctx, id)
	if store != f.fallback && f.shouldFallback("get", err) {
		return f.fallback.Get(ctx, id)
	}
	return c, err
}

func (f *Failover) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	store := f.active()
	c, err := store.GetBySlug(ctx, slug)
	if store != f.fallback && f.shouldFallback("get_by_slug", err) {
		return f.fallback.GetBySlug(ctx, slug)
	}
	return c, err
}

func (f *Failover) List(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error) {
	store := f.active()
	out, err := store.List(ctx, filter)
	if store != f.fallback && f.shouldFallback("list", err) {
		return f.fallback.List(ctx, filter)
	}
	return out, err
}

func (f *Failover) Count(ctx context.Context, filter *models.CountryFilter) (int64, error) {
	store := f.active()
	n, err := store.Count(ctx, filter)
	if store != f.fallback && f.shouldFallback("count", err) {
		return f.fallback.Count(ctx, filter)
	}
	return n, err
}

func (f *Failover) Put(ctx context.Context, country *models.Country) (string, error) {
	store := f.active()
	id, err := store.Put(ctx, country)
	if store != f.fallback && f.shouldFallback("put", err) {
		return f.fallback.Put(ctx, country)
	}
	return id, err
}

func (f *Failover) Delete(ctx context.Context, id string) (bool, error) {
	store := f.active()
	ok, err := store.Delete(ctx, id)
	if store != f.fallback && f.shouldFallback("delete", err) {
		return f.fallback.Delete(ctx, id)
	}
	return ok, err
}
