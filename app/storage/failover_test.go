package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/models"
)

// downStore fails every call the way an unreachable database does.
type downStore struct {
	calls int
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:27017: connect: connection refused")

func (d *downStore) fail() error {
	d.calls++
	return unavailableErr()
}

func unavailableErr() error {
	return errors.Join(models.ErrStorageUnavailable, errConnRefused)
}

func (d *downStore) Get(context.Context, string) (*models.Country, error) { return nil, d.fail() }
func (d *downStore) GetBySlug(context.Context, string) (*models.Country, error) {
	return nil, d.fail()
}
func (d *downStore) List(context.Context, *models.CountryFilter) ([]models.Country, error) {
	return nil, d.fail()
}
func (d *downStore) Count(context.Context, *models.CountryFilter) (int64, error) {
	return 0, d.fail()
}
func (d *downStore) Put(context.Context, *models.Country) (string, error) { return "", d.fail() }
func (d *downStore) Delete(context.Context, string) (bool, error)         { return false, d.fail() }
func (d *downStore) Ping(context.Context) error                           { return d.fail() }
func (d *downStore) Name() string                                         { return BackendMongo }

type warnRecorder struct {
	logger.NullLogger
	mu       sync.Mutex
	messages []string
}

func (w *warnRecorder) Warn(message string, _ map[string]interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, message)
}

func (w *warnRecorder) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.messages)
}

func TestFailover_HealthyPrimaryServesCalls(t *testing.T) {
	ctx := context.Background()
	primary := newTestFileStore(t)
	fallback := newTestFileStore(t)
	f := NewFailover(primary, fallback, nil, nil)

	id, err := f.Put(ctx, sampleCountry("Thailand", "thailand", models.RegionAsia))
	require.NoError(t, err)

	_, err = primary.Get(ctx, id)
	assert.NoError(t, err)
	_, err = fallback.Get(ctx, id)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
	assert.False(t, f.Degraded())
}

func TestFailover_DomainErrorsDoNotDegrade(t *testing.T) {
	ctx := context.Background()
	f := NewFailover(newTestFileStore(t), newTestFileStore(t), nil, nil)

	_, err := f.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrRecordNotFound)

	_, err = f.Put(ctx, sampleCountry("A", "dup", models.RegionAsia))
	require.NoError(t, err)
	_, err = f.Put(ctx, sampleCountry("B", "dup", models.RegionAsia))
	assert.ErrorIs(t, err, models.ErrDuplicateSlug)

	assert.False(t, f.Degraded())
}

func TestFailover_UnavailablePrimaryDegradesToFile(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	rec := &warnRecorder{}
	primary := &downStore{}
	fallback := newTestFileStore(t)
	f := NewFailover(primary, fallback, rec, m)

	assert.Equal(t, BackendMongo, f.Name())

	id, err := f.Put(ctx, sampleCountry("Thailand", "thailand", models.RegionAsia))
	require.NoError(t, err, "caller never sees the primary failure")
	assert.True(t, f.Degraded())
	assert.Equal(t, BackendFile, f.Name())

	got, err := f.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Thailand", got.Name)

	list, err := f.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Equal(t, 1, primary.calls, "primary is not retried once degraded")
	assert.Equal(t, 1, rec.count(), "warning is logged once")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageFallbacks))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageDegraded))
}

func TestFailover_EveryOperationFallsBack(t *testing.T) {
	ctx := context.Background()
	calls := []func(f *Failover) error{
		func(f *Failover) error { _, err := f.Count(ctx, nil); return err },
		func(f *Failover) error { _, err := f.List(ctx, nil); return err },
		func(f *Failover) error { _, err := f.Delete(ctx, "x"); return err },
		func(f *Failover) error {
			_, err := f.GetBySlug(ctx, "x")
			if errors.Is(err, models.ErrRecordNotFound) {
				return nil
			}
			return err
		},
	}
	for _, call := range calls {
		f := NewFailover(&downStore{}, newTestFileStore(t), nil, nil)
		assert.NoError(t, call(f))
		assert.True(t, f.Degraded())
	}
}

func TestNewDegraded(t *testing.T) {
	rec := &warnRecorder{}
	f := NewDegraded(newTestFileStore(t), errConnRefused, rec, nil)

	assert.True(t, f.Degraded())
	assert.Equal(t, BackendFile, f.Name())
	assert.Equal(t, 1, rec.count())
	assert.NoError(t, f.Ping(context.Background()))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("file backend", func(t *testing.T) {
		cfg := Config{Backend: BackendFile, FilePath: t.TempDir() + "/countries.json"}
		f, err := Open(ctx, cfg, nil, nil, nil)
		require.NoError(t, err)
		assert.False(t, f.Degraded())
		assert.Equal(t, BackendFile, f.Name())
	})

	t.Run("reachable primary", func(t *testing.T) {
		primary := newTestFileStore(t)
		cfg := Config{Backend: BackendPostgres, FilePath: t.TempDir() + "/countries.json"}
		f, err := Open(ctx, cfg, func(context.Context) (Store, error) { return primary, nil }, nil, nil)
		require.NoError(t, err)
		assert.False(t, f.Degraded())
	})

	t.Run("connect error degrades", func(t *testing.T) {
		cfg := Config{Backend: BackendMongo, FilePath: t.TempDir() + "/countries.json"}
		f, err := Open(ctx, cfg, func(context.Context) (Store, error) { return nil, errConnRefused }, nil, nil)
		require.NoError(t, err)
		assert.True(t, f.Degraded())
		assert.Equal(t, BackendFile, f.Name())
	})

	t.Run("ping error degrades", func(t *testing.T) {
		cfg := Config{Backend: BackendMongo, FilePath: t.TempDir() + "/countries.json"}
		f, err := Open(ctx, cfg, func(context.Context) (Store, error) { return &downStore{}, nil }, nil, nil)
		require.NoError(t, err)
		assert.True(t, f.Degraded())
	})
}
