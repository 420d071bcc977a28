package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/models"
)

// FileStore keeps the whole catalog as a JSON array in one file. Every call
// reads the file and every write replaces it atomically, so a restart or a
// second process always sees the last committed state.
type FileStore struct {
	mu      sync.Mutex
	path    string
	metrics *metrics.Metrics
}

var _ Store = (*FileStore)(nil)

// NewFileStore prepares path, creating an empty catalog when it does not exist.
func NewFileStore(path string, m *metrics.Metrics) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &FileStore{path: path, metrics: m}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.save([]models.Country{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *FileStore) Name() string { return BackendFile }

// Path returns the catalog file location.
func (s *FileStore) Path() string { return s.path }

// Ping verifies the catalog file can be read.
func (s *FileStore) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.load()
	return err
}

func (s *FileStore) Get(ctx context.Context, id string) (*models.Country, error) {
	defer s.metrics.ObserveStorage(BackendFile, "get", time.Now())
	return s.find(ctx, func(c *models.Country) bool { return c.ID == id })
}

func (s *FileStore) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	defer s.metrics.ObserveStorage(BackendFile, "get_by_slug", time.Now())
	return s.find(ctx, func(c *models.Country) bool { return c.Slug == slug })
}

func (s *FileStore) find(ctx context.Context, match func(*models.Country) bool) (*models.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	countries, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range countries {
		if match(&countries[i]) {
			c := countries[i]
			return &c, nil
		}
	}
	return nil, models.ErrRecordNotFound
}

func (s *FileStore) List(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error) {
	defer s.metrics.ObserveStorage(BackendFile, "list", time.Now())

	matched, err := s.matching(ctx, filter)
	if err != nil {
		return nil, err
	}
	models.SortCountries(matched, filter)
	if filter == nil {
		return matched, nil
	}
	return models.Paginate(matched, filter.Offset, filter.Limit), nil
}

func (s *FileStore) Count(ctx context.Context, filter *models.CountryFilter) (int64, error) {
	defer s.metrics.ObserveStorage(BackendFile, "count", time.Now())

	matched, err := s.matching(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (s *FileStore) matching(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	countries, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]models.Country, 0, len(countries))
	for i := range countries {
		if filter.Matches(&countries[i]) {
			out = append(out, countries[i])
		}
	}
	return out, nil
}

func (s *FileStore) Put(ctx context.Context, country *models.Country) (string, error) {
	defer s.metrics.ObserveStorage(BackendFile, "put", time.Now())

	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	countries, err := s.load()
	if err != nil {
		return "", err
	}

	country.Normalize()
	if country.ID == "" {
		country.ID = uuid.NewString()
	}

	idx := -1
	for i := range countries {
		if countries[i].Slug == country.Slug && countries[i].ID != country.ID {
			return "", models.ErrDuplicateSlug
		}
		if countries[i].ID == country.ID {
			idx = i
		}
	}

	if idx >= 0 {
		countries[idx] = *country
	} else {
		countries = append(countries, *country)
	}
	if err := s.save(countries); err != nil {
		return "", err
	}
	return country.ID, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) (bool, error) {
	defer s.metrics.ObserveStorage(BackendFile, "delete", time.Now())

	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	countries, err := s.load()
	if err != nil {
		return false, err
	}
	for i := range countries {
		if countries[i].ID == id {
			countries = append(countries[:i], countries[i+1:]...)
			return true, s.save(countries)
		}
	}
	return false, nil
}

// load must be called with mu held.
func (s *FileStore) load() ([]models.Country, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Country{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	if len(data) == 0 {
		return []models.Country{}, nil
	}

	var countries []models.Country
	if err := json.Unmarshal(data, &countries); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", s.path, err)
	}
	for i := range countries {
		countries[i].Normalize()
	}
	return countries, nil
}

// save must be called with mu held.
func (s *FileStore) save(countries []models.Country) error {
	data, err := json.MarshalIndent(countries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".countries-*.json")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
