package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/models"
)

// PostgresStore keeps countries in a single table with the nested
// collections in jsonb columns.
type PostgresStore struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new gorm backed store
func NewPostgresStore(db *gorm.DB, m *metrics.Metrics) *PostgresStore {
	return &PostgresStore{db: db, metrics: m}
}

func (s *PostgresStore) Name() string { return BackendPostgres }

// Ping checks the underlying connection pool
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable(err)
	}
	return unavailable(sqlDB.PingContext(ctx))
}

// Get returns a country by ID
func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Country, error) {
	defer s.metrics.ObserveStorage(BackendPostgres, "get", time.Now())
	return s.first(ctx, "id = ?", id)
}

// GetBySlug returns a country by slug
func (s *PostgresStore) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	defer s.metrics.ObserveStorage(BackendPostgres, "get_by_slug", time.Now())
	return s.first(ctx, "slug = ?", slug)
}

func (s *PostgresStore) first(ctx context.Context, query string, arg string) (*models.Country, error) {
	var country models.Country
	err := s.db.WithContext(ctx).Where(query, arg).First(&country).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, unavailable(err)
	}
	country.Normalize()
	return &country, nil
}

// List returns countries matching the filter
func (s *PostgresStore) List(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error) {
	defer s.metrics.ObserveStorage(BackendPostgres, "list", time.Now())

	query := s.db.WithContext(ctx).Model(&models.Country{})
	query = s.applyFilters(query, filter)
	query = s.applySorting(query, filter)
	query = s.applyPagination(query, filter)

	var countries []models.Country
	if err := query.Find(&countries).Error; err != nil {
		return nil, unavailable(err)
	}
	for i := range countries {
		countries[i].Normalize()
	}
	return countries, nil
}

// Count returns the number of countries matching the filter, ignoring pagination
func (s *PostgresStore) Count(ctx context.Context, filter *models.CountryFilter) (int64, error) {
	defer s.metrics.ObserveStorage(BackendPostgres, "count", time.Now())

	var total int64
	query := s.applyFilters(s.db.WithContext(ctx).Model(&models.Country{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, unavailable(err)
	}
	return total, nil
}

// Put inserts or replaces a country and returns its id
func (s *PostgresStore) Put(ctx context.Context, country *models.Country) (string, error) {
	defer s.metrics.ObserveStorage(BackendPostgres, "put", time.Now())

	country.Normalize()
	db := s.db.WithContext(ctx)
	if country.ID != "" {
		db = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		})
	}
	if err := db.Create(country).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", models.ErrDuplicateSlug
		}
		return "", unavailable(err)
	}
	return country.ID, nil
}

// Delete removes a country by ID and reports whether a row was removed
func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	defer s.metrics.ObserveStorage(BackendPostgres, "delete", time.Now())

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Country{})
	if result.Error != nil {
		return false, unavailable(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *PostgresStore) applyFilters(query *gorm.DB, filter *models.CountryFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Region != nil {
		query = query.Where("region = ?", string(*filter.Region))
	}
	if filter.Published != nil {
		query = query.Where("published = ?", *filter.Published)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.VisaRequired != nil {
		if *filter.VisaRequired {
			query = query.Where("visa_required = ?", true)
		} else {
			query = query.Where("(visa_required IS NULL OR visa_required = ?)", false)
		}
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(summary) LIKE ?)", pattern, pattern)
	}
	return query
}

func (s *PostgresStore) applySorting(query *gorm.DB, filter *models.CountryFilter) *gorm.DB {
	field, desc := filter.SortKey()
	column := clause.Column{Name: field}
	if field == models.SortName {
		column = clause.Column{Name: "LOWER(name)", Raw: true}
	}
	return query.Order(clause.OrderByColumn{Column: column, Desc: desc})
}

func (s *PostgresStore) applyPagination(query *gorm.DB, filter *models.CountryFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
