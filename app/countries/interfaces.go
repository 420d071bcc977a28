package countries

import (
	"context"

	"github.com/joefazee/visaguide/models"
)

// Store is the persistence contract the repository needs. storage.Failover
// satisfies it.
type Store interface {
	Get(ctx context.Context, id string) (*models.Country, error)
	GetBySlug(ctx context.Context, slug string) (*models.Country, error)
	List(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error)
	Count(ctx context.Context, filter *models.CountryFilter) (int64, error)
	Put(ctx context.Context, country *models.Country) (string, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Repository is the only writer of country records
type Repository interface {
	Create(ctx context.Context, in *CountryInput) (*models.Country, error)
	Update(ctx context.Context, id string, in *CountryInput, fullReplace bool) (*models.Country, error)
	Publish(ctx context.Context, id string) (*models.Country, error)
	Unpublish(ctx context.Context, id string) (*models.Country, error)
	Feature(ctx context.Context, id string) (*models.Country, error)
	Unfeature(ctx context.Context, id string) (*models.Country, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Country, error)
	GetBySlug(ctx context.Context, slug string) (*models.Country, error)
	ListForAdmin(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error)
	CountForAdmin(ctx context.Context, filter *models.CountryFilter) (int64, error)
}

// PublicService serves published records only
type PublicService interface {
	ListPublished(ctx context.Context, filter *models.CountryFilter) ([]models.Country, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Country, error)
	Search(ctx context.Context, text string, limit int) ([]models.Country, error)
	FilterByRegion(ctx context.Context, region models.Region) ([]models.Country, error)
	FilterByVisaRequired(ctx context.Context, required bool) ([]models.Country, error)
	Featured(ctx context.Context, limit int) ([]models.Country, error)
	Regions(ctx context.Context) ([]models.Region, error)
	Stats(ctx context.Context) (*PublicStats, error)
}

// StatsService computes the admin dashboard aggregate on demand
type StatsService interface {
	Compute(ctx context.Context) (*Stats, error)
}
