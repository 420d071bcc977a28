package countries

import (
	"context"
	"errors"
	"sort"

	"github.com/joefazee/visaguide/models"
)

type publicService struct {
	repo Repository
}

// NewPublicService wraps repo with read-only, published-only queries.
func NewPublicService(repo Repository) PublicService {
	return &publicService{repo: repo}
}

// published copies filter and pins it to published records.
func published(filter *models.CountryFilter) *models.CountryFilter {
	f := models.CountryFilter{}
	if filter != nil {
		f = *filter
	}
	yes := true
	f.Published = &yes
	return &f
}

// ListPublished returns one window of published records and the total
// number of matches.
func (s *publicService) ListPublished(ctx context.Context, filter *models.CountryFilter) ([]models.Country, int64, error) {
	f := published(filter)
	countries, err := s.repo.ListForAdmin(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForAdmin(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return countries, total, nil
}

// GetBySlug returns nil without an error when the slug is unknown or the
// record is a draft.
func (s *publicService) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	country, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !country.Published {
		return nil, nil
	}
	return country, nil
}

func (s *publicService) Search(ctx context.Context, text string, limit int) ([]models.Country, error) {
	return s.repo.ListForAdmin(ctx, published(&models.CountryFilter{Search: text, Limit: limit}))
}

func (s *publicService) FilterByRegion(ctx context.Context, region models.Region) ([]models.Country, error) {
	return s.repo.ListForAdmin(ctx, published(&models.CountryFilter{Region: &region}))
}

func (s *publicService) FilterByVisaRequired(ctx context.Context, required bool) ([]models.Country, error) {
	return s.repo.ListForAdmin(ctx, published(&models.CountryFilter{VisaRequired: &required}))
}

// Featured returns published and featured records, most recently updated first.
func (s *publicService) Featured(ctx context.Context, limit int) ([]models.Country, error) {
	yes := true
	return s.repo.ListForAdmin(ctx, published(&models.CountryFilter{
		Featured: &yes,
		Limit:    limit,
		Sort:     "-" + models.SortUpdatedAt,
	}))
}

// Regions lists the distinct regions that have at least one published record.
func (s *publicService) Regions(ctx context.Context) ([]models.Region, error) {
	countries, err := s.repo.ListForAdmin(ctx, published(nil))
	if err != nil {
		return nil, err
	}
	return distinctRegions(countries), nil
}

func (s *publicService) Stats(ctx context.Context) (*PublicStats, error) {
	countries, err := s.repo.ListForAdmin(ctx, published(nil))
	if err != nil {
		return nil, err
	}
	stats := &PublicStats{
		TotalCountries: len(countries),
		Regions:        len(distinctRegions(countries)),
	}
	for i := range countries {
		if countries[i].IsVisaRequired() {
			stats.VisaRequired++
		} else {
			stats.VisaFree++
		}
	}
	return stats, nil
}

func distinctRegions(countries []models.Country) []models.Region {
	seen := map[models.Region]bool{}
	regions := []models.Region{}
	for i := range countries {
		r := countries[i].Region
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })
	return regions
}
