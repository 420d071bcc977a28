package countries

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/visaguide/app/storage"
	"github.com/joefazee/visaguide/models"
)

// seededCatalog returns a repository over a fresh file store holding three
// published records and one draft.
func seededCatalog(t *testing.T) (*repository, map[string]*models.Country) {
	t.Helper()
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "countries.json"), nil)
	require.NoError(t, err)

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewRepository(store, nil, nil, nil).(*repository)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	ctx := context.Background()
	out := map[string]*models.Country{}
	create := func(name, region, visa string, publish, feature bool) {
		in := thailandInput()
		in.Name = strPtr(name)
		in.Region = strPtr(region)
		in.VisaRequired = ScalarOf(visa)
		in.Summary = strPtr(name + " travel guide")
		c, err := repo.Create(ctx, in)
		require.NoError(t, err)
		if feature {
			c, err = repo.Feature(ctx, c.ID)
			require.NoError(t, err)
		}
		if publish {
			c, err = repo.Publish(ctx, c.ID)
			require.NoError(t, err)
		}
		out[c.Slug] = c
	}

	create("Thailand", "Asia", "false", true, true)
	create("Japan", "Asia", "true", true, false)
	create("France", "Europe", "true", true, true)
	create("Peru", "Americas", "false", false, true)
	return repo, out
}

func TestPublicService_ListPublished(t *testing.T) {
	repo, _ := seededCatalog(t)
	svc := NewPublicService(repo)
	ctx := context.Background()

	countries, total, err := svc.ListPublished(ctx, &models.CountryFilter{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, countries, 2)
	assert.Equal(t, "France", countries[0].Name)

	// A caller cannot widen the filter to drafts.
	countries, total, err = svc.ListPublished(ctx, &models.CountryFilter{Published: boolPtr(false)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, countries, 3)
}

func TestPublicService_GetBySlug(t *testing.T) {
	repo, _ := seededCatalog(t)
	svc := NewPublicService(repo)
	ctx := context.Background()

	country, err := svc.GetBySlug(ctx, "japan")
	require.NoError(t, err)
	require.NotNil(t, country)
	assert.Equal(t, "Japan", country.Name)

	country, err = svc.GetBySlug(ctx, "peru")
	require.NoError(t, err)
	assert.Nil(t, country)

	country, err = svc.GetBySlug(ctx, "atlantis")
	require.NoError(t, err)
	assert.Nil(t, country)
}

func TestPublicService_GetBySlug_StorageError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetBySlug", mock.Anything, "japan").Return(nil, models.ErrStorageUnavailable)

	_, err := NewPublicService(repo).GetBySlug(context.Background(), "japan")
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	repo.AssertExpectations(t)
}

func TestPublicService_Queries(t *testing.T) {
	repo, _ := seededCatalog(t)
	svc := NewPublicService(repo)
	ctx := context.Background()

	found, err := svc.Search(ctx, "PERU", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = svc.Search(ctx, "travel", 2)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	asia, err := svc.FilterByRegion(ctx, models.RegionAsia)
	require.NoError(t, err)
	assert.Len(t, asia, 2)

	americas, err := svc.FilterByRegion(ctx, models.RegionAmericas)
	require.NoError(t, err)
	assert.Empty(t, americas)

	visaFree, err := svc.FilterByVisaRequired(ctx, false)
	require.NoError(t, err)
	require.Len(t, visaFree, 1)
	assert.Equal(t, "Thailand", visaFree[0].Name)
}

func TestPublicService_Featured(t *testing.T) {
	repo, _ := seededCatalog(t)
	svc := NewPublicService(repo)

	featured, err := svc.Featured(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	// France was updated last.
	assert.Equal(t, "France", featured[0].Name)
	assert.Equal(t, "Thailand", featured[1].Name)

	featured, err = svc.Featured(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, featured, 1)
}

func TestPublicService_RegionsAndStats(t *testing.T) {
	repo, _ := seededCatalog(t)
	svc := NewPublicService(repo)
	ctx := context.Background()

	regions, err := svc.Regions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Region{models.RegionAsia, models.RegionEurope}, regions)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &PublicStats{TotalCountries: 3, Regions: 2, VisaRequired: 2, VisaFree: 1}, stats)
}

func TestStatsService_Compute(t *testing.T) {
	repo, _ := seededCatalog(t)

	stats, err := NewStatsService(repo).Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Published)
	assert.Equal(t, 1, stats.Drafts)
	assert.Equal(t, 3, stats.Featured)
	assert.Equal(t, 2, stats.VisaRequired)
	assert.Equal(t, 2, stats.VisaFree)
	assert.Equal(t, 3, stats.Regions)
	assert.Equal(t, map[string]int{"Asia": 2, "Europe": 1, "Africa": 0, "Americas": 1, "Oceania": 0}, stats.ByRegion)
}

func TestStatsService_Error(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListForAdmin", mock.Anything, (*models.CountryFilter)(nil)).Return(nil, assert.AnError)

	stats, err := NewStatsService(repo).Compute(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, stats)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Regions)
	assert.Len(t, stats.ByRegion, 5)
}
