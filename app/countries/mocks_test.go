package countries

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joefazee/visaguide/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) country(args mock.Arguments) (*models.Country, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, in *CountryInput) (*models.Country, error) {
	return m.country(m.Called(ctx, in))
}

func (m *MockRepository) Update(ctx context.Context, id string, in *CountryInput, fullReplace bool) (*models.Country, error) {
	return m.country(m.Called(ctx, id, in, fullReplace))
}

func (m *MockRepository) Publish(ctx context.Context, id string) (*models.Country, error) {
	return m.country(m.Called(ctx, id))
}

func (m *MockRepository) Unpublish(ctx context.Context, id string) (*models.Country, error) {
	return m.country(m.Called(ctx, id))
}

func (m *MockRepository) Feature(ctx context.Context, id string) (*models.Country, error) {
	return m.country(m.Called(ctx, id))
}

func (m *MockRepository) Unfeature(ctx context.Context, id string) (*models.Country, error) {
	return m.country(m.Called(ctx, id))
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*models.Country, error) {
	return m.country(m.Called(ctx, id))
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	return m.country(m.Called(ctx, slug))
}

func (m *MockRepository) ListForAdmin(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Country), args.Error(1)
}

func (m *MockRepository) CountForAdmin(ctx context.Context, filter *models.CountryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublicService struct {
	mock.Mock
}

func (m *MockPublicService) countries(args mock.Arguments) ([]models.Country, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Country), args.Error(1)
}

func (m *MockPublicService) ListPublished(ctx context.Context, filter *models.CountryFilter) ([]models.Country, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Country), args.Get(1).(int64), args.Error(2)
}

func (m *MockPublicService) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *MockPublicService) Search(ctx context.Context, text string, limit int) ([]models.Country, error) {
	return m.countries(m.Called(ctx, text, limit))
}

func (m *MockPublicService) FilterByRegion(ctx context.Context, region models.Region) ([]models.Country, error) {
	return m.countries(m.Called(ctx, region))
}

func (m *MockPublicService) FilterByVisaRequired(ctx context.Context, required bool) ([]models.Country, error) {
	return m.countries(m.Called(ctx, required))
}

func (m *MockPublicService) Featured(ctx context.Context, limit int) ([]models.Country, error) {
	return m.countries(m.Called(ctx, limit))
}

func (m *MockPublicService) Regions(ctx context.Context) ([]models.Region, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Region), args.Error(1)
}

func (m *MockPublicService) Stats(ctx context.Context) (*PublicStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PublicStats), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Compute(ctx context.Context) (*Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}
