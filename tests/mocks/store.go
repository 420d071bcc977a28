package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joefazee/visaguide/models"
)

// MockCountryStore satisfies both storage.Store and countries.Store.
type MockCountryStore struct {
	mock.Mock
}

func (m *MockCountryStore) Get(ctx context.Context, id string) (*models.Country, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *MockCountryStore) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *MockCountryStore) List(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Country), args.Error(1)
}

func (m *MockCountryStore) Count(ctx context.Context, filter *models.CountryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCountryStore) Put(ctx context.Context, country *models.Country) (string, error) {
	args := m.Called(ctx, country)
	return args.String(0), args.Error(1)
}

func (m *MockCountryStore) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCountryStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCountryStore) Name() string {
	return m.Called().String(0)
}
