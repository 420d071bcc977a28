package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joefazee/visaguide/models"
)

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

// Store is the persistence contract every backend satisfies. Missing
// records are reported as models.ErrRecordNotFound and connectivity
// failures wrap models.ErrStorageUnavailable.
type Store interface {
	Get(ctx context.Context, id string) (*models.Country, error)
	GetBySlug(ctx context.Context, slug string) (*models.Country, error)
	List(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error)
	Count(ctx context.Context, filter *models.CountryFilter) (int64, error)
	Put(ctx context.Context, country *models.Country) (string, error)
	Delete(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
	Name() string
}

// unavailable wraps err with ErrStorageUnavailable when it looks like the
// backend cannot be reached, and returns it unchanged otherwise.
func unavailable(err error) error {
	if err == nil || errors.Is(err, models.ErrStorageUnavailable) {
		return err
	}
	if isConnectivityError(err) {
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return err
}

func isConnectivityError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
