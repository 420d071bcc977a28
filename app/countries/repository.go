package countries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/metrics"
	"github.com/joefazee/visaguide/internal/sanitizer"
	"github.com/joefazee/visaguide/models"
)

type repository struct {
	store     Store
	sanitizer sanitizer.HTMLStripperer
	logger    logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewRepository creates the country repository over store. sanitizer,
// log and m may be nil.
func NewRepository(store Store,
	sanitizer sanitizer.HTMLStripperer,
	log logger.Logger,
	m *metrics.Metrics,
) Repository {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &repository{
		store:     store,
		sanitizer: sanitizer,
		logger:    log,
		metrics:   m,
		now:       time.Now,
	}
}

// timestamp is truncated to milliseconds so every backend round trips it.
func (r *repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

func (r *repository) applyOptions() ApplyOptions {
	var opts ApplyOptions
	if r.sanitizer != nil {
		opts.Clean = r.sanitizer.StripHTML
	}
	return opts
}

// Create validates in and stores a new record. Records start as drafts
// unless the payload explicitly publishes them.
func (r *repository) Create(ctx context.Context, in *CountryInput) (*models.Country, error) {
	country := &models.Country{}
	if errs := Apply(country, in, r.applyOptions()); errs != nil {
		return nil, errs
	}
	if err := r.validate(country); err != nil {
		return nil, err
	}
	if err := r.ensureSlugAvailable(ctx, country.Slug, ""); err != nil {
		return nil, err
	}

	country.CreatedAt = r.timestamp()
	country.UpdatedAt = country.CreatedAt
	if err := r.put(ctx, country); err != nil {
		return nil, err
	}

	r.metrics.IncrementMutation("create")
	r.logger.Info("country created", map[string]interface{}{
		"id":        country.ID,
		"slug":      country.Slug,
		"published": country.Published,
	})
	return country, nil
}

// Update merges in over the stored record, or replaces it when fullReplace
// is set. Identity, status flags and the slug survive a full replace unless
// the payload sets them.
func (r *repository) Update(ctx context.Context, id string, in *CountryInput, fullReplace bool) (*models.Country, error) {
	current, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if fullReplace {
		next = models.Country{
			ID:        current.ID,
			Slug:      current.Slug,
			Published: current.Published,
			Featured:  current.Featured,
			CreatedAt: current.CreatedAt,
		}
	}
	if errs := Apply(&next, in, r.applyOptions()); errs != nil {
		return nil, errs
	}
	if err := r.validate(&next); err != nil {
		return nil, err
	}
	if next.Slug != current.Slug {
		if err := r.ensureSlugAvailable(ctx, next.Slug, id); err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = r.timestamp()
	if err := r.put(ctx, &next); err != nil {
		return nil, err
	}

	op := "update"
	if fullReplace {
		op = "replace"
	}
	r.metrics.IncrementMutation(op)
	r.logger.Info("country updated", map[string]interface{}{"id": id, "slug": next.Slug, "full_replace": fullReplace})
	return &next, nil
}

// Publish makes a record public once every Required field is filled.
func (r *repository) Publish(ctx context.Context, id string) (*models.Country, error) {
	return r.transition(ctx, id, "publish", func(c *models.Country) error {
		if err := CheckPublishable(c); err != nil {
			return err
		}
		c.Published = true
		return nil
	})
}

func (r *repository) Unpublish(ctx context.Context, id string) (*models.Country, error) {
	return r.transition(ctx, id, "unpublish", func(c *models.Country) error {
		c.Published = false
		return nil
	})
}

// Feature marks a record for the landing page. An unpublished featured
// record stays hidden until it is published.
func (r *repository) Feature(ctx context.Context, id string) (*models.Country, error) {
	return r.transition(ctx, id, "feature", func(c *models.Country) error {
		c.Featured = true
		return nil
	})
}

func (r *repository) Unfeature(ctx context.Context, id string) (*models.Country, error) {
	return r.transition(ctx, id, "unfeature", func(c *models.Country) error {
		c.Featured = false
		return nil
	})
}

func (r *repository) transition(ctx context.Context, id, op string, apply func(*models.Country) error) (*models.Country, error) {
	country, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(country); err != nil {
		return nil, err
	}

	country.UpdatedAt = r.timestamp()
	if err := r.put(ctx, country); err != nil {
		return nil, err
	}

	r.metrics.IncrementMutation(op)
	r.logger.Info("country "+op, map[string]interface{}{"id": id, "slug": country.Slug})
	return country, nil
}

// Delete removes the record permanently.
func (r *repository) Delete(ctx context.Context, id string) error {
	removed, err := r.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return models.ErrRecordNotFound
	}

	r.metrics.IncrementMutation("delete")
	r.logger.Info("country deleted", map[string]interface{}{"id": id})
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.Country, error) {
	return r.store.Get(ctx, id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	return r.store.GetBySlug(ctx, slug)
}

// ListForAdmin returns drafts and published records alike.
func (r *repository) ListForAdmin(ctx context.Context, filter *models.CountryFilter) ([]models.Country, error) {
	countries, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if countries == nil {
		countries = []models.Country{}
	}
	return countries, nil
}

func (r *repository) CountForAdmin(ctx context.Context, filter *models.CountryFilter) (int64, error) {
	return r.store.Count(ctx, filter)
}

func (r *repository) validate(c *models.Country) error {
	DeriveSlug(c)
	if errs := CheckDraft(c); errs != nil {
		return errs
	}
	if c.Published {
		return CheckPublishable(c)
	}
	return nil
}

// ensureSlugAvailable rejects slug when a record other than selfID owns it.
func (r *repository) ensureSlugAvailable(ctx context.Context, slug, selfID string) error {
	existing, err := r.store.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return models.ErrDuplicateSlug
	}
	return nil
}

func (r *repository) put(ctx context.Context, c *models.Country) error {
	id, err := r.store.Put(ctx, c)
	if err != nil {
		if !errors.Is(err, models.ErrDuplicateSlug) {
			r.logger.Error(err, map[string]interface{}{"op": "put", "slug": c.Slug})
		}
		return fmt.Errorf("save country %q: %w", c.Slug, err)
	}
	c.ID = id
	return nil
}
