package countries

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/visaguide/internal/deps"
)

const (
	CountryRepoKey     = "country_repository"
	PublicServiceKey   = "country_public_service"
	StatsServiceKey    = "country_stats_service"
	CountriesConfigKey = "countries_config"
)

// MountPublic mounts the anonymous, published-only routes
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createPublicHandler(container)

	countriesGroup := r.Group("/countries")
	countriesGroup.GET("", handler.ListCountries)
	countriesGroup.GET("/featured", handler.FeaturedCountries)
	countriesGroup.GET("/regions", handler.ListRegions)
	countriesGroup.GET("/regions/:region", handler.CountriesByRegion)
	countriesGroup.GET("/visa/:status", handler.CountriesByVisa)
	countriesGroup.GET("/stats", handler.GetStats)
	countriesGroup.GET("/search", handler.SearchCountries)
	countriesGroup.GET("/:slug", handler.GetCountry)
}

// MountAdmin mounts the country management routes. The caller attaches the
// admin session check to r.
func MountAdmin(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	r.GET("/stats", handler.GetStats)

	countriesGroup := r.Group("/countries")
	countriesGroup.GET("", handler.ListCountries)
	countriesGroup.POST("", handler.CreateCountry)
	countriesGroup.GET("/:id", handler.GetCountry)
	countriesGroup.PUT("/:id", handler.ReplaceCountry)
	countriesGroup.PATCH("/:id", handler.PatchCountry)
	countriesGroup.DELETE("/:id", handler.DeleteCountry)
	countriesGroup.POST("/:id/publish", handler.PublishCountry)
	countriesGroup.POST("/:id/unpublish", handler.UnpublishCountry)
	countriesGroup.POST("/:id/feature", handler.FeatureCountry)
	countriesGroup.POST("/:id/unfeature", handler.UnfeatureCountry)
	countriesGroup.PATCH("/:id/publish", handler.SetPublished)
	countriesGroup.PATCH("/:id/feature", handler.SetFeatured)
}

// InitRepositories builds the repository and services over store and
// registers them for this module
func InitRepositories(container *deps.Container, store Store, cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	repo := NewRepository(store, container.Sanitizer, container.Logger, container.Metrics)

	container.Provide(CountryRepoKey, repo)
	container.Provide(PublicServiceKey, NewPublicService(repo))
	container.Provide(StatsServiceKey, NewStatsService(repo))
	container.Provide(CountriesConfigKey, cfg)
}

func createHandler(container *deps.Container) *Handler {
	repo := deps.Resolve[Repository](container, CountryRepoKey)
	stats := deps.Resolve[StatsService](container, StatsServiceKey)
	return NewHandler(repo, stats, container.Logger)
}

func createPublicHandler(container *deps.Container) *PublicHandler {
	service := deps.Resolve[PublicService](container, PublicServiceKey)
	cfg, _ := deps.Lookup[*Config](container, CountriesConfigKey)
	return NewPublicHandler(service, cfg, container.Logger)
}
