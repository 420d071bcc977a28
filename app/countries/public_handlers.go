package countries

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/visaguide/app/api"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/models"
)

// PublicHandler serves read-only endpoints to anonymous visitors. Drafts
// are never visible here.
type PublicHandler struct {
	service PublicService
	config  *Config
	logger  logger.Logger
}

// NewPublicHandler creates a new public country handler
func NewPublicHandler(service PublicService, cfg *Config, log logger.Logger) *PublicHandler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &PublicHandler{service: service, config: cfg, logger: log}
}

// ListCountries godoc
// @Summary List published countries
// @Tags countries
// @Produce json
// @Param region query string false "Region"
// @Param visa_required query string false "true or false"
// @Param q query string false "Search text"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} api.Response{data=[]PublicCountryResponse,meta=api.PaginationMeta}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries [get]
func (h *PublicHandler) ListCountries(c *gin.Context) {
	var q PublicListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	filter, errs := q.Filter(h.config.PerPage)
	if errs != nil {
		api.ValidationErrorResponse(c, errs.Fields())
		return
	}

	countries, total, err := h.service.ListPublished(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "fetch countries")
		return
	}

	api.PaginatedResponse(c, "Countries retrieved successfully",
		ToPublicCountryResponseList(countries), api.NewPaginationMeta(q.Page, q.PerPage, total))
}

// GetCountry godoc
// @Summary Get a published country by slug
// @Tags countries
// @Produce json
// @Param slug path string true "Country slug"
// @Success 200 {object} api.Response{data=PublicCountryResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/{slug} [get]
func (h *PublicHandler) GetCountry(c *gin.Context) {
	country, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "fetch country")
		return
	}
	if country == nil {
		api.NotFoundResponse(c, "Country")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Country retrieved successfully", ToPublicCountryResponse(country))
}

// SearchCountries godoc
// @Summary Search published countries by name or summary
// @Tags countries
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Maximum results"
// @Success 200 {object} api.Response{data=[]PublicCountryResponse,meta=api.ListMeta}
// @Router /api/v1/countries/search [get]
func (h *PublicHandler) SearchCountries(c *gin.Context) {
	limit := h.limit(c, h.config.SearchLimit)
	countries, err := h.service.Search(c.Request.Context(), strings.TrimSpace(c.Query("q")), limit)
	if err != nil {
		h.fail(c, err, "search countries")
		return
	}
	api.ListResponse(c, "Countries retrieved successfully", ToPublicCountryResponseList(countries), len(countries))
}

// FeaturedCountries godoc
// @Summary Featured countries for the landing page
// @Tags countries
// @Produce json
// @Param limit query int false "Maximum results" default(6)
// @Success 200 {object} api.Response{data=[]PublicCountryResponse,meta=api.ListMeta}
// @Router /api/v1/countries/featured [get]
func (h *PublicHandler) FeaturedCountries(c *gin.Context) {
	countries, err := h.service.Featured(c.Request.Context(), h.limit(c, h.config.FeaturedLimit))
	if err != nil {
		h.fail(c, err, "fetch featured countries")
		return
	}
	api.ListResponse(c, "Featured countries retrieved successfully", ToPublicCountryResponseList(countries), len(countries))
}

// ListRegions godoc
// @Summary Regions with at least one published country
// @Tags countries
// @Produce json
// @Success 200 {object} api.Response{data=[]models.Region,meta=api.ListMeta}
// @Router /api/v1/countries/regions [get]
func (h *PublicHandler) ListRegions(c *gin.Context) {
	regions, err := h.service.Regions(c.Request.Context())
	if err != nil {
		h.fail(c, err, "fetch regions")
		return
	}
	api.ListResponse(c, "Regions retrieved successfully", regions, len(regions))
}

// CountriesByRegion godoc
// @Summary Published countries in a region
// @Tags countries
// @Produce json
// @Param region path string true "Region, case insensitive"
// @Success 200 {object} api.Response{data=[]PublicCountryResponse,meta=api.ListMeta}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/regions/{region} [get]
func (h *PublicHandler) CountriesByRegion(c *gin.Context) {
	region, err := ParseRegion(c.Param("region"))
	if err != nil || region == "" {
		api.ValidationErrorResponse(c, map[string]string{"region": "unknown region " + strconv.Quote(c.Param("region"))})
		return
	}
	countries, err := h.service.FilterByRegion(c.Request.Context(), region)
	if err != nil {
		h.fail(c, err, "fetch countries")
		return
	}
	api.ListResponse(c, "Countries retrieved successfully", ToPublicCountryResponseList(countries), len(countries))
}

// CountriesByVisa godoc
// @Summary Published countries by visa requirement
// @Tags countries
// @Produce json
// @Param status path string true "required or free"
// @Success 200 {object} api.Response{data=[]PublicCountryResponse,meta=api.ListMeta}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/visa/{status} [get]
func (h *PublicHandler) CountriesByVisa(c *gin.Context) {
	var required bool
	switch c.Param("status") {
	case "required":
		required = true
	case "free":
	default:
		api.ValidationErrorResponse(c, map[string]string{"status": "must be required or free"})
		return
	}
	countries, err := h.service.FilterByVisaRequired(c.Request.Context(), required)
	if err != nil {
		h.fail(c, err, "fetch countries")
		return
	}
	api.ListResponse(c, "Countries retrieved successfully", ToPublicCountryResponseList(countries), len(countries))
}

// GetStats godoc
// @Summary Public catalog statistics
// @Tags countries
// @Produce json
// @Success 200 {object} api.Response{data=PublicStats}
// @Router /api/v1/countries/stats [get]
func (h *PublicHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "compute statistics")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// limit reads ?limit= and falls back to def for missing or bad values.
func (h *PublicHandler) limit(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n < 1 || n > 100 {
		return def
	}
	return n
}

func (h *PublicHandler) fail(c *gin.Context, err error, action string) {
	h.logger.Error(err, map[string]interface{}{"action": action})
	if errors.Is(err, models.ErrStorageUnavailable) {
		api.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is unavailable", nil)
		return
	}
	api.InternalErrorResponse(c, "Failed to "+action)
}
