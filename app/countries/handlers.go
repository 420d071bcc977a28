package countries

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/joefazee/visaguide/app/api"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/models"
)

// Handler serves the admin country endpoints
type Handler struct {
	repo   Repository
	stats  StatsService
	logger logger.Logger
}

// NewHandler creates a new admin country handler
func NewHandler(repo Repository, stats StatsService, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Handler{repo: repo, stats: stats, logger: log}
}

// ListCountries godoc
// @Summary List countries for admin
// @Description List drafts and published countries with filters, sorting and offset pagination
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Param published query string false "true or false"
// @Param featured query string false "true or false"
// @Param visa_required query string false "true or false"
// @Param region query string false "Region"
// @Param q query string false "Substring of name or summary"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Param sort query string false "name, created_at or updated_at, prefix - for descending"
// @Success 200 {object} api.Response{data=[]models.Country,meta=api.OffsetMeta}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/countries [get]
func (h *Handler) ListCountries(c *gin.Context) {
	var q AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	filter, errs := q.Filter()
	if errs != nil {
		api.ValidationErrorResponse(c, errs.Fields())
		return
	}

	countries, err := h.repo.ListForAdmin(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "fetch countries")
		return
	}
	total, err := h.repo.CountForAdmin(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "count countries")
		return
	}

	api.OffsetResponse(c, "Countries retrieved successfully", countries, api.OffsetMeta{
		Total:  total,
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// GetCountry godoc
// @Summary Get country by ID
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Success 200 {object} api.Response{data=models.Country}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/countries/{id} [get]
func (h *Handler) GetCountry(c *gin.Context) {
	country, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "fetch country")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Country retrieved successfully", country)
}

// CreateCountry godoc
// @Summary Create a country
// @Description Accepts JSON or the flat form layout. New countries are drafts unless published is "true".
// @Tags admin-countries
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security AdminCookie
// @Param request body CountryInput true "Country payload"
// @Success 201 {object} api.Response{data=models.Country}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/countries [post]
func (h *Handler) CreateCountry(c *gin.Context) {
	in, ok := readInput(c)
	if !ok {
		return
	}

	country, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err, "create country")
		return
	}
	api.CreatedResponse(c, "Country created successfully", country)
}

// ReplaceCountry godoc
// @Summary Replace a country
// @Description Full replace. Absent fields are cleared and nested collections are replaced.
// @Tags admin-countries
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Param request body CountryInput true "Country payload"
// @Success 200 {object} api.Response{data=models.Country}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/countries/{id} [put]
func (h *Handler) ReplaceCountry(c *gin.Context) {
	h.update(c, true)
}

// PatchCountry godoc
// @Summary Partially update a country
// @Description Only fields present in the payload change. A supplied list replaces the stored list.
// @Tags admin-countries
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Param request body CountryInput true "Country payload"
// @Success 200 {object} api.Response{data=models.Country}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/countries/{id} [patch]
func (h *Handler) PatchCountry(c *gin.Context) {
	h.update(c, false)
}

func (h *Handler) update(c *gin.Context, fullReplace bool) {
	in, ok := readInput(c)
	if !ok {
		return
	}

	country, err := h.repo.Update(c.Request.Context(), c.Param("id"), in, fullReplace)
	if err != nil {
		h.respondError(c, err, "update country")
		return
	}
	api.UpdatedResponse(c, "Country updated successfully", country)
}

// DeleteCountry godoc
// @Summary Delete a country
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Success 200 {object} api.Response
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/countries/{id} [delete]
func (h *Handler) DeleteCountry(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "delete country")
		return
	}
	api.DeletedResponse(c, "Country deleted successfully")
}

// PublishCountry godoc
// @Summary Publish a country
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Success 200 {object} api.Response{data=models.Country}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/countries/{id}/publish [post]
func (h *Handler) PublishCountry(c *gin.Context) {
	h.transition(c, h.repo.Publish, "Country published")
}

// UnpublishCountry godoc
// @Summary Unpublish a country
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Success 200 {object} api.Response{data=models.Country}
// @Router /api/v1/admin/countries/{id}/unpublish [post]
func (h *Handler) UnpublishCountry(c *gin.Context) {
	h.transition(c, h.repo.Unpublish, "Country unpublished")
}

// FeatureCountry godoc
// @Summary Feature a country
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Success 200 {object} api.Response{data=models.Country}
// @Router /api/v1/admin/countries/{id}/feature [post]
func (h *Handler) FeatureCountry(c *gin.Context) {
	h.transition(c, h.repo.Feature, "Country featured")
}

// UnfeatureCountry godoc
// @Summary Unfeature a country
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Success 200 {object} api.Response{data=models.Country}
// @Router /api/v1/admin/countries/{id}/unfeature [post]
func (h *Handler) UnfeatureCountry(c *gin.Context) {
	h.transition(c, h.repo.Unfeature, "Country unfeatured")
}

// SetPublished godoc
// @Summary Toggle publication
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Param published query string true "true or false"
// @Success 200 {object} api.Response{data=models.Country}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/countries/{id}/publish [patch]
func (h *Handler) SetPublished(c *gin.Context) {
	on, ok := queryBool(c, "published")
	if !ok {
		return
	}
	if on {
		h.PublishCountry(c)
		return
	}
	h.UnpublishCountry(c)
}

// SetFeatured godoc
// @Summary Toggle featured flag
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Param id path string true "Country ID"
// @Param featured query string true "true or false"
// @Success 200 {object} api.Response{data=models.Country}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/countries/{id}/feature [patch]
func (h *Handler) SetFeatured(c *gin.Context) {
	on, ok := queryBool(c, "featured")
	if !ok {
		return
	}
	if on {
		h.FeatureCountry(c)
		return
	}
	h.UnfeatureCountry(c)
}

// GetStats godoc
// @Summary Catalog statistics
// @Description Totals, published, drafts, featured and per-region counts over every record
// @Tags admin-countries
// @Produce json
// @Security AdminCookie
// @Success 200 {object} api.Response{data=Stats}
// @Router /api/v1/admin/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.stats.Compute(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "compute statistics")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

func (h *Handler) transition(c *gin.Context,
	apply func(ctx context.Context, id string) (*models.Country, error),
	message string,
) {
	country, err := apply(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "update country")
		return
	}
	api.UpdatedResponse(c, message, country)
}

// respondError maps domain errors onto the response envelope.
func (h *Handler) respondError(c *gin.Context, err error, action string) {
	var (
		fieldErrs  models.ValidationErrors
		incomplete *models.IncompleteRecordError
	)
	switch {
	case errors.As(err, &fieldErrs):
		api.ValidationErrorResponse(c, fieldErrs.Fields())
	case errors.As(err, &incomplete):
		api.IncompleteRecordResponse(c, incomplete.Missing)
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Country")
	case errors.Is(err, models.ErrDuplicateSlug):
		api.ConflictResponse(c, "A country with this slug already exists")
	case errors.Is(err, models.ErrStorageUnavailable):
		h.logger.Error(err, map[string]interface{}{"action": action})
		api.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is unavailable", nil)
	default:
		h.logger.Error(err, map[string]interface{}{"action": action})
		api.InternalErrorResponse(c, "Failed to "+action)
	}
}

// readInput decodes a JSON body or the flat form layout. It writes the
// error response itself and reports false when the body is unreadable.
func readInput(c *gin.Context) (*CountryInput, bool) {
	switch c.ContentType() {
	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			api.BadRequestResponse(c, err.Error())
			return nil, false
		}
		return ParseForm(c.Request.PostForm), true
	case binding.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			api.BadRequestResponse(c, err.Error())
			return nil, false
		}
		return ParseForm(url.Values(form.Value)), true
	}

	var in CountryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		api.BadRequestResponse(c, err.Error())
		return nil, false
	}
	return &in, true
}

func queryBool(c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	v, err := ParseBool(raw)
	if err != nil {
		api.ValidationErrorResponse(c, map[string]string{
			name: fmt.Sprintf("must be true or false, got %q", raw),
		})
		return false, false
	}
	return v, true
}
