package countries

import (
	"fmt"
	"math"
	"strings"

	"github.com/joefazee/visaguide/models"
)

// Filter converts the raw admin query into a store filter.
func (q *AdminListQuery) Filter() (*models.CountryFilter, models.ValidationErrors) {
	var errs models.ValidationErrors
	f := &models.CountryFilter{
		Search: strings.TrimSpace(q.Q),
		Offset: q.Offset,
		Limit:  q.Limit,
		Sort:   q.Sort,
	}
	f.Published = optionalBool("published", q.Published, &errs)
	f.Featured = optionalBool("featured", q.Featured, &errs)
	f.VisaRequired = optionalBool("visa_required", q.VisaRequired, &errs)
	f.Region = optionalRegion(q.Region, &errs)
	if len(errs) > 0 {
		return nil, errs
	}
	return f, nil
}

// Filter converts the public query into a page window of perPage records.
// Page and PerPage are defaulted in place.
func (q *PublicListQuery) Filter(defaultPerPage int) (*models.CountryFilter, models.ValidationErrors) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}

	offset := math.MaxInt
	if q.Page-1 <= math.MaxInt/q.PerPage {
		offset = (q.Page - 1) * q.PerPage
	}

	var errs models.ValidationErrors
	f := &models.CountryFilter{
		Search: strings.TrimSpace(q.Q),
		Offset: offset,
		Limit:  q.PerPage,
	}
	f.VisaRequired = optionalBool("visa_required", q.VisaRequired, &errs)
	f.Region = optionalRegion(q.Region, &errs)
	if len(errs) > 0 {
		return nil, errs
	}
	return f, nil
}

func optionalBool(field, raw string, errs *models.ValidationErrors) *bool {
	if raw == "" {
		return nil
	}
	v, err := ParseBool(raw)
	if err != nil {
		*errs = append(*errs, &models.FieldError{Field: field, Err: err,
			Message: fmt.Sprintf("must be true or false, got %q", raw)})
		return nil
	}
	return &v
}

func optionalRegion(raw string, errs *models.ValidationErrors) *models.Region {
	r, err := ParseRegion(raw)
	if err != nil {
		*errs = append(*errs, &models.FieldError{Field: "region", Err: err,
			Message: fmt.Sprintf("unknown region %q", raw)})
		return nil
	}
	if r == "" {
		return nil
	}
	return &r
}
