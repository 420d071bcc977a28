package countries

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/joefazee/visaguide/models"
)

// Scalar holds the literal text of a boolean or numeric input. Coercion is
// deferred to the validation layer so a bad value is reported against its
// field instead of failing the whole request body.
type Scalar string

// UnmarshalJSON accepts a JSON string or any bare literal (true, 12.5).
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	*s = Scalar(b)
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// ScalarOf is a convenience for building inputs in code.
func ScalarOf(v string) *Scalar {
	s := Scalar(v)
	return &s
}

// CountryInput is a create or update payload. A nil field is absent: a
// partial update leaves it untouched and a full update resets it.
type CountryInput struct {
	Name         *string `json:"name,omitempty"`
	Slug         *string `json:"slug,omitempty"`
	Flag         *string `json:"flag,omitempty"`
	Region       *string `json:"region,omitempty"`
	Published    *Scalar `json:"published,omitempty" swaggertype:"string"`
	Featured     *Scalar `json:"featured,omitempty" swaggertype:"string"`
	VisaRequired *Scalar `json:"visa_required,omitempty" swaggertype:"string"`
	Summary      *string `json:"summary,omitempty"`

	VisaTypes          *[]models.VisaType          `json:"visa_types,omitempty"`
	Documents          *[]models.Document          `json:"documents,omitempty"`
	ProcessingTimes    *[]models.ProcessingTime    `json:"processing_times,omitempty"`
	Fees               *[]FeeInput                 `json:"fees,omitempty"`
	ApplicationMethods *[]models.ApplicationMethod `json:"application_methods,omitempty"`
	Embassies          *[]models.Embassy           `json:"embassies,omitempty"`
	PhotoRequirements  *PhotoRequirementsInput     `json:"photo_requirements,omitempty"`
	EntryPoints        *EntryPointsInput           `json:"entry_points,omitempty"`

	TransitInfo       *string   `json:"transit_info,omitempty"`
	SpecialConditions *[]string `json:"special_conditions,omitempty"`
	ImportantNotes    *[]string `json:"important_notes,omitempty"`

	MetaTitle       *string   `json:"meta_title,omitempty"`
	MetaDescription *string   `json:"meta_description,omitempty"`
	Keywords        *[]string `json:"keywords,omitempty"`
}

type FeeInput struct {
	Label         string  `json:"label"`
	AmountINR     *Scalar `json:"amount_inr,omitempty" swaggertype:"string"`
	AmountUSD     *Scalar `json:"amount_usd,omitempty" swaggertype:"string"`
	AmountLocal   *Scalar `json:"amount_local,omitempty" swaggertype:"string"`
	LocalCurrency string  `json:"local_currency"`
}

// PhotoRequirementsInput is merged key by key on partial updates.
type PhotoRequirementsInput struct {
	Size           *string   `json:"size,omitempty"`
	Background     *string   `json:"background,omitempty"`
	Specifications *[]string `json:"specifications,omitempty"`
}

// EntryPointsInput is merged key by key on partial updates.
type EntryPointsInput struct {
	Airports *[]string `json:"airports,omitempty"`
	Borders  *[]string `json:"borders,omitempty"`
	Seaports *[]string `json:"seaports,omitempty"`
}

// AdminListQuery binds GET /admin/countries
type AdminListQuery struct {
	Published    string `form:"published"`
	Featured     string `form:"featured"`
	VisaRequired string `form:"visa_required"`
	Region       string `form:"region"`
	Q            string `form:"q"`
	Offset       int    `form:"offset" binding:"omitempty,min=0"`
	Limit        int    `form:"limit" binding:"omitempty,min=0,max=200"`
	Sort         string `form:"sort" binding:"omitempty,oneof=name -name created_at -created_at updated_at -updated_at"`
}

// PublicListQuery binds GET /countries
type PublicListQuery struct {
	Region       string `form:"region"`
	VisaRequired string `form:"visa_required"`
	Q            string `form:"q"`
	Page         int    `form:"page" binding:"omitempty,min=1,max=1000000"`
	PerPage      int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// PublicCountryResponse is the projection served to anonymous callers.
// Every field is always present.
type PublicCountryResponse struct {
	Slug               string                     `json:"slug"`
	Name               string                     `json:"name"`
	Flag               string                     `json:"flag"`
	Region             models.Region              `json:"region"`
	Featured           bool                       `json:"featured"`
	VisaRequired       *bool                      `json:"visa_required"`
	Summary            string                     `json:"summary"`
	VisaTypes          []models.VisaType          `json:"visa_types"`
	Documents          []models.Document          `json:"documents"`
	ProcessingTimes    []models.ProcessingTime    `json:"processing_times"`
	Fees               []models.Fee               `json:"fees"`
	ApplicationMethods []models.ApplicationMethod `json:"application_methods"`
	Embassies          []models.Embassy           `json:"embassies"`
	PhotoRequirements  models.PhotoRequirements   `json:"photo_requirements"`
	EntryPoints        models.EntryPoints         `json:"entry_points"`
	TransitInfo        string                     `json:"transit_info"`
	SpecialConditions  []string                   `json:"special_conditions"`
	ImportantNotes     []string                   `json:"important_notes"`
	MetaTitle          string                     `json:"meta_title"`
	MetaDescription    string                     `json:"meta_description"`
	Keywords           []string                   `json:"keywords"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

// ToPublicCountryResponse projects a published record for anonymous callers.
func ToPublicCountryResponse(c *models.Country) *PublicCountryResponse {
	c.Normalize()
	return &PublicCountryResponse{
		Slug:               c.Slug,
		Name:               c.Name,
		Flag:               c.Flag,
		Region:             c.Region,
		Featured:           c.Featured,
		VisaRequired:       c.VisaRequired,
		Summary:            c.Summary,
		VisaTypes:          c.VisaTypes,
		Documents:          c.Documents,
		ProcessingTimes:    c.ProcessingTimes,
		Fees:               c.Fees,
		ApplicationMethods: c.ApplicationMethods,
		Embassies:          c.Embassies,
		PhotoRequirements:  c.PhotoRequirements,
		EntryPoints:        c.EntryPoints,
		TransitInfo:        c.TransitInfo,
		SpecialConditions:  c.SpecialConditions,
		ImportantNotes:     c.ImportantNotes,
		MetaTitle:          c.MetaTitle,
		MetaDescription:    c.MetaDescription,
		Keywords:           c.Keywords,
		UpdatedAt:          c.UpdatedAt,
	}
}

// ToPublicCountryResponseList projects a slice of published records
func ToPublicCountryResponseList(countries []models.Country) []PublicCountryResponse {
	responses := make([]PublicCountryResponse, len(countries))
	for i := range countries {
		responses[i] = *ToPublicCountryResponse(&countries[i])
	}
	return responses
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	Total        int            `json:"total"`
	Published    int            `json:"published"`
	Drafts       int            `json:"drafts"`
	Featured     int            `json:"featured"`
	VisaRequired int            `json:"visa_required"`
	VisaFree     int            `json:"visa_free"`
	Regions      int            `json:"regions"`
	ByRegion     map[string]int `json:"by_region"`
}

// PublicStats is the aggregate shown on the public landing page.
type PublicStats struct {
	TotalCountries int `json:"total_countries"`
	Regions        int `json:"regions"`
	VisaRequired   int `json:"visa_required"`
	VisaFree       int `json:"visa_free"`
}
