package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Region groups countries on the public site.
type Region string

const (
	RegionAsia     Region = "Asia"
	RegionEurope   Region = "Europe"
	RegionAfrica   Region = "Africa"
	RegionAmericas Region = "Americas"
	RegionOceania  Region = "Oceania"
)

// Regions returns every supported region in display order.
func Regions() []Region {
	return []Region{RegionAsia, RegionEurope, RegionAfrica, RegionAmericas, RegionOceania}
}

// Valid reports whether r is one of the supported regions.
func (r Region) Valid() bool {
	for _, known := range Regions() {
		if r == known {
			return true
		}
	}
	return false
}

type DocumentCategory string

const (
	DocumentMandatory   DocumentCategory = "mandatory"
	DocumentForMinors   DocumentCategory = "for_minors"
	DocumentForBusiness DocumentCategory = "for_business"
	DocumentConditional DocumentCategory = "conditional"
)

type DocumentFormat string

const (
	FormatOriginal  DocumentFormat = "original"
	FormatPhotocopy DocumentFormat = "photocopy"
	FormatScan      DocumentFormat = "scan"
)

type ProcessingType string

const (
	ProcessingRegular   ProcessingType = "regular"
	ProcessingExpress   ProcessingType = "express"
	ProcessingPriority  ProcessingType = "priority"
	ProcessingEmergency ProcessingType = "emergency"
)

type ApplicationMethodName string

const (
	MethodEmbassy ApplicationMethodName = "embassy"
	MethodOnline  ApplicationMethodName = "online"
	MethodVOA     ApplicationMethodName = "voa"
	MethodAgent   ApplicationMethodName = "agent"
)

// Upper bounds for the nested collections of a Country.
const (
	MaxVisaTypes          = 3
	MaxDocuments          = 8
	MaxProcessingTimes    = 3
	MaxFees               = 2
	MaxApplicationMethods = 3
	MaxEmbassies          = 2
)

type VisaType struct {
	Name           string `json:"name" bson:"name"`
	Description    string `json:"description" bson:"description"`
	Validity       string `json:"validity" bson:"validity"`
	EntriesAllowed string `json:"entries_allowed" bson:"entries_allowed"`
}

type Document struct {
	Name     string           `json:"name" bson:"name"`
	Category DocumentCategory `json:"category" bson:"category"`
	Format   DocumentFormat   `json:"format" bson:"format"`
	Details  string           `json:"details,omitempty" bson:"details,omitempty"`
}

type ProcessingTime struct {
	Type     ProcessingType `json:"type" bson:"type"`
	Duration string         `json:"duration" bson:"duration"`
}

// Fee amounts are optional; a nil amount means "not published".
type Fee struct {
	Label         string           `json:"label" bson:"label"`
	AmountINR     *decimal.Decimal `json:"amount_inr" bson:"amount_inr"`
	AmountUSD     *decimal.Decimal `json:"amount_usd" bson:"amount_usd"`
	AmountLocal   *decimal.Decimal `json:"amount_local" bson:"amount_local"`
	LocalCurrency string           `json:"local_currency" bson:"local_currency"`
}

type ApplicationMethod struct {
	Name         ApplicationMethodName `json:"name" bson:"name"`
	Requirements []string              `json:"requirements" bson:"requirements"`
}

type Embassy struct {
	Location string `json:"location" bson:"location"`
	Address  string `json:"address" bson:"address"`
	Contact  string `json:"contact" bson:"contact"`
	Website  string `json:"website" bson:"website"`
}

// Country is the root entity of the catalog. Nested collections are stored
// as jsonb columns in Postgres and as embedded documents in Mongo.
type Country struct {
	ID           string `gorm:"type:varchar(36);primaryKey" json:"id" bson:"_id"`
	Slug         string `gorm:"type:varchar(120);not null;uniqueIndex" json:"slug" bson:"slug"`
	Name         string `gorm:"type:varchar(120);not null" json:"name" bson:"name"`
	Flag         string `gorm:"type:varchar(32)" json:"flag" bson:"flag"`
	Region       Region `gorm:"type:varchar(20);index" json:"region" bson:"region"`
	Published    bool   `gorm:"not null;index" json:"published" bson:"published"`
	Featured     bool   `gorm:"not null" json:"featured" bson:"featured"`
	VisaRequired *bool  `json:"visa_required" bson:"visa_required"`
	Summary      string `gorm:"type:text" json:"summary" bson:"summary"`

	VisaTypes          JSONSlice[VisaType]          `gorm:"type:jsonb;not null" json:"visa_types" bson:"visa_types"`
	Documents          JSONSlice[Document]          `gorm:"type:jsonb;not null" json:"documents" bson:"documents"`
	ProcessingTimes    JSONSlice[ProcessingTime]    `gorm:"type:jsonb;not null" json:"processing_times" bson:"processing_times"`
	Fees               JSONSlice[Fee]               `gorm:"type:jsonb;not null" json:"fees" bson:"fees"`
	ApplicationMethods JSONSlice[ApplicationMethod] `gorm:"type:jsonb;not null" json:"application_methods" bson:"application_methods"`
	Embassies          JSONSlice[Embassy]           `gorm:"type:jsonb;not null" json:"embassies" bson:"embassies"`
	PhotoRequirements  PhotoRequirements            `gorm:"type:jsonb;not null" json:"photo_requirements" bson:"photo_requirements"`
	EntryPoints        EntryPoints                  `gorm:"type:jsonb;not null" json:"entry_points" bson:"entry_points"`

	TransitInfo       string            `gorm:"type:text" json:"transit_info" bson:"transit_info"`
	SpecialConditions JSONSlice[string] `gorm:"type:jsonb;not null" json:"special_conditions" bson:"special_conditions"`
	ImportantNotes    JSONSlice[string] `gorm:"type:jsonb;not null" json:"important_notes" bson:"important_notes"`

	MetaTitle       string            `gorm:"type:varchar(200)" json:"meta_title" bson:"meta_title"`
	MetaDescription string            `gorm:"type:text" json:"meta_description" bson:"meta_description"`
	Keywords        JSONSlice[string] `gorm:"type:jsonb;not null" json:"keywords" bson:"keywords"`

	CreatedAt time.Time `gorm:"not null" json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at" bson:"updated_at"`
}

// TableName specifies the table name for Country model
func (*Country) TableName() string {
	return "countries"
}

// BeforeCreate assigns an id when the caller did not provide one.
func (c *Country) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsVisaRequired treats an unset flag as false.
func (c *Country) IsVisaRequired() bool {
	return c.VisaRequired != nil && *c.VisaRequired
}

// Normalize replaces nil collections with empty ones so every field is
// present when the record is serialized.
func (c *Country) Normalize() {
	c.VisaTypes = nonNil(c.VisaTypes)
	c.Documents = nonNil(c.Documents)
	c.ProcessingTimes = nonNil(c.ProcessingTimes)
	c.Fees = nonNil(c.Fees)
	c.Embassies = nonNil(c.Embassies)
	c.SpecialConditions = nonNil(c.SpecialConditions)
	c.ImportantNotes = nonNil(c.ImportantNotes)
	c.Keywords = nonNil(c.Keywords)

	c.ApplicationMethods = nonNil(c.ApplicationMethods)
	for i := range c.ApplicationMethods {
		if c.ApplicationMethods[i].Requirements == nil {
			c.ApplicationMethods[i].Requirements = []string{}
		}
	}

	c.PhotoRequirements.normalize()
	c.EntryPoints.normalize()
}

func nonNil[T any](s JSONSlice[T]) JSONSlice[T] {
	if s == nil {
		return JSONSlice[T]{}
	}
	return s
}
