package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joefazee/visaguide/models"
)

func boolPtr(b bool) *bool { return &b }

func regionPtr(r models.Region) *models.Region { return &r }

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleCountry(name, slug string, region models.Region) *models.Country {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := &models.Country{
		Slug:         slug,
		Name:         name,
		Flag:         "🏳",
		Region:       region,
		VisaRequired: boolPtr(true),
		Summary:      name + " visa summary",
		VisaTypes: models.JSONSlice[models.VisaType]{
			{Name: "Tourist", Description: "Leisure travel", Validity: "60 days", EntriesAllowed: "Single"},
		},
		Documents: models.JSONSlice[models.Document]{
			{Name: "Passport", Category: models.DocumentMandatory, Format: models.FormatOriginal},
		},
		Fees: models.JSONSlice[models.Fee]{
			{Label: "Tourist", AmountINR: decimalPtr("3200.5"), AmountUSD: decimalPtr("38"), LocalCurrency: "THB"},
		},
		PhotoRequirements: models.PhotoRequirements{Size: "35x45mm", Background: "white"},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	c.Normalize()
	return c
}

func countryNames(countries []models.Country) []string {
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		out = append(out, c.Name)
	}
	return out
}
