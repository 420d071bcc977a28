package countries

import (
	"github.com/joefazee/visaguide/models"
)

// thailandInput is a draft carrying every field publication needs.
func thailandInput() *CountryInput {
	docs := []models.Document{
		{Name: "Passport", Details: "Valid for 6 months"},
		{Name: "Return ticket", Category: "conditional", Format: "photocopy"},
	}
	fees := []FeeInput{{Label: "Tourist", AmountINR: ScalarOf("3200"), AmountUSD: ScalarOf("38.5"), LocalCurrency: "THB"}}
	airports := []string{"BKK", "DMK"}
	return &CountryInput{
		Name:         strPtr("Thailand"),
		Flag:         strPtr("🇹🇭"),
		Region:       strPtr("Asia"),
		VisaRequired: ScalarOf("false"),
		Summary:      strPtr("Visa exemption for short stays"),
		Documents:    &docs,
		Fees:         &fees,
		PhotoRequirements: &PhotoRequirementsInput{
			Size:       strPtr("35x45mm"),
			Background: strPtr("white"),
		},
		EntryPoints: &EntryPointsInput{Airports: &airports},
	}
}

func draftInput(name string) *CountryInput {
	return &CountryInput{Name: strPtr(name)}
}

func boolPtr(b bool) *bool { return &b }

func regionPtr(r models.Region) *models.Region { return &r }
