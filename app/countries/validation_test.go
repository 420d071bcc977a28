package countries

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/visaguide/models"
)

func strPtr(s string) *string { return &s }

func TestParseBool(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"false", false, false},
		{"TRUE", false, true},
		{"True", false, true},
		{"yes", false, true},
		{"1", false, true},
		{"", false, true},
		{" true", false, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.raw), func(t *testing.T) {
			got, err := ParseBool(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidBoolean)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantNil bool
		wantErr bool
	}{
		{raw: "1500", want: "1500"},
		{raw: "38.50", want: "38.5"},
		{raw: " 42 ", want: "42"},
		{raw: "", wantNil: true},
		{raw: "   ", wantNil: true},
		{raw: "$40", wantErr: true},
		{raw: "1,500", wantErr: true},
		{raw: "-5", wantErr: true},
		{raw: "12.", wantErr: true},
		{raw: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.raw), func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			switch {
			case tt.wantErr:
				assert.ErrorIs(t, err, models.ErrInvalidNumber)
			case tt.wantNil:
				require.NoError(t, err)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("asia")
	require.NoError(t, err)
	assert.Equal(t, models.RegionAsia, r)

	r, err = ParseRegion("  EUROPE ")
	require.NoError(t, err)
	assert.Equal(t, models.RegionEurope, r)

	r, err = ParseRegion("")
	require.NoError(t, err)
	assert.Empty(t, r)

	_, err = ParseRegion("Antarctica")
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
}

func TestApply_Scalars(t *testing.T) {
	var c models.Country
	errs := Apply(&c, &CountryInput{
		Name:         strPtr("  Thailand "),
		Flag:         strPtr("🇹🇭"),
		Region:       strPtr("asia"),
		VisaRequired: ScalarOf("false"),
		Summary:      strPtr("Land of smiles"),
	}, ApplyOptions{})
	require.Nil(t, errs)

	assert.Equal(t, "Thailand", c.Name)
	assert.Equal(t, models.RegionAsia, c.Region)
	require.NotNil(t, c.VisaRequired)
	assert.False(t, *c.VisaRequired)
	assert.NotNil(t, c.Documents)
	assert.NotNil(t, c.EntryPoints.Airports)
}

func TestApply_RejectsUppercaseBoolean(t *testing.T) {
	var c models.Country
	errs := Apply(&c, &CountryInput{Name: strPtr("Japan"), VisaRequired: ScalarOf("TRUE")}, ApplyOptions{})
	require.NotNil(t, errs)
	assert.True(t, errs.Has("visa_required", models.ErrInvalidBoolean))
	assert.ErrorIs(t, errs, models.ErrInvalidBoolean)
}

func TestApply_UnknownRegion(t *testing.T) {
	var c models.Country
	errs := Apply(&c, &CountryInput{Region: strPtr("Atlantis")}, ApplyOptions{})
	assert.True(t, errs.Has("region", models.ErrInvalidFormat))
}

func TestApply_TooManyDocuments(t *testing.T) {
	docs := make([]models.Document, 9)
	for i := range docs {
		docs[i] = models.Document{Name: fmt.Sprintf("Doc %d", i+1)}
	}
	var c models.Country
	errs := Apply(&c, &CountryInput{Documents: &docs}, ApplyOptions{})
	require.NotNil(t, errs)
	assert.True(t, errs.Has("documents", models.ErrTooManyEntries))
}

func TestApply_CollectionCaps(t *testing.T) {
	visaTypes := []models.VisaType{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}
	fees := []FeeInput{{Label: "a"}, {Label: "b"}, {Label: "c"}}
	embassies := []models.Embassy{{Location: "a"}, {Location: "b"}, {Location: "c"}}

	var c models.Country
	errs := Apply(&c, &CountryInput{VisaTypes: &visaTypes, Fees: &fees, Embassies: &embassies}, ApplyOptions{})
	assert.True(t, errs.Has("visa_types", models.ErrTooManyEntries))
	assert.True(t, errs.Has("fees", models.ErrTooManyEntries))
	assert.True(t, errs.Has("embassies", models.ErrTooManyEntries))
}

func TestApply_BlankEntriesAreDropped(t *testing.T) {
	docs := []models.Document{{Name: "Passport"}, {}, {Name: "  "}, {Name: "Photo", Format: "scan"}}
	var c models.Country
	errs := Apply(&c, &CountryInput{Documents: &docs}, ApplyOptions{})
	require.Nil(t, errs)

	require.Len(t, c.Documents, 2)
	assert.Equal(t, models.DocumentMandatory, c.Documents[0].Category)
	assert.Equal(t, models.FormatOriginal, c.Documents[0].Format)
	assert.Equal(t, models.FormatScan, c.Documents[1].Format)
}

func TestApply_NestedFieldErrors(t *testing.T) {
	docs := []models.Document{{Name: "Passport", Category: "optional"}}
	times := []models.ProcessingTime{{Type: "overnight", Duration: "1 day"}}
	methods := []models.ApplicationMethod{{Name: "fax"}}
	embassies := []models.Embassy{{Location: "Delhi", Website: "not a url"}}
	fees := []FeeInput{{Label: "Tourist", AmountUSD: ScalarOf("$40"), LocalCurrency: "baht"}}

	var c models.Country
	errs := Apply(&c, &CountryInput{
		Documents:          &docs,
		ProcessingTimes:    &times,
		ApplicationMethods: &methods,
		Embassies:          &embassies,
		Fees:               &fees,
	}, ApplyOptions{})

	assert.True(t, errs.Has("documents[0].category", models.ErrInvalidFormat))
	assert.True(t, errs.Has("processing_times[0].type", models.ErrInvalidFormat))
	assert.True(t, errs.Has("application_methods[0].name", models.ErrInvalidFormat))
	assert.True(t, errs.Has("embassies[0].website", models.ErrInvalidFormat))
	assert.True(t, errs.Has("fees[0].amount_usd", models.ErrInvalidNumber))
	assert.True(t, errs.Has("fees[0].local_currency", models.ErrInvalidFormat))
}

func TestApply_FeesAreParsed(t *testing.T) {
	fees := []FeeInput{{Label: "Tourist", AmountINR: ScalarOf("3200"), AmountUSD: ScalarOf("38.50"), LocalCurrency: "thb"}}
	var c models.Country
	require.Nil(t, Apply(&c, &CountryInput{Fees: &fees}, ApplyOptions{}))

	require.Len(t, c.Fees, 1)
	assert.Equal(t, "3200", c.Fees[0].AmountINR.String())
	assert.Equal(t, "38.5", c.Fees[0].AmountUSD.String())
	assert.Nil(t, c.Fees[0].AmountLocal)
	assert.Equal(t, "THB", c.Fees[0].LocalCurrency)
}

func TestApply_MergesPhotoAndEntryPoints(t *testing.T) {
	c := models.Country{
		PhotoRequirements: models.PhotoRequirements{Size: "35x45mm", Background: "white"},
		EntryPoints:       models.EntryPoints{Airports: []string{"BKK"}, Borders: []string{"Sadao"}},
	}
	airports := []string{"BKK", "DMK"}
	errs := Apply(&c, &CountryInput{
		PhotoRequirements: &PhotoRequirementsInput{Background: strPtr("off-white")},
		EntryPoints:       &EntryPointsInput{Airports: &airports},
	}, ApplyOptions{})
	require.Nil(t, errs)

	assert.Equal(t, "35x45mm", c.PhotoRequirements.Size)
	assert.Equal(t, "off-white", c.PhotoRequirements.Background)
	assert.Equal(t, []string{"BKK", "DMK"}, c.EntryPoints.Airports)
	assert.Equal(t, []string{"Sadao"}, c.EntryPoints.Borders)
	assert.Equal(t, []string{}, c.EntryPoints.Seaports)
}

func TestApply_CleanIsUsedForText(t *testing.T) {
	var c models.Country
	clean := func(s string) string { return "clean:" + s }
	require.Nil(t, Apply(&c, &CountryInput{Summary: strPtr("<b>x</b>")}, ApplyOptions{Clean: clean}))
	assert.Equal(t, "clean:<b>x</b>", c.Summary)
}

func TestApply_EmbassyContactKeptAsTyped(t *testing.T) {
	embassies := []models.Embassy{
		{Location: "Delhi", Contact: "info@thaiembdelhi.org"},
		{Location: "Bangkok", Contact: "02 258 0300"},
		{Location: "Mumbai", Contact: " +91 22 2282 2143 "},
	}
	var c models.Country
	require.Nil(t, Apply(&c, &CountryInput{Embassies: &embassies}, ApplyOptions{}))

	assert.Equal(t, "info@thaiembdelhi.org", c.Embassies[0].Contact)
	assert.Equal(t, "02 258 0300", c.Embassies[1].Contact)
	assert.Equal(t, "+91 22 2282 2143", c.Embassies[2].Contact)
}

func TestApply_EmbassyContactRejectsMalformedInternationalNumber(t *testing.T) {
	embassies := []models.Embassy{
		{Location: "Delhi", Contact: "+91 22"},
	}
	var c models.Country
	errs := Apply(&c, &CountryInput{Embassies: &embassies}, ApplyOptions{})
	require.NotNil(t, errs)
	assert.True(t, errs.Has("embassies[0].contact", models.ErrInvalidFormat))
}

func TestDeriveSlugAndCheckDraft(t *testing.T) {
	c := &models.Country{Name: "South Korea"}
	DeriveSlug(c)
	assert.Equal(t, "south-korea", c.Slug)
	assert.Nil(t, CheckDraft(c))

	c = &models.Country{Name: "Japan", Slug: "Japan!"}
	DeriveSlug(c)
	errs := CheckDraft(c)
	assert.True(t, errs.Has("slug", models.ErrInvalidFormat))

	errs = CheckDraft(&models.Country{})
	assert.True(t, errs.Has("name", models.ErrRequiredField))
	assert.True(t, errs.Has("slug", models.ErrRequiredField))
}

func TestMissingForPublish(t *testing.T) {
	assert.Equal(t, PublishRequired, MissingForPublish(&models.Country{}))

	no := false
	c := &models.Country{
		Name:         "Thailand",
		Slug:         "thailand",
		Flag:         "🇹🇭",
		Region:       models.RegionAsia,
		VisaRequired: &no,
		PhotoRequirements: models.PhotoRequirements{
			Size: "35x45mm",
		},
	}
	assert.Equal(t, []string{"summary", "photo_background"}, MissingForPublish(c))

	err := CheckPublishable(c)
	var incomplete *models.IncompleteRecordError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"summary", "photo_background"}, incomplete.Missing)
	assert.ErrorIs(t, err, models.ErrIncompleteRecord)

	c.Summary = "Visa on arrival"
	c.PhotoRequirements.Background = "white"
	assert.NoError(t, CheckPublishable(c))
}
