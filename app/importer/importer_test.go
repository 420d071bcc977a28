package importer

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/joefazee/visaguide/app/countries"
	"github.com/joefazee/visaguide/app/storage"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/sanitizer"
	"github.com/joefazee/visaguide/models"
	"github.com/joefazee/visaguide/tests/mocks"
)

const catalogCSV = `name,flag,region,visa_required,summary,photo_size,photo_background,published,document_1_name,document_1_category,airports
Thailand,TH,Asia,false,Visa exemption for short stays,35x45mm,white,true,Passport,mandatory,BKK|DMK
Japan,JP,asia,,,,,,,,
`

type ImporterTestSuite struct {
	suite.Suite
	store *storage.FileStore
	repo  countries.Repository
	ctx   context.Context
}

func (suite *ImporterTestSuite) SetupTest() {
	store, err := storage.NewFileStore(filepath.Join(suite.T().TempDir(), "countries.json"), nil)
	suite.Require().NoError(err)

	suite.store = store
	suite.repo = countries.NewRepository(store, sanitizer.NewHTMLStripper(), logger.NewNullLogger(), nil)
	suite.ctx = context.Background()
}

func (suite *ImporterTestSuite) importer(dryRun bool) *Importer {
	return New(suite.repo, logger.NewNullLogger(), Options{
		DryRun: dryRun,
		Apply:  countries.ApplyOptions{Clean: sanitizer.NewHTMLStripper().StripHTML},
	})
}

func (suite *ImporterTestSuite) count() int64 {
	n, err := suite.store.Count(suite.ctx, nil)
	suite.Require().NoError(err)
	return n
}

func TestImporterTestSuite(t *testing.T) {
	suite.Run(t, new(ImporterTestSuite))
}

func (suite *ImporterTestSuite) TestImport_CreatesRows() {
	report, err := suite.importer(false).Import(suite.ctx, strings.NewReader(catalogCSV))
	suite.Require().NoError(err)

	suite.Equal(2, report.Count(ActionCreate))
	suite.False(report.Failed())
	suite.Equal(2, report.Rows[0].Line)
	suite.Equal("thailand", report.Rows[0].Slug)
	suite.NotEmpty(report.Rows[0].ID)
	suite.Equal(3, report.Rows[1].Line)

	thailand, err := suite.repo.GetBySlug(suite.ctx, "thailand")
	suite.Require().NoError(err)
	suite.True(thailand.Published)
	suite.Equal(models.RegionAsia, thailand.Region)
	suite.Equal([]string{"BKK", "DMK"}, thailand.EntryPoints.Airports)
	suite.Require().Len(thailand.Documents, 1)
	suite.Equal("Passport", thailand.Documents[0].Name)

	japan, err := suite.repo.GetBySlug(suite.ctx, "japan")
	suite.Require().NoError(err)
	suite.False(japan.Published)
}

func (suite *ImporterTestSuite) TestImport_UpdatesExistingSlug() {
	name := "Japan"
	existing, err := suite.repo.Create(suite.ctx, &countries.CountryInput{Name: &name})
	suite.Require().NoError(err)

	csv := "slug,summary\njapan,Visa required for most travellers\n"
	report, err := suite.importer(false).Import(suite.ctx, strings.NewReader(csv))
	suite.Require().NoError(err)

	suite.Require().Len(report.Rows, 1)
	suite.Equal(ActionUpdate, report.Rows[0].Action)
	suite.Equal(existing.ID, report.Rows[0].ID)

	updated, err := suite.repo.GetByID(suite.ctx, existing.ID)
	suite.Require().NoError(err)
	suite.Equal("Japan", updated.Name)
	suite.Equal("Visa required for most travellers", updated.Summary)
	suite.EqualValues(1, suite.count())
}

func (suite *ImporterTestSuite) TestImport_SlugComesFromCleanedName() {
	name := "Japan"
	existing, err := suite.repo.Create(suite.ctx, &countries.CountryInput{Name: &name})
	suite.Require().NoError(err)

	csv := "name,summary\n<b>Japan</b>,Visa required\n<i>Peru</i>,Visa free\nPeru,Again\n"
	report, err := suite.importer(false).Import(suite.ctx, strings.NewReader(csv))
	suite.Require().NoError(err)

	suite.Require().Len(report.Rows, 3)
	suite.Equal("japan", report.Rows[0].Slug)
	suite.Equal(ActionUpdate, report.Rows[0].Action)
	suite.Equal(existing.ID, report.Rows[0].ID)

	suite.Equal("peru", report.Rows[1].Slug)
	suite.Equal(ActionCreate, report.Rows[1].Action)

	suite.Equal("peru", report.Rows[2].Slug)
	suite.Equal(ActionFailed, report.Rows[2].Action)
	suite.ErrorIs(report.Rows[2].Err, models.ErrDuplicateSlug)

	suite.EqualValues(2, suite.count())
}

func (suite *ImporterTestSuite) TestImport_DryRunWritesNothing() {
	report, err := suite.importer(true).Import(suite.ctx, strings.NewReader(catalogCSV))
	suite.Require().NoError(err)

	suite.True(report.DryRun)
	suite.Equal(2, report.Count(ActionCreate))
	suite.Equal("thailand", report.Rows[0].Slug)
	suite.Empty(report.Rows[0].ID)
	suite.EqualValues(0, suite.count())
}

func (suite *ImporterTestSuite) TestImport_DryRunReportsUpdates() {
	name := "Japan"
	_, err := suite.repo.Create(suite.ctx, &countries.CountryInput{Name: &name})
	suite.Require().NoError(err)

	csv := "slug,published\njapan,true\n"
	report, err := suite.importer(true).Import(suite.ctx, strings.NewReader(csv))
	suite.Require().NoError(err)

	suite.Require().Len(report.Rows, 1)
	suite.Equal(ActionFailed, report.Rows[0].Action)
	suite.ErrorIs(report.Rows[0].Err, models.ErrIncompleteRecord)

	stored, err := suite.repo.GetBySlug(suite.ctx, "japan")
	suite.Require().NoError(err)
	suite.False(stored.Published)
}

func (suite *ImporterTestSuite) TestImport_RowErrorsDoNotStopTheRun() {
	csv := strings.Join([]string{
		"name,region,published,visa_type_1_name,visa_type_2_name,visa_type_3_name,visa_type_4_name",
		"Atlantis,Atlantic,,,,,",
		"Peru,Americas,true,,,,",
		"Chile,Americas,,Tourist,Business,Transit,Student",
		"Brazil,Americas,,,,,",
		"Brazil,Americas,,,,,",
		",,,,,,",
	}, "\n")

	report, err := suite.importer(false).Import(suite.ctx, strings.NewReader(csv))
	suite.Require().NoError(err)

	suite.Require().Len(report.Rows, 5)
	suite.True(report.Failed())

	var verrs models.ValidationErrors
	suite.Require().ErrorAs(report.Rows[0].Err, &verrs)
	suite.True(verrs.Has("region", models.ErrInvalidFormat))

	suite.ErrorIs(report.Rows[1].Err, models.ErrIncompleteRecord)
	suite.ErrorIs(report.Rows[2].Err, models.ErrTooManyEntries)

	suite.Equal(ActionCreate, report.Rows[3].Action)
	suite.Equal(ActionFailed, report.Rows[4].Action)
	suite.ErrorIs(report.Rows[4].Err, models.ErrDuplicateSlug)
	suite.Contains(report.Rows[4].Err.Error(), "line 5")

	suite.EqualValues(1, suite.count())
}

func (suite *ImporterTestSuite) TestImport_HeaderErrors() {
	_, err := suite.importer(false).Import(suite.ctx, strings.NewReader(""))
	suite.ErrorIs(err, ErrEmptyFile)

	_, err = suite.importer(false).Import(suite.ctx, strings.NewReader("flag,region\nTH,Asia\n"))
	suite.ErrorIs(err, ErrMissingColumns)
}

func (suite *ImporterTestSuite) TestImport_HeaderIsNormalized() {
	csv := "\ufeff Name ,REGION\nKenya,Africa\n"
	report, err := suite.importer(false).Import(suite.ctx, strings.NewReader(csv))
	suite.Require().NoError(err)

	suite.Require().Len(report.Rows, 1)
	suite.Equal(ActionCreate, report.Rows[0].Action)
	suite.Equal("kenya", report.Rows[0].Slug)
}

func TestImport_StoreUnavailable(t *testing.T) {
	store := new(mocks.MockCountryStore)
	store.On("GetBySlug", mock.Anything, "japan").Return(nil, models.ErrStorageUnavailable)

	im := New(countries.NewRepository(store, nil, nil, nil), nil, Options{})
	report, err := im.Import(context.Background(), strings.NewReader("name\nJapan\n"))
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, ActionFailed, report.Rows[0].Action)
	assert.ErrorIs(t, report.Rows[0].Err, models.ErrStorageUnavailable)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestWriteReport(t *testing.T) {
	report := &Report{
		DryRun: true,
		Rows: []RowResult{
			{Line: 2, Name: "Thailand", Slug: "thailand", Action: ActionCreate},
			{Line: 3, Name: "Peru", Slug: "peru", Action: ActionFailed,
				Err: &models.IncompleteRecordError{Missing: []string{"flag", "summary"}}},
			{Line: 4, Name: "Atlantis", Slug: "atlantis", Action: ActionFailed,
				Err: models.ValidationErrors{{Field: "region", Err: models.ErrInvalidFormat, Message: "unknown region"}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "LINE")
	assert.Contains(t, out, "missing flag, summary")
	assert.Contains(t, out, "region: unknown region")
	assert.Contains(t, out, "dry run: 1 created, 0 updated, 2 failed")
}
