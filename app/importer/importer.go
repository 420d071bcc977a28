package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/joefazee/visaguide/app/countries"
	"github.com/joefazee/visaguide/internal/formatter"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/models"
)

var (
	ErrEmptyFile      = errors.New("csv file has no header row")
	ErrMissingColumns = errors.New("csv header must contain a name or slug column")
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionFailed Action = "error"
)

// RowResult is the outcome of a single data row. Line is the 1-based line
// in the source file.
type RowResult struct {
	Line   int
	Name   string
	Slug   string
	ID     string
	Action Action
	Err    error
}

type Report struct {
	DryRun bool
	Rows   []RowResult
}

// Count returns the number of rows that ended with action.
func (r *Report) Count(action Action) int {
	n := 0
	for _, row := range r.Rows {
		if row.Action == action {
			n++
		}
	}
	return n
}

// Failed reports whether any row was rejected.
func (r *Report) Failed() bool {
	return r.Count(ActionFailed) > 0
}

type Options struct {
	// DryRun validates every row against the current catalog without writing.
	DryRun bool
	// Apply must match the repository's options so a dry run rejects the
	// same rows a real run would.
	Apply countries.ApplyOptions
}

// Importer loads countries from CSV files in the flat form layout. A row
// whose slug already exists is applied as a partial update.
type Importer struct {
	repo   countries.Repository
	logger logger.Logger
	opts   Options
}

func New(repo countries.Repository, log logger.Logger, opts Options) *Importer {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Importer{repo: repo, logger: log, opts: opts}
}

// Import processes every row of r. Row failures are recorded in the report;
// the error return is reserved for an unreadable file.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := normalizeHeader(header)
	if !hasColumn(columns, "name") && !hasColumn(columns, "slug") {
		return nil, ErrMissingColumns
	}

	report := &Report{DryRun: im.opts.DryRun}
	seen := make(map[string]int)
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		values := rowValues(columns, record)
		if len(values) == 0 {
			continue
		}

		res := im.importRow(ctx, line, values, seen)
		if res.Err != nil {
			im.logger.Warn("import row rejected", map[string]interface{}{
				"line":  res.Line,
				"slug":  res.Slug,
				"error": res.Err.Error(),
			})
		}
		report.Rows = append(report.Rows, res)
	}

	im.logger.Info("import finished", map[string]interface{}{
		"dry_run": im.opts.DryRun,
		"created": report.Count(ActionCreate),
		"updated": report.Count(ActionUpdate),
		"failed":  report.Count(ActionFailed),
	})
	return report, nil
}

func (im *Importer) importRow(ctx context.Context, line int, values url.Values, seen map[string]int) RowResult {
	in := countries.ParseForm(values)
	res := RowResult{Line: line, Slug: im.rowSlug(in)}
	if in.Name != nil {
		res.Name = *in.Name
	}

	fail := func(err error) RowResult {
		res.Action = ActionFailed
		res.Err = err
		return res
	}

	if prev, dup := seen[res.Slug]; dup && res.Slug != "" {
		return fail(fmt.Errorf("%w: already imported on line %d", models.ErrDuplicateSlug, prev))
	}

	var existing *models.Country
	if res.Slug != "" {
		found, err := im.repo.GetBySlug(ctx, res.Slug)
		switch {
		case err == nil:
			existing = found
		case !errors.Is(err, models.ErrRecordNotFound):
			return fail(err)
		}
	}

	res.Action = ActionCreate
	if existing != nil {
		res.Action = ActionUpdate
		res.ID = existing.ID
	}

	country, err := im.write(ctx, existing, in)
	if err != nil {
		return fail(err)
	}
	res.Slug = country.Slug
	res.ID = country.ID
	if res.Name == "" {
		res.Name = country.Name
	}
	seen[res.Slug] = line
	return res
}

func (im *Importer) write(ctx context.Context, existing *models.Country, in *countries.CountryInput) (*models.Country, error) {
	if im.opts.DryRun {
		return im.preview(existing, in)
	}
	if existing != nil {
		return im.repo.Update(ctx, existing.ID, in, false)
	}
	return im.repo.Create(ctx, in)
}

// preview runs the repository's validation chain on a copy of the record.
func (im *Importer) preview(existing *models.Country, in *countries.CountryInput) (*models.Country, error) {
	country := &models.Country{}
	if existing != nil {
		clone := *existing
		country = &clone
	}
	if errs := countries.Apply(country, in, im.opts.Apply); errs != nil {
		return nil, errs
	}
	countries.DeriveSlug(country)
	if errs := countries.CheckDraft(country); errs != nil {
		return nil, errs
	}
	if country.Published {
		if err := countries.CheckPublishable(country); err != nil {
			return nil, err
		}
	}
	return country, nil
}

// rowSlug predicts the slug the repository will store: an explicit slug,
// or one derived from the cleaned name.
func (im *Importer) rowSlug(in *countries.CountryInput) string {
	if in.Slug != nil {
		if slug := strings.TrimSpace(*in.Slug); slug != "" {
			return slug
		}
	}
	if in.Name == nil {
		return ""
	}
	name := *in.Name
	if im.opts.Apply.Clean != nil {
		name = im.opts.Apply.Clean(name)
	}
	return formatter.Slugify(name)
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return columns
}

func hasColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

// rowValues maps non-blank cells to their column. Cells past the header are
// ignored and missing trailing cells are blank.
func rowValues(columns, record []string) url.Values {
	values := url.Values{}
	for i, cell := range record {
		if i >= len(columns) || columns[i] == "" {
			continue
		}
		if cell = strings.TrimSpace(cell); cell != "" {
			values.Set(columns[i], cell)
		}
	}
	return values
}
