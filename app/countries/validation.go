package countries

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joefazee/visaguide/internal/formatter"
	"github.com/joefazee/visaguide/internal/validator"
	"github.com/joefazee/visaguide/models"
)

// PublishRequired lists the fields a record needs before it can be
// published, in the order missing fields are reported.
var PublishRequired = []string{
	"name", "flag", "slug", "region", "visa_required", "summary", "photo_size", "photo_background",
}

var amountRgx = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ParseBool accepts only the lowercase literals "true" and "false".
func ParseBool(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, models.ErrInvalidBoolean
}

// ParseAmount reads a plain decimal such as "1500" or "38.50". Currency
// symbols, separators and signs are rejected. Blank means no amount.
func ParseAmount(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !amountRgx.MatchString(raw) {
		return nil, models.ErrInvalidNumber
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, models.ErrInvalidNumber
	}
	return &d, nil
}

// ParseRegion matches raw against the supported regions ignoring case.
// Blank input yields the empty region.
func ParseRegion(raw string) (models.Region, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	for _, r := range models.Regions() {
		if strings.EqualFold(raw, string(r)) {
			return r, nil
		}
	}
	return "", models.ErrInvalidFormat
}

// SplitList turns a pipe delimited value into an ordered list.
func SplitList(raw string) []string {
	return formatter.SplitPipe(raw)
}

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// Clean strips markup from free text. Nil only trims whitespace.
	Clean func(string) string
}

type applier struct {
	opts ApplyOptions
	errs models.ValidationErrors
}

// Apply coerces every present field of in and writes it to dst. Absent
// fields are left as they are. Nested collections are replaced as a whole;
// photo requirements and entry points are merged key by key. dst is only
// partially written when errors are returned.
func Apply(dst *models.Country, in *CountryInput, opts ApplyOptions) models.ValidationErrors {
	a := &applier{opts: opts}
	if in == nil {
		return nil
	}

	if in.Name != nil {
		dst.Name = a.text(*in.Name)
	}
	if in.Slug != nil {
		dst.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Flag != nil {
		dst.Flag = a.text(*in.Flag)
	}
	if in.Region != nil {
		dst.Region = a.region(*in.Region)
	}
	if in.Published != nil {
		dst.Published = a.boolean("published", *in.Published)
	}
	if in.Featured != nil {
		dst.Featured = a.boolean("featured", *in.Featured)
	}
	if in.VisaRequired != nil {
		v := a.boolean("visa_required", *in.VisaRequired)
		dst.VisaRequired = &v
	}
	if in.Summary != nil {
		dst.Summary = a.text(*in.Summary)
	}

	if in.VisaTypes != nil {
		dst.VisaTypes = a.visaTypes(*in.VisaTypes)
	}
	if in.Documents != nil {
		dst.Documents = a.documents(*in.Documents)
	}
	if in.ProcessingTimes != nil {
		dst.ProcessingTimes = a.processingTimes(*in.ProcessingTimes)
	}
	if in.Fees != nil {
		dst.Fees = a.fees(*in.Fees)
	}
	if in.ApplicationMethods != nil {
		dst.ApplicationMethods = a.applicationMethods(*in.ApplicationMethods)
	}
	if in.Embassies != nil {
		dst.Embassies = a.embassies(*in.Embassies)
	}

	if p := in.PhotoRequirements; p != nil {
		if p.Size != nil {
			dst.PhotoRequirements.Size = a.text(*p.Size)
		}
		if p.Background != nil {
			dst.PhotoRequirements.Background = a.text(*p.Background)
		}
		if p.Specifications != nil {
			dst.PhotoRequirements.Specifications = a.list(*p.Specifications)
		}
	}
	if e := in.EntryPoints; e != nil {
		if e.Airports != nil {
			dst.EntryPoints.Airports = a.list(*e.Airports)
		}
		if e.Borders != nil {
			dst.EntryPoints.Borders = a.list(*e.Borders)
		}
		if e.Seaports != nil {
			dst.EntryPoints.Seaports = a.list(*e.Seaports)
		}
	}

	if in.TransitInfo != nil {
		dst.TransitInfo = a.text(*in.TransitInfo)
	}
	if in.SpecialConditions != nil {
		dst.SpecialConditions = a.list(*in.SpecialConditions)
	}
	if in.ImportantNotes != nil {
		dst.ImportantNotes = a.list(*in.ImportantNotes)
	}
	if in.MetaTitle != nil {
		dst.MetaTitle = a.text(*in.MetaTitle)
	}
	if in.MetaDescription != nil {
		dst.MetaDescription = a.text(*in.MetaDescription)
	}
	if in.Keywords != nil {
		dst.Keywords = a.list(*in.Keywords)
	}

	dst.Normalize()
	if len(a.errs) == 0 {
		return nil
	}
	return a.errs
}

// DeriveSlug fills an empty slug from the name.
func DeriveSlug(c *models.Country) {
	if c.Slug == "" {
		c.Slug = formatter.Slugify(c.Name)
	}
}

// CheckDraft validates what every record needs, published or not: a name
// and a well formed slug.
func CheckDraft(c *models.Country) models.ValidationErrors {
	var errs models.ValidationErrors
	if !validator.NotBlank(c.Name) {
		errs = append(errs, &models.FieldError{Field: "name", Err: models.ErrRequiredField, Message: "name is required"})
	}
	switch {
	case c.Slug == "":
		errs = append(errs, &models.FieldError{Field: "slug", Err: models.ErrRequiredField, Message: "slug is required"})
	case !validator.IsSlug(c.Slug):
		errs = append(errs, &models.FieldError{Field: "slug", Err: models.ErrInvalidFormat,
			Message: "slug may only contain lowercase letters, digits and hyphens"})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// MissingForPublish returns the empty Required fields of c.
func MissingForPublish(c *models.Country) []string {
	present := map[string]bool{
		"name":             validator.NotBlank(c.Name),
		"flag":             validator.NotBlank(c.Flag),
		"slug":             validator.NotBlank(c.Slug),
		"region":           c.Region != "",
		"visa_required":    c.VisaRequired != nil,
		"summary":          validator.NotBlank(c.Summary),
		"photo_size":       validator.NotBlank(c.PhotoRequirements.Size),
		"photo_background": validator.NotBlank(c.PhotoRequirements.Background),
	}
	var missing []string
	for _, field := range PublishRequired {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

// CheckPublishable returns an *models.IncompleteRecordError naming every
// missing Required field, or nil.
func CheckPublishable(c *models.Country) error {
	if missing := MissingForPublish(c); len(missing) > 0 {
		return &models.IncompleteRecordError{Missing: missing}
	}
	return nil
}

func (a *applier) fail(field string, err error, message string) {
	a.errs = append(a.errs, &models.FieldError{Field: field, Err: err, Message: message})
}

func (a *applier) text(s string) string {
	if a.opts.Clean != nil {
		return a.opts.Clean(s)
	}
	return strings.TrimSpace(s)
}

func (a *applier) list(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = a.text(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (a *applier) boolean(field string, raw Scalar) bool {
	v, err := ParseBool(string(raw))
	if err != nil {
		a.fail(field, err, fmt.Sprintf("must be true or false, got %q", string(raw)))
	}
	return v
}

func (a *applier) amount(field string, raw *Scalar) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	d, err := ParseAmount(string(*raw))
	if err != nil {
		a.fail(field, err, fmt.Sprintf("must be a plain decimal number, got %q", string(*raw)))
	}
	return d
}

func (a *applier) region(raw string) models.Region {
	r, err := ParseRegion(raw)
	if err != nil {
		a.fail("region", err, fmt.Sprintf("unknown region %q", strings.TrimSpace(raw)))
	}
	return r
}

func (a *applier) tooMany(field string, n, limit int) bool {
	if n > limit {
		a.fail(field, models.ErrTooManyEntries, fmt.Sprintf("at most %d entries allowed, got %d", limit, n))
		return true
	}
	return false
}

func (a *applier) visaTypes(in []models.VisaType) models.JSONSlice[models.VisaType] {
	out := make(models.JSONSlice[models.VisaType], 0, len(in))
	for _, v := range in {
		v = models.VisaType{
			Name:           a.text(v.Name),
			Description:    a.text(v.Description),
			Validity:       a.text(v.Validity),
			EntriesAllowed: a.text(v.EntriesAllowed),
		}
		if v == (models.VisaType{}) {
			continue
		}
		if v.Name == "" {
			a.fail(fmt.Sprintf("visa_types[%d].name", len(out)), models.ErrRequiredField, "name is required")
		}
		out = append(out, v)
	}
	a.tooMany("visa_types", len(out), models.MaxVisaTypes)
	return out
}

func (a *applier) documents(in []models.Document) models.JSONSlice[models.Document] {
	out := make(models.JSONSlice[models.Document], 0, len(in))
	for _, d := range in {
		d = models.Document{
			Name:     a.text(d.Name),
			Category: models.DocumentCategory(strings.ToLower(strings.TrimSpace(string(d.Category)))),
			Format:   models.DocumentFormat(strings.ToLower(strings.TrimSpace(string(d.Format)))),
			Details:  a.text(d.Details),
		}
		if d == (models.Document{}) {
			continue
		}
		field := fmt.Sprintf("documents[%d]", len(out))
		if d.Name == "" {
			a.fail(field+".name", models.ErrRequiredField, "name is required")
		}
		if d.Category == "" {
			d.Category = models.DocumentMandatory
		}
		if d.Format == "" {
			d.Format = models.FormatOriginal
		}
		if !validator.In(d.Category, models.DocumentMandatory, models.DocumentForMinors,
			models.DocumentForBusiness, models.DocumentConditional) {
			a.fail(field+".category", models.ErrInvalidFormat, fmt.Sprintf("unknown category %q", d.Category))
		}
		if !validator.In(d.Format, models.FormatOriginal, models.FormatPhotocopy, models.FormatScan) {
			a.fail(field+".format", models.ErrInvalidFormat, fmt.Sprintf("unknown format %q", d.Format))
		}
		out = append(out, d)
	}
	a.tooMany("documents", len(out), models.MaxDocuments)
	return out
}

func (a *applier) processingTimes(in []models.ProcessingTime) models.JSONSlice[models.ProcessingTime] {
	out := make(models.JSONSlice[models.ProcessingTime], 0, len(in))
	for _, p := range in {
		p = models.ProcessingTime{
			Type:     models.ProcessingType(strings.ToLower(strings.TrimSpace(string(p.Type)))),
			Duration: a.text(p.Duration),
		}
		if p == (models.ProcessingTime{}) {
			continue
		}
		if p.Type == "" {
			p.Type = models.ProcessingRegular
		}
		if !validator.In(p.Type, models.ProcessingRegular, models.ProcessingExpress,
			models.ProcessingPriority, models.ProcessingEmergency) {
			a.fail(fmt.Sprintf("processing_times[%d].type", len(out)), models.ErrInvalidFormat,
				fmt.Sprintf("unknown processing type %q", p.Type))
		}
		out = append(out, p)
	}
	a.tooMany("processing_times", len(out), models.MaxProcessingTimes)
	return out
}

func (a *applier) fees(in []FeeInput) models.JSONSlice[models.Fee] {
	out := make(models.JSONSlice[models.Fee], 0, len(in))
	for _, f := range in {
		field := fmt.Sprintf("fees[%d]", len(out))
		fee := models.Fee{
			Label:         a.text(f.Label),
			AmountINR:     a.amount(field+".amount_inr", f.AmountINR),
			AmountUSD:     a.amount(field+".amount_usd", f.AmountUSD),
			AmountLocal:   a.amount(field+".amount_local", f.AmountLocal),
			LocalCurrency: strings.ToUpper(strings.TrimSpace(f.LocalCurrency)),
		}
		if fee.Label == "" && fee.AmountINR == nil && fee.AmountUSD == nil &&
			fee.AmountLocal == nil && fee.LocalCurrency == "" {
			continue
		}
		if fee.LocalCurrency != "" && !validator.Matches(fee.LocalCurrency, validator.CurrencyRgx) {
			a.fail(field+".local_currency", models.ErrInvalidFormat, "must be a 3-letter currency code")
		}
		out = append(out, fee)
	}
	a.tooMany("fees", len(out), models.MaxFees)
	return out
}

func (a *applier) applicationMethods(in []models.ApplicationMethod) models.JSONSlice[models.ApplicationMethod] {
	out := make(models.JSONSlice[models.ApplicationMethod], 0, len(in))
	for _, m := range in {
		m = models.ApplicationMethod{
			Name:         models.ApplicationMethodName(strings.ToLower(strings.TrimSpace(string(m.Name)))),
			Requirements: a.list(m.Requirements),
		}
		if m.Name == "" && len(m.Requirements) == 0 {
			continue
		}
		if !validator.In(m.Name, models.MethodEmbassy, models.MethodOnline, models.MethodVOA, models.MethodAgent) {
			a.fail(fmt.Sprintf("application_methods[%d].name", len(out)), models.ErrInvalidFormat,
				fmt.Sprintf("unknown application method %q", m.Name))
		}
		out = append(out, m)
	}
	a.tooMany("application_methods", len(out), models.MaxApplicationMethods)
	return out
}

func (a *applier) embassies(in []models.Embassy) models.JSONSlice[models.Embassy] {
	out := make(models.JSONSlice[models.Embassy], 0, len(in))
	for _, e := range in {
		e = models.Embassy{
			Location: a.text(e.Location),
			Address:  a.text(e.Address),
			Contact:  a.text(e.Contact),
			Website:  strings.TrimSpace(e.Website),
		}
		if e == (models.Embassy{}) {
			continue
		}
		if !isContact(e.Contact) {
			a.fail(fmt.Sprintf("embassies[%d].contact", len(out)), models.ErrInvalidFormat,
				fmt.Sprintf("%q is not a possible international phone number", e.Contact))
		}
		if e.Website != "" && !validator.IsURL(e.Website) {
			a.fail(fmt.Sprintf("embassies[%d].website", len(out)), models.ErrInvalidFormat, "must be an absolute URL")
		}
		out = append(out, e)
	}
	a.tooMany("embassies", len(out), models.MaxEmbassies)
	return out
}

// isContact accepts any contact except a malformed international number.
// Contacts are stored as typed; a leading "+" only opts into the check.
func isContact(raw string) bool {
	if !strings.HasPrefix(raw, "+") || strings.ContainsAny(raw, "@,;/") {
		return true
	}
	_, err := formatter.FormatPhone(raw, "")
	return err == nil
}
