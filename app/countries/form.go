package countries

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/joefazee/visaguide/models"
)

// Flat form and CSV layout. Lists are pipe delimited and nested entries
// are numbered from 1, e.g. document_2_format.
var nestedKeyRgx = regexp.MustCompile(`^(visa_type|document|processing_time|fee|application_method|embassy)_(\d+)_([a-z_]+)$`)

// FormFields lists every scalar and list column in template order. Nested
// columns follow the <entity>_<n>_<attribute> pattern.
var FormFields = []string{
	"name", "slug", "flag", "region", "visa_required", "summary", "published", "featured",
	"photo_size", "photo_background", "photo_specifications",
	"airports", "borders", "seaports",
	"transit_info", "special_conditions", "important_notes",
	"meta_title", "meta_description", "keywords",
}

// ParseForm reads a flat form submission or CSV row. Blank values are
// treated as absent so a partial update only touches filled columns.
func ParseForm(values url.Values) *CountryInput {
	get := func(key string) (string, bool) {
		v := strings.TrimSpace(values.Get(key))
		return v, v != ""
	}
	str := func(key string) *string {
		if v, ok := get(key); ok {
			return &v
		}
		return nil
	}
	scalar := func(key string) *Scalar {
		if v, ok := get(key); ok {
			return ScalarOf(v)
		}
		return nil
	}
	list := func(key string) *[]string {
		if v, ok := get(key); ok {
			items := SplitList(v)
			return &items
		}
		return nil
	}

	in := &CountryInput{
		Name:              str("name"),
		Slug:              str("slug"),
		Flag:              str("flag"),
		Region:            str("region"),
		Published:         scalar("published"),
		Featured:          scalar("featured"),
		VisaRequired:      scalar("visa_required"),
		Summary:           str("summary"),
		TransitInfo:       str("transit_info"),
		SpecialConditions: list("special_conditions"),
		ImportantNotes:    list("important_notes"),
		MetaTitle:         str("meta_title"),
		MetaDescription:   str("meta_description"),
		Keywords:          list("keywords"),
	}

	photo := PhotoRequirementsInput{
		Size:           str("photo_size"),
		Background:     str("photo_background"),
		Specifications: list("photo_specifications"),
	}
	if photo != (PhotoRequirementsInput{}) {
		in.PhotoRequirements = &photo
	}
	entry := EntryPointsInput{
		Airports: list("airports"),
		Borders:  list("borders"),
		Seaports: list("seaports"),
	}
	if entry != (EntryPointsInput{}) {
		in.EntryPoints = &entry
	}

	nested := groupNested(values)
	if rows, ok := nested["visa_type"]; ok {
		out := make([]models.VisaType, 0, len(rows))
		for _, r := range rows {
			out = append(out, models.VisaType{
				Name:           r["name"],
				Description:    r["description"],
				Validity:       r["validity"],
				EntriesAllowed: r["entries_allowed"],
			})
		}
		in.VisaTypes = &out
	}
	if rows, ok := nested["document"]; ok {
		out := make([]models.Document, 0, len(rows))
		for _, r := range rows {
			out = append(out, models.Document{
				Name:     r["name"],
				Category: models.DocumentCategory(r["category"]),
				Format:   models.DocumentFormat(r["format"]),
				Details:  r["details"],
			})
		}
		in.Documents = &out
	}
	if rows, ok := nested["processing_time"]; ok {
		out := make([]models.ProcessingTime, 0, len(rows))
		for _, r := range rows {
			out = append(out, models.ProcessingTime{
				Type:     models.ProcessingType(r["type"]),
				Duration: r["duration"],
			})
		}
		in.ProcessingTimes = &out
	}
	if rows, ok := nested["fee"]; ok {
		out := make([]FeeInput, 0, len(rows))
		for _, r := range rows {
			out = append(out, FeeInput{
				Label:         r["label"],
				AmountINR:     optionalScalar(r["amount_inr"]),
				AmountUSD:     optionalScalar(r["amount_usd"]),
				AmountLocal:   optionalScalar(r["amount_local"]),
				LocalCurrency: r["local_currency"],
			})
		}
		in.Fees = &out
	}
	if rows, ok := nested["application_method"]; ok {
		out := make([]models.ApplicationMethod, 0, len(rows))
		for _, r := range rows {
			out = append(out, models.ApplicationMethod{
				Name:         models.ApplicationMethodName(r["name"]),
				Requirements: SplitList(r["requirements"]),
			})
		}
		in.ApplicationMethods = &out
	}
	if rows, ok := nested["embassy"]; ok {
		out := make([]models.Embassy, 0, len(rows))
		for _, r := range rows {
			out = append(out, models.Embassy{
				Location: r["location"],
				Address:  r["address"],
				Contact:  r["contact"],
				Website:  r["website"],
			})
		}
		in.Embassies = &out
	}

	return in
}

// groupNested collects indexed columns into ordered rows per entity. An
// index whose cells are all blank is skipped.
func groupNested(values url.Values) map[string][]map[string]string {
	byEntity := map[string]map[int]map[string]string{}
	for key := range values {
		m := nestedKeyRgx.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		v := strings.TrimSpace(values.Get(key))
		if v == "" {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		entity, attr := m[1], m[3]
		if byEntity[entity] == nil {
			byEntity[entity] = map[int]map[string]string{}
		}
		if byEntity[entity][idx] == nil {
			byEntity[entity][idx] = map[string]string{}
		}
		byEntity[entity][idx][attr] = v
	}

	out := make(map[string][]map[string]string, len(byEntity))
	for entity, rows := range byEntity {
		indexes := make([]int, 0, len(rows))
		for idx := range rows {
			indexes = append(indexes, idx)
		}
		sort.Ints(indexes)
		ordered := make([]map[string]string, 0, len(indexes))
		for _, idx := range indexes {
			ordered = append(ordered, rows[idx])
		}
		out[entity] = ordered
	}
	return out
}

func optionalScalar(v string) *Scalar {
	if v == "" {
		return nil
	}
	return ScalarOf(v)
}
