package models

import (
	"sort"
	"strings"
)

// Sort keys accepted by CountryFilter.Sort. A leading "-" reverses the order.
const (
	SortName      = "name"
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
)

// CountryFilter selects countries from a store. Nil pointers mean "any".
// A Limit of zero or less returns every match.
type CountryFilter struct {
	Region       *Region
	Published    *bool
	VisaRequired *bool
	Featured     *bool
	Search       string
	Offset       int
	Limit        int
	Sort         string
}

// Matches applies the equality and substring criteria to a single record.
func (f *CountryFilter) Matches(c *Country) bool {
	if f == nil {
		return true
	}
	if f.Region != nil && c.Region != *f.Region {
		return false
	}
	if f.Published != nil && c.Published != *f.Published {
		return false
	}
	if f.Featured != nil && c.Featured != *f.Featured {
		return false
	}
	if f.VisaRequired != nil && c.IsVisaRequired() != *f.VisaRequired {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(c.Name), term) &&
			!strings.Contains(strings.ToLower(c.Summary), term) {
			return false
		}
	}
	return true
}

// SortKey returns the validated sort column and direction. Unknown keys fall
// back to name ascending.
func (f *CountryFilter) SortKey() (field string, desc bool) {
	if f == nil || f.Sort == "" {
		return SortName, false
	}
	field = f.Sort
	if strings.HasPrefix(field, "-") {
		field, desc = field[1:], true
	}
	switch field {
	case SortName, SortCreatedAt, SortUpdatedAt:
		return field, desc
	}
	return SortName, false
}

// SortCountries orders countries in place according to the filter.
func SortCountries(countries []Country, f *CountryFilter) {
	field, desc := f.SortKey()
	less := func(a, b *Country) bool {
		switch field {
		case SortCreatedAt:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	sort.SliceStable(countries, func(i, j int) bool {
		if desc {
			return less(&countries[j], &countries[i])
		}
		return less(&countries[i], &countries[j])
	})
}

// Paginate returns the window of countries selected by offset and limit.
func Paginate(countries []Country, offset, limit int) []Country {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(countries) {
		return []Country{}
	}
	end := len(countries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return countries[offset:end]
}
