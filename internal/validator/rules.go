// Package validator holds small predicates shared by the country checks.
package validator

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	slugRgx = regexp.MustCompile("^[a-z0-9]+(?:-[a-z0-9]+)*$")

	// CurrencyRgx matches ISO 4217 style currency codes.
	CurrencyRgx = regexp.MustCompile("^[A-Z]{3}$")
)

// NotBlank reports whether value holds anything besides whitespace.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// In reports whether value is one of list.
func In[T comparable](value T, list ...T) bool {
	for i := range list {
		if value == list[i] {
			return true
		}
	}
	return false
}

// IsSlug accepts lowercase words joined by single hyphens, e.g. "south-korea".
func IsSlug(value string) bool {
	return slugRgx.MatchString(value)
}

// IsURL requires an absolute URL with scheme and host.
func IsURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func MaxItems[T any](values []T, n int) bool {
	return len(values) <= n
}
