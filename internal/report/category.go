package report

import (
	"strconv"
	"strings"

	"github.com/yingtu35/link-sentry/internal/linkcheck"
)

// Category groups failures by cause.
type Category string

const (
	CategoryTimeout           Category = "timeout"
	CategoryDNSFailure        Category = "dns_failure"
	CategoryConnectionRefused Category = "connection_refused"
	CategoryInvalidURL        Category = "invalid_url"
	Category4xx               Category = "4xx"
	Category5xx               Category = "5xx"
	CategoryUnknown           Category = "unknown"
)

// CategoryOrder lists categories from most to least actionable.
var CategoryOrder = []Category{
	Category4xx,
	Category5xx,
	CategoryTimeout,
	CategoryDNSFailure,
	CategoryConnectionRefused,
	CategoryInvalidURL,
	CategoryUnknown,
}

var messageCategories = []struct {
	needle   string
	category Category
}{
	{"timeout", CategoryTimeout},
	{"err_timed_out", CategoryTimeout},
	{"err_name_not_resolved", CategoryDNSFailure},
	{"no such host", CategoryDNSFailure},
	{"err_connection_refused", CategoryConnectionRefused},
	{"connection refused", CategoryConnectionRefused},
	{"invalid url", CategoryInvalidURL},
	{"err_invalid_url", CategoryInvalidURL},
	{"cannot navigate to invalid url", CategoryInvalidURL},
}

// Categorize derives the failure category of an outcome from its status or
// from the navigation error text.
func Categorize(o linkcheck.Outcome) Category {
	switch {
	case o.Status >= 400 && o.Status <= 499:
		return Category4xx
	case o.Status >= 500:
		return Category5xx
	}
	msg := strings.ToLower(o.Message)
	for _, mc := range messageCategories {
		if strings.Contains(msg, mc.needle) {
			return mc.category
		}
	}
	return CategoryUnknown
}

// FormatCategory returns a human-readable label for a category.
func FormatCategory(cat Category) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case CategoryInvalidURL:
		return "Invalid URLs"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	default:
		return "Other Errors"
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
