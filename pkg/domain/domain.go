package domain

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidTarget is returned for targets that are not absolute http(s) URLs.
var ErrInvalidTarget = errors.New("target must be an absolute http or https URL")

// ParseTarget validates the URL a check is started from.
func ParseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, ErrInvalidTarget
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidTarget
	}
	return u, nil
}

// Resolve returns href resolved against base, the way a browser fills in
// an anchor's href property. An unparsable href is returned unchanged.
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// GetDomain returns the host of a given URL without a leading "www."
func GetDomain(u string) (string, error) {
	parsedUrl, err := url.Parse(u)
	if err != nil {
		return "", errors.New("error parsing URL")
	}
	return strings.TrimPrefix(strings.ToLower(parsedUrl.Hostname()), "www."), nil
}

// IsSameDomain reports whether u belongs to domain.
func IsSameDomain(domain string, u string) bool {
	d, err := GetDomain(u)
	return err == nil && d != "" && domain == d
}
