package lead

import (
	"regexp"
	"strings"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

// domainPattern accepts a bare domain with one or two suffix labels, such
// as acme.com, www.acme.com or acme.co.uk.
var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]*\.([a-zA-Z]{2,}|[a-zA-Z]{2,}\.[a-zA-Z]{2,})$`)

var schemePattern = regexp.MustCompile(`^https?://`)

// NormalizeWebsite trims the input, drops an http(s) scheme and one
// trailing slash, and validates what is left as a bare domain.
func NormalizeWebsite(raw string) (string, bool) {
	site := strings.TrimSpace(raw)
	site = schemePattern.ReplaceAllString(site, "")
	site = strings.TrimSuffix(site, "/")
	if !domainPattern.MatchString(site) {
		return "", false
	}
	return site, true
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// optional returns nil for blank input.
func optional(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	return &v
}

func enquiryType(raw string) string {
	if v := strings.TrimSpace(raw); v != "" {
		return v
	}
	return model.EnquiryTypeGeneral
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
