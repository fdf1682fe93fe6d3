package enrichment

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alexanderramin/circusagent/internal/domain"
)

// Normalizer canonicalizes presentation of a reconciled record. Normalize is
// idempotent.
type Normalizer struct{}

// Normalize mutates f in place.
func (Normalizer) Normalize(f *domain.Festival) {
	CleanSentinels(f)

	// A Caser keeps state between calls and is not safe for concurrent use.
	title := cases.Title(language.English)
	f.Name = titleCase(title, f.Name)
	f.Town = titleCase(title, f.Town)
	f.Country = titleCase(title, f.Country)
	f.ContactPerson = titleCase(title, f.ContactPerson)

	f.ContactEmail = strings.ToLower(strings.TrimSpace(f.ContactEmail))
	f.WebsiteURL = normalizeURL(f.WebsiteURL)
	f.Description = terminate(f.Description)

	f.ApproximateDate = strings.TrimSpace(f.ApproximateDate)
	f.Comments = strings.TrimSpace(f.Comments)
}

func titleCase(c cases.Caser, s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return c.String(s)
}

// schemePrefix matches a URL scheme at the start of a lower-cased URL only;
// "://" later in the query string does not count.
var schemePrefix = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://`)

// normalizeURL prepends https:// when no scheme is present and lower-cases
// the result.
func normalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	u = strings.ToLower(u)
	if !schemePrefix.MatchString(u) {
		u = "https://" + strings.TrimLeft(u, "/")
	}
	return u
}

func terminate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
