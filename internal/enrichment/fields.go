// Package enrichment turns a sparse festival record plus language-model
// output into a validated, normalized update.
package enrichment

import "github.com/alexanderramin/circusagent/internal/domain"

// Keys of the JSON object exchanged with the model. Adding or removing a key
// changes the protocol.
const (
	KeyCountry                = "country"
	KeyTown                   = "town"
	KeyFestivalType           = "festival_type"
	KeyWebsiteURL             = "website_url"
	KeyContactPerson          = "contact_person"
	KeyContactEmail           = "contact_email"
	KeyStartDate              = "start_date"
	KeyEndDate                = "end_date"
	KeyApproximateDate        = "approximate_date"
	KeyApplicationWindowStart = "application_window_start"
	KeyApplicationWindowEnd   = "application_window_end"
	KeyApplicationType        = "application_type"
	KeyDescription            = "description"
	KeyComments               = "comments"
)

// ResponseKeys is the exact key set the model must return, in prompt order.
var ResponseKeys = []string{
	KeyCountry, KeyTown, KeyFestivalType, KeyWebsiteURL, KeyContactPerson,
	KeyContactEmail, KeyStartDate, KeyEndDate, KeyApproximateDate,
	KeyApplicationWindowStart, KeyApplicationWindowEnd, KeyApplicationType,
	KeyDescription, KeyComments,
}

type fieldKind int

const (
	kindText fieldKind = iota
	kindDate
	kindFestivalType
	kindApplicationType
)

// fieldSpec binds one record field to its key, kind and accessors.
type fieldSpec struct {
	key  string
	kind fieldKind
	get  func(*domain.Festival) string
	set  func(*domain.Festival, string)
}

// recordFields lists every festival field shown to the model. The name is
// context only and is never overwritten from a response.
var recordFields = []fieldSpec{
	{"name", kindText, func(f *domain.Festival) string { return f.Name }, nil},
	{KeyCountry, kindText, func(f *domain.Festival) string { return f.Country }, func(f *domain.Festival, v string) { f.Country = v }},
	{KeyTown, kindText, func(f *domain.Festival) string { return f.Town }, func(f *domain.Festival, v string) { f.Town = v }},
	{KeyFestivalType, kindFestivalType, func(f *domain.Festival) string { return string(f.FestivalType) }, func(f *domain.Festival, v string) { f.FestivalType = domain.FestivalType(v) }},
	{KeyWebsiteURL, kindText, func(f *domain.Festival) string { return f.WebsiteURL }, func(f *domain.Festival, v string) { f.WebsiteURL = v }},
	{KeyContactPerson, kindText, func(f *domain.Festival) string { return f.ContactPerson }, func(f *domain.Festival, v string) { f.ContactPerson = v }},
	{KeyContactEmail, kindText, func(f *domain.Festival) string { return f.ContactEmail }, func(f *domain.Festival, v string) { f.ContactEmail = v }},
	{KeyStartDate, kindDate, func(f *domain.Festival) string { return f.StartDate }, func(f *domain.Festival, v string) { f.StartDate = v }},
	{KeyEndDate, kindDate, func(f *domain.Festival) string { return f.EndDate }, func(f *domain.Festival, v string) { f.EndDate = v }},
	{KeyApproximateDate, kindText, func(f *domain.Festival) string { return f.ApproximateDate }, func(f *domain.Festival, v string) { f.ApproximateDate = v }},
	{KeyApplicationWindowStart, kindDate, func(f *domain.Festival) string { return f.ApplicationWindowStart }, func(f *domain.Festival, v string) { f.ApplicationWindowStart = v }},
	{KeyApplicationWindowEnd, kindDate, func(f *domain.Festival) string { return f.ApplicationWindowEnd }, func(f *domain.Festival, v string) { f.ApplicationWindowEnd = v }},
	{KeyApplicationType, kindApplicationType, func(f *domain.Festival) string { return string(f.ApplicationType) }, func(f *domain.Festival, v string) { f.ApplicationType = domain.ApplicationType(v) }},
	{KeyDescription, kindText, func(f *domain.Festival) string { return f.Description }, func(f *domain.Festival, v string) { f.Description = v }},
	{KeyComments, kindText, func(f *domain.Festival) string { return f.Comments }, func(f *domain.Festival, v string) { f.Comments = v }},
}

func lookupField(key string) (fieldSpec, bool) {
	for _, fs := range recordFields {
		if fs.key == key && fs.set != nil {
			return fs, true
		}
	}
	return fieldSpec{}, false
}

// CleanSentinels blanks every field holding a "nan"-like value so it counts
// as absent downstream.
func CleanSentinels(f *domain.Festival) {
	if domain.IsSentinel(f.Name) {
		f.Name = ""
	}
	for _, fs := range recordFields {
		if fs.set != nil && domain.IsSentinel(fs.get(f)) {
			fs.set(f, "")
		}
	}
}

// MissingFields returns the response keys whose value on f is blank.
func MissingFields(f *domain.Festival) []string {
	var out []string
	for _, fs := range recordFields {
		if fs.set == nil {
			continue
		}
		v := fs.get(f)
		switch fs.kind {
		case kindApplicationType:
			if v == "" || v == string(domain.ApplicationUnknown) {
				out = append(out, fs.key)
			}
		default:
			if domain.IsBlank(v) {
				out = append(out, fs.key)
			}
		}
	}
	return out
}
