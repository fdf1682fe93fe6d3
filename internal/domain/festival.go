package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used for every date field.
const DateLayout = "2006-01-02"

// ErrDateOrder indicates a festival whose start date falls after its end date.
var ErrDateOrder = errors.New("start date after end date")

// Festival is an event organizer in the outreach directory. Date fields hold
// ISO-8601 calendar dates or "" when unknown.
type Festival struct {
	ID            string
	Name          string
	Country       string
	Town          string
	FestivalType  FestivalType
	WebsiteURL    string
	ContactPerson string
	ContactEmail  string

	StartDate       string
	EndDate         string
	ApproximateDate string

	ApplicationWindowStart string
	ApplicationWindowEnd   string
	ApplicationType        ApplicationType

	Description string
	Comments    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Start parses StartDate. ok is false when the field is blank or malformed.
func (f *Festival) Start() (time.Time, bool) {
	return parseDay(f.StartDate)
}

// End parses EndDate. ok is false when the field is blank or malformed.
func (f *Festival) End() (time.Time, bool) {
	return parseDay(f.EndDate)
}

// ValidateDates enforces start <= end when both are present.
func (f *Festival) ValidateDates() error {
	start, okStart := f.Start()
	end, okEnd := f.End()
	if okStart && okEnd && start.After(end) {
		return fmt.Errorf("%w: %s > %s", ErrDateOrder, f.StartDate, f.EndDate)
	}
	return nil
}

// Validate checks the invariants that hold for every persisted festival.
func (f *Festival) Validate() error {
	if IsBlank(f.Name) {
		return fmt.Errorf("festival name is required")
	}
	if _, ok := ParseFestivalType(string(f.FestivalType)); !ok {
		return fmt.Errorf("invalid festival type %q", f.FestivalType)
	}
	if _, ok := ParseApplicationType(string(f.ApplicationType)); !ok {
		return fmt.Errorf("invalid application type %q", f.ApplicationType)
	}
	for name, v := range map[string]string{
		"start_date":               f.StartDate,
		"end_date":                 f.EndDate,
		"application_window_start": f.ApplicationWindowStart,
		"application_window_end":   f.ApplicationWindowEnd,
	} {
		if v == "" {
			continue
		}
		if _, ok := parseDay(v); !ok {
			return fmt.Errorf("%s: invalid date %q (expected YYYY-MM-DD)", name, v)
		}
	}
	return f.ValidateDates()
}

// DisplayID truncates ID to 8 characters for listings.
func (f *Festival) DisplayID() string {
	if len(f.ID) >= 8 {
		return f.ID[:8]
	}
	return f.ID
}

func parseDay(s string) (time.Time, bool) {
	if IsBlank(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
