package enrichment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
)

// TextualDateLayout is the fixed textual format accepted for date keys
// besides ISO-8601, e.g. "July 12, 2026".
const TextualDateLayout = "January 2, 2006"

var dateLayouts = []string{domain.DateLayout, TextualDateLayout}

// ParseDate reads an ISO or textual date and returns it in ISO form.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(domain.DateLayout), true
		}
	}
	return "", false
}

// Bucket names the part of a month a day falls in.
func Bucket(day int) string {
	switch {
	case day <= 10:
		return "early"
	case day <= 20:
		return "mid"
	default:
		return "late"
	}
}

// ApproximateDate derives the free-text date from a range. A range inside one
// month uses the start bucket ("mid July"); a range across months joins both
// ends ("late July–early August").
func ApproximateDate(start, end time.Time) string {
	first := fmt.Sprintf("%s %s", Bucket(start.Day()), start.Month())
	if end.IsZero() || (end.Year() == start.Year() && end.Month() == start.Month()) {
		return first
	}
	return fmt.Sprintf("%s–%s %s", first, Bucket(end.Day()), end.Month())
}

var (
	dash = `\s*[-–—]\s*`
	// "12–15 July 2026"
	dayDayMonthYear = regexp.MustCompile(`^(\d{1,2})` + dash + `(\d{1,2})\s+([A-Za-z]+)\.?,?\s+(\d{4})$`)
	// "July 12–15, 2026"
	monthDayDayYear = regexp.MustCompile(`^([A-Za-z]+)\.?\s+(\d{1,2})` + dash + `(\d{1,2}),?\s+(\d{4})$`)
	// "28 July – 2 August 2026"
	dayMonthDayMonthYear = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\.?` + dash + `(\d{1,2})\s+([A-Za-z]+)\.?,?\s+(\d{4})$`)
)

// ParseDateRange reads common free-text ranges such as "12–15 July 2026",
// "July 12-15, 2026" and "28 July – 2 August 2026".
func ParseDateRange(s string) (start, end time.Time, ok bool) {
	s = strings.TrimSpace(s)

	if m := dayDayMonthYear.FindStringSubmatch(s); m != nil {
		return buildRange(m[4], m[3], m[1], m[3], m[2])
	}
	if m := monthDayDayYear.FindStringSubmatch(s); m != nil {
		return buildRange(m[4], m[1], m[2], m[1], m[3])
	}
	if m := dayMonthDayMonthYear.FindStringSubmatch(s); m != nil {
		return buildRange(m[5], m[2], m[1], m[4], m[3])
	}
	return time.Time{}, time.Time{}, false
}

func buildRange(yearStr, startMonth, startDay, endMonth, endDay string) (time.Time, time.Time, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	sm, ok1 := parseMonth(startMonth)
	em, ok2 := parseMonth(endMonth)
	sd, err1 := strconv.Atoi(startDay)
	ed, err2 := strconv.Atoi(endDay)
	if !ok1 || !ok2 || err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, false
	}
	start, okS := makeDate(year, sm, sd)
	endYear := year
	if em < sm {
		// "28 December – 2 January 2027" names the end year.
		start, okS = makeDate(year-1, sm, sd)
	}
	end, okE := makeDate(endYear, em, ed)
	if !okS || !okE || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// makeDate rejects days that time.Date would silently roll over.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t, t.Day() == day && t.Month() == month
}

func parseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), s) {
			return m, true
		}
	}
	return 0, false
}
