package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
)

// importDateLayouts are tried in order for START DATE and END DATE cells.
var importDateLayouts = []string{
	domain.DateLayout,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
	"January 2, 2006",
	"2 January 2006",
}

// ParseImportDate reads a spreadsheet date cell and returns it in ISO form.
// Blank and "nan" cells give ("", true).
func ParseImportDate(s string) (string, bool) {
	s = domain.CleanText(s)
	if s == "" {
		return "", true
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(domain.DateLayout), true
		}
	}
	return "", false
}

// ParseAppliedFlag reads an APPLIED cell. Spreadsheet exports carry 0/1
// (often as floats); yes/no style answers are accepted too. ok is false for
// anything else.
func ParseAppliedFlag(s string) (applied, ok bool) {
	s = strings.ToLower(domain.CleanText(s))
	switch s {
	case "":
		return false, true
	case "x", "y", "yes", "oui", "true":
		return true, true
	case "n", "no", "non", "false":
		return false, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return false, false
	}
	return f != 0, true
}

// RowIssue describes a problem found in one row. Fatal issues skip the row;
// the rest only drop the offending cell.
type RowIssue struct {
	Line   int
	Column string
	Reason string
	Fatal  bool
}

func (i RowIssue) String() string {
	if i.Column == "" {
		return fmt.Sprintf("line %d: %s", i.Line, i.Reason)
	}
	return fmt.Sprintf("line %d: %s: %s", i.Line, i.Column, i.Reason)
}

// ValidateRow checks one row before conversion.
func ValidateRow(r FestivalRow) []RowIssue {
	var issues []RowIssue

	if domain.IsBlank(r.Name) {
		issues = append(issues, RowIssue{Line: r.Line, Column: ColName, Reason: "name is required", Fatal: true})
	}
	for col, v := range map[string]string{ColStartDate: r.StartDate, ColEndDate: r.EndDate} {
		if _, ok := ParseImportDate(v); !ok {
			issues = append(issues, RowIssue{Line: r.Line, Column: col, Reason: fmt.Sprintf("unparsable date %q dropped", v)})
		}
	}
	if t := domain.CleanText(r.Type); t != "" {
		if _, ok := domain.ParseFestivalType(t); !ok {
			issues = append(issues, RowIssue{Line: r.Line, Column: ColType, Reason: fmt.Sprintf("unknown type %q imported as %s", t, domain.FestivalOther)})
		}
	}
	for year, v := range r.Applied {
		if _, ok := ParseAppliedFlag(v); !ok {
			issues = append(issues, RowIssue{Line: r.Line, Column: AppliedColumn(year), Reason: fmt.Sprintf("unrecognized value %q ignored", v)})
		}
	}
	return issues
}
