package importer

import (
	"sort"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/google/uuid"
)

// Conversion is the outcome of Convert: festivals ready for insert, the
// past applications their APPLIED columns record, and every issue found, in
// line order.
type Conversion struct {
	Festivals    []*domain.Festival
	Applications []*domain.Application
	Skipped      []RowIssue
	Warnings     []RowIssue
}

// Convert turns parsed rows into normalized festival records. Rows with a
// fatal issue are skipped; cells with a non-fatal issue are dropped.
func Convert(file *ImportFile, now time.Time) *Conversion {
	out := &Conversion{}
	normalizer := enrichment.Normalizer{}

	for _, row := range file.Rows {
		issues := ValidateRow(row)
		sort.Slice(issues, func(i, j int) bool { return issues[i].Column < issues[j].Column })

		fatal := false
		for _, issue := range issues {
			if issue.Fatal {
				fatal = true
				out.Skipped = append(out.Skipped, issue)
			} else {
				out.Warnings = append(out.Warnings, issue)
			}
		}
		if fatal {
			continue
		}

		f := &domain.Festival{
			ID:              uuid.New().String(),
			Name:            row.Name,
			Country:         row.Country,
			Town:            row.Town,
			FestivalType:    domain.FestivalStreet,
			WebsiteURL:      row.Website,
			ContactPerson:   row.ContactPerson,
			ContactEmail:    row.Email,
			ApproximateDate: row.EventDate,
			ApplicationType: domain.ApplicationUnknown,
			Comments:        row.Comment,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if t := domain.CleanText(row.Type); t != "" {
			f.FestivalType, _ = domain.ParseFestivalType(t)
		}
		f.StartDate, _ = ParseImportDate(row.StartDate)
		f.EndDate, _ = ParseImportDate(row.EndDate)
		if f.ValidateDates() != nil {
			f.StartDate, f.EndDate = f.EndDate, f.StartDate
			out.Warnings = append(out.Warnings, RowIssue{Line: row.Line, Column: ColStartDate, Reason: "start after end, swapped"})
		}

		normalizer.Normalize(f)
		out.Festivals = append(out.Festivals, f)

		for _, year := range file.AppliedYears {
			if applied, _ := ParseAppliedFlag(row.Applied[year]); applied {
				out.Applications = append(out.Applications, pastApplication(f, year, now))
			}
		}
	}
	return out
}

// pastApplication records outreach made before the ledger existed. Its date
// is the cycle anchor since the spreadsheet only knows the season.
func pastApplication(f *domain.Festival, year int, now time.Time) *domain.Application {
	return &domain.Application{
		ID:              uuid.New().String(),
		FestivalID:      f.ID,
		CycleYear:       year,
		ApplicationDate: domain.CycleAnchor(year),
		Method:          domain.MethodFor(f.ApplicationType),
		Status:          domain.StatusApplied,
		Comments:        "Imported from the " + AppliedColumn(year) + " column.",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
