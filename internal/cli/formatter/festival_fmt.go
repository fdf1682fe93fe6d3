package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
)

// FormatFestivalList renders festivals as a table.
func FormatFestivalList(festivals []*domain.Festival) string {
	headers := []string{"ID", "Name", "Type", "Where", "When", "Apply via"}
	rows := make([][]string, 0, len(festivals))
	for _, f := range festivals {
		rows = append(rows, []string{
			TruncID(f.ID),
			f.Name,
			TypeBadge(f.FestivalType),
			OrDash(joinNonEmpty(", ", f.Town, f.Country)),
			OrDash(festivalWhen(f)),
			OrDash(strings.ToLower(string(f.ApplicationType))),
		})
	}
	return RenderTable(headers, rows)
}

// FormatFestivalDetail renders every field of one festival.
func FormatFestivalDetail(f *domain.Festival) string {
	var b strings.Builder
	b.WriteString(Header(f.Name))
	b.WriteString("\n")

	line := func(label, value string) {
		fmt.Fprintf(&b, "  %-20s %s\n", label+":", OrDash(value))
	}
	line("ID", f.ID)
	line("Type", string(f.FestivalType))
	line("Country", f.Country)
	line("Town", f.Town)
	line("Website", f.WebsiteURL)
	line("Contact", f.ContactPerson)
	line("Email", f.ContactEmail)
	line("Dates", joinNonEmpty(" → ", f.StartDate, f.EndDate))
	line("Approximate", f.ApproximateDate)
	line("Application window", joinNonEmpty(" → ", f.ApplicationWindowStart, f.ApplicationWindowEnd))
	line("Application type", string(f.ApplicationType))
	if f.Description != "" {
		b.WriteString("\n" + Dim("  "+f.Description) + "\n")
	}
	if f.Comments != "" {
		b.WriteString("\n  " + Bold("Comments") + "\n  " + strings.ReplaceAll(f.Comments, "\n", "\n  ") + "\n")
	}
	return b.String()
}

// FormatEnrichResult summarizes one enrichment run.
func FormatEnrichResult(r *enrichment.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", OutcomeBadge(r.Outcome), Bold(r.Festival.Name))
	if r.SearchUsed {
		b.WriteString(Dim("  web search context used") + "\n")
	}
	if len(r.Applied) > 0 {
		fmt.Fprintf(&b, "  updated: %s\n", strings.Join(r.Applied, ", "))
	}
	if len(r.Derived) > 0 {
		fmt.Fprintf(&b, "  derived: %s\n", strings.Join(r.Derived, ", "))
	}
	for _, c := range r.Coerced {
		fmt.Fprintf(&b, "  %s %s: %s\n", StyleYellow.Render("coerced"), c.Field, c.Reason)
	}
	for _, rej := range r.Rejected {
		fmt.Fprintf(&b, "  %s %s %q: %s\n", StyleRed.Render("rejected"), rej.Field, rej.Value, rej.Reason)
	}
	if r.Detail != "" && r.Outcome != enrichment.OutcomeEnriched {
		b.WriteString(Dim("  "+r.Detail) + "\n")
	}
	return b.String()
}

// FormatOutcomeCounts renders batch tallies in a stable order.
func FormatOutcomeCounts(total, saved int, counts map[enrichment.Outcome]int) string {
	keys := make([]string, 0, len(counts))
	for o := range counts {
		keys = append(keys, string(o))
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "Enriched %d festival(s), %d saved\n", total, saved)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s  %d\n", OutcomeBadge(enrichment.Outcome(k)), counts[enrichment.Outcome(k)])
	}
	return b.String()
}

func festivalWhen(f *domain.Festival) string {
	if f.ApproximateDate != "" {
		return f.ApproximateDate
	}
	return f.StartDate
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
