package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
)

// FormatApplicationList renders applications as a table. names maps festival
// IDs to display names; missing entries fall back to the truncated ID.
func FormatApplicationList(apps []*domain.Application, names map[string]string, now time.Time) string {
	headers := []string{"ID", "Festival", "Cycle", "Sent", "Method", "Status"}
	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		name, ok := names[a.FestivalID]
		if !ok {
			name = TruncID(a.FestivalID)
		}
		status := StatusPill(a.Status)
		if a.LastError != "" && a.Status == domain.StatusDraft {
			status += " " + StyleRed.Render("(send failed)")
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			name,
			strconv.Itoa(a.CycleYear),
			RelativeDateFrom(a.ApplicationDate, now),
			strings.ToLower(string(a.Method)),
			status,
		})
	}
	return RenderTable(headers, rows)
}

// FormatApplicationDetail renders one application.
func FormatApplicationDetail(a *domain.Application, festivalName string) string {
	var b strings.Builder
	b.WriteString(Header("Application"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %-12s %s\n", "ID:", a.ID)
	fmt.Fprintf(&b, "  %-12s %s\n", "Festival:", festivalName)
	fmt.Fprintf(&b, "  %-12s %d\n", "Cycle:", a.CycleYear)
	fmt.Fprintf(&b, "  %-12s %s\n", "Date:", a.ApplicationDate.Format(domain.DateLayout))
	fmt.Fprintf(&b, "  %-12s %s\n", "Method:", a.Method)
	fmt.Fprintf(&b, "  %-12s %s\n", "Status:", StatusPill(a.Status))
	if a.AnswerDate != nil {
		fmt.Fprintf(&b, "  %-12s %s\n", "Answered:", a.AnswerDate.Format(domain.DateLayout))
	}
	if len(a.AttachmentsSent) > 0 {
		fmt.Fprintf(&b, "  %-12s %s\n", "Attached:", strings.Join(a.AttachmentsSent, ", "))
	}
	if a.LastError != "" {
		fmt.Fprintf(&b, "  %-12s %s\n", "Last error:", StyleRed.Render(a.LastError))
	}
	if a.Subject != "" || a.Body != "" {
		b.WriteString("\n")
		b.WriteString(RenderBox(a.Subject, a.Body))
		b.WriteString("\n")
	}
	if a.Comments != "" {
		b.WriteString("\n  " + Bold("Comments") + "\n  " + strings.ReplaceAll(a.Comments, "\n", "\n  ") + "\n")
	}
	return b.String()
}
