package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the style for an application status.
func StatusColor(s domain.ApplicationStatus) lipgloss.Style {
	switch s {
	case domain.StatusAccepted:
		return StyleGreen
	case domain.StatusApplied, domain.StatusInDiscussion:
		return StyleBlue
	case domain.StatusDraft, domain.StatusPostponed:
		return StyleYellow
	case domain.StatusRejected:
		return StyleRed
	default:
		return StyleDim
	}
}

// StatusPill renders an application status such as "● in discussion".
func StatusPill(s domain.ApplicationStatus) string {
	mark := "●"
	if s.IsTerminal() {
		mark = "✔"
	}
	if s == domain.StatusDraft {
		mark = "○"
	}
	return StatusColor(s).Render(mark + " " + s.String())
}

// OutcomeBadge renders an enrichment outcome.
func OutcomeBadge(o enrichment.Outcome) string {
	switch o {
	case enrichment.OutcomeEnriched:
		return StyleGreen.Render("✔ enriched")
	case enrichment.OutcomeUnchanged:
		return StyleDim.Render("= unchanged")
	case enrichment.OutcomeTransportFailure:
		return StyleRed.Render("✖ gateway failure")
	case enrichment.OutcomeMalformed:
		return StyleYellow.Render("? malformed response")
	default:
		return StyleDim.Render(string(o))
	}
}

// TypeBadge renders a festival type in lower-case words.
func TypeBadge(t domain.FestivalType) string {
	if t == "" {
		return StyleDim.Render("--")
	}
	return StylePurple.Render(strings.ReplaceAll(strings.ToLower(string(t)), "_", " "))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
