package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/circusagent/internal/cli/formatter"
	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/repository"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// circusHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func circusHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// wizardSelectFestival creates a huh form to pick a festival from the directory.
func wizardSelectFestival(ctx context.Context, app *App, result *string) *huh.Form {
	festivals, err := app.Festivals.List(ctx, repository.FestivalFilter{})
	if err != nil || len(festivals) == 0 {
		return nil
	}

	options := make([]huh.Option[string], 0, len(festivals))
	for _, f := range festivals {
		label := f.Name
		if f.Country != "" {
			label = fmt.Sprintf("%s (%s)", f.Name, f.Country)
		}
		options = append(options, huh.NewOption(label, f.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Festival").
				Options(options...).
				Value(result),
		),
	).WithTheme(circusHuhTheme()).WithShowHelp(false)
}

// wizardConfirmSend asks before an application email leaves the machine.
func wizardConfirmSend(app *domain.Application, to string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Send %q to %s?", app.Subject, to)).
				Description(fmt.Sprintf("%d attachment(s)", len(app.AttachmentsSent))).
				Affirmative("Send").
				Negative("Cancel").
				Value(confirmed),
		),
	).WithTheme(circusHuhTheme()).WithShowHelp(false)
}
