package cli

import (
	"time"

	"github.com/alexanderramin/circusagent/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Festivals    service.FestivalService
	Enrich       service.EnrichService
	Import       service.ImportService
	Applications service.ApplicationService

	// EnrichConcurrency is the default worker count for "festival enrich --all".
	EnrichConcurrency int

	// IsInteractive reports whether stdin is a terminal. Confirmation prompts
	// are only shown when it returns true.
	IsInteractive func() bool

	// Now is the clock used for relative dates in listings.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "circusagent" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "circusagent",
		Short:         "Festival directory enrichment and application tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newFestivalCmd(app),
		newApplicationCmd(app),
	)

	return root
}
