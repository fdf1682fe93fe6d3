package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/circusagent/internal/cli/formatter"
	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/repository"
	"github.com/alexanderramin/circusagent/internal/service"
	"github.com/spf13/cobra"
)

func newFestivalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "festival",
		Aliases: []string{"fest"},
		Short:   "Manage the festival directory",
	}

	cmd.AddCommand(
		newFestivalAddCmd(app),
		newFestivalListCmd(app),
		newFestivalShowCmd(app),
		newFestivalUpdateCmd(app),
		newFestivalRemoveCmd(app),
		newFestivalImportCmd(app),
		newFestivalEnrichCmd(app),
	)

	return cmd
}

// festivalFields binds the editable festival columns to flags shared by add
// and update.
type festivalFields struct {
	name, country, town, website, contact, email string

	start, end, approx, windowStart, windowEnd string

	description, comments string

	festivalType    festivalTypeFlag
	applicationType applicationTypeFlag
}

func (ff *festivalFields) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&ff.name, "name", "", "Festival name")
	fl.StringVar(&ff.country, "country", "", "Country")
	fl.StringVar(&ff.town, "town", "", "Town")
	fl.StringVar(&ff.website, "website", "", "Website URL")
	fl.StringVar(&ff.contact, "contact", "", "Contact person")
	fl.StringVar(&ff.email, "email", "", "Contact email")
	fl.StringVar(&ff.start, "start", "", "Start date (YYYY-MM-DD)")
	fl.StringVar(&ff.end, "end", "", "End date (YYYY-MM-DD)")
	fl.StringVar(&ff.approx, "approx", "", "Approximate date, e.g. \"mid July\"")
	fl.StringVar(&ff.windowStart, "window-start", "", "Application window opens (YYYY-MM-DD)")
	fl.StringVar(&ff.windowEnd, "window-end", "", "Application window closes (YYYY-MM-DD)")
	fl.StringVar(&ff.description, "description", "", "Short description")
	fl.StringVar(&ff.comments, "comments", "", "Free-form notes")
	fl.Var(&ff.festivalType, "type", "Festival type ("+joinEnum(domain.FestivalTypes)+")")
	fl.Var(&ff.applicationType, "app-type", "How to apply ("+joinEnum(domain.ApplicationTypes)+")")
}

// apply copies every flag the user set onto f.
func (ff *festivalFields) apply(cmd *cobra.Command, f *domain.Festival) {
	changed := cmd.Flags().Changed
	set := func(flag string, dst *string, v string) {
		if changed(flag) {
			*dst = v
		}
	}
	set("name", &f.Name, ff.name)
	set("country", &f.Country, ff.country)
	set("town", &f.Town, ff.town)
	set("website", &f.WebsiteURL, ff.website)
	set("contact", &f.ContactPerson, ff.contact)
	set("email", &f.ContactEmail, ff.email)
	set("start", &f.StartDate, ff.start)
	set("end", &f.EndDate, ff.end)
	set("approx", &f.ApproximateDate, ff.approx)
	set("window-start", &f.ApplicationWindowStart, ff.windowStart)
	set("window-end", &f.ApplicationWindowEnd, ff.windowEnd)
	set("description", &f.Description, ff.description)
	set("comments", &f.Comments, ff.comments)
	if changed("type") {
		f.FestivalType = ff.festivalType.value
	}
	if changed("app-type") {
		f.ApplicationType = ff.applicationType.value
	}
}

func newFestivalAddCmd(app *App) *cobra.Command {
	var fields festivalFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a festival to the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &domain.Festival{}
			fields.apply(cmd, f)

			if err := app.Festivals.Create(context.Background(), f); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added festival %s [%s]\n", f.Name, f.DisplayID())
			return nil
		},
	}

	fields.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newFestivalListCmd(app *App) *cobra.Command {
	var (
		country     string
		missingOnly bool
		ftype       festivalTypeFlag
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List festivals",
		RunE: func(cmd *cobra.Command, args []string) error {
			festivals, err := app.Festivals.List(context.Background(), repository.FestivalFilter{
				Type:        ftype.value,
				Country:     country,
				MissingOnly: missingOnly,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(festivals) == 0 {
				fmt.Fprintln(out, "No festivals found.")
				return nil
			}

			fmt.Fprintf(out, "%s\n", formatter.FormatFestivalList(festivals))
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "Only festivals in this country")
	cmd.Flags().Var(&ftype, "type", "Only festivals of this type")
	cmd.Flags().BoolVar(&missingOnly, "missing-only", false, "Only festivals missing dates or application type")

	return cmd
}

func newFestivalShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show festival details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := app.Festivals.Resolve(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatFestivalDetail(f))
			return nil
		},
	}
}

func newFestivalUpdateCmd(app *App) *cobra.Command {
	var fields festivalFields

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a festival",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := app.Festivals.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			fields.apply(cmd, f)
			if err := app.Festivals.Update(ctx, f); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated festival %s [%s]\n", f.Name, f.DisplayID())
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}

func newFestivalRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a festival and its applications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := app.Festivals.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Festivals.Delete(ctx, f.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed festival %s\n", f.Name)
			return nil
		},
	}
}

func newFestivalImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import festivals from a semicolon-separated CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportFestivals(context.Background(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "%s %s\n", formatter.StyleYellow.Render("warning"), w)
			}
			for _, s := range result.Skipped {
				fmt.Fprintf(out, "%s %s\n", formatter.StyleRed.Render("skipped"), s)
			}
			fmt.Fprintf(out, "Imported %d festival(s), skipped %d row(s)\n", result.Imported, len(result.Skipped))
			if result.Applications > 0 {
				fmt.Fprintf(out, "Recorded %d past application(s) from APPLIED columns\n", result.Applications)
			}
			return nil
		},
	}
}

func newFestivalEnrichCmd(app *App) *cobra.Command {
	var (
		all         bool
		missingOnly bool
		concurrency int
		country     string
	)

	cmd := &cobra.Command{
		Use:   "enrich [ID]",
		Short: "Fill missing festival details with the LLM",
		Long: `Enrich asks the model for the festival's dates, application window,
application type and contact details, then writes back only the values that
pass validation. Use --all to enrich the whole directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()

			if all {
				if len(args) > 0 {
					return fmt.Errorf("--all cannot be combined with a festival ID")
				}
				if concurrency <= 0 {
					concurrency = app.EnrichConcurrency
				}
				report, err := app.Enrich.EnrichAll(ctx, service.BatchRequest{
					Filter:      repository.FestivalFilter{MissingOnly: missingOnly, Country: country},
					Concurrency: concurrency,
				})
				if report != nil {
					fmt.Fprint(out, formatter.FormatOutcomeCounts(report.Total, report.Saved, report.Outcomes))
				}
				return err
			}

			if len(args) == 0 {
				return fmt.Errorf("festival ID is required (or use --all)")
			}
			f, err := app.Festivals.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := app.Enrich.Enrich(ctx, f.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatEnrichResult(res))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Enrich every festival")
	cmd.Flags().BoolVar(&missingOnly, "missing-only", false, "With --all, only festivals missing dates or application type")
	cmd.Flags().StringVar(&country, "country", "", "With --all, only festivals in this country")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "With --all, number of festivals enriched in parallel")

	return cmd
}
