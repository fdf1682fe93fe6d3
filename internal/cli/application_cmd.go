package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/circusagent/internal/cli/formatter"
	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/outreach"
	"github.com/alexanderramin/circusagent/internal/repository"
	"github.com/spf13/cobra"
)

func newApplicationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "application",
		Aliases: []string{"app"},
		Short:   "Draft, send and track festival applications",
	}

	cmd.AddCommand(
		newApplicationDraftCmd(app),
		newApplicationSubmitCmd(app),
		newApplicationSendCmd(app),
		newApplicationConfirmCmd(app),
		newApplicationStatusCmd(app),
		newApplicationListCmd(app),
		newApplicationShowCmd(app),
	)

	return cmd
}

// resolveFestivalArg resolves the festival argument, or asks for one when the
// argument is missing and a terminal is attached.
func resolveFestivalArg(ctx context.Context, app *App, args []string) (*domain.Festival, error) {
	if len(args) > 0 {
		return app.Festivals.Resolve(ctx, args[0])
	}
	if !app.interactive() {
		return nil, fmt.Errorf("festival ID is required")
	}
	var id string
	form := wizardSelectFestival(ctx, app, &id)
	if form == nil {
		return nil, fmt.Errorf("no festivals in the directory")
	}
	if err := form.Run(); err != nil {
		return nil, err
	}
	return app.Festivals.GetByID(ctx, id)
}

func newApplicationDraftCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "draft [FESTIVAL_ID]",
		Short: "Compose an outreach email for a festival",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFestivalArg(ctx, app, args)
			if err != nil {
				return err
			}
			d, err := app.Applications.Draft(ctx, f.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", formatter.RenderBox(d.Subject, d.Body))
			if d.Fallback {
				fmt.Fprintln(out, formatter.Dim("Model unavailable; body comes from the built-in template."))
			}
			return nil
		},
	}
}

func newApplicationSubmitCmd(app *App) *cobra.Command {
	var (
		subject, body string
		useDraft      bool
		attachments   []string
		date          dateFlag
		method        methodFlag
	)

	cmd := &cobra.Command{
		Use:   "submit [FESTIVAL_ID]",
		Short: "Record a new application for the current cycle",
		Long: `Submit records an application in DRAFT status. Only one application per
festival and cycle is allowed. Email applications are sent with
"application send"; other methods are marked applied with "application confirm".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := resolveFestivalArg(ctx, app, args)
			if err != nil {
				return err
			}

			if useDraft {
				d, err := app.Applications.Draft(ctx, f.ID)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("subject") {
					subject = d.Subject
				}
				if !cmd.Flags().Changed("body") {
					body = d.Body
				}
			}

			req := outreach.SubmitRequest{
				FestivalID:  f.ID,
				Subject:     subject,
				Body:        body,
				Attachments: attachments,
				Method:      method.value,
			}
			if date.value != nil {
				req.Date = *date.value
			}

			a, err := app.Applications.Submit(ctx, req)
			var dup *outreach.DuplicateError
			if errors.As(err, &dup) {
				return fmt.Errorf("%s already has an application for %d [%s]", f.Name, dup.CycleYear, short(dup.ExistingID))
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded application %s for %s (cycle %d, %s)\n",
				a.DisplayID(), f.Name, a.CycleYear, a.Method)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Email subject")
	cmd.Flags().StringVar(&body, "body", "", "Email body")
	cmd.Flags().BoolVar(&useDraft, "draft", false, "Compose subject and body with the LLM")
	cmd.Flags().StringSliceVar(&attachments, "attach", nil, "File to attach (repeatable)")
	cmd.Flags().Var(&date, "date", "Application date (YYYY-MM-DD, default today)")
	cmd.Flags().Var(&method, "method", "Application method ("+joinEnum(domain.Methods)+")")
	cmd.MarkFlagsMutuallyExclusive("draft", "body")

	return cmd
}

func newApplicationSendCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "send APP_ID",
		Short: "Email a drafted application to the festival",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := app.Applications.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to send without --yes when not attached to a terminal")
				}
				f, err := app.Festivals.GetByID(ctx, a.FestivalID)
				if err != nil {
					return err
				}
				var confirmed bool
				if err := wizardConfirmSend(a, f.ContactEmail, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Not sent.")
					return nil
				}
			}

			sent, err := app.Applications.Dispatch(ctx, a.ID)
			if errors.Is(err, outreach.ErrDispatchFailed) {
				return fmt.Errorf("application %s stays in draft: %w", a.DisplayID(), err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sent application %s %s\n", sent.DisplayID(), formatter.StatusPill(sent.Status))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Send without asking for confirmation")

	return cmd
}

func newApplicationConfirmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm APP_ID",
		Short: "Mark a form or manual application as applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := app.Applications.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			a, err = app.Applications.Confirm(ctx, a.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %s %s\n", a.DisplayID(), formatter.StatusPill(a.Status))
			return nil
		},
	}
}

func newApplicationStatusCmd(app *App) *cobra.Command {
	var (
		answerDate dateFlag
		comment    string
	)

	cmd := &cobra.Command{
		Use:   "status APP_ID STATUS",
		Short: "Record the festival's answer or another status change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var status statusFlag
			if err := status.Set(args[1]); err != nil {
				return err
			}
			a, err := app.Applications.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			a, err = app.Applications.UpdateStatus(ctx, a.ID, outreach.StatusUpdate{
				Status:     status.value,
				AnswerDate: answerDate.value,
				Comment:    comment,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %s %s\n", a.DisplayID(), formatter.StatusPill(a.Status))
			return nil
		},
	}

	cmd.Flags().Var(&answerDate, "answer-date", "Date the festival answered (YYYY-MM-DD)")
	cmd.Flags().StringVar(&comment, "comment", "", "Note appended to the application's comments")

	return cmd
}

func newApplicationListCmd(app *App) *cobra.Command {
	var (
		festival string
		cycle    int
		status   statusFlag
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			filter := repository.ApplicationFilter{CycleYear: cycle, Status: status.value}
			if festival != "" {
				f, err := app.Festivals.Resolve(ctx, festival)
				if err != nil {
					return err
				}
				filter.FestivalID = f.ID
			}

			apps, err := app.Applications.List(ctx, filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(apps) == 0 {
				fmt.Fprintln(out, "No applications found.")
				return nil
			}

			names := festivalNames(ctx, app, apps)
			fmt.Fprintf(out, "%s\n", formatter.FormatApplicationList(apps, names, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&festival, "festival", "", "Only applications to this festival")
	cmd.Flags().IntVar(&cycle, "cycle", 0, "Only applications for this cycle year")
	cmd.Flags().Var(&status, "status", "Only applications with this status")

	return cmd
}

func newApplicationShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show APP_ID",
		Short: "Show application details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := app.Applications.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			name := a.FestivalID
			if f, err := app.Festivals.GetByID(ctx, a.FestivalID); err == nil {
				name = f.Name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatApplicationDetail(a, name))
			return nil
		},
	}
}

// festivalNames looks up display names for the festivals referenced by apps.
// Lookup failures leave the entry out.
func festivalNames(ctx context.Context, app *App, apps []*domain.Application) map[string]string {
	names := make(map[string]string)
	for _, a := range apps {
		if _, ok := names[a.FestivalID]; ok {
			continue
		}
		if f, err := app.Festivals.GetByID(ctx, a.FestivalID); err == nil {
			names[a.FestivalID] = f.Name
		}
	}
	return names
}

func short(id string) string {
	return id[:min(8, len(id))]
}
