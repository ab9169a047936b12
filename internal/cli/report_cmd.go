package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cli/formatter"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Record and browse daily reports",
	}
	cmd.AddCommand(
		newReportAddCmd(app),
		newReportListCmd(app),
		newReportShowCmd(app),
		newReportRemoveCmd(app),
	)
	return cmd
}

// entryInputs resolves mission references of --entry flags.
func entryInputs(ctx context.Context, a *App, specs []entrySpec) ([]app.WorkEntryInput, error) {
	if len(specs) == 0 {
		return nil, errors.New("at least one --entry is required")
	}
	refs, err := listMissionRefs(ctx, a)
	if err != nil {
		return nil, err
	}
	out := make([]app.WorkEntryInput, 0, len(specs))
	for _, s := range specs {
		m, err := resolveMission(refs, s.Mission)
		if err != nil {
			return nil, err
		}
		out = append(out, app.WorkEntryInput{MissionID: m.ID, Hours: s.Hours, Content: s.Content})
	}
	return out, nil
}

func newReportAddCmd(a *App) *cobra.Command {
	var (
		user, date string
		impression int
		remote     bool
		entries    []entrySpec
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a daily report",
		Example: `  suama report add --user alice --date 2024-06-03 \
    --entry "Alpha/API=3:review" --entry "Beta/Docs=2"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := resolveUser(ctx, a, user)
			if err != nil {
				return err
			}
			inputs, err := entryInputs(ctx, a, entries)
			if err != nil {
				return err
			}
			if date == "" {
				date = jst.DateOf(a.now())
			}

			r, err := a.Reports.Create(ctx, u.ID, app.ReportInput{
				Date:       date,
				Remote:     remote,
				Impression: impression,
				Entries:    inputs,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s on %s (%s)\n",
				formatter.FormatHours(r.TotalHours()), u.Name, jst.DateOf(r.ReportDate), formatter.TruncID(r.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User name or id")
	cmd.Flags().Var(newDateValue(&date), "date", "Report day (YYYY-MM-DD, default today in JST)")
	cmd.Flags().IntVar(&impression, "impression", 3, "Impression of the day, 1-5")
	cmd.Flags().BoolVar(&remote, "remote", false, "Worked remotely")
	cmd.Flags().Var(newEntryList(&entries), "entry", "Work entry MISSION=HOURS[:CONTENT] (repeatable)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newReportListCmd(a *App) *cobra.Command {
	var (
		user, date string
		page       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the reports of one day or one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q := app.ReportListQuery{Date: date, Page: page, PerPage: a.perPage()}
			if user != "" {
				u, err := resolveUser(ctx, a, user)
				if err != nil {
					return err
				}
				q.UserID = u.ID
			}
			if q.Date == "" && q.UserID == "" {
				q.Date = jst.DateOf(a.now())
			}

			res, err := a.Reports.ListReports(ctx, q)
			if err != nil {
				return err
			}
			users, err := a.Catalog.ListUsers(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReportList(*res, userNames(users)))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Only this user's reports (name or id)")
	cmd.Flags().Var(newDateValue(&date), "date", "Only this day (YYYY-MM-DD); defaults to today without --user")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page")
	return cmd
}

func newReportShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <report-id>",
		Short: "Show a report and its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.Reports.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			refs, err := listMissionRefs(ctx, a)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(app.NewReportView(r), missionNames(refs)))
			return nil
		},
	}
}

func newReportRemoveCmd(a *App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "remove <report-id>",
		Short: "Delete one of your reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := resolveUser(ctx, a, user)
			if err != nil {
				return err
			}
			if err := a.Reports.Delete(ctx, u.ID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed report %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Owner name or id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
