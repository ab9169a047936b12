package cli

import (
	"fmt"
	"math"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cli/formatter"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/spf13/cobra"
)

// aggregationFlags are the range and user filters shared by stats and summary.
type aggregationFlags struct {
	from, to  string
	userID    string
	userNames []string
}

func (f *aggregationFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Var(newDateValue(&f.from), "from", "First day (YYYY-MM-DD, default one month before --to)")
	cmd.Flags().Var(newDateValue(&f.to), "to", "Last day (YYYY-MM-DD, default today in JST)")
	cmd.Flags().StringVar(&f.userID, "user-id", "", "Only this user id")
	cmd.Flags().StringArrayVar(&f.userNames, "user", nil, "User name fragment (repeatable, matches any)")
}

func (f *aggregationFlags) query(a *App) app.AggregationQuery {
	now := a.now()
	return app.AggregationQuery{
		From:      f.from,
		To:        f.to,
		UserID:    f.userID,
		UserNames: f.userNames,
		Now:       &now,
	}
}

func newStatsCmd(a *App) *cobra.Command {
	var flags aggregationFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count reports, projects and hours in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := flags.query(a)
			r, err := jst.ResolveRange(q.From, q.To, *q.Now)
			if err != nil {
				return err
			}
			res, err := a.Stats.Aggregate(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStats(res, r))
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func newSummaryCmd(a *App) *cobra.Command {
	var (
		flags  aggregationFlags
		page   int
		browse bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Per-project hours, work days and averages",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := flags.query(a)
			if _, err := jst.ResolveRange(q.From, q.To, *q.Now); err != nil {
				return err
			}
			if page < 0 {
				return fmt.Errorf("page must be non-negative, got %d", page)
			}

			if browse {
				if !a.interactive() {
					return fmt.Errorf("--browse needs an interactive terminal")
				}
				return runSummaryBrowser(cmd, newSummaryBrowser(cmd.Context(), a.Summary, q, page, a.perPage()))
			}

			perPage := a.perPage()
			if page > math.MaxInt/perPage {
				return fmt.Errorf("page %d is out of range", page)
			}
			q.Skip, q.Limit = page*perPage, perPage
			res, err := a.Summary.Summarize(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(*res, app.NewPageInfo(page, perPage, res.Total)))
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page")
	cmd.Flags().BoolVar(&browse, "browse", false, "Page through the summary interactively")
	return cmd
}

func newWeeksCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "weeks",
		Short: "Show this year's selectable weeks by month",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			view := a.Plans.Calendar(now)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.TodayLine(now))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatMonths(view.Months, now))
			return nil
		},
	}
}
