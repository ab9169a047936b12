package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/calendar"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cli/formatter"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or set a user's weekly plan",
	}
	cmd.AddCommand(newPlanShowCmd(a), newPlanSetCmd(a))
	return cmd
}

// weekFlags select an ISO week. Without --week the week is picked
// interactively, or the current week is used on a non-terminal.
type weekFlags struct {
	year, week int
}

func (f *weekFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.year, "year", 0, "ISO year (default: the current one)")
	cmd.Flags().IntVar(&f.week, "week", 0, "ISO week number")
}

func (f *weekFlags) resolve(cmd *cobra.Command, a *App) (int, int, error) {
	now := a.now().In(jst.Location)
	switch {
	case f.week != 0:
		year := f.year
		if year == 0 {
			year, _ = now.ISOWeek()
		}
		return year, f.week, nil
	case f.year != 0:
		return 0, 0, errors.New("--year needs --week")
	case a.interactive():
		w, err := pickWeek(cmd, a.Plans.Calendar(now).Months, now)
		if err != nil {
			return 0, 0, err
		}
		return w.ISOYear, w.Number, nil
	default:
		y, w := now.ISOWeek()
		return y, w, nil
	}
}

// weekChoices flattens display months into picker order and returns the
// index of the week holding today, or 0.
func weekChoices(months []calendar.Month, today time.Time) ([]calendar.Week, int) {
	var weeks []calendar.Week
	current := 0
	for _, m := range months {
		for i := len(m.Weeks) - 1; i >= 0; i-- {
			w := m.Weeks[i]
			if w.Contains(today) {
				current = len(weeks)
			}
			weeks = append(weeks, w)
		}
	}
	return weeks, current
}

func pickWeek(cmd *cobra.Command, months []calendar.Month, today time.Time) (calendar.Week, error) {
	weeks, selected := weekChoices(months, today)
	if len(weeks) == 0 {
		return calendar.Week{}, errors.New("no selectable weeks")
	}

	opts := make([]huh.Option[int], len(weeks))
	for i, w := range weeks {
		opts[i] = huh.NewOption(fmt.Sprintf("%d %s  %s", w.Start.Year(), w.Start.Month(), formatter.WeekLabel(w)), i)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Week").
				Options(opts...).
				Value(&selected),
		),
	).WithTheme(huhTheme()).
		WithShowHelp(false).
		WithInput(cmd.InOrStdin()).
		WithOutput(cmd.OutOrStdout())

	if err := form.RunWithContext(cmd.Context()); err != nil {
		return calendar.Week{}, err
	}
	return weeks[selected], nil
}

func newPlanShowCmd(a *App) *cobra.Command {
	var (
		user  string
		weeks weekFlags
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a weekly plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := resolveUser(ctx, a, user)
			if err != nil {
				return err
			}
			year, week, err := weeks.resolve(cmd, a)
			if err != nil {
				return err
			}
			p, err := a.Plans.Get(ctx, u.ID, year, week)
			if err != nil {
				return err
			}
			refs, err := listMissionRefs(ctx, a)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(app.NewWeeklyPlanView(p), missionNames(refs)))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User name or id")
	weeks.bind(cmd)
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newPlanSetCmd(a *App) *cobra.Command {
	var (
		user    string
		weeks   weekFlags
		entries []entrySpec
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace a weekly plan",
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
			year, week, err := weeks.resolve(cmd, a)
			if err != nil {
				return err
			}

			in := app.PlanInput{ISOYear: year, ISOWeek: week}
			for _, e := range inputs {
				in.Entries = append(in.Entries, app.PlanEntryInput{MissionID: e.MissionID, Hours: e.Hours, Content: e.Content})
			}
			p, err := a.Plans.Save(ctx, u.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d-W%02d for %s: %s planned\n",
				p.ISOYear, p.ISOWeek, u.Name, formatter.FormatHours(p.PlannedHours()))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User name or id")
	cmd.Flags().Var(newEntryList(&entries), "entry", "Plan entry MISSION=HOURS[:CONTENT] (repeatable)")
	weeks.bind(cmd)
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
