package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// PUNCH
// =============================================================================

func newPunchCmd(a *app) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "punch <in|out|sick|vacation>",
		Short: "Record a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryType, err := payroll.ParseEntryType(args[0])
			if err != nil {
				return err
			}
			var when *time.Time
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				when = &t
			}

			return a.withEngine(cmd, func(ctx context.Context) error {
				entry, err := a.calc.Punch(ctx, entryType, when)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s recorded at %s (entry %d)\n",
					entry.Type.Title(), entry.PunchTime.Format(time.RFC3339), entry.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "punch time (RFC3339), defaults to now")
	return cmd
}

// =============================================================================
// TODAY
// =============================================================================

func newTodayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's hours and clock state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context) error {
				status, err := a.calc.TodayHours(ctx, nil)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Hours today: %s\n", status.TotalHours.StringFixed(2))
				if status.IsClockedIn {
					fmt.Fprintf(out, "Status:      %s\n", styleGreen.Render("clocked in since "+status.ClockInTime))
				} else {
					fmt.Fprintln(out, "Status:      clocked out")
				}
				fmt.Fprintf(out, "Entries:     %d\n", status.EntryCount)
				return nil
			})
		},
	}
}

// =============================================================================
// CALC
// =============================================================================

func newCalcCmd(a *app) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate pay for a period (default: current semi-monthly period)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, endAt, err := dayFlags(start, end)
			if err != nil {
				return err
			}

			return a.withEngine(cmd, func(ctx context.Context) error {
				calc, err := a.calc.CalculatePeriodPay(ctx, startAt, endAt)
				if err != nil {
					return err
				}
				_, days, err := a.calc.PeriodBreakdown(ctx, startAt, endAt)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Period %s\n\n", calc.Period())

				rows := make([][]string, 0, len(days))
				for _, d := range days {
					rows = append(rows, []string{
						d.Day.String(), string(d.Kind),
						hours(d.Regular), hours(d.Overtime), hours(d.Weekend),
						hours(d.Holiday), hours(d.Sick), hours(d.Vacation),
					})
				}
				fmt.Fprint(out, renderTable(
					[]string{"DATE", "KIND", "REGULAR", "OVERTIME", "WEEKEND", "HOLIDAY", "SICK", "VACATION"}, rows))

				fmt.Fprintln(out)
				fmt.Fprintf(out, "Total hours: %s\n", calc.TotalHours.StringFixed(2))
				fmt.Fprintf(out, "Hourly rate: %s\n", calc.HourlyRate.StringFixed(2))
				fmt.Fprintf(out, "Gross pay:   %s\n", styleBold.Render(calc.GrossPay.StringFixed(2)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day, inclusive (YYYY-MM-DD)")
	return cmd
}

// dayFlags turns optional --start/--end days into the engine's bounds.
func dayFlags(start, end string) (*time.Time, *time.Time, error) {
	var s, e *time.Time
	if start != "" {
		d, err := payroll.ParseDay(start)
		if err != nil {
			return nil, nil, fmt.Errorf("--start: %w", err)
		}
		t := d.Time()
		s = &t
	}
	if end != "" {
		d, err := payroll.ParseDay(end)
		if err != nil {
			return nil, nil, fmt.Errorf("--end: %w", err)
		}
		t := payroll.EndOfDay(d.Time())
		e = &t
	}
	return s, e, nil
}

// =============================================================================
// RATE
// =============================================================================

func newRateCmd(a *app) *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Show or replace the hourly rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var newRate *decimal.Decimal
			if set != "" {
				d, err := decimal.NewFromString(set)
				if err != nil {
					return fmt.Errorf("--set: %w", err)
				}
				newRate = &d
			}

			return a.withEngine(cmd, func(ctx context.Context) error {
				if newRate != nil {
					if err := a.calc.UpdateRate(ctx, *newRate); err != nil {
						return err
					}
				}
				rate, err := a.calc.CurrentRate(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Hourly rate: %s\n", rate.StringFixed(2))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "new hourly rate (> 0)")
	return cmd
}

// =============================================================================
// CALENDAR
// =============================================================================

func newCalendarCmd(a *app) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List a month of entries (default: current month)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}

			return a.withEngine(cmd, func(ctx context.Context) error {
				days, err := a.calc.Calendar(ctx, year, time.Month(month))
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(days) == 0 {
					fmt.Fprintf(out, "No entries for %04d-%02d.\n", year, month)
					return nil
				}

				var rows [][]string
				for _, day := range payroll.SortedDays(days) {
					for _, e := range days[day] {
						rows = append(rows, []string{
							day.String(), e.PunchTime.Format(payroll.ClockTimeLayout), string(e.Type), fmt.Sprint(e.ID),
						})
					}
				}
				fmt.Fprint(out, renderTable([]string{"DATE", "TIME", "TYPE", "ID"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default: current)")
	return cmd
}
