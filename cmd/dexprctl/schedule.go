package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meenmo/dexpr/dexpr"
	"github.com/meenmo/dexpr/calendar"
	"github.com/meenmo/dexpr/internal/config"
	"github.com/meenmo/dexpr/tenor"
)

var (
	scheduleEffective string
	scheduleMaturity  string
	scheduleFrequency string
	schedulePayDelay  string
	scheduleFixingLag string
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate a periodic accrual/reset/payment schedule",
		RunE:  runSchedule,
	}
	cmd.Flags().StringVar(&scheduleEffective, "effective", "", "schedule start date, ISO-8601 (required)")
	cmd.Flags().StringVar(&scheduleMaturity, "maturity", "", "schedule end date, ISO-8601 (required)")
	cmd.Flags().StringVar(&scheduleFrequency, "frequency", "3m", "accrual period length, e.g. 3m, 6m, 1y")
	cmd.Flags().StringVar(&schedulePayDelay, "pay-delay", "2b", "business days from accrual end to payment")
	cmd.Flags().StringVar(&scheduleFixingLag, "fixing-lag", "2b", "business days before accrual start the reset is fixed")
	cmd.MarkFlagRequired("effective")
	cmd.MarkFlagRequired("maturity")
	return cmd
}

type schedulePeriod struct {
	AccrualStart, AccrualEnd time.Time
	ResetDate, PaymentDate   time.Time
}

// firstOf evaluates e over the fully open window and returns its single
// date, the idiom every per-date transform below uses in place of a direct
// calendar call.
func firstOf(e dexpr.Expr) (time.Time, error) {
	ds, err := e.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		return time.Time{}, err
	}
	if len(ds) == 0 {
		return time.Time{}, fmt.Errorf("expression produced no date")
	}
	return ds[0], nil
}

// buildSchedule steps accrual periods at freq from effective to maturity.
// Each accrual boundary, reset date, and payment date is a single-date
// dexpr expression (Const + RollFwd/AddTenor/SubTenor, evaluated with Over(cal))
// rather than a direct calendar.Adjust/AddBusinessDays call, grounded on the
// teacher's buildSchedule loop shape.
func buildSchedule(effective, maturity time.Time, freq, payDelay, fixingLag tenor.Tenor, cal calendar.Calendar) ([]schedulePeriod, error) {
	if freq.IsZero() || freq.IsNegative() {
		return nil, fmt.Errorf("--frequency %s makes no forward progress; a schedule requires a positive tenor", freq)
	}

	maxLen := config.Get().MaxScheduleLength
	var periods []schedulePeriod
	start := effective
	for {
		next, err := freq.AddTo(start, cal)
		if err != nil {
			return nil, err
		}
		if !next.After(start) {
			return nil, fmt.Errorf("--frequency %s made no forward progress from %s", freq, start.Format("2006-01-02"))
		}
		if next.After(maturity) {
			break
		}
		if len(periods) >= maxLen {
			return nil, fmt.Errorf("schedule exceeds MaxScheduleLength (%d periods) between %s and %s at --frequency %s",
				maxLen, effective.Format("2006-01-02"), maturity.Format("2006-01-02"), freq)
		}

		accrualStart, err := firstOf(dexpr.E(dexpr.Const(start)).RollFwd().Over(cal))
		if err != nil {
			return nil, err
		}
		accrualEnd, err := firstOf(dexpr.E(dexpr.Const(next)).RollFwd().Over(cal))
		if err != nil {
			return nil, err
		}
		resetDate, err := firstOf(dexpr.E(dexpr.Const(accrualStart)).ShiftBack(fixingLag).RollBwd().Over(cal))
		if err != nil {
			return nil, err
		}
		paymentDate, err := firstOf(dexpr.E(dexpr.Const(accrualEnd)).Shift(payDelay).RollFwd().Over(cal))
		if err != nil {
			return nil, err
		}

		periods = append(periods, schedulePeriod{
			AccrualStart: accrualStart,
			AccrualEnd:   accrualEnd,
			ResetDate:    resetDate,
			PaymentDate:  paymentDate,
		})
		start = next
	}
	return periods, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cal, err := resolveCalendar(ctx)
	if err != nil {
		return err
	}

	effective := dexpr.MustD(scheduleEffective)
	maturity := dexpr.MustD(scheduleMaturity)

	freq, err := tenor.Parse(scheduleFrequency)
	if err != nil {
		return err
	}
	payDelay, err := tenor.Parse(schedulePayDelay)
	if err != nil {
		return err
	}
	fixingLag, err := tenor.Parse(scheduleFixingLag)
	if err != nil {
		return err
	}

	periods, err := buildSchedule(effective, maturity, freq, payDelay, fixingLag, cal)
	if err != nil {
		return err
	}
	for _, p := range periods {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\treset=%s\tpay=%s\n",
			p.AccrualStart.Format("2006-01-02"), p.AccrualEnd.Format("2006-01-02"),
			p.ResetDate.Format("2006-01-02"), p.PaymentDate.Format("2006-01-02"))
	}
	return nil
}
