package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meenmo/dexpr/dexpr"
	"github.com/meenmo/dexpr/tenor"
)

var (
	evalFrom     string
	evalTo       string
	evalBase     string
	evalShift    string
	evalRoll     string
	evalBusiness bool
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a built-in expression over a window",
		RunE:  runEval,
	}
	cmd.Flags().StringVar(&evalFrom, "from", "", "window lower bound, ISO-8601 (required)")
	cmd.Flags().StringVar(&evalTo, "to", "", "window upper bound, ISO-8601 (required)")
	cmd.Flags().StringVar(&evalBase, "expr", "days", "base sequence: days, weeks, months, years")
	cmd.Flags().StringVar(&evalShift, "shift", "", "tenor to shift every date by, e.g. 4d, -1m")
	cmd.Flags().StringVar(&evalRoll, "roll", "", "roll each date to a business day: fwd or bwd")
	cmd.Flags().BoolVar(&evalBusiness, "business-days", false, "restrict to business days before shifting/rolling")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func baseExpr(name string) (dexpr.Expr, error) {
	switch name {
	case "days":
		return dexpr.E(dexpr.Days), nil
	case "weeks":
		return dexpr.E(dexpr.Weeks), nil
	case "months":
		return dexpr.E(dexpr.Months), nil
	case "years":
		return dexpr.E(dexpr.Years), nil
	default:
		return dexpr.Expr{}, fmt.Errorf("unknown --expr %q (want days, weeks, months, or years)", name)
	}
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cal, err := resolveCalendar(ctx)
	if err != nil {
		return err
	}

	e, err := baseExpr(evalBase)
	if err != nil {
		return err
	}
	if evalBusiness {
		e = e.BusinessDays()
	}
	if evalShift != "" {
		t, err := tenor.Parse(evalShift)
		if err != nil {
			return err
		}
		e = e.Shift(t)
	}
	switch evalRoll {
	case "":
	case "fwd":
		e = e.RollFwd()
	case "bwd":
		e = e.RollBwd()
	default:
		return fmt.Errorf("unknown --roll %q (want fwd or bwd)", evalRoll)
	}
	e = e.Over(cal)

	lo, err := dexpr.ParseD(evalFrom)
	if err != nil {
		return err
	}
	hi, err := dexpr.ParseD(evalTo)
	if err != nil {
		return err
	}
	bounded := dexpr.Between(e, lo, hi)

	dates, err := bounded.Evaluate(dexpr.DefaultWindow())
	if err != nil {
		return err
	}
	for _, d := range dates {
		fmt.Fprintln(cmd.OutOrStdout(), d.Format("2006-01-02"))
	}
	return nil
}
