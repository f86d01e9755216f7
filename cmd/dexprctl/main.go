// Command dexprctl is the operational front end for the date-expression
// engine: it resolves a calendar from a file, database, or cache, then
// evaluates a fixed expression or generates a payment schedule against it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meenmo/dexpr/internal/applog"
)

var (
	calendarFile  string
	calendarDB    string
	calendarCache string
	calendarName  string
	verbose       bool
)

func main() {
	root := &cobra.Command{
		Use:   "dexprctl",
		Short: "Evaluate and schedule composable date expressions",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applog.SetVerbose(verbose)
		},
	}
	root.PersistentFlags().StringVar(&calendarFile, "calendar-file", "", "load a holiday calendar from a YAML file")
	root.PersistentFlags().StringVar(&calendarDB, "calendar-db", "", "Postgres DSN to load a named holiday calendar from")
	root.PersistentFlags().StringVar(&calendarCache, "calendar-cache", "", "Redis address to cache the resolved calendar in")
	root.PersistentFlags().StringVar(&calendarName, "calendar-name", "default", "name of the calendar row to load/store")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newEvalCmd())
	root.AddCommand(newScheduleCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
