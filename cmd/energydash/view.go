package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"energydash/internal/energy/collector"
	"energydash/internal/energy/views"
)

var (
	viewYear    int
	viewMonth   int
	viewColumns string
)

var viewCMD = &cobra.Command{
	Use:   "view [kind]",
	Short: "Print one aggregated view as JSON",
	Long:  `Load the dataset once and print the requested view. Kinds: hourly, daily, ratio, monthlyAverage, monthlyTotal, annualTrend, series, proportion, distribution.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := views.ParseKind(args[0])
		if err != nil {
			return err
		}
		columns, err := views.ParseColumns(viewColumns)
		if err != nil {
			return err
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		ds, err := collector.New(cfg, log).Load(cmd.Context())
		if err != nil {
			return err
		}

		v, err := views.Build(ds, kind, views.Filter{
			Year:    viewYear,
			Month:   time.Month(viewMonth),
			Columns: columns,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	},
}

func init() {
	viewCMD.Flags().IntVar(&viewYear, "year", 0, "restrict to one calendar year (0 means all)")
	viewCMD.Flags().IntVar(&viewMonth, "month", 0, "restrict to one month of year, 1-12 (0 means all)")
	viewCMD.Flags().StringVar(&viewColumns, "columns", "", "comma separated columns (default gasTotal,electricityRTE)")
}
