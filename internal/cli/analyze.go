package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevharv/stockscope/events"
	"github.com/kevharv/stockscope/history"
	"github.com/kevharv/stockscope/indicators"
	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/patterns"
	"github.com/kevharv/stockscope/report"
)

func newAnalyzeCmd(rc *RootConfig) *cobra.Command {
	var (
		symbols         []string
		fromStr         string
		toStr           string
		chartPath       string
		anomalies       bool
		recordAnomalies bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summary statistics, patterns, and anomalies for cached symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) == 0 {
				return fmt.Errorf("-symbol is required")
			}
			if err := checkDateRange(fromStr, toStr); err != nil {
				return err
			}
			cfg, err := rc.Config()
			if err != nil {
				return err
			}

			var db *events.Database
			if recordAnomalies {
				db, err = openEventsDB(rc.EventsDB, false)
				if err != nil {
					return err
				}
			}

			all := make([]*market.PriceSeries, 0, len(symbols))
			for _, sym := range symbols {
				series, err := loadSeries(rc, sym, fromStr, toStr)
				if err != nil {
					return err
				}
				all = append(all, series)

				sum, err := history.Summarize(series)
				if err != nil {
					return err
				}
				printSummary(sum)

				if anomalies || recordAnomalies {
					as := patterns.DetectAnomalies(series)
					if anomalies {
						printAnomalies(as)
					}
					if recordAnomalies {
						for _, a := range as {
							db.Append(events.NewAnomalyRecord(a.Date, sym, string(a.Kind), a.Score, a.PriceZ))
						}
					}
				}
			}

			if recordAnomalies {
				if err := db.Save(rc.EventsDB); err != nil {
					return err
				}
				fmt.Printf("anomalies recorded to %s\n", rc.EventsDB)
			}

			if len(all) > 1 {
				if err := printCorrelations(all); err != nil {
					return err
				}
			}

			if chartPath != "" {
				series := all[0]
				short, err := indicators.SMA(series, cfg.Analysis.SMAShort)
				if err != nil {
					return err
				}
				long, err := indicators.SMA(series, cfg.Analysis.SMALong)
				if err != nil {
					return err
				}
				img, err := report.PriceChart(series, short, long)
				if err != nil {
					return err
				}
				if err := report.WritePNG(chartPath, img); err != nil {
					return err
				}
				fmt.Printf("chart written to %s\n", chartPath)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbol", nil, "Symbol to analyze (repeatable)")
	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write a price chart PNG for the first symbol")
	cmd.Flags().BoolVar(&anomalies, "anomalies", false, "Report price and volume anomalies")
	cmd.Flags().BoolVar(&recordAnomalies, "record-anomalies", false, "Append detected anomalies to the event database")

	return cmd
}

func printSummary(s *history.Summary) {
	fmt.Printf("%s: %d bars\n", s.Symbol, s.Bars)
	fmt.Printf("  annualized return  %+.2f%%\n", 100*s.AnnualizedReturn)
	fmt.Printf("  annualized vol     %.2f%%\n", 100*s.AnnualizedVolatility)
	fmt.Printf("  sharpe             %.2f\n", s.SharpeRatio)
	fmt.Printf("  max drawdown       %.2f%%\n", 100*s.MaxDrawdown)
	fmt.Printf("  best day           %+.2f%% (%s)\n", 100*s.BestDay, s.BestDayDate)
	fmt.Printf("  worst day          %+.2f%% (%s)\n", 100*s.WorstDay, s.WorstDayDate)
	for pt, n := range s.PatternCounts {
		fmt.Printf("  pattern %-18s %d\n", pt, n)
	}
	if len(s.PatternCounts) > 0 {
		fmt.Printf("  avg post-pattern return %+.2f%%\n", 100*s.AvgPostPatternReturn)
	}
}

func printAnomalies(as []patterns.Anomaly) {
	if len(as) == 0 {
		fmt.Println("  no anomalies")
		return
	}
	for _, a := range as {
		fmt.Printf("  anomaly %s %s score=%.2f (price z=%.2f volume z=%.2f)\n",
			a.Date, a.Kind, a.Score, a.PriceZ, a.VolumeZ)
	}
}

func printCorrelations(all []*market.PriceSeries) error {
	syms, matrix, err := history.CorrelationMatrix(all)
	if err != nil {
		return err
	}
	fmt.Println("return correlations:")
	for i, a := range syms {
		for j, b := range syms {
			if j <= i {
				continue
			}
			fmt.Printf("  %s/%s %+.3f\n", a, b, matrix[i][j])
		}
	}
	return nil
}
