package cli

import (
	"fmt"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/kevharv/stockscope/backtest"
	"github.com/kevharv/stockscope/events"
	"github.com/kevharv/stockscope/journal"
	"github.com/kevharv/stockscope/report"
)

func newBacktestCmd(rc *RootConfig) *cobra.Command {
	var (
		symbol    string
		fromStr   string
		toStr     string
		stratName string
		capital   float64
		size      float64
		threshold float64
		short     bool
		folds     int
		chartPath string
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run a strategy over cached bars and record it in the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if symbol == "" {
				return fmt.Errorf("-symbol is required")
			}
			if err := checkDateRange(fromStr, toStr); err != nil {
				return err
			}
			if capital <= 0 {
				return fmt.Errorf("invalid -capital")
			}
			if size <= 0 || size > capital {
				return fmt.Errorf("require 0 < -size <= -capital")
			}
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("invalid -threshold (want [0,1])")
			}
			if folds == 1 || folds < 0 {
				return fmt.Errorf("invalid -cv-folds (want 0 or >= 2)")
			}

			name, err := backtest.ParseName(stratName)
			if err != nil {
				return err
			}

			strat := backtest.NewStrategy(name)
			strat.InitialCapital = capital
			strat.PositionSize = size
			strat.EntryThreshold = threshold
			strat.AllowShort = short

			if name == backtest.EventBased {
				db := events.NewDatabase()
				if err := db.Load(rc.EventsDB); err != nil {
					log.Warn().Str("path", rc.EventsDB).Err(err).Msg("running event-based strategy without events")
				}
				strat.Events = db
			}

			series, err := loadSeries(rc, symbol, fromStr, toStr)
			if err != nil {
				return err
			}

			res, err := backtest.Run(series, strat, 0, series.Len()-1)
			if err != nil {
				return err
			}

			j, err := journal.NewSQLite(rc.DBPath)
			if err != nil {
				return err
			}
			defer j.Close()

			runID, err := j.RecordRun(symbol, fromStr, toStr, res)
			if err != nil {
				return err
			}

			fmt.Printf(
				"Done. run=%s final=%.2f return=%+.2f%% sharpe=%.2f maxdd=%.2f%% trades=%d wins=%d\n",
				runID,
				res.FinalCapital,
				100*res.TotalReturn,
				res.SharpeRatio,
				100*res.MaxDrawdown,
				res.TotalTrades,
				res.ProfitableTrades,
			)

			if folds >= 2 {
				cv, err := backtest.CrossValidate(series, folds, strat)
				if err != nil {
					return err
				}
				if err := j.RecordFolds(runID, cv); err != nil {
					return err
				}
				fmt.Printf(
					"CV over %d folds: accuracy mean=%.3f best=%.3f worst=%.3f (stddev %.3f), return mean=%+.2f%%\n",
					len(cv.Folds),
					cv.MeanAccuracy,
					cv.BestAccuracy,
					cv.WorstAccuracy,
					cv.AccuracyStddev,
					100*cv.MeanReturn,
				)
				for _, f := range cv.Folds {
					fmt.Printf("  fold %d..%d strategy=%s accuracy=%.3f f1=%.3f\n",
						f.Fold.Start, f.Fold.End, f.Strategy, f.Metrics.Accuracy, f.Metrics.F1)
				}
			}

			if chartPath != "" {
				img, err := report.EquityChart(symbol, res)
				if err != nil {
					return err
				}
				if err := report.WritePNG(chartPath, img); err != nil {
					return err
				}
				fmt.Printf("equity chart written to %s\n", chartPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Symbol to backtest")
	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&stratName, "strategy", "default", "Strategy: default|momentum|mean-reversion|breakout|event-based")
	cmd.Flags().Float64Var(&capital, "capital", 10_000, "Initial capital")
	cmd.Flags().Float64Var(&size, "size", 1_000, "Position size per trade")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.5, "Minimum signal strength to act on")
	cmd.Flags().BoolVar(&short, "short", false, "Allow short positions")
	cmd.Flags().IntVar(&folds, "cv-folds", 0, "Cross-validation folds (0 disables)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write an equity curve PNG")

	return cmd
}
