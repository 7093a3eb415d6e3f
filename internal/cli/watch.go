package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/kevharv/stockscope/fetch"
	"github.com/kevharv/stockscope/market"
)

func newWatchCmd(rc *RootConfig) *cobra.Command {
	var (
		symbols  []string
		schedule string
		days     int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh the price cache on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) == 0 {
				cfg, err := rc.Config()
				if err != nil {
					return err
				}
				symbols = cfg.Symbols
			}
			if len(symbols) == 0 {
				return fmt.Errorf("-symbol or config symbols required")
			}
			if days <= 0 {
				return fmt.Errorf("invalid -days")
			}

			cache, err := fetch.NewCSVCache(rc.CacheDir)
			if err != nil {
				return err
			}

			refresh := func() {
				to := time.Now().UTC()
				from := to.AddDate(0, 0, -days)
				fromStr := from.Format(market.DateLayout)
				toStr := to.Format(market.DateLayout)
				for _, sym := range symbols {
					series, err := fetch.YahooSource{}.Fetch(sym, fromStr, toStr)
					if err != nil {
						log.Warn().Str("symbol", sym).Err(err).Msg("refresh fetch failed")
						continue
					}
					if err := cache.Store(series, fromStr, toStr); err != nil {
						log.Warn().Str("symbol", sym).Err(err).Msg("refresh store failed")
						continue
					}
					log.Info().Str("symbol", sym).Int("bars", series.Len()).Msg("cache refreshed")
				}
			}

			c := cron.New()
			if _, err := c.AddFunc(schedule, refresh); err != nil {
				return fmt.Errorf("bad -schedule: %w", err)
			}

			refresh()
			c.Start()
			fmt.Printf("watching %d symbols on schedule %q (ctrl-c to stop)\n", len(symbols), schedule)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			<-c.Stop().Done()
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbol", nil, "Symbol to watch (repeatable, default: config symbols)")
	cmd.Flags().StringVar(&schedule, "schedule", "30 21 * * 1-5", "Cron schedule for refreshes")
	cmd.Flags().IntVar(&days, "days", 90, "Lookback window per refresh, in days")

	return cmd
}
