package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kevharv/stockscope/events"
	"github.com/kevharv/stockscope/eventstudy"
)

func newEventsCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage and study the scored event database",
	}
	cmd.AddCommand(
		newEventsAddCmd(rc),
		newEventsListCmd(rc),
		newEventsStatsCmd(rc),
		newEventsImpactCmd(rc),
		newEventsBackupCmd(rc),
		newEventsRestoreCmd(rc),
	)
	return cmd
}

// openEventsDB loads the database at path. A missing file is an empty
// database when mustExist is false; a corrupt file is always an error.
func openEventsDB(path string, mustExist bool) (*events.Database, error) {
	db := events.NewDatabase()
	if err := db.Load(path); err != nil {
		if mustExist || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return db, nil
}

func newEventsAddCmd(rc *RootConfig) *cobra.Command {
	var date, title, desc, url string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Score a headline and append it to the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" || title == "" {
				return fmt.Errorf("-date and -title are required")
			}
			db, err := openEventsDB(rc.EventsDB, false)
			if err != nil {
				return err
			}
			r := events.NewRecord(date, title, desc, url)
			db.Append(r)
			if err := db.Save(rc.EventsDB); err != nil {
				return err
			}
			fmt.Printf("%s %s sentiment=%+.2f impact=%.0f severity=%s\n",
				r.Date, r.Type, r.Sentiment, r.ImpactScore, r.Severity)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&title, "title", "", "Headline")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&url, "url", "", "Source URL")

	return cmd
}

func newEventsListCmd(rc *RootConfig) *cobra.Command {
	var fromStr, toStr, typeName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored events, optionally filtered by date range or type",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openEventsDB(rc.EventsDB, true)
			if err != nil {
				return err
			}

			recs := db.All()
			if fromStr != "" || toStr != "" {
				if err := checkDateRange(fromStr, toStr); err != nil {
					return err
				}
				recs = db.FindByDateRange(fromStr, toStr)
			}
			if typeName != "" {
				t, err := events.ParseEventType(typeName)
				if err != nil {
					return err
				}
				recs = filterByType(recs, t)
			}

			for _, r := range recs {
				fmt.Printf("%s  %-18s  %+.2f  %3.0f  %s\n",
					r.Date, r.Type, r.Sentiment, r.ImpactScore, r.Title)
			}
			fmt.Printf("%d events\n", len(recs))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&typeName, "type", "", "Filter by event type name")

	return cmd
}

func filterByType(recs []events.Record, t events.EventType) []events.Record {
	out := recs[:0:0]
	for _, r := range recs {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

func newEventsStatsCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print event database statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openEventsDB(rc.EventsDB, true)
			if err != nil {
				return err
			}
			s := db.Stats()
			fmt.Printf("total      %d\n", s.Total)
			fmt.Printf("last month %d\n", s.LastMonth)
			fmt.Printf("last year  %d\n", s.LastYear)
			fmt.Printf("oldest     %s\n", s.OldestDate)
			fmt.Printf("newest     %s\n", s.NewestDate)
			for t, n := range s.CountByType {
				fmt.Printf("  %-18s %d\n", t, n)
			}
			return nil
		},
	}
}

func newEventsImpactCmd(rc *RootConfig) *cobra.Command {
	var (
		symbol  string
		fromStr string
		toStr   string
		date    string
		window  int
		volWin  int
	)

	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Event study: abnormal return and volatility change around an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if symbol == "" || date == "" {
				return fmt.Errorf("-symbol and -date are required")
			}
			if err := checkDateRange(fromStr, toStr); err != nil {
				return err
			}
			if window <= 0 || volWin <= 0 {
				return fmt.Errorf("invalid -window or -vol-window")
			}

			series, err := loadSeries(rc, symbol, fromStr, toStr)
			if err != nil {
				return err
			}

			ar, err := eventstudy.AbnormalReturn(series, date, window)
			if err != nil {
				return err
			}
			vc, err := eventstudy.VolatilityChange(series, date, volWin, volWin)
			if err != nil {
				return err
			}
			fmt.Printf("%s around %s: abnormal return %+.2f%% over %d bars, volatility %+.1f%%\n",
				symbol, date, 100*ar, window, vc)

			db, err := openEventsDB(rc.EventsDB, true)
			if err != nil {
				return err
			}
			for _, r := range db.FindByDateRange(date, date) {
				sectors := eventstudy.AffectedSectors(r, nil)
				fmt.Printf("  %s (%s, severity %s)\n", r.Title, r.Type, r.Severity)
				fmt.Printf("    sectors: %s\n", strings.Join(sectors, ", "))
				fmt.Printf("    defensive: %s\n", eventstudy.DefensiveStrategy(r))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Symbol to study")
	cmd.Flags().StringVar(&fromStr, "from", "", "Series start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "Series end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&date, "date", "", "Event date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&window, "window", 5, "Abnormal return window in bars")
	cmd.Flags().IntVar(&volWin, "vol-window", 10, "Volatility window in bars, each side")

	return cmd
}

func newEventsBackupCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the event database to a .bak sibling",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := events.Backup(rc.EventsDB); err != nil {
				return err
			}
			fmt.Printf("backed up to %s.bak\n", rc.EventsDB)
			return nil
		},
	}
}

func newEventsRestoreCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore the event database from its .bak sibling",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := events.Restore(rc.EventsDB); err != nil {
				return err
			}
			fmt.Printf("restored from %s.bak\n", rc.EventsDB)
			return nil
		},
	}
}
