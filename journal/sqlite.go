// Package journal persists backtest runs, their trades, and
// cross-validation folds to SQLite.
package journal

import (
	"database/sql"
	"fmt"
	"math/rand"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/kevharv/stockscope/backtest"
)

// Run mirrors one row of the runs table.
type Run struct {
	RunID            string
	Created          time.Time
	Symbol           string
	Strategy         string
	StartDate        string
	EndDate          string
	InitialCapital   float64
	FinalCapital     float64
	TotalReturn      float64
	AnnualizedReturn float64
	SharpeRatio      float64
	MaxDrawdown      float64
	CalmarRatio      float64
	TotalTrades      int
	ProfitableTrades int
}

// TradeRow mirrors one row of the trades table.
type TradeRow struct {
	TradeID    string
	RunID      string
	Direction  string
	EntryDate  string
	EntryPrice float64
	ExitDate   string
	ExitPrice  float64
	Cost       float64
	Profit     float64
}

// FoldRow mirrors one row of the cv_folds table.
type FoldRow struct {
	RunID      string
	FoldStart  int
	FoldEnd    int
	Strategy   string
	Accuracy   float64
	F1         float64
	RMSE       float64
	FoldReturn float64
}

type SQLite struct {
	db *sql.DB
}

// Run ids are ULIDs: time-ordered, so newest-first listings are a plain
// ORDER BY on the primary key.
var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

func newID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Now(), idEntropy).String()
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordRun stores a backtest result and its trades in one transaction
// and returns the generated run ID.
func (j *SQLite) RecordRun(symbol, startDate, endDate string, res *backtest.Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("record run: nil result")
	}

	tx, err := j.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	runID := newID()
	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, created, symbol, strategy, start_date, end_date,
		 initial_capital, final_capital, total_return, annualized_return,
		 sharpe_ratio, max_drawdown, calmar_ratio, total_trades, profitable_trades)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), symbol, string(res.Strategy), startDate, endDate,
		res.InitialCapital, res.FinalCapital, res.TotalReturn, res.AnnualizedReturn,
		res.SharpeRatio, res.MaxDrawdown, res.CalmarRatio, res.TotalTrades, res.ProfitableTrades,
	)
	if err != nil {
		return "", err
	}

	for _, tr := range res.Trades {
		_, err = tx.Exec(`
			INSERT INTO trades
			(trade_id, run_id, direction, entry_date, entry_price, exit_date, exit_price, cost, profit)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			newID(), runID, tr.Direction.String(), tr.EntryDate, tr.EntryPrice,
			tr.ExitDate, tr.ExitPrice, tr.Cost, tr.Profit,
		)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// RecordFolds stores the per-fold reports of a cross-validation under an
// existing run.
func (j *SQLite) RecordFolds(runID string, cv *backtest.CVResult) error {
	if cv == nil {
		return fmt.Errorf("record folds: nil result")
	}

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, fr := range cv.Folds {
		foldReturn := 0.0
		if fr.Backtest != nil {
			foldReturn = fr.Backtest.TotalReturn
		}
		_, err = tx.Exec(`
			INSERT INTO cv_folds
			(run_id, fold_start, fold_end, strategy, accuracy, f1, rmse, fold_return)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, fr.Fold.Start, fr.Fold.End, string(fr.Strategy),
			fr.Metrics.Accuracy, fr.Metrics.F1, fr.Metrics.RMSE, foldReturn,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
