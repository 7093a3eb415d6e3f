package journal

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevharv/stockscope/backtest"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func sampleResult() *backtest.Result {
	return &backtest.Result{
		Strategy:         backtest.Default,
		InitialCapital:   10_000,
		FinalCapital:     10_098,
		TotalReturn:      0.0098,
		AnnualizedReturn: 0.085,
		SharpeRatio:      1.2,
		MaxDrawdown:      0.03,
		CalmarRatio:      2.8,
		TotalTrades:      1,
		ProfitableTrades: 1,
		Trades: []backtest.Trade{{
			Direction:  backtest.Buy,
			EntryIndex: 9,
			EntryDate:  "2023-01-11",
			EntryPrice: 100,
			ExitIndex:  10,
			ExitDate:   "2023-01-12",
			ExitPrice:  110,
			Cost:       2,
			Profit:     98,
		}},
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','trades','cv_folds')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["trades"])
	assert.True(t, found["cv_folds"])
}

func TestRecordAndGetRun(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	runID, err := j.RecordRun("AAPL", "2023-01-02", "2023-06-30", sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	run, err := j.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", run.Symbol)
	assert.Equal(t, "default", run.Strategy)
	assert.Equal(t, 10_098.0, run.FinalCapital)
	assert.Equal(t, 1, run.TotalTrades)

	trades, err := j.ListTrades(runID)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "buy", trades[0].Direction)
	assert.Equal(t, 98.0, trades[0].Profit)
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	_, err := j.GetRun("missing")
	assert.Error(t, err)
}

func TestListRunsBySymbol(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	_, err := j.RecordRun("AAPL", "2023-01-02", "2023-06-30", sampleResult())
	require.NoError(t, err)
	_, err = j.RecordRun("AAPL", "2023-07-01", "2023-12-29", sampleResult())
	require.NoError(t, err)
	_, err = j.RecordRun("MSFT", "2023-01-02", "2023-06-30", sampleResult())
	require.NoError(t, err)

	runs, err := j.ListRunsBySymbol("AAPL")
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	// ULID run IDs sort newest first under the DESC order
	assert.GreaterOrEqual(t, runs[0].RunID, runs[1].RunID)
}

func TestRecordFolds(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	runID, err := j.RecordRun("AAPL", "2023-01-02", "2023-12-29", sampleResult())
	require.NoError(t, err)

	cv := &backtest.CVResult{
		Folds: []backtest.FoldReport{
			{
				Fold:     backtest.Fold{Start: 0, End: 100},
				Strategy: backtest.MeanReversion,
				Metrics:  backtest.ValidationMetrics{Accuracy: 0.6, F1: 0.55, RMSE: 1.2},
				Backtest: &backtest.Result{TotalReturn: 0.04},
			},
			{
				Fold:     backtest.Fold{Start: 100, End: 200},
				Strategy: backtest.Breakout,
				Metrics:  backtest.ValidationMetrics{Accuracy: 0.52, F1: 0.5, RMSE: 1.4},
				Backtest: &backtest.Result{TotalReturn: -0.01},
			},
		},
	}
	require.NoError(t, j.RecordFolds(runID, cv))

	folds, err := j.ListFolds(runID)
	require.NoError(t, err)
	require.Len(t, folds, 2)
	assert.Equal(t, "mean-reversion", folds[0].Strategy)
	assert.Equal(t, 100, folds[1].FoldStart)
	assert.InDelta(t, -0.01, folds[1].FoldReturn, 1e-12)
}
