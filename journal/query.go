package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run row by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	var r Run

	row := j.db.QueryRow(`
		SELECT run_id, created, symbol, strategy, start_date, end_date,
		       initial_capital, final_capital, total_return, annualized_return,
		       sharpe_ratio, max_drawdown, calmar_ratio, total_trades, profitable_trades
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&r.RunID,
		&r.Created,
		&r.Symbol,
		&r.Strategy,
		&r.StartDate,
		&r.EndDate,
		&r.InitialCapital,
		&r.FinalCapital,
		&r.TotalReturn,
		&r.AnnualizedReturn,
		&r.SharpeRatio,
		&r.MaxDrawdown,
		&r.CalmarRatio,
		&r.TotalTrades,
		&r.ProfitableTrades,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRunsBySymbol returns the runs for a symbol, newest first.
func (j *SQLite) ListRunsBySymbol(symbol string) ([]Run, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, symbol, strategy, start_date, end_date,
		       initial_capital, final_capital, total_return, annualized_return,
		       sharpe_ratio, max_drawdown, calmar_ratio, total_trades, profitable_trades
		FROM runs
		WHERE symbol = ?
		ORDER BY run_id DESC`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.RunID,
			&r.Created,
			&r.Symbol,
			&r.Strategy,
			&r.StartDate,
			&r.EndDate,
			&r.InitialCapital,
			&r.FinalCapital,
			&r.TotalReturn,
			&r.AnnualizedReturn,
			&r.SharpeRatio,
			&r.MaxDrawdown,
			&r.CalmarRatio,
			&r.TotalTrades,
			&r.ProfitableTrades,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrades returns the trades of a run in entry order.
func (j *SQLite) ListTrades(runID string) ([]TradeRow, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, direction, entry_date, entry_price, exit_date, exit_price, cost, profit
		FROM trades
		WHERE run_id = ?
		ORDER BY entry_date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRow
	for rows.Next() {
		var tr TradeRow
		if err := rows.Scan(
			&tr.TradeID,
			&tr.RunID,
			&tr.Direction,
			&tr.EntryDate,
			&tr.EntryPrice,
			&tr.ExitDate,
			&tr.ExitPrice,
			&tr.Cost,
			&tr.Profit,
		); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFolds returns the cross-validation folds of a run in fold order.
func (j *SQLite) ListFolds(runID string) ([]FoldRow, error) {
	rows, err := j.db.Query(`
		SELECT run_id, fold_start, fold_end, strategy, accuracy, f1, rmse, fold_return
		FROM cv_folds
		WHERE run_id = ?
		ORDER BY fold_start ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FoldRow
	for rows.Next() {
		var fr FoldRow
		if err := rows.Scan(
			&fr.RunID,
			&fr.FoldStart,
			&fr.FoldEnd,
			&fr.Strategy,
			&fr.Accuracy,
			&fr.F1,
			&fr.RMSE,
			&fr.FoldReturn,
		); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
