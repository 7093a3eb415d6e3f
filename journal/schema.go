// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	strategy TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	initial_capital REAL NOT NULL,
	final_capital REAL NOT NULL,
	total_return REAL NOT NULL,
	annualized_return REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	calmar_ratio REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	profitable_trades INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	direction TEXT NOT NULL,
	entry_date TEXT NOT NULL,
	entry_price REAL NOT NULL,
	exit_date TEXT NOT NULL,
	exit_price REAL NOT NULL,
	cost REAL NOT NULL,
	profit REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS cv_folds (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	fold_start INTEGER NOT NULL,
	fold_end INTEGER NOT NULL,
	strategy TEXT NOT NULL,
	accuracy REAL NOT NULL,
	f1 REAL NOT NULL,
	rmse REAL NOT NULL,
	fold_return REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol);
`
