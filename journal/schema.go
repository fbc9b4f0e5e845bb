package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	date TEXT NOT NULL,
	entry_date TEXT NOT NULL DEFAULT '',
	exit_date TEXT,
	symbol TEXT NOT NULL,
	asset_class TEXT NOT NULL,
	qty REAL NOT NULL,
	pnl REAL NOT NULL,
	entry_price REAL,
	exit_price REAL,
	notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_user_date ON trades(user_id, date);
`
