package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/h200-index/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS index_results (
	id          TEXT PRIMARY KEY,
	timestamp   DATETIME NOT NULL,
	index_value REAL NOT NULL,
	outcome     TEXT NOT NULL,
	result      TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS provider_contributions (
	id              TEXT PRIMARY KEY,
	result_id       TEXT NOT NULL REFERENCES index_results(id),
	provider        TEXT NOT NULL,
	tier            TEXT NOT NULL,
	effective_price REAL NOT NULL,
	weight          REAL NOT NULL,
	contribution    REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_index_results_timestamp ON index_results(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_contributions_result_id ON provider_contributions(result_id);
CREATE INDEX IF NOT EXISTS idx_contributions_provider ON provider_contributions(provider);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertResult writes the result row and its contribution rows in one
// transaction.
func (s *SQLiteStore) InsertResult(ctx context.Context, result *model.IndexResult) error {
	if result == nil {
		return eris.New("sqlite: nil result")
	}
	if result.Outcome == model.OutcomeFailed {
		return eris.New("sqlite: failed cycles are not persisted")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO index_results (id, timestamp, index_value, outcome, result) VALUES (?, ?, ?, ?, ?)`,
		result.ID, result.Timestamp.UTC().Format(time.RFC3339Nano), result.IndexValue,
		string(result.Outcome), string(payload),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert result")
	}

	for _, c := range result.Contributions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO provider_contributions (id, result_id, provider, tier, effective_price, weight, contribution)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), result.ID, c.Provider, string(c.Tier),
			c.EffectivePrice, c.Weight, c.Contribution,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert contribution %s", c.Provider)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// LatestResults returns up to n full results, most recent first.
func (s *SQLiteStore) LatestResults(ctx context.Context, n int) ([]model.IndexResult, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT result FROM index_results ORDER BY timestamp DESC LIMIT ?`, n)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list results")
	}
	defer rows.Close() //nolint:errcheck

	var results []model.IndexResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan result")
		}
		var r model.IndexResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: iterate results")
}

// History returns up to n index values, most recent first.
func (s *SQLiteStore) History(ctx context.Context, n int) ([]model.HistoryPoint, error) {
	if n <= 0 {
		n = 2
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, index_value FROM index_results ORDER BY timestamp DESC LIMIT ?`, n)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list history")
	}
	defer rows.Close() //nolint:errcheck

	var points []model.HistoryPoint
	for rows.Next() {
		var ts string
		var value float64
		if err := rows.Scan(&ts, &value); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan history")
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse timestamp %q", ts)
		}
		points = append(points, model.HistoryPoint{Timestamp: parsed, IndexValue: value})
	}
	return points, eris.Wrap(rows.Err(), "sqlite: iterate history")
}
