package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/h200-index/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it in tests.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(5)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS index_results (
	id          TEXT PRIMARY KEY,
	timestamp   TIMESTAMPTZ NOT NULL,
	index_value DOUBLE PRECISION NOT NULL,
	outcome     TEXT NOT NULL,
	result      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS provider_contributions (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	result_id       TEXT NOT NULL REFERENCES index_results(id),
	provider        TEXT NOT NULL,
	tier            TEXT NOT NULL,
	effective_price DOUBLE PRECISION NOT NULL,
	weight          DOUBLE PRECISION NOT NULL,
	contribution    DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_index_results_timestamp ON index_results(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_contributions_result_id ON provider_contributions(result_id);
CREATE INDEX IF NOT EXISTS idx_contributions_provider ON provider_contributions(provider);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// InsertResult writes the result row and its contribution rows in one
// transaction.
func (s *PostgresStore) InsertResult(ctx context.Context, result *model.IndexResult) error {
	if result == nil {
		return eris.New("postgres: nil result")
	}
	if result.Outcome == model.OutcomeFailed {
		return eris.New("postgres: failed cycles are not persisted")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO index_results (id, timestamp, index_value, outcome, result) VALUES ($1, $2, $3, $4, $5)`,
		result.ID, result.Timestamp.UTC(), result.IndexValue, string(result.Outcome), payload,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert result")
	}

	for _, c := range result.Contributions {
		_, err = tx.Exec(ctx,
			`INSERT INTO provider_contributions (id, result_id, provider, tier, effective_price, weight, contribution)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New().String(), result.ID, c.Provider, string(c.Tier),
			c.EffectivePrice, c.Weight, c.Contribution,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert contribution %s", c.Provider)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}

// LatestResults returns up to n full results, most recent first.
func (s *PostgresStore) LatestResults(ctx context.Context, n int) ([]model.IndexResult, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT result FROM index_results ORDER BY timestamp DESC LIMIT $1`, n)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list results")
	}
	defer rows.Close()

	var results []model.IndexResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan result")
		}
		var r model.IndexResult
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "postgres: iterate results")
}

// History returns up to n index values, most recent first.
func (s *PostgresStore) History(ctx context.Context, n int) ([]model.HistoryPoint, error) {
	if n <= 0 {
		n = 2
	}
	rows, err := s.pool.Query(ctx,
		`SELECT timestamp, index_value FROM index_results ORDER BY timestamp DESC LIMIT $1`, n)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list history")
	}
	defer rows.Close()

	var points []model.HistoryPoint
	for rows.Next() {
		var p model.HistoryPoint
		if err := rows.Scan(&p.Timestamp, &p.IndexValue); err != nil {
			return nil, eris.Wrap(err, "postgres: scan history")
		}
		points = append(points, p)
	}
	return points, eris.Wrap(rows.Err(), "postgres: iterate history")
}
