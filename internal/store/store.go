package store

import (
	"context"

	"github.com/sells-group/h200-index/internal/model"
)

// Store defines the persistence interface for index results. A result
// is written in a single transaction: either the full record with its
// contribution rows lands, or nothing does. Failed cycles are never
// written.
type Store interface {
	// InsertResult persists a Published or Flagged cycle result.
	InsertResult(ctx context.Context, result *model.IndexResult) error

	// LatestResults returns up to n full results, most recent first.
	LatestResults(ctx context.Context, n int) ([]model.IndexResult, error)

	// History returns up to n index values, most recent first. It
	// serves the validator's deviation check and the HTTP API.
	History(ctx context.Context, n int) ([]model.HistoryPoint, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
