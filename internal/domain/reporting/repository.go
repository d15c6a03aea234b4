package reporting

import (
	"context"
	"errors"
)

// ErrNoRow is returned by Executor.Get when the query produced no row.
// Scorecard aggregates treat it as zero totals, not a failure.
var ErrNoRow = errors.New("no row")

// Executor runs compiled queries against the relational engine. The engine
// never opens connections or manages transactions itself; this is its only
// view of the database.
type Executor interface {
	// Select runs a listing query and returns its rows.
	Select(ctx context.Context, q Query) ([]Row, error)

	// Get runs a single-row query and scans it into dest.
	// Returns ErrNoRow when the query matched nothing.
	Get(ctx context.Context, q Query, dest any) error
}
