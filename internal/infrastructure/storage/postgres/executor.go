package postgres

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"aurum/internal/core/apperror"
	"aurum/internal/domain/reporting"
	"aurum/pkg/logger"
)

var tracer = otel.Tracer("aurum/reporting")

// Compile-time check that Executor implements the engine's executor port.
var _ reporting.Executor = (*Executor)(nil)

// slowQueryThreshold triggers a warning log for long-running report queries.
const slowQueryThreshold = 2 * time.Second

// Executor runs compiled report queries against the connection pool and
// scans results with pgxscan. It is read-only: report queries never run
// inside transactions.
type Executor struct {
	pool *pgxpool.Pool
}

// NewExecutor creates an executor on top of the pool.
func NewExecutor(pool *Pool) *Executor {
	return &Executor{pool: pool.Pool}
}

// Select runs a listing query and returns its rows as generic maps, so one
// executor serves every report grid regardless of its column set.
func (e *Executor) Select(ctx context.Context, q reporting.Query) ([]reporting.Row, error) {
	ctx, span := tracer.Start(ctx, "executor.select",
		trace.WithAttributes(
			attribute.Int("db.args", len(q.Args)),
		))
	defer span.End()

	start := time.Now()
	var rows []map[string]any
	if err := pgxscan.Select(ctx, e.pool, &rows, q.SQL, q.Args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	e.observe(ctx, "select", start, len(rows))

	out := make([]reporting.Row, len(rows))
	for i, r := range rows {
		out[i] = reporting.Row(r)
	}
	return out, nil
}

// Get runs a single-row query and scans it into dest. A miss maps to the
// engine's sentinel so callers never see driver errors.
func (e *Executor) Get(ctx context.Context, q reporting.Query, dest any) error {
	ctx, span := tracer.Start(ctx, "executor.get",
		trace.WithAttributes(
			attribute.Int("db.args", len(q.Args)),
		))
	defer span.End()

	start := time.Now()
	if err := pgxscan.Get(ctx, e.pool, dest, q.SQL, q.Args...); err != nil {
		if pgxscan.NotFound(err) {
			return reporting.ErrNoRow
		}
		return apperror.NewDatabase(err)
	}
	e.observe(ctx, "get", start, 1)
	return nil
}

func (e *Executor) observe(ctx context.Context, op string, start time.Time, rows int) {
	elapsed := time.Since(start)
	if elapsed > slowQueryThreshold {
		logger.Warn(ctx, "slow report query",
			"op", op,
			"rows", rows,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}
