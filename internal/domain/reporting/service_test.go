package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor routes compiled queries to canned responses.
type mockExecutor struct {
	selectFn func(ctx context.Context, q Query) ([]Row, error)
	getFn    func(ctx context.Context, q Query, dest any) error
}

func (m *mockExecutor) Select(ctx context.Context, q Query) ([]Row, error) {
	if m.selectFn == nil {
		return nil, nil
	}
	return m.selectFn(ctx, q)
}

func (m *mockExecutor) Get(ctx context.Context, q Query, dest any) error {
	if m.getFn == nil {
		return ErrNoRow
	}
	return m.getFn(ctx, q, dest)
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	}
}

func newTestService(t *testing.T, exec Executor) *Service {
	t.Helper()
	registry, err := DefaultRegistry()
	require.NoError(t, err)
	return NewService(registry, exec, DefaultServiceConfig()).WithClock(fixedClock())
}

func TestGenerate_AssemblesScorecardsAndGrid(t *testing.T) {
	exec := &mockExecutor{
		selectFn: func(ctx context.Context, q Query) ([]Row, error) {
			return []Row{{"id": int64(1), "invoice_code": "INV-001"}}, nil
		},
		getFn: func(ctx context.Context, q Query, dest any) error {
			switch d := dest.(type) {
			case *Scorecard:
				d.TotalWeight = decimal.NewFromInt(12)
				d.TotalQuantity = decimal.NewFromInt(3)
				d.TotalAmount = decimal.NewFromInt(4500)
			case *int64:
				*d = 41
			}
			return nil
		},
	}

	svc := newTestService(t, exec)
	report, err := svc.Generate(context.Background(), FilterSpec{Type: TypeSalesInvoice}, &PageRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)

	// One scorecard per registered type.
	assert.Len(t, report.Scorecards, 6)
	sc := report.Scorecards[TypeSalesInvoice]
	assert.Equal(t, "4500", sc.TotalAmount.String())

	require.Len(t, report.Rows, 1)
	assert.Equal(t, "INV-001", report.Rows[0]["invoice_code"])

	require.NotNil(t, report.Pagination)
	assert.Equal(t, int64(41), report.Pagination.Total)
	assert.Equal(t, 3, report.Pagination.TotalPages)
}

func TestGenerate_UnknownTypeRejected(t *testing.T) {
	svc := newTestService(t, &mockExecutor{})

	_, err := svc.Generate(context.Background(), FilterSpec{Type: "purchase_order"}, nil)
	assert.Error(t, err)
}

func TestGenerate_ScorecardFailureDegradesToZero(t *testing.T) {
	exec := &mockExecutor{
		selectFn: func(ctx context.Context, q Query) ([]Row, error) {
			return []Row{}, nil
		},
		getFn: func(ctx context.Context, q Query, dest any) error {
			if sc, ok := dest.(*Scorecard); ok {
				// One table is broken; the rest succeed.
				if strings.Contains(q.SQL, "old_jewel_items") {
					return errors.New("relation does not exist")
				}
				sc.TotalAmount = decimal.NewFromInt(100)
			}
			return nil
		},
	}

	svc := newTestService(t, exec)
	report, err := svc.Generate(context.Background(), FilterSpec{Type: TypeSalesInvoice}, nil)
	require.NoError(t, err)

	assert.True(t, report.Scorecards[TypeOldJewel].TotalAmount.IsZero())
	assert.Equal(t, "100", report.Scorecards[TypeSalesInvoice].TotalAmount.String())
}

func TestGenerate_EmptyAggregateIsZero(t *testing.T) {
	exec := &mockExecutor{
		getFn: func(ctx context.Context, q Query, dest any) error {
			return ErrNoRow
		},
	}

	svc := newTestService(t, exec)
	report, err := svc.Generate(context.Background(), FilterSpec{Type: TypeEstimate}, nil)
	require.NoError(t, err)

	for _, sc := range report.Scorecards {
		assert.True(t, sc.TotalWeight.IsZero())
		assert.True(t, sc.TotalQuantity.IsZero())
		assert.True(t, sc.TotalAmount.IsZero())
	}
	assert.NotNil(t, report.Rows)
	assert.Nil(t, report.Pagination)
}

func TestGenerate_GridFailureFailsRequest(t *testing.T) {
	exec := &mockExecutor{
		selectFn: func(ctx context.Context, q Query) ([]Row, error) {
			return nil, errors.New("connection reset")
		},
	}

	svc := newTestService(t, exec)
	_, err := svc.Generate(context.Background(), FilterSpec{Type: TypeSalesInvoice}, nil)
	assert.Error(t, err)
}

func TestGenerate_CancelledContextFailsRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &mockExecutor{
		getFn: func(ctx context.Context, q Query, dest any) error {
			return ctx.Err()
		},
		selectFn: func(ctx context.Context, q Query) ([]Row, error) {
			return nil, ctx.Err()
		},
	}

	svc := newTestService(t, exec)
	_, err := svc.Generate(ctx, FilterSpec{Type: TypeSalesInvoice}, nil)
	assert.Error(t, err)
}

func TestGenerate_PageNormalization(t *testing.T) {
	var limit, offset string
	exec := &mockExecutor{
		selectFn: func(ctx context.Context, q Query) ([]Row, error) {
			if strings.Contains(q.SQL, "LIMIT") {
				parts := strings.Split(q.SQL, "LIMIT ")
				fields := strings.Fields(parts[1])
				limit, offset = fields[0], fields[2]
			}
			return nil, nil
		},
	}

	svc := newTestService(t, exec)
	// Page size beyond the cap clamps to MaxPageSize; page 0 becomes 1.
	_, err := svc.Generate(context.Background(), FilterSpec{Type: TypeSalesInvoice}, &PageRequest{Page: 0, PageSize: 5000})
	require.NoError(t, err)

	assert.Equal(t, "200", limit)
	assert.Equal(t, "0", offset)
}

func TestRows_UnpagedExport(t *testing.T) {
	var sawWindow bool
	exec := &mockExecutor{
		selectFn: func(ctx context.Context, q Query) ([]Row, error) {
			sawWindow = strings.Contains(q.SQL, "LIMIT")
			return []Row{{"id": int64(1)}, {"id": int64(2)}}, nil
		},
	}

	svc := newTestService(t, exec)
	rows, desc, err := svc.Rows(context.Background(), FilterSpec{Type: TypeSalesReturn})
	require.NoError(t, err)

	assert.False(t, sawWindow)
	assert.Len(t, rows, 2)
	assert.Equal(t, TypeSalesReturn, desc.Type)
}

func TestGenerate_InvalidAgeingRejectedBeforeExecution(t *testing.T) {
	exec := &mockExecutor{
		getFn: func(ctx context.Context, q Query, dest any) error {
			t.Fatal("executor must not be reached")
			return nil
		},
	}

	svc := newTestService(t, exec)
	_, err := svc.Generate(context.Background(), FilterSpec{Type: TypeSalesInvoice, Ageing: "bogus"}, nil)
	assert.Error(t, err)
}
