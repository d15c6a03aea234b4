package stockdash

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurum/internal/core/apperror"
	"aurum/internal/domain/reporting"
)

type mockExecutor struct {
	selectFn func(ctx context.Context, q reporting.Query) ([]reporting.Row, error)
	getFn    func(ctx context.Context, q reporting.Query, dest any) error
}

func (m *mockExecutor) Select(ctx context.Context, q reporting.Query) ([]reporting.Row, error) {
	if m.selectFn == nil {
		return nil, nil
	}
	return m.selectFn(ctx, q)
}

func (m *mockExecutor) Get(ctx context.Context, q reporting.Query, dest any) error {
	if m.getFn == nil {
		return reporting.ErrNoRow
	}
	return m.getFn(ctx, q, dest)
}

func newTestService(exec reporting.Executor) *Service {
	return NewService(Compiler{}, exec, reporting.DefaultServiceConfig())
}

func TestDashboard_AssemblesAllSummaries(t *testing.T) {
	exec := &mockExecutor{
		selectFn: func(ctx context.Context, q reporting.Query) ([]reporting.Row, error) {
			return []reporting.Row{{"product_code": "P-100"}}, nil
		},
		getFn: func(ctx context.Context, q reporting.Query, dest any) error {
			switch d := dest.(type) {
			case *InHandTotals:
				d.TotalQuantity = decimal.NewFromInt(120)
				d.TotalWeight = decimal.NewFromFloat(480.5)
			case *LowStockTotals:
				d.SubcategoryCount = 4
				d.TotalWeight = decimal.NewFromInt(22)
			case *OutOfStockTotals:
				d.SubcategoryCount = 2
			case *int64:
				*d = 1
			}
			return nil
		},
	}

	svc := newTestService(exec)
	dash, err := svc.Dashboard(context.Background(), reporting.FilterSpec{}, ViewStockInHand, &reporting.PageRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, "120", dash.ScoreCards.StockInHand.TotalQuantity.String())
	assert.Equal(t, int64(4), dash.ScoreCards.LowStock.SubcategoryCount)
	assert.Equal(t, int64(2), dash.ScoreCards.OutOfStock.SubcategoryCount)

	require.Len(t, dash.Rows, 1)
	require.NotNil(t, dash.Pagination)
	assert.Equal(t, int64(1), dash.Pagination.Total)
}

func TestDashboard_UnknownViewRejected(t *testing.T) {
	svc := newTestService(&mockExecutor{})

	_, err := svc.Dashboard(context.Background(), reporting.FilterSpec{}, "top_sellers", nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestDashboard_FastMovingRequiresBranchAndSubcategory(t *testing.T) {
	svc := newTestService(&mockExecutor{})

	_, err := svc.Dashboard(context.Background(), reporting.FilterSpec{}, ViewFastMoving, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Dashboard(context.Background(), reporting.FilterSpec{BranchID: int64Ptr(2)}, ViewFastMoving, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Dashboard(context.Background(), reporting.FilterSpec{
		BranchID:      int64Ptr(2),
		SubcategoryID: int64Ptr(9),
	}, ViewFastMoving, nil)
	assert.NoError(t, err)
}

func TestDashboard_SummaryFailureDegradesToZero(t *testing.T) {
	exec := &mockExecutor{
		getFn: func(ctx context.Context, q reporting.Query, dest any) error {
			if _, ok := dest.(*LowStockTotals); ok {
				return errors.New("statement timeout")
			}
			if d, ok := dest.(*OutOfStockTotals); ok {
				d.SubcategoryCount = 7
			}
			return nil
		},
	}

	svc := newTestService(exec)
	dash, err := svc.Dashboard(context.Background(), reporting.FilterSpec{}, ViewStockInHand, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(0), dash.ScoreCards.LowStock.SubcategoryCount)
	assert.True(t, dash.ScoreCards.LowStock.TotalWeight.IsZero())
	assert.Equal(t, int64(7), dash.ScoreCards.OutOfStock.SubcategoryCount)
}

func TestDashboard_ListingFollowsView(t *testing.T) {
	var listSQL string
	exec := &mockExecutor{
		selectFn: func(ctx context.Context, q reporting.Query) ([]reporting.Row, error) {
			listSQL = q.SQL
			return nil, nil
		},
	}

	svc := newTestService(exec)
	_, err := svc.Dashboard(context.Background(), reporting.FilterSpec{}, ViewLowStock, nil)
	require.NoError(t, err)

	assert.Contains(t, listSQL, "HAVING COALESCE(SUM(p.quantity), 0) < s.reorder_level")
}

func TestDashboard_ListingFailureFailsRequest(t *testing.T) {
	exec := &mockExecutor{
		selectFn: func(ctx context.Context, q reporting.Query) ([]reporting.Row, error) {
			return nil, errors.New("connection reset")
		},
	}

	svc := newTestService(exec)
	_, err := svc.Dashboard(context.Background(), reporting.FilterSpec{}, ViewOutOfStock, nil)
	assert.Error(t, err)
}

func TestDashboard_UnpagedHasNoPagination(t *testing.T) {
	var sawWindow bool
	exec := &mockExecutor{
		selectFn: func(ctx context.Context, q reporting.Query) ([]reporting.Row, error) {
			sawWindow = strings.Contains(q.SQL, "LIMIT")
			return nil, nil
		},
	}

	svc := newTestService(exec)
	dash, err := svc.Dashboard(context.Background(), reporting.FilterSpec{}, ViewStockInHand, nil)
	require.NoError(t, err)

	assert.False(t, sawWindow)
	assert.Nil(t, dash.Pagination)
	assert.NotNil(t, dash.Rows)
}
