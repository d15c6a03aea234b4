package stockdash

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurum/internal/domain/reporting"
)

func int64Ptr(v int64) *int64 { return &v }

func emptyPred(t *testing.T, c Compiler) reporting.Predicate {
	t.Helper()
	pred, err := c.BuildPredicate(reporting.FilterSpec{}, nil)
	require.NoError(t, err)
	return pred
}

func TestInHandSummary(t *testing.T) {
	c := Compiler{}

	q, err := c.InHandSummary(emptyPred(t, c))
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "COALESCE(SUM(p.quantity), 0) AS total_quantity")
	assert.Contains(t, q.SQL, "COALESCE(SUM(p.net_weight), 0) AS total_weight")
	assert.Contains(t, q.SQL, "FROM products p")
	assert.Contains(t, q.SQL, "p.deleted_at IS NULL")
	assert.Contains(t, q.SQL, "p.status = $1")
	assert.Contains(t, q.SQL, "p.quantity > $2")
	assert.Equal(t, []any{"active", 0}, q.Args)
}

func TestInHandList_Pagination(t *testing.T) {
	c := Compiler{}

	grid, err := c.InHandList(emptyPred(t, c), &reporting.PageRequest{Page: 2, PageSize: 15})
	require.NoError(t, err)

	assert.Contains(t, grid.List.SQL, "ORDER BY p.id DESC")
	assert.Contains(t, grid.List.SQL, "LIMIT 15 OFFSET 15")
	assert.Contains(t, grid.Count.SQL, "SELECT COUNT(*) FROM (")
	assert.NotContains(t, grid.Count.SQL, "LIMIT")
}

func TestLowStock_ReorderLevelComparison(t *testing.T) {
	c := Compiler{}

	q, err := c.LowStockSummary(emptyPred(t, c))
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "GROUP BY s.id, s.subcategory_name, s.reorder_level")
	assert.Contains(t, q.SQL, "HAVING COALESCE(SUM(p.quantity), 0) < s.reorder_level")
	assert.Contains(t, q.SQL, "COUNT(*) AS subcategory_count")
}

func TestLowStockList_OrderedByShortfall(t *testing.T) {
	c := Compiler{}

	grid, err := c.LowStockList(emptyPred(t, c), nil)
	require.NoError(t, err)

	assert.Contains(t, grid.List.SQL, "ORDER BY on_hand_quantity ASC, subcategory_id ASC")
	assert.NotContains(t, grid.List.SQL, "LIMIT")
}

func TestOutOfStock_EmptySubcategoriesSurvive(t *testing.T) {
	c := Compiler{}

	q, err := c.OutOfStockSummary(reporting.FilterSpec{}, nil)
	require.NoError(t, err)

	// Product conditions live in the join, not the WHERE, so subcategories
	// with zero products stay in the left side of the join.
	assert.Contains(t, q.SQL, "LEFT JOIN products p ON p.subcategory_id = s.id AND p.deleted_at IS NULL AND p.status = 'active'")
	assert.Contains(t, q.SQL, "HAVING COUNT(p.id) = 0")
	assert.NotContains(t, q.SQL, "WHERE p.")
}

func TestOutOfStock_ProductFiltersRideTheJoin(t *testing.T) {
	c := Compiler{}
	window := &reporting.DateRange{
		From: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	}

	q, err := c.OutOfStockSummary(reporting.FilterSpec{GRNID: int64Ptr(12)}, window)
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "AND p.grn_id = $1")
	assert.Contains(t, q.SQL, "AND p.created_at::date BETWEEN $2 AND $3")
	assert.NotContains(t, q.SQL, "WHERE p.")
	assert.Equal(t, []any{int64(12), window.From, window.To}, q.Args)
}

func TestOutOfStock_DefaultBranchPinning(t *testing.T) {
	c := Compiler{DefaultBranchID: 81}

	q, err := c.OutOfStockSummary(reporting.FilterSpec{}, nil)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "p.branch_id = $1")
	assert.Equal(t, []any{int64(81)}, q.Args)
}

func TestOutOfStock_ExplicitBranchOverridesDefault(t *testing.T) {
	c := Compiler{DefaultBranchID: 81}

	q, err := c.OutOfStockSummary(reporting.FilterSpec{BranchID: int64Ptr(3)}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3)}, q.Args)
}

func TestOutOfStock_CatalogFilters(t *testing.T) {
	c := Compiler{}

	q, err := c.OutOfStockSummary(reporting.FilterSpec{
		CategoryID: int64Ptr(4),
		Search:     "ring",
	}, nil)
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "s.category_id = $1")
	assert.Contains(t, q.SQL, "s.subcategory_name ILIKE $2")
	assert.Equal(t, []any{int64(4), "%ring%"}, q.Args)
}

func TestFastMovingList_SoldQuantityOrdering(t *testing.T) {
	c := Compiler{}
	pred, err := c.BuildPredicate(reporting.FilterSpec{
		BranchID:      int64Ptr(2),
		SubcategoryID: int64Ptr(9),
	}, nil)
	require.NoError(t, err)

	grid, err := c.FastMovingList(pred, nil)
	require.NoError(t, err)

	assert.Contains(t, grid.List.SQL, "LEFT JOIN sales_invoice_items si ON si.product_id = p.id AND si.deleted_at IS NULL")
	assert.Contains(t, grid.List.SQL, "COALESCE(SUM(si.quantity), 0) AS sold_quantity")
	assert.Contains(t, grid.List.SQL, "ORDER BY sold_quantity DESC, p.id DESC")
	assert.Contains(t, grid.List.SQL, "p.branch_id = $1")
	assert.Contains(t, grid.List.SQL, "p.subcategory_id = $2")
}
