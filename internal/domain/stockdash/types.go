// Package stockdash implements the stock dashboard: three summary views
// over the product catalog (in-hand, low-stock, out-of-stock) plus the
// fast-moving listing, sharing the reporting engine's predicate builder.
package stockdash

import (
	"github.com/shopspring/decimal"

	"aurum/internal/domain/reporting"
)

// ViewType selects which dashboard view is rendered as the detailed list.
type ViewType string

const (
	ViewStockInHand ViewType = "stock_in_hand"
	ViewLowStock    ViewType = "low_stock"
	ViewOutOfStock  ViewType = "out_of_stock"
	ViewFastMoving  ViewType = "fast_moving"
)

// Valid reports whether the view is one of the known discriminators.
func (v ViewType) Valid() bool {
	switch v {
	case ViewStockInHand, ViewLowStock, ViewOutOfStock, ViewFastMoving:
		return true
	}
	return false
}

// InHandTotals summarizes on-hand stock: quantity and weight across active,
// non-deleted products with quantity > 0.
type InHandTotals struct {
	TotalQuantity decimal.Decimal `db:"total_quantity" json:"total_quantity"`
	TotalWeight   decimal.Decimal `db:"total_weight" json:"total_weight"`
}

// LowStockTotals counts subcategories whose aggregated on-hand quantity is
// below their reorder level, and sums their weight.
type LowStockTotals struct {
	SubcategoryCount int64           `db:"subcategory_count" json:"subcategory_count"`
	TotalWeight      decimal.Decimal `db:"total_weight" json:"total_weight"`
}

// OutOfStockTotals counts subcategories with no catalog presence at all.
type OutOfStockTotals struct {
	SubcategoryCount int64 `db:"subcategory_count" json:"subcategory_count"`
}

// ScoreCards bundles the three summaries returned with every dashboard
// response regardless of the selected view.
type ScoreCards struct {
	StockInHand InHandTotals     `json:"stock_in_hand"`
	LowStock    LowStockTotals   `json:"low_stock"`
	OutOfStock  OutOfStockTotals `json:"out_of_stock"`
}

// Dashboard is the assembled stock dashboard response.
type Dashboard struct {
	ScoreCards ScoreCards            `json:"score_cards"`
	Rows       []reporting.Row       `json:"data"`
	Pagination *reporting.Pagination `json:"pagination"`
}
