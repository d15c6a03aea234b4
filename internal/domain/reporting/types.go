// Package reporting implements the report query engine: a registry of
// report descriptors plus generic compilers that turn a descriptor and a
// filter into parameterized SQL for scorecards and grid listings.
package reporting

import (
	"github.com/shopspring/decimal"
)

// ReportType discriminates the registered report kinds.
type ReportType string

const (
	TypeOldJewel     ReportType = "old_jewel"
	TypeJewelRepair  ReportType = "jewel_repair"
	TypeEstimate     ReportType = "estimate"
	TypeSalesInvoice ReportType = "sales_invoice"
	TypeSalesReturn  ReportType = "sales_return"
	TypeStockAgeing  ReportType = "stock_ageing"
)

// Query is a compiled SQL statement with its bound arguments.
// It is the only artifact the engine hands to the executor.
type Query struct {
	SQL  string
	Args []any
}

// Row is a single grid result row. Column sets differ per report type.
type Row map[string]any

// Scorecard holds aggregate totals for one report type under the active
// predicate.
type Scorecard struct {
	TotalWeight   decimal.Decimal `db:"total_weight" json:"total_weight"`
	TotalQuantity decimal.Decimal `db:"total_quantity" json:"total_quantity"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
}

// PageRequest is the caller-supplied page window. A nil *PageRequest means
// "return everything matching the predicate, unpaged".
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset calculates the SQL offset for the window.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Pagination is the response-side pagination metadata. Present iff the
// request supplied a page window.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination derives pagination metadata from a total row count. A
// non-positive page size yields zero total pages rather than dividing by it.
func NewPagination(page PageRequest, total int64) *Pagination {
	totalPages := 0
	if page.PageSize > 0 {
		totalPages = int(total) / page.PageSize
		if int(total)%page.PageSize > 0 {
			totalPages++
		}
	}
	return &Pagination{
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
	}
}

// Report is the assembled response for one report request: scorecards for
// every registered type plus the grid for the requested type.
type Report struct {
	Scorecards map[ReportType]Scorecard `json:"scorecard"`
	Rows       []Row                    `json:"data"`
	Pagination *Pagination              `json:"pagination"`
}
