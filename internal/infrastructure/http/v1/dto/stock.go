package dto

import (
	"aurum/internal/domain/reporting"
	"aurum/internal/domain/stockdash"
)

// StockDashboardRequest is the query contract for GET /stock/dashboard.
// Type discriminates the detailed listing; the three summaries are always
// computed.
type StockDashboardRequest struct {
	Type string `form:"type"`
	FilterRequest
	PaginationRequest
}

// ViewType resolves the requested view, defaulting to stock-in-hand.
func (r StockDashboardRequest) ViewType() stockdash.ViewType {
	if r.Type == "" {
		return stockdash.ViewStockInHand
	}
	return stockdash.ViewType(r.Type)
}

// InHandTotalsResponse renders the in-hand summary.
type InHandTotalsResponse struct {
	TotalQuantity string `json:"total_quantity"`
	TotalWeight   string `json:"total_weight"`
}

// LowStockTotalsResponse renders the low-stock summary.
type LowStockTotalsResponse struct {
	SubcategoryCount int64  `json:"subcategory_count"`
	TotalWeight      string `json:"total_weight"`
}

// OutOfStockTotalsResponse renders the out-of-stock summary.
type OutOfStockTotalsResponse struct {
	SubcategoryCount int64 `json:"subcategory_count"`
}

// ScoreCardsResponse bundles the three dashboard summaries.
type ScoreCardsResponse struct {
	StockInHand InHandTotalsResponse     `json:"stock_in_hand"`
	LowStock    LowStockTotalsResponse   `json:"low_stock"`
	OutOfStock  OutOfStockTotalsResponse `json:"out_of_stock"`
}

// StockDashboardResponse is the payload for GET /stock/dashboard.
type StockDashboardResponse struct {
	ScoreCards ScoreCardsResponse    `json:"score_cards"`
	Data       []reporting.Row       `json:"data"`
	Pagination *reporting.Pagination `json:"pagination,omitempty"`
}

// FromDashboard converts an assembled dashboard to the response shape.
func FromDashboard(d *stockdash.Dashboard) StockDashboardResponse {
	return StockDashboardResponse{
		ScoreCards: ScoreCardsResponse{
			StockInHand: InHandTotalsResponse{
				TotalQuantity: d.ScoreCards.StockInHand.TotalQuantity.String(),
				TotalWeight:   d.ScoreCards.StockInHand.TotalWeight.String(),
			},
			LowStock: LowStockTotalsResponse{
				SubcategoryCount: d.ScoreCards.LowStock.SubcategoryCount,
				TotalWeight:      d.ScoreCards.LowStock.TotalWeight.String(),
			},
			OutOfStock: OutOfStockTotalsResponse{
				SubcategoryCount: d.ScoreCards.OutOfStock.SubcategoryCount,
			},
		},
		Data:       d.Rows,
		Pagination: d.Pagination,
	}
}
