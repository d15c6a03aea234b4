package dto

import (
	"aurum/internal/domain/reporting"
)

// ReportRequest is the query contract for GET /reports.
type ReportRequest struct {
	Type string `form:"type"`
	FilterRequest
	PaginationRequest
}

// ReportType returns the requested report type, defaulting to the sales
// invoice report when the request names none.
func (r ReportRequest) ReportType() string {
	if r.Type == "" {
		return string(reporting.TypeSalesInvoice)
	}
	return r.Type
}

// ScorecardResponse renders one report type's totals as strings, keeping
// decimal precision across the wire.
type ScorecardResponse struct {
	TotalWeight   string `json:"total_weight"`
	TotalQuantity string `json:"total_quantity"`
	TotalAmount   string `json:"total_amount"`
}

// FromScorecard converts engine totals to the response shape.
func FromScorecard(sc reporting.Scorecard) ScorecardResponse {
	return ScorecardResponse{
		TotalWeight:   sc.TotalWeight.String(),
		TotalQuantity: sc.TotalQuantity.String(),
		TotalAmount:   sc.TotalAmount.String(),
	}
}

// ReportResponse is the payload for GET /reports.
type ReportResponse struct {
	Scorecard  map[string]ScorecardResponse `json:"scorecard"`
	Data       []reporting.Row              `json:"data"`
	Pagination *reporting.Pagination        `json:"pagination,omitempty"`
}

// FromReport converts an assembled report to the response shape.
func FromReport(r *reporting.Report) ReportResponse {
	cards := make(map[string]ScorecardResponse, len(r.Scorecards))
	for t, sc := range r.Scorecards {
		cards[string(t)] = FromScorecard(sc)
	}
	return ReportResponse{
		Scorecard:  cards,
		Data:       r.Rows,
		Pagination: r.Pagination,
	}
}
