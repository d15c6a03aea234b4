// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"aurum/internal/core/apperror"
	"aurum/internal/domain/reporting"
)

const dateLayout = "2006-01-02"

// PaginationRequest contains pagination parameters. Limit is accepted as an
// alias for pageSize; pageSize wins when both are present.
type PaginationRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
	Limit    int `form:"limit"`
}

// ToPageRequest converts to the engine's page window. Nil unless the caller
// supplied both a page and a size; a lone parameter means an unpaged listing.
func (p PaginationRequest) ToPageRequest() *reporting.PageRequest {
	size := p.PageSize
	if size == 0 {
		size = p.Limit
	}
	if p.Page == 0 || size == 0 {
		return nil
	}
	return &reporting.PageRequest{Page: p.Page, PageSize: size}
}

// DateRangeRequest carries the optional explicit bounds and preset.
type DateRangeRequest struct {
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	DateFilter string `form:"date_filter"`
}

// ToDateSpec parses the explicit bounds into the engine's date spec.
func (r DateRangeRequest) ToDateSpec() (reporting.DateSpec, error) {
	spec := reporting.DateSpec{Preset: r.DateFilter}
	if r.FromDate != "" {
		t, err := time.Parse(dateLayout, r.FromDate)
		if err != nil {
			return spec, apperror.NewValidation("invalid from_date, expected YYYY-MM-DD").WithDetail("from_date", r.FromDate)
		}
		spec.FromDate = &t
	}
	if r.ToDate != "" {
		t, err := time.Parse(dateLayout, r.ToDate)
		if err != nil {
			return spec, apperror.NewValidation("invalid to_date, expected YYYY-MM-DD").WithDetail("to_date", r.ToDate)
		}
		spec.ToDate = &t
	}
	return spec, nil
}

// FilterRequest contains the filters shared by reports and the dashboard.
type FilterRequest struct {
	BranchID       *int64 `form:"branch_id"`
	Status         string `form:"status"`
	MaterialTypeID *int64 `form:"material_type_id"`
	CategoryID     *int64 `form:"category_id"`
	SubcategoryID  *int64 `form:"subcategory_id"`
	GRNID          *int64 `form:"grn_id"`
	Search         string `form:"search"`
	Ageing         string `form:"ageing"`
	DateRangeRequest
}

// ToFilterSpec converts the request filters into the engine's filter spec.
func (r FilterRequest) ToFilterSpec(reportType string) (reporting.FilterSpec, error) {
	date, err := r.ToDateSpec()
	if err != nil {
		return reporting.FilterSpec{}, err
	}
	return reporting.FilterSpec{
		Type:           reporting.ReportType(reportType),
		BranchID:       r.BranchID,
		Status:         r.Status,
		MaterialTypeID: r.MaterialTypeID,
		CategoryID:     r.CategoryID,
		SubcategoryID:  r.SubcategoryID,
		GRNID:          r.GRNID,
		Search:         r.Search,
		Ageing:         reporting.AgeBucket(r.Ageing),
		Date:           date,
	}, nil
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
