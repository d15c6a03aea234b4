package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"aurum/internal/domain/export"
	"aurum/internal/domain/reporting"
	"aurum/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reporting.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reporting.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Get handles GET /reports
func (h *ReportsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilterSpec(req.ReportType())
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.Generate(ctx, filter, req.ToPageRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReport(report))
}

// Export handles GET /reports/export
func (h *ReportsHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilterSpec(req.ReportType())
	if err != nil {
		h.Error(c, err)
		return
	}

	rows, desc, err := h.service.Rows(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", "attachment; filename="+export.Filename(desc.Type, time.Now()))
	if err := export.WriteExcel(c.Writer, export.Columns(desc), rows); err != nil {
		h.Error(c, err)
		return
	}
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.GET("/export", h.Export)
}
