package handlers

import (
	"github.com/gin-gonic/gin"

	"aurum/internal/domain/stockdash"
	"aurum/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock dashboard.
type StockHandler struct {
	*BaseHandler
	service *stockdash.Service
}

// NewStockHandler creates a new stock dashboard handler.
func NewStockHandler(base *BaseHandler, service *stockdash.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Dashboard handles GET /stock/dashboard
func (h *StockHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.StockDashboardRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilterSpec("")
	if err != nil {
		h.Error(c, err)
		return
	}

	dashboard, err := h.service.Dashboard(ctx, filter, req.ViewType(), req.ToPageRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDashboard(dashboard))
}

// RegisterRoutes registers stock dashboard routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
}
