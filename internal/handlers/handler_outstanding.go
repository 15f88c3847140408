package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/SscSPs/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type outstandingHandler struct {
	outstandingService portssvc.OutstandingItemSvcFacade
}

// RegisterOutstandingRoutes registers routes for outstanding checks, deposits and transfers.
func RegisterOutstandingRoutes(rg *gin.RouterGroup, outstandingService portssvc.OutstandingItemSvcFacade) {
	h := &outstandingHandler{outstandingService: outstandingService}

	items := rg.Group("/outstanding-items")
	{
		items.POST("", h.createItem)
		items.GET("", h.listItems)
		items.GET("/aging", h.agingReport)
		items.POST("/:id/clear", h.markCleared)
		items.POST("/:id/stale", h.markStale)
		items.POST("/:id/void", h.void)
	}
}

// createItem godoc
// @Summary Register an outstanding item
// @Tags outstanding-items
// @Accept json
// @Produce json
// @Param request body dto.CreateOutstandingItemRequest true "Item details"
// @Success 201 {object} domain.OutstandingItem
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Bank account belongs to another tenant"
// @Failure 500 {object} map[string]string "Failed to create outstanding item"
// @Security BearerAuth
// @Router /outstanding-items [post]
func (h *outstandingHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateOutstandingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOutstandingItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	item, err := h.outstandingService.CreateItem(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		handleServiceError(c, err, "create outstanding item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// listItems godoc
// @Summary List outstanding items
// @Tags outstanding-items
// @Produce json
// @Param type query string false "OUTSTANDING_CHECK, DEPOSIT_IN_TRANSIT or PENDING_TRANSFER"
// @Param status query string false "OUTSTANDING, CLEARED, STALE or VOIDED"
// @Success 200 {array} domain.OutstandingItem
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list outstanding items"
// @Security BearerAuth
// @Router /outstanding-items [get]
func (h *outstandingHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.ListOutstandingItemsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListOutstandingItems", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	items, err := h.outstandingService.ListItems(c.Request.Context(), tenantID, params)
	if err != nil {
		handleServiceError(c, err, "list outstanding items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// agingReport godoc
// @Summary Aging of open outstanding items
// @Tags outstanding-items
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.AgingReport
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build aging report"
// @Security BearerAuth
// @Router /outstanding-items/aging [get]
func (h *outstandingHandler) agingReport(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	report, err := h.outstandingService.GetAgingReport(c.Request.Context(), tenantID, asOf)
	if err != nil {
		handleServiceError(c, err, "build aging report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// markCleared godoc
// @Summary Clear an outstanding item
// @Tags outstanding-items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.ClearOutstandingItemRequest false "Clearing date or transaction"
// @Success 200 {object} domain.OutstandingItem
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Item belongs to another tenant"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 409 {object} map[string]string "Item is already closed"
// @Failure 500 {object} map[string]string "Failed to clear outstanding item"
// @Security BearerAuth
// @Router /outstanding-items/{id}/clear [post]
func (h *outstandingHandler) markCleared(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.ClearOutstandingItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.outstandingService.MarkCleared(c.Request.Context(), tenantID, c.Param("id"), req, actor)
	if err != nil {
		handleServiceError(c, err, "clear outstanding item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// markStale godoc
// @Summary Mark an outstanding item stale
// @Tags outstanding-items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.OutstandingItemNotesRequest false "Notes"
// @Success 200 {object} domain.OutstandingItem
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 409 {object} map[string]string "Item is not outstanding"
// @Security BearerAuth
// @Router /outstanding-items/{id}/stale [post]
func (h *outstandingHandler) markStale(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.OutstandingItemNotesRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.outstandingService.MarkStale(c.Request.Context(), tenantID, c.Param("id"), req, actor)
	if err != nil {
		handleServiceError(c, err, "mark outstanding item stale")
		return
	}
	c.JSON(http.StatusOK, item)
}

// void godoc
// @Summary Void an outstanding item
// @Tags outstanding-items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.OutstandingItemNotesRequest false "Notes"
// @Success 200 {object} domain.OutstandingItem
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 409 {object} map[string]string "Item is already closed"
// @Security BearerAuth
// @Router /outstanding-items/{id}/void [post]
func (h *outstandingHandler) void(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.OutstandingItemNotesRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.outstandingService.Void(c.Request.Context(), tenantID, c.Param("id"), req, actor)
	if err != nil {
		handleServiceError(c, err, "void outstanding item")
		return
	}
	c.JSON(http.StatusOK, item)
}
