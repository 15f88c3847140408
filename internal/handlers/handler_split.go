package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/SscSPs/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type splitHandler struct {
	splitService portssvc.SplitSvcFacade
}

// RegisterSplitRoutes registers the per-transaction split routes.
func RegisterSplitRoutes(rg *gin.RouterGroup, splitService portssvc.SplitSvcFacade) {
	h := &splitHandler{splitService: splitService}

	splits := rg.Group("/transactions/:id/splits")
	{
		splits.GET("", h.getSplits)
		splits.PUT("", h.setSplits)
		splits.GET("/suggestions", h.suggestSplits)
	}
}

// getSplits godoc
// @Summary List a transaction's splits
// @Tags splits
// @Produce json
// @Param id path string true "Bank transaction ID"
// @Success 200 {array} domain.BankTransactionSplit
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Transaction belongs to another tenant"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to load splits"
// @Security BearerAuth
// @Router /transactions/{id}/splits [get]
func (h *splitHandler) getSplits(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	splits, err := h.splitService.GetSplits(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "load splits")
		return
	}
	c.JSON(http.StatusOK, splits)
}

// setSplits godoc
// @Summary Replace a transaction's splits
// @Description Allocates the transaction across ledger accounts. Line amounts must sum to the transaction amount.
// @Tags splits
// @Accept json
// @Produce json
// @Param id path string true "Bank transaction ID"
// @Param request body dto.SetSplitsRequest true "Allocation lines"
// @Success 200 {array} domain.BankTransactionSplit
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Transaction belongs to another tenant"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to save splits"
// @Security BearerAuth
// @Router /transactions/{id}/splits [put]
func (h *splitHandler) setSplits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.SetSplitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetSplits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	splits, err := h.splitService.SetSplits(c.Request.Context(), tenantID, c.Param("id"), req, actor)
	if err != nil {
		handleServiceError(c, err, "save splits")
		return
	}
	c.JSON(http.StatusOK, splits)
}

// suggestSplits godoc
// @Summary Propose splits
// @Description Scales the allocation of the latest similar transaction to this one.
// @Tags splits
// @Produce json
// @Param id path string true "Bank transaction ID"
// @Success 200 {array} domain.SplitInput
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Transaction belongs to another tenant"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to suggest splits"
// @Security BearerAuth
// @Router /transactions/{id}/splits/suggestions [get]
func (h *splitHandler) suggestSplits(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	lines, err := h.splitService.SuggestSplits(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "suggest splits")
		return
	}
	c.JSON(http.StatusOK, lines)
}
