package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/SscSPs/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

// RegisterTransferRoutes registers routes for confirmed transfers between own accounts.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := &transferHandler{transferService: transferService}

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("", h.listTransfers)
		transfers.DELETE("/:id", h.deleteTransfer)
	}
}

// createTransfer godoc
// @Summary Confirm a transfer
// @Description Reconciles a debit and a credit on two of the tenant's accounts as one transfer. An existing pair is returned unchanged with 200.
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body dto.CreateTransferRequest true "Transfer sides"
// @Success 201 {object} dto.TransferResponse
// @Success 200 {object} dto.TransferResponse "Transfer already recorded"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Transaction belongs to another tenant"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already reconciled"
// @Failure 500 {object} map[string]string "Failed to create transfer"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.transferService.CreateTransferReconciliation(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		handleServiceError(c, err, "create transfer")
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// listTransfers godoc
// @Summary List transfers
// @Tags transfers
// @Produce json
// @Param pendingOnly query bool false "Only transfers without an FX rate"
// @Success 200 {array} domain.TransferReconciliation
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transfers"
// @Security BearerAuth
// @Router /transfers [get]
func (h *transferHandler) listTransfers(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	pendingOnly := false
	if raw := c.Query("pendingOnly"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pendingOnly value"})
			return
		}
		pendingOnly = parsed
	}

	transfers, err := h.transferService.ListTransfers(c.Request.Context(), tenantID, pendingOnly)
	if err != nil {
		handleServiceError(c, err, "list transfers")
		return
	}
	c.JSON(http.StatusOK, transfers)
}

// deleteTransfer godoc
// @Summary Delete a transfer
// @Description Unreconciles both sides of the transfer and reverses its ledger entries.
// @Tags transfers
// @Param id path string true "Transfer ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Transfer belongs to another tenant"
// @Failure 404 {object} map[string]string "Transfer not found"
// @Failure 500 {object} map[string]string "Failed to delete transfer"
// @Security BearerAuth
// @Router /transfers/{id} [delete]
func (h *transferHandler) deleteTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	transferID := c.Param("id")

	if err := h.transferService.DeleteTransfer(c.Request.Context(), tenantID, transferID, actor); err != nil {
		handleServiceError(c, err, "delete transfer")
		return
	}
	logger.Info("Transfer deleted", slog.String("transfer_id", transferID))
	c.Status(http.StatusNoContent)
}
