package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/SscSPs/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// RegisterReconciliationRoutes registers manual matching, unreconcile and stats routes.
func RegisterReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconciliationService: reconciliationService}

	recon := rg.Group("/reconciliation")
	{
		recon.POST("/matches", h.createManualMatch)
		recon.POST("/matches/bulk", h.createBulkMatches)
		recon.POST("/unreconcile", h.unreconcile)
		recon.GET("/stats", h.getStats)
	}
}

// createManualMatch godoc
// @Summary Match a document to a transaction
// @Description Links a document to a bank transaction without a suggestion and books the matching ledger entries.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body dto.ManualMatchRequest true "Document and transaction"
// @Success 201 {object} domain.MatchResult
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Entity belongs to another tenant"
// @Failure 404 {object} map[string]string "Document or transaction not found"
// @Failure 409 {object} map[string]string "Already matched"
// @Failure 502 {object} map[string]string "Ledger posting failed"
// @Failure 500 {object} map[string]string "Failed to create match"
// @Security BearerAuth
// @Router /reconciliation/matches [post]
func (h *reconciliationHandler) createManualMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateManualMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create manual match",
		slog.String("document_id", req.DocumentID), slog.String("bank_transaction_id", req.BankTransactionID))
	result, err := h.reconciliationService.CreateManualMatch(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		handleServiceError(c, err, "create match")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// createBulkMatches godoc
// @Summary Match several pairs
// @Description Runs each manual match independently. Failures are reported per pair.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body dto.BulkMatchRequest true "Pairs to match"
// @Success 200 {object} domain.BulkMatchResult
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create matches"
// @Security BearerAuth
// @Router /reconciliation/matches/bulk [post]
func (h *reconciliationHandler) createBulkMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.BulkMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBulkMatches", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.reconciliationService.CreateBulkMatches(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		handleServiceError(c, err, "create matches")
		return
	}
	c.JSON(http.StatusOK, result)
}

// unreconcile godoc
// @Summary Undo a match
// @Description Restores a matched transaction or document, removes its records and transfers, reverses ledger entries and reopens cleared outstanding items.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body dto.UnreconcileRequest true "Exactly one of transactionId or documentId"
// @Success 200 {object} dto.UnreconcileResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Entity belongs to another tenant"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 409 {object} map[string]string "Entity is not reconciled"
// @Failure 500 {object} map[string]string "Failed to unreconcile"
// @Security BearerAuth
// @Router /reconciliation/unreconcile [post]
func (h *reconciliationHandler) unreconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.UnreconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Unreconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.reconciliationService.Unreconcile(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		handleServiceError(c, err, "unreconcile")
		return
	}
	logger.Info("Unreconciled", slog.Int("records_removed", resp.RecordsRemoved), slog.Int("entries_reversed", resp.EntriesReversed))
	c.JSON(http.StatusOK, resp)
}

// getStats godoc
// @Summary Reconciliation progress
// @Tags reconciliation
// @Produce json
// @Success 200 {object} domain.ReconciliationStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to load stats"
// @Security BearerAuth
// @Router /reconciliation/stats [get]
func (h *reconciliationHandler) getStats(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	stats, err := h.reconciliationService.GetStats(c.Request.Context(), tenantID)
	if err != nil {
		handleServiceError(c, err, "load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
