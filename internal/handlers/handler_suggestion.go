package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/SscSPs/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// suggestionHandler handles HTTP requests for match suggestions.
type suggestionHandler struct {
	suggestionService     portssvc.SuggestionSvcFacade
	reconciliationService portssvc.ReconciliationSvcFacade
}

// RegisterSuggestionRoutes registers the suggestion list, regeneration and lifecycle routes.
func RegisterSuggestionRoutes(rg *gin.RouterGroup, suggestionService portssvc.SuggestionSvcFacade, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := &suggestionHandler{suggestionService: suggestionService, reconciliationService: reconciliationService}

	suggestions := rg.Group("/suggestions")
	{
		suggestions.GET("", h.listSuggestions)
		suggestions.POST("/refresh", h.refreshSuggestions)
		suggestions.POST("/regenerate", h.regenerateSuggestions)
		suggestions.GET("/transfer-candidates", h.listTransferCandidates)
		suggestions.POST("/:id/accept", h.acceptSuggestion)
		suggestions.POST("/:id/reject", h.rejectSuggestion)
	}
}

// listSuggestions godoc
// @Summary List match suggestions
// @Description Returns one ranked page of pending suggestions, persisted and computed transfer pairs merged. The first page regenerates a stale suggestion set.
// @Tags suggestions
// @Produce json
// @Param page query int false "Page number, starting at 1; page 1 refreshes stale suggestions first"
// @Param size query int false "Page size (max 100)"
// @Success 200 {object} dto.ListSuggestionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list suggestions"
// @Security BearerAuth
// @Router /suggestions [get]
func (h *suggestionHandler) listSuggestions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.ListSuggestionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListSuggestions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.suggestionService.ListSuggestions(c.Request.Context(), tenantID, params)
	if err != nil {
		handleServiceError(c, err, "list suggestions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// refreshSuggestions godoc
// @Summary Refresh suggestions when stale
// @Description Regenerates the tenant's suggestions when fewer are pending than transactions are unreconciled.
// @Tags suggestions
// @Produce json
// @Success 200 {object} map[string]bool "refreshed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to refresh suggestions"
// @Security BearerAuth
// @Router /suggestions/refresh [post]
func (h *suggestionHandler) refreshSuggestions(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	refreshed, err := h.suggestionService.Refresh(c.Request.Context(), tenantID)
	if err != nil {
		handleServiceError(c, err, "refresh suggestions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": refreshed})
}

// regenerateSuggestions godoc
// @Summary Regenerate suggestions
// @Description Creates missing suggestions for the tenant, or for a single transaction, and supersedes pending ones whose entities are already matched.
// @Tags suggestions
// @Accept json
// @Produce json
// @Param request body dto.RegenerateSuggestionsRequest false "Optional transaction scope"
// @Success 200 {object} domain.RegenerationResult
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to regenerate suggestions"
// @Security BearerAuth
// @Router /suggestions/regenerate [post]
func (h *suggestionHandler) regenerateSuggestions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.RegenerateSuggestionsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.suggestionService.RegenerateSuggestions(c.Request.Context(), tenantID, req.TransactionID)
	if err != nil {
		handleServiceError(c, err, "regenerate suggestions")
		return
	}
	logger.Info("Suggestions regenerated", slog.Int("total", result.Total()))
	c.JSON(http.StatusOK, result)
}

// listTransferCandidates godoc
// @Summary Find transfer candidates
// @Description Pairs unreconciled debits and credits between the tenant's own accounts.
// @Tags suggestions
// @Produce json
// @Param daysWindow query int false "Maximum days between the two sides"
// @Param maxResults query int false "Maximum number of candidates"
// @Param crossCurrency query bool false "Include cross-currency pairs"
// @Param fxTolerancePct query number false "Widening of the FX band, in percent"
// @Success 200 {array} domain.TransferCandidate
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to find transfer candidates"
// @Security BearerAuth
// @Router /suggestions/transfer-candidates [get]
func (h *suggestionHandler) listTransferCandidates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.TransferCandidatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for TransferCandidates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	candidates, err := h.suggestionService.GetTransferCandidates(c.Request.Context(), tenantID, params)
	if err != nil {
		handleServiceError(c, err, "find transfer candidates")
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// acceptSuggestion godoc
// @Summary Accept a suggestion
// @Description Materializes a pending suggestion into a match. Computed transfer suggestions are accepted by their pair ID.
// @Tags suggestions
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Param request body dto.AcceptSuggestionRequest false "Optional notes"
// @Success 200 {object} domain.MatchResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Suggestion belongs to another tenant"
// @Failure 404 {object} map[string]string "Suggestion not found"
// @Failure 409 {object} map[string]string "Suggestion is no longer pending or already matched"
// @Failure 502 {object} map[string]string "Ledger posting failed"
// @Failure 500 {object} map[string]string "Failed to accept suggestion"
// @Security BearerAuth
// @Router /suggestions/{id}/accept [post]
func (h *suggestionHandler) acceptSuggestion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	suggestionID := c.Param("id")

	var req dto.AcceptSuggestionRequest
	if !bindJSON(c, &req) {
		return
	}

	logger = logger.With(slog.String("suggestion_id", suggestionID))
	result, err := h.reconciliationService.AcceptSuggestion(c.Request.Context(), tenantID, suggestionID, req, actor)
	if err != nil {
		handleServiceError(c, err, "accept suggestion")
		return
	}
	logger.Info("Suggestion accepted")
	c.JSON(http.StatusOK, result)
}

// rejectSuggestion godoc
// @Summary Reject a suggestion
// @Tags suggestions
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Param request body dto.RejectSuggestionRequest false "Optional reason"
// @Success 200 {object} domain.Suggestion
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Suggestion belongs to another tenant"
// @Failure 404 {object} map[string]string "Suggestion not found"
// @Failure 409 {object} map[string]string "Suggestion is no longer pending"
// @Failure 500 {object} map[string]string "Failed to reject suggestion"
// @Security BearerAuth
// @Router /suggestions/{id}/reject [post]
func (h *suggestionHandler) rejectSuggestion(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.RejectSuggestionRequest
	if !bindJSON(c, &req) {
		return
	}

	suggestion, err := h.reconciliationService.RejectSuggestion(c.Request.Context(), tenantID, c.Param("id"), req, actor)
	if err != nil {
		handleServiceError(c, err, "reject suggestion")
		return
	}
	c.JSON(http.StatusOK, suggestion)
}
