package services

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
)

// SuggestionLifecycleSvc owns the PENDING -> ACCEPTED/REJECTED transitions.
type SuggestionLifecycleSvc interface {
	// AcceptSuggestion materializes a persisted or ephemeral suggestion into a match.
	AcceptSuggestion(ctx context.Context, tenantID string, suggestionID string, req dto.AcceptSuggestionRequest, actor string) (*domain.MatchResult, error)

	// RejectSuggestion marks a suggestion REJECTED without cascading effects.
	RejectSuggestion(ctx context.Context, tenantID string, suggestionID string, req dto.RejectSuggestionRequest, actor string) (*domain.Suggestion, error)
}

// ManualMatchSvc links documents to transactions without a suggestion.
type ManualMatchSvc interface {
	CreateManualMatch(ctx context.Context, tenantID string, req dto.ManualMatchRequest, actor string) (*domain.MatchResult, error)
	CreateBulkMatches(ctx context.Context, tenantID string, req dto.BulkMatchRequest, actor string) (*domain.BulkMatchResult, error)
}

// UnreconcileSvc reverses matches.
type UnreconcileSvc interface {
	// Unreconcile restores a matched transaction or document and everything linked to it.
	Unreconcile(ctx context.Context, tenantID string, req dto.UnreconcileRequest, actor string) (*dto.UnreconcileResponse, error)
}

// ReconciliationStatsSvc reports reconciliation progress.
type ReconciliationStatsSvc interface {
	GetStats(ctx context.Context, tenantID string) (*domain.ReconciliationStats, error)
}

// ReconciliationSvcFacade combines all reconciliation service interfaces.
type ReconciliationSvcFacade interface {
	SuggestionLifecycleSvc
	ManualMatchSvc
	UnreconcileSvc
	ReconciliationStatsSvc
}
