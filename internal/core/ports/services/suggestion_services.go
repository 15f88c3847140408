package services

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
)

// SuggestionReaderSvc defines read operations for the merged suggestion list.
type SuggestionReaderSvc interface {
	// ListSuggestions returns one ranked page of persisted and ephemeral suggestions.
	// The first page refreshes a stale suggestion set before merging.
	ListSuggestions(ctx context.Context, tenantID string, params dto.ListSuggestionsParams) (*dto.ListSuggestionsResponse, error)

	// GetTransferCandidates scans the tenant's unreconciled transactions for transfer pairs.
	GetTransferCandidates(ctx context.Context, tenantID string, params dto.TransferCandidatesParams) ([]domain.TransferCandidate, error)
}

// SuggestionRefresherSvc defines the regeneration operations.
type SuggestionRefresherSvc interface {
	// Refresh regenerates the tenant's suggestions when fewer are pending than transactions
	// are unreconciled. It reports whether regeneration ran.
	Refresh(ctx context.Context, tenantID string) (bool, error)

	// RegenerateSuggestions creates missing suggestions for the tenant, or for one transaction
	// when transactionID is set, and supersedes pending ones whose entities were matched.
	RegenerateSuggestions(ctx context.Context, tenantID string, transactionID *string) (*domain.RegenerationResult, error)
}

// SuggestionSvcFacade combines all suggestion-related service interfaces.
type SuggestionSvcFacade interface {
	SuggestionReaderSvc
	SuggestionRefresherSvc
}
