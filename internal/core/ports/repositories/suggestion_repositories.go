package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

// RejectFilter selects PENDING suggestions to reject in a cascade.
type RejectFilter struct {
	DocumentIDs    []string
	TransactionIDs []string // matches either side of a transfer suggestion
	ExceptID       string
	Reason         string
	Actor          string
}

// SuggestionReader defines read operations for persisted suggestions.
type SuggestionReader interface {
	FindSuggestionByID(ctx context.Context, suggestionID string) (*domain.Suggestion, error)

	// ListPendingSuggestions returns the tenant's PENDING suggestions, scoped through their
	// document or bank transaction, ordered by confidence descending.
	ListPendingSuggestions(ctx context.Context, tenantID string) ([]domain.Suggestion, error)

	CountPendingSuggestions(ctx context.Context, tenantID string) (int, error)

	// ListTransferSuggestions returns the tenant's TRANSFER suggestions in every status.
	ListTransferSuggestions(ctx context.Context, tenantID string) ([]domain.Suggestion, error)

	// ListDismissedSuggestions returns the tenant's user-dismissed suggestions of every kind.
	ListDismissedSuggestions(ctx context.Context, tenantID string) ([]domain.Suggestion, error)

	// ListSuggestionsForTransaction returns every suggestion that references the transaction.
	ListSuggestionsForTransaction(ctx context.Context, transactionID string) ([]domain.Suggestion, error)
}

// SuggestionWriter defines write operations for suggestions.
type SuggestionWriter interface {
	CreateSuggestion(ctx context.Context, suggestion domain.Suggestion) error

	// ResolveSuggestion moves a PENDING suggestion to a terminal status. It returns
	// apperrors.ErrInvalidState when the suggestion is no longer PENDING.
	ResolveSuggestion(ctx context.Context, suggestion domain.Suggestion) error

	// RejectPendingSuggestions rejects PENDING suggestions matching the filter and returns how many changed.
	RejectPendingSuggestions(ctx context.Context, filter RejectFilter) (int, error)
}

// SuggestionRepositoryFacade combines read and write operations.
type SuggestionRepositoryFacade interface {
	SuggestionReader
	SuggestionWriter
}
