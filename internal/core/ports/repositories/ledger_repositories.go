package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries.
type LedgerReader interface {
	FindEntriesByPostingKey(ctx context.Context, tenantID, postingKey string) ([]domain.LedgerEntry, error)
	// FindEntriesByLinks returns entries carrying every link set on links.
	FindEntriesByLinks(ctx context.Context, tenantID string, links domain.LedgerLinks) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines write operations for ledger entries and balances.
type LedgerWriter interface {
	InsertEntries(ctx context.Context, entries []domain.LedgerEntry) error
	DeleteEntries(ctx context.Context, entryIDs []string) error
	ApplyBalanceDeltas(ctx context.Context, deltas []domain.AccountBalanceDelta) error
}

// LedgerRepositoryFacade combines read and write operations.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
