package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

// SplitReader defines read operations for transaction splits.
type SplitReader interface {
	// ListSplits returns the transaction's splits ordered by position.
	ListSplits(ctx context.Context, transactionID string) ([]domain.BankTransactionSplit, error)
}

// SplitWriter defines write operations for transaction splits.
type SplitWriter interface {
	// ReplaceSplits deletes the transaction's splits and inserts the given ones.
	ReplaceSplits(ctx context.Context, transactionID string, splits []domain.BankTransactionSplit) error
}

// SplitRepositoryFacade combines read and write operations.
type SplitRepositoryFacade interface {
	SplitReader
	SplitWriter
}
