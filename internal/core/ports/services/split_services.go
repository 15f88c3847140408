package services

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
)

// SplitSvcFacade allocates a transaction across several ledger accounts.
type SplitSvcFacade interface {
	// SetSplits replaces every split of the transaction after validating accounts and the total.
	SetSplits(ctx context.Context, tenantID string, transactionID string, req dto.SetSplitsRequest, actor string) ([]domain.BankTransactionSplit, error)

	GetSplits(ctx context.Context, tenantID string, transactionID string) ([]domain.BankTransactionSplit, error)

	// SuggestSplits proposes splits by analogy with a prior transaction of the same description.
	SuggestSplits(ctx context.Context, tenantID string, transactionID string) ([]domain.SplitInput, error)
}
