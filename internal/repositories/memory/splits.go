package memory

import (
	"context"
	"slices"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

func (t *txRepos) ListSplits(ctx context.Context, transactionID string) ([]domain.BankTransactionSplit, error) {
	out := slices.Clone(t.st.splits[transactionID])
	slices.SortFunc(out, func(a, b domain.BankTransactionSplit) int { return a.Position - b.Position })
	return out, nil
}

func (t *txRepos) ReplaceSplits(ctx context.Context, transactionID string, splits []domain.BankTransactionSplit) error {
	delete(t.st.splits, transactionID)
	if len(splits) > 0 {
		t.st.splits[transactionID] = slices.Clone(splits)
	}
	return nil
}
