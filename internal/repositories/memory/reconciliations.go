package memory

import (
	"context"
	"slices"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

func byCreatedAt(a, b domain.ReconciliationRecord) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}

func (t *txRepos) FindActiveRecord(ctx context.Context, documentID, transactionID string) (*domain.ReconciliationRecord, error) {
	for _, r := range t.st.records {
		if r.DocumentID == documentID && r.BankTransactionID == transactionID {
			return &r, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no reconciliation record for pair")
}

func (t *txRepos) ListRecordsByTransaction(ctx context.Context, transactionID string) ([]domain.ReconciliationRecord, error) {
	var out []domain.ReconciliationRecord
	for _, r := range t.st.records {
		if r.BankTransactionID == transactionID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, byCreatedAt)
	return out, nil
}

func (t *txRepos) ListRecordsByDocument(ctx context.Context, documentID string) ([]domain.ReconciliationRecord, error) {
	var out []domain.ReconciliationRecord
	for _, r := range t.st.records {
		if r.DocumentID == documentID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, byCreatedAt)
	return out, nil
}

func (t *txRepos) CreateRecord(ctx context.Context, record domain.ReconciliationRecord) error {
	if _, err := t.FindActiveRecord(ctx, record.DocumentID, record.BankTransactionID); err == nil {
		return apperrors.ErrAlreadyMatched
	}
	t.st.records[record.RecordID] = record
	return nil
}

func (t *txRepos) DeleteRecords(ctx context.Context, recordIDs []string) error {
	for _, id := range recordIDs {
		delete(t.st.records, id)
	}
	return nil
}

func (t *txRepos) FindTransferByID(ctx context.Context, transferID string) (*domain.TransferReconciliation, error) {
	tr, ok := t.st.transfers[transferID]
	if !ok {
		return nil, apperrors.NewNotFoundError("transfer " + transferID + " not found")
	}
	return &tr, nil
}

func (t *txRepos) FindTransferByPair(ctx context.Context, sourceID, destinationID string) (*domain.TransferReconciliation, error) {
	for _, tr := range t.st.transfers {
		if tr.SourceTransactionID == sourceID && tr.DestinationTransactionID == destinationID {
			return &tr, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no transfer for pair")
}

func (t *txRepos) ListTransfersByTransaction(ctx context.Context, transactionID string) ([]domain.TransferReconciliation, error) {
	var out []domain.TransferReconciliation
	for _, tr := range t.st.transfers {
		if tr.SourceTransactionID == transactionID || tr.DestinationTransactionID == transactionID {
			out = append(out, tr)
		}
	}
	slices.SortFunc(out, func(a, b domain.TransferReconciliation) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (t *txRepos) ListTransfers(ctx context.Context, tenantID string, pendingOnly bool) ([]domain.TransferReconciliation, error) {
	var out []domain.TransferReconciliation
	for _, tr := range t.st.transfers {
		if tr.TenantID != tenantID || (pendingOnly && tr.FxRate != nil) {
			continue
		}
		out = append(out, tr)
	}
	slices.SortFunc(out, func(a, b domain.TransferReconciliation) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (t *txRepos) CreateTransfer(ctx context.Context, transfer domain.TransferReconciliation) error {
	if _, err := t.FindTransferByPair(ctx, transfer.SourceTransactionID, transfer.DestinationTransactionID); err == nil {
		return apperrors.ErrDuplicate
	}
	t.st.transfers[transfer.TransferID] = transfer
	return nil
}

func (t *txRepos) DeleteTransfer(ctx context.Context, transferID string) error {
	delete(t.st.transfers, transferID)
	return nil
}
