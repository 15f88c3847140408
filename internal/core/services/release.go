package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// release is the outcome of undoing the matches of one entity.
type release struct {
	records   int
	transfers int
	reversed  int
}

// releaseTransaction removes every record and transfer of tx, reverses their postings and
// returns tx, its counterparts and freed documents to UNRECONCILED. The assigned account
// code is kept.
func (r *reconciler) releaseTransaction(ctx context.Context, repos portsrepo.TxRepositories, tenantID string, tx domain.BankTransaction, actor string) (*release, error) {
	out := &release{}
	txID := tx.BankTransactionID

	records, err := repos.Reconciliations().ListRecordsByTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	var docIDs []string
	if err := r.dropRecords(ctx, repos, tenantID, records, out); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if !slices.Contains(docIDs, rec.DocumentID) {
			docIDs = append(docIDs, rec.DocumentID)
		}
	}

	transfers, err := repos.Transfers().ListTransfersByTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	var counterparts []string
	for _, t := range transfers {
		transferID := t.TransferID
		n, err := r.poster.Unpost(ctx, repos, tenantID, domain.LedgerLinks{TransferID: &transferID})
		if err != nil {
			return nil, apperrors.NewDependencyError("ledger reversal of transfer "+transferID, err)
		}
		out.reversed += n
		if err := repos.Transfers().DeleteTransfer(ctx, transferID); err != nil {
			return nil, err
		}
		out.transfers++
		counterparts = append(counterparts, t.Counterpart(txID))
	}

	// account-code postings
	n, err := r.poster.Unpost(ctx, repos, tenantID, domain.LedgerLinks{BankTransactionID: &txID})
	if err != nil {
		return nil, apperrors.NewDependencyError("ledger reversal of transaction "+txID, err)
	}
	out.reversed += n

	if err := repos.BankTransactions().UpdateTransactionStatus(ctx, txID, domain.StatusUnreconciled); err != nil {
		return nil, err
	}
	for _, docID := range docIDs {
		if err := r.settleDocument(ctx, repos, docID); err != nil {
			return nil, err
		}
	}
	for _, cp := range counterparts {
		if err := r.settleTransaction(ctx, repos, cp); err != nil {
			return nil, err
		}
	}
	if err := r.reopenItems(ctx, repos, append([]string{txID}, counterparts...), actor); err != nil {
		return nil, err
	}
	return out, nil
}

// releaseDocument removes every record of doc, reverses their postings and returns doc and
// the transactions left without matches to UNRECONCILED.
func (r *reconciler) releaseDocument(ctx context.Context, repos portsrepo.TxRepositories, tenantID string, doc domain.Document, actor string) (*release, error) {
	out := &release{}
	records, err := repos.Reconciliations().ListRecordsByDocument(ctx, doc.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := r.dropRecords(ctx, repos, tenantID, records, out); err != nil {
		return nil, err
	}
	if err := r.settleDocument(ctx, repos, doc.DocumentID); err != nil {
		return nil, err
	}

	var freed []string
	for _, rec := range records {
		if slices.Contains(freed, rec.BankTransactionID) {
			continue
		}
		if err := r.settleTransaction(ctx, repos, rec.BankTransactionID); err != nil {
			return nil, err
		}
		freed = append(freed, rec.BankTransactionID)
	}
	if err := r.reopenItems(ctx, repos, freed, actor); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reconciler) dropRecords(ctx context.Context, repos portsrepo.TxRepositories, tenantID string, records []domain.ReconciliationRecord, out *release) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	for i, rec := range records {
		recordID := rec.RecordID
		n, err := r.poster.Unpost(ctx, repos, tenantID, domain.LedgerLinks{ReconciliationID: &recordID})
		if err != nil {
			return apperrors.NewDependencyError("ledger reversal of record "+recordID, err)
		}
		out.reversed += n
		ids[i] = recordID
	}
	if err := repos.Reconciliations().DeleteRecords(ctx, ids); err != nil {
		return err
	}
	out.records += len(ids)
	return nil
}

// settleDocument unreconciles a document left without records and rebuilds its payment summary.
func (r *reconciler) settleDocument(ctx context.Context, repos portsrepo.TxRepositories, documentID string) error {
	doc, err := repos.Documents().FindDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}
	remaining, err := repos.Reconciliations().ListRecordsByDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		if err := repos.Documents().UpdateDocumentStatus(ctx, documentID, domain.StatusUnreconciled); err != nil {
			return err
		}
	}
	if err := repos.Documents().DeletePaymentSummaries(ctx, []string{documentID}); err != nil {
		return err
	}
	if !doc.IsInvoice() {
		return nil
	}
	if len(remaining) == 0 {
		unpaid := domain.PaymentUnpaid
		return repos.Documents().UpdateDocumentPayment(ctx, documentID, &unpaid, decimal.Zero, nil)
	}

	summary, err := r.paymentSummary(ctx, repos, *doc)
	if err != nil {
		return err
	}
	for _, rec := range remaining {
		tx, err := repos.BankTransactions().FindTransactionByID(ctx, rec.BankTransactionID)
		if err != nil {
			return err
		}
		summary.ApplyPayment(tx.Amount, tx.TransactionDate)
	}
	return r.storePaymentSummary(ctx, repos, *summary)
}

// settleTransaction unreconciles a transaction left without records or transfers.
func (r *reconciler) settleTransaction(ctx context.Context, repos portsrepo.TxRepositories, transactionID string) error {
	records, err := repos.Reconciliations().ListRecordsByTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	transfers, err := repos.Transfers().ListTransfersByTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if len(records) > 0 || len(transfers) > 0 {
		return nil
	}
	return repos.BankTransactions().UpdateTransactionStatus(ctx, transactionID, domain.StatusUnreconciled)
}

// reopenItems reverts outstanding items cleared by the given transactions.
func (r *reconciler) reopenItems(ctx context.Context, repos portsrepo.TxRepositories, transactionIDs []string, actor string) error {
	if len(transactionIDs) == 0 {
		return nil
	}
	items, err := repos.OutstandingItems().ListItemsClearedBy(ctx, transactionIDs)
	if err != nil {
		return err
	}
	now := r.now()
	for _, item := range items {
		item.Reopen(now)
		item.LastUpdatedAt = now
		item.LastUpdatedBy = actor
		if err := repos.OutstandingItems().UpdateItem(ctx, item); err != nil {
			return err
		}
		r.LogInfo(ctx, "Outstanding item reopened", slog.String("item_id", item.ItemID))
	}
	return nil
}
