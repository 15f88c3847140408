package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Transfer pipeline stages. u.transactionID is the source (debit) side and
// u.destinationID the destination (credit) side.

func (r *reconciler) loadTransferPair(ctx context.Context, u *matchUnit) error {
	if u.transactionID == "" || u.destinationID == "" {
		return fmt.Errorf("%w: source and destination transactions are required", apperrors.ErrValidation)
	}
	if u.transactionID == u.destinationID {
		return fmt.Errorf("%w: a transfer needs two different transactions", apperrors.ErrValidation)
	}
	src, err := r.loadTx(ctx, u, u.transactionID)
	if err != nil {
		return err
	}
	dst, err := r.loadTx(ctx, u, u.destinationID)
	if err != nil {
		return err
	}
	if !src.IsDebit() {
		return fmt.Errorf("%w: source transaction %s must be an outflow, got %s", apperrors.ErrValidation, src.BankTransactionID, src.Amount)
	}
	if !dst.IsCredit() {
		return fmt.Errorf("%w: destination transaction %s must be an inflow, got %s", apperrors.ErrValidation, dst.BankTransactionID, dst.Amount)
	}
	if u.fxRate != nil && !u.fxRate.IsPositive() {
		return fmt.Errorf("%w: fx rate must be positive", apperrors.ErrValidation)
	}
	u.transaction = src
	u.counterpart = dst
	return nil
}

// findExistingTransfer short-circuits a pair that was already confirmed.
func (r *reconciler) findExistingTransfer(ctx context.Context, u *matchUnit) error {
	existing, err := u.repos.Transfers().FindTransferByPair(ctx, u.transactionID, u.destinationID)
	switch {
	case err == nil:
		u.result.Transfer = existing
		u.result.Transaction = u.transaction
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("failed to look up transfer pair: %w", err)
	}
	for _, tx := range []*domain.BankTransaction{u.transaction, u.counterpart} {
		if tx.ReconciliationStatus.IsMatched() {
			return fmt.Errorf("%w: transaction %s is already matched", apperrors.ErrInvalidState, tx.BankTransactionID)
		}
	}
	return nil
}

func (r *reconciler) validateTransferAmounts(ctx context.Context, u *matchUnit) error {
	if u.result.Transfer != nil {
		return nil
	}
	src, dst := u.transaction, u.counterpart
	if src.CurrencyCode != dst.CurrencyCode {
		return nil
	}
	rate := decimal.NewFromInt(1)
	if u.fxRate != nil {
		rate = *u.fxRate
	}
	converted := dst.AbsAmount().Mul(rate)
	if !domain.AmountsMatch(src.AbsAmount(), converted) {
		return fmt.Errorf("%w: source amount %s does not match destination %s at rate %s",
			apperrors.ErrValidation, src.AbsAmount().StringFixed(2), converted.StringFixed(2), rate)
	}
	return nil
}

func (r *reconciler) persistTransfer(ctx context.Context, u *matchUnit) error {
	if u.result.Transfer != nil {
		return nil
	}
	src, dst := u.transaction, u.counterpart
	srcCode, err := r.bankAccountCode(ctx, u.repos, *src)
	if err != nil {
		return err
	}
	dstCode, err := r.bankAccountCode(ctx, u.repos, *dst)
	if err != nil {
		return err
	}

	var rate *decimal.Decimal
	switch {
	case u.fxRate != nil:
		v := *u.fxRate
		rate = &v
	case src.CurrencyCode == dst.CurrencyCode:
		v := decimal.NewFromInt(1)
		rate = &v
	}

	transfer := domain.TransferReconciliation{
		TransferID:               newID(),
		TenantID:                 u.tenantID,
		SourceTransactionID:      src.BankTransactionID,
		DestinationTransactionID: dst.BankTransactionID,
		SourceAccountCode:        srcCode,
		DestinationAccountCode:   dstCode,
		FxRate:                   rate,
		CreatedBy:                u.actor,
		CreatedAt:                r.now(),
	}
	if u.notes != nil {
		transfer.Notes = *u.notes
	}
	if err := u.repos.Transfers().CreateTransfer(ctx, transfer); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			existing, findErr := u.repos.Transfers().FindTransferByPair(ctx, src.BankTransactionID, dst.BankTransactionID)
			if findErr != nil {
				return findErr
			}
			u.result.Transfer = existing
			return nil
		}
		return err
	}

	for _, tx := range []*domain.BankTransaction{src, dst} {
		if err := u.repos.BankTransactions().UpdateTransactionStatus(ctx, tx.BankTransactionID, domain.StatusMatched); err != nil {
			return err
		}
		tx.ReconciliationStatus = domain.StatusMatched
	}
	u.transferNew = true
	u.result.Transfer = &transfer
	u.result.Transaction = src
	return nil
}

// transferPosting books only unity-rate transfers; other rates are reported for manual booking.
func (r *reconciler) transferPosting(ctx context.Context, u *matchUnit) error {
	t := u.result.Transfer
	if !t.IsUnityRate() {
		msg := fmt.Sprintf("transfer %s not posted: FX rate unresolved", t.TransferID)
		if t.FxRate != nil {
			msg = fmt.Sprintf("transfer %s not posted: FX rate %s between %s and %s needs manual booking",
				t.TransferID, t.FxRate.String(), u.transaction.CurrencyCode, u.counterpart.CurrencyCode)
		}
		r.LogWarn(ctx, "Transfer posting skipped", slog.String("transfer_id", t.TransferID), slog.String("reason", msg))
		u.warn(msg)
		return nil
	}

	amount := u.transaction.AbsAmount()
	transferID := t.TransferID
	desc := "Transfer " + u.transaction.BankTransactionID + " -> " + u.counterpart.BankTransactionID
	u.posting = &domain.PostingRequest{
		TenantID:    u.tenantID,
		PostingDate: u.transaction.TransactionDate,
		Lines: []domain.PostingLine{
			{AccountCode: t.DestinationAccountCode, Debit: amount, Credit: decimal.Zero, Description: desc},
			{AccountCode: t.SourceAccountCode, Debit: decimal.Zero, Credit: amount, Description: desc},
		},
		PostingKey: "transfer:" + transferID,
		SourceType: domain.SourceTransfer,
		SourceID:   transferID,
		Links:      domain.LedgerLinks{TransferID: &transferID},
		Currency:   r.postingCurrency(*u.transaction),
	}
	return nil
}
