package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *state) enrich(tx domain.BankTransaction) domain.BankTransaction {
	if acc, ok := s.accounts[tx.BankAccountID]; ok {
		tx.TenantID = acc.TenantID
		tx.CurrencyCode = acc.CurrencyCode
		tx.IBAN = acc.IBAN
	}
	return tx
}

func (s *state) tenantTransactions(tenantID string) []domain.BankTransaction {
	var out []domain.BankTransaction
	for _, tx := range s.transactions {
		tx = s.enrich(tx)
		if tx.TenantID == tenantID {
			out = append(out, tx)
		}
	}
	slices.SortFunc(out, newestFirst)
	return out
}

func newestFirst(a, b domain.BankTransaction) int {
	if c := b.TransactionDate.Compare(a.TransactionDate); c != 0 {
		return c
	}
	return strings.Compare(a.BankTransactionID, b.BankTransactionID)
}

func (t *txRepos) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	acc, ok := t.st.accounts[bankAccountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("bank account " + bankAccountID + " not found")
	}
	return &acc, nil
}

func (t *txRepos) FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	tx, ok := t.st.transactions[transactionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("bank transaction " + transactionID + " not found")
	}
	tx = t.st.enrich(tx)
	return &tx, nil
}

func (t *txRepos) ListUnreconciledTransactions(ctx context.Context, tenantID string, limit int) ([]domain.BankTransaction, error) {
	var out []domain.BankTransaction
	for _, tx := range t.st.tenantTransactions(tenantID) {
		if tx.ReconciliationStatus != domain.StatusUnreconciled {
			continue
		}
		out = append(out, tx)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (t *txRepos) ListTransactionsByDescription(ctx context.Context, tenantID, description, excludeID string) ([]domain.BankTransaction, error) {
	want := strings.ToLower(strings.TrimSpace(description))
	var out []domain.BankTransaction
	for _, tx := range t.st.tenantTransactions(tenantID) {
		if tx.BankTransactionID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(tx.Description)) == want {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (t *txRepos) CountTransactions(ctx context.Context, tenantID string) (int, int, error) {
	total, matched := 0, 0
	for _, tx := range t.st.tenantTransactions(tenantID) {
		total++
		if tx.ReconciliationStatus.IsMatched() {
			matched++
		}
	}
	return total, matched, nil
}

func (t *txRepos) SumUnreconciled(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range t.st.tenantTransactions(tenantID) {
		if tx.ReconciliationStatus == domain.StatusUnreconciled {
			sum = sum.Add(tx.Amount.Abs())
		}
	}
	return sum, nil
}

func (t *txRepos) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.ReconciliationStatus) error {
	tx, ok := t.st.transactions[transactionID]
	if !ok {
		return apperrors.NewNotFoundError("bank transaction " + transactionID + " not found")
	}
	tx.ReconciliationStatus = status
	t.st.transactions[transactionID] = tx
	return nil
}

func (t *txRepos) AssignTransactionAccount(ctx context.Context, transactionID string, accountCode *string) error {
	tx, ok := t.st.transactions[transactionID]
	if !ok {
		return apperrors.NewNotFoundError("bank transaction " + transactionID + " not found")
	}
	tx.AccountCode = accountCode
	t.st.transactions[transactionID] = tx
	return nil
}
