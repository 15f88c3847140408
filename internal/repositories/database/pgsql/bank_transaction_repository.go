package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation_app/internal/models"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type pgxBankTransactionRepository struct {
	db pgx.Tx
}

var _ portsrepo.BankTransactionRepositoryFacade = (*pgxBankTransactionRepository)(nil)

// selectTransactions loads transactions with tenant, currency and IBAN from the owning account.
const selectTransactions = `
	SELECT t.bank_transaction_id, t.bank_account_id, a.tenant_id, t.transaction_date, t.description,
		t.amount, a.currency_code, a.iban, t.reconciliation_status, t.account_code, t.reference_number,
		t.balance, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
	FROM bank_transactions t
	JOIN bank_accounts a ON a.bank_account_id = t.bank_account_id`

func scanTransaction(row pgx.CollectableRow) (models.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.BankTransactionID,
		&m.BankAccountID,
		&m.TenantID,
		&m.TransactionDate,
		&m.Description,
		&m.Amount,
		&m.CurrencyCode,
		&m.IBAN,
		&m.ReconciliationStatus,
		&m.AccountCode,
		&m.ReferenceNumber,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *pgxBankTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.BankTransaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bank transactions: %w", err)
	}
	return mapping.ToDomainBankTransactionSlice(ms), nil
}

func (r *pgxBankTransactionRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `
		SELECT bank_account_id, tenant_id, iban, name, bank_name, currency_code, account_type, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM bank_accounts
		WHERE bank_account_id = $1;
	`
	var acc domain.BankAccount
	err := r.db.QueryRow(ctx, query, bankAccountID).Scan(
		&acc.BankAccountID,
		&acc.TenantID,
		&acc.IBAN,
		&acc.Name,
		&acc.BankName,
		&acc.CurrencyCode,
		&acc.AccountType,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return nil, notFoundOr(err, "bank account "+bankAccountID)
	}
	return &acc, nil
}

func (r *pgxBankTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	rows, err := r.db.Query(ctx, selectTransactions+` WHERE t.bank_transaction_id = $1`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transaction %s: %w", transactionID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanTransaction)
	if err != nil {
		return nil, notFoundOr(err, "bank transaction "+transactionID)
	}
	tx := mapping.ToDomainBankTransaction(m)
	return &tx, nil
}

func (r *pgxBankTransactionRepository) ListUnreconciledTransactions(ctx context.Context, tenantID string, limit int) ([]domain.BankTransaction, error) {
	query := selectTransactions + `
		WHERE a.tenant_id = $1 AND t.reconciliation_status = $2
		ORDER BY t.transaction_date DESC, t.bank_transaction_id
		LIMIT NULLIF($3::int, 0)`
	return r.queryTransactions(ctx, query, tenantID, string(domain.StatusUnreconciled), limit)
}

func (r *pgxBankTransactionRepository) ListTransactionsByDescription(ctx context.Context, tenantID, description, excludeID string) ([]domain.BankTransaction, error) {
	query := selectTransactions + `
		WHERE a.tenant_id = $1 AND lower(btrim(t.description)) = lower(btrim($2)) AND t.bank_transaction_id <> $3
		ORDER BY t.transaction_date DESC, t.bank_transaction_id`
	return r.queryTransactions(ctx, query, tenantID, description, excludeID)
}

func (r *pgxBankTransactionRepository) CountTransactions(ctx context.Context, tenantID string) (int, int, error) {
	query := `
		SELECT count(*), count(*) FILTER (WHERE t.reconciliation_status = $2)
		FROM bank_transactions t
		JOIN bank_accounts a ON a.bank_account_id = t.bank_account_id
		WHERE a.tenant_id = $1;
	`
	var total, matched int
	if err := r.db.QueryRow(ctx, query, tenantID, string(domain.StatusMatched)).Scan(&total, &matched); err != nil {
		return 0, 0, fmt.Errorf("failed to count bank transactions: %w", err)
	}
	return total, matched, nil
}

func (r *pgxBankTransactionRepository) SumUnreconciled(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(sum(abs(t.amount)), 0)
		FROM bank_transactions t
		JOIN bank_accounts a ON a.bank_account_id = t.bank_account_id
		WHERE a.tenant_id = $1 AND t.reconciliation_status = $2;
	`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, tenantID, string(domain.StatusUnreconciled)).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum unreconciled amounts: %w", err)
	}
	return sum, nil
}

func (r *pgxBankTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.ReconciliationStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bank_transactions SET reconciliation_status = $2, last_updated_at = now()
		WHERE bank_transaction_id = $1;
	`, transactionID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update status of bank transaction %s: %w", transactionID, err)
	}
	return mustAffect(tag, "bank transaction "+transactionID)
}

func (r *pgxBankTransactionRepository) AssignTransactionAccount(ctx context.Context, transactionID string, accountCode *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bank_transactions SET account_code = $2, last_updated_at = now()
		WHERE bank_transaction_id = $1;
	`, transactionID, accountCode)
	if err != nil {
		return fmt.Errorf("failed to assign account to bank transaction %s: %w", transactionID, err)
	}
	return mustAffect(tag, "bank transaction "+transactionID)
}
