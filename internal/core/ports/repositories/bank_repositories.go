package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankTransactionReader defines read operations for bank accounts and their transactions.
type BankTransactionReader interface {
	// FindBankAccountByID retrieves a bank account.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// FindTransactionByID retrieves a transaction with currency, IBAN and tenant taken from its account.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)

	// ListUnreconciledTransactions returns at most limit UNRECONCILED transactions, newest first.
	ListUnreconciledTransactions(ctx context.Context, tenantID string, limit int) ([]domain.BankTransaction, error)

	// ListTransactionsByDescription returns the tenant's transactions whose trimmed, lower-cased
	// description equals description, newest first, excluding excludeID.
	ListTransactionsByDescription(ctx context.Context, tenantID, description, excludeID string) ([]domain.BankTransaction, error)

	// CountTransactions returns the tenant's total and matched transaction counts.
	CountTransactions(ctx context.Context, tenantID string) (total int, matched int, err error)

	// SumUnreconciled returns the sum of |amount| over UNRECONCILED transactions.
	SumUnreconciled(ctx context.Context, tenantID string) (decimal.Decimal, error)
}

// BankTransactionWriter defines write operations on transactions.
type BankTransactionWriter interface {
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.ReconciliationStatus) error
	AssignTransactionAccount(ctx context.Context, transactionID string, accountCode *string) error
}

// BankTransactionRepositoryFacade combines read and write operations.
type BankTransactionRepositoryFacade interface {
	BankTransactionReader
	BankTransactionWriter
}
