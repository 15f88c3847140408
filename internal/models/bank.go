package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is a bank_transactions row joined with its owning bank_accounts row.
type BankTransaction struct {
	BankTransactionID    string           `db:"bank_transaction_id"`
	BankAccountID        string           `db:"bank_account_id"`
	TenantID             string           `db:"tenant_id"`        // bank_accounts.tenant_id
	TransactionDate      time.Time        `db:"transaction_date"` // DATE
	Description          string           `db:"description"`
	Amount               decimal.Decimal  `db:"amount"` // signed
	CurrencyCode         string           `db:"currency_code"` // bank_accounts.currency_code
	IBAN                 string           `db:"iban"`          // bank_accounts.iban
	ReconciliationStatus string           `db:"reconciliation_status"`
	AccountCode          *string          `db:"account_code"`
	ReferenceNumber      *string          `db:"reference_number"`
	Balance              *decimal.Decimal `db:"balance"`
	AuditFields
}

// Document is a documents row. ExtractedFields is JSONB.
type Document struct {
	DocumentID           string          `db:"document_id"`
	TenantID             string          `db:"tenant_id"`
	Name                 string          `db:"name"`
	DocumentType         string          `db:"document_type"`
	ReconciliationStatus string          `db:"reconciliation_status"`
	PaymentStatus        *string         `db:"payment_status"`
	PaidAmount           decimal.Decimal `db:"paid_amount"`
	LastPaymentDate      *time.Time      `db:"last_payment_date"`
	StorageKey           string          `db:"storage_key"`
	ExtractedFields      []byte          `db:"extracted_fields"`
	AuditFields
}
