package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a ledger_entries row. The link columns are nullable.
type LedgerEntry struct {
	EntryID           string          `db:"entry_id"`
	TenantID          string          `db:"tenant_id"`
	PostingDate       time.Time       `db:"posting_date"`
	AccountCode       string          `db:"account_code"`
	Debit             decimal.Decimal `db:"debit"`
	Credit            decimal.Decimal `db:"credit"`
	Currency          string          `db:"currency"`
	Description       string          `db:"description"`
	SourceType        string          `db:"source_type"`
	SourceID          string          `db:"source_id"`
	PostingKey        string          `db:"posting_key"`
	RowKey            string          `db:"row_key"`
	DocumentID        *string         `db:"document_id"`
	BankTransactionID *string         `db:"bank_transaction_id"`
	ReconciliationID  *string         `db:"reconciliation_id"`
	TransferID        *string         `db:"transfer_id"`
	CreatedAt         time.Time       `db:"created_at"`
}
