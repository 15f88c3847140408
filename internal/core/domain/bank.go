package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is shared by bank transactions and documents.
type ReconciliationStatus string

const (
	StatusNone         ReconciliationStatus = ""
	StatusUnreconciled ReconciliationStatus = "UNRECONCILED"
	StatusMatched      ReconciliationStatus = "MATCHED"
	StatusIgnored      ReconciliationStatus = "IGNORED"
)

// IsMatched reports whether the status is a matched variant.
func (s ReconciliationStatus) IsMatched() bool {
	return s == StatusMatched
}

// IsOpen reports whether the entity can still take part in a match.
func (s ReconciliationStatus) IsOpen() bool {
	return s == StatusUnreconciled || s == StatusNone
}

// BankAccount is one of the tenant's own bank accounts.
type BankAccount struct {
	BankAccountID string `json:"bankAccountID"`
	TenantID      string `json:"tenantID"`
	IBAN          string `json:"iban"`
	Name          string `json:"name"`
	BankName      string `json:"bankName"`
	CurrencyCode  string `json:"currencyCode"`
	AccountType   string `json:"accountType"`
	IsActive      bool   `json:"isActive"`
	AuditFields
}

// BankTransaction is a statement line. Amount is signed: positive is an inflow, negative an outflow.
// CurrencyCode and IBAN are taken from the owning BankAccount when loaded.
type BankTransaction struct {
	BankTransactionID    string               `json:"bankTransactionID"`
	BankAccountID        string               `json:"bankAccountID"`
	TenantID             string               `json:"tenantID"`
	TransactionDate      time.Time            `json:"transactionDate"`
	Description          string               `json:"description"`
	Amount               decimal.Decimal      `json:"amount"`
	CurrencyCode         string               `json:"currencyCode"`
	IBAN                 string               `json:"iban"`
	ReconciliationStatus ReconciliationStatus `json:"reconciliationStatus"`
	AccountCode          *string              `json:"accountCode,omitempty"`
	ReferenceNumber      *string              `json:"referenceNumber,omitempty"`
	Balance              *decimal.Decimal     `json:"balance,omitempty"`
	AuditFields
}

// IsDebit reports whether money left the account.
func (t BankTransaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// IsCredit reports whether money entered the account.
func (t BankTransaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// AbsAmount returns |Amount|.
func (t BankTransaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}
