package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ChartAccount is an entry of the tenant's chart of accounts.
type ChartAccount struct {
	TenantID    string `json:"tenantID"`
	AccountCode string `json:"accountCode"`
	Name        string `json:"name"`
	IsActive    bool   `json:"isActive"`
}

// BankAccountAnalytic maps an IBAN and currency to an analytic ledger account.
type BankAccountAnalytic struct {
	TenantID      string `json:"tenantID"`
	IBAN          string `json:"iban"`
	CurrencyCode  string `json:"currencyCode"`
	SyntheticCode string `json:"syntheticCode"`
	Suffix        string `json:"suffix"`
}

// FullCode returns "<syntheticCode>.<suffix>".
func (a BankAccountAnalytic) FullCode() string {
	if a.Suffix == "" {
		return a.SyntheticCode
	}
	return a.SyntheticCode + "." + a.Suffix
}

// NormalizeIBAN strips spaces and upper-cases an IBAN.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(iban), " ", ""))
}

// LedgerSourceType records which operation produced a posting.
type LedgerSourceType string

const (
	SourceReconciliation    LedgerSourceType = "RECONCILIATION"
	SourceAccountSuggestion LedgerSourceType = "ACCOUNT_SUGGESTION"
	SourceTransfer          LedgerSourceType = "TRANSFER"
)

// PostingLine is one side of a balanced posting. Exactly one of Debit and Credit is non-zero.
type PostingLine struct {
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// LedgerLinks ties ledger rows back to reconciliation entities. Unset fields are ignored when matching.
type LedgerLinks struct {
	DocumentID        *string `json:"documentID,omitempty"`
	BankTransactionID *string `json:"bankTransactionID,omitempty"`
	ReconciliationID  *string `json:"reconciliationID,omitempty"`
	TransferID        *string `json:"transferID,omitempty"`
}

// IsEmpty reports whether no link is set.
func (l LedgerLinks) IsEmpty() bool {
	return l.DocumentID == nil && l.BankTransactionID == nil && l.ReconciliationID == nil && l.TransferID == nil
}

// Matches reports whether other carries every link set on l.
func (l LedgerLinks) Matches(other LedgerLinks) bool {
	eq := func(want, got *string) bool {
		return want == nil || (got != nil && *got == *want)
	}
	return eq(l.DocumentID, other.DocumentID) &&
		eq(l.BankTransactionID, other.BankTransactionID) &&
		eq(l.ReconciliationID, other.ReconciliationID) &&
		eq(l.TransferID, other.TransferID)
}

func (l LedgerLinks) String() string {
	parts := []string{}
	add := func(name string, v *string) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s=%s", name, *v))
		}
	}
	add("document", l.DocumentID)
	add("transaction", l.BankTransactionID)
	add("reconciliation", l.ReconciliationID)
	add("transfer", l.TransferID)
	return strings.Join(parts, ",")
}

// PostingRequest asks the ledger poster to record a balanced entry.
type PostingRequest struct {
	TenantID    string           `json:"tenantID"`
	PostingDate time.Time        `json:"postingDate"`
	Lines       []PostingLine    `json:"lines"`
	PostingKey  string           `json:"postingKey"`
	SourceType  LedgerSourceType `json:"sourceType"`
	SourceID    string           `json:"sourceID"`
	Links       LedgerLinks      `json:"links"`
	Currency    string           `json:"currency"`
}

// LedgerEntry is one persisted ledger row.
type LedgerEntry struct {
	EntryID     string           `json:"entryID"`
	TenantID    string           `json:"tenantID"`
	PostingDate time.Time        `json:"postingDate"`
	AccountCode string           `json:"accountCode"`
	Debit       decimal.Decimal  `json:"debit"`
	Credit      decimal.Decimal  `json:"credit"`
	Currency    string           `json:"currency"`
	Description string           `json:"description,omitempty"`
	SourceType  LedgerSourceType `json:"sourceType"`
	SourceID    string           `json:"sourceID"`
	PostingKey  string           `json:"postingKey"`
	RowKey      string           `json:"rowKey"`
	Links       LedgerLinks      `json:"links"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// PostingResult reports the rows written (or found, when the key was already posted).
type PostingResult struct {
	PostingKey    string        `json:"postingKey"`
	Entries       []LedgerEntry `json:"entries"`
	AlreadyPosted bool          `json:"alreadyPosted"`
}

// AccountBalanceDelta adjusts a daily account balance by Debit - Credit.
type AccountBalanceDelta struct {
	TenantID    string
	AccountCode string
	Day         time.Time
	Delta       decimal.Decimal
}
