package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchType records how a reconciliation record came to be.
type MatchType string

const (
	MatchManual    MatchType = "MANUAL"
	MatchSuggested MatchType = "SUGGESTED"
)

// ReconciliationRecord links one document to one bank transaction.
type ReconciliationRecord struct {
	RecordID          string    `json:"recordID"`
	TenantID          string    `json:"tenantID"`
	DocumentID        string    `json:"documentID"`
	BankTransactionID string    `json:"bankTransactionID"`
	MatchType         MatchType `json:"matchType"`
	Confidence        *float64  `json:"confidence,omitempty"`
	ReconciledBy      string    `json:"reconciledBy"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// TransferReconciliation links a debit on one own account to a credit on another.
// FxRate is nil while unresolved.
type TransferReconciliation struct {
	TransferID               string           `json:"transferID"`
	TenantID                 string           `json:"tenantID"`
	SourceTransactionID      string           `json:"sourceTransactionID"`
	DestinationTransactionID string           `json:"destinationTransactionID"`
	SourceAccountCode        string           `json:"sourceAccountCode"`
	DestinationAccountCode   string           `json:"destinationAccountCode"`
	FxRate                   *decimal.Decimal `json:"fxRate,omitempty"`
	Notes                    string           `json:"notes,omitempty"`
	CreatedBy                string           `json:"createdBy"`
	CreatedAt                time.Time        `json:"createdAt"`
}

// IsUnityRate reports whether the transfer was booked at exactly 1.
func (t TransferReconciliation) IsUnityRate() bool {
	return t.FxRate != nil && t.FxRate.Equal(decimal.NewFromInt(1))
}

// Counterpart returns the other transaction of the pair.
func (t TransferReconciliation) Counterpart(transactionID string) string {
	if t.SourceTransactionID == transactionID {
		return t.DestinationTransactionID
	}
	return t.SourceTransactionID
}

// MatchResult is returned by accept and manual-match operations.
type MatchResult struct {
	Suggestion  *Suggestion             `json:"suggestion,omitempty"`
	Kind        SuggestionKind          `json:"kind"`
	Record      *ReconciliationRecord   `json:"record,omitempty"`
	Transfer    *TransferReconciliation `json:"transfer,omitempty"`
	Transaction *BankTransaction        `json:"transaction,omitempty"`
	ClearedItem *OutstandingItem        `json:"clearedItem,omitempty"`
	Rejected    int                     `json:"rejectedCompeting"`
	Warnings    []string                `json:"warnings,omitempty"`
}

// ReconciliationStats summarises a tenant's progress.
type ReconciliationStats struct {
	DocumentsTotal      int             `json:"documentsTotal"`
	DocumentsReconciled int             `json:"documentsReconciled"`
	DocumentsRate       float64         `json:"documentsRate"`
	TransactionsTotal   int             `json:"transactionsTotal"`
	TransactionsMatched int             `json:"transactionsReconciled"`
	TransactionsRate    float64         `json:"transactionsRate"`
	PendingSuggestions  int             `json:"pendingSuggestions"`
	UnmatchedAmount     decimal.Decimal `json:"unmatchedAmount"`
}

// BulkMatchResult collects per-pair outcomes of a bulk manual match.
type BulkMatchResult struct {
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Records    []string          `json:"recordIDs"`
	Errors     map[string]string `json:"errors,omitempty"`
}
