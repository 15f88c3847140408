package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutstandingItemType classifies a known movement not yet seen on a statement.
type OutstandingItemType string

const (
	OutstandingCheck OutstandingItemType = "OUTSTANDING_CHECK"
	DepositInTransit OutstandingItemType = "DEPOSIT_IN_TRANSIT"
	PendingTransfer  OutstandingItemType = "PENDING_TRANSFER"
)

// OutstandingItemStatus is the state of an outstanding item. CLEARED and VOIDED are terminal.
type OutstandingItemStatus string

const (
	ItemOutstanding OutstandingItemStatus = "OUTSTANDING"
	ItemCleared     OutstandingItemStatus = "CLEARED"
	ItemStale       OutstandingItemStatus = "STALE"
	ItemVoided      OutstandingItemStatus = "VOIDED"
)

// IsTerminal reports whether the item can no longer change status.
func (s OutstandingItemStatus) IsTerminal() bool {
	return s == ItemCleared || s == ItemVoided
}

// OutstandingItem is an issued check, in-transit deposit or pending transfer.
type OutstandingItem struct {
	ItemID            string                `json:"itemID"`
	TenantID          string                `json:"tenantID"`
	Type              OutstandingItemType   `json:"type"`
	Status            OutstandingItemStatus `json:"status"`
	ReferenceNumber   *string               `json:"referenceNumber,omitempty"`
	Description       string                `json:"description"`
	PayeeBeneficiary  string                `json:"payeeBeneficiary,omitempty"`
	BankAccountID     *string               `json:"bankAccountID,omitempty"`
	Amount            decimal.Decimal       `json:"amount"`
	IssueDate         time.Time             `json:"issueDate"`
	ExpectedClearDate *time.Time            `json:"expectedClearDate,omitempty"`
	ActualClearDate   *time.Time            `json:"actualClearDate,omitempty"`
	DaysOutstanding   int                   `json:"daysOutstanding"`
	DocumentID        *string               `json:"documentID,omitempty"`
	BankTransactionID *string               `json:"bankTransactionID,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	AuditFields
}

// RecomputeDaysOutstanding derives the age from the clear date, or from asOf while still open.
func (i *OutstandingItem) RecomputeDaysOutstanding(asOf time.Time) {
	end := asOf
	if i.ActualClearDate != nil {
		end = *i.ActualClearDate
	}
	i.DaysOutstanding = DayDiff(end, i.IssueDate)
	if end.Before(i.IssueDate) {
		i.DaysOutstanding = 0
	}
}

// Clear marks the item cleared by a bank transaction on clearDate.
func (i *OutstandingItem) Clear(clearDate time.Time, transactionID *string) {
	d := clearDate
	i.Status = ItemCleared
	i.ActualClearDate = &d
	if transactionID != nil {
		id := *transactionID
		i.BankTransactionID = &id
	}
	i.RecomputeDaysOutstanding(clearDate)
}

// Reopen reverts a clear performed by a transaction that has since been unreconciled.
func (i *OutstandingItem) Reopen(asOf time.Time) {
	i.Status = ItemOutstanding
	i.ActualClearDate = nil
	i.BankTransactionID = nil
	i.RecomputeDaysOutstanding(asOf)
}

// AgingBucket groups open items by age.
type AgingBucket struct {
	Label  string          `json:"label"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// AgingReport lists buckets 0-30, 31-60, 61-90 and 90+ days.
type AgingReport struct {
	AsOf    time.Time       `json:"asOf"`
	Buckets []AgingBucket   `json:"buckets"`
	Total   decimal.Decimal `json:"total"`
}
