package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOutstandingItemRequest registers an issued check, deposit in transit or pending transfer.
type CreateOutstandingItemRequest struct {
	Type              string          `json:"type" binding:"required" validate:"required,oneof=OUTSTANDING_CHECK DEPOSIT_IN_TRANSIT PENDING_TRANSFER"`
	ReferenceNumber   *string         `json:"referenceNumber,omitempty" validate:"omitempty,max=64"`
	Description       string          `json:"description" binding:"required" validate:"required,max=500"`
	PayeeBeneficiary  string          `json:"payeeBeneficiary,omitempty" validate:"max=200"`
	BankAccountID     *string         `json:"bankAccountId,omitempty"`
	Amount            decimal.Decimal `json:"amount" validate:"gt=0"`
	IssueDate         time.Time       `json:"issueDate" binding:"required" validate:"required"`
	ExpectedClearDate *time.Time      `json:"expectedClearDate,omitempty"`
	DocumentID        *string         `json:"documentId,omitempty"`
	Notes             string          `json:"notes,omitempty" validate:"max=1000"`
}

// ListOutstandingItemsParams filters the item list.
type ListOutstandingItemsParams struct {
	Type   string `form:"type" validate:"omitempty,oneof=OUTSTANDING_CHECK DEPOSIT_IN_TRANSIT PENDING_TRANSFER"`
	Status string `form:"status" validate:"omitempty,oneof=OUTSTANDING CLEARED STALE VOIDED"`
}

// ClearOutstandingItemRequest marks an item cleared.
type ClearOutstandingItemRequest struct {
	ClearDate         *time.Time `json:"clearDate,omitempty"`
	BankTransactionID *string    `json:"bankTransactionId,omitempty"`
}

// OutstandingItemNotesRequest carries notes for stale/void transitions.
type OutstandingItemNotesRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=1000"`
}
