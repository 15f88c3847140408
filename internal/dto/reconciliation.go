package dto

import (
	"fmt"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

// ManualMatchRequest links a document to a transaction without a suggestion.
type ManualMatchRequest struct {
	DocumentID        string  `json:"documentId" binding:"required" validate:"required"`
	BankTransactionID string  `json:"bankTransactionId" binding:"required" validate:"required"`
	Notes             *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// BulkMatchRequest runs several manual matches.
type BulkMatchRequest struct {
	Matches []ManualMatchRequest `json:"matches" binding:"required" validate:"required,min=1,max=200,dive"`
}

// UnreconcileRequest targets exactly one of a transaction or a document.
type UnreconcileRequest struct {
	TransactionID *string `json:"transactionId,omitempty"`
	DocumentID    *string `json:"documentId,omitempty"`
	Reason        *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// Check ensures exactly one target is set.
func (r UnreconcileRequest) Check() error {
	if (r.TransactionID == nil) == (r.DocumentID == nil) {
		return fmt.Errorf("%w: exactly one of transactionId or documentId is required", apperrors.ErrValidation)
	}
	return nil
}

// UnreconcileResponse reports the restored entity and what was undone.
type UnreconcileResponse struct {
	Transaction      *domain.BankTransaction `json:"transaction,omitempty"`
	Document         *domain.Document        `json:"document,omitempty"`
	RecordsRemoved   int                     `json:"recordsRemoved"`
	TransfersRemoved int                     `json:"transfersRemoved"`
	EntriesReversed  int                     `json:"entriesReversed"`
	Warnings         []string                `json:"warnings,omitempty"`
}
