package dto

import (
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest confirms a transfer between two own accounts.
type CreateTransferRequest struct {
	SourceTransactionID      string           `json:"sourceTransactionId" binding:"required" validate:"required"`
	DestinationTransactionID string           `json:"destinationTransactionId" binding:"required" validate:"required,nefield=SourceTransactionID"`
	FxRate                   *decimal.Decimal `json:"fxRate,omitempty" validate:"omitempty,gt=0"`
	Notes                    *string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// TransferResponse wraps the persisted transfer with booking information.
type TransferResponse struct {
	Transfer domain.TransferReconciliation `json:"transfer"`
	Created  bool                          `json:"created"`
	Posted   bool                          `json:"posted"`
	Warnings []string                      `json:"warnings,omitempty"`
}
