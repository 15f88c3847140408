package dto

import (
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitRequest is one requested allocation line.
type SplitRequest struct {
	AccountCode string          `json:"accountCode" binding:"required" validate:"required,max=32"`
	Amount      decimal.Decimal `json:"amount" validate:"ne=0"`
	Notes       string          `json:"notes,omitempty" validate:"max=500"`
}

// SetSplitsRequest replaces every split of a transaction.
type SetSplitsRequest struct {
	Splits []SplitRequest `json:"splits" binding:"required" validate:"required,min=1,max=50,dive"`
}

// ToSplitInputs converts the request lines to domain inputs.
func (r SetSplitsRequest) ToSplitInputs() []domain.SplitInput {
	out := make([]domain.SplitInput, len(r.Splits))
	for i, s := range r.Splits {
		out[i] = domain.SplitInput{AccountCode: s.AccountCode, Amount: s.Amount, Notes: s.Notes}
	}
	return out
}
