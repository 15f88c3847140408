package domain

import "github.com/shopspring/decimal"

// BankTransactionSplit allocates part of a transaction to a ledger account.
type BankTransactionSplit struct {
	SplitID           string          `json:"splitID"`
	BankTransactionID string          `json:"bankTransactionID"`
	Amount            decimal.Decimal `json:"amount"`
	AccountCode       string          `json:"accountCode"`
	Notes             string          `json:"notes,omitempty"`
	Position          int             `json:"position"`
}

// SplitInput is a requested allocation line.
type SplitInput struct {
	AccountCode string          `json:"accountCode"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes,omitempty"`
}
