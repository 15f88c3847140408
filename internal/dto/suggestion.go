package dto

import (
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListSuggestionsParams holds page-based pagination for the suggestion list.
type ListSuggestionsParams struct {
	Page int `form:"page" validate:"gte=0"`
	Size int `form:"size" validate:"gte=0,lte=100"`
}

// AcceptSuggestionRequest carries optional notes for the created match.
type AcceptSuggestionRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// RejectSuggestionRequest carries an optional rejection reason.
type RejectSuggestionRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// RegenerateSuggestionsRequest limits regeneration to one transaction when set.
type RegenerateSuggestionsRequest struct {
	TransactionID *string `json:"transactionId,omitempty"`
}

// TransferCandidatesParams are the query options for transfer detection.
type TransferCandidatesParams struct {
	DaysWindow     int     `form:"daysWindow" validate:"gte=0,lte=31"`
	MaxResults     int     `form:"maxResults" validate:"gte=0,lte=500"`
	CrossCurrency  *bool   `form:"crossCurrency"`
	FxTolerancePct float64 `form:"fxTolerancePct" validate:"gte=0,lte=50"`
}

// DocumentSummary is the document context embedded in a suggestion.
type DocumentSummary struct {
	DocumentID   string              `json:"documentID"`
	Name         string              `json:"name"`
	Type         domain.DocumentType `json:"type"`
	Amount       decimal.Decimal     `json:"amount"`
	DocumentDate *time.Time          `json:"documentDate,omitempty"`
	Counterparty string              `json:"counterparty,omitempty"`
	FileURL      string              `json:"fileURL,omitempty"`
}

// TransactionSummary is the bank transaction context embedded in a suggestion.
type TransactionSummary struct {
	BankTransactionID string          `json:"bankTransactionID"`
	BankAccountID     string          `json:"bankAccountID"`
	TransactionDate   time.Time       `json:"transactionDate"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyCode      string          `json:"currencyCode"`
	IBAN              string          `json:"iban"`
}

// ChartAccountSummary names the proposed ledger account.
type ChartAccountSummary struct {
	AccountCode string `json:"accountCode"`
	Name        string `json:"name,omitempty"`
}

// TransferSummary embeds the counterpart of a transfer suggestion.
type TransferSummary struct {
	Destination  TransactionSummary `json:"destination"`
	FxRate       decimal.Decimal    `json:"fxRate"`
	SameCurrency bool               `json:"sameCurrency"`
	DayDiff      int                `json:"dayDiff"`
}

// SuggestionResponse is one enriched row of the suggestion list.
type SuggestionResponse struct {
	SuggestionID    string                  `json:"suggestionID"`
	Kind            domain.SuggestionKind   `json:"kind"`
	Status          domain.SuggestionStatus `json:"status"`
	Confidence      float64                 `json:"confidence"`
	Reasons         []string                `json:"reasons"`
	Ephemeral       bool                    `json:"ephemeral"`
	Document        *DocumentSummary        `json:"document,omitempty"`
	BankTransaction *TransactionSummary     `json:"bankTransaction,omitempty"`
	ChartAccount    *ChartAccountSummary    `json:"chartAccount,omitempty"`
	Transfer        *TransferSummary        `json:"transfer,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// ListSuggestionsResponse is one page of merged suggestions.
type ListSuggestionsResponse struct {
	Items []SuggestionResponse `json:"items"`
	Total int                  `json:"total"`
	Page  int                  `json:"page"`
	Size  int                  `json:"size"`
}

// ToTransactionSummary converts a domain.BankTransaction to its summary DTO.
func ToTransactionSummary(tx domain.BankTransaction) TransactionSummary {
	return TransactionSummary{
		BankTransactionID: tx.BankTransactionID,
		BankAccountID:     tx.BankAccountID,
		TransactionDate:   tx.TransactionDate,
		Description:       tx.Description,
		Amount:            tx.Amount,
		CurrencyCode:      tx.CurrencyCode,
		IBAN:              tx.IBAN,
	}
}
