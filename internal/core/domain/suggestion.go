package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SuggestionStatus is the lifecycle state of a suggestion. ACCEPTED and REJECTED are terminal.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "PENDING"
	SuggestionAccepted SuggestionStatus = "ACCEPTED"
	SuggestionRejected SuggestionStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed.
func (s SuggestionStatus) IsTerminal() bool {
	return s == SuggestionAccepted || s == SuggestionRejected
}

// SuggestionKind tags the matching criteria payload.
type SuggestionKind string

const (
	KindDocument    SuggestionKind = "DOCUMENT"
	KindAccountCode SuggestionKind = "ACCOUNT_CODE"
	KindTransfer    SuggestionKind = "TRANSFER"
)

// MatchingCriteria is the per-kind payload of a suggestion.
type MatchingCriteria interface {
	Kind() SuggestionKind
}

// DocumentCriteria explains a document to transaction match.
type DocumentCriteria struct {
	AmountDelta    decimal.Decimal `json:"amountDelta"`
	DayDiff        int             `json:"dayDiff"`
	NameSimilarity float64         `json:"nameSimilarity"`
}

// Kind implements MatchingCriteria.
func (DocumentCriteria) Kind() SuggestionKind { return KindDocument }

// AccountCodeCriteria proposes a ledger account for a transaction.
type AccountCodeCriteria struct {
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName,omitempty"`
	Occurrences int    `json:"occurrences"`
}

// Kind implements MatchingCriteria.
func (AccountCodeCriteria) Kind() SuggestionKind { return KindAccountCode }

// TransferCriteria links the suggestion's transaction (the debit side) to a credit elsewhere.
// FxRate converts destination units into source units: |source| = |destination| * FxRate.
type TransferCriteria struct {
	DestinationTransactionID string          `json:"destinationTransactionId"`
	FxRate                   decimal.Decimal `json:"fxRate"`
	SameCurrency             bool            `json:"sameCurrency"`
	DayDiff                  int             `json:"dayDiff"`
	SourceCurrency           string          `json:"sourceCurrency"`
	DestinationCurrency      string          `json:"destinationCurrency"`
}

// Kind implements MatchingCriteria.
func (TransferCriteria) Kind() SuggestionKind { return KindTransfer }

// Suggestion is a proposed reconciliation. It is either persisted or ephemeral;
// ephemeral suggestions carry a composite id and are never stored as PENDING.
type Suggestion struct {
	SuggestionID      string           `json:"suggestionID"`
	Confidence        float64          `json:"confidence"`
	Criteria          MatchingCriteria `json:"criteria"`
	Status            SuggestionStatus `json:"status"`
	DocumentID        *string          `json:"documentID,omitempty"`
	BankTransactionID *string          `json:"bankTransactionID,omitempty"`
	ChartAccountCode  *string          `json:"chartAccountCode,omitempty"`
	Reasons           []string         `json:"reasons"`
	Dismissed         bool             `json:"dismissed"`
	Ephemeral         bool             `json:"ephemeral"`
	AuditFields
}

// Kind returns the tag of the suggestion's criteria.
func (s Suggestion) Kind() SuggestionKind {
	if s.Criteria == nil {
		return ""
	}
	return s.Criteria.Kind()
}

// Transfer returns the transfer payload when the suggestion is a transfer.
func (s Suggestion) Transfer() (TransferCriteria, bool) {
	c, ok := s.Criteria.(TransferCriteria)
	return c, ok
}

// AccountCode returns the account-code payload when present.
func (s Suggestion) AccountCode() (AccountCodeCriteria, bool) {
	c, ok := s.Criteria.(AccountCodeCriteria)
	return c, ok
}

// Validate checks that the references required by the kind are present.
func (s Suggestion) Validate() error {
	switch c := s.Criteria.(type) {
	case DocumentCriteria:
		if s.DocumentID == nil || s.BankTransactionID == nil {
			return fmt.Errorf("document suggestion %s needs both document and transaction", s.SuggestionID)
		}
	case AccountCodeCriteria:
		if s.BankTransactionID == nil || c.AccountCode == "" {
			return fmt.Errorf("account-code suggestion %s needs a transaction and an account code", s.SuggestionID)
		}
	case TransferCriteria:
		if s.BankTransactionID == nil || c.DestinationTransactionID == "" {
			return fmt.Errorf("transfer suggestion %s needs source and destination transactions", s.SuggestionID)
		}
		if *s.BankTransactionID == c.DestinationTransactionID {
			return fmt.Errorf("transfer suggestion %s links a transaction to itself", s.SuggestionID)
		}
	case nil:
		return fmt.Errorf("suggestion %s has no matching criteria", s.SuggestionID)
	default:
		return fmt.Errorf("suggestion %s has unknown criteria %T", s.SuggestionID, c)
	}
	return nil
}

// TransactionIDs returns every bank transaction the suggestion references.
func (s Suggestion) TransactionIDs() []string {
	var ids []string
	if s.BankTransactionID != nil {
		ids = append(ids, *s.BankTransactionID)
	}
	if t, ok := s.Transfer(); ok {
		ids = append(ids, t.DestinationTransactionID)
	}
	return ids
}

const ephemeralTransferPrefix = "transfer:"

// EphemeralTransferID builds the composite id of a computed transfer suggestion.
func EphemeralTransferID(sourceID, destinationID string) string {
	return ephemeralTransferPrefix + sourceID + ":" + destinationID
}

// ParseEphemeralTransferID splits a composite id. ok is false for persisted ids.
func ParseEphemeralTransferID(id string) (sourceID, destinationID string, ok bool) {
	rest, found := strings.CutPrefix(id, ephemeralTransferPrefix)
	if !found {
		return "", "", false
	}
	sourceID, destinationID, found = strings.Cut(rest, ":")
	if !found || sourceID == "" || destinationID == "" {
		return "", "", false
	}
	return sourceID, destinationID, true
}

// RegenerationResult counts what a regeneration pass changed.
type RegenerationResult struct {
	Created    map[SuggestionKind]int `json:"created"`
	Superseded int                    `json:"superseded"`
	Scanned    int                    `json:"scanned"`
}

// Total returns the number of suggestions created across kinds.
func (r RegenerationResult) Total() int {
	n := 0
	for _, c := range r.Created {
		n += c
	}
	return n
}
