package models

// Suggestion is a suggestions row. Criteria holds the kind-specific payload as JSONB;
// DestinationTransactionID duplicates the transfer criteria so it can be indexed.
type Suggestion struct {
	SuggestionID             string   `db:"suggestion_id"`
	Kind                     string   `db:"kind"`
	Criteria                 []byte   `db:"criteria"`
	Confidence               float64  `db:"confidence"`
	Status                   string   `db:"status"`
	DocumentID               *string  `db:"document_id"`
	BankTransactionID        *string  `db:"bank_transaction_id"`
	DestinationTransactionID *string  `db:"destination_transaction_id"`
	ChartAccountCode         *string  `db:"chart_account_code"`
	Reasons                  []string `db:"reasons"`
	Dismissed                bool     `db:"dismissed"`
	AuditFields
}
