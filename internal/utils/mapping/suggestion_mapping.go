package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/models"
)

// ToModelSuggestion converts a domain Suggestion to a row, encoding the criteria as JSON.
func ToModelSuggestion(d domain.Suggestion) (models.Suggestion, error) {
	if d.Criteria == nil {
		return models.Suggestion{}, fmt.Errorf("suggestion %s has no matching criteria", d.SuggestionID)
	}
	raw, err := json.Marshal(d.Criteria)
	if err != nil {
		return models.Suggestion{}, fmt.Errorf("failed to encode criteria of suggestion %s: %w", d.SuggestionID, err)
	}
	m := models.Suggestion{
		SuggestionID:      d.SuggestionID,
		Kind:              string(d.Kind()),
		Criteria:          raw,
		Confidence:        d.Confidence,
		Status:            string(d.Status),
		DocumentID:        d.DocumentID,
		BankTransactionID: d.BankTransactionID,
		ChartAccountCode:  d.ChartAccountCode,
		Reasons:           d.Reasons,
		Dismissed:         d.Dismissed,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
	if m.Reasons == nil {
		m.Reasons = []string{}
	}
	if t, ok := d.Transfer(); ok {
		dest := t.DestinationTransactionID
		m.DestinationTransactionID = &dest
	}
	return m, nil
}

// ToDomainSuggestion converts a row to a domain Suggestion, decoding the criteria by kind.
func ToDomainSuggestion(m models.Suggestion) (domain.Suggestion, error) {
	criteria, err := DecodeCriteria(domain.SuggestionKind(m.Kind), m.Criteria)
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("suggestion %s: %w", m.SuggestionID, err)
	}
	return domain.Suggestion{
		SuggestionID:      m.SuggestionID,
		Confidence:        m.Confidence,
		Criteria:          criteria,
		Status:            domain.SuggestionStatus(m.Status),
		DocumentID:        m.DocumentID,
		BankTransactionID: m.BankTransactionID,
		ChartAccountCode:  m.ChartAccountCode,
		Reasons:           m.Reasons,
		Dismissed:         m.Dismissed,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainSuggestionSlice converts rows, failing on the first undecodable one.
func ToDomainSuggestionSlice(ms []models.Suggestion) ([]domain.Suggestion, error) {
	ds := make([]domain.Suggestion, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainSuggestion(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

// DecodeCriteria parses the JSON payload stored for a suggestion of the given kind.
func DecodeCriteria(kind domain.SuggestionKind, raw []byte) (domain.MatchingCriteria, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	switch kind {
	case domain.KindDocument:
		var c domain.DocumentCriteria
		err := json.Unmarshal(raw, &c)
		return c, err
	case domain.KindAccountCode:
		var c domain.AccountCodeCriteria
		err := json.Unmarshal(raw, &c)
		return c, err
	case domain.KindTransfer:
		var c domain.TransferCriteria
		err := json.Unmarshal(raw, &c)
		return c, err
	default:
		return nil, fmt.Errorf("unknown suggestion kind %q", kind)
	}
}
