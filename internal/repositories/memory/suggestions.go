package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
)

// suggestionTenant resolves the owning tenant through the document or the bank transaction.
func (s *state) suggestionTenant(sg domain.Suggestion) string {
	if sg.DocumentID != nil {
		if d, ok := s.documents[*sg.DocumentID]; ok {
			return d.TenantID
		}
	}
	if sg.BankTransactionID != nil {
		if tx, ok := s.transactions[*sg.BankTransactionID]; ok {
			return s.enrich(tx).TenantID
		}
	}
	return ""
}

func byConfidence(a, b domain.Suggestion) int {
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	return strings.Compare(a.SuggestionID, b.SuggestionID)
}

func (t *txRepos) FindSuggestionByID(ctx context.Context, suggestionID string) (*domain.Suggestion, error) {
	sg, ok := t.st.suggestions[suggestionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("suggestion " + suggestionID + " not found")
	}
	sg.Reasons = slices.Clone(sg.Reasons)
	return &sg, nil
}

func (t *txRepos) ListPendingSuggestions(ctx context.Context, tenantID string) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	for _, sg := range t.st.suggestions {
		if sg.Status == domain.SuggestionPending && t.st.suggestionTenant(sg) == tenantID {
			out = append(out, sg)
		}
	}
	slices.SortFunc(out, byConfidence)
	return out, nil
}

func (t *txRepos) CountPendingSuggestions(ctx context.Context, tenantID string) (int, error) {
	pending, err := t.ListPendingSuggestions(ctx, tenantID)
	return len(pending), err
}

func (t *txRepos) ListTransferSuggestions(ctx context.Context, tenantID string) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	for _, sg := range t.st.suggestions {
		if sg.Kind() == domain.KindTransfer && t.st.suggestionTenant(sg) == tenantID {
			out = append(out, sg)
		}
	}
	slices.SortFunc(out, byConfidence)
	return out, nil
}

func (t *txRepos) ListDismissedSuggestions(ctx context.Context, tenantID string) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	for _, sg := range t.st.suggestions {
		if sg.Dismissed && t.st.suggestionTenant(sg) == tenantID {
			out = append(out, sg)
		}
	}
	slices.SortFunc(out, byConfidence)
	return out, nil
}

func (t *txRepos) ListSuggestionsForTransaction(ctx context.Context, transactionID string) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	for _, sg := range t.st.suggestions {
		if slices.Contains(sg.TransactionIDs(), transactionID) {
			out = append(out, sg)
		}
	}
	slices.SortFunc(out, byConfidence)
	return out, nil
}

func (t *txRepos) CreateSuggestion(ctx context.Context, suggestion domain.Suggestion) error {
	if _, exists := t.st.suggestions[suggestion.SuggestionID]; exists {
		return apperrors.ErrDuplicate
	}
	suggestion.Reasons = slices.Clone(suggestion.Reasons)
	t.st.suggestions[suggestion.SuggestionID] = suggestion
	return nil
}

func (t *txRepos) ResolveSuggestion(ctx context.Context, suggestion domain.Suggestion) error {
	current, ok := t.st.suggestions[suggestion.SuggestionID]
	if !ok {
		return apperrors.NewNotFoundError("suggestion " + suggestion.SuggestionID + " not found")
	}
	if current.Status != domain.SuggestionPending {
		return apperrors.ErrInvalidState
	}
	current.Status = suggestion.Status
	current.Reasons = slices.Clone(suggestion.Reasons)
	current.Dismissed = suggestion.Dismissed
	current.LastUpdatedAt = suggestion.LastUpdatedAt
	current.LastUpdatedBy = suggestion.LastUpdatedBy
	t.st.suggestions[suggestion.SuggestionID] = current
	return nil
}

func (t *txRepos) RejectPendingSuggestions(ctx context.Context, filter portsrepo.RejectFilter) (int, error) {
	n := 0
	now := time.Now()
	for id, sg := range t.st.suggestions {
		if sg.Status != domain.SuggestionPending || id == filter.ExceptID {
			continue
		}
		hit := sg.DocumentID != nil && slices.Contains(filter.DocumentIDs, *sg.DocumentID)
		for _, txID := range sg.TransactionIDs() {
			hit = hit || slices.Contains(filter.TransactionIDs, txID)
		}
		if !hit {
			continue
		}
		sg.Status = domain.SuggestionRejected
		sg.Reasons = slices.Clone(sg.Reasons)
		if filter.Reason != "" {
			sg.Reasons = append(sg.Reasons, filter.Reason)
		}
		sg.LastUpdatedAt = now
		sg.LastUpdatedBy = filter.Actor
		t.st.suggestions[id] = sg
		n++
	}
	return n, nil
}
