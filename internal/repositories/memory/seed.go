package memory

import (
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// The helpers below load reference data and fixtures. Statement ingestion, document
// extraction and settings are owned elsewhere, so the engine never calls them.

// AddBankAccount stores a bank account. A tenant holds at most one active account per IBAN.
func (s *Store) AddBankAccount(a domain.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.IBAN = domain.NormalizeIBAN(a.IBAN)
	if a.IsActive {
		for id, other := range s.st.accounts {
			if id != a.BankAccountID && other.IsActive && other.TenantID == a.TenantID && other.IBAN == a.IBAN {
				return fmt.Errorf("%w: IBAN %s already has active account %s", apperrors.ErrDuplicate, a.IBAN, id)
			}
		}
	}
	s.st.accounts[a.BankAccountID] = a
	return nil
}

// AddTransaction stores a transaction; tenant, currency and IBAN come from its account.
func (s *Store) AddTransaction(tx domain.BankTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ReconciliationStatus == domain.StatusNone {
		tx.ReconciliationStatus = domain.StatusUnreconciled
	}
	s.st.transactions[tx.BankTransactionID] = tx
}

// AddDocument stores a document.
func (s *Store) AddDocument(d domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.documents[d.DocumentID] = d
}

// AddChartAccount stores a chart of accounts entry.
func (s *Store) AddChartAccount(a domain.ChartAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.chart[chartKey(a.TenantID, a.AccountCode)] = a
}

// AddAnalytic stores an IBAN analytic mapping.
func (s *Store) AddAnalytic(a domain.BankAccountAnalytic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.IBAN = domain.NormalizeIBAN(a.IBAN)
	s.st.analytics[analyticKey(a.TenantID, a.IBAN, a.CurrencyCode)] = a
}

// AddOutstandingItem stores an outstanding item.
func (s *Store) AddOutstandingItem(i domain.OutstandingItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.items[i.ItemID] = i
}

// AddSuggestion stores a suggestion as-is.
func (s *Store) AddSuggestion(sg domain.Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg.Reasons = slices.Clone(sg.Reasons)
	s.st.suggestions[sg.SuggestionID] = sg
}

// SetFxBands replaces the plausibility bands.
func (s *Store) SetFxBands(b domain.FxBands) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.fxBands = b
}

// Transaction returns a stored transaction as the repositories would load it.
func (s *Store) Transaction(id string) (domain.BankTransaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.st.transactions[id]
	if !ok {
		return tx, false
	}
	return s.st.enrich(tx), true
}

// Document returns a stored document.
func (s *Store) Document(id string) (domain.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.st.documents[id]
	return d, ok
}

// Suggestion returns a stored suggestion.
func (s *Store) Suggestion(id string) (domain.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.st.suggestions[id]
	return sg, ok
}

// Suggestions returns every stored suggestion ordered by id.
func (s *Store) Suggestions() []domain.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Suggestion, 0, len(s.st.suggestions))
	for _, sg := range s.st.suggestions {
		out = append(out, sg)
	}
	slices.SortFunc(out, func(a, b domain.Suggestion) int { return strings.Compare(a.SuggestionID, b.SuggestionID) })
	return out
}

// PaymentSummary returns the stored summary for an invoice.
func (s *Store) PaymentSummary(documentID string) (domain.PaymentSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.st.summaries[documentID]
	return ps, ok
}

// Records returns every reconciliation record.
func (s *Store) Records() []domain.ReconciliationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ReconciliationRecord, 0, len(s.st.records))
	for _, r := range s.st.records {
		out = append(out, r)
	}
	return out
}

// Transfers returns every transfer reconciliation.
func (s *Store) Transfers() []domain.TransferReconciliation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TransferReconciliation, 0, len(s.st.transfers))
	for _, t := range s.st.transfers {
		out = append(out, t)
	}
	return out
}

// OutstandingItem returns a stored item.
func (s *Store) OutstandingItem(id string) (domain.OutstandingItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.st.items[id]
	return i, ok
}

// LedgerEntries returns the tenant's ledger rows ordered by row key.
func (s *Store) LedgerEntries(tenantID string) []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range s.st.entries {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b domain.LedgerEntry) int { return strings.Compare(a.RowKey, b.RowKey) })
	return out
}

// AccountBalance sums the daily balances of one account.
func (s *Store) AccountBalance(tenantID, accountCode string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	prefix := tenantID + "|" + accountCode + "|"
	for k, v := range s.st.balances {
		if strings.HasPrefix(k, prefix) {
			total = total.Add(v)
		}
	}
	return total
}

// Splits returns the stored splits of a transaction.
func (s *Store) Splits(transactionID string) []domain.BankTransactionSplit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.splits[transactionID])
}

func chartKey(tenantID, code string) string {
	return tenantID + "|" + code
}

func analyticKey(tenantID, iban, currency string) string {
	return tenantID + "|" + domain.NormalizeIBAN(iban) + "|" + strings.ToUpper(currency)
}
