package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

func byRowKey(a, b domain.LedgerEntry) int {
	return strings.Compare(a.RowKey, b.RowKey)
}

func (t *txRepos) FindEntriesByPostingKey(ctx context.Context, tenantID, postingKey string) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for _, e := range t.st.entries {
		if e.TenantID == tenantID && e.PostingKey == postingKey {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, byRowKey)
	return out, nil
}

func (t *txRepos) FindEntriesByLinks(ctx context.Context, tenantID string, links domain.LedgerLinks) ([]domain.LedgerEntry, error) {
	if links.IsEmpty() {
		return nil, nil
	}
	var out []domain.LedgerEntry
	for _, e := range t.st.entries {
		if e.TenantID == tenantID && links.Matches(e.Links) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, byRowKey)
	return out, nil
}

func (t *txRepos) InsertEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	for _, e := range entries {
		t.st.entries[e.EntryID] = e
	}
	return nil
}

func (t *txRepos) DeleteEntries(ctx context.Context, entryIDs []string) error {
	for _, id := range entryIDs {
		delete(t.st.entries, id)
	}
	return nil
}

func (t *txRepos) ApplyBalanceDeltas(ctx context.Context, deltas []domain.AccountBalanceDelta) error {
	for _, d := range deltas {
		key := d.TenantID + "|" + d.AccountCode + "|" + d.Day.Format("2006-01-02")
		t.st.balances[key] = t.st.balances[key].Add(d.Delta)
	}
	return nil
}
