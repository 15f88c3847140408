package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

func byIssueDate(a, b domain.OutstandingItem) int {
	if c := a.IssueDate.Compare(b.IssueDate); c != 0 {
		return c
	}
	return strings.Compare(a.ItemID, b.ItemID)
}

func (t *txRepos) FindItemByID(ctx context.Context, itemID string) (*domain.OutstandingItem, error) {
	i, ok := t.st.items[itemID]
	if !ok {
		return nil, apperrors.NewNotFoundError("outstanding item " + itemID + " not found")
	}
	return &i, nil
}

func (t *txRepos) ListItems(ctx context.Context, tenantID string, filter portsrepo.OutstandingItemFilter) ([]domain.OutstandingItem, error) {
	var out []domain.OutstandingItem
	for _, i := range t.st.items {
		if i.TenantID != tenantID {
			continue
		}
		if filter.Type != nil && i.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && i.Status != *filter.Status {
			continue
		}
		out = append(out, i)
	}
	slices.SortFunc(out, byIssueDate)
	return out, nil
}

func (t *txRepos) FindOpenItemsForDocument(ctx context.Context, tenantID, documentID string) ([]domain.OutstandingItem, error) {
	var out []domain.OutstandingItem
	for _, i := range t.st.items {
		if i.TenantID == tenantID && i.Status == domain.ItemOutstanding && i.DocumentID != nil && *i.DocumentID == documentID {
			out = append(out, i)
		}
	}
	slices.SortFunc(out, byIssueDate)
	return out, nil
}

func (t *txRepos) FindOpenUnlinkedItems(ctx context.Context, tenantID string, amount decimal.Decimal, referenceNumber *string) ([]domain.OutstandingItem, error) {
	var out []domain.OutstandingItem
	for _, i := range t.st.items {
		if i.TenantID != tenantID || i.Status != domain.ItemOutstanding || i.BankTransactionID != nil {
			continue
		}
		if !domain.AmountsMatch(i.Amount.Abs(), amount.Abs()) {
			continue
		}
		if referenceNumber != nil && (i.ReferenceNumber == nil || !strings.EqualFold(*i.ReferenceNumber, *referenceNumber)) {
			continue
		}
		out = append(out, i)
	}
	slices.SortFunc(out, byIssueDate)
	return out, nil
}

func (t *txRepos) ListItemsClearedBy(ctx context.Context, transactionIDs []string) ([]domain.OutstandingItem, error) {
	var out []domain.OutstandingItem
	for _, i := range t.st.items {
		if i.Status == domain.ItemCleared && i.BankTransactionID != nil && slices.Contains(transactionIDs, *i.BankTransactionID) {
			out = append(out, i)
		}
	}
	slices.SortFunc(out, byIssueDate)
	return out, nil
}

func (t *txRepos) CreateItem(ctx context.Context, item domain.OutstandingItem) error {
	if _, exists := t.st.items[item.ItemID]; exists {
		return apperrors.ErrDuplicate
	}
	t.st.items[item.ItemID] = item
	return nil
}

func (t *txRepos) UpdateItem(ctx context.Context, item domain.OutstandingItem) error {
	if _, ok := t.st.items[item.ItemID]; !ok {
		return apperrors.NewNotFoundError("outstanding item " + item.ItemID + " not found")
	}
	t.st.items[item.ItemID] = item
	return nil
}
