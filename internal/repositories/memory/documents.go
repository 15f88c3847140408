package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (t *txRepos) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	d, ok := t.st.documents[documentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("document " + documentID + " not found")
	}
	return &d, nil
}

func (t *txRepos) ListUnreconciledDocuments(ctx context.Context, tenantID string, limit int) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range t.st.documents {
		if d.TenantID == tenantID && d.ReconciliationStatus.IsOpen() {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b domain.Document) int { return strings.Compare(a.DocumentID, b.DocumentID) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *txRepos) CountDocuments(ctx context.Context, tenantID string) (int, int, error) {
	total, reconciled := 0, 0
	for _, d := range t.st.documents {
		if d.TenantID != tenantID {
			continue
		}
		total++
		if d.ReconciliationStatus.IsMatched() {
			reconciled++
		}
	}
	return total, reconciled, nil
}

func (t *txRepos) FindPaymentSummary(ctx context.Context, documentID string) (*domain.PaymentSummary, error) {
	ps, ok := t.st.summaries[documentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("payment summary for document " + documentID + " not found")
	}
	return &ps, nil
}

func (t *txRepos) UpdateDocumentStatus(ctx context.Context, documentID string, status domain.ReconciliationStatus) error {
	d, ok := t.st.documents[documentID]
	if !ok {
		return apperrors.NewNotFoundError("document " + documentID + " not found")
	}
	d.ReconciliationStatus = status
	t.st.documents[documentID] = d
	return nil
}

func (t *txRepos) UpdateDocumentPayment(ctx context.Context, documentID string, status *domain.PaymentStatus, paid decimal.Decimal, lastPaymentDate *time.Time) error {
	d, ok := t.st.documents[documentID]
	if !ok {
		return apperrors.NewNotFoundError("document " + documentID + " not found")
	}
	d.PaymentStatus = status
	d.PaidAmount = paid
	d.LastPaymentDate = lastPaymentDate
	t.st.documents[documentID] = d
	return nil
}

func (t *txRepos) UpsertPaymentSummary(ctx context.Context, summary domain.PaymentSummary) error {
	t.st.summaries[summary.DocumentID] = summary
	return nil
}

func (t *txRepos) DeletePaymentSummaries(ctx context.Context, documentIDs []string) error {
	for _, id := range documentIDs {
		delete(t.st.summaries, id)
	}
	return nil
}
