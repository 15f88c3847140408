package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentReader defines read operations for documents and payment summaries.
type DocumentReader interface {
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListUnreconciledDocuments returns at most limit documents that are not matched.
	ListUnreconciledDocuments(ctx context.Context, tenantID string, limit int) ([]domain.Document, error)

	// CountDocuments returns the tenant's total and matched document counts.
	CountDocuments(ctx context.Context, tenantID string) (total int, reconciled int, err error)

	// FindPaymentSummary returns apperrors.ErrNotFound when the invoice has none.
	FindPaymentSummary(ctx context.Context, documentID string) (*domain.PaymentSummary, error)
}

// DocumentWriter defines write operations for documents and payment summaries.
type DocumentWriter interface {
	UpdateDocumentStatus(ctx context.Context, documentID string, status domain.ReconciliationStatus) error
	UpdateDocumentPayment(ctx context.Context, documentID string, status *domain.PaymentStatus, paid decimal.Decimal, lastPaymentDate *time.Time) error
	UpsertPaymentSummary(ctx context.Context, summary domain.PaymentSummary) error
	DeletePaymentSummaries(ctx context.Context, documentIDs []string) error
}

// DocumentRepositoryFacade combines read and write operations.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
