package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation_app/internal/models"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type pgxDocumentRepository struct {
	db pgx.Tx
}

var _ portsrepo.DocumentRepositoryFacade = (*pgxDocumentRepository)(nil)

const selectDocuments = `
	SELECT document_id, tenant_id, name, document_type, reconciliation_status, payment_status, paid_amount,
		last_payment_date, storage_key, extracted_fields, created_at, created_by, last_updated_at, last_updated_by
	FROM documents`

func scanDocument(row pgx.CollectableRow) (models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID,
		&m.TenantID,
		&m.Name,
		&m.DocumentType,
		&m.ReconciliationStatus,
		&m.PaymentStatus,
		&m.PaidAmount,
		&m.LastPaymentDate,
		&m.StorageKey,
		&m.ExtractedFields,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *pgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	rows, err := r.db.Query(ctx, selectDocuments+` WHERE document_id = $1`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query document %s: %w", documentID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanDocument)
	if err != nil {
		return nil, notFoundOr(err, "document "+documentID)
	}
	d := mapping.ToDomainDocument(m)
	return &d, nil
}

func (r *pgxDocumentRepository) ListUnreconciledDocuments(ctx context.Context, tenantID string, limit int) ([]domain.Document, error) {
	query := selectDocuments + `
		WHERE tenant_id = $1 AND reconciliation_status IN ($2, '')
		ORDER BY document_id
		LIMIT NULLIF($3::int, 0)`
	rows, err := r.db.Query(ctx, query, tenantID, string(domain.StatusUnreconciled), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unreconciled documents: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	out := make([]domain.Document, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainDocument(m)
	}
	return out, nil
}

func (r *pgxDocumentRepository) CountDocuments(ctx context.Context, tenantID string) (int, int, error) {
	query := `
		SELECT count(*), count(*) FILTER (WHERE reconciliation_status = $2)
		FROM documents WHERE tenant_id = $1;
	`
	var total, reconciled int
	if err := r.db.QueryRow(ctx, query, tenantID, string(domain.StatusMatched)).Scan(&total, &reconciled); err != nil {
		return 0, 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return total, reconciled, nil
}

func (r *pgxDocumentRepository) FindPaymentSummary(ctx context.Context, documentID string) (*domain.PaymentSummary, error) {
	query := `
		SELECT document_id, tenant_id, total_amount, paid_amount, remaining_amount, payment_status,
			last_payment_date, updated_at
		FROM payment_summaries
		WHERE document_id = $1;
	`
	var ps domain.PaymentSummary
	var status string
	err := r.db.QueryRow(ctx, query, documentID).Scan(
		&ps.DocumentID,
		&ps.TenantID,
		&ps.TotalAmount,
		&ps.PaidAmount,
		&ps.RemainingAmount,
		&status,
		&ps.LastPaymentDate,
		&ps.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, "payment summary for document "+documentID)
	}
	ps.PaymentStatus = domain.PaymentStatus(status)
	return &ps, nil
}

func (r *pgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, documentID string, status domain.ReconciliationStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE documents SET reconciliation_status = $2, last_updated_at = now()
		WHERE document_id = $1;
	`, documentID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update status of document %s: %w", documentID, err)
	}
	return mustAffect(tag, "document "+documentID)
}

func (r *pgxDocumentRepository) UpdateDocumentPayment(ctx context.Context, documentID string, status *domain.PaymentStatus, paid decimal.Decimal, lastPaymentDate *time.Time) error {
	var statusCol *string
	if status != nil {
		s := string(*status)
		statusCol = &s
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE documents SET payment_status = $2, paid_amount = $3, last_payment_date = $4, last_updated_at = now()
		WHERE document_id = $1;
	`, documentID, statusCol, paid, lastPaymentDate)
	if err != nil {
		return fmt.Errorf("failed to update payment of document %s: %w", documentID, err)
	}
	return mustAffect(tag, "document "+documentID)
}

func (r *pgxDocumentRepository) UpsertPaymentSummary(ctx context.Context, summary domain.PaymentSummary) error {
	query := `
		INSERT INTO payment_summaries (document_id, tenant_id, total_amount, paid_amount, remaining_amount,
			payment_status, last_payment_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (document_id) DO UPDATE SET
			total_amount = EXCLUDED.total_amount,
			paid_amount = EXCLUDED.paid_amount,
			remaining_amount = EXCLUDED.remaining_amount,
			payment_status = EXCLUDED.payment_status,
			last_payment_date = EXCLUDED.last_payment_date,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := r.db.Exec(ctx, query,
		summary.DocumentID,
		summary.TenantID,
		summary.TotalAmount,
		summary.PaidAmount,
		summary.RemainingAmount,
		string(summary.PaymentStatus),
		summary.LastPaymentDate,
		summary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment summary for document %s: %w", summary.DocumentID, err)
	}
	return nil
}

func (r *pgxDocumentRepository) DeletePaymentSummaries(ctx context.Context, documentIDs []string) error {
	if len(documentIDs) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM payment_summaries WHERE document_id = ANY($1);`, documentIDs); err != nil {
		return fmt.Errorf("failed to delete payment summaries: %w", err)
	}
	return nil
}
