package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type pgxReconciliationRepository struct {
	db pgx.Tx
}

var _ portsrepo.ReconciliationRepositoryFacade = (*pgxReconciliationRepository)(nil)

const selectRecords = `
	SELECT record_id, tenant_id, document_id, bank_transaction_id, match_type, confidence, reconciled_by, notes, created_at
	FROM reconciliation_records`

func scanRecord(row pgx.CollectableRow) (domain.ReconciliationRecord, error) {
	var rec domain.ReconciliationRecord
	var matchType string
	err := row.Scan(
		&rec.RecordID,
		&rec.TenantID,
		&rec.DocumentID,
		&rec.BankTransactionID,
		&matchType,
		&rec.Confidence,
		&rec.ReconciledBy,
		&rec.Notes,
		&rec.CreatedAt,
	)
	rec.MatchType = domain.MatchType(matchType)
	return rec, err
}

func (r *pgxReconciliationRepository) queryRecords(ctx context.Context, query string, args ...any) ([]domain.ReconciliationRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation records: %w", err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("failed to scan reconciliation records: %w", err)
	}
	return records, nil
}

func (r *pgxReconciliationRepository) FindActiveRecord(ctx context.Context, documentID, transactionID string) (*domain.ReconciliationRecord, error) {
	rows, err := r.db.Query(ctx, selectRecords+` WHERE document_id = $1 AND bank_transaction_id = $2`, documentID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation record: %w", err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if err != nil {
		return nil, notFoundOr(err, "reconciliation record for pair")
	}
	return &rec, nil
}

func (r *pgxReconciliationRepository) ListRecordsByTransaction(ctx context.Context, transactionID string) ([]domain.ReconciliationRecord, error) {
	return r.queryRecords(ctx, selectRecords+` WHERE bank_transaction_id = $1 ORDER BY created_at, record_id`, transactionID)
}

func (r *pgxReconciliationRepository) ListRecordsByDocument(ctx context.Context, documentID string) ([]domain.ReconciliationRecord, error) {
	return r.queryRecords(ctx, selectRecords+` WHERE document_id = $1 ORDER BY created_at, record_id`, documentID)
}

func (r *pgxReconciliationRepository) CreateRecord(ctx context.Context, record domain.ReconciliationRecord) error {
	query := `
		INSERT INTO reconciliation_records (record_id, tenant_id, document_id, bank_transaction_id, match_type,
			confidence, reconciled_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		record.RecordID,
		record.TenantID,
		record.DocumentID,
		record.BankTransactionID,
		string(record.MatchType),
		record.Confidence,
		record.ReconciledBy,
		record.Notes,
		record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: document %s and transaction %s", apperrors.ErrAlreadyMatched, record.DocumentID, record.BankTransactionID)
		}
		return fmt.Errorf("failed to insert reconciliation record: %w", err)
	}
	return nil
}

func (r *pgxReconciliationRepository) DeleteRecords(ctx context.Context, recordIDs []string) error {
	if len(recordIDs) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM reconciliation_records WHERE record_id = ANY($1);`, recordIDs); err != nil {
		return fmt.Errorf("failed to delete reconciliation records: %w", err)
	}
	return nil
}

type pgxTransferRepository struct {
	db pgx.Tx
}

var _ portsrepo.TransferRepositoryFacade = (*pgxTransferRepository)(nil)

const selectTransfers = `
	SELECT transfer_id, tenant_id, source_transaction_id, destination_transaction_id, source_account_code,
		destination_account_code, fx_rate, notes, created_by, created_at
	FROM transfer_reconciliations`

func scanTransfer(row pgx.CollectableRow) (domain.TransferReconciliation, error) {
	var t domain.TransferReconciliation
	err := row.Scan(
		&t.TransferID,
		&t.TenantID,
		&t.SourceTransactionID,
		&t.DestinationTransactionID,
		&t.SourceAccountCode,
		&t.DestinationAccountCode,
		&t.FxRate,
		&t.Notes,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	return t, err
}

func (r *pgxTransferRepository) queryTransfers(ctx context.Context, query string, args ...any) ([]domain.TransferReconciliation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	transfers, err := pgx.CollectRows(rows, scanTransfer)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transfers: %w", err)
	}
	return transfers, nil
}

func (r *pgxTransferRepository) findOne(ctx context.Context, what, query string, args ...any) (*domain.TransferReconciliation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, scanTransfer)
	if err != nil {
		return nil, notFoundOr(err, what)
	}
	return &t, nil
}

func (r *pgxTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.TransferReconciliation, error) {
	return r.findOne(ctx, "transfer "+transferID, selectTransfers+` WHERE transfer_id = $1`, transferID)
}

func (r *pgxTransferRepository) FindTransferByPair(ctx context.Context, sourceID, destinationID string) (*domain.TransferReconciliation, error) {
	return r.findOne(ctx, "transfer for pair",
		selectTransfers+` WHERE source_transaction_id = $1 AND destination_transaction_id = $2`, sourceID, destinationID)
}

func (r *pgxTransferRepository) ListTransfersByTransaction(ctx context.Context, transactionID string) ([]domain.TransferReconciliation, error) {
	return r.queryTransfers(ctx, selectTransfers+`
		WHERE source_transaction_id = $1 OR destination_transaction_id = $1
		ORDER BY created_at, transfer_id`, transactionID)
}

func (r *pgxTransferRepository) ListTransfers(ctx context.Context, tenantID string, pendingOnly bool) ([]domain.TransferReconciliation, error) {
	return r.queryTransfers(ctx, selectTransfers+`
		WHERE tenant_id = $1 AND (NOT $2 OR fx_rate IS NULL)
		ORDER BY created_at DESC, transfer_id`, tenantID, pendingOnly)
}

func (r *pgxTransferRepository) CreateTransfer(ctx context.Context, transfer domain.TransferReconciliation) error {
	query := `
		INSERT INTO transfer_reconciliations (transfer_id, tenant_id, source_transaction_id, destination_transaction_id,
			source_account_code, destination_account_code, fx_rate, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		transfer.TransferID,
		transfer.TenantID,
		transfer.SourceTransactionID,
		transfer.DestinationTransactionID,
		transfer.SourceAccountCode,
		transfer.DestinationAccountCode,
		transfer.FxRate,
		transfer.Notes,
		transfer.CreatedBy,
		transfer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transfer %s -> %s", apperrors.ErrDuplicate, transfer.SourceTransactionID, transfer.DestinationTransactionID)
		}
		return fmt.Errorf("failed to insert transfer: %w", err)
	}
	return nil
}

func (r *pgxTransferRepository) DeleteTransfer(ctx context.Context, transferID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM transfer_reconciliations WHERE transfer_id = $1;`, transferID); err != nil {
		return fmt.Errorf("failed to delete transfer %s: %w", transferID, err)
	}
	return nil
}
