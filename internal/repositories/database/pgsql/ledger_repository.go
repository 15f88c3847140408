package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation_app/internal/models"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type pgxLedgerRepository struct {
	db pgx.Tx
}

var _ portsrepo.LedgerRepositoryFacade = (*pgxLedgerRepository)(nil)

const selectEntries = `
	SELECT entry_id, tenant_id, posting_date, account_code, debit, credit, currency, description, source_type,
		source_id, posting_key, row_key, document_id, bank_transaction_id, reconciliation_id, transfer_id, created_at
	FROM ledger_entries`

func scanEntry(row pgx.CollectableRow) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.PostingDate,
		&m.AccountCode,
		&m.Debit,
		&m.Credit,
		&m.Currency,
		&m.Description,
		&m.SourceType,
		&m.SourceID,
		&m.PostingKey,
		&m.RowKey,
		&m.DocumentID,
		&m.BankTransactionID,
		&m.ReconciliationID,
		&m.TransferID,
		&m.CreatedAt,
	)
	return m, err
}

func (r *pgxLedgerRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entries: %w", err)
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}

func (r *pgxLedgerRepository) FindEntriesByPostingKey(ctx context.Context, tenantID, postingKey string) ([]domain.LedgerEntry, error) {
	return r.queryEntries(ctx, selectEntries+` WHERE tenant_id = $1 AND posting_key = $2 ORDER BY row_key`, tenantID, postingKey)
}

func (r *pgxLedgerRepository) FindEntriesByLinks(ctx context.Context, tenantID string, links domain.LedgerLinks) ([]domain.LedgerEntry, error) {
	if links.IsEmpty() {
		return nil, nil
	}
	query := selectEntries + `
		WHERE tenant_id = $1
			AND ($2::text IS NULL OR document_id = $2)
			AND ($3::text IS NULL OR bank_transaction_id = $3)
			AND ($4::text IS NULL OR reconciliation_id = $4)
			AND ($5::text IS NULL OR transfer_id = $5)
		ORDER BY row_key`
	return r.queryEntries(ctx, query, tenantID, links.DocumentID, links.BankTransactionID, links.ReconciliationID, links.TransferID)
}

// InsertEntries writes every row of a posting in one batch. A repeated row key fails the batch.
func (r *pgxLedgerRepository) InsertEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		batch.Queue(`
			INSERT INTO ledger_entries (entry_id, tenant_id, posting_date, account_code, debit, credit, currency,
				description, source_type, source_id, posting_key, row_key, document_id, bank_transaction_id,
				reconciliation_id, transfer_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
		`, m.EntryID, m.TenantID, m.PostingDate, m.AccountCode, m.Debit, m.Credit, m.Currency, m.Description,
			m.SourceType, m.SourceID, m.PostingKey, m.RowKey, m.DocumentID, m.BankTransactionID,
			m.ReconciliationID, m.TransferID, m.CreatedAt)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ledger rows for posting %s", apperrors.ErrDuplicate, entries[0].PostingKey)
		}
		return fmt.Errorf("failed to insert ledger entries: %w", err)
	}
	return nil
}

func (r *pgxLedgerRepository) DeleteEntries(ctx context.Context, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM ledger_entries WHERE entry_id = ANY($1);`, entryIDs); err != nil {
		return fmt.Errorf("failed to delete ledger entries: %w", err)
	}
	return nil
}

// ApplyBalanceDeltas upserts the daily balance of each account.
func (r *pgxLedgerRepository) ApplyBalanceDeltas(ctx context.Context, deltas []domain.AccountBalanceDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range deltas {
		batch.Queue(`
			INSERT INTO account_balances (tenant_id, account_code, balance_date, balance)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (tenant_id, account_code, balance_date)
			DO UPDATE SET balance = account_balances.balance + EXCLUDED.balance;
		`, d.TenantID, d.AccountCode, d.Day, d.Delta)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to apply balance deltas: %w", err)
	}
	return nil
}
