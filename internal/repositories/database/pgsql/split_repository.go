package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type pgxSplitRepository struct {
	db pgx.Tx
}

var _ portsrepo.SplitRepositoryFacade = (*pgxSplitRepository)(nil)

func (r *pgxSplitRepository) ListSplits(ctx context.Context, transactionID string) ([]domain.BankTransactionSplit, error) {
	query := `
		SELECT split_id, bank_transaction_id, amount, account_code, notes, position
		FROM bank_transaction_splits
		WHERE bank_transaction_id = $1
		ORDER BY position;
	`
	rows, err := r.db.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits of %s: %w", transactionID, err)
	}
	defer rows.Close()

	splits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BankTransactionSplit, error) {
		var s domain.BankTransactionSplit
		err := row.Scan(&s.SplitID, &s.BankTransactionID, &s.Amount, &s.AccountCode, &s.Notes, &s.Position)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan splits of %s: %w", transactionID, err)
	}
	return splits, nil
}

// ReplaceSplits deletes the current allocation and inserts the new one in a single batch.
func (r *pgxSplitRepository) ReplaceSplits(ctx context.Context, transactionID string, splits []domain.BankTransactionSplit) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM bank_transaction_splits WHERE bank_transaction_id = $1;`, transactionID)
	for _, s := range splits {
		batch.Queue(`
			INSERT INTO bank_transaction_splits (split_id, bank_transaction_id, amount, account_code, notes, position)
			VALUES ($1, $2, $3, $4, $5, $6);
		`, s.SplitID, transactionID, s.Amount, s.AccountCode, s.Notes, s.Position)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to replace splits of %s: %w", transactionID, err)
	}
	return nil
}
