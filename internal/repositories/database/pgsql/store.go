package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChartDecorator wraps the chart repository of every unit of work, e.g. with a cache.
type ChartDecorator func(portsrepo.ChartRepository) portsrepo.ChartRepository

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithChartDecorator installs a wrapper around the chart repository.
func WithChartDecorator(d ChartDecorator) StoreOption {
	return func(s *Store) {
		s.decorateChart = d
	}
}

// Store implements portsrepo.TransactionManager on PostgreSQL. Every unit of work runs in
// one database transaction; savepoints are nested pgx transactions.
type Store struct {
	BaseRepository
	decorateChart ChartDecorator
}

// NewStore creates a Store over the pool.
func NewStore(pool *pgxpool.Pool, opts ...StoreOption) *Store {
	s := &Store{BaseRepository: BaseRepository{Pool: pool}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithinTx runs fn in a transaction, committing when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) (err error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.Rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			err = errors.Join(err, s.Rollback(ctx, tx))
		}
	}()

	if err = fn(ctx, s.bind(tx)); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

func (s *Store) bind(tx pgx.Tx) *txRepos {
	return &txRepos{store: s, tx: tx}
}

// txRepos hands out repositories bound to one pgx transaction.
type txRepos struct {
	store *Store
	tx    pgx.Tx
}

var _ portsrepo.TxRepositories = (*txRepos)(nil)

func (t *txRepos) BankTransactions() portsrepo.BankTransactionRepositoryFacade {
	return &pgxBankTransactionRepository{db: t.tx}
}

func (t *txRepos) Documents() portsrepo.DocumentRepositoryFacade {
	return &pgxDocumentRepository{db: t.tx}
}

func (t *txRepos) Suggestions() portsrepo.SuggestionRepositoryFacade {
	return &pgxSuggestionRepository{db: t.tx}
}

func (t *txRepos) Reconciliations() portsrepo.ReconciliationRepositoryFacade {
	return &pgxReconciliationRepository{db: t.tx}
}

func (t *txRepos) Transfers() portsrepo.TransferRepositoryFacade {
	return &pgxTransferRepository{db: t.tx}
}

func (t *txRepos) OutstandingItems() portsrepo.OutstandingItemRepositoryFacade {
	return &pgxOutstandingItemRepository{db: t.tx}
}

func (t *txRepos) Splits() portsrepo.SplitRepositoryFacade {
	return &pgxSplitRepository{db: t.tx}
}

func (t *txRepos) Ledger() portsrepo.LedgerRepositoryFacade {
	return &pgxLedgerRepository{db: t.tx}
}

func (t *txRepos) Chart() portsrepo.ChartRepository {
	var chart portsrepo.ChartRepository = &pgxChartRepository{db: t.tx}
	if t.store.decorateChart != nil {
		chart = t.store.decorateChart(chart)
	}
	return chart
}

// Savepoint runs fn inside a nested transaction. pgx issues SAVEPOINT for it,
// and a failure rolls back to that savepoint only.
func (t *txRepos) Savepoint(ctx context.Context, fn portsrepo.TxFunc) error {
	nested, err := t.tx.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to create savepoint", err)
	}
	if err := fn(ctx, t.store.bind(nested)); err != nil {
		return errors.Join(err, t.store.Rollback(ctx, nested))
	}
	return t.store.Commit(ctx, nested)
}
