// Package memory is a transactional in-process store. Each unit of work runs on a
// private copy of the state that replaces the shared state only on success.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type state struct {
	accounts     map[string]domain.BankAccount
	transactions map[string]domain.BankTransaction
	documents    map[string]domain.Document
	summaries    map[string]domain.PaymentSummary
	suggestions  map[string]domain.Suggestion
	records      map[string]domain.ReconciliationRecord
	transfers    map[string]domain.TransferReconciliation
	items        map[string]domain.OutstandingItem
	splits       map[string][]domain.BankTransactionSplit
	entries      map[string]domain.LedgerEntry
	balances     map[string]decimal.Decimal
	chart        map[string]domain.ChartAccount
	analytics    map[string]domain.BankAccountAnalytic
	fxBands      domain.FxBands
}

func newState() *state {
	return &state{
		accounts:     map[string]domain.BankAccount{},
		transactions: map[string]domain.BankTransaction{},
		documents:    map[string]domain.Document{},
		summaries:    map[string]domain.PaymentSummary{},
		suggestions:  map[string]domain.Suggestion{},
		records:      map[string]domain.ReconciliationRecord{},
		transfers:    map[string]domain.TransferReconciliation{},
		items:        map[string]domain.OutstandingItem{},
		splits:       map[string][]domain.BankTransactionSplit{},
		entries:      map[string]domain.LedgerEntry{},
		balances:     map[string]decimal.Decimal{},
		chart:        map[string]domain.ChartAccount{},
		analytics:    map[string]domain.BankAccountAnalytic{},
		fxBands:      domain.DefaultFxBands(),
	}
}

// clone copies every map. Values are replaced wholesale on write, so sharing
// their pointer fields between copies is safe; slices are copied where written.
func (s *state) clone() *state {
	splits := make(map[string][]domain.BankTransactionSplit, len(s.splits))
	for k, v := range s.splits {
		splits[k] = slices.Clone(v)
	}
	return &state{
		accounts:     maps.Clone(s.accounts),
		transactions: maps.Clone(s.transactions),
		documents:    maps.Clone(s.documents),
		summaries:    maps.Clone(s.summaries),
		suggestions:  maps.Clone(s.suggestions),
		records:      maps.Clone(s.records),
		transfers:    maps.Clone(s.transfers),
		items:        maps.Clone(s.items),
		splits:       splits,
		entries:      maps.Clone(s.entries),
		balances:     maps.Clone(s.balances),
		chart:        maps.Clone(s.chart),
		analytics:    maps.Clone(s.analytics),
		fxBands:      maps.Clone(s.fxBands),
	}
}

// Store implements portsrepo.TransactionManager in memory. Units of work are serialized.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore creates an empty store seeded with the default FX bands.
func NewStore() *Store {
	return &Store{st: newState()}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithinTx runs fn on a copy of the state and publishes the copy when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(ctx, &txRepos{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// txRepos implements every repository facade over one working state.
type txRepos struct {
	st *state
}

var _ portsrepo.TxRepositories = (*txRepos)(nil)

func (t *txRepos) BankTransactions() portsrepo.BankTransactionRepositoryFacade { return t }
func (t *txRepos) Documents() portsrepo.DocumentRepositoryFacade               { return t }
func (t *txRepos) Suggestions() portsrepo.SuggestionRepositoryFacade           { return t }
func (t *txRepos) Reconciliations() portsrepo.ReconciliationRepositoryFacade   { return t }
func (t *txRepos) Transfers() portsrepo.TransferRepositoryFacade               { return t }
func (t *txRepos) OutstandingItems() portsrepo.OutstandingItemRepositoryFacade { return t }
func (t *txRepos) Splits() portsrepo.SplitRepositoryFacade                     { return t }
func (t *txRepos) Ledger() portsrepo.LedgerRepositoryFacade                    { return t }
func (t *txRepos) Chart() portsrepo.ChartRepository                            { return t }

// Savepoint restores the working state when fn fails.
func (t *txRepos) Savepoint(ctx context.Context, fn portsrepo.TxFunc) error {
	snapshot := t.st.clone()
	if err := fn(ctx, t); err != nil {
		*t.st = *snapshot
		return err
	}
	return nil
}
