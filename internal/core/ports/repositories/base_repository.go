package repositories

import "context"

// TxFunc is a unit of work run against repositories bound to one store transaction.
type TxFunc func(ctx context.Context, repos TxRepositories) error

// TransactionManager runs units of work atomically: fn's changes are committed together
// or rolled back together when fn returns an error.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// TxRepositories exposes every repository bound to the current transaction.
type TxRepositories interface {
	BankTransactions() BankTransactionRepositoryFacade
	Documents() DocumentRepositoryFacade
	Suggestions() SuggestionRepositoryFacade
	Reconciliations() ReconciliationRepositoryFacade
	Transfers() TransferRepositoryFacade
	OutstandingItems() OutstandingItemRepositoryFacade
	Splits() SplitRepositoryFacade
	Ledger() LedgerRepositoryFacade
	Chart() ChartRepository

	// Savepoint runs fn in a nested transaction. An error from fn rolls back only the
	// nested changes; the outer unit stays usable.
	Savepoint(ctx context.Context, fn TxFunc) error
}
