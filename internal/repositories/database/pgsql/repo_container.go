package pgsql

import (
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL store used by the services.
func NewRepositoryProvider(dbPool *pgxpool.Pool, opts ...StoreOption) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Store: NewStore(dbPool, opts...),
	}
}
