package repositories

// RepositoryProvider holds the store used by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Store TransactionManager
}
