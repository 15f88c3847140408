package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OutstandingItemFilter narrows ListItems.
type OutstandingItemFilter struct {
	Type   *domain.OutstandingItemType
	Status *domain.OutstandingItemStatus
}

// OutstandingItemReader defines read operations for outstanding items.
type OutstandingItemReader interface {
	FindItemByID(ctx context.Context, itemID string) (*domain.OutstandingItem, error)
	ListItems(ctx context.Context, tenantID string, filter OutstandingItemFilter) ([]domain.OutstandingItem, error)

	// FindOpenItemsForDocument returns OUTSTANDING items linked to the document.
	FindOpenItemsForDocument(ctx context.Context, tenantID, documentID string) ([]domain.OutstandingItem, error)

	// FindOpenUnlinkedItems returns OUTSTANDING items with no linked transaction whose amount
	// equals amount within tolerance, optionally restricted to a reference number.
	FindOpenUnlinkedItems(ctx context.Context, tenantID string, amount decimal.Decimal, referenceNumber *string) ([]domain.OutstandingItem, error)

	// ListItemsClearedBy returns CLEARED items linked to any of the transactions.
	ListItemsClearedBy(ctx context.Context, transactionIDs []string) ([]domain.OutstandingItem, error)
}

// OutstandingItemWriter defines write operations for outstanding items.
type OutstandingItemWriter interface {
	CreateItem(ctx context.Context, item domain.OutstandingItem) error
	UpdateItem(ctx context.Context, item domain.OutstandingItem) error
}

// OutstandingItemRepositoryFacade combines read and write operations.
type OutstandingItemRepositoryFacade interface {
	OutstandingItemReader
	OutstandingItemWriter
}
