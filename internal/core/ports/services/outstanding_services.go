package services

import (
	"context"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
)

// OutstandingItemReaderSvc defines read operations for outstanding items.
type OutstandingItemReaderSvc interface {
	ListItems(ctx context.Context, tenantID string, params dto.ListOutstandingItemsParams) ([]domain.OutstandingItem, error)
	GetAgingReport(ctx context.Context, tenantID string, asOf time.Time) (*domain.AgingReport, error)
}

// OutstandingItemWriterSvc defines write operations for outstanding items.
type OutstandingItemWriterSvc interface {
	CreateItem(ctx context.Context, tenantID string, req dto.CreateOutstandingItemRequest, actor string) (*domain.OutstandingItem, error)
	MarkCleared(ctx context.Context, tenantID string, itemID string, req dto.ClearOutstandingItemRequest, actor string) (*domain.OutstandingItem, error)
	MarkStale(ctx context.Context, tenantID string, itemID string, req dto.OutstandingItemNotesRequest, actor string) (*domain.OutstandingItem, error)
	Void(ctx context.Context, tenantID string, itemID string, req dto.OutstandingItemNotesRequest, actor string) (*domain.OutstandingItem, error)
}

// OutstandingItemSvcFacade combines read and write operations.
type OutstandingItemSvcFacade interface {
	OutstandingItemReaderSvc
	OutstandingItemWriterSvc
}
