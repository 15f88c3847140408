package services

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
)

// TransferSvcFacade manages confirmed transfers between own accounts.
type TransferSvcFacade interface {
	// CreateTransferReconciliation validates and persists a transfer. An existing pair is
	// returned unchanged.
	CreateTransferReconciliation(ctx context.Context, tenantID string, req dto.CreateTransferRequest, actor string) (*dto.TransferResponse, error)

	// ListTransfers lists the tenant's transfers; pendingOnly keeps those without an FX rate.
	ListTransfers(ctx context.Context, tenantID string, pendingOnly bool) ([]domain.TransferReconciliation, error)

	// DeleteTransfer unreconciles both sides of a transfer.
	DeleteTransfer(ctx context.Context, tenantID string, transferID string, actor string) error
}
