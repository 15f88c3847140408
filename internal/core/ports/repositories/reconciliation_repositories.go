package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

// ReconciliationReader defines read operations for document/transaction records.
type ReconciliationReader interface {
	// FindActiveRecord returns apperrors.ErrNotFound when the pair is not linked.
	FindActiveRecord(ctx context.Context, documentID, transactionID string) (*domain.ReconciliationRecord, error)
	ListRecordsByTransaction(ctx context.Context, transactionID string) ([]domain.ReconciliationRecord, error)
	ListRecordsByDocument(ctx context.Context, documentID string) ([]domain.ReconciliationRecord, error)
}

// ReconciliationWriter defines write operations for records.
type ReconciliationWriter interface {
	// CreateRecord returns apperrors.ErrAlreadyMatched when the pair is already linked.
	CreateRecord(ctx context.Context, record domain.ReconciliationRecord) error
	DeleteRecords(ctx context.Context, recordIDs []string) error
}

// ReconciliationRepositoryFacade combines read and write operations.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}

// TransferReader defines read operations for transfer reconciliations.
type TransferReader interface {
	FindTransferByID(ctx context.Context, transferID string) (*domain.TransferReconciliation, error)
	// FindTransferByPair returns apperrors.ErrNotFound when the pair has no transfer.
	FindTransferByPair(ctx context.Context, sourceID, destinationID string) (*domain.TransferReconciliation, error)
	ListTransfersByTransaction(ctx context.Context, transactionID string) ([]domain.TransferReconciliation, error)
	ListTransfers(ctx context.Context, tenantID string, pendingOnly bool) ([]domain.TransferReconciliation, error)
}

// TransferWriter defines write operations for transfer reconciliations.
type TransferWriter interface {
	// CreateTransfer returns apperrors.ErrDuplicate when the pair already exists.
	CreateTransfer(ctx context.Context, transfer domain.TransferReconciliation) error
	DeleteTransfer(ctx context.Context, transferID string) error
}

// TransferRepositoryFacade combines read and write operations.
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
}
