package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) ListSuggestions(ctx context.Context, tenantID string, params dto.ListSuggestionsParams) (*dto.ListSuggestionsResponse, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListSuggestionsResponse), args.Error(1)
}

func (m *MockSuggestionService) GetTransferCandidates(ctx context.Context, tenantID string, params dto.TransferCandidatesParams) ([]domain.TransferCandidate, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransferCandidate), args.Error(1)
}

func (m *MockSuggestionService) Refresh(ctx context.Context, tenantID string) (bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSuggestionService) RegenerateSuggestions(ctx context.Context, tenantID string, transactionID *string) (*domain.RegenerationResult, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegenerationResult), args.Error(1)
}

var _ portssvc.SuggestionSvcFacade = (*MockSuggestionService)(nil)

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) AcceptSuggestion(ctx context.Context, tenantID string, suggestionID string, req dto.AcceptSuggestionRequest, actor string) (*domain.MatchResult, error) {
	args := m.Called(ctx, tenantID, suggestionID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

func (m *MockReconciliationService) RejectSuggestion(ctx context.Context, tenantID string, suggestionID string, req dto.RejectSuggestionRequest, actor string) (*domain.Suggestion, error) {
	args := m.Called(ctx, tenantID, suggestionID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Suggestion), args.Error(1)
}

func (m *MockReconciliationService) CreateManualMatch(ctx context.Context, tenantID string, req dto.ManualMatchRequest, actor string) (*domain.MatchResult, error) {
	args := m.Called(ctx, tenantID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

func (m *MockReconciliationService) CreateBulkMatches(ctx context.Context, tenantID string, req dto.BulkMatchRequest, actor string) (*domain.BulkMatchResult, error) {
	args := m.Called(ctx, tenantID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkMatchResult), args.Error(1)
}

func (m *MockReconciliationService) Unreconcile(ctx context.Context, tenantID string, req dto.UnreconcileRequest, actor string) (*dto.UnreconcileResponse, error) {
	args := m.Called(ctx, tenantID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UnreconcileResponse), args.Error(1)
}

func (m *MockReconciliationService) GetStats(ctx context.Context, tenantID string) (*domain.ReconciliationStats, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationStats), args.Error(1)
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) CreateTransferReconciliation(ctx context.Context, tenantID string, req dto.CreateTransferRequest, actor string) (*dto.TransferResponse, error) {
	args := m.Called(ctx, tenantID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransferResponse), args.Error(1)
}

func (m *MockTransferService) ListTransfers(ctx context.Context, tenantID string, pendingOnly bool) ([]domain.TransferReconciliation, error) {
	args := m.Called(ctx, tenantID, pendingOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransferReconciliation), args.Error(1)
}

func (m *MockTransferService) DeleteTransfer(ctx context.Context, tenantID string, transferID string, actor string) error {
	args := m.Called(ctx, tenantID, transferID, actor)
	return args.Error(0)
}

var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

type MockSplitService struct {
	mock.Mock
}

func (m *MockSplitService) SetSplits(ctx context.Context, tenantID string, transactionID string, req dto.SetSplitsRequest, actor string) ([]domain.BankTransactionSplit, error) {
	args := m.Called(ctx, tenantID, transactionID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransactionSplit), args.Error(1)
}

func (m *MockSplitService) GetSplits(ctx context.Context, tenantID string, transactionID string) ([]domain.BankTransactionSplit, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransactionSplit), args.Error(1)
}

func (m *MockSplitService) SuggestSplits(ctx context.Context, tenantID string, transactionID string) ([]domain.SplitInput, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SplitInput), args.Error(1)
}

var _ portssvc.SplitSvcFacade = (*MockSplitService)(nil)

type MockOutstandingService struct {
	mock.Mock
}

func (m *MockOutstandingService) ListItems(ctx context.Context, tenantID string, params dto.ListOutstandingItemsParams) ([]domain.OutstandingItem, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutstandingItem), args.Error(1)
}

func (m *MockOutstandingService) GetAgingReport(ctx context.Context, tenantID string, asOf time.Time) (*domain.AgingReport, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgingReport), args.Error(1)
}

func (m *MockOutstandingService) CreateItem(ctx context.Context, tenantID string, req dto.CreateOutstandingItemRequest, actor string) (*domain.OutstandingItem, error) {
	args := m.Called(ctx, tenantID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingItem), args.Error(1)
}

func (m *MockOutstandingService) MarkCleared(ctx context.Context, tenantID string, itemID string, req dto.ClearOutstandingItemRequest, actor string) (*domain.OutstandingItem, error) {
	args := m.Called(ctx, tenantID, itemID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingItem), args.Error(1)
}

func (m *MockOutstandingService) MarkStale(ctx context.Context, tenantID string, itemID string, req dto.OutstandingItemNotesRequest, actor string) (*domain.OutstandingItem, error) {
	args := m.Called(ctx, tenantID, itemID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingItem), args.Error(1)
}

func (m *MockOutstandingService) Void(ctx context.Context, tenantID string, itemID string, req dto.OutstandingItemNotesRequest, actor string) (*domain.OutstandingItem, error) {
	args := m.Called(ctx, tenantID, itemID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingItem), args.Error(1)
}

var _ portssvc.OutstandingItemSvcFacade = (*MockOutstandingService)(nil)

type MockObjectAccess struct {
	mock.Mock
}

func (m *MockObjectAccess) SignedURL(tenantID string, storageKey string) (string, error) {
	args := m.Called(tenantID, storageKey)
	return args.String(0), args.Error(1)
}

func (m *MockObjectAccess) Verify(tenantID string, token string, now time.Time) (string, error) {
	args := m.Called(tenantID, token, now)
	return args.String(0), args.Error(1)
}

var _ portssvc.ObjectAccessSvc = (*MockObjectAccess)(nil)
