package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
)

// transferService implements portssvc.TransferSvcFacade.
type transferService struct {
	*reconciler
	store       portsrepo.TransactionManager
	regenerator portssvc.SuggestionRefresherSvc
}

// TransferOption configures the transfer service.
type TransferOption func(*transferService)

// WithTransferRegenerator triggers suggestion regeneration after a transfer is deleted.
func WithTransferRegenerator(svc portssvc.SuggestionRefresherSvc) TransferOption {
	return func(s *transferService) {
		s.regenerator = svc
	}
}

// NewTransferService creates the transfer service.
func NewTransferService(store portsrepo.TransactionManager, engine *reconciler, options ...TransferOption) portssvc.TransferSvcFacade {
	svc := &transferService{reconciler: engine, store: store}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

func (s *transferService) CreateTransferReconciliation(ctx context.Context, tenantID string, req dto.CreateTransferRequest, actor string) (*dto.TransferResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	var u *matchUnit
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		u = &matchUnit{
			tenantID:      tenantID,
			actor:         actor,
			notes:         req.Notes,
			repos:         repos,
			transactionID: req.SourceTransactionID,
			destinationID: req.DestinationTransactionID,
			fxRate:        req.FxRate,
			result:        &domain.MatchResult{Kind: domain.KindTransfer},
		}
		return s.run(ctx, s.transferPipeline(), u)
	})
	if err != nil {
		s.LogWarn(ctx, "Transfer reconciliation failed",
			slog.String("source_transaction_id", req.SourceTransactionID),
			slog.String("destination_transaction_id", req.DestinationTransactionID),
			slog.String("error", err.Error()))
		return nil, err
	}

	resp := &dto.TransferResponse{
		Transfer: *u.result.Transfer,
		Created:  u.transferNew,
		Posted:   u.posted != nil,
		Warnings: u.result.Warnings,
	}
	s.LogInfo(ctx, "Transfer reconciliation recorded",
		slog.String("transfer_id", resp.Transfer.TransferID),
		slog.Bool("created", resp.Created),
		slog.Bool("posted", resp.Posted))
	return resp, nil
}

func (s *transferService) ListTransfers(ctx context.Context, tenantID string, pendingOnly bool) ([]domain.TransferReconciliation, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	var out []domain.TransferReconciliation
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		out, err = repos.Transfers().ListTransfers(ctx, tenantID, pendingOnly)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list transfers", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if out == nil {
		out = []domain.TransferReconciliation{}
	}
	return out, nil
}

func (s *transferService) DeleteTransfer(ctx context.Context, tenantID string, transferID string, actor string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		transfer, err := repos.Transfers().FindTransferByID(ctx, transferID)
		if err != nil {
			return err
		}
		if err := s.AuthorizeTenant(ctx, tenantID, transfer.TenantID, "transfer "+transferID); err != nil {
			return err
		}
		source, err := repos.BankTransactions().FindTransactionByID(ctx, transfer.SourceTransactionID)
		if err != nil {
			return err
		}
		_, err = s.releaseTransaction(ctx, repos, tenantID, *source, actor)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transfer", slog.String("transfer_id", transferID))
		return err
	}
	s.metrics.unreconcile()
	s.LogInfo(ctx, "Transfer deleted", slog.String("transfer_id", transferID))
	regenerateAfterRelease(ctx, s.reconciler, s.regenerator, tenantID)
	return nil
}
