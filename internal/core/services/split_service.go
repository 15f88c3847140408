package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// splitService implements portssvc.SplitSvcFacade.
type splitService struct {
	BaseService
	store portsrepo.TransactionManager
}

// NewSplitService creates the split allocator.
func NewSplitService(store portsrepo.TransactionManager) portssvc.SplitSvcFacade {
	return &splitService{store: store}
}

var _ portssvc.SplitSvcFacade = (*splitService)(nil)

func (s *splitService) loadTransaction(ctx context.Context, repos portsrepo.TxRepositories, tenantID, transactionID string) (*domain.BankTransaction, error) {
	tx, err := repos.BankTransactions().FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeTenant(ctx, tenantID, tx.TenantID, "bank transaction "+transactionID); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *splitService) SetSplits(ctx context.Context, tenantID string, transactionID string, req dto.SetSplitsRequest, actor string) ([]domain.BankTransactionSplit, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	logger := s.GetLogger(ctx).With(slog.String("bank_transaction_id", transactionID), slog.String("actor", actor))

	var stored []domain.BankTransactionSplit
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		tx, err := s.loadTransaction(ctx, repos, tenantID, transactionID)
		if err != nil {
			return err
		}

		inputs := req.ToSplitInputs()
		total := decimal.Zero
		var codes []string
		for _, in := range inputs {
			total = total.Add(accounting.SignLike(in.Amount, tx.Amount))
			if !slices.Contains(codes, in.AccountCode) {
				codes = append(codes, in.AccountCode)
			}
		}
		if !domain.AmountsMatch(total, tx.Amount) {
			return fmt.Errorf("%w: splits total %s but transaction amount is %s",
				apperrors.ErrValidation, total.StringFixed(2), tx.Amount.StringFixed(2))
		}

		found, err := repos.Chart().FindChartAccounts(ctx, tenantID, codes)
		if err != nil {
			return err
		}
		var missing []string
		for _, code := range codes {
			if _, ok := found[code]; !ok {
				missing = append(missing, code)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: unknown accounts %s", apperrors.ErrValidation, strings.Join(missing, ", "))
		}

		stored = make([]domain.BankTransactionSplit, len(inputs))
		for i, in := range inputs {
			stored[i] = domain.BankTransactionSplit{
				SplitID:           newID(),
				BankTransactionID: transactionID,
				Amount:            accounting.SignLike(in.Amount, tx.Amount),
				AccountCode:       in.AccountCode,
				Notes:             in.Notes,
				Position:          i,
			}
		}
		return repos.Splits().ReplaceSplits(ctx, transactionID, stored)
	})
	if err != nil {
		logger.Warn("Failed to set splits", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Splits replaced", slog.Int("count", len(stored)))
	return stored, nil
}

func (s *splitService) GetSplits(ctx context.Context, tenantID string, transactionID string) ([]domain.BankTransactionSplit, error) {
	out := []domain.BankTransactionSplit{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if _, err := s.loadTransaction(ctx, repos, tenantID, transactionID); err != nil {
			return err
		}
		splits, err := repos.Splits().ListSplits(ctx, transactionID)
		if err != nil {
			return err
		}
		out = append(out, splits...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *splitService) SuggestSplits(ctx context.Context, tenantID string, transactionID string) ([]domain.SplitInput, error) {
	out := []domain.SplitInput{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		tx, err := s.loadTransaction(ctx, repos, tenantID, transactionID)
		if err != nil {
			return err
		}

		prior, err := repos.BankTransactions().ListTransactionsByDescription(ctx, tenantID, tx.Description, tx.BankTransactionID)
		if err != nil {
			return err
		}
		for _, p := range prior {
			if p.Amount.Sign() != tx.Amount.Sign() {
				continue
			}
			splits, err := repos.Splits().ListSplits(ctx, p.BankTransactionID)
			if err != nil {
				return err
			}
			if len(splits) == 0 {
				continue
			}
			pattern := make([]decimal.Decimal, len(splits))
			for i, sp := range splits {
				pattern[i] = sp.Amount
			}
			parts, err := accounting.ScaleToTotal(pattern, tx.Amount)
			if err != nil {
				s.LogDebug(ctx, "Skipping unusable split pattern",
					slog.String("source_transaction_id", p.BankTransactionID),
					slog.String("error", err.Error()))
				continue
			}
			for i, sp := range splits {
				out = append(out, domain.SplitInput{
					AccountCode: sp.AccountCode,
					Amount:      accounting.SignLike(parts[i], tx.Amount),
					Notes:       sp.Notes,
				})
			}
			s.LogDebug(ctx, "Splits suggested from prior transaction",
				slog.String("bank_transaction_id", transactionID),
				slog.String("source_transaction_id", p.BankTransactionID))
			return nil
		}

		if tx.AccountCode != nil && *tx.AccountCode != "" {
			out = append(out, domain.SplitInput{AccountCode: *tx.AccountCode, Amount: tx.Amount})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
