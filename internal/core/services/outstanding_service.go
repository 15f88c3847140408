package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
)

// agingBuckets are inclusive upper bounds in days; the last bucket is open-ended.
var agingBuckets = []struct {
	label string
	upTo  int
}{
	{"0-30", 30},
	{"31-60", 60},
	{"61-90", 90},
	{"90+", -1},
}

// outstandingService implements portssvc.OutstandingItemSvcFacade.
type outstandingService struct {
	BaseService
	store portsrepo.TransactionManager
	now   func() time.Time
}

// NewOutstandingService creates the outstanding item service.
func NewOutstandingService(store portsrepo.TransactionManager) portssvc.OutstandingItemSvcFacade {
	return &outstandingService{store: store, now: time.Now}
}

var _ portssvc.OutstandingItemSvcFacade = (*outstandingService)(nil)

func (s *outstandingService) ListItems(ctx context.Context, tenantID string, params dto.ListOutstandingItemsParams) ([]domain.OutstandingItem, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	var filter portsrepo.OutstandingItemFilter
	if params.Type != "" {
		t := domain.OutstandingItemType(params.Type)
		filter.Type = &t
	}
	if params.Status != "" {
		st := domain.OutstandingItemStatus(params.Status)
		filter.Status = &st
	}

	out := []domain.OutstandingItem{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		items, err := repos.OutstandingItems().ListItems(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		now := s.now()
		for _, item := range items {
			item.RecomputeDaysOutstanding(now)
			out = append(out, item)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list outstanding items", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return out, nil
}

func (s *outstandingService) GetAgingReport(ctx context.Context, tenantID string, asOf time.Time) (*domain.AgingReport, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	report := &domain.AgingReport{AsOf: asOf, Total: decimal.Zero}
	for _, b := range agingBuckets {
		report.Buckets = append(report.Buckets, domain.AgingBucket{Label: b.label, Amount: decimal.Zero})
	}

	status := domain.ItemOutstanding
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		items, err := repos.OutstandingItems().ListItems(ctx, tenantID, portsrepo.OutstandingItemFilter{Status: &status})
		if err != nil {
			return err
		}
		for _, item := range items {
			item.RecomputeDaysOutstanding(asOf)
			i := bucketFor(item.DaysOutstanding)
			report.Buckets[i].Count++
			report.Buckets[i].Amount = report.Buckets[i].Amount.Add(item.Amount)
			report.Total = report.Total.Add(item.Amount)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to build aging report", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return report, nil
}

func bucketFor(days int) int {
	for i, b := range agingBuckets {
		if b.upTo < 0 || days <= b.upTo {
			return i
		}
	}
	return len(agingBuckets) - 1
}

func (s *outstandingService) CreateItem(ctx context.Context, tenantID string, req dto.CreateOutstandingItemRequest, actor string) (*domain.OutstandingItem, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	now := s.now()
	item := domain.OutstandingItem{
		ItemID:            newID(),
		TenantID:          tenantID,
		Type:              domain.OutstandingItemType(req.Type),
		Status:            domain.ItemOutstanding,
		ReferenceNumber:   req.ReferenceNumber,
		Description:       req.Description,
		PayeeBeneficiary:  req.PayeeBeneficiary,
		BankAccountID:     req.BankAccountID,
		Amount:            req.Amount,
		IssueDate:         req.IssueDate,
		ExpectedClearDate: req.ExpectedClearDate,
		DocumentID:        req.DocumentID,
		Notes:             req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	item.RecomputeDaysOutstanding(now)

	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if req.BankAccountID != nil {
			acc, err := repos.BankTransactions().FindBankAccountByID(ctx, *req.BankAccountID)
			if err != nil {
				return err
			}
			if err := s.AuthorizeTenant(ctx, tenantID, acc.TenantID, "bank account "+acc.BankAccountID); err != nil {
				return err
			}
		}
		if req.DocumentID != nil {
			doc, err := repos.Documents().FindDocumentByID(ctx, *req.DocumentID)
			if err != nil {
				return err
			}
			if err := s.AuthorizeTenant(ctx, tenantID, doc.TenantID, "document "+doc.DocumentID); err != nil {
				return err
			}
		}
		return repos.OutstandingItems().CreateItem(ctx, item)
	})
	if err != nil {
		s.LogWarn(ctx, "Failed to create outstanding item", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Outstanding item created", slog.String("item_id", item.ItemID), slog.String("type", string(item.Type)))
	return &item, nil
}

// transition loads an item, applies change and stores it in one unit.
func (s *outstandingService) transition(ctx context.Context, tenantID, itemID, actor string, change func(ctx context.Context, repos portsrepo.TxRepositories, item *domain.OutstandingItem) error) (*domain.OutstandingItem, error) {
	var updated *domain.OutstandingItem
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		item, err := repos.OutstandingItems().FindItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := s.AuthorizeTenant(ctx, tenantID, item.TenantID, "outstanding item "+itemID); err != nil {
			return err
		}
		if item.Status.IsTerminal() {
			return fmt.Errorf("%w: outstanding item %s is %s", apperrors.ErrInvalidState, itemID, item.Status)
		}
		if err := change(ctx, repos, item); err != nil {
			return err
		}
		item.LastUpdatedAt = s.now()
		item.LastUpdatedBy = actor
		if err := repos.OutstandingItems().UpdateItem(ctx, *item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Outstanding item transition failed", slog.String("item_id", itemID), slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Outstanding item updated", slog.String("item_id", itemID), slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *outstandingService) MarkCleared(ctx context.Context, tenantID string, itemID string, req dto.ClearOutstandingItemRequest, actor string) (*domain.OutstandingItem, error) {
	return s.transition(ctx, tenantID, itemID, actor, func(ctx context.Context, repos portsrepo.TxRepositories, item *domain.OutstandingItem) error {
		clearDate := s.now()
		if req.ClearDate != nil {
			clearDate = *req.ClearDate
		}
		if req.BankTransactionID != nil {
			tx, err := repos.BankTransactions().FindTransactionByID(ctx, *req.BankTransactionID)
			if err != nil {
				return err
			}
			if err := s.AuthorizeTenant(ctx, tenantID, tx.TenantID, "bank transaction "+tx.BankTransactionID); err != nil {
				return err
			}
			if req.ClearDate == nil {
				clearDate = tx.TransactionDate
			}
		}
		item.Clear(clearDate, req.BankTransactionID)
		return nil
	})
}

func (s *outstandingService) MarkStale(ctx context.Context, tenantID string, itemID string, req dto.OutstandingItemNotesRequest, actor string) (*domain.OutstandingItem, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, tenantID, itemID, actor, func(ctx context.Context, repos portsrepo.TxRepositories, item *domain.OutstandingItem) error {
		if item.Status != domain.ItemOutstanding {
			return fmt.Errorf("%w: outstanding item %s is %s", apperrors.ErrInvalidState, itemID, item.Status)
		}
		item.Status = domain.ItemStale
		item.Notes = appendNote(item.Notes, req.Notes)
		return nil
	})
}

func (s *outstandingService) Void(ctx context.Context, tenantID string, itemID string, req dto.OutstandingItemNotesRequest, actor string) (*domain.OutstandingItem, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, tenantID, itemID, actor, func(ctx context.Context, repos portsrepo.TxRepositories, item *domain.OutstandingItem) error {
		item.Status = domain.ItemVoided
		item.Notes = appendNote(item.Notes, req.Notes)
		return nil
	})
}

func appendNote(existing, note string) string {
	note = strings.TrimSpace(note)
	switch {
	case note == "":
		return existing
	case existing == "":
		return note
	}
	return existing + "\n" + note
}
