package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerPoster implements portssvc.LedgerPosterSvc on top of the ledger repository.
type ledgerPoster struct {
	BaseService
	metrics *Metrics
	now     func() time.Time
}

// LedgerPosterOption configures the ledger poster.
type LedgerPosterOption func(*ledgerPoster)

// WithPosterMetrics records posting outcomes.
func WithPosterMetrics(m *Metrics) LedgerPosterOption {
	return func(p *ledgerPoster) {
		p.metrics = m
	}
}

// NewLedgerPoster creates the ledger poster.
func NewLedgerPoster(options ...LedgerPosterOption) portssvc.LedgerPosterSvc {
	p := &ledgerPoster{now: time.Now}
	for _, option := range options {
		option(p)
	}
	return p
}

var _ portssvc.LedgerPosterSvc = (*ledgerPoster)(nil)

func (p *ledgerPoster) Post(ctx context.Context, repos portsrepo.TxRepositories, req domain.PostingRequest) (*domain.PostingResult, error) {
	if req.TenantID == "" || req.PostingKey == "" {
		return nil, fmt.Errorf("%w: posting needs a tenant and a posting key", apperrors.ErrValidation)
	}
	if err := accounting.ValidatePostingBalance(req.Lines); err != nil {
		return nil, fmt.Errorf("%w: posting %s: %v", apperrors.ErrValidation, req.PostingKey, err)
	}

	existing, err := repos.Ledger().FindEntriesByPostingKey(ctx, req.TenantID, req.PostingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to look up posting %s: %w", req.PostingKey, err)
	}
	if len(existing) > 0 {
		p.LogDebug(ctx, "Posting key already recorded", slog.String("posting_key", req.PostingKey))
		p.metrics.posting(req.SourceType, "duplicate")
		return &domain.PostingResult{PostingKey: req.PostingKey, Entries: existing, AlreadyPosted: true}, nil
	}

	now := p.now()
	day := truncateDay(req.PostingDate)
	entries := make([]domain.LedgerEntry, len(req.Lines))
	for i, line := range req.Lines {
		entries[i] = domain.LedgerEntry{
			EntryID:     uuid.NewString(),
			TenantID:    req.TenantID,
			PostingDate: day,
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Currency:    req.Currency,
			Description: line.Description,
			SourceType:  req.SourceType,
			SourceID:    req.SourceID,
			PostingKey:  req.PostingKey,
			RowKey:      fmt.Sprintf("%s:%d", req.PostingKey, i),
			Links:       req.Links,
			CreatedAt:   now,
		}
	}

	if err := repos.Ledger().InsertEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to insert entries for %s: %w", req.PostingKey, err)
	}
	if err := repos.Ledger().ApplyBalanceDeltas(ctx, balanceDeltas(entries, false)); err != nil {
		return nil, fmt.Errorf("failed to update balances for %s: %w", req.PostingKey, err)
	}

	p.LogInfo(ctx, "Ledger posting recorded",
		slog.String("posting_key", req.PostingKey),
		slog.String("source_type", string(req.SourceType)),
		slog.Int("rows", len(entries)))
	p.metrics.posting(req.SourceType, "posted")
	return &domain.PostingResult{PostingKey: req.PostingKey, Entries: entries}, nil
}

func (p *ledgerPoster) Unpost(ctx context.Context, repos portsrepo.TxRepositories, tenantID string, links domain.LedgerLinks) (int, error) {
	if links.IsEmpty() {
		return 0, nil
	}
	entries, err := repos.Ledger().FindEntriesByLinks(ctx, tenantID, links)
	if err != nil {
		return 0, fmt.Errorf("failed to find entries for %s: %w", links, err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	if err := repos.Ledger().DeleteEntries(ctx, ids); err != nil {
		return 0, fmt.Errorf("failed to delete entries for %s: %w", links, err)
	}
	if err := repos.Ledger().ApplyBalanceDeltas(ctx, balanceDeltas(entries, true)); err != nil {
		return 0, fmt.Errorf("failed to revert balances for %s: %w", links, err)
	}

	p.LogInfo(ctx, "Ledger rows reversed", slog.String("links", links.String()), slog.Int("rows", len(entries)))
	p.metrics.reversed(len(entries))
	return len(entries), nil
}

// balanceDeltas aggregates debit - credit per account and day; reverse negates it.
func balanceDeltas(entries []domain.LedgerEntry, reverse bool) []domain.AccountBalanceDelta {
	type key struct {
		tenant, account string
		day             time.Time
	}
	totals := map[key]decimal.Decimal{}
	var order []key
	for _, e := range entries {
		k := key{e.TenantID, e.AccountCode, truncateDay(e.PostingDate)}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		delta := e.Debit.Sub(e.Credit)
		if reverse {
			delta = delta.Neg()
		}
		totals[k] = totals[k].Add(delta)
	}
	out := make([]domain.AccountBalanceDelta, 0, len(order))
	for _, k := range order {
		out = append(out, domain.AccountBalanceDelta{TenantID: k.tenant, AccountCode: k.account, Day: k.day, Delta: totals[k]})
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
