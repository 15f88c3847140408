package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
)

const (
	defaultWorkingSet = 500
	defaultPageSize   = 20
)

// suggestionService merges persisted and ephemeral suggestions and regenerates them.
type suggestionService struct {
	BaseService
	store      portsrepo.TransactionManager
	docs       portssvc.DocumentSourceSvc
	objects    portssvc.ObjectAccessSvc
	opts       domain.TransferOptions
	workingSet int
	metrics    *Metrics
	now        func() time.Time
}

// SuggestionOption configures the suggestion service.
type SuggestionOption func(*suggestionService)

// WithSuggestionTransferOptions sets the transfer detection options used for generation and listing.
func WithSuggestionTransferOptions(opts domain.TransferOptions) SuggestionOption {
	return func(s *suggestionService) {
		s.opts = opts.WithDefaults()
	}
}

// WithWorkingSetLimit bounds how many unreconciled transactions and documents one pass reads.
func WithWorkingSetLimit(n int) SuggestionOption {
	return func(s *suggestionService) {
		if n > 0 {
			s.workingSet = n
		}
	}
}

// WithObjectAccess enables signed file URLs on document summaries.
func WithObjectAccess(objects portssvc.ObjectAccessSvc) SuggestionOption {
	return func(s *suggestionService) {
		s.objects = objects
	}
}

// WithSuggestionMetrics records generation and refresh outcomes.
func WithSuggestionMetrics(m *Metrics) SuggestionOption {
	return func(s *suggestionService) {
		s.metrics = m
	}
}

// NewSuggestionService creates the suggestion service.
func NewSuggestionService(store portsrepo.TransactionManager, docs portssvc.DocumentSourceSvc, options ...SuggestionOption) portssvc.SuggestionSvcFacade {
	svc := &suggestionService{
		store:      store,
		docs:       docs,
		opts:       domain.DefaultTransferOptions(),
		workingSet: defaultWorkingSet,
		now:        time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SuggestionSvcFacade = (*suggestionService)(nil)

func (s *suggestionService) Refresh(ctx context.Context, tenantID string) (bool, error) {
	if tenantID == "" {
		return false, fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	var pending, unreconciled int
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		if pending, err = repos.Suggestions().CountPendingSuggestions(ctx, tenantID); err != nil {
			return err
		}
		txs, err := repos.BankTransactions().ListUnreconciledTransactions(ctx, tenantID, s.workingSet)
		unreconciled = len(txs)
		return err
	})
	if err != nil {
		return false, err
	}
	if pending >= unreconciled {
		return false, nil
	}
	s.LogDebug(ctx, "Suggestion set is stale",
		slog.String("tenant_id", tenantID),
		slog.Int("pending", pending),
		slog.Int("unreconciled", unreconciled))
	if _, err := s.RegenerateSuggestions(ctx, tenantID, nil); err != nil {
		return false, apperrors.NewDependencyError("suggestion regeneration", err)
	}
	return true, nil
}

func (s *suggestionService) ListSuggestions(ctx context.Context, tenantID string, params dto.ListSuggestionsParams) (*dto.ListSuggestionsResponse, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	page, size := params.Page, params.Size
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	logger := s.GetLogger(ctx).With(slog.String("tenant_id", tenantID))

	if page == 1 {
		if _, err := s.Refresh(ctx, tenantID); err != nil {
			// the stale set is still served
			logger.Warn("Refresh before listing failed", slog.String("error", err.Error()))
			s.metrics.regenerationFailed()
		}
	}

	resp := &dto.ListSuggestionsResponse{Items: []dto.SuggestionResponse{}, Page: page, Size: size}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		merged, err := s.merge(ctx, repos, tenantID)
		if err != nil {
			return err
		}
		resp.Total = len(merged)
		start := (page - 1) * size
		if start >= len(merged) {
			return nil
		}
		end := min(start+size, len(merged))
		for _, sg := range merged[start:end] {
			resp.Items = append(resp.Items, s.enrich(ctx, repos, tenantID, sg))
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to list suggestions", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Suggestions listed", slog.Int("total", resp.Total), slog.Int("page", page))
	return resp, nil
}

// merge returns pending persisted suggestions plus one ephemeral transfer suggestion per
// uncovered source, ordered by confidence.
func (s *suggestionService) merge(ctx context.Context, repos portsrepo.TxRepositories, tenantID string) ([]domain.Suggestion, error) {
	pending, err := repos.Suggestions().ListPendingSuggestions(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	transfers, err := repos.Suggestions().ListTransferSuggestions(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	covered := map[string]struct{}{}
	dismissed := map[string]struct{}{}
	for _, sg := range transfers {
		t, _ := sg.Transfer()
		if sg.BankTransactionID == nil {
			continue
		}
		switch {
		case sg.Dismissed:
			dismissed[*sg.BankTransactionID+":"+t.DestinationTransactionID] = struct{}{}
		case sg.Status == domain.SuggestionPending:
			covered[*sg.BankTransactionID] = struct{}{}
			covered[t.DestinationTransactionID] = struct{}{}
		}
	}

	unreconciled, err := repos.BankTransactions().ListUnreconciledTransactions(ctx, tenantID, s.workingSet)
	if err != nil {
		return nil, err
	}
	bands, err := loadFxBands(ctx, repos)
	if err != nil {
		return nil, err
	}
	candidates := slices.DeleteFunc(FindTransferCandidates(unreconciled, s.opts, bands), func(c domain.TransferCandidate) bool {
		src, dst := c.Source.BankTransactionID, c.Destination.BankTransactionID
		_, isDismissed := dismissed[src+":"+dst]
		_, srcCovered := covered[src]
		_, dstCovered := covered[dst]
		return isDismissed || srcCovered || dstCovered
	})

	merged := slices.Clone(pending)
	used := map[string]struct{}{}
	for _, c := range BestTransferPerSource(candidates) {
		src, dst := c.Source.BankTransactionID, c.Destination.BankTransactionID
		_, srcUsed := used[src]
		_, dstUsed := used[dst]
		if srcUsed || dstUsed {
			continue
		}
		used[src], used[dst] = struct{}{}, struct{}{}
		merged = append(merged, ephemeralSuggestion(c))
	}
	slices.SortStableFunc(merged, func(a, b domain.Suggestion) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return strings.Compare(a.SuggestionID, b.SuggestionID)
	})
	return merged, nil
}

// enrich attaches document, transaction, account and counterpart context. Missing
// context is logged and left out rather than failing the page.
func (s *suggestionService) enrich(ctx context.Context, repos portsrepo.TxRepositories, tenantID string, sg domain.Suggestion) dto.SuggestionResponse {
	out := dto.SuggestionResponse{
		SuggestionID: sg.SuggestionID,
		Kind:         sg.Kind(),
		Status:       sg.Status,
		Confidence:   sg.Confidence,
		Reasons:      slices.Clone(sg.Reasons),
		Ephemeral:    sg.Ephemeral,
		CreatedAt:    sg.CreatedAt,
	}
	if out.Reasons == nil {
		out.Reasons = []string{}
	}
	if sg.BankTransactionID != nil {
		if tx, err := repos.BankTransactions().FindTransactionByID(ctx, *sg.BankTransactionID); err == nil {
			summary := dto.ToTransactionSummary(*tx)
			out.BankTransaction = &summary
		} else {
			s.logEnrichFailure(ctx, sg, err)
		}
	}
	if sg.DocumentID != nil {
		if doc, err := repos.Documents().FindDocumentByID(ctx, *sg.DocumentID); err == nil {
			out.Document = s.documentSummary(ctx, tenantID, *doc)
		} else {
			s.logEnrichFailure(ctx, sg, err)
		}
	}
	if a, ok := sg.AccountCode(); ok {
		out.ChartAccount = &dto.ChartAccountSummary{AccountCode: a.AccountCode, Name: a.AccountName}
		if a.AccountName == "" {
			if found, err := repos.Chart().FindChartAccounts(ctx, tenantID, []string{a.AccountCode}); err == nil {
				out.ChartAccount.Name = found[a.AccountCode].Name
			}
		}
	}
	if t, ok := sg.Transfer(); ok {
		if dst, err := repos.BankTransactions().FindTransactionByID(ctx, t.DestinationTransactionID); err == nil {
			out.Transfer = &dto.TransferSummary{
				Destination:  dto.ToTransactionSummary(*dst),
				FxRate:       t.FxRate,
				SameCurrency: t.SameCurrency,
				DayDiff:      t.DayDiff,
			}
		} else {
			s.logEnrichFailure(ctx, sg, err)
		}
	}
	return out
}

func (s *suggestionService) documentSummary(ctx context.Context, tenantID string, doc domain.Document) *dto.DocumentSummary {
	summary := &dto.DocumentSummary{DocumentID: doc.DocumentID, Name: doc.Name, Type: doc.Type}
	if facts, err := s.docs.Resolve(doc); err == nil {
		summary.Amount = facts.Amount
		summary.DocumentDate = facts.DocumentDate
		summary.Counterparty = facts.Counterparty
	} else {
		s.LogWarn(ctx, "Unreadable document payload", slog.String("document_id", doc.DocumentID), slog.String("error", err.Error()))
	}
	if s.objects != nil && doc.StorageKey != "" {
		url, err := s.objects.SignedURL(tenantID, doc.StorageKey)
		if err != nil {
			s.LogWarn(ctx, "Failed to sign document URL", slog.String("document_id", doc.DocumentID), slog.String("error", err.Error()))
		}
		summary.FileURL = url
	}
	return summary
}

func (s *suggestionService) logEnrichFailure(ctx context.Context, sg domain.Suggestion, err error) {
	s.LogWarn(ctx, "Suggestion context missing",
		slog.String("suggestion_id", sg.SuggestionID),
		slog.String("error", err.Error()))
}

func (s *suggestionService) GetTransferCandidates(ctx context.Context, tenantID string, params dto.TransferCandidatesParams) ([]domain.TransferCandidate, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	opts := s.opts
	if params.DaysWindow > 0 {
		opts.DaysWindow = params.DaysWindow
	}
	if params.MaxResults > 0 {
		opts.MaxResults = params.MaxResults
	}
	if params.CrossCurrency != nil {
		opts.CrossCurrency = *params.CrossCurrency
	}
	if params.FxTolerancePct > 0 {
		opts.FxTolerancePct = params.FxTolerancePct
	}

	out := []domain.TransferCandidate{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		txs, err := repos.BankTransactions().ListUnreconciledTransactions(ctx, tenantID, s.workingSet)
		if err != nil {
			return err
		}
		bands, err := loadFxBands(ctx, repos)
		if err != nil {
			return err
		}
		if found := FindTransferCandidates(txs, opts, bands); len(found) > 0 {
			out = found
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to scan transfer candidates", slog.String("tenant_id", tenantID))
		return nil, err
	}
	s.LogInfo(ctx, "Transfer candidates computed",
		slog.String("tenant_id", tenantID),
		slog.Int("count", len(out)),
		slog.Bool("cross_currency", opts.CrossCurrency))
	return out, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
