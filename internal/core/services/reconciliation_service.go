package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
)

// reconciliationService implements the suggestion lifecycle, manual matches and unreconcile.
type reconciliationService struct {
	*reconciler
	store        portsrepo.TransactionManager
	regenerator  portssvc.SuggestionRefresherSvc
	transferOpts domain.TransferOptions
}

// ReconciliationOption configures the reconciliation service.
type ReconciliationOption func(*reconciliationService)

// WithRegenerator triggers suggestion regeneration after unreconcile.
func WithRegenerator(svc portssvc.SuggestionRefresherSvc) ReconciliationOption {
	return func(s *reconciliationService) {
		s.regenerator = svc
	}
}

// WithTransferOptions sets the options used to recompute ephemeral transfer suggestions.
func WithTransferOptions(opts domain.TransferOptions) ReconciliationOption {
	return func(s *reconciliationService) {
		s.transferOpts = opts
	}
}

// NewReconciliationService creates the reconciliation service.
func NewReconciliationService(store portsrepo.TransactionManager, engine *reconciler, options ...ReconciliationOption) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		reconciler:   engine,
		store:        store,
		transferOpts: domain.DefaultTransferOptions(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) AcceptSuggestion(ctx context.Context, tenantID string, suggestionID string, req dto.AcceptSuggestionRequest, actor string) (*domain.MatchResult, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	logger := s.GetLogger(ctx).With(slog.String("suggestion_id", suggestionID), slog.String("tenant_id", tenantID))

	var result *domain.MatchResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		u := &matchUnit{tenantID: tenantID, actor: actor, notes: req.Notes, repos: repos, result: &domain.MatchResult{}}
		var pipeline matchPipeline
		if src, dst, ok := domain.ParseEphemeralTransferID(suggestionID); ok {
			sg, err := s.materializeEphemeral(ctx, repos, tenantID, src, dst)
			if err != nil {
				return err
			}
			u.suggestion = sg
			u.transactionID, u.destinationID = src, dst
			rate := sg.Criteria.(domain.TransferCriteria).FxRate
			u.fxRate = &rate
			pipeline = s.transferPipeline()
		} else {
			sg, err := s.loadPendingSuggestion(ctx, repos, tenantID, suggestionID)
			if err != nil {
				return err
			}
			u.suggestion = sg
			if sg.BankTransactionID != nil {
				u.transactionID = *sg.BankTransactionID
			}
			switch c := sg.Criteria.(type) {
			case domain.DocumentCriteria:
				u.documentID = *sg.DocumentID
				pipeline = s.documentPipeline()
			case domain.AccountCodeCriteria:
				u.accountCode = c.AccountCode
				pipeline = s.accountCodePipeline()
			case domain.TransferCriteria:
				u.destinationID = c.DestinationTransactionID
				rate := c.FxRate
				u.fxRate = &rate
				pipeline = s.transferPipeline()
			default:
				return fmt.Errorf("%w: suggestion %s has no supported criteria", apperrors.ErrValidation, suggestionID)
			}
		}
		u.result.Kind = u.suggestion.Kind()
		if err := s.run(ctx, pipeline, u); err != nil {
			return err
		}
		if u.result.Suggestion == nil {
			accepted := *u.suggestion
			accepted.Status = domain.SuggestionAccepted
			u.result.Suggestion = &accepted
		}
		result = u.result
		return nil
	})
	if err != nil {
		logger.Warn("Failed to accept suggestion", slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.suggestionResolved(result.Kind, domain.SuggestionAccepted)
	logger.Info("Suggestion accepted",
		slog.String("kind", string(result.Kind)),
		slog.Int("rejected_competing", result.Rejected),
		slog.Int("warnings", len(result.Warnings)))
	return result, nil
}

// loadPendingSuggestion loads a persisted suggestion, checks its tenant through the
// document or transaction it references and requires it to be PENDING.
func (s *reconciliationService) loadPendingSuggestion(ctx context.Context, repos portsrepo.TxRepositories, tenantID, suggestionID string) (*domain.Suggestion, error) {
	sg, err := repos.Suggestions().FindSuggestionByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	owner, err := s.suggestionTenant(ctx, repos, *sg)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeTenant(ctx, tenantID, owner, "suggestion "+suggestionID); err != nil {
		return nil, err
	}
	if sg.Status != domain.SuggestionPending {
		return nil, fmt.Errorf("%w: suggestion %s is %s", apperrors.ErrInvalidState, suggestionID, sg.Status)
	}
	if err := sg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return sg, nil
}

func (s *reconciliationService) suggestionTenant(ctx context.Context, repos portsrepo.TxRepositories, sg domain.Suggestion) (string, error) {
	if sg.DocumentID != nil {
		doc, err := repos.Documents().FindDocumentByID(ctx, *sg.DocumentID)
		if err == nil {
			return doc.TenantID, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
	}
	if sg.BankTransactionID != nil {
		tx, err := repos.BankTransactions().FindTransactionByID(ctx, *sg.BankTransactionID)
		if err == nil {
			return tx.TenantID, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
	}
	return "", apperrors.NewNotFoundError("suggestion " + sg.SuggestionID + " has no owning entity")
}

// materializeEphemeral recomputes the transfer candidate behind a composite id. The pair
// must still qualify and must not have been dismissed.
func (s *reconciliationService) materializeEphemeral(ctx context.Context, repos portsrepo.TxRepositories, tenantID, sourceID, destinationID string) (*domain.Suggestion, error) {
	u := &matchUnit{tenantID: tenantID, repos: repos}
	src, err := s.loadTx(ctx, u, sourceID)
	if err != nil {
		return nil, err
	}
	dst, err := s.loadTx(ctx, u, destinationID)
	if err != nil {
		return nil, err
	}
	if dismissed, err := findTransferSuggestion(ctx, repos, sourceID, destinationID, true); err != nil {
		return nil, err
	} else if dismissed != nil {
		return nil, fmt.Errorf("%w: transfer %s -> %s was dismissed", apperrors.ErrInvalidState, sourceID, destinationID)
	}

	bands, err := loadFxBands(ctx, repos)
	if err != nil {
		return nil, err
	}
	opts := s.transferOpts
	opts.CrossCurrency = true
	candidate, ok := ScoreTransferPair(*src, *dst, opts, bands)
	if !ok {
		return nil, fmt.Errorf("%w: %s and %s no longer form a transfer candidate", apperrors.ErrValidation, sourceID, destinationID)
	}
	sg := ephemeralSuggestion(candidate)
	return &sg, nil
}

func (s *reconciliationService) RejectSuggestion(ctx context.Context, tenantID string, suggestionID string, req dto.RejectSuggestionRequest, actor string) (*domain.Suggestion, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	var rejected *domain.Suggestion
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if src, dst, ok := domain.ParseEphemeralTransferID(suggestionID); ok {
			sg, err := s.dismissEphemeral(ctx, repos, tenantID, src, dst, req.Reason, actor)
			rejected = sg
			return err
		}

		sg, err := s.loadPendingSuggestion(ctx, repos, tenantID, suggestionID)
		if err != nil {
			return err
		}
		sg.Status = domain.SuggestionRejected
		sg.Dismissed = true
		if req.Reason != nil && *req.Reason != "" {
			sg.Reasons = append(sg.Reasons, *req.Reason)
		}
		sg.LastUpdatedAt = s.now()
		sg.LastUpdatedBy = actor
		if err := repos.Suggestions().ResolveSuggestion(ctx, *sg); err != nil {
			return err
		}
		rejected = sg
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reject suggestion", slog.String("suggestion_id", suggestionID))
		return nil, err
	}
	s.metrics.suggestionResolved(rejected.Kind(), domain.SuggestionRejected)
	s.LogInfo(ctx, "Suggestion rejected", slog.String("suggestion_id", suggestionID), slog.String("kind", string(rejected.Kind())))
	return rejected, nil
}

// dismissEphemeral stores a REJECTED tombstone for a computed transfer pair so it is not surfaced again.
func (s *reconciliationService) dismissEphemeral(ctx context.Context, repos portsrepo.TxRepositories, tenantID, sourceID, destinationID string, reason *string, actor string) (*domain.Suggestion, error) {
	u := &matchUnit{tenantID: tenantID, repos: repos}
	src, err := s.loadTx(ctx, u, sourceID)
	if err != nil {
		return nil, err
	}
	dst, err := s.loadTx(ctx, u, destinationID)
	if err != nil {
		return nil, err
	}
	existing, err := findTransferSuggestion(ctx, repos, sourceID, destinationID, true)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	bands, err := loadFxBands(ctx, repos)
	if err != nil {
		return nil, err
	}
	opts := s.transferOpts
	opts.CrossCurrency = true
	candidate, ok := ScoreTransferPair(*src, *dst, opts, bands)
	if !ok {
		candidate = domain.TransferCandidate{
			Source:       *src,
			Destination:  *dst,
			DayDiff:      domain.DayDiff(src.TransactionDate, dst.TransactionDate),
			SameCurrency: src.CurrencyCode == dst.CurrencyCode,
		}
	}
	sg := ephemeralSuggestion(candidate)
	sg.SuggestionID = newID()
	sg.Ephemeral = false
	sg.Status = domain.SuggestionRejected
	sg.Dismissed = true
	if reason != nil && *reason != "" {
		sg.Reasons = append(sg.Reasons, *reason)
	}
	now := s.now()
	sg.CreatedAt, sg.LastUpdatedAt = now, now
	sg.CreatedBy, sg.LastUpdatedBy = actor, actor
	if err := repos.Suggestions().CreateSuggestion(ctx, sg); err != nil {
		return nil, err
	}
	return &sg, nil
}

func (s *reconciliationService) CreateManualMatch(ctx context.Context, tenantID string, req dto.ManualMatchRequest, actor string) (*domain.MatchResult, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	var result *domain.MatchResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		u := &matchUnit{
			tenantID:      tenantID,
			actor:         actor,
			notes:         req.Notes,
			repos:         repos,
			documentID:    req.DocumentID,
			transactionID: req.BankTransactionID,
			result:        &domain.MatchResult{Kind: domain.KindDocument},
		}
		if err := s.run(ctx, s.documentPipeline(), u); err != nil {
			return err
		}
		result = u.result
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Manual match failed",
			slog.String("document_id", req.DocumentID),
			slog.String("bank_transaction_id", req.BankTransactionID),
			slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Manual match created", slog.String("record_id", result.Record.RecordID))
	return result, nil
}

func (s *reconciliationService) CreateBulkMatches(ctx context.Context, tenantID string, req dto.BulkMatchRequest, actor string) (*domain.BulkMatchResult, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	out := &domain.BulkMatchResult{Records: []string{}, Errors: map[string]string{}}
	for _, pair := range req.Matches {
		res, err := s.CreateManualMatch(ctx, tenantID, pair, actor)
		if err != nil {
			out.Failed++
			out.Errors[pair.DocumentID+":"+pair.BankTransactionID] = err.Error()
			continue
		}
		out.Successful++
		out.Records = append(out.Records, res.Record.RecordID)
	}
	return out, nil
}

func (s *reconciliationService) Unreconcile(ctx context.Context, tenantID string, req dto.UnreconcileRequest, actor string) (*dto.UnreconcileResponse, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	resp := &dto.UnreconcileResponse{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		u := &matchUnit{tenantID: tenantID, repos: repos}
		var rel *release
		if req.TransactionID != nil {
			tx, err := s.loadTx(ctx, u, *req.TransactionID)
			if err != nil {
				return err
			}
			if !tx.ReconciliationStatus.IsMatched() {
				return fmt.Errorf("%w: transaction %s is not matched", apperrors.ErrInvalidState, tx.BankTransactionID)
			}
			if rel, err = s.releaseTransaction(ctx, repos, tenantID, *tx, actor); err != nil {
				return err
			}
			if resp.Transaction, err = repos.BankTransactions().FindTransactionByID(ctx, tx.BankTransactionID); err != nil {
				return err
			}
		} else {
			doc, err := s.loadDoc(ctx, u, *req.DocumentID)
			if err != nil {
				return err
			}
			if !doc.ReconciliationStatus.IsMatched() {
				return fmt.Errorf("%w: document %s is not matched", apperrors.ErrInvalidState, doc.DocumentID)
			}
			if rel, err = s.releaseDocument(ctx, repos, tenantID, *doc, actor); err != nil {
				return err
			}
			if resp.Document, err = repos.Documents().FindDocumentByID(ctx, doc.DocumentID); err != nil {
				return err
			}
		}
		resp.RecordsRemoved = rel.records
		resp.TransfersRemoved = rel.transfers
		resp.EntriesReversed = rel.reversed
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Unreconcile failed", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.metrics.unreconcile()
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	s.LogInfo(ctx, "Unreconciled",
		slog.String("tenant_id", tenantID),
		slog.String("reason", reason),
		slog.Int("records_removed", resp.RecordsRemoved),
		slog.Int("transfers_removed", resp.TransfersRemoved),
		slog.Int("entries_reversed", resp.EntriesReversed))

	if w := regenerateAfterRelease(ctx, s.reconciler, s.regenerator, tenantID); w != "" {
		resp.Warnings = append(resp.Warnings, w)
	}
	return resp, nil
}

// regenerateAfterRelease runs regeneration after a committed release. Failures are logged
// and returned as a warning.
func regenerateAfterRelease(ctx context.Context, r *reconciler, regen portssvc.SuggestionRefresherSvc, tenantID string) string {
	if regen == nil {
		return ""
	}
	if _, err := regen.RegenerateSuggestions(ctx, tenantID, nil); err != nil {
		r.LogError(ctx, err, "Suggestion regeneration after unreconcile failed", slog.String("tenant_id", tenantID))
		r.metrics.regenerationFailed()
		return apperrors.NewDependencyError("suggestion regeneration", err).Error()
	}
	return ""
}

func (s *reconciliationService) GetStats(ctx context.Context, tenantID string) (*domain.ReconciliationStats, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	stats := &domain.ReconciliationStats{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		if stats.DocumentsTotal, stats.DocumentsReconciled, err = repos.Documents().CountDocuments(ctx, tenantID); err != nil {
			return err
		}
		if stats.TransactionsTotal, stats.TransactionsMatched, err = repos.BankTransactions().CountTransactions(ctx, tenantID); err != nil {
			return err
		}
		if stats.PendingSuggestions, err = repos.Suggestions().CountPendingSuggestions(ctx, tenantID); err != nil {
			return err
		}
		stats.UnmatchedAmount, err = repos.BankTransactions().SumUnreconciled(ctx, tenantID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compute reconciliation stats", slog.String("tenant_id", tenantID))
		return nil, err
	}
	stats.DocumentsRate = rate(stats.DocumentsReconciled, stats.DocumentsTotal)
	stats.TransactionsRate = rate(stats.TransactionsMatched, stats.TransactionsTotal)
	return stats, nil
}

// rate returns part/total as a percentage rounded to two decimals.
func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	v, _ := decimal.NewFromInt(int64(part)).Mul(decimal.NewFromInt(100)).DivRound(decimal.NewFromInt(int64(total)), 2).Float64()
	return v
}

// findTransferSuggestion returns the TRANSFER suggestion stored for the pair, or nil.
// dismissedOnly restricts the search to user-dismissed ones.
func findTransferSuggestion(ctx context.Context, repos portsrepo.TxRepositories, sourceID, destinationID string, dismissedOnly bool) (*domain.Suggestion, error) {
	list, err := repos.Suggestions().ListSuggestionsForTransaction(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(list, func(sg domain.Suggestion) bool {
		t, ok := sg.Transfer()
		if !ok || sg.BankTransactionID == nil || *sg.BankTransactionID != sourceID || t.DestinationTransactionID != destinationID {
			return false
		}
		return !dismissedOnly || sg.Dismissed
	})
	if i < 0 {
		return nil, nil
	}
	return &list[i], nil
}

// loadFxBands returns the configured bands, or the defaults when none are configured.
func loadFxBands(ctx context.Context, repos portsrepo.TxRepositories) (domain.FxBands, error) {
	bands, err := repos.Chart().ListFxBands(ctx)
	if err != nil {
		return nil, err
	}
	if len(bands) == 0 {
		return domain.DefaultFxBands(), nil
	}
	return bands, nil
}

// ephemeralSuggestion renders a transfer candidate as a computed, never-stored suggestion.
func ephemeralSuggestion(c domain.TransferCandidate) domain.Suggestion {
	srcID := c.Source.BankTransactionID
	return domain.Suggestion{
		SuggestionID: c.SuggestionID(),
		Confidence:   c.Score,
		Criteria: domain.TransferCriteria{
			DestinationTransactionID: c.Destination.BankTransactionID,
			FxRate:                   c.FxRate,
			SameCurrency:             c.SameCurrency,
			DayDiff:                  c.DayDiff,
			SourceCurrency:           c.Source.CurrencyCode,
			DestinationCurrency:      c.Destination.CurrencyCode,
		},
		Status:            domain.SuggestionPending,
		BankTransactionID: &srcID,
		Reasons:           slices.Clone(c.Reasons),
		Ephemeral:         true,
	}
}
