package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Document and account-code scoring.
const (
	documentBaseConfidence  = 0.6
	documentMaxDayDiff      = 30
	bonusWithin3Days        = 0.2
	bonusWithin7Days        = 0.1
	nameSimilarityWeight    = 0.2
	nameSimilarityThreshold = 0.5
	maxDocumentCandidates   = 3

	accountBaseConfidence = 0.7
	bonusFrequentAccount  = 0.1
	frequentAccountMin    = 3
)

const supersededReason = "superseded"

// generation holds what one regeneration pass has loaded and decided so far.
type generation struct {
	tenantID string
	repos    portsrepo.TxRepositories
	result   *domain.RegenerationResult

	keys            map[string]bool // kind|doc|tx|account|dst of pending (false) or dismissed (true) suggestions
	pendingTransfer map[string]struct{} // transactions on either side of a pending transfer suggestion
	dismissedPairs  map[string]struct{}
	documents       []resolvedDocument
}

type resolvedDocument struct {
	doc   domain.Document
	facts domain.DocumentFacts
}

func (s *suggestionService) RegenerateSuggestions(ctx context.Context, tenantID string, transactionID *string) (*domain.RegenerationResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	logger := s.GetLogger(ctx).With(slog.String("tenant_id", tenantID))

	result := &domain.RegenerationResult{Created: map[domain.SuggestionKind]int{}}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		g := &generation{tenantID: tenantID, repos: repos, result: result}

		pool, err := repos.BankTransactions().ListUnreconciledTransactions(ctx, tenantID, s.workingSet)
		if err != nil {
			return err
		}
		targets := pool
		if transactionID != nil {
			tx, err := repos.BankTransactions().FindTransactionByID(ctx, *transactionID)
			if err != nil {
				return err
			}
			if err := s.AuthorizeTenant(ctx, tenantID, tx.TenantID, "bank transaction "+*transactionID); err != nil {
				return err
			}
			targets = nil
			if tx.ReconciliationStatus == domain.StatusUnreconciled {
				targets = []domain.BankTransaction{*tx}
				if !slices.ContainsFunc(pool, func(p domain.BankTransaction) bool { return p.BankTransactionID == tx.BankTransactionID }) {
					pool = append(pool, *tx)
				}
			}
		}
		result.Scanned = len(targets)

		if err := s.supersedeStale(ctx, g); err != nil {
			return err
		}
		if err := s.loadExisting(ctx, g); err != nil {
			return err
		}
		if err := s.loadDocuments(ctx, g); err != nil {
			return err
		}

		for _, tx := range targets {
			docCandidates, docMatched := s.documentCandidates(g, tx)
			for _, sg := range docCandidates {
				if err := s.persist(ctx, g, sg); err != nil {
					return err
				}
			}
			if docMatched {
				continue
			}
			sg, ok, err := s.accountCodeCandidate(ctx, g, tx)
			if err != nil {
				return err
			}
			if ok {
				if err := s.persist(ctx, g, sg); err != nil {
					return err
				}
			}
		}
		return s.generateTransfers(ctx, g, pool, transactionID)
	})
	if err != nil {
		logger.Error("Suggestion regeneration failed", slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.regenerated(result)
	logger.Info("Suggestions regenerated",
		slog.Int("scanned", result.Scanned),
		slog.Int("created", result.Total()),
		slog.Int("superseded", result.Superseded))
	return result, nil
}

// supersedeStale rejects pending suggestions whose document or transactions are no longer open.
func (s *suggestionService) supersedeStale(ctx context.Context, g *generation) error {
	pending, err := g.repos.Suggestions().ListPendingSuggestions(ctx, g.tenantID)
	if err != nil {
		return err
	}
	txOpen := map[string]bool{}
	docOpen := map[string]bool{}
	for _, sg := range pending {
		stale := false
		for _, id := range sg.TransactionIDs() {
			open, seen := txOpen[id]
			if !seen {
				tx, err := g.repos.BankTransactions().FindTransactionByID(ctx, id)
				if err != nil && !isNotFound(err) {
					return err
				}
				open = err == nil && tx.ReconciliationStatus == domain.StatusUnreconciled
				txOpen[id] = open
			}
			stale = stale || !open
		}
		if sg.DocumentID != nil {
			open, seen := docOpen[*sg.DocumentID]
			if !seen {
				doc, err := g.repos.Documents().FindDocumentByID(ctx, *sg.DocumentID)
				if err != nil && !isNotFound(err) {
					return err
				}
				open = err == nil && doc.ReconciliationStatus.IsOpen()
				docOpen[*sg.DocumentID] = open
			}
			stale = stale || !open
		}
		if !stale {
			continue
		}
		sg.Status = domain.SuggestionRejected
		sg.Reasons = append(slices.Clone(sg.Reasons), supersededReason)
		sg.LastUpdatedAt = s.now()
		sg.LastUpdatedBy = "system"
		if err := g.repos.Suggestions().ResolveSuggestion(ctx, sg); err != nil {
			return err
		}
		g.result.Superseded++
	}
	return nil
}

// loadExisting indexes pending and dismissed suggestions so a pass never recreates them.
func (s *suggestionService) loadExisting(ctx context.Context, g *generation) error {
	g.keys = map[string]bool{}
	g.pendingTransfer = map[string]struct{}{}
	g.dismissedPairs = map[string]struct{}{}

	pending, err := g.repos.Suggestions().ListPendingSuggestions(ctx, g.tenantID)
	if err != nil {
		return err
	}
	for _, sg := range pending {
		g.index(sg)
	}
	dismissed, err := g.repos.Suggestions().ListDismissedSuggestions(ctx, g.tenantID)
	if err != nil {
		return err
	}
	for _, sg := range dismissed {
		g.index(sg)
	}
	return nil
}

func (g *generation) index(sg domain.Suggestion) {
	g.keys[suggestionKey(sg)] = sg.Dismissed
	t, ok := sg.Transfer()
	if !ok || sg.BankTransactionID == nil {
		return
	}
	if sg.Dismissed {
		g.dismissedPairs[*sg.BankTransactionID+":"+t.DestinationTransactionID] = struct{}{}
		return
	}
	if sg.Status == domain.SuggestionPending {
		g.pendingTransfer[*sg.BankTransactionID] = struct{}{}
		g.pendingTransfer[t.DestinationTransactionID] = struct{}{}
	}
}

func (g *generation) exists(sg domain.Suggestion) bool {
	_, ok := g.keys[suggestionKey(sg)]
	return ok
}

func (s *suggestionService) loadDocuments(ctx context.Context, g *generation) error {
	docs, err := g.repos.Documents().ListUnreconciledDocuments(ctx, g.tenantID, s.workingSet)
	if err != nil {
		return err
	}
	g.documents = make([]resolvedDocument, 0, len(docs))
	for _, doc := range docs {
		facts, err := s.docs.Resolve(doc)
		if err != nil {
			s.LogWarn(ctx, "Skipping document with unreadable payload",
				slog.String("document_id", doc.DocumentID),
				slog.String("error", err.Error()))
			continue
		}
		if facts.Amount.IsZero() {
			continue
		}
		g.documents = append(g.documents, resolvedDocument{doc: doc, facts: facts})
	}
	return nil
}

// documentCandidates scores documents whose amount equals the transaction's and whose date is
// close to it. Pending suggestions hold their slot among the best few and dismissed ones are
// passed over, so only the remaining slots are returned. matched reports whether any
// document qualified at all.
func (s *suggestionService) documentCandidates(g *generation, tx domain.BankTransaction) (out []domain.Suggestion, matched bool) {
	var scored []domain.Suggestion
	for _, rd := range g.documents {
		if !domain.AmountsMatch(rd.facts.Amount.Abs(), tx.AbsAmount()) {
			continue
		}
		confidence := documentBaseConfidence
		reasons := []string{"amount_match"}
		dayDiff := -1
		if rd.facts.DocumentDate != nil {
			dayDiff = domain.DayDiff(*rd.facts.DocumentDate, tx.TransactionDate)
			if dayDiff > documentMaxDayDiff {
				continue
			}
			switch {
			case dayDiff <= 3:
				confidence += bonusWithin3Days
				reasons = append(reasons, "date_within_3_days")
			case dayDiff <= 7:
				confidence += bonusWithin7Days
				reasons = append(reasons, "date_within_7_days")
			}
		}
		sim := nameSimilarity(rd.facts.Counterparty, tx.Description)
		if rd.facts.Counterparty != rd.doc.Name {
			sim = max(sim, nameSimilarity(rd.doc.Name, tx.Description))
		}
		confidence += nameSimilarityWeight * sim
		if sim >= nameSimilarityThreshold {
			reasons = append(reasons, "name_similarity")
		}

		docID, txID := rd.doc.DocumentID, tx.BankTransactionID
		sg := domain.Suggestion{
			Confidence: clampScore(confidence),
			Criteria: domain.DocumentCriteria{
				AmountDelta:    rd.facts.Amount.Abs().Sub(tx.AbsAmount()),
				DayDiff:        dayDiff,
				NameSimilarity: roundTo(sim, 4),
			},
			Status:            domain.SuggestionPending,
			DocumentID:        &docID,
			BankTransactionID: &txID,
			Reasons:           reasons,
		}
		scored = append(scored, sg)
	}
	slices.SortFunc(scored, func(a, b domain.Suggestion) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return strings.Compare(*a.DocumentID, *b.DocumentID)
	})
	slots := maxDocumentCandidates
	for _, sg := range scored {
		if slots == 0 {
			break
		}
		dismissed, seen := g.keys[suggestionKey(sg)]
		switch {
		case dismissed:
		case seen:
			slots--
		default:
			out = append(out, sg)
			slots--
		}
	}
	return out, len(scored) > 0
}

// accountCodeCandidate proposes the ledger account most often assigned to earlier
// transactions with the same description and direction.
func (s *suggestionService) accountCodeCandidate(ctx context.Context, g *generation, tx domain.BankTransaction) (domain.Suggestion, bool, error) {
	if strings.TrimSpace(tx.Description) == "" {
		return domain.Suggestion{}, false, nil
	}
	prior, err := g.repos.BankTransactions().ListTransactionsByDescription(ctx, g.tenantID, tx.Description, tx.BankTransactionID)
	if err != nil {
		return domain.Suggestion{}, false, err
	}
	counts := map[string]int{}
	var order []string
	for _, p := range prior {
		if p.AccountCode == nil || *p.AccountCode == "" || p.Amount.Sign() != tx.Amount.Sign() {
			continue
		}
		if counts[*p.AccountCode] == 0 {
			order = append(order, *p.AccountCode)
		}
		counts[*p.AccountCode]++
	}
	if len(order) == 0 {
		return domain.Suggestion{}, false, nil
	}
	// prior is newest first, so ties go to the most recently used code
	best := order[0]
	for _, code := range order[1:] {
		if counts[code] > counts[best] {
			best = code
		}
	}

	found, err := g.repos.Chart().FindChartAccounts(ctx, g.tenantID, []string{best})
	if err != nil {
		return domain.Suggestion{}, false, err
	}
	account, ok := found[best]
	if !ok {
		s.LogDebug(ctx, "Previously assigned account no longer in chart", slog.String("account_code", best))
		return domain.Suggestion{}, false, nil
	}

	confidence := accountBaseConfidence
	if counts[best] >= frequentAccountMin {
		confidence += bonusFrequentAccount
	}
	txID, code := tx.BankTransactionID, best
	sg := domain.Suggestion{
		Confidence:        confidence,
		Criteria:          domain.AccountCodeCriteria{AccountCode: best, AccountName: account.Name, Occurrences: counts[best]},
		Status:            domain.SuggestionPending,
		BankTransactionID: &txID,
		ChartAccountCode:  &code,
		Reasons:           []string{"previous_assignment"},
	}
	if g.exists(sg) {
		return domain.Suggestion{}, false, nil
	}
	return sg, true, nil
}

// generateTransfers persists the best transfer candidate per source. With transactionID set
// only pairs involving that transaction are kept.
func (s *suggestionService) generateTransfers(ctx context.Context, g *generation, pool []domain.BankTransaction, transactionID *string) error {
	bands, err := loadFxBands(ctx, g.repos)
	if err != nil {
		return err
	}
	candidates := FindTransferCandidates(pool, s.opts, bands)
	candidates = slices.DeleteFunc(candidates, func(c domain.TransferCandidate) bool {
		src, dst := c.Source.BankTransactionID, c.Destination.BankTransactionID
		if _, ok := g.dismissedPairs[src+":"+dst]; ok {
			return true
		}
		_, srcBusy := g.pendingTransfer[src]
		_, dstBusy := g.pendingTransfer[dst]
		return srcBusy || dstBusy
	})

	used := map[string]struct{}{}
	for _, c := range BestTransferPerSource(candidates) {
		src, dst := c.Source.BankTransactionID, c.Destination.BankTransactionID
		if transactionID != nil && src != *transactionID && dst != *transactionID {
			continue
		}
		_, srcUsed := used[src]
		_, dstUsed := used[dst]
		if srcUsed || dstUsed {
			continue
		}
		sg := ephemeralSuggestion(c)
		sg.Ephemeral = false
		if g.exists(sg) {
			continue
		}
		if err := s.persist(ctx, g, sg); err != nil {
			return err
		}
		used[src] = struct{}{}
		used[dst] = struct{}{}
	}
	return nil
}

func (s *suggestionService) persist(ctx context.Context, g *generation, sg domain.Suggestion) error {
	now := s.now()
	sg.SuggestionID = newID()
	sg.CreatedAt, sg.LastUpdatedAt = now, now
	sg.CreatedBy, sg.LastUpdatedBy = "system", "system"
	if err := sg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := g.repos.Suggestions().CreateSuggestion(ctx, sg); err != nil {
		return err
	}
	g.index(sg)
	g.result.Created[sg.Kind()]++
	return nil
}

// suggestionKey identifies what a suggestion proposes, independent of its id.
func suggestionKey(sg domain.Suggestion) string {
	parts := []string{string(sg.Kind()), deref(sg.DocumentID), deref(sg.BankTransactionID), "", ""}
	if a, ok := sg.AccountCode(); ok {
		parts[3] = a.AccountCode
	}
	if t, ok := sg.Transfer(); ok {
		parts[4] = t.DestinationTransactionID
	}
	return strings.Join(parts, "|")
}

// nameSimilarity compares a counterparty or document name with a bank description.
// Containment scores 1; otherwise the best Levenshtein ratio of the whole strings or of
// any equally long window of description words.
func nameSimilarity(name, description string) float64 {
	name = strings.ToLower(strings.TrimSpace(name))
	description = strings.ToLower(strings.TrimSpace(description))
	if len(name) < 3 || description == "" {
		return 0
	}
	if strings.Contains(description, name) {
		return 1
	}
	best := levenshtein.RatioForStrings([]rune(name), []rune(description), levenshtein.DefaultOptions)

	nameWords := strings.Fields(name)
	descWords := strings.Fields(description)
	n := len(nameWords)
	for i := 0; n > 0 && i+n <= len(descWords); i++ {
		window := strings.Join(descWords[i:i+n], " ")
		r := levenshtein.RatioForStrings([]rune(name), []rune(window), levenshtein.DefaultOptions)
		best = max(best, r*0.9)
	}
	return best
}

func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
