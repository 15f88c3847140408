package services

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Score components of a transfer candidate.
const (
	transferBaseSameCurrency  = 0.9
	transferBaseCrossCurrency = 0.7
	bonusDifferentAccount     = 0.05
	bonusTransferKeyword      = 0.05
	bonusIBANTail             = 0.03
	bonusSharedName           = 0.02
	bonusSharedNumber         = 0.02
	penaltyPerDay             = 0.05
)

// Implied rates outside [minImpliedRate, maxImpliedRate] are never plausible.
var (
	minImpliedRate = decimal.NewFromFloat(0.05)
	maxImpliedRate = decimal.NewFromInt(50)
)

var transferKeywords = []string{
	"transfer", "virament", "viram", "transf", "alimentare", "alim cont",
	"intre conturi", "cont propriu", "own account", "schimb valutar", "exchange",
}

var (
	wordPattern   = regexp.MustCompile(`[a-z]{5,}`)
	numberPattern = regexp.MustCompile(`[0-9]{6,}`)
)

// FindTransferCandidates pairs debits with credits that look like movements between
// the tenant's own accounts. The result is ranked by score, then day distance.
func FindTransferCandidates(txs []domain.BankTransaction, opts domain.TransferOptions, bands domain.FxBands) []domain.TransferCandidate {
	opts = opts.WithDefaults()

	var debits, credits []domain.BankTransaction
	for _, tx := range txs {
		switch {
		case tx.IsDebit():
			debits = append(debits, tx)
		case tx.IsCredit():
			credits = append(credits, tx)
		}
	}

	// same currency: exact amount probe
	byAmount := make(map[string][]domain.BankTransaction, len(credits))
	for _, cr := range credits {
		k := amountKey(cr.CurrencyCode, cr.Amount)
		byAmount[k] = append(byAmount[k], cr)
	}

	var out []domain.TransferCandidate
	for _, db := range debits {
		for _, cr := range byAmount[amountKey(db.CurrencyCode, db.Amount)] {
			if c, ok := ScoreTransferPair(db, cr, opts, bands); ok {
				out = append(out, c)
			}
		}
	}

	if opts.CrossCurrency {
		for _, db := range debits {
			for _, cr := range credits {
				if strings.EqualFold(db.CurrencyCode, cr.CurrencyCode) {
					continue
				}
				if c, ok := ScoreTransferPair(db, cr, opts, bands); ok {
					out = append(out, c)
				}
			}
		}
	}

	slices.SortFunc(out, compareCandidates)
	if len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	return out
}

// ScoreTransferPair evaluates one debit/credit pair. ok is false when the pair is not a candidate.
func ScoreTransferPair(source, destination domain.BankTransaction, opts domain.TransferOptions, bands domain.FxBands) (domain.TransferCandidate, bool) {
	opts = opts.WithDefaults()
	if source.BankTransactionID == destination.BankTransactionID || !source.IsDebit() || !destination.IsCredit() {
		return domain.TransferCandidate{}, false
	}
	if source.CurrencyCode == "" || destination.CurrencyCode == "" {
		return domain.TransferCandidate{}, false
	}
	dayDiff := domain.DayDiff(source.TransactionDate, destination.TransactionDate)
	if dayDiff > opts.DaysWindow {
		return domain.TransferCandidate{}, false
	}

	debitAbs := source.AbsAmount()
	creditAbs := destination.AbsAmount()
	same := strings.EqualFold(source.CurrencyCode, destination.CurrencyCode)

	c := domain.TransferCandidate{
		Source:       source,
		Destination:  destination,
		DayDiff:      dayDiff,
		SameCurrency: same,
	}
	var score float64
	if same {
		if !debitAbs.Round(2).Equal(creditAbs.Round(2)) {
			return domain.TransferCandidate{}, false
		}
		c.ImpliedRate = decimal.NewFromInt(1)
		c.FxRate = decimal.NewFromInt(1)
		c.Reasons = append(c.Reasons, "same_amount")
		score = transferBaseSameCurrency
	} else {
		if !opts.CrossCurrency {
			return domain.TransferCandidate{}, false
		}
		implied := creditAbs.DivRound(debitAbs, 8)
		if implied.LessThan(minImpliedRate) || implied.GreaterThan(maxImpliedRate) {
			return domain.TransferCandidate{}, false
		}
		if band, found := bands.Lookup(source.CurrencyCode, destination.CurrencyCode); found {
			if !band.Widen(opts.FxTolerancePct).Contains(implied) {
				return domain.TransferCandidate{}, false
			}
		}
		c.ImpliedRate = implied
		c.FxRate = debitAbs.DivRound(creditAbs, 6)
		c.Reasons = append(c.Reasons, "fx_rate_plausible")
		score = transferBaseCrossCurrency
	}

	if source.BankAccountID != destination.BankAccountID {
		score += bonusDifferentAccount
		c.Reasons = append(c.Reasons, "different_account")
	}
	srcDesc := strings.ToLower(source.Description)
	dstDesc := strings.ToLower(destination.Description)
	if hasTransferKeyword(srcDesc) || hasTransferKeyword(dstDesc) {
		score += bonusTransferKeyword
		c.Reasons = append(c.Reasons, "transfer_keyword")
	}
	if ibanTailIn(destination.IBAN, srcDesc) || ibanTailIn(source.IBAN, dstDesc) {
		score += bonusIBANTail
		c.Reasons = append(c.Reasons, "iban_reference")
	}
	if sharesToken(wordPattern, srcDesc, dstDesc, isKeywordWord) {
		score += bonusSharedName
		c.Reasons = append(c.Reasons, "shared_counterparty")
	}
	if sharesToken(numberPattern, srcDesc, dstDesc, nil) {
		score += bonusSharedNumber
		c.Reasons = append(c.Reasons, "shared_reference_number")
	}
	if dayDiff == 0 {
		c.Reasons = append(c.Reasons, "same_day")
	} else {
		score -= penaltyPerDay * float64(dayDiff)
		c.Reasons = append(c.Reasons, fmt.Sprintf("within_%d_days", dayDiff))
	}
	c.Score = clampScore(score)
	return c, true
}

// BestTransferPerSource keeps the first candidate of each source transaction.
// The input must already be ranked.
func BestTransferPerSource(candidates []domain.TransferCandidate) []domain.TransferCandidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]domain.TransferCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Source.BankTransactionID]; dup {
			continue
		}
		seen[c.Source.BankTransactionID] = struct{}{}
		out = append(out, c)
	}
	return out
}

func compareCandidates(a, b domain.TransferCandidate) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(a.DayDiff, b.DayDiff); c != 0 {
		return c
	}
	if c := strings.Compare(a.Source.BankTransactionID, b.Source.BankTransactionID); c != 0 {
		return c
	}
	return strings.Compare(a.Destination.BankTransactionID, b.Destination.BankTransactionID)
}

func amountKey(currency string, amount decimal.Decimal) string {
	return strings.ToUpper(currency) + "|" + amount.Abs().StringFixed(2)
}

func hasTransferKeyword(desc string) bool {
	for _, kw := range transferKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

func isKeywordWord(w string) bool {
	for _, kw := range transferKeywords {
		if strings.Contains(kw, w) || strings.Contains(w, kw) {
			return true
		}
	}
	return false
}

// ibanTailIn reports whether the last six characters of iban appear in desc.
func ibanTailIn(iban, desc string) bool {
	iban = strings.ToLower(domain.NormalizeIBAN(iban))
	if len(iban) < 6 {
		return false
	}
	return strings.Contains(strings.ReplaceAll(desc, " ", ""), iban[len(iban)-6:])
}

func sharesToken(pattern *regexp.Regexp, a, b string, skip func(string) bool) bool {
	tokens := map[string]struct{}{}
	for _, t := range pattern.FindAllString(a, -1) {
		if skip == nil || !skip(t) {
			tokens[t] = struct{}{}
		}
	}
	for _, t := range pattern.FindAllString(b, -1) {
		if _, ok := tokens[t]; ok {
			return true
		}
	}
	return false
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
