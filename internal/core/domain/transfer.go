package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransferOptions tunes transfer candidate detection.
type TransferOptions struct {
	DaysWindow     int     `json:"daysWindow"`
	MaxResults     int     `json:"maxResults"`
	CrossCurrency  bool    `json:"crossCurrency"`
	FxTolerancePct float64 `json:"fxTolerancePct"`
}

// DefaultTransferOptions returns a two-day, same-currency search.
func DefaultTransferOptions() TransferOptions {
	return TransferOptions{DaysWindow: 2, MaxResults: 50, FxTolerancePct: 2}
}

// WithDefaults fills zero values from DefaultTransferOptions.
func (o TransferOptions) WithDefaults() TransferOptions {
	d := DefaultTransferOptions()
	if o.DaysWindow <= 0 {
		o.DaysWindow = d.DaysWindow
	}
	if o.MaxResults <= 0 {
		o.MaxResults = d.MaxResults
	}
	if o.FxTolerancePct < 0 {
		o.FxTolerancePct = 0
	}
	return o
}

// TransferCandidate is a plausible debit/credit pair between own accounts.
// FxRate converts destination units into source units.
type TransferCandidate struct {
	Source       BankTransaction `json:"source"`
	Destination  BankTransaction `json:"destination"`
	Score        float64         `json:"score"`
	DayDiff      int             `json:"dayDiff"`
	SameCurrency bool            `json:"sameCurrency"`
	ImpliedRate  decimal.Decimal `json:"impliedRate"`
	FxRate       decimal.Decimal `json:"fxRate"`
	Reasons      []string        `json:"reasons"`
}

// SuggestionID returns the composite id of the ephemeral suggestion for this candidate.
func (c TransferCandidate) SuggestionID() string {
	return EphemeralTransferID(c.Source.BankTransactionID, c.Destination.BankTransactionID)
}

// FxBand is the plausible range for the rate converting one unit of From into To.
type FxBand struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Low              decimal.Decimal `json:"low"`
	High             decimal.Decimal `json:"high"`
}

// PairKey returns "FROM/TO" upper-cased.
func PairKey(from, to string) string {
	return strings.ToUpper(from) + "/" + strings.ToUpper(to)
}

// Inverse returns the band for the opposite direction.
func (b FxBand) Inverse() FxBand {
	one := decimal.NewFromInt(1)
	return FxBand{
		FromCurrencyCode: b.ToCurrencyCode,
		ToCurrencyCode:   b.FromCurrencyCode,
		Low:              one.DivRound(b.High, 8),
		High:             one.DivRound(b.Low, 8),
	}
}

// Widen expands the band by pct percent on both ends.
func (b FxBand) Widen(pct float64) FxBand {
	f := decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100))
	one := decimal.NewFromInt(1)
	b.Low = b.Low.Mul(one.Sub(f))
	b.High = b.High.Mul(one.Add(f))
	return b
}

// Contains reports whether rate lies inside the band.
func (b FxBand) Contains(rate decimal.Decimal) bool {
	return rate.GreaterThanOrEqual(b.Low) && rate.LessThanOrEqual(b.High)
}

// FxBands indexes bands by PairKey.
type FxBands map[string]FxBand

// Lookup finds the band for from->to, inverting a stored to->from band when needed.
func (m FxBands) Lookup(from, to string) (FxBand, bool) {
	if b, ok := m[PairKey(from, to)]; ok {
		return b, true
	}
	if b, ok := m[PairKey(to, from)]; ok {
		return b.Inverse(), true
	}
	return FxBand{}, false
}

// DefaultFxBands covers the currencies a Romanian company usually holds.
func DefaultFxBands() FxBands {
	band := func(from, to string, low, high float64) FxBand {
		return FxBand{FromCurrencyCode: from, ToCurrencyCode: to, Low: decimal.NewFromFloat(low), High: decimal.NewFromFloat(high)}
	}
	bands := []FxBand{
		band("EUR", "RON", 4.5, 5.3),
		band("USD", "RON", 3.9, 5.2),
		band("GBP", "RON", 5.2, 6.3),
		band("CHF", "RON", 4.5, 5.8),
		band("EUR", "USD", 0.95, 1.25),
		band("EUR", "GBP", 0.8, 0.95),
		band("EUR", "CHF", 0.9, 1.1),
	}
	m := make(FxBands, len(bands))
	for _, b := range bands {
		m[PairKey(b.FromCurrencyCode, b.ToCurrencyCode)] = b
	}
	return m
}
