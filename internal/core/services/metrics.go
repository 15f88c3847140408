package services

import (
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts reconciliation outcomes. A nil *Metrics records nothing.
type Metrics struct {
	suggestionsResolved   *prometheus.CounterVec
	suggestionsGenerated  *prometheus.CounterVec
	suggestionsSuperseded prometheus.Counter
	ledgerPostings        *prometheus.CounterVec
	ledgerReversals       prometheus.Counter
	regenerationFailures  prometheus.Counter
	unreconciled          prometheus.Counter
}

// NewMetrics registers the engine's counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		suggestionsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "suggestions_resolved_total",
			Help:      "Suggestions accepted or rejected, by kind and outcome.",
		}, []string{"kind", "status"}),
		suggestionsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "suggestions_generated_total",
			Help:      "Suggestions created by regeneration, by kind.",
		}, []string{"kind"}),
		suggestionsSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "suggestions_superseded_total",
			Help:      "Pending suggestions rejected because their entity was matched.",
		}),
		ledgerPostings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "ledger_postings_total",
			Help:      "Ledger posting attempts by source and result.",
		}, []string{"source", "result"}),
		ledgerReversals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "ledger_rows_reversed_total",
			Help:      "Ledger rows deleted by unpost.",
		}),
		regenerationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "regeneration_failures_total",
			Help:      "Regenerations that failed and were swallowed.",
		}),
		unreconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recon",
			Name:      "unreconcile_total",
			Help:      "Successful unreconcile operations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.suggestionsResolved, m.suggestionsGenerated, m.suggestionsSuperseded,
			m.ledgerPostings, m.ledgerReversals, m.regenerationFailures, m.unreconciled)
	}
	return m
}

func (m *Metrics) suggestionResolved(kind domain.SuggestionKind, status domain.SuggestionStatus) {
	if m == nil {
		return
	}
	m.suggestionsResolved.WithLabelValues(string(kind), string(status)).Inc()
}

func (m *Metrics) regenerated(res *domain.RegenerationResult) {
	if m == nil || res == nil {
		return
	}
	for kind, n := range res.Created {
		m.suggestionsGenerated.WithLabelValues(string(kind)).Add(float64(n))
	}
	m.suggestionsSuperseded.Add(float64(res.Superseded))
}

func (m *Metrics) posting(source domain.LedgerSourceType, result string) {
	if m == nil {
		return
	}
	m.ledgerPostings.WithLabelValues(string(source), result).Inc()
}

func (m *Metrics) reversed(rows int) {
	if m == nil {
		return
	}
	m.ledgerReversals.Add(float64(rows))
}

func (m *Metrics) regenerationFailed() {
	if m == nil {
		return
	}
	m.regenerationFailures.Inc()
}

func (m *Metrics) unreconcile() {
	if m == nil {
		return
	}
	m.unreconciled.Inc()
}
