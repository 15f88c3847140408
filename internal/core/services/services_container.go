package services

import (
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/platform/config"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils/normalize"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, metrics *Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	transferOpts := domain.TransferOptions{
		DaysWindow:     cfg.Transfer.DaysWindow,
		MaxResults:     cfg.Transfer.MaxResults,
		CrossCurrency:  cfg.Transfer.CrossCurrency,
		FxTolerancePct: cfg.Transfer.FxTolerancePct,
	}.WithDefaults()
	accounts := LedgerAccounts{
		Receivable: cfg.Ledger.ReceivableAccount,
		Payable:    cfg.Ledger.PayableAccount,
		Sales:      cfg.Ledger.SalesAccount,
		Clearing:   cfg.Ledger.ClearingAccount,
		Currency:   cfg.Ledger.Currency,
	}
	docs := normalize.NewDocumentSource()

	container.Objects = NewObjectAccess(cfg.ObjectBaseURL, cfg.ObjectURLSecret, cfg.ObjectURLTTL)
	container.Ledger = NewLedgerPoster(WithPosterMetrics(metrics))

	// Suggestion service first: reconciliation and transfers regenerate through it
	container.Suggestion = NewSuggestionService(repos.Store, docs,
		WithSuggestionTransferOptions(transferOpts),
		WithWorkingSetLimit(cfg.WorkingSet),
		WithObjectAccess(container.Objects),
		WithSuggestionMetrics(metrics),
	)

	engine := newReconciler(container.Ledger, docs, accounts, metrics)
	container.Reconciliation = NewReconciliationService(repos.Store, engine,
		WithRegenerator(container.Suggestion),
		WithTransferOptions(transferOpts),
	)
	container.Transfer = NewTransferService(repos.Store, engine, WithTransferRegenerator(container.Suggestion))
	container.Split = NewSplitService(repos.Store)
	container.Outstanding = NewOutstandingService(repos.Store)

	return container
}
