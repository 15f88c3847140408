package services_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/repositories/memory"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils/normalize"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const (
	tenantID    = "tenant-1"
	otherTenant = "tenant-2"
	actorID     = "user-1"

	ronAccount  = "acc-ron"
	eurAccount  = "acc-eur"
	eurSavings  = "acc-eur-savings"
	ronIBAN     = "RO49AAAA1B31007593840000"
	eurIBAN     = "RO49AAAA1B31007593840001"
	savingsIBAN = "RO49AAAA1B31007593840002"
)

var day0 = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

// --- Mock LedgerPoster ---
type MockLedgerPoster struct {
	mock.Mock
}

func (m *MockLedgerPoster) Post(ctx context.Context, repos portsrepo.TxRepositories, req domain.PostingRequest) (*domain.PostingResult, error) {
	args := m.Called(ctx, repos, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}

func (m *MockLedgerPoster) Unpost(ctx context.Context, repos portsrepo.TxRepositories, tenantID string, links domain.LedgerLinks) (int, error) {
	args := m.Called(ctx, repos, tenantID, links)
	return args.Int(0), args.Error(1)
}

// engine bundles the services of one tenant over a seeded memory store.
type engine struct {
	store          *memory.Store
	suggestions    portssvc.SuggestionSvcFacade
	reconciliation portssvc.ReconciliationSvcFacade
	transfers      portssvc.TransferSvcFacade
	splits         portssvc.SplitSvcFacade
	outstanding    portssvc.OutstandingItemSvcFacade
}

func newEngine(poster portssvc.LedgerPosterSvc, metrics *services.Metrics, opts domain.TransferOptions) *engine {
	store := memory.NewStore()
	seedReferenceData(store)

	if poster == nil {
		poster = services.NewLedgerPoster(services.WithPosterMetrics(metrics))
	}
	docs := normalize.NewDocumentSource()
	suggestions := services.NewSuggestionService(store, docs,
		services.WithSuggestionTransferOptions(opts),
		services.WithSuggestionMetrics(metrics),
	)
	core := services.NewReconcilerForTest(poster, docs, services.DefaultLedgerAccounts(), metrics)
	return &engine{
		store:       store,
		suggestions: suggestions,
		reconciliation: services.NewReconciliationService(store, core,
			services.WithRegenerator(suggestions),
			services.WithTransferOptions(opts),
		),
		transfers:   services.NewTransferService(store, core, services.WithTransferRegenerator(suggestions)),
		splits:      services.NewSplitService(store),
		outstanding: services.NewOutstandingService(store),
	}
}

func seedReferenceData(store *memory.Store) {
	store.AddBankAccount(domain.BankAccount{BankAccountID: ronAccount, TenantID: tenantID, IBAN: ronIBAN, CurrencyCode: "RON", IsActive: true})
	store.AddBankAccount(domain.BankAccount{BankAccountID: eurAccount, TenantID: tenantID, IBAN: eurIBAN, CurrencyCode: "EUR", IsActive: true})
	store.AddBankAccount(domain.BankAccount{BankAccountID: eurSavings, TenantID: tenantID, IBAN: savingsIBAN, CurrencyCode: "EUR", IsActive: true})
	store.AddAnalytic(domain.BankAccountAnalytic{TenantID: tenantID, IBAN: ronIBAN, CurrencyCode: "RON", SyntheticCode: "5121", Suffix: "01"})
	store.AddAnalytic(domain.BankAccountAnalytic{TenantID: tenantID, IBAN: eurIBAN, CurrencyCode: "EUR", SyntheticCode: "5124", Suffix: "01"})
	store.AddAnalytic(domain.BankAccountAnalytic{TenantID: tenantID, IBAN: savingsIBAN, CurrencyCode: "EUR", SyntheticCode: "5124", Suffix: "02"})
	for _, code := range []string{"401", "4111", "473", "628", "626", "707"} {
		store.AddChartAccount(domain.ChartAccount{TenantID: tenantID, AccountCode: code, Name: "Account " + code, IsActive: true})
	}
}

func (e *engine) addTx(id, account string, amount float64, date time.Time, description string) {
	e.store.AddTransaction(domain.BankTransaction{
		BankTransactionID: id,
		BankAccountID:     account,
		TransactionDate:   date,
		Description:       description,
		Amount:            decimal.NewFromFloat(amount),
	})
}

func (e *engine) addDocument(id string, docType domain.DocumentType, name string, amount float64, date time.Time, vendor string) {
	payload, _ := json.Marshal(map[string]any{
		"total_amount":  amount,
		"document_date": date.Format("2006-01-02"),
		"vendor":        vendor,
	})
	e.store.AddDocument(domain.Document{
		DocumentID:           id,
		TenantID:             tenantID,
		Name:                 name,
		Type:                 docType,
		ReconciliationStatus: domain.StatusUnreconciled,
		PaidAmount:           decimal.Zero,
		ExtractedFields:      payload,
	})
}

func (e *engine) pendingFor(txID string) []domain.Suggestion {
	var out []domain.Suggestion
	for _, sg := range e.store.Suggestions() {
		if sg.Status != domain.SuggestionPending {
			continue
		}
		for _, id := range sg.TransactionIDs() {
			if id == txID {
				out = append(out, sg)
				break
			}
		}
	}
	return out
}

func ledgerSum(entries []domain.LedgerEntry) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func ptr[T any](v T) *T {
	return &v
}
