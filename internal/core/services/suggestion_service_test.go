package services_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils/normalize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SuggestionServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	e   *engine
}

func (suite *SuggestionServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.e = newEngine(nil, nil, domain.DefaultTransferOptions())
}

func (suite *SuggestionServiceTestSuite) regenerate(txID *string) *domain.RegenerationResult {
	res, err := suite.e.suggestions.RegenerateSuggestions(suite.ctx, tenantID, txID)
	suite.Require().NoError(err)
	return res
}

func (suite *SuggestionServiceTestSuite) TestRegenerate_DocumentSuggestion() {
	suite.e.addDocument("inv-1", domain.DocumentInvoice, "FCT-1190", 1190, day0, "Client SRL")
	suite.e.addTx("tx-1", ronAccount, 1190, day0.AddDate(0, 0, 1), "Incasare Client SRL factura 1190")

	res := suite.regenerate(nil)
	suite.Equal(1, res.Scanned)
	suite.Equal(1, res.Created[domain.KindDocument])

	pending := suite.e.pendingFor("tx-1")
	suite.Require().Len(pending, 1)
	sg := pending[0]
	suite.Equal("inv-1", *sg.DocumentID)
	suite.InDelta(1.0, sg.Confidence, 1e-9)
	suite.Equal([]string{"amount_match", "date_within_3_days", "name_similarity"}, sg.Reasons)

	criteria, ok := sg.Criteria.(domain.DocumentCriteria)
	suite.Require().True(ok)
	suite.Equal(1, criteria.DayDiff)
	suite.True(criteria.AmountDelta.IsZero())
}

func (suite *SuggestionServiceTestSuite) TestRegenerate_IsIdempotent() {
	suite.e.addDocument("inv-1", domain.DocumentInvoice, "FCT-1", 300, day0, "Client SRL")
	suite.e.addTx("tx-1", ronAccount, 300, day0, "Incasare")
	suite.e.addTx("src", eurAccount, -500, day0, "Transfer economii")
	suite.e.addTx("dst", eurSavings, 500, day0, "Transfer economii")

	first := suite.regenerate(nil)
	suite.Equal(1, first.Created[domain.KindDocument])
	suite.Equal(1, first.Created[domain.KindTransfer])

	second := suite.regenerate(nil)
	suite.Zero(second.Total())
	suite.Len(suite.e.store.Suggestions(), 2)
}

func (suite *SuggestionServiceTestSuite) TestRegenerate_DocumentMatchBlocksAccountCodeOnRerun() {
	code := "628"
	for i, id := range []string{"old-1", "old-2"} {
		suite.e.store.AddTransaction(domain.BankTransaction{
			BankTransactionID:    id,
			BankAccountID:        ronAccount,
			TransactionDate:      day0.AddDate(0, -i-1, 0),
			Description:          "Comision administrare cont",
			Amount:               dec(-12),
			AccountCode:          &code,
			ReconciliationStatus: domain.StatusMatched,
		})
	}
	suite.e.addDocument("fee-1", domain.DocumentInvoice, "Nota comision", 12, day0, "Banca")
	suite.e.addTx("tx-1", ronAccount, -12, day0, "Comision administrare cont")

	first := suite.regenerate(nil)
	suite.Equal(1, first.Created[domain.KindDocument])
	suite.Zero(first.Created[domain.KindAccountCode])

	second := suite.regenerate(nil)
	suite.Zero(second.Total())

	pending := suite.e.pendingFor("tx-1")
	suite.Require().Len(pending, 1)
	suite.Equal(domain.KindDocument, pending[0].Kind())
}

func (suite *SuggestionServiceTestSuite) TestRegenerate_CandidateSlotsStableAcrossRuns() {
	for _, id := range []string{"inv-a", "inv-b", "inv-c", "inv-d"} {
		suite.e.addDocument(id, domain.DocumentInvoice, "FCT "+id, 75, day0, "Vendor "+id)
	}
	suite.e.addTx("tx-1", ronAccount, -75, day0, "Plata")

	first := suite.regenerate(nil)
	suite.Equal(3, first.Created[domain.KindDocument])

	second := suite.regenerate(nil)
	suite.Zero(second.Total())
	suite.Len(suite.e.pendingFor("tx-1"), 3)

	// a dismissed candidate frees its slot for the next best document
	rejected := suite.e.pendingFor("tx-1")[0]
	_, err := suite.e.reconciliation.RejectSuggestion(suite.ctx, tenantID, rejected.SuggestionID, dto.RejectSuggestionRequest{}, actorID)
	suite.Require().NoError(err)

	third := suite.regenerate(nil)
	suite.Equal(1, third.Created[domain.KindDocument])
	pending := suite.e.pendingFor("tx-1")
	suite.Require().Len(pending, 3)
	for _, sg := range pending {
		suite.NotEqual(*rejected.DocumentID, *sg.DocumentID)
	}
}

func (suite *SuggestionServiceTestSuite) TestRegenerate_DateWindowAndRanking() {
	suite.e.addDocument("near", domain.DocumentInvoice, "FCT-1", 80, day0.AddDate(0, 0, -5), "Alpha")
	suite.e.addDocument("far", domain.DocumentInvoice, "FCT-2", 80, day0.AddDate(0, 0, -20), "Beta")
	suite.e.addDocument("too-far", domain.DocumentInvoice, "FCT-3", 80, day0.AddDate(0, 0, -31), "Gamma")
	suite.e.addDocument("other-amount", domain.DocumentInvoice, "FCT-4", 81, day0, "Delta")
	suite.e.addTx("tx-1", ronAccount, 80, day0, "Incasare")

	suite.regenerate(nil)

	pending := suite.e.pendingFor("tx-1")
	suite.Require().Len(pending, 2)
	byDoc := map[string]domain.Suggestion{}
	for _, sg := range pending {
		byDoc[*sg.DocumentID] = sg
	}
	suite.Greater(byDoc["near"].Confidence, byDoc["far"].Confidence)
	suite.Contains(byDoc["near"].Reasons, "date_within_7_days")
	suite.Equal([]string{"amount_match"}, byDoc["far"].Reasons)
}

func (suite *SuggestionServiceTestSuite) TestRegenerate_SupersedesStaleSuggestions() {
	suite.e.store.AddTransaction(domain.BankTransaction{
		BankTransactionID:    "tx-done",
		BankAccountID:        ronAccount,
		TransactionDate:      day0,
		Description:          "Incasare",
		Amount:               dec(50),
		ReconciliationStatus: domain.StatusMatched,
	})
	suite.e.store.AddSuggestion(domain.Suggestion{
		SuggestionID:      "sg-stale",
		Confidence:        0.7,
		Criteria:          domain.AccountCodeCriteria{AccountCode: "707"},
		Status:            domain.SuggestionPending,
		BankTransactionID: ptr("tx-done"),
		ChartAccountCode:  ptr("707"),
		Reasons:           []string{"previous_assignment"},
	})

	res := suite.regenerate(nil)
	suite.Equal(1, res.Superseded)

	sg, ok := suite.e.store.Suggestion("sg-stale")
	suite.Require().True(ok)
	suite.Equal(domain.SuggestionRejected, sg.Status)
	suite.Equal([]string{"previous_assignment", "superseded"}, sg.Reasons)
	suite.Equal("system", sg.LastUpdatedBy)
}

func (suite *SuggestionServiceTestSuite) TestRegenerate_ScopedToTransaction() {
	suite.e.addDocument("inv-1", domain.DocumentInvoice, "FCT-1", 100, day0, "Alpha")
	suite.e.addDocument("inv-2", domain.DocumentInvoice, "FCT-2", 200, day0, "Beta")
	suite.e.addTx("tx-1", ronAccount, 100, day0, "Incasare")
	suite.e.addTx("tx-2", ronAccount, 200, day0, "Incasare")

	res := suite.regenerate(ptr("tx-2"))
	suite.Equal(1, res.Scanned)
	suite.Equal(1, res.Total())
	suite.Empty(suite.e.pendingFor("tx-1"))
	suite.Len(suite.e.pendingFor("tx-2"), 1)

	_, err := suite.e.suggestions.RegenerateSuggestions(suite.ctx, otherTenant, ptr("tx-1"))
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *SuggestionServiceTestSuite) TestRegenerate_AccountCodeFromHistory() {
	code := "628"
	for i, id := range []string{"old-1", "old-2"} {
		suite.e.store.AddTransaction(domain.BankTransaction{
			BankTransactionID:    id,
			BankAccountID:        ronAccount,
			TransactionDate:      day0.AddDate(0, -i-1, 0),
			Description:          "Comision administrare cont",
			Amount:               dec(-12),
			AccountCode:          &code,
			ReconciliationStatus: domain.StatusMatched,
		})
	}
	suite.e.addTx("tx-1", ronAccount, -12, day0, "Comision administrare cont")

	suite.regenerate(nil)

	pending := suite.e.pendingFor("tx-1")
	suite.Require().Len(pending, 1)
	criteria, ok := pending[0].AccountCode()
	suite.Require().True(ok)
	suite.Equal("628", criteria.AccountCode)
	suite.Equal("Account 628", criteria.AccountName)
	suite.Equal(2, criteria.Occurrences)
	suite.InDelta(0.7, pending[0].Confidence, 1e-9)
}

func (suite *SuggestionServiceTestSuite) TestRefresh_OnlyWhenStale() {
	suite.e.addDocument("inv-1", domain.DocumentInvoice, "FCT-1", 100, day0, "Alpha")
	suite.e.addTx("tx-1", ronAccount, 100, day0, "Incasare")

	refreshed, err := suite.e.suggestions.Refresh(suite.ctx, tenantID)
	suite.Require().NoError(err)
	suite.True(refreshed)
	suite.Len(suite.e.pendingFor("tx-1"), 1)

	refreshed, err = suite.e.suggestions.Refresh(suite.ctx, tenantID)
	suite.Require().NoError(err)
	suite.False(refreshed)
}

func (suite *SuggestionServiceTestSuite) TestListSuggestions_PaginatesAndEnriches() {
	suite.e.addDocument("inv-1", domain.DocumentInvoice, "FCT-1", 100, day0, "Alpha Trade")
	suite.e.addDocument("inv-2", domain.DocumentInvoice, "FCT-2", 200, day0.AddDate(0, 0, -5), "Beta")
	suite.e.addDocument("inv-3", domain.DocumentInvoice, "FCT-3", 300, day0.AddDate(0, 0, -20), "Gamma")
	suite.e.addTx("tx-1", ronAccount, 100, day0, "Incasare Alpha Trade")
	suite.e.addTx("tx-2", ronAccount, 200, day0, "Incasare")
	suite.e.addTx("tx-3", ronAccount, 300, day0, "Incasare")

	first, err := suite.e.suggestions.ListSuggestions(suite.ctx, tenantID, dto.ListSuggestionsParams{Page: 1, Size: 2})
	suite.Require().NoError(err)
	suite.Equal(3, first.Total)
	suite.Require().Len(first.Items, 2)

	top := first.Items[0]
	suite.Equal(domain.KindDocument, top.Kind)
	suite.Require().NotNil(top.Document)
	suite.Equal("inv-1", top.Document.DocumentID)
	suite.Equal("Alpha Trade", top.Document.Counterparty)
	suite.True(dec(100).Equal(top.Document.Amount))
	suite.Require().NotNil(top.BankTransaction)
	suite.Equal("RON", top.BankTransaction.CurrencyCode)
	suite.GreaterOrEqual(top.Confidence, first.Items[1].Confidence)

	second, err := suite.e.suggestions.ListSuggestions(suite.ctx, tenantID, dto.ListSuggestionsParams{Page: 2, Size: 2})
	suite.Require().NoError(err)
	suite.Require().Len(second.Items, 1)
	suite.Equal("inv-3", second.Items[0].Document.DocumentID)

	beyond, err := suite.e.suggestions.ListSuggestions(suite.ctx, tenantID, dto.ListSuggestionsParams{Page: 5, Size: 2})
	suite.Require().NoError(err)
	suite.Empty(beyond.Items)
	suite.Equal(3, beyond.Total)

	_, err = suite.e.suggestions.ListSuggestions(suite.ctx, tenantID, dto.ListSuggestionsParams{Size: 1000})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SuggestionServiceTestSuite) TestListSuggestions_PagesStartAtOne() {
	suite.e.addDocument("inv-1", domain.DocumentInvoice, "FCT-1", 100, day0, "Alpha")
	suite.e.addTx("tx-1", ronAccount, 100, day0, "Incasare")

	// only page 1 refreshes a stale set
	later, err := suite.e.suggestions.ListSuggestions(suite.ctx, tenantID, dto.ListSuggestionsParams{Page: 2})
	suite.Require().NoError(err)
	suite.Zero(later.Total)

	unset, err := suite.e.suggestions.ListSuggestions(suite.ctx, tenantID, dto.ListSuggestionsParams{})
	suite.Require().NoError(err)
	suite.Equal(1, unset.Page)
	suite.Equal(1, unset.Total)
	suite.Len(unset.Items, 1)
}

func (suite *SuggestionServiceTestSuite) TestListSuggestions_MergesEphemeralTransfer() {
	suite.e.addTx("src", eurAccount, -500, day0, "Transfer economii")
	suite.e.addTx("dst", eurSavings, 500, day0, "Transfer economii")
	// as many pending suggestions as open transactions, so listing does not regenerate
	for _, id := range []string{"src", "dst"} {
		suite.e.store.AddSuggestion(domain.Suggestion{
			SuggestionID:      "sg-" + id,
			Confidence:        0.7,
			Criteria:          domain.AccountCodeCriteria{AccountCode: "628"},
			Status:            domain.SuggestionPending,
			BankTransactionID: ptr(id),
			ChartAccountCode:  ptr("628"),
		})
	}

	resp, err := suite.e.suggestions.ListSuggestions(suite.ctx, tenantID, dto.ListSuggestionsParams{})
	suite.Require().NoError(err)
	suite.Equal(3, resp.Total)
	suite.Require().Len(resp.Items, 3)

	transfer := resp.Items[0]
	suite.True(transfer.Ephemeral)
	suite.Equal(domain.KindTransfer, transfer.Kind)
	suite.Equal(domain.EphemeralTransferID("src", "dst"), transfer.SuggestionID)
	suite.Require().NotNil(transfer.Transfer)
	suite.Equal("dst", transfer.Transfer.Destination.BankTransactionID)
	suite.True(transfer.Transfer.SameCurrency)

	account := resp.Items[1]
	suite.Require().NotNil(account.ChartAccount)
	suite.Equal("Account 628", account.ChartAccount.Name)
	suite.Len(suite.e.store.Suggestions(), 2)
}

func (suite *SuggestionServiceTestSuite) TestListSuggestions_SignsDocumentURL() {
	objects := services.NewObjectAccess("http://files.test/api/v1/", "file-secret", time.Minute)
	svc := services.NewSuggestionService(suite.e.store, normalize.NewDocumentSource(), services.WithObjectAccess(objects))

	suite.e.addDocument("inv-1", domain.DocumentInvoice, "FCT-1", 100, day0, "Alpha")
	doc, _ := suite.e.store.Document("inv-1")
	doc.StorageKey = "tenant-1/invoices/fct-1.pdf"
	suite.e.store.AddDocument(doc)
	suite.e.addTx("tx-1", ronAccount, 100, day0, "Incasare")

	resp, err := svc.ListSuggestions(suite.ctx, tenantID, dto.ListSuggestionsParams{})
	suite.Require().NoError(err)
	suite.Require().Len(resp.Items, 1)
	fileURL := resp.Items[0].Document.FileURL
	suite.True(strings.HasPrefix(fileURL, "http://files.test/api/v1/files?token="), fileURL)

	parsed, err := url.Parse(fileURL)
	suite.Require().NoError(err)
	key, err := objects.Verify(tenantID, parsed.Query().Get("token"), time.Now())
	suite.Require().NoError(err)
	suite.Equal("tenant-1/invoices/fct-1.pdf", key)
}

func (suite *SuggestionServiceTestSuite) TestGetTransferCandidates_Validation() {
	_, err := suite.e.suggestions.GetTransferCandidates(suite.ctx, tenantID, dto.TransferCandidatesParams{DaysWindow: 90})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.e.suggestions.GetTransferCandidates(suite.ctx, "", dto.TransferCandidatesParams{})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *SuggestionServiceTestSuite) TestMetrics() {
	reg := prometheus.NewRegistry()
	e := newEngine(nil, services.NewMetrics(reg), domain.DefaultTransferOptions())
	e.addDocument("inv-1", domain.DocumentInvoice, "FCT-1", 100, day0, "Alpha")
	e.addTx("tx-1", ronAccount, 100, day0, "Incasare Alpha")

	_, err := e.suggestions.RegenerateSuggestions(suite.ctx, tenantID, nil)
	suite.Require().NoError(err)
	pending := e.pendingFor("tx-1")
	suite.Require().Len(pending, 1)
	_, err = e.reconciliation.AcceptSuggestion(suite.ctx, tenantID, pending[0].SuggestionID, dto.AcceptSuggestionRequest{}, actorID)
	suite.Require().NoError(err)

	expected := `
# HELP recon_suggestions_generated_total Suggestions created by regeneration, by kind.
# TYPE recon_suggestions_generated_total counter
recon_suggestions_generated_total{kind="DOCUMENT"} 1
# HELP recon_suggestions_resolved_total Suggestions accepted or rejected, by kind and outcome.
# TYPE recon_suggestions_resolved_total counter
recon_suggestions_resolved_total{kind="DOCUMENT",status="ACCEPTED"} 1
# HELP recon_ledger_postings_total Ledger posting attempts by source and result.
# TYPE recon_ledger_postings_total counter
recon_ledger_postings_total{result="posted",source="RECONCILIATION"} 1
`
	suite.NoError(testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"recon_suggestions_generated_total", "recon_suggestions_resolved_total", "recon_ledger_postings_total"))
}

func TestSuggestionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SuggestionServiceTestSuite))
}

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		name        string
		docName     string
		description string
		min, max    float64
	}{
		{name: "contained", docName: "Client SRL", description: "Incasare CLIENT SRL fact 12", min: 1, max: 1},
		{name: "too short", docName: "AB", description: "ab", min: 0, max: 0},
		{name: "empty description", docName: "Client SRL", description: "  ", min: 0, max: 0},
		{name: "typo in window", docName: "Client SRL", description: "Plata Cleint SRL fact 12", min: 0.6, max: 0.99},
		{name: "unrelated", docName: "Alpha Trade", description: "Comision bancar lunar", min: 0, max: 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := services.NameSimilarity(tc.docName, tc.description)
			assert.GreaterOrEqual(t, got, tc.min)
			assert.LessOrEqual(t, got, tc.max)
		})
	}
}
