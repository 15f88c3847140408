package services

import (
	"context"
	"errors"
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

// LedgerAccounts names the counter accounts used when booking matches.
type LedgerAccounts struct {
	Receivable string
	Payable    string
	Sales      string
	Clearing   string
	Currency   string
}

// DefaultLedgerAccounts follows the Romanian chart of accounts.
func DefaultLedgerAccounts() LedgerAccounts {
	return LedgerAccounts{Receivable: "4111", Payable: "401", Sales: "707", Clearing: "473", Currency: "RON"}
}

// CounterAccount picks the account booked against the bank for a document match.
func (a LedgerAccounts) CounterAccount(docType domain.DocumentType, amount decimal.Decimal) string {
	inflow := amount.IsPositive()
	switch docType {
	case domain.DocumentInvoice, domain.DocumentReceipt:
		if inflow {
			return a.Receivable
		}
		return a.Payable
	case domain.DocumentPaymentOrder:
		return a.Payable
	case domain.DocumentCollectionOrder:
		return a.Receivable
	case domain.DocumentZReport:
		return a.Sales
	}
	return a.Clearing
}

// matchUnit carries the entities and outcome of one match through its pipeline.
type matchUnit struct {
	tenantID string
	actor    string
	notes    *string
	repos    portsrepo.TxRepositories

	suggestion    *domain.Suggestion
	documentID    string
	transactionID string
	destinationID string
	fxRate        *decimal.Decimal

	document    *domain.Document
	transaction *domain.BankTransaction
	counterpart *domain.BankTransaction
	accountCode string
	transferNew bool

	posting *domain.PostingRequest
	posted  *domain.PostingResult
	result  *domain.MatchResult
}

func (u *matchUnit) warn(msg string) {
	u.result.Warnings = append(u.result.Warnings, msg)
}

type stage func(ctx context.Context, u *matchUnit) error

// matchPipeline runs validate, mutate and cascade stages in order inside the caller's
// unit of work. The post stage builds the ledger posting, which is recorded in a
// savepoint: a posting failure is logged and reported as a warning while the
// match itself commits.
type matchPipeline struct {
	name     string
	source   domain.LedgerSourceType
	validate []stage
	mutate   []stage
	cascade  []stage
	post     stage
}

// reconciler implements the pipelines and cascades shared by the reconciliation,
// transfer and unreconcile operations. It never opens a unit of work itself.
type reconciler struct {
	BaseService
	poster   portssvc.LedgerPosterSvc
	docs     portssvc.DocumentSourceSvc
	accounts LedgerAccounts
	metrics  *Metrics
	now      func() time.Time
}

func newReconciler(poster portssvc.LedgerPosterSvc, docs portssvc.DocumentSourceSvc, accounts LedgerAccounts, metrics *Metrics) *reconciler {
	return &reconciler{poster: poster, docs: docs, accounts: accounts, metrics: metrics, now: time.Now}
}

func (r *reconciler) run(ctx context.Context, p matchPipeline, u *matchUnit) error {
	if u.result == nil {
		u.result = &domain.MatchResult{}
	}
	for _, phase := range [][]stage{p.validate, p.mutate, p.cascade} {
		for _, st := range phase {
			if err := st(ctx, u); err != nil {
				return err
			}
		}
	}
	if p.post != nil {
		r.postBestEffort(ctx, p, u)
	}
	return nil
}

func (r *reconciler) postBestEffort(ctx context.Context, p matchPipeline, u *matchUnit) {
	var posted *domain.PostingResult
	err := u.repos.Savepoint(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := p.post(ctx, u); err != nil {
			return err
		}
		if u.posting == nil {
			return nil
		}
		var err error
		posted, err = r.poster.Post(ctx, repos, *u.posting)
		return err
	})
	if err == nil {
		u.posted = posted
		return
	}
	key := p.name
	if u.posting != nil {
		key = u.posting.PostingKey
	}
	r.LogError(ctx, err, "Ledger posting failed, match kept",
		slog.String("pipeline", p.name),
		slog.String("posting_key", key),
		slog.String("tenant_id", u.tenantID))
	r.metrics.posting(p.source, "failed")
	u.warn(fmt.Sprintf("ledger posting %s failed: %v", key, err))
}

// Pipelines

func (r *reconciler) documentPipeline() matchPipeline {
	return matchPipeline{
		name:     "document-match",
		source:   domain.SourceReconciliation,
		validate: []stage{r.loadDocumentPair, r.ensurePairNotMatched},
		mutate:   []stage{r.createRecord, r.markDocumentPairMatched, r.acceptSuggestion},
		cascade:  []stage{r.rejectCompeting, r.recomputePayment, r.clearOutstanding},
		post:     r.documentPosting,
	}
}

func (r *reconciler) accountCodePipeline() matchPipeline {
	return matchPipeline{
		name:     "account-code-match",
		source:   domain.SourceAccountSuggestion,
		validate: []stage{r.loadTransaction, r.requireOpenTransaction, r.requireChartAccount},
		mutate:   []stage{r.assignAccount, r.acceptSuggestion},
		cascade:  []stage{r.rejectCompeting, r.clearOutstanding},
		post:     r.accountPosting,
	}
}

func (r *reconciler) transferPipeline() matchPipeline {
	return matchPipeline{
		name:     "transfer-match",
		source:   domain.SourceTransfer,
		validate: []stage{r.loadTransferPair, r.findExistingTransfer, r.validateTransferAmounts},
		mutate:   []stage{r.persistTransfer, r.acceptSuggestion},
		cascade:  []stage{r.rejectCompeting, r.clearOutstanding},
		post:     r.transferPosting,
	}
}

// Shared loaders

func (r *reconciler) loadTx(ctx context.Context, u *matchUnit, id string) (*domain.BankTransaction, error) {
	tx, err := u.repos.BankTransactions().FindTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.AuthorizeTenant(ctx, u.tenantID, tx.TenantID, "bank transaction "+id); err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *reconciler) loadDoc(ctx context.Context, u *matchUnit, id string) (*domain.Document, error) {
	doc, err := u.repos.Documents().FindDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.AuthorizeTenant(ctx, u.tenantID, doc.TenantID, "document "+id); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *reconciler) loadTransaction(ctx context.Context, u *matchUnit) error {
	tx, err := r.loadTx(ctx, u, u.transactionID)
	if err != nil {
		return err
	}
	u.transaction = tx
	return nil
}

func (r *reconciler) requireOpenTransaction(ctx context.Context, u *matchUnit) error {
	if !u.transaction.ReconciliationStatus.IsOpen() {
		return fmt.Errorf("%w: transaction %s is %s", apperrors.ErrInvalidState, u.transaction.BankTransactionID, u.transaction.ReconciliationStatus)
	}
	return nil
}

// Document branch

func (r *reconciler) loadDocumentPair(ctx context.Context, u *matchUnit) error {
	doc, err := r.loadDoc(ctx, u, u.documentID)
	if err != nil {
		return err
	}
	if err := r.loadTransaction(ctx, u); err != nil {
		return err
	}
	if u.transaction.ReconciliationStatus == domain.StatusIgnored {
		return fmt.Errorf("%w: transaction %s is ignored", apperrors.ErrInvalidState, u.transactionID)
	}
	if doc.ReconciliationStatus == domain.StatusIgnored {
		return fmt.Errorf("%w: document %s is ignored", apperrors.ErrInvalidState, u.documentID)
	}
	u.document = doc
	return nil
}

func (r *reconciler) ensurePairNotMatched(ctx context.Context, u *matchUnit) error {
	existing, err := u.repos.Reconciliations().FindActiveRecord(ctx, u.documentID, u.transactionID)
	switch {
	case err == nil:
		return fmt.Errorf("%w: document %s and transaction %s are linked by record %s",
			apperrors.ErrAlreadyMatched, u.documentID, u.transactionID, existing.RecordID)
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check existing match: %w", err)
	}
}

func (r *reconciler) createRecord(ctx context.Context, u *matchUnit) error {
	record := domain.ReconciliationRecord{
		RecordID:          newID(),
		TenantID:          u.tenantID,
		DocumentID:        u.documentID,
		BankTransactionID: u.transactionID,
		MatchType:         domain.MatchManual,
		ReconciledBy:      u.actor,
		CreatedAt:         r.now(),
	}
	if u.suggestion != nil {
		record.MatchType = domain.MatchSuggested
		confidence := u.suggestion.Confidence
		record.Confidence = &confidence
		record.Notes = fmt.Sprintf("Auto-matched suggestion (%.0f%% confidence)", confidence*100)
	}
	if u.notes != nil && *u.notes != "" {
		record.Notes = *u.notes
	}
	if err := u.repos.Reconciliations().CreateRecord(ctx, record); err != nil {
		return err
	}
	u.result.Record = &record
	return nil
}

func (r *reconciler) markDocumentPairMatched(ctx context.Context, u *matchUnit) error {
	if err := u.repos.Documents().UpdateDocumentStatus(ctx, u.documentID, domain.StatusMatched); err != nil {
		return err
	}
	if err := u.repos.BankTransactions().UpdateTransactionStatus(ctx, u.transactionID, domain.StatusMatched); err != nil {
		return err
	}
	u.document.ReconciliationStatus = domain.StatusMatched
	u.transaction.ReconciliationStatus = domain.StatusMatched
	u.result.Transaction = u.transaction
	return nil
}

// recomputePayment applies the transaction to the invoice's payment summary.
func (r *reconciler) recomputePayment(ctx context.Context, u *matchUnit) error {
	if !u.document.IsInvoice() {
		return nil
	}
	summary, err := r.paymentSummary(ctx, u.repos, *u.document)
	if err != nil {
		return err
	}
	summary.ApplyPayment(u.transaction.Amount, u.transaction.TransactionDate)
	return r.storePaymentSummary(ctx, u.repos, *summary)
}

func (r *reconciler) paymentSummary(ctx context.Context, repos portsrepo.TxRepositories, doc domain.Document) (*domain.PaymentSummary, error) {
	summary, err := repos.Documents().FindPaymentSummary(ctx, doc.DocumentID)
	if err == nil {
		return summary, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	facts, err := r.docs.Resolve(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return domain.NewPaymentSummary(doc.DocumentID, doc.TenantID, facts.Amount.Abs()), nil
}

func (r *reconciler) storePaymentSummary(ctx context.Context, repos portsrepo.TxRepositories, summary domain.PaymentSummary) error {
	summary.UpdatedAt = r.now()
	if err := repos.Documents().UpsertPaymentSummary(ctx, summary); err != nil {
		return err
	}
	status := summary.PaymentStatus
	return repos.Documents().UpdateDocumentPayment(ctx, summary.DocumentID, &status, summary.PaidAmount, summary.LastPaymentDate)
}

func (r *reconciler) documentPosting(ctx context.Context, u *matchUnit) error {
	bankCode, err := r.bankAccountCode(ctx, u.repos, *u.transaction)
	if err != nil {
		return err
	}
	recordID := u.result.Record.RecordID
	txID := u.transactionID
	docID := u.documentID
	counter := r.accounts.CounterAccount(u.document.Type, u.transaction.Amount)
	u.posting = &domain.PostingRequest{
		TenantID:    u.tenantID,
		PostingDate: u.transaction.TransactionDate,
		Lines:       bankPostingLines(bankCode, counter, *u.transaction, u.document.Name),
		PostingKey:  "recon:" + recordID,
		SourceType:  domain.SourceReconciliation,
		SourceID:    recordID,
		Links:       domain.LedgerLinks{DocumentID: &docID, BankTransactionID: &txID, ReconciliationID: &recordID},
		Currency:    r.postingCurrency(*u.transaction),
	}
	return nil
}

// Account-code branch

func (r *reconciler) requireChartAccount(ctx context.Context, u *matchUnit) error {
	found, err := u.repos.Chart().FindChartAccounts(ctx, u.tenantID, []string{u.accountCode})
	if err != nil {
		return err
	}
	if _, ok := found[u.accountCode]; !ok {
		return fmt.Errorf("%w: account %s is not in the chart of accounts", apperrors.ErrValidation, u.accountCode)
	}
	return nil
}

func (r *reconciler) assignAccount(ctx context.Context, u *matchUnit) error {
	code := u.accountCode
	if err := u.repos.BankTransactions().AssignTransactionAccount(ctx, u.transactionID, &code); err != nil {
		return err
	}
	if err := u.repos.BankTransactions().UpdateTransactionStatus(ctx, u.transactionID, domain.StatusMatched); err != nil {
		return err
	}
	u.transaction.AccountCode = &code
	u.transaction.ReconciliationStatus = domain.StatusMatched
	u.result.Transaction = u.transaction
	return nil
}

func (r *reconciler) accountPosting(ctx context.Context, u *matchUnit) error {
	bankCode, err := r.bankAccountCode(ctx, u.repos, *u.transaction)
	if err != nil {
		return err
	}
	txID := u.transactionID
	suggestionID := u.suggestion.SuggestionID
	u.posting = &domain.PostingRequest{
		TenantID:    u.tenantID,
		PostingDate: u.transaction.TransactionDate,
		Lines:       bankPostingLines(bankCode, u.accountCode, *u.transaction, u.transaction.Description),
		PostingKey:  "account-suggestion:" + suggestionID,
		SourceType:  domain.SourceAccountSuggestion,
		SourceID:    suggestionID,
		Links:       domain.LedgerLinks{BankTransactionID: &txID},
		Currency:    r.postingCurrency(*u.transaction),
	}
	return nil
}

// Shared cascade

func (r *reconciler) acceptSuggestion(ctx context.Context, u *matchUnit) error {
	if u.suggestion == nil || u.suggestion.Ephemeral {
		return nil
	}
	sg := *u.suggestion
	sg.Status = domain.SuggestionAccepted
	sg.LastUpdatedAt = r.now()
	sg.LastUpdatedBy = u.actor
	// ResolveSuggestion re-checks PENDING inside the unit
	if err := u.repos.Suggestions().ResolveSuggestion(ctx, sg); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return fmt.Errorf("%w: suggestion %s was resolved concurrently", apperrors.ErrInvalidState, sg.SuggestionID)
		}
		return err
	}
	u.suggestion = &sg
	u.result.Suggestion = &sg
	return nil
}

func (r *reconciler) rejectCompeting(ctx context.Context, u *matchUnit) error {
	filter := portsrepo.RejectFilter{Reason: "superseded_by_match", Actor: u.actor}
	if u.suggestion != nil {
		filter.ExceptID = u.suggestion.SuggestionID
	}
	if u.document != nil {
		filter.DocumentIDs = []string{u.document.DocumentID}
	}
	if u.transaction != nil {
		filter.TransactionIDs = append(filter.TransactionIDs, u.transaction.BankTransactionID)
	}
	if u.counterpart != nil {
		filter.TransactionIDs = append(filter.TransactionIDs, u.counterpart.BankTransactionID)
	}
	n, err := u.repos.Suggestions().RejectPendingSuggestions(ctx, filter)
	if err != nil {
		return err
	}
	u.result.Rejected = n
	return nil
}

// clearOutstanding clears the outstanding item the matched transaction settles, preferring
// an item linked to the document, then an unlinked one with the same amount and reference.
func (r *reconciler) clearOutstanding(ctx context.Context, u *matchUnit) error {
	items := u.repos.OutstandingItems()
	tx := *u.transaction
	var candidates []domain.OutstandingItem
	if u.document != nil {
		linked, err := items.FindOpenItemsForDocument(ctx, u.tenantID, u.document.DocumentID)
		if err != nil {
			return err
		}
		candidates = linked
	}
	if len(candidates) == 0 && tx.ReferenceNumber != nil && *tx.ReferenceNumber != "" {
		byRef, err := items.FindOpenUnlinkedItems(ctx, u.tenantID, tx.AbsAmount(), tx.ReferenceNumber)
		if err != nil {
			return err
		}
		candidates = byRef
	}
	if len(candidates) == 0 {
		byAmount, err := items.FindOpenUnlinkedItems(ctx, u.tenantID, tx.AbsAmount(), nil)
		if err != nil {
			return err
		}
		candidates = byAmount
	}
	if len(candidates) == 0 {
		return nil
	}

	item := candidates[0]
	item.Clear(tx.TransactionDate, &tx.BankTransactionID)
	item.LastUpdatedAt = r.now()
	item.LastUpdatedBy = u.actor
	if err := items.UpdateItem(ctx, item); err != nil {
		return err
	}
	r.LogInfo(ctx, "Outstanding item cleared by match",
		slog.String("item_id", item.ItemID),
		slog.String("bank_transaction_id", tx.BankTransactionID))
	u.result.ClearedItem = &item
	return nil
}

// Posting helpers

func (r *reconciler) bankAccountCode(ctx context.Context, repos portsrepo.TxRepositories, tx domain.BankTransaction) (string, error) {
	analytic, err := repos.Chart().FindAnalyticByIBAN(ctx, tx.TenantID, domain.NormalizeIBAN(tx.IBAN), tx.CurrencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: IBAN %s (%s)", apperrors.ErrMissingMapping, tx.IBAN, tx.CurrencyCode)
		}
		return "", err
	}
	return analytic.FullCode(), nil
}

func (r *reconciler) postingCurrency(tx domain.BankTransaction) string {
	if tx.CurrencyCode != "" {
		return tx.CurrencyCode
	}
	return r.accounts.Currency
}

func bankPostingLines(bankCode, counterCode string, tx domain.BankTransaction, description string) []domain.PostingLine {
	return accounting.BankPostingLines(bankCode, counterCode, tx.Amount, description)
}

func newID() string {
	return uuid.NewString()
}
