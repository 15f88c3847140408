package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *memory.Store
	ctx   context.Context
}

func (suite *StoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.store.AddBankAccount(domain.BankAccount{BankAccountID: "acc-1", TenantID: "t1", IBAN: "ro49 aaaa 1b31 0075 9384 0000", CurrencyCode: "RON", IsActive: true})
	suite.store.AddTransaction(domain.BankTransaction{BankTransactionID: "tx-1", BankAccountID: "acc-1", Amount: decimal.NewFromInt(-100), TransactionDate: time.Now()})
}

func (suite *StoreTestSuite) TestTransactionInheritsAccountFields() {
	tx, ok := suite.store.Transaction("tx-1")
	suite.Require().True(ok)
	suite.Equal("t1", tx.TenantID)
	suite.Equal("RON", tx.CurrencyCode)
	suite.Equal("RO49AAAA1B31007593840000", tx.IBAN)
	suite.Equal(domain.StatusUnreconciled, tx.ReconciliationStatus)
}

func (suite *StoreTestSuite) TestOneActiveAccountPerIBAN() {
	dup := domain.BankAccount{BankAccountID: "acc-2", TenantID: "t1", IBAN: "RO49AAAA1B31007593840000", CurrencyCode: "RON", IsActive: true}
	suite.ErrorIs(suite.store.AddBankAccount(dup), apperrors.ErrDuplicate)

	dup.IsActive = false
	suite.NoError(suite.store.AddBankAccount(dup))

	other := domain.BankAccount{BankAccountID: "acc-3", TenantID: "t2", IBAN: "RO49AAAA1B31007593840000", CurrencyCode: "RON", IsActive: true}
	suite.NoError(suite.store.AddBankAccount(other))
}

func (suite *StoreTestSuite) TestFailedUnitIsRolledBack() {
	boom := errors.New("boom")
	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		suite.Require().NoError(repos.BankTransactions().UpdateTransactionStatus(ctx, "tx-1", domain.StatusMatched))
		return boom
	})
	suite.ErrorIs(err, boom)

	tx, _ := suite.store.Transaction("tx-1")
	suite.Equal(domain.StatusUnreconciled, tx.ReconciliationStatus)
}

func (suite *StoreTestSuite) TestSavepointRollsBackOnlyNestedChanges() {
	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		suite.Require().NoError(repos.BankTransactions().UpdateTransactionStatus(ctx, "tx-1", domain.StatusMatched))
		nestedErr := repos.Savepoint(ctx, func(ctx context.Context, nested portsrepo.TxRepositories) error {
			code := "628"
			suite.Require().NoError(nested.BankTransactions().AssignTransactionAccount(ctx, "tx-1", &code))
			return errors.New("posting failed")
		})
		suite.Error(nestedErr)
		return nil
	})
	suite.Require().NoError(err)

	tx, _ := suite.store.Transaction("tx-1")
	suite.Equal(domain.StatusMatched, tx.ReconciliationStatus)
	suite.Nil(tx.AccountCode)
}

func (suite *StoreTestSuite) TestResolveSuggestionRequiresPending() {
	txID := "tx-1"
	suite.store.AddSuggestion(domain.Suggestion{
		SuggestionID:      "s1",
		Status:            domain.SuggestionAccepted,
		BankTransactionID: &txID,
		Criteria:          domain.AccountCodeCriteria{AccountCode: "628"},
	})
	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Suggestions().ResolveSuggestion(ctx, domain.Suggestion{SuggestionID: "s1", Status: domain.SuggestionRejected})
	})
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *StoreTestSuite) TestCreateTransferRejectsDuplicatePair() {
	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		t := domain.TransferReconciliation{TransferID: "tr-1", TenantID: "t1", SourceTransactionID: "a", DestinationTransactionID: "b"}
		suite.Require().NoError(repos.Transfers().CreateTransfer(ctx, t))
		t.TransferID = "tr-2"
		return repos.Transfers().CreateTransfer(ctx, t)
	})
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Empty(suite.store.Transfers())
}

func (suite *StoreTestSuite) TestLedgerLinksMatchOnSetFieldsOnly() {
	recID, txID := "rec-1", "tx-1"
	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := repos.Ledger().InsertEntries(ctx, []domain.LedgerEntry{
			{EntryID: "e1", TenantID: "t1", RowKey: "k:0", Links: domain.LedgerLinks{ReconciliationID: &recID, BankTransactionID: &txID}},
			{EntryID: "e2", TenantID: "t1", RowKey: "k:1", Links: domain.LedgerLinks{BankTransactionID: &txID}},
		}); err != nil {
			return err
		}
		byRecord, err := repos.Ledger().FindEntriesByLinks(ctx, "t1", domain.LedgerLinks{ReconciliationID: &recID})
		suite.Require().NoError(err)
		suite.Len(byRecord, 1)

		byTx, err := repos.Ledger().FindEntriesByLinks(ctx, "t1", domain.LedgerLinks{BankTransactionID: &txID})
		suite.Require().NoError(err)
		suite.Len(byTx, 2)

		none, err := repos.Ledger().FindEntriesByLinks(ctx, "t1", domain.LedgerLinks{})
		suite.Require().NoError(err)
		suite.Empty(none)
		return nil
	})
	suite.Require().NoError(err)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
