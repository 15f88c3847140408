package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransferServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	e   *engine
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.e = newEngine(nil, nil, domain.DefaultTransferOptions())
}

func (suite *TransferServiceTestSuite) create(src, dst string) (*dto.TransferResponse, error) {
	return suite.e.transfers.CreateTransferReconciliation(suite.ctx, tenantID, dto.CreateTransferRequest{
		SourceTransactionID:      src,
		DestinationTransactionID: dst,
	}, actorID)
}

func (suite *TransferServiceTestSuite) TestSameCurrencyCandidateScoresHigh() {
	suite.e.addTx("src", eurAccount, -500, day0, "Transfer to savings")
	suite.e.addTx("dst", eurSavings, 500, day0, "Transfer from current account")

	candidates, err := suite.e.suggestions.GetTransferCandidates(suite.ctx, tenantID, dto.TransferCandidatesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1)

	c := candidates[0]
	suite.Equal("src", c.Source.BankTransactionID)
	suite.Equal("dst", c.Destination.BankTransactionID)
	suite.GreaterOrEqual(c.Score, 0.9)
	suite.True(c.SameCurrency)
	suite.True(dec(1).Equal(c.FxRate))
	suite.Contains(c.Reasons, "same_amount")
	suite.Contains(c.Reasons, "same_day")
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_BalancedAndIdempotent() {
	suite.e.addTx("src", eurAccount, -500, day0, "Transfer to savings")
	suite.e.addTx("dst", eurSavings, 500, day0, "Transfer from current account")

	first, err := suite.create("src", "dst")
	suite.Require().NoError(err)
	suite.True(first.Created)
	suite.True(first.Posted)
	suite.Empty(first.Warnings)
	suite.Require().NotNil(first.Transfer.FxRate)
	suite.True(first.Transfer.IsUnityRate())

	entries := suite.e.store.LedgerEntries(tenantID)
	suite.Require().Len(entries, 2)
	debit, credit := ledgerSum(entries)
	suite.True(dec(500).Equal(debit))
	suite.True(dec(500).Equal(credit))
	suite.True(dec(500).Equal(suite.e.store.AccountBalance(tenantID, "5124.02")))
	suite.True(dec(-500).Equal(suite.e.store.AccountBalance(tenantID, "5124.01")))

	second, err := suite.create("src", "dst")
	suite.Require().NoError(err)
	suite.False(second.Created)
	suite.Equal(first.Transfer.TransferID, second.Transfer.TransferID)
	suite.Len(suite.e.store.Transfers(), 1)
	suite.Len(suite.e.store.LedgerEntries(tenantID), 2)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_PostedReflectsPosterOutcome() {
	tests := []struct {
		name     string
		result   *domain.PostingResult
		err      error
		posted   bool
		warnings int
	}{
		{name: "posted", result: &domain.PostingResult{PostingKey: "transfer:x"}, posted: true},
		{name: "poster fails", err: errors.New("ledger unavailable"), warnings: 1},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			poster := new(MockLedgerPoster)
			poster.On("Post", mock.Anything, mock.Anything, mock.MatchedBy(func(req domain.PostingRequest) bool {
				return req.SourceType == domain.SourceTransfer
			})).Return(tt.result, tt.err).Once()
			suite.e = newEngine(poster, nil, domain.DefaultTransferOptions())
			suite.e.addTx("src", eurAccount, -500, day0, "Transfer to savings")
			suite.e.addTx("dst", eurSavings, 500, day0, "Transfer from current account")

			resp, err := suite.create("src", "dst")
			suite.Require().NoError(err)
			suite.True(resp.Created)
			suite.Equal(tt.posted, resp.Posted)
			suite.Len(resp.Warnings, tt.warnings)
			poster.AssertExpectations(suite.T())
		})
	}
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_RequiresOutflowThenInflow() {
	suite.e.addTx("in", eurSavings, 500, day0, "Transfer")
	suite.e.addTx("out", eurAccount, -500, day0, "Transfer")

	_, err := suite.create("in", "out")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.create("out", "out")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.Empty(suite.e.store.Transfers())
	tx, _ := suite.e.store.Transaction("out")
	suite.Equal(domain.StatusUnreconciled, tx.ReconciliationStatus)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_SameCurrencyAmountMismatch() {
	suite.e.addTx("src", eurAccount, -500, day0, "Transfer")
	suite.e.addTx("dst", eurSavings, 400, day0, "Transfer")

	_, err := suite.create("src", "dst")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.e.store.Transfers())
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_MatchedTransactionRejected() {
	suite.e.addTx("src", eurAccount, -500, day0, "Transfer")
	suite.e.addTx("dst", eurSavings, 500, day0, "Transfer")
	suite.e.addTx("dst-2", eurSavings, 500, day0, "Transfer")
	_, err := suite.create("src", "dst")
	suite.Require().NoError(err)

	_, err = suite.create("src", "dst-2")
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *TransferServiceTestSuite) TestCrossCurrencyCandidate_DependsOnOptions() {
	suite.e.addTx("ron-out", ronAccount, -1000, day0, "Schimb valutar")
	suite.e.addTx("eur-in", eurAccount, 220, day0.AddDate(0, 0, 3), "Schimb valutar")

	found, err := suite.e.suggestions.GetTransferCandidates(suite.ctx, tenantID, dto.TransferCandidatesParams{DaysWindow: 3, CrossCurrency: ptr(true)})
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.False(found[0].SameCurrency)
	suite.Equal(3, found[0].DayDiff)
	suite.Equal("4.545455", found[0].FxRate.String())
	suite.Contains(found[0].Reasons, "fx_rate_plausible")

	hidden, err := suite.e.suggestions.GetTransferCandidates(suite.ctx, tenantID, dto.TransferCandidatesParams{DaysWindow: 3, CrossCurrency: ptr(false)})
	suite.Require().NoError(err)
	suite.Empty(hidden)

	outOfWindow, err := suite.e.suggestions.GetTransferCandidates(suite.ctx, tenantID, dto.TransferCandidatesParams{DaysWindow: 2, CrossCurrency: ptr(true)})
	suite.Require().NoError(err)
	suite.Empty(outOfWindow)
}

func (suite *TransferServiceTestSuite) TestCrossCurrencyTransfer_PostingSkipped() {
	suite.e.addTx("ron-out", ronAccount, -1000, day0, "Schimb valutar")
	suite.e.addTx("eur-in", eurAccount, 220, day0.AddDate(0, 0, 1), "Schimb valutar")

	rate := dec(4.545455)
	resp, err := suite.e.transfers.CreateTransferReconciliation(suite.ctx, tenantID, dto.CreateTransferRequest{
		SourceTransactionID:      "ron-out",
		DestinationTransactionID: "eur-in",
		FxRate:                   &rate,
	}, actorID)
	suite.Require().NoError(err)

	suite.True(resp.Created)
	suite.False(resp.Posted)
	suite.Require().Len(resp.Warnings, 1)
	suite.Contains(resp.Warnings[0], "needs manual booking")
	suite.Empty(suite.e.store.LedgerEntries(tenantID))
	for _, id := range []string{"ron-out", "eur-in"} {
		tx, _ := suite.e.store.Transaction(id)
		suite.Equal(domain.StatusMatched, tx.ReconciliationStatus, id)
	}
}

func (suite *TransferServiceTestSuite) TestListTransfers_PendingOnlyHidesRatedTransfers() {
	suite.e.addTx("src", eurAccount, -500, day0, "Transfer")
	suite.e.addTx("dst", eurSavings, 500, day0, "Transfer")
	suite.e.addTx("ron-out", ronAccount, -1000, day0, "Schimb valutar")
	suite.e.addTx("eur-in", eurAccount, 220, day0, "Schimb valutar")
	_, err := suite.create("src", "dst")
	suite.Require().NoError(err)
	_, err = suite.create("ron-out", "eur-in")
	suite.Require().NoError(err)

	all, err := suite.e.transfers.ListTransfers(suite.ctx, tenantID, false)
	suite.Require().NoError(err)
	suite.Len(all, 2)

	pending, err := suite.e.transfers.ListTransfers(suite.ctx, tenantID, true)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("ron-out", pending[0].SourceTransactionID)
	suite.Nil(pending[0].FxRate)
}

func (suite *TransferServiceTestSuite) TestDeleteTransfer_ReleasesBothSides() {
	suite.e.addTx("src", eurAccount, -500, day0, "Transfer to savings")
	suite.e.addTx("dst", eurSavings, 500, day0, "Transfer from current account")
	resp, err := suite.create("src", "dst")
	suite.Require().NoError(err)

	err = suite.e.transfers.DeleteTransfer(suite.ctx, tenantID, resp.Transfer.TransferID, actorID)
	suite.Require().NoError(err)

	suite.Empty(suite.e.store.Transfers())
	suite.Empty(suite.e.store.LedgerEntries(tenantID))
	for _, id := range []string{"src", "dst"} {
		tx, _ := suite.e.store.Transaction(id)
		suite.Equal(domain.StatusUnreconciled, tx.ReconciliationStatus, id)
	}
	// regeneration proposes the pair again
	suite.Len(suite.e.pendingFor("src"), 1)
}

func (suite *TransferServiceTestSuite) TestDeleteTransfer_OtherTenant() {
	suite.e.addTx("src", eurAccount, -500, day0, "Transfer")
	suite.e.addTx("dst", eurSavings, 500, day0, "Transfer")
	resp, err := suite.create("src", "dst")
	suite.Require().NoError(err)

	err = suite.e.transfers.DeleteTransfer(suite.ctx, otherTenant, resp.Transfer.TransferID, actorID)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Len(suite.e.store.Transfers(), 1)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
