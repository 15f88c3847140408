package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/stretchr/testify/suite"
)

type SplitServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	e   *engine
}

func (suite *SplitServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.e = newEngine(nil, nil, domain.DefaultTransferOptions())
}

func splitsOf(lines ...dto.SplitRequest) dto.SetSplitsRequest {
	return dto.SetSplitsRequest{Splits: lines}
}

func line(code string, amount float64) dto.SplitRequest {
	return dto.SplitRequest{AccountCode: code, Amount: dec(amount)}
}

func (suite *SplitServiceTestSuite) TestSetSplits_StoresSignedAmountsInOrder() {
	suite.e.addTx("tx-1", ronAccount, -100, day0, "Plata furnizor")

	stored, err := suite.e.splits.SetSplits(suite.ctx, tenantID, "tx-1", splitsOf(line("628", 60), line("626", 40)), actorID)
	suite.Require().NoError(err)
	suite.Require().Len(stored, 2)

	suite.Equal("628", stored[0].AccountCode)
	suite.True(dec(-60).Equal(stored[0].Amount))
	suite.Equal(0, stored[0].Position)
	suite.Equal("626", stored[1].AccountCode)
	suite.True(dec(-40).Equal(stored[1].Amount))
	suite.Equal(1, stored[1].Position)

	got, err := suite.e.splits.GetSplits(suite.ctx, tenantID, "tx-1")
	suite.Require().NoError(err)
	suite.Equal(stored, got)
}

func (suite *SplitServiceTestSuite) TestSetSplits_ReplacesPreviousAllocation() {
	suite.e.addTx("tx-1", ronAccount, -100, day0, "Plata furnizor")
	_, err := suite.e.splits.SetSplits(suite.ctx, tenantID, "tx-1", splitsOf(line("628", 60), line("626", 40)), actorID)
	suite.Require().NoError(err)

	_, err = suite.e.splits.SetSplits(suite.ctx, tenantID, "tx-1", splitsOf(line("401", 100)), actorID)
	suite.Require().NoError(err)

	stored := suite.e.store.Splits("tx-1")
	suite.Require().Len(stored, 1)
	suite.Equal("401", stored[0].AccountCode)
}

func (suite *SplitServiceTestSuite) TestSetSplits_RejectsInvalidAllocations() {
	suite.e.addTx("tx-1", ronAccount, -100, day0, "Plata furnizor")
	_, err := suite.e.splits.SetSplits(suite.ctx, tenantID, "tx-1", splitsOf(line("628", 60), line("626", 40)), actorID)
	suite.Require().NoError(err)

	tests := []struct {
		name string
		req  dto.SetSplitsRequest
	}{
		{name: "sum mismatch", req: splitsOf(line("628", 60), line("626", 30))},
		{name: "unknown account", req: splitsOf(line("628", 60), line("999", 40))},
		{name: "zero amount", req: splitsOf(line("628", 100), line("626", 0))},
		{name: "empty", req: splitsOf()},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := suite.e.splits.SetSplits(suite.ctx, tenantID, "tx-1", tc.req, actorID)
			suite.ErrorIs(err, apperrors.ErrValidation)

			stored := suite.e.store.Splits("tx-1")
			suite.Require().Len(stored, 2)
			suite.Equal("628", stored[0].AccountCode)
		})
	}
}

func (suite *SplitServiceTestSuite) TestSetSplits_OtherTenant() {
	suite.e.addTx("tx-1", ronAccount, -100, day0, "Plata furnizor")

	_, err := suite.e.splits.SetSplits(suite.ctx, otherTenant, "tx-1", splitsOf(line("628", 100)), actorID)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.e.splits.GetSplits(suite.ctx, tenantID, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SplitServiceTestSuite) TestSuggestSplits_ScalesPriorPattern() {
	suite.e.addTx("old", ronAccount, -200, day0.AddDate(0, -1, 0), "Abonament telefonie")
	suite.e.addTx("new", ronAccount, -50, day0, "Abonament telefonie")
	_, err := suite.e.splits.SetSplits(suite.ctx, tenantID, "old", splitsOf(line("626", 120), line("628", 80)), actorID)
	suite.Require().NoError(err)

	got, err := suite.e.splits.SuggestSplits(suite.ctx, tenantID, "new")
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal("626", got[0].AccountCode)
	suite.True(dec(-30).Equal(got[0].Amount), got[0].Amount.String())
	suite.Equal("628", got[1].AccountCode)
	suite.True(dec(-20).Equal(got[1].Amount), got[1].Amount.String())
}

func (suite *SplitServiceTestSuite) TestSuggestSplits_IgnoresOppositeDirection() {
	suite.e.addTx("refund", ronAccount, 200, day0.AddDate(0, -1, 0), "Abonament telefonie")
	suite.e.addTx("new", ronAccount, -50, day0, "Abonament telefonie")
	_, err := suite.e.splits.SetSplits(suite.ctx, tenantID, "refund", splitsOf(line("626", 120), line("628", 80)), actorID)
	suite.Require().NoError(err)

	got, err := suite.e.splits.SuggestSplits(suite.ctx, tenantID, "new")
	suite.Require().NoError(err)
	suite.Empty(got)
}

func (suite *SplitServiceTestSuite) TestSuggestSplits_FallsBackToAssignedAccount() {
	code := "628"
	suite.e.store.AddTransaction(domain.BankTransaction{
		BankTransactionID: "tx-1",
		BankAccountID:     ronAccount,
		TransactionDate:   day0,
		Description:       "Comision bancar",
		Amount:            dec(-15),
		AccountCode:       &code,
	})

	got, err := suite.e.splits.SuggestSplits(suite.ctx, tenantID, "tx-1")
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal("628", got[0].AccountCode)
	suite.True(dec(-15).Equal(got[0].Amount))
}

func TestSplitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SplitServiceTestSuite))
}
