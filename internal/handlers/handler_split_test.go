package handlers_test

import (
	"net/http"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestSetSplits() {
	req := dto.SetSplitsRequest{Splits: []dto.SplitRequest{
		{AccountCode: "628", Amount: decimal.NewFromInt(60)},
		{AccountCode: "626", Amount: decimal.NewFromInt(40)},
	}}
	stored := []domain.BankTransactionSplit{
		{SplitID: "s-1", BankTransactionID: "tx-1", AccountCode: "628", Amount: decimal.NewFromInt(-60), Position: 0},
		{SplitID: "s-2", BankTransactionID: "tx-1", AccountCode: "626", Amount: decimal.NewFromInt(-40), Position: 1},
	}
	suite.splits.On("SetSplits", mock.Anything, tenantID, "tx-1", mock.MatchedBy(func(r dto.SetSplitsRequest) bool {
		return len(r.Splits) == 2 && r.Splits[0].AccountCode == "628" && r.Splits[1].Amount.Equal(decimal.NewFromInt(40))
	}), actorID).Return(stored, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/transactions/tx-1/splits", req)

	suite.Equal(http.StatusOK, w.Code)
	var body []domain.BankTransactionSplit
	suite.decode(w, &body)
	suite.Require().Len(body, 2)
	suite.True(decimal.NewFromInt(-60).Equal(body[0].Amount))
}

func (suite *HandlerTestSuite) TestSetSplits_SumMismatch() {
	req := dto.SetSplitsRequest{Splits: []dto.SplitRequest{{AccountCode: "628", Amount: decimal.NewFromInt(10)}}}
	suite.splits.On("SetSplits", mock.Anything, tenantID, "tx-1", mock.Anything, actorID).
		Return(nil, apperrors.NewValidationError("split amounts must sum to the transaction amount")).Once()

	w := suite.do(http.MethodPut, "/api/v1/transactions/tx-1/splits", req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "sum to the transaction amount")
}

func (suite *HandlerTestSuite) TestGetAndSuggestSplits() {
	suite.splits.On("GetSplits", mock.Anything, tenantID, "tx-1").Return([]domain.BankTransactionSplit{}, nil).Once()
	suite.splits.On("SuggestSplits", mock.Anything, tenantID, "tx-1").
		Return([]domain.SplitInput{{AccountCode: "626", Amount: decimal.NewFromInt(-30)}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/tx-1/splits", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq("[]", w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/transactions/tx-1/splits/suggestions", nil)
	suite.Equal(http.StatusOK, w.Code)
	var body []domain.SplitInput
	suite.decode(w, &body)
	suite.Require().Len(body, 1)
	suite.Equal("626", body[0].AccountCode)
}
