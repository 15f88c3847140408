package handlers_test

import (
	"net/http"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateTransfer_CreatedAndExisting() {
	rate := decimal.RequireFromString("4.97")
	req := dto.CreateTransferRequest{SourceTransactionID: "tx-1", DestinationTransactionID: "tx-2", FxRate: &rate}
	matchesReq := mock.MatchedBy(func(r dto.CreateTransferRequest) bool {
		return r.SourceTransactionID == "tx-1" && r.DestinationTransactionID == "tx-2" && r.FxRate != nil && r.FxRate.Equal(rate)
	})
	transfer := domain.TransferReconciliation{TransferID: "tr-1", SourceTransactionID: "tx-1", DestinationTransactionID: "tx-2", FxRate: &rate}

	suite.transfers.On("CreateTransferReconciliation", mock.Anything, tenantID, matchesReq, actorID).
		Return(&dto.TransferResponse{Transfer: transfer, Created: true}, nil).Once()
	w := suite.do(http.MethodPost, "/api/v1/transfers", req)
	suite.Equal(http.StatusCreated, w.Code)

	suite.transfers.On("CreateTransferReconciliation", mock.Anything, tenantID, matchesReq, actorID).
		Return(&dto.TransferResponse{Transfer: transfer, Created: false}, nil).Once()
	w = suite.do(http.MethodPost, "/api/v1/transfers", req)
	suite.Equal(http.StatusOK, w.Code)

	var body dto.TransferResponse
	suite.decode(w, &body)
	suite.Equal("tr-1", body.Transfer.TransferID)
	suite.False(body.Created)
}

func (suite *HandlerTestSuite) TestCreateTransfer_SideAlreadyReconciled() {
	req := dto.CreateTransferRequest{SourceTransactionID: "tx-1", DestinationTransactionID: "tx-2"}
	suite.transfers.On("CreateTransferReconciliation", mock.Anything, tenantID, req, actorID).
		Return(nil, apperrors.ErrInvalidState).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", req)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestListTransfers_PendingOnly() {
	suite.transfers.On("ListTransfers", mock.Anything, tenantID, true).
		Return([]domain.TransferReconciliation{{TransferID: "tr-1"}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transfers?pendingOnly=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body []domain.TransferReconciliation
	suite.decode(w, &body)
	suite.Len(body, 1)
}

func (suite *HandlerTestSuite) TestListTransfers_BadFlag() {
	w := suite.do(http.MethodGet, "/api/v1/transfers?pendingOnly=maybe", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.transfers.AssertNotCalled(suite.T(), "ListTransfers")
}

func (suite *HandlerTestSuite) TestDeleteTransfer() {
	suite.transfers.On("DeleteTransfer", mock.Anything, tenantID, "tr-1", actorID).Return(nil).Once()
	w := suite.do(http.MethodDelete, "/api/v1/transfers/tr-1", nil)
	suite.Equal(http.StatusNoContent, w.Code)

	suite.transfers.On("DeleteTransfer", mock.Anything, tenantID, "tr-missing", actorID).
		Return(apperrors.NewNotFoundError("transfer not found")).Once()
	w = suite.do(http.MethodDelete, "/api/v1/transfers/tr-missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}
