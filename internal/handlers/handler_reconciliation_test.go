package handlers_test

import (
	"net/http"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateManualMatch_Created() {
	req := dto.ManualMatchRequest{DocumentID: "doc-1", BankTransactionID: "tx-1"}
	result := &domain.MatchResult{
		Kind:   domain.KindDocument,
		Record: &domain.ReconciliationRecord{RecordID: "rec-1", DocumentID: "doc-1", BankTransactionID: "tx-1"},
	}
	suite.reconciliation.On("CreateManualMatch", mock.Anything, tenantID, req, actorID).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/reconciliation/matches", req)

	suite.Equal(http.StatusCreated, w.Code)
	var body domain.MatchResult
	suite.decode(w, &body)
	suite.Require().NotNil(body.Record)
	suite.Equal("rec-1", body.Record.RecordID)
}

func (suite *HandlerTestSuite) TestCreateManualMatch_MissingFields() {
	w := suite.do(http.MethodPost, "/api/v1/reconciliation/matches", map[string]string{"documentId": "doc-1"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.reconciliation.AssertNotCalled(suite.T(), "CreateManualMatch")
}

func (suite *HandlerTestSuite) TestCreateManualMatch_AlreadyMatched() {
	req := dto.ManualMatchRequest{DocumentID: "doc-1", BankTransactionID: "tx-1"}
	suite.reconciliation.On("CreateManualMatch", mock.Anything, tenantID, req, actorID).Return(nil, apperrors.ErrAlreadyMatched).Once()

	w := suite.do(http.MethodPost, "/api/v1/reconciliation/matches", req)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestCreateBulkMatches_PartialFailure() {
	req := dto.BulkMatchRequest{Matches: []dto.ManualMatchRequest{
		{DocumentID: "doc-1", BankTransactionID: "tx-1"},
		{DocumentID: "doc-2", BankTransactionID: "tx-2"},
	}}
	result := &domain.BulkMatchResult{
		Successful: 1,
		Failed:     1,
		Records:    []string{"rec-1"},
		Errors:     map[string]string{"doc-2/tx-2": "already matched"},
	}
	suite.reconciliation.On("CreateBulkMatches", mock.Anything, tenantID, req, actorID).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/reconciliation/matches/bulk", req)

	suite.Equal(http.StatusOK, w.Code)
	var body domain.BulkMatchResult
	suite.decode(w, &body)
	suite.Equal(1, body.Successful)
	suite.Equal(1, body.Failed)
	suite.Contains(body.Errors, "doc-2/tx-2")
}

func (suite *HandlerTestSuite) TestUnreconcile() {
	txID := "tx-1"
	req := dto.UnreconcileRequest{TransactionID: &txID}
	resp := &dto.UnreconcileResponse{
		Transaction:     &domain.BankTransaction{BankTransactionID: txID},
		RecordsRemoved:  1,
		EntriesReversed: 2,
	}
	suite.reconciliation.On("Unreconcile", mock.Anything, tenantID, req, actorID).Return(resp, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/reconciliation/unreconcile", req)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.UnreconcileResponse
	suite.decode(w, &body)
	suite.Equal(1, body.RecordsRemoved)
	suite.Equal(2, body.EntriesReversed)
}

func (suite *HandlerTestSuite) TestUnreconcile_BothTargets() {
	txID, docID := "tx-1", "doc-1"
	req := dto.UnreconcileRequest{TransactionID: &txID, DocumentID: &docID}
	suite.reconciliation.On("Unreconcile", mock.Anything, tenantID, req, actorID).
		Return(nil, req.Check()).Once()

	w := suite.do(http.MethodPost, "/api/v1/reconciliation/unreconcile", req)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetStats() {
	stats := &domain.ReconciliationStats{
		DocumentsTotal:      10,
		DocumentsReconciled: 4,
		DocumentsRate:       40,
		TransactionsTotal:   20,
		TransactionsMatched: 5,
		TransactionsRate:    25,
		PendingSuggestions:  7,
		UnmatchedAmount:     decimal.RequireFromString("1234.50"),
	}
	suite.reconciliation.On("GetStats", mock.Anything, tenantID).Return(stats, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reconciliation/stats", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body domain.ReconciliationStats
	suite.decode(w, &body)
	suite.Equal(7, body.PendingSuggestions)
	suite.True(stats.UnmatchedAmount.Equal(body.UnmatchedAmount))
}
