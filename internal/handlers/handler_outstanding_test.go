package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateOutstandingItem() {
	ref := "CHK-1001"
	issued := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateOutstandingItemRequest{
		Type:            string(domain.OutstandingCheck),
		ReferenceNumber: &ref,
		Description:     "Check to supplier",
		Amount:          decimal.NewFromInt(250),
		IssueDate:       issued,
	}
	item := &domain.OutstandingItem{ItemID: "item-1", Type: domain.OutstandingCheck, Status: domain.ItemOutstanding, Amount: decimal.NewFromInt(250), IssueDate: issued}
	suite.outstanding.On("CreateItem", mock.Anything, tenantID, mock.MatchedBy(func(r dto.CreateOutstandingItemRequest) bool {
		return r.Type == req.Type && *r.ReferenceNumber == ref && r.Amount.Equal(req.Amount) && r.IssueDate.Equal(issued)
	}), actorID).Return(item, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/outstanding-items", req)

	suite.Equal(http.StatusCreated, w.Code)
	var body domain.OutstandingItem
	suite.decode(w, &body)
	suite.Equal("item-1", body.ItemID)
	suite.Equal(domain.ItemOutstanding, body.Status)
}

func (suite *HandlerTestSuite) TestListOutstandingItems_Filters() {
	params := dto.ListOutstandingItemsParams{Type: string(domain.DepositInTransit), Status: string(domain.ItemStale)}
	suite.outstanding.On("ListItems", mock.Anything, tenantID, params).Return([]domain.OutstandingItem{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/outstanding-items?type=DEPOSIT_IN_TRANSIT&status=STALE", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestAgingReport_AsOf() {
	asOf := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	report := &domain.AgingReport{AsOf: asOf, Buckets: []domain.AgingBucket{{Label: "0-30", Count: 1, Amount: decimal.NewFromInt(100)}}, Total: decimal.NewFromInt(100)}
	suite.outstanding.On("GetAgingReport", mock.Anything, tenantID, mock.MatchedBy(func(t time.Time) bool {
		return t.Equal(asOf)
	})).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/outstanding-items/aging?asOf=2026-04-30", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body domain.AgingReport
	suite.decode(w, &body)
	suite.Require().Len(body.Buckets, 1)
	suite.Equal("0-30", body.Buckets[0].Label)
}

func (suite *HandlerTestSuite) TestAgingReport_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/outstanding-items/aging?asOf=30/04/2026", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestOutstandingTransitions() {
	txID := "tx-7"
	cleared := &domain.OutstandingItem{ItemID: "item-1", Status: domain.ItemCleared, BankTransactionID: &txID}
	suite.outstanding.On("MarkCleared", mock.Anything, tenantID, "item-1", dto.ClearOutstandingItemRequest{BankTransactionID: &txID}, actorID).
		Return(cleared, nil).Once()
	suite.outstanding.On("MarkStale", mock.Anything, tenantID, "item-2", dto.OutstandingItemNotesRequest{Notes: "old"}, actorID).
		Return(nil, apperrors.ErrInvalidState).Once()
	suite.outstanding.On("Void", mock.Anything, tenantID, "item-3", dto.OutstandingItemNotesRequest{}, actorID).
		Return(&domain.OutstandingItem{ItemID: "item-3", Status: domain.ItemVoided}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/outstanding-items/item-1/clear", dto.ClearOutstandingItemRequest{BankTransactionID: &txID})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/outstanding-items/item-2/stale", dto.OutstandingItemNotesRequest{Notes: "old"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/outstanding-items/item-3/void", nil)
	suite.Equal(http.StatusOK, w.Code)
	var body domain.OutstandingItem
	suite.decode(w, &body)
	suite.Equal(domain.ItemVoided, body.Status)
}
