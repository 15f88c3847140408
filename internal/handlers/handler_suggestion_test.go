package handlers_test

import (
	"net/http"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestListSuggestions_Success() {
	resp := &dto.ListSuggestionsResponse{
		Items: []dto.SuggestionResponse{
			{SuggestionID: "sug-1", Kind: domain.KindDocument, Status: domain.SuggestionPending, Confidence: 0.92, Reasons: []string{"amount"}},
			{SuggestionID: domain.EphemeralTransferID("tx-1", "tx-2"), Kind: domain.KindTransfer, Status: domain.SuggestionPending, Confidence: 0.8, Ephemeral: true, Reasons: []string{}},
		},
		Total: 2, Page: 1, Size: 20,
	}
	suite.suggestions.On("ListSuggestions", mock.Anything, tenantID, dto.ListSuggestionsParams{Page: 1, Size: 20}).Return(resp, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/suggestions?page=1&size=20", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListSuggestionsResponse
	suite.decode(w, &body)
	suite.Equal(2, body.Total)
	suite.Require().Len(body.Items, 2)
	suite.Equal("sug-1", body.Items[0].SuggestionID)
	suite.True(body.Items[1].Ephemeral)
}

func (suite *HandlerTestSuite) TestListSuggestions_BadQuery() {
	w := suite.do(http.MethodGet, "/api/v1/suggestions?page=first", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListSuggestions_ServiceFailureIsNotLeaked() {
	suite.suggestions.On("ListSuggestions", mock.Anything, tenantID, dto.ListSuggestionsParams{}).
		Return(nil, apperrors.NewAppError(500, "pgx: connection refused to 10.0.0.5", nil)).Once()

	w := suite.do(http.MethodGet, "/api/v1/suggestions", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "10.0.0.5")
}

func (suite *HandlerTestSuite) TestRefreshSuggestions() {
	suite.suggestions.On("Refresh", mock.Anything, tenantID).Return(true, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/suggestions/refresh", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body map[string]bool
	suite.decode(w, &body)
	suite.True(body["refreshed"])
}

func (suite *HandlerTestSuite) TestRegenerateSuggestions_ScopedToTransaction() {
	txID := "tx-9"
	result := &domain.RegenerationResult{Created: map[domain.SuggestionKind]int{domain.KindDocument: 2}, Scanned: 1}
	suite.suggestions.On("RegenerateSuggestions", mock.Anything, tenantID, mock.MatchedBy(func(id *string) bool {
		return id != nil && *id == txID
	})).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/suggestions/regenerate", dto.RegenerateSuggestionsRequest{TransactionID: &txID})

	suite.Equal(http.StatusOK, w.Code)
	var body domain.RegenerationResult
	suite.decode(w, &body)
	suite.Equal(2, body.Created[domain.KindDocument])
}

func (suite *HandlerTestSuite) TestRegenerateSuggestions_WholeTenant() {
	result := &domain.RegenerationResult{Created: map[domain.SuggestionKind]int{}}
	suite.suggestions.On("RegenerateSuggestions", mock.Anything, tenantID, (*string)(nil)).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/suggestions/regenerate", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestTransferCandidates_Params() {
	cross := true
	params := dto.TransferCandidatesParams{DaysWindow: 3, MaxResults: 10, CrossCurrency: &cross, FxTolerancePct: 2.5}
	candidates := []domain.TransferCandidate{{
		Source:      domain.BankTransaction{BankTransactionID: "tx-1", Amount: decimal.NewFromInt(-500)},
		Destination: domain.BankTransaction{BankTransactionID: "tx-2", Amount: decimal.NewFromInt(100)},
		Score:       0.85,
		FxRate:      decimal.NewFromInt(5),
	}}
	suite.suggestions.On("GetTransferCandidates", mock.Anything, tenantID, params).Return(candidates, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/suggestions/transfer-candidates?daysWindow=3&maxResults=10&crossCurrency=true&fxTolerancePct=2.5", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body []domain.TransferCandidate
	suite.decode(w, &body)
	suite.Require().Len(body, 1)
	suite.Equal("tx-2", body[0].Destination.BankTransactionID)
}

func (suite *HandlerTestSuite) TestAcceptSuggestion_Success() {
	notes := "checked"
	result := &domain.MatchResult{Kind: domain.KindDocument, Rejected: 1}
	suite.reconciliation.On("AcceptSuggestion", mock.Anything, tenantID, "sug-1", dto.AcceptSuggestionRequest{Notes: &notes}, actorID).
		Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/suggestions/sug-1/accept", dto.AcceptSuggestionRequest{Notes: &notes})

	suite.Equal(http.StatusOK, w.Code)
	var body domain.MatchResult
	suite.decode(w, &body)
	suite.Equal(domain.KindDocument, body.Kind)
	suite.Equal(1, body.Rejected)
}

func (suite *HandlerTestSuite) TestAcceptSuggestion_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: apperrors.NewNotFoundError("suggestion not found"), status: http.StatusNotFound},
		{name: "other tenant", err: apperrors.ErrUnauthorized, status: http.StatusForbidden},
		{name: "not pending", err: apperrors.ErrInvalidState, status: http.StatusConflict},
		{name: "already matched", err: apperrors.ErrAlreadyMatched, status: http.StatusConflict},
		{name: "invalid", err: apperrors.NewValidationError("bad criteria"), status: http.StatusBadRequest},
		{name: "posting failed", err: apperrors.NewDependencyError("ledger", nil), status: http.StatusBadGateway},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.reconciliation.On("AcceptSuggestion", mock.Anything, tenantID, "sug-x", dto.AcceptSuggestionRequest{}, actorID).
				Return(nil, tc.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/suggestions/sug-x/accept", nil)
			suite.Equal(tc.status, w.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestAcceptSuggestion_MalformedBody() {
	req := map[string]any{"notes": 42}

	w := suite.do(http.MethodPost, "/api/v1/suggestions/sug-1/accept", req)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRejectSuggestion() {
	reason := "wrong supplier"
	docID := "doc-1"
	rejected := &domain.Suggestion{SuggestionID: "sug-1", Status: domain.SuggestionRejected, DocumentID: &docID, Reasons: []string{reason}}
	suite.reconciliation.On("RejectSuggestion", mock.Anything, tenantID, "sug-1", dto.RejectSuggestionRequest{Reason: &reason}, actorID).
		Return(rejected, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/suggestions/sug-1/reject", dto.RejectSuggestionRequest{Reason: &reason})

	suite.Equal(http.StatusOK, w.Code)
	var body map[string]any
	suite.decode(w, &body)
	suite.Equal(string(domain.SuggestionRejected), body["status"])
}
