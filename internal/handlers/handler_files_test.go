package handlers_test

import (
	"net/http"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestResolveFile() {
	suite.objects.On("Verify", tenantID, "tok-1", mock.Anything).Return("tenant-1/receipts/r1.pdf", nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/files?token=tok-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"storageKey":"tenant-1/receipts/r1.pdf"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestResolveFile_Rejected() {
	suite.objects.On("Verify", tenantID, "expired", mock.Anything).Return("", apperrors.ErrUnauthorized).Once()

	w := suite.do(http.MethodGet, "/api/v1/files?token=expired", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/files", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}
