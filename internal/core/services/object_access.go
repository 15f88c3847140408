package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	portssvc "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils"
)

const objectTokenIssuer = "recon-files"

// objectAccess issues signed, expiring file URLs. The token carries the storage key as
// subject and the tenant, so a URL never grants another tenant's file.
type objectAccess struct {
	baseURL string
	secret  string
	ttl     time.Duration
	now     func() time.Time
}

// NewObjectAccess creates an ObjectAccessSvc serving files under baseURL.
func NewObjectAccess(baseURL, secret string, ttl time.Duration) portssvc.ObjectAccessSvc {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &objectAccess{baseURL: strings.TrimRight(baseURL, "/"), secret: secret, ttl: ttl, now: time.Now}
}

var _ portssvc.ObjectAccessSvc = (*objectAccess)(nil)

func (o *objectAccess) SignedURL(tenantID string, storageKey string) (string, error) {
	if storageKey == "" {
		return "", nil
	}
	if tenantID == "" {
		return "", fmt.Errorf("%w: no tenant in scope", apperrors.ErrUnauthorized)
	}
	token, err := utils.GenerateJWT(storageKey, tenantID, o.secret, objectTokenIssuer, o.ttl, o.now())
	if err != nil {
		return "", fmt.Errorf("failed to sign file token: %w", err)
	}
	return o.baseURL + "/files?token=" + url.QueryEscape(token), nil
}

func (o *objectAccess) Verify(tenantID string, token string, now time.Time) (string, error) {
	claims, err := utils.ParseAndValidateJWT(token, o.secret, objectTokenIssuer, now)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if claims.TenantID != tenantID {
		return "", fmt.Errorf("%w: file token issued for another tenant", apperrors.ErrUnauthorized)
	}
	return claims.Subject, nil
}
