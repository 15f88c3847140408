package services

import (
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

// DocumentSourceSvc resolves the structured facts of a stored document.
type DocumentSourceSvc interface {
	Resolve(doc domain.Document) (domain.DocumentFacts, error)
}

// ObjectAccessSvc issues and checks temporary retrieval URLs for stored files.
type ObjectAccessSvc interface {
	// SignedURL returns an expiring URL for the key, or "" when the key is empty.
	SignedURL(tenantID string, storageKey string) (string, error)

	// Verify checks a token issued by SignedURL and returns the storage key it grants.
	Verify(tenantID string, token string, now time.Time) (string, error)
}
