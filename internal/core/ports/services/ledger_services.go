package services

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
)

// LedgerPosterSvc records and reverses balanced postings. Both operations run on the
// repositories of the caller's unit of work.
type LedgerPosterSvc interface {
	// Post records the lines once per (tenant, posting key). A repeated key returns the
	// existing rows with AlreadyPosted set.
	Post(ctx context.Context, repos portsrepo.TxRepositories, req domain.PostingRequest) (*domain.PostingResult, error)

	// Unpost deletes the rows carrying every link set on links and returns how many were reversed.
	Unpost(ctx context.Context, repos portsrepo.TxRepositories, tenantID string, links domain.LedgerLinks) (int, error)
}
