package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation_app/internal/models"
	"github.com/SscSPs/bank_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type pgxSuggestionRepository struct {
	db pgx.Tx
}

var _ portsrepo.SuggestionRepositoryFacade = (*pgxSuggestionRepository)(nil)

const selectSuggestions = `
	SELECT s.suggestion_id, s.kind, s.criteria, s.confidence, s.status, s.document_id, s.bank_transaction_id,
		s.destination_transaction_id, s.chart_account_code, s.reasons, s.dismissed,
		s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
	FROM suggestions s`

// tenantScope resolves the owning tenant through the document first, then the bank transaction.
const tenantScope = `
	LEFT JOIN documents d ON d.document_id = s.document_id
	LEFT JOIN bank_transactions t ON t.bank_transaction_id = s.bank_transaction_id
	LEFT JOIN bank_accounts a ON a.bank_account_id = t.bank_account_id`

func scanSuggestion(row pgx.CollectableRow) (models.Suggestion, error) {
	var m models.Suggestion
	err := row.Scan(
		&m.SuggestionID,
		&m.Kind,
		&m.Criteria,
		&m.Confidence,
		&m.Status,
		&m.DocumentID,
		&m.BankTransactionID,
		&m.DestinationTransactionID,
		&m.ChartAccountCode,
		&m.Reasons,
		&m.Dismissed,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *pgxSuggestionRepository) querySuggestions(ctx context.Context, query string, args ...any) ([]domain.Suggestion, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, scanSuggestion)
	if err != nil {
		return nil, fmt.Errorf("failed to scan suggestions: %w", err)
	}
	return mapping.ToDomainSuggestionSlice(ms)
}

func (r *pgxSuggestionRepository) FindSuggestionByID(ctx context.Context, suggestionID string) (*domain.Suggestion, error) {
	rows, err := r.db.Query(ctx, selectSuggestions+` WHERE s.suggestion_id = $1`, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestion %s: %w", suggestionID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanSuggestion)
	if err != nil {
		return nil, notFoundOr(err, "suggestion "+suggestionID)
	}
	sg, err := mapping.ToDomainSuggestion(m)
	if err != nil {
		return nil, err
	}
	return &sg, nil
}

func (r *pgxSuggestionRepository) ListPendingSuggestions(ctx context.Context, tenantID string) ([]domain.Suggestion, error) {
	query := selectSuggestions + tenantScope + `
		WHERE s.status = $2 AND COALESCE(d.tenant_id, a.tenant_id) = $1
		ORDER BY s.confidence DESC, s.suggestion_id`
	return r.querySuggestions(ctx, query, tenantID, string(domain.SuggestionPending))
}

func (r *pgxSuggestionRepository) CountPendingSuggestions(ctx context.Context, tenantID string) (int, error) {
	query := `SELECT count(*) FROM suggestions s` + tenantScope + `
		WHERE s.status = $2 AND COALESCE(d.tenant_id, a.tenant_id) = $1`
	var n int
	if err := r.db.QueryRow(ctx, query, tenantID, string(domain.SuggestionPending)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending suggestions: %w", err)
	}
	return n, nil
}

func (r *pgxSuggestionRepository) ListTransferSuggestions(ctx context.Context, tenantID string) ([]domain.Suggestion, error) {
	query := selectSuggestions + tenantScope + `
		WHERE s.kind = $2 AND COALESCE(d.tenant_id, a.tenant_id) = $1
		ORDER BY s.confidence DESC, s.suggestion_id`
	return r.querySuggestions(ctx, query, tenantID, string(domain.KindTransfer))
}

func (r *pgxSuggestionRepository) ListDismissedSuggestions(ctx context.Context, tenantID string) ([]domain.Suggestion, error) {
	query := selectSuggestions + tenantScope + `
		WHERE s.dismissed AND COALESCE(d.tenant_id, a.tenant_id) = $1
		ORDER BY s.confidence DESC, s.suggestion_id`
	return r.querySuggestions(ctx, query, tenantID)
}

func (r *pgxSuggestionRepository) ListSuggestionsForTransaction(ctx context.Context, transactionID string) ([]domain.Suggestion, error) {
	query := selectSuggestions + `
		WHERE s.bank_transaction_id = $1 OR s.destination_transaction_id = $1
		ORDER BY s.confidence DESC, s.suggestion_id`
	return r.querySuggestions(ctx, query, transactionID)
}

func (r *pgxSuggestionRepository) CreateSuggestion(ctx context.Context, suggestion domain.Suggestion) error {
	m, err := mapping.ToModelSuggestion(suggestion)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	query := `
		INSERT INTO suggestions (suggestion_id, kind, criteria, confidence, status, document_id, bank_transaction_id,
			destination_transaction_id, chart_account_code, reasons, dismissed,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = r.db.Exec(ctx, query,
		m.SuggestionID,
		m.Kind,
		m.Criteria,
		m.Confidence,
		m.Status,
		m.DocumentID,
		m.BankTransactionID,
		m.DestinationTransactionID,
		m.ChartAccountCode,
		m.Reasons,
		m.Dismissed,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: suggestion %s", apperrors.ErrDuplicate, m.SuggestionID)
		}
		return fmt.Errorf("failed to insert suggestion %s: %w", m.SuggestionID, err)
	}
	return nil
}

func (r *pgxSuggestionRepository) ResolveSuggestion(ctx context.Context, suggestion domain.Suggestion) error {
	reasons := suggestion.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE suggestions
		SET status = $2, reasons = $3, dismissed = $4, last_updated_at = $5, last_updated_by = $6
		WHERE suggestion_id = $1 AND status = $7;
	`, suggestion.SuggestionID, string(suggestion.Status), reasons, suggestion.Dismissed,
		suggestion.LastUpdatedAt, suggestion.LastUpdatedBy, string(domain.SuggestionPending))
	if err != nil {
		return fmt.Errorf("failed to resolve suggestion %s: %w", suggestion.SuggestionID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM suggestions WHERE suggestion_id = $1)`, suggestion.SuggestionID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check suggestion %s: %w", suggestion.SuggestionID, err)
	}
	if !exists {
		return apperrors.NewNotFoundError("suggestion " + suggestion.SuggestionID + " not found")
	}
	return fmt.Errorf("%w: suggestion %s is no longer pending", apperrors.ErrInvalidState, suggestion.SuggestionID)
}

func (r *pgxSuggestionRepository) RejectPendingSuggestions(ctx context.Context, filter portsrepo.RejectFilter) (int, error) {
	if len(filter.DocumentIDs) == 0 && len(filter.TransactionIDs) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE suggestions
		SET status = $6,
			reasons = CASE WHEN $4 = '' THEN reasons ELSE array_append(reasons, $4) END,
			last_updated_at = now(),
			last_updated_by = $5
		WHERE status = $7
			AND suggestion_id <> $3
			AND (document_id = ANY($1) OR bank_transaction_id = ANY($2) OR destination_transaction_id = ANY($2));
	`, filter.DocumentIDs, filter.TransactionIDs, filter.ExceptID, filter.Reason, filter.Actor,
		string(domain.SuggestionRejected), string(domain.SuggestionPending))
	if err != nil {
		return 0, fmt.Errorf("failed to reject competing suggestions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
