package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type pgxOutstandingItemRepository struct {
	db pgx.Tx
}

var _ portsrepo.OutstandingItemRepositoryFacade = (*pgxOutstandingItemRepository)(nil)

const selectItems = `
	SELECT item_id, tenant_id, item_type, status, reference_number, description, payee_beneficiary, bank_account_id,
		amount, issue_date, expected_clear_date, actual_clear_date, days_outstanding, document_id, bank_transaction_id,
		notes, created_at, created_by, last_updated_at, last_updated_by
	FROM outstanding_items`

const itemOrder = ` ORDER BY issue_date, item_id`

func scanItem(row pgx.CollectableRow) (domain.OutstandingItem, error) {
	var i domain.OutstandingItem
	var itemType, status string
	err := row.Scan(
		&i.ItemID,
		&i.TenantID,
		&itemType,
		&status,
		&i.ReferenceNumber,
		&i.Description,
		&i.PayeeBeneficiary,
		&i.BankAccountID,
		&i.Amount,
		&i.IssueDate,
		&i.ExpectedClearDate,
		&i.ActualClearDate,
		&i.DaysOutstanding,
		&i.DocumentID,
		&i.BankTransactionID,
		&i.Notes,
		&i.CreatedAt,
		&i.CreatedBy,
		&i.LastUpdatedAt,
		&i.LastUpdatedBy,
	)
	i.Type = domain.OutstandingItemType(itemType)
	i.Status = domain.OutstandingItemStatus(status)
	return i, err
}

func (r *pgxOutstandingItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.OutstandingItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding items: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("failed to scan outstanding items: %w", err)
	}
	return items, nil
}

func (r *pgxOutstandingItemRepository) FindItemByID(ctx context.Context, itemID string) (*domain.OutstandingItem, error) {
	rows, err := r.db.Query(ctx, selectItems+` WHERE item_id = $1`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding item %s: %w", itemID, err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		return nil, notFoundOr(err, "outstanding item "+itemID)
	}
	return &item, nil
}

func (r *pgxOutstandingItemRepository) ListItems(ctx context.Context, tenantID string, filter portsrepo.OutstandingItemFilter) ([]domain.OutstandingItem, error) {
	var itemType, status *string
	if filter.Type != nil {
		s := string(*filter.Type)
		itemType = &s
	}
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	query := selectItems + `
		WHERE tenant_id = $1 AND ($2::text IS NULL OR item_type = $2) AND ($3::text IS NULL OR status = $3)` + itemOrder
	return r.queryItems(ctx, query, tenantID, itemType, status)
}

func (r *pgxOutstandingItemRepository) FindOpenItemsForDocument(ctx context.Context, tenantID, documentID string) ([]domain.OutstandingItem, error) {
	query := selectItems + ` WHERE tenant_id = $1 AND status = $2 AND document_id = $3` + itemOrder
	return r.queryItems(ctx, query, tenantID, string(domain.ItemOutstanding), documentID)
}

func (r *pgxOutstandingItemRepository) FindOpenUnlinkedItems(ctx context.Context, tenantID string, amount decimal.Decimal, referenceNumber *string) ([]domain.OutstandingItem, error) {
	query := selectItems + `
		WHERE tenant_id = $1 AND status = $2 AND bank_transaction_id IS NULL
			AND abs(abs(amount) - abs($3::numeric)) <= $4::numeric
			AND ($5::text IS NULL OR upper(reference_number) = upper($5))` + itemOrder
	return r.queryItems(ctx, query, tenantID, string(domain.ItemOutstanding), amount, domain.AmountTolerance, referenceNumber)
}

func (r *pgxOutstandingItemRepository) ListItemsClearedBy(ctx context.Context, transactionIDs []string) ([]domain.OutstandingItem, error) {
	if len(transactionIDs) == 0 {
		return nil, nil
	}
	query := selectItems + ` WHERE status = $1 AND bank_transaction_id = ANY($2)` + itemOrder
	return r.queryItems(ctx, query, string(domain.ItemCleared), transactionIDs)
}

func (r *pgxOutstandingItemRepository) CreateItem(ctx context.Context, item domain.OutstandingItem) error {
	query := `
		INSERT INTO outstanding_items (item_id, tenant_id, item_type, status, reference_number, description,
			payee_beneficiary, bank_account_id, amount, issue_date, expected_clear_date, actual_clear_date,
			days_outstanding, document_id, bank_transaction_id, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.db.Exec(ctx, query,
		item.ItemID,
		item.TenantID,
		string(item.Type),
		string(item.Status),
		item.ReferenceNumber,
		item.Description,
		item.PayeeBeneficiary,
		item.BankAccountID,
		item.Amount,
		item.IssueDate,
		item.ExpectedClearDate,
		item.ActualClearDate,
		item.DaysOutstanding,
		item.DocumentID,
		item.BankTransactionID,
		item.Notes,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: outstanding item %s", apperrors.ErrDuplicate, item.ItemID)
		}
		return fmt.Errorf("failed to insert outstanding item %s: %w", item.ItemID, err)
	}
	return nil
}

func (r *pgxOutstandingItemRepository) UpdateItem(ctx context.Context, item domain.OutstandingItem) error {
	query := `
		UPDATE outstanding_items
		SET status = $2, reference_number = $3, description = $4, payee_beneficiary = $5, expected_clear_date = $6,
			actual_clear_date = $7, days_outstanding = $8, document_id = $9, bank_transaction_id = $10, notes = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE item_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		item.ItemID,
		string(item.Status),
		item.ReferenceNumber,
		item.Description,
		item.PayeeBeneficiary,
		item.ExpectedClearDate,
		item.ActualClearDate,
		item.DaysOutstanding,
		item.DocumentID,
		item.BankTransactionID,
		item.Notes,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update outstanding item %s: %w", item.ItemID, err)
	}
	return mustAffect(tag, "outstanding item "+item.ItemID)
}
