package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type pgxChartRepository struct {
	db pgx.Tx
}

var _ portsrepo.ChartRepository = (*pgxChartRepository)(nil)

func (r *pgxChartRepository) FindAnalyticByIBAN(ctx context.Context, tenantID, iban, currencyCode string) (*domain.BankAccountAnalytic, error) {
	query := `
		SELECT tenant_id, iban, currency_code, synthetic_code, suffix
		FROM bank_account_analytics
		WHERE tenant_id = $1 AND iban = $2 AND currency_code = $3;
	`
	iban = domain.NormalizeIBAN(iban)
	var a domain.BankAccountAnalytic
	err := r.db.QueryRow(ctx, query, tenantID, iban, strings.ToUpper(currencyCode)).Scan(
		&a.TenantID,
		&a.IBAN,
		&a.CurrencyCode,
		&a.SyntheticCode,
		&a.Suffix,
	)
	if err != nil {
		return nil, notFoundOr(err, "analytic mapping for IBAN "+iban+" ("+currencyCode+")")
	}
	return &a, nil
}

func (r *pgxChartRepository) FindChartAccounts(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartAccount, error) {
	out := make(map[string]domain.ChartAccount, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	query := `
		SELECT tenant_id, account_code, name, is_active
		FROM chart_of_accounts
		WHERE tenant_id = $1 AND account_code = ANY($2) AND is_active;
	`
	rows, err := r.db.Query(ctx, query, tenantID, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart of accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ChartAccount, error) {
		var a domain.ChartAccount
		err := row.Scan(&a.TenantID, &a.AccountCode, &a.Name, &a.IsActive)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan chart of accounts: %w", err)
	}
	for _, a := range accounts {
		out[a.AccountCode] = a
	}
	return out, nil
}

// ListFxBands returns the configured bands, falling back to the defaults when the table is empty.
func (r *pgxChartRepository) ListFxBands(ctx context.Context) (domain.FxBands, error) {
	rows, err := r.db.Query(ctx, `SELECT from_currency_code, to_currency_code, low, high FROM fx_bands;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fx bands: %w", err)
	}
	defer rows.Close()

	bands, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FxBand, error) {
		var b domain.FxBand
		err := row.Scan(&b.FromCurrencyCode, &b.ToCurrencyCode, &b.Low, &b.High)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan fx bands: %w", err)
	}
	if len(bands) == 0 {
		return domain.DefaultFxBands(), nil
	}
	out := make(domain.FxBands, len(bands))
	for _, b := range bands {
		out[domain.PairKey(b.FromCurrencyCode, b.ToCurrencyCode)] = b
	}
	return out, nil
}
