package repositories

import (
	"context"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

// ChartRepository reads the read-shared settings: chart of accounts, analytic
// mappings and FX plausibility bands. Nothing in the engine writes them.
type ChartRepository interface {
	// FindAnalyticByIBAN returns apperrors.ErrNotFound when the IBAN/currency has no mapping.
	FindAnalyticByIBAN(ctx context.Context, tenantID, iban, currencyCode string) (*domain.BankAccountAnalytic, error)

	// FindChartAccounts returns the existing accounts among codes, keyed by code.
	FindChartAccounts(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartAccount, error)

	// ListFxBands returns configured plausibility bands keyed by domain.PairKey.
	ListFxBands(ctx context.Context) (domain.FxBands, error)
}
