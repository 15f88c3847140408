package memory

import (
	"context"
	"maps"

	"github.com/SscSPs/bank_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
)

func (t *txRepos) FindAnalyticByIBAN(ctx context.Context, tenantID, iban, currencyCode string) (*domain.BankAccountAnalytic, error) {
	a, ok := t.st.analytics[analyticKey(tenantID, iban, currencyCode)]
	if !ok {
		return nil, apperrors.NewNotFoundError("no analytic mapping for IBAN " + domain.NormalizeIBAN(iban) + " (" + currencyCode + ")")
	}
	return &a, nil
}

func (t *txRepos) FindChartAccounts(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartAccount, error) {
	out := make(map[string]domain.ChartAccount, len(codes))
	for _, code := range codes {
		if a, ok := t.st.chart[chartKey(tenantID, code)]; ok && a.IsActive {
			out[code] = a
		}
	}
	return out, nil
}

func (t *txRepos) ListFxBands(ctx context.Context) (domain.FxBands, error) {
	return maps.Clone(t.st.fxBands), nil
}
