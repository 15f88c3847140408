package mapping

import (
	"testing"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionCriteriaSurviveStorage(t *testing.T) {
	src := "tx-src"
	in := domain.Suggestion{
		SuggestionID:      "sg-1",
		Confidence:        0.93,
		Status:            domain.SuggestionPending,
		BankTransactionID: &src,
		Criteria: domain.TransferCriteria{
			DestinationTransactionID: "tx-dst",
			FxRate:                   decimal.RequireFromString("4.975"),
			DayDiff:                  1,
			SourceCurrency:           "RON",
			DestinationCurrency:      "EUR",
		},
	}

	row, err := ToModelSuggestion(in)
	require.NoError(t, err)
	assert.Equal(t, "TRANSFER", row.Kind)
	require.NotNil(t, row.DestinationTransactionID)
	assert.Equal(t, "tx-dst", *row.DestinationTransactionID)
	assert.Equal(t, []string{}, row.Reasons)

	out, err := ToDomainSuggestion(row)
	require.NoError(t, err)
	c, ok := out.Transfer()
	require.True(t, ok)
	assert.Equal(t, "tx-dst", c.DestinationTransactionID)
	assert.True(t, decimal.RequireFromString("4.975").Equal(c.FxRate))
	assert.Equal(t, "EUR", c.DestinationCurrency)
}

func TestDecodeCriteria(t *testing.T) {
	c, err := DecodeCriteria(domain.KindAccountCode, []byte(`{"accountCode":"628","occurrences":3}`))
	require.NoError(t, err)
	assert.Equal(t, domain.AccountCodeCriteria{AccountCode: "628", Occurrences: 3}, c)

	c, err = DecodeCriteria(domain.KindDocument, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.KindDocument, c.Kind())

	_, err = DecodeCriteria("SPLIT", []byte(`{}`))
	assert.Error(t, err)

	_, err = ToModelSuggestion(domain.Suggestion{SuggestionID: "sg-2"})
	assert.Error(t, err)
}
