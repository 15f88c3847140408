package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"float", 1234.5, "1234.5", true},
		{"plain string", "1234.56", "1234.56", true},
		{"european format", "1.234,56", "1234.56", true},
		{"us format", "1,234.56", "1234.56", true},
		{"comma decimal", "99,9", "99.9", true},
		{"comma thousands", "1,234", "1234", true},
		{"with currency", "1.500,00 RON", "1500", true},
		{"negative", "-42.10", "-42.1", true},
		{"empty", "", "0", false},
		{"garbage", "n/a", "0", false},
		{"bool", true, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Amount(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestFacts_ObjectAndNestedResult(t *testing.T) {
	raw := json.RawMessage(`{"result":{"total_amount":"1.190,00","vat_amount":190,"document_date":"2024-03-15","due_date":"14.04.2024","vendor":{"name":"ACME SRL"},"document_number":"F-1001","currency":"ron"}}`)

	facts, err := Facts(raw)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1190).Equal(facts.Amount))
	require.NotNil(t, facts.VATAmount)
	assert.True(t, decimal.NewFromInt(190).Equal(*facts.VATAmount))
	require.NotNil(t, facts.DocumentDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *facts.DocumentDate)
	require.NotNil(t, facts.DueDate)
	assert.Equal(t, time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC), *facts.DueDate)
	assert.Equal(t, "ACME SRL", facts.Counterparty)
	assert.Equal(t, "F-1001", facts.ReferenceNumber)
	assert.Equal(t, "RON", facts.Currency)
}

func TestFacts_StringifiedPayload(t *testing.T) {
	inner := `{"total_amount": 250.75, "document_date": "2024-01-02"}`
	encoded, err := json.Marshal(inner)
	require.NoError(t, err)

	facts, err := Facts(encoded)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("250.75").Equal(facts.Amount))
	require.NotNil(t, facts.DocumentDate)
}

func TestFacts_NestedResultWinsOverTopLevel(t *testing.T) {
	facts, err := Facts(json.RawMessage(`{"total_amount": 10, "result": {"total_amount": 20}}`))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(facts.Amount))
}

func TestFacts_MissingAmountIsZero(t *testing.T) {
	facts, err := Facts(json.RawMessage(`{"vendor":"X"}`))
	require.NoError(t, err)
	assert.True(t, facts.Amount.IsZero())

	facts, err = Facts(nil)
	require.NoError(t, err)
	assert.True(t, facts.Amount.IsZero())
}

func TestFacts_InvalidPayload(t *testing.T) {
	_, err := Facts(json.RawMessage(`[1,2,3]`))
	assert.Error(t, err)

	_, err = Facts(json.RawMessage(`"not json"`))
	assert.Error(t, err)
}

func TestDocumentSource_FallsBackToDocumentName(t *testing.T) {
	doc := domain.Document{DocumentID: "d1", Name: "invoice-acme.pdf", ExtractedFields: json.RawMessage(`{"amount":"12,50"}`)}

	facts, err := NewDocumentSource().Resolve(doc)
	require.NoError(t, err)
	assert.Equal(t, "invoice-acme.pdf", facts.Counterparty)
	assert.True(t, decimal.RequireFromString("12.5").Equal(facts.Amount))
}
