package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Field name candidates, in lookup order. Nested "result" objects are searched first.
var (
	amountKeys       = []string{"total_amount", "totalAmount", "amount", "total"}
	vatKeys          = []string{"vat_amount", "vatAmount", "tax_amount"}
	dateKeys         = []string{"document_date", "documentDate", "date", "issue_date"}
	dueDateKeys      = []string{"due_date", "dueDate"}
	counterpartyKeys = []string{"vendor", "supplier", "seller", "buyer", "customer"}
	referenceKeys    = []string{"document_number", "documentNumber", "receipt_number", "invoice_number"}
	currencyKeys     = []string{"currency", "currency_code"}
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

var amountNoise = regexp.MustCompile(`[^0-9,.\-]`)

// Payload decodes a document payload that may be a JSON object or a JSON string holding an object.
func Payload(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]any{}, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj, nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("payload is neither an object nor a string: %w", err)
	}
	if strings.TrimSpace(encoded) == "" {
		return map[string]any{}, nil
	}
	if err := json.Unmarshal([]byte(encoded), &obj); err != nil {
		return nil, fmt.Errorf("payload string does not hold a JSON object: %w", err)
	}
	return obj, nil
}

// Facts resolves amount, dates, counterparty and reference from a payload.
// A missing amount resolves to zero.
func Facts(raw json.RawMessage) (domain.DocumentFacts, error) {
	obj, err := Payload(raw)
	if err != nil {
		return domain.DocumentFacts{}, err
	}
	scopes := []map[string]any{}
	if nested, ok := obj["result"].(map[string]any); ok {
		scopes = append(scopes, nested)
	}
	scopes = append(scopes, obj)

	facts := domain.DocumentFacts{Amount: decimal.Zero}
	if v, ok := lookup(scopes, amountKeys); ok {
		if amt, ok := Amount(v); ok {
			facts.Amount = amt
		}
	}
	if v, ok := lookup(scopes, vatKeys); ok {
		if amt, ok := Amount(v); ok {
			facts.VATAmount = &amt
		}
	}
	if v, ok := lookup(scopes, dateKeys); ok {
		facts.DocumentDate = Date(v)
	}
	if v, ok := lookup(scopes, dueDateKeys); ok {
		facts.DueDate = Date(v)
	}
	if v, ok := lookup(scopes, counterpartyKeys); ok {
		facts.Counterparty = text(v)
	}
	if v, ok := lookup(scopes, referenceKeys); ok {
		facts.ReferenceNumber = text(v)
	}
	if v, ok := lookup(scopes, currencyKeys); ok {
		facts.Currency = strings.ToUpper(text(v))
	}
	return facts, nil
}

func lookup(scopes []map[string]any, keys []string) (any, bool) {
	for _, scope := range scopes {
		for _, k := range keys {
			if v, ok := scope[k]; ok && v != nil && v != "" {
				return v, true
			}
		}
	}
	return nil, false
}

// text flattens strings and {"name": ...} objects.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	case float64:
		return decimal.NewFromFloat(t).String()
	}
	return ""
}

// Amount parses numbers and strings such as "1.234,56", "1,234.56" or "1234.56 RON".
func Amount(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		return parseAmountString(t)
	}
	return decimal.Zero, false
}

func parseAmountString(s string) (decimal.Decimal, bool) {
	s = amountNoise.ReplaceAllString(strings.TrimSpace(s), "")
	if s == "" || s == "-" {
		return decimal.Zero, false
	}
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Date parses the supported layouts; nil when unparseable.
func Date(v any) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DocumentSource resolves structured facts for stored documents.
type DocumentSource struct{}

// NewDocumentSource creates a DocumentSource.
func NewDocumentSource() *DocumentSource {
	return &DocumentSource{}
}

// Resolve returns the document's amount and dates.
func (DocumentSource) Resolve(doc domain.Document) (domain.DocumentFacts, error) {
	facts, err := Facts(doc.ExtractedFields)
	if err != nil {
		return domain.DocumentFacts{}, fmt.Errorf("document %s: %w", doc.DocumentID, err)
	}
	if facts.Counterparty == "" {
		facts.Counterparty = doc.Name
	}
	return facts, nil
}
