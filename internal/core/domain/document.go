package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies the kind of source document.
type DocumentType string

const (
	DocumentInvoice         DocumentType = "Invoice"
	DocumentReceipt         DocumentType = "Receipt"
	DocumentPaymentOrder    DocumentType = "Payment Order"
	DocumentCollectionOrder DocumentType = "Collection Order"
	DocumentZReport         DocumentType = "Z Report"
)

// PaymentStatus tracks how much of an invoice has been paid.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "UNPAID"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentFullyPaid     PaymentStatus = "FULLY_PAID"
	PaymentOverpaid      PaymentStatus = "OVERPAID"
)

// Document is an extracted financial document. ExtractedFields holds the raw payload
// produced by the extraction pipeline; it may be a JSON object or a JSON-encoded string.
type Document struct {
	DocumentID           string               `json:"documentID"`
	TenantID             string               `json:"tenantID"`
	Name                 string               `json:"name"`
	Type                 DocumentType         `json:"type"`
	ReconciliationStatus ReconciliationStatus `json:"reconciliationStatus"`
	PaymentStatus        *PaymentStatus       `json:"paymentStatus,omitempty"`
	PaidAmount           decimal.Decimal      `json:"paidAmount"`
	LastPaymentDate      *time.Time           `json:"lastPaymentDate,omitempty"`
	StorageKey           string               `json:"storageKey,omitempty"`
	ExtractedFields      json.RawMessage      `json:"extractedFields,omitempty"`
	AuditFields
}

// IsInvoice reports whether payment tracking applies.
func (d Document) IsInvoice() bool {
	return d.Type == DocumentInvoice
}

// PaymentSummary is recomputed whenever a payment is matched to an invoice.
type PaymentSummary struct {
	DocumentID      string          `json:"documentID"`
	TenantID        string          `json:"tenantID"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	LastPaymentDate *time.Time      `json:"lastPaymentDate,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// NewPaymentSummary starts an unpaid summary for an invoice total.
func NewPaymentSummary(documentID, tenantID string, total decimal.Decimal) *PaymentSummary {
	return &PaymentSummary{
		DocumentID:      documentID,
		TenantID:        tenantID,
		TotalAmount:     total,
		PaidAmount:      decimal.Zero,
		RemainingAmount: total,
		PaymentStatus:   PaymentUnpaid,
	}
}

// ApplyPayment adds |amount| to the paid total and reclassifies.
func (s *PaymentSummary) ApplyPayment(amount decimal.Decimal, paidOn time.Time) {
	s.PaidAmount = s.PaidAmount.Add(amount.Abs())
	s.RemainingAmount = s.TotalAmount.Sub(s.PaidAmount)
	s.PaymentStatus = ClassifyPayment(s.PaidAmount, s.RemainingAmount)
	if s.LastPaymentDate == nil || paidOn.After(*s.LastPaymentDate) {
		d := paidOn
		s.LastPaymentDate = &d
	}
	s.UpdatedAt = time.Now()
}

// ClassifyPayment derives the payment status from paid and remaining amounts.
func ClassifyPayment(paid, remaining decimal.Decimal) PaymentStatus {
	switch {
	case paid.Abs().LessThanOrEqual(AmountTolerance):
		return PaymentUnpaid
	case remaining.Abs().LessThanOrEqual(AmountTolerance):
		return PaymentFullyPaid
	case remaining.LessThan(AmountTolerance.Neg()):
		return PaymentOverpaid
	default:
		return PaymentPartiallyPaid
	}
}

// DocumentFacts are the structured values resolved from a document payload.
type DocumentFacts struct {
	Amount          decimal.Decimal  `json:"amount"`
	VATAmount       *decimal.Decimal `json:"vatAmount,omitempty"`
	DocumentDate    *time.Time       `json:"documentDate,omitempty"`
	DueDate         *time.Time       `json:"dueDate,omitempty"`
	Counterparty    string           `json:"counterparty,omitempty"`
	ReferenceNumber string           `json:"referenceNumber,omitempty"`
	Currency        string           `json:"currency,omitempty"`
}
