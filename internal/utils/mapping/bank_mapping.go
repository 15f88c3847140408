package mapping

import (
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/models"
)

// ToDomainBankTransaction converts a joined transaction row to a domain BankTransaction
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		BankTransactionID:    m.BankTransactionID,
		BankAccountID:        m.BankAccountID,
		TenantID:             m.TenantID,
		TransactionDate:      m.TransactionDate,
		Description:          m.Description,
		Amount:               m.Amount,
		CurrencyCode:         m.CurrencyCode,
		IBAN:                 m.IBAN,
		ReconciliationStatus: domain.ReconciliationStatus(m.ReconciliationStatus),
		AccountCode:          m.AccountCode,
		ReferenceNumber:      m.ReferenceNumber,
		Balance:              m.Balance,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankTransactionSlice converts a slice of transaction rows
func ToDomainBankTransactionSlice(ms []models.BankTransaction) []domain.BankTransaction {
	ds := make([]domain.BankTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankTransaction(m)
	}
	return ds
}

// ToDomainDocument converts a document row to a domain Document
func ToDomainDocument(m models.Document) domain.Document {
	d := domain.Document{
		DocumentID:           m.DocumentID,
		TenantID:             m.TenantID,
		Name:                 m.Name,
		Type:                 domain.DocumentType(m.DocumentType),
		ReconciliationStatus: domain.ReconciliationStatus(m.ReconciliationStatus),
		PaidAmount:           m.PaidAmount,
		LastPaymentDate:      m.LastPaymentDate,
		StorageKey:           m.StorageKey,
		ExtractedFields:      m.ExtractedFields,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
	if m.PaymentStatus != nil {
		ps := domain.PaymentStatus(*m.PaymentStatus)
		d.PaymentStatus = &ps
	}
	return d
}
