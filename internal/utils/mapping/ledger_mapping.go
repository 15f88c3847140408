package mapping

import (
	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation_app/internal/models"
)

// ToModelLedgerEntry flattens the entry's links into columns.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:           d.EntryID,
		TenantID:          d.TenantID,
		PostingDate:       d.PostingDate,
		AccountCode:       d.AccountCode,
		Debit:             d.Debit,
		Credit:            d.Credit,
		Currency:          d.Currency,
		Description:       d.Description,
		SourceType:        string(d.SourceType),
		SourceID:          d.SourceID,
		PostingKey:        d.PostingKey,
		RowKey:            d.RowKey,
		DocumentID:        d.Links.DocumentID,
		BankTransactionID: d.Links.BankTransactionID,
		ReconciliationID:  d.Links.ReconciliationID,
		TransferID:        d.Links.TransferID,
		CreatedAt:         d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a ledger row to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     m.EntryID,
		TenantID:    m.TenantID,
		PostingDate: m.PostingDate,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Currency:    m.Currency,
		Description: m.Description,
		SourceType:  domain.LedgerSourceType(m.SourceType),
		SourceID:    m.SourceID,
		PostingKey:  m.PostingKey,
		RowKey:      m.RowKey,
		Links: domain.LedgerLinks{
			DocumentID:        m.DocumentID,
			BankTransactionID: m.BankTransactionID,
			ReconciliationID:  m.ReconciliationID,
			TransferID:        m.TransferID,
		},
		CreatedAt: m.CreatedAt,
	}
}

// ToDomainLedgerEntrySlice converts a slice of ledger rows
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
