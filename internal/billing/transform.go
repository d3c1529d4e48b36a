package billing

import (
	"errors"

	"github.com/google/uuid"

	"github.com/lvasseur/factures/internal/models"
)

var (
	ErrAlreadyTransformed = errors.New("already_transformed")
	ErrWrongDocumentType  = errors.New("wrong_document_type")
	ErrSourceNotIssued    = errors.New("source_not_issued")
)

// copyLines clones lines with fresh identities. With negate set, quantities
// and derived amounts are negated (credit notes represent a reduction).
func copyLines(lines []models.DocumentLine, negate bool) []models.DocumentLine {
	out := make([]models.DocumentLine, len(lines))
	for i, l := range lines {
		nl := l
		nl.ID = 0
		nl.DocumentID = 0
		nl.PublicID = uuid.NewString()
		if negate && nl.Kind != models.LineKindComment {
			nl.Quantity = -nl.Quantity
			nl.Amount = -nl.Amount
		}
		out[i] = nl
	}
	return out
}

// InvoiceFromQuote builds the draft invoice produced by transforming a
// quote. The caller persists it and sets the one-shot forward reference on
// the source under the same transaction.
func InvoiceFromQuote(q *models.Document) (*models.Document, error) {
	if q.Type != models.DocTypeQuote {
		return nil, ErrWrongDocumentType
	}
	if q.TransformedToInvoiceID != nil {
		return nil, ErrAlreadyTransformed
	}
	inv := &models.Document{
		PublicID:           uuid.NewString(),
		Type:               models.DocTypeInvoice,
		CompanyID:          q.CompanyID,
		ClientID:           q.ClientID,
		Status:             models.StatusDraft,
		Lines:              copyLines(q.Lines, false),
		TotalHT:            q.TotalHT,
		TotalVAT:           q.TotalVAT,
		TotalTTC:           q.TotalTTC,
		GlobalDiscount:     q.GlobalDiscount,
		GlobalDiscountType: q.GlobalDiscountType,
		SourceQuoteID:      &q.ID,
		Notes:              q.Notes,
		Currency:           q.Currency,
	}
	if q.DepositAmount > 0 {
		// Force the operator to resolve the deposit before the invoice can
		// be issued: the tri-state flag stays unset.
		inv.DepositAmount = q.DepositAmount
		inv.DepositReceived = nil
	} else {
		received := false
		inv.DepositReceived = &received
	}
	return inv, nil
}

// CreditFromInvoice builds the draft credit note produced by transforming an
// invoice. Quantities and totals are negated. Only numbered, non-draft
// invoices without an existing forward reference qualify; the caller must
// re-check the forward reference with a conditional update when persisting.
func CreditFromInvoice(inv *models.Document) (*models.Document, error) {
	if inv.Type != models.DocTypeInvoice {
		return nil, ErrWrongDocumentType
	}
	if inv.IsDraft() {
		return nil, ErrSourceNotIssued
	}
	if inv.TransformedToCreditID != nil {
		return nil, ErrAlreadyTransformed
	}
	return &models.Document{
		PublicID:        uuid.NewString(),
		Type:            models.DocTypeCredit,
		CompanyID:       inv.CompanyID,
		ClientID:        inv.ClientID,
		Status:          models.StatusDraft,
		Lines:           copyLines(inv.Lines, true),
		TotalHT:         -inv.TotalHT,
		TotalVAT:        -inv.TotalVAT,
		TotalTTC:        -inv.TotalTTC,
		SourceInvoiceID: &inv.ID,
		Notes:           inv.Notes,
		Currency:        inv.Currency,
	}, nil
}

// Duplicate builds a same-type copy with a fresh identity: status reset to
// draft, number and payments cleared, line identities regenerated. Monetary
// configuration (discounts, deposit terms, comments) is preserved.
func Duplicate(d *models.Document) *models.Document {
	dup := *d
	dup.ID = 0
	dup.PublicID = uuid.NewString()
	dup.Status = models.StatusDraft
	dup.Number = ""
	dup.IssuedAt = nil
	dup.PaidAmount = 0
	dup.TransformedToInvoiceID = nil
	dup.TransformedToCreditID = nil
	dup.SourceQuoteID = nil
	dup.SourceInvoiceID = nil
	dup.Lines = copyLines(d.Lines, false)
	return &dup
}
