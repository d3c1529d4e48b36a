package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvasseur/factures/internal/models"
)

func issuedInvoice(t *testing.T, docSvc *DocumentService, companyID, clientID uint, amountHT float64) *models.Document {
	t.Helper()
	doc, err := docSvc.Create(companyID, DocumentInput{Type: models.DocTypeInvoice, ClientID: clientID, Lines: []LineInput{itemInput(1, amountHT, 20)}})
	require.NoError(t, err)
	doc, err = docSvc.Validate(doc.ID, 1)
	require.NoError(t, err)
	return doc
}

func TestPaymentLifecycle(t *testing.T) {
	db := setupTestDB(t)
	company, client := seedCompany(t, db)
	docSvc := NewDocumentService(db, NewNumberingService(db))
	svc := NewPaymentService(db)

	inv := issuedInvoice(t, docSvc, company.ID, client.ID, 1000) // TTC 1200
	assert.Equal(t, models.StatusIssued, inv.Status)

	_, inv, err := svc.Record(inv.ID, 1, PaymentInput{Amount: 700, Method: "virement"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartiallyPaid, inv.Status)
	assert.Equal(t, 700.0, inv.PaidAmount)

	pay2, inv, err := svc.Record(inv.ID, 1, PaymentInput{Amount: 500, Method: "cheque", Reference: "CHQ-18"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, inv.Status)
	assert.Equal(t, 1200.0, inv.PaidAmount)

	// Removing the settling payment re-derives back to partially paid.
	inv, err = svc.Remove(pay2.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartiallyPaid, inv.Status)
	assert.Equal(t, 700.0, inv.PaidAmount)

	payments, err := svc.List(inv.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 700.0, payments[0].Amount)
}

func TestPaymentRemovalFallsBackToIssued(t *testing.T) {
	db := setupTestDB(t)
	company, client := seedCompany(t, db)
	docSvc := NewDocumentService(db, NewNumberingService(db))
	svc := NewPaymentService(db)

	inv := issuedInvoice(t, docSvc, company.ID, client.ID, 100)
	pay, inv, err := svc.Record(inv.ID, 1, PaymentInput{Amount: 120})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, inv.Status)

	inv, err = svc.Remove(pay.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusIssued, inv.Status)
	assert.Equal(t, 0.0, inv.PaidAmount)
}

func TestOverpaymentStaysVisible(t *testing.T) {
	db := setupTestDB(t)
	company, client := seedCompany(t, db)
	docSvc := NewDocumentService(db, NewNumberingService(db))
	svc := NewPaymentService(db)

	inv := issuedInvoice(t, docSvc, company.ID, client.ID, 100) // TTC 120
	_, inv, err := svc.Record(inv.ID, 1, PaymentInput{Amount: 150})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, inv.Status)
	assert.Equal(t, 150.0, inv.PaidAmount, "the client credit is kept, not clipped")
}

func TestPaymentRejectedOnDraftInvoice(t *testing.T) {
	db := setupTestDB(t)
	company, client := seedCompany(t, db)
	docSvc := NewDocumentService(db, NewNumberingService(db))
	svc := NewPaymentService(db)

	inv, err := docSvc.Create(company.ID, DocumentInput{Type: models.DocTypeInvoice, ClientID: client.ID, Lines: []LineInput{itemInput(1, 100, 20)}})
	require.NoError(t, err)

	_, _, err = svc.Record(inv.ID, 1, PaymentInput{Amount: 50})
	assert.ErrorIs(t, err, ErrInvoiceNotIssued)

	// The draft stays numberless and can still be issued normally.
	issued, err := docSvc.Validate(inv.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusIssued, issued.Status)

	_, issued, err = svc.Record(inv.ID, 1, PaymentInput{Amount: 120})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, issued.Status)
}

func TestPaymentRejectedOnQuote(t *testing.T) {
	db := setupTestDB(t)
	company, client := seedCompany(t, db)
	docSvc := NewDocumentService(db, NewNumberingService(db))
	svc := NewPaymentService(db)

	quote, err := docSvc.Create(company.ID, DocumentInput{Type: models.DocTypeQuote, ClientID: client.ID, Lines: []LineInput{itemInput(1, 100, 20)}})
	require.NoError(t, err)

	_, _, err = svc.Record(quote.ID, 1, PaymentInput{Amount: 50})
	assert.ErrorIs(t, err, ErrNotAnInvoice)

	_, _, err = svc.Record(quote.ID, 1, PaymentInput{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPaymentRoundingTolerance(t *testing.T) {
	db := setupTestDB(t)
	company, client := seedCompany(t, db)
	docSvc := NewDocumentService(db, NewNumberingService(db))
	svc := NewPaymentService(db)

	inv := issuedInvoice(t, docSvc, company.ID, client.ID, 100) // TTC 120
	_, inv, err := svc.Record(inv.ID, 1, PaymentInput{Amount: 119.995})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, inv.Status, "within the cent tolerance")
}
