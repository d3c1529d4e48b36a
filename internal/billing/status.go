package billing

import (
	"errors"

	"github.com/lvasseur/factures/internal/models"
)

// Sequencing errors surfaced to callers as blocking rejections. An invalid
// transition never mutates state.
var (
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrPaymentRequired   = errors.New("payment_required")
	ErrDepositUnresolved = errors.New("deposit_unresolved")
	ErrDocumentLocked    = errors.New("document_locked")
)

// IssueStatus is the status a draft takes when its number is assigned:
// quotes and credit notes become validated, invoices become issued.
func IssueStatus(docType string) string {
	if docType == models.DocTypeInvoice {
		return models.StatusIssued
	}
	return models.StatusValidated
}

// transitions lists the legal moves per document type. Draft never appears
// as a target: once numbered a document can never return to draft.
// cancelled is absent on purpose, it is only reachable through the
// invoice-to-credit transformation.
var transitions = map[string]map[string][]string{
	models.DocTypeQuote: {
		models.StatusDraft:     {models.StatusValidated},
		models.StatusValidated: {models.StatusSent, models.StatusAccepted},
		models.StatusSent:      {models.StatusAccepted, models.StatusRefused},
	},
	models.DocTypeInvoice: {
		models.StatusDraft:         {models.StatusIssued},
		models.StatusIssued:        {models.StatusSent, models.StatusPartiallyPaid, models.StatusPaid},
		models.StatusSent:          {models.StatusPartiallyPaid, models.StatusPaid},
		models.StatusPartiallyPaid: {models.StatusPaid},
	},
	models.DocTypeCredit: {
		models.StatusDraft:     {models.StatusValidated},
		models.StatusValidated: {models.StatusSent, models.StatusApplied},
		models.StatusSent:      {models.StatusApplied},
	},
}

// CanTransition checks whether doc may move to target given the payments
// recorded so far. totalPaid is only meaningful for invoices.
func CanTransition(doc *models.Document, target string, totalPaid float64) error {
	// A credit note born from an invoice transformation is locked while in
	// draft: the only move it may take is its own numbering transition, which
	// assigns the AVO number.
	if doc.Type == models.DocTypeCredit && doc.SourceInvoiceID != nil && doc.IsDraft() &&
		target != IssueStatus(doc.Type) {
		return ErrDocumentLocked
	}
	// A numberless draft may only take the transition that assigns the number.
	if !doc.IsNumbered() && target != IssueStatus(doc.Type) {
		return ErrInvalidTransition
	}
	if doc.Type == models.DocTypeInvoice {
		// Deposit tri-state must be resolved before the invoice becomes
		// immutable-numbered.
		if doc.DepositAmount > 0 && doc.DepositReceived == nil &&
			(target == models.StatusIssued || target == models.StatusSent) {
			return ErrDepositUnresolved
		}
		// paid is payment-driven: a manual request is redirected to the
		// payment-capture flow unless the balance is already settled.
		if target == models.StatusPaid && Remaining(doc.TotalTTC, totalPaid) > Tolerance {
			return ErrPaymentRequired
		}
		// With payments present the payment statuses are constrained by the
		// derivation, not freely chosen.
		if totalPaid > Tolerance &&
			(target == models.StatusPaid || target == models.StatusPartiallyPaid) {
			if derived := DeriveInvoiceStatus(doc.Status, doc.TotalTTC, totalPaid); target != derived {
				return ErrInvalidTransition
			}
		}
	}
	for _, allowed := range transitions[doc.Type][doc.Status] {
		if allowed == target {
			return nil
		}
	}
	return ErrInvalidTransition
}
