package billing

import (
	"errors"
	"testing"

	"github.com/lvasseur/factures/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestCanTransition(t *testing.T) {
	srcInvoice := uint(7)
	tests := []struct {
		name    string
		doc     models.Document
		target  string
		paid    float64
		wantErr error
	}{
		{"quote draft validate", models.Document{Type: models.DocTypeQuote, Status: models.StatusDraft}, models.StatusValidated, 0, nil},
		{"numberless draft cannot be sent", models.Document{Type: models.DocTypeQuote, Status: models.StatusDraft}, models.StatusSent, 0, ErrInvalidTransition},
		{"validated quote can be sent", models.Document{Type: models.DocTypeQuote, Status: models.StatusValidated, Number: "DEV-2025-00001"}, models.StatusSent, 0, nil},
		{"sent quote refused", models.Document{Type: models.DocTypeQuote, Status: models.StatusSent, Number: "DEV-2025-00001"}, models.StatusRefused, 0, nil},
		{"numbered quote never back to draft", models.Document{Type: models.DocTypeQuote, Status: models.StatusValidated, Number: "DEV-2025-00001"}, models.StatusDraft, 0, ErrInvalidTransition},
		{"invoice draft issue", models.Document{Type: models.DocTypeInvoice, Status: models.StatusDraft}, models.StatusIssued, 0, nil},
		{"numbered invoice never back to draft", models.Document{Type: models.DocTypeInvoice, Status: models.StatusIssued, Number: "FAC-2025-00001"}, models.StatusDraft, 0, ErrInvalidTransition},
		{"manual paid without payment rejected", models.Document{Type: models.DocTypeInvoice, Status: models.StatusIssued, Number: "FAC-2025-00001", TotalTTC: 100}, models.StatusPaid, 0, ErrPaymentRequired},
		{"paid allowed when balance settled", models.Document{Type: models.DocTypeInvoice, Status: models.StatusIssued, Number: "FAC-2025-00001", TotalTTC: 100}, models.StatusPaid, 100, nil},
		{"partial target must match derivation", models.Document{Type: models.DocTypeInvoice, Status: models.StatusIssued, Number: "FAC-2025-00001", TotalTTC: 100}, models.StatusPartiallyPaid, 100, ErrInvalidTransition},
		{"deposit unresolved blocks issue", models.Document{Type: models.DocTypeInvoice, Status: models.StatusDraft, DepositAmount: 50}, models.StatusIssued, 0, ErrDepositUnresolved},
		{"deposit resolved allows issue", models.Document{Type: models.DocTypeInvoice, Status: models.StatusDraft, DepositAmount: 50, DepositReceived: boolPtr(true)}, models.StatusIssued, 0, nil},
		{"linked credit draft refuses manual moves", models.Document{Type: models.DocTypeCredit, Status: models.StatusDraft, SourceInvoiceID: &srcInvoice}, models.StatusSent, 0, ErrDocumentLocked},
		{"linked credit draft takes its numbering transition", models.Document{Type: models.DocTypeCredit, Status: models.StatusDraft, SourceInvoiceID: &srcInvoice}, models.StatusValidated, 0, nil},
		{"free credit draft validates", models.Document{Type: models.DocTypeCredit, Status: models.StatusDraft}, models.StatusValidated, 0, nil},
		{"credit sent applied", models.Document{Type: models.DocTypeCredit, Status: models.StatusSent, Number: "AVO-00001"}, models.StatusApplied, 0, nil},
		{"cancelled is terminal", models.Document{Type: models.DocTypeInvoice, Status: models.StatusCancelled, Number: "FAC-2025-00001"}, models.StatusSent, 0, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(&tt.doc, tt.target, tt.paid)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanTransition() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIssueStatus(t *testing.T) {
	if got := IssueStatus(models.DocTypeQuote); got != models.StatusValidated {
		t.Errorf("quote issue status = %q", got)
	}
	if got := IssueStatus(models.DocTypeInvoice); got != models.StatusIssued {
		t.Errorf("invoice issue status = %q", got)
	}
	if got := IssueStatus(models.DocTypeCredit); got != models.StatusValidated {
		t.Errorf("credit issue status = %q", got)
	}
}
