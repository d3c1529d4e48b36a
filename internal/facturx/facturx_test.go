package facturx

import (
	"strings"
	"testing"
	"time"

	"github.com/lvasseur/factures/internal/models"
)

func sampleInvoice() (*models.Document, *models.CompanySettings, *models.Client) {
	issued := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	doc := &models.Document{
		PublicID: "d-1",
		Type:     models.DocTypeInvoice,
		Status:   models.StatusIssued,
		Number:   "FAC-2025-00042",
		IssuedAt: &issued,
		Currency: "EUR",
		Lines: []models.DocumentLine{
			{Kind: models.LineKindItem, Description: "Prestation conseil", Quantity: 2, UnitPrice: 100, VATRate: 20, Amount: 200},
			{Kind: models.LineKindItem, Description: "Livres", Quantity: 1, UnitPrice: 80, VATRate: 5.5, Amount: 80},
		},
		TotalHT:  280,
		TotalVAT: 44.40,
		TotalTTC: 324.40,
	}
	company := &models.CompanySettings{RaisonSociale: "Atelier Brun", SIRET: "12345678900011", TVAIntra: "FR32123456789", IBAN: "FR7630006000011234567890189"}
	client := &models.Client{Kind: models.ClientProfessional, CompanyName: "ClientCo", SIRET: "98765432100022"}
	return doc, company, client
}

func TestGenerateInvoice(t *testing.T) {
	doc, company, client := sampleInvoice()
	out, err := Generate(doc, company, client)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	xmlStr := string(out)

	for _, want := range []string{
		"FAC-2025-00042",
		"<ram:TypeCode>380</ram:TypeCode>",
		">20250314<",
		"Atelier Brun",
		"ClientCo",
		"<ram:GrandTotalAmount>324.40</ram:GrandTotalAmount>",
		"<ram:TaxTotalAmount>44.40</ram:TaxTotalAmount>",
		"<ram:InvoiceCurrencyCode>EUR</ram:InvoiceCurrencyCode>",
		"FR7630006000011234567890189",
	} {
		if !strings.Contains(xmlStr, want) {
			t.Errorf("missing %q in output", want)
		}
	}

	// One tax block per VAT rate.
	if got := strings.Count(xmlStr, "<ram:ApplicableTradeTax>"); got != 2 {
		t.Errorf("tax blocks = %d, want 2", got)
	}
}

func TestGenerateCreditNoteTypeCode(t *testing.T) {
	doc, company, client := sampleInvoice()
	doc.Type = models.DocTypeCredit
	doc.Number = "AVO-2025-00003"
	out, err := Generate(doc, company, client)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "<ram:TypeCode>381</ram:TypeCode>") {
		t.Error("credit note must use type code 381")
	}
}

func TestGenerateRejectsUnnumbered(t *testing.T) {
	doc, company, client := sampleInvoice()
	doc.Number = ""
	if _, err := Generate(doc, company, client); err == nil {
		t.Fatal("expected error for unnumbered document")
	}
}

func TestGenerateRejectsQuote(t *testing.T) {
	doc, company, client := sampleInvoice()
	doc.Type = models.DocTypeQuote
	doc.Number = "DEV-2025-00001"
	if _, err := Generate(doc, company, client); err == nil {
		t.Fatal("quotes are not fiscal documents")
	}
}
