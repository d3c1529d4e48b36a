package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/lvasseur/factures/internal/models"
)

func fixtures() (*models.Document, *models.CompanySettings, *models.Client) {
	issued := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	doc := &models.Document{
		PublicID: "d-1",
		Type:     models.DocTypeInvoice,
		Status:   models.StatusIssued,
		Number:   "FAC-2025-00042",
		IssuedAt: &issued,
		Currency: "EUR",
		Lines: []models.DocumentLine{
			{Kind: models.LineKindItem, Description: "Prestation conseil", Quantity: 2, UnitPrice: 100, VATRate: 20, Amount: 200},
			{Kind: models.LineKindComment, Description: "Intervention sur site"},
			{Kind: models.LineKindSubtotal, Amount: 200},
		},
		TotalHT:  200,
		TotalVAT: 40,
		TotalTTC: 240,
	}
	company := &models.CompanySettings{RaisonSociale: "Atelier Brun", SIRET: "12345678900011", IBAN: "FR7630006000011234567890189"}
	client := &models.Client{Kind: models.ClientProfessional, CompanyName: "ClientCo"}
	return doc, company, client
}

func TestRenderProducesPDF(t *testing.T) {
	doc, company, client := fixtures()
	out, err := NewRenderer().Render(doc, company, client)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestRenderDraftWatermark(t *testing.T) {
	doc, company, client := fixtures()
	doc.Number = ""
	doc.Status = models.StatusDraft
	doc.IssuedAt = nil
	if _, err := NewRenderer().Render(doc, company, client); err != nil {
		t.Fatalf("draft render: %v", err)
	}
}

func TestRenderFacturXEmbedsAttachment(t *testing.T) {
	doc, company, client := fixtures()
	out, err := NewRenderer().RenderFacturX(doc, company, client)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	if !bytes.Contains(out, []byte("factur-x.xml")) {
		t.Fatal("attachment name missing from PDF")
	}
}

func TestRenderFacturXRejectsQuote(t *testing.T) {
	doc, company, client := fixtures()
	doc.Type = models.DocTypeQuote
	if _, err := NewRenderer().RenderFacturX(doc, company, client); err == nil {
		t.Fatal("quotes must not carry fiscal XML")
	}
}
