// Package pdf renders documents to PDF. Invoices and credit notes can be
// rendered as Factur-X hybrids: the visual PDF with the CII XML embedded as
// an attachment, readable by both humans and accounting software.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/lvasseur/factures/internal/billing"
	"github.com/lvasseur/factures/internal/facturx"
	"github.com/lvasseur/factures/internal/models"
)

// Titles shown on the rendered document.
var docTitles = map[string]string{
	models.DocTypeQuote:   "DEVIS",
	models.DocTypeInvoice: "FACTURE",
	models.DocTypeCredit:  "AVOIR",
}

type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

func euros(v float64) string { return fmt.Sprintf("%.2f €", v) }

// Render produces the visual PDF of a document.
func (r *Renderer) Render(doc *models.Document, company *models.CompanySettings, client *models.Client) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	title := docTitles[doc.Type]
	if title == "" {
		title = doc.Type
	}
	number := doc.Number
	if number == "" {
		number = "BROUILLON"
	}

	m.AddRow(12,
		text.NewCol(8, company.RaisonSociale, props.Text{Style: fontstyle.Bold, Size: 14}),
		text.NewCol(4, fmt.Sprintf("%s %s", title, number), props.Text{Style: fontstyle.Bold, Size: 14, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(8, fmt.Sprintf("SIRET %s", company.SIRET), props.Text{Size: 8}),
		issuedAtCol(doc),
	)
	if company.TVAIntra != "" {
		m.AddRow(5, text.NewCol(12, fmt.Sprintf("TVA intracommunautaire %s", company.TVAIntra), props.Text{Size: 8}))
	}
	m.AddRow(8, text.NewCol(12, fmt.Sprintf("Client : %s", client.DisplayName()), props.Text{Size: 10}))
	m.AddRow(4, line.NewCol(12))

	// Table header.
	m.AddRow(7,
		text.NewCol(6, "Désignation", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qté", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "PU HT", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "TVA", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Total HT", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, l := range doc.Lines {
		m.AddRows(lineRow(l))
	}

	m.AddRow(4, line.NewCol(12))
	m.AddRow(6, totalRow("Total HT", doc.TotalHT, false)...)
	for _, rt := range billing.VATBreakdown(doc.Lines) {
		m.AddRow(5, totalRow(fmt.Sprintf("TVA %g %%", rt.Rate), rt.VAT, false)...)
	}
	m.AddRow(7, totalRow("Total TTC", doc.TotalTTC, true)...)
	if doc.GlobalDiscount > 0 || doc.DepositAmount > 0 {
		m.AddRow(7, totalRow("Net à payer", billing.NetPayable(doc), true)...)
	}

	if doc.Type == models.DocTypeInvoice && doc.DepositAmount > 0 {
		m.AddRow(5, text.NewCol(12, fmt.Sprintf("Acompte demandé : %s", euros(doc.DepositAmount)), props.Text{Size: 8}))
	}
	if company.IBAN != "" {
		m.AddRow(5, text.NewCol(12, fmt.Sprintf("Règlement par virement : %s", company.IBAN), props.Text{Size: 8}))
	}
	if doc.Notes != "" {
		m.AddRow(8, text.NewCol(12, doc.Notes, props.Text{Size: 8}))
	}
	if company.MentionsLegales != "" {
		m.AddRow(8, text.NewCol(12, company.MentionsLegales, props.Text{Size: 7}))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}

func issuedAtCol(doc *models.Document) core.Col {
	if doc.IssuedAt == nil {
		return col.New(4)
	}
	return text.NewCol(4, fmt.Sprintf("Émis le %s", doc.IssuedAt.Format("02/01/2006")), props.Text{Size: 8, Align: align.Right})
}

func lineRow(l models.DocumentLine) core.Row {
	switch l.Kind {
	case models.LineKindComment:
		return row.New(5).Add(text.NewCol(12, l.Description, props.Text{Size: 8, Style: fontstyle.Italic}))
	case models.LineKindSubtotal:
		return row.New(6).Add(
			text.NewCol(10, "Sous-total", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.NewCol(2, euros(l.Amount), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		)
	default:
		return row.New(6).Add(
			text.NewCol(6, l.Description, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%g", l.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, euros(l.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, fmt.Sprintf("%g%%", l.VATRate), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, euros(l.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func totalRow(label string, value float64, bold bool) []core.Col {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return []core.Col{
		text.NewCol(10, label, props.Text{Size: 9, Style: style, Align: align.Right}),
		text.NewCol(2, euros(value), props.Text{Size: 9, Style: style, Align: align.Right}),
	}
}

// RenderFacturX renders the PDF and embeds the CII XML attachment. Only
// numbered invoices and credit notes qualify.
func (r *Renderer) RenderFacturX(doc *models.Document, company *models.CompanySettings, client *models.Client) ([]byte, error) {
	pdfBytes, err := r.Render(doc, company, client)
	if err != nil {
		return nil, err
	}
	xmlBytes, err := facturx.Generate(doc, company, client)
	if err != nil {
		return nil, err
	}

	// pdfcpu attaches by file path and uses the base name, which Factur-X
	// fixes to factur-x.xml.
	dir, err := os.MkdirTemp("", "facturx")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	xmlPath := filepath.Join(dir, facturx.AttachmentName)
	if err := os.WriteFile(xmlPath, xmlBytes, 0o600); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := api.AddAttachments(bytes.NewReader(pdfBytes), &out, []string{xmlPath}, false, nil); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
