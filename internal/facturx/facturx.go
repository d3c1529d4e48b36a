// Package facturx generates the UN/CEFACT Cross Industry Invoice XML that
// Factur-X hybrid invoices embed. Only the BASIC profile subset needed for
// French B2B invoices is produced.
package facturx

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/lvasseur/factures/internal/billing"
	"github.com/lvasseur/factures/internal/models"
)

// AttachmentName is the file name mandated by the Factur-X specification.
const AttachmentName = "factur-x.xml"

// UN/CEFACT document type codes.
const (
	typeCodeInvoice    = "380"
	typeCodeCreditNote = "381"
)

const guidelineBasic = "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic"

type crossIndustryInvoice struct {
	XMLName xml.Name `xml:"rsm:CrossIndustryInvoice"`
	RSM     string   `xml:"xmlns:rsm,attr"`
	RAM     string   `xml:"xmlns:ram,attr"`
	UDT     string   `xml:"xmlns:udt,attr"`

	Context     exchangedContext  `xml:"rsm:ExchangedDocumentContext"`
	Document    exchangedDocument `xml:"rsm:ExchangedDocument"`
	Transaction tradeTransaction  `xml:"rsm:SupplyChainTradeTransaction"`
}

type exchangedContext struct {
	GuidelineID string `xml:"ram:GuidelineSpecifiedDocumentContextParameter>ram:ID"`
}

type dateTimeString struct {
	Format string `xml:"format,attr"`
	Value  string `xml:",chardata"`
}

type exchangedDocument struct {
	ID       string         `xml:"ram:ID"`
	TypeCode string         `xml:"ram:TypeCode"`
	IssueAt  dateTimeString `xml:"ram:IssueDateTime>udt:DateTimeString"`
	Notes    []string       `xml:"ram:IncludedNote>ram:Content,omitempty"`
}

type tradeTransaction struct {
	Lines      []tradeLine     `xml:"ram:IncludedSupplyChainTradeLineItem"`
	Agreement  tradeAgreement  `xml:"ram:ApplicableHeaderTradeAgreement"`
	Delivery   struct{}        `xml:"ram:ApplicableHeaderTradeDelivery"`
	Settlement tradeSettlement `xml:"ram:ApplicableHeaderTradeSettlement"`
}

type tradeLine struct {
	LineID      string `xml:"ram:AssociatedDocumentLineDocument>ram:LineID"`
	ProductName string `xml:"ram:SpecifiedTradeProduct>ram:Name"`
	NetPrice    string `xml:"ram:SpecifiedLineTradeAgreement>ram:NetPriceProductTradePrice>ram:ChargeAmount"`
	Quantity    string `xml:"ram:SpecifiedLineTradeDelivery>ram:BilledQuantity"`
	TaxRate     string `xml:"ram:SpecifiedLineTradeSettlement>ram:ApplicableTradeTax>ram:RateApplicablePercent"`
	LineTotal   string `xml:"ram:SpecifiedLineTradeSettlement>ram:SpecifiedTradeSettlementLineMonetarySummation>ram:LineTotalAmount"`
}

type tradeParty struct {
	Name  string `xml:"ram:Name"`
	SIRET string `xml:"ram:SpecifiedLegalOrganization>ram:ID,omitempty"`
	VATID string `xml:"ram:SpecifiedTaxRegistration>ram:ID,omitempty"`
}

type tradeAgreement struct {
	Seller tradeParty `xml:"ram:SellerTradeParty"`
	Buyer  tradeParty `xml:"ram:BuyerTradeParty"`
}

type tradeTax struct {
	CalculatedAmount string `xml:"ram:CalculatedAmount"`
	TypeCode         string `xml:"ram:TypeCode"`
	BasisAmount      string `xml:"ram:BasisAmount"`
	CategoryCode     string `xml:"ram:CategoryCode"`
	RatePercent      string `xml:"ram:RateApplicablePercent"`
}

type monetarySummation struct {
	LineTotal  string `xml:"ram:LineTotalAmount"`
	TaxBasis   string `xml:"ram:TaxBasisTotalAmount"`
	TaxTotal   string `xml:"ram:TaxTotalAmount"`
	GrandTotal string `xml:"ram:GrandTotalAmount"`
	DuePayable string `xml:"ram:DuePayableAmount"`
}

type tradeSettlement struct {
	Currency  string            `xml:"ram:InvoiceCurrencyCode"`
	IBAN      string            `xml:"ram:SpecifiedTradeSettlementPaymentMeans>ram:PayeePartyCreditorFinancialAccount>ram:IBANID,omitempty"`
	Taxes     []tradeTax        `xml:"ram:ApplicableTradeTax"`
	Summation monetarySummation `xml:"ram:SpecifiedTradeSettlementHeaderMonetarySummation"`
}

func amount(v float64) string { return fmt.Sprintf("%.2f", v) }

// Generate renders the CII XML for a numbered invoice or credit note.
func Generate(doc *models.Document, company *models.CompanySettings, client *models.Client) ([]byte, error) {
	if doc.Type != models.DocTypeInvoice && doc.Type != models.DocTypeCredit {
		return nil, fmt.Errorf("facturx: unsupported document type %q", doc.Type)
	}
	if !doc.IsNumbered() {
		return nil, fmt.Errorf("facturx: document %s has no number", doc.PublicID)
	}

	typeCode := typeCodeInvoice
	if doc.Type == models.DocTypeCredit {
		typeCode = typeCodeCreditNote
	}
	issued := time.Now()
	if doc.IssuedAt != nil {
		issued = *doc.IssuedAt
	}

	inv := crossIndustryInvoice{
		RSM:     "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100",
		RAM:     "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100",
		UDT:     "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100",
		Context: exchangedContext{GuidelineID: guidelineBasic},
		Document: exchangedDocument{
			ID:       doc.Number,
			TypeCode: typeCode,
			// Format 102 = CCYYMMDD.
			IssueAt: dateTimeString{Format: "102", Value: issued.Format("20060102")},
		},
		Transaction: tradeTransaction{
			Agreement: tradeAgreement{
				Seller: tradeParty{Name: company.RaisonSociale, SIRET: company.SIRET, VATID: company.TVAIntra},
				Buyer:  tradeParty{Name: client.DisplayName(), SIRET: client.SIRET, VATID: client.TVAIntra},
			},
			Settlement: tradeSettlement{
				Currency: doc.Currency,
				IBAN:     company.IBAN,
				Summation: monetarySummation{
					LineTotal:  amount(doc.TotalHT),
					TaxBasis:   amount(doc.TotalHT),
					TaxTotal:   amount(doc.TotalVAT),
					GrandTotal: amount(doc.TotalTTC),
					DuePayable: amount(billing.Round2(doc.TotalTTC - doc.PaidAmount)),
				},
			},
		},
	}
	if doc.Notes != "" {
		inv.Document.Notes = []string{doc.Notes}
	}

	for i, l := range doc.ItemLines() {
		inv.Transaction.Lines = append(inv.Transaction.Lines, tradeLine{
			LineID:      fmt.Sprintf("%d", i+1),
			ProductName: l.Description,
			NetPrice:    amount(l.UnitPrice),
			Quantity:    fmt.Sprintf("%g", l.Quantity),
			TaxRate:     fmt.Sprintf("%g", l.VATRate),
			LineTotal:   amount(l.Amount),
		})
	}
	for _, rt := range billing.VATBreakdown(doc.Lines) {
		category := "S"
		if rt.Rate == 0 {
			category = "Z"
		}
		inv.Transaction.Settlement.Taxes = append(inv.Transaction.Settlement.Taxes, tradeTax{
			CalculatedAmount: amount(rt.VAT),
			TypeCode:         "VAT",
			BasisAmount:      amount(rt.Base),
			CategoryCode:     category,
			RatePercent:      fmt.Sprintf("%g", rt.Rate),
		})
	}

	out, err := xml.MarshalIndent(inv, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
