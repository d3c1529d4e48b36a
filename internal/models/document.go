package models

import "time"

// Document types. Quotes, invoices and credit notes share one table; the
// status vocabulary depends on the type.
const (
	DocTypeQuote   = "quote"
	DocTypeInvoice = "invoice"
	DocTypeCredit  = "credit_note"
)

// Statuses. "validated" applies to quotes and credit notes, "issued" to
// invoices; both mark the point where the sequential number is assigned.
const (
	StatusDraft         = "draft"
	StatusValidated     = "validated"
	StatusIssued        = "issued"
	StatusSent          = "sent"
	StatusAccepted      = "accepted"
	StatusRefused       = "refused"
	StatusPartiallyPaid = "partially_paid"
	StatusPaid          = "paid"
	StatusApplied       = "applied"
	StatusCancelled     = "cancelled"
)

// Line kinds and discount types.
const (
	LineKindItem     = "item"
	LineKindSubtotal = "subtotal"
	LineKindComment  = "comment"

	DiscountPercent = "percent"
	DiscountAmount  = "amount"
)

// Document is a quote, invoice or credit note (devis / facture / avoir).
// Number stays empty until validation; once set it never changes and the
// document can never return to draft. The forward references
// TransformedToInvoiceID / TransformedToCreditID are one-shot: set at most
// once, never cleared.
type Document struct {
	ID        uint   `gorm:"primaryKey"`
	PublicID  string `gorm:"size:36;uniqueIndex;not null"`
	Type      string `gorm:"size:16;not null;index:idx_doc_number,priority:2"`
	CompanyID uint   `gorm:"not null;index:idx_doc_number,priority:1"`
	ClientID  uint   `gorm:"not null;index"`
	Client    Client `gorm:"foreignKey:ClientID"`
	Status    string `gorm:"size:20;not null;default:'draft'"`
	// Numéro séquentiel, unique par (company, type) une fois attribué.
	Number   string     `gorm:"size:30;index:idx_doc_number,priority:3"`
	IssuedAt *time.Time // date d'émission (attribution du numéro)

	Lines []DocumentLine `gorm:"foreignKey:DocumentID"`

	TotalHT  float64
	TotalVAT float64
	TotalTTC float64

	// Remise globale, appliquée seulement au net à payer affiché.
	GlobalDiscount     float64
	GlobalDiscountType string `gorm:"size:10"` // percent | amount

	// Acompte. DepositReceived est un tri-état: nil = non résolu.
	DepositAmount   float64
	DepositReceived *bool

	// Cumul des paiements enregistrés (factures uniquement).
	PaidAmount float64

	// Liens de transformation (one-shot) et références inverses.
	TransformedToInvoiceID *uint
	TransformedToCreditID  *uint
	SourceQuoteID          *uint
	SourceInvoiceID        *uint

	Notes     string
	Currency  string `gorm:"not null;default:'EUR'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentLine is a tagged variant: item lines carry the monetary fields,
// subtotal lines display the running sum since the previous subtotal,
// comment lines contribute nothing.
type DocumentLine struct {
	ID         uint   `gorm:"primaryKey"`
	DocumentID uint   `gorm:"not null;index"`
	PublicID   string `gorm:"size:36;not null"`
	Kind       string `gorm:"size:10;not null;default:'item'"`
	Position   int    `gorm:"not null"`

	Description string
	Quantity    float64
	Unit        string  `gorm:"size:20"`
	UnitPrice   float64 // prix unitaire HT
	VATRate     float64 // taux en pourcent, ex: 20 pour 20%

	Discount     float64
	DiscountType string `gorm:"size:10"` // percent | amount

	// Montant HT dérivé; recalculé à chaque édition, jamais source de vérité.
	Amount float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDraft reports whether the document is still editable.
func (d *Document) IsDraft() bool { return d.Status == StatusDraft }

// IsNumbered reports whether the sequential number has been assigned.
func (d *Document) IsNumbered() bool { return d.Number != "" }

// ItemLines returns the item lines only, in position order (assumes Lines
// already sorted by position).
func (d *Document) ItemLines() []DocumentLine {
	items := make([]DocumentLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.Kind == LineKindItem {
			items = append(items, l)
		}
	}
	return items
}
