package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/billing"
	"github.com/lvasseur/factures/internal/models"
)

var (
	ErrNotFound          = errors.New("not_found")
	ErrNotDraft          = errors.New("not_draft")
	ErrEmptyDocument     = errors.New("empty_document")
	ErrMissingClient     = errors.New("missing_client")
	ErrUnknownDocType    = errors.New("unknown_document_type")
	ErrNumberedImmutable = errors.New("numbered_immutable")
)

// DocumentService owns the document lifecycle: creation, draft edits,
// validation (number assignment), status transitions and deletion.
type DocumentService struct {
	DB        *gorm.DB
	Numbering *NumberingService
	Clock     func() time.Time
}

func NewDocumentService(db *gorm.DB, numbering *NumberingService) *DocumentService {
	return &DocumentService{DB: db, Numbering: numbering, Clock: time.Now}
}

// LineInput is one requested line of a document.
type LineInput struct {
	Kind         string  `json:"kind"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unit_price"`
	VATRate      float64 `json:"vat_rate"`
	Discount     float64 `json:"discount"`
	DiscountType string  `json:"discount_type"`
}

// DocumentInput carries the caller-editable fields of a draft.
type DocumentInput struct {
	Type               string      `json:"type"`
	ClientID           uint        `json:"client_id"`
	Lines              []LineInput `json:"lines"`
	GlobalDiscount     float64     `json:"global_discount"`
	GlobalDiscountType string      `json:"global_discount_type"`
	DepositAmount      float64     `json:"deposit_amount"`
	DepositReceived    *bool       `json:"deposit_received"`
	Notes              string      `json:"notes"`
	Currency           string      `json:"currency"`
}

func buildLines(inputs []LineInput) []models.DocumentLine {
	lines := make([]models.DocumentLine, 0, len(inputs))
	for i, in := range inputs {
		kind := in.Kind
		if kind == "" {
			kind = models.LineKindItem
		}
		lines = append(lines, models.DocumentLine{
			PublicID:     uuid.NewString(),
			Kind:         kind,
			Position:     i,
			Description:  in.Description,
			Quantity:     in.Quantity,
			Unit:         in.Unit,
			UnitPrice:    in.UnitPrice,
			VATRate:      in.VATRate,
			Discount:     in.Discount,
			DiscountType: in.DiscountType,
		})
	}
	return lines
}

// refreshTotals recomputes derived line amounts and document totals.
// Stored amounts are never trusted over recomputation.
func refreshTotals(doc *models.Document) {
	billing.RefreshAmounts(doc.Lines)
	doc.TotalHT, doc.TotalVAT, doc.TotalTTC = billing.ComputeTotals(doc.Lines)
}

// Create stores a new draft document.
func (s *DocumentService) Create(companyID uint, in DocumentInput) (*models.Document, error) {
	switch in.Type {
	case models.DocTypeQuote, models.DocTypeInvoice, models.DocTypeCredit:
	default:
		return nil, ErrUnknownDocType
	}
	if in.ClientID == 0 {
		return nil, ErrMissingClient
	}
	var clientCount int64
	if err := s.DB.Model(&models.Client{}).Where("id = ? AND company_id = ?", in.ClientID, companyID).Count(&clientCount).Error; err != nil {
		return nil, err
	}
	if clientCount == 0 {
		return nil, ErrMissingClient
	}
	currency := in.Currency
	if currency == "" {
		currency = "EUR"
	}
	doc := &models.Document{
		PublicID:           uuid.NewString(),
		Type:               in.Type,
		CompanyID:          companyID,
		ClientID:           in.ClientID,
		Status:             models.StatusDraft,
		Lines:              buildLines(in.Lines),
		GlobalDiscount:     in.GlobalDiscount,
		GlobalDiscountType: in.GlobalDiscountType,
		DepositAmount:      in.DepositAmount,
		DepositReceived:    in.DepositReceived,
		Notes:              in.Notes,
		Currency:           currency,
	}
	refreshTotals(doc)
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(doc).Error
	}); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListFilter narrows the document listing.
type ListFilter struct {
	Type     string
	Status   string
	ClientID uint
	Page     int
	PerPage  int
}

// List returns a page of documents, newest first, with the total row count
// for pagination.
func (s *DocumentService) List(companyID uint, f ListFilter) ([]models.Document, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 25
	}
	q := s.DB.Model(&models.Document{}).Where("company_id = ?", companyID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var docs []models.Document
	err := q.Order("created_at desc, id desc").
		Offset((f.Page - 1) * f.PerPage).Limit(f.PerPage).
		Preload("Client").
		Find(&docs).Error
	return docs, total, err
}

// Get loads a document with its lines in position order.
func (s *DocumentService) Get(id uint) (*models.Document, error) {
	return getDocument(s.DB, id)
}

func getDocument(tx *gorm.DB, id uint) (*models.Document, error) {
	var doc models.Document
	err := tx.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDraft replaces the editable fields of a draft. Numbered documents
// are immutable apart from status transitions.
func (s *DocumentService) UpdateDraft(id uint, in DocumentInput) (*models.Document, error) {
	var updated *models.Document
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		doc, err := getDocument(tx, id)
		if err != nil {
			return err
		}
		if doc.IsNumbered() {
			return ErrNumberedImmutable
		}
		if !doc.IsDraft() {
			return ErrNotDraft
		}
		if in.ClientID != 0 {
			doc.ClientID = in.ClientID
		}
		doc.GlobalDiscount = in.GlobalDiscount
		doc.GlobalDiscountType = in.GlobalDiscountType
		doc.DepositAmount = in.DepositAmount
		doc.DepositReceived = in.DepositReceived
		doc.Notes = in.Notes
		if err := tx.Where("document_id = ?", doc.ID).Delete(&models.DocumentLine{}).Error; err != nil {
			return err
		}
		doc.Lines = buildLines(in.Lines)
		for i := range doc.Lines {
			doc.Lines[i].DocumentID = doc.ID
		}
		refreshTotals(doc)
		if len(doc.Lines) > 0 {
			if err := tx.Create(&doc.Lines).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Document{}).Where("id = ?", doc.ID).Updates(map[string]any{
			"client_id":            doc.ClientID,
			"global_discount":      doc.GlobalDiscount,
			"global_discount_type": doc.GlobalDiscountType,
			"deposit_amount":       doc.DepositAmount,
			"deposit_received":     doc.DepositReceived,
			"notes":                doc.Notes,
			"total_ht":             doc.TotalHT,
			"total_vat":            doc.TotalVAT,
			"total_ttc":            doc.TotalTTC,
		}).Error; err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Validate assigns the sequential number and moves the draft to its issued
// status (validated for quotes/credits, issued for invoices). Number
// assignment and the status change commit atomically; the conditional update
// on status=draft makes a double validation lose cleanly.
func (s *DocumentService) Validate(id, userID uint) (*models.Document, error) {
	var out *models.Document
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		doc, err := getDocument(tx, id)
		if err != nil {
			return err
		}
		if len(doc.ItemLines()) == 0 {
			return ErrEmptyDocument
		}
		target := billing.IssueStatus(doc.Type)
		paid, err := totalPaidFor(tx, doc)
		if err != nil {
			return err
		}
		if err := billing.CanTransition(doc, target, paid); err != nil {
			return err
		}
		number, err := s.Numbering.NextNumber(tx, doc.CompanyID, doc.Type, s.Clock())
		if err != nil {
			return err
		}
		now := s.Clock()
		res := tx.Model(&models.Document{}).
			Where("id = ? AND status = ?", doc.ID, models.StatusDraft).
			Updates(map[string]any{"status": target, "number": number, "issued_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return billing.ErrInvalidTransition
		}
		if err := audit(tx, userID, "Document", doc.ID, "validate", "number", "", number); err != nil {
			return err
		}
		doc.Status = target
		doc.Number = number
		doc.IssuedAt = &now
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transition applies a manual status change, checked against the state
// machine and the payment-derived constraints.
func (s *DocumentService) Transition(id, userID uint, target string) (*models.Document, error) {
	var out *models.Document
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		doc, err := getDocument(tx, id)
		if err != nil {
			return err
		}
		paid, err := totalPaidFor(tx, doc)
		if err != nil {
			return err
		}
		if err := billing.CanTransition(doc, target, paid); err != nil {
			return err
		}
		res := tx.Model(&models.Document{}).
			Where("id = ? AND status = ?", doc.ID, doc.Status).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return billing.ErrInvalidTransition
		}
		if err := audit(tx, userID, "Document", doc.ID, "transition", "status", doc.Status, target); err != nil {
			return err
		}
		doc.Status = target
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDraft removes an unnumbered draft with its lines. Numbered documents
// can never be deleted.
func (s *DocumentService) DeleteDraft(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		doc, err := getDocument(tx, id)
		if err != nil {
			return err
		}
		if doc.IsNumbered() {
			return ErrNumberedImmutable
		}
		if !doc.IsDraft() {
			return ErrNotDraft
		}
		if err := tx.Where("document_id = ?", doc.ID).Delete(&models.DocumentLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Document{}, doc.ID).Error
	})
}

// Duplicate creates a same-type draft copy with fresh identities; the number,
// payments and transformation links are cleared.
func (s *DocumentService) Duplicate(id uint) (*models.Document, error) {
	var dup *models.Document
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		doc, err := getDocument(tx, id)
		if err != nil {
			return err
		}
		dup = billing.Duplicate(doc)
		return tx.Create(dup).Error
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}

// totalPaidFor sums recorded payments; only invoices can carry payments.
func totalPaidFor(tx *gorm.DB, doc *models.Document) (float64, error) {
	if doc.Type != models.DocTypeInvoice {
		return 0, nil
	}
	var payments []models.Payment
	if err := tx.Where("invoice_id = ?", doc.ID).Find(&payments).Error; err != nil {
		return 0, err
	}
	return billing.TotalPaid(payments), nil
}

// audit records a trail entry inside the caller's transaction so the trail
// commits with the mutation it describes.
func audit(tx *gorm.DB, userID uint, entityType string, entityID uint, action, field, oldVal, newVal string) error {
	entry := models.AuditLog{UserID: userID, EntityType: entityType, EntityID: entityID, Action: action, Field: field, OldValue: oldVal, NewValue: newVal}
	return tx.Create(&entry).Error
}
