package services

import (
	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/billing"
	"github.com/lvasseur/factures/internal/models"
)

// TransformService performs the one-shot document transformations. The
// forward reference on the source is set with a conditional update
// ("... WHERE forward reference IS NULL"); zero rows affected means another
// request already transformed the document, so the check and the write can
// never race apart.
type TransformService struct {
	DB *gorm.DB
}

func NewTransformService(db *gorm.DB) *TransformService { return &TransformService{DB: db} }

// QuoteToInvoice creates a draft invoice from a quote and links both sides.
func (s *TransformService) QuoteToInvoice(quoteID, userID uint) (*models.Document, error) {
	var invoice *models.Document
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		quote, err := getDocument(tx, quoteID)
		if err != nil {
			return err
		}
		invoice, err = billing.InvoiceFromQuote(quote)
		if err != nil {
			return err
		}
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Document{}).
			Where("id = ? AND transformed_to_invoice_id IS NULL", quote.ID).
			Update("transformed_to_invoice_id", invoice.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return billing.ErrAlreadyTransformed
		}
		return audit(tx, userID, "Document", quote.ID, "transform", "transformed_to_invoice_id", "", invoice.PublicID)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// InvoiceToCredit creates a draft credit note with negated amounts and moves
// the source invoice to its terminal cancelled status, in one transaction.
func (s *TransformService) InvoiceToCredit(invoiceID, userID uint) (*models.Document, error) {
	var credit *models.Document
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		invoice, err := getDocument(tx, invoiceID)
		if err != nil {
			return err
		}
		credit, err = billing.CreditFromInvoice(invoice)
		if err != nil {
			return err
		}
		if err := tx.Create(credit).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Document{}).
			Where("id = ? AND transformed_to_credit_id IS NULL AND status <> ?", invoice.ID, models.StatusDraft).
			Updates(map[string]any{
				"transformed_to_credit_id": credit.ID,
				"status":                   models.StatusCancelled,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return billing.ErrAlreadyTransformed
		}
		return audit(tx, userID, "Document", invoice.ID, "transform", "status", invoice.Status, models.StatusCancelled)
	})
	if err != nil {
		return nil, err
	}
	return credit, nil
}
