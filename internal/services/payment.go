package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/billing"
	"github.com/lvasseur/factures/internal/models"
)

var (
	ErrNotAnInvoice     = errors.New("not_an_invoice")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrFutureDated      = errors.New("future_dated")
	ErrInvoiceNotIssued = errors.New("invoice_not_issued")
)

// PaymentService records payments and keeps the invoice's payment-derived
// status in sync. The derivation runs on every mutation and is idempotent.
type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService { return &PaymentService{DB: db} }

// PaymentInput carries a payment to record.
type PaymentInput struct {
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"`
	Method    string    `json:"method"`
	Reference string    `json:"reference"`
}

// Record appends a payment to an invoice and re-derives its status.
// Amounts above the remaining balance are accepted and kept visible as an
// overpayment (client credit).
func (s *PaymentService) Record(invoiceID, userID uint, in PaymentInput) (*models.Payment, *models.Document, error) {
	if in.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	if in.Date.After(time.Now().Add(24 * time.Hour)) {
		return nil, nil, ErrFutureDated
	}
	var payment *models.Payment
	var invoice *models.Document
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		doc, err := getDocument(tx, invoiceID)
		if err != nil {
			return err
		}
		if doc.Type != models.DocTypeInvoice {
			return ErrNotAnInvoice
		}
		// Payments only attach to numbered invoices; a draft must be issued
		// first, otherwise the derivation would push it out of draft without
		// a number.
		if !doc.IsNumbered() {
			return ErrInvoiceNotIssued
		}
		payment = &models.Payment{InvoiceID: doc.ID, Amount: in.Amount, Date: in.Date, Method: in.Method, Reference: in.Reference}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		invoice, err = s.rederive(tx, doc)
		if err != nil {
			return err
		}
		return audit(tx, userID, "Payment", payment.ID, "payment", "amount", "", fmt.Sprintf("%.2f", in.Amount))
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, invoice, nil
}

// Remove deletes a payment and re-derives the invoice status; an invoice
// whose last payment disappears falls back to issued.
func (s *PaymentService) Remove(paymentID, userID uint) (*models.Document, error) {
	var invoice *models.Document
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&models.Payment{}, payment.ID).Error; err != nil {
			return err
		}
		doc, err := getDocument(tx, payment.InvoiceID)
		if err != nil {
			return err
		}
		invoice, err = s.rederive(tx, doc)
		if err != nil {
			return err
		}
		return audit(tx, userID, "Payment", payment.ID, "payment_delete", "amount", fmt.Sprintf("%.2f", payment.Amount), "")
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// List returns the payments of an invoice, oldest first.
func (s *PaymentService) List(invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.DB.Where("invoice_id = ?", invoiceID).Order("date asc, id asc").Find(&payments).Error
	return payments, err
}

func (s *PaymentService) rederive(tx *gorm.DB, doc *models.Document) (*models.Document, error) {
	var payments []models.Payment
	if err := tx.Where("invoice_id = ?", doc.ID).Find(&payments).Error; err != nil {
		return nil, err
	}
	paid := billing.TotalPaid(payments)
	status := billing.DeriveInvoiceStatus(doc.Status, doc.TotalTTC, paid)
	if err := tx.Model(&models.Document{}).Where("id = ?", doc.ID).
		Updates(map[string]any{"paid_amount": paid, "status": status}).Error; err != nil {
		return nil, err
	}
	doc.PaidAmount = paid
	doc.Status = status
	return doc, nil
}
