package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/billing"
	"github.com/lvasseur/factures/internal/models"
)

// NumberingService hands out sequential document numbers. The counter lives
// in the database and only moves through an atomic in-place increment, inside
// the caller's transaction, so "number assigned" and "document exists with
// that number" commit together. Two concurrent validations for the same
// (company, type) serialize on the counter row lock.
type NumberingService struct {
	DB *gorm.DB
}

func NewNumberingService(db *gorm.DB) *NumberingService { return &NumberingService{DB: db} }

// Rule returns the numbering rule for (company, type), creating the default
// one (prefix per type, year in number, yearly reset) on first use.
func (s *NumberingService) Rule(tx *gorm.DB, companyID uint, docType string) (models.NumberingRule, error) {
	var rule models.NumberingRule
	err := tx.Where("company_id = ? AND doc_type = ?", companyID, docType).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rule = models.NumberingRule{
			CompanyID:    companyID,
			DocType:      docType,
			Prefix:       models.DefaultPrefix(docType),
			YearInNumber: true,
			ResetYearly:  true,
			Padding:      5,
		}
		err = tx.Create(&rule).Error
	}
	return rule, err
}

// NextNumber reserves and formats the next number. Must run inside the
// transaction that persists the issued document.
func (s *NumberingService) NextNumber(tx *gorm.DB, companyID uint, docType string, now time.Time) (string, error) {
	rule, err := s.Rule(tx, companyID, docType)
	if err != nil {
		return "", err
	}
	ctr := models.Counter{CompanyID: companyID, DocType: docType}
	if err := tx.Where("company_id = ? AND doc_type = ?", companyID, docType).FirstOrCreate(&ctr).Error; err != nil {
		return "", err
	}
	if rule.ResetYearly && ctr.LastResetYear != now.Year() {
		// Conditional reset: the year guard in the WHERE clause makes the
		// reset idempotent under concurrency.
		if err := tx.Model(&models.Counter{}).
			Where("company_id = ? AND doc_type = ? AND last_reset_year <> ?", companyID, docType, now.Year()).
			Updates(map[string]any{"value": 0, "last_reset_year": now.Year()}).Error; err != nil {
			return "", err
		}
	}
	// Atomic increment; never read-modify-write the value in memory.
	if err := tx.Model(&models.Counter{}).
		Where("company_id = ? AND doc_type = ?", companyID, docType).
		UpdateColumn("value", gorm.Expr("value + 1")).Error; err != nil {
		return "", err
	}
	if err := tx.Where("company_id = ? AND doc_type = ?", companyID, docType).First(&ctr).Error; err != nil {
		return "", err
	}
	return billing.FormatNumber(rule, ctr.Value, now), nil
}
