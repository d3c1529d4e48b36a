package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/models"
	"github.com/lvasseur/factures/internal/validation"
)

var ErrDuplicateCode = errors.New("duplicate_code")

// ArticleService owns the catalog of reusable line templates.
type ArticleService struct {
	DB *gorm.DB
}

func NewArticleService(db *gorm.DB) *ArticleService { return &ArticleService{DB: db} }

// ArticleInput carries the editable catalog fields.
type ArticleInput struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	VATRate     float64 `json:"vat_rate"`
	Currency    string  `json:"currency"`
}

func (in ArticleInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("code", in.Code, v)
	validation.Required("description", in.Description, v)
	validation.NonNegativeFloat("unit_price", in.UnitPrice, v)
	validation.NonNegativeFloat("vat_rate", in.VATRate, v)
	return v
}

func (s *ArticleService) Create(companyID, userID uint, in ArticleInput) (*models.Article, error) {
	if v := in.validate(); !v.Empty() {
		return nil, ErrClientValidation
	}
	var count int64
	if err := s.DB.Model(&models.Article{}).Where("company_id = ? AND code = ?", companyID, in.Code).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateCode
	}
	currency := in.Currency
	if currency == "" {
		currency = "EUR"
	}
	a := &models.Article{
		CompanyID:   companyID,
		UserID:      userID,
		Code:        in.Code,
		Description: in.Description,
		Unit:        in.Unit,
		UnitPrice:   in.UnitPrice,
		VATRate:     in.VATRate,
		Currency:    currency,
	}
	if err := s.DB.Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ArticleService) Update(id uint, in ArticleInput) (*models.Article, error) {
	if v := in.validate(); !v.Empty() {
		return nil, ErrClientValidation
	}
	var a models.Article
	if err := s.DB.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if in.Code != a.Code {
		var count int64
		if err := s.DB.Model(&models.Article{}).Where("company_id = ? AND code = ? AND id <> ?", a.CompanyID, in.Code, a.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateCode
		}
	}
	a.Code = in.Code
	a.Description = in.Description
	a.Unit = in.Unit
	a.UnitPrice = in.UnitPrice
	a.VATRate = in.VATRate
	if in.Currency != "" {
		a.Currency = in.Currency
	}
	if err := s.DB.Save(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete soft-deletes the article; documents built from it keep their copied
// line values.
func (s *ArticleService) Delete(id uint) error {
	res := s.DB.Delete(&models.Article{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns active articles, optionally filtered by a code/description
// search term.
func (s *ArticleService) List(companyID uint, search string) ([]models.Article, error) {
	q := s.DB.Where("company_id = ?", companyID).Order("code asc")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("code LIKE ? OR description LIKE ?", like, like)
	}
	var articles []models.Article
	err := q.Find(&articles).Error
	return articles, err
}

func (s *ArticleService) Get(id uint) (*models.Article, error) {
	var a models.Article
	if err := s.DB.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
