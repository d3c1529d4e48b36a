package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/models"
)

// SetupInput carries the company identity captured at first run.
type SetupInput struct {
	Company    string
	Address1   string
	Address2   string
	PostalCode string
	City       string
	Country    string
	SIRET      string
	TVAIntra   string
	VATEnabled bool
	IBAN       string
	Email      string
	Telephone  string
	UserID     uint // required: owner user performing setup
}

type SetupService struct{ DB *gorm.DB }

func NewSetupService(db *gorm.DB) *SetupService { return &SetupService{DB: db} }

var ErrAlreadyConfigured = errors.New("company_already_configured")

func (s *SetupService) IsConfigured() (bool, error) {
	var count int64
	if err := s.DB.Model(&models.CompanySettings{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Run creates the single company record along with the default numbering
// rules for the three document types.
func (s *SetupService) Run(in SetupInput) (*models.CompanySettings, error) {
	configured, err := s.IsConfigured()
	if err != nil {
		return nil, err
	}
	if configured {
		return nil, ErrAlreadyConfigured
	}
	if in.UserID == 0 {
		return nil, errors.New("missing_user_id")
	}
	var cs models.CompanySettings
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		addr := models.Address{Ligne1: in.Address1, Ligne2: in.Address2, CodePostal: in.PostalCode, Ville: in.City, Pays: in.Country, Type: "principale"}
		if err := tx.Create(&addr).Error; err != nil {
			return err
		}
		var siren string
		if len(in.SIRET) >= 9 {
			siren = in.SIRET[:9]
		}
		cs = models.CompanySettings{
			UserID:        in.UserID,
			RaisonSociale: in.Company,
			NomCommercial: in.Company,
			SIREN:         siren,
			SIRET:         in.SIRET,
			TVAIntra:      in.TVAIntra,
			RedevableTVA:  in.VATEnabled,
			AddressID:     addr.ID,
			IBAN:          in.IBAN,
			Email:         in.Email,
			Telephone:     in.Telephone,
		}
		if err := tx.Create(&cs).Error; err != nil {
			return err
		}
		for _, docType := range []string{models.DocTypeQuote, models.DocTypeInvoice, models.DocTypeCredit} {
			rule := models.NumberingRule{
				CompanyID:    cs.ID,
				DocType:      docType,
				Prefix:       models.DefaultPrefix(docType),
				YearInNumber: true,
				ResetYearly:  true,
				Padding:      5,
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// Get returns the single company settings record if present, otherwise nil.
func (s *SetupService) Get() (*models.CompanySettings, error) {
	var cs models.CompanySettings
	err := s.DB.Preload("Address").First(&cs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// UpdateNumbering adjusts the numbering rule of one document type. The
// counter itself is untouched: already assigned numbers never change.
func (s *SetupService) UpdateNumbering(companyID uint, docType, prefix string, yearInNumber, monthInNumber, resetYearly bool) (*models.NumberingRule, error) {
	var rule models.NumberingRule
	err := s.DB.Where("company_id = ? AND doc_type = ?", companyID, docType).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if prefix != "" {
		rule.Prefix = prefix
	}
	rule.YearInNumber = yearInNumber
	rule.MonthInNumber = monthInNumber
	rule.ResetYearly = resetYearly
	if err := s.DB.Save(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}
