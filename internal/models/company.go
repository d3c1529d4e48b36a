package models

import "time"

// CompanySettings holds the issuing company identity, one row per company.
type CompanySettings struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"not null;index"` // FK vers User (propriétaire)
	User          User   `gorm:"foreignKey:UserID"`
	RaisonSociale string `gorm:"not null;index"`
	NomCommercial string `gorm:"index"`
	SIREN         string `gorm:"size:9;index"`
	SIRET         string `gorm:"size:14;index"`
	CodeNAF       string
	TVAIntra      string // numéro TVA intracommunautaire
	RedevableTVA  bool   `gorm:"not null;default:true"`

	AddressID uint
	Address   Address `gorm:"foreignKey:AddressID"`
	Telephone string
	Email     string
	IBAN      string // IBAN/RIB pour facturation
	LogoURL   string

	MentionsLegales string
	Currency        string `gorm:"not null;default:'EUR'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NumberingRule configures number formatting per (company, document type).
type NumberingRule struct {
	ID            uint   `gorm:"primaryKey"`
	CompanyID     uint   `gorm:"not null;uniqueIndex:idx_rule_company_type,priority:1"`
	DocType       string `gorm:"size:16;not null;uniqueIndex:idx_rule_company_type,priority:2"`
	Prefix        string `gorm:"size:10;not null"`
	YearInNumber  bool
	MonthInNumber bool
	ResetYearly   bool
	Padding       int `gorm:"not null;default:5"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DefaultPrefix returns the conventional French prefix for a document type.
func DefaultPrefix(docType string) string {
	switch docType {
	case DocTypeQuote:
		return "DEV"
	case DocTypeCredit:
		return "AVO"
	default:
		return "FAC"
	}
}
