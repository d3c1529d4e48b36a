package models

import (
	"time"

	"gorm.io/gorm"
)

// Article is a catalog entry reusable as a document line template.
type Article struct {
	ID        uint            `gorm:"primaryKey"`
	CompanyID uint            `gorm:"not null;index"`
	Company   CompanySettings `gorm:"foreignKey:CompanyID"`
	// Code article unique par société parmi les articles actifs; vérifié par
	// le service (l'index unique bloquerait la réutilisation après suppression
	// douce).
	Code        string `gorm:"size:40;not null;index"`
	UserID      uint   `gorm:"not null"` // créateur
	Description string `gorm:"not null"`
	Unit        string `gorm:"size:20"`
	UnitPrice   float64
	VATRate     float64 // taux en pourcent, ex: 20
	Currency    string  `gorm:"not null;default:'EUR'"`

	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceWithVAT returns the tax-inclusive unit price.
func (a *Article) PriceWithVAT() float64 {
	return a.UnitPrice * (1 + a.VATRate/100)
}
