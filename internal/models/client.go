package models

import "time"

// Client kinds.
const (
	ClientProfessional = "professional"
	ClientIndividual   = "individual"
)

// Contact kinds.
const (
	ContactEmail = "email"
	ContactPhone = "phone"
)

// Client entity, polymorphic over professional / individual.
// A professional requires CompanyName, an individual FirstName + LastName.
type Client struct {
	ID        uint   `gorm:"primaryKey"`
	PublicID  string `gorm:"size:36;uniqueIndex;not null"`
	CompanyID uint   `gorm:"not null;index"`
	Kind      string `gorm:"size:15;not null;default:'professional'"`

	CompanyName string `gorm:"index"` // raison sociale (professionnel)
	FirstName   string
	LastName    string `gorm:"index"`

	AddressID uint
	Address   Address `gorm:"foreignKey:AddressID"`
	Email     string
	Telephone string
	SIRET     string `gorm:"index"` // France
	TVAIntra  string // numéro TVA intracommunautaire

	Contacts []ClientContact `gorm:"foreignKey:ClientID"`

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientContact is an alternate email or phone. At most one primary per
// (client, kind); enforced by the client service, not by the schema.
type ClientContact struct {
	ID        uint   `gorm:"primaryKey"`
	ClientID  uint   `gorm:"not null;index"`
	Kind      string `gorm:"size:10;not null"` // email | phone
	Category  string `gorm:"size:30"`          // ex: "comptabilité", "commercial"
	Value     string `gorm:"not null"`
	IsPrimary bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the billing name according to the client kind.
func (c *Client) DisplayName() string {
	if c.Kind == ClientIndividual {
		if c.FirstName == "" {
			return c.LastName
		}
		return c.FirstName + " " + c.LastName
	}
	return c.CompanyName
}
