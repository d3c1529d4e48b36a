package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/models"
	"github.com/lvasseur/factures/internal/validation"
)

var (
	ErrClientValidation = errors.New("validation_failed")
	ErrClientInUse      = errors.New("client_in_use")
)

// ClientService owns client CRUD and the contact rules.
type ClientService struct {
	DB *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService { return &ClientService{DB: db} }

// ClientInput carries the editable client fields.
type ClientInput struct {
	Kind        string `json:"kind"`
	CompanyName string `json:"company_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Telephone   string `json:"telephone"`
	SIRET       string `json:"siret"`
	TVAIntra    string `json:"tva_intra"`
	Notes       string `json:"notes"`
}

// Validate enforces the polymorphic requirements: a professional needs a
// company name, an individual a first and last name.
func (in ClientInput) Validate() validation.Violations {
	v := validation.Violations{}
	validation.OneOf("kind", in.Kind, []string{models.ClientProfessional, models.ClientIndividual}, v)
	switch in.Kind {
	case models.ClientIndividual:
		validation.Required("first_name", in.FirstName, v)
		validation.Required("last_name", in.LastName, v)
	default:
		validation.Required("company_name", in.CompanyName, v)
	}
	return v
}

func (s *ClientService) Create(companyID uint, in ClientInput) (*models.Client, error) {
	if v := in.Validate(); !v.Empty() {
		return nil, ErrClientValidation
	}
	client := &models.Client{
		PublicID:    uuid.NewString(),
		CompanyID:   companyID,
		Kind:        in.Kind,
		CompanyName: in.CompanyName,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Telephone:   in.Telephone,
		SIRET:       in.SIRET,
		TVAIntra:    in.TVAIntra,
		Notes:       in.Notes,
	}
	if err := s.DB.Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Update(id uint, in ClientInput) (*models.Client, error) {
	if v := in.Validate(); !v.Empty() {
		return nil, ErrClientValidation
	}
	var client models.Client
	if err := s.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	client.Kind = in.Kind
	client.CompanyName = in.CompanyName
	client.FirstName = in.FirstName
	client.LastName = in.LastName
	client.Email = in.Email
	client.Telephone = in.Telephone
	client.SIRET = in.SIRET
	client.TVAIntra = in.TVAIntra
	client.Notes = in.Notes
	if err := s.DB.Save(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Delete removes a client with no documents; clients referenced by any
// document are kept for the paper trail.
func (s *ClientService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var docCount int64
		if err := tx.Model(&models.Document{}).Where("client_id = ?", id).Count(&docCount).Error; err != nil {
			return err
		}
		if docCount > 0 {
			return ErrClientInUse
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.ClientContact{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Client{}, id).Error
	})
}

// Get loads a client with its contacts.
func (s *ClientService) Get(id uint) (*models.Client, error) {
	var client models.Client
	err := s.DB.Preload("Contacts").Preload("Address").First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// List returns clients of a company, optionally filtered by a name search.
func (s *ClientService) List(companyID uint, search string) ([]models.Client, error) {
	q := s.DB.Where("company_id = ?", companyID).Order("company_name asc, last_name asc")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("company_name LIKE ? OR last_name LIKE ? OR first_name LIKE ?", like, like, like)
	}
	var clients []models.Client
	err := q.Preload("Contacts").Find(&clients).Error
	return clients, err
}

// AddContact appends an alternate email/phone. Marking a contact primary
// demotes any previous primary of the same kind inside the transaction: at
// most one primary per (client, kind).
func (s *ClientService) AddContact(clientID uint, kind, category, value string, primary bool) (*models.ClientContact, error) {
	v := validation.Violations{}
	validation.OneOf("kind", kind, []string{models.ContactEmail, models.ContactPhone}, v)
	validation.Required("value", value, v)
	if !v.Empty() {
		return nil, ErrClientValidation
	}
	contact := &models.ClientContact{ClientID: clientID, Kind: kind, Category: category, Value: value, IsPrimary: primary}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if primary {
			if err := tx.Model(&models.ClientContact{}).
				Where("client_id = ? AND kind = ? AND is_primary", clientID, kind).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(contact).Error
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}
