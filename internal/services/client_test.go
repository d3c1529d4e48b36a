package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvasseur/factures/internal/models"
)

func TestClientValidation(t *testing.T) {
	db := setupTestDB(t)
	company, _ := seedCompany(t, db)
	svc := NewClientService(db)

	_, err := svc.Create(company.ID, ClientInput{Kind: models.ClientProfessional})
	assert.ErrorIs(t, err, ErrClientValidation, "professional without company name")

	_, err = svc.Create(company.ID, ClientInput{Kind: models.ClientIndividual, FirstName: "Jean"})
	assert.ErrorIs(t, err, ErrClientValidation, "individual without last name")

	c, err := svc.Create(company.ID, ClientInput{Kind: models.ClientIndividual, FirstName: "Jean", LastName: "Moreau"})
	require.NoError(t, err)
	assert.Equal(t, "Jean Moreau", c.DisplayName())
	assert.NotEmpty(t, c.PublicID)
}

func TestAddContactDemotesPrimary(t *testing.T) {
	db := setupTestDB(t)
	_, client := seedCompany(t, db)
	svc := NewClientService(db)

	first, err := svc.AddContact(client.ID, models.ContactEmail, "compta", "compta@clientco.fr", true)
	require.NoError(t, err)
	assert.True(t, first.IsPrimary)

	// A primary phone does not touch the primary email.
	_, err = svc.AddContact(client.ID, models.ContactPhone, "standard", "+33100000000", true)
	require.NoError(t, err)

	second, err := svc.AddContact(client.ID, models.ContactEmail, "direction", "dg@clientco.fr", true)
	require.NoError(t, err)
	assert.True(t, second.IsPrimary)

	var contacts []models.ClientContact
	require.NoError(t, db.Where("client_id = ? AND kind = ?", client.ID, models.ContactEmail).Find(&contacts).Error)
	primaries := 0
	for _, c := range contacts {
		if c.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries, "at most one primary email per client")

	_, err = svc.AddContact(9999, models.ContactEmail, "", "x@y.z", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteClientWithDocumentsRefused(t *testing.T) {
	db := setupTestDB(t)
	company, client := seedCompany(t, db)
	svc := NewClientService(db)
	docSvc := NewDocumentService(db, NewNumberingService(db))

	_, err := docSvc.Create(company.ID, DocumentInput{Type: models.DocTypeQuote, ClientID: client.ID, Lines: []LineInput{itemInput(1, 100, 20)}})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(client.ID), ErrClientInUse)

	fresh, err := svc.Create(company.ID, ClientInput{Kind: models.ClientProfessional, CompanyName: "Éphémère SAS"})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(fresh.ID))
	_, err = svc.Get(fresh.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetupCreatesDefaults(t *testing.T) {
	db := setupTestDB(t)
	role := models.Role{Name: "admin"}
	require.NoError(t, db.Create(&role).Error)
	user := models.User{Email: "owner@test", Password: "x", RoleID: role.ID}
	require.NoError(t, db.Create(&user).Error)

	svc := NewSetupService(db)
	configured, err := svc.IsConfigured()
	require.NoError(t, err)
	assert.False(t, configured)

	cs, err := svc.Run(SetupInput{Company: "Atelier Brun", SIRET: "12345678900011", VATEnabled: true, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "123456789", cs.SIREN, "SIREN derived from the SIRET")

	var rules []models.NumberingRule
	require.NoError(t, db.Where("company_id = ?", cs.ID).Find(&rules).Error)
	require.Len(t, rules, 3)
	prefixes := map[string]string{}
	for _, r := range rules {
		prefixes[r.DocType] = r.Prefix
		assert.True(t, r.ResetYearly)
		assert.Equal(t, 5, r.Padding)
	}
	assert.Equal(t, "DEV", prefixes[models.DocTypeQuote])
	assert.Equal(t, "FAC", prefixes[models.DocTypeInvoice])
	assert.Equal(t, "AVO", prefixes[models.DocTypeCredit])

	_, err = svc.Run(SetupInput{Company: "Autre", UserID: user.ID})
	assert.ErrorIs(t, err, ErrAlreadyConfigured)
}
