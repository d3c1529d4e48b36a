package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.Address{}, &models.CompanySettings{},
		&models.NumberingRule{}, &models.Counter{}, &models.Client{}, &models.ClientContact{},
		&models.Article{}, &models.Document{}, &models.DocumentLine{}, &models.Payment{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedCompany creates the minimal user/company/client fixture.
func seedCompany(t *testing.T, db *gorm.DB) (models.CompanySettings, models.Client) {
	t.Helper()
	role := models.Role{Name: "admin"}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("role: %v", err)
	}
	user := models.User{Email: "svc@test", Password: "x", RoleID: role.ID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	company := models.CompanySettings{UserID: user.ID, RaisonSociale: "Atelier Brun", SIREN: "123456789", SIRET: "12345678900011"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("company: %v", err)
	}
	client := models.Client{PublicID: "c-1", CompanyID: company.ID, Kind: models.ClientProfessional, CompanyName: "ClientCo"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	return company, client
}

func itemInput(qty, price, vat float64) LineInput {
	return LineInput{Kind: models.LineKindItem, Description: "prestation", Quantity: qty, UnitPrice: price, VATRate: vat}
}
