// Package db opens the primary store and brings the schema up to date.
package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/config"
	"github.com/lvasseur/factures/internal/models"
)

// allModels lists every gorm-managed table, in dependency order.
func allModels() []any {
	return []any{
		&models.Role{}, &models.User{}, &models.Address{}, &models.CompanySettings{},
		&models.NumberingRule{}, &models.Counter{}, &models.Client{}, &models.ClientContact{},
		&models.Article{}, &models.Document{}, &models.DocumentLine{}, &models.Payment{},
		&models.AuditLog{},
	}
}

// Connect opens the database with a short retry loop; containers often win
// the race against their database.
func Connect(cfg config.Config) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dial = postgres.Open(cfg.DatabaseDSN)
	default:
		dial = sqlite.Open(cfg.DatabaseDSN)
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		db, err = gorm.Open(dial, &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("db connect attempt %d/5 failed: %v", attempt, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", maskDSN(cfg.DatabaseDSN), err)
	}
	log.Printf("connected to %s (%s)", maskDSN(cfg.DatabaseDSN), cfg.DatabaseDriver)
	return db, nil
}

// Migrate applies the schema. With MIGRATIONS=1 and a postgres URL the
// versioned SQL files run; otherwise gorm's AutoMigrate covers the models
// (the sqlite single-user install path).
func Migrate(db *gorm.DB, cfg config.Config) error {
	if cfg.UseMigrations && cfg.DatabaseDriver == "postgres" {
		m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("open migrations: %w", err)
		}
		defer m.Close()
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Println("sql migrations applied")
		return nil
	}
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Println("schema auto-migrated")
	return nil
}

// Seed inserts the default roles when missing. Idempotent.
func Seed(db *gorm.DB) error {
	for _, name := range []string{"admin", "manager", "user"} {
		role := models.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	log.Println("roles seeded")
	return nil
}

// maskDSN hides credentials in log lines.
func maskDSN(dsn string) string {
	if at := strings.LastIndex(dsn, "@"); at != -1 {
		if scheme := strings.Index(dsn, "://"); scheme != -1 {
			return dsn[:scheme+3] + "***" + dsn[at:]
		}
	}
	return dsn
}
