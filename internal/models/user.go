package models

import "time"

// User & auth related models
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"unique;not null;index"`
	Password string `gorm:"not null"` // hashé
	Nom      string `gorm:"index"`
	Prenom   string `gorm:"index"`
	RoleID   uint   // clé étrangère vers Role
	Role     Role   `gorm:"foreignKey:RoleID"`
	// Permissions personnalisées (CSV "resource:action"); elles s'ajoutent
	// aux permissions par défaut du rôle.
	Permissions string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"` // admin, manager, user
	Description string // optionnel
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
