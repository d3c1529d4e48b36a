package models

import "time"

// Counter is the per (company, document type) sequence backing document
// numbers. Value only ever moves through the numbering service, inside the
// transaction that persists the issued document; never read-modify-write it
// in application memory.
type Counter struct {
	ID            uint   `gorm:"primaryKey"`
	CompanyID     uint   `gorm:"not null;uniqueIndex:idx_counter_company_type,priority:1"`
	DocType       string `gorm:"size:16;not null;uniqueIndex:idx_counter_company_type,priority:2"`
	Value         int    `gorm:"not null;default:0"`
	LastResetYear int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
