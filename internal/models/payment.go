package models

import "time"

// Payment tied to an invoice. The sum of payments is not capped at the
// invoice total: an overpayment is recorded as-is (client credit).
type Payment struct {
	ID        uint      `gorm:"primaryKey"`
	InvoiceID uint      `gorm:"not null;index"` // FK vers Document (type invoice)
	Date      time.Time `gorm:"not null"`
	Amount    float64   `gorm:"not null"`
	Method    string    `gorm:"not null"` // ex: virement, CB, chèque, espèces
	Reference string    // optionnel
	CreatedAt time.Time
	UpdatedAt time.Time
}
