package billing

import "github.com/lvasseur/factures/internal/models"

// Tolerance is the rounding tolerance (0.01 currency unit) used when
// comparing paid amounts against totals.
const Tolerance = 0.01

// TotalPaid sums the payments recorded against an invoice.
func TotalPaid(payments []models.Payment) float64 {
	var sum float64
	for _, p := range payments {
		sum = Round2(sum + p.Amount)
	}
	return sum
}

// Remaining is the raw balance, possibly negative when overpaid. The stored
// value is not floored so an overpayment stays visible.
func Remaining(totalTTC, totalPaid float64) float64 {
	return Round2(totalTTC - totalPaid)
}

// RemainingDisplay floors the balance at zero for display purposes.
func RemainingDisplay(totalTTC, totalPaid float64) float64 {
	r := Remaining(totalTTC, totalPaid)
	if r < 0 {
		return 0
	}
	return r
}

// DeriveInvoiceStatus computes the payment-driven status of an invoice.
// Idempotent: re-applying it to the same payment set yields the same result.
// With no effective payment the previous non-paid status is preserved
// (a draft stays draft); a formerly paid invoice falls back to issued.
func DeriveInvoiceStatus(current string, totalTTC, totalPaid float64) string {
	if totalPaid <= Tolerance {
		switch current {
		case models.StatusPaid, models.StatusPartiallyPaid:
			return models.StatusIssued
		default:
			return current
		}
	}
	if Remaining(totalTTC, totalPaid) <= Tolerance {
		return models.StatusPaid
	}
	return models.StatusPartiallyPaid
}
