package billing

import (
	"testing"

	"github.com/lvasseur/factures/internal/models"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	tests := []struct {
		name    string
		current string
		ttc     float64
		paid    float64
		want    string
	}{
		{"no payment keeps draft", models.StatusDraft, 1200, 0, models.StatusDraft},
		{"no payment keeps issued", models.StatusIssued, 1200, 0, models.StatusIssued},
		{"no payment keeps sent", models.StatusSent, 1200, 0, models.StatusSent},
		{"payments removed falls back to issued", models.StatusPaid, 1200, 0, models.StatusIssued},
		{"partial", models.StatusIssued, 1200, 700, models.StatusPartiallyPaid},
		{"settled", models.StatusPartiallyPaid, 1200, 1200, models.StatusPaid},
		{"within tolerance", models.StatusIssued, 1200, 1199.995, models.StatusPaid},
		{"overpaid", models.StatusIssued, 1200, 1300, models.StatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveInvoiceStatus(tt.current, tt.ttc, tt.paid); got != tt.want {
				t.Errorf("DeriveInvoiceStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Recomputing the status any number of times for a fixed payment list must
// yield the same result.
func TestDeriveInvoiceStatusIdempotent(t *testing.T) {
	payments := []models.Payment{{Amount: 700}}
	paid := TotalPaid(payments)
	status := DeriveInvoiceStatus(models.StatusIssued, 1200, paid)
	if status != models.StatusPartiallyPaid {
		t.Fatalf("expected partially_paid, got %q", status)
	}
	if got := Remaining(1200, paid); got != 500 {
		t.Fatalf("remaining = %v, want 500", got)
	}
	for i := 0; i < 5; i++ {
		if got := DeriveInvoiceStatus(status, 1200, paid); got != status {
			t.Fatalf("iteration %d: derivation not stable, got %q", i, got)
		}
	}
	payments = append(payments, models.Payment{Amount: 500})
	paid = TotalPaid(payments)
	if got := DeriveInvoiceStatus(status, 1200, paid); got != models.StatusPaid {
		t.Fatalf("expected paid after full settlement, got %q", got)
	}
	if got := Remaining(1200, paid); got != 0 {
		t.Fatalf("remaining = %v, want 0", got)
	}
}

func TestRemainingDisplayFloorsAtZero(t *testing.T) {
	if got := RemainingDisplay(100, 150); got != 0 {
		t.Errorf("RemainingDisplay = %v, want 0", got)
	}
	// Raw value keeps the overpayment visible.
	if got := Remaining(100, 150); got != -50 {
		t.Errorf("Remaining = %v, want -50", got)
	}
}
