package billing

import (
	"testing"

	"github.com/lvasseur/factures/internal/models"
)

func item(qty, price, vat float64) models.DocumentLine {
	return models.DocumentLine{Kind: models.LineKindItem, Quantity: qty, UnitPrice: price, VATRate: vat}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name string
		line models.DocumentLine
		want float64
	}{
		{"simple", item(2, 100, 20), 200},
		{"fractional", item(3, 33.333, 20), 100}, // Round2(99.999)
		{"percent discount", models.DocumentLine{Kind: models.LineKindItem, Quantity: 1, UnitPrice: 100, Discount: 10, DiscountType: models.DiscountPercent}, 90},
		{"amount discount", models.DocumentLine{Kind: models.LineKindItem, Quantity: 1, UnitPrice: 100, Discount: 25, DiscountType: models.DiscountAmount}, 75},
		{"amount discount floored at zero", models.DocumentLine{Kind: models.LineKindItem, Quantity: 1, UnitPrice: 100, Discount: 150, DiscountType: models.DiscountAmount}, 0},
		{"subtotal contributes nothing", models.DocumentLine{Kind: models.LineKindSubtotal, Quantity: 1, UnitPrice: 100}, 0},
		{"comment contributes nothing", models.DocumentLine{Kind: models.LineKindComment, Quantity: 1, UnitPrice: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineTotal(tt.line); got != tt.want {
				t.Errorf("LineTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeTotalsMultiRate(t *testing.T) {
	lines := []models.DocumentLine{
		item(2, 100, 20), // HT 200, VAT 40
		item(1, 50, 10),  // HT 50, VAT 5
		item(3, 10, 5.5), // HT 30, VAT 1.65
		{Kind: models.LineKindComment, Description: "note"},
	}
	ht, vat, ttc := ComputeTotals(lines)
	if ht != 280 {
		t.Errorf("HT = %v, want 280", ht)
	}
	if vat != 46.65 {
		t.Errorf("VAT = %v, want 46.65", vat)
	}
	if ttc != 326.65 {
		t.Errorf("TTC = %v, want 326.65", ttc)
	}
}

// Line totals are rounded individually before summing; the round of the
// unrounded sum would differ.
func TestComputeTotalsRoundingStability(t *testing.T) {
	lines := []models.DocumentLine{
		item(1, 0.335, 20),
		item(1, 0.335, 20),
		item(1, 0.335, 20),
	}
	ht, vat, _ := ComputeTotals(lines)
	// Each line rounds to 0.34; 3 × 0.34 = 1.02. Round2(3 × 0.335) would be 1.01.
	if ht != 1.02 {
		t.Errorf("HT = %v, want 1.02 (line-first rounding)", ht)
	}
	// Per-line VAT: Round2(0.34 × 0.20) = 0.07 each.
	if vat != 0.21 {
		t.Errorf("VAT = %v, want 0.21", vat)
	}
}

func TestRefreshAmountsSubtotals(t *testing.T) {
	lines := []models.DocumentLine{
		item(2, 100, 20),
		item(1, 50, 20),
		{Kind: models.LineKindSubtotal},
		item(1, 10, 20),
		{Kind: models.LineKindSubtotal},
	}
	RefreshAmounts(lines)
	if lines[2].Amount != 250 {
		t.Errorf("first subtotal = %v, want 250", lines[2].Amount)
	}
	if lines[4].Amount != 10 {
		t.Errorf("second subtotal = %v, want 10", lines[4].Amount)
	}
}

func TestVATBreakdown(t *testing.T) {
	lines := []models.DocumentLine{
		item(2, 100, 20),
		item(1, 50, 10),
		item(1, 100, 20),
	}
	bd := VATBreakdown(lines)
	if len(bd) != 2 {
		t.Fatalf("expected 2 rates, got %d", len(bd))
	}
	if bd[0].Rate != 10 || bd[0].Base != 50 || bd[0].VAT != 5 {
		t.Errorf("rate 10 entry = %+v", bd[0])
	}
	if bd[1].Rate != 20 || bd[1].Base != 300 || bd[1].VAT != 60 {
		t.Errorf("rate 20 entry = %+v", bd[1])
	}
}

func TestNetPayable(t *testing.T) {
	tests := []struct {
		name string
		doc  models.Document
		want float64
	}{
		{"no discount", models.Document{TotalTTC: 240}, 240},
		{"percent", models.Document{TotalTTC: 240, GlobalDiscount: 10, GlobalDiscountType: models.DiscountPercent}, 216},
		{"amount", models.Document{TotalTTC: 240, GlobalDiscount: 40, GlobalDiscountType: models.DiscountAmount}, 200},
		{"amount floored", models.Document{TotalTTC: 240, GlobalDiscount: 300, GlobalDiscountType: models.DiscountAmount}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NetPayable(&tt.doc); got != tt.want {
				t.Errorf("NetPayable() = %v, want %v", got, tt.want)
			}
		})
	}
}
