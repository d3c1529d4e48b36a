package billing

import (
	"math"
	"sort"

	"github.com/lvasseur/factures/internal/models"
)

// Round2 rounds to 2 decimal places. Applied after every multiplication or
// percentage application; unrounded values are never accumulated across lines.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineTotal computes the HT amount of a line. Subtotal and comment lines
// contribute zero. An amount discount floors the result at zero.
func LineTotal(l models.DocumentLine) float64 {
	if l.Kind != models.LineKindItem {
		return 0
	}
	t := Round2(l.Quantity * l.UnitPrice)
	if l.Discount > 0 {
		switch l.DiscountType {
		case models.DiscountPercent:
			t = Round2(t * (1 - l.Discount/100))
		case models.DiscountAmount:
			t = Round2(t - l.Discount)
			if t < 0 {
				t = 0
			}
		}
	}
	return t
}

// RefreshAmounts recomputes every derived line amount in place. A subtotal
// line shows the sum of item lines since the previous subtotal (or the
// start). Must run on every edit; stored amounts are display values only.
func RefreshAmounts(lines []models.DocumentLine) {
	var running float64
	for i := range lines {
		switch lines[i].Kind {
		case models.LineKindItem:
			lines[i].Amount = LineTotal(lines[i])
			running = Round2(running + lines[i].Amount)
		case models.LineKindSubtotal:
			lines[i].Amount = running
			running = 0
		default:
			lines[i].Amount = 0
		}
	}
}

// ComputeTotals returns HT, VAT and TTC for a set of lines. VAT is computed
// per line at that line's own rate, rounded, then summed.
func ComputeTotals(lines []models.DocumentLine) (ht, vat, ttc float64) {
	for _, l := range lines {
		if l.Kind != models.LineKindItem {
			continue
		}
		t := LineTotal(l)
		ht = Round2(ht + t)
		vat = Round2(vat + Round2(t*l.VATRate/100))
	}
	ttc = Round2(ht + vat)
	return ht, vat, ttc
}

// RateTotal is one entry of the VAT detail block, grouped by rate.
type RateTotal struct {
	Rate float64
	Base float64
	VAT  float64
}

// VATBreakdown groups item lines by VAT rate for multi-rate documents,
// sorted by ascending rate.
func VATBreakdown(lines []models.DocumentLine) []RateTotal {
	byRate := map[float64]*RateTotal{}
	for _, l := range lines {
		if l.Kind != models.LineKindItem {
			continue
		}
		t := LineTotal(l)
		rt, ok := byRate[l.VATRate]
		if !ok {
			rt = &RateTotal{Rate: l.VATRate}
			byRate[l.VATRate] = rt
		}
		rt.Base = Round2(rt.Base + t)
		rt.VAT = Round2(rt.VAT + Round2(t*l.VATRate/100))
	}
	out := make([]RateTotal, 0, len(byRate))
	for _, rt := range byRate {
		out = append(out, *rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate < out[j].Rate })
	return out
}

// NetPayable applies the document-level global discount to TTC for display.
// Stored totals are never mutated by the global discount.
func NetPayable(d *models.Document) float64 {
	net := d.TotalTTC
	if d.GlobalDiscount > 0 {
		switch d.GlobalDiscountType {
		case models.DiscountPercent:
			net = Round2(net * (1 - d.GlobalDiscount/100))
		case models.DiscountAmount:
			net = Round2(net - d.GlobalDiscount)
			if net < 0 {
				net = 0
			}
		}
	}
	return net
}
