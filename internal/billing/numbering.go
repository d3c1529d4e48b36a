package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/lvasseur/factures/internal/models"
)

// FormatNumber renders a sequential document number according to the
// company's numbering rule: {prefix}-{year?}-{month?}-{counter padded}.
// Examples: DEV-2025-00001, FAC-2025-03-00042, AVO-00007.
func FormatNumber(rule models.NumberingRule, value int, at time.Time) string {
	prefix := rule.Prefix
	if prefix == "" {
		prefix = models.DefaultPrefix(rule.DocType)
	}
	parts := []string{prefix}
	if rule.YearInNumber {
		parts = append(parts, fmt.Sprintf("%04d", at.Year()))
	}
	if rule.MonthInNumber {
		parts = append(parts, fmt.Sprintf("%02d", int(at.Month())))
	}
	pad := rule.Padding
	if pad <= 0 {
		pad = 5
	}
	parts = append(parts, fmt.Sprintf("%0*d", pad, value))
	return strings.Join(parts, "-")
}
