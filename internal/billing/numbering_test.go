package billing

import (
	"testing"
	"time"

	"github.com/lvasseur/factures/internal/models"
)

func TestFormatNumber(t *testing.T) {
	march2025 := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		rule  models.NumberingRule
		value int
		want  string
	}{
		{"year only", models.NumberingRule{Prefix: "DEV", YearInNumber: true, Padding: 5}, 1, "DEV-2025-00001"},
		{"year and month", models.NumberingRule{Prefix: "FAC", YearInNumber: true, MonthInNumber: true, Padding: 5}, 42, "FAC-2025-03-00042"},
		{"counter only", models.NumberingRule{Prefix: "AVO", Padding: 5}, 7, "AVO-00007"},
		{"default padding", models.NumberingRule{Prefix: "FAC", YearInNumber: true}, 3, "FAC-2025-00003"},
		{"default prefix from type", models.NumberingRule{DocType: models.DocTypeQuote, YearInNumber: true}, 12, "DEV-2025-00012"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNumber(tt.rule, tt.value, march2025); got != tt.want {
				t.Errorf("FormatNumber() = %q, want %q", got, tt.want)
			}
		})
	}
}
