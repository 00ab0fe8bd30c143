package engine

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Legacy balance adjustments encode their signed value inside the free-text
// notes, e.g. "adjustment -120.50" or "delta: +3 000,25". The comma decimal
// separator and thin spacing both occur in imported data.
var notesDeltaPattern = regexp.MustCompile(`[+-]\s?\d+(?: \d{3})*(?:[.,]\d+)?`)

// ParseNotesDelta extracts the signed amount embedded in a transaction's
// notes. Returns ok=false when nothing parseable is found; callers fall back
// to the transaction's raw amount.
func ParseNotesDelta(notes string) (decimal.Decimal, bool) {
	match := notesDeltaPattern.FindString(notes)
	if match == "" {
		return decimal.Decimal{}, false
	}
	normalized := strings.ReplaceAll(match, " ", "")
	normalized = strings.Replace(normalized, ",", ".", 1)
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}
