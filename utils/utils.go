package utils

import (
	"math"
	"strconv"
	"strings"
)

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

// FormatStat renders a statistic for tabular output. Undefined values
// (NaN SEM of a single-observation group, p-value of an untested key)
// come out as "NA" so the downstream plotting step can treat them as
// missing rather than choking on "NaN".
func FormatStat(value float64) string {
	if math.IsNaN(value) {
		return "NA"
	}
	if math.IsInf(value, 1) {
		return "Inf"
	}
	if math.IsInf(value, -1) {
		return "-Inf"
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// NormalizeHeader canonicalizes a column header for lookup:
// case-insensitive, with the punctuation variants the upstream tool
// emits (e.g. "O(HOM)") flattened.
func NormalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.NewReplacer("(", "_", ")", "", ".", "_", "-", "_", " ", "_").Replace(h)
	return strings.Trim(h, "_")
}
