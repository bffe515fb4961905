package significance

import (
	"sexscaff/models/constants"
)

const (
	Significant    constants.Significance = "significant"
	NotSignificant constants.Significance = "not significant"

	// Untested marks group keys whose differential test was skipped
	// (degenerate single-observation group). Deliberately a third state:
	// an undefined p-value must never be coerced into one of the two
	// numeric branches.
	Untested constants.Significance = "untested"
)

func FromPValue(pValue float64, ceiling float64, tested bool) constants.Significance {
	if !tested {
		return Untested
	}
	if pValue < ceiling {
		return Significant
	}
	return NotSignificant
}

func IsKnown(value string) bool {
	switch constants.Significance(value) {
	case Significant, NotSignificant, Untested:
		return true
	default:
		return false
	}
}
