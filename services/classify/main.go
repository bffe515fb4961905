package classifyService

import (
	"math"

	"sexscaff/models"
	"sexscaff/models/constants/significance"
)

// JoinResults joins WideSummary with TestResult on the group key, labels
// each row with the three-way significance rule and derives the
// heterogametic/homogametic mean ratio. Test results exist exactly for
// the keys the summary kept, so this is an inner join by construction;
// a missing entry still degrades to an "untested" row rather than a
// dropped one.
func JoinResults(summaries []models.WideSummary, tests map[string]models.TestResult, pValueCeiling float64, roles models.SexRoles) []models.ClassificationRow {
	rows := make([]models.ClassificationRow, 0, len(summaries))
	for _, ws := range summaries {
		test, ok := tests[ws.Key]
		if !ok {
			test = models.TestResult{Key: ws.Key, PValue: math.NaN(), Tested: false}
		}

		rows = append(rows, models.ClassificationRow{
			Key:          ws.Key,
			Mean:         ws.Mean,
			Sem:          ws.Sem,
			Count:        ws.Count,
			PValue:       test.PValue,
			Method:       test.Method,
			Tested:       test.Tested,
			Significance: significance.FromPValue(test.PValue, pValueCeiling, test.Tested),
			Ratio:        ws.Mean[roles.Heterogametic] / ws.Mean[roles.Homogametic],
		})
	}
	return rows
}

// Relabel recomputes the significance label after a p-value ceiling
// change, without retesting. Used by re-classification requests.
func Relabel(rows []models.ClassificationRow, pValueCeiling float64) []models.ClassificationRow {
	relabeled := make([]models.ClassificationRow, len(rows))
	for i, row := range rows {
		row.Significance = significance.FromPValue(row.PValue, pValueCeiling, row.Tested)
		relabeled[i] = row
	}
	return relabeled
}

// CandidateXZ flags candidate X/Z-linked scaffolds from the
// heterozygosity pass: a statistically significant between-sex
// difference AND near-zero observed heterozygosity in the heterogametic
// sex (hemizygous at sex-linked loci). Both conditions are required;
// either alone admits too many sampling-noise false positives. Untested
// rows never qualify.
func CandidateXZ(rows []models.ClassificationRow, thresholds models.Thresholds, roles models.SexRoles) []models.ClassificationRow {
	var candidates []models.ClassificationRow
	for _, row := range rows {
		if !row.Tested {
			continue
		}
		if row.PValue <= thresholds.PValueCeiling && row.Mean[roles.Heterogametic] < thresholds.HetCeiling {
			candidates = append(candidates, row)
		}
	}
	return candidates
}

// CandidateWY flags candidate W/Y-linked loci from the depth pass. The
// pass first drops anomalously high-depth loci (repetitive/multi-copy
// regions confound the ratio), then keeps loci where the homogametic sex
// shows near-zero depth and the heterogametic/homogametic depth ratio is
// large: the signature of a degenerate sex-limited chromosome.
func CandidateWY(rows []models.ClassificationRow, thresholds models.Thresholds, roles models.SexRoles) []models.ClassificationRow {
	var candidates []models.ClassificationRow
	for _, row := range rows {
		if row.Mean[roles.Heterogametic] >= thresholds.DepthOutlierCeiling {
			continue
		}
		if row.Mean[roles.Homogametic] < thresholds.LowDepthCeiling && row.Ratio > thresholds.MinDepthRatio {
			candidates = append(candidates, row)
		}
	}
	return candidates
}
