package classifyService

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"sexscaff/models"
	"sexscaff/models/constants/significance"
)

var (
	testRoles = models.SexRoles{Heterogametic: "F", Homogametic: "M"}

	testThresholds = models.Thresholds{
		MinLocusCount:       100,
		PValueCeiling:       0.001,
		HetCeiling:          0.05,
		DepthOutlierCeiling: 110,
		LowDepthCeiling:     2,
		MinDepthRatio:       20,
	}
)

func summaryRow(key string, meanF float64, meanM float64) models.WideSummary {
	return models.WideSummary{
		Key:   key,
		Mean:  map[string]float64{"F": meanF, "M": meanM},
		Sem:   map[string]float64{"F": 0.01, "M": 0.01},
		Count: map[string]int{"F": 2, "M": 2},
	}
}

func classificationRow(key string, meanF float64, meanM float64, pValue float64, tested bool) models.ClassificationRow {
	rows := JoinResults(
		[]models.WideSummary{summaryRow(key, meanF, meanM)},
		map[string]models.TestResult{key: {Key: key, PValue: pValue, Method: "welch-t", Tested: tested}},
		testThresholds.PValueCeiling,
		testRoles,
	)
	return rows[0]
}

func TestJoinResults(t *testing.T) {
	t.Run("should label by the three-way significance rule", func(t *testing.T) {
		assert.Equal(t, significance.Significant, classificationRow("a", 0.9, 0.2, 1e-5, true).Significance)
		assert.Equal(t, significance.NotSignificant, classificationRow("b", 0.9, 0.2, 0.001, true).Significance)
		assert.Equal(t, significance.Untested, classificationRow("c", 0.9, 0.2, math.NaN(), false).Significance)
	})

	t.Run("should derive the heterogametic over homogametic ratio", func(t *testing.T) {
		row := classificationRow("a", 40, 0.5, 1e-5, true)
		assert.InDelta(t, 80.0, row.Ratio, 1e-12)
	})

	t.Run("ratio should match independently summarized means exactly", func(t *testing.T) {
		meanF, meanM := 39.123456789, 0.487654321
		row := classificationRow("a", meanF, meanM, 1e-5, true)
		assert.Equal(t, meanF/meanM, row.Ratio)
	})
}

func TestCandidateXZ(t *testing.T) {
	t.Run("should require BOTH significance and a near-zero heterogametic mean", func(t *testing.T) {
		rows := []models.ClassificationRow{
			// significant but heterogametic heterozygosity far from zero :
			// must NOT be a candidate despite the p-value
			classificationRow("s1", 0.895, 0.25, 1e-6, true),
			// significant and near-zero : candidate
			classificationRow("s2", 0.01, 0.5, 1e-6, true),
			// near-zero but not significant
			classificationRow("s3", 0.01, 0.5, 0.2, true),
		}

		candidates := CandidateXZ(rows, testThresholds, testRoles)

		assert.Len(t, candidates, 1)
		assert.Equal(t, "s2", candidates[0].Key)
	})

	t.Run("should keep a p-value exactly at the ceiling", func(t *testing.T) {
		rows := []models.ClassificationRow{classificationRow("s1", 0.01, 0.5, 0.001, true)}
		assert.Len(t, CandidateXZ(rows, testThresholds, testRoles), 1)
	})

	t.Run("should never admit untested rows", func(t *testing.T) {
		rows := []models.ClassificationRow{classificationRow("s1", 0.01, 0.5, math.NaN(), false)}
		assert.Empty(t, CandidateXZ(rows, testThresholds, testRoles))
	})
}

func TestCandidateWY(t *testing.T) {
	t.Run("should flag near-zero homogametic depth with a high ratio", func(t *testing.T) {
		rows := []models.ClassificationRow{
			classificationRow("chrX:100", 40, 0.5, 1e-6, true), // ratio 80
			classificationRow("chr1:50", 30, 29, 0.8, true),
		}

		candidates := CandidateWY(rows, testThresholds, testRoles)

		assert.Len(t, candidates, 1)
		assert.Equal(t, "chrX:100", candidates[0].Key)
	})

	t.Run("should drop anomalously high-depth loci before the ratio test", func(t *testing.T) {
		rows := []models.ClassificationRow{
			classificationRow("rep:1", 150, 0.5, 1e-6, true), // ratio 300 but repetitive-region depth
		}

		assert.Empty(t, CandidateWY(rows, testThresholds, testRoles))
	})

	t.Run("should tolerate an infinite ratio over zero homogametic depth", func(t *testing.T) {
		rows := []models.ClassificationRow{classificationRow("chrW:5", 35, 0, 1e-6, true)}

		candidates := CandidateWY(rows, testThresholds, testRoles)

		assert.Len(t, candidates, 1)
		assert.True(t, math.IsInf(candidates[0].Ratio, 1))
	})
}

func TestRelabel(t *testing.T) {
	t.Run("should flip labels under a new ceiling without retesting", func(t *testing.T) {
		rows := []models.ClassificationRow{
			classificationRow("a", 0.01, 0.5, 0.0005, true),
			classificationRow("b", 0.01, 0.5, math.NaN(), false),
		}
		assert.Equal(t, significance.Significant, rows[0].Significance)

		relabeled := Relabel(rows, 0.0001)

		assert.Equal(t, significance.NotSignificant, relabeled[0].Significance)
		// untested stays untested regardless of ceiling
		assert.Equal(t, significance.Untested, relabeled[1].Significance)
		// input untouched
		assert.Equal(t, significance.Significant, rows[0].Significance)
	})
}
