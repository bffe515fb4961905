package difftestService

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"

	"sexscaff/models"
)

func depthFrame(rows [][3]interface{}) dataframe.DataFrame {
	obs := make([]models.DepthObservation, 0, len(rows))
	for i, row := range rows {
		obs = append(obs, models.DepthObservation{
			Scaffold:   row[0].(string),
			Locus:      row[0].(string),
			Individual: string(rune('A' + i)),
			Sex:        row[1].(string),
			Depth:      row[2].(float64),
		})
	}
	return dataframe.LoadStructs(obs)
}

func TestTestGroups(t *testing.T) {
	sexes := []string{"F", "M"}

	t.Run("should flag a strong between-sex difference as highly significant", func(t *testing.T) {
		df := depthFrame([][3]interface{}{
			{"s1", "F", 0.9}, {"s1", "F", 0.89}, {"s1", "F", 0.91},
			{"s1", "M", 0.25}, {"s1", "M", 0.26}, {"s1", "M", 0.24},
		})

		results, err := TestGroups(df, "depth", []string{"locus"}, "sex", sexes)

		assert.NoError(t, err)
		assert.Len(t, results, 1)

		result := results["s1"]
		assert.True(t, result.Tested)
		assert.Equal(t, MethodWelchT, result.Method)
		assert.Less(t, result.PValue, 0.001)
	})

	t.Run("should not flag overlapping samples", func(t *testing.T) {
		df := depthFrame([][3]interface{}{
			{"s1", "F", 30.0}, {"s1", "F", 35.0}, {"s1", "F", 28.0},
			{"s1", "M", 31.0}, {"s1", "M", 29.0}, {"s1", "M", 34.0},
		})

		results, err := TestGroups(df, "depth", []string{"locus"}, "sex", sexes)

		assert.NoError(t, err)
		assert.Greater(t, results["s1"].PValue, 0.05)
	})

	t.Run("should label a single-observation group untested, not crash", func(t *testing.T) {
		df := depthFrame([][3]interface{}{
			{"s1", "F", 0.9}, {"s1", "F", 0.89},
			{"s1", "M", 0.25},
		})

		results, err := TestGroups(df, "depth", []string{"locus"}, "sex", sexes)

		assert.NoError(t, err)

		result := results["s1"]
		assert.False(t, result.Tested)
		assert.Equal(t, MethodUntested, result.Method)
		assert.True(t, math.IsNaN(result.PValue))
	})

	t.Run("should skip keys with a sex missing entirely", func(t *testing.T) {
		df := depthFrame([][3]interface{}{
			{"s1", "F", 0.9}, {"s1", "F", 0.89},
		})

		results, err := TestGroups(df, "depth", []string{"locus"}, "sex", sexes)

		assert.NoError(t, err)
		assert.NotContains(t, results, "s1")
	})

	t.Run("should test every comparable key independently", func(t *testing.T) {
		df := depthFrame([][3]interface{}{
			{"s1", "F", 0.9}, {"s1", "F", 0.89}, {"s1", "M", 0.25}, {"s1", "M", 0.26},
			{"s2", "F", 0.5}, {"s2", "F", 0.51}, {"s2", "M", 0.49}, {"s2", "M", 0.52},
		})

		results, err := TestGroups(df, "depth", []string{"locus"}, "sex", sexes)

		assert.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Contains(t, results, "s1")
		assert.Contains(t, results, "s2")
	})

	t.Run("should reject anything but two sexes", func(t *testing.T) {
		df := depthFrame([][3]interface{}{{"s1", "F", 0.9}})

		_, err := TestGroups(df, "depth", []string{"locus"}, "sex", []string{"F", "M", "U"})

		assert.ErrorContains(t, err, "exactly 2 sex values")
	})
}

func TestWelchTest(t *testing.T) {
	t.Run("should match a hand-checked Welch computation", func(t *testing.T) {
		// equal-size, equal-variance case : t = -9/√0.5, welch df = 2 ;
		// the df=2 Student's-t CDF has a closed form, giving a two-sided
		// p of (1 - t/√(2+t²)) ≈ 0.006117
		first := []float64{1, 2}
		second := []float64{10, 11}

		result := welchTest("k", first, second)

		assert.True(t, result.Tested)
		assert.InDelta(t, 0.006117, result.PValue, 1e-4)
	})

	t.Run("should report certainty for constant samples with equal means", func(t *testing.T) {
		result := welchTest("k", []float64{5, 5, 5}, []float64{5, 5})
		assert.True(t, result.Tested)
		assert.Equal(t, 1.0, result.PValue)
	})

	t.Run("should report certainty for constant samples with differing means", func(t *testing.T) {
		result := welchTest("k", []float64{5, 5, 5}, []float64{7, 7})
		assert.True(t, result.Tested)
		assert.Equal(t, 0.0, result.PValue)
	})
}
