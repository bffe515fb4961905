package difftestService

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"sexscaff/models"
	summaryService "sexscaff/services/summary"
)

const (
	// MethodWelchT labels results of the two-sample Welch test (unequal
	// variances assumed; this design never assumes homoscedasticity).
	MethodWelchT = "welch-t"

	// MethodUntested labels group keys where either sex contributed a
	// single observation: sample variance is undefined there, so the key
	// is excluded from testing with a recorded reason instead of crashing
	// or emitting a silent NaN.
	MethodUntested = "untested:single-observation"
)

// TestGroups runs a two-sample test of equal means on valueCol for every
// group key with observations from both sexes, partitioned by sexCol.
// Per-key tests are independent, so they fan out across workers with no
// shared mutable state beyond the guarded results map.
func TestGroups(df dataframe.DataFrame, valueCol string, groupCols []string, sexCol string, sexValues []string) (map[string]models.TestResult, error) {
	if len(sexValues) != 2 {
		return nil, fmt.Errorf("two-sample test requires exactly 2 sex values, got %v", sexValues)
	}

	partition, partitionErr := summaryService.PartitionBySex(df, valueCol, groupCols, sexCol)
	if partitionErr != nil {
		return nil, partitionErr
	}

	results := map[string]models.TestResult{}
	resultsMux := sync.RWMutex{}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for key, bySex := range partition {
		key, bySex := key, bySex

		first := bySex[sexValues[0]]
		second := bySex[sexValues[1]]
		if len(first) == 0 || len(second) == 0 {
			// not comparable; the summary engine drops these keys too
			continue
		}

		g.Go(func() error {
			result := welchTest(key, first, second)

			resultsMux.Lock()
			results[key] = result
			resultsMux.Unlock()
			return nil
		})
	}

	if waitErr := g.Wait(); waitErr != nil {
		return nil, waitErr
	}

	return results, nil
}

// welchTest computes Welch's two-sample t statistic and its two-sided
// p-value from the Student's-t distribution with Welch–Satterthwaite
// degrees of freedom.
func welchTest(key string, first []float64, second []float64) models.TestResult {
	n1, n2 := float64(len(first)), float64(len(second))
	if n1 < 2 || n2 < 2 {
		return models.TestResult{
			Key:    key,
			PValue: math.NaN(),
			Method: MethodUntested,
			Tested: false,
		}
	}

	m1, v1 := stat.MeanVariance(first, nil)
	m2, v2 := stat.MeanVariance(second, nil)

	se2 := v1/n1 + v2/n2
	if se2 == 0 {
		// both samples are constant: means are either identical or
		// separated with certainty
		p := 0.0
		if m1 == m2 {
			p = 1.0
		}
		return models.TestResult{Key: key, PValue: p, Method: MethodWelchT, Tested: true}
	}

	t := (m1 - m2) / math.Sqrt(se2)
	nu := se2 * se2 / ((v1/n1)*(v1/n1)/(n1-1) + (v2/n2)*(v2/n2)/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu}
	p := 2 * dist.CDF(-math.Abs(t))

	return models.TestResult{Key: key, PValue: p, Method: MethodWelchT, Tested: true}
}
