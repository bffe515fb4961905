package summaryService

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"sexscaff/models"
	"sexscaff/utils"
)

// KeySeparator joins multi-column group keys. It matches the separator
// used when deriving the locus key (scaffold:position) so both grain
// levels produce keys of the same shape.
const KeySeparator = ":"

// PartitionBySex buckets a value column's observations by
// (group key, sex). This is the single grouping pass behind both the
// summary and the differential-test engines; NaN observations are
// dropped here (missing values never contribute to a mean or a test).
func PartitionBySex(df dataframe.DataFrame, valueCol string, groupCols []string, sexCol string) (map[string]map[string][]float64, error) {
	names := df.Names()
	for _, col := range append([]string{valueCol, sexCol}, groupCols...) {
		if !utils.StringInSlice(col, names) {
			return nil, fmt.Errorf("column %q not present in table (have %v)", col, names)
		}
	}

	values := df.Col(valueCol).Float()
	sexes := df.Col(sexCol).Records()
	groupRecords := make([][]string, len(groupCols))
	for i, col := range groupCols {
		groupRecords[i] = df.Col(col).Records()
	}

	partition := map[string]map[string][]float64{}
	keyParts := make([]string, len(groupCols))
	for row := 0; row < df.Nrow(); row++ {
		if math.IsNaN(values[row]) {
			continue
		}

		for i := range groupCols {
			keyParts[i] = groupRecords[i][row]
		}
		key := strings.Join(keyParts, KeySeparator)

		if partition[key] == nil {
			partition[key] = map[string][]float64{}
		}
		partition[key][sexes[row]] = append(partition[key][sexes[row]], values[row])
	}

	return partition, nil
}

// Summarize computes the per-sex mean and standard error of the mean of
// valueCol for every distinct groupCols tuple, pivoted wide (one row per
// group key). Group keys missing observations for either sex are dropped:
// a key without both sexes is not comparable. The same engine serves
// heterozygosity-by-scaffold and depth-by-locus; only the column
// parameters differ.
func Summarize(df dataframe.DataFrame, valueCol string, groupCols []string, sexCol string, sexValues []string) ([]models.WideSummary, error) {
	partition, partitionErr := PartitionBySex(df, valueCol, groupCols, sexCol)
	if partitionErr != nil {
		return nil, partitionErr
	}

	summaries := make([]models.WideSummary, 0, len(partition))
	for key, bySex := range partition {
		complete := true
		for _, sex := range sexValues {
			if len(bySex[sex]) == 0 {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		ws := models.WideSummary{
			Key:   key,
			Mean:  map[string]float64{},
			Sem:   map[string]float64{},
			Count: map[string]int{},
		}
		for _, sex := range sexValues {
			samples := bySex[sex]
			ws.Mean[sex] = stat.Mean(samples, nil)
			ws.Sem[sex] = standardError(samples)
			ws.Count[sex] = len(samples)
		}
		summaries = append(summaries, ws)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Key < summaries[j].Key })

	return summaries, nil
}

// standardError is sample stddev / sqrt(n). A single observation has no
// sample variance; its SEM is NaN and is rendered as missing downstream.
func standardError(samples []float64) float64 {
	n := len(samples)
	if n < 2 {
		return math.NaN()
	}
	return stat.StdDev(samples, nil) / math.Sqrt(float64(n))
}
