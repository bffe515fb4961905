package mvc

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/Jeffail/gabs"
	. "github.com/ahmetb/go-linq"
	"github.com/labstack/echo"

	"sexscaff/contexts"
	"sexscaff/models"
	"sexscaff/models/constants/significance"
	pipelineService "sexscaff/services/pipeline"
)

// GetResultsOverview reports run metadata and per-label counts for the
// latest pipeline run.
func GetResultsOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetResultsOverview hit!\n", time.Now())

	rr, errResponse := latestRun(c)
	if errResponse != nil {
		return errResponse
	}

	countByLabel := func(rows []models.ClassificationRow) map[string]int {
		counts := map[string]int{}
		for _, label := range []string{
			string(significance.Significant),
			string(significance.NotSignificant),
			string(significance.Untested),
		} {
			label := label
			counts[label] = From(rows).CountWithT(func(r models.ClassificationRow) bool {
				return string(r.Significance) == label
			})
		}
		return counts
	}

	// top W/Y candidates by depth ratio, a quick signal for the
	// downstream plotting step
	var topWyKeys []string
	From(rr.CandidatesWY).
		OrderByDescendingT(func(r models.ClassificationRow) float64 { return r.Ratio }).
		Take(5).
		SelectT(func(r models.ClassificationRow) string { return r.Key }).
		ToSlice(&topWyKeys)

	overview := gabs.New()
	overview.Set(rr.RunId, "runId")
	overview.Set(rr.StartedAt.Format(time.RFC3339), "startedAt")
	overview.Set(rr.FinishedAt.Format(time.RFC3339), "finishedAt")
	overview.Set(rr.Sexes, "sexes")
	overview.Set(rr.Roles.Heterogametic, "roles", "heterogametic")
	overview.Set(rr.Roles.Homogametic, "roles", "homogametic")
	overview.Set(len(rr.HetRows), "heterozygosity", "scaffolds")
	overview.Set(countByLabel(rr.HetRows), "heterozygosity", "significance")
	overview.Set(len(rr.CandidatesXZ), "heterozygosity", "candidatesXZ")
	overview.Set(len(rr.DepthRows), "depth", "loci")
	overview.Set(countByLabel(rr.DepthRows), "depth", "significance")
	overview.Set(len(rr.CandidatesWY), "depth", "candidatesWY")
	overview.Set(topWyKeys, "depth", "topCandidatesByRatio")

	return c.JSONBlob(http.StatusOK, overview.Bytes())
}

func GetHetSummary(c echo.Context) error {
	rr, errResponse := latestRun(c)
	if errResponse != nil {
		return errResponse
	}
	return c.JSON(http.StatusOK, rowsToJson(filterBySignificance(rr.HetRows, c.QueryParam("significance")), false))
}

func GetDepthSummary(c echo.Context) error {
	rr, errResponse := latestRun(c)
	if errResponse != nil {
		return errResponse
	}
	return c.JSON(http.StatusOK, rowsToJson(filterBySignificance(rr.DepthRows, c.QueryParam("significance")), true))
}

func GetCandidatesXZ(c echo.Context) error {
	rr, errResponse := latestRun(c)
	if errResponse != nil {
		return errResponse
	}
	return c.JSON(http.StatusOK, rowsToJson(rr.CandidatesXZ, false))
}

func GetCandidatesWY(c echo.Context) error {
	rr, errResponse := latestRun(c)
	if errResponse != nil {
		return errResponse
	}
	return c.JSON(http.StatusOK, rowsToJson(rr.CandidatesWY, true))
}

// Reclassify previews the candidate tables under overridden thresholds
// without reloading measurements or mutating the stored run.
func Reclassify(c echo.Context) error {
	fmt.Printf("[%s] - Reclassify hit!\n", time.Now())

	rr, errResponse := latestRun(c)
	if errResponse != nil {
		return errResponse
	}

	overrides := map[string]interface{}{}
	if decodeErr := json.NewDecoder(c.Request().Body).Decode(&overrides); decodeErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body! Provide a flat object of threshold overrides")
	}

	fresh, reclassifyErr := pipelineService.Reclassify(rr, overrides)
	if reclassifyErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, reclassifyErr.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"runId":        fresh.RunId,
		"thresholds":   fresh.Thresholds,
		"candidatesXZ": rowsToJson(fresh.CandidatesXZ, false),
		"candidatesWY": rowsToJson(fresh.CandidatesWY, true),
	})
}

func latestRun(c echo.Context) (*pipelineService.RunResult, error) {
	gc := c.(*contexts.SexscaffContext)
	rr := gc.ResultStore.Latest()
	if rr == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "No pipeline run has completed yet!")
	}
	return rr, nil
}

func filterBySignificance(rows []models.ClassificationRow, sigQP string) []models.ClassificationRow {
	if sigQP == "" {
		return rows
	}
	filtered := []models.ClassificationRow{}
	From(rows).WhereT(func(r models.ClassificationRow) bool {
		return string(r.Significance) == sigQP
	}).ToSlice(&filtered)
	return filtered
}

func rowsToJson(rows []models.ClassificationRow, withRatio bool) []map[string]interface{} {
	jsonRows := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		jsonRow := map[string]interface{}{
			"key":          row.Key,
			"mean":         statMapToJson(row.Mean),
			"sem":          statMapToJson(row.Sem),
			"n":            row.Count,
			"pValue":       statToJson(row.PValue),
			"method":       row.Method,
			"significance": row.Significance,
		}
		if withRatio {
			jsonRow["ratio"] = statToJson(row.Ratio)
		}
		jsonRows = append(jsonRows, jsonRow)
	}
	return jsonRows
}

// statToJson keeps encoding/json happy: NaN (undefined statistic) becomes
// null, infinities (e.g. a ratio over zero depth) become strings.
func statToJson(value float64) interface{} {
	if math.IsNaN(value) {
		return nil
	}
	if math.IsInf(value, 0) {
		if value > 0 {
			return "Inf"
		}
		return "-Inf"
	}
	return value
}

func statMapToJson(stats map[string]float64) map[string]interface{} {
	jsonStats := map[string]interface{}{}
	for sex, value := range stats {
		jsonStats[sex] = statToJson(value)
	}
	return jsonStats
}
