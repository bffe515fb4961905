package pipelineService

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/sync/errgroup"

	"sexscaff/models"
	classifyService "sexscaff/services/classify"
	difftestService "sexscaff/services/difftest"
	measurementsService "sexscaff/services/measurements"
	metadataService "sexscaff/services/metadata"
	summaryService "sexscaff/services/summary"
	"sexscaff/utils"
)

type (
	// RunResult is everything one pipeline run produced: the two joined
	// summary+test tables and the two candidate tables derived from them.
	RunResult struct {
		RunId      string
		StartedAt  time.Time
		FinishedAt time.Time
		Sexes      []string
		Roles      models.SexRoles
		Thresholds models.Thresholds

		HetRows   []models.ClassificationRow // per-scaffold heterozygosity
		DepthRows []models.ClassificationRow // per-locus depth

		CandidatesXZ []models.ClassificationRow
		CandidatesWY []models.ClassificationRow
	}

	// ResultStore holds the latest run for the serving layer; the rescan
	// job swaps in fresh results while request handlers read.
	ResultStore struct {
		mu     sync.RWMutex
		latest *RunResult
	}
)

func (rs *ResultStore) Set(rr *RunResult) {
	rs.mu.Lock()
	rs.latest = rr
	rs.mu.Unlock()
}

func (rs *ResultStore) Latest() *RunResult {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.latest
}

// WaitForInputs blocks until all three input tables exist, retrying with
// exponential backoff (the upstream genotype-statistics tool may still
// be writing them). Gives up after the backoff's max elapsed time.
func WaitForInputs(cfg *models.Config) error {
	check := func() error {
		for _, path := range []string{
			cfg.Input.SexMetadataPath,
			cfg.Input.HeterozygosityPath,
			cfg.Input.DepthPath,
		} {
			if _, statErr := os.Stat(path); statErr != nil {
				return fmt.Errorf("waiting for input table %s : %w", path, statErr)
			}
		}
		return nil
	}

	return backoff.Retry(check, backoff.NewExponentialBackOff())
}

// Run executes the full pipeline: load metadata, run the
// heterozygosity-by-scaffold and depth-by-locus passes through the shared
// summary and test engines, classify, and emit the four output tables.
// Load-time errors abort the run outright; per-key test outcomes are
// labeled rows, never errors.
func Run(cfg *models.Config) (*RunResult, error) {
	rr := &RunResult{
		RunId:      uuid.New().String(),
		StartedAt:  time.Now(),
		Roles:      cfg.Sexes,
		Thresholds: cfg.Thresholds,
	}
	fmt.Printf("[%s] - Starting pipeline run %s..\n", time.Now(), rr.RunId)

	sexMap, sexes, metaErr := metadataService.LoadSexMetadata(cfg.Input.SexMetadataPath)
	if metaErr != nil {
		return nil, metaErr
	}
	rr.Sexes = sexes

	if rolesErr := validateRoles(cfg.Sexes, sexes); rolesErr != nil {
		return nil, rolesErr
	}

	// the two passes are independent end to end
	var g errgroup.Group

	g.Go(func() error {
		fmt.Printf("[%s] - Heterozygosity pass : loading %s..\n", time.Now(), cfg.Input.HeterozygosityPath)
		df, loadErr := measurementsService.LoadHeterozygosity(cfg.Input.HeterozygosityPath, sexMap, cfg.Thresholds.MinLocusCount)
		if loadErr != nil {
			return loadErr
		}

		rows, passErr := runPass(df, "p_obs_het", []string{"scaffold"}, sexes, cfg)
		if passErr != nil {
			return passErr
		}
		rr.HetRows = rows
		return nil
	})

	g.Go(func() error {
		fmt.Printf("[%s] - Depth pass : loading %s..\n", time.Now(), cfg.Input.DepthPath)
		df, loadErr := measurementsService.LoadDepth(cfg.Input.DepthPath, sexMap)
		if loadErr != nil {
			return loadErr
		}

		rows, passErr := runPass(df, "depth", []string{"locus"}, sexes, cfg)
		if passErr != nil {
			return passErr
		}
		rr.DepthRows = rows
		return nil
	})

	if waitErr := g.Wait(); waitErr != nil {
		return nil, waitErr
	}

	rr.CandidatesXZ = classifyService.CandidateXZ(rr.HetRows, cfg.Thresholds, cfg.Sexes)
	rr.CandidatesWY = classifyService.CandidateWY(rr.DepthRows, cfg.Thresholds, cfg.Sexes)
	rr.FinishedAt = time.Now()

	fmt.Printf("[%s] - Run %s : %d scaffolds, %d loci, %d X/Z candidates, %d W/Y candidates\n",
		time.Now(), rr.RunId, len(rr.HetRows), len(rr.DepthRows), len(rr.CandidatesXZ), len(rr.CandidatesWY))

	if writeErr := writeOutputs(cfg.Output.Dir, rr); writeErr != nil {
		return nil, writeErr
	}

	return rr, nil
}

// runPass is the shared summarize → test → join sequence, parameterized
// by value column and group key exactly like the engines beneath it.
func runPass(df dataframe.DataFrame, valueCol string, groupCols []string, sexes []string, cfg *models.Config) ([]models.ClassificationRow, error) {
	summaries, summarizeErr := summaryService.Summarize(df, valueCol, groupCols, "sex", sexes)
	if summarizeErr != nil {
		return nil, summarizeErr
	}

	tests, testErr := difftestService.TestGroups(df, valueCol, groupCols, "sex", sexes)
	if testErr != nil {
		return nil, testErr
	}

	return classifyService.JoinResults(summaries, tests, cfg.Thresholds.PValueCeiling, cfg.Sexes), nil
}

// Reclassify re-derives labels and candidate tables from an existing
// run's joined tables under overridden thresholds, without reloading
// measurements. min_locus_count is a load-time filter and therefore only
// takes effect on the next full run.
func Reclassify(rr *RunResult, overrides map[string]interface{}) (*RunResult, error) {
	thresholds := rr.Thresholds
	decoder, decoderErr := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &thresholds,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if decoderErr != nil {
		return nil, decoderErr
	}
	if decodeErr := decoder.Decode(overrides); decodeErr != nil {
		return nil, fmt.Errorf("invalid threshold overrides : %w", decodeErr)
	}

	hetRows := classifyService.Relabel(rr.HetRows, thresholds.PValueCeiling)
	depthRows := classifyService.Relabel(rr.DepthRows, thresholds.PValueCeiling)

	return &RunResult{
		RunId:        uuid.New().String(),
		StartedAt:    rr.StartedAt,
		FinishedAt:   time.Now(),
		Sexes:        rr.Sexes,
		Roles:        rr.Roles,
		Thresholds:   thresholds,
		HetRows:      hetRows,
		DepthRows:    depthRows,
		CandidatesXZ: classifyService.CandidateXZ(hetRows, thresholds, rr.Roles),
		CandidatesWY: classifyService.CandidateWY(depthRows, thresholds, rr.Roles),
	}, nil
}

func validateRoles(roles models.SexRoles, sexes []string) error {
	if roles.Heterogametic == roles.Homogametic {
		return fmt.Errorf("sex roles : heterogametic and homogametic sex are both %q", roles.Heterogametic)
	}
	for _, role := range []string{roles.Heterogametic, roles.Homogametic} {
		if !utils.StringInSlice(role, sexes) {
			return fmt.Errorf("sex roles : configured sex %q not present in metadata sexes %v", role, sexes)
		}
	}
	return nil
}

func writeOutputs(dir string, rr *RunResult) error {
	outputs := []struct {
		filename  string
		keyName   string
		rows      []models.ClassificationRow
		withRatio bool
	}{
		{"het_scaffold_summary.tsv", "scaffold", rr.HetRows, false},
		{"depth_locus_summary.tsv", "locus", rr.DepthRows, true},
		{"candidates_xz.tsv", "scaffold", rr.CandidatesXZ, false},
		{"candidates_wy.tsv", "locus", rr.CandidatesWY, true},
	}

	for _, out := range outputs {
		header, tsvRows := TabulateRows(out.keyName, rr.Sexes, out.rows, out.withRatio)
		outPath, writeErr := utils.WriteTsv(dir, out.filename, header, tsvRows)
		if writeErr != nil {
			return writeErr
		}
		fmt.Printf("[%s] - Wrote %s (%d rows)\n", time.Now(), outPath, len(tsvRows))
	}

	return nil
}

// TabulateRows flattens classification rows into a header plus string
// rows, one mean/SEM/count column triple per sex. The depth tables carry
// the heterogametic/homogametic ratio column; the heterozygosity tables
// do not.
func TabulateRows(keyName string, sexes []string, rows []models.ClassificationRow, withRatio bool) ([]string, [][]string) {
	header := []string{keyName}
	for _, sex := range sexes {
		header = append(header, "mean_"+sex, "sem_"+sex, "n_"+sex)
	}
	header = append(header, "p_value", "method", "significance")
	if withRatio {
		header = append(header, "ratio")
	}

	tsvRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		tsvRow := []string{row.Key}
		for _, sex := range sexes {
			tsvRow = append(tsvRow,
				utils.FormatStat(row.Mean[sex]),
				utils.FormatStat(row.Sem[sex]),
				fmt.Sprintf("%d", row.Count[sex]))
		}
		tsvRow = append(tsvRow, utils.FormatStat(row.PValue), row.Method, string(row.Significance))
		if withRatio {
			tsvRow = append(tsvRow, utils.FormatStat(row.Ratio))
		}
		tsvRows = append(tsvRows, tsvRow)
	}

	return header, tsvRows
}
