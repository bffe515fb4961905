package measurementsService

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"sexscaff/models"
	metadataService "sexscaff/services/metadata"
	"sexscaff/utils"
)

// depthMissingSentinel is what the upstream genotype tool writes for a
// missing/no-call genotype depth.
const depthMissingSentinel = -1

// NormalizeDepthSentinel maps the missing-genotype sentinel to zero
// coverage. Missing ≡ zero coverage is a deliberate policy (a no-call is
// evidence of absence for depth purposes), not a data repair; the mapping
// is idempotent since 0 is never remapped.
func NormalizeDepthSentinel(depth float64) float64 {
	if depth == depthMissingSentinel {
		return 0
	}
	return depth
}

// LoadHeterozygosity reads the per-scaffold, per-individual homozygosity
// table, derives heterozygote counts and the observed heterozygosity
// proportion, joins each row with its sex, and filters out records with
// at most minLocusCount genotyped loci (insufficient data by policy, not
// an error). The result is a dataframe keyed by (scaffold, individual).
func LoadHeterozygosity(path string, sexMap metadataService.SexMap, minLocusCount int) (dataframe.DataFrame, error) {
	var empty dataframe.DataFrame

	file, openErr := os.Open(path)
	if openErr != nil {
		return empty, fmt.Errorf("heterozygosity table %s : %w", path, openErr)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'

	rows, readErr := reader.ReadAll()
	if readErr != nil {
		return empty, fmt.Errorf("heterozygosity table %s : %w", path, readErr)
	}
	if len(rows) < 1 {
		return empty, fmt.Errorf("heterozygosity table %s : missing header row", path)
	}

	cols, headerErr := locateHetColumns(rows[0])
	if headerErr != nil {
		return empty, fmt.Errorf("heterozygosity table %s : %w", path, headerErr)
	}

	records := make([]models.HeterozygosityRecord, 0, len(rows)-1)
	var measured []string
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		oHom, oHomErr := parseFloatColumn(row, cols.oHom, "ObservedHomozygoteCount")
		eHom, eHomErr := parseFloatColumn(row, cols.eHom, "ExpectedHomozygoteCount")
		n, nErr := parseIntColumn(row, cols.n, "N")
		fCoeff, fErr := parseFloatColumn(row, cols.f, "InbreedingCoefficient")
		for _, parseErr := range []error{oHomErr, eHomErr, nErr, fErr} {
			if parseErr != nil {
				return empty, fmt.Errorf("heterozygosity table %s : row %d : %w", path, rowNum, parseErr)
			}
		}

		if n < 0 {
			return empty, fmt.Errorf("heterozygosity table %s : row %d : negative locus count %d", path, rowNum, n)
		}
		if oHom < 0 || oHom > float64(n) {
			return empty, fmt.Errorf("heterozygosity table %s : row %d : observed homozygote count %v outside [0, %d]", path, rowNum, oHom, n)
		}

		rec := models.HeterozygosityRecord{
			Scaffold:                row[cols.scaffold],
			Individual:              row[cols.individual],
			ObservedHomozygoteCount: oHom,
			ExpectedHomozygoteCount: eHom,
			LocusCount:              n,
			InbreedingCoefficient:   fCoeff,
		}
		rec.ObservedHeterozygoteCount = float64(n) - oHom
		rec.ExpectedHeterozygoteCount = float64(n) - eHom
		if n > 0 {
			rec.ObservedHetProportion = rec.ObservedHeterozygoteCount / float64(n)
		}

		measured = append(measured, rec.Individual)
		records = append(records, rec)
	}

	if attachErr := attachSexes(records, sexMap, measured, path); attachErr != nil {
		return empty, attachErr
	}

	df := dataframe.LoadStructs(records)
	if df.Err != nil {
		return empty, fmt.Errorf("heterozygosity table %s : %w", path, df.Err)
	}

	// insufficient-data policy filter, distinct from any error path
	df = df.Filter(dataframe.F{Colname: "n", Comparator: series.Greater, Comparando: minLocusCount})
	if df.Err != nil {
		return empty, fmt.Errorf("heterozygosity table %s : %w", path, df.Err)
	}

	return df, nil
}

// LoadDepth reads the wide per-locus depth table (one depth column per
// individual), reshapes it to long form, normalizes the missing-depth
// sentinel and joins each observation with its sex. The group key for
// the depth analysis is the locus (scaffold:position), a finer grain
// than the scaffold key used for heterozygosity.
func LoadDepth(path string, sexMap metadataService.SexMap) (dataframe.DataFrame, error) {
	var empty dataframe.DataFrame

	file, openErr := os.Open(path)
	if openErr != nil {
		return empty, fmt.Errorf("depth table %s : %w", path, openErr)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'

	rows, readErr := reader.ReadAll()
	if readErr != nil {
		return empty, fmt.Errorf("depth table %s : %w", path, readErr)
	}
	if len(rows) < 1 {
		return empty, fmt.Errorf("depth table %s : missing header row", path)
	}

	header := rows[0]
	if len(header) < 3 {
		return empty, fmt.Errorf("depth table %s : header must name scaffold, position and at least one individual, got %v", path, header)
	}

	scaffoldCol, positionCol := -1, -1
	var individuals []string
	var individualCols []int
	for i, h := range header {
		switch utils.NormalizeHeader(h) {
		case "scaffold", "chrom", "chr", "contig":
			scaffoldCol = i
		case "position", "pos":
			positionCol = i
		default:
			individuals = append(individuals, h)
			individualCols = append(individualCols, i)
		}
	}
	if scaffoldCol == -1 || positionCol == -1 {
		return empty, fmt.Errorf("depth table %s : header must name a Scaffold and a Position column, got %v", path, header)
	}

	// every depth column must belong to a known-sex individual before any
	// observation is materialized
	if unmapped := sexMap.UnmappedIndividuals(individuals); len(unmapped) > 0 {
		return empty, fmt.Errorf("depth table %s : unmapped individual(s) %s : every measured individual needs a sex-metadata entry", path, strings.Join(unmapped, ", "))
	}

	observations := make([]models.DepthObservation, 0, (len(rows)-1)*len(individuals))
	for i, row := range rows[1:] {
		rowNum := i + 2

		position, posErr := strconv.Atoi(row[positionCol])
		if posErr != nil {
			return empty, fmt.Errorf("depth table %s : row %d : non-numeric Position %q", path, rowNum, row[positionCol])
		}
		scaffold := row[scaffoldCol]
		locus := scaffold + ":" + row[positionCol]

		for j, col := range individualCols {
			depth, depthErr := strconv.ParseFloat(row[col], 64)
			if depthErr != nil {
				return empty, fmt.Errorf("depth table %s : row %d : non-numeric depth %q for individual %q", path, rowNum, row[col], individuals[j])
			}

			observations = append(observations, models.DepthObservation{
				Scaffold:   scaffold,
				Position:   position,
				Locus:      locus,
				Individual: individuals[j],
				Sex:        sexMap[individuals[j]],
				Depth:      NormalizeDepthSentinel(depth),
			})
		}
	}

	df := dataframe.LoadStructs(observations)
	if df.Err != nil {
		return empty, fmt.Errorf("depth table %s : %w", path, df.Err)
	}

	return df, nil
}

type hetColumns struct {
	scaffold, individual, oHom, eHom, n, f int
}

func locateHetColumns(header []string) (hetColumns, error) {
	cols := hetColumns{-1, -1, -1, -1, -1, -1}
	for i, h := range header {
		switch utils.NormalizeHeader(h) {
		case "scaffold", "chrom", "chr", "contig":
			cols.scaffold = i
		case "individual", "indv", "sample":
			cols.individual = i
		case "o_hom", "observed_homozygotes":
			cols.oHom = i
		case "e_hom", "expected_homozygotes":
			cols.eHom = i
		case "n", "n_sites":
			cols.n = i
		case "f", "f_is", "inbreeding_coefficient":
			cols.f = i
		}
	}
	if cols.scaffold == -1 || cols.individual == -1 || cols.oHom == -1 ||
		cols.eHom == -1 || cols.n == -1 || cols.f == -1 {
		return cols, fmt.Errorf("header must name Scaffold, Individual, O(HOM), E(HOM), N and F columns, got %v", header)
	}
	return cols, nil
}

func parseFloatColumn(row []string, col int, name string) (float64, error) {
	value, err := strconv.ParseFloat(row[col], 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric %s %q", name, row[col])
	}
	return value, nil
}

func parseIntColumn(row []string, col int, name string) (int, error) {
	value, err := strconv.Atoi(row[col])
	if err != nil {
		return 0, fmt.Errorf("non-numeric %s %q", name, row[col])
	}
	return value, nil
}

func attachSexes(records []models.HeterozygosityRecord, sexMap metadataService.SexMap, measured []string, path string) error {
	if unmapped := sexMap.UnmappedIndividuals(measured); len(unmapped) > 0 {
		return fmt.Errorf("heterozygosity table %s : unmapped individual(s) %s : every measured individual needs a sex-metadata entry", path, strings.Join(unmapped, ", "))
	}
	for i := range records {
		records[i].Sex = sexMap[records[i].Individual]
	}
	return nil
}
