package metadataService

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"sexscaff/utils"
)

// SexMap is the Individual -> Sex lookup every measurement join runs
// through.
type SexMap map[string]string

// LoadSexMetadata reads the tab-delimited {Individual, Sex} table.
// The header row is mandatory. Returns the lookup map plus the distinct
// sex values in first-seen order; this design handles exactly two sexes,
// anything else is a load error.
func LoadSexMetadata(path string) (SexMap, []string, error) {
	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, nil, fmt.Errorf("sex metadata %s : %w", path, openErr)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'

	records, readErr := reader.ReadAll()
	if readErr != nil {
		// encoding/csv already identifies the offending line on
		// wrong-column-count rows
		return nil, nil, fmt.Errorf("sex metadata %s : %w", path, readErr)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("sex metadata %s : expected a header row and at least one individual", path)
	}

	header := records[0]
	individualCol, sexCol := -1, -1
	for i, h := range header {
		switch utils.NormalizeHeader(h) {
		case "individual", "indv", "sample":
			individualCol = i
		case "sex":
			sexCol = i
		}
	}
	if individualCol == -1 || sexCol == -1 {
		return nil, nil, fmt.Errorf("sex metadata %s : header must name an Individual and a Sex column, got %v", path, header)
	}

	sexMap := SexMap{}
	var sexes []string
	for rowNum, record := range records[1:] {
		individual := record[individualCol]
		sex := record[sexCol]
		if individual == "" || sex == "" {
			return nil, nil, fmt.Errorf("sex metadata %s : row %d : empty individual or sex", path, rowNum+2)
		}
		if _, seen := sexMap[individual]; seen {
			return nil, nil, fmt.Errorf("sex metadata %s : row %d : duplicate individual %q", path, rowNum+2, individual)
		}

		sexMap[individual] = sex
		if !utils.StringInSlice(sex, sexes) {
			sexes = append(sexes, sex)
		}
	}

	if len(sexes) != 2 {
		return nil, nil, fmt.Errorf("sex metadata %s : expected exactly 2 sex values, got %v", path, sexes)
	}

	return sexMap, sexes, nil
}

// UnmappedIndividuals returns the sorted set of measured individuals
// missing from the sex metadata. A non-empty result must abort the load:
// silently dropping them would bias the per-sex statistics.
func (sm SexMap) UnmappedIndividuals(measured []string) []string {
	seen := map[string]bool{}
	var unmapped []string
	for _, individual := range measured {
		if _, ok := sm[individual]; !ok && !seen[individual] {
			seen[individual] = true
			unmapped = append(unmapped, individual)
		}
	}
	sort.Strings(unmapped)
	return unmapped
}
