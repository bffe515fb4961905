package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
)

// WriteTsv writes a header row plus data rows as a tab-delimited table,
// the same dialect the input tables use.
func WriteTsv(dir string, filename string, header []string, rows [][]string) (string, error) {
	outPath := path.Join(dir, filename)

	file, createErr := os.Create(outPath)
	if createErr != nil {
		return "", fmt.Errorf("creating %s : %w", outPath, createErr)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = '\t'

	if writeErr := w.Write(header); writeErr != nil {
		return "", fmt.Errorf("writing %s : %w", outPath, writeErr)
	}
	for _, row := range rows {
		if writeErr := w.Write(row); writeErr != nil {
			return "", fmt.Errorf("writing %s : %w", outPath, writeErr)
		}
	}

	w.Flush()
	if flushErr := w.Error(); flushErr != nil {
		return "", fmt.Errorf("flushing %s : %w", outPath, flushErr)
	}

	return outPath, nil
}
