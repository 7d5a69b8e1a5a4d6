package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sheet name suffixes looked up in a dataset directory.
const (
	AnswerSheetSuffix = "answer_sheet.csv"
	SampleSheetSuffix = "sample_sheet.csv"
)

var (
	// ErrSheetNotFound is returned when a dataset directory has no sheet with the wanted suffix.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrMissingColumn is returned when the answer sheet lacks a required column.
	ErrMissingColumn = errors.New("missing column")
)

// Answer sheet columns every row must carry.
const (
	ColumnPublicName = "public_name"
	ColumnR1         = "r1"
	ColumnR2         = "r2"
	ColumnSpecies    = "SPECIES"
)

var requiredColumns = []string{ColumnPublicName, ColumnR1, ColumnR2, ColumnSpecies}

// Sample is one answer sheet row with its derived read locations.
type Sample struct {
	PublicName string
	Species    string
	R1         string
	R2         string
	R1URL      string
	R2URL      string
	R1Path     string
	R2Path     string
}

// FindSheet returns the first file in dir, in lexical order, whose name ends with suffix.
func FindSheet(dir, suffix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: no *%s in %s", ErrSheetNotFound, suffix, dir)
}

// ReadAnswerSheet parses the answer sheet at path. Read URLs are built from
// publicURL and local read paths from dir.
func ReadAnswerSheet(path, dir, publicURL string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open answer sheet: %w", err)
	}
	defer f.Close()

	samples, err := parseAnswerSheet(f, dir, publicURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return samples, nil
}

func parseAnswerSheet(r io.Reader, dir, publicURL string) ([]Sample, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty sheet", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var samples []Sample
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		s := Sample{
			PublicName: record[index[ColumnPublicName]],
			Species:    record[index[ColumnSpecies]],
			R1:         record[index[ColumnR1]],
			R2:         record[index[ColumnR2]],
		}
		s.R1URL = publicURL + "/" + s.R1
		s.R2URL = publicURL + "/" + s.R2
		s.R1Path = filepath.Join(dir, s.R1)
		s.R2Path = filepath.Join(dir, s.R2)
		samples = append(samples, s)
	}

	return samples, nil
}
