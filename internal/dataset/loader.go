package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/csvup/pkg/csvup"
)

// Load reads the delimited file at path into a Dataset. The first record is
// the header and names the columns; every following record is a data row.
// All records must have the same field count as the header.
//
// Failures wrap csvup.ErrFileNotFound when the path does not exist and
// csvup.ErrParse for any malformed content.
func Load(path string, delimiter rune) (*Dataset, error) {
	if delimiter == 0 {
		delimiter = csvup.DefaultDelimiter
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("open %s: %w", path, csvup.ErrFileNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return read(f, delimiter)
}

func read(r io.Reader, delimiter rune) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	// FieldsPerRecord defaults to the header width, so ragged rows
	// surface as csv.ErrFieldCount.

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row: %w", csvup.ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, csvup.ErrParse)
	}

	if err := validateHeader(header); err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, csvup.ErrParse)
	}

	columns := inferColumns(header, records)

	rows := make([][]any, len(records))
	for i, record := range records {
		row := make([]any, len(columns))
		for j, raw := range record {
			value, err := convertValue(raw, columns[j].Type)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %v: %w", i+1, columns[j].Name, err, csvup.ErrParse)
			}
			row[j] = value
		}
		rows[i] = row
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}

// validateHeader rejects headers the data model cannot represent:
// empty column names and duplicates.
func validateHeader(header []string) error {
	if len(header) == 0 {
		return fmt.Errorf("header row has no columns: %w", csvup.ErrParse)
	}

	seen := make(map[string]bool, len(header))
	var errs []error
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			errs = append(errs, fmt.Errorf("column %d has an empty name", i+1))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("duplicate column name %q", name))
		}
		seen[name] = true
		header[i] = name
	}

	if len(errs) > 0 {
		return fmt.Errorf("%v: %w", errors.Join(errs...), csvup.ErrParse)
	}
	return nil
}
