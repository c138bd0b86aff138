package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are the accepted timestamp formats, tried in order.
// The list is fixed so inference is deterministic for a given input.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// inferColumns determines a type for each column by narrowing candidates
// over every non-empty value: bigint, then double precision, then boolean,
// then timestamptz, falling back to text. A column whose values are all
// empty stays text.
func inferColumns(header []string, records [][]string) []Column {
	columns := make([]Column, len(header))

	for col, name := range header {
		isBigint, isDouble, isBool, isTime := true, true, true, true
		seen := false

		for _, record := range records {
			raw := strings.TrimSpace(record[col])
			if raw == "" {
				continue // empty fields are NULL and do not affect inference
			}
			seen = true

			if isBigint {
				if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
					isBigint = false
				}
			}
			if isDouble {
				if _, err := strconv.ParseFloat(raw, 64); err != nil {
					isDouble = false
				}
			}
			if isBool {
				if _, err := strconv.ParseBool(raw); err != nil {
					isBool = false
				}
			}
			if isTime {
				if _, err := parseTimestamp(raw); err != nil {
					isTime = false
				}
			}
			if !isBigint && !isDouble && !isBool && !isTime {
				break
			}
		}

		colType := TypeText
		if seen {
			switch {
			case isBigint:
				colType = TypeBigint
			case isDouble:
				colType = TypeDouble
			case isBool:
				colType = TypeBoolean
			case isTime:
				colType = TypeTimestamp
			}
		}
		columns[col] = Column{Name: name, Type: colType}
	}

	return columns
}

// convertValue converts one raw field to the Go representation of the
// column's inferred type. Empty fields become nil (SQL NULL).
func convertValue(raw string, t ColumnType) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	switch t {
	case TypeBigint:
		return strconv.ParseInt(raw, 10, 64)
	case TypeDouble:
		return strconv.ParseFloat(raw, 64)
	case TypeBoolean:
		return strconv.ParseBool(raw)
	case TypeTimestamp:
		return parseTimestamp(raw)
	default:
		return raw, nil
	}
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("value %q matches no timestamp layout", raw)
}
