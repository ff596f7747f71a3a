package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrEmptyDataset is returned when the source contains a header only,
	// or nothing at all.
	ErrEmptyDataset = errors.New("dataset is empty")
)

const (
	addressColumn = "address"
	cityColumn    = "city"
)

// Load reads a CSV table and builds the typed, role-classified Dataset.
//
// Column names are normalized to lower case. A column is classified numeric
// when every non-empty cell parses as a float; otherwise it is categorical.
// Columns listed in sensitive override either classification. Empty cells
// become null values.
//
// When an "address" column is present and no "city" column exists, a derived
// categorical "city" column is appended using DeriveCity. The derived column
// is never sensitive, even though the address it came from usually is.
func Load(r io.Reader, sensitive []string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 || len(rows) == 1 {
		return nil, ErrEmptyDataset
	}

	header := rows[0]
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
		columns[i] = name
	}

	body := rows[1:]

	sensitiveSet := make(map[string]bool, len(sensitive))
	for _, name := range sensitive {
		sensitiveSet[strings.ToLower(strings.TrimSpace(name))] = true
	}

	numeric := inferNumericColumns(columns, body)

	schema := make(Schema, len(columns)+1)
	for i, name := range columns {
		switch {
		case sensitiveSet[name]:
			schema[name] = RoleSensitive
		case numeric[i]:
			schema[name] = RoleNumeric
		default:
			schema[name] = RoleCategorical
		}
	}

	deriveCity := seen[addressColumn] && !seen[cityColumn]
	if deriveCity {
		columns = append(columns, cityColumn)
		schema[cityColumn] = RoleCategorical
	}

	records := make([]Record, 0, len(body))
	for _, row := range body {
		rec := make(Record, len(columns))
		for i, name := range columns[:len(header)] {
			cell := strings.TrimSpace(row[i])
			switch {
			case cell == "":
				rec[name] = Null()
			case numeric[i]:
				f, _ := strconv.ParseFloat(cell, 64)
				rec[name] = Num(f)
			default:
				rec[name] = Str(cell)
			}
		}
		if deriveCity {
			rec[cityColumn] = Str(DeriveCity(rec[addressColumn].String()))
		}
		records = append(records, rec)
	}

	return &Dataset{
		Columns: columns,
		Schema:  schema,
		Records: records,
	}, nil
}

// inferNumericColumns reports, per source column, whether every non-empty
// cell parses as a float and at least one cell is non-empty.
func inferNumericColumns(columns []string, body [][]string) []bool {
	numeric := make([]bool, len(columns))
	for i := range columns {
		sawValue := false
		allParse := true
		for _, row := range body {
			if i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			sawValue = true
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				allParse = false
				break
			}
		}
		numeric[i] = sawValue && allParse
	}
	return numeric
}
