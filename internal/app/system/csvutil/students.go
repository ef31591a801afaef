// internal/app/system/csvutil/students.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// StudentCSVRow is the normalized row produced by PreScanStudentsCSV.
type StudentCSVRow struct {
	FullName string
	Email    string
}

// PreScanStudentsCSV reads all rows from r, skips a header if present,
// validates each row, and either returns normalized rows OR a list of
// row-level problems describing the first few bad lines. It never
// writes to a DB; it's safe to call before any mutations.
func PreScanStudentsCSV(r io.Reader) (rows []StudentCSVRow, problems []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Pull first row to check header
	first, ferr := reader.Read()
	if ferr == io.EOF {
		first = nil
	} else if ferr != nil {
		return nil, []string{ferr.Error()}, nil
	}
	var raw [][]string
	if len(first) >= 2 &&
		(strings.EqualFold(strings.TrimSpace(first[0]), "full name") ||
			strings.EqualFold(strings.TrimSpace(first[0]), "name")) &&
		strings.EqualFold(strings.TrimSpace(first[1]), "email") {
		// header detected → skip
	} else if first != nil {
		raw = append(raw, first)
	}
	for {
		rec, e := reader.Read()
		if e == io.EOF {
			break
		}
		if e != nil || len(rec) == 0 {
			continue
		}
		raw = append(raw, rec)
		if len(raw) > MaxRows {
			return nil, []string{fmt.Sprintf("too many rows (limit %d)", MaxRows)}, nil
		}
	}

	normalize := func(rec []string) StudentCSVRow {
		var n, e string
		if len(rec) > 0 {
			n = strings.TrimSpace(rec[0])
		}
		if len(rec) > 1 {
			e = strings.TrimSpace(rec[1])
		}
		return StudentCSVRow{FullName: n, Email: e}
	}

	for i, rec := range raw {
		row := normalize(rec)
		if row.FullName == "" && row.Email == "" {
			continue
		}
		if row.FullName == "" {
			problems = append(problems, fmt.Sprintf("row %d: missing full name", i+1))
		}
		if row.Email == "" {
			problems = append(problems, fmt.Sprintf("row %d: missing email", i+1))
		} else if !strings.Contains(row.Email, "@") {
			problems = append(problems, fmt.Sprintf("row %d: %q does not look like an email", i+1, row.Email))
		}
		rows = append(rows, row)
	}

	if len(problems) > 0 {
		max := 5
		if len(problems) < max {
			max = len(problems)
		}
		return nil, problems[:max], nil
	}

	return rows, nil, nil
}
