// Package scan models the tabular scan frames produced by the robot
// dashboard: a column-name list plus rows of numeric fields, serialized the
// way pandas emits orient="split" JSON.
package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Required columns of a point table. Lookup is by exact, case-sensitive name;
// column order in the table is irrelevant.
const (
	ColumnX        = "x_cm"
	ColumnY        = "y_cm"
	ColumnZ        = "z_cm"
	ColumnDistance = "mesafe_cm"
)

// IndexNotFound is returned by Index for columns the table does not carry.
// Any field lookup through it yields an invalid value, so rows depending on a
// missing column are filtered rather than failing the whole table.
const IndexNotFound = -1

// Table is a decoded point table. Rows keep their raw decoded values; use
// Field to read a numeric cell.
type Table struct {
	Columns []string
	Rows    [][]any

	// SkippedRows counts rows dropped during decode because they were not
	// arrays.
	SkippedRows int
}

// Decode parses a point table from its JSON form. The top-level "columns"
// and "data" fields must be arrays that are actually present: absent or null
// fields are an error, while present empty arrays are a valid empty table.
// Pandas' extra "index" field is ignored. Individual rows that are not arrays
// are dropped, not fatal.
func Decode(data []byte) (*Table, error) {
	var raw struct {
		Columns *[]string          `json:"columns"`
		Data    *[]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding point table: %w", err)
	}

	if raw.Columns == nil {
		return nil, errors.New("point table has no columns array")
	}
	if raw.Data == nil {
		return nil, errors.New("point table has no data array")
	}

	t := Table{
		Columns: *raw.Columns,
		Rows:    make([][]any, 0, len(*raw.Data)),
	}

	for _, rowData := range *raw.Data {
		var row []any
		if err := json.Unmarshal(rowData, &row); err != nil {
			t.SkippedRows++
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	return &t, nil
}

// Index returns the position of name in Columns, or IndexNotFound.
func (t *Table) Index(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return IndexNotFound
}

// Field reads the numeric value of row at column index idx. It reports false
// for out-of-range indices (including IndexNotFound) and for cells that are
// not finite numbers, such as JSON null or strings.
func Field(row []any, idx int) (float64, bool) {
	if idx < 0 || idx >= len(row) {
		return 0, false
	}

	v, ok := row[idx].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
