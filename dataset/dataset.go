// Package dataset reads CSV uploads into a column-typed table.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Column is one CSV column. Floats is populated only for numeric columns.
type Column struct {
	Name    string
	Numeric bool
	Values  []string
	Floats  []float64
}

// Table is a parsed CSV file.
type Table struct {
	Columns []Column
	Rows    int
}

// ParseCSV reads a CSV document with a header row. A column is numeric when
// every cell parses as a finite float; empty cells make it non-numeric.
func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{Columns: make([]Column, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i)
		}
		t.Columns[i] = Column{Name: name, Numeric: true}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", t.Rows+1, err)
		}
		for i := range t.Columns {
			cell := strings.TrimSpace(rec[i])
			col := &t.Columns[i]
			col.Values = append(col.Values, cell)
			if !col.Numeric {
				continue
			}
			f, perr := strconv.ParseFloat(cell, 64)
			if perr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				col.Numeric = false
				col.Floats = nil
				continue
			}
			col.Floats = append(col.Floats, f)
		}
		t.Rows++
	}

	if t.Rows == 0 {
		for i := range t.Columns {
			t.Columns[i].Numeric = false
		}
	}
	return t, nil
}

// NumericColumns returns the numeric columns in their original order.
func (t *Table) NumericColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.Numeric {
			out = append(out, c)
		}
	}
	return out
}

// Matrix returns the rows of the given columns as points.
func Matrix(cols []Column) [][]float64 {
	if len(cols) == 0 {
		return nil
	}
	rows := len(cols[0].Floats)
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		p := make([]float64, len(cols))
		for c := range cols {
			p[c] = cols[c].Floats[r]
		}
		out[r] = p
	}
	return out
}
