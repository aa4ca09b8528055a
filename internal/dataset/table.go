package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrColumnNotFound is returned when a required column is absent from the header
	ErrColumnNotFound = errors.New("column not found")
	// ErrEmptyInput is returned when the input has no header row
	ErrEmptyInput = errors.New("empty input")
)

// Table is a CSV table that keeps the original cell text, so cells that are
// never rewritten are written back unchanged.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New creates a table with the given header and rows. Rows are not copied.
func New(columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", i, len(row), len(columns))
		}
	}

	return &Table{columns: columns, index: index, rows: rows}, nil
}

// Read parses a CSV document with a header row
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return New(header, rows)
}

// ReadFile loads a CSV file
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return t, nil
}

// Write writes the header and all rows as CSV
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(t.rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteFile writes the table to a new file at path, creating missing parent
// directories.
func (t *Table) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Columns returns the header in file order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether the header contains col
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *Table) columnIndex(col string) (int, error) {
	idx, ok := t.index[col]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	return idx, nil
}

// Value returns the raw text of one cell
func (t *Table) Value(row int, col string) (string, error) {
	idx, err := t.columnIndex(col)
	if err != nil {
		return "", err
	}
	if row < 0 || row >= len(t.rows) {
		return "", fmt.Errorf("row %d out of range", row)
	}
	return t.rows[row][idx], nil
}

// Float64s parses every cell of col as a float. Empty cells are missing
// values and read as NaN.
func (t *Table) Float64s(col string) ([]float64, error) {
	idx, err := t.columnIndex(col)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(t.rows))
	for i, row := range t.rows {
		v, err := parseFloat(row[idx])
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", col, i, err)
		}
		values[i] = v
	}
	return values, nil
}

// SetFloat64 overwrites one cell with the shortest text that round-trips v
func (t *Table) SetFloat64(row int, col string, v float64) error {
	idx, err := t.columnIndex(col)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	t.rows[row][idx] = formatFloat(v)
	return nil
}

// WithColumn returns a copy of the table with col set to values. An existing
// column of the same name is replaced; otherwise the column is appended.
func (t *Table) WithColumn(col string, values []float64) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", col, len(values), len(t.rows))
	}

	columns := t.Columns()
	idx, exists := t.index[col]
	if !exists {
		idx = len(columns)
		columns = append(columns, col)
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		r := make([]string, len(columns))
		copy(r, row)
		r[idx] = formatFloat(values[i])
		rows[i] = r
	}

	return New(columns, rows)
}

// Select returns the rows for which keep returns true. Row slices are shared
// with the receiver.
func (t *Table) Select(keep func(i int) bool) *Table {
	var rows [][]string
	for i, row := range t.rows {
		if keep(i) {
			rows = append(rows, row)
		}
	}

	return &Table{columns: t.columns, index: t.index, rows: rows}
}

func parseFloat(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
