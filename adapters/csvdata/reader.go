// Package csvdata loads applet datasets from plain CSV files.
package csvdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"statlab/domain/sample"
	"statlab/internal"
	"statlab/internal/errors"
)

// Table is a parsed CSV file: trimmed headers and string cells
type Table struct {
	Headers []string
	Rows    [][]string
}

// Reader reads CSV files with a header row
type Reader struct {
	logger *internal.Logger
}

// NewReader creates a CSV reader; a nil logger uses internal.DefaultLogger.
func NewReader(logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{logger: logger}
}

// ReadTable reads path into a Table
func (r *Reader) ReadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("CSV file %s", path))
		}
		return nil, errors.Wrapf(err, "failed to open CSV file %s", path)
	}
	defer file.Close()

	start := time.Now()
	table, err := r.Parse(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	r.logger.Debug("[csvdata] %s read in %.2fms (%d columns, %d rows)",
		path, float64(time.Since(start).Nanoseconds())/1e6, len(table.Headers), len(table.Rows))
	return table, nil
}

// Parse reads CSV text from in. Rows may be shorter than the header.
func (r *Reader) Parse(in io.Reader) (*Table, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("malformed CSV: %v", err))
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput("CSV file must have at least a header row and one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}
	return &Table{Headers: headers, Rows: rows[1:]}, nil
}

// ReadPaired reads two numeric columns. Rows where either cell is blank are
// skipped, keeping the pairing intact.
func (r *Reader) ReadPaired(path, xCol, yCol string) (sample.Paired, error) {
	table, err := r.ReadTable(path)
	if err != nil {
		return sample.Paired{}, err
	}
	return table.Paired(xCol, yCol)
}

// ReadColumn reads one numeric column, skipping blank cells.
func (r *Reader) ReadColumn(path, col string) (sample.Observations, error) {
	table, err := r.ReadTable(path)
	if err != nil {
		return nil, err
	}
	return table.Column(col)
}

// Paired extracts two numeric columns pairwise
func (t *Table) Paired(xCol, yCol string) (sample.Paired, error) {
	xi, err := t.index(xCol)
	if err != nil {
		return sample.Paired{}, err
	}
	yi, err := t.index(yCol)
	if err != nil {
		return sample.Paired{}, err
	}

	var x, y []float64
	for row := range t.Rows {
		xs, ys := t.cell(row, xi), t.cell(row, yi)
		if xs == "" || ys == "" {
			continue
		}
		xv, err := parseCell(xs, xCol, row)
		if err != nil {
			return sample.Paired{}, err
		}
		yv, err := parseCell(ys, yCol, row)
		if err != nil {
			return sample.Paired{}, err
		}
		x = append(x, xv)
		y = append(y, yv)
	}

	paired, err := sample.NewPaired(x, y)
	if err != nil {
		return sample.Paired{}, errors.FromDomain(err)
	}
	return paired, nil
}

// Column extracts one numeric column
func (t *Table) Column(col string) (sample.Observations, error) {
	ci, err := t.index(col)
	if err != nil {
		return nil, err
	}

	var values []float64
	for row := range t.Rows {
		s := t.cell(row, ci)
		if s == "" {
			continue
		}
		v, err := parseCell(s, col, row)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	obs, err := sample.NewObservations(values)
	if err != nil {
		return nil, errors.FromDomain(err)
	}
	return obs, nil
}

func (t *Table) index(col string) (int, error) {
	want := strings.TrimSpace(col)
	for i, header := range t.Headers {
		if strings.EqualFold(header, want) {
			return i, nil
		}
	}
	return -1, errors.InvalidInput(fmt.Sprintf("column %q not found (have %s)", col, strings.Join(t.Headers, ", ")))
}

func (t *Table) cell(row, col int) string {
	if col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

func parseCell(s, col string, row int) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		// +2: one for the header, one for 1-based line numbers
		return 0, errors.InvalidInput(fmt.Sprintf("column %q line %d: %q is not a number", col, row+2, s))
	}
	return v, nil
}
