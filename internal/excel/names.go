package excel

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrInputNotFound = errors.New("input file not found")
	ErrEmptyInput    = errors.New("no valid names in input file")
)

// missingPlaceholder is how an empty cell reads once a spreadsheet went
// through a dataframe export; such rows are treated like empty ones.
const missingPlaceholder = "nan"

// SchemaError reports a workbook whose header row lacks the required column.
type SchemaError struct {
	Column string
	Found  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("column %q not found (columns: %s)", e.Column, strings.Join(e.Found, ", "))
}

// Name is one validated value of the name column.
type Name struct {
	Value string // trimmed cell text
	Row   int    // spreadsheet row number, header is row 1
}

// NameList is the ordered result of loading a workbook.
type NameList struct {
	Names     []Name
	TotalRows int // data rows read, header excluded
}

// Values returns the names without their row numbers.
func (l *NameList) Values() []string {
	values := make([]string, len(l.Names))
	for i, n := range l.Names {
		values[i] = n.Value
	}
	return values
}

type cellState int

const (
	cellValid cellState = iota
	cellNull
	cellBlank
	cellPlaceholder
)

func classify(raw string) cellState {
	if raw == "" {
		return cellNull
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return cellBlank
	}
	if strings.EqualFold(trimmed, missingPlaceholder) {
		return cellPlaceholder
	}
	return cellValid
}

type table struct {
	rows   [][]string // data rows only
	column int
}

// readTable opens the workbook at path and locates column in the header of
// its first sheet.
func readTable(path, column string) (*table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	editor, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	sheet, err := editor.FirstSheet()
	if err != nil {
		return nil, err
	}

	rows, err := editor.GetAllRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	var headers []string
	if len(rows) > 0 {
		headers = rows[0]
	}
	idx := columnIndex(headers, column)
	if idx < 0 {
		return nil, &SchemaError{Column: column, Found: nonEmpty(headers)}
	}

	return &table{rows: rows[1:], column: idx}, nil
}

func (t *table) cell(row int) string {
	r := t.rows[row]
	if t.column < len(r) {
		return r[t.column]
	}
	return ""
}

// LoadNames reads the first sheet of the workbook at path and returns the
// valid values of column in sheet order. Rows with an empty cell, a blank
// value or the "nan" placeholder are dropped.
func LoadNames(path, column string) (*NameList, error) {
	t, err := readTable(path, column)
	if err != nil {
		return nil, err
	}

	list := &NameList{TotalRows: len(t.rows)}
	for i := range t.rows {
		raw := t.cell(i)
		if classify(raw) != cellValid {
			continue
		}
		list.Names = append(list.Names, Name{
			Value: strings.TrimSpace(raw),
			Row:   i + 2,
		})
	}

	if len(list.Names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, path)
	}
	return list, nil
}

const sampleSize = 5

// Report summarizes the name column of a workbook without exporting anything.
type Report struct {
	Path         string
	TotalRows    int
	Valid        int
	Null         int
	Blank        int
	Placeholders int
	Sample       []string // first valid names
}

// Inspect classifies every row of column the same way LoadNames does. A
// workbook with no valid rows is a report, not an error.
func Inspect(path, column string) (*Report, error) {
	t, err := readTable(path, column)
	if err != nil {
		return nil, err
	}

	report := &Report{Path: path, TotalRows: len(t.rows)}
	for i := range t.rows {
		raw := t.cell(i)
		switch classify(raw) {
		case cellNull:
			report.Null++
		case cellBlank:
			report.Blank++
		case cellPlaceholder:
			report.Placeholders++
		default:
			report.Valid++
			if len(report.Sample) < sampleSize {
				report.Sample = append(report.Sample, strings.TrimSpace(raw))
			}
		}
	}
	return report, nil
}

func nonEmpty(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if strings.TrimSpace(h) != "" {
			out = append(out, h)
		}
	}
	return out
}
