package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type Editor struct {
	file     *excelize.File
	filepath string
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &Editor{
		file:     file,
		filepath: filepath,
	}, nil
}

// FirstSheet returns the name of the first sheet, which holds the name table.
func (e *Editor) FirstSheet() (string, error) {
	sheets := e.file.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", e.filepath)
	}
	return sheets[0], nil
}

// GetAllRows returns all rows from a sheet
func (e *Editor) GetAllRows(sheet string) ([][]string, error) {
	return e.file.GetRows(sheet)
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}

// columnIndex returns the 0-based position of header in headers, or -1.
func columnIndex(headers []string, header string) int {
	for i, h := range headers {
		if h == header {
			return i
		}
	}
	return -1
}
