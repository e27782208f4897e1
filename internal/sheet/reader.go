// Package sheet reads and writes tabular workbook data.
//
// The importer consumes workbooks as [Grid] values: rectangular-ish 2-D cell
// grids addressed by zero-based row and column index. Reading goes through
// excelize so the rest of the codebase never touches the XLSX file format
// directly; a Grid could just as well come from a test fixture.
package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Grid is a 2-D grid of cell values for one sheet. Rows may have differing
// lengths; out-of-range cells read as empty.
type Grid struct {
	Rows [][]string
}

// NumRows returns the number of rows in the grid.
func (g Grid) NumRows() int {
	return len(g.Rows)
}

// RowLen returns the number of cells in row r, or 0 if r is out of range.
func (g Grid) RowLen(r int) int {
	if r < 0 || r >= len(g.Rows) {
		return 0
	}
	return len(g.Rows[r])
}

// Cell returns the trimmed value at (row, col). Out-of-range cells and cells
// containing only whitespace return "".
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) {
		return ""
	}
	cells := g.Rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col])
}

// RowCells returns all trimmed, non-empty cell values in row r starting at
// column startCol, in column order.
func (g Grid) RowCells(row, startCol int) []string {
	var out []string
	for col := startCol; col < g.RowLen(row); col++ {
		if v := g.Cell(row, col); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ErrSheetNotFound is wrapped when a requested sheet name is absent.
var ErrSheetNotFound = fmt.Errorf("sheet not found")

// Workbook is an open XLSX workbook that sheets can be read from by name.
type Workbook struct {
	file *excelize.File
}

// OpenWorkbook parses workbook bytes. The caller should Close the workbook
// when done.
func OpenWorkbook(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// Close releases the underlying workbook resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheet returns the named sheet as a Grid. Returns ErrSheetNotFound (wrapped)
// when the workbook has no sheet with that name.
func (w *Workbook) Sheet(name string) (Grid, error) {
	idx, err := w.file.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return Grid{}, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	rows, err := w.file.GetRows(name)
	if err != nil {
		return Grid{}, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return Grid{Rows: rows}, nil
}
