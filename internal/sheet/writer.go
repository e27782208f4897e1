package sheet

// writer.go renders export output: an XLSX workbook with the marketplace
// header block styled, or a plain CSV stream. Both take the same
// header-rows + data-rows shape the export assembler produces.

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// headerPalette is the fill colour applied to each of the six template header
// rows in workbook output. Cosmetic only; mirrors the marketplace flat-file
// look so re-uploads are recognisable at a glance.
var headerPalette = [6]string{
	"#1F4E78", // banner
	"#2E75B6", // version row
	"#9DC3E6", // group row
	"#BDD7EE", // display names
	"#DEEBF7", // field names
	"#F2F2F2", // examples
}

// WriteWorkbook builds an XLSX workbook with headerRows first (styled per
// headerPalette) followed by dataRows. Nil header cells are left blank.
func WriteWorkbook(sheetName string, headerRows [][]*string, dataRows [][]string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, row := range headerRows {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: i < 2, Size: 10},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{paletteColor(i)}},
		})
		if err != nil {
			return nil, fmt.Errorf("header style: %w", err)
		}
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("cell ref: %w", err)
			}
			if cell != nil {
				if err := f.SetCellValue(sheetName, ref, *cell); err != nil {
					return nil, fmt.Errorf("set header cell: %w", err)
				}
			}
			if err := f.SetCellStyle(sheetName, ref, ref, style); err != nil {
				return nil, fmt.Errorf("style header cell: %w", err)
			}
		}
	}

	for i, row := range dataRows {
		for j, val := range row {
			if val == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, len(headerRows)+i+1)
			if err != nil {
				return nil, fmt.Errorf("cell ref: %w", err)
			}
			if err := f.SetCellValue(sheetName, ref, val); err != nil {
				return nil, fmt.Errorf("set data cell: %w", err)
			}
		}
	}

	return f, nil
}

// paletteColor returns the fill colour for header row i, reusing the last
// palette entry when more than six header rows are present.
func paletteColor(i int) string {
	if i < len(headerPalette) {
		return headerPalette[i]
	}
	return headerPalette[len(headerPalette)-1]
}

// WriteCSV streams headerRows then dataRows to w as comma-separated text.
// Nil header cells render as empty fields.
func WriteCSV(w io.Writer, headerRows [][]*string, dataRows [][]string) error {
	cw := csv.NewWriter(w)

	for _, row := range headerRows {
		record := make([]string, len(row))
		for i, cell := range row {
			if cell != nil {
				record[i] = *cell
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}
	}

	for _, row := range dataRows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write data row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
