package sheet

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"strings"
	"testing"
)

func strptr(s string) *string { return &s }

func fixtureHeaderRows() [][]*string {
	return [][]*string{
		{strptr("Flat File Template"), nil, nil},
		{strptr("Version 2024.0601"), nil, nil},
		{strptr("Basic"), nil, strptr("Discovery")},
		{strptr("Item Name"), strptr("Brand"), strptr("Keywords")},
		{strptr("item_name"), strptr("brand_name"), strptr("generic_keyword")},
		{nil, nil, nil},
	}
}

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	dataRows := [][]string{
		{"Fender USA Tone Master Cover", "Fender USA", "amp-cover"},
		{"Roland SP-88 Cover", "Roland", ""},
	}

	f, err := WriteWorkbook("Template", fixtureHeaderRows(), dataRows)
	if err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	wb, err := OpenWorkbook(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	defer wb.Close()

	grid, err := wb.Sheet("Template")
	if err != nil {
		t.Fatalf("Sheet: %v", err)
	}

	if got := grid.Cell(0, 0); got != "Flat File Template" {
		t.Errorf("header cell (0,0) = %q, want Flat File Template", got)
	}
	if got := grid.Cell(4, 1); got != "brand_name" {
		t.Errorf("header cell (4,1) = %q, want brand_name", got)
	}
	if got := grid.Cell(6, 0); got != "Fender USA Tone Master Cover" {
		t.Errorf("data cell (6,0) = %q, want first model title", got)
	}
	if got := grid.Cell(7, 1); got != "Roland" {
		t.Errorf("data cell (7,1) = %q, want Roland", got)
	}
	if got := grid.Cell(7, 2); got != "" {
		t.Errorf("empty data cell = %q, want empty", got)
	}
}

func TestWriteWorkbook_MoreHeaderRowsThanPalette(t *testing.T) {
	rows := make([][]*string, 8)
	for i := range rows {
		rows[i] = []*string{strptr("row")}
	}

	if _, err := WriteWorkbook("Template", rows, nil); err != nil {
		t.Fatalf("WriteWorkbook with 8 header rows: %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	dataRows := [][]string{{"a", "b", "c"}}

	if err := WriteCSV(&buf, fixtureHeaderRows(), dataRows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back CSV: %v", err)
	}

	if len(records) != 7 {
		t.Fatalf("records = %d, want 7", len(records))
	}
	// Nil header cells render as empty fields.
	if want := []string{"Flat File Template", "", ""}; !reflect.DeepEqual(records[0], want) {
		t.Errorf("record 0 = %v, want %v", records[0], want)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(records[6], want) {
		t.Errorf("record 6 = %v, want %v", records[6], want)
	}
}

func TestSheet_NotFound(t *testing.T) {
	f, err := WriteWorkbook("Template", nil, nil)
	if err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	wb, err := OpenWorkbook(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	defer wb.Close()

	_, err = wb.Sheet("Valid Values")
	if err == nil || !strings.Contains(err.Error(), "sheet not found") {
		t.Fatalf("Sheet error = %v, want sheet not found", err)
	}
}

func TestGrid_Accessors(t *testing.T) {
	g := Grid{Rows: [][]string{
		{" padded ", "", "x"},
		{"only"},
	}}

	if got := g.NumRows(); got != 2 {
		t.Errorf("NumRows = %d, want 2", got)
	}
	if got := g.RowLen(0); got != 3 {
		t.Errorf("RowLen(0) = %d, want 3", got)
	}
	if got := g.RowLen(5); got != 0 {
		t.Errorf("RowLen(5) = %d, want 0", got)
	}
	if got := g.Cell(0, 0); got != "padded" {
		t.Errorf("Cell(0,0) = %q, want trimmed value", got)
	}
	if got := g.Cell(0, 9); got != "" {
		t.Errorf("out-of-range Cell = %q, want empty", got)
	}
	if got := g.RowCells(0, 0); !reflect.DeepEqual(got, []string{"padded", "x"}) {
		t.Errorf("RowCells = %v, want [padded x]", got)
	}
}
