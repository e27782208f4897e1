package template

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook renders sheets into XLSX bytes so Import sees the same input
// shape an upload produces.
func buildWorkbook(t *testing.T, sheets map[string][][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet(%q): %v", name, err)
		}
		for i, row := range rows {
			if err := f.SetSheetRow(name, fmt.Sprintf("A%d", i+1), &row); err != nil {
				t.Fatalf("SetSheetRow(%q, %d): %v", name, i, err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("DeleteSheet: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func fixtureSheets() map[string][][]string {
	return map[string][][]string{
		SheetDataDefinitions: {
			{"Data Definitions"},
			{"Group", "Field Name", "Local Label", "Definition"},
			{"Basic"},
			{"", "item_name", "Item Name"},
			{"", "brand_name", "Brand Name"},
		},
		SheetValidValues: {
			{"", "Item Type Keyword", "amp-cover", "keyboard-cover"},
		},
		SheetDefaultValues: {
			{"Label", "Field", "Default"},
			{"Brand Name", "brand_name", "Fender"},
		},
		SheetTemplate: {
			{"Flat File Template"},
			{"Version 2024.0601"},
			{"Basic"},
			{"Item Name", "Brand"},
			{"item_name", "brand_name"},
			{"example title", "example brand"},
		},
	}
}

type fakeStore struct {
	pt       *ProductType
	settings map[string]FieldSettings

	replacedID      int64
	replacedHeaders [][]*string
	replacedFields  []NewField
	replacedWords   []string
	replaceCalls    int
	replaceErr      error
}

func (f *fakeStore) EnsureProductType(ctx context.Context, code string) (*ProductType, error) {
	if f.pt == nil {
		f.pt = &ProductType{ID: 1, Code: code}
	}
	return f.pt, nil
}

func (f *fakeStore) FieldSettings(ctx context.Context, productTypeID int64) (map[string]FieldSettings, error) {
	return f.settings, nil
}

func (f *fakeStore) ReplaceCatalog(ctx context.Context, productTypeID int64, headerRows [][]*string, fields []NewField, keywords []string) error {
	f.replaceCalls++
	f.replacedID = productTypeID
	f.replacedHeaders = headerRows
	f.replacedFields = fields
	f.replacedWords = keywords
	return f.replaceErr
}

func newTestImporter(st *fakeStore) *Importer {
	return NewImporter(st, testLogger(), time.Second)
}

func strptr(s string) *string { return &s }

func TestImport_ReplacesCatalog(t *testing.T) {
	st := &fakeStore{}
	data := buildWorkbook(t, fixtureSheets())

	res, err := newTestImporter(st).Import(context.Background(), data, "guitar_amp_case")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if res.ProductCode != "guitar_amp_case" {
		t.Errorf("ProductCode = %q, want guitar_amp_case", res.ProductCode)
	}
	if res.FieldsImported != 2 {
		t.Errorf("FieldsImported = %d, want 2", res.FieldsImported)
	}
	if res.KeywordsImported != 2 {
		t.Errorf("KeywordsImported = %d, want 2", res.KeywordsImported)
	}
	if res.ValidValuesImported != 2 {
		t.Errorf("ValidValuesImported = %d, want 2", res.ValidValuesImported)
	}
	if len(res.SheetErrors) != 0 {
		t.Errorf("SheetErrors = %v, want none", res.SheetErrors)
	}

	if st.replaceCalls != 1 {
		t.Fatalf("ReplaceCatalog called %d times, want 1", st.replaceCalls)
	}
	if st.replacedID != 1 {
		t.Errorf("replaced product type ID = %d, want 1", st.replacedID)
	}
	if len(st.replacedHeaders) != 6 {
		t.Errorf("header rows = %d, want 6", len(st.replacedHeaders))
	}
	if len(st.replacedFields) != 2 {
		t.Fatalf("fields = %d, want 2", len(st.replacedFields))
	}
	if got := st.replacedFields[0].FieldName; got != "item_name" {
		t.Errorf("field 0 = %q, want item_name", got)
	}
	if got := st.replacedFields[1].OrderIndex; got != 1 {
		t.Errorf("brand_name order index = %d, want 1", got)
	}
}

func TestImport_PriorSettingsSurviveByFieldName(t *testing.T) {
	st := &fakeStore{
		pt: &ProductType{ID: 7, Code: "guitar_amp_case"},
		settings: map[string]FieldSettings{
			"item_name": {
				Required:      true,
				SelectedValue: strptr("Chosen"),
				CustomValue:   strptr("My Title"),
			},
			"retired_field": {Required: true},
		},
	}
	data := buildWorkbook(t, fixtureSheets())

	if _, err := newTestImporter(st).Import(context.Background(), data, "guitar_amp_case"); err != nil {
		t.Fatalf("Import: %v", err)
	}

	byName := make(map[string]NewField)
	for _, f := range st.replacedFields {
		byName[f.FieldName] = f
	}
	if _, ok := byName["retired_field"]; ok {
		t.Error("settings for a field absent from the workbook were kept")
	}

	item := byName["item_name"]
	if !item.Required {
		t.Error("item_name Required was not carried over")
	}
	if item.SelectedValue == nil || *item.SelectedValue != "Chosen" {
		t.Errorf("item_name SelectedValue = %v, want Chosen", item.SelectedValue)
	}
	if item.CustomValue == nil || *item.CustomValue != "My Title" {
		t.Errorf("item_name CustomValue = %v, want My Title", item.CustomValue)
	}
}

func TestImport_CustomValueSeededFromSheetDefault(t *testing.T) {
	st := &fakeStore{}
	data := buildWorkbook(t, fixtureSheets())

	if _, err := newTestImporter(st).Import(context.Background(), data, "guitar_amp_case"); err != nil {
		t.Fatalf("Import: %v", err)
	}

	for _, f := range st.replacedFields {
		if f.FieldName != "brand_name" {
			continue
		}
		if f.CustomValue == nil || *f.CustomValue != "Fender" {
			t.Errorf("brand_name CustomValue = %v, want Fender", f.CustomValue)
		}
		return
	}
	t.Fatal("brand_name field missing")
}

func TestImport_PriorCustomValueBeatsSheetDefault(t *testing.T) {
	st := &fakeStore{
		pt: &ProductType{ID: 7, Code: "guitar_amp_case"},
		settings: map[string]FieldSettings{
			"brand_name": {CustomValue: strptr("Vox")},
		},
	}
	data := buildWorkbook(t, fixtureSheets())

	if _, err := newTestImporter(st).Import(context.Background(), data, "guitar_amp_case"); err != nil {
		t.Fatalf("Import: %v", err)
	}

	for _, f := range st.replacedFields {
		if f.FieldName == "brand_name" {
			if f.CustomValue == nil || *f.CustomValue != "Vox" {
				t.Errorf("brand_name CustomValue = %v, want Vox", f.CustomValue)
			}
			return
		}
	}
	t.Fatal("brand_name field missing")
}

func TestImport_MissingSheetsDegradeGracefully(t *testing.T) {
	st := &fakeStore{}
	sheets := map[string][][]string{
		SheetTemplate: fixtureSheets()[SheetTemplate],
	}
	data := buildWorkbook(t, sheets)

	res, err := newTestImporter(st).Import(context.Background(), data, "guitar_amp_case")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if len(res.SheetErrors) != 3 {
		t.Errorf("SheetErrors = %v, want 3 entries", res.SheetErrors)
	}
	if res.FieldsImported != 2 {
		t.Errorf("FieldsImported = %d, want 2", res.FieldsImported)
	}
	if res.KeywordsImported != 0 {
		t.Errorf("KeywordsImported = %d, want 0", res.KeywordsImported)
	}
}

func TestImport_NoUsableTemplateSheet(t *testing.T) {
	st := &fakeStore{}
	sheets := map[string][][]string{
		SheetDataDefinitions: fixtureSheets()[SheetDataDefinitions],
	}
	data := buildWorkbook(t, sheets)

	_, err := newTestImporter(st).Import(context.Background(), data, "guitar_amp_case")
	if !errors.Is(err, ErrNoFieldsImported) {
		t.Fatalf("Import error = %v, want ErrNoFieldsImported", err)
	}
	if st.replaceCalls != 0 {
		t.Error("ReplaceCatalog was called for an empty catalog")
	}
}

func TestImport_NotAWorkbook(t *testing.T) {
	st := &fakeStore{}

	_, err := newTestImporter(st).Import(context.Background(), []byte("not xlsx"), "guitar_amp_case")
	if err == nil {
		t.Fatal("Import accepted malformed workbook bytes")
	}
}

func TestImport_ReplaceFailurePropagates(t *testing.T) {
	st := &fakeStore{replaceErr: errors.New("boom")}
	data := buildWorkbook(t, fixtureSheets())

	_, err := newTestImporter(st).Import(context.Background(), data, "guitar_amp_case")
	if err == nil || !errors.Is(err, st.replaceErr) {
		t.Fatalf("Import error = %v, want wrapped replace error", err)
	}
}
