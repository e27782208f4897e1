package template

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/covermaker/covermaker/internal/sheet"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func grid(rows ...[]string) sheet.Grid {
	return sheet.Grid{Rows: rows}
}

// fixtureDataDefs returns a Data Definitions sheet with two groups. Rows 0
// and 1 are sheet headings and must be skipped.
func fixtureDataDefs() sheet.Grid {
	return grid(
		[]string{"Data Definitions", "", "", ""},
		[]string{"Group", "Field Name", "Local Label", "Definition"},
		[]string{"Basic", "", "", ""},
		[]string{"", "item_name", "Item Name", "The listing title"},
		[]string{"", "brand_name", "Brand Name", "ignored text"},
		[]string{"Discovery", "", "", ""},
		[]string{"", "generic_keyword", "Item Type Keyword", ""},
		[]string{"", "color_name", "Color", ""},
	)
}

func fixtureTemplate() sheet.Grid {
	return grid(
		[]string{"Flat File Template"},
		[]string{"Version 2024.0601"},
		[]string{"Basic", "", "Discovery", ""},
		[]string{"Item Name", "Brand", "Keywords", "Colour"},
		[]string{"item_name", "brand_name", "generic_keyword", "color_name"},
		[]string{"example title", "example brand", "", ""},
		[]string{"", "", "", ""},
	)
}

// ============================================================================
// Data Definitions
// ============================================================================

func TestParseDataDefinitions_GroupCarryForward(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())

	if len(defs.fields) != 4 {
		t.Fatalf("parsed %d fields, want 4", len(defs.fields))
	}
	if got := defs.byName["brand_name"].group; got != "Basic" {
		t.Errorf("brand_name group = %q, want %q", got, "Basic")
	}
	if got := defs.byName["color_name"].group; got != "Discovery" {
		t.Errorf("color_name group = %q, want %q", got, "Discovery")
	}
	if got := defs.byLabel["Item Type Keyword"]; got != "generic_keyword" {
		t.Errorf("label lookup = %q, want %q", got, "generic_keyword")
	}
}

func TestParseDataDefinitions_SkipsHeadingRows(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())

	// "Field Name" sits in row 1 column B; it must not become a field.
	if _, ok := defs.byName["Field Name"]; ok {
		t.Error("heading row was parsed as a field")
	}
}

// ============================================================================
// Valid Values
// ============================================================================

func TestParseValidValues_ExactLabelMatch(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())
	vv := parseValidValues(grid(
		[]string{"", "Color", "Black", "Tan", "Black"},
	), defs, testLogger())

	want := []string{"Black", "Tan", "Black"}
	if !reflect.DeepEqual(vv.byField["color_name"], want) {
		t.Errorf("color_name values = %v, want %v", vv.byField["color_name"], want)
	}
	if vv.count != 3 {
		t.Errorf("count = %d, want 3", vv.count)
	}
}

func TestParseValidValues_HintSubstringMatch(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())
	vv := parseValidValues(grid(
		[]string{"", "Search Terms - [keyword]", "covers", "amp cover"},
	), defs, testLogger())

	want := []string{"covers", "amp cover"}
	if !reflect.DeepEqual(vv.byField["generic_keyword"], want) {
		t.Errorf("generic_keyword values = %v, want %v", vv.byField["generic_keyword"], want)
	}
}

func TestParseValidValues_CaseInsensitiveLabelFallback(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())
	vv := parseValidValues(grid(
		[]string{"", "COLOR", "Black"},
	), defs, testLogger())

	if got := vv.byField["color_name"]; len(got) != 1 || got[0] != "Black" {
		t.Errorf("color_name values = %v, want [Black]", got)
	}
}

func TestParseValidValues_KeywordLabelCollected(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())
	vv := parseValidValues(grid(
		[]string{"", "Item Type Keyword", "amp-cover", "keyboard-cover"},
	), defs, testLogger())

	want := []string{"amp-cover", "keyboard-cover"}
	if !reflect.DeepEqual(vv.keywords, want) {
		t.Errorf("keywords = %v, want %v", vv.keywords, want)
	}
	// Keyword values still attach to the field itself.
	if !reflect.DeepEqual(vv.byField["generic_keyword"], want) {
		t.Errorf("generic_keyword values = %v, want %v", vv.byField["generic_keyword"], want)
	}
}

func TestParseValidValues_UnmatchedRowSkipped(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())
	vv := parseValidValues(grid(
		[]string{"", "Completely Unrelated", "x", "y"},
	), defs, testLogger())

	if len(vv.byField) != 0 {
		t.Errorf("byField = %v, want empty", vv.byField)
	}
	if vv.count != 0 {
		t.Errorf("count = %d, want 0", vv.count)
	}
}

func TestSplitLabelHint(t *testing.T) {
	tests := []struct {
		cell  string
		label string
		hint  string
	}{
		{"Color", "Color", ""},
		{"Search Terms - [keyword]", "Search Terms", "keyword"},
		{"Weird - [hint] trailing", "Weird", "hint] trailing"},
	}
	for _, tt := range tests {
		label, hint := splitLabelHint(tt.cell)
		if label != tt.label || hint != tt.hint {
			t.Errorf("splitLabelHint(%q) = (%q, %q), want (%q, %q)",
				tt.cell, label, hint, tt.label, tt.hint)
		}
	}
}

// ============================================================================
// Default Values
// ============================================================================

func TestParseDefaultValues_ExactFieldName(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())
	dv := parseDefaultValues(grid(
		[]string{"Label", "Field", "Default", "Extra"},
		[]string{"Brand Name", "brand_name", "Fender", ""},
	), defs, testLogger())

	if got := dv.defaults["brand_name"]; got != "Fender" {
		t.Errorf("brand_name default = %q, want %q", got, "Fender")
	}
}

func TestParseDefaultValues_LabelFallbackAndExtras(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())
	dv := parseDefaultValues(grid(
		[]string{"Label", "Field", "Default", "Extra"},
		[]string{"Color", "", "Black", "Tan", "Tweed"},
	), defs, testLogger())

	if got := dv.defaults["color_name"]; got != "Black" {
		t.Errorf("color_name default = %q, want %q", got, "Black")
	}
	want := []string{"Tan", "Tweed"}
	if !reflect.DeepEqual(dv.extras["color_name"], want) {
		t.Errorf("color_name extras = %v, want %v", dv.extras["color_name"], want)
	}
}

func TestParseDefaultValues_SubstringFallback(t *testing.T) {
	defs := parseDataDefinitions(fixtureDataDefs(), testLogger())
	dv := parseDefaultValues(grid(
		[]string{"Label", "Field", "Default"},
		[]string{"", "brand", "Fender"},
	), defs, testLogger())

	if got := dv.defaults["brand_name"]; got != "Fender" {
		t.Errorf("brand_name default = %q, want %q", got, "Fender")
	}
}

// ============================================================================
// Template sheet
// ============================================================================

func TestParseTemplate_FieldOrderAndMetadata(t *testing.T) {
	tf := parseTemplate(fixtureTemplate(), testLogger())

	if len(tf.fields) != 4 {
		t.Fatalf("parsed %d fields, want 4", len(tf.fields))
	}

	first := tf.fields[0]
	if first.name != "item_name" || first.orderIndex != 0 {
		t.Errorf("field 0 = %+v, want item_name at column 0", first)
	}
	if first.displayName != "Item Name" {
		t.Errorf("field 0 display = %q, want %q", first.displayName, "Item Name")
	}

	// Group row carries forward: brand_name inherits "Basic".
	if got := tf.fields[1].group; got != "Basic" {
		t.Errorf("brand_name group = %q, want %q", got, "Basic")
	}
	if got := tf.fields[3].group; got != "Discovery" {
		t.Errorf("color_name group = %q, want %q", got, "Discovery")
	}
}

func TestParseTemplate_CapturesSixHeaderRows(t *testing.T) {
	tf := parseTemplate(fixtureTemplate(), testLogger())

	if len(tf.headerRows) != 6 {
		t.Fatalf("captured %d header rows, want 6", len(tf.headerRows))
	}
	// Every captured row is padded to the widest header row.
	for i, row := range tf.headerRows {
		if len(row) != 4 {
			t.Errorf("header row %d has %d cells, want 4", i, len(row))
		}
	}
	if tf.headerRows[0][0] == nil || *tf.headerRows[0][0] != "Flat File Template" {
		t.Error("header row 0 column 0 not captured verbatim")
	}
	if tf.headerRows[0][3] != nil {
		t.Error("missing header cell should be nil")
	}
}

func TestParseTemplate_DuplicateFieldNameLaterColumnWins(t *testing.T) {
	g := grid(
		[]string{}, []string{},
		[]string{"Basic"},
		[]string{"First", "Second"},
		[]string{"item_name", "item_name"},
		[]string{},
	)
	tf := parseTemplate(g, testLogger())

	if len(tf.fields) != 1 {
		t.Fatalf("parsed %d fields, want 1", len(tf.fields))
	}
	if got := tf.fields[0].displayName; got != "Second" {
		t.Errorf("duplicate display = %q, want %q", got, "Second")
	}
}

// ============================================================================
// Merge
// ============================================================================

func TestMergeValues_DefaultFirstAndDeduped(t *testing.T) {
	got := mergeValues([]string{"Tan", "Black", "Tan"}, []string{"Tweed", "Black"}, "Black")
	want := []string{"Tan", "Black", "Tweed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mergeValues = %v, want %v", got, want)
	}
}

func TestMergeValues_MissingDefaultInsertedAtFront(t *testing.T) {
	got := mergeValues([]string{"Tan"}, nil, "Black")
	want := []string{"Black", "Tan"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mergeValues = %v, want %v", got, want)
	}
}

// ============================================================================
// Full parse
// ============================================================================

func TestParse_CrossReferencesSheets(t *testing.T) {
	cat := Parse(
		fixtureDataDefs(),
		grid(
			[]string{"", "Color", "Black", "Tan"},
			[]string{"", "Item Type Keyword", "amp-cover"},
		),
		grid(
			[]string{"Label", "Field", "Default", "Extra"},
			[]string{"Color", "color_name", "Tweed", ""},
		),
		fixtureTemplate(),
		testLogger(),
	)

	if len(cat.Fields) != 4 {
		t.Fatalf("parsed %d fields, want 4", len(cat.Fields))
	}
	if !reflect.DeepEqual(cat.Keywords, []string{"amp-cover"}) {
		t.Errorf("keywords = %v, want [amp-cover]", cat.Keywords)
	}

	var colour *CatalogField
	for i := range cat.Fields {
		if cat.Fields[i].FieldName == "color_name" {
			colour = &cat.Fields[i]
		}
	}
	if colour == nil {
		t.Fatal("color_name field missing")
	}
	if colour.DefaultValue != "Tweed" {
		t.Errorf("default = %q, want Tweed", colour.DefaultValue)
	}
	wantValues := []string{"Tweed", "Black", "Tan"}
	if !reflect.DeepEqual(colour.ValidValues, wantValues) {
		t.Errorf("valid values = %v, want %v", colour.ValidValues, wantValues)
	}
	// Data Definitions group is preferred over the template's group row.
	if colour.AttributeGroup != "Discovery" {
		t.Errorf("group = %q, want Discovery", colour.AttributeGroup)
	}
	// Template display row wins over the local label.
	if colour.DisplayName != "Colour" {
		t.Errorf("display = %q, want Colour", colour.DisplayName)
	}
}

func TestParse_EmptyGridsYieldNoFields(t *testing.T) {
	cat := Parse(sheet.Grid{}, sheet.Grid{}, sheet.Grid{}, sheet.Grid{}, testLogger())
	if len(cat.Fields) != 0 {
		t.Errorf("fields = %d, want 0", len(cat.Fields))
	}
}
