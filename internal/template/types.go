// Package template implements marketplace listing templates: the persisted
// field catalog per product type, and the importer that rebuilds that catalog
// from a four-sheet XLSX workbook.
//
// The importer is split in two layers:
//
//   - parse.go is a pure function over sheet grids. It cross-references the
//     "Data Definitions", "Valid Values", "Default Values" and "Template"
//     sheets into a Catalog, with no persistence involved, so the matching
//     heuristics are unit-testable against fixture grids.
//   - importer.go snapshots the user-edited field settings, runs the pure
//     parse, merges the settings back in, and swaps the product type's
//     catalog in one transaction.
package template

// Sheet names the importer expects in an uploaded workbook. A missing sheet
// degrades that step's contribution to empty; it is not a hard failure.
const (
	SheetDataDefinitions = "Data Definitions"
	SheetValidValues     = "Valid Values"
	SheetDefaultValues   = "Default Values"
	SheetTemplate        = "Template"
)

// keywordLabel is the Valid Values local label whose values double as
// product type keywords.
const keywordLabel = "Item Type Keyword"

// ProductType is one marketplace listing template (e.g. an Amazon category),
// identified by a unique, immutable code. HeaderRows are reproduced verbatim
// as the first rows of every export; nil cells were blank in the source
// template.
type ProductType struct {
	ID          int64
	Code        string
	Name        *string
	Description *string
	HeaderRows  [][]*string
}

// Field is one exportable attribute (column) of a product type.
//
// FieldName is the stable identity key across re-imports. Required,
// SelectedValue and CustomValue are user-edited and survive re-import; every
// other attribute is rebuilt from the workbook each time.
type Field struct {
	ID             int64
	ProductTypeID  int64
	FieldName      string
	DisplayName    *string
	AttributeGroup *string
	OrderIndex     int
	Required       bool
	SelectedValue  *string
	CustomValue    *string
}

// ValidValue is one selectable candidate string for a field. Value strings
// are unique within a field.
type ValidValue struct {
	ID      int64
	FieldID int64
	Value   string
}

// Keyword is a free-text search term attached to a product type, extracted
// from the "Item Type Keyword" row of the Valid Values sheet.
type Keyword struct {
	ID            int64
	ProductTypeID int64
	Keyword       string
}

// EquipmentTypeLink ties an equipment type to the product type that governs
// its exports.
type EquipmentTypeLink struct {
	ID              int64
	EquipmentTypeID int64
	ProductTypeID   int64
}

// FieldSettings are the user-edited field attributes snapshotted before a
// re-import and reapplied afterwards by field name.
type FieldSettings struct {
	Required      bool
	SelectedValue *string
	CustomValue   *string
}

// ImportResult summarises one template import.
type ImportResult struct {
	ProductCode          string   `json:"product_code"`
	FieldsImported       int      `json:"fields_imported"`
	KeywordsImported     int      `json:"keywords_imported"`
	ValidValuesImported  int      `json:"valid_values_imported"`
	SheetErrors          []string `json:"sheet_errors,omitempty"`
}
