package template

// importer.go orchestrates a template import:
//
//  1. open the workbook and pull the four sheets (missing or unreadable
//     sheets degrade to empty grids, recorded in the result)
//  2. snapshot the user-edited settings of the existing fields by field name
//  3. run the pure parse into a Catalog
//  4. merge the snapshot into the catalog and swap the product type's
//     fields, valid values, keywords and header rows in one transaction
//
// Settings for field names that do not recur in the new workbook are
// discarded. The swap either fully commits or fully rolls back, so a product
// type is never left with a partial field set.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/covermaker/covermaker/internal/sheet"
	"github.com/google/uuid"
)

// ErrNoFieldsImported is returned when a workbook yields zero fields, which
// usually means the Template sheet is missing or malformed.
var ErrNoFieldsImported = errors.New("no fields imported: workbook has no usable Template sheet")

// NewField is one field to create during the catalog swap, with its deduped
// valid values and the user settings already merged.
type NewField struct {
	Field
	ValidValues []string
}

// Store is the persistence surface the importer needs. Implemented by
// internal/store; ReplaceCatalog must be atomic.
type Store interface {
	// EnsureProductType returns the product type with the given code,
	// creating it (with a name derived from the code) when absent.
	EnsureProductType(ctx context.Context, code string) (*ProductType, error)

	// FieldSettings returns the user-edited settings of the product type's
	// current fields, keyed by field name.
	FieldSettings(ctx context.Context, productTypeID int64) (map[string]FieldSettings, error)

	// ReplaceCatalog deletes the product type's fields, valid values and
	// keywords, then inserts the new set and updates the header rows, all in
	// one transaction.
	ReplaceCatalog(ctx context.Context, productTypeID int64, headerRows [][]*string, fields []NewField, keywords []string) error
}

// Importer rebuilds product type catalogs from uploaded workbooks.
type Importer struct {
	store   Store
	log     *slog.Logger
	limiter *importLimiter
}

// NewImporter creates an Importer. maxWait bounds how long a second import
// for the same product code waits for the running one.
func NewImporter(store Store, log *slog.Logger, maxWait time.Duration) *Importer {
	return &Importer{
		store:   store,
		log:     log,
		limiter: newImportLimiter(maxWait),
	}
}

// Import parses workbook bytes and replaces the catalog of the product type
// identified by productCode, creating the product type when new.
func (im *Importer) Import(ctx context.Context, data []byte, productCode string) (*ImportResult, error) {
	if err := im.limiter.acquire(ctx, productCode); err != nil {
		return nil, err
	}
	defer im.limiter.release(productCode)

	log := im.log.With("import_id", uuid.NewString(), "product_code", productCode)

	wb, err := sheet.OpenWorkbook(data)
	if err != nil {
		return nil, fmt.Errorf("import template: %w", err)
	}
	defer wb.Close()

	result := &ImportResult{ProductCode: productCode}

	grids := make(map[string]sheet.Grid, 4)
	for _, name := range []string{SheetDataDefinitions, SheetValidValues, SheetDefaultValues, SheetTemplate} {
		grid, err := wb.Sheet(name)
		if err != nil {
			// Best effort: the other sheets still contribute.
			log.Warn("sheet unavailable", "sheet", name, "error", err)
			result.SheetErrors = append(result.SheetErrors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		grids[name] = grid
	}

	cat := Parse(
		grids[SheetDataDefinitions],
		grids[SheetValidValues],
		grids[SheetDefaultValues],
		grids[SheetTemplate],
		log,
	)

	if len(cat.Fields) == 0 {
		return nil, ErrNoFieldsImported
	}

	pt, err := im.store.EnsureProductType(ctx, productCode)
	if err != nil {
		return nil, fmt.Errorf("import template: %w", err)
	}

	prior, err := im.store.FieldSettings(ctx, pt.ID)
	if err != nil {
		return nil, fmt.Errorf("snapshot field settings: %w", err)
	}

	fields := mergeSettings(pt.ID, cat, prior)

	if err := im.store.ReplaceCatalog(ctx, pt.ID, cat.HeaderRows, fields, cat.Keywords); err != nil {
		return nil, fmt.Errorf("replace catalog: %w", err)
	}

	result.FieldsImported = len(fields)
	result.KeywordsImported = len(cat.Keywords)
	result.ValidValuesImported = cat.ValidValuesImported

	log.Info("template imported",
		"fields", result.FieldsImported,
		"keywords", result.KeywordsImported,
		"valid_values", result.ValidValuesImported,
		"sheet_errors", len(result.SheetErrors),
	)
	return result, nil
}

// mergeSettings folds prior user settings into the parsed catalog. A field
// with no prior custom value is seeded with the sheet default.
func mergeSettings(productTypeID int64, cat Catalog, prior map[string]FieldSettings) []NewField {
	fields := make([]NewField, 0, len(cat.Fields))
	for _, cf := range cat.Fields {
		f := NewField{
			Field: Field{
				ProductTypeID:  productTypeID,
				FieldName:      cf.FieldName,
				DisplayName:    optional(cf.DisplayName),
				AttributeGroup: optional(cf.AttributeGroup),
				OrderIndex:     cf.OrderIndex,
			},
			ValidValues: cf.ValidValues,
		}

		if prev, ok := prior[cf.FieldName]; ok {
			f.Required = prev.Required
			f.SelectedValue = prev.SelectedValue
			f.CustomValue = prev.CustomValue
		}
		if f.CustomValue == nil {
			f.CustomValue = optional(cf.DefaultValue)
		}

		fields = append(fields, f)
	}
	return fields
}

// optional converts "" to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
