package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/covermaker/covermaker/internal/catalog"
	"github.com/covermaker/covermaker/internal/store"
	"github.com/covermaker/covermaker/internal/template"
)

var (
	// ErrNoModels is returned when an export request names no models.
	ErrNoModels = errors.New("export requires at least one model")
	// ErrMixedEquipmentTypes is returned when the requested models do not
	// all share one equipment type. A marketplace template governs a single
	// equipment type, so a mixed batch cannot be rendered.
	ErrMixedEquipmentTypes = errors.New("models span multiple equipment types")
)

// NoTemplateError reports that an equipment type has no product type linked
// and therefore no template to render into.
type NoTemplateError struct {
	EquipmentType string
}

func (e *NoTemplateError) Error() string {
	return fmt.Sprintf("no template linked to equipment type %q", e.EquipmentType)
}

// Store is the catalog access the assembler needs.
type Store interface {
	ModelsByIDs(ctx context.Context, ids []int64) ([]catalog.Model, error)
	SeriesByID(ctx context.Context, id int64) (*catalog.Series, error)
	ManufacturerByID(ctx context.Context, id int64) (*catalog.Manufacturer, error)
	EquipmentTypeByID(ctx context.Context, id int64) (*catalog.EquipmentType, error)
	ProductTypeForEquipmentType(ctx context.Context, equipmentTypeID int64) (*template.ProductType, error)
	FieldsByProductType(ctx context.Context, productTypeID int64) ([]template.Field, error)
}

// Result is a fully resolved export, ready for the XLSX or CSV writer.
// Rows[i][j] is the value of Fields[j] for the i-th requested model, in
// request order. HeaderRows are the template's verbatim header rows.
type Result struct {
	TemplateCode string
	HeaderRows   [][]*string
	Fields       []template.Field
	Rows         [][]string
	FilenameBase string
}

// Assembler builds marketplace exports from the catalog.
type Assembler struct {
	store Store
	log   *slog.Logger
}

func NewAssembler(st Store, log *slog.Logger) *Assembler {
	return &Assembler{store: st, log: log}
}

// Build resolves every template field for every requested model. Models must
// all belong to one equipment type, and that equipment type must have a
// product type linked.
func (a *Assembler) Build(ctx context.Context, modelIDs []int64, listing ListingType) (*Result, error) {
	if len(modelIDs) == 0 {
		return nil, ErrNoModels
	}

	models, err := a.store.ModelsByIDs(ctx, modelIDs)
	if err != nil {
		return nil, err
	}

	equipmentTypeID := models[0].EquipmentTypeID
	for _, m := range models[1:] {
		if m.EquipmentTypeID != equipmentTypeID {
			return nil, ErrMixedEquipmentTypes
		}
	}

	et, err := a.store.EquipmentTypeByID(ctx, equipmentTypeID)
	if err != nil {
		return nil, err
	}

	pt, err := a.store.ProductTypeForEquipmentType(ctx, equipmentTypeID)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, &NoTemplateError{EquipmentType: et.Name}
	}

	fields, err := a.store.FieldsByProductType(ctx, pt.ID)
	if err != nil {
		return nil, err
	}

	contexts := make([]ModelContext, 0, len(models))
	for _, m := range models {
		mc, err := a.modelContext(ctx, m, *et)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, mc)
	}

	rows := make([][]string, 0, len(contexts))
	for _, mc := range contexts {
		row := make([]string, len(fields))
		for j, f := range fields {
			if v := Resolve(f, mc, listing); v != nil {
				row[j] = *v
			}
		}
		rows = append(rows, row)
	}

	result := &Result{
		TemplateCode: pt.Code,
		HeaderRows:   pt.HeaderRows,
		Fields:       fields,
		Rows:         rows,
		FilenameBase: filenameBase(contexts[0]),
	}

	a.log.Info("export assembled",
		"template", pt.Code,
		"models", len(models),
		"fields", len(fields),
		"listing", string(listing))
	return result, nil
}

// modelContext loads a model's series and manufacturer. A missing series or
// manufacturer row is tolerated; the corresponding substitutions come out
// empty.
func (a *Assembler) modelContext(ctx context.Context, m catalog.Model, et catalog.EquipmentType) (ModelContext, error) {
	mc := ModelContext{Model: m, EquipmentType: et}

	series, err := a.store.SeriesByID(ctx, m.SeriesID)
	if err != nil {
		if store.IsNotFound(err) {
			a.log.Warn("model has no series row", "model_id", m.ID, "series_id", m.SeriesID)
			return mc, nil
		}
		return mc, err
	}
	mc.Series = series

	mfr, err := a.store.ManufacturerByID(ctx, series.ManufacturerID)
	if err != nil {
		if store.IsNotFound(err) {
			a.log.Warn("series has no manufacturer row", "series_id", series.ID)
			return mc, nil
		}
		return mc, err
	}
	mc.Manufacturer = mfr
	return mc, nil
}

// filenameBase names the export file after the first model's manufacturer
// and series plus the current date, e.g. "Amazon_FenderToneMaster_20260901".
func filenameBase(mc ModelContext) string {
	stamp := time.Now().UTC().Format("20060102")
	return fmt.Sprintf("Amazon_%s%s_%s",
		stripNonAlnum(mc.manufacturerName()), stripNonAlnum(mc.seriesName()), stamp)
}
