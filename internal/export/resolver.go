// Package export renders marketplace listing spreadsheets from the catalog.
// The resolver turns one template field plus one model into a cell value; the
// assembler lines resolved cells up under the template's header rows.
package export

import (
	"fmt"
	"strings"

	"github.com/covermaker/covermaker/internal/catalog"
	"github.com/covermaker/covermaker/internal/template"
)

// ListingType selects how contribution-style fields resolve.
type ListingType string

const (
	// ListingIndividual lists each model as its own product.
	ListingIndividual ListingType = "individual"
	// ListingParent lists models as children under a shared parent product.
	ListingParent ListingType = "parent_child"
)

// ModelContext carries the catalog rows a single model's cells resolve
// against. Series and Manufacturer may be nil when the linked rows are gone;
// resolution then degrades to empty substitutions rather than failing.
type ModelContext struct {
	Model         catalog.Model
	Series        *catalog.Series
	Manufacturer  *catalog.Manufacturer
	EquipmentType catalog.EquipmentType
}

func (c ModelContext) manufacturerName() string {
	if c.Manufacturer == nil {
		return ""
	}
	return c.Manufacturer.Name
}

func (c ModelContext) seriesName() string {
	if c.Series == nil {
		return ""
	}
	return c.Series.Name
}

// imagePrefixes maps image locator field name prefixes to their marketplace
// image slot number. Matching is by prefix; marketplaces suffix variants of
// these names per template revision.
var imagePrefixes = map[string]string{
	"main_product_image_locator":    "001",
	"other_product_image_locator_1": "002",
	"other_product_image_locator_2": "003",
	"other_product_image_locator_3": "004",
	"other_product_image_locator_4": "005",
	"other_product_image_locator_5": "006",
	"other_product_image_locator_6": "007",
	"other_product_image_locator_7": "008",
	"other_product_image_locator_8": "009",
	"swatch_product_image_locator":  "010",
}

// imageSlot returns the image sequence number for an image locator field
// name, matching on prefix.
func imageSlot(name string) (string, bool) {
	for prefix, slot := range imagePrefixes {
		if strings.HasPrefix(name, prefix) {
			return slot, true
		}
	}
	return "", false
}

// Resolve produces the cell value for one field and one model, or nil when
// nothing applies and the cell should render empty.
//
// Precedence: contribution SKU fields on individual listings use the model's
// parent SKU; then a custom value with placeholders substituted; then the
// selected valid value; then per-field-name heuristics.
func Resolve(field template.Field, mc ModelContext, listing ListingType) *string {
	name := strings.ToLower(field.FieldName)

	if strings.Contains(name, "contribution_sku") && listing == ListingIndividual {
		return mc.Model.ParentSKU
	}

	if field.CustomValue != nil && *field.CustomValue != "" {
		v := substitute(*field.CustomValue, field.FieldName, mc)
		return &v
	}

	if field.SelectedValue != nil && *field.SelectedValue != "" {
		return field.SelectedValue
	}

	return heuristic(name, mc)
}

// substitute expands the bracketed placeholders in a custom value. Image
// locator fields additionally get their slot number substituted and their
// name components stripped to bare alphanumerics, matching how image files
// are keyed on the marketplace side.
func substitute(value, fieldName string, mc ModelContext) string {
	mfr := mc.manufacturerName()
	series := mc.seriesName()
	model := mc.Model.Name

	prefix, isImage := imageSlot(strings.ToLower(fieldName))
	if isImage {
		mfr = stripNonAlnum(mfr)
		series = stripNonAlnum(series)
		model = stripNonAlnum(model)
		value = strings.ReplaceAll(value, "[IMAGE_NUMBER]", prefix)
		value = strings.ReplaceAll(value, "[Image_Number]", prefix)
	}

	value = strings.ReplaceAll(value, "[MANUFACTURER_NAME]", mfr)
	value = strings.ReplaceAll(value, "[Manufacturer_Name]", mfr)
	value = strings.ReplaceAll(value, "[SERIES_NAME]", series)
	value = strings.ReplaceAll(value, "[Series_Name]", series)
	value = strings.ReplaceAll(value, "[MODEL_NAME]", model)
	value = strings.ReplaceAll(value, "[Model_Name]", model)
	value = strings.ReplaceAll(value, "[EQUIPMENT_TYPE]", mc.EquipmentType.Name)
	value = strings.ReplaceAll(value, "[Equipment_Type]", mc.EquipmentType.Name)
	return value
}

// heuristic fills well-known marketplace fields from catalog data when the
// template supplies no value of its own. Matching is by substring so that
// marketplace variants like item_name1 still resolve.
func heuristic(name string, mc ModelContext) *string {
	switch {
	case strings.Contains(name, "item_name"), strings.Contains(name, "product_name"), strings.Contains(name, "title"):
		v := fmt.Sprintf("%s %s %s Cover", mc.manufacturerName(), mc.seriesName(), mc.Model.Name)
		return &v
	case strings.Contains(name, "brand"):
		v := mc.manufacturerName()
		return &v
	case strings.Contains(name, "model"):
		v := mc.Model.Name
		return &v
	case strings.Contains(name, "manufacturer"):
		v := mc.manufacturerName()
		return &v
	}
	return nil
}

// stripNonAlnum removes every character outside [A-Za-z0-9].
func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
