package export

import (
	"testing"

	"github.com/covermaker/covermaker/internal/catalog"
	"github.com/covermaker/covermaker/internal/template"
)

func strptr(s string) *string { return &s }

func fixtureContext() ModelContext {
	return ModelContext{
		Model:         catalog.Model{ID: 1, Name: "Tone-Master 1x12", SeriesID: 2, EquipmentTypeID: 3, ParentSKU: strptr("FEN-TM-112")},
		Series:        &catalog.Series{ID: 2, Name: "Tone Master", ManufacturerID: 4},
		Manufacturer:  &catalog.Manufacturer{ID: 4, Name: "Fender USA"},
		EquipmentType: catalog.EquipmentType{ID: 3, Name: "Combo Amp"},
	}
}

func field(name string, custom, selected *string) template.Field {
	return template.Field{FieldName: name, CustomValue: custom, SelectedValue: selected}
}

func TestResolve_ContributionSKUOnIndividualListing(t *testing.T) {
	f := field("parent_child_contribution_sku", strptr("ignored [MODEL_NAME]"), nil)

	got := Resolve(f, fixtureContext(), ListingIndividual)
	if got == nil || *got != "FEN-TM-112" {
		t.Errorf("Resolve = %v, want FEN-TM-112", got)
	}
}

func TestResolve_ContributionSKUOnParentListingFallsThrough(t *testing.T) {
	f := field("parent_child_contribution_sku", strptr("[MODEL_NAME]"), nil)

	got := Resolve(f, fixtureContext(), ListingParent)
	if got == nil || *got != "Tone-Master 1x12" {
		t.Errorf("Resolve = %v, want substituted custom value", got)
	}
}

func TestResolve_ContributionSKUWithNilParentSKU(t *testing.T) {
	mc := fixtureContext()
	mc.Model.ParentSKU = nil
	f := field("contribution_sku", nil, nil)

	if got := Resolve(f, mc, ListingIndividual); got != nil {
		t.Errorf("Resolve = %q, want nil", *got)
	}
}

func TestResolve_CustomValueSubstitution(t *testing.T) {
	tests := []struct {
		name   string
		custom string
		want   string
	}{
		{"upper manufacturer", "[MANUFACTURER_NAME] cover", "Fender USA cover"},
		{"mixed-case manufacturer", "[Manufacturer_Name] cover", "Fender USA cover"},
		{"series and model", "[SERIES_NAME] / [MODEL_NAME]", "Tone Master / Tone-Master 1x12"},
		{"mixed-case series and model", "[Series_Name] / [Model_Name]", "Tone Master / Tone-Master 1x12"},
		{"equipment type", "Padded [EQUIPMENT_TYPE] Cover", "Padded Combo Amp Cover"},
		{"mixed-case equipment type", "Padded [Equipment_Type] Cover", "Padded Combo Amp Cover"},
		{"no placeholders", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := field("some_field", strptr(tt.custom), strptr("never used"))
			got := Resolve(f, fixtureContext(), ListingIndividual)
			if got == nil || *got != tt.want {
				t.Errorf("Resolve = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_ImageLocatorStripsAndNumbers(t *testing.T) {
	custom := strptr("https://img.example.com/[MANUFACTURER_NAME]/[SERIES_NAME]/[MODEL_NAME]_[IMAGE_NUMBER].jpg")

	tests := []struct {
		fieldName string
		want      string
	}{
		{"main_product_image_locator", "https://img.example.com/FenderUSA/ToneMaster/ToneMaster1x12_001.jpg"},
		{"other_product_image_locator_1", "https://img.example.com/FenderUSA/ToneMaster/ToneMaster1x12_002.jpg"},
		{"other_product_image_locator_8", "https://img.example.com/FenderUSA/ToneMaster/ToneMaster1x12_009.jpg"},
		{"swatch_product_image_locator", "https://img.example.com/FenderUSA/ToneMaster/ToneMaster1x12_010.jpg"},
		// Suffixed variants still classify as image fields by prefix.
		{"other_product_image_locator_2_locator", "https://img.example.com/FenderUSA/ToneMaster/ToneMaster1x12_003.jpg"},
	}
	for _, tt := range tests {
		f := field(tt.fieldName, custom, nil)
		got := Resolve(f, fixtureContext(), ListingIndividual)
		if got == nil || *got != tt.want {
			t.Errorf("Resolve(%s) = %v, want %q", tt.fieldName, got, tt.want)
		}
	}
}

func TestResolve_ImageLocatorMixedCasePlaceholders(t *testing.T) {
	f := field("main_product_image_locator", strptr("[Model_Name]_[Image_Number].jpg"), nil)

	got := Resolve(f, fixtureContext(), ListingIndividual)
	if got == nil || *got != "ToneMaster1x12_001.jpg" {
		t.Errorf("Resolve = %v, want ToneMaster1x12_001.jpg", got)
	}
}

func TestResolve_ImageFieldWithoutSlotPlaceholder(t *testing.T) {
	f := field("other_product_image_locator_2_locator", strptr("[Manufacturer_Name]/[Model_Name].jpg"), nil)

	got := Resolve(f, fixtureContext(), ListingIndividual)
	if got == nil || *got != "FenderUSA/ToneMaster1x12.jpg" {
		t.Errorf("Resolve = %v, want FenderUSA/ToneMaster1x12.jpg", got)
	}
}

func TestResolve_NonImageFieldKeepsNamePunctuation(t *testing.T) {
	f := field("bullet_point1", strptr("[MODEL_NAME]"), nil)

	got := Resolve(f, fixtureContext(), ListingIndividual)
	if got == nil || *got != "Tone-Master 1x12" {
		t.Errorf("Resolve = %v, want unstripped model name", got)
	}
}

func TestResolve_SelectedValueWhenNoCustom(t *testing.T) {
	f := field("color_name", nil, strptr("Black"))

	got := Resolve(f, fixtureContext(), ListingIndividual)
	if got == nil || *got != "Black" {
		t.Errorf("Resolve = %v, want Black", got)
	}
}

func TestResolve_EmptyCustomFallsToSelected(t *testing.T) {
	f := field("color_name", strptr(""), strptr("Black"))

	got := Resolve(f, fixtureContext(), ListingIndividual)
	if got == nil || *got != "Black" {
		t.Errorf("Resolve = %v, want Black", got)
	}
}

func TestResolve_Heuristics(t *testing.T) {
	tests := []struct {
		fieldName string
		want      string
	}{
		{"item_name", "Fender USA Tone Master Tone-Master 1x12 Cover"},
		{"product_name", "Fender USA Tone Master Tone-Master 1x12 Cover"},
		{"title", "Fender USA Tone Master Tone-Master 1x12 Cover"},
		{"brand", "Fender USA"},
		{"brand_name", "Fender USA"},
		{"manufacturer", "Fender USA"},
		{"model", "Tone-Master 1x12"},
		{"model_number", "Tone-Master 1x12"},
		{"model_name", "Tone-Master 1x12"},
		// Substring matches, not exact field names.
		{"item_name1", "Fender USA Tone Master Tone-Master 1x12 Cover"},
		{"recommended_browse_nodes_model", "Tone-Master 1x12"},
	}
	for _, tt := range tests {
		f := field(tt.fieldName, nil, nil)
		got := Resolve(f, fixtureContext(), ListingIndividual)
		if got == nil || *got != tt.want {
			t.Errorf("Resolve(%s) = %v, want %q", tt.fieldName, got, tt.want)
		}
	}
}

func TestResolve_UnknownFieldIsNil(t *testing.T) {
	f := field("outer_material_type", nil, nil)

	if got := Resolve(f, fixtureContext(), ListingIndividual); got != nil {
		t.Errorf("Resolve = %q, want nil", *got)
	}
}

func TestResolve_MissingSeriesAndManufacturer(t *testing.T) {
	mc := fixtureContext()
	mc.Series = nil
	mc.Manufacturer = nil

	f := field("some_field", strptr("[MANUFACTURER_NAME]|[SERIES_NAME]|[MODEL_NAME]"), nil)
	got := Resolve(f, mc, ListingIndividual)
	if got == nil || *got != "||Tone-Master 1x12" {
		t.Errorf("Resolve = %v, want empty substitutions", got)
	}

	brand := field("brand", nil, nil)
	if got := Resolve(brand, mc, ListingIndividual); got == nil || *got != "" {
		t.Errorf("brand heuristic = %v, want empty string", got)
	}
}

func TestStripNonAlnum(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fender USA", "FenderUSA"},
		{"Tone-Master 1x12", "ToneMaster1x12"},
		{"", ""},
		{"already", "already"},
	}
	for _, tt := range tests {
		if got := stripNonAlnum(tt.in); got != tt.want {
			t.Errorf("stripNonAlnum(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
