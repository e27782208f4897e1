package store

// templates.go holds the product type / field / valid value / keyword
// repositories and the atomic catalog swap used by the template importer.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/covermaker/covermaker/internal/template"
)

// ---------------------------------------------------------------------------
// Product types
// ---------------------------------------------------------------------------

func scanProductType(row interface{ Scan(...any) error }) (template.ProductType, error) {
	var (
		pt         template.ProductType
		headerJSON []byte
	)
	if err := row.Scan(&pt.ID, &pt.Code, &pt.Name, &pt.Description, &headerJSON); err != nil {
		return pt, err
	}
	if len(headerJSON) > 0 {
		if err := json.Unmarshal(headerJSON, &pt.HeaderRows); err != nil {
			return pt, fmt.Errorf("decode header rows: %w", err)
		}
	}
	return pt, nil
}

const productTypeColumns = `id, code, name, description, header_rows`

// ListProductTypes returns all product types ordered by code.
func (s *Store) ListProductTypes(ctx context.Context) ([]template.ProductType, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productTypeColumns+` FROM product_types ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list product types: %w", err)
	}
	defer rows.Close()

	var out []template.ProductType
	for rows.Next() {
		pt, err := scanProductType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product type: %w", err)
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

// ProductTypeByCode returns the product type with the given unique code.
func (s *Store) ProductTypeByCode(ctx context.Context, code string) (*template.ProductType, error) {
	pt, err := scanProductType(s.pool.QueryRow(ctx,
		`SELECT `+productTypeColumns+` FROM product_types WHERE code = $1`, code))
	if err != nil {
		return nil, wrapRead("product type", code, err)
	}
	return &pt, nil
}

// ProductTypeByID returns one product type.
func (s *Store) ProductTypeByID(ctx context.Context, id int64) (*template.ProductType, error) {
	pt, err := scanProductType(s.pool.QueryRow(ctx,
		`SELECT `+productTypeColumns+` FROM product_types WHERE id = $1`, id))
	if err != nil {
		return nil, wrapRead("product type", id, err)
	}
	return &pt, nil
}

// EnsureProductType returns the product type with the given code, creating
// it when absent. The display name of a new product type is derived from the
// code ("guitar_amp_case" becomes "Guitar Amp Case").
func (s *Store) EnsureProductType(ctx context.Context, code string) (*template.ProductType, error) {
	pt, err := s.ProductTypeByCode(ctx, code)
	if err == nil {
		return pt, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	name := codeToName(code)
	created, err := scanProductType(s.pool.QueryRow(ctx,
		`INSERT INTO product_types (code, name) VALUES ($1, $2)
		 RETURNING `+productTypeColumns, code, name))
	if err != nil {
		return nil, wrapWrite("product type", err)
	}
	return &created, nil
}

// codeToName turns a product code into a readable default display name.
func codeToName(code string) string {
	words := strings.Split(strings.ReplaceAll(code, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// DeleteProductType removes a product type and, via FK cascade, its fields,
// valid values, keywords and equipment type links.
func (s *Store) DeleteProductType(ctx context.Context, code string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM product_types WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete product type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "product type", Key: code}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Fields and valid values
// ---------------------------------------------------------------------------

const fieldColumns = `id, product_type_id, field_name, display_name, attribute_group,
	order_index, required, selected_value, custom_value`

func scanField(row interface{ Scan(...any) error }) (template.Field, error) {
	var f template.Field
	err := row.Scan(&f.ID, &f.ProductTypeID, &f.FieldName, &f.DisplayName, &f.AttributeGroup,
		&f.OrderIndex, &f.Required, &f.SelectedValue, &f.CustomValue)
	return f, err
}

// FieldsByProductType returns a product type's fields in export column order.
func (s *Store) FieldsByProductType(ctx context.Context, productTypeID int64) ([]template.Field, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+fieldColumns+` FROM product_type_fields
		 WHERE product_type_id = $1 ORDER BY order_index`, productTypeID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()

	var out []template.Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FieldByID returns one field.
func (s *Store) FieldByID(ctx context.Context, id int64) (*template.Field, error) {
	f, err := scanField(s.pool.QueryRow(ctx,
		`SELECT `+fieldColumns+` FROM product_type_fields WHERE id = $1`, id))
	if err != nil {
		return nil, wrapRead("field", id, err)
	}
	return &f, nil
}

// UpdateFieldSettings updates the user-editable attributes of a field. Nil
// pointers leave the corresponding attribute unchanged.
func (s *Store) UpdateFieldSettings(ctx context.Context, id int64, required *bool, selectedValue, customValue **string) (*template.Field, error) {
	f, err := s.FieldByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if required != nil {
		f.Required = *required
	}
	if selectedValue != nil {
		f.SelectedValue = *selectedValue
	}
	if customValue != nil {
		f.CustomValue = *customValue
	}

	updated, err := scanField(s.pool.QueryRow(ctx,
		`UPDATE product_type_fields
		 SET required = $2, selected_value = $3, custom_value = $4
		 WHERE id = $1
		 RETURNING `+fieldColumns,
		id, f.Required, f.SelectedValue, f.CustomValue))
	if err != nil {
		return nil, wrapRead("field", id, err)
	}
	return &updated, nil
}

// FieldSettings returns the user-edited settings of a product type's current
// fields keyed by field name, for snapshotting before a re-import.
func (s *Store) FieldSettings(ctx context.Context, productTypeID int64) (map[string]template.FieldSettings, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT field_name, required, selected_value, custom_value
		 FROM product_type_fields WHERE product_type_id = $1`, productTypeID)
	if err != nil {
		return nil, fmt.Errorf("field settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]template.FieldSettings)
	for rows.Next() {
		var (
			name     string
			settings template.FieldSettings
		)
		if err := rows.Scan(&name, &settings.Required, &settings.SelectedValue, &settings.CustomValue); err != nil {
			return nil, fmt.Errorf("scan field settings: %w", err)
		}
		out[name] = settings
	}
	return out, rows.Err()
}

// ValidValuesForField returns a field's selectable values in insertion order.
func (s *Store) ValidValuesForField(ctx context.Context, fieldID int64) ([]template.ValidValue, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, field_id, value FROM product_type_field_values
		 WHERE field_id = $1 ORDER BY id`, fieldID)
	if err != nil {
		return nil, fmt.Errorf("list valid values: %w", err)
	}
	defer rows.Close()

	var out []template.ValidValue
	for rows.Next() {
		var vv template.ValidValue
		if err := rows.Scan(&vv.ID, &vv.FieldID, &vv.Value); err != nil {
			return nil, fmt.Errorf("scan valid value: %w", err)
		}
		out = append(out, vv)
	}
	return out, rows.Err()
}

// AddValidValue inserts one selectable value for a field. Duplicate value
// strings per field are rejected.
func (s *Store) AddValidValue(ctx context.Context, fieldID int64, value string) (*template.ValidValue, error) {
	var vv template.ValidValue
	err := s.pool.QueryRow(ctx,
		`INSERT INTO product_type_field_values (field_id, value) VALUES ($1, $2)
		 RETURNING id, field_id, value`, fieldID, value).
		Scan(&vv.ID, &vv.FieldID, &vv.Value)
	if err != nil {
		return nil, wrapWrite("valid value", err)
	}
	return &vv, nil
}

// DeleteValidValue removes one selectable value from a field.
func (s *Store) DeleteValidValue(ctx context.Context, fieldID, valueID int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM product_type_field_values WHERE id = $1 AND field_id = $2`,
		valueID, fieldID)
	if err != nil {
		return fmt.Errorf("delete valid value: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "valid value", Key: valueID}
	}
	return nil
}

// KeywordsByProductType returns a product type's keywords.
func (s *Store) KeywordsByProductType(ctx context.Context, productTypeID int64) ([]template.Keyword, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, product_type_id, keyword FROM product_type_keywords
		 WHERE product_type_id = $1 ORDER BY id`, productTypeID)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	defer rows.Close()

	var out []template.Keyword
	for rows.Next() {
		var kw template.Keyword
		if err := rows.Scan(&kw.ID, &kw.ProductTypeID, &kw.Keyword); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		out = append(out, kw)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Catalog swap
// ---------------------------------------------------------------------------

// ReplaceCatalog atomically replaces a product type's fields, valid values
// and keywords with the given set and updates its header rows. Either the
// entire swap commits or none of it does.
func (s *Store) ReplaceCatalog(ctx context.Context, productTypeID int64, headerRows [][]*string, fields []template.NewField, keywords []string) error {
	headerJSON, err := json.Marshal(headerRows)
	if err != nil {
		return fmt.Errorf("encode header rows: %w", err)
	}

	return s.withTx(ctx, func(tx DBTX) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM product_type_field_values
			 WHERE field_id IN (SELECT id FROM product_type_fields WHERE product_type_id = $1)`,
			productTypeID); err != nil {
			return fmt.Errorf("clear valid values: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM product_type_fields WHERE product_type_id = $1`, productTypeID); err != nil {
			return fmt.Errorf("clear fields: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM product_type_keywords WHERE product_type_id = $1`, productTypeID); err != nil {
			return fmt.Errorf("clear keywords: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE product_types SET header_rows = $2 WHERE id = $1`,
			productTypeID, headerJSON); err != nil {
			return fmt.Errorf("update header rows: %w", err)
		}

		for _, f := range fields {
			var fieldID int64
			err := tx.QueryRow(ctx,
				`INSERT INTO product_type_fields (product_type_id, field_name, display_name,
					attribute_group, order_index, required, selected_value, custom_value)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				 RETURNING id`,
				productTypeID, f.FieldName, f.DisplayName, f.AttributeGroup,
				f.OrderIndex, f.Required, f.SelectedValue, f.CustomValue).
				Scan(&fieldID)
			if err != nil {
				return wrapWrite("field", err)
			}

			for _, value := range f.ValidValues {
				if _, err := tx.Exec(ctx,
					`INSERT INTO product_type_field_values (field_id, value) VALUES ($1, $2)`,
					fieldID, value); err != nil {
					return wrapWrite("valid value", err)
				}
			}
		}

		for _, kw := range keywords {
			if _, err := tx.Exec(ctx,
				`INSERT INTO product_type_keywords (product_type_id, keyword) VALUES ($1, $2)`,
				productTypeID, kw); err != nil {
				return wrapWrite("keyword", err)
			}
		}

		return nil
	})
}

// ---------------------------------------------------------------------------
// Equipment type links
// ---------------------------------------------------------------------------

// ListEquipmentTypeLinks returns all equipment type to product type links.
func (s *Store) ListEquipmentTypeLinks(ctx context.Context) ([]template.EquipmentTypeLink, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, equipment_type_id, product_type_id FROM equipment_type_product_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list equipment type links: %w", err)
	}
	defer rows.Close()

	var out []template.EquipmentTypeLink
	for rows.Next() {
		var l template.EquipmentTypeLink
		if err := rows.Scan(&l.ID, &l.EquipmentTypeID, &l.ProductTypeID); err != nil {
			return nil, fmt.Errorf("scan equipment type link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateEquipmentTypeLink ties an equipment type to a product type.
// Duplicate pairs are rejected.
func (s *Store) CreateEquipmentTypeLink(ctx context.Context, equipmentTypeID, productTypeID int64) (*template.EquipmentTypeLink, error) {
	var l template.EquipmentTypeLink
	err := s.pool.QueryRow(ctx,
		`INSERT INTO equipment_type_product_types (equipment_type_id, product_type_id)
		 VALUES ($1, $2)
		 RETURNING id, equipment_type_id, product_type_id`, equipmentTypeID, productTypeID).
		Scan(&l.ID, &l.EquipmentTypeID, &l.ProductTypeID)
	if err != nil {
		return nil, wrapWrite("equipment type link", err)
	}
	return &l, nil
}

// DeleteEquipmentTypeLink removes one link.
func (s *Store) DeleteEquipmentTypeLink(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM equipment_type_product_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete equipment type link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "equipment type link", Key: id}
	}
	return nil
}

// ProductTypeForEquipmentType returns the product type governing an
// equipment type's exports, or nil when no link exists.
func (s *Store) ProductTypeForEquipmentType(ctx context.Context, equipmentTypeID int64) (*template.ProductType, error) {
	var productTypeID int64
	err := s.pool.QueryRow(ctx,
		`SELECT product_type_id FROM equipment_type_product_types
		 WHERE equipment_type_id = $1
		 ORDER BY id
		 LIMIT 1`, equipmentTypeID).
		Scan(&productTypeID)
	if err != nil {
		if IsNotFound(wrapRead("equipment type link", equipmentTypeID, err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("equipment type link: %w", err)
	}
	return s.ProductTypeByID(ctx, productTypeID)
}
