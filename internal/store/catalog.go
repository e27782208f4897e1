package store

// catalog.go holds the manufacturer / series / equipment type / model
// repositories.

import (
	"context"
	"fmt"

	"github.com/covermaker/covermaker/internal/catalog"
)

// ---------------------------------------------------------------------------
// Manufacturers
// ---------------------------------------------------------------------------

// ListManufacturers returns all manufacturers ordered by name.
func (s *Store) ListManufacturers(ctx context.Context) ([]catalog.Manufacturer, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM manufacturers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	defer rows.Close()

	var out []catalog.Manufacturer
	for rows.Next() {
		var m catalog.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan manufacturer: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ManufacturerByID returns one manufacturer.
func (s *Store) ManufacturerByID(ctx context.Context, id int64) (*catalog.Manufacturer, error) {
	var m catalog.Manufacturer
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM manufacturers WHERE id = $1`, id).
		Scan(&m.ID, &m.Name)
	if err != nil {
		return nil, wrapRead("manufacturer", id, err)
	}
	return &m, nil
}

// CreateManufacturer inserts a manufacturer; names are unique.
func (s *Store) CreateManufacturer(ctx context.Context, name string) (*catalog.Manufacturer, error) {
	var m catalog.Manufacturer
	err := s.pool.QueryRow(ctx,
		`INSERT INTO manufacturers (name) VALUES ($1) RETURNING id, name`, name).
		Scan(&m.ID, &m.Name)
	if err != nil {
		return nil, wrapWrite("manufacturer", err)
	}
	return &m, nil
}

// UpdateManufacturer renames a manufacturer.
func (s *Store) UpdateManufacturer(ctx context.Context, id int64, name string) (*catalog.Manufacturer, error) {
	var m catalog.Manufacturer
	err := s.pool.QueryRow(ctx,
		`UPDATE manufacturers SET name = $2 WHERE id = $1 RETURNING id, name`, id, name).
		Scan(&m.ID, &m.Name)
	if err != nil {
		if conflictErr := wrapWrite("manufacturer", err); IsConflict(conflictErr) {
			return nil, conflictErr
		}
		return nil, wrapRead("manufacturer", id, err)
	}
	return &m, nil
}

// DeleteManufacturer removes a manufacturer and, via FK cascade, its series
// and models.
func (s *Store) DeleteManufacturer(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM manufacturers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete manufacturer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "manufacturer", Key: id}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Series
// ---------------------------------------------------------------------------

// ListSeries returns all series, optionally filtered by manufacturer.
func (s *Store) ListSeries(ctx context.Context, manufacturerID *int64) ([]catalog.Series, error) {
	query := `SELECT id, name, manufacturer_id FROM series ORDER BY name`
	args := []any{}
	if manufacturerID != nil {
		query = `SELECT id, name, manufacturer_id FROM series WHERE manufacturer_id = $1 ORDER BY name`
		args = append(args, *manufacturerID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []catalog.Series
	for rows.Next() {
		var sr catalog.Series
		if err := rows.Scan(&sr.ID, &sr.Name, &sr.ManufacturerID); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// SeriesByID returns one series.
func (s *Store) SeriesByID(ctx context.Context, id int64) (*catalog.Series, error) {
	var sr catalog.Series
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, manufacturer_id FROM series WHERE id = $1`, id).
		Scan(&sr.ID, &sr.Name, &sr.ManufacturerID)
	if err != nil {
		return nil, wrapRead("series", id, err)
	}
	return &sr, nil
}

// CreateSeries inserts a series; names are unique per manufacturer.
func (s *Store) CreateSeries(ctx context.Context, name string, manufacturerID int64) (*catalog.Series, error) {
	var sr catalog.Series
	err := s.pool.QueryRow(ctx,
		`INSERT INTO series (name, manufacturer_id) VALUES ($1, $2)
		 RETURNING id, name, manufacturer_id`, name, manufacturerID).
		Scan(&sr.ID, &sr.Name, &sr.ManufacturerID)
	if err != nil {
		return nil, wrapWrite("series", err)
	}
	return &sr, nil
}

// UpdateSeries updates a series' name and manufacturer.
func (s *Store) UpdateSeries(ctx context.Context, id int64, name string, manufacturerID int64) (*catalog.Series, error) {
	var sr catalog.Series
	err := s.pool.QueryRow(ctx,
		`UPDATE series SET name = $2, manufacturer_id = $3 WHERE id = $1
		 RETURNING id, name, manufacturer_id`, id, name, manufacturerID).
		Scan(&sr.ID, &sr.Name, &sr.ManufacturerID)
	if err != nil {
		if conflictErr := wrapWrite("series", err); IsConflict(conflictErr) {
			return nil, conflictErr
		}
		return nil, wrapRead("series", id, err)
	}
	return &sr, nil
}

// DeleteSeries removes a series and its models.
func (s *Store) DeleteSeries(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM series WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "series", Key: id}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Equipment types
// ---------------------------------------------------------------------------

// ListEquipmentTypes returns all equipment types ordered by name.
func (s *Store) ListEquipmentTypes(ctx context.Context) ([]catalog.EquipmentType, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, uses_angle_options FROM equipment_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list equipment types: %w", err)
	}
	defer rows.Close()

	var out []catalog.EquipmentType
	for rows.Next() {
		var et catalog.EquipmentType
		if err := rows.Scan(&et.ID, &et.Name, &et.UsesAngleOptions); err != nil {
			return nil, fmt.Errorf("scan equipment type: %w", err)
		}
		out = append(out, et)
	}
	return out, rows.Err()
}

// EquipmentTypeByID returns one equipment type.
func (s *Store) EquipmentTypeByID(ctx context.Context, id int64) (*catalog.EquipmentType, error) {
	var et catalog.EquipmentType
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, uses_angle_options FROM equipment_types WHERE id = $1`, id).
		Scan(&et.ID, &et.Name, &et.UsesAngleOptions)
	if err != nil {
		return nil, wrapRead("equipment type", id, err)
	}
	return &et, nil
}

// CreateEquipmentType inserts an equipment type; names are unique.
func (s *Store) CreateEquipmentType(ctx context.Context, name string, usesAngleOptions bool) (*catalog.EquipmentType, error) {
	var et catalog.EquipmentType
	err := s.pool.QueryRow(ctx,
		`INSERT INTO equipment_types (name, uses_angle_options) VALUES ($1, $2)
		 RETURNING id, name, uses_angle_options`, name, usesAngleOptions).
		Scan(&et.ID, &et.Name, &et.UsesAngleOptions)
	if err != nil {
		return nil, wrapWrite("equipment type", err)
	}
	return &et, nil
}

// UpdateEquipmentType updates an equipment type.
func (s *Store) UpdateEquipmentType(ctx context.Context, id int64, name string, usesAngleOptions bool) (*catalog.EquipmentType, error) {
	var et catalog.EquipmentType
	err := s.pool.QueryRow(ctx,
		`UPDATE equipment_types SET name = $2, uses_angle_options = $3 WHERE id = $1
		 RETURNING id, name, uses_angle_options`, id, name, usesAngleOptions).
		Scan(&et.ID, &et.Name, &et.UsesAngleOptions)
	if err != nil {
		if conflictErr := wrapWrite("equipment type", err); IsConflict(conflictErr) {
			return nil, conflictErr
		}
		return nil, wrapRead("equipment type", id, err)
	}
	return &et, nil
}

// DeleteEquipmentType removes an equipment type.
func (s *Store) DeleteEquipmentType(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM equipment_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete equipment type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "equipment type", Key: id}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Models
// ---------------------------------------------------------------------------

const modelColumns = `id, name, series_id, equipment_type_id, width, depth, height,
	handle_length, handle_width, handle_location, angle_type, image_url, parent_sku`

func scanModel(row interface{ Scan(...any) error }) (catalog.Model, error) {
	var m catalog.Model
	err := row.Scan(&m.ID, &m.Name, &m.SeriesID, &m.EquipmentTypeID,
		&m.Width, &m.Depth, &m.Height,
		&m.HandleLength, &m.HandleWidth, &m.HandleLocation, &m.AngleType,
		&m.ImageURL, &m.ParentSKU)
	return m, err
}

// ListModels returns models, optionally filtered by series or equipment type.
func (s *Store) ListModels(ctx context.Context, seriesID, equipmentTypeID *int64) ([]catalog.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models`
	var args []any
	switch {
	case seriesID != nil:
		query += ` WHERE series_id = $1`
		args = append(args, *seriesID)
	case equipmentTypeID != nil:
		query += ` WHERE equipment_type_id = $1`
		args = append(args, *equipmentTypeID)
	}
	query += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []catalog.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ModelByID returns one model.
func (s *Store) ModelByID(ctx context.Context, id int64) (*catalog.Model, error) {
	m, err := scanModel(s.pool.QueryRow(ctx,
		`SELECT `+modelColumns+` FROM models WHERE id = $1`, id))
	if err != nil {
		return nil, wrapRead("model", id, err)
	}
	return &m, nil
}

// ModelsByIDs returns the models with the given IDs, preserving the request
// order. Missing IDs are reported as a NotFoundError.
func (s *Store) ModelsByIDs(ctx context.Context, ids []int64) ([]catalog.Model, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+modelColumns+` FROM models WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("models by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]catalog.Model, len(ids))
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]catalog.Model, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, &NotFoundError{Entity: "model", Key: id}
		}
		out = append(out, m)
	}
	return out, nil
}

// CreateModel inserts a model; names are unique per series.
func (s *Store) CreateModel(ctx context.Context, m *catalog.Model) (*catalog.Model, error) {
	created, err := scanModel(s.pool.QueryRow(ctx,
		`INSERT INTO models (name, series_id, equipment_type_id, width, depth, height,
			handle_length, handle_width, handle_location, angle_type, image_url, parent_sku)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+modelColumns,
		m.Name, m.SeriesID, m.EquipmentTypeID, m.Width, m.Depth, m.Height,
		m.HandleLength, m.HandleWidth, m.HandleLocation, m.AngleType, m.ImageURL, m.ParentSKU))
	if err != nil {
		return nil, wrapWrite("model", err)
	}
	return &created, nil
}

// UpdateModel replaces all mutable attributes of a model.
func (s *Store) UpdateModel(ctx context.Context, m *catalog.Model) (*catalog.Model, error) {
	updated, err := scanModel(s.pool.QueryRow(ctx,
		`UPDATE models SET name = $2, series_id = $3, equipment_type_id = $4,
			width = $5, depth = $6, height = $7, handle_length = $8, handle_width = $9,
			handle_location = $10, angle_type = $11, image_url = $12, parent_sku = $13
		 WHERE id = $1
		 RETURNING `+modelColumns,
		m.ID, m.Name, m.SeriesID, m.EquipmentTypeID, m.Width, m.Depth, m.Height,
		m.HandleLength, m.HandleWidth, m.HandleLocation, m.AngleType, m.ImageURL, m.ParentSKU))
	if err != nil {
		if conflictErr := wrapWrite("model", err); IsConflict(conflictErr) {
			return nil, conflictErr
		}
		return nil, wrapRead("model", m.ID, err)
	}
	return &updated, nil
}

// DeleteModel removes a model.
func (s *Store) DeleteModel(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "model", Key: id}
	}
	return nil
}
