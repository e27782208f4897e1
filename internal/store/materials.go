package store

// materials.go holds the material, colour surcharge and supplier
// repositories.

import (
	"context"
	"fmt"

	"github.com/covermaker/covermaker/internal/catalog"
)

const materialColumns = `id, name, base_color, linear_yard_width,
	cost_per_linear_yard, weight_per_linear_yard, labor_time_minutes`

func scanMaterial(row interface{ Scan(...any) error }) (catalog.Material, error) {
	var m catalog.Material
	err := row.Scan(&m.ID, &m.Name, &m.BaseColor, &m.LinearYardWidth,
		&m.CostPerLinearYard, &m.WeightPerLinearYard, &m.LaborTimeMinutes)
	return m, err
}

// ListMaterials returns all materials ordered by name.
func (s *Store) ListMaterials(ctx context.Context) ([]catalog.Material, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+materialColumns+` FROM materials ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var out []catalog.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MaterialByID returns one material.
func (s *Store) MaterialByID(ctx context.Context, id int64) (*catalog.Material, error) {
	m, err := scanMaterial(s.pool.QueryRow(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id = $1`, id))
	if err != nil {
		return nil, wrapRead("material", id, err)
	}
	return &m, nil
}

// CreateMaterial inserts a material; names are unique.
func (s *Store) CreateMaterial(ctx context.Context, m *catalog.Material) (*catalog.Material, error) {
	created, err := scanMaterial(s.pool.QueryRow(ctx,
		`INSERT INTO materials (name, base_color, linear_yard_width,
			cost_per_linear_yard, weight_per_linear_yard, labor_time_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+materialColumns,
		m.Name, m.BaseColor, m.LinearYardWidth,
		m.CostPerLinearYard, m.WeightPerLinearYard, m.LaborTimeMinutes))
	if err != nil {
		return nil, wrapWrite("material", err)
	}
	return &created, nil
}

// UpdateMaterial replaces all mutable attributes of a material.
func (s *Store) UpdateMaterial(ctx context.Context, m *catalog.Material) (*catalog.Material, error) {
	updated, err := scanMaterial(s.pool.QueryRow(ctx,
		`UPDATE materials SET name = $2, base_color = $3, linear_yard_width = $4,
			cost_per_linear_yard = $5, weight_per_linear_yard = $6, labor_time_minutes = $7
		 WHERE id = $1
		 RETURNING `+materialColumns,
		m.ID, m.Name, m.BaseColor, m.LinearYardWidth,
		m.CostPerLinearYard, m.WeightPerLinearYard, m.LaborTimeMinutes))
	if err != nil {
		if conflictErr := wrapWrite("material", err); IsConflict(conflictErr) {
			return nil, conflictErr
		}
		return nil, wrapRead("material", m.ID, err)
	}
	return &updated, nil
}

// DeleteMaterial removes a material and its colour surcharges.
func (s *Store) DeleteMaterial(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "material", Key: id}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Colour surcharges
// ---------------------------------------------------------------------------

// ColourSurcharges returns a material's colour surcharges.
func (s *Store) ColourSurcharges(ctx context.Context, materialID int64) ([]catalog.ColourSurcharge, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, material_id, colour, surcharge FROM material_colour_surcharges
		 WHERE material_id = $1 ORDER BY colour`, materialID)
	if err != nil {
		return nil, fmt.Errorf("list colour surcharges: %w", err)
	}
	defer rows.Close()

	var out []catalog.ColourSurcharge
	for rows.Next() {
		var cs catalog.ColourSurcharge
		if err := rows.Scan(&cs.ID, &cs.MaterialID, &cs.Colour, &cs.Surcharge); err != nil {
			return nil, fmt.Errorf("scan colour surcharge: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// ColourSurchargeFor returns the surcharge amount for an exact colour match,
// or 0 when the material has no surcharge for that colour.
func (s *Store) ColourSurchargeFor(ctx context.Context, materialID int64, colour string) (float64, error) {
	var surcharge float64
	err := s.pool.QueryRow(ctx,
		`SELECT surcharge FROM material_colour_surcharges
		 WHERE material_id = $1 AND colour = $2`, materialID, colour).
		Scan(&surcharge)
	if err != nil {
		if IsNotFound(wrapRead("colour surcharge", colour, err)) {
			return 0, nil
		}
		return 0, fmt.Errorf("colour surcharge: %w", err)
	}
	return surcharge, nil
}

// AddColourSurcharge inserts a colour surcharge for a material.
func (s *Store) AddColourSurcharge(ctx context.Context, materialID int64, colour string, surcharge float64) (*catalog.ColourSurcharge, error) {
	var cs catalog.ColourSurcharge
	err := s.pool.QueryRow(ctx,
		`INSERT INTO material_colour_surcharges (material_id, colour, surcharge)
		 VALUES ($1, $2, $3)
		 RETURNING id, material_id, colour, surcharge`, materialID, colour, surcharge).
		Scan(&cs.ID, &cs.MaterialID, &cs.Colour, &cs.Surcharge)
	if err != nil {
		return nil, wrapWrite("colour surcharge", err)
	}
	return &cs, nil
}

// DeleteColourSurcharge removes one colour surcharge.
func (s *Store) DeleteColourSurcharge(ctx context.Context, materialID, surchargeID int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM material_colour_surcharges WHERE id = $1 AND material_id = $2`,
		surchargeID, materialID)
	if err != nil {
		return fmt.Errorf("delete colour surcharge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "colour surcharge", Key: surchargeID}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Suppliers
// ---------------------------------------------------------------------------

// ListSuppliers returns all suppliers ordered by name.
func (s *Store) ListSuppliers(ctx context.Context) ([]catalog.Supplier, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []catalog.Supplier
	for rows.Next() {
		var sp catalog.Supplier
		if err := rows.Scan(&sp.ID, &sp.Name); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// CreateSupplier inserts a supplier; names are unique.
func (s *Store) CreateSupplier(ctx context.Context, name string) (*catalog.Supplier, error) {
	var sp catalog.Supplier
	err := s.pool.QueryRow(ctx,
		`INSERT INTO suppliers (name) VALUES ($1) RETURNING id, name`, name).
		Scan(&sp.ID, &sp.Name)
	if err != nil {
		return nil, wrapWrite("supplier", err)
	}
	return &sp, nil
}

// SupplierByID returns one supplier.
func (s *Store) SupplierByID(ctx context.Context, id int64) (*catalog.Supplier, error) {
	var sp catalog.Supplier
	err := s.pool.QueryRow(ctx,
		`SELECT id, name FROM suppliers WHERE id = $1`, id).
		Scan(&sp.ID, &sp.Name)
	if err != nil {
		return nil, wrapRead("supplier", id, err)
	}
	return &sp, nil
}

// UpdateSupplier renames a supplier.
func (s *Store) UpdateSupplier(ctx context.Context, id int64, name string) (*catalog.Supplier, error) {
	var sp catalog.Supplier
	err := s.pool.QueryRow(ctx,
		`UPDATE suppliers SET name = $2 WHERE id = $1 RETURNING id, name`, id, name).
		Scan(&sp.ID, &sp.Name)
	if err != nil {
		if conflictErr := wrapWrite("supplier", err); IsConflict(conflictErr) {
			return nil, conflictErr
		}
		return nil, wrapRead("supplier", id, err)
	}
	return &sp, nil
}

// DeleteSupplier removes a supplier and its material cost records.
func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "supplier", Key: id}
	}
	return nil
}

// SupplierMaterials returns a supplier's material cost records.
func (s *Store) SupplierMaterials(ctx context.Context, supplierID int64) ([]catalog.SupplierMaterial, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, supplier_id, material_id, unit_cost FROM supplier_materials
		 WHERE supplier_id = $1 ORDER BY material_id`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list supplier materials: %w", err)
	}
	defer rows.Close()

	var out []catalog.SupplierMaterial
	for rows.Next() {
		var sm catalog.SupplierMaterial
		if err := rows.Scan(&sm.ID, &sm.SupplierID, &sm.MaterialID, &sm.UnitCost); err != nil {
			return nil, fmt.Errorf("scan supplier material: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// SetSupplierMaterial upserts one supplier's unit cost for a material.
func (s *Store) SetSupplierMaterial(ctx context.Context, supplierID, materialID int64, unitCost float64) (*catalog.SupplierMaterial, error) {
	var sm catalog.SupplierMaterial
	err := s.pool.QueryRow(ctx,
		`INSERT INTO supplier_materials (supplier_id, material_id, unit_cost)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (supplier_id, material_id) DO UPDATE SET unit_cost = EXCLUDED.unit_cost
		 RETURNING id, supplier_id, material_id, unit_cost`, supplierID, materialID, unitCost).
		Scan(&sm.ID, &sm.SupplierID, &sm.MaterialID, &sm.UnitCost)
	if err != nil {
		return nil, wrapWrite("supplier material", err)
	}
	return &sm, nil
}
