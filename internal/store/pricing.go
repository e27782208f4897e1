package store

// pricing.go holds the pricing option, design option and shipping rate
// repositories.

import (
	"context"
	"fmt"

	"github.com/covermaker/covermaker/internal/catalog"
)

// ---------------------------------------------------------------------------
// Pricing options
// ---------------------------------------------------------------------------

// ListPricingOptions returns all pricing options ordered by name.
func (s *Store) ListPricingOptions(ctx context.Context) ([]catalog.PricingOption, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, price FROM pricing_options ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list pricing options: %w", err)
	}
	defer rows.Close()

	var out []catalog.PricingOption
	for rows.Next() {
		var po catalog.PricingOption
		if err := rows.Scan(&po.ID, &po.Name, &po.Price); err != nil {
			return nil, fmt.Errorf("scan pricing option: %w", err)
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

// PricingOptionByID returns one pricing option.
func (s *Store) PricingOptionByID(ctx context.Context, id int64) (*catalog.PricingOption, error) {
	var po catalog.PricingOption
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, price FROM pricing_options WHERE id = $1`, id).
		Scan(&po.ID, &po.Name, &po.Price)
	if err != nil {
		return nil, wrapRead("pricing option", id, err)
	}
	return &po, nil
}

// PricingOptionByName returns the pricing option with the exact given name,
// or nil when none exists.
func (s *Store) PricingOptionByName(ctx context.Context, name string) (*catalog.PricingOption, error) {
	var po catalog.PricingOption
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, price FROM pricing_options WHERE name = $1`, name).
		Scan(&po.ID, &po.Name, &po.Price)
	if err != nil {
		if IsNotFound(wrapRead("pricing option", name, err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("pricing option by name: %w", err)
	}
	return &po, nil
}

// CreatePricingOption inserts a pricing option; names are unique.
func (s *Store) CreatePricingOption(ctx context.Context, name string, price float64) (*catalog.PricingOption, error) {
	var po catalog.PricingOption
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pricing_options (name, price) VALUES ($1, $2) RETURNING id, name, price`,
		name, price).
		Scan(&po.ID, &po.Name, &po.Price)
	if err != nil {
		return nil, wrapWrite("pricing option", err)
	}
	return &po, nil
}

// UpdatePricingOption updates a pricing option.
func (s *Store) UpdatePricingOption(ctx context.Context, id int64, name string, price float64) (*catalog.PricingOption, error) {
	var po catalog.PricingOption
	err := s.pool.QueryRow(ctx,
		`UPDATE pricing_options SET name = $2, price = $3 WHERE id = $1 RETURNING id, name, price`,
		id, name, price).
		Scan(&po.ID, &po.Name, &po.Price)
	if err != nil {
		if conflictErr := wrapWrite("pricing option", err); IsConflict(conflictErr) {
			return nil, conflictErr
		}
		return nil, wrapRead("pricing option", id, err)
	}
	return &po, nil
}

// DeletePricingOption removes a pricing option and its assignments.
func (s *Store) DeletePricingOption(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM pricing_options WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pricing option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "pricing option", Key: id}
	}
	return nil
}

// PricingOptionsForEquipmentType returns the pricing options assigned to an
// equipment type.
func (s *Store) PricingOptionsForEquipmentType(ctx context.Context, equipmentTypeID int64) ([]catalog.PricingOption, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT po.id, po.name, po.price
		 FROM pricing_options po
		 JOIN equipment_type_pricing_options a ON a.pricing_option_id = po.id
		 WHERE a.equipment_type_id = $1
		 ORDER BY po.name`, equipmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("pricing options for equipment type: %w", err)
	}
	defer rows.Close()

	var out []catalog.PricingOption
	for rows.Next() {
		var po catalog.PricingOption
		if err := rows.Scan(&po.ID, &po.Name, &po.Price); err != nil {
			return nil, fmt.Errorf("scan pricing option: %w", err)
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

// AssignPricingOptions replaces an equipment type's pricing option
// assignments with the given set, in one transaction.
func (s *Store) AssignPricingOptions(ctx context.Context, equipmentTypeID int64, optionIDs []int64) error {
	return s.withTx(ctx, func(tx DBTX) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM equipment_type_pricing_options WHERE equipment_type_id = $1`,
			equipmentTypeID); err != nil {
			return fmt.Errorf("clear pricing option assignments: %w", err)
		}
		for _, optionID := range optionIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO equipment_type_pricing_options (equipment_type_id, pricing_option_id)
				 VALUES ($1, $2)`, equipmentTypeID, optionID); err != nil {
				return wrapWrite("pricing option assignment", err)
			}
		}
		return nil
	})
}

// ---------------------------------------------------------------------------
// Design options
// ---------------------------------------------------------------------------

// ListDesignOptions returns all design options ordered by name.
func (s *Store) ListDesignOptions(ctx context.Context) ([]catalog.DesignOption, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description FROM design_options ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list design options: %w", err)
	}
	defer rows.Close()

	var out []catalog.DesignOption
	for rows.Next() {
		var do catalog.DesignOption
		if err := rows.Scan(&do.ID, &do.Name, &do.Description); err != nil {
			return nil, fmt.Errorf("scan design option: %w", err)
		}
		out = append(out, do)
	}
	return out, rows.Err()
}

// CreateDesignOption inserts a design option; names are unique.
func (s *Store) CreateDesignOption(ctx context.Context, name string, description *string) (*catalog.DesignOption, error) {
	var do catalog.DesignOption
	err := s.pool.QueryRow(ctx,
		`INSERT INTO design_options (name, description) VALUES ($1, $2)
		 RETURNING id, name, description`, name, description).
		Scan(&do.ID, &do.Name, &do.Description)
	if err != nil {
		return nil, wrapWrite("design option", err)
	}
	return &do, nil
}

// DeleteDesignOption removes a design option and its assignments.
func (s *Store) DeleteDesignOption(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM design_options WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete design option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "design option", Key: id}
	}
	return nil
}

// DesignOptionsForEquipmentType returns the design options assigned to an
// equipment type.
func (s *Store) DesignOptionsForEquipmentType(ctx context.Context, equipmentTypeID int64) ([]catalog.DesignOption, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT d.id, d.name, d.description
		 FROM design_options d
		 JOIN equipment_type_design_options a ON a.design_option_id = d.id
		 WHERE a.equipment_type_id = $1
		 ORDER BY d.name`, equipmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("design options for equipment type: %w", err)
	}
	defer rows.Close()

	var out []catalog.DesignOption
	for rows.Next() {
		var do catalog.DesignOption
		if err := rows.Scan(&do.ID, &do.Name, &do.Description); err != nil {
			return nil, fmt.Errorf("scan design option: %w", err)
		}
		out = append(out, do)
	}
	return out, rows.Err()
}

// AssignDesignOptions replaces an equipment type's design option assignments
// with the given set, in one transaction.
func (s *Store) AssignDesignOptions(ctx context.Context, equipmentTypeID int64, optionIDs []int64) error {
	return s.withTx(ctx, func(tx DBTX) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM equipment_type_design_options WHERE equipment_type_id = $1`,
			equipmentTypeID); err != nil {
			return fmt.Errorf("clear design option assignments: %w", err)
		}
		for _, optionID := range optionIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO equipment_type_design_options (equipment_type_id, design_option_id)
				 VALUES ($1, $2)`, equipmentTypeID, optionID); err != nil {
				return wrapWrite("design option assignment", err)
			}
		}
		return nil
	})
}

// ---------------------------------------------------------------------------
// Shipping rates
// ---------------------------------------------------------------------------

const shippingRateColumns = `id, carrier, min_weight, max_weight, zone, rate, surcharge`

func scanShippingRate(row interface{ Scan(...any) error }) (catalog.ShippingRate, error) {
	var r catalog.ShippingRate
	err := row.Scan(&r.ID, &r.Carrier, &r.MinWeight, &r.MaxWeight, &r.Zone, &r.Rate, &r.Surcharge)
	return r, err
}

// ListShippingRates returns the full rate table.
func (s *Store) ListShippingRates(ctx context.Context) ([]catalog.ShippingRate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+shippingRateColumns+` FROM shipping_rates ORDER BY carrier, zone, min_weight`)
	if err != nil {
		return nil, fmt.Errorf("list shipping rates: %w", err)
	}
	defer rows.Close()

	var out []catalog.ShippingRate
	for rows.Next() {
		r, err := scanShippingRate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipping rate: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CreateShippingRate inserts one rate table entry.
func (s *Store) CreateShippingRate(ctx context.Context, r *catalog.ShippingRate) (*catalog.ShippingRate, error) {
	created, err := scanShippingRate(s.pool.QueryRow(ctx,
		`INSERT INTO shipping_rates (carrier, min_weight, max_weight, zone, rate, surcharge)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+shippingRateColumns,
		r.Carrier, r.MinWeight, r.MaxWeight, r.Zone, r.Rate, r.Surcharge))
	if err != nil {
		return nil, wrapWrite("shipping rate", err)
	}
	return &created, nil
}

// DeleteShippingRate removes one rate table entry.
func (s *Store) DeleteShippingRate(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM shipping_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shipping rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "shipping rate", Key: id}
	}
	return nil
}

// ShippingRateFor returns the rate whose weight band contains weight
// (min inclusive, max exclusive) for the given carrier and zone, or nil when
// no band matches.
func (s *Store) ShippingRateFor(ctx context.Context, carrier catalog.Carrier, zone string, weight float64) (*catalog.ShippingRate, error) {
	r, err := scanShippingRate(s.pool.QueryRow(ctx,
		`SELECT `+shippingRateColumns+` FROM shipping_rates
		 WHERE carrier = $1 AND zone = $2 AND min_weight <= $3 AND max_weight > $3
		 ORDER BY min_weight
		 LIMIT 1`, carrier, zone, weight))
	if err != nil {
		if IsNotFound(wrapRead("shipping rate", zone, err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("shipping rate lookup: %w", err)
	}
	return &r, nil
}
