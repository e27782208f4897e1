// Package schema owns the database layout. EnsureSchema is run once at
// startup and brings a fresh database up to the layout the store expects.
// Every statement is idempotent so restarting against an existing database
// is a no-op.
package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS manufacturers (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS series (
		id              BIGSERIAL PRIMARY KEY,
		manufacturer_id BIGINT NOT NULL REFERENCES manufacturers(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		UNIQUE (manufacturer_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS equipment_types (
		id                 BIGSERIAL PRIMARY KEY,
		name               TEXT NOT NULL UNIQUE,
		uses_angle_options BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS models (
		id                BIGSERIAL PRIMARY KEY,
		series_id         BIGINT NOT NULL REFERENCES series(id) ON DELETE CASCADE,
		equipment_type_id BIGINT NOT NULL REFERENCES equipment_types(id),
		name              TEXT NOT NULL,
		width             DOUBLE PRECISION NOT NULL,
		depth             DOUBLE PRECISION NOT NULL,
		height            DOUBLE PRECISION NOT NULL,
		handle_length     DOUBLE PRECISION,
		handle_width      DOUBLE PRECISION,
		handle_location   TEXT NOT NULL DEFAULT 'no_amp_handle',
		angle_type        TEXT NOT NULL DEFAULT 'top_angle',
		image_url         TEXT,
		parent_sku        TEXT,
		UNIQUE (series_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS materials (
		id                     BIGSERIAL PRIMARY KEY,
		name                   TEXT NOT NULL UNIQUE,
		base_color             TEXT NOT NULL DEFAULT '',
		linear_yard_width      DOUBLE PRECISION NOT NULL,
		cost_per_linear_yard   DOUBLE PRECISION NOT NULL,
		weight_per_linear_yard DOUBLE PRECISION NOT NULL,
		labor_time_minutes     DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS material_colour_surcharges (
		id          BIGSERIAL PRIMARY KEY,
		material_id BIGINT NOT NULL REFERENCES materials(id) ON DELETE CASCADE,
		colour      TEXT NOT NULL,
		surcharge   DOUBLE PRECISION NOT NULL,
		UNIQUE (material_id, colour)
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS supplier_materials (
		id          BIGSERIAL PRIMARY KEY,
		supplier_id BIGINT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
		material_id BIGINT NOT NULL REFERENCES materials(id) ON DELETE CASCADE,
		unit_cost   DOUBLE PRECISION NOT NULL,
		UNIQUE (supplier_id, material_id)
	)`,
	`CREATE TABLE IF NOT EXISTS pricing_options (
		id    BIGSERIAL PRIMARY KEY,
		name  TEXT NOT NULL UNIQUE,
		price DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS equipment_type_pricing_options (
		id                BIGSERIAL PRIMARY KEY,
		equipment_type_id BIGINT NOT NULL REFERENCES equipment_types(id) ON DELETE CASCADE,
		pricing_option_id BIGINT NOT NULL REFERENCES pricing_options(id) ON DELETE CASCADE,
		UNIQUE (equipment_type_id, pricing_option_id)
	)`,
	`CREATE TABLE IF NOT EXISTS design_options (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS equipment_type_design_options (
		id                BIGSERIAL PRIMARY KEY,
		equipment_type_id BIGINT NOT NULL REFERENCES equipment_types(id) ON DELETE CASCADE,
		design_option_id  BIGINT NOT NULL REFERENCES design_options(id) ON DELETE CASCADE,
		UNIQUE (equipment_type_id, design_option_id)
	)`,
	`CREATE TABLE IF NOT EXISTS shipping_rates (
		id         BIGSERIAL PRIMARY KEY,
		carrier    TEXT NOT NULL,
		min_weight DOUBLE PRECISION NOT NULL,
		max_weight DOUBLE PRECISION NOT NULL,
		zone       TEXT NOT NULL,
		rate       DOUBLE PRECISION NOT NULL,
		surcharge  DOUBLE PRECISION NOT NULL DEFAULT 0,
		UNIQUE (carrier, zone, min_weight)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id      BIGSERIAL PRIMARY KEY,
		name    TEXT NOT NULL,
		address TEXT,
		phone   TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                       BIGSERIAL PRIMARY KEY,
		customer_id              BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		marketplace              TEXT,
		marketplace_order_number TEXT,
		order_date               TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id                BIGSERIAL PRIMARY KEY,
		order_id          BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		model_id          BIGINT NOT NULL REFERENCES models(id),
		material_id       BIGINT NOT NULL REFERENCES materials(id),
		colour            TEXT,
		quantity          INTEGER NOT NULL,
		handle_zipper     BOOLEAN NOT NULL DEFAULT FALSE,
		two_in_one_pocket BOOLEAN NOT NULL DEFAULT FALSE,
		music_rest_zipper BOOLEAN NOT NULL DEFAULT FALSE,
		unit_price        DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS product_types (
		id          BIGSERIAL PRIMARY KEY,
		code        TEXT NOT NULL UNIQUE,
		name        TEXT,
		description TEXT,
		header_rows JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS product_type_fields (
		id              BIGSERIAL PRIMARY KEY,
		product_type_id BIGINT NOT NULL REFERENCES product_types(id) ON DELETE CASCADE,
		field_name      TEXT NOT NULL,
		display_name    TEXT,
		attribute_group TEXT,
		order_index     INTEGER NOT NULL,
		required        BOOLEAN NOT NULL DEFAULT FALSE,
		selected_value  TEXT,
		custom_value    TEXT,
		UNIQUE (product_type_id, field_name)
	)`,
	`CREATE TABLE IF NOT EXISTS product_type_field_values (
		id       BIGSERIAL PRIMARY KEY,
		field_id BIGINT NOT NULL REFERENCES product_type_fields(id) ON DELETE CASCADE,
		value    TEXT NOT NULL,
		UNIQUE (field_id, value)
	)`,
	`CREATE TABLE IF NOT EXISTS product_type_keywords (
		id              BIGSERIAL PRIMARY KEY,
		product_type_id BIGINT NOT NULL REFERENCES product_types(id) ON DELETE CASCADE,
		keyword         TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS equipment_type_product_types (
		id                BIGSERIAL PRIMARY KEY,
		equipment_type_id BIGINT NOT NULL REFERENCES equipment_types(id) ON DELETE CASCADE,
		product_type_id   BIGINT NOT NULL REFERENCES product_types(id) ON DELETE CASCADE,
		UNIQUE (equipment_type_id, product_type_id)
	)`,
}

// EnsureSchema creates any missing tables.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
