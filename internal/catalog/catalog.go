// Package catalog defines the domain entities for the cover-making catalog:
// the manufacturer/series/model product chain, materials with colour
// surcharges, pricing options, shipping rates, and order records.
//
// This package has no persistence or transport dependencies. Repositories in
// internal/store read and write these types; the pricing and export pipelines
// consume them.
package catalog

import "time"

// Manufacturer is a maker of equipment the shop builds covers for.
type Manufacturer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Series is a product line belonging to one manufacturer.
// Series names are unique per manufacturer.
type Series struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ManufacturerID int64  `json:"manufacturer_id"`
}

// EquipmentType classifies models (e.g. "Combo Amp", "Keyboard").
// It anchors pricing option assignments and the marketplace template link.
type EquipmentType struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	UsesAngleOptions bool   `json:"uses_angle_options"`
}

// Model is the unit the pricing and export pipelines operate on.
// Dimensions are in inches. Handle dimensions are only set when the model
// has a handle; ParentSKU feeds the contribution_sku export rule.
type Model struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	SeriesID        int64          `json:"series_id"`
	EquipmentTypeID int64          `json:"equipment_type_id"`
	Width           float64        `json:"width"`
	Depth           float64        `json:"depth"`
	Height          float64        `json:"height"`
	HandleLength    *float64       `json:"handle_length,omitempty"`
	HandleWidth     *float64       `json:"handle_width,omitempty"`
	HandleLocation  HandleLocation `json:"handle_location"`
	AngleType       AngleType      `json:"angle_type"`
	ImageURL        *string        `json:"image_url,omitempty"`
	ParentSKU       *string        `json:"parent_sku,omitempty"`
}

// Material holds the fabric cost/weight/labour parameters per linear yard.
// LinearYardWidth is the fabric bolt width in inches.
type Material struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	BaseColor           string  `json:"base_color"`
	LinearYardWidth     float64 `json:"linear_yard_width"`
	CostPerLinearYard   float64 `json:"cost_per_linear_yard"`
	WeightPerLinearYard float64 `json:"weight_per_linear_yard"`
	LaborTimeMinutes    float64 `json:"labor_time_minutes"`
}

// ColourSurcharge is an additive per-unit surcharge for a material colour.
type ColourSurcharge struct {
	ID         int64   `json:"id"`
	MaterialID int64   `json:"material_id"`
	Colour     string  `json:"colour"`
	Surcharge  float64 `json:"surcharge"`
}

// Supplier sells materials to the shop.
type Supplier struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SupplierMaterial records one supplier's unit cost for a material.
type SupplierMaterial struct {
	ID         int64   `json:"id"`
	SupplierID int64   `json:"supplier_id"`
	MaterialID int64   `json:"material_id"`
	UnitCost   float64 `json:"unit_cost"`
}

// Customer places orders.
type Customer struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// Order groups order lines for one customer, optionally tagged with the
// marketplace it came from.
type Order struct {
	ID                     int64        `json:"id"`
	CustomerID             int64        `json:"customer_id"`
	Marketplace            *Marketplace `json:"marketplace,omitempty"`
	MarketplaceOrderNumber *string      `json:"marketplace_order_number,omitempty"`
	OrderDate              time.Time    `json:"order_date"`
}

// OrderLine is one model/material/quantity combination on an order.
// UnitPrice is filled in by the pricing engine when the line is created.
type OrderLine struct {
	ID              int64    `json:"id"`
	OrderID         int64    `json:"order_id"`
	ModelID         int64    `json:"model_id"`
	MaterialID      int64    `json:"material_id"`
	Colour          *string  `json:"colour,omitempty"`
	Quantity        int      `json:"quantity"`
	HandleZipper    bool     `json:"handle_zipper"`
	TwoInOnePocket  bool     `json:"two_in_one_pocket"`
	MusicRestZipper bool     `json:"music_rest_zipper"`
	UnitPrice       *float64 `json:"unit_price,omitempty"`
}

// PricingOption is a named flat add-on price (e.g. "Handle Zipper"),
// assignable to equipment types.
type PricingOption struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ShippingRate is one carrier/zone/weight-band entry in the rate table.
// A weight matches the band when min <= weight < max.
type ShippingRate struct {
	ID        int64   `json:"id"`
	Carrier   Carrier `json:"carrier"`
	MinWeight float64 `json:"min_weight"`
	MaxWeight float64 `json:"max_weight"`
	Zone      string  `json:"zone"`
	Rate      float64 `json:"rate"`
	Surcharge float64 `json:"surcharge"`
}

// DesignOption is a named construction variant offered per equipment type.
type DesignOption struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}
