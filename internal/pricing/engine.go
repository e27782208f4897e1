// Package pricing computes cover prices from model geometry, material
// parameters and the shipping rate table.
//
// Geometry stays in float64 inches; everything that is money or weight is
// carried as a decimal so option surcharges and per-yard costs add up
// without float drift, then rounded to cents at the edge.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/covermaker/covermaker/internal/catalog"
)

// Pricing option names the engine looks up when a line toggles them on.
const (
	OptionHandleZipper    = "Handle Zipper"
	OptionTwoInOnePocket  = "2-in-1 Pocket"
	OptionMusicRestZipper = "Music Rest Zipper"
)

// ComputationError reports a price that cannot be computed from the current
// catalog data, as opposed to a storage failure. Callers treat it as a
// client-visible input problem.
type ComputationError struct {
	Reason string
}

func (e *ComputationError) Error() string { return "cannot compute price: " + e.Reason }

func computationErrorf(format string, args ...any) error {
	return &ComputationError{Reason: fmt.Sprintf(format, args...)}
}

// Store is the catalog access the engine needs.
type Store interface {
	ModelByID(ctx context.Context, id int64) (*catalog.Model, error)
	MaterialByID(ctx context.Context, id int64) (*catalog.Material, error)
	EquipmentTypeByID(ctx context.Context, id int64) (*catalog.EquipmentType, error)
	ColourSurchargeFor(ctx context.Context, materialID int64, colour string) (float64, error)
	PricingOptionByName(ctx context.Context, name string) (*catalog.PricingOption, error)
	ShippingRateFor(ctx context.Context, carrier catalog.Carrier, zone string, weight float64) (*catalog.ShippingRate, error)
}

// Request describes one line to price.
type Request struct {
	ModelID         int64           `json:"model_id"`
	MaterialID      int64           `json:"material_id"`
	Colour          *string         `json:"colour,omitempty"`
	Quantity        int             `json:"quantity"`
	HandleZipper    bool            `json:"handle_zipper"`
	TwoInOnePocket  bool            `json:"two_in_one_pocket"`
	MusicRestZipper bool            `json:"music_rest_zipper"`
	Carrier         catalog.Carrier `json:"carrier"`
	Zone            string          `json:"zone"`
}

// Breakdown is the full cost decomposition of one priced line. Money fields
// are in dollars rounded to cents; Area and WasteArea are square inches,
// Weight is pounds.
type Breakdown struct {
	Area            float64 `json:"area"`
	WasteArea       float64 `json:"waste_area"`
	LinearYards     float64 `json:"linear_yards"`
	MaterialCost    float64 `json:"material_cost"`
	ColourSurcharge float64 `json:"colour_surcharge"`
	LabourCost      float64 `json:"labour_cost"`
	OptionSurcharge float64 `json:"option_surcharge"`
	Weight          float64 `json:"weight"`
	ShippingCost    float64 `json:"shipping_cost"`
	UnitTotal       float64 `json:"unit_total"`
	Total           float64 `json:"total"`
}

// Config carries the shop-level pricing knobs.
type Config struct {
	// WasteFactor is the fraction of cover area added for cut waste.
	WasteFactor float64
	// HourlyLabourRate is the sewing labour rate in dollars per hour.
	HourlyLabourRate float64
}

// Engine prices cover lines against the catalog.
type Engine struct {
	store Store
	cfg   Config
}

func NewEngine(st Store, cfg Config) *Engine {
	return &Engine{store: st, cfg: cfg}
}

// Calculate prices one line. Shipping is charged once per line regardless of
// quantity; everything else scales with it.
func (e *Engine) Calculate(ctx context.Context, req Request) (*Breakdown, error) {
	if req.Quantity <= 0 {
		return nil, computationErrorf("quantity must be positive, got %d", req.Quantity)
	}

	model, err := e.store.ModelByID(ctx, req.ModelID)
	if err != nil {
		return nil, err
	}
	material, err := e.store.MaterialByID(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}
	et, err := e.store.EquipmentTypeByID(ctx, model.EquipmentTypeID)
	if err != nil {
		return nil, err
	}
	if material.LinearYardWidth <= 0 {
		return nil, computationErrorf("material %q has no usable bolt width", material.Name)
	}

	area := coverArea(*model, et.UsesAngleOptions)
	wasteArea := area * e.cfg.WasteFactor
	yards := (area + wasteArea) / (material.LinearYardWidth * 36)

	dYards := decimal.NewFromFloat(yards)
	materialCost := dYards.Mul(decimal.NewFromFloat(material.CostPerLinearYard))

	colourSurcharge := decimal.Zero
	if req.Colour != nil && *req.Colour != "" {
		s, err := e.store.ColourSurchargeFor(ctx, req.MaterialID, *req.Colour)
		if err != nil {
			return nil, err
		}
		colourSurcharge = decimal.NewFromFloat(s)
	}

	labourCost := decimal.NewFromFloat(material.LaborTimeMinutes).
		Div(decimal.NewFromInt(60)).
		Mul(decimal.NewFromFloat(e.cfg.HourlyLabourRate))

	optionSurcharge, err := e.optionSurcharge(ctx, req)
	if err != nil {
		return nil, err
	}

	weight := dYards.Mul(decimal.NewFromFloat(material.WeightPerLinearYard))

	shipping, err := e.shippingCost(ctx, req.Carrier, req.Zone, weight)
	if err != nil {
		return nil, err
	}

	unitTotal := materialCost.Add(colourSurcharge).Add(labourCost).Add(optionSurcharge)
	total := unitTotal.Mul(decimal.NewFromInt(int64(req.Quantity))).Add(shipping)

	return &Breakdown{
		Area:            area,
		WasteArea:       wasteArea,
		LinearYards:     yards,
		MaterialCost:    cents(materialCost),
		ColourSurcharge: cents(colourSurcharge),
		LabourCost:      cents(labourCost),
		OptionSurcharge: cents(optionSurcharge),
		Weight:          weight.Round(2).InexactFloat64(),
		ShippingCost:    cents(shipping),
		UnitTotal:       cents(unitTotal),
		Total:           cents(total),
	}, nil
}

// coverArea computes the fabric area of one cover in square inches: the top
// panel plus the four sides, plus the handle cutout reinforcement when the
// model has a handle, plus the slant gusset for slant-top models.
func coverArea(m catalog.Model, usesAngles bool) float64 {
	area := m.Width*m.Depth + 2*m.Height*(m.Width+m.Depth)
	if m.HandleLocation.HasHandle() && m.HandleLength != nil && m.HandleWidth != nil {
		area += *m.HandleLength * *m.HandleWidth
	}
	if usesAngles && m.AngleType == catalog.SlantTop {
		area += 0.5 * m.Width * m.Height
	}
	return area
}

// optionSurcharge sums the flat prices of the toggled options. An option
// toggled on a line but absent from the pricing option table contributes
// nothing.
func (e *Engine) optionSurcharge(ctx context.Context, req Request) (decimal.Decimal, error) {
	sum := decimal.Zero
	toggles := []struct {
		on   bool
		name string
	}{
		{req.HandleZipper, OptionHandleZipper},
		{req.TwoInOnePocket, OptionTwoInOnePocket},
		{req.MusicRestZipper, OptionMusicRestZipper},
	}
	for _, t := range toggles {
		if !t.on {
			continue
		}
		opt, err := e.store.PricingOptionByName(ctx, t.name)
		if err != nil {
			return decimal.Zero, err
		}
		if opt != nil {
			sum = sum.Add(decimal.NewFromFloat(opt.Price))
		}
	}
	return sum, nil
}

// shippingCost looks the computed weight up in the rate table. A weight with
// no matching band is a computation error naming the inputs, so the rate
// table gap is visible to the caller.
func (e *Engine) shippingCost(ctx context.Context, carrier catalog.Carrier, zone string, weight decimal.Decimal) (decimal.Decimal, error) {
	w := weight.InexactFloat64()
	rate, err := e.store.ShippingRateFor(ctx, carrier, zone, w)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, computationErrorf(
			"no shipping rate for carrier %q zone %q at %.2f lb", carrier, zone, w)
	}
	return decimal.NewFromFloat(rate.Rate).Add(decimal.NewFromFloat(rate.Surcharge)), nil
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
