package pricing

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/covermaker/covermaker/internal/catalog"
	"github.com/covermaker/covermaker/internal/store"
)

type fakeCatalog struct {
	models     map[int64]*catalog.Model
	materials  map[int64]*catalog.Material
	equipment  map[int64]*catalog.EquipmentType
	surcharges map[string]float64
	options    map[string]*catalog.PricingOption
	rates      []catalog.ShippingRate
}

func (f *fakeCatalog) ModelByID(ctx context.Context, id int64) (*catalog.Model, error) {
	if m, ok := f.models[id]; ok {
		return m, nil
	}
	return nil, &store.NotFoundError{Entity: "model", Key: id}
}

func (f *fakeCatalog) MaterialByID(ctx context.Context, id int64) (*catalog.Material, error) {
	if m, ok := f.materials[id]; ok {
		return m, nil
	}
	return nil, &store.NotFoundError{Entity: "material", Key: id}
}

func (f *fakeCatalog) EquipmentTypeByID(ctx context.Context, id int64) (*catalog.EquipmentType, error) {
	if et, ok := f.equipment[id]; ok {
		return et, nil
	}
	return nil, &store.NotFoundError{Entity: "equipment type", Key: id}
}

func (f *fakeCatalog) ColourSurchargeFor(ctx context.Context, materialID int64, colour string) (float64, error) {
	return f.surcharges[colour], nil
}

func (f *fakeCatalog) PricingOptionByName(ctx context.Context, name string) (*catalog.PricingOption, error) {
	return f.options[name], nil
}

func (f *fakeCatalog) ShippingRateFor(ctx context.Context, carrier catalog.Carrier, zone string, weight float64) (*catalog.ShippingRate, error) {
	for i := range f.rates {
		r := &f.rates[i]
		if r.Carrier == carrier && r.Zone == zone && r.MinWeight <= weight && weight < r.MaxWeight {
			return r, nil
		}
	}
	return nil, nil
}

// fixtureCatalog uses geometry chosen so the fabric maths stays exact:
// a 30x15x13 cabinet is 1620 sq in, which with 20% waste comes to exactly
// one linear yard of 54-inch bolt fabric.
func fixtureCatalog() *fakeCatalog {
	return &fakeCatalog{
		models: map[int64]*catalog.Model{
			1: {
				ID: 1, Name: "Tone-Master 1x12", EquipmentTypeID: 10,
				Width: 30, Depth: 15, Height: 13,
				HandleLocation: catalog.NoAmpHandle,
				AngleType:      catalog.TopAngle,
			},
		},
		materials: map[int64]*catalog.Material{
			1: {
				ID: 1, Name: "Padded Vinyl",
				LinearYardWidth:     54,
				CostPerLinearYard:   12.5,
				WeightPerLinearYard: 2.5,
				LaborTimeMinutes:    90,
			},
		},
		equipment: map[int64]*catalog.EquipmentType{
			10: {ID: 10, Name: "Combo Amp"},
		},
		surcharges: map[string]float64{"Tweed": 5},
		options: map[string]*catalog.PricingOption{
			OptionHandleZipper:    {ID: 1, Name: OptionHandleZipper, Price: 10},
			OptionMusicRestZipper: {ID: 2, Name: OptionMusicRestZipper, Price: 7.5},
		},
		rates: []catalog.ShippingRate{
			{Carrier: catalog.CarrierUSPS, Zone: "2", MinWeight: 0, MaxWeight: 5, Rate: 8, Surcharge: 1.5},
			{Carrier: catalog.CarrierUSPS, Zone: "2", MinWeight: 5, MaxWeight: 20, Rate: 14, Surcharge: 1.5},
		},
	}
}

func testEngine(st Store) *Engine {
	return NewEngine(st, Config{WasteFactor: 0.2, HourlyLabourRate: 30})
}

func baseRequest() Request {
	return Request{
		ModelID:    1,
		MaterialID: 1,
		Quantity:   1,
		Carrier:    catalog.CarrierUSPS,
		Zone:       "2",
	}
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestCalculate_Breakdown(t *testing.T) {
	req := baseRequest()
	req.Colour = strptr("Tweed")
	req.HandleZipper = true
	req.MusicRestZipper = true

	bd, err := testEngine(fixtureCatalog()).Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if !approx(bd.Area, 1620) {
		t.Errorf("Area = %v, want 1620", bd.Area)
	}
	if !approx(bd.WasteArea, 324) {
		t.Errorf("WasteArea = %v, want 324", bd.WasteArea)
	}
	if !approx(bd.LinearYards, 1) {
		t.Errorf("LinearYards = %v, want 1", bd.LinearYards)
	}
	if bd.MaterialCost != 12.5 {
		t.Errorf("MaterialCost = %v, want 12.5", bd.MaterialCost)
	}
	if bd.ColourSurcharge != 5 {
		t.Errorf("ColourSurcharge = %v, want 5", bd.ColourSurcharge)
	}
	// 90 minutes at 30/hour.
	if bd.LabourCost != 45 {
		t.Errorf("LabourCost = %v, want 45", bd.LabourCost)
	}
	if bd.OptionSurcharge != 17.5 {
		t.Errorf("OptionSurcharge = %v, want 17.5", bd.OptionSurcharge)
	}
	if bd.Weight != 2.5 {
		t.Errorf("Weight = %v, want 2.5", bd.Weight)
	}
	if bd.ShippingCost != 9.5 {
		t.Errorf("ShippingCost = %v, want 9.5", bd.ShippingCost)
	}
	if bd.UnitTotal != 80 {
		t.Errorf("UnitTotal = %v, want 80", bd.UnitTotal)
	}
	if bd.Total != 89.5 {
		t.Errorf("Total = %v, want 89.5", bd.Total)
	}
}

func TestCalculate_ShippingChargedOncePerLine(t *testing.T) {
	req := baseRequest()
	req.Quantity = 3

	bd, err := testEngine(fixtureCatalog()).Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// unit 12.5 + 45 = 57.5; three units plus one shipping charge.
	if bd.UnitTotal != 57.5 {
		t.Errorf("UnitTotal = %v, want 57.5", bd.UnitTotal)
	}
	if want := 57.5*3 + 9.5; bd.Total != want {
		t.Errorf("Total = %v, want %v", bd.Total, want)
	}
}

func TestCalculate_HandleAddsReinforcementArea(t *testing.T) {
	st := fixtureCatalog()
	l, w := 10.0, 2.0
	st.models[1].HandleLocation = catalog.TopHandle
	st.models[1].HandleLength = &l
	st.models[1].HandleWidth = &w

	bd, err := testEngine(st).Calculate(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !approx(bd.Area, 1640) {
		t.Errorf("Area = %v, want 1640", bd.Area)
	}
}

func TestCalculate_HandleWithoutDimensionsIgnored(t *testing.T) {
	st := fixtureCatalog()
	st.models[1].HandleLocation = catalog.TopHandle

	bd, err := testEngine(st).Calculate(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !approx(bd.Area, 1620) {
		t.Errorf("Area = %v, want 1620", bd.Area)
	}
}

func TestCalculate_SlantTopGusset(t *testing.T) {
	st := fixtureCatalog()
	st.equipment[10].UsesAngleOptions = true
	st.models[1].AngleType = catalog.SlantTop

	bd, err := testEngine(st).Calculate(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	// 0.5 * 30 * 13 extra.
	if !approx(bd.Area, 1815) {
		t.Errorf("Area = %v, want 1815", bd.Area)
	}
}

func TestCalculate_SlantTopIgnoredWithoutAngleOptions(t *testing.T) {
	st := fixtureCatalog()
	st.models[1].AngleType = catalog.SlantTop

	bd, err := testEngine(st).Calculate(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !approx(bd.Area, 1620) {
		t.Errorf("Area = %v, want 1620", bd.Area)
	}
}

func TestCalculate_UnknownOptionContributesNothing(t *testing.T) {
	st := fixtureCatalog()
	delete(st.options, OptionMusicRestZipper)

	req := baseRequest()
	req.MusicRestZipper = true

	bd, err := testEngine(st).Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if bd.OptionSurcharge != 0 {
		t.Errorf("OptionSurcharge = %v, want 0", bd.OptionSurcharge)
	}
}

func TestCalculate_NoShippingBand(t *testing.T) {
	st := fixtureCatalog()
	// 30 lb/yard puts the weight past every configured band.
	st.materials[1].WeightPerLinearYard = 30

	_, err := testEngine(st).Calculate(context.Background(), baseRequest())

	var ce *ComputationError
	if !errors.As(err, &ce) {
		t.Fatalf("Calculate error = %v, want ComputationError", err)
	}
}

func TestCalculate_QuantityMustBePositive(t *testing.T) {
	for _, qty := range []int{0, -1} {
		req := baseRequest()
		req.Quantity = qty

		_, err := testEngine(fixtureCatalog()).Calculate(context.Background(), req)

		var ce *ComputationError
		if !errors.As(err, &ce) {
			t.Errorf("quantity %d: error = %v, want ComputationError", qty, err)
		}
	}
}

func TestCalculate_ZeroBoltWidth(t *testing.T) {
	st := fixtureCatalog()
	st.materials[1].LinearYardWidth = 0

	_, err := testEngine(st).Calculate(context.Background(), baseRequest())

	var ce *ComputationError
	if !errors.As(err, &ce) {
		t.Fatalf("Calculate error = %v, want ComputationError", err)
	}
}

func TestCalculate_UnknownModelPropagatesNotFound(t *testing.T) {
	req := baseRequest()
	req.ModelID = 99

	_, err := testEngine(fixtureCatalog()).Calculate(context.Background(), req)
	if !store.IsNotFound(err) {
		t.Fatalf("Calculate error = %v, want not-found", err)
	}
}

func strptr(s string) *string { return &s }
