package catalog

// enums.go defines the closed string enums used across the catalog.
// Values are stored lowercase in the database and exposed verbatim by the
// /api/enums endpoints for client dropdowns.

// HandleLocation describes where (if anywhere) a model's carry handle sits.
type HandleLocation string

const (
	NoAmpHandle HandleLocation = "no_amp_handle"
	TopHandle   HandleLocation = "top_handle"
	SideHandle  HandleLocation = "side_handle"
)

// HandleLocations lists all valid handle locations.
func HandleLocations() []HandleLocation {
	return []HandleLocation{NoAmpHandle, TopHandle, SideHandle}
}

// Valid reports whether h is a known handle location.
func (h HandleLocation) Valid() bool {
	switch h {
	case NoAmpHandle, TopHandle, SideHandle:
		return true
	}
	return false
}

// HasHandle reports whether the model has a handle the cover pattern must
// accommodate.
func (h HandleLocation) HasHandle() bool {
	return h == TopHandle || h == SideHandle
}

// AngleType describes the cabinet's top geometry, which changes the cover
// pattern area.
type AngleType string

const (
	TopAngle AngleType = "top_angle"
	SlantTop AngleType = "slant_top"
)

// AngleTypes lists all valid angle types.
func AngleTypes() []AngleType {
	return []AngleType{TopAngle, SlantTop}
}

// Valid reports whether a is a known angle type.
func (a AngleType) Valid() bool {
	return a == TopAngle || a == SlantTop
}

// Carrier identifies a shipping carrier in the rate table.
type Carrier string

const (
	CarrierUSPS  Carrier = "usps"
	CarrierUPS   Carrier = "ups"
	CarrierFedEx Carrier = "fedex"
)

// Carriers lists all valid carriers.
func Carriers() []Carrier {
	return []Carrier{CarrierUSPS, CarrierUPS, CarrierFedEx}
}

// Valid reports whether c is a known carrier.
func (c Carrier) Valid() bool {
	switch c {
	case CarrierUSPS, CarrierUPS, CarrierFedEx:
		return true
	}
	return false
}

// Marketplace identifies where an order originated.
type Marketplace string

const (
	MarketplaceAmazon Marketplace = "amazon"
	MarketplaceEbay   Marketplace = "ebay"
	MarketplaceReverb Marketplace = "reverb"
)

// Marketplaces lists all valid marketplaces.
func Marketplaces() []Marketplace {
	return []Marketplace{MarketplaceAmazon, MarketplaceEbay, MarketplaceReverb}
}

// Valid reports whether m is a known marketplace.
func (m Marketplace) Valid() bool {
	switch m {
	case MarketplaceAmazon, MarketplaceEbay, MarketplaceReverb:
		return true
	}
	return false
}
