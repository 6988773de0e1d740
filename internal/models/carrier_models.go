package models

// PricingModel selects which freight algorithm governs a carrier.
type PricingModel string

const (
	// ModelPerKgCity prices per kilogram against a destination-city rate table.
	ModelPerKgCity PricingModel = "per_kg_city"
	// ModelPerKgMatrix prices per kilogram against an (origin zone, dest zone) matrix.
	ModelPerKgMatrix PricingModel = "per_kg_matrix"
	// ModelWeightSlab prices a forward rate per zone plus stepped additional slabs.
	ModelWeightSlab PricingModel = "weight_slab"
	// ModelRegion prices per kilogram against a carrier-specific region table
	// keyed by destination pincode, with extended-delivery surcharges.
	ModelRegion PricingModel = "region"
)

// Weight-slab zone codes and their display labels.
const (
	ZoneMetro       = "z_a"
	ZoneRegional    = "z_b"
	ZoneIntercity   = "z_c"
	ZonePanIndia    = "z_d"
	ZoneSpecial     = "z_f"
	ZoneMatrixSplit = "default"
)

// CarrierConfig is the immutable-per-calculation snapshot of one carrier+mode.
// Exactly one pricing model applies; the rate tables for the other models are
// left empty. The engine never mutates a config.
type CarrierConfig struct {
	CarrierName string       `json:"carrier_name" validate:"required"`
	Mode        string       `json:"mode" validate:"required"` // Surface / Air
	Active      bool         `json:"active"`
	Model       PricingModel `json:"model" validate:"required,oneof=per_kg_city per_kg_matrix weight_slab region"`

	// Weight handling.
	MinWeightKg float64 `json:"min_weight_kg"` // minimum billable weight
	MaxWeightKg float64 `json:"max_weight_kg"` // 0 means no ceiling
	MinFreight  float64 `json:"min_freight"`   // freight floor for per-kg models
	SlabSizeKg  float64 `json:"slab_size_kg"`  // 0 means the global default slab
	SlabStepKg  float64 `json:"slab_step_kg"`  // 0 means same as slab size

	// Per-kilogram city model: normalized city name -> rate per kg.
	CityRates map[string]float64 `json:"city_rates,omitempty"`

	// Per-kilogram matrix model: normalized state -> zone code, then
	// origin zone -> dest zone -> rate per kg. DefaultRatePerKg is the
	// degraded rate used when zone mapping or the matrix lookup fails.
	ZoneMap          map[string]string             `json:"zone_map,omitempty"`
	MatrixRates      map[string]map[string]float64 `json:"matrix_rates,omitempty"`
	DefaultRatePerKg float64                       `json:"default_rate_per_kg,omitempty"`

	// Weight-slab model: zone code -> rate.
	ForwardRates    map[string]float64 `json:"forward_rates,omitempty"`
	AdditionalRates map[string]float64 `json:"additional_rates,omitempty"`

	// Region model: region name -> rate per kg, plus the auxiliary pincode
	// table (not the postal master) carrying the EDL flag and distance.
	RegionRates map[string]float64  `json:"region_rates,omitempty"`
	RegionTable map[int]RegionEntry `json:"region_table,omitempty"`

	// Required-source-city constraint. When Bidirectional is set, either
	// endpoint may satisfy the requirement; hub pincode prefixes are the
	// secondary match.
	RequiredSourceCity string   `json:"required_source_city,omitempty"`
	Bidirectional      bool     `json:"bidirectional,omitempty"`
	HubPincodePrefixes []string `json:"hub_pincode_prefixes,omitempty"`

	FixedFees    FixedFees    `json:"fixed_fees"`
	VariableFees VariableFees `json:"variable_fees"`
	Fuel         FuelConfig   `json:"fuel"`
	EDL          *EDLConfig   `json:"edl,omitempty"`
}

// RegionEntry is one row of a carrier's region table.
type RegionEntry struct {
	Region     string  `json:"region"`
	Extended   bool    `json:"extended"` // extended delivery location
	DistanceKm float64 `json:"distance_km"`
}

// FixedFees are charged once per shipment regardless of weight or value.
type FixedFees struct {
	Docket   float64 `json:"docket_fee"`
	AWB      float64 `json:"awb_fee"`
	EwayBill float64 `json:"eway_bill_fee"`
}

// SlabFee charges Amount for shipments up to MaxWeightKg.
type SlabFee struct {
	MaxWeightKg float64 `json:"max_weight_kg"`
	Amount      float64 `json:"amount"`
}

// ValueFee is the greater of a percentage of declared value and a minimum.
type ValueFee struct {
	Percent   float64 `json:"percent"`
	MinAmount float64 `json:"min_amount"`
}

// WeightFee is the greater of a per-kg rate times weight and a minimum.
type WeightFee struct {
	RatePerKg float64 `json:"rate_per_kg"`
	MinAmount float64 `json:"min_amount"`
}

// VariableFees depend on weight, declared value or destination.
type VariableFees struct {
	CODFixed   float64 `json:"cod_fixed"`
	CODPercent float64 `json:"cod_percent"` // >1 is treated as a whole-number percentage
	CODSum     bool    `json:"cod_sum,omitempty"` // add fixed and percent instead of taking the greater

	HamaliPerKg float64 `json:"hamali_per_kg"`
	HamaliMin   float64 `json:"hamali_min"`

	PickupSlabs   []SlabFee `json:"pickup_slabs,omitempty"`
	DeliverySlabs []SlabFee `json:"delivery_slabs,omitempty"`
	// CityExceptions substitutes a different delivery slab table when the
	// normalized destination city matches the key.
	CityExceptions map[string][]SlabFee `json:"city_exceptions,omitempty"`

	FODSlabs []SlabFee `json:"fod_slabs,omitempty"`
	DOD      *ValueFee `json:"dod,omitempty"` // COD shipments only; suppresses the COD fee

	OwnerRisk *ValueFee `json:"owner_risk,omitempty"` // applies when declared value > 0
	FOV       *ValueFee `json:"fov,omitempty"`        // fallback when owner's risk did not apply

	ECCSlabs []SlabFee `json:"ecc_slabs,omitempty"`
}

// Fuel surcharge bases.
const (
	FuelBaseFreight    = "freight"
	FuelBaseFreightEDL = "freight_edl"
)

// FuelConfig describes the fuel surcharge: either a flat percentage or a
// dynamic one derived from diesel prices. Base selects what the percentage
// applies to; empty means freight plus EDL.
type FuelConfig struct {
	Percent       float64 `json:"percent"`
	Dynamic       bool    `json:"dynamic"`
	CurrentDiesel float64 `json:"current_diesel"`
	BaseDiesel    float64 `json:"base_diesel"`
	Ratio         float64 `json:"ratio"`
	Base          string  `json:"base,omitempty"`
}

// EDLConfig prices extended-delivery destinations. Precedence: special-region
// override, then overflow pricing, then the distance-banded matrix.
type EDLConfig struct {
	// SpecialRegions: region/state name -> per-kg rate vs minimum override.
	SpecialRegions map[string]WeightFee `json:"special_regions,omitempty"`

	// Overflow pricing kicks in past either threshold (0 disables a threshold).
	OverflowDistanceKm float64 `json:"overflow_distance_km"`
	OverflowWeightKg   float64 `json:"overflow_weight_kg"`
	DistanceRatePerKm  float64 `json:"distance_rate_per_km"`
	WeightRatePerKg    float64 `json:"weight_rate_per_kg"`

	// Matrix: distance bands, each refined by weight slabs.
	Matrix []EDLBand `json:"matrix,omitempty"`
}

// EDLBand is one distance band of the EDL matrix.
type EDLBand struct {
	MaxDistanceKm float64   `json:"max_distance_km"`
	Slabs         []SlabFee `json:"slabs"`
}
