package models

// PricingSettings is the process-wide pricing snapshot. It is loaded once at
// startup and passed explicitly into every calculation; the engine never
// reads global state.
type PricingSettings struct {
	DefaultWeightSlabKg float64 `mapstructure:"DEFAULT_WEIGHT_SLAB_KG"`
	EscalationRate      float64 `mapstructure:"ESCALATION_RATE"`
	GSTRate             float64 `mapstructure:"GST_RATE"`
	VolumetricDivisor   float64 `mapstructure:"VOLUMETRIC_DIVISOR"`
}

// ZoneResolution is the outcome of routing an origin/destination pair under
// one carrier's policy.
type ZoneResolution struct {
	ZoneID      string       `json:"zone_id"`
	Description string       `json:"zone"`
	Model       PricingModel `json:"model"`

	// Matrix-model extras: the two halves of the matrix lookup key.
	OriginZone string `json:"origin_zone,omitempty"`
	DestZone   string `json:"dest_zone,omitempty"`

	// Region-model extras used by the EDL surcharge.
	Extended   bool    `json:"extended,omitempty"`
	DistanceKm float64 `json:"distance_km,omitempty"`
}

// RateRequest is the input for a carrier comparison.
type RateRequest struct {
	SourcePincode int     `json:"source_pincode" validate:"required,min=100000,max=999999"`
	DestPincode   int     `json:"dest_pincode" validate:"required,min=100000,max=999999"`
	WeightKg      float64 `json:"weight_kg" validate:"required,gt=0"`
	IsCOD         bool    `json:"is_cod"`
	OrderValue    float64 `json:"order_value" validate:"gte=0"`
	Mode          string  `json:"mode,omitempty" validate:"omitempty,oneof=Surface Air Both"`
}

// Breakdown component keys. Every quote carries the full set so callers can
// render an itemized invoice without probing for optional keys.
const (
	CompBaseFreight      = "base_freight"
	CompChargedWeight    = "charged_weight"
	CompRatePerKg        = "rate_per_kg"
	CompExtraWeight      = "extra_weight_charge"
	CompEDL              = "edl_charge"
	CompFuel             = "fuel_surcharge"
	CompDocket           = "docket_fee"
	CompAWB              = "awb_fee"
	CompEwayBill         = "eway_bill_fee"
	CompHamali           = "hamali_charge"
	CompPickup           = "pickup_charge"
	CompDelivery         = "delivery_charge"
	CompFOD              = "fod_charge"
	CompDOD              = "dod_charge"
	CompOwnerRisk        = "owner_risk_charge"
	CompFOV              = "fov_charge"
	CompECC              = "ecc_charge"
	CompCOD              = "cod_charge"
	CompCourierPayable   = "courier_payable"
	CompProfitMargin     = "profit_margin"
	CompAmountBeforeTax  = "amount_before_tax"
	CompGSTAmount        = "gst_amount"
	CompFinalTotal       = "final_total"
)

// Quote is the result of one carrier calculation. A routing, weight or
// constraint failure yields Serviceable=false with a reason, never an error.
type Quote struct {
	Carrier     string `json:"carrier"`
	Mode        string `json:"mode"`
	ZoneID      string `json:"zone_id"`
	Zone        string `json:"zone"`
	Serviceable bool   `json:"serviceable"`
	Reason      string `json:"reason,omitempty"`

	TotalCost float64            `json:"total_cost"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`

	AppliedGSTRate        string `json:"applied_gst_rate,omitempty"`
	AppliedEscalationRate string `json:"applied_escalation_rate,omitempty"`
}

// CompareResult is the payload for a multi-carrier comparison.
type CompareResult struct {
	ID            string  `json:"id"`
	SourcePincode int     `json:"source_pincode"`
	DestPincode   int     `json:"dest_pincode"`
	TotalWeightKg float64 `json:"total_weight_kg"`
	Carriers      []Quote `json:"carriers"`
}
