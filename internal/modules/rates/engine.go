package rates

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"rates-and-booking/internal/models"
)

// Engine computes a single carrier quote. It is a pure synchronous
// computation over the request, the carrier config snapshot and the pricing
// settings; nothing here mutates shared state, so concurrent calculations
// need no locking.
type Engine struct {
	resolver *Resolver
	lookup   LocationLookup
	settings models.PricingSettings
	logf     func(format string, v ...any)
}

func NewEngine(resolver *Resolver, lookup LocationLookup, settings models.PricingSettings) *Engine {
	return &Engine{
		resolver: resolver,
		lookup:   lookup,
		settings: settings,
		logf:     log.Printf,
	}
}

// Calculate prices one shipment against one carrier config. Routing, weight
// and constraint failures come back as a non-serviceable quote; the only
// error is invalid shipment input.
func (e *Engine) Calculate(req models.RateRequest, cfg *models.CarrierConfig) (models.Quote, error) {
	if req.WeightKg <= 0 {
		return models.Quote{}, fmt.Errorf("weight %v kg: %w", req.WeightKg, models.ErrInvalidWeight)
	}

	quote := models.Quote{Carrier: cfg.CarrierName, Mode: cfg.Mode}

	zone, err := e.resolver.Resolve(req.SourcePincode, req.DestPincode, cfg)
	if err != nil {
		reason, ok := IsNotServiceable(err)
		if !ok {
			return models.Quote{}, err
		}
		quote.Reason = reason
		return quote, nil
	}
	quote.ZoneID = zone.ZoneID
	quote.Zone = zone.Description

	if cfg.MaxWeightKg > 0 && req.WeightKg > cfg.MaxWeightKg {
		quote.Reason = fmt.Sprintf("Weight Exceeds %g kg Limit", cfg.MaxWeightKg)
		return quote, nil
	}
	if reason, ok := e.checkSourceCity(req, cfg); !ok {
		quote.Reason = reason
		return quote, nil
	}

	bd := newBreakdown()
	freight := e.baseFreight(req.WeightKg, zone, cfg, bd)

	edl := 0.0
	if zone.Model == models.ModelRegion && zone.Extended && zone.DistanceKm > 0 && cfg.EDL != nil {
		edl = e.edlCharge(req, zone, cfg)
	}
	bd[models.CompEDL] = edl

	surcharges := e.surcharges(req, zone, cfg, freight, edl, bd)

	// Escalation is earned on freight only, never on EDL or surcharges.
	baseTransport := freight + edl
	profit := freight * e.settings.EscalationRate
	amountBeforeTax := baseTransport + profit + surcharges
	gst := amountBeforeTax * e.settings.GSTRate

	bd[models.CompCourierPayable] = baseTransport + surcharges
	bd[models.CompProfitMargin] = profit
	bd[models.CompAmountBeforeTax] = amountBeforeTax
	bd[models.CompGSTAmount] = gst
	bd[models.CompFinalTotal] = amountBeforeTax + gst

	for k, v := range bd {
		bd[k] = round2(v)
	}

	quote.Serviceable = true
	quote.TotalCost = bd[models.CompFinalTotal]
	quote.Breakdown = bd
	quote.AppliedGSTRate = strconv.FormatFloat(e.settings.GSTRate*100, 'f', -1, 64) + "%"
	quote.AppliedEscalationRate = strconv.FormatFloat(e.settings.EscalationRate*100, 'f', -1, 64) + "%"
	return quote, nil
}

// ResolveZone exposes routing on its own for callers that only need the zone.
func (e *Engine) ResolveZone(src, dst int, cfg *models.CarrierConfig) (models.ZoneResolution, error) {
	return e.resolver.Resolve(src, dst, cfg)
}

func (e *Engine) checkSourceCity(req models.RateRequest, cfg *models.CarrierConfig) (string, bool) {
	if cfg.RequiredSourceCity == "" {
		return "", true
	}
	required := e.lookup.Canonical(cfg.RequiredSourceCity)
	if e.endpointMatches(req.SourcePincode, required, cfg.HubPincodePrefixes) {
		return "", true
	}
	if cfg.Bidirectional && e.endpointMatches(req.DestPincode, required, cfg.HubPincodePrefixes) {
		return "", true
	}
	return "Serviceable Only Via " + cfg.RequiredSourceCity, false
}

// endpointMatches tests one endpoint against the required hub city: first a
// normalized-city substring match, then the hub pincode prefixes.
func (e *Engine) endpointMatches(pin int, requiredCity string, prefixes []string) bool {
	if loc, ok := e.lookup.Lookup(pin); ok {
		if strings.Contains(loc.City, requiredCity) || strings.Contains(loc.District, requiredCity) {
			return true
		}
	}
	pinStr := strconv.Itoa(pin)
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(pinStr, p) {
			return true
		}
	}
	return false
}

func (e *Engine) baseFreight(weight float64, zone models.ZoneResolution, cfg *models.CarrierConfig, bd map[string]float64) float64 {
	switch zone.Model {
	case models.ModelPerKgCity:
		return e.perKgFreight(weight, cfg.CityRates[zone.ZoneID], cfg, bd)

	case models.ModelPerKgMatrix:
		rate, ok := 0.0, false
		if row, okRow := cfg.MatrixRates[zone.OriginZone]; okRow {
			rate, ok = row[zone.DestZone]
		}
		if !ok {
			rate = cfg.DefaultRatePerKg
		}
		return e.perKgFreight(weight, rate, cfg, bd)

	case models.ModelRegion:
		rate, ok := cfg.RegionRates[zone.ZoneID]
		if !ok {
			e.logf("rates: %s/%s: no rate for region %q, billing zero freight", cfg.CarrierName, cfg.Mode, zone.ZoneID)
		}
		return e.perKgFreight(weight, rate, cfg, bd)

	default:
		return e.slabFreight(weight, zone, cfg, bd)
	}
}

func (e *Engine) perKgFreight(weight, rate float64, cfg *models.CarrierConfig, bd map[string]float64) float64 {
	charged := math.Max(weight, cfg.MinWeightKg)
	freight := math.Max(charged*rate, cfg.MinFreight)
	bd[models.CompChargedWeight] = charged
	bd[models.CompRatePerKg] = rate
	bd[models.CompBaseFreight] = freight
	return freight
}

func (e *Engine) slabFreight(weight float64, zone models.ZoneResolution, cfg *models.CarrierConfig, bd map[string]float64) float64 {
	slab := cfg.SlabSizeKg
	if slab <= 0 {
		slab = e.settings.DefaultWeightSlabKg
	}
	step := cfg.SlabStepKg
	if step <= 0 {
		step = slab
	}

	forward, ok := cfg.ForwardRates[zone.ZoneID]
	if !ok {
		e.logf("rates: %s/%s: no forward rate for zone %q, billing zero freight", cfg.CarrierName, cfg.Mode, zone.ZoneID)
	}

	extra := 0.0
	if weight > slab {
		additional, ok := cfg.AdditionalRates[zone.ZoneID]
		if !ok {
			e.logf("rates: %s/%s: no additional rate for zone %q, billing zero extra weight charge", cfg.CarrierName, cfg.Mode, zone.ZoneID)
		}
		extra = slabUnits(weight-slab, step) * additional
	}

	bd[models.CompChargedWeight] = weight
	bd[models.CompExtraWeight] = extra
	bd[models.CompBaseFreight] = forward + extra
	return forward + extra
}

// slabUnits counts billable additional units. Partial units always round up;
// the epsilon absorbs float dust so (1.1-0.5)/0.1 bills 6 units, not 7.
func slabUnits(over, step float64) float64 {
	return math.Ceil(over/step - 1e-9)
}

func newBreakdown() map[string]float64 {
	return map[string]float64{
		models.CompBaseFreight:     0,
		models.CompChargedWeight:   0,
		models.CompRatePerKg:       0,
		models.CompExtraWeight:     0,
		models.CompEDL:             0,
		models.CompFuel:            0,
		models.CompDocket:          0,
		models.CompAWB:             0,
		models.CompEwayBill:        0,
		models.CompHamali:          0,
		models.CompPickup:          0,
		models.CompDelivery:        0,
		models.CompFOD:             0,
		models.CompDOD:             0,
		models.CompOwnerRisk:       0,
		models.CompFOV:             0,
		models.CompECC:             0,
		models.CompCOD:             0,
		models.CompCourierPayable:  0,
		models.CompProfitMargin:    0,
		models.CompAmountBeforeTax: 0,
		models.CompGSTAmount:       0,
		models.CompFinalTotal:      0,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
