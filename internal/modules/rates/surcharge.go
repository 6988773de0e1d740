package rates

import (
	"math"
	"sort"
	"strings"

	"rates-and-booking/internal/models"
)

// surcharges computes every stage-3 fee, records each in the breakdown and
// returns the sum. Fees are independent of one another except for the DOD/COD
// exclusion.
func (e *Engine) surcharges(req models.RateRequest, zone models.ZoneResolution, cfg *models.CarrierConfig, freight, edl float64, bd map[string]float64) float64 {
	v := cfg.VariableFees

	bd[models.CompDocket] = cfg.FixedFees.Docket
	bd[models.CompAWB] = cfg.FixedFees.AWB
	bd[models.CompEwayBill] = cfg.FixedFees.EwayBill

	bd[models.CompFuel] = fuelSurcharge(cfg.Fuel, freight, edl)

	if v.HamaliPerKg > 0 || v.HamaliMin > 0 {
		bd[models.CompHamali] = math.Max(req.WeightKg*v.HamaliPerKg, v.HamaliMin)
	}

	bd[models.CompPickup] = slabAmount(v.PickupSlabs, req.WeightKg)
	bd[models.CompDelivery] = slabAmount(e.deliverySlabs(req.DestPincode, v), req.WeightKg)
	bd[models.CompFOD] = slabAmount(v.FODSlabs, req.WeightKg)

	// DOD is a COD-only fee and replaces the standard COD charge.
	dodApplies := req.IsCOD && v.DOD != nil
	if dodApplies {
		bd[models.CompDOD] = valueFeeAmount(*v.DOD, req.OrderValue)
	}

	// Owner's risk when declared value is present, FOV only as its fallback.
	if req.OrderValue > 0 {
		switch {
		case v.OwnerRisk != nil:
			bd[models.CompOwnerRisk] = valueFeeAmount(*v.OwnerRisk, req.OrderValue)
		case v.FOV != nil:
			bd[models.CompFOV] = valueFeeAmount(*v.FOV, req.OrderValue)
		}
	}

	bd[models.CompECC] = eccAmount(v.ECCSlabs, req.WeightKg)

	if req.IsCOD && !dodApplies {
		bd[models.CompCOD] = codCharge(v, req.OrderValue)
	}

	return bd[models.CompDocket] + bd[models.CompAWB] + bd[models.CompEwayBill] +
		bd[models.CompFuel] + bd[models.CompHamali] +
		bd[models.CompPickup] + bd[models.CompDelivery] +
		bd[models.CompFOD] + bd[models.CompDOD] +
		bd[models.CompOwnerRisk] + bd[models.CompFOV] +
		bd[models.CompECC] + bd[models.CompCOD]
}

// fuelSurcharge applies the carrier's fuel percentage to the configured base.
// The dynamic form derives the percentage from diesel prices and is never a
// credit when diesel falls below the baseline.
func fuelSurcharge(fuel models.FuelConfig, freight, edl float64) float64 {
	base := freight + edl
	if fuel.Base == models.FuelBaseFreight {
		base = freight
	}
	pct := fuel.Percent
	if fuel.Dynamic {
		pct = (fuel.CurrentDiesel - fuel.BaseDiesel) * fuel.Ratio / 100
		if pct < 0 {
			pct = 0
		}
	}
	return base * pct
}

// deliverySlabs picks the delivery slab table, honoring per-destination-city
// exception tables. Exception keys are scanned in sorted order.
func (e *Engine) deliverySlabs(destPin int, v models.VariableFees) []models.SlabFee {
	if len(v.CityExceptions) == 0 {
		return v.DeliverySlabs
	}
	loc, ok := e.lookup.Lookup(destPin)
	if !ok {
		return v.DeliverySlabs
	}
	keys := make([]string, 0, len(v.CityExceptions))
	for k := range v.CityExceptions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		key := e.lookup.Canonical(k)
		if key == "" {
			continue
		}
		if strings.Contains(loc.City, key) || strings.Contains(loc.District, key) {
			return v.CityExceptions[k]
		}
	}
	return v.DeliverySlabs
}

// slabAmount bills the smallest slab covering the weight. A shipment heavier
// than every slab bills the largest.
func slabAmount(slabs []models.SlabFee, weight float64) float64 {
	if len(slabs) == 0 {
		return 0
	}
	sorted := sortedSlabs(slabs)
	for _, s := range sorted {
		if weight <= s.MaxWeightKg {
			return s.Amount
		}
	}
	return sorted[len(sorted)-1].Amount
}

// eccAmount is first-fit like slabAmount but bills nothing past the largest
// slab.
func eccAmount(slabs []models.SlabFee, weight float64) float64 {
	for _, s := range sortedSlabs(slabs) {
		if weight <= s.MaxWeightKg {
			return s.Amount
		}
	}
	return 0
}

func sortedSlabs(slabs []models.SlabFee) []models.SlabFee {
	sorted := make([]models.SlabFee, len(slabs))
	copy(sorted, slabs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MaxWeightKg < sorted[j].MaxWeightKg })
	return sorted
}

func valueFeeAmount(fee models.ValueFee, value float64) float64 {
	return math.Max(value*normalizePercent(fee.Percent), fee.MinAmount)
}

// codCharge defaults to the greater of the fixed fee and the percentage of
// declared value; carriers that bill both set CODSum.
func codCharge(v models.VariableFees, orderValue float64) float64 {
	pctPart := orderValue * normalizePercent(v.CODPercent)
	if v.CODSum {
		return v.CODFixed + pctPart
	}
	return math.Max(v.CODFixed, pctPart)
}

// normalizePercent accepts rates stored as fractions (0.015) or whole
// numbers (1.5) and always returns the fraction.
func normalizePercent(p float64) float64 {
	if p > 1 {
		return p / 100
	}
	return p
}
