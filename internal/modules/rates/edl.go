package rates

import (
	"math"
	"sort"

	"rates-and-booking/internal/models"
	"rates-and-booking/internal/modules/pincode"
)

// edlCharge prices an extended-delivery destination. Strict precedence:
// special-region override, then overflow pricing, then the distance-banded
// matrix. Malformed EDL data never aborts the calculation; it degrades to a
// zero charge with a diagnostic.
func (e *Engine) edlCharge(req models.RateRequest, zone models.ZoneResolution, cfg *models.CarrierConfig) float64 {
	edl := cfg.EDL
	weight := req.WeightKg

	if amount, ok := e.specialRegionCharge(edl, req.DestPincode, zone.ZoneID, weight); ok {
		return amount
	}

	if (edl.OverflowDistanceKm > 0 && zone.DistanceKm > edl.OverflowDistanceKm) ||
		(edl.OverflowWeightKg > 0 && weight > edl.OverflowWeightKg) {
		return math.Max(edl.DistanceRatePerKm*zone.DistanceKm, edl.WeightRatePerKg*weight)
	}

	band := pickBand(edl.Matrix, zone.DistanceKm)
	if band == nil || len(band.Slabs) == 0 {
		e.logf("rates: %s/%s: malformed edl matrix for %g km, skipping edl charge", cfg.CarrierName, cfg.Mode, zone.DistanceKm)
		return 0
	}
	return slabAmount(band.Slabs, weight)
}

// specialRegionCharge applies the flat per-kg override when the destination's
// state or region is on the carrier's special list.
func (e *Engine) specialRegionCharge(edl *models.EDLConfig, destPin int, region string, weight float64) (float64, bool) {
	if len(edl.SpecialRegions) == 0 {
		return 0, false
	}
	state := ""
	if loc, ok := e.lookup.Lookup(destPin); ok {
		state = loc.State
	}
	regionName := pincode.Normalize(region)

	names := make([]string, 0, len(edl.SpecialRegions))
	for name := range edl.SpecialRegions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n := pincode.Normalize(name)
		if n == "" {
			continue
		}
		if n == state || n == regionName {
			fee := edl.SpecialRegions[name]
			return math.Max(fee.RatePerKg*weight, fee.MinAmount), true
		}
	}
	return 0, false
}

// pickBand selects the first distance band covering the distance; a distance
// past every band uses the widest one.
func pickBand(bands []models.EDLBand, distanceKm float64) *models.EDLBand {
	if len(bands) == 0 {
		return nil
	}
	sorted := make([]models.EDLBand, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MaxDistanceKm < sorted[j].MaxDistanceKm })
	for i := range sorted {
		if distanceKm <= sorted[i].MaxDistanceKm {
			return &sorted[i]
		}
	}
	return &sorted[len(sorted)-1]
}
