package rates

import (
	"errors"
	"sort"
	"strings"

	"rates-and-booking/internal/models"
	"rates-and-booking/internal/modules/pincode"
)

// notServiceableError is a routing failure. Its message is the human label
// shown on the non-serviceable quote; the engine never propagates it as an
// error.
type notServiceableError struct {
	reason string
	cause  error
}

func (e *notServiceableError) Error() string { return e.reason }
func (e *notServiceableError) Unwrap() error { return e.cause }

func notServiceable(reason string) error {
	return &notServiceableError{reason: reason}
}

func pincodeNotFound() error {
	return &notServiceableError{reason: "Pincode Not Found", cause: models.ErrPincodeNotFound}
}

// Resolver maps an origin/destination pincode pair to a pricing zone under a
// carrier's routing policy. It is pure: it only reads the postal master and
// the static routing policy.
type Resolver struct {
	lookup LocationLookup
	policy RoutingPolicy
}

func NewResolver(lookup LocationLookup, policy RoutingPolicy) *Resolver {
	return &Resolver{lookup: lookup, policy: policy}
}

// cityMatchStrategy is one pass of the destination-city match used by the
// per-kilogram city model. Strategies run in order; the first hit wins.
type cityMatchStrategy struct {
	name string
	key  func(models.Location) string
}

var cityMatchOrder = []cityMatchStrategy{
	{"normalized city", func(l models.Location) string { return l.City }},
	{"normalized district", func(l models.Location) string { return l.District }},
	{"raw city", func(l models.Location) string { return strings.ToLower(strings.TrimSpace(l.OriginalCity)) }},
}

// Resolve decides the pricing zone and model for one carrier. Routing
// failures come back as *notServiceableError; the caller maps them to
// non-serviceable quotes.
func (r *Resolver) Resolve(src, dst int, cfg *models.CarrierConfig) (models.ZoneResolution, error) {
	switch cfg.Model {
	case models.ModelPerKgCity:
		return r.resolveCity(dst, cfg)
	case models.ModelPerKgMatrix:
		return r.resolveMatrix(src, dst, cfg)
	case models.ModelRegion:
		return r.resolveRegion(dst, cfg)
	default:
		return r.resolveStandard(src, dst)
	}
}

func (r *Resolver) resolveCity(dst int, cfg *models.CarrierConfig) (models.ZoneResolution, error) {
	loc, ok := r.lookup.Lookup(dst)
	if !ok {
		return models.ZoneResolution{}, pincodeNotFound()
	}

	for _, strategy := range cityMatchOrder {
		candidate := r.canonicalName(strategy.key(loc))
		if candidate == "" {
			continue
		}
		if key, ok := r.matchRateKey(candidate, cfg.CityRates); ok {
			return models.ZoneResolution{
				ZoneID:      key,
				Description: strategy.name + " match: " + key,
				Model:       models.ModelPerKgCity,
			}, nil
		}
	}
	return models.ZoneResolution{}, notServiceable("City Not Serviceable")
}

// matchRateKey finds a rate-table key whose canonical form equals, or is
// contained in, the candidate name. Keys are canonicalized at match time
// because rate cards are admin-entered and arrive in mixed case; they are
// scanned in sorted order so resolution is deterministic. The original key
// is returned since the rate table is indexed by it.
func (r *Resolver) matchRateKey(candidate string, table map[string]float64) (string, bool) {
	if _, ok := table[candidate]; ok {
		return candidate, true
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ck := r.canonicalName(k)
		if ck != "" && strings.Contains(candidate, ck) {
			return k, true
		}
	}
	return "", false
}

func (r *Resolver) resolveMatrix(src, dst int, cfg *models.CarrierConfig) (models.ZoneResolution, error) {
	sLoc, ok := r.lookup.Lookup(src)
	if !ok {
		return models.ZoneResolution{}, pincodeNotFound()
	}
	dLoc, ok := r.lookup.Lookup(dst)
	if !ok {
		return models.ZoneResolution{}, pincodeNotFound()
	}

	origin, okO := r.zoneFor(cfg.ZoneMap, sLoc.State)
	dest, okD := r.zoneFor(cfg.ZoneMap, dLoc.State)
	if !okO || !okD {
		// Degraded, not hard-failed: an unmapped state falls back to the
		// carrier's default rate.
		return models.ZoneResolution{
			ZoneID:      models.ZoneMatrixSplit,
			Description: "Zone Mapping Failed",
			Model:       models.ModelPerKgMatrix,
			OriginZone:  models.ZoneMatrixSplit,
			DestZone:    models.ZoneMatrixSplit,
		}, nil
	}
	return models.ZoneResolution{
		ZoneID:      origin + "-" + dest,
		Description: "Matrix " + origin + " to " + dest,
		Model:       models.ModelPerKgMatrix,
		OriginZone:  origin,
		DestZone:    dest,
	}, nil
}

// zoneFor looks a canonical state name up in the admin-entered zone map,
// canonicalizing the map's keys so mixed-case entries still match.
func (r *Resolver) zoneFor(zoneMap map[string]string, state string) (string, bool) {
	if z, ok := zoneMap[state]; ok {
		return z, true
	}
	keys := make([]string, 0, len(zoneMap))
	for k := range zoneMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if r.canonicalName(k) == state {
			return zoneMap[k], true
		}
	}
	return "", false
}

func (r *Resolver) resolveStandard(src, dst int) (models.ZoneResolution, error) {
	sLoc, ok := r.lookup.Lookup(src)
	if !ok {
		return models.ZoneResolution{}, pincodeNotFound()
	}
	dLoc, ok := r.lookup.Lookup(dst)
	if !ok {
		return models.ZoneResolution{}, pincodeNotFound()
	}

	res := func(id, label string) (models.ZoneResolution, error) {
		return models.ZoneResolution{ZoneID: id, Description: label, Model: models.ModelWeightSlab}, nil
	}

	// Special-region states win over every other condition.
	if r.isSpecialState(sLoc.State) || r.isSpecialState(dLoc.State) {
		return res(models.ZoneSpecial, "Zone F (North-East & J&K)")
	}
	if r.isMetro(sLoc) && r.isMetro(dLoc) {
		return res(models.ZoneMetro, "Zone A (Metropolitan)")
	}
	if sLoc.State == dLoc.State {
		return res(models.ZoneRegional, "Zone B (Regional)")
	}
	if sLoc.City != dLoc.City {
		return res(models.ZoneIntercity, "Zone C (Intercity)")
	}
	return res(models.ZonePanIndia, "Zone D (Pan-India)")
}

func (r *Resolver) resolveRegion(dst int, cfg *models.CarrierConfig) (models.ZoneResolution, error) {
	entry, ok := cfg.RegionTable[dst]
	if !ok {
		return models.ZoneResolution{}, notServiceable("Region Not Serviceable")
	}
	return models.ZoneResolution{
		ZoneID:      entry.Region,
		Description: "Region " + entry.Region,
		Model:       models.ModelRegion,
		Extended:    entry.Extended,
		DistanceKm:  entry.DistanceKm,
	}, nil
}

func (r *Resolver) isSpecialState(state string) bool {
	_, ok := r.policy.SpecialStates[state]
	return ok
}

// isMetro tests metro membership by substring match of the normalized city
// or district against the metro list, so "bengaluru urban" still matches.
func (r *Resolver) isMetro(loc models.Location) bool {
	for _, metro := range r.policy.MetroCities {
		if strings.Contains(loc.City, metro) || strings.Contains(loc.District, metro) {
			return true
		}
	}
	return false
}

// IsNotServiceable reports whether err is a routing failure and returns its
// human label.
func IsNotServiceable(err error) (string, bool) {
	var nse *notServiceableError
	if errors.As(err, &nse) {
		return nse.reason, true
	}
	return "", false
}

// canonicalName applies the postal master's normalization and alias table.
func (r *Resolver) canonicalName(name string) string {
	if r.lookup != nil {
		return r.lookup.Canonical(name)
	}
	return pincode.Normalize(name)
}
