package rates

import (
	"testing"

	"rates-and-booking/internal/models"
	"rates-and-booking/internal/modules/pincode"
)

// fakeLookup is an in-memory postal master for tests.
type fakeLookup struct {
	locs    map[int]models.Location
	aliases map[string]string
}

func (f fakeLookup) Lookup(pin int) (models.Location, bool) {
	l, ok := f.locs[pin]
	return l, ok
}

func (f fakeLookup) Canonical(name string) string {
	n := pincode.Normalize(name)
	if canonical, ok := f.aliases[n]; ok {
		return canonical
	}
	return n
}

const (
	pinMumbai   = 400001
	pinDelhi    = 110001
	pinSrinagar = 190001
	pinPune     = 411001
	pinChennai  = 600001
)

func testLookup() fakeLookup {
	return fakeLookup{locs: map[int]models.Location{
		pinMumbai:   {Pincode: pinMumbai, City: "mumbai gpo", State: "maharashtra", District: "mumbai", OriginalCity: "Mumbai GPO", OriginalState: "MAHARASHTRA"},
		pinDelhi:    {Pincode: pinDelhi, City: "new delhi gpo", State: "delhi", District: "central delhi", OriginalCity: "New Delhi GPO", OriginalState: "DELHI"},
		pinSrinagar: {Pincode: pinSrinagar, City: "srinagar", State: "jammu and kashmir", District: "srinagar", OriginalCity: "Srinagar", OriginalState: "Jammu & Kashmir"},
		pinPune:     {Pincode: pinPune, City: "pune city", State: "maharashtra", District: "pune", OriginalCity: "Pune City", OriginalState: "MAHARASHTRA"},
		pinChennai:  {Pincode: pinChennai, City: "chennai gpo", State: "tamil nadu", District: "chennai", OriginalCity: "Chennai GPO", OriginalState: "TAMIL NADU"},
	}}
}

func testPolicy() RoutingPolicy {
	return RoutingPolicy{
		MetroCities: []string{"mumbai", "delhi", "chennai", "kolkata", "bangalore", "hyderabad"},
		SpecialStates: map[string]struct{}{
			"jammu and kashmir": {},
			"assam":             {},
			"manipur":           {},
		},
	}
}

func testResolver() *Resolver {
	return NewResolver(testLookup(), testPolicy())
}

func TestStandardZoneChain(t *testing.T) {
	r := testResolver()
	cfg := &models.CarrierConfig{Model: models.ModelWeightSlab}

	cases := []struct {
		name     string
		src, dst int
		wantZone string
	}{
		{"both metro", pinMumbai, pinDelhi, models.ZoneMetro},
		{"same state", pinMumbai, pinPune, models.ZoneRegional},
		{"different state different city", pinPune, pinChennai, models.ZoneIntercity},
		{"special state destination", pinMumbai, pinSrinagar, models.ZoneSpecial},
		{"special state origin", pinSrinagar, pinDelhi, models.ZoneSpecial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			zone, err := r.Resolve(tc.src, tc.dst, cfg)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if zone.ZoneID != tc.wantZone {
				t.Errorf("zone = %q; want %q", zone.ZoneID, tc.wantZone)
			}
		})
	}
}

func TestSpecialStateBeatsMetro(t *testing.T) {
	// Srinagar is deliberately not on the metro list, but even a pair where
	// one side is metro must land in the special zone.
	r := testResolver()
	zone, err := r.Resolve(pinDelhi, pinSrinagar, &models.CarrierConfig{Model: models.ModelWeightSlab})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if zone.ZoneID != models.ZoneSpecial {
		t.Errorf("zone = %q; want %q", zone.ZoneID, models.ZoneSpecial)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := testResolver()
	cfg := &models.CarrierConfig{Model: models.ModelWeightSlab}
	a, err := r.Resolve(pinMumbai, pinChennai, cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := r.Resolve(pinMumbai, pinChennai, cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a.ZoneID != b.ZoneID || a.Description != b.Description {
		t.Errorf("Resolve not deterministic: %+v vs %+v", a, b)
	}
}

func TestPincodeNotFound(t *testing.T) {
	r := testResolver()
	for _, cfg := range []*models.CarrierConfig{
		{Model: models.ModelWeightSlab},
		{Model: models.ModelPerKgCity, CityRates: map[string]float64{"mumbai": 10}},
		{Model: models.ModelPerKgMatrix},
	} {
		_, err := r.Resolve(pinMumbai, 999999, cfg)
		reason, ok := IsNotServiceable(err)
		if !ok {
			t.Fatalf("model %s: err = %v; want not-serviceable", cfg.Model, err)
		}
		if reason != "Pincode Not Found" {
			t.Errorf("model %s: reason = %q; want Pincode Not Found", cfg.Model, reason)
		}
	}
}

func TestCityModelMatchStrategies(t *testing.T) {
	r := testResolver()

	t.Run("normalized city substring", func(t *testing.T) {
		cfg := &models.CarrierConfig{Model: models.ModelPerKgCity, CityRates: map[string]float64{"mumbai": 10}}
		zone, err := r.Resolve(pinDelhi, pinMumbai, cfg)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if zone.ZoneID != "mumbai" {
			t.Errorf("zone = %q; want mumbai", zone.ZoneID)
		}
	})

	t.Run("district fallback", func(t *testing.T) {
		cfg := &models.CarrierConfig{Model: models.ModelPerKgCity, CityRates: map[string]float64{"central delhi": 12}}
		zone, err := r.Resolve(pinMumbai, pinDelhi, cfg)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if zone.ZoneID != "central delhi" {
			t.Errorf("zone = %q; want central delhi", zone.ZoneID)
		}
	})

	t.Run("raw city fallback", func(t *testing.T) {
		lookup := fakeLookup{locs: map[int]models.Location{
			560001: {Pincode: 560001, City: "bengaluru", State: "karnataka", District: "bengaluru urban", OriginalCity: "Bangalore City"},
		}}
		rr := NewResolver(lookup, testPolicy())
		cfg := &models.CarrierConfig{Model: models.ModelPerKgCity, CityRates: map[string]float64{"bangalore": 9}}
		zone, err := rr.Resolve(pinMumbai, 560001, cfg)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if zone.ZoneID != "bangalore" {
			t.Errorf("zone = %q; want bangalore", zone.ZoneID)
		}
	})

	t.Run("no match", func(t *testing.T) {
		cfg := &models.CarrierConfig{Model: models.ModelPerKgCity, CityRates: map[string]float64{"kolkata": 11}}
		_, err := r.Resolve(pinMumbai, pinDelhi, cfg)
		reason, ok := IsNotServiceable(err)
		if !ok || reason != "City Not Serviceable" {
			t.Errorf("err = %v; want City Not Serviceable", err)
		}
	})
}

func TestAdminEnteredKeysAreCanonicalized(t *testing.T) {
	// Rate cards are typed in by admins, so table keys arrive in mixed case
	// and variant spellings. Matching must treat them like location names.
	r := testResolver()

	t.Run("city rate key", func(t *testing.T) {
		cfg := &models.CarrierConfig{Model: models.ModelPerKgCity, CityRates: map[string]float64{"Mumbai": 10}}
		zone, err := r.Resolve(pinDelhi, pinMumbai, cfg)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		// The original key comes back so the rate table lookup still works.
		if zone.ZoneID != "Mumbai" {
			t.Errorf("zone = %q; want Mumbai", zone.ZoneID)
		}
	})

	t.Run("aliased city rate key", func(t *testing.T) {
		lookup := fakeLookup{
			locs: map[int]models.Location{
				560001: {Pincode: 560001, City: "bangalore", State: "karnataka", District: "bangalore", OriginalCity: "Bangalore City"},
			},
			aliases: map[string]string{"bengaluru": "bangalore"},
		}
		rr := NewResolver(lookup, testPolicy())
		cfg := &models.CarrierConfig{Model: models.ModelPerKgCity, CityRates: map[string]float64{"Bengaluru": 9}}
		zone, err := rr.Resolve(pinMumbai, 560001, cfg)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if zone.ZoneID != "Bengaluru" {
			t.Errorf("zone = %q; want Bengaluru", zone.ZoneID)
		}
	})

	t.Run("zone map key", func(t *testing.T) {
		cfg := &models.CarrierConfig{
			Model:   models.ModelPerKgMatrix,
			ZoneMap: map[string]string{"Maharashtra": "west", "Delhi": "north"},
		}
		zone, err := r.Resolve(pinMumbai, pinDelhi, cfg)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if zone.OriginZone != "west" || zone.DestZone != "north" {
			t.Errorf("zones = %q/%q; want west/north", zone.OriginZone, zone.DestZone)
		}
	})
}

func TestMatrixModel(t *testing.T) {
	r := testResolver()
	cfg := &models.CarrierConfig{
		Model:   models.ModelPerKgMatrix,
		ZoneMap: map[string]string{"maharashtra": "west", "delhi": "north"},
	}

	zone, err := r.Resolve(pinMumbai, pinDelhi, cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if zone.OriginZone != "west" || zone.DestZone != "north" {
		t.Errorf("zones = %q/%q; want west/north", zone.OriginZone, zone.DestZone)
	}
	if zone.ZoneID != "west-north" {
		t.Errorf("zone id = %q; want west-north", zone.ZoneID)
	}

	// An unmapped state degrades to the default zone, still serviceable.
	degraded, err := r.Resolve(pinMumbai, pinChennai, cfg)
	if err != nil {
		t.Fatalf("Resolve degraded: %v", err)
	}
	if degraded.ZoneID != models.ZoneMatrixSplit {
		t.Errorf("degraded zone = %q; want %q", degraded.ZoneID, models.ZoneMatrixSplit)
	}
	if degraded.Description != "Zone Mapping Failed" {
		t.Errorf("description = %q; want Zone Mapping Failed", degraded.Description)
	}
}

func TestRegionModel(t *testing.T) {
	r := testResolver()
	cfg := &models.CarrierConfig{
		Model: models.ModelRegion,
		RegionTable: map[int]models.RegionEntry{
			pinChennai: {Region: "south", Extended: true, DistanceKm: 42},
		},
	}

	zone, err := r.Resolve(pinMumbai, pinChennai, cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if zone.ZoneID != "south" || !zone.Extended || zone.DistanceKm != 42 {
		t.Errorf("zone = %+v; want south/extended/42km", zone)
	}

	_, err = r.Resolve(pinMumbai, pinDelhi, cfg)
	reason, ok := IsNotServiceable(err)
	if !ok || reason != "Region Not Serviceable" {
		t.Errorf("err = %v; want Region Not Serviceable", err)
	}
}
