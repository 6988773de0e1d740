package rates

import (
	"encoding/json"
	"fmt"
	"os"

	"rates-and-booking/internal/models"
	"rates-and-booking/internal/modules/pincode"
)

// LocationLookup is the postal-master dependency of the engine. Satisfied by
// *pincode.Service.
type LocationLookup interface {
	Lookup(pin int) (models.Location, bool)
	Canonical(name string) string
}

// RoutingPolicy is the static configuration the standard zone chain depends
// on: the metro-city list and the special-region state list. Loaded once at
// startup and read-only afterwards.
type RoutingPolicy struct {
	MetroCities   []string
	SpecialStates map[string]struct{}
}

// LoadRoutingPolicy reads the metro-city and special-state JSON lists.
// Entries are normalized so membership tests line up with Location fields.
func LoadRoutingPolicy(metroPath, statesPath string) (RoutingPolicy, error) {
	metros, err := loadNameList(metroPath)
	if err != nil {
		return RoutingPolicy{}, fmt.Errorf("rates.LoadRoutingPolicy: metro cities: %w", err)
	}
	states, err := loadNameList(statesPath)
	if err != nil {
		return RoutingPolicy{}, fmt.Errorf("rates.LoadRoutingPolicy: special states: %w", err)
	}

	policy := RoutingPolicy{
		MetroCities:   make([]string, 0, len(metros)),
		SpecialStates: make(map[string]struct{}, len(states)),
	}
	for _, m := range metros {
		policy.MetroCities = append(policy.MetroCities, pincode.Normalize(m))
	}
	for _, s := range states {
		policy.SpecialStates[pincode.Normalize(s)] = struct{}{}
	}
	return policy, nil
}

func loadNameList(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, err
	}
	return names, nil
}
