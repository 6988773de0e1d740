package pincode

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"rates-and-booking/internal/models"
)

// Normalize lowercases a place name, trims it, and replaces "&" with "and"
// so comparisons work across the inconsistent spellings in the postal master
// and carrier rate cards.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.Fields(s), " ")
}

// LoadAliases reads the name-alias table (known misspellings and variants
// mapped to one canonical form). A missing file yields an empty table.
func LoadAliases(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("pincode.LoadAliases: %w", err)
	}
	var aliases map[string]string
	if err := json.Unmarshal(raw, &aliases); err != nil {
		return nil, fmt.Errorf("pincode.LoadAliases: %w", err)
	}
	// Canonicalize both sides so lookups after Normalize always hit.
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[Normalize(k)] = Normalize(v)
	}
	return out, nil
}

// Service resolves pincodes against the in-memory postal master. The master
// and alias table are loaded once at startup and never mutated afterwards,
// so concurrent lookups need no locking.
type Service struct {
	entries map[int]masterEntry
	aliases map[string]string
}

func NewService(entries map[int]masterEntry, aliases map[string]string) *Service {
	if aliases == nil {
		aliases = map[string]string{}
	}
	return &Service{entries: entries, aliases: aliases}
}

// NewFromFiles loads the postal master and alias table and builds the service.
func NewFromFiles(masterPath, aliasPath string) (*Service, error) {
	entries, err := LoadMaster(masterPath)
	if err != nil {
		return nil, err
	}
	aliases, err := LoadAliases(aliasPath)
	if err != nil {
		return nil, err
	}
	return NewService(entries, aliases), nil
}

// Canonical applies normalization and the alias table to a place name.
func (s *Service) Canonical(name string) string {
	n := Normalize(name)
	if canonical, ok := s.aliases[n]; ok {
		return canonical
	}
	return n
}

// Lookup resolves a pincode. Absence is a valid outcome, not an error.
func (s *Service) Lookup(pin int) (models.Location, bool) {
	e, ok := s.entries[pin]
	if !ok {
		return models.Location{}, false
	}
	return models.Location{
		Pincode:       pin,
		City:          s.Canonical(e.Office),
		State:         s.Canonical(e.State),
		District:      s.Canonical(e.District),
		OriginalCity:  e.Office,
		OriginalState: e.State,
	}, true
}

// Count reports how many pincodes are loaded, for the health endpoint.
func (s *Service) Count() int {
	return len(s.entries)
}
