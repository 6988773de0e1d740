package pincode

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// masterEntry is one raw row of the postal master CSV.
type masterEntry struct {
	Office   string
	State    string
	District string
}

// LoadMaster reads the pincode master CSV into a map. Duplicate pincodes are
// dropped, keeping the first occurrence, so the lookup is unambiguous.
// Expected columns (by header name): pincode, office, state, district.
func LoadMaster(path string) (map[int]masterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pincode.LoadMaster: %w", err)
	}
	defer f.Close()

	entries, dropped, err := parseMaster(f)
	if err != nil {
		return nil, fmt.Errorf("pincode.LoadMaster: %w", err)
	}
	if dropped > 0 {
		log.Printf("pincode: removed %d duplicate pincodes from master", dropped)
	}
	return entries, nil
}

func parseMaster(r io.Reader) (map[int]masterEntry, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"pincode", "office", "state", "district"} {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	entries := make(map[int]masterEntry)
	dropped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}

		if len(rec) < len(header) {
			continue
		}
		pin, err := strconv.Atoi(strings.TrimSpace(rec[col["pincode"]]))
		if err != nil {
			// Skip malformed rows rather than failing the whole load.
			continue
		}
		if _, exists := entries[pin]; exists {
			dropped++
			continue
		}
		entries[pin] = masterEntry{
			Office:   strings.TrimSpace(rec[col["office"]]),
			State:    strings.TrimSpace(rec[col["state"]]),
			District: strings.TrimSpace(rec[col["district"]]),
		}
	}
	return entries, dropped, nil
}
