package models

// Location is the resolved view of a 6-digit pincode from the postal master.
// City, State and District are normalized (lowercase, trimmed, "&" replaced
// with "and", aliases applied). The raw originals are kept because some
// carrier rate tables intentionally match on un-normalized names.
type Location struct {
	Pincode       int    `json:"pincode"`
	City          string `json:"city"`
	State         string `json:"state"`
	District      string `json:"district"`
	OriginalCity  string `json:"original_city"`
	OriginalState string `json:"original_state"`
}
