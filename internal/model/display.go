package model

// displayKeys are tried in order when a nested document has to be shown as a
// single label (cards, table cells, text fields holding an expanded relation).
var displayKeys = []string{"name", "packageName", "hotelName", "destinationName", "guestName", "title", "vehicleNumber"}

// DisplayName returns a human label for a record, falling back to its id.
func DisplayName(r Record) string {
	for _, k := range displayKeys {
		if s := r.String(k); s != "" {
			return s
		}
	}
	return r.ID()
}

// RefLabel renders a relation field: the display name of an expanded document
// or the bare id.
func RefLabel(v any) string {
	ref, ok := RefOf(v)
	if !ok {
		return ""
	}
	if ref.Resolved() {
		return DisplayName(ref.Doc)
	}
	return ref.ID
}
