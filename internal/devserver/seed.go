package devserver

import (
	"context"

	"tourdesk/internal/model"
	"tourdesk/internal/store"
)

var seedDestinations = []model.Record{
	{"_id": "dest-goa", "name": "Goa"},
	{"_id": "dest-munnar", "name": "Munnar"},
	{"_id": "dest-jaipur", "name": "Jaipur"},
}

var seedHotels = []model.Record{
	{"_id": "hotel-seaview", "hotelName": "Sea View Resort", "destination": "dest-goa", "roomTypes": []any{
		map[string]any{"name": "Standard", "rate": 2800.0, "extraBedRate": 600.0},
		map[string]any{"name": "Deluxe", "rate": 3600.0, "extraBedRate": 800.0},
	}},
	{"_id": "hotel-palms", "hotelName": "Palm Grove", "destination": "dest-goa", "roomTypes": []any{
		map[string]any{"name": "Cottage", "rate": 4200.0, "extraBedRate": 900.0},
	}},
	{"_id": "hotel-teahills", "hotelName": "Tea Hills Retreat", "destination": "dest-munnar", "roomTypes": []any{
		map[string]any{"name": "Valley View", "rate": 3900.0, "extraBedRate": 700.0},
		map[string]any{"name": "Suite", "rate": 6500.0, "extraBedRate": 1200.0},
	}},
	{"_id": "hotel-pinkcity", "hotelName": "Pink City Haveli", "destination": "dest-jaipur", "roomTypes": []any{
		map[string]any{"name": "Heritage", "rate": 5200.0, "extraBedRate": 1000.0},
	}},
}

// Seed inserts demo destinations and hotels into empty lookup collections.
// It reports how many documents were written.
func Seed(ctx context.Context, docs *store.Documents) (int, error) {
	written := 0
	for coll, recs := range map[string][]model.Record{
		destinationsCollection: seedDestinations,
		hotelsCollection:       seedHotels,
	} {
		n, err := docs.Count(ctx, coll)
		if err != nil {
			return written, err
		}
		if n > 0 {
			continue
		}
		for _, rec := range recs {
			if err := docs.Put(ctx, coll, rec.Clone()); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
