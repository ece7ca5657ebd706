package model

import "strconv"

type Destination struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type RoomType struct {
	Name         string  `json:"name"`
	Rate         float64 `json:"rate"`
	ExtraBedRate float64 `json:"extraBedRate"`
}

type Hotel struct {
	ID          string     `json:"_id"`
	HotelName   string     `json:"hotelName"`
	Destination string     `json:"destination"`
	RoomTypes   []RoomType `json:"roomTypes"`
}

// DestinationFromRecord reads a destination lookup row. Older payloads use
// "destinationName" instead of "name".
func DestinationFromRecord(r Record) Destination {
	name := r.String("name")
	if name == "" {
		name = r.String("destinationName")
	}
	return Destination{ID: r.ID(), Name: name}
}

func HotelFromRecord(r Record) Hotel {
	h := Hotel{ID: r.ID(), HotelName: r.String("hotelName")}
	if h.HotelName == "" {
		h.HotelName = r.String("name")
	}
	if ref, ok := RefOf(r["destination"]); ok {
		h.Destination = ref.ID
	}
	if raw, ok := r["roomTypes"].([]any); ok {
		for _, x := range raw {
			switch t := x.(type) {
			case string:
				h.RoomTypes = append(h.RoomTypes, RoomType{Name: t})
			case map[string]any:
				rt := Record(t)
				name := rt.String("name")
				if name == "" {
					name = rt.String("type")
				}
				h.RoomTypes = append(h.RoomTypes, RoomType{
					Name:         name,
					Rate:         Number(rt["rate"]),
					ExtraBedRate: Number(rt["extraBedRate"]),
				})
			}
		}
	}
	return h
}

func (h Hotel) RoomType(name string) (RoomType, bool) {
	for _, rt := range h.RoomTypes {
		if rt.Name == name {
			return rt, true
		}
	}
	return RoomType{}, false
}

// Number coerces JSON-ish values to float64. Unparsable values are 0.
func Number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}
