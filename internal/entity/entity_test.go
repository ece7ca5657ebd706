package entity

import (
	"testing"

	"tourdesk/internal/form"
	"tourdesk/internal/listview"
	"tourdesk/internal/model"

	"github.com/m-mizutani/gt"
)

func totalsByKey(ts []form.Total) map[string]string {
	out := map[string]string{}
	for _, t := range ts {
		out[t.Key] = t.Value.String()
	}
	return out
}

func TestTransportTotals(t *testing.T) {
	got := totalsByKey(TransportTotals(model.Record{
		"dailyRent":   1000.0,
		"noOfDays":    3.0,
		"parkingToll": 200.0,
		"extraKm":     10.0,
		"extraKmRate": 5.0,
	}))
	gt.Value(t, got["totalRent"]).Equal("3000")
	gt.Value(t, got["extraKmTotal"]).Equal("50")
	gt.Value(t, got["netTotal"]).Equal("3250")
}

func TestTransportTotals_EmptyDraftIsZero(t *testing.T) {
	got := totalsByKey(TransportTotals(model.Record{"dailyRent": "", "noOfDays": "abc"}))
	gt.Value(t, got["netTotal"]).Equal("0")
}

func TestHotelBookingTotals(t *testing.T) {
	got := totalsByKey(HotelBookingTotals(model.Record{
		"checkIn":      "2024-03-05",
		"checkOut":     "2024-03-08",
		"rooms":        2.0,
		"ratePerNight": 2500.0,
		"extraBeds":    1.0,
		"extraBedRate": 500.0,
		"amountPaid":   10000.0,
	}))
	gt.Value(t, got["nights"]).Equal("3")
	gt.Value(t, got["roomTotal"]).Equal("15000")
	gt.Value(t, got["extraBedTotal"]).Equal("1500")
	gt.Value(t, got["grandTotal"]).Equal("16500")
	gt.Value(t, got["balance"]).Equal("6500")
}

func TestNights_NeverNegative(t *testing.T) {
	gt.Value(t, Nights("2024-03-08", "2024-03-05")).Equal(int64(0))
	gt.Value(t, Nights("", "2024-03-05")).Equal(int64(0))
	gt.Value(t, Nights("2024-03-05T00:00:00.000Z", "2024-03-06T00:00:00.000Z")).Equal(int64(1))
}

func TestExpenseAndPackageTotals(t *testing.T) {
	exp := totalsByKey(ExpenseTotals(model.Record{"hotelCost": 100.5, "foodCost": 20.0, "miscCost": "4.5"}))
	gt.Value(t, exp["total"]).Equal("125")
	pkg := totalsByKey(PackageTotals(model.Record{"totalAmount": 50000.0, "amountPaid": 12500.0}))
	gt.Value(t, pkg["balance"]).Equal("37500")
}

func TestHotelBookingForm_DestinationClearsHotelAndRoomType(t *testing.T) {
	c := form.New(HotelBookings.Form, nil, nil)
	c.Set("destination", "A")
	c.Set("hotel", "H")
	c.Set("roomType", "Deluxe")
	c.Set("destination", "B")
	gt.Value(t, c.Value("hotel")).Equal("")
	gt.Value(t, c.Value("roomType")).Equal("")

	c.Set("hotel", "H")
	c.Set("roomType", "Suite")
	c.Set("hotel", "H2")
	gt.Value(t, c.Value("roomType")).Equal("")
	gt.Value(t, c.Value("destination")).Equal("B")
}

func TestApplyRoomRate(t *testing.T) {
	h := model.Hotel{ID: "h-1", RoomTypes: []model.RoomType{{Name: "Deluxe", Rate: 3200, ExtraBedRate: 800}}}
	c := form.New(HotelBookings.Form, nil, nil)
	c.Set("hotel", "h-1")
	c.Set("roomType", "Deluxe")
	ApplyRoomRate(c, h)
	gt.Value(t, c.Value("ratePerNight")).Equal(3200.0)
	gt.Value(t, c.Value("extraBedRate")).Equal(800.0)

	c.Set("ratePerNight", "3000")
	ApplyRoomRate(c, h)
	gt.Value(t, c.Value("ratePerNight")).Equal(3000.0)
	gt.Array(t, RoomTypeOptions(h)).Length(1)
}

func TestApplyRoomRate_IgnoresHotelNoLongerChosen(t *testing.T) {
	h := model.Hotel{ID: "h-1", RoomTypes: []model.RoomType{{Name: "Deluxe", Rate: 3200}}}
	c := form.New(HotelBookings.Form, nil, nil)
	c.Set("hotel", "h-2")
	c.Set("roomType", "Deluxe")
	ApplyRoomRate(c, h)
	gt.Value(t, form.Dec(c.Draft(), "ratePerNight").IsZero()).Equal(true)
}

func TestSortValue_ComputesMissingTotals(t *testing.T) {
	a := model.Record{"_id": "a", "dailyRent": 1000.0, "noOfDays": 1.0}
	b := model.Record{"_id": "b", "netTotal": 500.0}
	lc := listview.New(Transports.List)
	lc.SetRecords([]model.Record{a, b})
	lc.SetSort("netTotal")
	view := lc.View()
	gt.Value(t, view[0].ID()).Equal("b")
	gt.Value(t, view[1].ID()).Equal("a")
}

func TestSortValue_RelationSortsByName(t *testing.T) {
	recs := []model.Record{
		{"_id": "1", "packageName": "X", "customer": map[string]any{"_id": "c2", "name": "Zed"}},
		{"_id": "2", "packageName": "Y", "customer": map[string]any{"_id": "c1", "name": "Amy"}},
		{"_id": "3", "packageName": "Z"},
	}
	lc := listview.New(Packages.List)
	lc.SetRecords(recs)
	lc.SetSort("customer")
	var ids []string
	for _, r := range lc.View() {
		ids = append(ids, r.ID())
	}
	gt.Value(t, ids).Equal([]string{"3", "2", "1"})
}

func TestWithTotals(t *testing.T) {
	rec := Transports.WithTotals(model.Record{"_id": "t", "dailyRent": 1000.0, "noOfDays": 3.0})
	gt.Value(t, rec["totalRent"]).Equal(3000.0)
	gt.Value(t, rec["netTotal"]).Equal(3000.0)
	gt.Value(t, Customers.WithTotals(model.Record{"name": "Amy"})).Equal(model.Record{"name": "Amy"})
}

func TestDefinitions(t *testing.T) {
	gt.Array(t, All()).Length(6)
	for _, d := range All() {
		gt.Value(t, d.Form.Resource).Equal(d.Resource)
		gt.Bool(t, len(d.List.SortOptions) > 0).True()
		gt.Bool(t, d.List.SortValue != nil).True()
		got, ok := Lookup(d.Name)
		gt.Bool(t, ok).True()
		gt.Value(t, got.Resource).Equal(d.Resource)
	}
	d, ok := Lookup("/hotel-bookings")
	gt.Bool(t, ok).True()
	gt.Value(t, d.Title).Equal("Hotel bookings")
	_, ok = Lookup("invoices")
	gt.Bool(t, ok).False()
}
