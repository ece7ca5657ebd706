package entity

import (
	"time"

	"tourdesk/internal/detail"
	"tourdesk/internal/form"
	"tourdesk/internal/model"

	"github.com/shopspring/decimal"
)

func PackageTotals(d model.Record) []form.Total {
	balance := form.Dec(d, "totalAmount").Sub(form.Dec(d, "amountPaid"))
	return []form.Total{
		{Key: "balance", Label: "Balance", Value: balance, Currency: true},
	}
}

func ExpenseTotals(d model.Record) []form.Total {
	total := decimal.Sum(
		form.Dec(d, "hotelCost"),
		form.Dec(d, "transportCost"),
		form.Dec(d, "foodCost"),
		form.Dec(d, "guideCost"),
		form.Dec(d, "miscCost"),
	)
	return []form.Total{
		{Key: "total", Label: "Total", Value: total, Currency: true},
	}
}

func TransportTotals(d model.Record) []form.Total {
	totalRent := form.Dec(d, "dailyRent").Mul(form.Dec(d, "noOfDays"))
	extraKmTotal := form.Dec(d, "extraKm").Mul(form.Dec(d, "extraKmRate"))
	netTotal := totalRent.Add(extraKmTotal).Add(form.Dec(d, "parkingToll"))
	return []form.Total{
		{Key: "totalRent", Label: "Total rent", Value: totalRent, Currency: true},
		{Key: "extraKmTotal", Label: "Extra km total", Value: extraKmTotal, Currency: true},
		{Key: "netTotal", Label: "Net total", Value: netTotal, Currency: true},
	}
}

// Nights counts whole days between check-in and check-out, never negative.
// Either date missing gives zero.
func Nights(checkIn, checkOut any) int64 {
	in, ok := detail.ParseTime(checkIn)
	if !ok {
		return 0
	}
	out, ok := detail.ParseTime(checkOut)
	if !ok {
		return 0
	}
	n := int64(out.Sub(in) / (24 * time.Hour))
	if n < 0 {
		return 0
	}
	return n
}

func HotelBookingTotals(d model.Record) []form.Total {
	nights := decimal.NewFromInt(Nights(d["checkIn"], d["checkOut"]))
	roomTotal := nights.Mul(form.Dec(d, "rooms")).Mul(form.Dec(d, "ratePerNight"))
	extraBedTotal := nights.Mul(form.Dec(d, "extraBeds")).Mul(form.Dec(d, "extraBedRate"))
	grandTotal := roomTotal.Add(extraBedTotal)
	balance := grandTotal.Sub(form.Dec(d, "amountPaid"))
	return []form.Total{
		{Key: "nights", Label: "Nights", Value: nights},
		{Key: "roomTotal", Label: "Room total", Value: roomTotal, Currency: true},
		{Key: "extraBedTotal", Label: "Extra bed total", Value: extraBedTotal, Currency: true},
		{Key: "grandTotal", Label: "Grand total", Value: grandTotal, Currency: true},
		{Key: "balance", Label: "Balance", Value: balance, Currency: true},
	}
}

// RoomTypeOptions lists a hotel's room types as select options.
func RoomTypeOptions(h model.Hotel) []form.Option {
	out := make([]form.Option, 0, len(h.RoomTypes))
	for _, rt := range h.RoomTypes {
		out = append(out, form.Option{Value: rt.Name, Label: rt.Name})
	}
	return out
}

// ApplyRoomRate copies the chosen room type's rates into a booking draft when
// the draft has none yet.
func ApplyRoomRate(c *form.Controller, h model.Hotel) {
	if c.Text("hotel") != h.ID {
		return
	}
	rt, ok := h.RoomType(c.Text("roomType"))
	if !ok {
		return
	}
	if form.Dec(c.Draft(), "ratePerNight").IsZero() && rt.Rate > 0 {
		c.SetValue("ratePerNight", rt.Rate)
	}
	if form.Dec(c.Draft(), "extraBedRate").IsZero() && rt.ExtraBedRate > 0 {
		c.SetValue("extraBedRate", rt.ExtraBedRate)
	}
}
