package devserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"tourdesk/internal/api"
	"tourdesk/internal/entity"
	"tourdesk/internal/model"
	"tourdesk/internal/page"
	"tourdesk/internal/store"

	"github.com/m-mizutani/gt"
)

func newTestServer(t *testing.T, opts ...Options) (*httptest.Server, *store.Documents) {
	t.Helper()
	ctx := context.Background()
	docs, err := store.OpenDocuments(ctx, filepath.Join(t.TempDir(), "dev.sqlite"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = docs.Close() })
	_, err = Seed(ctx, docs)
	gt.NoError(t, err).Required()

	n := 0
	opts = append([]Options{WithClock(func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) })}, opts...)
	s := New(docs, opts...)
	s.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv, docs
}

func TestCRUD_RoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	c := api.New(srv.URL, nil)

	created, err := c.Create(ctx, "/customers", model.Record{"name": "Amy", "email": "amy@example.com"})
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID()).Equal("id-1")
	gt.Value(t, created.String("createdAt")).Equal("2024-03-05T10:00:00Z")

	updated, err := c.Update(ctx, "/customers", "id-1", model.Record{"name": "Amy Stone"})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.String("name")).Equal("Amy Stone")
	gt.Value(t, updated.String("createdAt")).Equal("2024-03-05T10:00:00Z")
	_, hasEmail := updated["email"]
	gt.Bool(t, hasEmail).False()

	recs, err := c.List(ctx, "/customers")
	gt.NoError(t, err).Required()
	gt.Array(t, recs).Length(1)

	gt.NoError(t, c.Delete(ctx, "/customers", "id-1")).Required()
	recs, _ = c.List(ctx, "/customers")
	gt.Array(t, recs).Length(0)
}

func TestValidationAndNotFoundMessages(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	c := api.New(srv.URL, nil)

	_, err := c.Create(ctx, "/customers", model.Record{"email": "x"})
	gt.String(t, api.Message(err, "fallback")).Contains("Name is required")

	err = c.Delete(ctx, "/customers", "missing")
	gt.Value(t, api.Message(err, "fallback")).Equal("Record not found")
}

func TestTotalsComputedAndRelationsExpanded(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	c := api.New(srv.URL, nil)

	_, err := c.Create(ctx, "/transports", model.Record{
		"vehicleType": "sedan", "vehicleNumber": "KA-01",
		"dailyRent": 1000.0, "noOfDays": 3.0, "parkingToll": 200.0, "extraKm": 10.0, "extraKmRate": 5.0,
	})
	gt.NoError(t, err).Required()

	booking, err := c.Create(ctx, "/hotel-bookings", model.Record{
		"guestName":    "Bo",
		"destination":  "dest-goa",
		"hotel":        map[string]any{"_id": "hotel-seaview", "hotelName": "stale"},
		"checkIn":      "2024-03-05",
		"checkOut":     "2024-03-07",
		"rooms":        1.0,
		"ratePerNight": 3600.0,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, booking["grandTotal"]).Equal(7200.0)

	hotel, ok := model.AsRecord(booking["hotel"])
	gt.Bool(t, ok).True()
	gt.Value(t, hotel.String("hotelName")).Equal("Sea View Resort")

	recs, err := c.List(ctx, "/transports")
	gt.NoError(t, err).Required()
	gt.Value(t, recs[0]["netTotal"]).Equal(3250.0)
}

func TestLookups(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	c := api.New(srv.URL, nil)

	dests, err := c.Destinations(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, dests).Length(3)

	hotels, err := c.HotelsByDestination(ctx, "dest-goa")
	gt.NoError(t, err).Required()
	gt.Array(t, hotels).Length(2)
	rt, ok := hotels[0].RoomType("Deluxe")
	gt.Bool(t, ok).True()
	gt.Value(t, rt.Rate).Equal(3600.0)
}

func TestBearerToken(t *testing.T) {
	srv, _ := newTestServer(t, WithToken("s3cret"))
	ctx := context.Background()

	_, err := api.New(srv.URL, api.StaticToken("wrong")).List(ctx, "/payments")
	gt.Value(t, api.Message(err, "x")).Equal("Unauthorized")

	_, err = api.New(srv.URL, api.StaticToken("s3cret")).List(ctx, "/payments")
	gt.NoError(t, err)
}

func TestPageAgainstServer_DeleteScenario(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	c := api.New(srv.URL, nil)
	_, _ = c.Create(ctx, "/customers", model.Record{"name": "Amy"})
	_, _ = c.Create(ctx, "/customers", model.Record{"name": "Bo"})

	p := page.New(entity.Customers, c, nil)
	gt.NoError(t, p.Load(ctx)).Required()
	gt.Value(t, p.List.Len()).Equal(2)

	amy, ok := p.List.Find("id-1")
	gt.Bool(t, ok).True()
	gt.NoError(t, p.Delete.Begin(amy)).Required()
	gt.NoError(t, p.ConfirmDelete(ctx)).Required()

	view := p.List.View()
	gt.Array(t, view).Length(1)
	gt.Value(t, view[0].String("name")).Equal("Bo")
}

func TestSeed_Idempotent(t *testing.T) {
	_, docs := newTestServer(t)
	n, err := Seed(context.Background(), docs)
	gt.NoError(t, err).Required()
	gt.Value(t, n).Equal(0)
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/invoices")
	gt.NoError(t, err).Required()
	defer resp.Body.Close()
	gt.Value(t, resp.StatusCode).Equal(http.StatusNotFound)
}
