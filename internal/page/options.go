package page

import (
	"context"
	"sync"

	"tourdesk/internal/entity"
	"tourdesk/internal/form"
	"tourdesk/internal/model"

	"github.com/m-mizutani/goerr/v2"
)

// Lookups is the read side of the API used to fill select options.
type Lookups interface {
	List(ctx context.Context, resource string) ([]model.Record, error)
	Destinations(ctx context.Context) ([]model.Destination, error)
	HotelsByDestination(ctx context.Context, destinationID string) ([]model.Hotel, error)
}

// recordSources maps option sources to the collection listed for them.
var recordSources = map[string]string{
	"customers": "/customers",
	"packages":  "/packages",
}

// Options fills a form's dynamic select lists and keeps the hotel cache the
// room-type list is derived from.
type Options struct {
	src Lookups

	mu     sync.Mutex
	hotels map[string]model.Hotel
}

func NewOptions(src Lookups) *Options {
	return &Options{src: src, hotels: map[string]model.Hotel{}}
}

// Prime loads every source the form's fields draw from. Hotels and room
// types are loaded for the draft's current destination and hotel.
func (o *Options) Prime(ctx context.Context, c *form.Controller) error {
	for _, f := range c.Spec().Fields {
		switch f.Source {
		case "customers", "packages":
			recs, err := o.src.List(ctx, recordSources[f.Source])
			if err != nil {
				return goerr.Wrap(err, "failed to load options", goerr.V("source", f.Source))
			}
			c.SetOptions(f.Source, recordOptions(recs))
		case "destinations":
			dests, err := o.src.Destinations(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load destinations")
			}
			opts := make([]form.Option, 0, len(dests))
			for _, d := range dests {
				opts = append(opts, form.Option{Value: d.ID, Label: d.Name})
			}
			c.SetOptions("destinations", opts)
		}
	}
	if _, ok := c.Spec().Field("hotel"); ok {
		if err := o.loadHotels(ctx, c); err != nil {
			return err
		}
		o.roomTypes(c)
	}
	return nil
}

// Changed reacts to an edit of key: a new destination reloads hotels, a new
// hotel swaps the room types and a room type fills in its rates.
func (o *Options) Changed(ctx context.Context, c *form.Controller, key string) error {
	switch key {
	case "destination":
		if _, ok := c.Spec().Field("hotel"); !ok {
			return nil
		}
		if err := o.loadHotels(ctx, c); err != nil {
			return err
		}
		o.roomTypes(c)
	case "hotel":
		o.roomTypes(c)
	case "roomType":
		if h, ok := o.hotel(c.Text("hotel")); ok {
			entity.ApplyRoomRate(c, h)
		}
	}
	return nil
}

func (o *Options) loadHotels(ctx context.Context, c *form.Controller) error {
	dest := c.Text("destination")
	if dest == "" {
		c.SetOptions("hotels", nil)
		return nil
	}
	hotels, err := o.src.HotelsByDestination(ctx, dest)
	if err != nil {
		return goerr.Wrap(err, "failed to load hotels", goerr.V("destination", dest))
	}
	opts := make([]form.Option, 0, len(hotels))
	o.mu.Lock()
	for _, h := range hotels {
		o.hotels[h.ID] = h
		opts = append(opts, form.Option{Value: h.ID, Label: h.HotelName})
	}
	o.mu.Unlock()
	c.SetOptionsIf("hotels", opts, "destination", dest)
	return nil
}

func (o *Options) roomTypes(c *form.Controller) {
	if _, ok := c.Spec().Field("roomType"); !ok {
		return
	}
	id := c.Text("hotel")
	h, ok := o.hotel(id)
	if !ok {
		c.SetOptionsIf("roomTypes", nil, "hotel", id)
		return
	}
	c.SetOptionsIf("roomTypes", entity.RoomTypeOptions(h), "hotel", id)
}

func (o *Options) hotel(id string) (model.Hotel, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	h, ok := o.hotels[id]
	return h, ok
}

func recordOptions(recs []model.Record) []form.Option {
	opts := make([]form.Option, 0, len(recs))
	for _, r := range recs {
		label := model.DisplayName(r)
		if label == "" {
			label = r.ID()
		}
		opts = append(opts, form.Option{Value: r.ID(), Label: label})
	}
	return opts
}
