// Package devserver serves the collection API from a local SQLite file so the
// console can be exercised without the production backend.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tourdesk/internal/entity"
	"tourdesk/internal/model"
	"tourdesk/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

const (
	destinationsCollection = "destinations"
	hotelsCollection       = "hotels"
)

// expansions maps relation keys to the collection they point into.
var expansions = map[string]string{
	"customer":    "customers",
	"package":     "packages",
	"destination": destinationsCollection,
	"hotel":       hotelsCollection,
}

type Server struct {
	router *chi.Mux
	docs   *store.Documents
	token  string
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

type Options func(*Server)

func WithToken(token string) Options {
	return func(s *Server) {
		s.token = strings.TrimSpace(token)
	}
}

func WithLogger(l *slog.Logger) Options {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Options {
	return func(s *Server) {
		s.now = now
	}
}

func New(docs *store.Documents, opts ...Options) *Server {
	r := chi.NewRouter()
	s := &Server{
		router: r,
		docs:   docs,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(s.accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.auth)

	for _, def := range entity.All() {
		def := def
		r.Route(def.Resource, func(r chi.Router) {
			r.Get("/", s.listHandler(def))
			r.Post("/", s.createHandler(def))
			r.Get("/{id}", s.getHandler(def))
			r.Put("/{id}", s.updateHandler(def))
			r.Delete("/{id}", s.deleteHandler(def))
		})
	}

	r.Route("/admin", func(r chi.Router) {
		r.Get("/destinations", s.destinationsHandler)
		r.Post("/destinations", s.createLookupHandler(destinationsCollection, "name"))
		r.Get("/hotels/destination/{id}", s.hotelsByDestinationHandler)
		r.Post("/hotels", s.createLookupHandler(hotelsCollection, "hotelName"))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if got != s.token {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func collection(def *entity.Definition) string {
	return strings.TrimPrefix(def.Resource, "/")
}

func (s *Server) listHandler(def *entity.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := s.docs.List(r.Context(), collection(def))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out := make([]model.Record, 0, len(recs))
		for _, rec := range recs {
			out = append(out, s.expand(r.Context(), rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) getHandler(def *entity.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.docs.Get(r.Context(), collection(def), chi.URLParam(r, "id"))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s.expand(r.Context(), rec))
	}
}

func (s *Server) createHandler(def *entity.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := s.decode(w, r, def)
		if !ok {
			return
		}
		now := s.now().UTC().Format(time.RFC3339)
		rec := def.WithTotals(payload)
		rec[model.IDKey] = s.newID()
		rec["createdAt"] = now
		rec["updatedAt"] = now
		if err := s.docs.Put(r.Context(), collection(def), rec); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, s.expand(r.Context(), rec))
	}
}

func (s *Server) updateHandler(def *entity.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		prev, err := s.docs.Get(r.Context(), collection(def), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		payload, ok := s.decode(w, r, def)
		if !ok {
			return
		}
		rec := def.WithTotals(payload)
		rec[model.IDKey] = id
		if created, ok := prev["createdAt"]; ok {
			rec["createdAt"] = created
		}
		rec["updatedAt"] = s.now().UTC().Format(time.RFC3339)
		if err := s.docs.Put(r.Context(), collection(def), rec); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s.expand(r.Context(), rec))
	}
}

func (s *Server) deleteHandler(def *entity.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.docs.Delete(r.Context(), collection(def), chi.URLParam(r, "id")); err != nil {
			s.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) destinationsHandler(w http.ResponseWriter, r *http.Request) {
	recs, err := s.docs.List(r.Context(), destinationsCollection)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) hotelsByDestinationHandler(w http.ResponseWriter, r *http.Request) {
	destID := chi.URLParam(r, "id")
	recs, err := s.docs.List(r.Context(), hotelsCollection)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := []model.Record{}
	for _, rec := range recs {
		if model.HotelFromRecord(rec).Destination == destID {
			out = append(out, rec)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createLookupHandler(coll, nameKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec model.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec == nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if strings.TrimSpace(rec.String(nameKey)) == "" {
			writeError(w, http.StatusBadRequest, nameKey+" is required")
			return
		}
		if rec.ID() == "" {
			rec[model.IDKey] = s.newID()
		}
		if err := s.docs.Put(r.Context(), coll, rec); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

// decode reads the body, collapses relation objects to ids and validates it
// against the page's form.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, def *entity.Definition) (model.Record, bool) {
	var payload model.Record
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	delete(payload, model.IDKey)
	for _, f := range def.Form.Fields {
		if !f.Relation {
			continue
		}
		if ref, ok := model.RefOf(payload[f.Key]); ok {
			payload[f.Key] = ref.ID
		}
	}
	if err := def.Form.Validate(payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return payload, true
}

// expand replaces relation ids with the referenced documents, one level deep.
func (s *Server) expand(ctx context.Context, rec model.Record) model.Record {
	out := rec.Clone()
	for key, coll := range expansions {
		id, ok := rec[key].(string)
		if !ok || id == "" {
			continue
		}
		doc, err := s.docs.Get(ctx, coll, id)
		if err != nil {
			continue
		}
		out[key] = map[string]any(doc)
	}
	return out
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, goerr.Wrap(err, "failed to marshal response").Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

func writeError(w http.ResponseWriter, status int, msg string) {
	data, _ := json.Marshal(map[string]string{"message": msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}
