// Package server serves the rest/taxis collection over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/VoxDroid/taxis/internal/store"
	"github.com/VoxDroid/taxis/internal/taxi"
)

const maxBodyBytes = 1 << 20

// Store is the persistence the handlers need.
type Store interface {
	FindAllOrderedByRegistration(ctx context.Context) ([]taxi.Taxi, error)
	FindBySeat(ctx context.Context, seat string) ([]taxi.Taxi, error)
	FindByID(ctx context.Context, id taxi.ID) (*taxi.Taxi, error)
	Create(ctx context.Context, t taxi.Taxi) (*taxi.Taxi, error)
	Update(ctx context.Context, t taxi.Taxi) (*taxi.Taxi, error)
	Delete(ctx context.Context, id taxi.ID) error
}

// Error bodies mirror the form field they concern so the client can show
// them next to the input.
const (
	msgRegistrationTaken = "That registration is already used, please use a unique registration"
	msgNotFound          = "No Taxi with the id supplied was found"
)

// Handler implements the rest/taxis endpoints.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// NewHandler returns a Handler backed by s.
func NewHandler(s Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: s, logger: logger}
}

// NewRouter wires the routes and middleware.
func NewRouter(s Store, logger *slog.Logger) http.Handler {
	h := NewHandler(s, logger)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /rest/taxis", h.List)
	mux.HandleFunc("POST /rest/taxis", h.Create)
	mux.HandleFunc("GET /rest/taxis/{taxiId}", h.Get)
	mux.HandleFunc("PUT /rest/taxis/{taxiId}", h.Update)
	mux.HandleFunc("DELETE /rest/taxis/{taxiId}", h.Delete)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})

	return Chain(mux,
		RequestIDs,
		Recovery(h.logger),
		Logging(h.logger),
	)
}

// NewHTTPServer returns an http.Server for addr with the timeouts used in
// production.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// List returns every taxi sorted by registration, optionally only those with
// the ?seat= count.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		taxis []taxi.Taxi
		err   error
	)
	if seat := r.URL.Query().Get("seat"); seat != "" {
		taxis, err = h.store.FindBySeat(r.Context(), seat)
	} else {
		taxis, err = h.store.FindAllOrderedByRegistration(r.Context())
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taxis)
}

// Get returns one taxi.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	t, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Create validates and stores a new taxi.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	t, ok := h.decodeTaxi(w, r)
	if !ok {
		return
	}
	t.ID = 0
	created, err := h.store.Create(r.Context(), t)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.logger.Info("taxi created", "id", created.ID, "registration", created.Registration)
	writeJSON(w, http.StatusCreated, created)
}

// Update validates and replaces the taxi named in the path.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	t, ok := h.decodeTaxi(w, r)
	if !ok {
		return
	}
	if t.ID != 0 && t.ID != id {
		writeJSON(w, http.StatusConflict, map[string]string{"id": "Taxi id in the body does not match the path"})
		return
	}
	t.ID = id
	updated, err := h.store.Update(r.Context(), t)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.logger.Info("taxi updated", "id", updated.ID, "registration", updated.Registration)
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes the taxi named in the path.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.logger.Info("taxi deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (taxi.ID, bool) {
	id, err := taxi.ParseID(r.PathValue("taxiId"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"id": "Taxi id must be a positive number"})
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeTaxi(w http.ResponseWriter, r *http.Request) (taxi.Taxi, bool) {
	var t taxi.Taxi
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err == nil {
		err = json.Unmarshal(body, &t)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Request body is not a valid taxi: " + err.Error()})
		return taxi.Taxi{}, false
	}
	if err := taxi.Validate(t); err != nil {
		var ve taxi.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, ve)
			return taxi.Taxi{}, false
		}
		h.internalError(w, r, err)
		return taxi.Taxi{}, false
	}
	return t, true
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": msgNotFound})
	case errors.Is(err, store.ErrRegistrationTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"registration": msgRegistrationTaken})
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("taxi request failed", "error", err, "request_id", RequestID(r.Context()))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Error encoding JSON response", "error", err)
	}
}
