// Package transport adapts the dispatcher to net/http: it owns CORS,
// OPTIONS short-circuiting, JSON body parsing and the post-mutation
// snapshot save. Everything behind it is transport-free.
package transport

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/newsline/newsline/internal/api"
	"github.com/newsline/newsline/internal/persist"
)

// Handler is the single http.Handler for the whole API surface. Route
// matching happens in the dispatcher, so every registered chi route
// and the NotFound/MethodNotAllowed fallbacks all point here.
type Handler struct {
	dispatcher  *api.Dispatcher
	persister   persist.Persister
	sugarLogger *zap.SugaredLogger
	completed   *metric.BoundInt64Counter
}

// New wires the transport. completed may be nil when no meter is set
// up, as in tests.
func New(d *api.Dispatcher, p persist.Persister, logger *zap.SugaredLogger, completed *metric.BoundInt64Counter) *Handler {
	return &Handler{
		dispatcher:  d,
		persister:   p,
		sugarLogger: logger,
		completed:   completed,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)

	// Preflight never reaches the dispatcher.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)

		return
	}

	body, ok := h.readBody(r)
	if !ok {
		h.respond(w, r, api.Envelope{Status: http.StatusBadRequest})

		return
	}

	env := h.dispatcher.Dispatch(r.Method, r.URL.Path, body)
	h.respond(w, r, env)

	if h.completed != nil {
		h.completed.Add(r.Context(), 1)
	}

	if mutating(r.Method) && env.Status < http.StatusBadRequest {
		h.flush()
	}
}

// readBody collects and validates the JSON request body for
// body-bearing methods. GET and DELETE requests carry no body by
// contract. Malformed JSON is an explicit 400, not an aborted
// response.
func (h *Handler) readBody(r *http.Request) (json.RawMessage, bool) {
	if r.Method == http.MethodGet || r.Method == http.MethodDelete || r.Body == nil {
		return nil, true
	}

	raw, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return nil, false
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, true
	}
	if !json.Valid(raw) {
		return nil, false
	}

	return raw, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, env api.Envelope) {
	if env.Body == nil {
		w.WriteHeader(env.Status)

		return
	}

	render.Status(r, env.Status)
	render.Respond(w, r, env.Body)
}

// flush snapshots the store and hands the write to the persister
// without waiting for it. A failed save is logged and otherwise
// swallowed; the response has already gone out.
func (h *Handler) flush() {
	snap := h.dispatcher.Snapshot()
	go func() {
		if err := h.persister.Save(snap); err != nil {
			h.sugarLogger.Errorw("snapshot save failed", "error", err)
		}
	}()
}

func mutating(method string) bool {
	return method != http.MethodGet && method != http.MethodOptions
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
