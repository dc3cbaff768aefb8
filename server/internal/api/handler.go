package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/obsidianstack/statcard/internal/card"
	"github.com/obsidianstack/statcard/internal/compute"
	"github.com/obsidianstack/statcard/internal/frames"
	"github.com/obsidianstack/statcard/internal/options"
	"github.com/obsidianstack/statcard/pkg/types"
	"github.com/obsidianstack/statcard/server/internal/alerts"
	"github.com/obsidianstack/statcard/server/internal/metrics"
	"github.com/obsidianstack/statcard/server/internal/store"
)

// maxBodyBytes caps the size of a render request body.
const maxBodyBytes = 10 << 20

// OptionsFunc returns the options applied when a render request omits keys.
type OptionsFunc func() options.Options

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	store    *store.Store
	metrics  *metrics.Metrics
	alerts   *alerts.Engine
	defaults OptionsFunc
	onRender func(panelID string)
	router   chi.Router
}

// New creates a Handler wired to the given store, metrics and alert engine
// and registers all routes. A nil defaults uses options.Defaults. onRender,
// when non-nil, is called after every stored render.
func New(st *store.Store, m *metrics.Metrics, ae *alerts.Engine, defaults OptionsFunc, onRender func(panelID string)) http.Handler {
	if defaults == nil {
		defaults = options.Defaults
	}
	h := &Handler{
		store:    st,
		metrics:  m,
		alerts:   ae,
		defaults: defaults,
		onRender: onRender,
		router:   chi.NewRouter(),
	}

	h.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusNotFound, "not found")
	})
	h.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	h.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/panels", h.listPanels)
		r.Get("/panels/{id}", h.getPanel)
		r.Post("/panels/{id}/render", h.render)
		r.Get("/snapshot", h.snapshot)
		r.Get("/alerts", h.listAlerts)
	})

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health: per-status counts across live panels.
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	entries := h.store.List()
	resp := HealthResponse{PanelCount: len(entries)}
	for _, a := range h.alerts.Active() {
		if a.State == alerts.StateFiring {
			resp.AlertCount++
		}
	}

	for _, e := range entries {
		a := e.Card.Analysis
		resp.AnomalyCount += a.AnomalyCount
		switch a.StatusLabel {
		case compute.LabelLow:
			resp.LowCount++
		case compute.LabelNormal:
			resp.NormalCount++
		case compute.LabelHigh:
			resp.HighCount++
		default:
			resp.NoDataCount++
		}
	}
	jsonResp(w, http.StatusOK, resp)
}

// listPanels returns GET /api/v1/panels: all live panels.
func (h *Handler) listPanels(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, toPanelResponses(h.store.List()))
}

// getPanel returns GET /api/v1/panels/{id}: a single live panel.
func (h *Handler) getPanel(w http.ResponseWriter, r *http.Request) {
	e, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		jsonErr(w, http.StatusNotFound, "panel not found")
		return
	}
	jsonResp(w, http.StatusOK, toPanelResponse(e))
}

// render handles POST /api/v1/panels/{id}/render.
func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	series, opts, err := h.decodeRender(r.Body)
	if err != nil {
		h.metrics.ObserveError()
		slog.Warn("api: rejected render request", "panel", id, "err", err)
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	vm := card.Build(series, opts)
	e := h.store.Put(id, vm)
	h.metrics.ObserveRender(id, vm)
	h.alerts.Evaluate(id, vm)
	if h.onRender != nil {
		h.onRender(id)
	}

	slog.Debug("api: rendered card",
		"panel", id,
		"status", vm.Analysis.StatusLabel,
		"anomalies", vm.Analysis.AnomalyCount,
	)
	jsonResp(w, http.StatusOK, toPanelResponse(e))
}

// snapshot returns GET /api/v1/snapshot: full JSON dump of all live panels.
func (h *Handler) snapshot(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, BuildSnapshot(h.store))
}

// listAlerts returns GET /api/v1/alerts: firing and recently resolved alerts.
func (h *Handler) listAlerts(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// --- helpers ----------------------------------------------------------------

// decodeRender parses a render body into series and effective options.
func (h *Handler) decodeRender(body io.Reader) ([]types.Series, options.Options, error) {
	var req RenderRequest
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, options.Options{}, fmt.Errorf("decode body: %w", err)
	}

	opts := h.defaults()
	if len(req.Options) > 0 {
		if err := json.Unmarshal(req.Options, &opts); err != nil {
			return nil, options.Options{}, fmt.Errorf("decode options: %w", err)
		}
	}

	series, err := frames.ParseJSON(req.Series)
	if err != nil {
		return nil, options.Options{}, err
	}
	return series, opts.Normalized(), nil
}

// BuildSnapshot assembles the snapshot of all live panels in st.
func BuildSnapshot(st *store.Store) SnapshotResponse {
	return SnapshotResponse{
		Panels:      toPanelResponses(st.List()),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func toPanelResponses(entries []*store.Entry) []PanelResponse {
	out := make([]PanelResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toPanelResponse(e))
	}
	return out
}

// toPanelResponse maps a store.Entry to its JSON representation.
func toPanelResponse(e *store.Entry) PanelResponse {
	return PanelResponse{
		PanelID:     e.PanelID,
		RenderID:    e.RenderID,
		Card:        e.Card,
		Diagnostics: computeDiagnostics(e.Card),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
