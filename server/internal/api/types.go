package api

import (
	"encoding/json"

	"github.com/obsidianstack/statcard/internal/card"
)

// RenderRequest is the body of POST /api/v1/panels/{id}/render.
type RenderRequest struct {
	// Options overlays the server defaults; absent keys keep their default.
	Options json.RawMessage `json:"options,omitempty"`

	// Series is the query result in the frames JSON format.
	Series json.RawMessage `json:"series"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	PanelCount   int `json:"panel_count"`
	NoDataCount  int `json:"no_data_count"`
	LowCount     int `json:"low_count"`
	NormalCount  int `json:"normal_count"`
	HighCount    int `json:"high_count"`
	AnomalyCount int `json:"anomaly_count"`
	AlertCount   int `json:"alert_count"`
}

// PanelResponse is one panel entry in GET /api/v1/panels, GET
// /api/v1/panels/{id} and the render response.
type PanelResponse struct {
	PanelID     string           `json:"panel_id"`
	RenderID    string           `json:"render_id"`
	Card        card.ViewModel   `json:"card"`
	Diagnostics []DiagnosticHint `json:"diagnostics"`
	UpdatedAt   string           `json:"updated_at"` // RFC3339
}

// SnapshotResponse is the payload for GET /api/v1/snapshot and the WebSocket
// broadcast.
type SnapshotResponse struct {
	Panels      []PanelResponse `json:"panels"`
	GeneratedAt string          `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
