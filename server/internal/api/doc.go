// Package api implements the HTTP REST API of the statcard server.
//
// New(store, metrics, alerts, defaults, onRender) returns an http.Handler
// that serves:
//
//	GET  /api/v1/health             panel count, per-status and firing alert counts
//	GET  /api/v1/panels             all live panels ([]PanelResponse)
//	GET  /api/v1/panels/{id}        single panel; 404 if unknown or stale
//	POST /api/v1/panels/{id}/render render a query result into a card
//	GET  /api/v1/snapshot           all live panels + generated_at
//	GET  /api/v1/alerts             firing and recently resolved alerts
//
// A render body is {"options": {...}, "series": [...]}. Options are overlaid
// on the server defaults; series uses the frames JSON format. A body that is
// not valid JSON is rejected with 400; a result without numeric data renders
// the NO_DATA card. Every stored render is evaluated against the alert rules.
//
// All responses are JSON. JSON types are defined in types.go.
package api
