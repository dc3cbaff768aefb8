// Package auth provides HTTP middleware that enforces API key authentication
// on the REST API and the WebSocket endpoint.
//
// When mode is "apikey" and a key is configured, every request must carry the
// key in the configured header; otherwise requests pass through untouched.
package auth
