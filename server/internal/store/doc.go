// Package store keeps the latest rendered card per panel in memory, with TTL
// eviction. It is the source of truth for the REST API and the WebSocket hub.
package store
