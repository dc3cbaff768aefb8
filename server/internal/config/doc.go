// Package config loads the server configuration from the `server:` section of
// statcard.yaml, with STATCARD_* environment overrides (for example
// STATCARD_SERVER_HTTP_PORT).
//
// Config fields:
//   - HTTPPort: port for the REST API, WebSocket hub and /metrics (default 8080)
//   - Auth.Mode: "apikey" or "none"
//   - Auth.KeyEnv: environment variable holding the expected API key
//   - Auth.Header: HTTP header name (default "x-api-key")
//   - Panels.TTL: how long a rendered card remains live (default 5m)
//   - Stream.Interval: WebSocket broadcast period (default 5s)
//   - OptionsFile: optional options.yaml overlaid by each render request
//   - Alerts: card alert rules and webhook targets
//
// Load(path) applies defaults, reads the file (a missing file is fine when no
// path is given), then validates.
package config
