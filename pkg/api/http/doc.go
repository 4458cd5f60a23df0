// Package http provides the HTTP API implementation.
//
// The HTTP server exposes endpoints for:
//   - Service greeting (GET /)
//   - Keyword niche analysis (GET /analyze)
//   - Live analysis stream over WebSocket (GET /analyze/stream)
//   - Health checks
//   - Prometheus metrics
package http
