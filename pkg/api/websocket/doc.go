// Package websocket streams analysis events to connected clients.
//
// Clients connect to /analyze/stream and receive every analysis event as a
// JSON text message. The optional market query parameter restricts the
// stream to one market.
package websocket
