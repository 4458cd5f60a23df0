// Package health monitors the service dependencies.
//
// The monitor pings every registered dependency on a fixed interval, logs
// the result, updates the dependency gauge and keeps the latest status for
// the /health endpoint.
package health
