// Package analysis implements keyword niche analysis.
//
// The Service validates the request parameters, asks the configured
// MetricsProvider for keyword metrics, records metrics and publishes an
// analysis event for every request it handles.
package analysis
