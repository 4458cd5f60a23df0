// Package provider creates keyword metrics providers.
//
// The factory creates providers based on configuration.
// Currently supports:
//   - mock: random placeholder metrics
//
// Future providers:
//   - Ads keyword planner (search volume)
//   - Marketplace scraper (competition)
package provider
