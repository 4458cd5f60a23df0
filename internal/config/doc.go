// Package config provides configuration management for the KDP niche backend.
//
// Configuration is loaded from environment variables using the env package.
// All configuration values have sensible defaults for development use; the
// only variable most deployments set is PORT.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
