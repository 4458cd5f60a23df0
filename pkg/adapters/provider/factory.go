package provider

import (
	"fmt"

	"github.com/aescanero/kdpniche/pkg/adapters/provider/mock"
	"github.com/aescanero/kdpniche/pkg/ports"
	"go.uber.org/zap"
)

// Config holds metrics provider configuration
type Config struct {
	Name   string
	Logger *zap.Logger
}

// NewProvider creates a metrics provider based on its name
func NewProvider(cfg *Config) (ports.MetricsProvider, error) {
	switch cfg.Name {
	case "mock":
		if cfg.Logger != nil {
			cfg.Logger.Warn("using mock metrics provider, analysis results are random placeholders")
		}
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported metrics provider: %s", cfg.Name)
	}
}
