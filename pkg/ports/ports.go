// Package ports declares the interfaces the application depends on.
//
// Adapters under pkg/adapters implement them; the application layer under
// internal/application consumes them.
package ports

import (
	"context"
	"time"

	"github.com/aescanero/kdpniche/pkg/domain"
)

// MetricsProvider produces keyword metrics for a market.
//
// The mock provider returns random placeholder values. A real source (ad
// platform, marketplace scraper) only needs to satisfy this interface.
type MetricsProvider interface {
	Name() string
	Analyze(ctx context.Context, keyword, market string) (*domain.AnalysisResult, error)
}

// EventHandler handles an event received from the bus
type EventHandler func(ctx context.Context, event domain.AnalysisEvent) error

// EventBus publishes and delivers analysis events
type EventBus interface {
	Publish(ctx context.Context, topic string, event domain.AnalysisEvent) error
	// Subscribe registers handler until ctx is cancelled.
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Ping(ctx context.Context) error
	Close() error
}

// Analyze request outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// MetricsCollector records service metrics
type MetricsCollector interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	RecordAnalyzeRequest(outcome string)
	RecordEventPublished(topic, status string)
	SetDependencyUp(dependency string, up bool)
}
