package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aescanero/kdpniche/pkg/domain"
	"github.com/aescanero/kdpniche/pkg/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service coordinates keyword analysis
type Service struct {
	provider  ports.MetricsProvider
	eventBus  ports.EventBus
	metrics   ports.MetricsCollector
	validator *Validator
	logger    *zap.Logger

	publishTimeout time.Duration
	pending        sync.WaitGroup
}

// NewService creates a new analysis service
func NewService(
	provider ports.MetricsProvider,
	eventBus ports.EventBus,
	metrics ports.MetricsCollector,
	validator *Validator,
	publishTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		provider:       provider,
		eventBus:       eventBus,
		metrics:        metrics,
		validator:      validator,
		publishTimeout: publishTimeout,
		logger:         logger,
	}
}

// Analyze validates the request and returns metrics for keyword.
// It returns ErrMissingParameter when keyword or market is empty.
func (s *Service) Analyze(ctx context.Context, keyword, market string) (*domain.AnalysisResult, error) {
	if err := s.validator.Validate(keyword, market); err != nil {
		s.metrics.RecordAnalyzeRequest(ports.OutcomeRejected)
		s.publish(ctx, domain.AnalysisEvent{
			Type:    domain.EventTypeAnalysisRejected,
			Keyword: keyword,
			Market:  market,
		})
		return nil, err
	}

	s.logger.Info("received analysis request",
		zap.String("keyword", keyword),
		zap.String("market", market))

	result, err := s.provider.Analyze(ctx, keyword, market)
	if err != nil {
		s.metrics.RecordAnalyzeRequest(ports.OutcomeFailed)
		return nil, fmt.Errorf("provider %s failed: %w", s.provider.Name(), err)
	}

	s.metrics.RecordAnalyzeRequest(ports.OutcomeSuccess)
	s.publish(ctx, domain.AnalysisEvent{
		Type:    domain.EventTypeAnalysisCompleted,
		Keyword: keyword,
		Market:  market,
		Result:  result,
	})

	return result, nil
}

// Wait blocks until every event handed to the bus has been published or
// has timed out.
func (s *Service) Wait() {
	s.pending.Wait()
}

// publish sends event to the bus in the background, bounded by the publish
// timeout and detached from the request's cancellation. Failures are logged,
// never returned.
func (s *Service) publish(ctx context.Context, event domain.AnalysisEvent) {
	event.ID = uuid.New().String()
	event.Timestamp = time.Now().UTC()

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		s.deliver(pctx, event)
	}()
}

func (s *Service) deliver(ctx context.Context, event domain.AnalysisEvent) {
	if err := s.eventBus.Publish(ctx, domain.TopicAnalysisEvents, event); err != nil {
		s.metrics.RecordEventPublished(domain.TopicAnalysisEvents, "error")
		s.logger.Warn("failed to publish analysis event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return
	}
	s.metrics.RecordEventPublished(domain.TopicAnalysisEvents, "ok")
}
