package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aescanero/kdpniche/pkg/adapters/provider/mock"
	"github.com/aescanero/kdpniche/pkg/domain"
	"github.com/aescanero/kdpniche/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingBus struct {
	mu     sync.Mutex
	events []domain.AnalysisEvent
	err    error
}

func (b *recordingBus) Publish(_ context.Context, _ string, ev domain.AnalysisEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, ev)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, string, ports.EventHandler) error {
	return nil
}

func (b *recordingBus) Ping(context.Context) error { return nil }

func (b *recordingBus) Close() error { return nil }

// stalledBus never completes a publish until its context ends, like an
// unreachable Redis.
type stalledBus struct {
	recordingBus
}

func (b *stalledBus) Publish(ctx context.Context, _ string, _ domain.AnalysisEvent) error {
	<-ctx.Done()
	return ctx.Err()
}

type recordingMetrics struct {
	mu        sync.Mutex
	outcomes  []string
	published []string
}

func (m *recordingMetrics) ObserveHTTPRequest(string, string, int, time.Duration) {}

func (m *recordingMetrics) SetDependencyUp(string, bool) {}

func (m *recordingMetrics) RecordAnalyzeRequest(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) RecordEventPublished(_, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, status)
}

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }
func (failingProvider) Analyze(context.Context, string, string) (*domain.AnalysisResult, error) {
	return nil, errors.New("upstream unavailable")
}

func newTestService(p ports.MetricsProvider) (*Service, *recordingBus, *recordingMetrics) {
	bus := &recordingBus{}
	metrics := &recordingMetrics{}
	return NewService(p, bus, metrics, NewValidator(), time.Second, zap.NewNop()), bus, metrics
}

func TestAnalyze_Success(t *testing.T) {
	svc, bus, metrics := newTestService(mock.NewProvider())

	res, err := svc.Analyze(context.Background(), "coloring books", "fr")
	require.NoError(t, err)
	assert.Equal(t, "coloring books", res.Keyword)
	svc.Wait()

	assert.Equal(t, []string{ports.OutcomeSuccess}, metrics.outcomes)
	assert.Equal(t, []string{"ok"}, metrics.published)

	require.Len(t, bus.events, 1)
	ev := bus.events[0]
	assert.Equal(t, domain.EventTypeAnalysisCompleted, ev.Type)
	assert.Equal(t, "fr", ev.Market)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
	assert.Same(t, res, ev.Result)
}

func TestAnalyze_MissingParameters(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		market  string
	}{
		{"missing keyword", "", "fr"},
		{"missing market", "coloring books", ""},
		{"missing both", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, bus, metrics := newTestService(mock.NewProvider())

			res, err := svc.Analyze(context.Background(), tt.keyword, tt.market)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrMissingParameter)
			assert.Equal(t, "Keyword and market are required.", err.Error())
			svc.Wait()

			assert.Equal(t, []string{ports.OutcomeRejected}, metrics.outcomes)
			require.Len(t, bus.events, 1)
			assert.Equal(t, domain.EventTypeAnalysisRejected, bus.events[0].Type)
			assert.Nil(t, bus.events[0].Result)
		})
	}
}

func TestAnalyze_ProviderError(t *testing.T) {
	svc, bus, metrics := newTestService(failingProvider{})

	_, err := svc.Analyze(context.Background(), "journal", "us")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingParameter)
	assert.Contains(t, err.Error(), "provider failing failed")
	svc.Wait()

	assert.Equal(t, []string{ports.OutcomeFailed}, metrics.outcomes)
	assert.Empty(t, bus.events)
}

func TestAnalyze_PublishFailureDoesNotFailRequest(t *testing.T) {
	svc, bus, metrics := newTestService(mock.NewProvider())
	bus.err = errors.New("stream down")

	res, err := svc.Analyze(context.Background(), "journal", "us")
	require.NoError(t, err)
	assert.NotNil(t, res)
	svc.Wait()
	assert.Equal(t, []string{"error"}, metrics.published)
}

func TestAnalyze_SlowBusDoesNotDelayResponse(t *testing.T) {
	metrics := &recordingMetrics{}
	svc := NewService(mock.NewProvider(), &stalledBus{}, metrics, NewValidator(), 100*time.Millisecond, zap.NewNop())

	start := time.Now()
	res, err := svc.Analyze(context.Background(), "journal", "us")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Less(t, elapsed, 50*time.Millisecond)

	svc.Wait()
	assert.Equal(t, []string{"error"}, metrics.published)
}

func TestAnalyze_PublishOutlivesRequestContext(t *testing.T) {
	svc, bus, _ := newTestService(mock.NewProvider())

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Analyze(ctx, "journal", "us")
	cancel()
	require.NoError(t, err)

	svc.Wait()
	assert.Len(t, bus.events, 1)
}
