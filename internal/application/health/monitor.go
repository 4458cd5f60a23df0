package health

import (
	"context"
	"sync"
	"time"

	"github.com/aescanero/kdpniche/pkg/ports"
	"go.uber.org/zap"
)

// Pinger is a dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor monitors dependency health
type Monitor struct {
	checks   map[string]Pinger
	interval time.Duration
	timeout  time.Duration
	metrics  ports.MetricsCollector
	logger   *zap.Logger

	mu      sync.RWMutex
	results map[string]CheckResult
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// CheckResult is the outcome of the last check of one dependency
type CheckResult struct {
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Status represents the health status of the service
type Status struct {
	Healthy   bool                   `json:"-"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewMonitor creates a new health monitor
func NewMonitor(interval, timeout time.Duration, metrics ports.MetricsCollector, logger *zap.Logger) *Monitor {
	return &Monitor{
		checks:   make(map[string]Pinger),
		interval: interval,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
		results:  make(map[string]CheckResult),
	}
}

// Register adds a dependency. It must be called before Start.
func (m *Monitor) Register(name string, p Pinger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checks[name] = p
}

// Start starts the health monitor
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	go m.run(stopCh, doneCh)
}

// Stop stops the health monitor and waits for the loop to exit
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// run is the main health monitoring loop
func (m *Monitor) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckNow(context.Background())

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.CheckNow(context.Background())
		}
	}
}

// CheckNow pings every dependency once and stores the results
func (m *Monitor) CheckNow(ctx context.Context) {
	m.mu.RLock()
	checks := make(map[string]Pinger, len(m.checks))
	for name, p := range m.checks {
		checks[name] = p
	}
	m.mu.RUnlock()

	for name, p := range checks {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		err := p.Ping(cctx)
		cancel()

		result := CheckResult{Status: "ok", CheckedAt: time.Now().UTC()}
		if err != nil {
			result.Status = "unavailable"
			result.Error = err.Error()
			m.logger.Warn("dependency health check failed",
				zap.String("dependency", name),
				zap.Error(err))
		} else {
			m.logger.Debug("dependency health check passed",
				zap.String("dependency", name))
		}
		m.metrics.SetDependencyUp(name, err == nil)

		m.mu.Lock()
		m.results[name] = result
		m.mu.Unlock()
	}
}

// Status returns the latest health status. Dependencies that have not been
// checked yet do not count against health.
func (m *Monitor) Status() *Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	checks := make(map[string]CheckResult, len(m.results))
	healthy := true
	for name, r := range m.results {
		checks[name] = r
		if r.Status != "ok" {
			healthy = false
		}
	}

	return &Status{
		Healthy:   healthy,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	}
}

// IsHealthy returns true if every checked dependency is reachable
func (m *Monitor) IsHealthy() bool {
	return m.Status().Healthy
}
