// Package mock implements a MetricsProvider that returns random placeholder
// metrics until real keyword data sources are integrated.
package mock

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aescanero/kdpniche/pkg/domain"
)

// Value ranges are half-open: [min, min+span).
const (
	searchVolumeMin  = 500
	searchVolumeSpan = 10000

	competitionMin  = 300
	competitionSpan = 2000

	nicheScoreMin  = 55
	nicheScoreSpan = 40

	kidsVolumeSpan   = 5000
	simpleVolumeSpan = 3000
)

// Provider generates random keyword metrics
type Provider struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewProvider creates a mock provider seeded from the runtime
func NewProvider() *Provider {
	return NewProviderWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewProviderWithSource creates a mock provider drawing from src
func NewProviderWithSource(src rand.Source) *Provider {
	return &Provider{rnd: rand.New(src)}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "mock"
}

// Analyze returns placeholder metrics for keyword. market is accepted but
// does not influence the values.
func (p *Provider) Analyze(ctx context.Context, keyword, market string) (*domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return &domain.AnalysisResult{
		Keyword:      keyword,
		SearchVolume: searchVolumeMin + p.rnd.IntN(searchVolumeSpan),
		Competition:  competitionMin + p.rnd.IntN(competitionSpan),
		NicheScore:   fmt.Sprintf("%d/100", nicheScoreMin+p.rnd.IntN(nicheScoreSpan)),
		RelatedKeywords: []domain.RelatedKeyword{
			{Keyword: keyword + " for kids", Volume: p.rnd.IntN(kidsVolumeSpan)},
			{Keyword: "simple " + keyword, Volume: p.rnd.IntN(simpleVolumeSpan)},
		},
	}, nil
}
