package sources

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aerohealth/aerohealth/internal/geo"
)

// Synthetic fire generation parameters.
const (
	SyntheticProviderName = "synthetic-fires"

	// FireSeasonStart and FireSeasonEnd bound the season, inclusive.
	FireSeasonStart = time.June
	FireSeasonEnd   = time.October

	// SyntheticFireChance is the probability that a query inside the season
	// produces any fires at all.
	SyntheticFireChance = 0.3

	// MaxSyntheticFires is the largest number of fires emitted per query.
	MaxSyntheticFires = 2

	syntheticDescription = "Simulated wildfire data (satellite fire feed not available)"
)

// SyntheticFireProvider generates plausible wildfire detections when no
// satellite feed is available. Every fire is named "Simulated Fire N" so it
// cannot be mistaken for a real detection.
type SyntheticFireProvider struct {
	clock clockwork.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticFireProvider creates a generator. Tests pass a fake clock and a
// seeded rng to get exact output.
func NewSyntheticFireProvider(clock clockwork.Clock, rng *rand.Rand) *SyntheticFireProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // not security sensitive
	}
	return &SyntheticFireProvider{clock: clock, rng: rng}
}

// Name implements Provider.
func (p *SyntheticFireProvider) Name() string {
	return SyntheticProviderName
}

// InSeason reports whether t falls inside the fire season.
func InSeason(t time.Time) bool {
	m := t.Month()
	return m >= FireSeasonStart && m <= FireSeasonEnd
}

// FetchSources implements Provider. Outside the season it returns nothing.
// Inside, it returns up to MaxSyntheticFires fires placed uniformly at random
// within the query radius.
func (p *SyntheticFireProvider) FetchSources(_ context.Context, q Query) ([]Source, error) {
	if !InSeason(p.clock.Now()) {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rng.Float64() >= SyntheticFireChance {
		return nil, nil
	}

	count := p.rng.Intn(MaxSyntheticFires + 1)
	fires := make([]Source, 0, count)
	for i := 0; i < count; i++ {
		bearing := p.rng.Float64() * 2 * math.Pi
		distance := p.rng.Float64() * q.RadiusKm

		fires = append(fires, Source{
			ID:          fmt.Sprintf("wildfire-mock-%d", i),
			Type:        TypeWildfire,
			Name:        fmt.Sprintf("Simulated Fire %d", i+1),
			Location:    geo.Offset(q.Center, distance, bearing),
			Description: syntheticDescription,
			Severity:    SeverityHigh,
		})
	}

	return fires, nil
}
