package sources

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aerohealth/aerohealth/internal/provider/resilience"
)

// Provider fetches pollution sources for a query region.
type Provider interface {
	// Name identifies the provider in logs, metrics and the health registry.
	Name() string

	// FetchSources returns the sources found in q.Region. Implementations
	// need not compute distances.
	FetchSources(ctx context.Context, q Query) ([]Source, error)
}

// FallbackProvider serves Primary and switches to Fallback when Primary is
// not configured or fails.
type FallbackProvider struct {
	// ProviderName is reported as Name. Defaults to the fallback's name.
	ProviderName string

	// Primary is the authoritative provider. Nil means not configured.
	Primary Provider

	// Fallback is used whenever Primary cannot answer.
	Fallback Provider

	// Registry, when set, receives the Primary's outcomes.
	Registry *resilience.Registry

	Logger zerolog.Logger
}

// Name implements Provider.
func (f *FallbackProvider) Name() string {
	if f.ProviderName != "" {
		return f.ProviderName
	}
	return f.Fallback.Name()
}

// FetchSources implements Provider.
func (f *FallbackProvider) FetchSources(ctx context.Context, q Query) ([]Source, error) {
	if f.Primary == nil {
		f.Logger.Debug().
			Str("fallback", f.Fallback.Name()).
			Msg("primary provider not configured, using fallback")
		return f.Fallback.FetchSources(ctx, q)
	}

	srcs, err := f.Primary.FetchSources(ctx, q)
	if f.Registry != nil {
		f.Registry.Record(f.Primary.Name(), err)
	}
	if err == nil {
		return srcs, nil
	}

	f.Logger.Warn().
		Err(err).
		Str("primary", f.Primary.Name()).
		Str("fallback", f.Fallback.Name()).
		Msg("primary provider failed, using fallback")

	return f.Fallback.FetchSources(ctx, q)
}
