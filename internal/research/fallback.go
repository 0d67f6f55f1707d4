package research

import (
	"context"
	"log/slog"

	"contentflow/internal/model"
	"contentflow/internal/observability"
)

// FallbackProvider tries Primary once and answers from Fallback when it fails.
type FallbackProvider struct {
	Primary  Provider
	Fallback Provider
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

var _ Provider = (*FallbackProvider)(nil)

// NewFallbackProvider wires a primary provider to an offline fallback.
func NewFallbackProvider(primary, fallback Provider, metrics *observability.Metrics, logger *slog.Logger) *FallbackProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackProvider{
		Primary:  primary,
		Fallback: fallback,
		Metrics:  metrics,
		Logger:   logger.With("component", "research"),
	}
}

func (f *FallbackProvider) Name() string { return f.Primary.Name() }

// Research never returns the primary's error; only a fallback failure is reported.
func (f *FallbackProvider) Research(ctx context.Context, query string) (model.ResearchResult, error) {
	result, err := f.Primary.Research(ctx, query)
	if err == nil {
		f.Metrics.ProviderCall(f.Primary.Name(), observability.OutcomeSuccess)
		return result, nil
	}
	if ctx.Err() != nil {
		return model.ResearchResult{}, ctx.Err()
	}

	f.Metrics.ProviderCall(f.Primary.Name(), observability.OutcomeFailure)
	f.Logger.Warn("research provider failed, using fallback",
		"provider", f.Primary.Name(), "fallback", f.Fallback.Name(), "query", query, "error", err)

	result, err = f.Fallback.Research(ctx, query)
	if err != nil {
		return model.ResearchResult{}, err
	}
	f.Metrics.ProviderCall(f.Fallback.Name(), observability.OutcomeFallback)
	result.Metadata.Fallback = true
	return result, nil
}
