package content

import (
	"context"
	"log/slog"

	"contentflow/internal/model"
	"contentflow/internal/observability"
)

// FallbackWriter tries Primary once and answers from Fallback when it fails.
type FallbackWriter struct {
	Primary  Writer
	Fallback Writer
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

var _ Writer = (*FallbackWriter)(nil)

// NewFallbackWriter wires a primary writer to an offline fallback.
func NewFallbackWriter(primary, fallback Writer, metrics *observability.Metrics, logger *slog.Logger) *FallbackWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackWriter{
		Primary:  primary,
		Fallback: fallback,
		Metrics:  metrics,
		Logger:   logger.With("component", "writer"),
	}
}

func (f *FallbackWriter) Name() string { return f.Primary.Name() }

func (f *FallbackWriter) Generate(ctx context.Context, req GenerateRequest) (model.GenerationResult, error) {
	result, err := f.Primary.Generate(ctx, req)
	if err == nil {
		f.Metrics.ProviderCall(f.Primary.Name(), observability.OutcomeSuccess)
		return result, nil
	}
	if ctx.Err() != nil {
		return model.GenerationResult{}, ctx.Err()
	}

	f.Metrics.ProviderCall(f.Primary.Name(), observability.OutcomeFailure)
	f.Logger.Warn("writer failed, using fallback",
		"provider", f.Primary.Name(), "fallback", f.Fallback.Name(), "error", err)

	result, err = f.Fallback.Generate(ctx, req)
	if err != nil {
		return model.GenerationResult{}, err
	}
	f.Metrics.ProviderCall(f.Fallback.Name(), observability.OutcomeFallback)
	return result, nil
}
