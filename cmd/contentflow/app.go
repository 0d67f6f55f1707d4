package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"contentflow/internal/automation"
	"contentflow/internal/config"
	"contentflow/internal/content"
	"contentflow/internal/logging"
	"contentflow/internal/observability"
	"contentflow/internal/pipeline"
	"contentflow/internal/progress"
	"contentflow/internal/research"
	"contentflow/internal/seo"
	"contentflow/internal/store"
)

// app holds the wired services shared by the commands.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	archive  *store.Store
	progress *progress.Store
	runner   *pipeline.Runner
	engine   *automation.Engine

	// researcher and writer fall back to the templates; the pipeline gets the bare providers
	// and applies its own fallbacks.
	researcher research.Provider
	writer     content.Writer
}

// loadApp reads the configuration, applies flag overrides and wires the services.
func loadApp(overrides ...func(*config.Config)) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	for _, o := range overrides {
		o(&cfg)
	}
	return newApp(cfg)
}

func newApp(cfg config.Config) (*app, error) {
	logger := logging.New(cfg.Logging.Level)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	archive, err := store.Open(cfg.Store.Database)
	if err != nil {
		return nil, err
	}

	canned := research.NewTemplateProvider()
	liveResearch := researchProvider(cfg.Research, logger)
	researcher := research.Provider(canned)
	pipelineResearch := research.Provider(canned)
	if liveResearch != nil {
		researcher = research.NewFallbackProvider(liveResearch, canned, metrics, logger)
		pipelineResearch = liveResearch
	}

	liveWriter := llmWriter(cfg.Writer, logger)
	writer := content.Writer(content.NewTemplateWriter())
	if liveWriter != nil {
		writer = content.NewFallbackWriter(liveWriter, writer, metrics, logger)
	}

	records := progress.New(cfg.Store.RecordTTL(), nil, progress.WithMetrics(metrics))
	runner := pipeline.NewRunner(records, pipelineResearch, liveWriter, seo.DefaultStepScorer(), pipeline.Config{
		Delays:  cfg.Pipeline.StageDelays(),
		Archive: archive,
	}, metrics, logger)

	logger.Info("providers configured", "research", cfg.Research.Provider, "writer", cfg.Writer.Provider, "database", cfg.Store.Database)

	return &app{
		cfg:        cfg,
		logger:     logger,
		registry:   registry,
		metrics:    metrics,
		archive:    archive,
		progress:   records,
		runner:     runner,
		engine:     automation.New(researcher, writer, research.NewTopicResolver(nil), archive, logger),
		researcher: researcher,
		writer:     writer,
	}, nil
}

func (a *app) Close() error {
	return a.archive.Close()
}

// researchProvider returns the live research provider, or nil for the template.
func researchProvider(cfg config.ResearchConfig, logger *slog.Logger) research.Provider {
	if cfg.Provider != config.ProviderPerplexity {
		return nil
	}
	return research.NewPerplexityProvider(research.PerplexityConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Timeout:    cfg.CallTimeout(),
		MaxSources: cfg.MaxSources,
	}, logger)
}

// llmWriter returns the configured LLM writer, or nil for the template.
func llmWriter(cfg config.WriterConfig, logger *slog.Logger) content.Writer {
	llm := content.LLMConfig{
		Name:        cfg.Provider,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.CallTimeout(),
	}
	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderPerplexity:
		return content.NewOpenAIWriter(llm, logger)
	case config.ProviderAnthropic:
		return content.NewAnthropicWriter(llm, logger)
	default:
		return nil
	}
}
