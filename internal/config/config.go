package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"contentflow/pkg/utils"
)

const (
	configPathEnv        = "CONTENTFLOW_CONFIG"
	portEnv              = "PORT"
	baseURLEnv           = "CONTENTFLOW_BASE_URL"
	databaseEnv          = "CONTENTFLOW_DB"
	logLevelEnv          = "LOG_LEVEL"
	perplexityKeyEnv     = "PERPLEXITY_API_KEY"
	perplexityModelEnv   = "PERPLEXITY_MODEL"
	openAIKeyEnv         = "OPENAI_API_KEY"
	openAIModelEnv       = "OPENAI_MODEL"
	anthropicKeyEnv      = "ANTHROPIC_API_KEY"
	anthropicModelEnv    = "ANTHROPIC_MODEL"
	defaultPerplexityURL = "https://api.perplexity.ai"
)

// Provider names accepted in the research and writer sections.
const (
	ProviderTemplate   = "template"
	ProviderPerplexity = "perplexity"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
)

// Config holds all runtime settings of the service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Research ResearchConfig `yaml:"research"`
	Writer   WriterConfig   `yaml:"writer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Export   ExportConfig   `yaml:"export"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port            int    `yaml:"port"`
	BaseURL         string `yaml:"baseUrl"`
	ShutdownTimeout string `yaml:"shutdownTimeout"`

	shutdownTimeout time.Duration
}

// ShutdownGrace is the resolved graceful shutdown window.
func (s ServerConfig) ShutdownGrace() time.Duration { return s.shutdownTimeout }

// Addr is the listen address for the configured port.
func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

// StoreConfig covers the progress store and the SQLite archive.
type StoreConfig struct {
	Database      string `yaml:"database"`
	TTL           string `yaml:"ttl"`
	SweepInterval string `yaml:"sweepInterval"`

	ttl           time.Duration
	sweepInterval time.Duration
}

// RecordTTL is how long finished generations stay in memory.
func (s StoreConfig) RecordTTL() time.Duration { return s.ttl }

// Sweep is how often expired generations are evicted.
func (s StoreConfig) Sweep() time.Duration { return s.sweepInterval }

// PipelineConfig holds the pacing of each stage.
type PipelineConfig struct {
	InitDelay     string `yaml:"initDelay"`
	ResearchDelay string `yaml:"researchDelay"`
	AnalysisDelay string `yaml:"analysisDelay"`
	SectionDelay  string `yaml:"sectionDelay"`
	SEODelay      string `yaml:"seoDelay"`

	delays Delays
}

// Delays are the resolved per-step pauses of the pipeline.
type Delays struct {
	Init     time.Duration
	Research time.Duration
	Analysis time.Duration
	Section  time.Duration
	SEO      time.Duration
}

// StageDelays returns the resolved pacing.
func (p PipelineConfig) StageDelays() Delays { return p.delays }

// SetStageDelays replaces the resolved pacing.
func (p *PipelineConfig) SetStageDelays(d Delays) { p.delays = d }

// ResearchConfig selects and configures the research provider.
type ResearchConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"baseUrl"`
	APIKey     string `yaml:"apiKey"`
	Model      string `yaml:"model"`
	Timeout    string `yaml:"timeout"`
	MaxSources int    `yaml:"maxSources"`

	timeout time.Duration
}

// CallTimeout bounds a single provider call.
func (r ResearchConfig) CallTimeout() time.Duration { return r.timeout }

// WriterConfig selects and configures the article writer.
type WriterConfig struct {
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"baseUrl"`
	APIKey      string  `yaml:"apiKey"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`

	timeout time.Duration
}

// CallTimeout bounds a single writer call.
func (w WriterConfig) CallTimeout() time.Duration { return w.timeout }

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ExportConfig sets where the CLI writes exported articles.
type ExportConfig struct {
	OutputDir string `yaml:"outputDir"`
}

// Load reads YAML configuration (if a path is given or CONTENTFLOW_CONFIG is set) and applies
// environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = merge(cfg, fileCfg)
	}

	applyEnv(&cfg)
	cfg.resolve()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks provider selections and required credentials.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	switch c.Research.Provider {
	case ProviderTemplate:
	case ProviderPerplexity:
		if c.Research.APIKey == "" {
			return fmt.Errorf("config: research provider %q requires an API key (%s)", c.Research.Provider, perplexityKeyEnv)
		}
	default:
		return fmt.Errorf("config: unknown research provider %q", c.Research.Provider)
	}
	switch c.Writer.Provider {
	case ProviderTemplate:
	case ProviderOpenAI, ProviderPerplexity, ProviderAnthropic:
		if c.Writer.APIKey == "" {
			return fmt.Errorf("config: writer provider %q requires an API key", c.Writer.Provider)
		}
	default:
		return fmt.Errorf("config: unknown writer provider %q", c.Writer.Provider)
	}
	return nil
}

// Default returns the built-in configuration: template providers and the standard stage pacing.
func Default() Config {
	cfg := Config{
		Server: ServerConfig{Port: 3006, BaseURL: "http://localhost:3006", ShutdownTimeout: "10s"},
		Store:  StoreConfig{Database: "contentflow.db", TTL: "1h", SweepInterval: "1m"},
		Pipeline: PipelineConfig{
			InitDelay:     "1s",
			ResearchDelay: "1s",
			AnalysisDelay: "1s",
			SectionDelay:  "1800ms",
			SEODelay:      "800ms",
		},
		Research: ResearchConfig{
			Provider:   ProviderTemplate,
			BaseURL:    defaultPerplexityURL,
			Model:      "sonar",
			Timeout:    "30s",
			MaxSources: 8,
		},
		Writer: WriterConfig{
			Provider:    ProviderTemplate,
			Model:       "gpt-4o-mini",
			MaxTokens:   4000,
			Temperature: 0.3,
			Timeout:     "90s",
		},
		Logging: LoggingConfig{Level: "info"},
		Export:  ExportConfig{OutputDir: "outputs"},
	}
	cfg.resolve()
	return cfg
}

func (c *Config) resolve() {
	c.Server.shutdownTimeout = utils.ParseDuration(c.Server.ShutdownTimeout, 10*time.Second)
	c.Store.ttl = utils.ParseDuration(c.Store.TTL, time.Hour)
	c.Store.sweepInterval = utils.ParseDuration(c.Store.SweepInterval, time.Minute)
	c.Pipeline.delays = Delays{
		Init:     utils.ParseDuration(c.Pipeline.InitDelay, time.Second),
		Research: utils.ParseDuration(c.Pipeline.ResearchDelay, time.Second),
		Analysis: utils.ParseDuration(c.Pipeline.AnalysisDelay, time.Second),
		Section:  utils.ParseDuration(c.Pipeline.SectionDelay, 1800*time.Millisecond),
		SEO:      utils.ParseDuration(c.Pipeline.SEODelay, 800*time.Millisecond),
	}
	c.Research.timeout = utils.ParseDuration(c.Research.Timeout, 30*time.Second)
	c.Writer.timeout = utils.ParseDuration(c.Writer.Timeout, 90*time.Second)
	if c.Research.MaxSources <= 0 {
		c.Research.MaxSources = 8
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv(portEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
			if os.Getenv(baseURLEnv) == "" && strings.HasPrefix(c.Server.BaseURL, "http://localhost:") {
				c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", port)
			}
		}
	}
	if v := os.Getenv(baseURLEnv); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv(databaseEnv); v != "" {
		c.Store.Database = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	// A Perplexity key switches research to the live provider unless the file pinned it.
	if v := os.Getenv(perplexityKeyEnv); v != "" {
		c.Research.APIKey = v
		if c.Research.Provider == ProviderTemplate {
			c.Research.Provider = ProviderPerplexity
		}
	}
	if v := os.Getenv(perplexityModelEnv); v != "" {
		c.Research.Model = v
	}

	switch c.Writer.Provider {
	case ProviderOpenAI, ProviderTemplate:
		if v := os.Getenv(openAIKeyEnv); v != "" && c.Writer.APIKey == "" {
			c.Writer.APIKey = v
			c.Writer.Provider = ProviderOpenAI
		}
		if v := os.Getenv(openAIModelEnv); v != "" && c.Writer.Provider == ProviderOpenAI {
			c.Writer.Model = v
		}
	case ProviderAnthropic:
		if v := os.Getenv(anthropicKeyEnv); v != "" && c.Writer.APIKey == "" {
			c.Writer.APIKey = v
		}
		if v := os.Getenv(anthropicModelEnv); v != "" {
			c.Writer.Model = v
		}
	case ProviderPerplexity:
		if c.Writer.APIKey == "" {
			c.Writer.APIKey = c.Research.APIKey
		}
		if c.Writer.BaseURL == "" {
			c.Writer.BaseURL = defaultPerplexityURL
		}
	}
}

func merge(base, override Config) Config {
	if override.Server.Port != 0 {
		base.Server.Port = override.Server.Port
	}
	if override.Server.BaseURL != "" {
		base.Server.BaseURL = override.Server.BaseURL
	}
	if override.Server.ShutdownTimeout != "" {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.Store.Database != "" {
		base.Store.Database = override.Store.Database
	}
	if override.Store.TTL != "" {
		base.Store.TTL = override.Store.TTL
	}
	if override.Store.SweepInterval != "" {
		base.Store.SweepInterval = override.Store.SweepInterval
	}

	if override.Pipeline.InitDelay != "" {
		base.Pipeline.InitDelay = override.Pipeline.InitDelay
	}
	if override.Pipeline.ResearchDelay != "" {
		base.Pipeline.ResearchDelay = override.Pipeline.ResearchDelay
	}
	if override.Pipeline.AnalysisDelay != "" {
		base.Pipeline.AnalysisDelay = override.Pipeline.AnalysisDelay
	}
	if override.Pipeline.SectionDelay != "" {
		base.Pipeline.SectionDelay = override.Pipeline.SectionDelay
	}
	if override.Pipeline.SEODelay != "" {
		base.Pipeline.SEODelay = override.Pipeline.SEODelay
	}

	if override.Research.Provider != "" {
		base.Research.Provider = strings.ToLower(override.Research.Provider)
	}
	if override.Research.BaseURL != "" {
		base.Research.BaseURL = override.Research.BaseURL
	}
	if override.Research.APIKey != "" {
		base.Research.APIKey = override.Research.APIKey
	}
	if override.Research.Model != "" {
		base.Research.Model = override.Research.Model
	}
	if override.Research.Timeout != "" {
		base.Research.Timeout = override.Research.Timeout
	}
	if override.Research.MaxSources != 0 {
		base.Research.MaxSources = override.Research.MaxSources
	}

	if override.Writer.Provider != "" {
		base.Writer.Provider = strings.ToLower(override.Writer.Provider)
	}
	if override.Writer.BaseURL != "" {
		base.Writer.BaseURL = override.Writer.BaseURL
	}
	if override.Writer.APIKey != "" {
		base.Writer.APIKey = override.Writer.APIKey
	}
	if override.Writer.Model != "" {
		base.Writer.Model = override.Writer.Model
	}
	if override.Writer.MaxTokens != 0 {
		base.Writer.MaxTokens = override.Writer.MaxTokens
	}
	if override.Writer.Temperature != 0 {
		base.Writer.Temperature = override.Writer.Temperature
	}
	if override.Writer.Timeout != "" {
		base.Writer.Timeout = override.Writer.Timeout
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Export.OutputDir != "" {
		base.Export.OutputDir = override.Export.OutputDir
	}

	return base
}
