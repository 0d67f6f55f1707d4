package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"contentflow/internal/model"
)

const (
	// PerplexityProviderName identifies the Perplexity provider in metadata and metrics.
	PerplexityProviderName = "perplexity"

	// DefaultPerplexityBaseURL is Perplexity's OpenAI-compatible endpoint.
	DefaultPerplexityBaseURL = "https://api.perplexity.ai"

	// MaxSources is the largest number of citations kept from one response.
	MaxSources = 8

	researchSystemPrompt = `You are a research assistant. Answer with a single JSON object and nothing else:
{"content": "<several paragraphs of factual research prose with concrete statistics>",
 "sources": [{"url": "<absolute url>", "title": "<page title>", "excerpt": "<one sentence>", "publishDate": "<YYYY-MM-DD or empty>"}]}
Cite only real pages you used.`
)

var errEmptyResponse = errors.New("empty response")

// PerplexityConfig configures the Perplexity client.
type PerplexityConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxSources int
}

// PerplexityProvider researches queries through Perplexity's chat completions API.
type PerplexityProvider struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxSources int
	logger     *slog.Logger
	now        func() time.Time
}

var _ Provider = (*PerplexityProvider)(nil)

// NewPerplexityProvider builds a provider. The base URL defaults to Perplexity's API.
func NewPerplexityProvider(cfg PerplexityConfig, logger *slog.Logger) *PerplexityProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = DefaultPerplexityBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Model == "" {
		cfg.Model = "sonar"
	}
	if cfg.MaxSources <= 0 || cfg.MaxSources > MaxSources {
		cfg.MaxSources = MaxSources
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PerplexityProvider{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxSources: cfg.MaxSources,
		logger:     logger.With("component", "research", "provider", PerplexityProviderName),
		now:        time.Now,
	}
}

func (p *PerplexityProvider) Name() string { return PerplexityProviderName }

type perplexityPayload struct {
	Content string `json:"content"`
	Sources []struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Excerpt     string `json:"excerpt"`
		Description string `json:"description"`
		PublishDate string `json:"publishDate"`
	} `json:"sources"`
}

// Research asks the model for research prose and citations as JSON and validates the shape.
func (p *PerplexityProvider) Research(ctx context.Context, query string) (model.ResearchResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: researchSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0.2,
	}

	started := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return model.ResearchResult{}, &ProviderError{Provider: PerplexityProviderName, Op: "chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return model.ResearchResult{}, &ProviderError{Provider: PerplexityProviderName, Op: "chat completion", Err: errEmptyResponse}
	}
	p.logger.Debug("research response received", "query", query, "duration", time.Since(started))

	result, err := p.decode(query, resp.Choices[0].Message.Content)
	if err != nil {
		return model.ResearchResult{}, &ProviderError{Provider: PerplexityProviderName, Op: "decode", Err: err}
	}
	return result, nil
}

func (p *PerplexityProvider) decode(query, raw string) (model.ResearchResult, error) {
	var payload perplexityPayload
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &payload); err != nil {
		return model.ResearchResult{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if strings.TrimSpace(payload.Content) == "" {
		return model.ResearchResult{}, errors.New("missing content")
	}

	now := p.now()
	sources := make([]model.Source, 0, len(payload.Sources))
	for i, s := range payload.Sources {
		if strings.TrimSpace(s.URL) == "" || strings.TrimSpace(s.Title) == "" {
			return model.ResearchResult{}, fmt.Errorf("source %d lacks url or title", i)
		}
		if len(sources) == p.maxSources {
			break
		}
		excerpt := s.Excerpt
		if excerpt == "" {
			excerpt = s.Description
		}
		sources = append(sources, model.Source{
			URL:         strings.TrimSpace(s.URL),
			Title:       strings.TrimSpace(s.Title),
			Excerpt:     excerpt,
			Relevance:   0.8,
			Timestamp:   now,
			PublishDate: s.PublishDate,
		})
	}

	return model.ResearchResult{
		Content: payload.Content,
		Sources: sources,
		Metadata: model.ResearchMetadata{
			Query:       query,
			Provider:    PerplexityProviderName,
			SourceCount: len(sources),
			Timestamp:   now,
		},
	}, nil
}

// StripCodeFence removes a surrounding ```json fence that models like to add.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
