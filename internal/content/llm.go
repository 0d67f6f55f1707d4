package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
	"github.com/sashabaranov/go-openai"

	"contentflow/internal/model"
)

const (
	OpenAIWriterName    = "openai"
	AnthropicWriterName = "anthropic"

	writerSystemPrompt = "You are an expert content writer. You write accurate, well structured, SEO friendly long-form articles in HTML. Reply with JSON only."

	articleSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "content": {"type": "string"},
    "metaDescription": {"type": "string"}
  },
  "required": ["title", "content", "metaDescription"],
  "additionalProperties": false
}`
)

// LLMConfig configures an LLM-backed writer.
type LLMConfig struct {
	Name        string
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// OpenAIWriter writes articles through any OpenAI-compatible chat completions endpoint.
type OpenAIWriter struct {
	client *openai.Client
	cfg    LLMConfig
	logger *slog.Logger
}

var _ Writer = (*OpenAIWriter)(nil)

// NewOpenAIWriter builds a writer; BaseURL switches it to another compatible endpoint.
func NewOpenAIWriter(cfg LLMConfig, logger *slog.Logger) *OpenAIWriter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Name == "" {
		cfg.Name = OpenAIWriterName
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIWriter{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger.With("component", "writer", "provider", cfg.Name),
	}
}

func (w *OpenAIWriter) Name() string { return w.cfg.Name }

func (w *OpenAIWriter) Generate(ctx context.Context, req GenerateRequest) (model.GenerationResult, error) {
	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	creq := openai.ChatCompletionRequest{
		Model: w.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: writerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(w.cfg.Temperature),
	}
	if w.cfg.MaxTokens > 0 {
		creq.MaxCompletionTokens = w.cfg.MaxTokens
	}

	resp, err := w.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return model.GenerationResult{}, &ProviderError{Provider: w.cfg.Name, Op: "chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return model.GenerationResult{}, &ProviderError{Provider: w.cfg.Name, Op: "chat completion", Err: errors.New("no choices")}
	}
	w.logger.Debug("article generated", "finish_reason", resp.Choices[0].FinishReason)

	result, err := DecodeArticle(resp.Choices[0].Message.Content)
	if err != nil {
		return model.GenerationResult{}, &ProviderError{Provider: w.cfg.Name, Op: "decode", Err: err}
	}
	return result, nil
}

// promptFunc sends a system and user prompt with a JSON schema and returns the reply text.
type promptFunc func(system, user, schema, apiKey string, settings types.RequestSettings) (string, error)

// AnthropicWriter writes articles with Claude through llmkit's structured output.
type AnthropicWriter struct {
	cfg    LLMConfig
	prompt promptFunc
	logger *slog.Logger
}

var _ Writer = (*AnthropicWriter)(nil)

// NewAnthropicWriter builds a Claude-backed writer.
func NewAnthropicWriter(cfg LLMConfig, logger *slog.Logger) *AnthropicWriter {
	if cfg.Name == "" {
		cfg.Name = AnthropicWriterName
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnthropicWriter{
		cfg:    cfg,
		prompt: anthropicPrompt,
		logger: logger.With("component", "writer", "provider", cfg.Name),
	}
}

func anthropicPrompt(system, user, schema, apiKey string, settings types.RequestSettings) (string, error) {
	response, err := anthropic.PromptWithSettings(system, user, schema, apiKey, settings)
	if err != nil {
		return "", err
	}
	if len(response.Content) == 0 {
		return "", errors.New("no content in response")
	}
	return response.Content[0].Text, nil
}

func (w *AnthropicWriter) Name() string { return w.cfg.Name }

// Generate runs the blocking llmkit call in its own goroutine so ctx can abandon it.
func (w *AnthropicWriter) Generate(ctx context.Context, req GenerateRequest) (model.GenerationResult, error) {
	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	settings := types.RequestSettings{
		Model:       w.cfg.Model,
		MaxTokens:   w.cfg.MaxTokens,
		Temperature: w.cfg.Temperature,
	}

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		text, err := w.prompt(writerSystemPrompt, req.Prompt, articleSchema, w.cfg.APIKey, settings)
		done <- reply{text: text, err: err}
	}()

	var r reply
	select {
	case <-ctx.Done():
		return model.GenerationResult{}, &ProviderError{Provider: w.cfg.Name, Op: "prompt", Err: ctx.Err()}
	case r = <-done:
	}
	if r.err != nil {
		return model.GenerationResult{}, &ProviderError{Provider: w.cfg.Name, Op: "prompt", Err: r.err}
	}

	result, err := DecodeArticle(r.text)
	if err != nil {
		return model.GenerationResult{}, &ProviderError{Provider: w.cfg.Name, Op: "decode", Err: err}
	}
	w.logger.Debug("article generated", "title", result.Title)
	return result, nil
}

// DecodeArticle parses a {title, content, metaDescription} reply, tolerating a code fence.
func DecodeArticle(raw string) (model.GenerationResult, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```")
		if nl := strings.IndexByte(raw, '\n'); nl >= 0 {
			raw = raw[nl+1:]
		}
		raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "```"))
	}

	var out model.GenerationResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return model.GenerationResult{}, fmt.Errorf("invalid JSON: %w", err)
	}
	out.Title = strings.TrimSpace(out.Title)
	out.Content = strings.TrimSpace(out.Content)
	out.MetaDescription = strings.TrimSpace(out.MetaDescription)
	if out.Title == "" || out.Content == "" {
		return model.GenerationResult{}, errors.New("missing title or content")
	}
	return out, nil
}
