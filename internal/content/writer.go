package content

import (
	"context"
	"fmt"

	"contentflow/internal/model"
)

// GenerateRequest is the input of a writer call.
type GenerateRequest struct {
	Prompt    string
	Topic     string
	WordCount int
	Tone      model.Tone
	Research  *model.ResearchData
}

// Writer turns a prompt into an article.
type Writer interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (model.GenerationResult, error)
}

// ProviderError reports a failed or malformed writer call.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
