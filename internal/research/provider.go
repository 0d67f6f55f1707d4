package research

import (
	"context"
	"fmt"

	"contentflow/internal/model"
)

// Provider researches a query and returns prose plus citations.
type Provider interface {
	Name() string
	Research(ctx context.Context, query string) (model.ResearchResult, error)
}

// ProviderError reports a provider failure: transport, status or a malformed response.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
