package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contentflow/internal/model"
	"contentflow/pkg/utils"
)

// TemplateProviderName identifies the offline provider in metadata and metrics.
const TemplateProviderName = "template"

// TemplateProvider produces deterministic research for a query without any network access.
type TemplateProvider struct {
	Now func() time.Time
}

var _ Provider = (*TemplateProvider)(nil)

// NewTemplateProvider returns a provider using the wall clock.
func NewTemplateProvider() *TemplateProvider {
	return &TemplateProvider{Now: time.Now}
}

func (p *TemplateProvider) Name() string { return TemplateProviderName }

// Research always succeeds with topic-substituted prose and three sources.
func (p *TemplateProvider) Research(ctx context.Context, query string) (model.ResearchResult, error) {
	if err := ctx.Err(); err != nil {
		return model.ResearchResult{}, err
	}

	now := p.now()
	query = strings.TrimSpace(query)
	slug := utils.Slugify(query, 80)
	year := now.Year()

	sources := []model.Source{
		{
			URL:         fmt.Sprintf("https://industry-reports.com/%s", slug),
			Title:       fmt.Sprintf("Comprehensive %s Analysis %d", query, year),
			Excerpt:     fmt.Sprintf("Latest trends and insights in %s technology and implementation.", query),
			Relevance:   0.8,
			Timestamp:   now,
			PublishDate: fmt.Sprintf("%d-01-15", year),
		},
		{
			URL:         fmt.Sprintf("https://tech-insights.com/%s-guide", slug),
			Title:       fmt.Sprintf("%s Best Practices Guide", query),
			Excerpt:     fmt.Sprintf("Expert recommendations and proven strategies for %s success.", query),
			Relevance:   0.8,
			Timestamp:   now,
			PublishDate: fmt.Sprintf("%d-01-10", year),
		},
		{
			URL:         fmt.Sprintf("https://market-research.com/%s-report", slug),
			Title:       fmt.Sprintf("%s Market Report", query),
			Excerpt:     fmt.Sprintf("Statistical analysis and market trends for %s industry.", query),
			Relevance:   0.8,
			Timestamp:   now,
			PublishDate: fmt.Sprintf("%d-01-08", year),
		},
	}

	return model.ResearchResult{
		Content: templateContent(query),
		Sources: sources,
		Metadata: model.ResearchMetadata{
			Query:       query,
			Provider:    TemplateProviderName,
			SourceCount: len(sources),
			Timestamp:   now,
		},
	}, nil
}

func (p *TemplateProvider) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func templateContent(q string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research results for %q:\n\n", q)
	fmt.Fprintf(&b, "Key findings about %s:\n", q)
	fmt.Fprintf(&b, "- Modern trends in %s show significant growth across every major market segment\n", q)
	b.WriteString("- Industry experts report 75% increase in adoption over the last two years\n")
	b.WriteString("- Latest statistics indicate strong market demand and healthy investment levels\n")
	b.WriteString("- Best practices include comprehensive planning, staged rollout and careful execution\n")
	b.WriteString("- Recent studies show improved outcomes with proper implementation and measurement\n\n")
	fmt.Fprintf(&b, "Current market analysis reveals strong potential for %s applications in the coming years. ", q)
	b.WriteString("The technology landscape continues to evolve rapidly. ")
	b.WriteString("Expert recommendations suggest focusing on user experience and scalability.\n\n")
	fmt.Fprintf(&b, "\"The future of %s looks very promising,\" says one industry analyst. ", q)
	b.WriteString("Recent data shows 85% satisfaction rates among early adopters. ")
	b.WriteString("Implementation costs have decreased by 40% over the past year.")
	return b.String()
}
