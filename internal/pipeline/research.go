package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"contentflow/internal/model"
	"contentflow/internal/progress"
	"contentflow/internal/research"
	"contentflow/pkg/utils"
)

// ResearchQueries are the query variants researched for input, in order.
func ResearchQueries(input string, year int) []string {
	return []string{
		fmt.Sprintf("%s latest trends %d market analysis research", input, year),
		fmt.Sprintf("%s industry statistics %d comprehensive report", input, year),
		fmt.Sprintf("%s best practices implementation guide %d expert insights", input, year),
		fmt.Sprintf("%s case studies %d real world applications", input, year),
		fmt.Sprintf("%s future predictions %d industry outlook", input, year+1),
	}
}

// research queries the provider once per variant, paced by the research delay. Sources are
// published after every call.
func (r *Runner) research(ctx context.Context, g *generation) error {
	queries := ResearchQueries(g.input, r.cfg.Now().Year())
	limiter := newLimiter(r.cfg.Delays.Research)

	for i, q := range queries {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("research pacing: %w", err)
		}
		if err := r.stepProgress(g, model.StageSearch, fmt.Sprintf("Researching: %q", q), i, len(queries)); err != nil {
			return err
		}

		g.sources = append(g.sources, r.researchQuery(ctx, g, i, q)...)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.apply(g, progress.SetField{Field: progress.FieldSources, Value: g.sources}); err != nil {
			return err
		}
	}
	return nil
}

// researchQuery maps one provider answer to sources. A failed call yields a single backup
// source so the run carries on.
func (r *Runner) researchQuery(ctx context.Context, g *generation, i int, query string) []model.Source {
	res, err := r.researcher.Research(ctx, query)
	now := r.cfg.Now()
	if err != nil {
		if ctx.Err() == nil {
			g.logger.Warn("research query failed", "query", query, "error", err)
		}
		return []model.Source{{
			URL:       fmt.Sprintf("https://backup-research-%d.com", i),
			Title:     g.input + " Backup Research",
			Excerpt:   fmt.Sprintf("Research data and analysis for %s...", g.input),
			Relevance: 0.6,
			Timestamp: now,
			KeyPoints: []string{"Backup research for " + g.input},
		}}
	}
	if res.Content != "" {
		g.research = append(g.research, res.Content)
	}

	out := make([]model.Source, 0, len(res.Sources))
	for j, s := range res.Sources {
		out = append(out, providerSource(s, g.input, query, i, j, now))
	}
	for j, insight := range research.Insights(res.Content, g.input) {
		out = append(out, model.Source{
			URL:       fmt.Sprintf("https://analysis-%d-%d.com", i, j),
			Title:     g.input + " Analysis Insight",
			Excerpt:   insight,
			Relevance: 0.8,
			Timestamp: now,
			KeyPoints: []string{"Extracted insight: " + utils.Truncate(insight, 100)},
		})
	}
	return out
}

// providerSource ranks the j-th source of the i-th query: earlier queries and earlier sources
// rank higher.
func providerSource(s model.Source, input, query string, i, j int, now time.Time) model.Source {
	if s.URL == "" {
		s.URL = fmt.Sprintf("https://research-source-%d-%d.com", i, j)
	}
	if s.Title == "" {
		s.Title = "Research: " + query
	}
	if s.Excerpt == "" {
		s.Excerpt = "Research findings and analysis..."
	}
	return model.Source{
		URL:         s.URL,
		Title:       s.Title,
		Excerpt:     s.Excerpt,
		Relevance:   model.ClampRelevance(0.9 - 0.1*float64(i) - 0.05*float64(j)),
		Timestamp:   now,
		PublishDate: s.PublishDate,
		KeyPoints: []string{
			"Research insight from " + s.Title,
			"Data analysis for " + input,
		},
	}
}

// newLimiter spaces calls d apart; the first call goes through at once.
func newLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}
