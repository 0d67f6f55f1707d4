package pipeline

import (
	"context"
	"strings"

	"contentflow/internal/content"
	"contentflow/internal/model"
	"contentflow/internal/progress"
	"contentflow/internal/research"
)

// generate writes the long-form article section by section, publishing the preview after each
// one. When a writer is configured and succeeds its article replaces the long-form body.
func (r *Runner) generate(ctx context.Context, g *generation) error {
	year := r.cfg.Now().Year()
	sections := content.LongFormSections(content.LongFormInput{
		Topic:      g.input,
		Year:       year,
		Sources:    g.sources,
		KeyPoints:  g.keyPoints,
		Statistics: g.statistics,
	})
	plan := content.PlanSections(sections, g.opts.WordCount)

	var body strings.Builder
	for i, s := range sections {
		if err := r.stepProgress(g, model.StageGeneration, s.Description, i, len(sections)); err != nil {
			return err
		}
		if err := sleep(ctx, r.cfg.Delays.Section); err != nil {
			return err
		}

		for j, b := range s.Blocks {
			if plan[i][j] {
				body.WriteString(b.HTML)
				body.WriteString("\n")
			}
		}
		if err := r.apply(g, progress.SetField{Field: progress.FieldArticlePreview, Value: body.String()}); err != nil {
			return err
		}
	}

	draft := model.GenerationResult{
		Title:   content.LongFormTitle(g.input, year),
		Content: strings.TrimSpace(body.String()),
	}
	if r.writer != nil {
		written, err := r.write(ctx, g)
		switch {
		case err == nil:
			draft.Content = written.Content
			draft.MetaDescription = written.MetaDescription
			if strings.Contains(written.Title, g.input) {
				draft.Title = written.Title
			}
			if err := r.apply(g, progress.SetField{Field: progress.FieldArticlePreview, Value: draft.Content}); err != nil {
				return err
			}
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			g.logger.Warn("writer failed, keeping long-form article", "writer", r.writer.Name(), "error", err)
		}
	}

	g.article = &model.Article{
		RequestID:       g.id,
		Title:           draft.Title,
		Content:         draft.Content,
		MetaDescription: draft.MetaDescription,
		Keywords:        g.keywords(),
		Sources:         g.sources,
	}
	return nil
}

// write asks the configured writer for an article built on the collected research.
func (r *Runner) write(ctx context.Context, g *generation) (model.GenerationResult, error) {
	data := research.Extract(strings.Join(g.research, "\n"), g.sources)
	if len(g.keyPoints) > 0 {
		data.KeyPoints = g.keyPoints
	}
	if len(g.statistics) > 0 {
		data.Statistics = g.statistics
	}

	return r.writer.Generate(ctx, content.GenerateRequest{
		Prompt:    content.BuildPrompt(g.input, g.opts, data),
		Topic:     g.input,
		WordCount: g.opts.WordCount,
		Tone:      g.opts.Tone,
		Research:  &data,
	})
}

// keywords are the target keywords, or the input itself when none were given.
func (g *generation) keywords() []string {
	out := make([]string, 0, len(g.opts.TargetKeywords))
	for _, kw := range g.opts.TargetKeywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	if len(out) == 0 {
		out = append(out, g.input)
	}
	return out
}
