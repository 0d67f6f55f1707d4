package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"contentflow/internal/model"
	"contentflow/internal/progress"
	"contentflow/internal/seo"
	"contentflow/pkg/utils"
)

// optimize scores the draft and publishes the finished article together with its SEO data.
func (r *Runner) optimize(ctx context.Context, g *generation) error {
	if g.article == nil {
		return errors.New("no article to optimize")
	}

	steps := seo.OptimizationSteps
	for i, step := range steps {
		if err := r.stepProgress(g, model.StageSEO, step, i, len(steps)); err != nil {
			return err
		}
		if err := sleep(ctx, r.cfg.Delays.SEO); err != nil {
			return err
		}
		g.logger.Debug("seo step", "step", step, "score", r.scorer.Running(i+1))
	}

	keywords := g.keywords()
	analysis := r.analyzer.Analyze(g.article.Content, keywords)
	text := seo.StripHTML(g.article.Content)

	result := &model.SEOResult{
		Score:            r.scorer.Score(len(steps)),
		MetaTitle:        analysis.MetaTitle,
		MetaDescription:  g.article.MetaDescription,
		KeywordDensity:   analysis.KeywordDensity,
		Suggestions:      append(append([]string{}, seo.BaselineSuggestions...), analysis.Suggestions...),
		HeadingStructure: analysis.HeadingStructure,
	}
	if result.MetaDescription == "" {
		result.MetaDescription = GuideMetaDescription(g.article.Title)
	}

	article := g.article
	article.ID = uuid.NewString()
	article.MetaDescription = result.MetaDescription
	article.WordCount = utils.CountWords(article.Content)
	article.SEOScore = result.Score
	article.ReadabilityScore = seo.Readability(text)
	article.CreatedAt = r.cfg.Now()

	return r.apply(g,
		progress.SetField{Field: progress.FieldArticle, Value: article},
		progress.SetField{Field: progress.FieldSEOData, Value: result},
	)
}

// GuideMetaDescription builds a meta description from the last two words of a title.
func GuideMetaDescription(title string) string {
	words := strings.Fields(title)
	if len(words) > 2 {
		words = words[len(words)-2:]
	}
	return fmt.Sprintf("Complete guide to %s with latest insights and expert analysis.", strings.Join(words, " "))
}
