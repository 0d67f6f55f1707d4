package automation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"contentflow/internal/content"
	"contentflow/internal/model"
	"contentflow/internal/research"
	"contentflow/internal/seo"
	"contentflow/pkg/utils"
)

// Archive persists requests and articles.
type Archive interface {
	SaveRequest(ctx context.Context, req *model.ContentRequest) error
	UpdateRequestStatus(ctx context.Context, id string, status model.RequestStatus) error
	GetRequest(ctx context.Context, id string) (*model.ContentRequest, error)
	ListRequests(ctx context.Context, limit int) ([]*model.ContentRequest, error)
	SaveArticle(ctx context.Context, article *model.Article) error
	GetArticle(ctx context.Context, id string) (*model.Article, error)
	ListArticles(ctx context.Context, limit int) ([]*model.Article, error)
}

// Engine runs research and generation end to end for one request and archives the result.
type Engine struct {
	researcher research.Provider
	writer     content.Writer
	topics     *research.TopicResolver
	analyzer   *seo.Analyzer
	archive    Archive
	logger     *slog.Logger
	now        func() time.Time
}

// New wires an engine. topics resolves URL inputs and may be nil to use URL paths only.
func New(researcher research.Provider, writer content.Writer, topics *research.TopicResolver, archive Archive, logger *slog.Logger) *Engine {
	if topics == nil {
		topics = research.NewTopicResolver(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		researcher: researcher,
		writer:     writer,
		topics:     topics,
		analyzer:   seo.NewAnalyzer(),
		archive:    archive,
		logger:     logger.With("component", "automation"),
		now:        time.Now,
	}
}

// ProcessRequest researches input, writes an article and returns its id. The request moves
// through researching and generating to completed, or to error when generation fails. A failed
// research call leaves the writer without research rather than failing the request.
func (e *Engine) ProcessRequest(ctx context.Context, input string, kind model.InputKind, opts model.GenerationOptions) (articleID string, err error) {
	opts = opts.WithDefaults()
	req := &model.ContentRequest{
		ID:             uuid.NewString(),
		Type:           kind,
		Input:          input,
		TargetKeywords: opts.TargetKeywords,
		WordCount:      opts.WordCount,
		Tone:           opts.Tone,
		CreatedAt:      e.now(),
		Status:         model.RequestPending,
	}
	if err := e.archive.SaveRequest(ctx, req); err != nil {
		return "", fmt.Errorf("save request: %w", err)
	}

	logger := e.logger.With("request_id", req.ID)
	defer func() {
		if err == nil {
			return
		}
		if serr := e.archive.UpdateRequestStatus(context.WithoutCancel(ctx), req.ID, model.RequestError); serr != nil {
			logger.Error("mark request failed", "error", serr)
		}
		logger.Error("request failed", "error", err)
	}()

	if err := e.archive.UpdateRequestStatus(ctx, req.ID, model.RequestResearching); err != nil {
		return "", err
	}
	topic, data := e.research(ctx, logger, input, kind)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := e.archive.UpdateRequestStatus(ctx, req.ID, model.RequestGenerating); err != nil {
		return "", err
	}
	result, err := e.writer.Generate(ctx, content.GenerateRequest{
		Prompt:    content.BuildPrompt(topic, opts, data),
		Topic:     topic,
		WordCount: opts.WordCount,
		Tone:      opts.Tone,
		Research:  &data,
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	article := e.article(req, topic, result, data)
	if err := e.archive.SaveArticle(ctx, article); err != nil {
		return "", fmt.Errorf("save article: %w", err)
	}
	if err := e.archive.UpdateRequestStatus(ctx, req.ID, model.RequestCompleted); err != nil {
		return "", err
	}

	logger.Info("article generated", "article_id", article.ID, "words", article.WordCount, "seo_score", article.SEOScore)
	return article.ID, nil
}

// research resolves the topic of input and collects research for it.
func (e *Engine) research(ctx context.Context, logger *slog.Logger, input string, kind model.InputKind) (string, model.ResearchData) {
	topic := strings.TrimSpace(input)
	query := topic
	if kind == model.KindURL {
		topic = e.topics.Resolve(ctx, input, kind)
		query = fmt.Sprintf("%s %s latest information trends statistics", topic, input)
	}

	res, err := e.researcher.Research(ctx, query)
	if err != nil {
		logger.Warn("research failed, writing without it", "query", query, "error", err)
		return topic, research.Extract("", nil)
	}

	sources := make([]model.Source, 0, len(res.Sources))
	for i, s := range res.Sources {
		if s.URL == "" {
			s.URL = fmt.Sprintf("https://example.com/source-%d", i)
		}
		if s.Title == "" {
			s.Title = fmt.Sprintf("Source %d", i+1)
		}
		s.Relevance = 0.8
		sources = append(sources, s)
	}
	return topic, research.Extract(res.Content, sources)
}

func (e *Engine) article(req *model.ContentRequest, topic string, result model.GenerationResult, data model.ResearchData) *model.Article {
	keywords := req.TargetKeywords
	if len(keywords) == 0 {
		keywords = []string{topic}
	}
	title := result.Title
	if title == "" {
		title = content.TemplateTitle(topic)
	}

	analysis := e.analyzer.Analyze(result.Content, keywords)
	meta := result.MetaDescription
	if meta == "" {
		meta = analysis.MetaDescription
	}

	return &model.Article{
		ID:               uuid.NewString(),
		RequestID:        req.ID,
		Title:            title,
		Content:          result.Content,
		MetaDescription:  meta,
		Keywords:         append([]string{}, keywords...),
		WordCount:        utils.CountWords(result.Content),
		Sources:          data.Sources,
		SEOScore:         analysis.Score,
		ReadabilityScore: seo.Readability(seo.StripHTML(result.Content)),
		CreatedAt:        e.now(),
	}
}

// GetRequest returns an archived request.
func (e *Engine) GetRequest(ctx context.Context, id string) (*model.ContentRequest, error) {
	return e.archive.GetRequest(ctx, id)
}

// GetArticle returns an archived article.
func (e *Engine) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	return e.archive.GetArticle(ctx, id)
}

// ListRequests returns the most recent requests.
func (e *Engine) ListRequests(ctx context.Context, limit int) ([]*model.ContentRequest, error) {
	return e.archive.ListRequests(ctx, limit)
}

// ListArticles returns the most recent articles.
func (e *Engine) ListArticles(ctx context.Context, limit int) ([]*model.Article, error) {
	return e.archive.ListArticles(ctx, limit)
}
