package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"gopkg.in/yaml.v3"

	"contentflow/internal/model"
	"contentflow/pkg/utils"
)

// Format is an export file format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatHTML, FormatMarkdown, FormatJSON}

// ParseFormat accepts a format name; empty means HTML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html", "htm":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want html, markdown or json)", s)
	}
}

// Ext is the file extension used for f.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	return utils.ContentType(string(f))
}

// Render encodes article in format f.
func Render(article *model.Article, f Format) ([]byte, error) {
	switch f {
	case FormatHTML:
		return HTML(article)
	case FormatMarkdown:
		return Markdown(article)
	case FormatJSON:
		return JSON(article)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

var pageTemplate = template.Must(template.New("article").Funcs(template.FuncMap{"join": strings.Join}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="description" content="{{.MetaDescription}}">
{{- if .Keywords}}
<meta name="keywords" content="{{join .Keywords ", "}}">
{{- end}}
</head>
<body>
<article>
{{.Body}}
</article>
{{- if .Sources}}
<section class="sources">
<h2>Sources</h2>
<ol>
{{- range .Sources}}
<li><a href="{{.URL}}">{{.Title}}</a></li>
{{- end}}
</ol>
</section>
{{- end}}
</body>
</html>
`))

// HTML renders a standalone page. The article content is trusted HTML produced by the service.
func HTML(article *model.Article) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		*model.Article
		Body template.HTML
	}{article, template.HTML(article.Content)})
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

type frontMatter struct {
	Title            string   `yaml:"title"`
	Description      string   `yaml:"description,omitempty"`
	Date             string   `yaml:"date"`
	Keywords         []string `yaml:"keywords,omitempty"`
	WordCount        int      `yaml:"word_count"`
	SEOScore         int      `yaml:"seo_score"`
	ReadabilityScore int      `yaml:"readability_score"`
}

// Markdown renders YAML front matter followed by the article converted to Markdown and a
// list of sources.
func Markdown(article *model.Article) ([]byte, error) {
	fm, err := yaml.Marshal(frontMatter{
		Title:            article.Title,
		Description:      article.MetaDescription,
		Date:             article.CreatedAt.Format(time.RFC3339),
		Keywords:         article.Keywords,
		WordCount:        article.WordCount,
		SEOScore:         article.SEOScore,
		ReadabilityScore: article.ReadabilityScore,
	})
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}

	body, err := md.NewConverter("", true, nil).ConvertString(article.Content)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(body))
	buf.WriteString("\n")
	if len(article.Sources) > 0 {
		buf.WriteString("\n## Sources\n\n")
		for _, s := range article.Sources {
			fmt.Fprintf(&buf, "- [%s](%s)\n", s.Title, s.URL)
		}
	}
	return buf.Bytes(), nil
}

// JSON renders the article as indented JSON.
func JSON(article *model.Article) ([]byte, error) {
	out, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return append(out, '\n'), nil
}

// Filename is YYYY-MM-DD-<slug>.<ext> for the article's creation date and title.
func Filename(article *model.Article, ext string) string {
	return fmt.Sprintf("%s-%s.%s", article.CreatedAt.Format("2006-01-02"), utils.Slugify(article.Title, 80), strings.TrimPrefix(ext, "."))
}

// Result is the outcome of writing one file.
type Result struct {
	Format     Format    `json:"format"`
	Path       string    `json:"path"`
	Words      int       `json:"words"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
}

// Exporter writes articles below an output directory, one directory per article.
type Exporter struct {
	out    *utils.OutputManager
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter writes into dir.
func NewExporter(dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		out:    utils.NewOutputManager(dir),
		logger: logger.With("component", "export"),
		now:    time.Now,
	}
}

// Export writes article in every requested format and reports each outcome. A failed format
// does not stop the others.
func (e *Exporter) Export(article *model.Article, formats ...Format) []Result {
	results := make([]Result, 0, len(formats))
	for _, f := range formats {
		results = append(results, e.write(article, f, Filename(article, f.Ext())))
	}
	return results
}

// ExportAs writes article to fileName, picking the format from its extension.
func (e *Exporter) ExportAs(article *model.Article, fileName string) Result {
	f, err := ParseFormat(e.out.GetFileType(fileName))
	if err != nil {
		return Result{Path: fileName, Error: err.Error(), ExportedAt: e.now()}
	}
	return e.write(article, f, fileName)
}

func (e *Exporter) write(article *model.Article, f Format, fileName string) Result {
	result := Result{Format: f, Words: article.WordCount, ExportedAt: e.now()}

	data, err := Render(article, f)
	if err == nil {
		result.Path, err = e.out.WriteFile(article.ID, fileName, data)
	}
	if err != nil {
		result.Error = err.Error()
		e.logger.Error("export failed", "article_id", article.ID, "format", f, "error", err)
		return result
	}

	result.Success = true
	e.logger.Info("article exported", "article_id", article.ID, "format", f, "path", result.Path)
	return result
}
