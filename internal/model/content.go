package model

import "time"

// Source is a research citation collected during a generation
type Source struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Relevance   float64   `json:"relevance"` // 0-1
	Timestamp   time.Time `json:"timestamp"`
	PublishDate string    `json:"publishDate,omitempty"`
	KeyPoints   []string  `json:"keyPoints,omitempty"`
}

// ClampRelevance keeps a relevance score inside [0, 1]
func ClampRelevance(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Article is the generated piece of content
type Article struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"requestId,omitempty"`
	Title            string    `json:"title"`
	Content          string    `json:"content"` // HTML
	MetaDescription  string    `json:"metaDescription"`
	Keywords         []string  `json:"keywords"`
	WordCount        int       `json:"wordCount"`
	Sources          []Source  `json:"sources"`
	SEOScore         int       `json:"seoScore"`
	ReadabilityScore int       `json:"readabilityScore"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the article
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	c := *a
	c.Keywords = append([]string{}, a.Keywords...)
	c.Sources = cloneSources(a.Sources)
	return &c
}

// HeadingAnalysis describes one heading of an article and the keywords it carries
type HeadingAnalysis struct {
	Level    int      `json:"level"`
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
}

// SEOResult is the outcome of the SEO stage
type SEOResult struct {
	Score            int                `json:"seoScore"`
	MetaTitle        string             `json:"metaTitle,omitempty"`
	MetaDescription  string             `json:"metaDescription"`
	KeywordDensity   map[string]float64 `json:"keywordDensity"`
	Suggestions      []string           `json:"suggestions"`
	HeadingStructure []HeadingAnalysis  `json:"headingStructure,omitempty"`
}

// Clone returns a deep copy of the result
func (s *SEOResult) Clone() *SEOResult {
	if s == nil {
		return nil
	}
	c := *s
	c.KeywordDensity = make(map[string]float64, len(s.KeywordDensity))
	for k, v := range s.KeywordDensity {
		c.KeywordDensity[k] = v
	}
	c.Suggestions = append([]string{}, s.Suggestions...)
	if s.HeadingStructure != nil {
		c.HeadingStructure = make([]HeadingAnalysis, len(s.HeadingStructure))
		for i, h := range s.HeadingStructure {
			h.Keywords = append([]string{}, h.Keywords...)
			c.HeadingStructure[i] = h
		}
	}
	return &c
}

// ResearchResult is what a research provider returns for a query
type ResearchResult struct {
	Content  string           `json:"content"`
	Sources  []Source         `json:"sources"`
	Metadata ResearchMetadata `json:"metadata"`
}

// ResearchMetadata describes where a research result came from
type ResearchMetadata struct {
	Query       string    `json:"query"`
	Provider    string    `json:"provider"`
	SourceCount int       `json:"sourceCount"`
	Fallback    bool      `json:"fallback,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ResearchData is research content broken down for the writer
type ResearchData struct {
	Sources       []Source `json:"sources"`
	KeyPoints     []string `json:"keyPoints"`
	RelatedTopics []string `json:"relatedTopics"`
	Statistics    []string `json:"statistics"`
	Quotes        []string `json:"quotes"`
}

// GenerationResult is what a content writer returns
type GenerationResult struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	MetaDescription string `json:"metaDescription"`
}

// SearchResult is one web search hit
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

func cloneSources(in []Source) []Source {
	if in == nil {
		return nil
	}
	out := make([]Source, len(in))
	for i, s := range in {
		s.KeyPoints = append([]string(nil), s.KeyPoints...)
		out[i] = s
	}
	return out
}
