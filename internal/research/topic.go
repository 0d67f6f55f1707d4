package research

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"contentflow/internal/model"
)

// DefaultURLTopic is used when nothing better can be derived from a URL input.
const DefaultURLTopic = "article analysis"

// TopicResolver turns user input into a research topic. URL inputs are fetched and titled.
type TopicResolver struct {
	Client *http.Client
}

// NewTopicResolver returns a resolver using client, or http.DefaultClient when nil.
func NewTopicResolver(client *http.Client) *TopicResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &TopicResolver{Client: client}
}

// Resolve returns the topic for input. Keyword and topic inputs are returned trimmed; URL
// inputs use the page's og:title or <title>, then the URL path, then DefaultURLTopic.
func (r *TopicResolver) Resolve(ctx context.Context, input string, kind model.InputKind) string {
	input = strings.TrimSpace(input)
	if kind != model.KindURL {
		return input
	}

	if title, err := r.fetchTitle(ctx, input); err == nil && title != "" {
		return title
	}
	if topic := TopicFromURL(input); topic != "" {
		return topic
	}
	return DefaultURLTopic
}

func (r *TopicResolver) fetchTitle(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "contentflow/1.0")

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og), nil
	}
	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}

// TopicFromURL derives a topic from the last meaningful path segment of rawURL.
func TopicFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		seg = strings.TrimSuffix(seg, path.Ext(seg))
		seg, _ = url.PathUnescape(seg)
		seg = strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(seg)
		seg = strings.Join(strings.Fields(seg), " ")
		if seg != "" && !isNumeric(strings.ReplaceAll(seg, " ", "")) {
			return seg
		}
	}
	return ""
}
