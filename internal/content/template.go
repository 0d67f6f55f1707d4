package content

import (
	"context"
	"fmt"
	"hash/fnv"
	"html"
	"strings"

	"contentflow/internal/model"
)

// TemplateWriterName identifies the offline writer in metrics and logs.
const TemplateWriterName = "template"

var titlePatterns = []string{
	"The Ultimate Guide to %s",
	"%s: Complete Analysis and Best Practices",
	"Everything You Need to Know About %s",
	"%s Explained: Tips, Strategies, and Insights",
	"Mastering %s: A Comprehensive Guide",
}

// TemplateWriter renders a fixed HTML article around the prompt's topic.
type TemplateWriter struct{}

var _ Writer = (*TemplateWriter)(nil)

// NewTemplateWriter returns the offline writer.
func NewTemplateWriter() *TemplateWriter { return &TemplateWriter{} }

func (w *TemplateWriter) Name() string { return TemplateWriterName }

// Generate never fails unless ctx is already done.
func (w *TemplateWriter) Generate(ctx context.Context, req GenerateRequest) (model.GenerationResult, error) {
	if err := ctx.Err(); err != nil {
		return model.GenerationResult{}, err
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = MainTopic(req.Prompt)
	}

	return model.GenerationResult{
		Title:           TemplateTitle(topic),
		Content:         templateBody(topic, req.Research),
		MetaDescription: TemplateMetaDescription(topic),
	}, nil
}

// TemplateTitle picks one of the title patterns, stable for a given topic.
func TemplateTitle(topic string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(topic)))
	return fmt.Sprintf(titlePatterns[int(h.Sum32()%uint32(len(titlePatterns)))], topic)
}

// TemplateMetaDescription is the meta description used by template articles.
func TemplateMetaDescription(topic string) string {
	return fmt.Sprintf("Discover everything you need to know about %s. Complete guide with best practices, strategies, and expert insights for success.", topic)
}

func templateBody(topic string, research *model.ResearchData) string {
	t := html.EscapeString(topic)
	var b strings.Builder

	fmt.Fprintf(&b, "<h1>The Ultimate Guide to %s</h1>\n\n", t)
	fmt.Fprintf(&b, "<p>In today's rapidly evolving digital landscape, understanding %[1]s has become crucial for businesses and individuals alike. This guide walks you through everything you need to know about %[1]s, from basic concepts to advanced strategies.</p>\n\n", t)

	fmt.Fprintf(&b, "<h2>What is %s?</h2>\n\n", t)
	fmt.Fprintf(&b, "<p>%[1]s represents a fundamental shift in how we approach modern challenges. With its growing importance in various industries, mastering %[1]s can provide significant advantages for your business or personal development.</p>\n\n", t)
	fmt.Fprintf(&b, "<h3>Key Benefits of %s</h3>\n\n", t)
	b.WriteString("<ul>\n<li>Improved efficiency and productivity</li>\n<li>Enhanced user experience and satisfaction</li>\n<li>Better decision-making capabilities</li>\n<li>Increased competitive advantage</li>\n<li>Scalable solutions for long-term growth</li>\n</ul>\n\n")

	if research != nil && (len(research.KeyPoints) > 0 || len(research.Statistics) > 0) {
		b.WriteString("<h2>Key Research Findings</h2>\n\n<ul>\n")
		for _, kp := range research.KeyPoints {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(kp))
		}
		if len(research.Statistics) > 0 {
			fmt.Fprintf(&b, "<li>Notable figures: %s</li>\n", html.EscapeString(strings.Join(research.Statistics, ", ")))
		}
		b.WriteString("</ul>\n\n")
	}

	fmt.Fprintf(&b, "<h2>Getting Started with %s</h2>\n\n", t)
	fmt.Fprintf(&b, "<p>Beginning your journey with %s requires careful planning and understanding of core principles. Here are the essential steps to get you started:</p>\n\n", t)
	b.WriteString("<ol>\n<li><strong>Research and Planning:</strong> Conduct thorough research to understand the landscape and identify opportunities.</li>\n<li><strong>Strategy Development:</strong> Create a strategy that aligns with your goals and resources.</li>\n<li><strong>Implementation:</strong> Execute your plan with careful attention to detail and best practices.</li>\n<li><strong>Monitoring and Optimization:</strong> Continuously monitor performance and optimize for better results.</li>\n</ol>\n\n")

	fmt.Fprintf(&b, "<h2>Best Practices for %s</h2>\n\n", t)
	fmt.Fprintf(&b, "<p>To achieve success with %s, follow these proven practices:</p>\n\n", t)
	fmt.Fprintf(&b, "<h3>1. Focus on User Experience</h3>\n<p>Always prioritize the end-user experience when implementing %s solutions. This ensures higher adoption rates and better outcomes.</p>\n\n", t)
	fmt.Fprintf(&b, "<h3>2. Data-Driven Decision Making</h3>\n<p>Leverage analytics and data insights to make informed decisions about your %s strategy. Regular monitoring helps identify areas for improvement.</p>\n\n", t)
	fmt.Fprintf(&b, "<h3>3. Continuous Learning and Adaptation</h3>\n<p>The %s landscape is constantly evolving. Stay updated with the latest trends, technologies, and best practices to keep your edge.</p>\n\n", t)

	b.WriteString("<h2>Common Challenges and Solutions</h2>\n\n")
	fmt.Fprintf(&b, "<p>While implementing %s, you may encounter several challenges. Here are common issues and their solutions:</p>\n\n", t)
	b.WriteString("<ul>\n<li><strong>Resource Constraints:</strong> Start small and scale gradually to manage resources effectively.</li>\n<li><strong>Technical Complexity:</strong> Invest in proper training and consider partnering with experts.</li>\n<li><strong>Change Management:</strong> Communicate benefits clearly and provide adequate support during transitions.</li>\n</ul>\n\n")

	fmt.Fprintf(&b, "<h2>Future Trends in %s</h2>\n\n", t)
	fmt.Fprintf(&b, "<p>Looking ahead, several trends are shaping the future of %s:</p>\n\n", t)
	b.WriteString("<ul>\n<li>Increased automation and AI integration</li>\n<li>Enhanced personalization capabilities</li>\n<li>Greater emphasis on sustainability and efficiency</li>\n<li>Improved security and privacy measures</li>\n</ul>\n\n")

	b.WriteString("<h2>Conclusion</h2>\n\n")
	fmt.Fprintf(&b, "<p>Understanding and implementing %[1]s effectively can transform your approach to modern challenges. By following the strategies and best practices outlined in this guide, you'll be well-equipped to use %[1]s for success.</p>\n\n", t)
	fmt.Fprintf(&b, "<p>Ready to get started? Begin by assessing your current situation, defining clear objectives, and developing an implementation plan. With dedication and the right approach, you can achieve remarkable results with %s.</p>\n", t)

	if research != nil && len(research.Sources) > 0 {
		b.WriteString("\n<h2>Sources</h2>\n\n<ul>\n")
		for _, s := range research.Sources {
			fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", html.EscapeString(s.URL), html.EscapeString(s.Title))
		}
		b.WriteString("</ul>\n")
	}
	return b.String()
}
