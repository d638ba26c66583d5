package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"fintechweekly/internal/models"
)

// Google News appends " - Publisher" to every headline. The suffix is
// stripped from the title and reused as the item's source label.
var titleSuffixRe = regexp.MustCompile(`\s*-\s*([^-]+)$`)

// GoogleNewsClient searches the Google News RSS endpoint. One client
// serves one language; the Aggregator runs it once per configured
// query.
type GoogleNewsClient struct {
	lang    models.Language
	baseURL string
	parser  *gofeed.Parser
}

func NewGoogleNewsClient(lang models.Language, timeout time.Duration) *GoogleNewsClient {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &GoogleNewsClient{
		lang:    lang,
		baseURL: "https://news.google.com/rss/search",
		parser:  parser,
	}
}

func (c *GoogleNewsClient) Fetch(ctx context.Context, query string, limit int, cutoff time.Time) ([]models.NewsItem, error) {
	feed, err := c.parser.ParseURLWithContext(c.searchURL(query), ctx)
	if err != nil {
		return nil, fmt.Errorf("google news (%s) %q: %w", c.lang, query, err)
	}

	now := time.Now()
	items := make([]models.NewsItem, 0, limit)
	for _, entry := range feed.Items {
		if len(items) >= limit {
			break
		}

		publishedAt := now
		if entry.PublishedParsed != nil {
			publishedAt = entry.PublishedParsed.Local()
		} else if entry.UpdatedParsed != nil {
			publishedAt = entry.UpdatedParsed.Local()
		}
		if publishedAt.Before(cutoff) {
			continue
		}

		title, source := splitTitleSource(entry.Title)

		items = append(items, models.NewsItem{
			Title:          title,
			Link:           entry.Link,
			Source:         source,
			Published:      publishedAt.Format("2006-01-02"),
			Summary:        models.TruncateRunes(entry.Description, 200),
			Lang:           c.lang,
			PublishedEpoch: publishedAt.Unix(),
		})
	}

	return items, nil
}

func (c *GoogleNewsClient) Name() string {
	return fmt.Sprintf("google-news-%s", c.lang)
}

func (c *GoogleNewsClient) searchURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	if c.lang == models.LangZH {
		params.Set("hl", "zh-CN")
		params.Set("gl", "CN")
		params.Set("ceid", "CN:zh-Hans")
	} else {
		params.Set("hl", "en-US")
		params.Set("gl", "US")
		params.Set("ceid", "US:en")
	}
	return c.baseURL + "?" + params.Encode()
}

// splitTitleSource strips the trailing publisher suffix and returns it
// as the source label. The original title is kept whenever stripping
// would leave it empty.
func splitTitleSource(title string) (string, string) {
	m := titleSuffixRe.FindStringSubmatch(title)
	if m == nil {
		return title, "Google News"
	}
	stripped := strings.TrimSpace(title[:len(title)-len(m[0])])
	if stripped == "" {
		return title, "Google News"
	}
	return stripped, strings.TrimSpace(m[1])
}
