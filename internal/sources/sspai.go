package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fintechweekly/internal/models"
)

// relevanceKeywords gate sspai's general article stream down to AI and
// finance coverage. Matching is case-insensitive over title+summary.
var relevanceKeywords = []string{"AI", "人工智能", "GPT", "金融", "fintech", "支付", "银行"}

// SspaiClient reads the sspai articles API, which is not searchable,
// and keeps only relevant items.
type SspaiClient struct {
	baseURL string
	client  *http.Client
}

type sspaiResponse struct {
	Data []struct {
		ID         int64  `json:"id"`
		Title      string `json:"title"`
		Summary    string `json:"summary"`
		ReleasedAt int64  `json:"released_at"`
	} `json:"data"`
}

func NewSspaiClient(timeout time.Duration) *SspaiClient {
	return &SspaiClient{
		baseURL: "https://sspai.com/api/v1/articles",
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *SspaiClient) Fetch(ctx context.Context, _ string, limit int, cutoff time.Time) ([]models.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?offset=0&limit=20&sort=released_at", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sspai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sspai returned status %d", resp.StatusCode)
	}

	var apiResp sspaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("sspai decode: %w", err)
	}

	items := make([]models.NewsItem, 0, limit)
	for _, article := range apiResp.Data {
		if len(items) >= limit {
			break
		}
		if !isRelevant(article.Title + article.Summary) {
			continue
		}
		if article.ReleasedAt == 0 {
			continue
		}

		publishedAt := time.Unix(article.ReleasedAt, 0)
		if publishedAt.Before(cutoff) {
			continue
		}

		items = append(items, models.NewsItem{
			Title:          article.Title,
			Link:           fmt.Sprintf("https://sspai.com/post/%d", article.ID),
			Source:         "少数派",
			Published:      publishedAt.Format("2006-01-02"),
			Summary:        models.TruncateRunes(article.Summary, 200),
			Lang:           models.LangZH,
			PublishedEpoch: publishedAt.Unix(),
		})
	}

	return items, nil
}

func (c *SspaiClient) Name() string {
	return "sspai"
}

func isRelevant(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range relevanceKeywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
