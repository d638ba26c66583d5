package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fintechweekly/internal/models"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Kr36Client searches the 36kr main-site column API for AI + finance
// coverage. Fixed endpoint and keyword; the per-call query is ignored.
type Kr36Client struct {
	baseURL string
	keyword string
	client  *http.Client
}

type kr36Response struct {
	Data struct {
		Items []struct {
			WidgetData struct {
				ID          json.Number `json:"id"`
				Title       string      `json:"title"`
				Summary     string      `json:"summary"`
				PublishedAt string      `json:"published_at"`
			} `json:"widget_data"`
		} `json:"items"`
	} `json:"data"`
}

func NewKr36Client(timeout time.Duration) *Kr36Client {
	return &Kr36Client{
		baseURL: "https://36kr.com/api/search-column/mainsite",
		keyword: "AI 金融",
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Kr36Client) Fetch(ctx context.Context, _ string, limit int, cutoff time.Time) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("per_page", fmt.Sprintf("%d", limit))
	params.Set("page", "1")
	params.Set("keyword", c.keyword)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("36kr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("36kr returned status %d", resp.StatusCode)
	}

	var apiResp kr36Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("36kr decode: %w", err)
	}

	now := time.Now()
	items := make([]models.NewsItem, 0, limit)
	for _, raw := range apiResp.Data.Items {
		if len(items) >= limit {
			break
		}

		widget := raw.WidgetData
		publishedAt := parseKr36Time(widget.PublishedAt, now)
		if publishedAt.Before(cutoff) {
			continue
		}

		items = append(items, models.NewsItem{
			Title:          widget.Title,
			Link:           fmt.Sprintf("https://36kr.com/p/%s", widget.ID.String()),
			Source:         "36氪",
			Published:      publishedAt.Format("2006-01-02"),
			Summary:        models.TruncateRunes(widget.Summary, 200),
			Lang:           models.LangZH,
			PublishedEpoch: publishedAt.Unix(),
		})
	}

	return items, nil
}

func (c *Kr36Client) Name() string {
	return "36kr"
}

// parseKr36Time handles the API's ISO-8601 timestamps, with a
// date-only fallback and finally "now" so malformed timestamps never
// drop an item outright.
func parseKr36Time(value string, now time.Time) time.Time {
	if value == "" {
		return now
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Local()
	}
	if len(value) >= 10 {
		if t, err := time.ParseInLocation("2006-01-02", value[:10], time.Local); err == nil {
			return t
		}
	}
	return now
}
