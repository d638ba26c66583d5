package models

import (
	"context"
	"fmt"
	"time"
)

// Language of an item's title and summary. Set by the adapter that
// produced the item, not detected.
type Language string

const (
	LangEN Language = "en"
	LangZH Language = "zh"
)

// NewsItem is the canonical unit of content every source adapter
// normalizes into. PublishedEpoch is a sort and cutoff key only and is
// never written to the persisted artifacts.
type NewsItem struct {
	Title           string   `json:"title"`
	TitleTranslated string   `json:"title_zh,omitempty"`
	Link            string   `json:"link"`
	Source          string   `json:"source"`
	Published       string   `json:"published"` // YYYY-MM-DD, local time
	Summary         string   `json:"summary"`
	AISummary       string   `json:"ai_summary,omitempty"`
	Lang            Language `json:"lang"`
	PublishedEpoch  int64    `json:"-"`
}

// NewsSource fetches provider-native records and normalizes them into
// NewsItems. Implementations drop items published before cutoff and
// substitute "now" for timestamps they cannot parse. The query is
// ignored by fixed-endpoint sources.
type NewsSource interface {
	Fetch(ctx context.Context, query string, limit int, cutoff time.Time) ([]NewsItem, error)
	Name() string
}

// Dataset is the aggregation result for one reporting week. ENNews and
// ZHNews partition AllNews by language; the three lists hold the same
// logical items.
type Dataset struct {
	FetchDate    string     `json:"fetch_date"`
	Week         string     `json:"week"`
	TotalCount   int        `json:"total_count"`
	LookbackDays int        `json:"lookback_days"`
	ENNews       []NewsItem `json:"en_news"`
	ZHNews       []NewsItem `json:"zh_news"`
	AllNews      []NewsItem `json:"all_news"`
}

// Digest is the weekly narrative summary derived from one Dataset.
// Error is set only when generation fell back.
type Digest struct {
	Week        string `json:"week"`
	GeneratedAt string `json:"generated_at"`
	Summary     string `json:"summary"`     // rendered HTML
	SummaryRaw  string `json:"summary_raw"` // model output as-is
	Model       string `json:"model"`
	NewsCount   int    `json:"news_count"`
	Error       string `json:"error,omitempty"`
}

// WeekKey formats t as YYYY-Wnn. Weeks start on Monday and days before
// the year's first Monday fall into week 00, so keys match the archive
// filenames produced by earlier runs.
func WeekKey(t time.Time) string {
	yday := t.YearDay() - 1
	wday := (int(t.Weekday()) + 6) % 7 // Monday = 0
	week := (yday + 7 - wday) / 7
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}

// TruncateRunes shortens s to at most limit runes, appending an
// ellipsis when anything was cut.
func TruncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}
