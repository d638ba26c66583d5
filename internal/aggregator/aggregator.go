package aggregator

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"fintechweekly/internal/config"
	"fintechweekly/internal/models"
	"fintechweekly/internal/sources"
)

// Call pairs a source with the queries it is invoked for. Fixed-endpoint
// sources carry no queries and are invoked once.
type Call struct {
	Source  models.NewsSource
	Queries []string
}

// Aggregator runs every source for every query, then dedupes, filters,
// sorts, caps and partitions the combined results into one Dataset.
type Aggregator struct {
	cfg   *config.Config
	calls []Call
	now   func() time.Time
}

func New(cfg *config.Config) *Aggregator {
	timeout := cfg.FetchTimeout
	calls := []Call{
		{Source: sources.NewGoogleNewsClient(models.LangEN, timeout), Queries: cfg.ENQueries},
		{Source: sources.NewGoogleNewsClient(models.LangZH, timeout), Queries: cfg.ZHQueries},
		{Source: sources.NewKr36Client(timeout)},
		{Source: sources.NewSspaiClient(timeout)},
	}

	return &Aggregator{cfg: cfg, calls: calls, now: time.Now}
}

// Aggregate never fails: a source outage costs its results, and the
// worst case is an empty dataset.
func (a *Aggregator) Aggregate(ctx context.Context) *models.Dataset {
	now := a.now()
	cutoff := now.Add(-time.Duration(a.cfg.LookbackDays) * 24 * time.Hour)

	var all []models.NewsItem
	for _, call := range a.calls {
		queries := call.Queries
		if len(queries) == 0 {
			queries = []string{""}
		}
		for _, query := range queries {
			items, err := call.Source.Fetch(ctx, query, a.cfg.MaxPerSource, cutoff)
			if err != nil {
				log.Printf("Error fetching from %s: %v", call.Source.Name(), err)
				continue
			}
			all = append(all, items...)
		}
	}

	all = Dedupe(all)
	all = FilterRecent(all, a.cfg.LookbackDays, now)

	// Stable: equal timestamps keep source-then-query call order.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedEpoch > all[j].PublishedEpoch
	})

	if len(all) > a.cfg.MaxTotal {
		all = all[:a.cfg.MaxTotal]
	}

	ds := &models.Dataset{
		FetchDate:    now.Format("2006-01-02"),
		Week:         models.WeekKey(now),
		TotalCount:   len(all),
		LookbackDays: a.cfg.LookbackDays,
		AllNews:      all,
	}
	for _, item := range all {
		if item.Lang == models.LangZH {
			ds.ZHNews = append(ds.ZHNews, item)
		} else {
			ds.ENNews = append(ds.ENNews, item)
		}
	}

	return ds
}

// Dedupe collapses items sharing a title fingerprint, keeping the first
// occurrence in input order. Deliberately coarse: reworded leads on the
// same story are not caught.
func Dedupe(items []models.NewsItem) []models.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		key := fingerprint(item.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// fingerprint is the lowercased first 30 runes of the title.
func fingerprint(title string) string {
	r := []rune(strings.ToLower(title))
	if len(r) > 30 {
		r = r[:30]
	}
	return string(r)
}

// FilterRecent retains items whose publish moment falls inside the
// lookback window. Items with no epoch fall back to their calendar
// date at local midnight; items with neither are treated as "now" and
// kept.
func FilterRecent(items []models.NewsItem, lookbackDays int, now time.Time) []models.NewsItem {
	cutoff := now.Add(-time.Duration(lookbackDays) * 24 * time.Hour)
	out := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		if !publishedAt(item, now).Before(cutoff) {
			out = append(out, item)
		}
	}
	return out
}

func publishedAt(item models.NewsItem, now time.Time) time.Time {
	if item.PublishedEpoch > 0 {
		return time.Unix(item.PublishedEpoch, 0)
	}
	if t, err := time.ParseInLocation("2006-01-02", item.Published, time.Local); err == nil {
		return t
	}
	return now
}
