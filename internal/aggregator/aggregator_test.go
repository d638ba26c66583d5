package aggregator

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"fintechweekly/internal/config"
	"fintechweekly/internal/models"
)

func TestDedupeFirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	a := models.NewsItem{Title: "Foo Bank Launches New AI Credit Scoring Tool"}
	b := models.NewsItem{Title: "Foo Bank Launches New AI Credit Scoring System"}

	out := Dedupe([]models.NewsItem{a, b})
	if len(out) != 1 {
		t.Fatalf("expected 1 item after dedupe, got %d", len(out))
	}
	if out[0].Title != a.Title {
		t.Fatalf("first occurrence should win, got %q", out[0].Title)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	t.Parallel()

	items := []models.NewsItem{
		{Title: "AI Startup Raises $50M"},
		{Title: "ai startup raises $50m from different outlet"},
		{Title: "Completely different headline"},
		{Title: "人工智能助力银行风控升级"},
	}

	once := Dedupe(items)
	twice := Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedupe not idempotent: %v vs %v", once, twice)
	}
}

func TestDedupeCaseInsensitiveRunePrefix(t *testing.T) {
	t.Parallel()

	// Identical after lowercasing the first 30 runes.
	items := []models.NewsItem{
		{Title: "AI Startup Raises $50M In Series B Funding Round"},
		{Title: "ai startup raises $50m in serIES C instead"},
	}
	if out := Dedupe(items); len(out) != 1 {
		t.Fatalf("expected fingerprint collision, got %d items", len(out))
	}
}

func TestSuffixStripCollisionScenario(t *testing.T) {
	t.Parallel()

	// Titles after adapter-side suffix stripping: the later, older item
	// collides with the first on the 30-rune fingerprint.
	t0 := time.Now().Unix()
	items := []models.NewsItem{
		{Title: "AI Startup Raises $50M", PublishedEpoch: t0},
		{Title: "AI Startup Raises $50M", PublishedEpoch: t0 - 3600},
	}

	out := Dedupe(items)
	if len(out) != 1 {
		t.Fatalf("expected 1 item, got %d", len(out))
	}
	if out[0].PublishedEpoch != t0 {
		t.Fatalf("expected the earlier-listed item (epoch %d) to survive, got %d", t0, out[0].PublishedEpoch)
	}
}

func TestFilterRecentMonotonic(t *testing.T) {
	t.Parallel()

	now := time.Now()
	items := []models.NewsItem{
		{Title: "today", PublishedEpoch: now.Unix()},
		{Title: "two days ago", PublishedEpoch: now.Add(-2 * 24 * time.Hour).Unix()},
		{Title: "six days ago", PublishedEpoch: now.Add(-6 * 24 * time.Hour).Unix()},
		{Title: "ten days ago", PublishedEpoch: now.Add(-10 * 24 * time.Hour).Unix()},
	}

	prev := len(items) + 1
	for _, days := range []int{14, 7, 3, 1, 0} {
		got := len(FilterRecent(items, days, now))
		if got > prev {
			t.Fatalf("shrinking lookback to %d days grew the set: %d > %d", days, got, prev)
		}
		prev = got
	}

	if got := len(FilterRecent(items, 7, now)); got != 3 {
		t.Fatalf("lookback 7 should keep 3 items, got %d", got)
	}
}

func TestFilterRecentFallbacks(t *testing.T) {
	t.Parallel()

	now := time.Now()
	items := []models.NewsItem{
		// No epoch, date inside window: kept via date-only parsing.
		{Title: "date only recent", Published: now.Add(-24 * time.Hour).Format("2006-01-02")},
		// No epoch, date outside window: dropped.
		{Title: "date only stale", Published: now.Add(-30 * 24 * time.Hour).Format("2006-01-02")},
		// Neither epoch nor parseable date: treated as now, kept.
		{Title: "no timestamp at all"},
	}

	out := FilterRecent(items, 7, now)
	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %d: %v", len(out), out)
	}
	for _, item := range out {
		if item.Title == "date only stale" {
			t.Fatalf("stale date-only item should have been dropped")
		}
	}
}

type stubSource struct {
	name  string
	items []models.NewsItem
	err   error
}

func (s *stubSource) Fetch(_ context.Context, query string, limit int, _ time.Time) ([]models.NewsItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.items) > limit {
		return s.items[:limit], nil
	}
	return s.items, nil
}

func (s *stubSource) Name() string { return s.name }

func testConfig() *config.Config {
	return &config.Config{
		LookbackDays: 7,
		MaxPerSource: 5,
		MaxTotal:     20,
	}
}

func TestAggregateSortStableAndPartitioned(t *testing.T) {
	t.Parallel()

	now := time.Now()
	epoch := now.Add(-time.Hour).Unix()

	// Two sources with equal timestamps: call order must survive the sort.
	first := &stubSource{name: "first", items: []models.NewsItem{
		{Title: "headline one from first", Lang: models.LangEN, PublishedEpoch: epoch, Published: now.Format("2006-01-02")},
		{Title: "headline two from first", Lang: models.LangEN, PublishedEpoch: epoch, Published: now.Format("2006-01-02")},
	}}
	second := &stubSource{name: "second", items: []models.NewsItem{
		{Title: "中文头条新闻", Lang: models.LangZH, PublishedEpoch: epoch, Published: now.Format("2006-01-02")},
	}}
	failing := &stubSource{name: "broken", err: fmt.Errorf("connection refused")}

	agg := &Aggregator{
		cfg: testConfig(),
		calls: []Call{
			{Source: first},
			{Source: second},
			{Source: failing},
		},
		now: func() time.Time { return now },
	}

	ds := agg.Aggregate(context.Background())

	wantOrder := []string{"headline one from first", "headline two from first", "中文头条新闻"}
	if len(ds.AllNews) != len(wantOrder) {
		t.Fatalf("expected %d items, got %d", len(wantOrder), len(ds.AllNews))
	}
	for i, want := range wantOrder {
		if ds.AllNews[i].Title != want {
			t.Fatalf("position %d: got %q, want %q", i, ds.AllNews[i].Title, want)
		}
	}

	if len(ds.ENNews)+len(ds.ZHNews) != len(ds.AllNews) {
		t.Fatalf("partition sizes %d+%d != %d", len(ds.ENNews), len(ds.ZHNews), len(ds.AllNews))
	}
	if ds.TotalCount != len(ds.AllNews) {
		t.Fatalf("TotalCount %d != len(AllNews) %d", ds.TotalCount, len(ds.AllNews))
	}
	if ds.Week != models.WeekKey(now) {
		t.Fatalf("unexpected week key %q", ds.Week)
	}
	if ds.LookbackDays != 7 {
		t.Fatalf("unexpected lookback %d", ds.LookbackDays)
	}
}

func TestAggregateCapAndDescendingOrder(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cfg := testConfig()
	cfg.MaxTotal = 3
	cfg.MaxPerSource = 10

	var items []models.NewsItem
	for i := 0; i < 8; i++ {
		items = append(items, models.NewsItem{
			Title:          fmt.Sprintf("distinct headline number %d with unique text", i),
			Lang:           models.LangEN,
			PublishedEpoch: now.Add(-time.Duration(i) * time.Hour).Unix(),
			Published:      now.Format("2006-01-02"),
		})
	}
	// Feed oldest-first so the sort has work to do.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	agg := &Aggregator{
		cfg:   cfg,
		calls: []Call{{Source: &stubSource{name: "bulk", items: items}}},
		now:   func() time.Time { return now },
	}

	ds := agg.Aggregate(context.Background())
	if len(ds.AllNews) != 3 {
		t.Fatalf("cap not applied: got %d items", len(ds.AllNews))
	}
	for i := 1; i < len(ds.AllNews); i++ {
		if ds.AllNews[i-1].PublishedEpoch < ds.AllNews[i].PublishedEpoch {
			t.Fatalf("items not sorted newest-first at position %d", i)
		}
	}
}

func TestAggregateAllSourcesFailingYieldsEmptyDataset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	agg := &Aggregator{
		cfg: testConfig(),
		calls: []Call{
			{Source: &stubSource{name: "a", err: fmt.Errorf("timeout")}},
			{Source: &stubSource{name: "b", err: fmt.Errorf("dns failure")}, Queries: []string{"q1", "q2"}},
		},
		now: func() time.Time { return now },
	}

	ds := agg.Aggregate(context.Background())
	if ds.TotalCount != 0 || len(ds.AllNews) != 0 {
		t.Fatalf("expected empty dataset, got %d items", ds.TotalCount)
	}
	if ds.Week == "" || ds.FetchDate == "" {
		t.Fatalf("empty dataset must still carry week and fetch date")
	}
}
