package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.LookbackDays != 7 {
		t.Fatalf("default lookback = %d, want 7", cfg.LookbackDays)
	}
	if cfg.MaxPerSource != 5 || cfg.MaxTotal != 20 {
		t.Fatalf("default caps = %d/%d, want 5/20", cfg.MaxPerSource, cfg.MaxTotal)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("default model = %q", cfg.OpenAIModel)
	}
	if len(cfg.ENQueries) != 4 || len(cfg.ZHQueries) != 3 {
		t.Fatalf("default query lists = %d/%d, want 4/3", len(cfg.ENQueries), len(cfg.ZHQueries))
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOOKBACK_DAYS", "14")
	t.Setenv("EN_QUERIES", "AI insurance, , AI trading")

	cfg := Load()
	if cfg.LookbackDays != 14 {
		t.Fatalf("lookback override = %d, want 14", cfg.LookbackDays)
	}
	want := []string{"AI insurance", "AI trading"}
	if !reflect.DeepEqual(cfg.ENQueries, want) {
		t.Fatalf("EN query override = %v, want %v", cfg.ENQueries, want)
	}
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("LOOKBACK_DAYS", "not-a-number")

	if cfg := Load(); cfg.LookbackDays != 7 {
		t.Fatalf("malformed int should keep the default, got %d", cfg.LookbackDays)
	}
}
