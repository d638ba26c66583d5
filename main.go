package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"fintechweekly/internal/aggregator"
	"fintechweekly/internal/ai"
	"fintechweekly/internal/config"
	"fintechweekly/internal/notify"
	"fintechweekly/internal/site"
	"fintechweekly/internal/store"
)

func main() {
	_ = godotenv.Load()

	step := flag.String("step", "all", "pipeline step to run: fetch, summarize, site or all")
	week := flag.String("week", "", "week key (YYYY-Wnn) to summarize; defaults to the latest fetch")
	flag.Parse()

	cfg := config.Load()
	st := store.New(cfg.DataDir)
	ctx := context.Background()

	switch *step {
	case "fetch":
		runFetch(ctx, cfg, st)
	case "summarize":
		runSummarize(ctx, cfg, st, *week)
	case "site":
		runSite(cfg, st)
	case "all":
		runFetch(ctx, cfg, st)
		runSummarize(ctx, cfg, st, "")
		runSite(cfg, st)
	default:
		log.Fatalf("Unknown step %q (want fetch, summarize, site or all)", *step)
	}
}

func runFetch(ctx context.Context, cfg *config.Config, st *store.Store) {
	log.Println("Fetching news from all sources...")

	ds := aggregator.New(cfg).Aggregate(ctx)
	if err := st.SaveDataset(ds); err != nil {
		log.Fatalf("Save dataset: %v", err)
	}

	log.Printf("Fetched %d unique news items (%d EN, %d ZH)", ds.TotalCount, len(ds.ENNews), len(ds.ZHNews))
}

func runSummarize(ctx context.Context, cfg *config.Config, st *store.Store, week string) {
	ds, err := st.LoadDataset(week)
	if err != nil {
		log.Fatalf("Load dataset: %v", err)
	}

	client := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	log.Printf("Enriching %d news items...", len(ds.AllNews))
	ai.NewEnricher(client).Enrich(ctx, ds)
	if err := st.SaveDataset(ds); err != nil {
		log.Fatalf("Save enriched dataset: %v", err)
	}

	log.Println("Generating AI digest...")
	digest := ai.NewDigestGenerator(client).Generate(ctx, ds)
	if err := st.SaveDigest(digest); err != nil {
		log.Fatalf("Save digest: %v", err)
	}

	notifier, err := notify.New(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("Telegram notifier unavailable: %v", err)
	}
	notifier.SendDigest(digest)
}

func runSite(cfg *config.Config, st *store.Store) {
	gen, err := site.NewGenerator(st, cfg.SiteDir)
	if err != nil {
		log.Fatalf("Site generator: %v", err)
	}
	if err := gen.Generate(); err != nil {
		log.Fatalf("Generate site: %v", err)
	}

	log.Printf("Site generated in %s", cfg.SiteDir)
}
