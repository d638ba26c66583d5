package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"fintechweekly/internal/models"
)

const enrichSystemPrompt = "你是一位专业的金融科技新闻编辑，擅长准确翻译英文新闻标题并撰写简明摘要。"

// Enricher adds a Chinese title translation and a short abstract to
// every item of a dataset in one batched model call.
type Enricher struct {
	completer Completer
}

func NewEnricher(c Completer) *Enricher {
	return &Enricher{completer: c}
}

type enrichedItem struct {
	Index     int    `json:"index"`
	TitleZH   string `json:"title_zh"`
	AISummary string `json:"summary"`
}

type enrichResponse struct {
	Items []enrichedItem `json:"items"`
}

// Enrich mutates ds in place. Results are matched back strictly by the
// index they were submitted with; indices missing from the response
// leave their items untouched. On any collaborator or parse failure the
// whole dataset gets uniform identity defaults instead, so the output
// is never partially enriched in a shape the fallback cannot produce.
func (e *Enricher) Enrich(ctx context.Context, ds *models.Dataset) {
	if len(ds.AllNews) == 0 {
		return
	}

	raw, err := e.completer.Complete(ctx, enrichSystemPrompt, buildEnrichPrompt(ds.AllNews), 0.3, 3000)
	if err != nil {
		log.Printf("Enrichment failed, applying defaults: %v", err)
		applyEnrichFallback(ds)
		return
	}

	resp, err := decodeEnrichResponse(raw)
	if err != nil {
		log.Printf("Enrichment response unusable, applying defaults: %v", err)
		applyEnrichFallback(ds)
		return
	}

	for _, r := range resp.Items {
		if r.Index < 0 || r.Index >= len(ds.AllNews) {
			continue
		}
		item := &ds.AllNews[r.Index]
		item.TitleTranslated = r.TitleZH
		item.AISummary = r.AISummary
		writeThrough(ds, *item)
	}
}

// writeThrough refreshes the per-language partition copy of item,
// matched by title since items carry no identifier.
func writeThrough(ds *models.Dataset, item models.NewsItem) {
	partition := ds.ENNews
	if item.Lang == models.LangZH {
		partition = ds.ZHNews
	}
	for i := range partition {
		if partition[i].Title == item.Title {
			partition[i].TitleTranslated = item.TitleTranslated
			partition[i].AISummary = item.AISummary
			return
		}
	}
}

func applyEnrichFallback(ds *models.Dataset) {
	fill := func(items []models.NewsItem) {
		for i := range items {
			items[i].TitleTranslated = items[i].Title
			items[i].AISummary = models.TruncateRunes(items[i].Summary, 100)
		}
	}
	fill(ds.AllNews)
	fill(ds.ENNews)
	fill(ds.ZHNews)
}

func buildEnrichPrompt(items []models.NewsItem) string {
	var sb strings.Builder
	sb.WriteString("For each news item below provide a Chinese translation of the title ")
	sb.WriteString("(keep Chinese titles as-is) and a short Chinese abstract of 50-100 characters.\n")
	sb.WriteString("Respond with JSON only, no other text:\n")
	sb.WriteString(`{"items": [{"index": 0, "title_zh": "翻译后的标题", "summary": "简短摘要"}]}`)
	sb.WriteString("\n\nNews items:\n\n")

	for i, item := range items {
		sb.WriteString(fmt.Sprintf("Item %d:\n", i))
		sb.WriteString(fmt.Sprintf("Title: %s\n", item.Title))
		if item.Summary != "" {
			sb.WriteString(fmt.Sprintf("Summary: %s\n", models.TruncateRunes(item.Summary, 200)))
		}
		sb.WriteString(fmt.Sprintf("Language: %s\n\n", item.Lang))
	}

	return sb.String()
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// decodeEnrichResponse tries, in order: the raw text as JSON, the
// contents of the first fenced code block, and the span between the
// first '{' and the last '}'. Each stage is total; only exhausting all
// three fails the pass.
func decodeEnrichResponse(raw string) (*enrichResponse, error) {
	for _, candidate := range jsonCandidates(raw) {
		var resp enrichResponse
		if err := json.Unmarshal([]byte(candidate), &resp); err == nil {
			return &resp, nil
		}
	}
	return nil, fmt.Errorf("no parseable JSON in model response")
}

func jsonCandidates(raw string) []string {
	candidates := []string{strings.TrimSpace(raw)}
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		candidates = append(candidates, raw[start:end+1])
	}
	return candidates
}
