package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"fintechweekly/internal/markup"
	"fintechweekly/internal/models"
)

const digestSystemPrompt = "你是一位资深金融科技分析师，擅长将复杂的技术新闻转化为易于理解的商业洞察。"

// DigestGenerator produces the weekly narrative summary. Generate
// always returns a well-formed Digest; collaborator failures surface as
// a canned fallback carrying the error.
type DigestGenerator struct {
	completer Completer
	now       func() time.Time
}

func NewDigestGenerator(c Completer) *DigestGenerator {
	return &DigestGenerator{completer: c, now: time.Now}
}

func (g *DigestGenerator) Generate(ctx context.Context, ds *models.Dataset) models.Digest {
	digest := models.Digest{
		Week:        ds.Week,
		GeneratedAt: g.now().Format(time.RFC3339),
		Model:       g.completer.Model(),
		NewsCount:   len(ds.AllNews),
	}

	raw, err := g.completer.Complete(ctx, digestSystemPrompt, buildDigestPrompt(ds), 0.7, 2000)
	if err != nil {
		log.Printf("Digest generation failed: %v", err)
		digest.Model = "fallback"
		digest.Error = err.Error()
		digest.SummaryRaw = fallbackDigest(len(ds.AllNews), err)
	} else {
		digest.SummaryRaw = raw
	}

	html, err := markup.Render(digest.SummaryRaw)
	if err != nil {
		log.Printf("Digest markup rendering failed: %v", err)
		html = digest.SummaryRaw
	}
	digest.Summary = html

	return digest
}

func fallbackDigest(count int, err error) string {
	return fmt.Sprintf("## 本周概要\n\n本周收集了 %d 条 AI 金融相关新闻。由于总结生成失败，请直接查看下方新闻列表。\n\n错误信息: %v", count, err)
}

// primaryLanguage decides which language the digest is written in: zh
// unless English items strictly outnumber Chinese ones.
func primaryLanguage(ds *models.Dataset) models.Language {
	if len(ds.ENNews) > len(ds.ZHNews) {
		return models.LangEN
	}
	return models.LangZH
}

func buildDigestPrompt(ds *models.Dataset) string {
	lang := "中文"
	if primaryLanguage(ds) == models.LangEN {
		lang = "English"
	}

	var sb strings.Builder
	sb.WriteString("你是一位专业的金融科技分析师。请根据以下本周收集的 AI 在金融领域应用的新闻，撰写一份周报总结。\n\n")
	sb.WriteString("新闻列表：\n")
	sb.WriteString(formatNewsList(ds.AllNews))
	sb.WriteString("\n请按以下格式输出：\n\n")
	sb.WriteString(fmt.Sprintf("## 本周概要\n（用 3-5 句话总结本周 AI 金融领域的整体动态和重要趋势，用%s撰写）\n\n", lang))
	sb.WriteString(fmt.Sprintf("## 重点新闻解读\n（挑选 3-5 条最重要的新闻，每条用 2-3 句话解读其意义和影响，用%s撰写）\n\n", lang))
	sb.WriteString(fmt.Sprintf("## 趋势观察\n（基于本周新闻，总结 1-2 个值得关注的发展趋势，用%s撰写）\n\n", lang))
	sb.WriteString("注意：\n")
	sb.WriteString("- 保持客观专业的语调\n")
	sb.WriteString("- 突出实际应用和商业价值\n")
	sb.WriteString("- 如果新闻较少或质量不高，诚实说明\n")

	return sb.String()
}

func formatNewsList(items []models.NewsItem) string {
	var sb strings.Builder
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, strings.ToUpper(string(item.Lang)), item.Title))
		sb.WriteString(fmt.Sprintf("   Source: %s | Date: %s\n", item.Source, item.Published))
		if item.Summary != "" {
			sb.WriteString(fmt.Sprintf("   Summary: %s\n", models.TruncateRunes(item.Summary, 200)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
