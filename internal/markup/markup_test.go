package markup

import (
	"strings"
	"testing"
)

func TestRenderHeadingsListsAndBold(t *testing.T) {
	t.Parallel()

	md := "## 本周概要\n\n整体 **活跃**。\n\n- 第一条\n- 第二条\n\n1. 编号一\n\n普通段落。"
	out, err := Render(md)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	for _, want := range []string{"<h2", "本周概要", "<strong>活跃</strong>", "<ul>", "<li>第一条</li>", "<ol>", "<p>普通段落。</p>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmptyInput(t *testing.T) {
	t.Parallel()

	out, err := Render("")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Fatalf("empty input should render to empty output: %q", out)
	}
}
