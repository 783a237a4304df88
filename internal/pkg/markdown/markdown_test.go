package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasic(t *testing.T) {
	out, err := Render("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<h1") {
		t.Errorf("missing heading in output: %s", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("missing bold in output: %s", out)
	}
}

func TestRenderGFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |"
	out, err := Render(src)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("GFM table not rendered: %s", out)
	}
}

func TestRenderLinkify(t *testing.T) {
	out, err := Render("visit https://example.com today")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `<a href="https://example.com"`) {
		t.Errorf("bare URL not linkified: %s", out)
	}
}

func TestRenderOrRawEmpty(t *testing.T) {
	if got := RenderOrRaw(""); got != "" {
		t.Errorf("RenderOrRaw(\"\") = %q, want empty", got)
	}
}
