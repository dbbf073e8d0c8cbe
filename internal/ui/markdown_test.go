package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown("", 80); got != "" {
		t.Errorf("RenderMarkdown(\"\") = %q, want empty", got)
	}
}

func TestRenderMarkdownKeepsContent(t *testing.T) {
	got := RenderMarkdown("Hello **world**", 80)
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "world") {
		t.Errorf("RenderMarkdown() lost content: %q", got)
	}
}

func TestRenderMarkdownReusesRenderer(t *testing.T) {
	RenderMarkdown("first", 80)
	cached := mdRendererCache.renderer
	RenderMarkdown("second", 80)
	if mdRendererCache.renderer != cached {
		t.Error("expected renderer to be reused for same width")
	}
	RenderMarkdown("third", 60)
	if mdRendererCache.renderer == cached {
		t.Error("expected new renderer after width change")
	}
}
