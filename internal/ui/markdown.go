package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Package-level renderer cache; creating a glamour renderer is expensive
var mdRendererCache struct {
	sync.Mutex
	renderer *glamour.TermRenderer
	width    int
}

// RenderMarkdown renders markdown content for the terminal. On error the
// original content is returned unchanged so a rendering bug never hides
// a reply.
func RenderMarkdown(content string, width int) string {
	if content == "" {
		return ""
	}

	rendered, err := renderMarkdown(content, width)
	if err != nil {
		return content
	}
	return rendered
}

func renderMarkdown(content string, width int) (string, error) {
	mdRendererCache.Lock()
	defer mdRendererCache.Unlock()

	if mdRendererCache.renderer == nil || mdRendererCache.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		mdRendererCache.renderer = renderer
		mdRendererCache.width = width
	}

	rendered, err := mdRendererCache.renderer.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(rendered), nil
}
