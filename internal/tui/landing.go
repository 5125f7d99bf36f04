package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"lumen-terminal/internal/theme"
)

const landingMarkdown = `# LUMEN

A terminal window onto the simulation engine.

## What runs here

- **Live status** of the engine, refreshed while you watch.
- **Run submission** straight from the command prompt.
- **Notifications** for accepted runs, completions, and faults.

## Getting around

| Key | Action            |
|-----|-------------------|
| n   | notification panel |
| :   | command prompt    |
| t   | toggle dark/light |
| q   | disconnect        |

> Press any of the keys above to begin.
`

type landingCacheKey struct {
	theme theme.Theme
	width int
}

var (
	landingMu    sync.Mutex
	landingCache = map[landingCacheKey]string{}
)

// renderLanding renders the landing sections for a theme and width. Glamour
// rendering is not cheap, so output is cached per (theme, width).
func renderLanding(t theme.Theme, width int) string {
	if width < 20 {
		width = 20
	}
	key := landingCacheKey{theme: t, width: width}

	landingMu.Lock()
	defer landingMu.Unlock()
	if cached, ok := landingCache[key]; ok {
		return cached
	}

	style := "dark"
	if t == theme.Light {
		style = "light"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return landingMarkdown
	}
	out, err := renderer.Render(landingMarkdown)
	if err != nil {
		return landingMarkdown
	}
	out = strings.TrimRight(out, "\n")
	landingCache[key] = out
	return out
}
