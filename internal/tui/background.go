package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lumen-terminal/internal/theme"
)

// Background is the low-intensity shimmer drawn behind the landing screen.
// Pure function of (frame, size); the only state is the frame counter.
type Background struct {
	frame int
}

var shimmerRunes = []rune{'·', '∙', '•', '∙'}

// Advance moves the animation forward one frame.
func (b *Background) Advance() { b.frame++ }

// Frame returns the current frame counter.
func (b *Background) Frame() int { return b.frame }

// Render produces one frame of the shimmer field. Cell brightness follows a
// cheap deterministic hash of (x, y, frame), so frames are reproducible.
func (b *Background) Render(width, height int, bundle theme.Bundle) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(bundle.Roles.Muted)
	var sb strings.Builder
	for y := 0; y < height; y++ {
		var row strings.Builder
		for x := 0; x < width; x++ {
			h := cellHash(x, y, b.frame)
			if h%23 == 0 {
				row.WriteRune(shimmerRunes[h%uint32(len(shimmerRunes))])
			} else {
				row.WriteByte(' ')
			}
		}
		sb.WriteString(dim.Render(row.String()))
		if y < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func cellHash(x, y, frame int) uint32 {
	h := uint32(x)*2654435761 ^ uint32(y)*40503 ^ uint32(frame)*9176
	h ^= h >> 13
	h *= 0x5BD1E995
	h ^= h >> 15
	return h
}
