package tui

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"lumen-terminal/internal/theme"
)

// Level classifies a notification for styling purposes.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
)

// Notification is one entry in the panel.
type Notification struct {
	ID        uuid.UUID
	Title     string
	Body      string
	Level     Level
	CreatedAt time.Time
	Read      bool
}

// NotificationPanel is the scrollable notification list. Entries are kept
// newest-first; the unread count feeds the header badge.
type NotificationPanel struct {
	mu       sync.Mutex
	entries  []Notification
	viewport viewport.Model
	cursor   int
}

// NewNotificationPanel builds an empty panel sized for the given viewport.
func NewNotificationPanel(width, height int) *NotificationPanel {
	vp := viewport.New(width, height)
	return &NotificationPanel{viewport: vp}
}

// Add inserts a notification at the top and returns its identity.
func (p *NotificationPanel) Add(title, body string, level Level) uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := Notification{
		ID:        uuid.New(),
		Title:     title,
		Body:      body,
		Level:     level,
		CreatedAt: time.Now(),
	}
	p.entries = append([]Notification{n}, p.entries...)
	if p.cursor >= len(p.entries) {
		p.cursor = len(p.entries) - 1
	}
	return n.ID
}

// Unread returns the number of unread notifications.
func (p *NotificationPanel) Unread() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, n := range p.entries {
		if !n.Read {
			count++
		}
	}
	return count
}

// Len returns the number of notifications.
func (p *NotificationPanel) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// MoveCursor shifts the selection by delta, clamped to the list bounds.
func (p *NotificationPanel) MoveCursor(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.entries) && len(p.entries) > 0 {
		p.cursor = len(p.entries) - 1
	}
}

// MarkSelectedRead marks the entry under the cursor as read.
func (p *NotificationPanel) MarkSelectedRead() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor < len(p.entries) {
		p.entries[p.cursor].Read = true
	}
}

// MarkAllRead marks every entry as read.
func (p *NotificationPanel) MarkAllRead() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		p.entries[i].Read = true
	}
}

// DismissSelected removes the entry under the cursor.
func (p *NotificationPanel) DismissSelected() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor >= len(p.entries) {
		return
	}
	p.entries = append(p.entries[:p.cursor], p.entries[p.cursor+1:]...)
	if p.cursor >= len(p.entries) && p.cursor > 0 {
		p.cursor--
	}
}

// Snapshot returns a copy of the entries, newest first.
func (p *NotificationPanel) Snapshot() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Notification, len(p.entries))
	copy(out, p.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Resize adjusts the panel viewport.
func (p *NotificationPanel) Resize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.viewport.Width = width
	p.viewport.Height = height
}

// View renders the panel with the active style bundle.
func (p *NotificationPanel) View(bundle theme.Bundle) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.entries) == 0 {
		return bundle.Panel.Render("No notifications.")
	}

	var lines []string
	for i, n := range p.entries {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		prefix := "  "
		if i == p.cursor {
			prefix = "> "
		}

		title := fmt.Sprintf("%s%s %s  %s", prefix, marker, n.CreatedAt.Format("15:04"), n.Title)
		line := lipgloss.NewStyle().Foreground(p.levelColor(n.Level, bundle)).Render(title)
		lines = append(lines, line)
		if i == p.cursor && n.Body != "" {
			lines = append(lines, bundle.Panel.Render("      "+n.Body))
		}
	}

	p.viewport.SetContent(strings.Join(lines, "\n"))
	return p.viewport.View()
}

func (p *NotificationPanel) levelColor(level Level, bundle theme.Bundle) lipgloss.Color {
	switch level {
	case LevelSuccess:
		return bundle.Roles.Success
	case LevelWarning:
		return bundle.Roles.Danger
	default:
		return bundle.Roles.Primary
	}
}
