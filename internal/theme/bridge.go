package theme

import (
	"log/slog"
	"sync"

	"lumen-terminal/internal/settings"
)

// SettingsKey is the field the bridge owns inside the persisted settings
// blob. Every sibling field is preserved across writes.
const SettingsKey = "theme"

// InitialTheme reads the persisted theme preference. Any failure — file
// absent, unreadable, malformed blob, missing or invalid field — yields the
// default. Pure read, never errors, never blocks rendering.
func InitialTheme(store settings.Store) Theme {
	blob, _ := store.Load()
	raw, ok := blob.String(SettingsKey)
	if !ok {
		return Default
	}
	t, err := Parse(raw)
	if err != nil {
		return Default
	}
	return t
}

// Bridge reconciles the three representations of theme state: the persisted
// settings blob, the provider's resolved value, and the root surface's
// marker set. It is the single source of truth for "what theme is active".
type Bridge struct {
	mu       sync.Mutex
	provider Provider
	store    settings.Store
	root     *RootSurface
	logger   *slog.Logger
	fallback Theme
}

// NewBridge wires a bridge and runs the first synchronization pass, so the
// surface carries a theme before anything renders. The fallback seeded from
// the persisted blob only matters until the provider resolves.
func NewBridge(provider Provider, store settings.Store, root *RootSurface, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{
		provider: provider,
		store:    store,
		root:     root,
		logger:   logger,
		fallback: InitialTheme(store),
	}
	b.mu.Lock()
	b.syncLocked()
	b.mu.Unlock()
	return b
}

// Surface returns the root surface the bridge keeps synchronized.
func (b *Bridge) Surface() *RootSurface { return b.root }

// Theme returns the theme in effect: the provider's resolved value when
// present, else its explicit preference, else the seeded fallback.
func (b *Bridge) Theme() Theme {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.themeLocked()
}

// SetTheme switches the resolved theme and synchronizes surface and blob.
// Invalid values are ignored.
func (b *Bridge) SetTheme(next Theme) {
	if !next.Valid() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.provider.SetTheme(next)
	b.syncLocked()
}

// Toggle flips the resolved theme to its opposite.
func (b *Bridge) Toggle() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.provider.SetTheme(b.themeLocked().Opposite())
	b.syncLocked()
}

// Resync re-reads the persisted blob and adopts its theme if it differs
// from the resolved one. Used when the settings file changes out-of-band.
func (b *Bridge) Resync() {
	next := InitialTheme(b.store)
	b.mu.Lock()
	defer b.mu.Unlock()
	if next == b.themeLocked() {
		return
	}
	b.provider.SetTheme(next)
	b.syncLocked()
}

func (b *Bridge) themeLocked() Theme {
	if t, ok := b.provider.ResolvedTheme(); ok {
		return t
	}
	if t, ok := b.provider.CurrentTheme(); ok {
		return t
	}
	return b.fallback
}

// syncLocked is the synchronization pass. It runs after every mutation:
// marker set first, then a best-effort write-back merge into the blob.
// Persistence failures never propagate; the surface stays authoritative.
func (b *Bridge) syncLocked() {
	t := b.themeLocked()

	b.root.AddMarker(string(t))
	b.root.RemoveMarker(string(t.Opposite()))

	b.root.RemoveMarkersWithPrefix("theme-")
	b.root.AddMarker("theme-" + string(t))

	b.root.SetActive(t)

	fields := settings.Blob{}
	fields.SetString(SettingsKey, string(t))
	if err := b.store.Merge(fields); err != nil {
		b.logger.Debug("theme persistence failed", "theme", t, "err", err)
	}
}
