package theme

import (
	"sort"
	"strings"
	"sync"
)

// RootSurface is the rendered session's root element. It carries the marker
// set that the bridge keeps in step with the resolved theme, and the style
// bundle every component renders with.
//
// Marker contract after each bridge pass: exactly one of "dark"/"light" and
// exactly one of "theme-dark"/"theme-light".
type RootSurface struct {
	mu      sync.RWMutex
	term    string
	markers map[string]struct{}
	bundle  Bundle
	active  Theme
}

// NewRootSurface builds a surface for a session running on the given TERM.
func NewRootSurface(term string) *RootSurface {
	return &RootSurface{
		term:    term,
		markers: make(map[string]struct{}),
	}
}

// AddMarker adds a marker. Adding an existing marker is a no-op.
func (r *RootSurface) AddMarker(marker string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers[marker] = struct{}{}
}

// RemoveMarker removes a marker if present.
func (r *RootSurface) RemoveMarker(marker string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.markers, marker)
}

// RemoveMarkersWithPrefix removes every marker sharing the prefix.
func (r *RootSurface) RemoveMarkersWithPrefix(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for m := range r.markers {
		if strings.HasPrefix(m, prefix) {
			delete(r.markers, m)
		}
	}
}

// HasMarker reports whether the marker is present.
func (r *RootSurface) HasMarker(marker string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.markers[marker]
	return ok
}

// Markers returns the marker set, sorted.
func (r *RootSurface) Markers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.markers))
	for m := range r.markers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// SetActive resolves and installs the style bundle for the theme.
func (r *RootSurface) SetActive(t Theme) {
	bundle, err := Resolve(t, r.term)
	if err != nil {
		return
	}
	r.mu.Lock()
	r.active = t
	r.bundle = bundle
	r.mu.Unlock()
}

// Active returns the theme the surface currently renders with.
func (r *RootSurface) Active() Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Bundle returns the active style bundle.
func (r *RootSurface) Bundle() Bundle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bundle
}
