package theme

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// Provider resolves and reports the active theme.
//
// CurrentTheme is the explicit preference when one has been set.
// ResolvedTheme is the value in effect after reconciling the explicit
// preference with any system-level signal; it is authoritative when present.
type Provider interface {
	CurrentTheme() (Theme, bool)
	ResolvedTheme() (Theme, bool)
	SetTheme(Theme)
}

// SystemSignal reports an ambient theme preference, if one is detectable.
type SystemSignal func() (Theme, bool)

// TermProvider is the production Provider. The system signal defaults to
// terminal background detection; an explicit SetTheme overrides it.
type TermProvider struct {
	mu       sync.RWMutex
	explicit Theme
	hasPref  bool
	signal   SystemSignal
}

// NewTermProvider builds a provider with the given system signal. A nil
// signal falls back to TerminalBackgroundSignal.
func NewTermProvider(signal SystemSignal) *TermProvider {
	if signal == nil {
		signal = TerminalBackgroundSignal
	}
	return &TermProvider{signal: signal}
}

func (p *TermProvider) CurrentTheme() (Theme, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.hasPref {
		return "", false
	}
	return p.explicit, true
}

func (p *TermProvider) ResolvedTheme() (Theme, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.hasPref {
		return p.explicit, true
	}
	return p.signal()
}

func (p *TermProvider) SetTheme(t Theme) {
	if !t.Valid() {
		return
	}
	p.mu.Lock()
	p.explicit = t
	p.hasPref = true
	p.mu.Unlock()
}

// TerminalBackgroundSignal inspects COLORFGBG for the terminal's background
// color. Format is "foreground;background" with ANSI palette indexes; the
// low indexes and dark grey indicate a dark background.
func TerminalBackgroundSignal() (Theme, bool) {
	raw := os.Getenv("COLORFGBG")
	if raw == "" {
		return "", false
	}
	parts := strings.Split(raw, ";")
	if len(parts) < 2 {
		return "", false
	}
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return "", false
	}
	if (bg >= 0 && bg <= 6) || bg == 8 {
		return Dark, true
	}
	if bg >= 7 && bg <= 15 {
		return Light, true
	}
	return "", false
}
