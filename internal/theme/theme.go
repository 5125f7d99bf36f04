package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme identifies the active color scheme. Only two values exist.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Default is the theme used whenever no usable preference exists.
const Default = Dark

// ErrUnknownTheme is returned when a value is neither "dark" nor "light".
var ErrUnknownTheme = errors.New("unknown theme")

// Parse validates a raw theme value.
func Parse(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case Dark:
		return Dark, nil
	case Light:
		return Light, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, raw)
	}
}

// Valid reports whether t is one of the two permitted values.
func (t Theme) Valid() bool { return t == Dark || t == Light }

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Roles defines stable semantic color slots used across the UI.
//
// Components should depend on these semantic roles rather than
// theme-specific color literals.
type Roles struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Danger  lipgloss.Color
	Success lipgloss.Color
	Border  lipgloss.Color
}

// StyleSet provides strongly-typed styles for the primary UI surfaces.
type StyleSet struct {
	Header   lipgloss.Style
	Viewport lipgloss.Style
	Panel    lipgloss.Style
	Prompt   lipgloss.Style
	Warning  lipgloss.Style
}

// Bundle contains all display styles needed by a rendered session.
type Bundle struct {
	StyleSet
	Roles Roles
}

// TermProfile describes terminal rendering capabilities derived from TERM.
type TermProfile struct {
	Colors    int
	TrueColor bool
	IsTTY     bool
}

// TermProfileDetector maps a TERM value to a terminal capability profile.
type TermProfileDetector func(term string) TermProfile

var (
	termProfileCache sync.Map
	knownProfiles    = map[string]TermProfile{
		"dumb":           {Colors: 0, TrueColor: false, IsTTY: false},
		"ansi":           {Colors: 8, TrueColor: false, IsTTY: true},
		"linux":          {Colors: 16, TrueColor: false, IsTTY: true},
		"xterm":          {Colors: 16, TrueColor: false, IsTTY: true},
		"xterm-256color": {Colors: 256, TrueColor: false, IsTTY: true},
		"screen":         {Colors: 8, TrueColor: false, IsTTY: true},
		"tmux":           {Colors: 256, TrueColor: false, IsTTY: true},
		"vt100":          {Colors: 8, TrueColor: false, IsTTY: true},
		"xterm-kitty":    {Colors: 1 << 24, TrueColor: true, IsTTY: true},
		"wezterm":        {Colors: 1 << 24, TrueColor: true, IsTTY: true},
	}
)

type palette struct {
	background string
	foreground string
	surface    string
	accent     string
	accentFg   string
	warningBg  string
	warningFg  string
	roles      Roles
}

var palettes = map[Theme]palette{
	Dark: {
		background: "#141D2B",
		foreground: "#F2F2F2",
		surface:    "#1A2536",
		accent:     "#8BC34A",
		accentFg:   "#101F38",
		warningBg:  "#5B1F2A",
		warningFg:  "#FFDDE0",
		roles: Roles{
			Primary: "#F2F2F2", Accent: "#8BC34A", Muted: "#2A3850",
			Danger: "#E53935", Success: "#8BC34A", Border: "#2A3850",
		},
	},
	Light: {
		background: "#F4F5F6",
		foreground: "#101F38",
		surface:    "#FFFFFF",
		accent:     "#101F38",
		accentFg:   "#F4F5F6",
		warningBg:  "#F4B183",
		warningFg:  "#3A1800",
		roles: Roles{
			Primary: "#101F38", Accent: "#8BC34A", Muted: "#D6DAE0",
			Danger: "#E53935", Success: "#4CAF50", Border: "#DCE0E5",
		},
	},
}

// Resolve resolves a concrete style bundle for a theme and TERM value.
//
// For lower-capability terminals (xterm-256color and below), Resolve returns
// a monochrome/high-contrast bundle unless color is explicitly forced.
func Resolve(t Theme, term string) (Bundle, error) {
	return resolveWith(t, ResolveOptions{Term: term}, detectTermProfile)
}

// ResolveWithDetector resolves a bundle using a caller-provided TERM detector.
//
// This is primarily intended for tests and advanced integrations that want
// custom TERM/profile mapping behavior without changing palette logic.
func ResolveWithDetector(t Theme, opts ResolveOptions, detector TermProfileDetector) (Bundle, error) {
	if detector == nil {
		detector = detectTermProfile
	}
	return resolveWith(t, opts, detector)
}

// DetectTermProfile maps TERM to a terminal capability profile.
func DetectTermProfile(term string) TermProfile {
	return detectTermProfile(term)
}

// ResolveOptions controls how a bundle is selected once a TERM profile exists.
type ResolveOptions struct {
	Term       string
	ForceColor bool
	ForceMono  bool
}

func resolveWith(t Theme, opts ResolveOptions, detector TermProfileDetector) (Bundle, error) {
	p, ok := palettes[t]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %s", ErrUnknownTheme, t)
	}

	profile := detector(strings.TrimSpace(opts.Term))
	if shouldUseMonochrome(profile, opts) {
		return monochromeBundle(), nil
	}

	return bundleFromPalette(p), nil
}

func shouldUseMonochrome(profile TermProfile, opts ResolveOptions) bool {
	if opts.ForceMono {
		return true
	}
	if opts.ForceColor {
		return false
	}
	if !profile.IsTTY {
		return true
	}
	if !profile.TrueColor && profile.Colors <= 256 {
		return true
	}
	return false
}

func detectTermProfile(term string) TermProfile {
	norm := strings.ToLower(strings.TrimSpace(term))
	if cached, ok := termProfileCache.Load(norm); ok {
		return cached.(TermProfile)
	}

	profile := detectTermProfileUncached(norm)
	termProfileCache.Store(norm, profile)
	return profile
}

func detectTermProfileUncached(norm string) TermProfile {
	if norm == "" {
		return TermProfile{Colors: 0, TrueColor: false, IsTTY: false}
	}

	if p, ok := knownProfiles[norm]; ok {
		return p
	}

	profile := TermProfile{Colors: 16, TrueColor: false, IsTTY: true}
	if strings.Contains(norm, "truecolor") || strings.Contains(norm, "24bit") || strings.Contains(norm, "kitty") || strings.Contains(norm, "wezterm") {
		profile.TrueColor = true
		profile.Colors = 1 << 24
	}
	if strings.Contains(norm, "256") {
		profile.Colors = 256
	}
	if strings.Contains(norm, "dumb") {
		profile = TermProfile{Colors: 0, TrueColor: false, IsTTY: false}
	}
	if strings.Contains(norm, "screen") {
		profile.Colors = 8
	}

	return profile
}

func bundleFromPalette(p palette) Bundle {
	return Bundle{
		StyleSet: StyleSet{
			Header: lipgloss.NewStyle().
				Foreground(lipgloss.Color(p.foreground)).
				Background(lipgloss.Color(p.background)).
				Bold(true),
			Viewport: lipgloss.NewStyle().
				Foreground(lipgloss.Color(p.foreground)).
				Background(lipgloss.Color(p.background)),
			Panel: lipgloss.NewStyle().
				Foreground(lipgloss.Color(p.foreground)).
				Background(lipgloss.Color(p.surface)),
			Prompt: lipgloss.NewStyle().
				Foreground(lipgloss.Color(p.accentFg)).
				Background(lipgloss.Color(p.accent)).
				Bold(true),
			Warning: lipgloss.NewStyle().
				Foreground(lipgloss.Color(p.warningFg)).
				Background(lipgloss.Color(p.warningBg)).
				Bold(true),
		},
		Roles: p.roles,
	}
}

func monochromeBundle() Bundle {
	return Bundle{
		StyleSet: StyleSet{
			Header:   lipgloss.NewStyle().Bold(true),
			Viewport: lipgloss.NewStyle(),
			Panel:    lipgloss.NewStyle(),
			Prompt:   lipgloss.NewStyle().Bold(true),
			Warning:  lipgloss.NewStyle().Reverse(true).Bold(true),
		},
		Roles: Roles{
			Primary: "#FFFFFF", Accent: "#FFFFFF", Muted: "#8F8F8F",
			Danger: "#E6E6E6", Success: "#CFCFCF", Border: "#8F8F8F",
		},
	}
}
