package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lumen-terminal/internal/simclient"
	"lumen-terminal/internal/theme"
)

const (
	promptPrefix = "lumen ~ $ "

	backgroundFrameInterval = 150 * time.Millisecond
	statusPollInterval      = 5 * time.Second
	statusRequestTimeout    = 4 * time.Second
)

// Screen identifies the active top-level view.
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenNotifications
	ScreenCommand
)

// Messages consumed by Update.
type (
	backgroundTickMsg struct{}
	statusTickMsg     struct{}

	statusMsg struct {
		status simclient.Status
		err    error
	}

	runResultMsg struct {
		scenario string
		accepted simclient.RunAccepted
		err      error
	}
)

// Model is the per-session terminal UI state.
type Model struct {
	// ctx carries the theme bridge scope for this session.
	ctx    context.Context
	sim    *simclient.Client
	logger *slog.Logger

	width  int
	height int
	screen Screen

	background    Background
	notifications *NotificationPanel

	promptInput string

	status      simclient.Status
	statusKnown bool
	statusDown  bool
}

// NewModel constructs the session UI. ctx must carry a theme bridge scope
// (see theme.NewContext); the model fails fast on first access otherwise.
func NewModel(ctx context.Context, sim *simclient.Client, logger *slog.Logger, width, height int) Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := Model{
		ctx:           ctx,
		sim:           sim,
		logger:        logger,
		width:         width,
		height:        height,
		screen:        ScreenLanding,
		notifications: NewNotificationPanel(width, max(height-6, 1)),
	}
	m.notifications.Add("Connected", "Session established with the lumen terminal.", LevelInfo)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(backgroundTick(), statusTick(), m.fetchStatus())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.notifications.Resize(msg.Width, max(msg.Height-6, 1))
		return m, nil

	case backgroundTickMsg:
		m.background.Advance()
		return m, backgroundTick()

	case statusTickMsg:
		return m, tea.Batch(statusTick(), m.fetchStatus())

	case statusMsg:
		return m.applyStatus(msg), nil

	case runResultMsg:
		if msg.err != nil {
			m.logger.Warn("run submission failed", "scenario", msg.scenario, "err", msg.err)
			m.notifications.Add("Run rejected", msg.err.Error(), LevelWarning)
			return m, nil
		}
		m.notifications.Add(
			"Run accepted",
			fmt.Sprintf("Scenario %q queued as %s at position %d.", msg.scenario, msg.accepted.RunID, msg.accepted.Position),
			LevelSuccess,
		)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) applyStatus(msg statusMsg) Model {
	if msg.err != nil {
		if !m.statusDown {
			m.notifications.Add("Backend unreachable", msg.err.Error(), LevelWarning)
		}
		m.statusDown = true
		return m
	}
	if m.statusDown {
		m.notifications.Add("Backend recovered", "Simulation status is flowing again.", LevelSuccess)
	}
	m.statusDown = false
	m.statusKnown = true
	m.status = msg.status
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Command screen owns most keys for text entry.
	if m.screen == ScreenCommand {
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.screen = ScreenLanding
			m.promptInput = ""
			return m, nil
		case "enter":
			scenario := strings.TrimSpace(m.promptInput)
			m.promptInput = ""
			if scenario == "" {
				return m, nil
			}
			return m, m.submitRun(scenario)
		case "backspace":
			if len(m.promptInput) > 0 {
				m.promptInput = m.promptInput[:len(m.promptInput)-1]
			}
			return m, nil
		default:
			if len(msg.Runes) > 0 {
				m.promptInput += string(msg.Runes)
			}
			return m, nil
		}
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "t":
		theme.FromContext(m.ctx).Toggle()
		return m, nil
	case "n":
		m.screen = ScreenNotifications
		return m, nil
	case ":":
		m.screen = ScreenCommand
		return m, nil
	case "esc":
		m.screen = ScreenLanding
		return m, nil
	}

	if m.screen == ScreenNotifications {
		switch key {
		case "j", "down":
			m.notifications.MoveCursor(1)
		case "k", "up":
			m.notifications.MoveCursor(-1)
		case "r":
			m.notifications.MarkSelectedRead()
		case "a":
			m.notifications.MarkAllRead()
		case "x":
			m.notifications.DismissSelected()
		}
	}

	return m, nil
}

func (m Model) View() string {
	bridge := theme.FromContext(m.ctx)
	bundle := bridge.Surface().Bundle()

	sections := []string{m.renderHeader(bridge, bundle)}

	switch m.screen {
	case ScreenNotifications:
		sections = append(sections, m.notifications.View(bundle))
	case ScreenCommand:
		sections = append(sections, bundle.Viewport.Render("Enter a scenario name and press ENTER to submit a run."))
	default:
		sections = append(sections, m.renderLandingScreen(bridge, bundle))
	}

	sections = append(sections, m.renderPrompt(bundle))
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader(bridge *theme.Bridge, bundle theme.Bundle) string {
	left := "LUMEN TERMINAL"
	badge := ""
	if unread := m.notifications.Unread(); unread > 0 {
		badge = fmt.Sprintf("  [%d unread]", unread)
	}

	statusText := "STATUS: [connecting]"
	switch {
	case m.statusDown:
		statusText = "STATUS: [backend down]"
	case m.statusKnown:
		statusText = fmt.Sprintf("STATUS: [%d active / %d queued] engine %s",
			m.status.ActiveRuns, m.status.QueuedRuns, m.status.EngineVersion)
	}

	line := fmt.Sprintf("%s%s  //  theme: %s  //  %s", left, badge, bridge.Theme(), statusText)
	return bundle.Header.Width(max(m.width, len(line))).Render(line)
}

func (m Model) renderLandingScreen(bridge *theme.Bridge, bundle theme.Bundle) string {
	content := renderLanding(bridge.Theme(), m.width)
	contentHeight := lipgloss.Height(content)

	// Fill the leftover rows with the shimmer field.
	fill := m.height - contentHeight - 4
	if fill > 0 {
		content += "\n" + m.background.Render(m.width, fill, bundle)
	}
	return content
}

func (m Model) renderPrompt(bundle theme.Bundle) string {
	if m.screen != ScreenCommand {
		return bundle.Prompt.Render(promptPrefix + "[n]otifications  [:]command  [t]heme  [q]uit")
	}
	return bundle.Prompt.Render(promptPrefix + m.promptInput + "█")
}

func (m Model) fetchStatus() tea.Cmd {
	sim := m.sim
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, statusRequestTimeout)
		defer cancel()
		status, err := sim.Status(ctx)
		return statusMsg{status: status, err: err}
	}
}

func (m Model) submitRun(scenario string) tea.Cmd {
	sim := m.sim
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, statusRequestTimeout)
		defer cancel()
		accepted, err := sim.SubmitRun(ctx, simclient.RunRequest{Scenario: scenario})
		if err != nil && errors.Is(err, context.Canceled) {
			// Session teardown; nothing to report.
			return nil
		}
		return runResultMsg{scenario: scenario, accepted: accepted, err: err}
	}
}

func backgroundTick() tea.Cmd {
	return tea.Tick(backgroundFrameInterval, func(time.Time) tea.Msg { return backgroundTickMsg{} })
}

func statusTick() tea.Cmd {
	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg { return statusTickMsg{} })
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
