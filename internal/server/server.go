package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	wishtea "github.com/charmbracelet/wish/bubbletea"

	"lumen-terminal/internal/config"
	"lumen-terminal/internal/router"
	"lumen-terminal/internal/simclient"
	"lumen-terminal/internal/theme"
	"lumen-terminal/internal/tui"
)

const version = "dev"

// Runtime wires config + middleware + Wish server as a testable unit.
type Runtime struct {
	cfg           config.Config
	logger        *slog.Logger
	middlewareIDs []string
	server        *ssh.Server
}

// New builds the SSH runtime. Every session shares the one theme bridge:
// the terminal is a single rendered document, so a toggle in one session is
// the product's theme change, not a per-session preference.
func New(cfg config.Config, logger *slog.Logger, bridge *theme.Bridge, sim *simclient.Client, chain []router.Descriptor) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	address := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	teaHandler := func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := s.Pty()
		ctx := theme.NewContext(s.Context(), bridge)
		model := tui.NewModel(ctx, sim, logger, pty.Window.Width, pty.Window.Height)
		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}

	// Wish applies middleware so the last entry is outermost: bubbletea
	// goes first (innermost), the chain follows in reverse so its declared
	// order is the run order.
	middleware := []wish.Middleware{wishtea.Middleware(teaHandler)}
	chainMiddleware := router.MiddlewareFromDescriptors(chain)
	for i := len(chainMiddleware) - 1; i >= 0; i-- {
		middleware = append(middleware, chainMiddleware[i])
	}

	wishServer, err := wish.NewServer(
		wish.WithAddress(address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(middleware...),
	)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(chain)+1)
	ids = append(ids, "bubbletea")
	for _, descriptor := range chain {
		ids = append(ids, descriptor.Name)
	}

	return &Runtime{cfg: cfg, logger: logger, middlewareIDs: ids, server: wishServer}, nil
}

// MiddlewareIDs reports the middleware chain the runtime started with.
func (r *Runtime) MiddlewareIDs() []string {
	out := make([]string, len(r.middlewareIDs))
	copy(out, r.middlewareIDs)
	return out
}

// Address returns the configured listen address.
func (r *Runtime) Address() string {
	return r.server.Addr
}

// Run serves until ctx ends or an interrupt arrives, then shuts down.
func (r *Runtime) Run(ctx context.Context) error {
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-ctx.Done()
		_ = r.server.Shutdown(context.Background())
	}()

	r.logger.Info("startup",
		"version", version,
		"host", r.cfg.Host,
		"port", r.cfg.Port,
		"middleware", r.middlewareIDs,
		"host_key_path", r.cfg.HostKeyPath,
		"idle_timeout", r.cfg.IdleTimeout,
		"max_sessions", r.cfg.MaxSessions,
		"backend_url", r.cfg.BackendURL,
	)
	err := r.server.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) || err == nil {
		return nil
	}

	return err
}
