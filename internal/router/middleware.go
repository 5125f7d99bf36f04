// Package router assembles the wish middleware chain in a declarative form,
// so the runtime can report which middleware it started with.
package router

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
)

// Descriptor names one middleware in the chain.
type Descriptor struct {
	Name       string
	Middleware wish.Middleware
}

// DefaultChain wires the startup middleware chain in order: session logging,
// session limiting, then PTY enforcement.
func DefaultChain(logger *slog.Logger, maxSessions int) []Descriptor {
	if logger == nil {
		logger = slog.Default()
	}
	if maxSessions <= 0 {
		maxSessions = 16
	}
	return []Descriptor{
		{Name: "session_logging", Middleware: sessionLogging(logger)},
		{Name: "max_sessions", Middleware: maxSessionsLimit(logger, maxSessions)},
		{Name: "require_pty", Middleware: requirePTY(logger)},
	}
}

// MiddlewareFromDescriptors extracts the wish middleware in chain order.
func MiddlewareFromDescriptors(chain []Descriptor) []wish.Middleware {
	out := make([]wish.Middleware, 0, len(chain))
	for _, descriptor := range chain {
		out = append(out, descriptor.Middleware)
	}
	return out
}

func sessionLogging(logger *slog.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			started := time.Now()
			logger.Info("session opened",
				"user", s.User(),
				"remote", s.RemoteAddr().String(),
			)
			next(s)
			logger.Info("session closed",
				"user", s.User(),
				"remote", s.RemoteAddr().String(),
				"duration", time.Since(started).Round(time.Millisecond),
			)
		}
	}
}

func maxSessionsLimit(logger *slog.Logger, limit int) wish.Middleware {
	sem := make(chan struct{}, limit)
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
				next(s)
			default:
				logger.Warn("session limit reached",
					"limit", limit,
					"user", s.User(),
					"remote", s.RemoteAddr().String(),
				)
				_, _ = s.Write([]byte("server is at capacity, try again shortly\n"))
				_ = s.Exit(1)
			}
		}
	}
}

func requirePTY(logger *slog.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			_, _, active := s.Pty()
			if !active {
				logger.Warn("rejecting session without pty", "user", s.User())
				_, _ = s.Write([]byte("lumen requires an interactive terminal (ssh -t)\n"))
				_ = s.Exit(1)
				return
			}
			next(s)
		}
	}
}
