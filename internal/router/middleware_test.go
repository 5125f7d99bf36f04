package router

import (
	"log/slog"
	"testing"
)

func TestDefaultChainOrder(t *testing.T) {
	t.Parallel()

	chain := DefaultChain(slog.Default(), 4)
	want := []string{"session_logging", "max_sessions", "require_pty"}
	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i, name := range want {
		if chain[i].Name != name {
			t.Fatalf("chain[%d] = %q, want %q", i, chain[i].Name, name)
		}
		if chain[i].Middleware == nil {
			t.Fatalf("chain[%d] has nil middleware", i)
		}
	}
}

func TestMiddlewareFromDescriptorsPreservesOrder(t *testing.T) {
	t.Parallel()

	chain := DefaultChain(nil, 0)
	middleware := MiddlewareFromDescriptors(chain)
	if len(middleware) != len(chain) {
		t.Fatalf("middleware length = %d, want %d", len(middleware), len(chain))
	}
}
