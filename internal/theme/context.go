package theme

import "context"

type bridgeContextKey struct{}

// NewContext returns a context carrying the bridge. This establishes the
// scope inside which FromContext may be called.
func NewContext(ctx context.Context, b *Bridge) context.Context {
	return context.WithValue(ctx, bridgeContextKey{}, b)
}

// FromContext returns the bridge installed by NewContext. Calling it
// outside an established scope is a programming error and panics rather
// than handing back a nil bridge.
func FromContext(ctx context.Context) *Bridge {
	b, ok := ctx.Value(bridgeContextKey{}).(*Bridge)
	if !ok {
		panic("theme: FromContext called outside a bridge scope")
	}
	return b
}

// BridgeFromContext is the non-panicking variant for callers that can
// degrade gracefully.
func BridgeFromContext(ctx context.Context) (*Bridge, bool) {
	b, ok := ctx.Value(bridgeContextKey{}).(*Bridge)
	return b, ok
}
