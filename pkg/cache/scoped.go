package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The HTTP API uses it to give every tenant its own layout namespace.
//
// Example usage:
//
//	// Per-tenant layouts
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:acme:")
//
//	// Shared layouts
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for a saved layout.
func (k *ScopedKeyer) LayoutKey(name string) string {
	return k.prefix + k.inner.LayoutKey(name)
}

// PlanKey generates a prefixed key for a cached plan.
func (k *ScopedKeyer) PlanKey(layoutHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(layoutHash, opts)
}
