package cache

// ScopedKeyer prefixes every key of an inner Keyer. It backs the cache.scope
// config setting.
//
//	keyer := NewScopedKeyer(nil, "shop-api:")
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

// ModelKey generates a prefixed type model key.
func (k *ScopedKeyer) ModelKey(input string, opts ModelKeyOpts) string {
	return k.prefix + k.inner.ModelKey(input, opts)
}

// OverviewKey generates a prefixed overview key.
func (k *ScopedKeyer) OverviewKey(dotHash string, opts OverviewKeyOpts) string {
	return k.prefix + k.inner.OverviewKey(dotHash, opts)
}
