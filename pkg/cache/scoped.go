package cache

import "strings"

// ScopedKeyer namespaces the keys of another Keyer so several deployments
// can share one Redis. The scope goes right after the kind, so
// "layout:<hash>" becomes "layout:<scope>:<hash>" and the kind stays first.
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer wraps inner (the DefaultKeyer when nil). A trailing colon
// on scope is optional; an empty scope returns inner unchanged.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	scope = strings.TrimSuffix(scope, ":")
	if scope == "" {
		return inner
	}
	return &ScopedKeyer{inner: inner, scope: scope}
}

// LayoutKey implements [Keyer].
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.scoped(k.inner.LayoutKey(graphHash, opts))
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.scoped(k.inner.ArtifactKey(layoutHash, opts))
}

func (k *ScopedKeyer) scoped(key string) string {
	kind, rest, ok := strings.Cut(key, ":")
	if !ok {
		return k.scope + ":" + key
	}
	return kind + ":" + k.scope + ":" + rest
}
