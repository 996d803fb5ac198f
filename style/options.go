// Package style turns author stylesheets into text ready to be injected into
// a document, either as content of <style> element or as target of <link>.
package style

import "sync/atomic"

// Options controls processing of a single stylesheet.
type Options struct {
	HasSourceMap bool `yaml:"source_map"`
	IsCompressed bool `yaml:"compress"`
	IsMinified   bool `yaml:"minify"`
	IsPrefixed   bool `yaml:"prefix"`
}

// Partial is a set of locally requested options. Nil fields fall back to the
// global options.
type Partial struct {
	HasSourceMap *bool
	IsCompressed *bool
	IsMinified   *bool
	IsPrefixed   *bool
}

// DefaultOptions returns defaults for production or development environment.
func DefaultOptions(production bool) Options {
	return Options{
		HasSourceMap: !production,
		IsCompressed: true,
		IsMinified:   production,
		IsPrefixed:   true,
	}
}

var global atomic.Pointer[Options]

func init() {
	ResetGlobalOptions()
}

// GlobalOptions returns snapshot of current global options.
func GlobalOptions() Options {
	return *global.Load()
}

// SetGlobalOptions replaces global options with a copy of current ones
// patched by non nil fields of p. Readers never observe partial update.
func SetGlobalOptions(p Partial) {
	for {
		old := global.Load()
		updated := p.apply(*old)
		if global.CompareAndSwap(old, &updated) {
			return
		}
	}
}

// ReplaceGlobalOptions unconditionally installs o as global options.
func ReplaceGlobalOptions(o Options) {
	global.Store(&o)
}

// ResetGlobalOptions restores development defaults.
func ResetGlobalOptions() {
	ReplaceGlobalOptions(DefaultOptions(false))
}

// Coalesce resolves local options against current global ones.
func Coalesce(local Partial) Options {
	return local.apply(GlobalOptions())
}

func (p Partial) apply(o Options) Options {
	if p.HasSourceMap != nil {
		o.HasSourceMap = *p.HasSourceMap
	}
	if p.IsCompressed != nil {
		o.IsCompressed = *p.IsCompressed
	}
	if p.IsMinified != nil {
		o.IsMinified = *p.IsMinified
	}
	if p.IsPrefixed != nil {
		o.IsPrefixed = *p.IsPrefixed
	}
	return o
}

// Bool is a helper to fill Partial fields.
func Bool(v bool) *bool {
	return &v
}
