package style

import (
	"fmt"

	"go.uber.org/zap"

	"stylefmt/css"
)

// BeautifyDefaults is the layout used for human readable output.
var BeautifyDefaults = func() css.BeautifyOptions {
	o := css.DefaultBeautifyOptions()
	o.AutoSemicolon = true
	return o
}()

// Renderer produces final stylesheet text.
type Renderer struct {
	log      *zap.Logger
	compiler *css.Compiler
	layout   css.BeautifyOptions
	scope    string
}

// NewRenderer creates renderer using BeautifyDefaults for readable output.
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		log:      log.Named("style"),
		compiler: css.NewCompiler(log),
		layout:   BeautifyDefaults,
	}
}

// WithLayout returns a copy of renderer using different beautifier options.
func (r *Renderer) WithLayout(layout css.BeautifyOptions) *Renderer {
	n := *r
	n.layout = layout
	return &n
}

// WithLogger returns a copy of renderer reporting through log.
func (r *Renderer) WithLogger(log *zap.Logger) *Renderer {
	n := *r
	n.log = log.Named("style")
	return &n
}

// WithScope returns a copy of renderer which scopes all selectors under
// selector.
func (r *Renderer) WithScope(selector string) *Renderer {
	n := *r
	n.scope = selector
	return &n
}

// Processed compiles raw stylesheet according to options. Parse errors are
// logged and offending rules skipped.
func (r *Renderer) Processed(raw string, local Partial) (string, error) {
	return r.processed(raw, Coalesce(local))
}

func (r *Renderer) processed(raw string, opts Options) (string, error) {
	out, err := r.compiler.Compile([]byte(raw), css.CompileOptions{
		Compress: opts.IsCompressed,
		Prefix:   opts.IsPrefixed,
		Scope:    r.scope,
	})
	if err != nil {
		return "", fmt.Errorf("unable to compile stylesheet: %w", err)
	}
	if len(out.Warnings) > 0 {
		r.log.Warn("Stylesheet has errors, some rules were skipped", zap.Strings("errors", out.Warnings))
	}
	return out.CSS, nil
}

// Rendered returns stylesheet ready for injection: minified when requested,
// beautified otherwise.
func (r *Renderer) Rendered(raw string, local Partial) (string, error) {
	opts := Coalesce(local)
	processed, err := r.processed(raw, opts)
	if err != nil {
		return "", err
	}
	if opts.IsMinified {
		return css.Minify(processed), nil
	}
	return css.Beautify(processed, r.layout), nil
}
