// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"stylefmt/config"
	"stylefmt/style"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by format subcommand
	NoDirs    bool
	Overwrite bool
	CodePage  encoding.Encoding
	Links     *style.LinkCache

	// used by hash subcommand
	Hasher *style.Hasher

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Links:  &style.LinkCache{},
		Hasher: &style.Hasher{},
		start:  time.Now(),
	}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Renderer returns stylesheet renderer with layout and scope from loaded
// configuration.
func (e *LocalEnv) Renderer() *style.Renderer {
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := style.NewRenderer(log)
	if e.Cfg == nil {
		return r
	}
	return r.WithLayout(e.Cfg.Format.Layout.BeautifyOptions()).WithScope(e.Cfg.Format.Scope)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
}
