// Package format implements "format" command: stylesheets found in a file,
// directory or zip archive are compiled, then beautified or minified and
// written as CSS or HTML tags.
package format

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gosimple/slug"
	fixzip "github.com/hidez8891/zip"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/encoding/ianaindex"

	"stylefmt/archive"
	"stylefmt/config"
	"stylefmt/css"
	"stylefmt/state"
	"stylefmt/style"
)

// Flags returns command line flags understood by Run.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "to", Value: config.OutputModeCss.String(),
			Usage: "output `TYPE` (supported types: " + strings.Join(config.OutputModeNames(), ", ") + ")"},
		&cli.BoolFlag{Name: "minify", Aliases: []string{"m"}, Usage: "produce minified output instead of beautified one"},
		&cli.BoolFlag{Name: "no-prefix", Usage: "do not add vendor prefixed declarations"},
		&cli.StringFlag{Name: "indent", Usage: "`STRING` of spaces and tabs used for one level of indentation"},
		&cli.BoolFlag{Name: "autosemicolon", Usage: "insert missing semicolon before closing brace"},
		&cli.BoolFlag{Name: "brace-newline", Usage: "put opening brace on its own line"},
		&cli.StringFlag{Name: "scope", Usage: "scope all rules under `SELECTOR`"},
		&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "when producing output do not keep input directory structure"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"},
		&cli.StringFlag{Name: "force-zip-cp",
			Usage: "Force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)"},
	}
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("format")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	// empty destination means STDOUT for single file and working directory
	// otherwise, decided when we know what source is
	dst := cmd.Args().Get(1)
	if len(dst) > 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	applyFlags(cmd, &env.Cfg.Format, log)
	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	style.ReplaceGlobalOptions(env.Cfg.Format.Processing)

	f := newFormatter(env, log, os.Stdout)

	// keep console quiet when result may go to STDOUT
	lvl := zapcore.InfoLevel
	if len(dst) == 0 {
		lvl = zapcore.DebugLevel
	}
	log.Log(lvl, "Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("output", f.mode))
	defer func(start time.Time) {
		log.Log(lvl, "Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return f.process(ctx, src, dst)
}

// applyFlags superimposes command line flags on top of loaded configuration.
func applyFlags(cmd *cli.Command, cfg *config.FormatConfig, log *zap.Logger) {
	if cmd.IsSet("to") {
		mode, err := config.ParseOutputMode(cmd.String("to"))
		if err != nil {
			log.Warn("Unknown output requested, keeping configured one", zap.Stringer("output", cfg.Output), zap.Error(err))
		} else {
			cfg.Output = mode
		}
	}
	if cmd.IsSet("minify") {
		cfg.Processing.IsMinified = cmd.Bool("minify")
	}
	if cmd.IsSet("no-prefix") {
		cfg.Processing.IsPrefixed = !cmd.Bool("no-prefix")
	}
	if cmd.IsSet("indent") {
		if indent := cmd.String("indent"); strings.Trim(indent, " \t") == "" {
			cfg.Layout.Indent = indent
		} else {
			log.Warn("Indentation may only contain spaces and tabs, keeping configured one", zap.String("indent", indent))
		}
	}
	if cmd.IsSet("autosemicolon") {
		cfg.Layout.AutoSemicolon = cmd.Bool("autosemicolon")
	}
	if cmd.IsSet("brace-newline") {
		cfg.Layout.BraceNewLine = cmd.Bool("brace-newline")
	}
	if cmd.IsSet("scope") {
		cfg.Scope = cmd.String("scope")
	}
}

type formatter struct {
	env      *state.LocalEnv
	log      *zap.Logger
	renderer *style.Renderer
	// results seen so far, used to point out duplicates
	produced *style.Registry
	mode     config.OutputMode
	stdout   io.Writer
}

func newFormatter(env *state.LocalEnv, log *zap.Logger, stdout io.Writer) *formatter {
	mode := env.Cfg.Format.Output
	if mode == config.OutputModeStyle && env.Cfg.Format.Processing.HasSourceMap {
		mode = config.OutputModeLink
	}
	return &formatter{
		env:      env,
		log:      log,
		renderer: env.Renderer(),
		produced: style.NewRegistry(),
		mode:     mode,
		stdout:   stdout,
	}
}

// process determines the input type (directory, archive, or single file) and
// processes it accordingly.
func (f *formatter) process(ctx context.Context, src, dst string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if dst, err = destinationDir(dst); err != nil {
				return err
			}
			f.storeSource(head)
			if err := f.processDir(ctx, head, dst); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			return nil
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := archive.IsArchive(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			if dst, err = destinationDir(dst); err != nil {
				return err
			}
			f.storeSource(head)
			// we need to look inside to see if path makes sense
			tail = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if err := f.processArchive(ctx, head, tail, "", filepath.Base(head), dst); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		// explicitly named file is processed regardless of its extension
		f.storeSource(head)
		file, err := os.Open(head)
		if err != nil {
			return err
		}
		defer file.Close()
		return f.processStylesheet(ctx, file, filepath.Base(head), filepath.Base(head), dst)
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// storeSource puts snapshot of the input into debug report.
func (f *formatter) storeSource(path string) {
	if err := f.env.Rpt.StoreCopy("source/"+filepath.Base(path), path); err != nil {
		f.log.Warn("Unable to store source in the debug report", zap.String("path", path), zap.Error(err))
	}
}

func destinationDir(dst string) (string, error) {
	if len(dst) > 0 {
		return dst, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("unable to get working directory: %w", err)
	}
	return wd, nil
}

// processDir walks directory tree finding stylesheets and archives and
// processes them. Failures of individual files do not stop processing and
// are returned together.
func (f *formatter) processDir(ctx context.Context, dir, dst string) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			f.log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	var errs error
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			f.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := archive.IsArchive(path)
		if err != nil {
			f.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			if err := f.processArchive(ctx, path, "", filepath.Dir(rel), rel, dst); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", rel, err))
			}
			return nil
		}

		if !f.env.Cfg.Format.HasExtension(path) {
			f.log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			return nil
		}

		count++

		file, err := os.Open(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		defer file.Close()

		if err := f.processStylesheet(ctx, file, rel, rel, dst); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", rel, err))
		}
		return nil
	})
	return multierr.Append(err, errs)
}

// processArchive walks all files inside archive, finds stylesheets under
// "pathIn" and processes them. "pathOut" is archive location relative to
// processed directory, "origin" is archive name as it appears in the debug
// report.
func (f *formatter) processArchive(ctx context.Context, path, pathIn, pathOut, origin, dst string) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			f.log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	var errs error
	err = archive.Walk(ctx, path, pathIn, func(arc string, file *fixzip.File) error {
		name := f.archiveName(file)
		if !f.env.Cfg.Format.HasExtension(name) {
			f.log.Debug("Skipping file, not recognized as stylesheet", zap.String("archive", arc), zap.String("file", name))
			return nil
		}

		count++

		r, err := file.Open()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			return nil
		}
		defer r.Close()

		src := filepath.Join(pathOut, filepath.FromSlash(name))
		if err := f.processStylesheet(ctx, r, src, filepath.Join(origin, filepath.FromSlash(name)), dst); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return nil
	})
	return multierr.Append(err, errs)
}

// archiveName returns name of the file in archive, converted from forced code
// page when requested.
func (f *formatter) archiveName(file *fixzip.File) string {
	name, cp := file.Name, f.env.CodePage
	if cp == nil || !file.NonUTF8 {
		return name
	}
	n, err := cp.NewDecoder().String(name)
	if err != nil {
		cs, _ := ianaindex.IANA.Name(cp)
		f.log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", cs), zap.String("path", name), zap.Error(err))
		return name
	}
	return n
}

// processStylesheet formats single stylesheet. "src" is the source path
// relative to the original path, for a file named directly it is just base
// file name. "origin" names the stylesheet in the debug report, stylesheets
// from archives keep archive name in it so it is unique for the run. Empty
// "dst" sends result to STDOUT.
func (f *formatter) processStylesheet(ctx context.Context, r io.Reader, src, origin, dst string) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := f.log.With(zap.String("file", src))

	var outputName string
	log.Debug("Formatting starting")
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Formatting ended with panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("formatting panic: %v", r)
			return
		}
		log.Debug("Formatting completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
	}(time.Now())

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}

	text, enc, err := decode(data)
	if err != nil {
		if len(text) == 0 {
			return err
		}
		log.Warn("Stylesheet encoding is not known, assuming UTF-8", zap.Error(err))
	} else if enc != "utf-8" {
		log.Debug("Stylesheet converted to UTF-8", zap.String("charset", enc))
	}

	if f.env.Rpt != nil {
		f.env.Rpt.StoreData("grammar/"+filepath.ToSlash(origin)+".txt", []byte(css.Dump([]byte(text))))
	}

	out, err := f.renderer.WithLogger(log).Rendered(text, style.Partial{})
	if err != nil {
		return err
	}
	if out, err = f.wrap(src, out); err != nil {
		return err
	}

	if _, ok := f.produced.CreateID(src, out); !ok {
		log.Info("Identical result was already produced for another stylesheet")
	}

	if len(dst) == 0 {
		outputName = "STDOUT"
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if _, err := io.WriteString(f.stdout, out); err != nil {
			return fmt.Errorf("unable to write result: %w", err)
		}
		f.env.Rpt.StoreData("result/"+filepath.ToSlash(origin), []byte(out))
		return nil
	}

	outputName = buildOutputPath(src, dst, f.mode, f.env)
	if err := f.prepareOutput(outputName, log); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, []byte(out), 0644); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	f.env.Rpt.Store("result/"+filepath.ToSlash(origin), outputName)
	return nil
}

// prepareOutput makes sure output file can be written.
func (f *formatter) prepareOutput(outputName string, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !f.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("output", outputName))
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// wrap turns stylesheet into HTML element for tag output modes.
func (f *formatter) wrap(src, text string) (string, error) {
	id := slug.Make(sourceBase(src))
	switch f.mode {
	case config.OutputModeStyle:
		return style.Tag(id, text, style.TagModeStyle, nil)
	case config.OutputModeLink:
		return style.Tag(id, text, style.TagModeLink, f.env.Links)
	default:
		return text, nil
	}
}
