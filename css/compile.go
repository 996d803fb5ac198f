package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// CompileOptions controls how author stylesheet is turned into final CSS.
type CompileOptions struct {
	// Compress drops comments and all optional whitespace between rules.
	Compress bool
	// Prefix adds vendor prefixed variants of declarations.
	Prefix bool
	// Scope, when not empty, is prepended to every selector outside of
	// keyframes as a descendant combinator.
	Scope string
}

// Compiler re-serializes stylesheets through tdewolff CSS grammar parser,
// normalizing whitespace, lower casing property and at-rule names and
// dropping declarations the parser could not make sense of.
type Compiler struct {
	log      *zap.Logger
	prefixer *Prefixer
}

// NewCompiler creates a new CSS compiler.
func NewCompiler(log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{log: log.Named("css-compiler"), prefixer: NewPrefixer()}
}

// Compiled is the result of compilation.
type Compiled struct {
	CSS      string
	Warnings []string // parse errors, offending constructs were skipped
}

// Compile compiles CSS text. The optional source parameter identifies what's
// being compiled (for debug logging). Parse errors do not stop compilation,
// they are collected as warnings. Error is returned only when input could
// not be read.
func (c *Compiler) Compile(data []byte, opts CompileOptions, source ...string) (*Compiled, error) {
	if len(source) > 0 && source[0] != "" {
		c.log.Debug("Compiling CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)), zap.Bool("compress", opts.Compress), zap.Bool("prefix", opts.Prefix))
	}

	w := &cssWriter{compress: opts.Compress}
	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var (
		warnings []string
		atRules  []string // enclosing block at-rules
	)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			err := parser.Err()
			if errors.Is(err, io.EOF) {
				return &Compiled{CSS: w.String(), Warnings: warnings}, nil
			}
			if !parser.HasParseError() {
				return nil, fmt.Errorf("unable to read stylesheet: %w", err)
			}
			c.log.Debug("CSS parse error, skipping", zap.Error(err))
			warnings = append(warnings, err.Error())

		case css.CommentGrammar:
			if !opts.Compress {
				w.write(string(data))
				w.newline()
			}

		case css.AtRuleGrammar:
			w.write(string(data))
			w.prelude(parser.Values())
			w.write(";")
			w.newline()

		case css.BeginAtRuleGrammar:
			atRules = append(atRules, string(data))
			w.write(string(data))
			w.prelude(parser.Values())
			w.write("{")

		case css.EndAtRuleGrammar:
			if len(atRules) > 0 {
				atRules = atRules[:len(atRules)-1]
			}
			w.write("}")
			if len(atRules) == 0 {
				w.newline()
			}

		case css.BeginRulesetGrammar:
			selectors := splitSelectors(parser.Values())
			if opts.Scope != "" && !insideKeyframes(atRules) {
				for i, sel := range selectors {
					selectors[i] = scopeSelector(opts.Scope, sel)
				}
			}
			w.write(strings.Join(selectors, ","))
			w.write("{")

		case css.EndRulesetGrammar:
			w.write("}")
			if len(atRules) == 0 {
				w.newline()
			}

		case css.DeclarationGrammar:
			value := tokensString(parser.Values())
			decls := []Declaration{{Property: string(data), Value: value}}
			if opts.Prefix {
				decls = c.prefixer.Prefix(string(data), value)
			}
			for _, d := range decls {
				w.write(d.Property)
				w.write(":")
				w.write(d.Value)
				w.write(";")
			}

		case css.CustomPropertyGrammar:
			value := strings.TrimSpace(tokensString(parser.Values()))
			if hasBraces(value) {
				c.log.Debug("Custom property value with block, skipping", zap.ByteString("property", data))
				warnings = append(warnings, fmt.Sprintf("custom property %s: blocks in values are not supported", data))
				continue
			}
			w.write(string(data))
			w.write(":")
			w.write(value)
			w.write(";")

		case css.TokenGrammar:
			// content of unknown at-rules and stray CDO/CDC tokens
			w.write(string(data))
		}
	}
}

// cssWriter accumulates compiled output.
type cssWriter struct {
	strings.Builder
	compress bool
}

func (w *cssWriter) write(s string) {
	w.WriteString(s)
}

func (w *cssWriter) tokens(values []css.Token) {
	for _, t := range values {
		w.Write(t.Data)
	}
}

// prelude writes at-rule prelude separated from the rule name by a single
// space.
func (w *cssWriter) prelude(values []css.Token) {
	for len(values) > 0 && values[0].TokenType == css.WhitespaceToken {
		values = values[1:]
	}
	for len(values) > 0 && values[len(values)-1].TokenType == css.WhitespaceToken {
		values = values[:len(values)-1]
	}
	if len(values) == 0 {
		return
	}
	w.WriteByte(' ')
	w.tokens(values)
}

func (w *cssWriter) newline() {
	if !w.compress {
		w.WriteByte('\n')
	}
}

func tokensString(values []css.Token) string {
	var sb strings.Builder
	for _, t := range values {
		sb.Write(t.Data)
	}
	return sb.String()
}

// hasBraces reports curly braces outside of string literals.
func hasBraces(v string) bool {
	var quote byte
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '{' || c == '}':
			return true
		}
	}
	return false
}

// splitSelectors breaks selector list tokens on top level commas.
func splitSelectors(values []css.Token) []string {
	var (
		selectors []string
		sb        strings.Builder
		level     int
	)
	for _, t := range values {
		switch t.TokenType {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			level++
		case css.RightParenthesisToken, css.RightBracketToken:
			level--
		case css.CommaToken:
			if level == 0 {
				selectors = append(selectors, strings.TrimSpace(sb.String()))
				sb.Reset()
				continue
			}
		}
		sb.Write(t.Data)
	}
	if s := strings.TrimSpace(sb.String()); s != "" || len(selectors) == 0 {
		selectors = append(selectors, s)
	}
	return selectors
}

// scopeSelector prepends scope to the selector. Selectors addressing the
// document root are attached to the scope itself.
func scopeSelector(scope, sel string) string {
	switch {
	case sel == "":
		return scope
	case sel == ":root", sel == "html", sel == "body":
		return scope
	case strings.HasPrefix(sel, "&"):
		return scope + sel[1:]
	}
	return scope + " " + sel
}

func insideKeyframes(atRules []string) bool {
	for _, r := range atRules {
		if strings.HasSuffix(r, "keyframes") {
			return true
		}
	}
	return false
}
