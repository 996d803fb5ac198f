package css

import (
	"bytes"
	"strings"
	"unicode"
)

// BeautifyOptions controls layout of the beautified stylesheet. Zero value
// produces no indentation at all, use DefaultBeautifyOptions for the usual
// layout.
type BeautifyOptions struct {
	// AutoSemicolon adds missing ';' after the last declaration of a block.
	AutoSemicolon bool
	// Indent is a single indentation unit, repeated for every nesting level.
	Indent string
	// BraceNewLine puts opening brace on its own line instead of
	// appending it to the selector.
	BraceNewLine bool
}

const defaultIndent = "  "

// DefaultBeautifyOptions returns two spaces of indentation, no automatic
// semicolons and opening braces at the end of selector line.
func DefaultBeautifyOptions() BeautifyOptions {
	return BeautifyOptions{Indent: defaultIndent}
}

type beautifyState int

const (
	stateStart beautifyState = iota
	stateAtRule
	stateBlock
	stateSelector
	stateRuleset
	stateProperty
	stateSeparator
	stateExpression
	stateURL
)

// beautifier keeps state of a single Beautify call.
type beautifier struct {
	opts BeautifyOptions
	src  string
	pos  int

	ch   byte // current character
	next byte // character after current one, 0 at the end of input

	out     []byte   // pending text of the statement not yet closed
	blocks  []string // closed blocks in the order they were closed
	atStart int      // offset of '@' of the current at-rule in out

	state   beautifyState
	depth   int
	quote   byte
	comment bool
}

// Beautify reformats compiled (possibly minified) CSS into indented human
// readable text. Content of string literals, comments and url() values is
// preserved as is, only layout around it changes. Malformed input never
// causes an error, it is reformatted on best effort basis.
func Beautify(style string, opts BeautifyOptions) string {
	b := &beautifier{
		opts: opts,
		src:  strings.ReplaceAll(style, "\r\n", "\n"),
	}
	b.out = make([]byte, 0, len(b.src)+len(b.src)/4)
	b.run()

	var sb strings.Builder
	for _, blk := range b.blocks {
		sb.WriteString(blk)
	}
	sb.Write(b.out)
	return sb.String()
}

func (b *beautifier) run() {
	for b.pos < len(b.src) {
		b.ch = b.src[b.pos]
		b.next = byteAt(b.src, b.pos+1)
		b.pos++

		if b.quote != 0 {
			b.emit(b.ch)
			if b.ch == b.quote {
				b.quote = 0
			} else if b.ch == '\\' && b.next == b.quote {
				// escaped quote does not close the literal
				b.emit(b.next)
				b.pos++
			}
			continue
		}
		if b.comment {
			b.emit(b.ch)
			if b.ch == '*' && b.next == '/' {
				b.comment = false
				b.emit(b.next)
				b.pos++
			}
			continue
		}
		if isQuote(b.ch) {
			b.emit(b.ch)
			b.quote = b.ch
			continue
		}
		if b.ch == '/' && b.next == '*' {
			b.comment = true
			b.emit(b.ch, b.next)
			b.pos++
			continue
		}

		switch b.state {
		case stateStart:
			b.inStart()
		case stateAtRule:
			b.inAtRule()
		case stateBlock:
			b.inBlock()
		case stateSelector:
			b.inSelector()
		case stateRuleset:
			b.inRuleset()
		case stateProperty:
			b.inProperty()
		case stateSeparator:
			b.inSeparator()
		case stateExpression:
			b.inExpression()
		case stateURL:
			b.inURL()
		}
	}
}

func (b *beautifier) inStart() {
	if len(b.blocks) == 0 && len(b.out) == 0 && isWhitespace(b.ch) {
		return
	}
	// whitespace and control characters are copied, so are non-ASCII bytes
	if b.ch <= ' ' || b.ch >= 128 {
		b.emit(b.ch)
		return
	}
	if isName(b.ch) || b.ch == '@' {
		b.separate()
		if b.ch == '@' {
			b.atStart = len(b.out)
			b.state = stateAtRule
		} else {
			b.state = stateSelector
		}
		b.emit(b.ch)
		return
	}
	b.emit(b.ch)
}

func (b *beautifier) inAtRule() {
	switch b.ch {
	case ';':
		b.emit(b.ch)
		b.state = stateStart
	case '{':
		prelude := ""
		if b.atStart < len(b.out) {
			prelude = strings.TrimSpace(string(b.out[b.atStart:]))
		}
		b.openBlock()
		if prelude == "@font-face" {
			b.state = stateRuleset
		} else {
			b.state = stateBlock
		}
	default:
		b.emit(b.ch)
	}
}

func (b *beautifier) inBlock() {
	switch {
	case isName(b.ch):
		b.separate()
		b.indent()
		b.emit(b.ch)
		b.state = stateSelector
	case b.ch == '}':
		b.closeBlock()
		b.state = stateStart
	default:
		b.emit(b.ch)
	}
}

func (b *beautifier) inSelector() {
	switch b.ch {
	case '{':
		b.openBlock()
		b.state = stateRuleset
	case '}':
		b.closeBlock()
		b.state = stateStart
	default:
		b.emit(b.ch)
	}
}

func (b *beautifier) inRuleset() {
	switch {
	case b.ch == '}':
		b.closeRuleset()
	case b.ch == '\n':
		// no blank lines or trailing spaces between declarations
		b.trim()
		b.emit('\n')
	case !isWhitespace(b.ch):
		b.trim()
		b.emit('\n')
		b.indent()
		b.emit(b.ch)
		b.state = stateProperty
	default:
		b.emit(b.ch)
	}
}

func (b *beautifier) inProperty() {
	switch b.ch {
	case ':':
		b.trim()
		b.emit(':', ' ')
		b.state = stateExpression
		if isWhitespace(b.next) {
			b.state = stateSeparator
		}
	case '}':
		b.closeRuleset()
	default:
		b.emit(b.ch)
	}
}

func (b *beautifier) inSeparator() {
	if !isWhitespace(b.ch) {
		b.emit(b.ch)
		b.state = stateExpression
		return
	}
	// quote is handled before state dispatch, switch early so literal
	// lands in the expression
	if isQuote(b.next) {
		b.state = stateExpression
	}
}

func (b *beautifier) inExpression() {
	switch b.ch {
	case '}':
		b.closeRuleset()
	case ';':
		b.trim()
		b.emit(';', '\n')
		b.state = stateRuleset
	default:
		b.emit(b.ch)
		if b.ch == '(' && b.outAt(2) == 'l' && b.outAt(3) == 'r' && b.outAt(4) == 'u' {
			b.state = stateURL
		}
	}
}

func (b *beautifier) inURL() {
	if b.ch == ')' && b.outAt(1) != '\\' {
		b.emit(b.ch)
		b.state = stateExpression
		return
	}
	b.emit(b.ch)
}

// separate prepares pending text for a new selector or at-rule: exactly one
// blank line after a finished statement, no leaked indentation after a
// comment.
func (b *beautifier) separate() {
	trimmed := trimRightSpace(b.out)
	if len(trimmed) == 0 {
		if len(b.blocks) > 0 {
			b.out = append(b.out[:0], '\n', '\n')
		}
		return
	}
	if last := trimmed[len(trimmed)-1]; last == '}' || last == ';' {
		b.out = append(trimmed, '\n', '\n')
		return
	}
	for n := len(b.out); n > 0 && (b.out[n-1] == ' ' || b.out[n-1] == '\t'); n-- {
		b.out = b.out[:n-1]
	}
}

func (b *beautifier) openBlock() {
	b.trim()
	if b.opts.BraceNewLine {
		b.emit('\n')
		b.indent()
		b.emit('{')
	} else {
		b.emit(' ', '{')
	}
	if b.next != '\n' {
		b.emit('\n')
	}
	b.depth++
}

func (b *beautifier) closeBlock() {
	if b.depth > 0 {
		b.depth--
	}
	b.trim()
	if b.opts.AutoSemicolon && len(b.out) > 0 {
		if last := b.out[len(b.out)-1]; last != ';' && last != '{' {
			b.emit(';')
		}
	}
	b.emit('\n')
	b.indent()
	b.emit('}')
	b.blocks = append(b.blocks, string(b.out))
	b.out = b.out[:0]
}

// closeRuleset closes declaration block returning to the enclosing block if
// any.
func (b *beautifier) closeRuleset() {
	b.closeBlock()
	if b.depth > 0 {
		b.state = stateBlock
	} else {
		b.state = stateStart
	}
}

func (b *beautifier) emit(c ...byte) {
	b.out = append(b.out, c...)
}

func (b *beautifier) indent() {
	for range b.depth {
		b.out = append(b.out, b.opts.Indent...)
	}
}

func (b *beautifier) trim() {
	b.out = trimRightSpace(b.out)
}

// outAt returns n-th byte from the end of pending text (1 is the last one)
// or 0 when there is no such byte.
func (b *beautifier) outAt(n int) byte {
	if n <= 0 || n > len(b.out) {
		return 0
	}
	return b.out[len(b.out)-n]
}

func byteAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func trimRightSpace(s []byte) []byte {
	return bytes.TrimRightFunc(s, unicode.IsSpace)
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f'
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

// isName reports whether c may start a selector.
func isName(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		strings.IndexByte("-_*.:#[]", c) >= 0
}
