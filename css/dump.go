package css

import (
	"bytes"
	"errors"
	"io"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"stylefmt/utils/debug"
)

// Dump returns readable tree of the grammar stream produced by the parser for
// stylesheet. It exists solely for manual inspection of debug reports.
func Dump(data []byte) string {
	tw := debug.NewTreeWriter()
	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	depth := 0
	for {
		gt, _, text := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); !errors.Is(err, io.EOF) {
				tw.TextBlock(depth, "Error", err.Error())
				if parser.HasParseError() {
					continue
				}
			}
			tw.Line(0, "Total: %d lines", tw.Lines())
			return tw.String()
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			tw.TextBlock(depth, gt.String(), string(text)+tokensString(parser.Values()))
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth = max(depth-1, 0)
			tw.Line(depth, "%s", gt)
		default:
			tw.TextBlock(depth, gt.String(), string(text)+tokensString(parser.Values()))
		}
	}
}
