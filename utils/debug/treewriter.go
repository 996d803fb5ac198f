// Package debug has helpers producing human readable dumps for debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented lines, one level of depth is two spaces.
type TreeWriter struct {
	w     strings.Builder
	lines int
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

// Lines returns number of lines written so far.
func (tw *TreeWriter) Lines() int {
	return tw.lines
}

func (tw *TreeWriter) indent(depth int) {
	for range max(depth, 0) {
		tw.w.WriteString("  ")
	}
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
	tw.lines++
}

// TextBlock writes labeled value, non empty value is quoted so whitespace
// and control characters stay visible.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	if value != "" {
		value = strconv.Quote(value)
	}
	tw.Line(depth, "%s: %s", label, value)
}
