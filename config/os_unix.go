//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

const reservedFileNameChars = "/:"

func trimFileNameSuffix(name string) string {
	return name
}

// EnableColorOutput reports whether log lines written to stream may carry
// color sequences.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
