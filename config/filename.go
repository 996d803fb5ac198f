package config

import "strings"

// unnamedStylesheet replaces output names left empty after cleanup.
const unnamedStylesheet = "unnamed-stylesheet"

// CleanFileName removes characters the platform does not allow in file names.
// Leading dots and spaces are dropped as well so formatted stylesheet never
// ends up hidden or named "..".
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(reservedFileNameChars, sym) {
			return -1
		}
		return sym
	}, in)
	out = trimFileNameSuffix(strings.TrimLeft(out, ". "))
	if len(out) == 0 {
		out = unnamedStylesheet
	}
	return out
}
