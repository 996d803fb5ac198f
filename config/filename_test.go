package config

import "testing"

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"theme.css", "theme.css"},
		{"a/b.css", "ab.css"},
		{"a:b.css", "ab.css"},
		{".hidden.css", "hidden.css"},
		{" . .x.css", "x.css"},
		{"..", unnamedStylesheet},
		{"", unnamedStylesheet},
		{"/", unnamedStylesheet},
		{"nul\x00.css", "nul.css"},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
