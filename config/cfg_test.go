package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	f := cfg.Format
	if f.Layout.Indent != "  " || !f.Layout.AutoSemicolon || f.Layout.BraceNewLine {
		t.Errorf("unexpected default layout: %+v", f.Layout)
	}
	if !f.Processing.IsCompressed || !f.Processing.IsPrefixed || f.Processing.IsMinified || f.Processing.HasSourceMap {
		t.Errorf("unexpected default processing: %+v", f.Processing)
	}
	if f.Output != OutputModeCss {
		t.Errorf("Output = %v, want css", f.Output)
	}
	if len(f.Extensions) != 1 || f.Extensions[0] != ".css" {
		t.Errorf("Extensions = %v", f.Extensions)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
format:
  layout:
    indent: "\t"
    brace_newline: true
  processing:
    minify: true
  scope: "#app"
  output: link
  output_name_template: "{{ .SourceDir }}/{{ .SourceFile }}.min"
  extensions: [".css", ".scss"]
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	f := cfg.Format
	if f.Layout.Indent != "\t" || !f.Layout.BraceNewLine {
		t.Errorf("Layout = %+v", f.Layout)
	}
	// values absent in file keep defaults
	if !f.Layout.AutoSemicolon || !f.Processing.IsCompressed {
		t.Errorf("defaults were not preserved: %+v", f)
	}
	if !f.Processing.IsMinified {
		t.Error("Expected minify to be true")
	}
	if f.Output != OutputModeLink {
		t.Errorf("Output = %v, want link", f.Output)
	}
	if f.Scope != "#app" {
		t.Errorf("Scope = %q", f.Scope)
	}
	// template fields must not be expanded during loading
	if f.OutputNameTemplate != "{{ .SourceDir }}/{{ .SourceFile }}.min" {
		t.Errorf("OutputNameTemplate = %q", f.OutputNameTemplate)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nformat:\n  layout\n    indent: 2\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"wrong version", "version: 2\n"},
		{"unknown output", "version: 1\nformat:\n  output: pdf\n"},
		{"indent is not whitespace", "version: 1\nformat:\n  layout:\n    indent: \"--\"\n"},
		{"scope with braces", "version: 1\nformat:\n  scope: \"a{}\"\n"},
		{"bad extension", "version: 1\nformat:\n  extensions: [\"css\"]\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfiguration() expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	called := false
	option := func(*gencfg.ProcessingOptions) {
		called = true
	}
	if _, err := LoadConfiguration("", option); err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if !called {
		t.Error("processing option was not applied")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Format.Output = OutputModeStyle

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "output: style") {
		t.Errorf("Dump() does not use enum names:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Format.Output != OutputModeStyle || cfg2.Format.Layout != cfg.Format.Layout {
		t.Errorf("Format mismatch after dump/load: got %+v, want %+v", cfg2.Format, cfg.Format)
	}
}

func TestOutputMode(t *testing.T) {
	for _, name := range OutputModeNames() {
		m, err := ParseOutputMode(name)
		if err != nil {
			t.Fatalf("ParseOutputMode(%q) error = %v", name, err)
		}
		if m.String() != name {
			t.Errorf("String() = %q, want %q", m.String(), name)
		}
	}

	if _, err := ParseOutputMode("pdf"); !errors.Is(err, ErrInvalidOutputMode) {
		t.Errorf("ParseOutputMode(pdf) error = %v", err)
	}

	exts := map[OutputMode]string{
		OutputModeCss:   ".css",
		OutputModeStyle: ".html",
		OutputModeLink:  ".html",
	}
	for m, want := range exts {
		if got := m.Ext(); got != want {
			t.Errorf("%v.Ext() = %q, want %q", m, got, want)
		}
	}

	var holder struct {
		Mode OutputMode `yaml:"mode"`
	}
	if err := yaml.Unmarshal([]byte("mode: link"), &holder); err != nil || holder.Mode != OutputModeLink {
		t.Errorf("yaml decode = %v, %v", holder.Mode, err)
	}
}

func TestFormatConfig_HasExtension(t *testing.T) {
	f := FormatConfig{Extensions: []string{".css", ".SCSS"}}

	tests := []struct {
		name string
		want bool
	}{
		{"site.css", true},
		{"SITE.CSS", true},
		{"theme.scss", true},
		{"readme.md", false},
		{".css", false},
		{"css", false},
	}
	for _, tt := range tests {
		if got := f.HasExtension(tt.name); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLayoutConfig_BeautifyOptions(t *testing.T) {
	l := LayoutConfig{Indent: "\t", AutoSemicolon: true, BraceNewLine: true}
	got := l.BeautifyOptions()
	if got.Indent != "\t" || !got.AutoSemicolon || !got.BraceNewLine {
		t.Errorf("BeautifyOptions() = %+v", got)
	}
}

func TestLoadConfiguration_EmptyIndent(t *testing.T) {
	path := writeConfig(t, `version: 1
format:
  layout:
    indent: ""
`)
	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if got := cfg.Format.Layout.BeautifyOptions(); got.Indent != "" {
		t.Errorf("Indent = %q, want no indentation", got.Indent)
	}
}
