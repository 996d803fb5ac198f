package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"stylefmt/css"
)

func TestCompiler_Compile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  css.CompileOptions
		want  string
	}{
		{
			name:  "normalizes whitespace",
			input: ".a { color : red ; }\n\n.b,.c{margin:0 auto}",
			want:  ".a{color:red;}\n.b,.c{margin:0 auto;}\n",
		},
		{
			name:  "compress",
			input: "/* c */\n.a { color : red ; }\n\n.b,.c{margin:0 auto}",
			opts:  css.CompileOptions{Compress: true},
			want:  ".a{color:red;}.b,.c{margin:0 auto;}",
		},
		{
			name:  "keeps top level comments",
			input: "/* c */.a{}",
			want:  "/* c */\n.a{}\n",
		},
		{
			name:  "statement at-rule",
			input: `@import url(a.css);`,
			want:  "@import url(a.css);\n",
		},
		{
			name:  "media block",
			input: "@media screen { .a { color: red } }",
			want:  "@media screen{.a{color:red;}}\n",
		},
		{
			name:  "space between at-rule name and parenthesized prelude",
			input: "@media (max-width:100px){.a{color:red}}",
			want:  "@media (max-width:100px){.a{color:red;}}\n",
		},
		{
			name:  "space kept when compressed",
			input: "@media   (max-width:100px) {.a{color:red}}",
			opts:  css.CompileOptions{Compress: true},
			want:  "@media (max-width:100px){.a{color:red;}}",
		},
		{
			name:  "at-rule without prelude",
			input: "@font-face { font-family: X }",
			want:  "@font-face{font-family:X;}\n",
		},
		{
			name:  "custom property keeps inner spaces",
			input: ".a{--x: 1px  solid }",
			want:  ".a{--x:1px  solid;}\n",
		},
		{
			name:  "custom property",
			input: ".a{--x: 1px }",
			want:  ".a{--x:1px;}\n",
		},
		{
			name:  "lower cases property names",
			input: ".a{COLOR:Red}",
			want:  ".a{color:Red;}\n",
		},
		{
			name:  "scope",
			input: "@media screen{.a{color:red}}@keyframes k{from{opacity:0}}:root{--c:1}",
			opts:  css.CompileOptions{Scope: ".x"},
			want:  "@media screen{.x .a{color:red;}}\n@keyframes k{from{opacity:0;}}\n.x{--c:1;}\n",
		},
		{
			name:  "scope grouped selectors",
			input: ".a,.b{color:red}",
			opts:  css.CompileOptions{Scope: ".x", Compress: true},
			want:  ".x .a,.x .b{color:red;}",
		},
		{
			name:  "prefix",
			input: ".a{user-select:none;display:flex}",
			opts:  css.CompileOptions{Prefix: true, Compress: true},
			want:  ".a{-webkit-user-select:none;-moz-user-select:none;-ms-user-select:none;user-select:none;display:-webkit-box;display:-ms-flexbox;display:flex;}",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	c := css.NewCompiler(zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Compile([]byte(tt.input), tt.opts, tt.name)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if len(got.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", got.Warnings)
			}
			if got.CSS != tt.want {
				t.Errorf("Compile()\n got: %q\nwant: %q", got.CSS, tt.want)
			}
		})
	}
}

func TestCompiler_CustomPropertyWithBlock(t *testing.T) {
	c := css.NewCompiler(zaptest.NewLogger(t))
	got, err := c.Compile([]byte(".a{--x:{a:b};color:red}.b{--y:\"{\"}"), css.CompileOptions{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", got.Warnings)
	}
	if strings.Contains(got.CSS, "--x") || !strings.Contains(got.CSS, "color:red;") {
		t.Errorf("Compile() = %q", got.CSS)
	}
	// braces inside strings are fine
	if !strings.Contains(got.CSS, `--y:"{";`) {
		t.Errorf("quoted brace value lost: %q", got.CSS)
	}

	out := css.Beautify(got.CSS, css.DefaultBeautifyOptions())
	if strings.Count(out, "{") != strings.Count(out, "}")+strings.Count(out, `"{"`) {
		t.Errorf("unbalanced braces after beautify: %q", out)
	}
}

func TestCompiler_ParseErrorIsWarning(t *testing.T) {
	c := css.NewCompiler(nil)
	got, err := c.Compile([]byte(".a{color red;margin:0}"), css.CompileOptions{Compress: true})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", got.Warnings)
	}
	if !strings.Contains(got.CSS, "margin:0;") {
		t.Errorf("valid declaration lost after error: %q", got.CSS)
	}
	if strings.Contains(got.CSS, "color") {
		t.Errorf("invalid declaration kept: %q", got.CSS)
	}
}

func TestCompiler_BeautifiedOutput(t *testing.T) {
	c := css.NewCompiler(nil)
	compiled, err := c.Compile([]byte(".a{color:red}.b{margin:0}"), css.CompileOptions{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	got := css.Beautify(compiled.CSS, css.DefaultBeautifyOptions())
	want := ".a {\n  color: red;\n}\n\n.b {\n  margin: 0;\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrefixer_Prefix(t *testing.T) {
	p := css.NewPrefixer()

	tests := []struct {
		property, value string
		want            []css.Declaration
	}{
		{"color", "red", []css.Declaration{{Property: "color", Value: "red"}}},
		{"-webkit-appearance", "none", []css.Declaration{{Property: "-webkit-appearance", Value: "none"}}},
		{"appearance", "none", []css.Declaration{
			{Property: "-webkit-appearance", Value: "none"},
			{Property: "-moz-appearance", Value: "none"},
			{Property: "appearance", Value: "none"},
		}},
		{"display", "inline-flex!important", []css.Declaration{
			{Property: "display", Value: "-webkit-inline-box!important"},
			{Property: "display", Value: "-ms-inline-flexbox!important"},
			{Property: "display", Value: "inline-flex!important"},
		}},
		{"display", "block", []css.Declaration{{Property: "display", Value: "block"}}},
	}

	for _, tt := range tests {
		got := p.Prefix(tt.property, tt.value)
		if len(got) != len(tt.want) {
			t.Errorf("Prefix(%q, %q) = %v, want %v", tt.property, tt.value, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Prefix(%q, %q)[%d] = %v, want %v", tt.property, tt.value, i, got[i], tt.want[i])
			}
		}
	}
}
