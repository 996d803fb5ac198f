package css_test

import (
	"testing"

	"stylefmt/css"
)

func TestMinify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name: "whitespace and comments",
			input: `  .a {
  color : red ;
}
/* comment */
.b , .c { margin: 0 }  `,
			want: ".a{color:red}.b,.c{margin:0}",
		},
		{
			name:  "important",
			input: `.a{color:red   !important}`,
			want:  ".a{color:red!important}",
		},
		{
			name:  "hex colors",
			input: `.a{color:#FFFFFF;background:#aabbcd;border-color:#112233}`,
			want:  ".a{color:#FFF;background:#aabbcd;border-color:#123}",
		},
		{
			name:  "legacy filter colors stay long",
			input: `.a{filter:progid:DXImageTransform.Microsoft.gradient(startColorstr='#ffffff',endColorstr='#000000')}`,
			want:  ".a{filter:progid:DXImageTransform.Microsoft.gradient(startColorstr='#ffffff',endColorstr='#000000')}",
		},
		{
			name:  "four equal values",
			input: `.a{margin:1px 1px 1px 1px}`,
			want:  ".a{margin:1px}",
		},
		{
			name:  "two pairs",
			input: `.a{padding:1em 2em 1em 2em}`,
			want:  ".a{padding:1em 2em}",
		},
		{
			name:  "run after non matching value",
			input: `.a{x:1px 2px 2px 2px 2px}`,
			want:  ".a{x:1px 2px}",
		},
		{
			name:  "zero px",
			input: `.a{margin:0px;padding:1px 0px}`,
			want:  ".a{margin:0;padding:1px 0}",
		},
		{
			name:  "combined",
			input: ".a {\n  color : #FFFFFF ;\n  margin: 1px 1px 1px 1px;\n}\n/* c */\n.b { padding: 0px 2px 0px 2px !important; }",
			want:  ".a{color:#FFF;margin:1px}.b{padding:0 2px!important}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := css.Minify(tt.input); got != tt.want {
				t.Errorf("Minify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMinify_BeautifyRoundTrip(t *testing.T) {
	in := ".a {\n  color: red;\n}\n\n.b {\n  margin: 0 auto;\n}"
	got := css.Beautify(css.Minify(in), css.BeautifyOptions{AutoSemicolon: true, Indent: "  "})
	if got != in {
		t.Errorf("got %q, want %q", got, in)
	}
}
