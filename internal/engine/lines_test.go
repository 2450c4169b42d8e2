package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dusk-indust/archparse/internal/grammar"
)

var (
	slashSyntax = grammar.CommentSyntax{
		Line:   []string{"//"},
		Block:  []grammar.BlockComment{{Open: "/*", Close: "*/"}},
		Quotes: []grammar.Quote{{Open: `"`, Close: `"`}, {Open: "`", Close: "`", Multiline: true, Raw: true}},
	}
	hashSyntax = grammar.CommentSyntax{
		Line: []string{"#"},
		Quotes: []grammar.Quote{
			{Open: `"""`, Close: `"""`, Multiline: true},
			{Open: `"`, Close: `"`},
		},
	}
	nestedSyntax = grammar.CommentSyntax{
		Line:   []string{"//"},
		Block:  []grammar.BlockComment{{Open: "/*", Close: "*/"}},
		Nested: true,
	}
)

func TestCountLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		syntax  grammar.CommentSyntax
		want    LineCounts
	}{
		{
			name:    "slash comment example",
			content: "a\n// c\n\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 3, Code: 1, Comment: 1, Blank: 1},
		},
		{
			name:    "empty",
			content: "",
			syntax:  slashSyntax,
			want:    LineCounts{},
		},
		{
			name:    "no trailing newline",
			content: "a\nb",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 2, Code: 2},
		},
		{
			name:    "crlf",
			content: "a\r\n\r\n// c\r\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 3, Code: 1, Comment: 1, Blank: 1},
		},
		{
			name:    "hash is a comment only where declared",
			content: "# heading\nx = 1\n",
			syntax:  hashSyntax,
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
		{
			name:    "slashes are code in a hash language",
			content: "// not a comment\n",
			syntax:  hashSyntax,
			want:    LineCounts{Total: 1, Code: 1},
		},
		{
			name:    "block comment spans lines",
			content: "/* one\n\n   two */\nx()\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 4, Code: 1, Comment: 2, Blank: 1},
		},
		{
			name:    "code then comment is code",
			content: "x := 1 // note\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 1, Code: 1},
		},
		{
			name:    "comment then code is code",
			content: "/* note */ x := 1\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 1, Code: 1},
		},
		{
			name:    "code after block comment close is code",
			content: "/* start\n*/ x()\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
		{
			name:    "code between comments is code",
			content: "/* a */ x /* b */\n/* a */ /* b */\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
		{
			name:    "whitespace inside block comment is blank",
			content: "/*\n   \n*/\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 3, Comment: 2, Blank: 1},
		},
		{
			name:    "marker inside string",
			content: "s := \"// not a comment\"\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 1, Code: 1},
		},
		{
			name:    "escaped quote keeps string open",
			content: "s := \"a\\\" // still string\"\n// real\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
		{
			name:    "raw multiline string hides markers",
			content: "s := `\n// inside\n`\n// outside\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 4, Code: 3, Comment: 1},
		},
		{
			name:    "unterminated single-line string ends at newline",
			content: "s := \"open\n// comment\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
		{
			name:    "triple-quoted docstring",
			content: "\"\"\"\n# not a comment\n\"\"\"\n# comment\n",
			syntax:  hashSyntax,
			want:    LineCounts{Total: 4, Code: 3, Comment: 1},
		},
		{
			name:    "nested block comment",
			content: "/* a /* b */\nstill */\nx\n",
			syntax:  nestedSyntax,
			want:    LineCounts{Total: 3, Code: 1, Comment: 2},
		},
		{
			name:    "flat block comment closes at first close",
			content: "/* a /* b */\nx\n",
			syntax:  slashSyntax,
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountLines(tt.content, tt.syntax)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Total, got.Code+got.Comment+got.Blank)
		})
	}
}

func commentsOf(t *testing.T, name string) grammar.CommentSyntax {
	t.Helper()
	for _, a := range grammar.Builtin(grammar.Options{}) {
		if a.Info().Name == name {
			return a.Comments()
		}
	}
	t.Fatalf("no adapter named %s", name)
	return grammar.CommentSyntax{}
}

func TestCountLines_Rust(t *testing.T) {
	rust := commentsOf(t, "Rust")
	tests := []struct {
		name    string
		content string
		want    LineCounts
	}{
		{
			name:    "char literal holding a double quote",
			content: "let c = '\"';\n// real comment\nfn f() {}\n// another\n",
			want:    LineCounts{Total: 4, Code: 2, Comment: 2},
		},
		{
			name:    "byte char literal",
			content: "let b = b'\"';\n// real comment\n",
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
		{
			name:    "escaped char literals",
			content: "let q = '\\'';\nlet s = '\\\\';\nlet u = '\\u{1F600}';\n// real comment\n",
			want:    LineCounts{Total: 4, Code: 3, Comment: 1},
		},
		{
			name:    "lifetimes are not char literals",
			content: "fn f<'a>(x: &'a str) -> &'a str { x }\n// real comment\n",
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
		{
			name:    "raw string with inner quote",
			content: "let s = r#\"a \" b\"#;\n// real comment\n",
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
		{
			name:    "raw string ignores backslash",
			content: "let s = r\"C:\\\";\n// real comment\n",
			want:    LineCounts{Total: 2, Code: 1, Comment: 1},
		},
		{
			name:    "multiline raw string hides markers",
			content: "let s = br##\"\n// inside \"# still\n\"##;\n// outside\n",
			want:    LineCounts{Total: 4, Code: 3, Comment: 1},
		},
		{
			name:    "nested block comments",
			content: "/* a /* b */ c */ x\n/* a /* b */\n*/\n",
			want:    LineCounts{Total: 3, Code: 1, Comment: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountLines(tt.content, rust))
		})
	}
}
