package grammar

// BlockComment is a pair of block comment delimiters.
type BlockComment struct {
	Open  string
	Close string
}

// Quote is a string literal delimiter pair.
type Quote struct {
	Open  string
	Close string
	// Multiline literals keep their state across physical lines.
	Multiline bool
	// Raw literals have no escape sequences.
	Raw bool
}

// CommentSyntax holds the delimiters a language uses for comments and for
// the string literals that can hide comment markers.
type CommentSyntax struct {
	Line  []string
	Block []BlockComment
	// Nested block comments track depth (Rust).
	Nested bool
	// Quotes are tried in order, so longer openers must come first.
	Quotes []Quote
	// CharLiterals marks ' as a character literal only where a complete
	// 'x' or '\..' follows, leaving lifetimes like 'a as code (Rust).
	CharLiterals bool
}

var (
	cBlock       = BlockComment{Open: "/*", Close: "*/"}
	doubleQuote  = Quote{Open: `"`, Close: `"`}
	singleQuote  = Quote{Open: `'`, Close: `'`}
	tripleDouble = Quote{Open: `"""`, Close: `"""`, Multiline: true}
	tripleSingle = Quote{Open: `'''`, Close: `'''`, Multiline: true}
)
