package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/dusk-indust/archparse/internal/grammar"
)

// LineCounts is the physical-line classification of a file. Every line falls
// into exactly one bucket.
type LineCounts struct {
	Total   uint32
	Code    uint32
	Comment uint32
	Blank   uint32
}

type lineClass int

const (
	classBlank lineClass = iota
	classCode
	classComment
)

// CountLines classifies each physical line of content using the comment
// and string delimiters in cs. A line holding any code is a code line, even
// when a comment opens or closes on it; only lines made up entirely of
// comment text and whitespace are comment lines. Content inside string
// literals is code, which keeps comment markers in strings from counting.
// A trailing newline does not start a new line.
func CountLines(content string, cs grammar.CommentSyntax) LineCounts {
	var counts LineCounts
	if content == "" {
		return counts
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	s := &lineScanner{cs: cs}
	for _, line := range lines {
		counts.Total++
		switch s.classify(strings.TrimSuffix(line, "\r")) {
		case classCode:
			counts.Code++
		case classComment:
			counts.Comment++
		default:
			counts.Blank++
		}
	}
	return counts
}

// lineScanner carries block comment depth and open multiline strings from
// one line to the next.
type lineScanner struct {
	cs    grammar.CommentSyntax
	depth int
	block grammar.BlockComment
	quote *grammar.Quote
}

func (s *lineScanner) classify(line string) lineClass {
	var code, comment bool

	for i := 0; i < len(line); {
		rest := line[i:]
		switch {
		case s.depth > 0:
			switch {
			case strings.HasPrefix(rest, s.block.Close):
				s.depth--
				comment = true
				i += len(s.block.Close)
			case s.cs.Nested && strings.HasPrefix(rest, s.block.Open):
				s.depth++
				comment = true
				i += len(s.block.Open)
			default:
				if !isSpace(line[i]) {
					comment = true
				}
				i++
			}

		case s.quote != nil:
			switch {
			case !s.quote.Raw && line[i] == '\\':
				code = true
				i += 2
			case strings.HasPrefix(rest, s.quote.Close):
				code = true
				i += len(s.quote.Close)
				s.quote = nil
			default:
				if !isSpace(line[i]) {
					code = true
				}
				i++
			}

		default:
			if isSpace(line[i]) {
				i++
				continue
			}
			if s.lineComment(rest) {
				comment = true
				i = len(line)
				continue
			}
			if b, ok := s.blockOpen(rest); ok {
				s.block, s.depth = b, 1
				comment = true
				i += len(b.Open)
				continue
			}
			code = true
			if n := s.charLiteral(rest); n > 0 {
				i += n
				continue
			}
			if q := s.quoteOpen(rest); q != nil {
				s.quote = q
				i += len(q.Open)
				continue
			}
			i++
		}
	}

	// Single-line literals cannot span lines; an unterminated one ends here.
	if s.quote != nil && !s.quote.Multiline {
		s.quote = nil
	}
	switch {
	case code:
		return classCode
	case comment:
		return classComment
	default:
		return classBlank
	}
}

// charLiteral returns the length of the character literal at the start of
// rest, or 0 when rest does not open one. 'x' and escapes such as '\n' or
// '\u{1F600}' are literals; a lifetime like 'a is not.
func (s *lineScanner) charLiteral(rest string) int {
	if !s.cs.CharLiterals || len(rest) < 3 || rest[0] != '\'' {
		return 0
	}
	if rest[1] == '\\' {
		// The escaped byte at index 2 cannot close the literal.
		for j := 3; j < len(rest) && j < maxCharEscape; j++ {
			if rest[j] == '\'' {
				return j + 1
			}
		}
		return 0
	}
	_, size := utf8.DecodeRuneInString(rest[1:])
	if 1+size < len(rest) && rest[1+size] == '\'' {
		return size + 2
	}
	return 0
}

// maxCharEscape bounds the search for the closing quote of an escaped
// character literal; '\u{10FFFF}' is the longest form.
const maxCharEscape = 12

func (s *lineScanner) lineComment(rest string) bool {
	for _, marker := range s.cs.Line {
		if strings.HasPrefix(rest, marker) {
			return true
		}
	}
	return false
}

func (s *lineScanner) blockOpen(rest string) (grammar.BlockComment, bool) {
	for _, b := range s.cs.Block {
		if strings.HasPrefix(rest, b.Open) {
			return b, true
		}
	}
	return grammar.BlockComment{}, false
}

func (s *lineScanner) quoteOpen(rest string) *grammar.Quote {
	for i := range s.cs.Quotes {
		if strings.HasPrefix(rest, s.cs.Quotes[i].Open) {
			return &s.cs.Quotes[i]
		}
	}
	return nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v'
}
