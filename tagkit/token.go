package tagkit

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Buffer is the source text shared by every Token cut from it.
type Buffer struct {
	Text string
	File string // source file label
}

// Token is a tagged span [Start, End) of a Buffer.
//
// Start and End always index within Buf.Text.
type Token struct {
	Buf   *Buffer
	Start int
	End   int
	Tags  TagSet
	Line  int // one-based source line
	Char  int // one-based source column (in runes)
}

// Tokens is a lexer's working sequence.
type Tokens []Token

func (tok *Token) Content() string {
	if tok.Buf == nil {
		return ""
	}
	return tok.Buf.Text[tok.Start:tok.End]
}

func (tok *Token) File() string {
	if tok.Buf == nil {
		return ""
	}
	return tok.Buf.File
}

func (tok *Token) Len() int {
	return tok.End - tok.Start
}

func (tok Token) String() string {
	return fmt.Sprintf("%q (line %d, char %d in %s): %v", tok.Content(), tok.Line, tok.Char, tok.File(), tok.Tags)
}

// Tokenize emits one Token per character of text, each tagged with its own literal character and,
// if the character is whitespace, TagWhitespace.
//
// A zero-length sentinel tagged with TagSentinel and TagWhitespace is appended so that
// a routine looking one token ahead never runs off the end.
func Tokenize(text, file string) Tokens {
	buf := &Buffer{
		Text: text,
		File: file,
	}

	tokens := make(Tokens, 0, utf8.RuneCountInString(text)+1)
	line, char := 1, 1

	for i := 0; i < len(text); {
		r, width := utf8.DecodeRuneInString(text[i:])
		tok := Token{
			Buf:   buf,
			Start: i,
			End:   i + width,
			Line:  line,
			Char:  char,
		}
		i += width
		tok.Tags.Add(text[tok.Start:tok.End])
		if unicode.IsSpace(r) {
			tok.Tags.Add(TagWhitespace)
		}
		tokens = append(tokens, tok)

		char++
		if r == '\n' {
			line++
			char = 1
		}
	}

	sentinel := Token{
		Buf:   buf,
		Start: len(text),
		End:   len(text),
		Line:  line,
		Char:  char,
	}
	sentinel.Tags.Add(TagSentinel)
	sentinel.Tags.Add(TagWhitespace)

	return append(tokens, sentinel)
}

// MergeTokens folds a run of tokens into one whose content is the run's concatenated content.
// The result carries no tags and takes its position from run[0].
//
// When the run is a contiguous span of one Buffer, the result shares that Buffer.
// Otherwise the concatenation is materialized into a new Buffer.
func MergeTokens(run []Token) Token {
	if len(run) == 0 {
		return Token{}
	}

	first := run[0]
	merged := Token{
		Buf:   first.Buf,
		Start: first.Start,
		End:   first.End,
		Line:  first.Line,
		Char:  first.Char,
	}

	contiguous := true
	for i := 1; i < len(run) && contiguous; i++ {
		contiguous = run[i].Buf == merged.Buf && run[i].Start == merged.End
		if contiguous {
			merged.End = run[i].End
		}
	}
	if contiguous {
		return merged
	}

	b := strings.Builder{}
	for i := range run {
		b.WriteString(run[i].Content())
	}
	merged.Buf = &Buffer{
		Text: b.String(),
		File: first.File(),
	}
	merged.Start = 0
	merged.End = len(merged.Buf.Text)
	return merged
}

// WriteTokens writes one line per token.
func WriteTokens(out io.Writer, tokens Tokens, opts PrintOpts) {
	buf := strings.Builder{}
	buf.Grow(128)

	for i := range tokens {
		tok := &tokens[i]
		buf.Reset()
		if len(opts.Label) > 0 {
			buf.WriteString(opts.Label)
		}
		if opts.Position {
			buf.WriteString(tok.String())
		} else {
			fmt.Fprintf(&buf, "%q: %v", tok.Content(), tok.Tags)
		}
		buf.WriteByte('\n')
		io.WriteString(out, buf.String())
	}
}
