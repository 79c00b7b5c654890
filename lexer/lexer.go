// Package lexer turns a language definition file into a pull stream of XML events.
package lexer

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/ava12/langload"
	"github.com/ava12/langload/source"
)

// Error codes used by lexer:
const (
	// MalformedXmlError indicates that the document is not well-formed.
	// The stream is terminated, tokens fetched before the error remain valid.
	MalformedXmlError = langload.StreamErrors + iota
)

func malformedError(pos source.Pos, e error) *langload.Error {
	var se *xml.SyntaxError
	msg := e.Error()
	if errors.As(e, &se) {
		msg = se.Msg
	}
	return langload.FormatErrorPos(pos, MalformedXmlError, "malformed XML: %s", msg)
}

// Lexer reads XML events from a single source.
// Lexer is not safe for concurrent use.
// A malformed document terminates the stream: Next returns EoF token and Err returns the cause.
type Lexer struct {
	src   *source.Source
	d     *xml.Decoder
	err   error
	depth int
	done  bool
}

// New creates a lexer reading src from the beginning.
func New(src *source.Source) *Lexer {
	return &Lexer{src: src, d: xml.NewDecoder(src.Reader())}
}

// Err returns the error that terminated the stream or nil if the stream ended normally or is not finished.
func (l *Lexer) Err() error {
	return l.err
}

// Depth returns the number of elements opened and not yet closed.
func (l *Lexer) Depth() int {
	return l.depth
}

func (l *Lexer) pos() source.Pos {
	return source.NewPos(l.src, int(l.d.InputOffset()))
}

func (l *Lexer) eof() *Token {
	pos := source.NewPos(l.src, l.src.Len())
	return NewToken(EofToken, "", nil, "", &pos)
}

// Next fetches next event. Comments, processing instructions, and directives are skipped.
// Returns EoF token at the end of document and on any error, never returns nil.
func (l *Lexer) Next() *Token {
	for !l.done {
		pos := l.pos()
		raw, e := l.d.Token()
		if e != nil {
			l.done = true
			if e != io.EOF || l.depth > 0 {
				l.err = malformedError(l.pos(), e)
			}
			break
		}

		switch v := raw.(type) {
		case xml.StartElement:
			l.depth++
			attrs := make(Attrs, len(v.Attr))
			for i, a := range v.Attr {
				attrs[i] = Attr{a.Name.Local, a.Value}
			}
			return NewToken(StartToken, v.Name.Local, attrs, "", &pos)

		case xml.EndElement:
			l.depth--
			return NewToken(EndToken, v.Name.Local, nil, "", &pos)

		case xml.CharData:
			return NewToken(TextToken, "", nil, string(v), &pos)
		}
	}

	return l.eof()
}

// ReadText must be called right after a start token has been fetched.
// Returns concatenated character data up to the matching end tag, including text of nested elements,
// and consumes the end tag.
func (l *Lexer) ReadText() string {
	var text strings.Builder
	for depth := 1; depth > 0; {
		t := l.Next()
		switch t.Type() {
		case EofToken:
			return text.String()
		case StartToken:
			depth++
		case EndToken:
			depth--
		case TextToken:
			text.WriteString(t.Text())
		}
	}
	return text.String()
}

// Skip must be called right after a start token has been fetched.
// Discards everything up to and including the matching end tag.
func (l *Lexer) Skip() {
	for depth := 1; depth > 0; {
		switch l.Next().Type() {
		case EofToken:
			return
		case StartToken:
			depth++
		case EndToken:
			depth--
		}
	}
}
