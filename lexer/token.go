package lexer

import (
	"github.com/ava12/langload/source"
)

// TokenType tells what kind of XML event a token carries.
type TokenType int

const (
	// EofToken is returned at the end of document and after any stream error.
	EofToken TokenType = iota
	// StartToken is an element start tag; self-closing elements produce StartToken followed by EndToken.
	StartToken
	// EndToken is an element end tag.
	EndToken
	// TextToken is character data (including CDATA sections).
	TextToken
)

var typeNames = [...]string{"-end-of-file-", "start", "end", "text"}

func (tt TokenType) String() string {
	if tt < 0 || int(tt) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[tt]
}

// Attr is a single element attribute. Namespace prefixes are dropped.
type Attr struct {
	Name, Value string
}

// Attrs is an ordered attribute list. When a name occurs more than once the first entry wins.
type Attrs []Attr

// Value returns attribute value and a flag telling whether the attribute is present.
func (as Attrs) Value(name string) (string, bool) {
	for _, a := range as {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Get returns attribute value or empty string.
func (as Attrs) Get(name string) string {
	v, _ := as.Value(name)
	return v
}

func (as Attrs) Has(name string) bool {
	_, has := as.Value(name)
	return has
}

// With returns a new list containing as followed by extra.
// Attributes already present in as take precedence over extra ones.
func (as Attrs) With(extra ...Attr) Attrs {
	if len(extra) == 0 {
		return as
	}

	result := make(Attrs, 0, len(as)+len(extra))
	result = append(result, as...)
	return append(result, extra...)
}

// Token is a single XML event with its source position.
type Token struct {
	tokenType TokenType
	name      string
	attrs     Attrs
	text      string
	source    *source.Source
	line, col int
}

// NewToken creates a token. sp may be nil.
func NewToken(tokenType TokenType, name string, attrs Attrs, text string, sp *source.Pos) *Token {
	t := &Token{tokenType: tokenType, name: name, attrs: attrs, text: text}
	if sp != nil {
		t.source, t.line, t.col = sp.Source(), sp.Line(), sp.Col()
	}
	return t
}

func (t *Token) Type() TokenType {
	return t.tokenType
}

// Name returns local element name for start and end tokens.
func (t *Token) Name() string {
	return t.name
}

func (t *Token) Attrs() Attrs {
	return t.attrs
}

// Text returns character data of a text token.
func (t *Token) Text() string {
	return t.text
}

func (t *Token) Source() *source.Source {
	return t.source
}

func (t *Token) SourceName() string {
	if t.source == nil {
		return ""
	}
	return t.source.Name()
}

func (t *Token) Line() int {
	return t.line
}

func (t *Token) Col() int {
	return t.col
}

// IsStart tells whether t is a start tag of element name.
func (t *Token) IsStart(name string) bool {
	return t.tokenType == StartToken && t.name == name
}

// IsEnd tells whether t is an end tag of element name.
func (t *Token) IsEnd(name string) bool {
	return t.tokenType == EndToken && t.name == name
}

func (t *Token) IsEof() bool {
	return t.tokenType == EofToken
}
