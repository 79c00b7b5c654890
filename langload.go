/*
Package langload compiles GtkSourceView-style language definition files into
a cross-referenced graph of lexical contexts for regex-driven highlighters.

Consists of subpackages:
  - catalog: scans grammar directories and resolves language ids and MIME types to files;
  - cmd/langload: console utility to list, check, and dump language definitions;
  - grammar: context graph nodes, references, and the known/original context registry;
  - langdef: the grammar compiler driving the XML stream, plus metadata extraction;
  - lexer: pull-style XML event stream with source positions;
  - loader: facade resolving a language id or MIME type and returning its main context;
  - regex: regex composition (macros, word boundaries, option propagation);
  - source: grammar file content and position information;
  - style: style identifier resolution across language files.

Typical usage is:

1. Create a catalog for directories containing *.lang files and scan it.

2. Create a loader using the catalog as its path resolver.

3. Load the main context of a language by id or by MIME type and hand it to a highlighter.

4. Close the loader when done; contexts still in use by a highlighter are left intact.
*/
package langload

import (
	"fmt"
	"strings"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors = 1   // used by langdef
	ContextErrors = 101 // used by grammar
	RegexErrors   = 201 // used by regex
	StreamErrors  = 301 // used by lexer
)

// Error is the error type used by langload subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos may be nil, in this case no position information is added.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	if pos == nil {
		return NewError(code, msg, "", 0, 0)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// Separator separates language id from local id in qualified context and style ids.
const Separator = ":"

// QualifiedID joins language id and local id.
func QualifiedID(lang, id string) string {
	return lang + Separator + id
}

// Qualify prefixes id with lang unless id already contains a language prefix.
func Qualify(id, lang string) string {
	if strings.Contains(id, Separator) {
		return id
	}
	return QualifiedID(lang, id)
}

// Namespace returns language prefix of id; qualified is false if id has no prefix.
func Namespace(id string) (lang string, qualified bool) {
	lang, _, qualified = strings.Cut(id, Separator)
	return
}
