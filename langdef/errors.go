package langdef

import (
	"errors"

	"github.com/ava12/langload"
	"github.com/ava12/langload/lexer"
)

// Error codes used by langdef:
const (
	// MalformedGrammarError indicates an element placed where it cannot be used.
	MalformedGrammarError = langload.GrammarErrors + iota
	// MissingAttributeError indicates an element lacking a required attribute.
	MissingAttributeError
)

func malformedError(t *lexer.Token, msg string, params ...any) *langload.Error {
	return langload.FormatErrorPos(t, MalformedGrammarError, msg, params...)
}

func missingAttrError(t *lexer.Token, attr string) *langload.Error {
	return langload.FormatErrorPos(t, MissingAttributeError, "%s element has no %s attribute", t.Name(), attr)
}

// posError adds position of t to an error reported by grammar or regex packages, keeping its code.
func posError(t *lexer.Token, e error) error {
	var le *langload.Error
	if !errors.As(e, &le) || le.SourceName != "" {
		return e
	}

	return langload.FormatErrorPos(t, le.Code, "%s", le.Message)
}
