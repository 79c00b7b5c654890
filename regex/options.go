package regex

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Options is a set of regex compilation flags used by language definitions.
type Options uint8

const (
	// IgnoreCase enables case-insensitive matching.
	IgnoreCase Options = 1 << iota
	// Extended enables free-form syntax: unescaped whitespace is ignored and # starts a comment.
	Extended
)

// Has tells whether all flags of o are present.
func (o Options) Has(flags Options) bool {
	return o&flags == flags
}

func (o Options) String() string {
	names := make([]string, 0, 2)
	if o.Has(IgnoreCase) {
		names = append(names, "ignore-case")
	}
	if o.Has(Extended) {
		names = append(names, "extended")
	}
	return strings.Join(names, ",")
}

func (o Options) engineOptions() regexp2.RegexOptions {
	var result regexp2.RegexOptions
	if o.Has(IgnoreCase) {
		result |= regexp2.IgnoreCase
	}
	if o.Has(Extended) {
		result |= regexp2.IgnorePatternWhitespace
	}
	return result
}

// Attributes gives access to element attributes, lexer.Attrs implements it.
type Attributes interface {
	Value(name string) (string, bool)
}

// ParseOptions applies case-sensitive and extended attributes to defaults.
// case-sensitive="false" sets IgnoreCase, any other value clears it;
// extended="true" sets Extended, any other value clears it.
// dupnames attribute is accepted and ignored.
func ParseOptions(defaults Options, attrs Attributes) Options {
	result := defaults
	if v, has := attrs.Value("case-sensitive"); has {
		if v == "false" {
			result |= IgnoreCase
		} else {
			result &^= IgnoreCase
		}
	}
	if v, has := attrs.Value("extended"); has {
		if v == "true" {
			result |= Extended
		} else {
			result &^= Extended
		}
	}
	return result
}
