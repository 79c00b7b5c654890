// Package regex composes engine-ready patterns from language definition fragments.
//
// Patterns may contain \%{id} macro references (define-regex) and \%[ \%] word boundary tokens.
// The composer always compiles start, end, and match patterns in extended mode, so literal
// '#' and ' ' are escaped when the author did not ask for extended syntax.
package regex

import (
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/ava12/langload"
)

// Error codes used by regex:
const (
	// InvalidRegexError indicates that a resolved pattern cannot be compiled.
	InvalidRegexError = langload.RegexErrors + iota
)

const (
	macroOpen          = `\%{`
	macroClose         = `}`
	LeftBoundaryToken  = `\%[`
	RightBoundaryToken = `\%]`
	DefaultBoundary    = `\b`
)

var escaper = strings.NewReplacer("#", `\#`, " ", `\ `)

// Escape makes literal '#' and ' ' safe for extended mode.
func Escape(pattern string) string {
	return escaper.Replace(pattern)
}

// MacroBody prepares a define-regex body: escapes it unless opts has Extended
// and pins its case sensitivity with an inline modifier group.
func MacroBody(pattern string, opts Options) string {
	if !opts.Has(Extended) {
		pattern = Escape(pattern)
	}
	if opts.Has(IgnoreCase) {
		return "(?:(?i)" + pattern + ")"
	}
	return "(?:(?-i)" + pattern + ")"
}

// Language holds per-language compilation settings.
type Language struct {
	ID            string
	Defaults      Options
	LeftBoundary  string
	RightBoundary string
}

// NewLanguage returns settings with no flags and \b word boundaries.
func NewLanguage(id string) *Language {
	return &Language{ID: id, LeftBoundary: DefaultBoundary, RightBoundary: DefaultBoundary}
}

// SetWordCharClass replaces word boundaries with lookarounds built from a character class expression.
func (l *Language) SetWordCharClass(class string) {
	l.LeftBoundary = "(?<!" + class + ")(?=" + class + ")"
	l.RightBoundary = "(?<=" + class + ")(?!" + class + ")"
}

// Composer keeps macro and per-language tables shared by all languages compiled by one loader.
// Macros are global: a define-regex in any language is visible to every language compiled later.
type Composer struct {
	macros    map[string]string
	macroIds  []string
	languages map[string]*Language
}

func NewComposer() *Composer {
	return &Composer{
		macros:    make(map[string]string),
		languages: make(map[string]*Language),
	}
}

// Seed resets settings of language id to defaults and returns them.
func (c *Composer) Seed(id string) *Language {
	l := NewLanguage(id)
	c.languages[id] = l
	return l
}

// Language returns settings of language id, seeding them if needed.
func (c *Composer) Language(id string) *Language {
	l := c.languages[id]
	if l == nil {
		l = c.Seed(id)
	}
	return l
}

// Define stores a macro body prepared with MacroBody. Existing macro is replaced.
func (c *Composer) Define(id, body string, opts Options) {
	if _, has := c.macros[id]; !has {
		c.macroIds = append(c.macroIds, id)
		sort.Strings(c.macroIds)
	}
	c.macros[id] = MacroBody(body, opts)
}

// Resolve substitutes macros and word boundary tokens.
// Macros are substituted one id at a time in id order with no recursive expansion:
// a macro reference inside a substituted body is only replaced if its id comes later in that order.
// lang may be nil, default boundaries are used in this case.
func (c *Composer) Resolve(pattern string, lang *Language) string {
	if strings.Contains(pattern, macroOpen) {
		for _, id := range c.macroIds {
			pattern = strings.ReplaceAll(pattern, macroOpen+id+macroClose, c.macros[id])
		}
	}

	left, right := DefaultBoundary, DefaultBoundary
	if lang != nil {
		left, right = lang.LeftBoundary, lang.RightBoundary
	}
	pattern = strings.ReplaceAll(pattern, LeftBoundaryToken, left)
	return strings.ReplaceAll(pattern, RightBoundaryToken, right)
}

// Compile resolves pattern and compiles it with opts.
// Always returns non-nil Regex; on error the Regex keeps resolved pattern and is not valid.
func (c *Composer) Compile(pattern string, opts Options, lang *Language) (*Regex, error) {
	result := &Regex{Pattern: c.Resolve(pattern, lang), Options: opts}
	re, e := regexp2.Compile(result.Pattern, opts.engineOptions())
	if e != nil {
		return result, langload.FormatError(InvalidRegexError, "incorrect regex %q (%s)", result.Pattern, e.Error())
	}

	result.re = re
	return result, nil
}

// CompileRule compiles start, end, and match element text: the text is escaped unless opts has Extended,
// the result is always compiled in extended mode.
func (c *Composer) CompileRule(text string, opts Options, lang *Language) (*Regex, error) {
	if !opts.Has(Extended) {
		text = Escape(text)
	}
	return c.Compile(text, opts|Extended, lang)
}
