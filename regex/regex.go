package regex

import (
	"github.com/dlclark/regexp2"
)

// Regex is a compiled pattern. A Regex that failed to compile keeps its pattern and reports false from Valid.
type Regex struct {
	Pattern string
	Options Options
	re      *regexp2.Regexp
}

// Valid tells whether the pattern was compiled successfully.
func (r *Regex) Valid() bool {
	return r != nil && r.re != nil
}

// Regexp returns the engine regex or nil.
func (r *Regex) Regexp() *regexp2.Regexp {
	if r == nil {
		return nil
	}
	return r.re
}

// MatchString reports whether s contains a match. Invalid regexes and engine errors (e.g. timeouts) report false.
func (r *Regex) MatchString(s string) bool {
	if !r.Valid() {
		return false
	}
	matched, e := r.re.MatchString(s)
	return e == nil && matched
}

// FindString returns the first match and its rune offset in s.
func (r *Regex) FindString(s string) (match string, index int, found bool) {
	if !r.Valid() {
		return "", -1, false
	}
	m, e := r.re.FindStringMatch(s)
	if e != nil || m == nil {
		return "", -1, false
	}
	return m.String(), m.Index, true
}

// IsEmpty tells whether r is absent or has empty pattern.
func (r *Regex) IsEmpty() bool {
	return r == nil || r.Pattern == ""
}
