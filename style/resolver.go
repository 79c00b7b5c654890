// Package style resolves language-qualified style ids to the style ids a theme recognizes.
package style

import (
	"sort"

	"github.com/ava12/langload"
)

// DefaultThemeStyles lists the style ids GtkSourceView themes define for the "def" language.
var DefaultThemeStyles = []string{
	"def:base-n-integer",
	"def:boolean",
	"def:builtin",
	"def:character",
	"def:comment",
	"def:complex",
	"def:constant",
	"def:decimal",
	"def:deletion",
	"def:doc-comment",
	"def:doc-comment-element",
	"def:emphasis",
	"def:error",
	"def:floating-point",
	"def:function",
	"def:heading",
	"def:identifier",
	"def:inline-code",
	"def:insertion",
	"def:keyword",
	"def:link-destination",
	"def:link-symbol",
	"def:link-text",
	"def:net-address",
	"def:note",
	"def:number",
	"def:operator",
	"def:preformatted-section",
	"def:preprocessor",
	"def:reserved",
	"def:shebang",
	"def:special-char",
	"def:special-constant",
	"def:statement",
	"def:string",
	"def:strong-emphasis",
	"def:type",
	"def:underlined",
	"def:variable",
	"def:warning",
}

// RequireFunc loads definitions and styles of a language referenced from another one.
type RequireFunc func(lang string)

// Resolver maps qualified style ids to effective theme style ids.
// Resolver is not safe for concurrent use.
type Resolver struct {
	theme map[string]bool
	m     map[string]string
}

// NewResolver creates a resolver seeded with theme style ids, each one mapping to itself.
func NewResolver(themeStyles []string) *Resolver {
	r := &Resolver{theme: make(map[string]bool, len(themeStyles)), m: make(map[string]string, len(themeStyles))}
	for _, id := range themeStyles {
		r.theme[id] = true
		r.m[id] = id
	}
	return r
}

// IsThemeStyle tells whether qualified id is recognized by the theme.
func (r *Resolver) IsThemeStyle(id string) bool {
	return r.theme[id]
}

// Known tells whether qualified id has a mapping.
func (r *Resolver) Known(id string) bool {
	_, has := r.m[id]
	return has
}

// Resolve returns effective style id for qualified id.
func (r *Resolver) Resolve(id string) (string, bool) {
	result, has := r.m[id]
	return result, has
}

// Register adds style id of language lang.
// A theme style maps to itself regardless of mapTo. Otherwise, if hasMapTo is set, the style inherits
// the mapping of mapTo (require is called first if mapTo names another language that has no such style yet).
// Every style already mapping to this one is repointed to the new mapping.
// Returns the mapping of the registered style.
func (r *Resolver) Register(lang, id, mapTo string, hasMapTo bool, require RequireFunc) string {
	id = langload.QualifiedID(lang, id)
	mapID := id
	if !r.theme[id] && hasMapTo {
		if ns, qualified := langload.Namespace(mapTo); qualified && !r.Known(mapTo) && require != nil {
			require(ns)
		}
		refID := langload.Qualify(mapTo, lang)
		mapID = refID
		if target, has := r.m[refID]; has {
			mapID = target
		}
	}

	for key, target := range r.m {
		if target == id {
			r.m[key] = mapID
		}
	}
	r.m[id] = mapID
	return mapID
}

// Map returns a copy of all mappings.
func (r *Resolver) Map() map[string]string {
	result := make(map[string]string, len(r.m))
	for k, v := range r.m {
		result[k] = v
	}
	return result
}

// Ids returns sorted qualified ids of all known styles.
func (r *Resolver) Ids() []string {
	result := make([]string, 0, len(r.m))
	for k := range r.m {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}
