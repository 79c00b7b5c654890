package grammar

import (
	"sort"
)

// Registry holds live and original references of named contexts, keyed by qualified id.
// The live view follows replace directives, the original view keeps the content a context
// had when its definition was completed.
// Entries are created lazily and never removed.
type Registry struct {
	known    map[string]*Reference
	original map[string]*Reference
}

func NewRegistry() *Registry {
	return &Registry{
		known:    make(map[string]*Reference),
		original: make(map[string]*Reference),
	}
}

// Known returns live reference of qualified id or nil.
func (r *Registry) Known(id string) *Reference {
	return r.known[id]
}

// Original returns original reference of qualified id or nil.
func (r *Registry) Original(id string) *Reference {
	return r.original[id]
}

// Entry returns live and original references of qualified id, creating Undefined ones if missing.
func (r *Registry) Entry(id string) (live, orig *Reference) {
	live = r.known[id]
	if live == nil {
		live = NewReference()
		r.known[id] = live
	}
	orig = r.original[id]
	if orig == nil {
		orig = NewReference()
		r.original[id] = orig
	}
	return
}

// Register stores live and original references under qualified id, replacing existing ones.
// A nil orig keeps the existing original entry or creates a new one.
func (r *Registry) Register(id string, live, orig *Reference) {
	r.known[id] = live
	if orig == nil {
		orig = r.original[id]
	}
	if orig == nil {
		orig = NewReference()
	}
	r.original[id] = orig
}

// Keys returns sorted qualified ids of live entries.
func (r *Registry) Keys() []string {
	result := make([]string, 0, len(r.known))
	for k := range r.known {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

func (r *Registry) Len() int {
	return len(r.known)
}

// Names returns sorted qualified ids of live entries pointing to ctx.
func (r *Registry) Names(ctx *Context) []string {
	var result []string
	for k, ref := range r.known {
		if ref.Context == ctx {
			result = append(result, k)
		}
	}
	sort.Strings(result)
	return result
}

// Release resets every registered context not marked in use and returns the number of contexts released.
func (r *Registry) Release() int {
	seen := make(map[*Context]bool)
	count := 0
	release := func(refs map[string]*Reference) {
		for _, ref := range refs {
			ctx := ref.Context
			if ctx == nil || seen[ctx] {
				continue
			}

			seen[ctx] = true
			if ctx.Release() {
				count++
			}
		}
	}
	release(r.known)
	release(r.original)
	return count
}
