// Package grammar defines the compiled context graph walked by highlighters.
//
// A Context is a tagged node that starts as Undefined and is specialized once,
// in place, so every Reference already pointing at it sees the final content.
// References are shared handles: several registry keys may hold the same *Reference
// and several references may hold the same *Context.
package grammar

import (
	"slices"

	"github.com/ava12/langload/internal/queue"
	"github.com/ava12/langload/regex"
)

// Kind is the context node type.
type Kind int

const (
	Undefined Kind = iota
	Container
	Simple
	SubPattern
	Keyword
)

var kindNames = [...]string{"undefined", "container", "simple", "sub-pattern", "keyword"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Flags are boolean context attributes that affect highlighting.
type Flags uint16

const (
	OnceOnly Flags = 1 << iota
	ExtendParent
	EndParent
	EndAtLineEnd
	FirstLineOnly
	StyleInside
)

var flagAttrs = []struct {
	flag Flags
	name string
}{
	{OnceOnly, "once-only"},
	{ExtendParent, "extend-parent"},
	{EndParent, "end-parent"},
	{EndAtLineEnd, "end-at-line-end"},
	{FirstLineOnly, "first-line-only"},
	{StyleInside, "style-inside"},
}

// Attributes gives access to element attributes, lexer.Attrs implements it.
type Attributes interface {
	Value(name string) (string, bool)
}

// ParseFlags collects flag attributes set to "true".
func ParseFlags(attrs Attributes) Flags {
	var result Flags
	for _, fa := range flagAttrs {
		if v, _ := attrs.Value(fa.name); v == "true" {
			result |= fa.flag
		}
	}
	return result
}

func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// Names returns attribute names of flags set.
func (f Flags) Names() []string {
	result := make([]string, 0)
	for _, fa := range flagAttrs {
		if f.Has(fa.flag) {
			result = append(result, fa.name)
		}
	}
	return result
}

// SubPatternRule selects the capture group a sub-pattern applies to.
type SubPatternRule struct {
	// Group is a group number or name.
	Group string
	// Where is "start" or "end" for sub-patterns of container delimiters, empty for match.
	Where string
}

// Context is a node of the grammar graph.
// Fields are meaningful only for the matching Kind:
// Start and End for Container (both may be nil for pure grouping), Match for Simple,
// Keyword for Keyword, SubPattern for SubPattern.
// Includes holds container children or simple sub-patterns in match priority order.
type Context struct {
	kind       Kind
	Flags      Flags
	Start      *regex.Regex
	End        *regex.Regex
	Match      *regex.Regex
	Keyword    *regex.Regex
	SubPattern SubPatternRule
	Includes   []*Reference
	inUse      bool
}

func (c *Context) Kind() Kind {
	return c.kind
}

// Init specializes an Undefined context to kind and reads its flags from attrs.
// Initializing to the current kind is a no-op that keeps content.
// Returns KindConflictError if the context already has another kind.
func (c *Context) Init(kind Kind, attrs Attributes) error {
	if c.kind == kind {
		return nil
	}
	if c.kind != Undefined {
		return kindConflictError(c.kind, kind)
	}

	c.kind = kind
	c.Flags = ParseFlags(attrs)
	if kind == SubPattern {
		group, _ := attrs.Value("sub-pattern")
		where, _ := attrs.Value("where")
		c.SubPattern = SubPatternRule{group, where}
	}
	return nil
}

// Append adds an included reference to a Container or Simple context.
func (c *Context) Append(ref *Reference) error {
	if c.kind != Container && c.kind != Simple {
		return includeError(c.kind)
	}

	c.Includes = append(c.Includes, ref)
	return nil
}

// CopyFrom replaces content of c with content of other.
// The include list is cloned, included references themselves are shared. In-use flag is kept.
func (c *Context) CopyFrom(other *Context) {
	if c == other {
		return
	}

	inUse := c.inUse
	*c = *other
	c.Includes = slices.Clone(other.Includes)
	c.inUse = inUse
}

func (c *Context) InUse() bool {
	return c.inUse
}

// MarkInUse flags c and every context reachable from it as used by a highlighter.
func (c *Context) MarkInUse() {
	visited := make(map[*Context]bool)
	stack := queue.New(c)
	for !stack.IsEmpty() {
		ctx, _ := stack.Last()
		if ctx == nil || visited[ctx] {
			continue
		}

		visited[ctx] = true
		ctx.inUse = true
		for _, inc := range ctx.Includes {
			if inc != nil {
				stack.Append(inc.Context)
			}
		}
	}
}

// Release drops content of a context not in use and reports whether it did so.
func (c *Context) Release() bool {
	if c.inUse {
		return false
	}

	*c = Context{}
	return true
}

// Reference is a handle to a context together with the style it is highlighted with.
// StyleID is language-qualified, empty means unstyled.
type Reference struct {
	Context *Context
	StyleID string
}

// NewReference creates a reference to a new Undefined context.
func NewReference() *Reference {
	return &Reference{Context: &Context{}}
}
