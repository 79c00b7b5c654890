package grammar

import (
	"github.com/ava12/langload/internal/queue"
	"github.com/ava12/langload/regex"
)

// Snapshot is a serializable view of the graph reachable from a main context.
// Nodes are numbered in breadth-first discovery order starting with the root node 0.
type Snapshot struct {
	Root      int    `json:"root" yaml:"root"`
	RootStyle string `json:"rootStyle,omitempty" yaml:"root-style,omitempty"`
	Nodes     []Node `json:"nodes" yaml:"nodes"`
}

// Node describes a single context.
type Node struct {
	ID         int      `json:"id" yaml:"id"`
	Names      []string `json:"names,omitempty" yaml:"names,omitempty"`
	Kind       string   `json:"kind" yaml:"kind"`
	Flags      []string `json:"flags,omitempty" yaml:"flags,omitempty"`
	Start      string   `json:"start,omitempty" yaml:"start,omitempty"`
	End        string   `json:"end,omitempty" yaml:"end,omitempty"`
	Match      string   `json:"match,omitempty" yaml:"match,omitempty"`
	Keyword    string   `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	SubPattern string   `json:"subPattern,omitempty" yaml:"sub-pattern,omitempty"`
	Where      string   `json:"where,omitempty" yaml:"where,omitempty"`
	Includes   []Edge   `json:"includes,omitempty" yaml:"includes,omitempty"`
}

// Edge is an include of a context by another one.
type Edge struct {
	Node  int    `json:"node" yaml:"node"`
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
}

// NewSnapshot builds a snapshot of contexts reachable from root.
// Node names are taken from reg, which may be nil.
// styleMap translates qualified style ids to effective ones and may be nil.
func NewSnapshot(root *Reference, reg *Registry, styleMap func(string) string) *Snapshot {
	result := &Snapshot{Nodes: []Node{}}
	if root == nil || root.Context == nil {
		result.Root = -1
		return result
	}

	mapStyle := func(id string) string {
		if id == "" || styleMap == nil {
			return id
		}
		return styleMap(id)
	}

	result.RootStyle = mapStyle(root.StyleID)
	ids := map[*Context]int{root.Context: 0}
	pending := queue.New(root.Context)
	for !pending.IsEmpty() {
		ctx, _ := pending.First()
		node := Node{
			ID:         len(result.Nodes),
			Kind:       ctx.kind.String(),
			Flags:      ctx.Flags.Names(),
			Start:      pattern(ctx.Start),
			End:        pattern(ctx.End),
			Match:      pattern(ctx.Match),
			Keyword:    pattern(ctx.Keyword),
			SubPattern: ctx.SubPattern.Group,
			Where:      ctx.SubPattern.Where,
		}
		if len(node.Flags) == 0 {
			node.Flags = nil
		}
		if reg != nil {
			node.Names = reg.Names(ctx)
		}

		for _, inc := range ctx.Includes {
			if inc == nil || inc.Context == nil {
				continue
			}

			id, has := ids[inc.Context]
			if !has {
				id = len(ids)
				ids[inc.Context] = id
				pending.Append(inc.Context)
			}
			node.Includes = append(node.Includes, Edge{id, mapStyle(inc.StyleID)})
		}
		result.Nodes = append(result.Nodes, node)
	}
	return result
}

func pattern(r *regex.Regex) string {
	if r == nil {
		return ""
	}
	return r.Pattern
}
