// Package refgraph analyzes the dependency graph of named component
// schemas: it finds reference cycles, chooses which participants to box,
// and computes the longest-path layering the sharding planner consumes.
package refgraph

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/parser"
)

// Graph is the schema dependency graph. Nodes are named component schemas;
// an edge X→Y means the schema X references Y.
type Graph struct {
	// Nodes in deterministic (sorted) order.
	Nodes []string
	// Edges maps each node to its sorted successor list.
	Edges map[string][]string
}

// Build constructs the graph from the document's component schemas.
func Build(doc *openapi3.T) *Graph {
	g := &Graph{Edges: map[string][]string{}}
	if doc.Components == nil {
		return g
	}
	for name := range doc.Components.Schemas {
		g.Nodes = append(g.Nodes, name)
	}
	sort.Strings(g.Nodes)
	for _, name := range g.Nodes {
		refs := DirectRefs(doc.Components.Schemas[name])
		targets := make([]string, 0, len(refs))
		for _, t := range refs {
			if _, ok := doc.Components.Schemas[t]; ok {
				targets = append(targets, t)
			}
		}
		sort.Strings(targets)
		g.Edges[name] = dedupe(targets)
	}
	return g
}

// DirectRefs collects the component-schema names referenced directly by a
// schema: its properties, items, additionalProperties, composition
// children, and not-schema. The walk stops at references; it does not
// descend into referenced schemas.
func DirectRefs(ref *openapi3.SchemaRef) []string {
	var out []string
	collectRefs(ref, true, &out)
	return out
}

func collectRefs(ref *openapi3.SchemaRef, isRoot bool, out *[]string) {
	if ref == nil {
		return
	}
	if ref.Ref != "" {
		if name, ok := parser.RefName(ref.Ref); ok {
			*out = append(*out, name)
		}
		return
	}
	s := ref.Value
	if s == nil {
		return
	}
	for _, propName := range sortedKeys(s.Properties) {
		collectRefs(s.Properties[propName], false, out)
	}
	collectRefs(s.Items, false, out)
	if s.AdditionalProperties.Schema != nil {
		collectRefs(s.AdditionalProperties.Schema, false, out)
	}
	for _, sub := range s.AllOf {
		collectRefs(sub, false, out)
	}
	for _, sub := range s.AnyOf {
		collectRefs(sub, false, out)
	}
	for _, sub := range s.OneOf {
		collectRefs(sub, false, out)
	}
	collectRefs(s.Not, false, out)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	var prev string
	for i, s := range sorted {
		if i == 0 || s != prev {
			out = append(out, s)
		}
		prev = s
	}
	return out
}
