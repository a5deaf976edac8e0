// Package docfilter reduces an OpenAPI document to the subset selected by
// operation ids, tags, paths, and schema names, closed over the references
// the selection reaches.
package docfilter

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/parser"
	"github.com/oaswift/oaswift/internal/refgraph"
)

// Spec selects the document subset to keep. The union of the four selector
// sets defines the initial selection; an empty Spec keeps everything.
type Spec struct {
	OperationIDs []string `yaml:"operations,omitempty"`
	Tags         []string `yaml:"tags,omitempty"`
	Paths        []string `yaml:"paths,omitempty"`
	SchemaNames  []string `yaml:"schemas,omitempty"`
}

// IsEmpty reports whether no selector is set, which makes the filter the
// identity.
func (s Spec) IsEmpty() bool {
	return len(s.OperationIDs) == 0 && len(s.Tags) == 0 && len(s.Paths) == 0 && len(s.SchemaNames) == 0
}

// Apply returns a reduced copy of doc. Paths are visited in lexical order
// and the kept paths and schemas are stored in the document model's maps,
// so the original document order is not kept. The input document is not
// modified.
func Apply(doc *openapi3.T, spec Spec) *openapi3.T {
	if spec.IsEmpty() {
		return doc
	}

	operationIDs := toSet(spec.OperationIDs)
	tags := toSet(spec.Tags)
	keepPaths := toSet(spec.Paths)

	out := &openapi3.T{
		OpenAPI:      doc.OpenAPI,
		Info:         doc.Info,
		Servers:      doc.Servers,
		Paths:        openapi3.NewPaths(),
		ExternalDocs: doc.ExternalDocs,
	}

	// Phase 1: select operations and collect the schema names their
	// parameters, bodies, and responses reach.
	neededSchemas := map[string]bool{}
	for _, path := range parser.SortedPathKeys(doc.Paths) {
		item := doc.Paths.Value(path)
		kept := &openapi3.PathItem{
			Summary:     item.Summary,
			Description: item.Description,
			Parameters:  item.Parameters,
		}
		anyKept := false
		for _, entry := range parser.SortedOperations(item) {
			if !selectOperation(entry.Op, path, operationIDs, tags, keepPaths) {
				continue
			}
			anyKept = true
			setOperation(kept, entry.Method, entry.Op)
			collectOperationRefs(entry.Op, neededSchemas)
			for _, p := range item.Parameters {
				collectParameterRefs(p, neededSchemas)
			}
		}
		if anyKept {
			out.Paths.Set(path, kept)
		}
	}

	// Phase 2: explicitly named schemas join the closure roots.
	for _, name := range spec.SchemaNames {
		neededSchemas[name] = true
	}

	// Phase 3: transitive closure over schema references.
	if doc.Components != nil {
		closure := map[string]bool{}
		var visit func(name string)
		visit = func(name string) {
			if closure[name] {
				return
			}
			ref, ok := doc.Components.Schemas[name]
			if !ok {
				return
			}
			closure[name] = true
			for _, next := range refgraph.DirectRefs(ref) {
				visit(next)
			}
		}
		for _, name := range sortedSetKeys(neededSchemas) {
			visit(name)
		}

		if len(closure) > 0 {
			out.Components = &openapi3.Components{Schemas: openapi3.Schemas{}}
			for name := range doc.Components.Schemas {
				if closure[name] {
					out.Components.Schemas[name] = doc.Components.Schemas[name]
				}
			}
		}
	}

	return out
}

// selectOperation reports whether an operation is in the initial selection.
func selectOperation(op *openapi3.Operation, path string, operationIDs, tags, paths map[string]bool) bool {
	if paths[path] {
		return true
	}
	if op.OperationID != "" && operationIDs[op.OperationID] {
		return true
	}
	for _, t := range op.Tags {
		if tags[t] {
			return true
		}
	}
	return false
}

func setOperation(item *openapi3.PathItem, method string, op *openapi3.Operation) {
	switch method {
	case "GET":
		item.Get = op
	case "PUT":
		item.Put = op
	case "POST":
		item.Post = op
	case "DELETE":
		item.Delete = op
	case "OPTIONS":
		item.Options = op
	case "HEAD":
		item.Head = op
	case "PATCH":
		item.Patch = op
	case "TRACE":
		item.Trace = op
	}
}

// collectOperationRefs gathers the component schema names an operation's
// parameters, request body, and responses reference.
func collectOperationRefs(op *openapi3.Operation, into map[string]bool) {
	for _, p := range op.Parameters {
		collectParameterRefs(p, into)
	}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		for _, media := range op.RequestBody.Value.Content {
			collectSchemaRefs(media.Schema, into)
		}
	}
	if op.Responses != nil {
		for _, resp := range op.Responses.Map() {
			if resp.Value == nil {
				continue
			}
			for _, header := range resp.Value.Headers {
				if header.Value != nil {
					collectSchemaRefs(header.Value.Schema, into)
				}
			}
			for _, media := range resp.Value.Content {
				collectSchemaRefs(media.Schema, into)
			}
		}
	}
}

func collectParameterRefs(p *openapi3.ParameterRef, into map[string]bool) {
	if p == nil || p.Value == nil {
		return
	}
	collectSchemaRefs(p.Value.Schema, into)
}

// collectSchemaRefs records the schema itself when it is a reference, plus
// everything it references directly.
func collectSchemaRefs(ref *openapi3.SchemaRef, into map[string]bool) {
	if ref == nil {
		return
	}
	if name, ok := parser.RefName(ref.Ref); ok {
		into[name] = true
	}
	for _, name := range refgraph.DirectRefs(ref) {
		into[name] = true
	}
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, s := range items {
		out[s] = true
	}
	return out
}

func sortedSetKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
