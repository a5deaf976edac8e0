// Package probe decides which schemas and operations the generator can
// represent, reporting unsupported features as warnings.
package probe

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/parser"
)

// Reason classifies why a schema is unsupported.
type Reason string

const (
	// ReasonSchemaType marks schema constructs with no representation,
	// such as "not".
	ReasonSchemaType Reason = "schemaType"
	// ReasonNoSubschemas marks an explicit allOf with no children.
	ReasonNoSubschemas Reason = "noSubschemas"
	// ReasonNotObjectish marks a discriminated oneOf with a variant that
	// does not reduce to an object.
	ReasonNotObjectish Reason = "notObjectish"
	// ReasonReferenceCycle marks a schema revisited on its own expansion
	// path.
	ReasonReferenceCycle Reason = "referenceCycle"
)

// Result is the outcome of probing one schema.
type Result struct {
	Supported bool
	Reason    Reason
	// FoundIn is the JSON path of the offending sub-schema.
	FoundIn string
}

var supported = Result{Supported: true}

// Prober checks schemas against the feature set the translators implement.
type Prober struct {
	doc *openapi3.T
}

// New creates a Prober for one document.
func New(doc *openapi3.T) *Prober {
	return &Prober{doc: doc}
}

// Check probes a schema rooted at foundIn. The reference stack guards
// against cycles: revisiting a reference already on the expansion path
// yields ReasonReferenceCycle.
func (p *Prober) Check(ref *openapi3.SchemaRef, foundIn string) Result {
	return p.check(ref, foundIn, nil)
}

func (p *Prober) check(ref *openapi3.SchemaRef, foundIn string, stack []string) Result {
	if ref == nil || ref.Value == nil {
		return supported
	}
	if name, ok := parser.RefName(ref.Ref); ok {
		for _, onPath := range stack {
			if onPath == name {
				return Result{Reason: ReasonReferenceCycle, FoundIn: foundIn}
			}
		}
		stack = append(stack, name)
	}
	s := ref.Value

	if s.Not != nil {
		return Result{Reason: ReasonSchemaType, FoundIn: foundIn}
	}

	// An explicit empty composition list cannot be represented; a nil
	// slice just means the keyword is absent.
	if s.AllOf != nil && len(s.AllOf) == 0 {
		return Result{Reason: ReasonNoSubschemas, FoundIn: foundIn}
	}
	for _, sub := range s.AllOf {
		if r := p.check(sub, foundIn, stack); !r.Supported {
			return r
		}
	}

	if len(s.OneOf) > 0 && s.Discriminator != nil {
		for _, sub := range s.OneOf {
			if !p.isObjectish(sub, nil) {
				return Result{Reason: ReasonNotObjectish, FoundIn: foundIn}
			}
		}
	}
	for _, sub := range s.OneOf {
		if r := p.check(sub, foundIn, stack); !r.Supported {
			return r
		}
	}

	for _, sub := range s.AnyOf {
		if r := p.check(sub, foundIn, stack); !r.Supported {
			return r
		}
	}

	// In property, items, and additionalProperties position a reference is
	// a terminal: the referenced schema is probed on its own, and a cycle
	// through these positions is representable via boxing. Only inline
	// sub-schemas are descended into.
	for _, propName := range sortedKeys(s.Properties) {
		if r := p.checkInline(s.Properties[propName], foundIn, stack); !r.Supported {
			return r
		}
	}
	if s.Items != nil {
		if r := p.checkInline(s.Items, foundIn, stack); !r.Supported {
			return r
		}
	}
	if s.AdditionalProperties.Schema != nil {
		if r := p.checkInline(s.AdditionalProperties.Schema, foundIn, stack); !r.Supported {
			return r
		}
	}
	return supported
}

// checkInline probes a schema in a boxable position: references pass
// without descending.
func (p *Prober) checkInline(ref *openapi3.SchemaRef, foundIn string, stack []string) Result {
	if ref == nil || ref.Ref != "" {
		return supported
	}
	return p.check(ref, foundIn, stack)
}

// isObjectish reports whether a schema is an object or a composition that
// reduces to one, which discriminated oneOf variants must be.
func (p *Prober) isObjectish(ref *openapi3.SchemaRef, visited map[string]bool) bool {
	if ref == nil || ref.Value == nil {
		return false
	}
	if name, ok := parser.RefName(ref.Ref); ok {
		if visited[name] {
			return false
		}
		if visited == nil {
			visited = map[string]bool{}
		}
		visited[name] = true
	}
	s := ref.Value
	if s.Type.Is(openapi3.TypeObject) || len(s.Properties) > 0 {
		return true
	}
	if len(s.AllOf) > 0 {
		for _, sub := range s.AllOf {
			if p.isObjectish(sub, visited) {
				return true
			}
		}
	}
	return false
}

// WarnUnsupported emits the standard unsupported-feature warning for a
// probe result.
func WarnUnsupported(sink diagnostic.Collector, r Result, feature string) error {
	return diagnostic.UnsupportedWarning(sink, feature, r.FoundIn, map[string]string{
		"reason": string(r.Reason),
	})
}

// SupportedParameterStyle reports whether a parameter's
// location/style/explode combination is in the required set: path+simple,
// query+form (either explode), header+simple, cookie+form.
func SupportedParameterStyle(in, style string, explode bool) bool {
	switch in {
	case openapi3.ParameterInPath:
		return (style == "" || style == "simple") && !explode
	case openapi3.ParameterInQuery:
		return style == "" || style == "form"
	case openapi3.ParameterInHeader:
		return (style == "" || style == "simple") && !explode
	case openapi3.ParameterInCookie:
		return style == "" || style == "form"
	default:
		return false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
