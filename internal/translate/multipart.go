package translate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/ir"
)

// MultipartRequirements captures how many times each part may appear in a
// multipart/form-data body and whether undocumented parts are allowed.
type MultipartRequirements struct {
	AllowsUnknownParts bool
	// RequiredAtLeastOnce holds required array-typed parts.
	RequiredAtLeastOnce map[string]bool
	// RequiredExactlyOnce holds required single-valued parts.
	RequiredExactlyOnce map[string]bool
	// AtMostOnce holds optional single-valued parts.
	AtMostOnce map[string]bool
	// ZeroOrMore holds optional array-typed parts.
	ZeroOrMore map[string]bool
}

// InferMultipartRequirements derives the part requirements from the
// multipart schema: a required array part must appear at least once, a
// required scalar part exactly once, an optional scalar part at most once,
// and an optional array part any number of times.
func InferMultipartRequirements(s *openapi3.Schema) MultipartRequirements {
	req := MultipartRequirements{
		AllowsUnknownParts:  true,
		RequiredAtLeastOnce: map[string]bool{},
		RequiredExactlyOnce: map[string]bool{},
		AtMostOnce:          map[string]bool{},
		ZeroOrMore:          map[string]bool{},
	}
	if s == nil {
		return req
	}
	if s.AdditionalProperties.Has != nil && !*s.AdditionalProperties.Has {
		req.AllowsUnknownParts = false
	}
	for name, prop := range s.Properties {
		isArray := prop != nil && prop.Value != nil && prop.Value.Type.Is(openapi3.TypeArray)
		required := isRequired(s, name)
		switch {
		case required && isArray:
			req.RequiredAtLeastOnce[name] = true
		case required:
			req.RequiredExactlyOnce[name] = true
		case isArray:
			req.ZeroOrMore[name] = true
		default:
			req.AtMostOnce[name] = true
		}
	}
	return req
}

// multipartPart is one named section of a multipart body.
type multipartPart struct {
	name   string
	schema *openapi3.SchemaRef
	array  bool
}

// translateMultipartBody produces the part payload enum for a multipart
// content variant and returns the body case's type usage. The schema's
// properties become parts; typed open parts (additionalProperties with a
// schema) are unsupported and reported.
func (t *Translator) translateMultipartBody(parent ir.TypeName, caseName string, media *openapi3.MediaType, foundIn string) (ir.TypeUsage, []ir.Decl, error) {
	payloadName := caseName + "Payload"
	payloadTypeName := parent.Appending("content/multipart~1form-data", payloadName)

	var schema *openapi3.Schema
	if media.Schema != nil {
		schema = media.Schema.Value
	}
	if schema != nil && schema.AdditionalProperties.Schema != nil {
		if err := diagnostic.UnsupportedWarning(t.sink,
			"multipart with typed additionalProperties", foundIn, nil); err != nil {
			return ir.TypeUsage{}, nil, err
		}
	}

	parts := multipartParts(schema)
	var cases []ir.EnumCaseDecl
	var nested []ir.Decl
	for _, part := range parts {
		partStructName := part.name + "Payload"
		elem := part.schema
		if part.array && elem != nil && elem.Value != nil {
			elem = elem.Value.Items
		}
		usage, inline, err := t.typeUsageForProperty(payloadTypeName, part.name, partStructName, elem, true)
		if err != nil {
			return ir.TypeUsage{}, nil, err
		}
		nested = append(nested, inline...)

		partName := t.assigner.MemberName(part.name)
		wrapper := ir.StructDecl{
			Name:         partStructName,
			Access:       t.access,
			Conformances: []string{ir.ConformanceSendable, ir.ConformanceHashable},
			Fields: []ir.StructField{{
				Name: "body",
				Type: usage,
			}},
			Decls: []ir.Decl{t.memberwiseInit([]ir.StructField{{Name: "body", Type: usage}})},
		}
		nested = append(nested, ir.CommentedDecl(
			fmt.Sprintf("The part payload of the %q multipart part.", part.name), wrapper))
		cases = append(cases, ir.EnumCaseDecl{
			Name: partName,
			Kind: ir.CaseAssociatedValues,
			Associated: []ir.AssociatedValue{{
				Type: ir.Usage(ir.Builtin("OpenAPIRuntime.MultipartPart<" + payloadTypeName.FullyQualifiedName() + "." + partStructName + ">")),
			}},
		})
	}
	req := InferMultipartRequirements(schema)
	if req.AllowsUnknownParts {
		cases = append(cases, ir.EnumCaseDecl{
			Name: "undocumented",
			Kind: ir.CaseAssociatedValues,
			Associated: []ir.AssociatedValue{{
				Type: ir.Usage(ir.Builtin("OpenAPIRuntime.MultipartRawPart")),
			}},
		})
	}

	payloadEnum := ir.CommentedDecl(
		"The multipart form of the body payload.",
		ir.EnumDecl{
			Name:         payloadName,
			Access:       t.access,
			Conformances: []string{ir.ConformanceSendable, ir.ConformanceHashable},
			Cases:        cases,
			Members:      nested,
		})

	usage := ir.Usage(parent.Appending("", payloadName)).WithWrapper("OpenAPIRuntime.MultipartBody")
	return usage, []ir.Decl{payloadEnum}, nil
}

// multipartParts lists the schema's parts sorted by name.
func multipartParts(s *openapi3.Schema) []multipartPart {
	if s == nil {
		return nil
	}
	var out []multipartPart
	for name, prop := range s.Properties {
		out = append(out, multipartPart{
			name:   name,
			schema: prop,
			array:  prop != nil && prop.Value != nil && prop.Value.Type.Is(openapi3.TypeArray),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// RequirementsExpr renders the runtime requirements argument used by the
// multipart serialization calls in client and server dispatch.
func RequirementsExpr(req MultipartRequirements) ir.Expr {
	return ir.Call(ir.Dot("init"),
		ir.Arg("allowsUnknownParts", ir.Lit(fmt.Sprintf("%t", req.AllowsUnknownParts))),
		ir.Arg("requiredExactlyOncePartNames", setLiteral(req.RequiredExactlyOnce)),
		ir.Arg("requiredAtLeastOncePartNames", setLiteral(req.RequiredAtLeastOnce)),
		ir.Arg("atMostOncePartNames", setLiteral(req.AtMostOnce)),
		ir.Arg("zeroOrMorePartNames", setLiteral(req.ZeroOrMore)),
	)
}

func setLiteral(set map[string]bool) ir.Expr {
	if len(set) == 0 {
		return ir.Lit("[]")
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return ir.Lit("[" + strings.Join(quoted, ", ") + "]")
}
