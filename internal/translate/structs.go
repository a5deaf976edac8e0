package translate

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/ir"
)

var valueConformances = []string{ir.ConformanceCodable, ir.ConformanceHashable, ir.ConformanceSendable}

// translateObject produces the struct declaration for an object schema:
// one field per property, a memberwise initializer in property order, a
// CodingKeys enum mapping fields to their JSON names, and, when
// additionalProperties is present, an extras map with custom codable
// functions.
func (t *Translator) translateObject(typeName ir.TypeName, s *openapi3.Schema, doc string) ([]ir.Decl, error) {
	name := typeName.ShortName()

	var fields []ir.StructField
	var nested []ir.Decl
	for _, prop := range sortedProperties(s) {
		propRef := s.Properties[prop]
		member := t.assigner.MemberName(prop)
		usage, inline, err := t.typeUsageForProperty(typeName, prop, member, propRef, isRequired(s, prop))
		if err != nil {
			return nil, err
		}
		nested = append(nested, inline...)
		field := ir.StructField{
			Name:    member,
			Type:    usage,
			Comment: propertyComment(typeName, prop, propRef),
		}
		if usage.Optional {
			field.Default = ir.Lit("nil")
		}
		fields = append(fields, field)
	}

	extras, extrasDecls := t.additionalPropertiesField(typeName, s)
	if extras != nil {
		fields = append(fields, *extras)
		nested = append(nested, extrasDecls...)
	}

	body := append([]ir.Decl(nil), nested...)
	body = append(body, t.memberwiseInit(fields))
	if len(s.Properties) > 0 || extras != nil {
		body = append(body, t.codingKeysEnum(s))
	}
	if extras != nil {
		body = append(body, t.extrasDecode(s, *extras), t.extrasEncode(s, *extras))
	}

	return []ir.Decl{ir.CommentedDecl(doc, ir.StructDecl{
		Name:         name,
		Access:       t.access,
		Conformances: valueConformances,
		Fields:       fields,
		Decls:        body,
	})}, nil
}

// additionalPropertiesField returns the extras map field plus any payload
// declarations its value type needs, or nil when the schema closes its
// property set.
func (t *Translator) additionalPropertiesField(typeName ir.TypeName, s *openapi3.Schema) (*ir.StructField, []ir.Decl) {
	switch {
	case s.AdditionalProperties.Schema != nil:
		usage, decls, err := t.typeUsageForSchema(typeName, "additionalProperties", "additionalProperties", s.AdditionalProperties.Schema)
		if err != nil {
			usage, decls = ir.Usage(ir.ValueContainer), nil
		}
		mapped := ir.Usage(ir.Builtin("[String: " + usage.Render() + "]"))
		return &ir.StructField{
			Name:    "additionalProperties",
			Type:    mapped,
			Default: ir.Lit("[:]"),
			Comment: &ir.Comment{Doc: "A container of undocumented properties."},
		}, decls
	case s.AdditionalProperties.Has != nil && *s.AdditionalProperties.Has:
		return &ir.StructField{
			Name:    "additionalProperties",
			Type:    ir.Usage(ir.ObjectContainer),
			Default: ir.Call(ir.Dot("init")),
			Comment: &ir.Comment{Doc: "A container of undocumented properties."},
		}, nil
	default:
		return nil, nil
	}
}

// memberwiseInit builds the explicit-parameter-order initializer.
func (t *Translator) memberwiseInit(fields []ir.StructField) ir.Decl {
	params := make([]ir.ParameterDecl, 0, len(fields))
	body := make([]ir.Expr, 0, len(fields))
	for _, f := range fields {
		params = append(params, ir.ParameterDecl{
			Name:    f.Name,
			Type:    f.Type,
			Default: f.Default,
		})
		body = append(body, ir.AssignmentExpr{
			LHS: ir.Member(ir.Ident("self"), f.Name),
			RHS: ir.Ident(f.Name),
		})
	}
	return ir.FunctionDecl{
		Signature: ir.FunctionSignature{
			Keyword:    ir.KeywordInitializer,
			Access:     t.access,
			Parameters: params,
		},
		Body: body,
	}
}

// codingKeysEnum maps each Swift field back to its original JSON name.
func (t *Translator) codingKeysEnum(s *openapi3.Schema) ir.Decl {
	var cases []ir.EnumCaseDecl
	for _, prop := range sortedProperties(s) {
		cases = append(cases, ir.EnumCaseDecl{
			Name:     t.assigner.MemberName(prop),
			Kind:     ir.CaseRawValue,
			RawValue: `"` + prop + `"`,
		})
	}
	return ir.EnumDecl{
		Name:         "CodingKeys",
		Access:       t.access,
		RawType:      "String",
		Conformances: []string{"CodingKey"},
		Cases:        cases,
	}
}

// extrasDecode generates init(from:) decoding the known properties then
// collecting the undocumented ones.
func (t *Translator) extrasDecode(s *openapi3.Schema, extras ir.StructField) ir.Decl {
	var body []ir.Expr
	if len(s.Properties) > 0 {
		body = append(body, ir.Let("container", ir.Try(ir.Call(
			ir.Member(ir.Ident("decoder"), "container"),
			ir.Arg("keyedBy", ir.Member(ir.Ident("CodingKeys"), "self")),
		))))
		for _, prop := range sortedProperties(s) {
			member := t.assigner.MemberName(prop)
			method := "decode"
			if !isRequired(s, prop) || schemaIsNullable(s.Properties[prop]) {
				method = "decodeIfPresent"
			}
			body = append(body, ir.AssignmentExpr{
				LHS: ir.Ident(member),
				RHS: ir.Try(ir.Call(
					ir.Member(ir.Ident("container"), method),
					ir.Arg("", ir.Member(fieldBaseType(s, t, prop), "self")),
					ir.Arg("forKey", ir.Dot(member)),
				)),
			})
		}
	}
	body = append(body, ir.AssignmentExpr{
		LHS: ir.Ident("additionalProperties"),
		RHS: ir.Try(ir.Call(
			ir.Member(ir.Ident("decoder"), "decodeAdditionalProperties"),
			ir.Arg("knownKeys", knownKeysLiteral(s, t)),
		)),
	})
	return ir.FunctionDecl{
		Signature: ir.FunctionSignature{
			Keyword: ir.KeywordInitializer,
			Access:  t.access,
			Parameters: []ir.ParameterDecl{{
				Label: "from", Name: "decoder", Type: ir.Usage(ir.Builtin("any Decoder")),
			}},
			Throws: true,
		},
		Body: body,
	}
}

// extrasEncode generates encode(to:) writing known properties then the
// extras map.
func (t *Translator) extrasEncode(s *openapi3.Schema, extras ir.StructField) ir.Decl {
	var body []ir.Expr
	if len(s.Properties) > 0 {
		body = append(body, ir.BindingExpr{Kind: ir.BindVar, Name: "container", Value: ir.Call(
			ir.Member(ir.Ident("encoder"), "container"),
			ir.Arg("keyedBy", ir.Member(ir.Ident("CodingKeys"), "self")),
		)})
		for _, prop := range sortedProperties(s) {
			member := t.assigner.MemberName(prop)
			method := "encode"
			if !isRequired(s, prop) || schemaIsNullable(s.Properties[prop]) {
				method = "encodeIfPresent"
			}
			body = append(body, ir.Try(ir.Call(
				ir.Member(ir.Ident("container"), method),
				ir.Arg("", ir.Ident(member)),
				ir.Arg("forKey", ir.Dot(member)),
			)))
		}
	}
	body = append(body, ir.Try(ir.Call(
		ir.Member(ir.Ident("encoder"), "encodeAdditionalProperties"),
		ir.Arg("", ir.Ident("additionalProperties")),
	)))
	return ir.FunctionDecl{
		Signature: ir.FunctionSignature{
			Keyword: ir.KeywordFunc,
			Name:    "encode",
			Access:  t.access,
			Parameters: []ir.ParameterDecl{{
				Label: "to", Name: "encoder", Type: ir.Usage(ir.Builtin("any Encoder")),
			}},
			Throws: true,
		},
		Body: body,
	}
}

// knownKeysLiteral renders the set literal of documented property names.
func knownKeysLiteral(s *openapi3.Schema, t *Translator) ir.Expr {
	out := "["
	for i, prop := range sortedProperties(s) {
		if i > 0 {
			out += ", "
		}
		out += `"` + prop + `"`
	}
	return ir.Lit(out + "]")
}

// fieldBaseType renders the non-optional type expression of a property for
// container decode calls.
func fieldBaseType(s *openapi3.Schema, t *Translator, prop string) ir.Expr {
	usage, _, err := t.typeUsageForSchema(ir.Root, prop, t.assigner.MemberName(prop), s.Properties[prop])
	if err != nil {
		return ir.Ident(ir.ValueContainer.FullyQualifiedName())
	}
	return ir.Ident(usage.Render())
}

func propertyComment(typeName ir.TypeName, prop string, ref *openapi3.SchemaRef) *ir.Comment {
	doc := ""
	if ref != nil && ref.Value != nil && ref.Value.Description != "" {
		doc = ref.Value.Description + "\n\n"
	}
	doc += "- Remark: Generated from `" + typeName.JSONPath() + "/" + prop + "`."
	return &ir.Comment{Doc: doc}
}
