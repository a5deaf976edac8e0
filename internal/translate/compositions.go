package translate

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/config"
	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/ir"
	"github.com/oaswift/oaswift/internal/parser"
)

// translateRawEnum produces a raw-value enum for a string or integer schema
// with an enum list: one nameOnly case per allowed value.
func (t *Translator) translateRawEnum(typeName ir.TypeName, s *openapi3.Schema, doc string) ([]ir.Decl, error) {
	name := typeName.ShortName()
	rawType := "String"
	if s.Type.Is(openapi3.TypeInteger) {
		rawType = "Int"
	}

	var cases []ir.EnumCaseDecl
	for _, value := range s.Enum {
		var caseName, raw string
		switch v := value.(type) {
		case string:
			caseName = t.assigner.MemberName(v)
			raw = `"` + v + `"`
		case float64:
			raw = fmt.Sprintf("%d", int64(v))
			caseName = t.assigner.MemberName(raw)
		case int:
			raw = fmt.Sprintf("%d", v)
			caseName = t.assigner.MemberName(raw)
		case nil:
			// A null member only signals nullability, which the usage
			// already carries.
			continue
		default:
			caseName = t.assigner.MemberName(fmt.Sprintf("%v", v))
			raw = fmt.Sprintf("%v", v)
		}
		cases = append(cases, ir.EnumCaseDecl{Name: caseName, Kind: ir.CaseRawValue, RawValue: raw})
	}

	return []ir.Decl{ir.CommentedDecl(doc, ir.EnumDecl{
		Name:         name,
		Access:       t.access,
		Frozen:       t.cfg.HasFeature(config.FeatureFrozenEnums),
		RawType:      rawType,
		Conformances: valueConformances,
		Cases:        cases,
	})}, nil
}

// translateAllOf merges subschemas by composition: the struct stores one
// value per subschema and the codable functions delegate to each in
// declaration order.
func (t *Translator) translateAllOf(typeName ir.TypeName, s *openapi3.Schema, doc string) ([]ir.Decl, error) {
	fields, nested, err := t.subschemaValueFields(typeName, s.AllOf, false)
	if err != nil {
		return nil, err
	}

	var decode []ir.Expr
	var encode []ir.Expr
	for _, f := range fields {
		decode = append(decode, ir.AssignmentExpr{
			LHS: ir.Ident(f.Name),
			RHS: ir.Try(ir.Call(ir.Dot("init"), ir.Arg("from", ir.Ident("decoder")))),
		})
		encode = append(encode, ir.Try(ir.Call(
			ir.Member(ir.Ident(f.Name), "encode"),
			ir.Arg("to", ir.Ident("encoder")),
		)))
	}

	body := append([]ir.Decl(nil), nested...)
	body = append(body,
		t.memberwiseInit(fields),
		t.decoderInit(decode),
		t.encoderFunc(encode),
	)

	return []ir.Decl{ir.CommentedDecl(doc, ir.StructDecl{
		Name:         typeName.ShortName(),
		Access:       t.access,
		Conformances: valueConformances,
		Fields:       fields,
		Decls:        body,
	})}, nil
}

// translateAnyOf stores one optional value per subschema; decoding accepts
// any combination but verifies at least one succeeded.
func (t *Translator) translateAnyOf(typeName ir.TypeName, s *openapi3.Schema, doc string) ([]ir.Decl, error) {
	fields, nested, err := t.subschemaValueFields(typeName, s.AnyOf, true)
	if err != nil {
		return nil, err
	}

	var decode []ir.Expr
	var encode []ir.Expr
	names := "["
	for i, f := range fields {
		decode = append(decode, ir.AssignmentExpr{
			LHS: ir.Ident(f.Name),
			RHS: ir.Lit("try? .init(from: decoder)"),
		})
		encode = append(encode, ir.Try(ir.Call(
			ir.Member(ir.OptionalChainExpr{Expr: ir.Ident(f.Name)}, "encode"),
			ir.Arg("to", ir.Ident("encoder")),
		)))
		if i > 0 {
			names += ", "
		}
		names += f.Name
	}
	names += "]"
	decode = append(decode, ir.Try(ir.Call(
		ir.Member(ir.Ident("Swift.DecodingError"), "verifyAtLeastOneSchemaIsNotNil"),
		ir.Arg("", ir.Lit(names)),
		ir.Arg("type", ir.Lit("Self.self")),
		ir.Arg("codingPath", ir.Member(ir.Ident("decoder"), "codingPath")),
	)))

	body := append([]ir.Decl(nil), nested...)
	body = append(body,
		t.memberwiseInit(fields),
		t.decoderInit(decode),
		t.encoderFunc(encode),
	)

	return []ir.Decl{ir.CommentedDecl(doc, ir.StructDecl{
		Name:         typeName.ShortName(),
		Access:       t.access,
		Conformances: valueConformances,
		Fields:       fields,
		Decls:        body,
	})}, nil
}

// translateOneOf produces an enum with one case per variant. With a
// discriminator the decoder reads the discriminator property first and
// dispatches; without one the variants are tried in declaration order.
func (t *Translator) translateOneOf(typeName ir.TypeName, s *openapi3.Schema, doc string) ([]ir.Decl, error) {
	if s.Discriminator != nil {
		return t.translateDiscriminatedOneOf(typeName, s, doc)
	}
	return t.translateUndiscriminatedOneOf(typeName, s, doc)
}

func (t *Translator) translateDiscriminatedOneOf(typeName ir.TypeName, s *openapi3.Schema, doc string) ([]ir.Decl, error) {
	property := s.Discriminator.PropertyName
	mapping := discriminatorMapping(s)

	var cases []ir.EnumCaseDecl
	var switchCases []ir.SwitchCaseExpr
	var encodeCases []ir.SwitchCaseExpr
	for _, entry := range mapping {
		caseName := t.assigner.MemberName(entry.key)
		usage := t.referenceUsage(entry.schemaName)
		cases = append(cases, ir.EnumCaseDecl{
			Name:       caseName,
			Kind:       ir.CaseAssociatedValues,
			Associated: []ir.AssociatedValue{{Type: usage}},
		})
		switchCases = append(switchCases, ir.SwitchCaseExpr{
			Pattern: ir.Str(entry.key),
			Body: []ir.Expr{ir.AssignmentExpr{
				LHS: ir.Ident("self"),
				RHS: ir.Call(ir.Dot(caseName), ir.Arg("", ir.Lit("try .init(from: decoder)"))),
			}},
		})
		encodeCases = append(encodeCases, ir.SwitchCaseExpr{
			Pattern: ir.Call(ir.Dot(caseName), ir.Arg("", ir.Lit("let value"))),
			Body: []ir.Expr{ir.Try(ir.Call(
				ir.Member(ir.Ident("value"), "encode"),
				ir.Arg("to", ir.Ident("encoder")),
			))},
		})
	}
	switchCases = append(switchCases, ir.SwitchCaseExpr{
		Body: []ir.Expr{ir.Throw(ir.Call(
			ir.Member(ir.Ident("Swift.DecodingError"), "unknownOneOfDiscriminator"),
			ir.Arg("discriminatorKey", ir.Member(ir.Ident("CodingKeys"), t.assigner.MemberName(property))),
			ir.Arg("discriminatorValue", ir.Ident("discriminator")),
			ir.Arg("codingPath", ir.Member(ir.Ident("decoder"), "codingPath")),
		))},
	})

	codingKeys := ir.EnumDecl{
		Name:         "CodingKeys",
		Access:       t.access,
		RawType:      "String",
		Conformances: []string{"CodingKey"},
		Cases: []ir.EnumCaseDecl{{
			Name: t.assigner.MemberName(property), Kind: ir.CaseRawValue, RawValue: `"` + property + `"`,
		}},
	}

	decode := []ir.Expr{
		ir.Let("container", ir.Try(ir.Call(
			ir.Member(ir.Ident("decoder"), "container"),
			ir.Arg("keyedBy", ir.Member(ir.Ident("CodingKeys"), "self")),
		))),
		ir.Let("discriminator", ir.Try(ir.Call(
			ir.Member(ir.Ident("container"), "decode"),
			ir.Arg("", ir.Lit("Swift.String.self")),
			ir.Arg("forKey", ir.Dot(t.assigner.MemberName(property))),
		))),
		ir.SwitchExpr{Over: ir.Ident("discriminator"), Cases: switchCases},
	}
	encode := []ir.Expr{ir.SwitchExpr{Over: ir.Ident("self"), Cases: encodeCases}}

	members := []ir.Decl{codingKeys, t.decoderInit(decode), t.encoderFunc(encode)}
	return []ir.Decl{ir.CommentedDecl(doc, ir.EnumDecl{
		Name:         typeName.ShortName(),
		Access:       t.access,
		Conformances: valueConformances,
		Cases:        cases,
		Members:      members,
	})}, nil
}

func (t *Translator) translateUndiscriminatedOneOf(typeName ir.TypeName, s *openapi3.Schema, doc string) ([]ir.Decl, error) {
	if first, second, ambiguous := findAmbiguousVariants(s.OneOf); ambiguous {
		if err := diagnostic.Warning(t.sink,
			fmt.Sprintf("oneOf without discriminator has variants %d and %d with the same JSON shape, decoding follows declaration order", first+1, second+1),
			map[string]string{"foundIn": typeName.JSONPath()},
		); err != nil {
			return nil, err
		}
	}

	var cases []ir.EnumCaseDecl
	var nested []ir.Decl
	var decode []ir.Expr
	var encodeCases []ir.SwitchCaseExpr

	decode = append(decode, ir.BindingExpr{
		Kind: ir.BindVar, Name: "errors", Value: ir.Lit("[any Error]()"),
	})
	for i, sub := range s.OneOf {
		caseName, usage, inline, err := t.oneOfCase(typeName, i, sub)
		if err != nil {
			return nil, err
		}
		nested = append(nested, inline...)
		cases = append(cases, ir.EnumCaseDecl{
			Name:       caseName,
			Kind:       ir.CaseAssociatedValues,
			Associated: []ir.AssociatedValue{{Type: usage}},
		})
		decode = append(decode, ir.DoCatchExpr{
			Do: []ir.Expr{
				ir.AssignmentExpr{
					LHS: ir.Ident("self"),
					RHS: ir.Call(ir.Dot(caseName), ir.Arg("", ir.Lit("try .init(from: decoder)"))),
				},
				ir.KeywordExpr{Keyword: ir.KeywordReturn},
			},
			Catch: []ir.Expr{ir.Call(
				ir.Member(ir.Ident("errors"), "append"),
				ir.Arg("", ir.Ident("error")),
			)},
		})
		encodeCases = append(encodeCases, ir.SwitchCaseExpr{
			Pattern: ir.Call(ir.Dot(caseName), ir.Arg("", ir.Lit("let value"))),
			Body: []ir.Expr{ir.Try(ir.Call(
				ir.Member(ir.Ident("value"), "encode"),
				ir.Arg("to", ir.Ident("encoder")),
			))},
		})
	}
	decode = append(decode, ir.Throw(ir.Call(
		ir.Member(ir.Ident("Swift.DecodingError"), "failedToDecodeOneOfSchema"),
		ir.Arg("type", ir.Lit("Self.self")),
		ir.Arg("codingPath", ir.Member(ir.Ident("decoder"), "codingPath")),
		ir.Arg("errors", ir.Ident("errors")),
	)))

	members := append(nested, t.decoderInit(decode), t.encoderFunc([]ir.Expr{
		ir.SwitchExpr{Over: ir.Ident("self"), Cases: encodeCases},
	}))
	return []ir.Decl{ir.CommentedDecl(doc, ir.EnumDecl{
		Name:         typeName.ShortName(),
		Access:       t.access,
		Conformances: valueConformances,
		Cases:        cases,
		Members:      members,
	})}, nil
}

// oneOfCase names one undiscriminated variant: references use the
// referenced type's member-cased name, inline schemas get caseN payloads.
func (t *Translator) oneOfCase(typeName ir.TypeName, index int, sub *openapi3.SchemaRef) (string, ir.TypeUsage, []ir.Decl, error) {
	if refTarget, ok := parser.RefName(sub.Ref); ok {
		return t.assigner.MemberName(refTarget), t.referenceUsage(refTarget), nil, nil
	}
	caseName := fmt.Sprintf("case%d", index+1)
	usage, inline, err := t.typeUsageForSchema(typeName, fmt.Sprintf("oneOf/%d", index), "Case"+fmt.Sprint(index+1), sub)
	if err != nil {
		return "", ir.TypeUsage{}, nil, err
	}
	return caseName, usage, inline, nil
}

// subschemaValueFields builds the value1..valueN fields of an allOf/anyOf
// struct. References use the referenced type; inline subschemas get
// Value{N}Payload declarations.
func (t *Translator) subschemaValueFields(typeName ir.TypeName, subs openapi3.SchemaRefs, optional bool) ([]ir.StructField, []ir.Decl, error) {
	var fields []ir.StructField
	var nested []ir.Decl
	for i, sub := range subs {
		fieldName := fmt.Sprintf("value%d", i+1)
		var usage ir.TypeUsage
		if refTarget, ok := parser.RefName(sub.Ref); ok {
			usage = t.referenceUsage(refTarget)
		} else {
			u, inline, err := t.typeUsageForSchema(typeName, fmt.Sprintf("value%d", i+1), fmt.Sprintf("Value%d", i+1), sub)
			if err != nil {
				return nil, nil, err
			}
			usage = u
			nested = append(nested, inline...)
		}
		field := ir.StructField{Name: fieldName, Type: usage}
		if optional {
			field.Type = field.Type.AsOptional()
			field.Default = ir.Lit("nil")
		}
		fields = append(fields, field)
	}
	return fields, nested, nil
}

// decoderInit wraps a decode body in "init(from decoder: any Decoder) throws".
func (t *Translator) decoderInit(body []ir.Expr) ir.Decl {
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

// encoderFunc wraps an encode body in "func encode(to encoder: any Encoder) throws".
func (t *Translator) encoderFunc(body []ir.Expr) ir.Decl {
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

// findAmbiguousVariants detects two object variants with identical
// property-name sets, which makes order-sensitive decoding ambiguous.
func findAmbiguousVariants(subs openapi3.SchemaRefs) (int, int, bool) {
	shapes := make([]string, len(subs))
	for i, sub := range subs {
		if sub == nil || sub.Value == nil || !(sub.Value.Type.Is(openapi3.TypeObject) || len(sub.Value.Properties) > 0) {
			continue
		}
		names := make([]string, 0, len(sub.Value.Properties))
		for n := range sub.Value.Properties {
			names = append(names, n)
		}
		sort.Strings(names)
		shapes[i] = "{" + fmt.Sprint(names) + "}"
	}
	for i := range shapes {
		for j := i + 1; j < len(shapes); j++ {
			if shapes[i] != "" && shapes[i] == shapes[j] {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// discriminatorEntry pairs a discriminator value with its target schema.
type discriminatorEntry struct {
	key        string
	schemaName string
}

// discriminatorMapping resolves the discriminator's mapping, deriving
// entries from the variant references when the mapping is absent. Entries
// are sorted by key.
func discriminatorMapping(s *openapi3.Schema) []discriminatorEntry {
	var entries []discriminatorEntry
	if len(s.Discriminator.Mapping) > 0 {
		for key, ref := range s.Discriminator.Mapping {
			if name, ok := parser.RefName(ref); ok {
				entries = append(entries, discriminatorEntry{key: key, schemaName: name})
			}
		}
	} else {
		for _, sub := range s.OneOf {
			if name, ok := parser.RefName(sub.Ref); ok {
				entries = append(entries, discriminatorEntry{key: name, schemaName: name})
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries
}
