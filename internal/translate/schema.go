package translate

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/ir"
	"github.com/oaswift/oaswift/internal/parser"
)

// translateSchemaDecls produces the declarations for one named (or
// synthesized) schema at typeName.
func (t *Translator) translateSchemaDecls(typeName ir.TypeName, ref *openapi3.SchemaRef) ([]ir.Decl, error) {
	name := typeName.ShortName()
	doc := schemaDocComment(typeName, ref)

	if refTarget, ok := parser.RefName(ref.Ref); ok {
		usage := t.referenceUsage(refTarget)
		return []ir.Decl{ir.CommentedDecl(doc, ir.TypealiasDecl{
			Name: name, Access: t.access, Existing: usage,
		})}, nil
	}

	s := ref.Value
	if s == nil || isFragment(s) {
		return []ir.Decl{ir.CommentedDecl(doc, ir.TypealiasDecl{
			Name: name, Access: t.access, Existing: ir.Usage(ir.ValueContainer),
		})}, nil
	}

	if s.Default != nil {
		if err := diagnostic.Note(t.sink,
			fmt.Sprintf("schema default values are not generated, ignoring default at %s", typeName.JSONPath()),
			nil,
		); err != nil {
			return nil, err
		}
	}

	switch {
	case len(s.AllOf) > 0:
		return t.translateAllOf(typeName, s, doc)
	case len(s.OneOf) > 0:
		return t.translateOneOf(typeName, s, doc)
	case len(s.AnyOf) > 0:
		return t.translateAnyOf(typeName, s, doc)
	case len(s.Enum) > 0 && (s.Type.Is(openapi3.TypeString) || s.Type.Is(openapi3.TypeInteger)):
		return t.translateRawEnum(typeName, s, doc)
	case s.Type.Is(openapi3.TypeObject) || len(s.Properties) > 0:
		return t.translateObject(typeName, s, doc)
	case s.Type.Is(openapi3.TypeArray):
		// Inline item payloads become siblings of the typealias, so the
		// payload name carries the alias name as its prefix.
		itemUsage, inline, err := t.typeUsageForSchema(typeName.Parent(), "items", name+"Items", s.Items)
		if err != nil {
			return nil, err
		}
		decls := append([]ir.Decl(nil), inline...)
		decls = append(decls, ir.CommentedDecl(doc, ir.TypealiasDecl{
			Name: name, Access: t.access, Existing: itemUsage.AsArray(),
		}))
		return decls, nil
	case s.Type.Is(openapi3.TypeNull):
		return []ir.Decl{ir.CommentedDecl(doc, ir.TypealiasDecl{
			Name: name, Access: t.access, Existing: ir.Usage(ir.BuiltinVoid),
		})}, nil
	default:
		usage := primitiveUsage(s)
		return []ir.Decl{ir.CommentedDecl(doc, ir.TypealiasDecl{
			Name: name, Access: t.access, Existing: usage,
		})}, nil
	}
}

// referenceUsage builds the usage of a named component schema, boxing it
// when the reference analysis chose the target for indirection.
func (t *Translator) referenceUsage(schemaName string) ir.TypeUsage {
	if override, ok := t.cfg.TypeOverrides.Schemas[schemaName]; ok {
		return ir.Usage(ir.Builtin(override))
	}
	usage := ir.Usage(schemasTypeName().Appending(schemaName, t.assigner.TypeName(schemaName)))
	if t.isBoxed(schemaName) {
		usage.Boxed = true
	}
	return usage
}

// primitiveUsage maps a primitive schema to its builtin Swift type.
func primitiveUsage(s *openapi3.Schema) ir.TypeUsage {
	switch {
	case s.Type.Is(openapi3.TypeString):
		switch s.Format {
		case "date-time":
			return ir.Usage(ir.BuiltinDate)
		case "byte", "binary":
			return ir.Usage(ir.BuiltinData)
		default:
			return ir.Usage(ir.BuiltinString)
		}
	case s.Type.Is(openapi3.TypeInteger):
		switch s.Format {
		case "int32":
			return ir.Usage(ir.BuiltinInt32)
		case "int64":
			return ir.Usage(ir.BuiltinInt64)
		default:
			return ir.Usage(ir.BuiltinInt)
		}
	case s.Type.Is(openapi3.TypeNumber):
		if s.Format == "float" {
			return ir.Usage(ir.BuiltinFloat)
		}
		return ir.Usage(ir.BuiltinDouble)
	case s.Type.Is(openapi3.TypeBoolean):
		return ir.Usage(ir.BuiltinBool)
	default:
		return ir.Usage(ir.ValueContainer)
	}
}

// isFragment reports an empty schema with no constraining keywords: it
// accepts any value and maps to the opaque container.
func isFragment(s *openapi3.Schema) bool {
	return (s.Type == nil || len(*s.Type) == 0) &&
		len(s.Properties) == 0 && s.Items == nil &&
		len(s.AllOf) == 0 && len(s.OneOf) == 0 && len(s.AnyOf) == 0 &&
		s.Not == nil && len(s.Enum) == 0 &&
		s.AdditionalProperties.Schema == nil && s.AdditionalProperties.Has == nil
}

// typeUsageForProperty resolves the usage of a schema in property position,
// synthesizing a nested payload declaration when the schema is inline and
// structural. jsonName/swiftBase feed the payload type's name.
func (t *Translator) typeUsageForProperty(parent ir.TypeName, jsonName, swiftBase string, ref *openapi3.SchemaRef, required bool) (ir.TypeUsage, []ir.Decl, error) {
	usage, decls, err := t.typeUsageForSchema(parent, jsonName, swiftBase, ref)
	if err != nil {
		return ir.TypeUsage{}, nil, err
	}
	if !required || schemaIsNullable(ref) {
		usage = usage.AsOptional()
	}
	return usage, decls, nil
}

func schemaIsNullable(ref *openapi3.SchemaRef) bool {
	return ref != nil && ref.Value != nil && ref.Value.Nullable
}

// typeUsageForSchema is the schema-position core of usage resolution.
func (t *Translator) typeUsageForSchema(parent ir.TypeName, jsonName, swiftBase string, ref *openapi3.SchemaRef) (ir.TypeUsage, []ir.Decl, error) {
	if ref == nil {
		return ir.Usage(ir.ValueContainer), nil, nil
	}
	if refTarget, ok := parser.RefName(ref.Ref); ok {
		return t.referenceUsage(refTarget), nil, nil
	}
	s := ref.Value
	if s == nil || isFragment(s) {
		return ir.Usage(ir.ValueContainer), nil, nil
	}

	if s.Type.Is(openapi3.TypeArray) {
		itemUsage, decls, err := t.typeUsageForSchema(parent, jsonName, swiftBase, s.Items)
		if err != nil {
			return ir.TypeUsage{}, nil, err
		}
		return itemUsage.AsArray(), decls, nil
	}

	if needsNestedType(s) {
		payloadName := swiftBase + "Payload"
		nested := parent.Appending(jsonName, payloadName)
		decls, err := t.translateSchemaDecls(nested, ref)
		if err != nil {
			return ir.TypeUsage{}, nil, err
		}
		return ir.Usage(parent.Appending("", payloadName)), decls, nil
	}

	return primitiveUsage(s), nil, nil
}

// needsNestedType reports whether an inline schema requires its own
// declaration rather than a builtin reference.
func needsNestedType(s *openapi3.Schema) bool {
	if len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0 {
		return true
	}
	if s.Type.Is(openapi3.TypeObject) || len(s.Properties) > 0 {
		return true
	}
	if len(s.Enum) > 0 && (s.Type.Is(openapi3.TypeString) || s.Type.Is(openapi3.TypeInteger)) {
		return true
	}
	return false
}

// schemaDocComment folds the schema title and description into a doc
// comment carrying the JSON path.
func schemaDocComment(typeName ir.TypeName, ref *openapi3.SchemaRef) string {
	doc := ""
	if ref != nil && ref.Value != nil {
		if ref.Value.Title != "" {
			doc = ref.Value.Title + "\n\n"
		}
		if ref.Value.Description != "" {
			doc += ref.Value.Description + "\n\n"
		}
	}
	return doc + "- Remark: Generated from `" + typeName.JSONPath() + "`."
}

// sortedProperties returns property names sorted, which stands in for
// document order since the underlying map does not preserve it.
func sortedProperties(s *openapi3.Schema) []string {
	names := make([]string, 0, len(s.Properties))
	for n := range s.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func isRequired(s *openapi3.Schema, prop string) bool {
	for _, r := range s.Required {
		if r == prop {
			return true
		}
	}
	return false
}
