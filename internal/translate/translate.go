// Package translate converts the parsed OpenAPI document into the Swift
// declaration IR: named schemas become type declarations, operations become
// Input/Output types plus client and server glue.
package translate

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/config"
	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/ir"
	"github.com/oaswift/oaswift/internal/naming"
	"github.com/oaswift/oaswift/internal/parser"
	"github.com/oaswift/oaswift/internal/probe"
	"github.com/oaswift/oaswift/internal/refgraph"
)

// Translator drives schema and operation translation for one document.
type Translator struct {
	doc      *openapi3.T
	cfg      *config.Config
	assigner *naming.Assigner
	prober   *probe.Prober
	sink     diagnostic.Collector
	analysis *refgraph.Analysis
	access   ir.AccessModifier
}

// New creates a Translator. The reference analysis decides which schema
// types are boxed; pass the result of refgraph.Analyze over the document's
// schema graph.
func New(doc *openapi3.T, cfg *config.Config, analysis *refgraph.Analysis, sink diagnostic.Collector) *Translator {
	access := ir.AccessModifier(cfg.Access)
	if access == "" {
		access = ir.AccessInternal
	}
	return &Translator{
		doc:      doc,
		cfg:      cfg,
		assigner: naming.New(naming.Strategy(cfg.NamingStrategy), cfg.NameOverrides),
		prober:   probe.New(doc),
		sink:     sink,
		analysis: analysis,
		access:   access,
	}
}

// componentsTypeName is the root of the Components.Schemas namespace.
func componentsTypeName() ir.TypeName {
	return ir.Root.Appending("components", "Components")
}

func schemasTypeName() ir.TypeName {
	return componentsTypeName().Appending("schemas", "Schemas")
}

// SchemasResult carries the translated component schemas with their layer
// assignment for sharding.
type SchemasResult struct {
	// Decls are the declarations inside the Components.Schemas enum
	// namespace, in emission order.
	Decls []ir.Decl
	// LayerOf maps the Swift short name of each declaration to its schema
	// layer. Declarations without a graph node sit on layer 0.
	LayerOf map[string]int
}

// TranslateSchemas translates every named component schema into its
// declarations, in deterministic order. Unsupported schemas are skipped
// with a warning.
func (t *Translator) TranslateSchemas() (*SchemasResult, error) {
	result := &SchemasResult{LayerOf: map[string]int{}}
	if t.doc.Components == nil {
		return result, nil
	}

	names := make([]string, 0, len(t.doc.Components.Schemas))
	for name := range t.doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	dedup := naming.NewDeduplicator()
	for _, name := range names {
		schemaRef := t.doc.Components.Schemas[name]
		foundIn := parser.ComponentPath(name)

		if override, ok := t.cfg.TypeOverrides.Schemas[name]; ok {
			swiftName := t.claimTypeName(dedup, name)
			decl := ir.TypealiasDecl{
				Name:     swiftName,
				Access:   t.access,
				Existing: ir.Usage(ir.Builtin(override)),
			}
			result.Decls = append(result.Decls, ir.CommentedDecl(
				fmt.Sprintf("Externally defined type for the schema at `%s`.", foundIn), decl))
			result.LayerOf[swiftName] = t.layerOf(name)
			continue
		}

		if r := t.prober.Check(schemaRef, foundIn); !r.Supported {
			if err := probe.WarnUnsupported(t.sink, r, featureName(schemaRef, r)); err != nil {
				return nil, err
			}
			continue
		}

		swiftName := t.claimTypeName(dedup, name)
		typeName := schemasTypeName().Appending(name, swiftName)
		decls, err := t.translateSchemaDecls(typeName, schemaRef)
		if err != nil {
			return nil, err
		}
		if schemaRef.Value != nil && schemaRef.Value.Deprecated {
			for i := range decls {
				decls[i] = ir.Deprecated{Decl: decls[i]}
			}
		}
		result.Decls = append(result.Decls, decls...)
		result.LayerOf[swiftName] = t.layerOf(name)
	}
	return result, nil
}

// claimTypeName assigns a collision-free Swift name, warning on duplicates.
func (t *Translator) claimTypeName(dedup *naming.Deduplicator, name string) string {
	swiftName, collided := dedup.Claim(t.assigner.TypeName(name))
	if collided {
		// Best effort; an emit failure here surfaces on the next emit.
		_ = diagnostic.Warning(t.sink,
			fmt.Sprintf("type name collision for %q, renamed to %q", name, swiftName),
			map[string]string{"foundIn": parser.ComponentPath(name)})
	}
	return swiftName
}

func (t *Translator) layerOf(schemaName string) int {
	if t.analysis == nil {
		return 0
	}
	return t.analysis.Layer[schemaName]
}

// isBoxed reports whether the named schema was chosen for indirection.
func (t *Translator) isBoxed(schemaName string) bool {
	return t.analysis != nil && t.analysis.Boxed[schemaName]
}

// featureName renders the user-facing feature description for an
// unsupported probe result.
func featureName(ref *openapi3.SchemaRef, r probe.Result) string {
	switch r.Reason {
	case probe.ReasonSchemaType:
		return "Schema type 'not'"
	case probe.ReasonNoSubschemas:
		return "Schema composition with no subschemas"
	case probe.ReasonNotObjectish:
		return "Discriminated oneOf with a non-object variant"
	case probe.ReasonReferenceCycle:
		return "Unsupported reference cycle"
	default:
		return "Schema"
	}
}

// namespaceEnum wraps declarations in an empty enum used as a namespace.
func (t *Translator) namespaceEnum(name string, doc string, members []ir.Decl) ir.Decl {
	return ir.CommentedDecl(doc, ir.EnumDecl{
		Name:    name,
		Access:  t.access,
		Members: members,
	})
}
