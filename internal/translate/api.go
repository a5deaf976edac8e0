package translate

import (
	"github.com/oaswift/oaswift/internal/ir"
)

// TypesFile is the IR of a complete Types.swift: the API protocol, the
// Components namespace, and the Operations namespace.
type TypesFile struct {
	Protocol   ir.Decl
	Components ir.Decl
	Operations ir.Decl

	Schemas   *SchemasResult
	OpsResult *OperationsResult
}

// TranslateTypes runs schema and operation translation and assembles the
// namespaces of Types.swift.
func (t *Translator) TranslateTypes() (*TypesFile, error) {
	schemas, err := t.TranslateSchemas()
	if err != nil {
		return nil, err
	}
	ops, err := t.TranslateOperations()
	if err != nil {
		return nil, err
	}

	schemasNS := t.namespaceEnum("Schemas",
		"Types generated from the `#/components/schemas` section of the OpenAPI document.",
		schemas.Decls)
	componentsNS := t.namespaceEnum("Components",
		"Types generated from the components section of the OpenAPI document.",
		[]ir.Decl{schemasNS})
	operationsNS := t.namespaceEnum("Operations",
		"API operations, with one namespace per operation.",
		ops.Decls)

	return &TypesFile{
		Protocol:   ir.CommentedDecl("A type that performs HTTP operations defined by the OpenAPI document.", ops.Protocol),
		Components: componentsNS,
		Operations: operationsNS,
		Schemas:    schemas,
		OpsResult:  ops,
	}, nil
}
