package docfilter

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"

	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/parser"
)

const petstore = `
openapi: 3.0.3
info:
  title: Pet Store
  version: "1"
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      responses:
        "200":
          description: Pets.
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
  /orders:
    get:
      operationId: listOrders
      tags: [orders]
      responses:
        "200":
          description: Orders.
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Order'
components:
  schemas:
    Pet:
      type: object
      properties:
        tag:
          $ref: '#/components/schemas/Tag'
    Tag:
      type: string
    Order:
      type: object
      properties:
        id:
          type: integer
    Unreferenced:
      type: boolean
`

func load(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := parser.Parse([]byte(petstore), "petstore.yaml", diagnostic.NewErrorThrowing(&diagnostic.Recording{}))
	require.NoError(t, err)
	return doc
}

func schemaNames(doc *openapi3.T) []string {
	if doc.Components == nil {
		return nil
	}
	var names []string
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	return names
}

func TestApply_EmptySpecIsIdentity(t *testing.T) {
	doc := load(t)
	filtered := Apply(doc, Spec{})
	require.Same(t, doc, filtered)
}

func TestApply_ByTagWithClosure(t *testing.T) {
	doc := load(t)
	filtered := Apply(doc, Spec{Tags: []string{"pets"}})

	require.NotNil(t, filtered.Paths.Value("/pets"))
	require.Nil(t, filtered.Paths.Value("/orders"))
	// Pet pulls in Tag transitively; Order and Unreferenced are dropped.
	require.ElementsMatch(t, []string{"Pet", "Tag"}, schemaNames(filtered))
}

func TestApply_ByOperationID(t *testing.T) {
	doc := load(t)
	filtered := Apply(doc, Spec{OperationIDs: []string{"listOrders"}})
	require.Nil(t, filtered.Paths.Value("/pets"))
	require.NotNil(t, filtered.Paths.Value("/orders"))
	require.ElementsMatch(t, []string{"Order"}, schemaNames(filtered))
}

func TestApply_ByPath(t *testing.T) {
	doc := load(t)
	filtered := Apply(doc, Spec{Paths: []string{"/pets"}})
	require.NotNil(t, filtered.Paths.Value("/pets"))
	require.Nil(t, filtered.Paths.Value("/orders"))
}

func TestApply_BySchemaName(t *testing.T) {
	doc := load(t)
	filtered := Apply(doc, Spec{SchemaNames: []string{"Pet"}})
	require.Equal(t, 0, filtered.Paths.Len())
	require.ElementsMatch(t, []string{"Pet", "Tag"}, schemaNames(filtered))
}

func TestApply_UnionOfSelectors(t *testing.T) {
	doc := load(t)
	filtered := Apply(doc, Spec{OperationIDs: []string{"listPets"}, SchemaNames: []string{"Order"}})
	require.NotNil(t, filtered.Paths.Value("/pets"))
	require.ElementsMatch(t, []string{"Pet", "Tag", "Order"}, schemaNames(filtered))
}

func TestApply_Idempotent(t *testing.T) {
	doc := load(t)
	spec := Spec{Tags: []string{"pets"}}
	once := Apply(doc, spec)
	twice := Apply(once, spec)
	require.ElementsMatch(t, schemaNames(once), schemaNames(twice))
	require.Equal(t, once.Paths.Len(), twice.Paths.Len())
}

func TestApply_AllTagsEqualsIdentityOnOperations(t *testing.T) {
	doc := load(t)
	filtered := Apply(doc, Spec{Tags: []string{"pets", "orders"}})
	require.Equal(t, doc.Paths.Len(), filtered.Paths.Len())
}
