package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oaswift/oaswift/internal/diagnostic"
)

const minimalDoc = `
openapi: 3.1.0
info:
  title: Greeting Service
  version: 1.0.0
paths:
  /greeting:
    get:
      operationId: getGreeting
      responses:
        "200":
          description: A greeting.
          content:
            application/json:
              schema:
                type: object
                properties:
                  message:
                    type: string
                required:
                  - message
`

func TestParse_AcceptsSupportedVersions(t *testing.T) {
	for _, version := range []string{"3.0.0", "3.0.3", "3.1.0"} {
		doc := strings.Replace(minimalDoc, "3.1.0", version, 1)
		rec := &diagnostic.Recording{}
		parsed, err := Parse([]byte(doc), "openapi.yaml", diagnostic.NewErrorThrowing(rec))
		require.NoError(t, err, "version %s", version)
		require.NotNil(t, parsed.Paths.Value("/greeting"))
	}
}

func TestParse_RejectsUnknownVersion(t *testing.T) {
	doc := strings.Replace(minimalDoc, "3.1.0", "2.0.0", 1)
	rec := &diagnostic.Recording{}
	_, err := Parse([]byte(doc), "openapi.yaml", diagnostic.NewErrorThrowing(rec))
	require.Error(t, err)
	require.Len(t, rec.Received, 1)
	d := rec.Received[0]
	require.Equal(t, diagnostic.SeverityError, d.Severity)
	require.Contains(t, d.Message, `unsupported OpenAPI document version "2.0.0"`)
	require.NotNil(t, d.Location)
	require.Equal(t, "openapi.yaml", d.Location.File)
	require.Equal(t, 2, d.Location.Line, "should point at the openapi key's line")
}

func TestParse_RejectsMissingVersion(t *testing.T) {
	rec := &diagnostic.Recording{}
	_, err := Parse([]byte("info:\n  title: x\n  version: '1'\n"), "openapi.yaml", diagnostic.NewErrorThrowing(rec))
	require.Error(t, err)
	require.Contains(t, rec.Received[0].Message, "missing 'openapi' version field")
}

func TestParse_RejectsMalformedYAML(t *testing.T) {
	rec := &diagnostic.Recording{}
	_, err := Parse([]byte("openapi: 3.1.0\n\tbad: indent"), "openapi.yaml", diagnostic.NewErrorThrowing(rec))
	require.Error(t, err)
}

func TestParse_ResolvesRefs(t *testing.T) {
	doc := `
openapi: 3.0.3
info:
  title: t
  version: "1"
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        friend:
          $ref: '#/components/schemas/Pet2'
    Pet2:
      type: string
`
	rec := &diagnostic.Recording{}
	parsed, err := Parse([]byte(doc), "openapi.yaml", diagnostic.NewErrorThrowing(rec))
	require.NoError(t, err)
	friend := parsed.Components.Schemas["Pet"].Value.Properties["friend"]
	require.Equal(t, "#/components/schemas/Pet2", friend.Ref)
	require.NotNil(t, friend.Value, "reference should be resolved")
}

func TestParse_UnresolvedRefIsError(t *testing.T) {
	doc := `
openapi: 3.0.3
info:
  title: t
  version: "1"
paths: {}
components:
  schemas:
    Pet:
      $ref: '#/components/schemas/Missing'
`
	rec := &diagnostic.Recording{}
	_, err := Parse([]byte(doc), "openapi.yaml", diagnostic.NewErrorThrowing(rec))
	require.Error(t, err)
}

func TestNormalize_TypeArrayWithNull(t *testing.T) {
	in := []byte(`
type: [string, "null"]
`)
	out, err := Normalize(in)
	require.NoError(t, err)
	s := string(out)
	require.Contains(t, s, "type: string")
	require.Contains(t, s, "nullable: true")
}

func TestNormalize_SingletonTypeArray(t *testing.T) {
	out, err := Normalize([]byte("type: [integer]\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "type: integer")
	require.NotContains(t, string(out), "nullable")
}

func TestNormalize_ExclusiveBounds(t *testing.T) {
	out, err := Normalize([]byte("type: number\nexclusiveMinimum: 3\n"))
	require.NoError(t, err)
	s := string(out)
	require.Contains(t, s, "exclusiveMinimum: true")
	require.Contains(t, s, "minimum: 3")
}

func TestRefName(t *testing.T) {
	name, ok := RefName("#/components/schemas/Pet")
	if !ok || name != "Pet" {
		t.Errorf("got (%q, %t)", name, ok)
	}
	if _, ok := RefName("#/components/parameters/Limit"); ok {
		t.Error("non-schema ref should not resolve to a schema name")
	}
	if _, ok := RefName(""); ok {
		t.Error("empty ref should not resolve")
	}
}
