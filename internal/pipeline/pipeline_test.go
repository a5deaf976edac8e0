package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oaswift/oaswift/internal/config"
	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/docfilter"
)

const greetingDoc = `
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
                required: [message]
`

func runPipeline(t *testing.T, doc string, cfg *config.Config) ([]OutputFile, *diagnostic.Recording) {
	t.Helper()
	if cfg == nil {
		defaults := config.DefaultConfig()
		cfg = &defaults
	}
	rec := &diagnostic.Recording{}
	files, _, err := Run([]byte(doc), "openapi.yaml", cfg, diagnostic.NewErrorThrowing(rec))
	require.NoError(t, err)
	return files, rec
}

func TestRun_TypesMode(t *testing.T) {
	files, _ := runPipeline(t, greetingDoc, nil)
	require.Len(t, files, 1)
	require.Equal(t, "Types.swift", files[0].Name)

	content := string(files[0].Contents)
	for _, want := range []string{
		"protocol APIProtocol",
		"enum Components",
		"enum Schemas",
		"enum Operations",
		"enum getGreeting",
		"struct Input",
		"enum Output",
		"case ok(Operations.getGreeting.Output.Ok)",
		"case undocumented(statusCode: Swift.Int, OpenAPIRuntime.UndocumentedPayload)",
		`static let id: Swift.String = "getGreeting"`,
		"func getGreeting(_ input: Operations.getGreeting.Input) async throws -> Operations.getGreeting.Output",
	} {
		require.Contains(t, content, want, "Types.swift should contain %q", want)
	}
}

func TestRun_ClientMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeClient
	files, _ := runPipeline(t, greetingDoc, &cfg)
	require.Len(t, files, 1)
	require.Equal(t, "Client.swift", files[0].Name)

	content := string(files[0].Contents)
	require.Contains(t, content, "struct Client: APIProtocol")
	require.Contains(t, content, "import HTTPTypes")
	require.Contains(t, content, "method: .get")
	require.Contains(t, content, "case 200:")
	require.Contains(t, content, "getResponseBodyAsJSON")
}

func TestRun_ServerMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeServer
	files, _ := runPipeline(t, greetingDoc, &cfg)
	require.Len(t, files, 1)
	require.Equal(t, "Server.swift", files[0].Name)

	content := string(files[0].Contents)
	require.Contains(t, content, "func registerHandlers(")
	require.Contains(t, content, `apiPathComponentsWithServerPrefix(["greeting"])`)
	require.Contains(t, content, "setResponseBodyAsJSON")
}

func TestRun_Deterministic(t *testing.T) {
	first, _ := runPipeline(t, greetingDoc, nil)
	second, _ := runPipeline(t, greetingDoc, nil)
	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].Name, second[i].Name)
		require.True(t, bytes.Equal(first[i].Contents, second[i].Contents),
			"repeated runs must be byte-identical")
	}
}

func TestRun_UnsupportedSchemaSkippedWithWarning(t *testing.T) {
	doc := `
openapi: 3.0.3
info:
  title: t
  version: "1"
paths: {}
components:
  schemas:
    X:
      not:
        type: string
    Y:
      type: string
`
	files, rec := runPipeline(t, doc, nil)
	content := string(files[0].Contents)
	require.NotContains(t, content, "typealias X")
	require.Contains(t, content, "typealias Y")

	var found bool
	for _, d := range rec.Received {
		if d.Severity == diagnostic.SeverityWarning &&
			d.Message == `Feature "Schema type 'not'" is not supported, skipping` &&
			d.Context["foundIn"] == "#/components/schemas/X" {
			found = true
		}
	}
	require.True(t, found, "expected the unsupported-feature warning, got %+v", rec.Received)
}

func TestRun_VersionErrorAborts(t *testing.T) {
	cfg := config.DefaultConfig()
	rec := &diagnostic.Recording{}
	_, _, err := Run([]byte("openapi: 9.9.9\npaths: {}\n"), "openapi.yaml", &cfg, diagnostic.NewErrorThrowing(rec))
	require.Error(t, err)
	var failure *diagnostic.Failure
	require.ErrorAs(t, err, &failure)
}

func TestRun_FilterDropsUnreachableSchemas(t *testing.T) {
	doc := `
openapi: 3.0.3
info:
  title: t
  version: "1"
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
  /orders:
    get:
      operationId: listOrders
      tags: [orders]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Order'
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
    Order:
      type: object
      properties:
        id:
          type: integer
`
	cfg := config.DefaultConfig()
	cfg.Filter = &docfilter.Spec{Tags: []string{"pets"}}
	files, _ := runPipeline(t, doc, &cfg)
	content := string(files[0].Contents)
	require.Contains(t, content, "struct Pet")
	require.NotContains(t, content, "struct Order")
	require.Contains(t, content, "enum listPets")
	require.NotContains(t, content, "enum listOrders")
}

func TestRun_ShardedOutput(t *testing.T) {
	doc := `
openapi: 3.0.3
info:
  title: t
  version: "1"
paths:
  /es:
    get:
      operationId: getE
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/E'
components:
  schemas:
    A:
      type: string
    B:
      type: string
    C:
      type: object
      properties:
        a:
          $ref: '#/components/schemas/A'
    D:
      type: object
      properties:
        b:
          $ref: '#/components/schemas/B'
    E:
      type: object
      properties:
        c:
          $ref: '#/components/schemas/C'
        d:
          $ref: '#/components/schemas/D'
`
	cfg := config.DefaultConfig()
	cfg.Sharding = &config.ShardingConfig{Enabled: true}
	files, _ := runPipeline(t, doc, &cfg)

	byName := map[string]string{}
	for _, f := range files {
		byName[f.Name] = string(f.Contents)
	}
	require.Contains(t, byName, "Types_root.swift")
	require.Contains(t, byName, "Components_base.swift")
	require.Contains(t, byName, "Components_1_1.swift")
	require.Contains(t, byName, "Types_L2_1_1.swift")
	require.Contains(t, byName, "Types_L3_1_1.swift")
	require.Contains(t, byName, "Operations_base.swift")

	require.Contains(t, byName["Types_root.swift"], "protocol APIProtocol")
	require.Contains(t, byName["Components_1_1.swift"], "typealias A")
	require.Contains(t, byName["Components_1_1.swift"], "typealias B")
	require.Contains(t, byName["Types_L2_1_1.swift"], "struct C")
	require.Contains(t, byName["Types_L2_1_1.swift"], "struct D")
	require.Contains(t, byName["Types_L3_1_1.swift"], "struct E")

	// Layering: no earlier file mentions a type declared in a later one.
	require.NotContains(t, byName["Components_1_1.swift"], "Components.Schemas.E")
	require.NotContains(t, byName["Types_L2_1_1.swift"], "Components.Schemas.E")
}

func TestRun_EmptyLocationStructs(t *testing.T) {
	files, _ := runPipeline(t, greetingDoc, nil)
	content := string(files[0].Contents)
	// An operation with no parameters in a location still gets its struct.
	require.Contains(t, content, "struct Path")
	require.Contains(t, content, "struct Cookies")
}

func TestRun_HeaderLine(t *testing.T) {
	files, _ := runPipeline(t, greetingDoc, nil)
	require.True(t, strings.HasPrefix(string(files[0].Contents), "// Generated by oaswift."))
}
