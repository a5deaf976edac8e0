package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oaswift/oaswift/internal/ir"
)

const greetingDoc = docHeader2 + `
paths:
  /greeting:
    get:
      operationId: getGreeting
      summary: Returns a greeting.
      parameters:
        - name: name
          in: query
          schema:
            type: string
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

func TestTranslateOperations_InputOutputShape(t *testing.T) {
	tr, _ := newTranslator(t, greetingDoc, nil)
	result, err := tr.TranslateOperations()
	require.NoError(t, err)
	require.Len(t, result.Descs, 1)
	desc := result.Descs[0]
	require.Equal(t, "getGreeting", desc.Name)
	require.Equal(t, "GET", desc.Method)

	ns := unwrap(findDecl(t, result.Decls, "getGreeting")).(ir.EnumDecl)

	input := unwrap(findDecl(t, ns.Members, "Input")).(ir.StructDecl)
	// All four location structs exist, including empty ones.
	for _, name := range []string{"Path", "Query", "Headers", "Cookies"} {
		findDecl(t, input.Decls, name)
	}
	pathStruct := unwrap(findDecl(t, input.Decls, "Path")).(ir.StructDecl)
	require.Empty(t, pathStruct.Fields, "no path parameters declared")
	queryStruct := unwrap(findDecl(t, input.Decls, "Query")).(ir.StructDecl)
	require.Len(t, queryStruct.Fields, 1)
	require.True(t, queryStruct.Fields[0].Type.Optional)

	output := unwrap(findDecl(t, ns.Members, "Output")).(ir.EnumDecl)
	require.Equal(t, "ok", output.Cases[0].Name)
	require.Equal(t, "undocumented", output.Cases[len(output.Cases)-1].Name)
	undocumented := output.Cases[len(output.Cases)-1]
	require.Equal(t, "statusCode", undocumented.Associated[0].Label)
}

func TestTranslateOperations_IDConstant(t *testing.T) {
	tr, _ := newTranslator(t, greetingDoc, nil)
	result, err := tr.TranslateOperations()
	require.NoError(t, err)
	ns := unwrap(findDecl(t, result.Decls, "getGreeting")).(ir.EnumDecl)
	idVar := unwrap(findDecl(t, ns.Members, "id")).(ir.VariableDecl)
	require.True(t, idVar.Static)
	require.Equal(t, `"getGreeting"`, exprToString(t, idVar.Value))
}

func TestTranslateOperations_ProtocolMethod(t *testing.T) {
	tr, _ := newTranslator(t, greetingDoc, nil)
	result, err := tr.TranslateOperations()
	require.NoError(t, err)
	require.Len(t, result.Protocol.Functions, 1)
	fn := result.Protocol.Functions[0]
	require.Equal(t, "getGreeting", fn.Name)
	require.True(t, fn.Async)
	require.True(t, fn.Throws)
	require.Equal(t, "Operations.getGreeting.Output", fn.ReturnType.Render())
	require.Contains(t, result.Protocol.FunctionComments[0].Doc, "- Remark: HTTP `GET /greeting`.")
}

func TestTranslateOperations_MissingOperationIDDerivesName(t *testing.T) {
	tr, _ := newTranslator(t, docHeader2+`
paths:
  /pets/{petId}:
    get:
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
      responses:
        "204":
          description: ok
`, nil)
	result, err := tr.TranslateOperations()
	require.NoError(t, err)
	require.Equal(t, "getPetsPetId", result.Descs[0].Name)
}

func TestTranslateOperations_UnsupportedStyleSkipsParameter(t *testing.T) {
	tr, rec := newTranslator(t, docHeader2+`
paths:
  /search:
    get:
      operationId: search
      parameters:
        - name: filter
          in: query
          style: deepObject
          explode: true
          schema:
            type: object
            properties:
              kind:
                type: string
      responses:
        "204":
          description: ok
`, nil)
	result, err := tr.TranslateOperations()
	require.NoError(t, err)

	ns := unwrap(findDecl(t, result.Decls, "search")).(ir.EnumDecl)
	input := unwrap(findDecl(t, ns.Members, "Input")).(ir.StructDecl)
	queryStruct := unwrap(findDecl(t, input.Decls, "Query")).(ir.StructDecl)
	require.Empty(t, queryStruct.Fields, "unsupported-style parameter is skipped")

	var warned bool
	for _, d := range rec.Received {
		if strings.Contains(d.Message, "deepObject") {
			warned = true
		}
	}
	require.True(t, warned)
}

func TestTranslateOperations_DefaultResponse(t *testing.T) {
	tr, _ := newTranslator(t, docHeader2+`
paths:
  /health:
    get:
      operationId: health
      responses:
        "200":
          description: ok
        default:
          description: anything else
`, nil)
	result, err := tr.TranslateOperations()
	require.NoError(t, err)
	desc := result.Descs[0]
	require.Len(t, desc.Responses, 2)
	require.Equal(t, "ok", desc.Responses[0].CaseName)
	require.Equal(t, "default", desc.Responses[1].CaseName)
	require.Equal(t, "Default", desc.Responses[1].StructName)
}

func TestTranslateClient_Dispatch(t *testing.T) {
	tr, _ := newTranslator(t, greetingDoc, nil)
	ops, err := tr.TranslateOperations()
	require.NoError(t, err)
	decls, err := tr.TranslateClient(ops)
	require.NoError(t, err)
	got := renderDecl(t, decls[0])

	for _, want := range []string{
		"struct Client: APIProtocol {",
		"func getGreeting(_ input: Operations.getGreeting.Input) async throws -> Operations.getGreeting.Output {",
		`converter.renderedPath(template: "/greeting", parameters: [])`,
		"method: .get",
		`setQueryItemAsURI(in: &request, style: .form, explode: true, name: "name", value: input.query.name)`,
		"case 200:",
		"getResponseBodyAsJSON",
		"return .undocumented(statusCode: response.status.code",
	} {
		require.Contains(t, got, want)
	}
}

func TestTranslateServer_Registration(t *testing.T) {
	tr, _ := newTranslator(t, greetingDoc, nil)
	ops, err := tr.TranslateOperations()
	require.NoError(t, err)
	decls, err := tr.TranslateServer(ops)
	require.NoError(t, err)

	extension := renderDecl(t, decls[0])
	require.Contains(t, extension, "extension APIProtocol {")
	require.Contains(t, extension, "func registerHandlers(")
	require.Contains(t, extension, `apiPathComponentsWithServerPrefix(["greeting"])`)
	require.Contains(t, extension, "method: .get")

	handlers := renderDecl(t, decls[1])
	require.Contains(t, handlers, "UniversalServer where APIHandler: APIProtocol")
	require.Contains(t, handlers, "forOperation: Operations.getGreeting.id")
}
