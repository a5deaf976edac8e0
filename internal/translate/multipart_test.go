package translate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oaswift/oaswift/internal/diagnostic"
)

const multipartDoc = docHeader2 + `
paths:
  /upload:
    post:
      operationId: uploadFiles
      requestBody:
        required: true
        content:
          multipart/form-data:
            schema:
              type: object
              properties:
                file:
                  type: array
                  items:
                    type: string
                    format: binary
                meta:
                  type: object
                  properties:
                    note:
                      type: string
                note:
                  type: string
              required: [file, meta]
              additionalProperties: false
      responses:
        "204":
          description: Uploaded.
`

// docHeader2 omits the paths key so documents can define their own.
const docHeader2 = `
openapi: 3.0.3
info:
  title: t
  version: "1"
`

func TestInferMultipartRequirements(t *testing.T) {
	tr, _ := newTranslator(t, multipartDoc, nil)
	op := tr.doc.Paths.Value("/upload").Post
	schema := op.RequestBody.Value.Content["multipart/form-data"].Schema.Value

	req := InferMultipartRequirements(schema)
	require.False(t, req.AllowsUnknownParts)
	require.Equal(t, map[string]bool{"file": true}, req.RequiredAtLeastOnce)
	require.Equal(t, map[string]bool{"meta": true}, req.RequiredExactlyOnce)
	require.Equal(t, map[string]bool{"note": true}, req.AtMostOnce)
	require.Empty(t, req.ZeroOrMore)
}

func TestInferMultipartRequirements_OpenByDefault(t *testing.T) {
	req := InferMultipartRequirements(nil)
	require.True(t, req.AllowsUnknownParts)
}

func TestTranslateOperations_MultipartBody(t *testing.T) {
	tr, rec := newTranslator(t, multipartDoc, nil)
	result, err := tr.TranslateOperations()
	require.NoError(t, err)
	require.Len(t, result.Descs, 1)
	require.Equal(t, ContentMultipart, result.Descs[0].RequestContents[0].Category)
	require.Contains(t, result.Descs[0].RequestContents[0].Usage.Render(), "OpenAPIRuntime.MultipartBody<")

	for _, d := range rec.Received {
		require.NotEqual(t, diagnostic.SeverityError, d.Severity, "unexpected error: %s", d.Message)
	}
}

func TestTranslateMultipart_TypedOpenPartsUnsupported(t *testing.T) {
	tr, rec := newTranslator(t, docHeader2+`
paths:
  /upload:
    post:
      operationId: upload
      requestBody:
        content:
          multipart/form-data:
            schema:
              type: object
              properties:
                name:
                  type: string
              additionalProperties:
                type: integer
      responses:
        "204":
          description: ok
`, nil)
	_, err := tr.TranslateOperations()
	require.NoError(t, err)

	var warned bool
	for _, d := range rec.Received {
		if d.Severity == diagnostic.SeverityWarning && d.Context["foundIn"] != "" {
			warned = true
		}
	}
	require.True(t, warned, "typed open parts should warn")
}

func TestRequirementsExpr(t *testing.T) {
	req := MultipartRequirements{
		AllowsUnknownParts:  false,
		RequiredExactlyOnce: map[string]bool{"meta": true},
		RequiredAtLeastOnce: map[string]bool{"file": true},
		AtMostOnce:          map[string]bool{"note": true},
		ZeroOrMore:          map[string]bool{},
	}
	got := exprToString(t, RequirementsExpr(req))
	require.Contains(t, got, "allowsUnknownParts: false")
	require.Contains(t, got, `requiredExactlyOncePartNames: ["meta"]`)
	require.Contains(t, got, `requiredAtLeastOncePartNames: ["file"]`)
	require.Contains(t, got, `atMostOncePartNames: ["note"]`)
	require.Contains(t, got, "zeroOrMorePartNames: []")
}
