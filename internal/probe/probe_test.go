package probe

import (
	"testing"

	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/parser"
)

const header = `
openapi: 3.0.3
info:
  title: t
  version: "1"
paths: {}
`

func probeSchema(t *testing.T, yaml, name string) Result {
	t.Helper()
	doc, err := parser.Parse([]byte(header+yaml), "test.yaml", diagnostic.NewErrorThrowing(&diagnostic.Recording{}))
	if err != nil {
		t.Fatal(err)
	}
	p := New(doc)
	return p.Check(doc.Components.Schemas[name], parser.ComponentPath(name))
}

func TestCheck_SupportedObject(t *testing.T) {
	r := probeSchema(t, `
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`, "Pet")
	if !r.Supported {
		t.Errorf("expected supported, got %+v", r)
	}
}

func TestCheck_NotSchema(t *testing.T) {
	r := probeSchema(t, `
components:
  schemas:
    X:
      not:
        type: string
`, "X")
	if r.Supported || r.Reason != ReasonSchemaType {
		t.Errorf("expected schemaType, got %+v", r)
	}
	if r.FoundIn != "#/components/schemas/X" {
		t.Errorf("unexpected foundIn %q", r.FoundIn)
	}
}

func TestCheck_EmptyAllOf(t *testing.T) {
	r := probeSchema(t, `
components:
  schemas:
    X:
      allOf: []
`, "X")
	if r.Supported || r.Reason != ReasonNoSubschemas {
		t.Errorf("expected noSubschemas, got %+v", r)
	}
}

func TestCheck_PropertyCycleIsBoxable(t *testing.T) {
	// Mutual recursion through optional properties is representable via
	// boxing, so the prober accepts it; the reference analyzer decides
	// which side gets the indirection.
	r := probeSchema(t, `
components:
  schemas:
    A:
      type: object
      properties:
        next:
          $ref: '#/components/schemas/B'
    B:
      type: object
      properties:
        next:
          $ref: '#/components/schemas/A'
`, "A")
	if !r.Supported {
		t.Errorf("expected supported, got %+v", r)
	}
}

func TestCheck_DiscriminatedOneOfNonObjectish(t *testing.T) {
	r := probeSchema(t, `
components:
  schemas:
    Kind:
      type: string
    Dog:
      type: object
      properties:
        kind:
          type: string
    Pet:
      oneOf:
        - $ref: '#/components/schemas/Dog'
        - $ref: '#/components/schemas/Kind'
      discriminator:
        propertyName: kind
`, "Pet")
	if r.Supported || r.Reason != ReasonNotObjectish {
		t.Errorf("expected notObjectish, got %+v", r)
	}
}

func TestCheck_DiscriminatedOneOfAllObjectish(t *testing.T) {
	r := probeSchema(t, `
components:
  schemas:
    Dog:
      type: object
      properties:
        kind:
          type: string
    Cat:
      allOf:
        - type: object
          properties:
            kind:
              type: string
    Pet:
      oneOf:
        - $ref: '#/components/schemas/Dog'
        - $ref: '#/components/schemas/Cat'
      discriminator:
        propertyName: kind
`, "Pet")
	if !r.Supported {
		t.Errorf("expected supported, got %+v", r)
	}
}

func TestCheck_ReferenceCycleOnPath(t *testing.T) {
	// The prober treats a revisit on the same expansion path as a cycle;
	// the reference analyzer is responsible for boxing genuine cycles
	// among named schemas, so this check guards the probe's own recursion.
	r := probeSchema(t, `
components:
  schemas:
    A:
      allOf:
        - $ref: '#/components/schemas/B'
    B:
      allOf:
        - $ref: '#/components/schemas/A'
`, "A")
	if r.Supported || r.Reason != ReasonReferenceCycle {
		t.Errorf("expected referenceCycle, got %+v", r)
	}
}

func TestSupportedParameterStyle(t *testing.T) {
	tests := []struct {
		in      string
		style   string
		explode bool
		want    bool
	}{
		{"path", "simple", false, true},
		{"path", "", false, true},
		{"path", "label", false, false},
		{"query", "form", true, true},
		{"query", "form", false, true},
		{"query", "deepObject", true, false},
		{"header", "simple", false, true},
		{"header", "simple", true, false},
		{"cookie", "form", false, true},
	}
	for _, tt := range tests {
		if got := SupportedParameterStyle(tt.in, tt.style, tt.explode); got != tt.want {
			t.Errorf("SupportedParameterStyle(%q, %q, %t) = %t, want %t", tt.in, tt.style, tt.explode, got, tt.want)
		}
	}
}
