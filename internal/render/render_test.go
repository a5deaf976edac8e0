package render

import (
	"strings"
	"testing"

	"github.com/oaswift/oaswift/internal/ir"
)

func TestEmitterLineAndBlock(t *testing.T) {
	e := NewEmitter()
	e.Block("struct Pet")
	e.Line("var name: Swift.String")
	e.EndBlock()
	want := "struct Pet {\n    var name: Swift.String\n}\n"
	if got := e.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderStruct(t *testing.T) {
	e := NewEmitter()
	RenderDecl(e, ir.StructDecl{
		Name:         "Pet",
		Access:       ir.AccessPublic,
		Conformances: []string{"Codable", "Hashable", "Sendable"},
		Fields: []ir.StructField{
			{Name: "name", Type: ir.Usage(ir.BuiltinString)},
			{Name: "age", Type: ir.Usage(ir.BuiltinInt).AsOptional()},
		},
	})
	got := e.String()
	for _, want := range []string{
		"public struct Pet: Codable, Hashable, Sendable {",
		"public var name: Swift.String",
		"public var age: Swift.Int?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderEnumWithRawValues(t *testing.T) {
	e := NewEmitter()
	RenderDecl(e, ir.EnumDecl{
		Name:         "Color",
		Access:       ir.AccessInternal,
		RawType:      "String",
		Conformances: []string{"Codable"},
		Cases: []ir.EnumCaseDecl{
			{Name: "red", Kind: ir.CaseRawValue, RawValue: `"red"`},
			{Name: "blue", Kind: ir.CaseRawValue, RawValue: `"blue"`},
		},
	})
	got := e.String()
	if !strings.Contains(got, "internal enum Color: String, Codable {") {
		t.Errorf("raw type should lead the conformance list:\n%s", got)
	}
	if !strings.Contains(got, `case red = "red"`) {
		t.Errorf("missing raw-value case:\n%s", got)
	}
}

func TestRenderFrozenEnum(t *testing.T) {
	e := NewEmitter()
	RenderDecl(e, ir.EnumDecl{Name: "E", Frozen: true, Cases: []ir.EnumCaseDecl{{Name: "a"}}})
	if !strings.HasPrefix(e.String(), "@frozen\n") {
		t.Errorf("missing @frozen attribute:\n%s", e.String())
	}
}

func TestRenderDeprecated(t *testing.T) {
	e := NewEmitter()
	RenderDecl(e, ir.Deprecated{
		Info: ir.DeprecationInfo{Message: "use v2"},
		Decl: ir.TypealiasDecl{Name: "Old", Existing: ir.Usage(ir.BuiltinString)},
	})
	got := e.String()
	if !strings.Contains(got, `@available(*, deprecated, message: "use v2")`) {
		t.Errorf("missing deprecation attribute:\n%s", got)
	}
}

func TestRenderDocCommentFolding(t *testing.T) {
	long := strings.Repeat("word ", 40) // well past the wrap column
	e := NewEmitter()
	RenderDecl(e, ir.Commentable{
		Comment: &ir.Comment{Doc: strings.TrimSpace(long)},
		Decl:    ir.TypealiasDecl{Name: "T", Existing: ir.Usage(ir.BuiltinString)},
	})
	for _, line := range strings.Split(e.String(), "\n") {
		if strings.HasPrefix(line, "///") && len(line) > maxDocColumn+4 {
			t.Errorf("doc line exceeds wrap column: %q", line)
		}
	}
}

func TestRenderSwitchStatement(t *testing.T) {
	e := NewEmitter()
	renderStatement(e, ir.SwitchExpr{
		Over: ir.Ident("self"),
		Cases: []ir.SwitchCaseExpr{
			{Pattern: ir.Dot("a"), Body: []ir.Expr{ir.Ret(ir.Lit("1"))}},
			{Body: []ir.Expr{ir.Ret(ir.Lit("0"))}},
		},
	})
	want := "switch self {\ncase .a:\n    return 1\ndefault:\n    return 0\n}\n"
	if got := e.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestExprString(t *testing.T) {
	tests := []struct {
		expr ir.Expr
		want string
	}{
		{ir.Try(ir.Await(ir.Call(ir.Member(ir.Ident("client"), "send"), ir.Arg("input", ir.Ident("input"))))), "try await client.send(input: input)"},
		{ir.InOutExpr{Expr: ir.Ident("request")}, "&request"},
		{ir.OptionalChainExpr{Expr: ir.Ident("value")}, "value?"},
		{ir.BinaryOpExpr{LHS: ir.Ident("a"), Op: "==", RHS: ir.Ident("b")}, "a == b"},
		{ir.TupleExpr{Elements: []ir.Expr{ir.Ident("request"), ir.Lit("nil")}}, "(request, nil)"},
		{ir.Let("x", ir.Lit("1")), "let x = 1"},
	}
	for _, tt := range tests {
		if got := ExprString(tt.expr); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestFile_Idempotent(t *testing.T) {
	renderOnce := func() string {
		return File(FileOptions{Imports: []string{"Foundation", "OpenAPIRuntime"}}, func(e *Emitter) {
			RenderDecl(e, ir.TypealiasDecl{Name: "T", Existing: ir.Usage(ir.BuiltinString)})
		})
	}
	first := renderOnce()
	second := renderOnce()
	if first != second {
		t.Error("rendering identical IR twice produced different output")
	}
	if !strings.HasPrefix(first, "// Generated by oaswift.") {
		t.Errorf("missing header:\n%s", first)
	}
	if strings.Index(first, "import Foundation") > strings.Index(first, "import OpenAPIRuntime") {
		t.Errorf("imports not sorted:\n%s", first)
	}
}
