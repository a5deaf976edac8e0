package translate

import (
	"testing"

	"github.com/oaswift/oaswift/internal/ir"
	"github.com/oaswift/oaswift/internal/render"
)

// exprToString renders an IR expression for assertions.
func exprToString(t *testing.T, e ir.Expr) string {
	t.Helper()
	return render.ExprString(e)
}

// renderDecl renders a declaration to Swift text for assertions.
func renderDecl(t *testing.T, d ir.Decl) string {
	t.Helper()
	e := render.NewEmitter()
	render.RenderDecl(e, d)
	return e.String()
}
