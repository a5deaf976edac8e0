package render

import (
	"strings"

	"github.com/oaswift/oaswift/internal/ir"
)

// ExprString renders an inline expression to its Swift spelling.
func ExprString(expr ir.Expr) string {
	switch e := expr.(type) {
	case nil:
		return ""
	case ir.LiteralExpr:
		return e.Value
	case ir.IdentifierExpr:
		return e.Name
	case ir.MemberAccessExpr:
		if e.Base == nil {
			return "." + e.Member
		}
		return ExprString(e.Base) + "." + e.Member
	case ir.CallExpr:
		return callString(e)
	case ir.AssignmentExpr:
		return ExprString(e.LHS) + " = " + ExprString(e.RHS)
	case ir.BindingExpr:
		return string(e.Kind) + " " + e.Name + " = " + ExprString(e.Value)
	case ir.KeywordExpr:
		if e.Expr == nil {
			return string(e.Keyword)
		}
		return string(e.Keyword) + " " + ExprString(e.Expr)
	case ir.BinaryOpExpr:
		return ExprString(e.LHS) + " " + e.Op + " " + ExprString(e.RHS)
	case ir.TupleExpr:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = ExprString(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ir.InOutExpr:
		return "&" + ExprString(e.Expr)
	case ir.OptionalChainExpr:
		return ExprString(e.Expr) + "?"
	case ir.ClosureExpr:
		return closureString(e)
	default:
		// Statement-shaped expressions have no inline form; the statement
		// renderer handles them.
		return ""
	}
}

func callString(e ir.CallExpr) string {
	var args []string
	for _, a := range e.Args {
		if a.Label == "" {
			args = append(args, ExprString(a.Value))
		} else {
			args = append(args, a.Label+": "+ExprString(a.Value))
		}
	}
	out := ExprString(e.Callee) + "(" + strings.Join(args, ", ") + ")"
	if e.Trailing != nil {
		out += " " + closureString(*e.Trailing)
	}
	return out
}

// closureString renders a closure inline when it is a single expression,
// multiline otherwise.
func closureString(e ir.ClosureExpr) string {
	header := "{"
	if len(e.Params) > 0 {
		header += " " + strings.Join(e.Params, ", ") + " in"
	}
	if len(e.Body) == 1 {
		if inline := ExprString(e.Body[0]); inline != "" && !strings.Contains(inline, "\n") {
			return header + " " + inline + " }"
		}
	}
	sub := NewEmitter()
	sub.Indent()
	for _, stmt := range e.Body {
		renderStatement(sub, stmt)
	}
	return header + "\n" + strings.TrimRight(sub.String(), "\n") + "\n}"
}

// renderStatement writes one body expression as a statement, expanding the
// block-structured forms.
func renderStatement(e *Emitter, expr ir.Expr) {
	switch s := expr.(type) {
	case ir.SwitchExpr:
		e.Block("switch %s", ExprString(s.Over))
		e.Dedent()
		for _, c := range s.Cases {
			if c.Pattern == nil {
				e.Line("default:")
			} else {
				e.Line("case %s:", ExprString(c.Pattern))
			}
			e.Indent()
			for _, stmt := range c.Body {
				renderStatement(e, stmt)
			}
			e.Dedent()
		}
		e.Indent()
		e.EndBlock()
	case ir.IfExpr:
		for i, branch := range s.Branches {
			if i == 0 {
				e.Block("if %s", ExprString(branch.Condition))
			} else {
				e.Dedent()
				e.Block("} else if %s", ExprString(branch.Condition))
			}
			for _, stmt := range branch.Body {
				renderStatement(e, stmt)
			}
		}
		if s.Else != nil {
			e.Dedent()
			e.Block("} else")
			for _, stmt := range s.Else {
				renderStatement(e, stmt)
			}
		}
		e.EndBlock()
	case ir.DoCatchExpr:
		e.Block("do")
		for _, stmt := range s.Do {
			renderStatement(e, stmt)
		}
		e.Dedent()
		e.Block("} catch")
		for _, stmt := range s.Catch {
			renderStatement(e, stmt)
		}
		e.EndBlock()
	default:
		for _, line := range strings.Split(ExprString(expr), "\n") {
			e.Line("%s", line)
		}
	}
}
