package render

import (
	"strings"

	"github.com/oaswift/oaswift/internal/ir"
)

// maxDocColumn is the wrap column for folded doc comments.
const maxDocColumn = 100

// RenderDecl writes one declaration.
func RenderDecl(e *Emitter, decl ir.Decl) {
	switch d := decl.(type) {
	case ir.Commentable:
		renderComment(e, d.Comment)
		RenderDecl(e, d.Decl)
	case ir.Deprecated:
		renderDeprecation(e, d.Info)
		RenderDecl(e, d.Decl)
	case ir.StructDecl:
		renderStruct(e, d)
	case ir.EnumDecl:
		renderEnum(e, d)
	case ir.EnumCaseDecl:
		renderEnumCase(e, d)
	case ir.TypealiasDecl:
		e.Line("%stypealias %s = %s", accessPrefix(d.Access), d.Name, d.Existing.Render())
	case ir.ProtocolDecl:
		renderProtocol(e, d)
	case ir.ExtensionDecl:
		renderExtension(e, d)
	case ir.FunctionDecl:
		renderFunction(e, d)
	case ir.VariableDecl:
		renderVariable(e, d)
	}
}

// renderComment folds a doc comment to the wrap column with a "///"
// prefix; inline comments use "//" and marks "// MARK: -".
func renderComment(e *Emitter, c *ir.Comment) {
	if c == nil {
		return
	}
	switch {
	case c.Mark != "":
		e.Line("// MARK: - %s", c.Mark)
	case c.Inline != "":
		for _, line := range strings.Split(c.Inline, "\n") {
			e.Line("// %s", line)
		}
	case c.Doc != "":
		for _, paragraphLine := range strings.Split(c.Doc, "\n") {
			for _, folded := range foldLine(paragraphLine, maxDocColumn) {
				if folded == "" {
					e.Line("///")
				} else {
					e.Line("/// %s", folded)
				}
			}
		}
	}
}

// foldLine wraps one comment line at the given column on word boundaries.
func foldLine(line string, column int) []string {
	if len(line) <= column {
		return []string{line}
	}
	words := strings.Fields(line)
	var out []string
	current := ""
	for _, w := range words {
		switch {
		case current == "":
			current = w
		case len(current)+1+len(w) <= column:
			current += " " + w
		default:
			out = append(out, current)
			current = w
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

func renderDeprecation(e *Emitter, info ir.DeprecationInfo) {
	var args []string
	if info.Message != "" {
		args = append(args, `message: "`+info.Message+`"`)
	}
	if info.Renamed != "" {
		args = append(args, `renamed: "`+info.Renamed+`"`)
	}
	if len(args) == 0 {
		e.Line("@available(*, deprecated)")
		return
	}
	e.Line("@available(*, deprecated, %s)", strings.Join(args, ", "))
}

func accessPrefix(a ir.AccessModifier) string {
	if a == "" {
		return ""
	}
	return string(a) + " "
}

func conformanceSuffix(conformances []string) string {
	if len(conformances) == 0 {
		return ""
	}
	return ": " + strings.Join(conformances, ", ")
}

func renderStruct(e *Emitter, d ir.StructDecl) {
	e.Block("%sstruct %s%s", accessPrefix(d.Access), d.Name, conformanceSuffix(d.Conformances))
	for _, f := range d.Fields {
		renderComment(e, f.Comment)
		e.Line("%svar %s: %s", accessPrefix(d.Access), f.Name, f.Type.Render())
	}
	for _, inner := range d.Decls {
		RenderDecl(e, inner)
	}
	e.EndBlock()
}

func renderEnum(e *Emitter, d ir.EnumDecl) {
	if d.Frozen {
		e.Line("@frozen")
	}
	keyword := "enum"
	if d.Indirect {
		keyword = "indirect enum"
	}
	conformances := d.Conformances
	if d.RawType != "" {
		conformances = append([]string{d.RawType}, conformances...)
	}
	e.Block("%s%s %s%s", accessPrefix(d.Access), keyword, d.Name, conformanceSuffix(conformances))
	for _, c := range d.Cases {
		renderEnumCase(e, c)
	}
	for _, m := range d.Members {
		RenderDecl(e, m)
	}
	e.EndBlock()
}

func renderEnumCase(e *Emitter, c ir.EnumCaseDecl) {
	switch c.Kind {
	case ir.CaseRawValue:
		e.Line("case %s = %s", c.Name, c.RawValue)
	case ir.CaseAssociatedValues:
		parts := make([]string, len(c.Associated))
		for i, a := range c.Associated {
			if a.Label != "" {
				parts[i] = a.Label + ": " + a.Type.Render()
			} else {
				parts[i] = a.Type.Render()
			}
		}
		e.Line("case %s(%s)", c.Name, strings.Join(parts, ", "))
	default:
		e.Line("case %s", c.Name)
	}
}

func renderProtocol(e *Emitter, d ir.ProtocolDecl) {
	e.Block("%sprotocol %s%s", accessPrefix(d.Access), d.Name, conformanceSuffix(d.Conformances))
	for i, fn := range d.Functions {
		if i < len(d.FunctionComments) {
			renderComment(e, d.FunctionComments[i])
		}
		e.Line("%s", signatureString(fn, true))
	}
	e.EndBlock()
}

func renderExtension(e *Emitter, d ir.ExtensionDecl) {
	e.Block("%sextension %s%s", accessPrefix(d.Access), d.OnType, conformanceSuffix(d.Conformances))
	for _, inner := range d.Decls {
		RenderDecl(e, inner)
	}
	e.EndBlock()
}

// signatureString renders a function signature; inProtocol omits the
// access modifier.
func signatureString(s ir.FunctionSignature, inProtocol bool) string {
	var sb strings.Builder
	if !inProtocol {
		sb.WriteString(accessPrefix(s.Access))
	}
	if s.Static {
		sb.WriteString("static ")
	}
	if s.Keyword == ir.KeywordInitializer {
		sb.WriteString("init")
	} else {
		sb.WriteString("func ")
		sb.WriteString(s.Name)
	}
	sb.WriteString("(")
	for i, p := range s.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		label := p.Label
		switch label {
		case "":
			// No external label means label equals the name.
		case p.Name:
			label = ""
		}
		if label != "" {
			sb.WriteString(label)
			sb.WriteString(" ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(p.Type.Render())
		if p.Default != nil {
			sb.WriteString(" = ")
			sb.WriteString(ExprString(p.Default))
		}
	}
	sb.WriteString(")")
	if s.Async {
		sb.WriteString(" async")
	}
	if s.Throws {
		sb.WriteString(" throws")
	}
	if s.ReturnType != nil {
		sb.WriteString(" -> ")
		sb.WriteString(s.ReturnType.Render())
	}
	return sb.String()
}

func renderFunction(e *Emitter, d ir.FunctionDecl) {
	e.Block("%s", signatureString(d.Signature, false))
	for _, stmt := range d.Body {
		renderStatement(e, stmt)
	}
	e.EndBlock()
}

func renderVariable(e *Emitter, d ir.VariableDecl) {
	var sb strings.Builder
	sb.WriteString(accessPrefix(d.Access))
	if d.Static {
		sb.WriteString("static ")
	}
	sb.WriteString(string(d.Kind))
	sb.WriteString(" ")
	sb.WriteString(d.Name)
	if d.Type != nil {
		sb.WriteString(": ")
		sb.WriteString(d.Type.Render())
	}
	if d.Getter != nil {
		header := sb.String()
		if len(d.GetterEffects) > 0 {
			e.Block("%s", header)
			e.Block("get %s", strings.Join(d.GetterEffects, " "))
			for _, stmt := range d.Getter {
				renderStatement(e, stmt)
			}
			e.EndBlock()
			e.EndBlock()
			return
		}
		e.Block("%s", header)
		for _, stmt := range d.Getter {
			renderStatement(e, stmt)
		}
		e.EndBlock()
		return
	}
	if d.Value != nil {
		sb.WriteString(" = ")
		sb.WriteString(ExprString(d.Value))
	}
	e.Line("%s", sb.String())
}
