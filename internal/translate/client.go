package translate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/ir"
)

// TranslateClient produces the Client.swift IR: a concrete Client struct
// conforming to APIProtocol, dispatching every operation through a
// pluggable ClientTransport.
func (t *Translator) TranslateClient(ops *OperationsResult) ([]ir.Decl, error) {
	var methods []ir.Decl
	for i := range ops.Descs {
		desc := &ops.Descs[i]
		method, err := t.clientMethod(desc)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	fields := []ir.StructField{{
		Name: "client",
		Type: ir.Usage(ir.Builtin("OpenAPIRuntime.UniversalClient")),
	}}

	initDecl := ir.CommentedDecl(
		"Creates a new client.\n\n- Parameters:\n  - serverURL: The server base URL.\n  - configuration: Converter configuration.\n  - transport: The transport performing HTTP operations.\n  - middlewares: Middlewares invoked around each operation.",
		ir.FunctionDecl{
			Signature: ir.FunctionSignature{
				Keyword: ir.KeywordInitializer,
				Access:  t.access,
				Parameters: []ir.ParameterDecl{
					{Label: "serverURL", Name: "serverURL", Type: ir.Usage(ir.Builtin("Foundation.URL"))},
					{Label: "configuration", Name: "configuration", Type: ir.Usage(ir.Builtin("Configuration")), Default: ir.Call(ir.Dot("init"))},
					{Label: "transport", Name: "transport", Type: ir.Usage(ir.Builtin("any ClientTransport"))},
					{Label: "middlewares", Name: "middlewares", Type: ir.Usage(ir.Builtin("[any ClientMiddleware]")), Default: ir.Lit("[]")},
				},
			},
			Body: []ir.Expr{ir.AssignmentExpr{
				LHS: ir.Member(ir.Ident("self"), "client"),
				RHS: ir.Call(ir.Dot("init"),
					ir.Arg("serverURL", ir.Ident("serverURL")),
					ir.Arg("configuration", ir.Ident("configuration")),
					ir.Arg("transport", ir.Ident("transport")),
					ir.Arg("middlewares", ir.Ident("middlewares")),
				),
			}},
		})

	converter := ir.VariableDecl{
		Kind:   ir.VarVar,
		Name:   "converter",
		Access: ir.AccessPrivate,
		Type:   ptrUsage(ir.Usage(ir.Builtin("Converter"))),
		Getter: []ir.Expr{ir.Ret(ir.Member(ir.Ident("client"), "converter"))},
	}

	clientStruct := ir.CommentedDecl(
		"A client that performs the document's HTTP operations using a pluggable transport.",
		ir.StructDecl{
			Name:         "Client",
			Access:       t.access,
			Conformances: []string{"APIProtocol"},
			Fields:       fields,
			Decls:        append([]ir.Decl{initDecl, converter}, methods...),
		})
	return []ir.Decl{clientStruct}, nil
}

// clientMethod emits one operation's client dispatch: serialize the Input
// into an HTTPRequest, send it through the transport, then match the
// response status and deserialize the matching Output case.
func (t *Translator) clientMethod(desc *OperationDesc) (ir.Decl, error) {
	input := ir.Usage(desc.TypeName.Appending("", "Input"))
	output := ir.Usage(desc.TypeName.Appending("", "Output"))

	serializer, err := t.clientSerializer(desc)
	if err != nil {
		return nil, err
	}
	deserializer, err := t.clientDeserializer(desc)
	if err != nil {
		return nil, err
	}

	send := ir.Try(ir.Await(ir.CallExpr{
		Callee: ir.Member(ir.Ident("client"), "send"),
		Args: []ir.Argument{
			ir.Arg("input", ir.Ident("input")),
			ir.Arg("forOperation", ir.Member(ir.Member(ir.Ident("Operations"), desc.Name), "id")),
			ir.Arg("serializer", ir.ClosureExpr{Params: []string{"input"}, Body: serializer}),
			ir.Arg("deserializer", ir.ClosureExpr{Params: []string{"response", "responseBody"}, Body: deserializer}),
		},
	}))

	sig := t.protocolMethod(desc)
	sig.Access = t.access
	return ir.CommentedDecl(operationComment(desc).Doc, ir.FunctionDecl{
		Signature: ir.FunctionSignature{
			Keyword:    sig.Keyword,
			Name:       sig.Name,
			Access:     t.access,
			Parameters: []ir.ParameterDecl{{Label: "_", Name: "input", Type: input}},
			Async:      true,
			Throws:     true,
			ReturnType: &output,
		},
		Body: []ir.Expr{ir.Ret(send)},
	}), nil
}

// clientSerializer renders the request-building closure body.
func (t *Translator) clientSerializer(desc *OperationDesc) ([]ir.Expr, error) {
	var body []ir.Expr

	body = append(body, ir.Let("path", ir.Try(ir.Call(
		ir.Member(ir.Ident("converter"), "renderedPath"),
		ir.Arg("template", ir.Str(pathTemplate(desc))),
		ir.Arg("parameters", pathParametersArray(t, desc)),
	))))
	body = append(body, ir.BindingExpr{Kind: ir.BindVar, Name: "request", Value: ir.Call(
		ir.Member(ir.Ident("HTTPTypes.HTTPRequest"), "init"),
		ir.Arg("soar_path", ir.Ident("path")),
		ir.Arg("method", ir.Dot(strings.ToLower(desc.Method))),
	)})

	for _, p := range mergedParameters(desc) {
		switch p.In {
		case openapi3.ParameterInQuery:
			body = append(body, ir.Try(ir.Call(
				ir.Member(ir.Ident("converter"), "setQueryItemAsURI"),
				ir.Arg("in", ir.InOutExpr{Expr: ir.Ident("request")}),
				ir.Arg("style", ir.Dot("form")),
				ir.Arg("explode", ir.Lit(fmt.Sprintf("%t", queryExplode(p)))),
				ir.Arg("name", ir.Str(p.Name)),
				ir.Arg("value", ir.Member(ir.Member(ir.Ident("input"), "query"), t.assigner.MemberName(p.Name))),
			)))
		case openapi3.ParameterInHeader:
			body = append(body, ir.Try(ir.Call(
				ir.Member(ir.Ident("converter"), "setHeaderFieldAsURI"),
				ir.Arg("in", ir.InOutExpr{Expr: ir.Member(ir.Ident("request"), "headerFields")}),
				ir.Arg("name", ir.Str(p.Name)),
				ir.Arg("value", ir.Member(ir.Member(ir.Ident("input"), "headers"), t.assigner.MemberName(p.Name))),
			)))
		}
	}

	if hasAcceptable(desc) {
		body = append(body, ir.Try(ir.Call(
			ir.Member(ir.Ident("converter"), "setAcceptHeader"),
			ir.Arg("in", ir.InOutExpr{Expr: ir.Member(ir.Ident("request"), "headerFields")}),
			ir.Arg("contentTypes", ir.Member(ir.Member(ir.Ident("input"), "headers"), "accept")),
		)))
	}

	if len(desc.RequestContents) > 0 {
		bodySwitch, err := t.requestBodySwitch(desc)
		if err != nil {
			return nil, err
		}
		body = append(body, ir.BindingExpr{Kind: ir.BindVar, Name: "body", Value: ir.Lit("OpenAPIRuntime.HTTPBody?.none")})
		body = append(body, bodySwitch)
		body = append(body, ir.Ret(ir.TupleExpr{Elements: []ir.Expr{ir.Ident("request"), ir.Ident("body")}}))
	} else {
		body = append(body, ir.Ret(ir.TupleExpr{Elements: []ir.Expr{ir.Ident("request"), ir.Lit("nil")}}))
	}
	return body, nil
}

// requestBodySwitch serializes the Input body case into the request body.
func (t *Translator) requestBodySwitch(desc *OperationDesc) (ir.Expr, error) {
	var cases []ir.SwitchCaseExpr
	scrutinee := ir.Member(ir.Ident("input"), "body")
	if !desc.BodyRequired {
		cases = append(cases, ir.SwitchCaseExpr{
			Pattern: ir.Dot("none"),
			Body:    []ir.Expr{ir.AssignmentExpr{LHS: ir.Ident("body"), RHS: ir.Lit("nil")}},
		})
	}
	for _, content := range desc.RequestContents {
		caseName := CaseNameForMediaType(content.MediaType)
		pattern := ir.Call(ir.Dot(caseName), ir.Arg("", ir.Lit("let value")))
		if !desc.BodyRequired {
			pattern = ir.Call(ir.Dot("some"), ir.Arg("", pattern))
		}
		setBody := ir.AssignmentExpr{
			LHS: ir.Ident("body"),
			RHS: ir.Try(ir.Call(
				ir.Member(ir.Ident("converter"), bodySetter(content.Category)),
				ir.Arg("", ir.Ident("value")),
				ir.Arg("headerFields", ir.InOutExpr{Expr: ir.Member(ir.Ident("request"), "headerFields")}),
				ir.Arg("contentType", ir.Str(contentTypeHeader(content))),
			)),
		}
		if content.Category == ContentMultipart {
			setBody = ir.AssignmentExpr{
				LHS: ir.Ident("body"),
				RHS: ir.Try(ir.Call(
					ir.Member(ir.Ident("converter"), "setRequiredRequestBodyAsMultipart"),
					ir.Arg("", ir.Ident("value")),
					ir.Arg("headerFields", ir.InOutExpr{Expr: ir.Member(ir.Ident("request"), "headerFields")}),
					ir.Arg("contentType", ir.Str(contentTypeHeader(content))),
					ir.Arg("requirements", RequirementsExpr(InferMultipartRequirements(valueOf(content.Media.Schema)))),
				)),
			}
		}
		cases = append(cases, ir.SwitchCaseExpr{Pattern: pattern, Body: []ir.Expr{setBody}})
	}
	return ir.SwitchExpr{Over: scrutinee, Cases: cases}, nil
}

// clientDeserializer renders the response-matching closure body.
func (t *Translator) clientDeserializer(desc *OperationDesc) ([]ir.Expr, error) {
	var cases []ir.SwitchCaseExpr
	for _, resp := range desc.Responses {
		respBody, err := t.responseCaseBody(desc, resp)
		if err != nil {
			return nil, err
		}
		cases = append(cases, ir.SwitchCaseExpr{
			Pattern: statusPattern(resp.Key),
			Body:    respBody,
		})
	}
	cases = append(cases, ir.SwitchCaseExpr{
		Body: []ir.Expr{ir.Ret(ir.Call(ir.Dot("undocumented"),
			ir.Arg("statusCode", ir.Member(ir.Member(ir.Ident("response"), "status"), "code")),
			ir.Arg("", ir.Call(ir.Dot("init"),
				ir.Arg("headerFields", ir.Member(ir.Ident("response"), "headerFields")),
				ir.Arg("body", ir.Ident("responseBody")),
			)),
		))},
	})
	return []ir.Expr{ir.SwitchExpr{
		Over:  ir.Member(ir.Member(ir.Ident("response"), "status"), "code"),
		Cases: cases,
	}}, nil
}

// responseCaseBody decodes one documented response into its Output case.
func (t *Translator) responseCaseBody(desc *OperationDesc, resp ResponseDesc) ([]ir.Expr, error) {
	var body []ir.Expr
	structPath := fmt.Sprintf("Operations.%s.Output.%s", desc.Name, resp.StructName)

	body = append(body, ir.BindingExpr{
		Kind:  ir.BindLet,
		Name:  "headers: " + structPath + ".Headers",
		Value: t.responseHeadersInit(resp),
	})

	if len(resp.Contents) == 0 {
		body = append(body, ir.Ret(ir.Call(ir.Dot(resp.CaseName),
			ir.Arg("", ir.Call(ir.Dot("init"), ir.Arg("headers", ir.Ident("headers")))),
		)))
		return body, nil
	}

	body = append(body, ir.Let("contentType", ir.Call(
		ir.Member(ir.Ident("converter"), "extractContentTypeIfPresent"),
		ir.Arg("in", ir.Member(ir.Ident("response"), "headerFields")),
	)))
	body = append(body, ir.Lit("let body: "+structPath+".Body"))

	var branches []ir.IfBranch
	for _, content := range resp.Contents {
		caseName := CaseNameForMediaType(content.MediaType)
		condition := ir.Call(
			ir.Member(ir.Ident("converter"), "isMatchingContentType"),
			ir.Arg("received", ir.Ident("contentType")),
			ir.Arg("expectedRaw", ir.Str(content.MediaType)),
		)
		decode := ir.Try(ir.Await(ir.Call(
			ir.Member(ir.Ident("converter"), bodyGetter(content.Category)),
			ir.Arg("", ir.Lit(content.Usage.Render()+".self")),
			ir.Arg("from", ir.Ident("responseBody")),
			ir.Arg("transforming", ir.ClosureExpr{
				Params: []string{"value"},
				Body:   []ir.Expr{ir.Call(ir.Dot(caseName), ir.Arg("", ir.Ident("value")))},
			}),
		)))
		branches = append(branches, ir.IfBranch{
			Condition: condition,
			Body:      []ir.Expr{ir.AssignmentExpr{LHS: ir.Ident("body"), RHS: decode}},
		})
	}
	body = append(body, ir.IfExpr{
		Branches: branches,
		Else: []ir.Expr{ir.Throw(ir.Call(
			ir.Member(ir.Ident("converter"), "makeUnexpectedContentTypeError"),
			ir.Arg("contentType", ir.Ident("contentType")),
		))},
	})
	body = append(body, ir.Ret(ir.Call(ir.Dot(resp.CaseName),
		ir.Arg("", ir.Call(ir.Dot("init"),
			ir.Arg("headers", ir.Ident("headers")),
			ir.Arg("body", ir.Ident("body")),
		)),
	)))
	return body, nil
}

// responseHeadersInit builds the Headers initializer call, decoding each
// typed header from the response header fields.
func (t *Translator) responseHeadersInit(resp ResponseDesc) ir.Expr {
	names := make([]string, 0, len(resp.Response.Headers))
	for n := range resp.Response.Headers {
		names = append(names, n)
	}
	sort.Strings(names)

	var args []ir.Argument
	for _, name := range names {
		header := resp.Response.Headers[name]
		if header.Value == nil {
			continue
		}
		getter := "getOptionalHeaderFieldAsURI"
		if header.Value.Required {
			getter = "getRequiredHeaderFieldAsURI"
		}
		args = append(args, ir.Arg(t.assigner.MemberName(name), ir.Try(ir.Call(
			ir.Member(ir.Ident("converter"), getter),
			ir.Arg("in", ir.Member(ir.Ident("response"), "headerFields")),
			ir.Arg("name", ir.Str(name)),
		))))
	}
	return ir.Call(ir.Dot("init"), args...)
}

// statusPattern renders the switch pattern of a response key.
func statusPattern(key string) ir.Expr {
	switch {
	case key == "default":
		return nil
	case strings.HasSuffix(key, "XX") && len(key) == 3:
		lower := string(key[0]) + "00"
		return ir.Lit(lower + "..." + string(key[0]) + "99")
	default:
		return ir.Lit(key)
	}
}

// bodySetter selects the converter call serializing a body category.
func bodySetter(c ContentCategory) string {
	switch c {
	case ContentJSON:
		return "setRequiredRequestBodyAsJSON"
	case ContentURLEncodedForm:
		return "setRequiredRequestBodyAsURLEncodedForm"
	case ContentMultipart:
		return "setRequiredRequestBodyAsMultipart"
	default:
		return "setRequiredRequestBodyAsBinary"
	}
}

// bodyGetter selects the converter call deserializing a body category.
func bodyGetter(c ContentCategory) string {
	switch c {
	case ContentJSON:
		return "getResponseBodyAsJSON"
	case ContentURLEncodedForm:
		return "getResponseBodyAsURLEncodedForm"
	case ContentMultipart:
		return "getResponseBodyAsMultipart"
	default:
		return "getResponseBodyAsBinary"
	}
}

// contentTypeHeader renders the content-type header value of a variant.
func contentTypeHeader(c Content) string {
	if c.Category == ContentJSON {
		return c.MediaType + "; charset=utf-8"
	}
	return c.MediaType
}

// pathTemplate converts "/pets/{petId}" into the runtime's "{}" template
// form, collecting parameter order separately.
func pathTemplate(desc *OperationDesc) string {
	out := desc.Path
	for _, p := range mergedParameters(desc) {
		if p.In == openapi3.ParameterInPath {
			out = strings.ReplaceAll(out, "{"+p.Name+"}", "{}")
		}
	}
	return out
}

// pathParametersArray renders the substituted path parameter values in
// template order.
func pathParametersArray(t *Translator, desc *OperationDesc) ir.Expr {
	var names []string
	path := desc.Path
	for {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			break
		}
		names = append(names, path[start+1:start+end])
		path = path[start+end:]
	}
	if len(names) == 0 {
		return ir.Lit("[]")
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = "input.path." + t.assigner.MemberName(n)
	}
	return ir.Lit("[" + strings.Join(parts, ", ") + "]")
}

func queryExplode(p *openapi3.Parameter) bool {
	if p.Explode != nil {
		return *p.Explode
	}
	return true
}

func hasAcceptable(desc *OperationDesc) bool {
	for _, resp := range desc.Responses {
		if len(resp.Contents) > 0 {
			return true
		}
	}
	return false
}
