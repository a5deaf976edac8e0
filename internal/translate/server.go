package translate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/ir"
)

// TranslateServer produces the Server.swift IR: an APIProtocol extension
// that registers one route per operation on a pluggable ServerTransport,
// plus the per-operation handler glue on the universal server.
func (t *Translator) TranslateServer(ops *OperationsResult) ([]ir.Decl, error) {
	var registrations []ir.Expr
	var handlers []ir.Decl
	for i := range ops.Descs {
		desc := &ops.Descs[i]
		registrations = append(registrations, serverRegistration(desc))
		handler, err := t.serverHandler(desc)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, handler)
	}

	registerBody := []ir.Expr{
		ir.Let("server", ir.Call(
			ir.Member(ir.Ident("OpenAPIRuntime.UniversalServer"), "init"),
			ir.Arg("serverURL", ir.Ident("serverURL")),
			ir.Arg("handler", ir.Ident("self")),
			ir.Arg("configuration", ir.Ident("configuration")),
			ir.Arg("middlewares", ir.Ident("middlewares")),
		)),
	}
	registerBody = append(registerBody, registrations...)

	registerFn := ir.CommentedDecl(
		"Registers one handler for each operation on the provided transport.\n\n- Parameters:\n  - transport: The transport to register the operation handlers on.\n  - serverURL: The server base URL; requests are matched against its path prefix.\n  - configuration: Converter configuration.\n  - middlewares: Middlewares invoked around each operation.",
		ir.FunctionDecl{
			Signature: ir.FunctionSignature{
				Keyword: ir.KeywordFunc,
				Name:    "registerHandlers",
				Access:  t.access,
				Parameters: []ir.ParameterDecl{
					{Label: "on", Name: "transport", Type: ir.Usage(ir.Builtin("any ServerTransport"))},
					{Label: "serverURL", Name: "serverURL", Type: ir.Usage(ir.Builtin("Foundation.URL")), Default: ir.Lit(".defaultOpenAPIServerURL")},
					{Label: "configuration", Name: "configuration", Type: ir.Usage(ir.Builtin("Configuration")), Default: ir.Call(ir.Dot("init"))},
					{Label: "middlewares", Name: "middlewares", Type: ir.Usage(ir.Builtin("[any ServerMiddleware]")), Default: ir.Lit("[]")},
				},
				Throws: true,
			},
			Body: registerBody,
		})

	apiExtension := ir.ExtensionDecl{
		OnType: "APIProtocol",
		Decls:  []ir.Decl{registerFn},
	}

	serverExtension := ir.CommentedDecl(
		"Operation handlers for the universal server, one per API operation.",
		ir.ExtensionDecl{
			OnType: "OpenAPIRuntime.UniversalServer where APIHandler: APIProtocol",
			Access: ir.AccessFilePrivate,
			Decls:  handlers,
		})

	return []ir.Decl{apiExtension, serverExtension}, nil
}

// serverRegistration emits one transport.register call routing a method and
// path template to the operation handler.
func serverRegistration(desc *OperationDesc) ir.Expr {
	components := pathComponentsLiteral(desc.Path)
	return ir.Try(ir.CallExpr{
		Callee: ir.Member(ir.Ident("transport"), "register"),
		Args: []ir.Argument{
			ir.Arg("", ir.ClosureExpr{
				Body: []ir.Expr{ir.Try(ir.Await(ir.Call(
					ir.Member(ir.Ident("server"), desc.Name),
					ir.Arg("request", ir.Ident("$0")),
					ir.Arg("body", ir.Ident("$1")),
					ir.Arg("metadata", ir.Ident("$2")),
				)))},
			}),
			ir.Arg("method", ir.Dot(strings.ToLower(desc.Method))),
			ir.Arg("path", ir.Call(
				ir.Member(ir.Ident("server"), "apiPathComponentsWithServerPrefix"),
				ir.Arg("", ir.Lit(components)),
			)),
		},
	})
}

// pathComponentsLiteral renders "/pets/{petId}" as its component array,
// keeping template placeholders for the transport to match.
func pathComponentsLiteral(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "[]"
	}
	parts := strings.Split(trimmed, "/")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + p + `"`
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// serverHandler emits the glue that parses the request into the Input,
// invokes the user handler, and serializes the Output.
func (t *Translator) serverHandler(desc *OperationDesc) (ir.Decl, error) {
	inputBuild, err := t.serverInputClosure(desc)
	if err != nil {
		return nil, err
	}
	outputSerialize, err := t.serverOutputClosure(desc)
	if err != nil {
		return nil, err
	}

	body := []ir.Expr{ir.Try(ir.Await(ir.CallExpr{
		Callee: ir.Member(ir.Ident("self"), "handle"),
		Args: []ir.Argument{
			ir.Arg("request", ir.Ident("request")),
			ir.Arg("requestBody", ir.Ident("body")),
			ir.Arg("metadata", ir.Ident("metadata")),
			ir.Arg("forOperation", ir.Member(ir.Member(ir.Ident("Operations"), desc.Name), "id")),
			ir.Arg("using", ir.ClosureExpr{
				Body: []ir.Expr{ir.Call(
					ir.Member(ir.Member(ir.Ident("APIHandler"), desc.Name), "self"),
					ir.Arg("", ir.Ident("$0")),
				)},
			}),
			ir.Arg("deserializer", ir.ClosureExpr{Params: []string{"request", "requestBody", "metadata"}, Body: inputBuild}),
			ir.Arg("serializer", ir.ClosureExpr{Params: []string{"output", "request"}, Body: outputSerialize}),
		},
	}))}

	returnType := ir.Usage(ir.Builtin("(HTTPTypes.HTTPResponse, OpenAPIRuntime.HTTPBody?)"))

	return ir.FunctionDecl{
		Signature: ir.FunctionSignature{
			Keyword: ir.KeywordFunc,
			Name:    desc.Name,
			Parameters: []ir.ParameterDecl{
				{Label: "request", Name: "request", Type: ir.Usage(ir.Builtin("HTTPTypes.HTTPRequest"))},
				{Label: "body", Name: "body", Type: ir.Usage(ir.Builtin("OpenAPIRuntime.HTTPBody?"))},
				{Label: "metadata", Name: "metadata", Type: ir.Usage(ir.Builtin("OpenAPIRuntime.ServerRequestMetadata"))},
			},
			Async:      true,
			Throws:     true,
			ReturnType: &returnType,
		},
		Body: body,
	}, nil
}

// serverInputClosure parses path, query, and header parameters and selects
// the request body case by its verified content type.
func (t *Translator) serverInputClosure(desc *OperationDesc) ([]ir.Expr, error) {
	var body []ir.Expr

	var initArgs []ir.Argument
	for _, group := range locationGroups {
		var args []ir.Argument
		for _, p := range mergedParameters(desc) {
			if p.In != group.in {
				continue
			}
			explode := queryExplode(p)
			if !supportedOnServer(p, explode) {
				continue
			}
			args = append(args, ir.Arg(t.assigner.MemberName(p.Name), ir.Try(ir.Call(
				ir.Member(ir.Ident("converter"), serverParameterGetter(p)),
				ir.Arg("in", serverParameterSource(p)),
				ir.Arg("style", ir.Dot(parameterStyle(p))),
				ir.Arg("explode", ir.Lit(fmt.Sprintf("%t", explode))),
				ir.Arg("name", ir.Str(p.Name)),
			))))
		}
		if group.in == openapi3.ParameterInHeader && hasAcceptable(desc) {
			args = append(args, ir.Arg("accept", ir.Try(ir.Call(
				ir.Member(ir.Ident("converter"), "extractAcceptHeaderIfPresent"),
				ir.Arg("in", ir.Member(ir.Ident("request"), "headerFields")),
			))))
		}
		varName := group.fieldName
		body = append(body, ir.Let(varName+": Operations."+desc.Name+".Input."+group.structName,
			ir.Call(ir.Dot("init"), args...)))
		initArgs = append(initArgs, ir.Arg(group.fieldName, ir.Ident(varName)))
	}

	if len(desc.RequestContents) > 0 {
		bodySelect, err := t.serverBodySelect(desc)
		if err != nil {
			return nil, err
		}
		body = append(body, bodySelect...)
		initArgs = append(initArgs, ir.Arg("body", ir.Ident("body")))
	}

	body = append(body, ir.Ret(ir.Call(
		ir.Member(ir.Ident("Operations."+desc.Name+".Input"), "init"), initArgs...)))
	return body, nil
}

// serverBodySelect strictly verifies the incoming content type and decodes
// the matching Body case.
func (t *Translator) serverBodySelect(desc *OperationDesc) ([]ir.Expr, error) {
	bodyType := "Operations." + desc.Name + ".Input.Body"
	out := []ir.Expr{
		ir.Let("contentType", ir.Call(
			ir.Member(ir.Ident("converter"), "extractContentTypeIfPresent"),
			ir.Arg("in", ir.Member(ir.Ident("request"), "headerFields")),
		)),
		ir.Lit("let body: " + bodyType + optionalSuffix(desc)),
	}

	var branches []ir.IfBranch
	for _, content := range desc.RequestContents {
		caseName := CaseNameForMediaType(content.MediaType)
		getter := serverBodyGetter(content.Category, desc.BodyRequired)
		args := []ir.Argument{
			ir.Arg("", ir.Lit(content.Usage.Render() + ".self")),
			ir.Arg("from", ir.Ident("requestBody")),
			ir.Arg("transforming", ir.ClosureExpr{
				Params: []string{"value"},
				Body:   []ir.Expr{ir.Call(ir.Dot(caseName), ir.Arg("", ir.Ident("value")))},
			}),
		}
		if content.Category == ContentMultipart {
			args = append(args,
				ir.Arg("boundary", ir.Member(ir.Ident("contentType"), "requiredBoundary")),
				ir.Arg("requirements", RequirementsExpr(InferMultipartRequirements(valueOf(content.Media.Schema)))),
			)
		}
		decode := ir.Try(ir.Await(ir.Call(ir.Member(ir.Ident("converter"), getter), args...)))
		branches = append(branches, ir.IfBranch{
			Condition: ir.Call(
				ir.Member(ir.Ident("converter"), "isMatchingContentType"),
				ir.Arg("received", ir.Ident("contentType")),
				ir.Arg("expectedRaw", ir.Str(content.MediaType)),
			),
			Body: []ir.Expr{ir.AssignmentExpr{LHS: ir.Ident("body"), RHS: decode}},
		})
	}
	out = append(out, ir.IfExpr{
		Branches: branches,
		Else: []ir.Expr{ir.Throw(ir.Call(
			ir.Member(ir.Ident("converter"), "makeUnexpectedContentTypeError"),
			ir.Arg("contentType", ir.Ident("contentType")),
		))},
	})
	return out, nil
}

func optionalSuffix(desc *OperationDesc) string {
	if desc.BodyRequired {
		return ""
	}
	return "?"
}

// serverOutputClosure switches over the Output cases, writing the status
// code, typed headers, and the body with its declared content type.
func (t *Translator) serverOutputClosure(desc *OperationDesc) ([]ir.Expr, error) {
	var cases []ir.SwitchCaseExpr
	for _, resp := range desc.Responses {
		cases = append(cases, ir.SwitchCaseExpr{
			Pattern: ir.Call(ir.Dot(resp.CaseName), ir.Arg("", ir.Lit("let value"))),
			Body:    t.serverResponseCase(desc, resp),
		})
	}
	cases = append(cases, ir.SwitchCaseExpr{
		Pattern: ir.Call(ir.Dot("undocumented"),
			ir.Arg("statusCode", ir.Lit("let statusCode")),
			ir.Arg("", ir.Lit("let value")),
		),
		Body: []ir.Expr{ir.Ret(ir.TupleExpr{Elements: []ir.Expr{
			ir.Call(ir.Dot("init"),
				ir.Arg("soar_statusCode", ir.Ident("statusCode")),
				ir.Arg("headerFields", ir.Member(ir.Ident("value"), "headerFields")),
			),
			ir.Member(ir.Ident("value"), "body"),
		}})},
	})
	return []ir.Expr{ir.SwitchExpr{Over: ir.Ident("output"), Cases: cases}}, nil
}

// serverResponseCase serializes one documented response case.
func (t *Translator) serverResponseCase(desc *OperationDesc, resp ResponseDesc) []ir.Expr {
	statusCode := statusCodeExpr(resp.Key)
	var body []ir.Expr
	body = append(body, ir.BindingExpr{Kind: ir.BindVar, Name: "response",
		Value: ir.Call(ir.Member(ir.Ident("HTTPTypes.HTTPResponse"), "init"),
			ir.Arg("soar_statusCode", statusCode))})
	body = append(body, ir.Try(ir.Call(
		ir.Member(ir.Ident("converter"), "validateAcceptIfPresent"),
		ir.Arg("", acceptableListLiteral(resp)),
		ir.Arg("in", ir.Member(ir.Ident("request"), "headerFields")),
	)))

	for _, name := range sortedHeaderNames(resp) {
		header := resp.Response.Headers[name]
		if header.Value == nil {
			continue
		}
		setter := "setHeaderFieldAsURI"
		body = append(body, ir.Try(ir.Call(
			ir.Member(ir.Ident("converter"), setter),
			ir.Arg("in", ir.InOutExpr{Expr: ir.Member(ir.Ident("response"), "headerFields")}),
			ir.Arg("name", ir.Str(name)),
			ir.Arg("value", ir.Member(ir.Member(ir.Ident("value"), "headers"), t.assigner.MemberName(name))),
		)))
	}

	if len(resp.Contents) == 0 {
		body = append(body, ir.Ret(ir.TupleExpr{Elements: []ir.Expr{ir.Ident("response"), ir.Lit("nil")}}))
		return body
	}

	var cases []ir.SwitchCaseExpr
	for _, content := range resp.Contents {
		caseName := CaseNameForMediaType(content.MediaType)
		setter := serverBodySetter(content.Category)
		args := []ir.Argument{
			ir.Arg("", ir.Ident("value")),
			ir.Arg("headerFields", ir.InOutExpr{Expr: ir.Member(ir.Ident("response"), "headerFields")}),
			ir.Arg("contentType", ir.Str(contentTypeHeader(content))),
		}
		if content.Category == ContentMultipart {
			args = append(args, ir.Arg("requirements", RequirementsExpr(InferMultipartRequirements(valueOf(content.Media.Schema)))))
		}
		cases = append(cases, ir.SwitchCaseExpr{
			Pattern: ir.Call(ir.Dot(caseName), ir.Arg("", ir.Lit("let value"))),
			Body: []ir.Expr{ir.AssignmentExpr{
				LHS: ir.Ident("body"),
				RHS: ir.Try(ir.Call(ir.Member(ir.Ident("converter"), setter), args...)),
			}},
		})
	}
	body = append(body, ir.Lit("let body: OpenAPIRuntime.HTTPBody"))
	body = append(body, ir.SwitchExpr{Over: ir.Member(ir.Ident("value"), "body"), Cases: cases})
	body = append(body, ir.Ret(ir.TupleExpr{Elements: []ir.Expr{ir.Ident("response"), ir.Ident("body")}}))
	return body
}

// statusCodeExpr renders the numeric status of a response key; ranged and
// default keys read the code carried on the output case's struct.
func statusCodeExpr(key string) ir.Expr {
	if key == "default" || strings.HasSuffix(key, "XX") {
		return ir.Member(ir.Ident("value"), "statusCode")
	}
	return ir.Lit(key)
}

func sortedHeaderNames(resp ResponseDesc) []string {
	names := make([]string, 0, len(resp.Response.Headers))
	for n := range resp.Response.Headers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// acceptableListLiteral renders the content types of one response for
// accept validation.
func acceptableListLiteral(resp ResponseDesc) ir.Expr {
	if len(resp.Contents) == 0 {
		return ir.Lit("[]")
	}
	parts := make([]string, len(resp.Contents))
	for i, c := range resp.Contents {
		parts[i] = `"` + c.MediaType + `"`
	}
	return ir.Lit("[" + strings.Join(parts, ", ") + "]")
}

// supportedOnServer mirrors the client-side style support set.
func supportedOnServer(p *openapi3.Parameter, explode bool) bool {
	switch p.In {
	case openapi3.ParameterInPath, openapi3.ParameterInQuery, openapi3.ParameterInHeader, openapi3.ParameterInCookie:
		return true
	default:
		return false
	}
}

// serverParameterGetter selects the converter call for one parameter.
func serverParameterGetter(p *openapi3.Parameter) string {
	required := p.Required || p.In == openapi3.ParameterInPath
	if required {
		return "getRequiredRequestParameterAsURI"
	}
	return "getOptionalRequestParameterAsURI"
}

// serverParameterSource renders where the parameter is read from.
func serverParameterSource(p *openapi3.Parameter) ir.Expr {
	switch p.In {
	case openapi3.ParameterInPath:
		return ir.Member(ir.Ident("metadata"), "pathParameters")
	case openapi3.ParameterInQuery:
		return ir.Member(ir.Ident("request"), "soar_query")
	default:
		return ir.Member(ir.Ident("request"), "headerFields")
	}
}

func parameterStyle(p *openapi3.Parameter) string {
	switch p.In {
	case openapi3.ParameterInQuery, openapi3.ParameterInCookie:
		return "form"
	default:
		return "simple"
	}
}

// serverBodyGetter selects the converter call decoding a request body.
func serverBodyGetter(c ContentCategory, required bool) string {
	prefix := "getOptionalRequestBodyAs"
	if required {
		prefix = "getRequiredRequestBodyAs"
	}
	switch c {
	case ContentJSON:
		return prefix + "JSON"
	case ContentURLEncodedForm:
		return prefix + "URLEncodedForm"
	case ContentMultipart:
		return prefix + "Multipart"
	default:
		return prefix + "Binary"
	}
}

// serverBodySetter selects the converter call serializing a response body.
func serverBodySetter(c ContentCategory) string {
	switch c {
	case ContentJSON:
		return "setResponseBodyAsJSON"
	case ContentMultipart:
		return "setResponseBodyAsMultipart"
	default:
		return "setResponseBodyAsBinary"
	}
}
