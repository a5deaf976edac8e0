package translate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/iancoleman/strcase"

	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/ir"
	"github.com/oaswift/oaswift/internal/parser"
	"github.com/oaswift/oaswift/internal/probe"
)

// OperationDesc carries everything the client and server translators need
// about one operation.
type OperationDesc struct {
	Name     string // Swift-safe operation name
	ID       string // original operationId (may equal Name)
	Method   string // uppercase HTTP method
	Path     string // path template
	TypeName ir.TypeName

	Op       *openapi3.Operation
	PathItem *openapi3.PathItem

	// Responses in emission order: numeric codes ascending, then default.
	Responses []ResponseDesc
	// RequestContents are the selected request body content variants.
	RequestContents []Content
	// BodyRequired mirrors requestBody.required.
	BodyRequired bool
}

// ResponseDesc is one documented response of an operation.
type ResponseDesc struct {
	// Key is the original status key: "200", "2XX", or "default".
	Key string
	// CaseName is the Swift case ("ok", "notFound", "default").
	CaseName string
	// StructName is the per-response struct name ("Ok", "NotFound", "Default").
	StructName string
	Response   *openapi3.Response
	Contents   []Content
}

// OperationsResult is the translated operations namespace plus the API
// protocol requirements.
type OperationsResult struct {
	// Decls are the declarations inside the Operations namespace enum.
	Decls []ir.Decl
	// Protocol methods, one per operation, with doc comments.
	Protocol ir.ProtocolDecl
	// Descs in emission order, consumed by client/server translation.
	Descs []OperationDesc
}

// TranslateOperations translates every operation into its Input/Output
// types, the id constant, and the API protocol requirement.
func (t *Translator) TranslateOperations() (*OperationsResult, error) {
	result := &OperationsResult{}
	if t.doc.Paths == nil {
		result.Protocol = t.apiProtocol(nil, nil)
		return result, nil
	}

	var descs []OperationDesc
	for _, path := range parser.SortedPathKeys(t.doc.Paths) {
		item := t.doc.Paths.Value(path)
		for _, entry := range parser.SortedOperations(item) {
			desc, err := t.describeOperation(entry.Method, path, item, entry.Op)
			if err != nil {
				return nil, err
			}
			descs = append(descs, *desc)
		}
	}

	var signatures []ir.FunctionSignature
	var comments []*ir.Comment
	for i := range descs {
		desc := &descs[i]
		decls, err := t.translateOperation(desc)
		if err != nil {
			return nil, err
		}
		result.Decls = append(result.Decls, decls...)

		signatures = append(signatures, t.protocolMethod(desc))
		comments = append(comments, operationComment(desc))
	}

	result.Protocol = t.apiProtocol(signatures, comments)
	result.Descs = descs
	return result, nil
}

// describeOperation computes the operation's name, selected contents, and
// response layout.
func (t *Translator) describeOperation(method, path string, item *openapi3.PathItem, op *openapi3.Operation) (*OperationDesc, error) {
	id := op.OperationID
	if id == "" {
		id = strcase.ToLowerCamel(strings.ToLower(method) + "_" + strings.NewReplacer("/", "_", "{", "", "}", "").Replace(path))
	}
	name := t.assigner.MemberName(id)
	desc := &OperationDesc{
		Name:     name,
		ID:       id,
		Method:   method,
		Path:     path,
		TypeName: ir.Root.Appending("paths", "Operations").Appending(path, "").Appending(strings.ToLower(method), name),
		Op:       op,
		PathItem: item,
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		desc.BodyRequired = op.RequestBody.Value.Required
		desc.RequestContents = t.SelectContents(op.RequestBody.Value.Content)
	}

	if op.Responses != nil {
		keys := make([]string, 0, op.Responses.Len())
		for k := range op.Responses.Map() {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			// default sorts last; everything else ascending.
			if keys[i] == "default" {
				return false
			}
			if keys[j] == "default" {
				return true
			}
			return keys[i] < keys[j]
		})
		for _, key := range keys {
			ref := op.Responses.Map()[key]
			if ref == nil || ref.Value == nil {
				continue
			}
			caseName := statusCaseName(key)
			desc.Responses = append(desc.Responses, ResponseDesc{
				Key:        key,
				CaseName:   caseName,
				StructName: strcase.ToCamel(caseName),
				Response:   ref.Value,
				Contents:   t.SelectContents(ref.Value.Content),
			})
		}
	}
	return desc, nil
}

// translateOperation emits the namespace enum for one operation:
//
//	enum getGreeting { static let id; struct Input {…}; enum Output {…};
//	enum AcceptableContentType {…} }
func (t *Translator) translateOperation(desc *OperationDesc) ([]ir.Decl, error) {
	var members []ir.Decl

	members = append(members, ir.VariableDecl{
		Kind:   ir.VarLet,
		Name:   "id",
		Access: t.access,
		Static: true,
		Type:   ptrUsage(ir.Usage(ir.BuiltinString)),
		Value:  ir.Str(desc.ID),
	})

	input, err := t.translateInput(desc)
	if err != nil {
		return nil, err
	}
	members = append(members, input)

	output, err := t.translateOutput(desc)
	if err != nil {
		return nil, err
	}
	members = append(members, output...)

	if acceptable := t.acceptableContentTypes(desc); acceptable != nil {
		members = append(members, acceptable)
	}

	ns := t.namespaceEnum(desc.Name,
		fmt.Sprintf("API operation `%s` (`%s %s`).", desc.ID, desc.Method, strings.ToLower(desc.Path)),
		members)
	if desc.Op.Deprecated {
		ns = ir.Deprecated{Decl: ns}
	}
	return []ir.Decl{ns}, nil
}

func ptrUsage(u ir.TypeUsage) *ir.TypeUsage { return &u }

// locationGroup is one parameter location with its Swift struct name.
type locationGroup struct {
	in         string
	structName string
	fieldName  string
}

var locationGroups = []locationGroup{
	{openapi3.ParameterInPath, "Path", "path"},
	{openapi3.ParameterInQuery, "Query", "query"},
	{openapi3.ParameterInHeader, "Headers", "headers"},
	{openapi3.ParameterInCookie, "Cookies", "cookies"},
}

// translateInput builds the Input struct with its nested per-location
// structs and the Body enum.
func (t *Translator) translateInput(desc *OperationDesc) (ir.Decl, error) {
	inputTypeName := desc.TypeName.Appending("", "Input")

	var nested []ir.Decl
	var fields []ir.StructField

	for _, group := range locationGroups {
		structDecl, err := t.locationStruct(desc, inputTypeName, group)
		if err != nil {
			return nil, err
		}
		nested = append(nested, structDecl)
		fields = append(fields, ir.StructField{
			Name:    group.fieldName,
			Type:    ir.Usage(inputTypeName.Appending("", group.structName)),
			Default: ir.Call(ir.Dot("init")),
		})
	}

	if len(desc.RequestContents) > 0 {
		bodyDecl, bodyUsage, err := t.bodyEnum(desc, inputTypeName, desc.RequestContents, "#/paths/"+desc.Path+"/"+strings.ToLower(desc.Method)+"/requestBody")
		if err != nil {
			return nil, err
		}
		nested = append(nested, bodyDecl)
		field := ir.StructField{Name: "body", Type: bodyUsage}
		if !desc.BodyRequired {
			field.Type = field.Type.AsOptional()
			field.Default = ir.Lit("nil")
		}
		fields = append(fields, field)
	}

	body := append(nested, t.memberwiseInit(fields))
	return ir.CommentedDecl(
		fmt.Sprintf("Input for the `%s` operation.", desc.ID),
		ir.StructDecl{
			Name:         "Input",
			Access:       t.access,
			Conformances: []string{ir.ConformanceSendable, ir.ConformanceHashable},
			Fields:       fields,
			Decls:        body,
		}), nil
}

// locationStruct builds the struct for one parameter location. Locations
// with no parameters yield an empty struct.
func (t *Translator) locationStruct(desc *OperationDesc, inputTypeName ir.TypeName, group locationGroup) (ir.Decl, error) {
	structTypeName := inputTypeName.Appending("", group.structName)

	var fields []ir.StructField
	var nested []ir.Decl
	for _, p := range mergedParameters(desc) {
		if p.In != group.in {
			continue
		}
		explode := p.Explode != nil && *p.Explode
		if p.Explode == nil && p.In == openapi3.ParameterInQuery {
			// form style defaults to explode=true in query position.
			explode = true
		}
		if !probe.SupportedParameterStyle(p.In, p.Style, explode) {
			if err := diagnostic.UnsupportedWarning(t.sink,
				fmt.Sprintf("Parameter style %s+%s+explode=%t", p.In, p.Style, explode),
				fmt.Sprintf("#/paths/%s/%s/parameters/%s", desc.Path, strings.ToLower(desc.Method), p.Name),
				nil,
			); err != nil {
				return nil, err
			}
			continue
		}
		required := p.Required || p.In == openapi3.ParameterInPath
		member := t.assigner.MemberName(p.Name)
		usage, inline, err := t.typeUsageForProperty(structTypeName, p.Name, member, p.Schema, required)
		if err != nil {
			return nil, err
		}
		nested = append(nested, inline...)
		field := ir.StructField{Name: member, Type: usage}
		if usage.Optional {
			field.Default = ir.Lit("nil")
		}
		fields = append(fields, field)
	}

	if group.in == openapi3.ParameterInHeader && hasAcceptable(desc) {
		fields = append(fields, ir.StructField{
			Name: "accept",
			Type: ir.Usage(ir.Builtin(fmt.Sprintf(
				"[OpenAPIRuntime.AcceptHeaderContentType<Operations.%s.AcceptableContentType>]", desc.Name))),
			Default: ir.Lit(".defaultValues()"),
		})
	}

	body := append(nested, t.memberwiseInit(fields))
	return ir.StructDecl{
		Name:         group.structName,
		Access:       t.access,
		Conformances: []string{ir.ConformanceSendable, ir.ConformanceHashable},
		Fields:       fields,
		Decls:        body,
	}, nil
}

// mergedParameters combines path-item and operation parameters; an
// operation parameter overrides a path-item one with the same name and
// location.
func mergedParameters(desc *OperationDesc) []*openapi3.Parameter {
	type key struct{ name, in string }
	seen := map[key]bool{}
	var out []*openapi3.Parameter
	for _, ref := range desc.Op.Parameters {
		if ref.Value == nil {
			continue
		}
		out = append(out, ref.Value)
		seen[key{ref.Value.Name, ref.Value.In}] = true
	}
	if desc.PathItem != nil {
		for _, ref := range desc.PathItem.Parameters {
			if ref.Value == nil || seen[key{ref.Value.Name, ref.Value.In}] {
				continue
			}
			out = append(out, ref.Value)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// bodyEnum builds a Body sum type with one case per content variant.
func (t *Translator) bodyEnum(desc *OperationDesc, parent ir.TypeName, contents []Content, foundIn string) (ir.Decl, ir.TypeUsage, error) {
	bodyTypeName := parent.Appending("", "Body")

	var cases []ir.EnumCaseDecl
	var nested []ir.Decl
	for i := range contents {
		content := &contents[i]
		caseName := CaseNameForMediaType(content.MediaType)
		var usage ir.TypeUsage
		switch content.Category {
		case ContentMultipart:
			u, decls, err := t.translateMultipartBody(bodyTypeName, caseName, content.Media, foundIn)
			if err != nil {
				return nil, ir.TypeUsage{}, err
			}
			usage = u
			nested = append(nested, decls...)
		case ContentBinary:
			usage = ir.Usage(ir.HTTPBody)
		case ContentText:
			usage = ir.Usage(ir.HTTPBody)
		default:
			u, decls, err := t.contentSchemaUsage(desc, bodyTypeName, caseName, *content, foundIn)
			if err != nil {
				return nil, ir.TypeUsage{}, err
			}
			usage = u
			nested = append(nested, decls...)
		}
		content.Usage = usage
		cases = append(cases, ir.EnumCaseDecl{
			Name:       caseName,
			Kind:       ir.CaseAssociatedValues,
			Associated: []ir.AssociatedValue{{Type: usage}},
		})
	}

	decl := ir.CommentedDecl("The request or response body variants by content type.", ir.EnumDecl{
		Name:         "Body",
		Access:       t.access,
		Conformances: []string{ir.ConformanceSendable, ir.ConformanceHashable},
		Cases:        cases,
		Members:      nested,
	})
	return decl, ir.Usage(parent.Appending("", "Body")), nil
}

// contentSchemaUsage resolves a structured (JSON, form) content schema,
// probing it first and falling back to the opaque container when
// unsupported in this critical position.
func (t *Translator) contentSchemaUsage(desc *OperationDesc, parent ir.TypeName, caseName string, content Content, foundIn string) (ir.TypeUsage, []ir.Decl, error) {
	if content.Media.Schema == nil {
		return ir.Usage(ir.ValueContainer), nil, nil
	}
	if r := t.prober.Check(content.Media.Schema, foundIn); !r.Supported {
		if err := probe.WarnUnsupported(t.sink, r, "Content schema"); err != nil {
			return ir.TypeUsage{}, nil, err
		}
		return ir.Usage(ir.ValueContainer), nil, nil
	}
	return t.typeUsageForProperty(parent, "content/"+content.MediaType, strcase.ToCamel(caseName), content.Media.Schema, true)
}

func valueOf(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	return ref.Value
}

// translateOutput builds the Output enum, one per-response struct per
// documented status, plus the undocumented case.
func (t *Translator) translateOutput(desc *OperationDesc) ([]ir.Decl, error) {
	outputTypeName := desc.TypeName.Appending("", "Output")

	var nested []ir.Decl
	var cases []ir.EnumCaseDecl
	var members []ir.Decl

	for _, resp := range desc.Responses {
		respDecl, err := t.responseStruct(desc, outputTypeName, resp)
		if err != nil {
			return nil, err
		}
		nested = append(nested, respDecl)
		cases = append(cases, ir.EnumCaseDecl{
			Name: resp.CaseName,
			Kind: ir.CaseAssociatedValues,
			Associated: []ir.AssociatedValue{{
				Type: ir.Usage(outputTypeName.Appending("", resp.StructName)),
			}},
		})
		members = append(members, t.outputAccessor(outputTypeName, resp))
	}

	cases = append(cases, ir.EnumCaseDecl{
		Name: "undocumented",
		Kind: ir.CaseAssociatedValues,
		Associated: []ir.AssociatedValue{
			{Label: "statusCode", Type: ir.Usage(ir.BuiltinInt)},
			{Type: ir.Usage(ir.Builtin("OpenAPIRuntime.UndocumentedPayload"))},
		},
	})

	outputEnum := ir.CommentedDecl(
		fmt.Sprintf("Output for the `%s` operation.", desc.ID),
		ir.EnumDecl{
			Name:         "Output",
			Access:       t.access,
			Conformances: []string{ir.ConformanceSendable, ir.ConformanceHashable},
			Cases:        cases,
			Members:      append(nested, members...),
		})
	return []ir.Decl{outputEnum}, nil
}

// responseStruct builds the struct for one response: Headers + Body.
func (t *Translator) responseStruct(desc *OperationDesc, outputTypeName ir.TypeName, resp ResponseDesc) (ir.Decl, error) {
	structTypeName := outputTypeName.Appending("", resp.StructName)

	var nested []ir.Decl
	var fields []ir.StructField

	headersDecl, err := t.responseHeadersStruct(structTypeName, resp)
	if err != nil {
		return nil, err
	}
	nested = append(nested, headersDecl)
	fields = append(fields, ir.StructField{
		Name:    "headers",
		Type:    ir.Usage(structTypeName.Appending("", "Headers")),
		Default: ir.Call(ir.Dot("init")),
	})

	if len(resp.Contents) > 0 {
		bodyDecl, bodyUsage, err := t.bodyEnum(desc, structTypeName, resp.Contents,
			"#/paths/"+desc.Path+"/"+strings.ToLower(desc.Method)+"/responses/"+resp.Key)
		if err != nil {
			return nil, err
		}
		nested = append(nested, bodyDecl)
		fields = append(fields, ir.StructField{Name: "body", Type: bodyUsage})
	}

	body := append(nested, t.memberwiseInit(fields))
	comment := ""
	if resp.Response.Description != nil {
		comment = *resp.Response.Description
	}
	return ir.CommentedDecl(comment, ir.StructDecl{
		Name:         resp.StructName,
		Access:       t.access,
		Conformances: []string{ir.ConformanceSendable, ir.ConformanceHashable},
		Fields:       fields,
		Decls:        body,
	}), nil
}

// responseHeadersStruct builds the typed Headers struct of one response.
func (t *Translator) responseHeadersStruct(parent ir.TypeName, resp ResponseDesc) (ir.Decl, error) {
	structTypeName := parent.Appending("", "Headers")
	var fields []ir.StructField
	var nested []ir.Decl

	names := make([]string, 0, len(resp.Response.Headers))
	for n := range resp.Response.Headers {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		header := resp.Response.Headers[name]
		if header.Value == nil {
			continue
		}
		member := t.assigner.MemberName(name)
		usage, inline, err := t.typeUsageForProperty(structTypeName, name, member, header.Value.Schema, header.Value.Required)
		if err != nil {
			return nil, err
		}
		nested = append(nested, inline...)
		field := ir.StructField{Name: member, Type: usage}
		if usage.Optional {
			field.Default = ir.Lit("nil")
		}
		fields = append(fields, field)
	}

	body := append(nested, t.memberwiseInit(fields))
	return ir.StructDecl{
		Name:         "Headers",
		Access:       t.access,
		Conformances: []string{ir.ConformanceSendable, ir.ConformanceHashable},
		Fields:       fields,
		Decls:        body,
	}, nil
}

// outputAccessor emits the throwing convenience accessor for one response
// case: "var ok: Ok { get throws }".
func (t *Translator) outputAccessor(outputTypeName ir.TypeName, resp ResponseDesc) ir.Decl {
	return ir.CommentedDecl(
		fmt.Sprintf("The value of the `.%s` case, throwing when the output is a different case.", resp.CaseName),
		ir.VariableDecl{
			Kind:          ir.VarVar,
			Name:          resp.CaseName,
			Access:        t.access,
			Type:          ptrUsage(ir.Usage(outputTypeName.Appending("", resp.StructName))),
			GetterEffects: []string{"throws"},
			Getter: []ir.Expr{ir.SwitchExpr{
				Over: ir.Ident("self"),
				Cases: []ir.SwitchCaseExpr{
					{
						Pattern: ir.Call(ir.Dot(resp.CaseName), ir.Arg("", ir.Lit("let response"))),
						Body:    []ir.Expr{ir.Ret(ir.Ident("response"))},
					},
					{
						Body: []ir.Expr{ir.Throw(ir.Call(
							ir.Member(ir.Ident("OpenAPIRuntime.RuntimeError"), "unexpectedResponseStatus"),
							ir.Arg("expectedStatus", ir.Str(resp.CaseName)),
							ir.Arg("response", ir.Ident("self")),
						))},
					},
				},
			}},
		})
}

// acceptableContentTypes emits the AcceptableContentType enum listing the
// response content types a client can send in its accept header. Nil when
// no response documents a content type.
func (t *Translator) acceptableContentTypes(desc *OperationDesc) ir.Decl {
	seen := map[string]bool{}
	var mediaTypes []string
	for _, resp := range desc.Responses {
		for _, c := range resp.Contents {
			if !seen[c.MediaType] {
				seen[c.MediaType] = true
				mediaTypes = append(mediaTypes, c.MediaType)
			}
		}
	}
	if len(mediaTypes) == 0 {
		return nil
	}
	sort.Strings(mediaTypes)

	var cases []ir.EnumCaseDecl
	var rawValues []ir.SwitchCaseExpr
	for _, mt := range mediaTypes {
		caseName := CaseNameForMediaType(mt)
		cases = append(cases, ir.EnumCaseDecl{Name: caseName, Kind: ir.CaseBare})
		rawValues = append(rawValues, ir.SwitchCaseExpr{
			Pattern: ir.Dot(caseName),
			Body:    []ir.Expr{ir.Ret(ir.Str(mt))},
		})
	}
	cases = append(cases, ir.EnumCaseDecl{
		Name:       "other",
		Kind:       ir.CaseAssociatedValues,
		Associated: []ir.AssociatedValue{{Type: ir.Usage(ir.BuiltinString)}},
	})
	rawValues = append(rawValues, ir.SwitchCaseExpr{
		Pattern: ir.Call(ir.Dot("other"), ir.Arg("", ir.Lit("let string"))),
		Body:    []ir.Expr{ir.Ret(ir.Ident("string"))},
	})

	rawValue := ir.VariableDecl{
		Kind:   ir.VarVar,
		Name:   "rawValue",
		Access: t.access,
		Type:   ptrUsage(ir.Usage(ir.BuiltinString)),
		Getter: []ir.Expr{ir.SwitchExpr{Over: ir.Ident("self"), Cases: rawValues}},
	}

	return ir.CommentedDecl("The content types the operation accepts in responses.", ir.EnumDecl{
		Name:         "AcceptableContentType",
		Access:       t.access,
		Conformances: []string{"AcceptableProtocol"},
		Cases:        cases,
		Members:      []ir.Decl{rawValue},
	})
}

// protocolMethod builds the API protocol requirement for one operation.
func (t *Translator) protocolMethod(desc *OperationDesc) ir.FunctionSignature {
	input := ir.Usage(desc.TypeName.Appending("", "Input"))
	output := ir.Usage(desc.TypeName.Appending("", "Output"))
	return ir.FunctionSignature{
		Keyword: ir.KeywordFunc,
		Name:    desc.Name,
		Parameters: []ir.ParameterDecl{{
			Label: "_", Name: "input", Type: input,
		}},
		Async:      true,
		Throws:     true,
		ReturnType: &output,
	}
}

// apiProtocol assembles the APIProtocol declaration.
func (t *Translator) apiProtocol(signatures []ir.FunctionSignature, comments []*ir.Comment) ir.ProtocolDecl {
	return ir.ProtocolDecl{
		Name:             "APIProtocol",
		Access:           t.access,
		Conformances:     []string{"Sendable"},
		Functions:        signatures,
		FunctionComments: comments,
	}
}

func operationComment(desc *OperationDesc) *ir.Comment {
	doc := ""
	if desc.Op.Summary != "" {
		doc = desc.Op.Summary + "\n\n"
	}
	if desc.Op.Description != "" {
		doc += desc.Op.Description + "\n\n"
	}
	doc += fmt.Sprintf("- Remark: HTTP `%s %s`.", desc.Method, desc.Path)
	return &ir.Comment{Doc: doc}
}

// statusCaseName maps a response key to its Swift case name.
func statusCaseName(key string) string {
	if name, ok := statusNames[key]; ok {
		return name
	}
	if strings.HasSuffix(key, "XX") && len(key) == 3 {
		switch key[0] {
		case '1':
			return "informational"
		case '2':
			return "successful"
		case '3':
			return "redirect"
		case '4':
			return "clientError"
		case '5':
			return "serverError"
		}
	}
	return "code" + key
}

var statusNames = map[string]string{
	"default": "default",
	"100":     "continue_",
	"101":     "switchingProtocols",
	"200":     "ok",
	"201":     "created",
	"202":     "accepted",
	"203":     "nonAuthoritativeInformation",
	"204":     "noContent",
	"205":     "resetContent",
	"206":     "partialContent",
	"300":     "multipleChoices",
	"301":     "movedPermanently",
	"302":     "found",
	"303":     "seeOther",
	"304":     "notModified",
	"307":     "temporaryRedirect",
	"308":     "permanentRedirect",
	"400":     "badRequest",
	"401":     "unauthorized",
	"402":     "paymentRequired",
	"403":     "forbidden",
	"404":     "notFound",
	"405":     "methodNotAllowed",
	"406":     "notAcceptable",
	"407":     "proxyAuthenticationRequired",
	"408":     "requestTimeout",
	"409":     "conflict",
	"410":     "gone",
	"411":     "lengthRequired",
	"412":     "preconditionFailed",
	"413":     "contentTooLarge",
	"414":     "uriTooLong",
	"415":     "unsupportedMediaType",
	"416":     "rangeNotSatisfiable",
	"417":     "expectationFailed",
	"421":     "misdirectedRequest",
	"422":     "unprocessableContent",
	"428":     "preconditionRequired",
	"429":     "tooManyRequests",
	"431":     "requestHeaderFieldsTooLarge",
	"500":     "internalServerError",
	"501":     "notImplemented",
	"502":     "badGateway",
	"503":     "serviceUnavailable",
	"504":     "gatewayTimeout",
	"505":     "httpVersionNotSupported",
}
