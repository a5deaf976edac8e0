package ir

// AccessModifier is the Swift access level applied to generated declarations.
type AccessModifier string

const (
	AccessPublic      AccessModifier = "public"
	AccessPackage     AccessModifier = "package"
	AccessInternal    AccessModifier = "internal"
	AccessFilePrivate AccessModifier = "fileprivate"
	AccessPrivate     AccessModifier = "private"
)

// Decl is one Swift declaration in the IR tree.
type Decl interface{ declNode() }

// Comment is a documentation or inline comment attached to a declaration.
type Comment struct {
	// Doc renders as "///" lines; Inline as "//" lines. Mark renders as a
	// "// MARK: -" separator.
	Doc    string
	Inline string
	Mark   string
}

// Commentable pairs a declaration with its comment.
type Commentable struct {
	Comment *Comment
	Decl    Decl
}

// DeprecationInfo carries the message and rename hints of a deprecation.
type DeprecationInfo struct {
	Message string
	Renamed string
}

// Deprecated wraps a declaration in an "@available(*, deprecated)" attribute.
type Deprecated struct {
	Info DeprecationInfo
	Decl Decl
}

// StructField is one stored property of a struct declaration.
type StructField struct {
	Name    string
	Type    TypeUsage
	Comment *Comment
	// Default is an optional default value expression for the initializer.
	Default Expr
}

// StructDecl declares a Swift struct.
type StructDecl struct {
	Name         string
	Access       AccessModifier
	Conformances []string
	Fields       []StructField
	// Decls are nested declarations (CodingKeys, payload types, init,
	// codable functions) emitted inside the struct body.
	Decls []Decl
}

// EnumCaseKind distinguishes the payload shape of an enum case.
type EnumCaseKind int

const (
	CaseBare EnumCaseKind = iota
	CaseRawValue
	CaseAssociatedValues
)

// AssociatedValue is one associated value of an enum case.
type AssociatedValue struct {
	Label string
	Type  TypeUsage
}

// EnumCaseDecl declares one case of an enum.
type EnumCaseDecl struct {
	Name string
	Kind EnumCaseKind
	// RawValue is the literal for CaseRawValue cases, already quoted for
	// strings.
	RawValue string
	// Associated holds the values for CaseAssociatedValues cases.
	Associated []AssociatedValue
}

// EnumDecl declares a Swift enum.
type EnumDecl struct {
	Name         string
	Access       AccessModifier
	Frozen       bool
	Indirect     bool
	RawType      string // "String", "Int", or empty
	Conformances []string
	Cases        []EnumCaseDecl
	// Members are additional declarations inside the enum body.
	Members []Decl
}

// TypealiasDecl declares "typealias Name = Existing".
type TypealiasDecl struct {
	Name     string
	Access   AccessModifier
	Existing TypeUsage
}

// ProtocolDecl declares a protocol with function requirements.
type ProtocolDecl struct {
	Name         string
	Access       AccessModifier
	Conformances []string
	Functions    []FunctionSignature
	// FunctionComments pairs with Functions by index; nil entries mean no
	// comment.
	FunctionComments []*Comment
}

// ExtensionDecl declares an extension on an existing type.
type ExtensionDecl struct {
	OnType       string
	Access       AccessModifier
	Conformances []string
	Decls        []Decl
}

// ParameterDecl is one parameter of a function signature.
type ParameterDecl struct {
	Label   string // external label; "_" suppresses it
	Name    string
	Type    TypeUsage
	Default Expr
}

// FunctionKeyword selects the declaration keyword of a function.
type FunctionKeyword string

const (
	KeywordFunc        FunctionKeyword = "func"
	KeywordInitializer FunctionKeyword = "init"
)

// FunctionSignature describes a function without its body.
type FunctionSignature struct {
	Keyword    FunctionKeyword
	Name       string
	Access     AccessModifier
	Static     bool
	Parameters []ParameterDecl
	Throws     bool
	Async      bool
	ReturnType *TypeUsage
}

// FunctionDecl is a function with a body of expressions rendered as
// statements in order.
type FunctionDecl struct {
	Signature FunctionSignature
	Body      []Expr
}

// VariableKind selects let or var.
type VariableKind string

const (
	VarLet VariableKind = "let"
	VarVar VariableKind = "var"
)

// VariableDecl declares a stored or computed property or a constant.
type VariableDecl struct {
	Kind     VariableKind
	Name     string
	Access   AccessModifier
	Static   bool
	Type     *TypeUsage
	Value    Expr
	// Getter, when non-nil, renders a computed property.
	Getter []Expr
	// GetterEffects renders effect keywords on the getter ("throws").
	GetterEffects []string
}

// EnumRawRepresentable conformance names shared by translators.
const (
	ConformanceCodable   = "Codable"
	ConformanceHashable  = "Hashable"
	ConformanceSendable  = "Sendable"
	ConformanceEquatable = "Equatable"
	ConformanceCaseIter  = "CaseIterable"
)

func (Commentable) declNode()   {}
func (Deprecated) declNode()    {}
func (StructDecl) declNode()    {}
func (EnumDecl) declNode()      {}
func (EnumCaseDecl) declNode()  {}
func (TypealiasDecl) declNode() {}
func (ProtocolDecl) declNode()  {}
func (ExtensionDecl) declNode() {}
func (FunctionDecl) declNode()  {}
func (VariableDecl) declNode()  {}

// CommentedDecl attaches a doc comment to a declaration when text is
// non-empty.
func CommentedDecl(doc string, d Decl) Decl {
	if doc == "" {
		return d
	}
	return Commentable{Comment: &Comment{Doc: doc}, Decl: d}
}

// DeclName returns the primary name a declaration introduces, unwrapping
// comment and deprecation wrappers. Extensions and functions return the
// name they attach to or declare.
func DeclName(d Decl) string {
	switch t := d.(type) {
	case Commentable:
		return DeclName(t.Decl)
	case Deprecated:
		return DeclName(t.Decl)
	case StructDecl:
		return t.Name
	case EnumDecl:
		return t.Name
	case EnumCaseDecl:
		return t.Name
	case TypealiasDecl:
		return t.Name
	case ProtocolDecl:
		return t.Name
	case ExtensionDecl:
		return t.OnType
	case FunctionDecl:
		return t.Signature.Name
	case VariableDecl:
		return t.Name
	default:
		return ""
	}
}
