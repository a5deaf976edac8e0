// Package ir defines the typed intermediate representation the translators
// produce and the renderer consumes: Swift declarations, expressions, and
// the type names that tie them back to the OpenAPI document.
package ir

import "strings"

// TypeName is a fully qualified name with parallel JSON and Swift paths.
// The JSON path follows the document ("#/components/schemas/Pet"), the Swift
// path the generated namespace ("Components.Schemas.Pet"). Components are
// appended in lockstep so the two stay aligned; a component may extend only
// one side (for example a "Payload" synthesized for an inline schema has no
// JSON counterpart).
type TypeName struct {
	jsonComponents  []string
	swiftComponents []string
}

// Root is the empty name both paths hang off.
var Root = TypeName{}

// NewTypeName creates a name from parallel component lists.
func NewTypeName(jsonComponents, swiftComponents []string) TypeName {
	return TypeName{jsonComponents: jsonComponents, swiftComponents: swiftComponents}
}

// Appending returns a new name with one component added to both paths.
// An empty string skips that side.
func (t TypeName) Appending(jsonComponent, swiftComponent string) TypeName {
	n := TypeName{
		jsonComponents:  append([]string(nil), t.jsonComponents...),
		swiftComponents: append([]string(nil), t.swiftComponents...),
	}
	if jsonComponent != "" {
		n.jsonComponents = append(n.jsonComponents, jsonComponent)
	}
	if swiftComponent != "" {
		n.swiftComponents = append(n.swiftComponents, swiftComponent)
	}
	return n
}

// JSONPath renders the JSON reference path, "#/components/schemas/Pet".
func (t TypeName) JSONPath() string {
	if len(t.jsonComponents) == 0 {
		return "#"
	}
	return "#/" + strings.Join(t.jsonComponents, "/")
}

// FullyQualifiedName renders the Swift path, "Components.Schemas.Pet".
func (t TypeName) FullyQualifiedName() string {
	return strings.Join(t.swiftComponents, ".")
}

// ShortName is the last Swift component.
func (t TypeName) ShortName() string {
	if len(t.swiftComponents) == 0 {
		return ""
	}
	return t.swiftComponents[len(t.swiftComponents)-1]
}

// Parent drops the last component of both paths.
func (t TypeName) Parent() TypeName {
	n := TypeName{}
	if len(t.jsonComponents) > 0 {
		n.jsonComponents = append([]string(nil), t.jsonComponents[:len(t.jsonComponents)-1]...)
	}
	if len(t.swiftComponents) > 0 {
		n.swiftComponents = append([]string(nil), t.swiftComponents[:len(t.swiftComponents)-1]...)
	}
	return n
}

// IsBuiltin reports whether the name refers to a builtin rather than a
// generated declaration (builtins carry no JSON path).
func (t TypeName) IsBuiltin() bool {
	return len(t.jsonComponents) == 0 && len(t.swiftComponents) > 0
}

// Builtin creates a TypeName for a Swift builtin such as "Swift.String".
func Builtin(fullyQualified string) TypeName {
	return TypeName{swiftComponents: strings.Split(fullyQualified, ".")}
}

// Common builtins used by the translators.
var (
	BuiltinString = Builtin("Swift.String")
	BuiltinInt    = Builtin("Swift.Int")
	BuiltinInt32  = Builtin("Swift.Int32")
	BuiltinInt64  = Builtin("Swift.Int64")
	BuiltinDouble = Builtin("Swift.Double")
	BuiltinFloat  = Builtin("Swift.Float")
	BuiltinBool   = Builtin("Swift.Bool")
	BuiltinVoid   = Builtin("Swift.Void")
	BuiltinDate   = Builtin("Foundation.Date")
	BuiltinData   = Builtin("Foundation.Data")

	// ValueContainer is the opaque container for undecodable or empty schemas.
	ValueContainer = Builtin("OpenAPIRuntime.OpenAPIValueContainer")
	// ObjectContainer backs untyped additionalProperties maps.
	ObjectContainer = Builtin("OpenAPIRuntime.OpenAPIObjectContainer")
	// HTTPBody is the streaming binary body type.
	HTTPBody = Builtin("OpenAPIRuntime.HTTPBody")
)

// TypeUsage is a reference to a type plus usage modifiers.
type TypeUsage struct {
	Name     TypeName
	Optional bool
	Array    bool
	// Wrapper wraps the usage in a generic container, for example
	// "OpenAPIRuntime.MultipartBody". Empty means no wrapper.
	Wrapper string
	// Boxed marks a usage participating in a reference cycle; the rendered
	// type goes through the runtime's copy-on-write box.
	Boxed bool
}

// Usage creates a plain usage of a name.
func Usage(name TypeName) TypeUsage {
	return TypeUsage{Name: name}
}

// AsOptional returns a copy marked optional.
func (u TypeUsage) AsOptional() TypeUsage {
	u.Optional = true
	return u
}

// AsArray returns a copy wrapped in an array.
func (u TypeUsage) AsArray() TypeUsage {
	u.Array = true
	return u
}

// WithWrapper returns a copy wrapped in the named generic container.
func (u TypeUsage) WithWrapper(wrapper string) TypeUsage {
	u.Wrapper = wrapper
	return u
}

// Render produces the Swift spelling of the usage.
func (u TypeUsage) Render() string {
	s := u.Name.FullyQualifiedName()
	if u.Boxed {
		s = "OpenAPIRuntime.CopyOnWriteBox<" + s + ">"
	}
	if u.Array {
		s = "[" + s + "]"
	}
	if u.Wrapper != "" {
		s = u.Wrapper + "<" + s + ">"
	}
	if u.Optional {
		s += "?"
	}
	return s
}
