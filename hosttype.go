package tsgen

import (
	"fmt"
	"strings"
)

// Canonical names the built-in override processor treats specially. Host
// types are interned by canonical name, so identity is a plain string
// comparison rather than anything reflective.
const (
	// OptionalTypeName is the canonical name of the host's parameterized
	// "value or absence" wrapper. Distinct from the optional-field modifier
	// in emitted TypeScript, which is what it gets translated into.
	OptionalTypeName = "Optional"

	// URITypeName is the canonical name of the host's opaque identifier
	// type. It serializes as a string, and is emitted as one.
	URITypeName = "URI"
)

// Type is a reference to a host type, interned by canonical name. Args is
// non-empty only for parameterized types, e.g. Optional<Foo> or List<Foo>.
type Type struct {
	Name string
	Args []Type
}

// NewType returns a non-parameterized reference to the named host type.
func NewType(name string) Type {
	return Type{Name: name}
}

// Parameterized returns a reference to a parameterized host type.
func Parameterized(name string, args ...Type) Type {
	return Type{Name: name, Args: args}
}

// OptionalOf wraps t in the host's optional wrapper.
func OptionalOf(t Type) Type {
	return Parameterized(OptionalTypeName, t)
}

// IsParameterized reports whether t carries type arguments.
func (t Type) IsParameterized() bool {
	return len(t.Args) > 0
}

// IsOptional reports whether t is the host's optional wrapper applied to
// exactly one argument.
func (t Type) IsOptional() bool {
	return t.Name == OptionalTypeName && len(t.Args) == 1
}

// String renders the canonical form of the reference, e.g. "Map<string, Foo>".
func (t Type) String() string {
	if !t.IsParameterized() {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
}

// Annotation is an interned annotation type name from the host model.
type Annotation string

// Param is a single parameter of a host method.
type Param struct {
	Name        string
	Type        Type
	Annotations []Annotation
}

// Field is a single field of a host data class.
type Field struct {
	Name        string
	Type        Type
	Annotations []Annotation
}

// Method is a host method declaration. Methods on the same Class appear in
// declaration order, which is the order duplicate-name resolvers see them in.
type Method struct {
	Name        string
	Params      []Param
	Return      Type
	Annotations []Annotation
}

// Signature renders the method as "name(T1, T2)", used in warnings and
// error messages.
func (m Method) Signature() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type.String()
	}
	return fmt.Sprintf("%s(%s)", m.Name, strings.Join(params, ", "))
}

// Constant is a named enumeration constant on a host class.
type Constant struct {
	Name  string
	Value string
}

// Class is a host class declaration. A class with methods is a service
// class and produces a service interface; a class with only fields is a
// data type and produces a data interface when discovered. Constants feed
// the enum-constants extension.
type Class struct {
	Type      Type
	Fields    []Field
	Methods   []Method
	Constants []Constant
}

// IsService reports whether the class declares any methods.
func (c Class) IsService() bool {
	return len(c.Methods) > 0
}

func hasAnyAnnotation(have []Annotation, want map[Annotation]struct{}) bool {
	for _, a := range have {
		if _, ok := want[a]; ok {
			return true
		}
	}
	return false
}
