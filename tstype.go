package tsgen

import (
	"fmt"
	"strings"
)

// Names given special rendering treatment by TsType.String.
const (
	tsArrayName = "Array"
	tsIndexName = "{ [key: string]: _ }"
)

// TsType is an output TypeScript type. Opt marks the value as optional; it
// does not change how the type itself renders, but emitters translate it
// into the "?" modifier on the field or parameter carrying the type.
type TsType struct {
	Name string
	Args []TsType
	Opt  bool
}

// The TypeScript primitives the generator emits directly.
var (
	TsString  = TsType{Name: "string"}
	TsNumber  = TsType{Name: "number"}
	TsBoolean = TsType{Name: "boolean"}
	TsAny     = TsType{Name: "any"}
	TsVoid    = TsType{Name: "void"}
)

// TsRef returns a reference to a named TypeScript type, typically a
// generated interface.
func TsRef(name string, args ...TsType) TsType {
	return TsType{Name: name, Args: args}
}

// TsArray returns the array type of elem, rendered as "elem[]".
func TsArray(elem TsType) TsType {
	return TsType{Name: tsArrayName, Args: []TsType{elem}}
}

// TsIndexSignature returns a string-keyed index signature type, rendered as
// "{ [key: string]: val }". This is how host Map types are emitted.
func TsIndexSignature(val TsType) TsType {
	return TsType{Name: tsIndexName, Args: []TsType{val}}
}

// Optional returns a copy of t marked optional.
func (t TsType) Optional() TsType {
	t.Opt = true
	return t
}

// String renders the type. Optionality is not rendered here; see Opt.
func (t TsType) String() string {
	return t.render(func(name string) string { return name })
}

// render walks the type tree, passing every type name through rename. The
// generator uses this to apply the configured interface prefix to generated
// type references without touching primitives.
func (t TsType) render(rename func(string) string) string {
	switch {
	case t.Name == tsArrayName && len(t.Args) == 1:
		return t.Args[0].render(rename) + "[]"
	case t.Name == tsIndexName && len(t.Args) == 1:
		return fmt.Sprintf("{ [key: string]: %s }", t.Args[0].render(rename))
	case len(t.Args) == 0:
		return rename(t.Name)
	default:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.render(rename)
		}
		return fmt.Sprintf("%s<%s>", rename(t.Name), strings.Join(args, ", "))
	}
}
