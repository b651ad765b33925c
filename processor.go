// Package tsgen generates TypeScript interface descriptions for a
// reflective, nominally-typed host object model.
//
// The package is organized around small, named components with narrow
// responsibilities: a TypeProcessor resolves exactly one host type to one
// TypeScript type or declines, a Chain composes processors with
// first-match-wins semantics, and policy hooks (MethodFilter,
// DuplicateNameResolver) customize what the ServiceGenerator emits.
// Configuration assembles all of it into the Settings the generator runs
// with.
package tsgen

import (
	"github.com/cockroachdb/errors"
)

// Result is the outcome of a successful type resolution: the TypeScript
// type to emit, and any host types uncovered along the way that need their
// own generation. Results are transient; the caller consumes them
// immediately.
type Result struct {
	Type       TsType
	Discovered []Type
}

// Context is handed to every TypeProcessor invocation. Resolve runs a
// nested host type through the full resolution pipeline, so processors can
// recursively resolve type arguments without knowing chain composition.
//
// A nil, nil return means the whole pipeline declined the type.
type Context interface {
	Resolve(t Type) (*Result, error)
}

// A TypeProcessor resolves one host type to one TypeScript type.
//
// A nil, nil return indicates the processor declines the type — it has no
// opinion, and resolution passes to the next processor in the chain. A
// non-nil error is fatal and aborts the generation run.
type TypeProcessor interface {
	// ProcessorName returns the name of the processor, used to decorate
	// errors and warnings.
	ProcessorName() string

	Process(t Type, ctx Context) (*Result, error)
}

type processorFunc struct {
	name string
	fn   func(Type, Context) (*Result, error)
}

func (p processorFunc) ProcessorName() string { return p.name }

func (p processorFunc) Process(t Type, ctx Context) (*Result, error) {
	return p.fn(t, ctx)
}

// ProcessorFunc wraps a plain function as a named TypeProcessor.
func ProcessorFunc(name string, fn func(Type, Context) (*Result, error)) TypeProcessor {
	return processorFunc{name: name, fn: fn}
}

// DeclineAll returns a processor that declines every type. It is the
// default custom processor: with it in place, only the built-in override
// and structural processors contribute to resolution.
func DeclineAll() TypeProcessor {
	return ProcessorFunc("decline-all", func(Type, Context) (*Result, error) {
		return nil, nil
	})
}

// Host primitive names and their TypeScript counterparts.
var primitiveTsTypes = map[string]TsType{
	"string":  TsString,
	"char":    TsString,
	"int":     TsNumber,
	"long":    TsNumber,
	"float":   TsNumber,
	"double":  TsNumber,
	"boolean": TsBoolean,
	"void":    TsVoid,
	"object":  TsAny,
}

// Host collection names handled structurally.
const (
	listTypeName = "List"
	setTypeName  = "Set"
	mapTypeName  = "Map"
)

// GenericTypeProcessor returns the structural fallback processor: it maps
// host primitives, renders List/Set as arrays and Map as a string-keyed
// index signature, and treats any other name as a reference to a generated
// interface, reporting it as discovered.
//
// It sits last in the assembled chain, so it only sees types no earlier
// processor claimed. Type arguments are resolved recursively through the
// context; an argument the whole pipeline declines falls back to "any".
func GenericTypeProcessor() TypeProcessor {
	return ProcessorFunc("generic-structural", genericProcess)
}

func genericProcess(t Type, ctx Context) (*Result, error) {
	if ts, ok := primitiveTsTypes[t.Name]; ok && !t.IsParameterized() {
		return &Result{Type: ts}, nil
	}

	switch t.Name {
	case listTypeName, setTypeName:
		if len(t.Args) != 1 {
			return nil, errors.Newf("%s must have exactly one type argument, got %s", t.Name, t)
		}
		elem, err := resolveArg(ctx, t.Args[0])
		if err != nil {
			return nil, err
		}
		return &Result{Type: TsArray(elem.Type), Discovered: elem.Discovered}, nil

	case mapTypeName:
		if len(t.Args) != 2 {
			return nil, errors.Newf("%s must have exactly two type arguments, got %s", t.Name, t)
		}
		// Only string-keyed maps survive JSON serialization; the key type
		// is resolved for discovery but always rendered as string.
		key, err := resolveArg(ctx, t.Args[0])
		if err != nil {
			return nil, err
		}
		val, err := resolveArg(ctx, t.Args[1])
		if err != nil {
			return nil, err
		}
		discovered := append(key.Discovered, val.Discovered...)
		return &Result{Type: TsIndexSignature(val.Type), Discovered: discovered}, nil
	}

	if t.IsParameterized() {
		args := make([]TsType, len(t.Args))
		discovered := []Type{NewType(t.Name)}
		for i, a := range t.Args {
			r, err := resolveArg(ctx, a)
			if err != nil {
				return nil, err
			}
			args[i] = r.Type
			discovered = append(discovered, r.Discovered...)
		}
		return &Result{Type: TsRef(t.Name, args...), Discovered: discovered}, nil
	}

	// A plain nominal type: emit a reference and report it for generation.
	return &Result{Type: TsRef(t.Name), Discovered: []Type{t}}, nil
}

// resolveArg resolves a nested type argument, substituting "any" when the
// pipeline has no opinion. Chain exhaustion is not an error (the engine
// owns the structural default); a processor fault still propagates.
func resolveArg(ctx Context, t Type) (Result, error) {
	r, err := ctx.Resolve(t)
	if err != nil {
		return Result{}, err
	}
	if r == nil {
		return Result{Type: TsAny}, nil
	}
	return *r, nil
}
