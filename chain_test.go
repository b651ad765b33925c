package tsgen

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/matryer/is"
)

// countingProcessor records how often it was consulted, resolving only the
// type names it was given.
type countingProcessor struct {
	name    string
	handles map[string]TsType
	calls   int
}

func (p *countingProcessor) ProcessorName() string { return p.name }

func (p *countingProcessor) Process(t Type, _ Context) (*Result, error) {
	p.calls++
	if ts, ok := p.handles[t.Name]; ok {
		return &Result{Type: ts}, nil
	}
	return nil, nil
}

func resolveWith(p TypeProcessor) Context {
	return &chainContext{chain: p}
}

func TestChainFirstMatchWins(t *testing.T) {
	is := is.New(t)

	custom := &countingProcessor{name: "custom", handles: map[string]TsType{URITypeName: TsRef("BrandedUri")}}
	override := &countingProcessor{name: "override", handles: map[string]TsType{URITypeName: TsString}}
	chain := NewChain(custom, override)

	r, err := chain.Process(NewType(URITypeName), resolveWith(chain))
	is.NoErr(err)
	is.Equal(r.Type, TsRef("BrandedUri")) // custom processor must win
	is.Equal(custom.calls, 1)
	is.Equal(override.calls, 0) // later link never consulted after a resolution
}

func TestChainFallsThroughOnDecline(t *testing.T) {
	is := is.New(t)

	first := &countingProcessor{name: "first"}
	second := &countingProcessor{name: "second", handles: map[string]TsType{"Foo": TsNumber}}
	chain := NewChain(first, second)

	r, err := chain.Process(NewType("Foo"), resolveWith(chain))
	is.NoErr(err)
	is.Equal(r.Type, TsNumber)
	is.Equal(first.calls, 1)
}

func TestChainExhaustionIsDecline(t *testing.T) {
	is := is.New(t)

	chain := NewChain(&countingProcessor{name: "a"}, &countingProcessor{name: "b"})
	r, err := chain.Process(NewType("Unclaimed"), resolveWith(chain))
	is.NoErr(err)
	is.True(r == nil)
}

func TestChainSkipsNilLinks(t *testing.T) {
	is := is.New(t)

	only := &countingProcessor{name: "only", handles: map[string]TsType{"Foo": TsString}}
	chain := NewChain(nil, only, nil)

	r, err := chain.Process(NewType("Foo"), resolveWith(chain))
	is.NoErr(err)
	is.Equal(r.Type, TsString)
}

func TestChainFaultAborts(t *testing.T) {
	is := is.New(t)

	boom := ProcessorFunc("boom", func(Type, Context) (*Result, error) {
		return nil, errors.New("hook exploded")
	})
	never := &countingProcessor{name: "never", handles: map[string]TsType{"Foo": TsString}}
	chain := NewChain(boom, never)

	_, err := chain.Process(NewType("Foo"), resolveWith(chain))
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "boom"))
	is.Equal(never.calls, 0)
}

func TestGenericProcessorPrimitives(t *testing.T) {
	is := is.New(t)

	chain := NewChain(GenericTypeProcessor())
	ctx := resolveWith(chain)

	for name, want := range map[string]TsType{
		"string":  TsString,
		"int":     TsNumber,
		"double":  TsNumber,
		"boolean": TsBoolean,
		"void":    TsVoid,
	} {
		r, err := chain.Process(NewType(name), ctx)
		is.NoErr(err)
		is.Equal(r.Type, want)
		is.Equal(len(r.Discovered), 0)
	}
}

func TestGenericProcessorCollections(t *testing.T) {
	is := is.New(t)

	chain := NewChain(GenericTypeProcessor())
	ctx := resolveWith(chain)

	r, err := chain.Process(Parameterized(listTypeName, NewType("User")), ctx)
	is.NoErr(err)
	is.Equal(r.Type.String(), "User[]")
	is.Equal(r.Discovered, []Type{NewType("User")})

	r, err = chain.Process(Parameterized(setTypeName, NewType("string")), ctx)
	is.NoErr(err)
	is.Equal(r.Type.String(), "string[]")

	r, err = chain.Process(Parameterized(mapTypeName, NewType("string"), NewType("User")), ctx)
	is.NoErr(err)
	is.Equal(r.Type.String(), "{ [key: string]: User }")
	is.Equal(r.Discovered, []Type{NewType("User")})
}

func TestGenericProcessorNominalTypeIsDiscovered(t *testing.T) {
	is := is.New(t)

	chain := NewChain(GenericTypeProcessor())
	r, err := chain.Process(NewType("Widget"), resolveWith(chain))
	is.NoErr(err)
	is.Equal(r.Type, TsRef("Widget"))
	is.Equal(r.Discovered, []Type{NewType("Widget")})
}

func TestGenericProcessorBadArity(t *testing.T) {
	is := is.New(t)

	chain := NewChain(GenericTypeProcessor())
	_, err := chain.Process(Parameterized(listTypeName, NewType("A"), NewType("B")), resolveWith(chain))
	is.True(err != nil)
}
