package tsgen

import (
	"testing"

	"github.com/matryer/is"
)

func TestOverrideURIMapsToString(t *testing.T) {
	is := is.New(t)

	chain := NewChain(OverrideProcessor())
	r, err := chain.Process(NewType(URITypeName), resolveWith(chain))
	is.NoErr(err)
	is.Equal(r.Type, TsString)
	is.Equal(len(r.Discovered), 0)
}

func TestOverrideOptionalUnwrapsResolvableArgument(t *testing.T) {
	is := is.New(t)

	// The generic processor resolves the inner type, so unwrapping
	// succeeds and the result carries the inner discovery set unchanged.
	chain := NewChain(OverrideProcessor(), GenericTypeProcessor())
	r, err := chain.Process(OptionalOf(NewType("User")), resolveWith(chain))
	is.NoErr(err)
	is.True(r.Type.Opt)
	is.Equal(r.Type.Name, "User")
	is.Equal(r.Discovered, []Type{NewType("User")})
}

func TestOverrideOptionalOfPrimitive(t *testing.T) {
	is := is.New(t)

	chain := NewChain(OverrideProcessor(), GenericTypeProcessor())
	r, err := chain.Process(OptionalOf(NewType("string")), resolveWith(chain))
	is.NoErr(err)
	is.Equal(r.Type, TsString.Optional())
}

func TestOverrideOptionalDeclinesWhenArgumentDeclines(t *testing.T) {
	is := is.New(t)

	// Without the structural fallback in the chain, the inner type cannot
	// resolve; the override processor must decline rather than invent a
	// fallback.
	chain := NewChain(OverrideProcessor())
	r, err := chain.Process(OptionalOf(NewType("User")), resolveWith(chain))
	is.NoErr(err)
	is.True(r == nil)
}

func TestOverrideDeclinesEverythingElse(t *testing.T) {
	is := is.New(t)

	chain := NewChain(OverrideProcessor())
	ctx := resolveWith(chain)

	for _, ht := range []Type{
		NewType("string"),
		NewType("User"),
		Parameterized(URITypeName, NewType("string")), // parameterized URI is not the opaque type
		Parameterized(listTypeName, NewType("int")),
	} {
		r, err := chain.Process(ht, ctx)
		is.NoErr(err)
		is.True(r == nil)
	}
}

func TestCustomProcessorInterceptsURI(t *testing.T) {
	is := is.New(t)

	custom := ProcessorFunc("branded-uri", func(ht Type, _ Context) (*Result, error) {
		if ht.Name == URITypeName {
			return &Result{Type: TsRef("BrandedUri")}, nil
		}
		return nil, nil
	})
	chain := NewChain(custom, OverrideProcessor(), GenericTypeProcessor())

	r, err := chain.Process(NewType(URITypeName), resolveWith(chain))
	is.NoErr(err)
	is.Equal(r.Type, TsRef("BrandedUri"))
}
