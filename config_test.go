package tsgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func minimalConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		GenericEndpointReturnType: "Promise<%s>",
		GeneratedFolderLocation:   t.TempDir(),
	}
}

func TestNewFillsDefaults(t *testing.T) {
	is := is.New(t)

	cfg, err := New(minimalConfig(t))
	is.NoErr(err)

	// Default custom processor declines everything.
	r, err := cfg.custom.Process(NewType(URITypeName), nil)
	is.NoErr(err)
	is.True(r == nil)

	// Default resolver resolves nothing, default filter accepts anything.
	is.True(cfg.duplicateResolver(nil) == nil)
	is.True(cfg.methodFilter(Class{}, Method{}))
	is.Equal(cfg.emitDuplicateNames, false)
}

func TestNewRejectsBadReturnTypeFormat(t *testing.T) {
	is := is.New(t)

	for _, format := range []string{
		"",
		"Promise",
		"Promise<%s, %s>",
		"Promise<%d>",
		"%s and %s",
	} {
		_, err := New(Config{
			GenericEndpointReturnType: format,
			GeneratedFolderLocation:   t.TempDir(),
		})
		is.True(err != nil) // format must have exactly one %s
	}
}

func TestNewAcceptsEscapedPercent(t *testing.T) {
	is := is.New(t)

	_, err := New(Config{
		GenericEndpointReturnType: "Promise<%s> /* 100%% generated */",
		GeneratedFolderLocation:   t.TempDir(),
	})
	is.NoErr(err)
}

func TestNewRequiresExistingFolder(t *testing.T) {
	is := is.New(t)

	_, err := New(Config{GenericEndpointReturnType: "Promise<%s>"})
	is.True(err != nil) // empty folder location

	_, err = New(Config{
		GenericEndpointReturnType: "Promise<%s>",
		GeneratedFolderLocation:   filepath.Join(t.TempDir(), "missing"),
	})
	is.True(err != nil) // folder must pre-exist

	notdir := filepath.Join(t.TempDir(), "file")
	is.NoErr(os.WriteFile(notdir, []byte("x"), 0644))
	_, err = New(Config{
		GenericEndpointReturnType: "Promise<%s>",
		GeneratedFolderLocation:   notdir,
	})
	is.True(err != nil) // a plain file is not a folder
}

func TestSettingsFixedPolicies(t *testing.T) {
	is := is.New(t)

	cfg, err := New(minimalConfig(t))
	is.NoErr(err)

	s := cfg.Settings()
	is.True(s.SortDeclarations)
	is.True(s.NoFileComment)
	is.Equal(s.JSONLibrary, Jackson2)
	is.Equal(s.OutputFileType, ImplementationFile)
	is.Equal(len(s.Extensions), 1)
	is.Equal(s.Extensions[0].ExtensionName(), "EnumConstantsExtension")
}

func TestSettingsOutputKind(t *testing.T) {
	is := is.New(t)

	base := minimalConfig(t)

	cfg, err := New(base)
	is.NoErr(err)
	is.Equal(cfg.Settings().OutputKind, OutputGlobal) // no module configured

	base.TypescriptModule = "My.Generated"
	cfg, err = New(base)
	is.NoErr(err)
	is.Equal(cfg.Settings().OutputKind, OutputModule)

	base.EmitModuleless = true
	cfg, err = New(base)
	is.NoErr(err)
	is.Equal(cfg.Settings().OutputKind, OutputGlobal) // moduleless wins over module
}

func TestSettingsPassesThroughOptionalAnnotations(t *testing.T) {
	is := is.New(t)

	base := minimalConfig(t)
	base.OptionalAnnotations = []Annotation{"Nullable", "QueryParam"}
	base.GeneratedInterfacePrefix = "I"

	cfg, err := New(base)
	is.NoErr(err)

	s := cfg.Settings()
	is.Equal(s.OptionalAnnotations, []Annotation{"Nullable", "QueryParam"})
	is.Equal(s.AddTypeNamePrefix, "I")
}

func TestSettingsChainComposition(t *testing.T) {
	is := is.New(t)

	base := minimalConfig(t)
	custom := &countingProcessor{name: "custom", handles: map[string]TsType{URITypeName: TsRef("BrandedUri")}}
	base.CustomTypeProcessor = custom

	cfg, err := New(base)
	is.NoErr(err)

	chain := cfg.Settings().CustomTypeProcessor
	ctx := resolveWith(chain)

	// Custom processor intercepts the built-in URI handling.
	r, err := chain.Process(NewType(URITypeName), ctx)
	is.NoErr(err)
	is.Equal(r.Type, TsRef("BrandedUri"))

	// Unclaimed types still fall through to the structural processor.
	r, err = chain.Process(NewType("Widget"), ctx)
	is.NoErr(err)
	is.Equal(r.Type, TsRef("Widget"))

	// Built-in optional unwrapping remains in place.
	r, err = chain.Process(OptionalOf(NewType("string")), ctx)
	is.NoErr(err)
	is.Equal(r.Type, TsString.Optional())
}
