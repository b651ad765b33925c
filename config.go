package tsgen

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Config is the mutable record a caller fills in to describe one
// generation run. Zero values mean "use the default"; only
// GenericEndpointReturnType and GeneratedFolderLocation are required. New
// resolves a Config into an immutable Configuration.
type Config struct {
	// CopyrightHeader is prepended verbatim to every generated file.
	CopyrightHeader string

	// CustomTypeProcessor is tried before all built-in processors,
	// allowing any resolution to be overridden. Default declines
	// everything.
	CustomTypeProcessor TypeProcessor

	// DuplicateEndpointNameResolver disambiguates overloaded methods.
	// Default resolves nothing.
	DuplicateEndpointNameResolver DuplicateNameResolver

	// EmitDuplicateNames emits all colliding signatures unchanged when the
	// resolver fails, producing TypeScript that will not compile. When
	// false, only the first colliding method is emitted and a warning is
	// logged.
	EmitDuplicateNames bool

	// EmitModuleless suppresses the TypeScript namespace wrapper even when
	// TypescriptModule is set, for use with module loading systems.
	EmitModuleless bool

	// GenericEndpointReturnType is a format string with exactly one %s
	// placeholder, applied to every endpoint return type. For example
	// "Promise<%s>" turns a string-returning endpoint into
	// "Promise<string>". Required.
	GenericEndpointReturnType string

	// IgnoredAnnotations lists annotations whose carrying parameters are
	// generated as if they did not exist.
	IgnoredAnnotations []Annotation

	// OptionalAnnotations lists annotations marking a field or parameter
	// optional in the generated definitions.
	OptionalAnnotations []Annotation

	// TypescriptModule is the namespace to wrap all generated code in,
	// e.g. "MyProject.GeneratedCode". Empty means moduleless emission.
	TypescriptModule string

	// GeneratedMessage is displayed as a comment at the top of every
	// generated file, perhaps informing readers the file is autogenerated.
	GeneratedMessage string

	// IgnoredClasses are excluded from generation entirely.
	IgnoredClasses []Type

	// GeneratedFolderLocation is the pre-existing directory all generated
	// files are written into. Required.
	GeneratedFolderLocation string

	// GeneratedInterfacePrefix is prepended to every emitted interface
	// name.
	GeneratedInterfacePrefix string

	// MethodFilter decides which methods are parsed from a class. Default
	// accepts every method.
	MethodFilter MethodFilter
}

// Configuration is a resolved, validated Config. It is immutable and safe
// to share across concurrent generation runs.
type Configuration struct {
	copyrightHeader     string
	custom              TypeProcessor
	duplicateResolver   DuplicateNameResolver
	emitDuplicateNames  bool
	emitModuleless      bool
	returnTypeFormat    string
	ignoredAnnotations  map[Annotation]struct{}
	optionalAnnotations []Annotation
	optionalSet         map[Annotation]struct{}
	typescriptModule    string
	generatedMessage    string
	ignoredClasses      map[string]struct{}
	folderLocation      string
	interfacePrefix     string
	methodFilter        MethodFilter
}

// New fills defaults, validates the required fields, and returns the
// immutable Configuration. Validation happens here, not lazily at
// generation time: a malformed return-type format or a missing output
// directory is a configuration error, and surfacing it before any
// generation work starts gives the caller one place to handle it.
func New(cfg Config) (*Configuration, error) {
	if err := validateReturnTypeFormat(cfg.GenericEndpointReturnType); err != nil {
		return nil, err
	}
	if err := validateFolder(cfg.GeneratedFolderLocation); err != nil {
		return nil, err
	}

	c := &Configuration{
		copyrightHeader:     cfg.CopyrightHeader,
		custom:              cfg.CustomTypeProcessor,
		duplicateResolver:   cfg.DuplicateEndpointNameResolver,
		emitDuplicateNames:  cfg.EmitDuplicateNames,
		emitModuleless:      cfg.EmitModuleless,
		returnTypeFormat:    cfg.GenericEndpointReturnType,
		ignoredAnnotations:  make(map[Annotation]struct{}, len(cfg.IgnoredAnnotations)),
		optionalAnnotations: append([]Annotation(nil), cfg.OptionalAnnotations...),
		typescriptModule:    cfg.TypescriptModule,
		generatedMessage:    cfg.GeneratedMessage,
		ignoredClasses:      make(map[string]struct{}, len(cfg.IgnoredClasses)),
		folderLocation:      cfg.GeneratedFolderLocation,
		interfacePrefix:     cfg.GeneratedInterfacePrefix,
		methodFilter:        cfg.MethodFilter,
	}

	if c.custom == nil {
		c.custom = DeclineAll()
	}
	if c.duplicateResolver == nil {
		c.duplicateResolver = UnresolvedDuplicates
	}
	if c.methodFilter == nil {
		c.methodFilter = AcceptAllMethods
	}
	for _, a := range cfg.IgnoredAnnotations {
		c.ignoredAnnotations[a] = struct{}{}
	}
	c.optionalSet = make(map[Annotation]struct{}, len(c.optionalAnnotations))
	for _, a := range c.optionalAnnotations {
		c.optionalSet[a] = struct{}{}
	}
	for _, t := range cfg.IgnoredClasses {
		c.ignoredClasses[t.Name] = struct{}{}
	}

	return c, nil
}

func validateReturnTypeFormat(format string) error {
	if format == "" {
		return errors.New("GenericEndpointReturnType is required")
	}
	// %% escapes don't count as placeholders.
	cleaned := strings.ReplaceAll(format, "%%", "")
	if strings.Count(cleaned, "%s") != 1 || strings.Count(cleaned, "%") != 1 {
		return errors.Newf("GenericEndpointReturnType must contain exactly one %%s placeholder, got %q", format)
	}
	return nil
}

func validateFolder(path string) error {
	if path == "" {
		return errors.New("GeneratedFolderLocation is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "GeneratedFolderLocation %q", path),
			"the output directory must exist before generation runs")
	}
	if !info.IsDir() {
		return errors.Newf("GeneratedFolderLocation %q is not a directory", path)
	}
	return nil
}

// OverridingTypeProcessor returns the two-link chain of the custom
// processor and the built-in override processor, in that priority order.
// This is the unit that lets callers resolve a single type under the same
// precedence the generator uses, without the structural fallback.
func (c *Configuration) OverridingTypeProcessor() TypeProcessor {
	return NewChain(c.custom, OverrideProcessor())
}

// Settings assembles the concrete settings object the generation engine
// consumes. The structural policies asserted here are fixed and not
// overridable through Config: declarations are sorted, no file banner is
// added beyond the configured message, output shares one merged global
// namespace, and the enum-constants extension is always installed.
func (c *Configuration) Settings() *Settings {
	outputKind := OutputModule
	if c.emitModuleless || c.typescriptModule == "" {
		outputKind = OutputGlobal
	}

	return &Settings{
		CustomTypeProcessor: NewChain(c.custom, c.OverridingTypeProcessor(), GenericTypeProcessor()),
		AddTypeNamePrefix:   c.interfacePrefix,
		SortDeclarations:    true,
		NoFileComment:       true,
		JSONLibrary:         Jackson2,
		OptionalAnnotations: append([]Annotation(nil), c.optionalAnnotations...),
		OutputKind:          outputKind,
		OutputFileType:      ImplementationFile,
		Extensions:          []Extension{EnumConstantsExtension{}},
	}
}

// GeneratedFolderLocation returns the validated output directory.
func (c *Configuration) GeneratedFolderLocation() string {
	return c.folderLocation
}
