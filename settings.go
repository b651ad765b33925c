package tsgen

import (
	"fmt"
	"sort"
	"strings"
)

// JSONLibrary names the serialization convention the emitted types assume.
// Exactly one library is supported.
type JSONLibrary string

// Jackson2 field-naming and optionality conventions.
const Jackson2 JSONLibrary = "jackson2"

// OutputKind selects how emitted declarations are namespaced.
type OutputKind string

const (
	// OutputGlobal emits declarations into the global scope.
	OutputGlobal OutputKind = "global"
	// OutputModule wraps all declarations in one merged TypeScript
	// namespace.
	OutputModule OutputKind = "module"
)

// FileType selects the flavor of TypeScript file emitted.
type FileType string

const (
	// ImplementationFile emits .ts files whose declarations may carry
	// runtime values (required by the enum-constants extension).
	ImplementationFile FileType = "implementation"
	// DeclarationFile emits type-only .d.ts output.
	DeclarationFile FileType = "declaration"
)

// Settings is the concrete settings object the generation engine consumes.
// It is derived from a Configuration by Settings() and carries no residual
// logic for the engine to second-guess.
type Settings struct {
	// CustomTypeProcessor is the fully assembled resolution chain:
	// user custom processor, built-in override processor, generic
	// structural processor, in priority order.
	CustomTypeProcessor TypeProcessor

	// AddTypeNamePrefix is prepended to every emitted interface name.
	AddTypeNamePrefix string

	SortDeclarations bool
	NoFileComment    bool
	JSONLibrary      JSONLibrary

	// OptionalAnnotations is passed through from the configuration
	// verbatim.
	OptionalAnnotations []Annotation

	OutputKind     OutputKind
	OutputFileType FileType

	// Extensions produce files beyond the per-class interfaces.
	Extensions []Extension
}

// Extension is a named hook producing additional files from the generation
// input, after the per-class interfaces are emitted. Extension output goes
// through the same postprocessing (header, namespace wrapping) as every
// other file.
type Extension interface {
	// ExtensionName returns the name of the extension, used as the file
	// owner in the staging filesystem.
	ExtensionName() string

	Generate(classes []Class, s *Settings) (Files, error)
}

// EnumConstantsExtension emits a runtime constants object for every class
// declaring Constants, so enumeration values survive into code that
// type-only declarations would lose. It is always installed.
type EnumConstantsExtension struct{}

func (EnumConstantsExtension) ExtensionName() string { return "EnumConstantsExtension" }

func (EnumConstantsExtension) Generate(classes []Class, s *Settings) (Files, error) {
	var fl Files
	for _, class := range classes {
		if len(class.Constants) == 0 {
			continue
		}
		name := s.AddTypeNamePrefix + class.Type.Name + "Constants"

		var sb strings.Builder
		fmt.Fprintf(&sb, "export const %s = {\n", name)
		for _, c := range class.Constants {
			fmt.Fprintf(&sb, "    %s: %q,\n", c.Name, c.Value)
		}
		sb.WriteString("};\n")

		fl = append(fl, File{
			RelativePath: name + ".ts",
			Data:         []byte(sb.String()),
			From:         []string{EnumConstantsExtension{}.ExtensionName()},
		})
	}

	if s.SortDeclarations {
		sort.Slice(fl, func(i, j int) bool { return fl[i].RelativePath < fl[j].RelativePath })
	}
	return fl, nil
}
