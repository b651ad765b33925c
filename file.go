package tsgen

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
)

// File is a single generated file, staged in an FS before being written to
// the real filesystem.
type File struct {
	// The path, relative to the generated folder location, the file will
	// be written to.
	RelativePath string

	// Contents of the generated file.
	Data []byte

	// From names the components responsible for producing this File, in
	// production order.
	From []string
}

// Exists reports whether the File is more than the zero value. Components
// may return the zero File to indicate they had nothing to emit.
func (f File) Exists() bool {
	return f.RelativePath != ""
}

// Validate checks that the file is well-formed for staging.
func (f File) Validate() error {
	if f.RelativePath == "" {
		return errors.New("file has empty path")
	}
	if filepath.IsAbs(f.RelativePath) {
		return errors.Newf("files must have relative paths, got %s", f.RelativePath)
	}
	return nil
}

// Files is a set of Files sharing one relative path namespace.
type Files []File

// Validate checks every file and rejects duplicate paths within the set.
// All problems are reported, not just the first.
func (fl Files) Validate() error {
	var result *multierror.Error
	seen := make(map[string]struct{}, len(fl))
	for _, f := range fl {
		if err := f.Validate(); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if _, dup := seen[f.RelativePath]; dup {
			result = multierror.Append(result, errors.Newf("duplicate path %s in file set", f.RelativePath))
		}
		seen[f.RelativePath] = struct{}{}
	}
	return result.ErrorOrNil()
}

// FileMapper takes a File and returns a transformed File. Mappers run FIFO
// on every file the generator produces; the header and namespace wrappers
// are implemented this way.
type FileMapper func(File) (File, error)
