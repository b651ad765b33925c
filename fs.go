package tsgen

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Concurrent file operations per batch Write/Verify.
const fsParallelism = 12

// FS is a pseudo-filesystem that stages generated files and supports
// batch-writing its contents to the real filesystem, or batch-comparing
// its contents against it.
//
// Writing is the normal mode; Verify is for CI, where generation should
// not change anything and any drift between the staged files and what is
// committed is an error.
//
// Files may not be removed once added. A path conflict when adding a file
// or merging another FS is an error, reported with both owners.
type FS struct {
	mu    sync.Mutex
	files map[string]*fsEntry
}

type fsEntry struct {
	data  []byte
	owner string
}

// NewFS creates an empty FS, ready for use.
func NewFS() *FS {
	return &FS{files: make(map[string]*fsEntry)}
}

// Add stages one or more files under the given owner. An error is returned
// if any file fails validation or conflicts with an already-staged path;
// on error, nothing is staged.
func (fs *FS) Add(owner string, fl ...File) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.add(owner, fl...)
}

func (fs *FS) add(owner string, fl ...File) error {
	var result *multierror.Error
	for _, f := range fl {
		if err := f.Validate(); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if prev, has := fs.files[f.RelativePath]; has {
			result = multierror.Append(result, errors.Newf(
				"cannot stage %s for %q, already staged for %q", f.RelativePath, owner, prev.owner))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	for _, f := range fl {
		fs.files[f.RelativePath] = &fsEntry{data: f.Data, owner: owner}
	}
	return nil
}

// Merge combines all entries from other into the callee FS. Duplicate
// paths result in an error.
func (fs *FS) Merge(other *FS) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var result *multierror.Error
	for path, e := range other.files {
		result = multierror.Append(result, fs.add(e.owner, File{RelativePath: path, Data: e.data}))
	}
	return result.ErrorOrNil()
}

// AsFiles returns the staged files, sorted by path.
func (fs *FS) AsFiles() Files {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fl := make(Files, 0, len(fs.files))
	for path, e := range fs.files {
		fl = append(fl, File{RelativePath: path, Data: e.data, From: []string{e.owner}})
	}
	sort.Slice(fl, func(i, j int) bool { return fl[i].RelativePath < fl[j].RelativePath })
	return fl
}

// Len returns the number of staged files.
func (fs *FS) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.files)
}

// Write writes all staged files under the given prefix directory, creating
// parent directories as needed. prefix may be an absolute path.
func (fs *FS) Write(ctx context.Context, prefix string) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(fsParallelism)

	for _, item := range fs.AsFiles() {
		it := item
		g.Go(func() error {
			path := filepath.Join(prefix, it.RelativePath)
			if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
				return errors.Wrapf(err, "%s: failed to ensure parent directory exists", path)
			}
			if err := os.WriteFile(path, it.Data, 0644); err != nil {
				return errors.Wrapf(err, "%s: error while writing file", path)
			}
			return nil
		})
	}

	return g.Wait()
}

// Verify checks every staged file against the filesystem under the given
// prefix. It reports an error for each file that is missing or whose
// contents differ from what was staged, with a diff.
func (fs *FS) Verify(ctx context.Context, prefix string) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(fsParallelism)

	var mu sync.Mutex
	var result *multierror.Error
	report := func(err error) {
		mu.Lock()
		result = multierror.Append(result, err)
		mu.Unlock()
	}

	for _, item := range fs.AsFiles() {
		it := item
		g.Go(func() error {
			path := filepath.Join(prefix, it.RelativePath)
			if _, err := os.Stat(path); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					report(errors.Newf("%s: generated file should exist, but does not", path))
					return nil
				}
				return errors.Wrapf(err, "%s: could not stat generated file", path)
			}

			ondisk, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "%s: error reading file", path)
			}
			if d := cmp.Diff(string(ondisk), string(it.Data)); d != "" {
				report(errors.Newf("%s would have changed:\n\n%s", path, d))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "io error while verifying tree")
	}
	return result.ErrorOrNil()
}

// String renders the staged paths, one per line, for debugging.
func (fs *FS) String() string {
	fl := fs.AsFiles()
	paths := make([]string, len(fl))
	for i, f := range fl {
		paths[i] = f.RelativePath
	}
	return strings.Join(paths, "\n")
}
