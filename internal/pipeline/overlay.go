package pipeline

import (
	"io/fs"
	"strings"
	"time"

	"github.com/microsoft/typescript-go/shim/bundled"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"
)

// overlayHost is the "source-replacing compiler host" spec.md §4.7 step 1
// calls for: a vfs.FS that serves rewritten text for a fixed set of files
// — the ones the previous pass just produced — and falls through to the
// real filesystem for everything else. Adapted from
// internal/testutil.OverlayVFS, generalized from a throwaway test fixture
// into the coordinator's own re-parse mechanism between passes: reparse
// constructs a fresh overlay (and bundled-lib wrapper) for each stage's
// output. Replace swaps an overlay's file set in place; reparse does not
// call it.
type overlayHost struct {
	fs    vfs.FS
	files map[string]string
}

func newOverlayHost(files map[string]string) *overlayHost {
	if files == nil {
		files = make(map[string]string)
	}
	return &overlayHost{fs: bundled.WrapFS(osvfs.FS()), files: files}
}

// Replace installs a new set of overlaid file contents, discarding the
// previous set.
func (o *overlayHost) Replace(files map[string]string) {
	o.files = files
}

var _ vfs.FS = (*overlayHost)(nil)

func (o *overlayHost) UseCaseSensitiveFileNames() bool {
	return o.fs.UseCaseSensitiveFileNames()
}

func (o *overlayHost) FileExists(path string) bool {
	if _, ok := o.files[path]; ok {
		return true
	}
	return o.fs.FileExists(path)
}

func (o *overlayHost) ReadFile(path string) (string, bool) {
	if src, ok := o.files[path]; ok {
		return src, true
	}
	return o.fs.ReadFile(path)
}

func (o *overlayHost) DirectoryExists(path string) bool {
	if dirHasOverlay(o.files, path) {
		return true
	}
	return o.fs.DirectoryExists(path)
}

func (o *overlayHost) GetAccessibleEntries(path string) vfs.Entries {
	result := o.fs.GetAccessibleEntries(path)

	normalized := tspath.NormalizePath(path)
	if !strings.HasSuffix(normalized, "/") {
		normalized += "/"
	}
	for p := range o.files {
		rest, ok := strings.CutPrefix(p, normalized)
		if !ok {
			continue
		}
		if before, _, isNested := strings.Cut(rest, "/"); isNested {
			result.Directories = append(result.Directories, before)
		} else {
			result.Files = append(result.Files, rest)
		}
	}
	return result
}

func dirHasOverlay(files map[string]string, path string) bool {
	normalized := tspath.NormalizePath(path)
	if !strings.HasSuffix(normalized, "/") {
		normalized += "/"
	}
	for p := range files {
		if strings.HasPrefix(p, normalized) {
			return true
		}
	}
	return false
}

type overlayFileInfo struct {
	name string
	size int64
}

var (
	_ fs.FileInfo = (*overlayFileInfo)(nil)
	_ fs.DirEntry = (*overlayFileInfo)(nil)
)

func (fi *overlayFileInfo) IsDir() bool                { return false }
func (fi *overlayFileInfo) ModTime() time.Time         { return time.Time{} }
func (fi *overlayFileInfo) Mode() fs.FileMode          { return 0 }
func (fi *overlayFileInfo) Name() string               { return fi.name }
func (fi *overlayFileInfo) Size() int64                { return fi.size }
func (fi *overlayFileInfo) Sys() any                   { return nil }
func (fi *overlayFileInfo) Info() (fs.FileInfo, error) { return fi, nil }
func (fi *overlayFileInfo) Type() fs.FileMode          { return 0 }

func (o *overlayHost) Stat(path string) vfs.FileInfo {
	if src, ok := o.files[path]; ok {
		return &overlayFileInfo{name: path, size: int64(len(src))}
	}
	return o.fs.Stat(path)
}

func (o *overlayHost) WalkDir(root string, walkFn vfs.WalkDirFunc) error {
	return o.fs.WalkDir(root, walkFn)
}

func (o *overlayHost) Realpath(path string) string {
	if _, ok := o.files[path]; ok {
		return path
	}
	return o.fs.Realpath(path)
}

func (o *overlayHost) WriteFile(path string, data string, bom bool) error {
	if _, ok := o.files[path]; ok {
		panic("pipeline: cannot write through an overlay-replaced file")
	}
	return o.fs.WriteFile(path, data, bom)
}

func (o *overlayHost) Remove(path string) error {
	if _, ok := o.files[path]; ok {
		panic("pipeline: cannot remove an overlay-replaced file")
	}
	return o.fs.Remove(path)
}

func (o *overlayHost) Chtimes(path string, aTime, mTime time.Time) error {
	if _, ok := o.files[path]; ok {
		panic("pipeline: cannot change times on an overlay-replaced file")
	}
	return o.fs.Chtimes(path, aTime, mTime)
}
