package locator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/viant/inliner/unit"
)

// FS locates units in an io/fs file system, typically embedded sources
type FS struct {
	fsys fs.FS
	root string
}

// Find finds a unit by binary name
func (f *FS) Find(ctx context.Context, binaryName string) (*Unit, error) {
	topLevel, nested := splitBinary(binaryName)
	if !validName(topLevel) {
		return nil, nil
	}
	location := path.Join(f.root, sourcePath(topLevel, JavaExt))
	info, err := fs.Stat(f.fsys, location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat source %v: %w", location, err)
	}
	if info.IsDir() {
		return nil, nil
	}
	if nested {
		return NewExternal(unit.Canonical(binaryName)), nil
	}
	return NewInline(unit.Ref(topLevel), location, func(ctx context.Context) (io.ReadCloser, error) {
		return f.fsys.Open(location)
	}), nil
}

// NewFS creates a file system locator, root is a slash separated directory within fsys ("." for its top)
func NewFS(fsys fs.FS, root string) *FS {
	if root == "" {
		root = "."
	}
	return &FS{fsys: fsys, root: root}
}
