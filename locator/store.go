package locator

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/inliner/unit"
)

// JavaExt represents java source file extension
const JavaExt = ".java"

// Store locates units in a source root of any afs supported storage (file://, mem://, ...).
// A top level type a.b.C maps to <root>/a/b/C.java, a nested type a.b.C$D is external when its enclosing file exists.
type Store struct {
	fs   afs.Service
	root string
}

// Find finds a unit by binary name
func (s *Store) Find(ctx context.Context, binaryName string) (*Unit, error) {
	topLevel, nested := splitBinary(binaryName)
	if !validName(topLevel) {
		return nil, nil
	}
	URL := url.Join(s.root, sourcePath(topLevel, JavaExt))
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check source %v: %w", URL, err)
	}
	if !exists {
		return nil, nil
	}
	if nested {
		return NewExternal(unit.Canonical(binaryName)), nil
	}
	return NewInline(unit.Ref(topLevel), URL, func(ctx context.Context) (io.ReadCloser, error) {
		return s.fs.OpenURL(ctx, URL)
	}), nil
}

// Root returns source root URL
func (s *Store) Root() string {
	return s.root
}

// NewStore creates a source root locator
func NewStore(fs afs.Service, root string) *Store {
	if fs == nil {
		fs = afs.New()
	}
	return &Store{fs: fs, root: root}
}
