package locator

import (
	"context"
	"io"

	"github.com/viant/afs"
	"github.com/viant/inliner/inspector/java"
	"github.com/viant/inliner/unit"
)

// Index locates units by their declared package and type rather than by file location,
// so sources whose directory layout does not follow their package still resolve.
type Index struct {
	fs    afs.Service
	units map[unit.Ref]string
}

// Find finds a unit by binary name
func (i *Index) Find(ctx context.Context, binaryName string) (*Unit, error) {
	topLevel, nested := splitBinary(binaryName)
	URL, ok := i.units[unit.Ref(topLevel)]
	if !ok {
		return nil, nil
	}
	if nested {
		return NewExternal(unit.Canonical(binaryName)), nil
	}
	return NewInline(unit.Ref(topLevel), URL, func(ctx context.Context) (io.ReadCloser, error) {
		return i.fs.OpenURL(ctx, URL)
	}), nil
}

// Len returns number of indexed units
func (i *Index) Len() int {
	return len(i.units)
}

// URL returns indexed source URL for a unit
func (i *Index) URL(ref unit.Ref) (string, bool) {
	URL, ok := i.units[ref]
	return URL, ok
}

// NewIndex inspects all Java files under roots and indexes the primary type of every file.
// When two files declare the same unit, the first root (then the first URL) wins.
func NewIndex(ctx context.Context, fs afs.Service, inspector *java.Inspector, roots ...string) (*Index, error) {
	if fs == nil {
		fs = afs.New()
	}
	if inspector == nil {
		inspector = java.NewInspector()
	}
	ret := &Index{fs: fs, units: map[unit.Ref]string{}}
	for _, root := range roots {
		declarations, err := inspector.InspectStore(ctx, fs, root)
		if err != nil {
			return nil, err
		}
		for _, declaration := range declarations {
			primary := declaration.Primary()
			if primary == nil {
				continue
			}
			ref := unit.Ref(declaration.QualifiedName(primary))
			if _, ok := ret.units[ref]; ok {
				continue
			}
			ret.units[ref] = declaration.URL
		}
	}
	return ret, nil
}
