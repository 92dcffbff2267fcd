package locator

import (
	"context"
	"io"
	"strings"

	"github.com/viant/inliner/unit"
)

// Memory locates units from in-memory sources keyed by top level qualified name
type Memory map[unit.Ref]string

// Find finds a unit by binary name
func (m Memory) Find(ctx context.Context, binaryName string) (*Unit, error) {
	topLevel, nested := splitBinary(binaryName)
	source, ok := m[unit.Ref(topLevel)]
	if !ok {
		return nil, nil
	}
	if nested {
		return NewExternal(unit.Canonical(binaryName)), nil
	}
	return NewInline(unit.Ref(topLevel), "memory://"+topLevel, func(ctx context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(source)), nil
	}), nil
}
