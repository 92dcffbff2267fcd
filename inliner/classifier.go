package inliner

import (
	"context"

	"github.com/viant/inliner/locator"
	"github.com/viant/inliner/unit"
)

// classify resolves a name imported by from, first as written, then relative to the namespace of from.
// The returned unit kind decides whether the reference gets inlined or imported.
func (i *Inliner) classify(ctx context.Context, name string, from unit.Ref) (*locator.Unit, error) {
	located, err := locator.Locate(ctx, i.locator, name)
	if err != nil {
		return nil, err
	}
	if located == nil {
		if namespace := from.Namespace(); namespace != "" {
			if located, err = locator.Locate(ctx, i.locator, unit.Qualify(namespace, name)); err != nil {
				return nil, err
			}
		}
	}
	if located == nil {
		return nil, &ResolutionError{Name: name, From: from}
	}
	i.logger.Debug("classified reference", "name", name, "from", from, "unit", located.Ref, "kind", located.Kind)
	return located, nil
}
