// Package inliner amalgamates Java units: it inlines the transitive closure of units with available source
// as static nested classes and collects the remaining dependencies as a sorted import list.
package inliner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/viant/inliner/locator"
	"github.com/viant/inliner/sink"
	"github.com/viant/inliner/transform"
	"github.com/viant/inliner/unit"
)

// Inliner computes inlining closures
type Inliner struct {
	locator     locator.Locator
	transformer *transform.Transformer
	logger      *log.Logger
}

// Report summarizes a successful run
type Report struct {
	// Inlined lists units in inlining order
	Inlined []unit.Ref
	// Imports lists emitted imports
	Imports []unit.Ref
	// Rounds is the number of breadth-first rounds
	Rounds int
	// Lines is the number of emitted unit code lines, markers excluded
	Lines int
}

// Run inlines the closure of inlines and emits it to s followed by the sorted imports that were not inlined.
// Seeds may be binary names (a.b.Outer$Inner).
// Units are processed breadth first: every unit discovered in round N is inlined after all units of round N.
// Any error aborts the run, lines already emitted to s must then be discarded.
func (i *Inliner) Run(ctx context.Context, imports, inlines []unit.Ref, s sink.Sink) (*Report, error) {
	frontier := make([]*locator.Unit, 0, len(inlines))
	for _, ref := range inlines {
		located, err := locator.Locate(ctx, i.locator, ref.String())
		if err != nil {
			return nil, err
		}
		if located == nil {
			return nil, &ResolutionError{Name: ref.String()}
		}
		frontier = append(frontier, located)
	}

	report := &Report{}
	processed := unit.NewSet()
	importSet := unit.NewSet()
	for _, ref := range imports {
		importSet.Add(unit.Canonical(ref.String()))
	}
	for len(frontier) > 0 {
		report.Rounds++
		i.logger.Debug("inlining round", "round", report.Rounds, "units", len(frontier))
		var next []*locator.Unit
		pending := unit.NewSet()
		for _, current := range frontier {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !processed.Add(current.Ref) {
				continue
			}
			report.Inlined = append(report.Inlined, current.Ref)
			onImport := func(name string) error {
				dependency, err := i.classify(ctx, name, current.Ref)
				if err != nil {
					return err
				}
				if dependency.Kind != locator.Inline {
					importSet.Add(dependency.Ref)
					return nil
				}
				if !processed.Has(dependency.Ref) && pending.Add(dependency.Ref) {
					next = append(next, dependency)
				}
				return nil
			}
			lines, err := i.inline(ctx, current, s, onImport)
			if err != nil {
				return nil, err
			}
			report.Lines += lines
		}
		frontier = next
	}

	report.Imports = importSet.Difference(processed)
	for _, ref := range report.Imports {
		if err := s.Import(ref.String()); err != nil {
			return nil, fmt.Errorf("failed to emit import %v: %w", ref, err)
		}
	}
	i.logger.Debug("inlining completed", "inlined", len(report.Inlined), "imports", len(report.Imports), "rounds", report.Rounds)
	return report, nil
}

// inline emits the transformed body of one unit between markers, import references are passed to onImport
func (i *Inliner) inline(ctx context.Context, current *locator.Unit, s sink.Sink, onImport func(name string) error) (int, error) {
	reader, err := current.Open(ctx)
	if err != nil {
		return 0, &SourceError{Ref: current.Ref, URL: current.URL, Err: err}
	}
	defer reader.Close()

	if err = emitMarker(s, BeginMarker(current.Ref)); err != nil {
		return 0, fmt.Errorf("failed to emit code of %v: %w", current.Ref, err)
	}
	lines := 0
	err = i.transformer.Lines(reader, func(result transform.Result) error {
		if result.Kind == transform.Import {
			return onImport(result.Text)
		}
		if err := s.Code(result.Text); err != nil {
			return fmt.Errorf("failed to emit code of %v: %w", current.Ref, err)
		}
		lines++
		return nil
	})
	if errors.Is(err, transform.ErrRead) {
		return lines, &SourceError{Ref: current.Ref, URL: current.URL, Err: err}
	}
	if err != nil {
		return lines, err
	}
	if err = emitMarker(s, EndMarker(current.Ref)); err != nil {
		return lines, fmt.Errorf("failed to emit code of %v: %w", current.Ref, err)
	}
	return lines, nil
}

// New creates an inliner resolving units with l
func New(l locator.Locator, opts ...Option) *Inliner {
	ret := &Inliner{
		locator:     l,
		transformer: transform.New(transform.DefaultMarkers()),
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
