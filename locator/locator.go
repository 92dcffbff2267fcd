// Package locator resolves qualified unit names to their source text or marks them as external.
package locator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/viant/inliner/unit"
)

// ErrNoSource is returned when opening a unit without available source
var ErrNoSource = errors.New("no source available")

// Kind represents how a located unit can be used
type Kind int

const (
	// Inline means unit source is available
	Inline Kind = iota + 1
	// External means unit exists but has no source, it can only be imported
	External
)

// String returns kind name
func (k Kind) String() string {
	switch k {
	case Inline:
		return "inline"
	case External:
		return "external"
	}
	return "unknown"
}

// Opener opens unit source
type Opener func(ctx context.Context) (io.ReadCloser, error)

// Unit represents a located unit
type Unit struct {
	Ref  unit.Ref
	Kind Kind
	// URL source location, empty for external units
	URL  string
	open Opener
}

// Open opens unit source, the caller has to close the returned reader
func (u *Unit) Open(ctx context.Context) (io.ReadCloser, error) {
	if u.Kind != Inline || u.open == nil {
		return nil, fmt.Errorf("%v: %w", u.Ref, ErrNoSource)
	}
	return u.open(ctx)
}

// NewInline creates an inlinable unit
func NewInline(ref unit.Ref, URL string, open Opener) *Unit {
	return &Unit{Ref: ref, Kind: Inline, URL: URL, open: open}
}

// NewExternal creates an external unit
func NewExternal(ref unit.Ref) *Unit {
	return &Unit{Ref: ref, Kind: External}
}

// Locator finds a unit by its exact binary name (a.b.Outer$Inner).
// A nil unit with nil error means the name is unknown to the locator.
type Locator interface {
	Find(ctx context.Context, binaryName string) (*Unit, error)
}

// Locate resolves name with l. When the name is unknown, trailing segments are
// progressively reinterpreted as nested types (a.b.C.D, a.b.C$D, a.b$C$D) until the
// first segment is reached. A nil unit with nil error means not found.
func Locate(ctx context.Context, l Locator, name string) (*Unit, error) {
	candidate := name
	for {
		located, err := l.Find(ctx, candidate)
		if err != nil || located != nil {
			return located, err
		}
		index := strings.LastIndex(candidate, ".")
		if index <= 0 {
			return nil, nil
		}
		candidate = candidate[:index] + unit.NestedSeparator + candidate[index+1:]
	}
}

// Chain tries locators in order, the first match wins
type Chain []Locator

// Find finds a unit with the first locator that knows it
func (c Chain) Find(ctx context.Context, binaryName string) (*Unit, error) {
	for _, l := range c {
		located, err := l.Find(ctx, binaryName)
		if err != nil || located != nil {
			return located, err
		}
	}
	return nil, nil
}

// splitBinary returns the top level type part of a binary name and whether it denotes a nested type
func splitBinary(binaryName string) (string, bool) {
	if index := strings.Index(binaryName, unit.NestedSeparator); index != -1 {
		return binaryName[:index], true
	}
	return binaryName, false
}

// sourcePath returns the relative source path of a top level type (a/b/C.java)
func sourcePath(topLevel string, ext string) string {
	return strings.ReplaceAll(topLevel, ".", "/") + ext
}

// validName returns true if every dot separated segment is a non empty identifier-like token
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, segment := range strings.Split(name, ".") {
		if segment == "" || strings.ContainsAny(segment, "*/\\ \t") {
			return false
		}
	}
	return true
}
