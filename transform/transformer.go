// Package transform rewrites the lines of a single Java unit so that it can be nested inside another unit.
package transform

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrRead is returned by Lines when the unit source cannot be read
var ErrRead = errors.New("failed to read unit source")

const (
	packageKeyword = "package "
	importKeyword  = "import "
	publicKeyword  = "public "
	staticKeyword  = "static "

	maxLineSize = 1024 * 1024
)

// classPrefixes lists the leading tokens of a top level class declaration that get demoted to a static nested class
var classPrefixes = []string{
	"public class ",
	"public final class ",
	"class ",
	"final class ",
}

// Kind represents a line transformation outcome
type Kind int

const (
	// Drop means the line is not emitted
	Drop Kind = iota
	// Code means Result.Text is emitted as code
	Code
	// Import means Result.Text is a referenced unit name
	Import
)

// Result represents a transformed line
type Result struct {
	Kind Kind
	Text string
}

// State represents per unit transformation flags
type State struct {
	PackageSeen bool
	ClassSeen   bool
}

// Markers represents in-source marker tokens
type Markers struct {
	// Delete drops any line ending with it
	Delete string
	// CommentToCode is stripped from a line starting with it, turning a comment into live code
	CommentToCode string
}

// DefaultMarkers returns the default marker tokens
func DefaultMarkers() Markers {
	return Markers{Delete: "// #", CommentToCode: "// $"}
}

// Transformer rewrites unit lines
type Transformer struct {
	markers Markers
}

// New creates a transformer, an empty marker token disables that marker
func New(markers Markers) *Transformer {
	return &Transformer{markers: markers}
}

// Markers returns transformer markers
func (t *Transformer) Markers() Markers {
	return t.markers
}

// Line transforms one raw line, it returns the updated state and the line outcome
func (t *Transformer) Line(state State, line string) (State, Result) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return state, Result{Kind: Drop}
	}
	if t.markers.Delete != "" && strings.HasSuffix(trimmed, t.markers.Delete) {
		return state, Result{Kind: Drop}
	}
	if t.markers.CommentToCode != "" && strings.HasPrefix(trimmed, t.markers.CommentToCode) {
		line = line[strings.Index(line, t.markers.CommentToCode)+len(t.markers.CommentToCode):]
		if trimmed = strings.TrimSpace(trimmed[len(t.markers.CommentToCode):]); trimmed == "" {
			return state, Result{Kind: Drop}
		}
	}
	if strings.HasPrefix(trimmed, importKeyword) {
		return state, Result{Kind: Import, Text: importName(trimmed)}
	}
	if !state.PackageSeen && strings.HasPrefix(trimmed, packageKeyword) {
		state.PackageSeen = true
		return state, Result{Kind: Drop}
	}
	if !state.ClassSeen {
		for _, prefix := range classPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				state.ClassSeen = true
				return state, Result{Kind: Code, Text: staticKeyword + strings.TrimPrefix(trimmed, publicKeyword)}
			}
		}
	}
	return state, Result{Kind: Code, Text: line}
}

// Lines transforms a whole unit read from reader, starting with a zero state.
// Every Code and Import result is passed to emit in source order, an emit error stops the pass and is returned as is.
func (t *Transformer) Lines(reader io.Reader, emit func(Result) error) error {
	state := State{}
	scanner := NewScanner(reader)
	for scanner.Scan() {
		var result Result
		state, result = t.Line(state, scanner.Text())
		if result.Kind == Drop {
			continue
		}
		if err := emit(result); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	return nil
}

// Lines transforms a whole unit with default markers
func Lines(reader io.Reader, emit func(Result) error) error {
	return defaultTransformer.Lines(reader, emit)
}

// Line transforms one raw line with default markers
func Line(state State, line string) (State, Result) {
	return defaultTransformer.Line(state, line)
}

var defaultTransformer = New(DefaultMarkers())

// importName extracts the referenced name from an import declaration
func importName(trimmed string) string {
	name := trimmed[len(importKeyword):]
	if index := strings.LastIndex(name, ";"); index != -1 {
		name = name[:index]
	}
	return strings.TrimSpace(name)
}

// NewScanner returns a line scanner accepting long source lines
func NewScanner(reader io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}
