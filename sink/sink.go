// Package sink defines the two line oriented output channels of an amalgamation run.
package sink

import (
	"fmt"
	"io"
)

// Sink receives inlined code lines and final import names, one line per call, in generation order
type Sink interface {
	Code(line string) error
	Import(name string) error
}

// Funcs adapts two callbacks to a Sink, a nil callback discards its channel
type Funcs struct {
	OnCode   func(line string)
	OnImport func(name string)
}

// Code emits a code line
func (f *Funcs) Code(line string) error {
	if f.OnCode != nil {
		f.OnCode(line)
	}
	return nil
}

// Import emits an import name
func (f *Funcs) Import(name string) error {
	if f.OnImport != nil {
		f.OnImport(name)
	}
	return nil
}

// Collector accumulates both channels in memory
type Collector struct {
	Lines   []string
	Imports []string
}

// Code emits a code line
func (c *Collector) Code(line string) error {
	c.Lines = append(c.Lines, line)
	return nil
}

// Import emits an import name
func (c *Collector) Import(name string) error {
	c.Imports = append(c.Imports, name)
	return nil
}

// Reset discards collected lines
func (c *Collector) Reset() {
	c.Lines = nil
	c.Imports = nil
}

// Writer writes each channel to its own writer, one line per call
type Writer struct {
	code    io.Writer
	imports io.Writer
	// Statements renders imports as java import statements (import a.b.C;)
	Statements bool
}

// Code emits a code line
func (w *Writer) Code(line string) error {
	_, err := io.WriteString(w.code, line+"\n")
	return err
}

// Import emits an import name
func (w *Writer) Import(name string) error {
	var err error
	if w.Statements {
		_, err = fmt.Fprintf(w.imports, "import %s;\n", name)
	} else {
		_, err = io.WriteString(w.imports, name+"\n")
	}
	return err
}

// NewWriter creates a writer sink, a nil imports writer shares the code writer
func NewWriter(code, imports io.Writer, statements bool) *Writer {
	if imports == nil {
		imports = code
	}
	return &Writer{code: code, imports: imports, Statements: statements}
}
