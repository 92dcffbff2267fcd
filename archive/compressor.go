// Package archive packs a file or folder into a tar.xz archive with the system tar tool.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

const (
	// Ext is the extension of generated archive names
	Ext = ".tar.xz"
	// DefaultCommand is the archiving tool
	DefaultCommand = "tar"
	// CompressionEnv selects maximum xz compression
	CompressionEnv = "XZ_OPT=-9e"
)

// Plan describes the paths involved in building one archive
type Plan struct {
	// Source is the absolute path being archived
	Source string
	// SourceFolder is the parent folder of Source, the tool runs there
	SourceFolder string
	// SourceName is the base name of Source
	SourceName string
	// Folder is the destination folder
	Folder string
	// Name is the archive file name
	Name string
	// Path is the absolute archive path
	Path string
}

// Result reports the outcome of Compress
type Result struct {
	Plan     *Plan
	ExitCode int
	// Size is the archive size in bytes, zero when unknown
	Size uint64
	Err  error
}

// Succeeded returns true if the archive was built
func (r *Result) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Compressor builds archives
type Compressor struct {
	command string
	output  io.Writer
	logger  *log.Logger
}

// Option configures a Compressor
type Option func(*Compressor)

// WithCommand overrides the archiving tool
func WithCommand(command string) Option {
	return func(c *Compressor) {
		c.command = command
	}
}

// WithOutput redirects the tool output, os.Stdout by default
func WithOutput(w io.Writer) Option {
	return func(c *Compressor) {
		c.output = w
	}
}

// WithLogger sets the progress logger, a nil logger keeps the current one
func WithLogger(logger *log.Logger) Option {
	return func(c *Compressor) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Plan resolves the archive location for source.
// An empty destination places an auto named archive next to source,
// an existing directory receives an auto named archive, anything else is used as the archive path.
func (c *Compressor) Plan(source, destination string) (*Plan, error) {
	sourcePath, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %v: %w", source, err)
	}
	ret := &Plan{
		Source:       sourcePath,
		SourceFolder: filepath.Dir(sourcePath),
		SourceName:   filepath.Base(sourcePath),
	}
	if destination == "" {
		ret.Folder = ret.SourceFolder
	} else {
		dest, err := filepath.Abs(destination)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %v: %w", destination, err)
		}
		if info, err := os.Stat(dest); err == nil && info.IsDir() {
			ret.Folder = dest
		} else {
			ret.Folder = filepath.Dir(dest)
			ret.Path = dest
			ret.Name = filepath.Base(dest)
			return ret, nil
		}
	}
	ret.Name = removeExtension(ret.SourceName) + Ext
	ret.Path = filepath.Join(ret.Folder, ret.Name)
	return ret, nil
}

// Compress archives source into destination, see Plan for destination handling.
// Failures are logged and reported in the result, they never abort the caller.
func (c *Compressor) Compress(ctx context.Context, source, destination string) *Result {
	plan, err := c.Plan(source, destination)
	if err != nil {
		c.logger.Error("failed to plan archive", "source", source, "error", err)
		return &Result{Err: err, ExitCode: -1}
	}
	result := &Result{Plan: plan}
	fields := []interface{}{"archive", plan.Name, "path", plan.Path, "source", plan.Source, "folder", plan.Folder}
	c.logger.Info("building archive", fields...)

	cmd := exec.CommandContext(ctx, c.command, "-cJf", plan.Path, plan.SourceName)
	cmd.Dir = plan.SourceFolder
	cmd.Env = append(os.Environ(), CompressionEnv)
	cmd.Stdout = c.output
	cmd.Stderr = c.output
	if err = cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			result.Err = fmt.Errorf("%v exited with code %d: %w", c.command, result.ExitCode, err)
			c.logger.Error("failed to build archive", append(fields, "code", result.ExitCode)...)
			return result
		}
		result.ExitCode = -1
		result.Err = fmt.Errorf("failed to run %v: %w", c.command, err)
		c.logger.Error("failed to build archive, is "+c.command+" installed?", append(fields, "error", err)...)
		return result
	}
	if info, err := os.Stat(plan.Path); err == nil {
		result.Size = uint64(info.Size())
	}
	c.logger.Info("finished archive", append(fields, "code", result.ExitCode, "size", humanize.Bytes(result.Size))...)
	return result
}

func removeExtension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// New creates a compressor
func New(opts ...Option) *Compressor {
	ret := &Compressor{
		command: DefaultCommand,
		output:  os.Stdout,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
