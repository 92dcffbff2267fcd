package locator

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/inliner/unit"
	"gopkg.in/yaml.v3"
)

// DefaultPackages lists packages always available to a java runtime
var DefaultPackages = []string{"java.", "javax."}

// Catalog locates units known to exist without source, by exact name or package prefix
type Catalog struct {
	Units    []string `yaml:"units"`
	Packages []string `yaml:"packages"`
	units    map[unit.Ref]bool
}

// Find finds an external unit by binary name
func (c *Catalog) Find(ctx context.Context, binaryName string) (*Unit, error) {
	ref := unit.Canonical(binaryName)
	if c.units[ref] {
		return NewExternal(ref), nil
	}
	name := ref.String()
	for _, prefix := range c.Packages {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimSuffix(strings.TrimSuffix(name[len(prefix):], "*"), ".")
		if rest == "" || validName(rest) {
			return NewExternal(ref), nil
		}
	}
	return nil, nil
}

// Merge adds other catalog entries
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	c.Units = append(c.Units, other.Units...)
	c.Packages = append(c.Packages, other.Packages...)
	c.init()
}

func (c *Catalog) init() {
	c.units = make(map[unit.Ref]bool, len(c.Units))
	for _, name := range c.Units {
		c.units[unit.Canonical(strings.TrimSpace(name))] = true
	}
	packages := c.Packages[:0]
	seen := map[string]bool{}
	for _, prefix := range c.Packages {
		prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "*")
		if prefix == "" {
			continue
		}
		if !strings.HasSuffix(prefix, ".") {
			prefix += "."
		}
		if seen[prefix] {
			continue
		}
		seen[prefix] = true
		packages = append(packages, prefix)
	}
	c.Packages = packages
}

// NewCatalog creates a catalog with unit names and package prefixes
func NewCatalog(units []string, packages []string) *Catalog {
	ret := &Catalog{Units: append([]string{}, units...), Packages: append([]string{}, packages...)}
	ret.init()
	return ret
}

// DefaultCatalog creates a catalog of the java runtime packages
func DefaultCatalog() *Catalog {
	return NewCatalog(nil, DefaultPackages)
}

// LoadCatalog loads a YAML catalog:
//
//	units:
//	  - org.junit.Assert
//	packages:
//	  - org.slf4j
func LoadCatalog(ctx context.Context, fs afs.Service, URL string) (*Catalog, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %v: %w", URL, err)
	}
	ret := &Catalog{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %v: %w", URL, err)
	}
	ret.init()
	return ret, nil
}
