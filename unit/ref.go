package unit

import (
	"sort"
	"strings"
)

// NestedSeparator separates an enclosing type from a nested type in a binary name (a.b.Outer$Inner)
const NestedSeparator = "$"

// Ref identifies a compilation unit by its canonical, dot separated qualified name
type Ref string

// String returns the qualified name
func (r Ref) String() string {
	return string(r)
}

// Namespace returns the package part of the name, or an empty string for an unqualified name
func (r Ref) Namespace() string {
	name := string(r)
	if index := strings.LastIndex(name, "."); index != -1 {
		return name[:index]
	}
	return ""
}

// SimpleName returns the last segment of the name
func (r Ref) SimpleName() string {
	name := string(r)
	return name[strings.LastIndex(name, ".")+1:]
}

// Canonical converts a binary name (a.b.Outer$Inner) to its canonical form (a.b.Outer.Inner)
func Canonical(binaryName string) Ref {
	return Ref(strings.ReplaceAll(binaryName, NestedSeparator, "."))
}

// Qualify prefixes name with namespace
func Qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// Refs converts names to refs, skipping blank entries
func Refs(names ...string) []Ref {
	var result []Ref
	for _, name := range names {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		result = append(result, Ref(name))
	}
	return result
}

// Sort sorts refs lexicographically in place
func Sort(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool {
		return refs[i] < refs[j]
	})
}
