package java

import (
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// typeKinds maps top level declaration node types to declaration kinds
var typeKinds = map[string]string{
	"class_declaration":           "class",
	"interface_declaration":       "interface",
	"enum_declaration":            "enum",
	"record_declaration":          "record",
	"annotation_type_declaration": "annotation",
}

// Declaration represents the top level declarations of a Java source file
type Declaration struct {
	URL     string
	Package string
	Types   []*Type
}

// Type represents a top level type declaration
type Type struct {
	Name      string
	Kind      string
	Modifiers []string
}

// IsPublic returns true if type has the public modifier
func (t *Type) IsPublic() bool {
	for _, modifier := range t.Modifiers {
		if modifier == "public" {
			return true
		}
	}
	return false
}

// QualifiedName returns type name qualified with the declaring package
func (d *Declaration) QualifiedName(t *Type) string {
	if d.Package == "" {
		return t.Name
	}
	return d.Package + "." + t.Name
}

// Primary returns the type named after the source file, then the public type, then the first declared type
func (d *Declaration) Primary() *Type {
	if len(d.Types) == 0 {
		return nil
	}
	base := strings.TrimSuffix(path.Base(d.URL), ".java")
	var public *Type
	for _, candidate := range d.Types {
		if candidate.Name == base {
			return candidate
		}
		if public == nil && candidate.IsPublic() {
			public = candidate
		}
	}
	if public != nil {
		return public
	}
	return d.Types[0]
}

// parsePackageDeclaration extracts the package name from a Java source file
func parsePackageDeclaration(node *sitter.Node, source []byte) string {
	if node.Type() != "package_declaration" {
		return ""
	}
	for j := 0; j < int(node.NamedChildCount()); j++ {
		child := node.NamedChild(j)
		switch child.Type() {
		case "scoped_identifier", "identifier":
			return child.Content(source)
		}
	}
	return ""
}

// parseTypeDeclaration extracts a top level type declaration
func parseTypeDeclaration(node *sitter.Node, source []byte) *Type {
	kind, ok := typeKinds[node.Type()]
	if !ok {
		return nil
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return &Type{
		Name:      nameNode.Content(source),
		Kind:      kind,
		Modifiers: parseModifiers(node),
	}
}

// parseModifiers returns keyword modifiers of a declaration, annotations are skipped
func parseModifiers(node *sitter.Node) []string {
	var modifiers []string
	for j := 0; j < int(node.NamedChildCount()); j++ {
		child := node.NamedChild(j)
		if child.Type() != "modifiers" {
			continue
		}
		for k := 0; k < int(child.ChildCount()); k++ {
			modifier := child.Child(k)
			if modifier.IsNamed() {
				continue
			}
			modifiers = append(modifiers, modifier.Type())
		}
	}
	return modifiers
}
