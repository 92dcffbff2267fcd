package java

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// Inspector reads top level declarations of Java source files
type Inspector struct {
	skipDirs map[string]bool
}

// NewInspector creates a new Java Inspector, skipDirs lists directory names excluded from store walks
func NewInspector(skipDirs ...string) *Inspector {
	if len(skipDirs) == 0 {
		skipDirs = []string{"target", "build", "out", ".git"}
	}
	ret := &Inspector{skipDirs: map[string]bool{}}
	for _, dir := range skipDirs {
		ret.skipDirs[dir] = true
	}
	return ret
}

// InspectSource parses Java source code from a byte slice and extracts declarations
func (i *Inspector) InspectSource(src []byte) (*Declaration, error) {
	return i.inspect(context.Background(), src, "")
}

func (i *Inspector) inspect(ctx context.Context, src []byte, URL string) (*Declaration, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source %v: %w", URL, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	declaration := &Declaration{URL: URL}
	for j := 0; j < int(rootNode.NamedChildCount()); j++ {
		childNode := rootNode.NamedChild(j)
		switch childNode.Type() {
		case "package_declaration":
			declaration.Package = parsePackageDeclaration(childNode, src)
		default:
			if aType := parseTypeDeclaration(childNode, src); aType != nil {
				declaration.Types = append(declaration.Types, aType)
			}
		}
	}
	return declaration, nil
}

// InspectStore walks a source root of any afs supported storage and inspects every Java file,
// declarations are returned sorted by URL
func (i *Inspector) InspectStore(ctx context.Context, fs afs.Service, root string) ([]*Declaration, error) {
	if fs == nil {
		fs = afs.New()
	}
	var URLs []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return !i.skipDirs[info.Name()], nil
		}
		if strings.HasSuffix(info.Name(), ".java") {
			URLs = append(URLs, url.Join(url.Join(baseURL, parent), info.Name()))
		}
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("failed to walk source root %v: %w", root, err)
	}
	sort.Strings(URLs)

	var declarations []*Declaration
	for _, URL := range URLs {
		src, err := fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to read %v: %w", URL, err)
		}
		declaration, err := i.inspect(ctx, src, URL)
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, declaration)
	}
	return declarations, nil
}
