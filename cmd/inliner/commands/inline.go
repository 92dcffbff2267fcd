package commands

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/inliner/config"
	"github.com/viant/inliner/inliner"
	"github.com/viant/inliner/inspector/java"
	"github.com/viant/inliner/inspector/repository"
	"github.com/viant/inliner/locator"
	"github.com/viant/inliner/sink"
	"github.com/viant/inliner/unit"
)

// InlineCommand holds flags of the inline command, values are read back through config.LoadConfig.
type InlineCommand struct {
	global        *globalOptions
	sources       []string
	inlines       []string
	imports       []string
	catalog       string
	index         bool
	output        string
	importsOutput string
	statements    bool
	fingerprint   bool
	cacheSize     int
	fs            afs.Service
}

func newInlineCommand(global *globalOptions) *cobra.Command {
	ic := &InlineCommand{global: global, fs: afs.New()}
	cmd := &cobra.Command{
		Use:   "inline",
		Short: "Inline classes and collect remaining imports",
		Long: `Inline emits every --inline class and all classes reachable from it whose source is
found in the source roots, each wrapped in begin/end markers, followed by the sorted
list of referenced classes that were not inlined.`,
		Args: cobra.NoArgs,
		RunE: ic.run,
	}

	cmd.Flags().StringSliceVarP(&ic.inlines, "inline", "i", nil, "Classes to inline (binary names)")
	cmd.Flags().StringSliceVar(&ic.imports, "import", nil, "Classes to import without inlining")
	cmd.Flags().StringSliceVarP(&ic.sources, "source", "s", nil, "Source root URLs or local source jars (default: detected project source roots)")
	cmd.Flags().StringVar(&ic.catalog, "catalog", "", "YAML catalog of classes and packages without source")
	cmd.Flags().BoolVar(&ic.index, "index", false, "Index declared types instead of mapping names to paths")
	cmd.Flags().StringVarP(&ic.output, "output", "o", "", "Code output URL (default: stdout)")
	cmd.Flags().StringVar(&ic.importsOutput, "imports-output", "", "Imports output URL (default: code output)")
	cmd.Flags().BoolVar(&ic.statements, "statements", false, "Render imports as import statements")
	cmd.Flags().BoolVar(&ic.fingerprint, "fingerprint", false, "Print output fingerprint to stderr")
	cmd.Flags().IntVar(&ic.cacheSize, "cache-size", config.DefaultCacheSize, "Locator cache entries (0 = disabled)")
	return cmd
}

func (ic *InlineCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(ic.global.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err = cfg.ValidateInline(); err != nil {
		return err
	}
	logger := ic.global.newLogger(cmd.ErrOrStderr(), cfg.LogLevel())
	ctx := cmd.Context()

	sources, err := ic.resolveSources(cfg, logger)
	if err != nil {
		return err
	}
	logger.Debug("resolved sources", "sources", sources)
	aLocator, closers, err := ic.buildLocator(ctx, cfg, sources, logger)
	defer func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}()
	if err != nil {
		return err
	}

	code := &bytes.Buffer{}
	var imports *bytes.Buffer
	var importsWriter io.Writer
	if cfg.Output.Imports != "" {
		imports = &bytes.Buffer{}
		importsWriter = imports
	}
	var target sink.Sink = sink.NewWriter(code, importsWriter, cfg.Output.Statements)
	var digest *sink.Digest
	if cfg.Output.Fingerprint {
		if digest, err = sink.NewDigest(target); err != nil {
			return fmt.Errorf("failed to create fingerprint: %w", err)
		}
		target = digest
	}

	engine := inliner.New(aLocator,
		inliner.WithLogger(logger),
		inliner.WithMarkers(cfg.Markers.Markers()),
	)
	report, err := engine.Run(ctx, unit.Refs(cfg.Import...), unit.Refs(cfg.Inline...), target)
	if err != nil {
		return err
	}

	if err = ic.emit(ctx, cmd.OutOrStdout(), cfg.Output.Code, code); err != nil {
		return err
	}
	if imports != nil {
		if err = ic.emit(ctx, cmd.OutOrStdout(), cfg.Output.Imports, imports); err != nil {
			return err
		}
	}
	logger.Info("inlined", "units", len(report.Inlined), "imports", len(report.Imports), "rounds", report.Rounds, "lines", report.Lines)
	if digest != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "fingerprint: %016x\n", digest.Sum64())
	}
	return nil
}

// resolveSources returns configured source URLs, or the source roots of the current project
func (ic *InlineCommand) resolveSources(cfg *config.Config, logger *log.Logger) ([]string, error) {
	sources := cfg.Sources
	if len(sources) == 0 {
		repo, err := repository.New().DetectRepository(".")
		if err != nil {
			return nil, fmt.Errorf("failed to detect project: %w", err)
		}
		if repo.Info == nil {
			return nil, fmt.Errorf("failed to detect project in repository %v", repo.Root)
		}
		logger.Debug("detected project", "kind", repo.Kind, "root", repo.Root, "origin", repo.Origin,
			"name", repo.Info.Name, "type", repo.Info.Type)
		sources = repo.Info.SourceRoots
	}
	var result []string
	for _, source := range sources {
		if source = strings.TrimSpace(source); source == "" {
			continue
		}
		URL, err := normalizeURL(source)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source %v: %w", source, err)
		}
		result = append(result, URL)
	}
	return result, nil
}

// buildLocator chains source locators with the external catalog.
// Local .jar and .zip sources (source jars) are read in place, returned closers release them.
func (ic *InlineCommand) buildLocator(ctx context.Context, cfg *config.Config, sources []string, logger *log.Logger) (locator.Locator, []io.Closer, error) {
	var chain locator.Chain
	var closers []io.Closer
	var roots []string
	var archives locator.Chain
	for _, source := range sources {
		if !isSourceArchive(source) {
			roots = append(roots, source)
			continue
		}
		reader, err := zip.OpenReader(source)
		if err != nil {
			return nil, closers, fmt.Errorf("failed to open source archive %v: %w", source, err)
		}
		closers = append(closers, reader)
		archives = append(archives, locator.NewFS(reader, "."))
		logger.Debug("opened source archive", "archive", source, "entries", len(reader.File))
	}

	if cfg.Index {
		index, err := locator.NewIndex(ctx, ic.fs, java.NewInspector(), roots...)
		if err != nil {
			return nil, closers, err
		}
		logger.Debug("indexed sources", "units", index.Len())
		chain = append(chain, index)
	} else {
		for _, root := range roots {
			chain = append(chain, locator.NewStore(ic.fs, root))
		}
	}
	chain = append(chain, archives...)

	catalog := locator.NewCatalog(cfg.Catalog.Units, cfg.Catalog.Packages)
	if !cfg.Catalog.NoDefaults {
		catalog.Merge(locator.DefaultCatalog())
	}
	if cfg.Catalog.URL != "" {
		loaded, err := locator.LoadCatalog(ctx, ic.fs, cfg.Catalog.URL)
		if err != nil {
			return nil, closers, err
		}
		catalog.Merge(loaded)
	}
	chain = append(chain, catalog)

	if cfg.Cache.Size == 0 {
		return chain, closers, nil
	}
	cached, err := locator.NewCached(chain, cfg.Cache.Size)
	if err != nil {
		return nil, closers, err
	}
	return cached, closers, nil
}

// isSourceArchive returns true for local source jar or zip paths
func isSourceArchive(source string) bool {
	if strings.Contains(source, "://") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(source))
	return ext == ".jar" || ext == ".zip"
}

// emit writes content to URL, or to w when URL is empty
func (ic *InlineCommand) emit(ctx context.Context, w io.Writer, URL string, content *bytes.Buffer) error {
	if URL == "" {
		_, err := w.Write(content.Bytes())
		return err
	}
	location, err := normalizeURL(URL)
	if err != nil {
		return err
	}
	if err = ic.fs.Upload(ctx, location, 0644, content); err != nil {
		return fmt.Errorf("failed to write %v: %w", URL, err)
	}
	return nil
}

// normalizeURL makes local paths absolute, URLs with a scheme are kept as is
func normalizeURL(location string) (string, error) {
	if strings.Contains(location, "://") {
		return location, nil
	}
	return filepath.Abs(location)
}
