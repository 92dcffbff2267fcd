package inliner_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/inliner/inliner"
	"github.com/viant/inliner/locator"
	"github.com/viant/inliner/sink"
	"github.com/viant/inliner/transform"
	"github.com/viant/inliner/unit"
)

// block returns the expected inline output of one unit
func block(ref unit.Ref, body ...string) []string {
	result := []string{"", inliner.BeginMarker(ref), ""}
	result = append(result, body...)
	return append(result, "", inliner.EndMarker(ref), "")
}

func concat(blocks ...[]string) []string {
	var result []string
	for _, item := range blocks {
		result = append(result, item...)
	}
	return result
}

func newLocator(sources locator.Memory) locator.Locator {
	return locator.Chain{sources, locator.DefaultCatalog()}
}

func TestInliner_Run(t *testing.T) {
	testCases := []struct {
		description   string
		sources       locator.Memory
		imports       []unit.Ref
		inlines       []unit.Ref
		expectLines   []string
		expectImports []string
		expectInlined []unit.Ref
		expectRounds  int
	}{
		{
			description: "import seed without source, inline seed with inlinable dependency",
			sources: locator.Memory{
				"p.Y": "package p;\nimport p.Z;\npublic class Y {\n  Z z;\n}",
				"p.Z": "package p;\npublic class Z {\n}",
			},
			imports: []unit.Ref{"X"},
			inlines: []unit.Ref{"p.Y"},
			expectLines: concat(
				block("p.Y", "static class Y {", "  Z z;", "}"),
				block("p.Z", "static class Z {", "}"),
			),
			expectImports: []string{"X"},
			expectInlined: []unit.Ref{"p.Y", "p.Z"},
			expectRounds:  2,
		},
		{
			description: "namespace relative import",
			sources: locator.Memory{
				"p.Y": "package p;\nimport Z;\nclass Y {}",
				"p.Z": "package p;\nclass Z {}",
			},
			inlines: []unit.Ref{"p.Y"},
			expectLines: concat(
				block("p.Y", "static class Y {}"),
				block("p.Z", "static class Z {}"),
			),
			expectInlined: []unit.Ref{"p.Y", "p.Z"},
			expectRounds:  2,
		},
		{
			description: "inline wins over import seed",
			sources: locator.Memory{
				"p.Y": "package p;\nimport p.Z;\nclass Y {}",
				"p.Z": "package p;\nclass Z {}",
			},
			imports: []unit.Ref{"p.Z", "java.util.List"},
			inlines: []unit.Ref{"p.Y"},
			expectLines: concat(
				block("p.Y", "static class Y {}"),
				block("p.Z", "static class Z {}"),
			),
			expectImports: []string{"java.util.List"},
			expectInlined: []unit.Ref{"p.Y", "p.Z"},
			expectRounds:  2,
		},
		{
			description: "binary name import seed merges with nested import",
			sources: locator.Memory{
				"p.A": "package p;\nimport java.util.Map.Entry;\nclass A {}",
			},
			imports: []unit.Ref{"java.util.Map$Entry"},
			inlines: []unit.Ref{"p.A"},
			expectLines: concat(
				block("p.A", "static class A {}"),
			),
			expectImports: []string{"java.util.Map.Entry"},
			expectInlined: []unit.Ref{"p.A"},
			expectRounds:  1,
		},
		{
			description: "cycle is inlined once",
			sources: locator.Memory{
				"p.A": "package p;\nimport p.B;\nclass A {}",
				"p.B": "package p;\nimport p.A;\nclass B {}",
			},
			inlines: []unit.Ref{"p.A"},
			expectLines: concat(
				block("p.A", "static class A {}"),
				block("p.B", "static class B {}"),
			),
			expectInlined: []unit.Ref{"p.A", "p.B"},
			expectRounds:  2,
		},
		{
			description: "breadth first diamond",
			sources: locator.Memory{
				"p.A": "package p;\nimport p.B;\nimport p.C;\nclass A {}",
				"p.B": "package p;\nimport p.D;\nclass B {}",
				"p.C": "package p;\nimport p.D;\nimport p.B;\nclass C {}",
				"p.D": "package p;\nclass D {}",
			},
			inlines: []unit.Ref{"p.A", "p.A"},
			expectLines: concat(
				block("p.A", "static class A {}"),
				block("p.B", "static class B {}"),
				block("p.C", "static class C {}"),
				block("p.D", "static class D {}"),
			),
			expectInlined: []unit.Ref{"p.A", "p.B", "p.C", "p.D"},
			expectRounds:  3,
		},
		{
			description: "seed order preserved and seed discovered by another seed",
			sources: locator.Memory{
				"p.A": "package p;\nimport p.B;\nclass A {}",
				"p.B": "package p;\nclass B {}",
				"p.C": "package p;\nclass C {}",
			},
			inlines: []unit.Ref{"p.C", "p.A", "p.B"},
			expectLines: concat(
				block("p.C", "static class C {}"),
				block("p.A", "static class A {}"),
				block("p.B", "static class B {}"),
			),
			expectInlined: []unit.Ref{"p.C", "p.A", "p.B"},
			expectRounds:  2,
		},
		{
			description: "imports deduplicated and sorted",
			sources: locator.Memory{
				"p.A": "package p;\nimport java.util.Map;\nimport java.util.HashMap;\nimport p.B;\nclass A {}",
				"p.B": "package p;\nimport java.util.Map;\nimport java.util.Map.Entry;\nclass B {}",
			},
			imports: []unit.Ref{"java.util.List", "java.util.Map", "java.util.List"},
			inlines: []unit.Ref{"p.A"},
			expectLines: concat(
				block("p.A", "static class A {}"),
				block("p.B", "static class B {}"),
			),
			expectImports: []string{"java.util.HashMap", "java.util.List", "java.util.Map", "java.util.Map.Entry"},
			expectInlined: []unit.Ref{"p.A", "p.B"},
			expectRounds:  2,
		},
		{
			description: "nested type of a unit with source is imported",
			sources: locator.Memory{
				"p.A":     "package p;\nimport p.Outer.Inner;\nclass A {}",
				"p.Outer": "package p;\nclass Outer { static class Inner {} }",
			},
			inlines:       []unit.Ref{"p.A"},
			expectLines:   block("p.A", "static class A {}"),
			expectImports: []string{"p.Outer.Inner"},
			expectInlined: []unit.Ref{"p.A"},
			expectRounds:  1,
		},
		{
			description: "marker tokens",
			sources: locator.Memory{
				"p.A": "package p;\n// $ import p.B;\nimport p.Debug; // #\npublic final class A {\n  // $ live();\n  trace(); // #\n}",
				"p.B": "class B {}",
			},
			inlines: []unit.Ref{"p.A"},
			expectLines: concat(
				block("p.A", "static final class A {", " live();", "}"),
				block("p.B", "static class B {}"),
			),
			expectInlined: []unit.Ref{"p.A", "p.B"},
			expectRounds:  2,
		},
		{
			description:   "nothing to inline",
			imports:       []unit.Ref{"b.B", "a.A"},
			expectImports: []string{"a.A", "b.B"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			collector := &sink.Collector{}
			report, err := inliner.New(newLocator(testCase.sources)).Run(context.Background(), testCase.imports, testCase.inlines, collector)
			require.NoError(t, err)
			assert.EqualValues(t, testCase.expectLines, collector.Lines)
			assert.EqualValues(t, testCase.expectImports, collector.Imports)
			assert.EqualValues(t, testCase.expectInlined, report.Inlined)
			assert.Equal(t, testCase.expectRounds, report.Rounds)
			assert.Len(t, report.Imports, len(testCase.expectImports))
		})
	}
}

func TestInliner_Run_MarkersOnce(t *testing.T) {
	sources := locator.Memory{
		"p.A": "package p;\nimport p.B;\nimport p.C;\nclass A {}",
		"p.B": "package p;\nimport p.C;\nimport p.A;\nclass B {}",
		"p.C": "package p;\nimport p.B;\nimport p.A;\nclass C {}",
	}
	collector := &sink.Collector{}
	report, err := inliner.New(newLocator(sources)).Run(context.Background(), nil, []unit.Ref{"p.A", "p.B"}, collector)
	require.NoError(t, err)
	counts := map[string]int{}
	for _, line := range collector.Lines {
		if strings.HasPrefix(line, "// begin of inlined version of class ") {
			counts[line]++
		}
	}
	assert.Len(t, counts, 3)
	for line, count := range counts {
		assert.Equal(t, 1, count, line)
	}
	assert.Equal(t, 3, report.Lines)
}

func TestInliner_Run_Deterministic(t *testing.T) {
	sources := locator.Memory{
		"p.A": "package p;\nimport p.B;\nimport p.C;\nimport java.util.Map;\nclass A {}",
		"p.B": "package p;\nimport p.D;\nimport java.util.List;\nclass B {}",
		"p.C": "package p;\nimport p.D;\nimport java.io.File;\nclass C {}",
		"p.D": "package p;\nclass D {}",
	}
	var sums []uint64
	for i := 0; i < 5; i++ {
		digest, err := sink.NewDigest(nil)
		require.NoError(t, err)
		_, err = inliner.New(newLocator(sources)).Run(context.Background(), []unit.Ref{"java.util.Set"}, []unit.Ref{"p.A"}, digest)
		require.NoError(t, err)
		sums = append(sums, digest.Sum64())
	}
	for _, sum := range sums[1:] {
		assert.Equal(t, sums[0], sum)
	}
}

func TestInliner_Run_Errors(t *testing.T) {
	boom := errors.New("boom")
	failing := locator.NewInline("p.Broken", "memory://p.Broken", func(ctx context.Context) (io.ReadCloser, error) {
		return io.NopCloser(iotest.ErrReader(boom)), nil
	})
	unopenable := locator.NewInline("p.Gone", "memory://p.Gone", func(ctx context.Context) (io.ReadCloser, error) {
		return nil, os.ErrNotExist
	})
	sources := locator.Memory{
		"p.A":        "package p;\nimport q.Missing;\nclass A {}",
		"p.Uses":     "package p;\nimport p.Broken;\nclass Uses {}",
		"p.UsesGone": "package p;\nimport p.Gone;\nclass UsesGone {}",
	}
	l := locator.Chain{fixed{failing, unopenable}, sources, locator.DefaultCatalog()}

	testCases := []struct {
		description string
		inlines     []unit.Ref
		expect      error
		expectCause error
	}{
		{description: "unresolvable import", inlines: []unit.Ref{"p.A"}, expect: inliner.ErrResolution},
		{description: "unresolvable seed", inlines: []unit.Ref{"p.Nope"}, expect: inliner.ErrResolution},
		{description: "seed without source", inlines: []unit.Ref{"java.util.HashMap"}, expect: inliner.ErrSourceRead, expectCause: locator.ErrNoSource},
		{description: "read failure", inlines: []unit.Ref{"p.Uses"}, expect: inliner.ErrSourceRead, expectCause: boom},
		{description: "open failure", inlines: []unit.Ref{"p.UsesGone"}, expect: inliner.ErrSourceRead, expectCause: os.ErrNotExist},
	}
	for _, testCase := range testCases {
		report, err := inliner.New(l).Run(context.Background(), nil, testCase.inlines, &sink.Collector{})
		require.Error(t, err, testCase.description)
		assert.Nil(t, report, testCase.description)
		assert.ErrorIs(t, err, testCase.expect, testCase.description)
		if testCase.expectCause != nil {
			assert.ErrorIs(t, err, testCase.expectCause, testCase.description)
		}
	}

	_, err := inliner.New(l).Run(context.Background(), nil, []unit.Ref{"p.A"}, &sink.Collector{})
	var resolutionErr *inliner.ResolutionError
	require.True(t, errors.As(err, &resolutionErr))
	assert.Equal(t, "q.Missing", resolutionErr.Name)
	assert.Equal(t, unit.Ref("p.A"), resolutionErr.From)
	assert.Equal(t, "could not find unit q.Missing imported by p.A", err.Error())
}

// fixed locates a fixed set of units by exact name
type fixed []*locator.Unit

func (f fixed) Find(ctx context.Context, binaryName string) (*locator.Unit, error) {
	for _, candidate := range f {
		if candidate.Ref.String() == binaryName {
			return candidate, nil
		}
	}
	return nil, nil
}

// failingSink fails after limit code lines
type failingSink struct {
	sink.Collector
	limit int
}

func (f *failingSink) Code(line string) error {
	if len(f.Lines) >= f.limit {
		return errors.New("sink closed")
	}
	return f.Collector.Code(line)
}

func TestInliner_Run_SinkFailure(t *testing.T) {
	sources := locator.Memory{"p.A": "package p;\nclass A {\n}"}
	for limit := 0; limit < 8; limit++ {
		_, err := inliner.New(newLocator(sources)).Run(context.Background(), nil, []unit.Ref{"p.A"}, &failingSink{limit: limit})
		assert.Error(t, err, limit)
	}
}

// closeTracker counts opened and closed readers
type closeTracker struct {
	opened, closed int
}

type trackedReader struct {
	io.Reader
	tracker *closeTracker
}

func (r *trackedReader) Close() error {
	r.tracker.closed++
	return nil
}

func TestInliner_Run_ReleasesSources(t *testing.T) {
	tracker := &closeTracker{}
	sources := map[string]string{
		"p.A": "package p;\nimport p.B;\nclass A {}",
		"p.B": "package p;\nimport q.Missing;\nclass B {}",
	}
	var units fixed
	for name, source := range sources {
		source := source
		units = append(units, locator.NewInline(unit.Ref(name), "", func(ctx context.Context) (io.ReadCloser, error) {
			tracker.opened++
			return &trackedReader{Reader: strings.NewReader(source), tracker: tracker}, nil
		}))
	}
	_, err := inliner.New(units).Run(context.Background(), nil, []unit.Ref{"p.A"}, &sink.Collector{})
	assert.ErrorIs(t, err, inliner.ErrResolution)
	assert.Equal(t, 2, tracker.opened)
	assert.Equal(t, 2, tracker.closed)
}

func TestInliner_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := inliner.New(newLocator(locator.Memory{"p.A": "class A {}"})).Run(ctx, nil, []unit.Ref{"p.A"}, &sink.Collector{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInliner_WithOptions(t *testing.T) {
	sources := locator.Memory{"p.A": "package p;\nclass A {\n  a(); //-\n  //+b();\n}"}
	logs := &strings.Builder{}
	logger := log.NewWithOptions(logs, log.Options{Level: log.DebugLevel})
	collector := &sink.Collector{}
	_, err := inliner.New(newLocator(sources),
		inliner.WithMarkers(transform.Markers{Delete: "//-", CommentToCode: "//+"}),
		inliner.WithLogger(logger),
	).Run(context.Background(), nil, []unit.Ref{"p.A"}, collector)
	require.NoError(t, err)
	assert.EqualValues(t, block("p.A", "static class A {", "b();", "}"), collector.Lines)
	assert.Contains(t, logs.String(), "inlining round")
}
