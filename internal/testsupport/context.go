package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"chronosort/internal/organize"
)

// ContextOption customizes the generated test run configuration.
type ContextOption func(*organize.Context)

// NewContext produces an organize.Context seeded with a fresh source and
// destination directory pair under the test's temp dir. Defaults: recursive,
// depth 3, skip strategy, modified timestamps.
func NewContext(t testing.TB, opts ...ContextOption) *organize.Context {
	t.Helper()

	base := t.TempDir()
	source := filepath.Join(base, "source")
	output := filepath.Join(base, "dest")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}

	octx := &organize.Context{
		SourceRoot: source,
		OutputRoot: output,
		DateSource: organize.DateModified,
		Depth:      3,
		Strategy:   organize.StrategySkip,
		Recursive:  true,
		MaxDepth:   organize.MaxScanDepth,
		Verbosity:  organize.VerbosityQuiet,
	}
	for _, opt := range opts {
		opt(octx)
	}
	return octx
}

// WithStrategy overrides the conflict strategy.
func WithStrategy(s organize.Strategy) ContextOption {
	return func(octx *organize.Context) { octx.Strategy = s }
}

// WithDepth overrides the date directory depth.
func WithDepth(depth int) ContextOption {
	return func(octx *organize.Context) { octx.Depth = depth }
}

// WithOutputInsideSource points the output root at a subdirectory of the
// source tree.
func WithOutputInsideSource(name string) ContextOption {
	return func(octx *organize.Context) {
		octx.OutputRoot = filepath.Join(octx.SourceRoot, name)
	}
}

// WithPrompter attaches an ask-strategy prompter.
func WithPrompter(p organize.Prompter) ContextOption {
	return func(octx *organize.Context) { octx.Prompter = p }
}

// PrompterFunc adapts a function to the organize.Prompter interface.
type PrompterFunc func(question string) bool

func (f PrompterFunc) Confirm(question string) bool { return f(question) }
