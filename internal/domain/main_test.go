package domain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/mouse-blink/f2fguard/internal/adapter"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writePython writes a fixture unit into dir and returns its path.
func writePython(t *testing.T, dir, name, src string) m.Path {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimLeft(src, "\n")), 0o644))

	return m.Path(path)
}

// parseSource parses src without touching the filesystem.
func parseSource(t *testing.T, src string) *adapter.Unit {
	t.Helper()

	unit, err := adapter.NewLocalPythonFileAdapter().Parse(context.Background(), "fixture.py", []byte(strings.TrimLeft(src, "\n")))
	require.NoError(t, err)
	t.Cleanup(unit.Close)

	return unit
}

func newTestWalker(opts WalkerOptions) Walker {
	if opts.Naming == (m.ValidatorNaming{}) {
		opts.Naming = m.DefaultValidatorNaming()
	}

	return NewWalker(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalPythonFileAdapter(), opts, zap.NewNop().Sugar())
}

func newTestReader() *declarationReader {
	return newDeclarationReader(NewAnnotationParser(), zap.NewNop().Sugar())
}
