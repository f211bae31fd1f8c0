package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/f2fguard/internal/config"
	"github.com/mouse-blink/f2fguard/internal/domain"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

func TestRootCmd_RunsCheckWithDefaults(t *testing.T) {
	cmd, mockWorkflow, _ := newTestRoot(t)

	mockWorkflow.On("Check", mock.Anything, mock.MatchedBy(func(args domain.CheckArgs) bool {
		return len(args.Paths) == 1 && args.Paths[0] == "./..." &&
			args.Naming == m.DefaultValidatorNaming() &&
			args.Reports == config.DefaultReportsDir &&
			args.Store && args.Threads == 1 && !args.FailFast
	})).Return(nil)

	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
}

func TestRootCmd_ValidatorNamingFlags(t *testing.T) {
	cmd, mockWorkflow, _ := newTestRoot(t)

	want := m.ValidatorNaming{Namespace: "Guard", Prefix: "ensure_", TargetKeyword: "value"}
	mockWorkflow.On("Check", mock.Anything, mock.MatchedBy(func(args domain.CheckArgs) bool {
		return args.Naming == want
	})).Return(nil)

	cmd.SetArgs([]string{"--namespace", "Guard", "--prefix", "ensure_", "--target-keyword", "value", "src"})
	require.NoError(t, cmd.Execute())
}

func TestRootCmd_InvalidNamespace(t *testing.T) {
	cmd, _, _ := newTestRoot(t)

	cmd.SetArgs([]string{"--namespace", "not.valid", "src"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidNamespace)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	cmd, mockWorkflow, _ := newTestRoot(t)

	path := filepath.Join(t.TempDir(), "f2fguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
validator:
  namespace: V
fail_fast: true
parallel: 3
exclude: ["^build/"]
reports: out
`), 0o644))

	mockWorkflow.On("Check", mock.Anything, mock.MatchedBy(func(args domain.CheckArgs) bool {
		return args.Naming.Namespace == "V" && args.Naming.Prefix == "validate_" &&
			args.FailFast && args.Threads == 3 &&
			len(args.Exclude) == 2 && args.Exclude[0] == "^build/" && args.Exclude[1] == "_test\\.py$" &&
			args.Reports == "override"
	})).Return(nil)

	cmd.SetArgs([]string{"--config", path, "--reports", "override", "-x", `_test\.py$`, "pkg"})
	require.NoError(t, cmd.Execute())
}

func TestRootCmd_ExplicitMissingConfig(t *testing.T) {
	cmd, _, _ := newTestRoot(t)

	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	err := cmd.Execute()
	assert.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestRootCmd_PropagatesCheckFailure(t *testing.T) {
	cmd, mockWorkflow, _ := newTestRoot(t)

	failure := fmt.Errorf("%w: 1 of 2 units", domain.ErrCheckFailed)
	mockWorkflow.On("Check", mock.Anything, mock.Anything).Return(failure)

	cmd.SetArgs([]string{"a.py", "b.py"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, isCheckFailure(err))
	assert.False(t, isCheckFailure(errors.New("bad flag")))
}

func TestParsePaths(t *testing.T) {
	assert.Equal(t, []m.Path{"./..."}, parsePaths(nil))
	assert.Equal(t, []m.Path{"a.py", "pkg/..."}, parsePaths([]string{"a.py", "pkg/..."}))
}

func TestCurrentSettings_DefaultsWithoutPreRun(t *testing.T) {
	original := settings
	settings = nil
	defer func() { settings = original }()

	assert.Equal(t, config.NewManager().DefaultConfig(), currentSettings())
}
