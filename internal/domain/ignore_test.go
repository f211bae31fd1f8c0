package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIgnoreDirective(t *testing.T) {
	tests := []struct {
		comment string
		ok      bool
		all     bool
		names   []string
	}{
		{"# f2fguard:ignore", true, true, nil},
		{"#f2fguard:ignore", true, true, nil},
		{"  # f2fguard:ignore x, y ", true, false, []string{"x", "y"}},
		{"# f2fguard:ignore Data  # legacy payload", true, false, []string{"Data"}},
		{"# f2fguard:ignore ,", true, true, nil},
		{"# f2fguard:ignored", false, false, nil},
		{"# noqa", false, false, nil},
		{"f2fguard:ignore", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			rule, ok := parseIgnoreDirective(tt.comment)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.all, rule.all)

			for _, name := range tt.names {
				assert.True(t, rule.ignores(name), name)
			}

			assert.Len(t, rule.names, len(tt.names))
		})
	}
}

func TestMergeIgnoreRule(t *testing.T) {
	var rule ignoreRule

	named, _ := parseIgnoreDirective("# f2fguard:ignore a")
	mergeIgnoreRule(&rule, named)
	assert.True(t, rule.ignores("a"))
	assert.False(t, rule.ignores("b"))

	all, _ := parseIgnoreDirective("# f2fguard:ignore")
	mergeIgnoreRule(&rule, all)
	assert.True(t, rule.ignores("b"))

	mergeIgnoreRule(&rule, named)
	assert.True(t, rule.all)
	assert.Nil(t, rule.names)
}

const ignoreFixture = `
import F2F

# f2fguard:ignore
def skipped(x: int):
    pass

# generated by a tool
# f2fguard:ignore payload
@decorator
def partial(payload: dict, count: int):
    F2F.validate_Int(count)

def trailing(x: int):  # f2fguard:ignore
    pass

# f2fguard:ignore y
class Pair:
    def __init__(self, x: int, y: int):
        F2F.validate_Int(x)

# f2fguard:ignore

def detached(x: int):
    pass
`

func TestIgnoreDirectives_Walk(t *testing.T) {
	path := writePython(t, t.TempDir(), "ignore.py", ignoreFixture)

	result, err := newTestWalker(WalkerOptions{}).Walk(context.Background(), path)
	require.NoError(t, err)

	var names []string
	for _, fn := range result.Functions {
		names = append(names, fn.Record.QualifiedName)
	}

	assert.Equal(t, []string{"partial", "Pair.__init__", "detached"}, names)

	assert.True(t, result.Functions[0].Passed())
	assert.True(t, result.Functions[1].Passed())
	assert.False(t, result.Functions[2].Passed(), "a blank line detaches the directive")
}

func TestIgnoreDirectives_FileLevel(t *testing.T) {
	path := writePython(t, t.TempDir(), "generated.py", `
#!/usr/bin/env python
# f2fguard:ignore

def anything(x: int):
    pass
`)

	walker := newTestWalker(WalkerOptions{})

	result, err := walker.Walk(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, result.Functions)
	assert.True(t, result.Passed())

	report, err := walker.CheckCallable(context.Background(), path, "anything", 0)
	require.NoError(t, err)
	assert.True(t, report.Record.Ignored)
}

func TestIgnoreDirectives_FileLevelParameters(t *testing.T) {
	path := writePython(t, t.TempDir(), "handlers.py", `
# f2fguard:ignore request

def handle(request: dict, retries: int):
    F2F.validate_Int(retries)
`)

	result, err := newTestWalker(WalkerOptions{}).Walk(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, result.Functions, 1)
	assert.True(t, result.Passed())
}
