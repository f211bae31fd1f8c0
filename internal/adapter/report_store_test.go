package adapter

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

func sampleReports() []m.FileResult {
	record := m.FunctionRecord{
		Name:          "area",
		QualifiedName: "area",
		Path:          "/proj/shapes.py",
		Line:          3,
		Parameters: []m.ParameterAnnotation{
			{Name: "w", Kind: m.PositionalOrKeyword, Annotation: "float"},
		},
	}

	return []m.FileResult{
		{
			Source: m.File{Path: "/proj/shapes.py", Hash: "abc"},
			Functions: []m.FunctionReport{{
				Record: record,
				Parameters: []m.ParameterReport{{
					Parameter:  "w",
					Annotation: "float",
					Required:   []string{"validate_Float"},
					Missing:    []string{"validate_Float"},
				}},
				Err: errors.New("parameter w: missing validate_Float"),
			}},
		},
		{
			Source: m.File{Path: "/proj/broken.py"},
			Err:    errors.New("syntax error at line 1, column 7"),
		},
	}
}

func TestLocalReportStore_SaveReports_WritesHashedYAMLPerUnit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rs := &LocalReportStore{}

	require.NoError(t, rs.SaveReports(m.Path(dir), sampleReports()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	name := rs.computeReportHash("/proj/shapes.py") + reportExt
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}\.yaml$`), name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Contains(t, string(data), "parameter w: missing validate_Float")
	assert.Contains(t, decoded, "source")
	assert.Contains(t, decoded, "functions")
}

func TestLocalReportStore_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := m.Path(filepath.Join(t.TempDir(), "nested", "reports"))
	rs := NewReportStore()

	require.NoError(t, rs.SaveReports(dir, sampleReports()))

	loaded, err := rs.LoadReports(dir)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	broken, shapes := loaded[0], loaded[1]

	assert.Equal(t, m.Path("/proj/broken.py"), broken.Source.Path)
	assert.Equal(t, "syntax error at line 1, column 7", broken.Failure)
	assert.Nil(t, broken.Err)
	assert.False(t, broken.Passed())

	assert.Equal(t, "abc", shapes.Source.Hash)
	require.Len(t, shapes.Functions, 1)
	assert.Equal(t, "area", shapes.Functions[0].Record.QualifiedName)
	assert.Equal(t, m.PositionalOrKeyword, shapes.Functions[0].Record.Parameters[0].Kind)
	assert.Equal(t, []string{"validate_Float"}, shapes.Functions[0].Parameters[0].Missing)
	assert.False(t, shapes.Passed())
}

func TestLocalReportStore_SaveReports_ReplacesPreviousReport(t *testing.T) {
	t.Parallel()

	dir := m.Path(t.TempDir())
	rs := NewReportStore()

	require.NoError(t, rs.SaveReports(dir, sampleReports()))
	require.NoError(t, rs.SaveReports(dir, []m.FileResult{{Source: m.File{Path: "/proj/broken.py", Hash: "fixed"}}}))

	loaded, err := rs.LoadReports(dir)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, loaded[0].Passed())
	assert.Equal(t, "fixed", loaded[0].Source.Hash)
}

func TestLocalReportStore_LoadReports_IgnoresForeignFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o750))

	loaded, err := NewReportStore().LoadReports(m.Path(dir))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLocalReportStore_LoadReports_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewReportStore().LoadReports(m.Path(filepath.Join(t.TempDir(), "absent")))
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("source: [unclosed"), 0o600))

	_, err = NewReportStore().LoadReports(m.Path(dir))
	assert.ErrorContains(t, err, "failed to decode report bad.yaml")
}
