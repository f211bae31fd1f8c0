// Package adapter contains the infrastructure adapters of the f2fguard CLI:
// filesystem discovery, Python parsing and report persistence.
package adapter

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

const pythonFileExt = ".py"

// ErrNotPythonSource is returned when a file root is not a Python source unit.
var ErrNotPythonSource = errors.New("not a Python source file")

// SourceFSAdapter is the domain's view of the project on disk.
type SourceFSAdapter interface {
	// Get discovers the Python units under roots. A root is a .py file or a
	// directory, searched recursively; a trailing "/..." is accepted and "~"
	// expands to the home directory. Units whose root-relative slash path
	// matches one of exclude are left out. Each unit appears once. An entry
	// below a directory root that cannot be read is returned as a Source
	// with Err set; only a failing root fails the call.
	Get(roots []m.Path, exclude ...*regexp.Regexp) ([]m.Source, error)
	ReadFile(path m.Path) ([]byte, error)
	// HashFile returns the hex SHA-256 of the file content.
	HashFile(path m.Path) (string, error)
	Stat(path m.Path) (os.FileInfo, error)
}

// LocalSourceFSAdapter implements SourceFSAdapter on the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter returns the disk-backed adapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

func (a *LocalSourceFSAdapter) Get(roots []m.Path, exclude ...*regexp.Regexp) ([]m.Source, error) {
	found := &unitSet{seen: make(map[m.Path]struct{}), sources: []m.Source{}}

	for _, root := range roots {
		dir, err := resolveRoot(string(root))
		if err != nil {
			return nil, err
		}

		info, err := a.Stat(m.Path(dir))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if info.IsDir() {
			err = a.collectDir(found, dir, exclude)
		} else if filepath.Ext(dir) != pythonFileExt {
			err = fmt.Errorf("%s: %w", root, ErrNotPythonSource)
		} else {
			err = a.collectFile(found, dir)
		}

		if err != nil {
			return nil, err
		}
	}

	return found.sources, nil
}

func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func (a *LocalSourceFSAdapter) Stat(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

type unitSet struct {
	seen    map[m.Path]struct{}
	sources []m.Source
}

func (s *unitSet) fail(path string, err error) {
	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		abs = path
	}

	unit := m.Path(abs)
	if _, dup := s.seen[unit]; dup {
		return
	}

	s.seen[unit] = struct{}{}
	s.sources = append(s.sources, m.Source{Origin: &m.File{Path: unit}, Err: err})
}

func (a *LocalSourceFSAdapter) collectDir(found *unitSet, root string, exclude []*regexp.Regexp) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		switch {
		case err != nil && path == root:
			return err
		case err != nil:
			if (entry == nil || entry.IsDir() || filepath.Ext(path) == pythonFileExt) && !excluded(root, path, exclude) {
				found.fail(path, err)
			}

			return nil
		case entry.IsDir():
			if path != root && toolDir(entry.Name()) {
				return filepath.SkipDir
			}

			return nil
		case filepath.Ext(path) != pythonFileExt, excluded(root, path, exclude):
			return nil
		default:
			if err := a.collectFile(found, path); err != nil {
				found.fail(path, err)
			}

			return nil
		}
	})
}

func (a *LocalSourceFSAdapter) collectFile(found *unitSet, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	unit := m.Path(abs)
	if _, dup := found.seen[unit]; dup {
		return nil
	}

	hash, err := a.HashFile(unit)
	if err != nil {
		return fmt.Errorf("hash error for %s: %w", abs, err)
	}

	found.seen[unit] = struct{}{}
	found.sources = append(found.sources, m.Source{Origin: &m.File{Path: unit, Hash: hash}})

	return nil
}

// resolveRoot turns a CLI root into an absolute path.
func resolveRoot(root string) (string, error) {
	root = strings.TrimSuffix(root, "/...")

	if rest, ok := strings.CutPrefix(root, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		root = filepath.Join(home, strings.TrimPrefix(rest, string(os.PathSeparator)))
	}

	if root == "" {
		root = "."
	}

	return filepath.Abs(root)
}

// toolDir names directories that never hold project sources.
func toolDir(name string) bool {
	switch name {
	case ".git", "__pycache__", ".venv", "venv", ".tox", "node_modules", ".mypy_cache":
		return true
	}

	return false
}

func excluded(root, path string, patterns []*regexp.Regexp) bool {
	if len(patterns) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	rel = filepath.ToSlash(rel)

	for _, re := range patterns {
		if re.MatchString(rel) {
			return true
		}
	}

	return false
}
