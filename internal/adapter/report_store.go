package adapter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

const reportExt = ".yaml"

// ReportStore persists and retrieves coverage reports.
type ReportStore interface {
	SaveReports(dir m.Path, results []m.FileResult) error
	LoadReports(dir m.Path) ([]m.FileResult, error)
}

// LocalReportStore writes one YAML document per analyzed unit.
type LocalReportStore struct{}

// NewReportStore constructs a ReportStore implementation.
func NewReportStore() ReportStore {
	return &LocalReportStore{}
}

// SaveReports writes every result to dir, replacing earlier reports for the same unit.
func (rs *LocalReportStore) SaveReports(dir m.Path, results []m.FileResult) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	for _, result := range results {
		result = withFailureMessages(result)

		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode report for %s: %w", result.Source.Path, err)
		}

		name := rs.computeReportHash(result.Source.Path) + reportExt
		if err := os.WriteFile(filepath.Join(string(dir), name), data, 0o600); err != nil {
			return fmt.Errorf("failed to write report %s: %w", name, err)
		}
	}

	return nil
}

// LoadReports reads every report in dir, ordered by unit path.
func (rs *LocalReportStore) LoadReports(dir m.Path) ([]m.FileResult, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no reports found in %s: %w", dir, err)
		}

		return nil, err
	}

	var results []m.FileResult

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), reportExt) {
			continue
		}

		// #nosec G304 - report files live in the configured reports directory
		data, err := os.ReadFile(filepath.Join(string(dir), entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read report %s: %w", entry.Name(), err)
		}

		var result m.FileResult
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to decode report %s: %w", entry.Name(), err)
		}

		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Source.Path < results[j].Source.Path
	})

	return results, nil
}

func (rs *LocalReportStore) computeReportHash(path m.Path) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])[:16]
}

// withFailureMessages copies in-process errors into their persisted form.
func withFailureMessages(result m.FileResult) m.FileResult {
	if result.Err != nil && result.Failure == "" {
		result.Failure = result.Err.Error()
	}

	functions := make([]m.FunctionReport, len(result.Functions))
	for i, fn := range result.Functions {
		if fn.Err != nil && fn.Failure == "" {
			fn.Failure = fn.Err.Error()
		}

		functions[i] = fn
	}

	result.Functions = functions

	return result
}
