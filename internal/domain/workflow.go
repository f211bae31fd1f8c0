// Package domain contains the validation coverage analysis: annotation
// classification, call-site collection, definition lookup, coverage
// comparison and the per-unit and batch drivers built on them.
package domain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/f2fguard/internal/adapter"
	"github.com/mouse-blink/f2fguard/internal/controller"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// ListArgs selects the units to analyze.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
	Naming  m.ValidatorNaming
}

// CheckArgs configures a batch coverage check.
type CheckArgs struct {
	ListArgs
	Reports  m.Path
	Store    bool
	Threads  int
	FailFast bool
}

// FuncArgs selects a single callable.
type FuncArgs struct {
	Path   m.Path
	Name   string
	Line   int
	Naming m.ValidatorNaming
}

// ViewArgs points at previously stored reports.
type ViewArgs struct {
	Reports m.Path
}

// Workflow defines the batch operations exposed to the CLI.
type Workflow interface {
	Check(ctx context.Context, args CheckArgs) error
	List(ctx context.Context, args ListArgs) error
	Func(ctx context.Context, args FuncArgs) error
	View(args ViewArgs) error
}

type workflow struct {
	fsAdapter   adapter.SourceFSAdapter
	pyAdapter   adapter.PythonFileAdapter
	reportStore adapter.ReportStore
	ui          controller.UI
	log         *zap.SugaredLogger
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	pyAdapter adapter.PythonFileAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	log *zap.SugaredLogger,
) Workflow {
	return &workflow{
		fsAdapter:   fsAdapter,
		pyAdapter:   pyAdapter,
		reportStore: reportStore,
		ui:          ui,
		log:         log,
	}
}

// job is one unit to analyze, or the reason a requested root cannot be analyzed.
type job struct {
	path m.Path
	err  error
}

// Check analyzes every unit under the requested paths. Units are independent:
// a defect in one never prevents analysis of the others.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	jobs, err := w.collectJobs(args.ListArgs)
	if err != nil {
		return err
	}

	walker := NewWalker(w.fsAdapter, w.pyAdapter, WalkerOptions{Naming: args.Naming, FailFast: args.FailFast}, w.log)

	results, err := w.runJobs(ctx, walker, jobs, args.Threads)
	if err != nil {
		return err
	}

	if err := w.ui.DisplayResults(results); err != nil {
		return err
	}

	if args.Store {
		if err := w.reportStore.SaveReports(args.Reports, results); err != nil {
			return fmt.Errorf("failed to store reports: %w", err)
		}
	}

	failed := 0

	for _, result := range results {
		if !result.Passed() {
			failed++

			w.log.Debugw("Unit failed", "path", result.Source.Path, "error", result.FirstError())
		}
	}

	w.log.Infow("Coverage check finished", "units", len(results), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d units", ErrCheckFailed, failed, len(results))
	}

	return nil
}

// List shows every callable with the validators its parameters require.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	jobs, err := w.collectJobs(args)
	if err != nil {
		return err
	}

	walker := NewWalker(w.fsAdapter, w.pyAdapter, WalkerOptions{Naming: args.Naming}, w.log)
	units := make([]m.UnitRequirements, 0, len(jobs))

	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}

		unit := m.UnitRequirements{Path: j.path, Err: j.err}
		if j.err == nil {
			unit.Callables, unit.Err = w.requirements(ctx, walker, j.path)
		}

		units = append(units, unit)
	}

	return w.ui.DisplayRequirements(units)
}

// Func reports the verdict for a single callable. path must name one
// existing Python unit.
func (w *workflow) Func(ctx context.Context, args FuncArgs) error {
	path, err := w.sourceUnit(args.Path)
	if err != nil {
		result := m.FileResult{Source: m.File{Path: args.Path}, Err: err}
		if uiErr := w.ui.DisplayResults([]m.FileResult{result}); uiErr != nil {
			return uiErr
		}

		return fmt.Errorf("%w: %w", ErrCheckFailed, err)
	}

	walker := NewWalker(w.fsAdapter, w.pyAdapter, WalkerOptions{Naming: args.Naming}, w.log)

	report, checkErr := walker.CheckCallable(ctx, path, args.Name, args.Line)

	result := m.FileResult{Source: m.File{Path: path}, Functions: []m.FunctionReport{report}}
	if err := w.ui.DisplayResults([]m.FileResult{result}); err != nil {
		return err
	}

	if checkErr != nil {
		return fmt.Errorf("%w: %w", ErrCheckFailed, checkErr)
	}

	return nil
}

// sourceUnit resolves path the way check resolves a file root.
func (w *workflow) sourceUnit(path m.Path) (m.Path, error) {
	if info, err := w.fsAdapter.Stat(path); err == nil && info.IsDir() {
		return path, &UnsupportedInputError{Path: path, Reason: ErrNotSourceFile}
	}

	sources, err := w.fsAdapter.Get([]m.Path{path})
	if err != nil {
		return path, classifyRootError(path, err)
	}

	if len(sources) != 1 {
		return path, &UnsupportedInputError{Path: path, Reason: ErrNotSourceFile}
	}

	return sources[0].Origin.Path, nil
}

// View displays reports stored by an earlier check.
func (w *workflow) View(args ViewArgs) error {
	results, err := w.reportStore.LoadReports(args.Reports)
	if err != nil {
		return err
	}

	return w.ui.DisplayResults(results)
}

func (w *workflow) requirements(ctx context.Context, walker Walker, path m.Path) ([]m.CallableRequirement, error) {
	decls, err := walker.Declarations(ctx, path)
	if err != nil {
		return nil, err
	}

	var callables []m.CallableRequirement

	for _, decl := range decls {
		record := decl.Callable()
		if record == nil || record.Ignored {
			continue
		}

		required := make(map[string][]string)
		for param, set := range walker.Required(*record) {
			if len(set) > 0 {
				required[param] = set.Sorted()
			}
		}

		callables = append(callables, m.CallableRequirement{Record: *record, Required: required})
	}

	return callables, nil
}

// collectJobs expands each requested root on its own, so one unsupported
// root is reported without hiding the others.
func (w *workflow) collectJobs(args ListArgs) ([]job, error) {
	patterns, err := compileExcludes(args.Exclude)
	if err != nil {
		return nil, err
	}

	var jobs []job

	for _, root := range args.Paths {
		sources, err := w.fsAdapter.Get([]m.Path{root}, patterns...)
		if err != nil {
			jobs = append(jobs, job{path: root, err: classifyRootError(root, err)})
			continue
		}

		for _, source := range sources {
			j := job{path: source.Origin.Path}
			if source.Err != nil {
				j.err = &LoadError{Path: source.Origin.Path, Err: source.Err}
			}

			jobs = append(jobs, j)
		}
	}

	return jobs, nil
}

// runJobs analyzes units with at most threads in flight. Results keep job order.
func (w *workflow) runJobs(ctx context.Context, walker Walker, jobs []job, threads int) ([]m.FileResult, error) {
	if threads <= 0 {
		threads = 1
	}

	results := make([]m.FileResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, j := range jobs {
		if j.err != nil {
			results[i] = m.FileResult{Source: m.File{Path: j.path}, Err: j.err}
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := walker.Walk(gctx, j.path)
			if err != nil {
				w.log.Debugw("Unit could not be loaded", "path", j.path, "error", err)
			}

			results[i] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func classifyRootError(root m.Path, err error) error {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, adapter.ErrNotPythonSource) {
		return &UnsupportedInputError{Path: root, Reason: err}
	}

	return &LoadError{Path: root, Err: err}
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}
