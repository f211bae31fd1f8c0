package domain

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/mouse-blink/f2fguard/internal/adapter"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// Walker analyzes every callable of a unit.
type Walker interface {
	// Walk checks every module-level function and class constructor in path.
	// The error is non-nil only when the unit itself cannot be loaded;
	// per-callable defects are carried by the result.
	Walk(ctx context.Context, path m.Path) (m.FileResult, error)
	// Declarations lists the declarations of path with their parameters.
	Declarations(ctx context.Context, path m.Path) ([]m.Declaration, error)
	// Required computes the validators each parameter of record must receive.
	Required(record m.FunctionRecord) m.RequiredValidatorSet
	// CheckCallable returns the verdict for a single callable. name is a
	// function name, a class name (its constructor is checked) or
	// Class.method; line disambiguates same-named definitions and may be zero.
	CheckCallable(ctx context.Context, path m.Path, name string, line int) (m.FunctionReport, error)
}

// WalkerOptions configures a Walker.
type WalkerOptions struct {
	Naming m.ValidatorNaming
	// FailFast stops a unit at its first failing callable.
	FailFast bool
}

type walker struct {
	fsAdapter  adapter.SourceFSAdapter
	pyAdapter  adapter.PythonFileAdapter
	reader     *declarationReader
	classifier Classifier
	collector  Collector
	comparator Comparator
	locator    Locator
	failFast   bool
	log        *zap.SugaredLogger
}

// NewWalker wires the analysis pipeline for one unit at a time.
func NewWalker(fsAdapter adapter.SourceFSAdapter, pyAdapter adapter.PythonFileAdapter, opts WalkerOptions, log *zap.SugaredLogger) Walker {
	return &walker{
		fsAdapter:  fsAdapter,
		pyAdapter:  pyAdapter,
		reader:     newDeclarationReader(NewAnnotationParser(), log),
		classifier: NewClassifier(opts.Naming),
		collector:  NewCollector(opts.Naming),
		comparator: NewComparator(),
		locator:    NewLocator(fsAdapter, pyAdapter),
		failFast:   opts.FailFast,
		log:        log,
	}
}

func (w *walker) Walk(ctx context.Context, path m.Path) (m.FileResult, error) {
	result := m.FileResult{Source: m.File{Path: path}}

	unit, err := loadUnit(ctx, w.fsAdapter, w.pyAdapter, path)
	if err != nil {
		result.Err = err
		return result, err
	}
	defer unit.Close()

	result.Source.Hash = fmt.Sprintf("%x", sha256.Sum256(unit.Source))

	for _, decl := range w.reader.Declarations(unit) {
		record := decl.Callable()
		if record == nil {
			continue
		}

		if record.Ignored {
			w.log.Debugw("Skipping ignored callable", "path", path, "function", record.QualifiedName)
			continue
		}

		report := w.check(unit, *record)
		result.Functions = append(result.Functions, report)

		if !report.Passed() && w.failFast {
			w.log.Debugw("Stopping unit at first failing callable", "path", path, "function", record.QualifiedName)
			break
		}
	}

	w.log.Debugw("Unit analyzed", "path", path, "callables", len(result.Functions), "failed", result.FailedFunctions())

	return result, nil
}

func (w *walker) Declarations(ctx context.Context, path m.Path) ([]m.Declaration, error) {
	unit, err := loadUnit(ctx, w.fsAdapter, w.pyAdapter, path)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	return w.reader.Declarations(unit), nil
}

func (w *walker) Required(record m.FunctionRecord) m.RequiredValidatorSet {
	required := make(m.RequiredValidatorSet, len(record.Parameters))

	for _, param := range record.Parameters {
		if param.Exempt() || param.Type == nil {
			continue
		}

		required[param.Name] = w.classifier.Classify(*param.Type)
	}

	return required
}

func (w *walker) CheckCallable(ctx context.Context, path m.Path, name string, line int) (m.FunctionReport, error) {
	failed := func(err error) (m.FunctionReport, error) {
		record := m.FunctionRecord{Name: name[strings.LastIndex(name, ".")+1:], QualifiedName: name, Path: path, Line: line}

		return m.FunctionReport{Record: record, Err: err}, err
	}

	unit, err := loadUnit(ctx, w.fsAdapter, w.pyAdapter, path)
	if err != nil {
		return failed(err)
	}
	defer unit.Close()

	if i := strings.LastIndex(name, "."); i >= 0 {
		owner := name[:i]

		class := w.locator.FindClass(unit, owner, 0)
		if class == nil {
			return failed(&LocateError{Path: path, Function: name, Line: line})
		}

		def, err := w.locator.FindMethod(unit, class, owner, name[i+1:], line)
		if err != nil {
			return failed(err)
		}

		return w.checkDefinition(unit, def, owner)
	}

	if class := w.locator.FindClass(unit, name, line); class != nil {
		def, err := w.locator.FindMethod(unit, class, name, constructorName, 0)
		if err != nil {
			// Nothing to validate without a constructor.
			record := m.FunctionRecord{Name: constructorName, QualifiedName: name + "." + constructorName, Path: path, Line: int(class.StartPoint().Row) + 1}

			return m.FunctionReport{Record: record}, nil
		}

		return w.checkDefinition(unit, def, name)
	}

	def, err := w.locator.Find(unit, name, line)
	if err != nil {
		return failed(err)
	}

	return w.checkDefinition(unit, def, enclosingClass(unit, def.Node))
}

func (w *walker) checkDefinition(unit *adapter.Unit, def *Definition, owner string) (m.FunctionReport, error) {
	record := w.reader.Record(unit, newIgnoreIndex(unit), def.Node, owner, owner != "")
	if record.Ignored {
		return m.FunctionReport{Record: record}, nil
	}

	report := w.compare(def, record)

	return report, report.Err
}

func (w *walker) check(unit *adapter.Unit, record m.FunctionRecord) m.FunctionReport {
	def, err := w.locator.Find(unit, record.Name, record.Line)
	if err != nil {
		return m.FunctionReport{Record: record, Err: err}
	}

	return w.compare(def, record)
}

func (w *walker) compare(def *Definition, record m.FunctionRecord) m.FunctionReport {
	actual := w.collector.Collect(def.Unit, def.Node)
	params, err := w.comparator.Compare(record, w.Required(record), actual)

	if err != nil {
		w.log.Debugw("Callable failed", "function", record.QualifiedName, "line", record.Line, "error", err)
	}

	return m.FunctionReport{Record: record, Parameters: params, Err: err}
}

// enclosingClass returns the name of the class whose body directly holds node.
func enclosingClass(unit *adapter.Unit, node *sitter.Node) string {
	parent := node.Parent()
	if parent != nil && parent.Type() == nodeDecorated {
		parent = parent.Parent()
	}

	if parent == nil || parent.Type() != "block" {
		return ""
	}

	class := parent.Parent()
	if class == nil || class.Type() != nodeClass {
		return ""
	}

	return definitionName(unit, class)
}
