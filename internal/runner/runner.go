package runner

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// hookImport is the pseudo-package carrying the injected hooks. It is
// dot-imported so targets call Input and Exit unqualified.
const hookImport = `import . "omniprofhooks"`

// hiddenNamePrefix marks callables excluded from discovery by convention.
const hiddenNamePrefix = "_"

// Runner executes source units inside an embedded interpreter. The zero
// value is not usable; construct with NewRunner.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner. A nil logger falls back to slog.Default.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{logger: logger}
}

// Warmup executes the unit the configured number of times with output
// suppressed and all results discarded, so one-time initialization cost is
// excluded from the measured pass.
func (r *Runner) Warmup(unit SourceUnit) {
	for i := 0; i < unit.WarmupRuns; i++ {
		result := r.runOnce(unit, io.Discard, io.Discard)
		if result.Err != "" {
			r.logger.Warn("warm-up run failed", "run", i+1, "error", result.Err)
		}
	}
}

// Execute performs the single measured run. Anything the target program
// raises lands in the result's Err field; Execute itself never fails.
func (r *Runner) Execute(unit SourceUnit) *ExecutionResult {
	var stdout, stderr bytes.Buffer

	result := r.runOnce(unit, &stdout, &stderr)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	return result
}

func (r *Runner) runOnce(unit SourceUnit, stdout, stderr io.Writer) *ExecutionResult {
	result := &ExecutionResult{}

	mock := NewMockInput(unit.MockInputs, unit.Timeout)

	restore, dirErr := enterWorkDir(unit.WorkDir)
	if dirErr != nil {
		r.logger.Warn("failed to enter working directory", "dir", unit.WorkDir, "error", dirErr)
	}
	defer restore()

	i := interp.New(interp.Options{
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  mock,
		GoPath: unit.WorkDir,
	})

	useErr := i.Use(stdlib.Symbols)
	if useErr != nil {
		result.Err = fmt.Sprintf("load interpreter symbols: %v", useErr)

		return result
	}

	useErr = i.Use(hookExports(mock))
	if useErr != nil {
		result.Err = fmt.Sprintf("load interpreter hooks: %v", useErr)

		return result
	}

	_, importErr := i.Eval(hookImport)
	if importErr != nil {
		r.logger.Debug("hook import skipped", "error", importErr)
	}

	value, evalErr := safeEval(i, unit.Source)
	result.Err = classifyError(evalErr)

	if value.IsValid() && value.CanInterface() {
		result.ReturnValue = value.Interface()
	}

	r.discoverCallables(i, unit.Source, result)

	return result
}

// safeEval evaluates the source, converting signal panics raised by the
// hooks back into their signal values.
func safeEval(i *interp.Interpreter, src string) (value reflect.Value, err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		switch sig := rec.(type) {
		case exitSignal:
			err = nil
		case timeoutSignal:
			err = sig
		default:
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return i.Eval(src)
}

// classifyError maps evaluation outcomes onto the executor failure
// semantics: a clean exit produces no error, a timeout or program error is
// captured as a string, nothing propagates.
func classifyError(evalErr error) string {
	if evalErr == nil {
		return ""
	}

	var timeout timeoutSignal
	if errors.As(evalErr, &timeout) {
		return timeout.Error()
	}

	var interpPanic interp.Panic
	if errors.As(evalErr, &interpPanic) {
		switch sig := interpPanic.Value.(type) {
		case exitSignal:
			return ""
		case timeoutSignal:
			return sig.Error()
		default:
			return fmt.Sprintf("panic: %v", interpPanic.Value)
		}
	}

	return evalErr.Error()
}

// hookExports binds the injected capabilities: Input draws from the mock
// sequence with the cooperative timeout check, Exit terminates cleanly,
// and os.Exit is shadowed so target exits stay in-process.
func hookExports(mock *MockInput) interp.Exports {
	exitFn := func(code int) {
		panic(exitSignal{code: code})
	}

	return interp.Exports{
		"omniprofhooks/omniprofhooks": {
			"Input": reflect.ValueOf(mock.Next),
			"Exit":  reflect.ValueOf(func() { exitFn(0) }),
		},
		"os/os": {
			"Exit": reflect.ValueOf(exitFn),
		},
	}
}

// discoverCallables returns the typed list of user-defined top-level
// functions. Declarations are taken from the parsed source (name plus
// line span) and resolved against the interpreter scope, skipping
// hidden-by-convention names.
func (r *Runner) discoverCallables(i *interp.Interpreter, src string, result *ExecutionResult) {
	fset := token.NewFileSet()

	wrapped, lineOffset := ensurePackageClause(src)

	file, parseErr := parser.ParseFile(fset, "target.go", wrapped, 0)
	if parseErr != nil {
		r.logger.Debug("callable discovery: source not parseable as declarations", "error", parseErr)

		return
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}

		name := fn.Name.Name
		if strings.HasPrefix(name, hiddenNamePrefix) || name == "main" || name == "init" {
			continue
		}

		callable := Callable{
			Name:      name,
			StartLine: fset.Position(fn.Pos()).Line - lineOffset,
			EndLine:   fset.Position(fn.End()).Line - lineOffset,
		}

		value, evalErr := i.Eval(name)
		if evalErr == nil && value.IsValid() && value.Kind() == reflect.Func {
			callable.Value = value
		}

		result.Callables = append(result.Callables, callable)
	}
}

// ensurePackageClause makes bare declaration snippets parseable without
// shifting attribution semantics: only a package header is prepended,
// never a synthetic enclosing function. The returned offset is the number
// of lines the header added, so positions can be mapped back.
func ensurePackageClause(src string) (string, int) {
	trimmed := strings.TrimLeft(src, " \t\n")
	if strings.HasPrefix(trimmed, "package ") || strings.HasPrefix(trimmed, "package\t") {
		return src, 0
	}

	return "package main\n\n" + src, 2
}

// enterWorkDir switches the process working directory and returns a
// restore function that runs on every exit path.
func enterWorkDir(dir string) (func(), error) {
	if dir == "" {
		return func() {}, nil
	}

	previous, err := os.Getwd()
	if err != nil {
		return func() {}, fmt.Errorf("get working directory: %w", err)
	}

	chdirErr := os.Chdir(dir)
	if chdirErr != nil {
		return func() {}, fmt.Errorf("change working directory: %w", chdirErr)
	}

	return func() {
		restoreErr := os.Chdir(previous)
		if restoreErr != nil {
			slog.Default().Warn("failed to restore working directory", "dir", previous, "error", restoreErr)
		}
	}, nil
}
