// Package driver runs the lexer, parser, binder and checker over source
// files and collects their diagnostics.
package driver

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"tscheck/pkg/binder"
	"tscheck/pkg/checker"
	"tscheck/pkg/errors"
	"tscheck/pkg/lexer"
	"tscheck/pkg/parser"
	"tscheck/pkg/source"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf("[Driver] "+format+"\n", args...)
	}
}

// Result is the outcome of checking one file. Program is nil when the file
// could not be parsed; Bindings is nil when it could not be bound.
type Result struct {
	File        *source.SourceFile
	Program     *parser.Program
	Bindings    *binder.Result
	Diagnostics []errors.Diagnostic
}

// OK reports whether the file checked without diagnostics.
func (r *Result) OK() bool { return len(r.Diagnostics) == 0 }

// CheckSource lexes, parses, binds and type-checks file. Syntax and bind
// errors stop the pipeline before checking. The returned error is only set
// when ctx is done; problems in the source are reported as Diagnostics.
func CheckSource(ctx context.Context, file *source.SourceFile, cfg Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check %s: %w", file.DisplayPath(), err)
	}
	logger := cfg.logger().With(zap.String("file", file.DisplayPath()))
	result := &Result{File: file}

	program, parseErrs := parser.NewParser(lexer.NewLexerWithSource(file)).ParseProgram()
	if len(parseErrs) > 0 {
		result.Diagnostics = parseErrs
		logger.Debug("parse failed", zap.Int("diagnostics", len(parseErrs)))
		return result, nil
	}
	result.Program = program

	bindings, bindErrs := binder.Bind(program)
	if len(bindErrs) > 0 {
		result.Diagnostics = bindErrs
		logger.Debug("bind failed", zap.Int("diagnostics", len(bindErrs)))
		return result, nil
	}
	result.Bindings = bindings

	c := checker.New(
		checker.WithLogger(logger),
		checker.WithSuggestions(cfg.suggestionDistance()),
	)
	if err := c.Check(program, bindings); err != nil {
		var diag errors.Diagnostic
		if !stderrors.As(err, &diag) {
			return nil, fmt.Errorf("check %s: %w", file.DisplayPath(), err)
		}
		result.Diagnostics = append(result.Diagnostics, diag)
	}
	debugPrintf("%s: %d diagnostics", file.DisplayPath(), len(result.Diagnostics))
	logger.Debug("checked", zap.Int("diagnostics", len(result.Diagnostics)))
	return result, nil
}

// ReadSource loads the file at path.
func ReadSource(path string) (*source.SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Msg: fmt.Sprintf("cannot read %s", path), Cause: err}
	}
	return source.FromFile(path, string(data)), nil
}

// CheckFile reads and checks the file at path.
func CheckFile(ctx context.Context, path string, cfg Config) (*Result, error) {
	file, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return CheckSource(ctx, file, cfg)
}

// DescribeBindings lists the top-level bindings of a checked file as
// `name: type` lines in source order. Bindings the checker never reached
// are left out.
func DescribeBindings(r *Result) string {
	if r == nil || r.Bindings == nil {
		return ""
	}
	vars := slices.Clone(r.Bindings.Global.Variables())
	slices.SortStableFunc(vars, func(a, b *binder.Variable) int {
		return declarationOffset(a) - declarationOffset(b)
	})
	var b strings.Builder
	for _, v := range vars {
		if v.Type == nil {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", v.Name, v.Type)
	}
	return b.String()
}

func declarationOffset(v *binder.Variable) int {
	d := v.FirstDeclaration()
	if d == nil || d.Node == nil {
		return 0
	}
	return d.Node.NodeToken().StartPos
}
