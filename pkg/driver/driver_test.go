package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/errors"
	"tscheck/pkg/source"
)

func TestCheckSource(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    string
		message string
	}{
		{"ok", "let x = 1; const y = x + 1;", "", ""},
		{"type error", `let x: number = "a";`, "Type", "Type 'string' is not assignable to type 'number'."},
		{"syntax error", "let = 5;", "Syntax", ""},
		{"bind error", "let x = 1; let x = 2;", "Syntax", "Cannot redeclare block-scoped variable 'x'."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := CheckSource(context.Background(), source.NewEvalSource(tt.input), DefaultConfig())
			require.NoError(t, err)
			if tt.kind == "" {
				assert.True(t, r.OK())
				assert.NotNil(t, r.Bindings)
				return
			}
			require.NotEmpty(t, r.Diagnostics)
			assert.Equal(t, tt.kind, r.Diagnostics[0].Kind())
			if tt.message != "" {
				assert.Equal(t, tt.message, r.Diagnostics[0].Message())
			}
		})
	}
}

func TestCheckSourceDiagnosticPosition(t *testing.T) {
	file := source.NewSourceFile("main.ts", "main.ts", "let a = 1;\nlet b: string = a;\n")
	r, err := CheckSource(context.Background(), file, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, r.Diagnostics, 1)

	pos := r.Diagnostics[0].Pos()
	assert.Equal(t, 2, pos.Line)
	assert.Same(t, file, pos.Source)

	var typeErr *errors.TypeError
	require.ErrorAs(t, r.Diagnostics[0], &typeErr)
}

func TestCheckSourceSuggestions(t *testing.T) {
	cfg := DefaultConfig()
	r, err := CheckSource(context.Background(), source.NewEvalSource("let total = 1; let t = totl;"), cfg)
	require.NoError(t, err)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "Cannot find name 'totl'. Did you mean 'total'?", r.Diagnostics[0].Message())

	cfg.Suggestions = false
	r, err = CheckSource(context.Background(), source.NewEvalSource("let total = 1; let t = totl;"), cfg)
	require.NoError(t, err)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "Cannot find name 'totl'.", r.Diagnostics[0].Message())
}

func TestCheckSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckSource(ctx, source.NewEvalSource("let x = 1;"), DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.ts")
	require.NoError(t, os.WriteFile(path, []byte("let s = \"x\";\n"), 0o644))

	r, err := CheckFile(context.Background(), path, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, r.OK())
	assert.Equal(t, path, r.File.DisplayPath())

	_, err = CheckFile(context.Background(), filepath.Join(dir, "missing.ts"), DefaultConfig())
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDescribeBindings(t *testing.T) {
	input := `
const a = 1;
let b = "s";
function f(x: number) { return x > a; }
enum E { A, B }
interface I { n: number }
`
	r, err := CheckSource(context.Background(), source.NewEvalSource(input), DefaultConfig())
	require.NoError(t, err)
	require.True(t, r.OK())

	expect := "a: 1\n" +
		"b: string\n" +
		"f: (x: number) => boolean\n" +
		"E: E\n" +
		"I: I\n"
	assert.Equal(t, expect, DescribeBindings(r))
}

func TestDescribeBindingsSkipsUnbound(t *testing.T) {
	assert.Empty(t, DescribeBindings(nil))
	r, err := CheckSource(context.Background(), source.NewEvalSource("let = ;"), DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, DescribeBindings(r))
}
