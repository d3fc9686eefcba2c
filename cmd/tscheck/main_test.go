package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunExpression(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-e", "let x = 1;")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "checked 1 file(s), 0 error(s)")

	code, _, stderr = runCLI(t, "", "-e", `let x: number = "a";`)
	assert.Equal(t, exitDiagnostics, code)
	assert.Contains(t, stderr, "Type Error: Type 'string' is not assignable to type 'number'.")
	assert.Contains(t, stderr, "checked 1 file(s), 1 error(s)")
}

func TestRunTypes(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "-types", "-e", `const a = 1; let s = "x";`)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "a: 1\ns: string\n", stdout)
}

func TestRunAST(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "-ast", "-e", "let a = 1;")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "// AST")
	assert.Contains(t, stdout, "VariableStatement")
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ts")
	bad := filepath.Join(dir, "bad.ts")
	require.NoError(t, os.WriteFile(good, []byte("let a = 1;\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("const b;\n"), 0o644))

	code, stdout, stderr := runCLI(t, "", "-j", "2", "-types", good, bad)
	assert.Equal(t, exitDiagnostics, code)
	assert.Contains(t, stderr, "Syntax Error: 'const' declarations must be initialized.")
	assert.Contains(t, stdout, "// "+good+"\na: number\n")
	assert.Contains(t, stderr, "checked 2 file(s), 1 error(s)")

	code, _, _ = runCLI(t, "", filepath.Join(dir, "missing.ts"))
	assert.Equal(t, exitInternal, code)
}

func TestRunStdin(t *testing.T) {
	code, _, stderr := runCLI(t, "let n: string = 1;\n", "-")
	assert.Equal(t, exitDiagnostics, code)
	assert.Contains(t, stderr, "<stdin>")
}

func TestRunConfigInclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte("let a = 1;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ts"), []byte("let b = a;\n"), 0o644))
	cfgPath := filepath.Join(dir, "tscheck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("include:\n  - \"*.ts\"\nworkers: 1\n"), 0o644))

	code, _, stderr := runCLI(t, "", "-config", cfgPath)
	assert.Equal(t, exitDiagnostics, code)
	assert.Contains(t, stderr, "Cannot find name 'a'.")
	assert.Contains(t, stderr, "checked 2 file(s), 1 error(s)")
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown flag", []string{"-nope"}, exitUsage},
		{"expression with files", []string{"-e", "1;", "a.ts"}, exitUsage},
		{"zero workers", []string{"-j", "0", "-e", "1;"}, exitUsage},
		{"no input", nil, exitUsage},
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "absent.yaml"), "-e", "1;"}, exitInternal},
		{"help", []string{"-h"}, exitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, "", tt.args...)
			assert.Equal(t, tt.code, code)
		})
	}
}
