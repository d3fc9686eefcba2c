package driver

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tscheck/pkg/source"
)

const scriptsDebug = false

// Expectation is the expected outcome of a script.
type Expectation struct {
	ResultType string // "ok", "type_error", "syntax_error"
	Value      string // error message substring
}

var expectRegex = regexp.MustCompile(`^//\s*(expect(?:_type_error|_syntax_error)?):\s*(.*)`)

// parseExpectation extracts the expectation from the script's comments.
// Looks for lines like:
//
//	// expect: ok
//	// expect_type_error: message
//	// expect_syntax_error: message
func parseExpectation(scriptContent string) (*Expectation, error) {
	scanner := bufio.NewScanner(strings.NewReader(scriptContent))
	for scanner.Scan() {
		matches := expectRegex.FindStringSubmatch(scanner.Text())
		if len(matches) != 3 {
			continue
		}
		value := strings.TrimSpace(matches[2])
		switch matches[1] {
		case "expect":
			if value != "ok" {
				return nil, fmt.Errorf("unknown expectation %q", value)
			}
			return &Expectation{ResultType: "ok"}, nil
		case "expect_type_error":
			return &Expectation{ResultType: "type_error", Value: value}, nil
		case "expect_syntax_error":
			return &Expectation{ResultType: "syntax_error", Value: value}, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading script content: %w", err)
	}
	return nil, fmt.Errorf("no expectation comment found (e.g., // expect: ok)")
}

func TestScripts(t *testing.T) {
	scriptDir := filepath.Join("testdata", "scripts")
	files, err := filepath.Glob(filepath.Join(scriptDir, "*.ts"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, scriptPath := range files {
		t.Run(filepath.Base(scriptPath), func(t *testing.T) {
			content, err := os.ReadFile(scriptPath)
			require.NoError(t, err)
			expectation, err := parseExpectation(string(content))
			require.NoError(t, err)

			file := source.FromFile(scriptPath, string(content))
			r, err := CheckSource(context.Background(), file, DefaultConfig())
			require.NoError(t, err)
			if scriptsDebug {
				t.Logf("--- Bindings [%s] ---\n%s", scriptPath, DescribeBindings(r))
			}

			var all strings.Builder
			for _, d := range r.Diagnostics {
				fmt.Fprintf(&all, "%sError: %s\n    at %s:%d:%d\n", d.Kind(), d.Message(), scriptPath, d.Pos().Line, d.Pos().Column)
			}

			switch expectation.ResultType {
			case "ok":
				if !r.OK() {
					t.Fatalf("Unexpected errors:\n%s", all.String())
				}
			case "type_error", "syntax_error":
				kind := "Type"
				if expectation.ResultType == "syntax_error" {
					kind = "Syntax"
				}
				if r.OK() {
					t.Fatalf("Expected %s error containing %q, but checking succeeded.", kind, expectation.Value)
				}
				for _, d := range r.Diagnostics {
					if d.Kind() == kind && strings.Contains(d.Message(), expectation.Value) {
						return
					}
				}
				t.Errorf("Expected %s error containing %q, but got errors:\n%s", kind, expectation.Value, all.String())
			}
		})
	}
}
