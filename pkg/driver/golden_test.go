package driver

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/source"
)

var updateGolden = flag.Bool("update", false, "rewrite testdata/golden/*.golden")

// TestGolden compares the global bindings of each testdata/golden/*.ts file
// with the .golden file next to it.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "golden", "*.ts"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			content, err := os.ReadFile(path)
			require.NoError(t, err)
			r, err := CheckSource(context.Background(), source.FromFile(path, string(content)), DefaultConfig())
			require.NoError(t, err)
			require.True(t, r.OK(), "unexpected diagnostics: %v", r.Diagnostics)

			got := DescribeBindings(r)
			goldenPath := strings.TrimSuffix(path, ".ts") + ".golden"
			if *updateGolden {
				require.NoError(t, os.WriteFile(goldenPath, []byte(got), 0o644))
				return
			}
			want, err := os.ReadFile(goldenPath)
			require.NoError(t, err)
			if got == string(want) {
				return
			}
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(string(want)),
				B:        difflib.SplitLines(got),
				FromFile: goldenPath,
				ToFile:   "got",
				Context:  2,
			})
			require.NoError(t, err)
			t.Errorf("bindings differ from %s:\n%s", goldenPath, diff)
		})
	}
}
