package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/source"
)

func TestProjectCheck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 2
	p, err := NewProject(cfg)
	require.NoError(t, err)

	var files []*source.SourceFile
	for i := 0; i < 10; i++ {
		content := fmt.Sprintf("let v%d = %d;", i, i)
		if i%3 == 0 {
			content = fmt.Sprintf("let v%d: string = %d;", i, i)
		}
		files = append(files, source.NewSourceFile(fmt.Sprintf("f%d.ts", i), fmt.Sprintf("f%d.ts", i), content))
	}

	results, err := p.Check(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, len(files))
	for i, r := range results {
		require.NotNil(t, r)
		assert.Same(t, files[i], r.File)
		assert.Equal(t, i%3 != 0, r.OK(), "file %d", i)
	}
	assert.Equal(t, len(files), p.Cached())
}

func TestProjectCacheByContent(t *testing.T) {
	p, err := NewProject(DefaultConfig())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := p.Check(ctx, []*source.SourceFile{source.NewSourceFile("a.ts", "a.ts", "let a = 1;")})
	require.NoError(t, err)
	again, err := p.Check(ctx, []*source.SourceFile{source.NewSourceFile("a.ts", "a.ts", "let a = 1;")})
	require.NoError(t, err)
	assert.Same(t, first[0], again[0], "unchanged content is served from the cache")

	changed, err := p.Check(ctx, []*source.SourceFile{source.NewSourceFile("a.ts", "a.ts", "let a = 2;")})
	require.NoError(t, err)
	assert.NotSame(t, first[0], changed[0])
	assert.Equal(t, 2, p.Cached())
}

func TestProjectWithoutCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 0
	p, err := NewProject(cfg)
	require.NoError(t, err)

	file := source.NewEvalSource("let a = 1;")
	first, err := p.Check(context.Background(), []*source.SourceFile{file})
	require.NoError(t, err)
	again, err := p.Check(context.Background(), []*source.SourceFile{file})
	require.NoError(t, err)
	assert.NotSame(t, first[0], again[0])
	assert.Zero(t, p.Cached())
}

func TestProjectCanceled(t *testing.T) {
	p, err := NewProject(DefaultConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Check(ctx, []*source.SourceFile{source.NewEvalSource("let a = 1;")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProjectCheckPaths(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ts")
	bad := filepath.Join(dir, "bad.ts")
	require.NoError(t, os.WriteFile(good, []byte("let a = [1, 2];\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("let a: number = [1];\n"), 0o644))

	p, err := NewProject(DefaultConfig())
	require.NoError(t, err)
	results, err := p.CheckPaths(context.Background(), []string{good, bad})
	require.NoError(t, err)
	assert.True(t, results[0].OK())
	require.False(t, results[1].OK())
	assert.Equal(t, "Type 'number[]' is not assignable to type 'number'.", results[1].Diagnostics[0].Message())

	_, err = p.CheckPaths(context.Background(), []string{filepath.Join(dir, "nope.ts")})
	assert.Error(t, err)
}

func TestNewProjectRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	_, err := NewProject(cfg)
	assert.Error(t, err)
}
