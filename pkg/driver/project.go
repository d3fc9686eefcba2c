package driver

import (
	"context"
	"fmt"

	"github.com/hashicorp/golang-lru/arc/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tscheck/pkg/source"
)

type cacheKey struct {
	path   string
	digest string
}

// Project checks many files concurrently. Files share nothing, so each one
// gets its own checker. Results are cached by path and content digest, so
// rechecking an unchanged file is free.
type Project struct {
	cfg    Config
	logger *zap.Logger
	cache  *arc.ARCCache[cacheKey, *Result]
}

// NewProject validates cfg and creates a Project.
func NewProject(cfg Config) (*Project, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Project{cfg: cfg, logger: cfg.logger()}
	if cfg.CacheSize > 0 {
		cache, err := arc.NewARC[cacheKey, *Result](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("result cache: %w", err)
		}
		p.cache = cache
	}
	return p, nil
}

// Check checks files with at most cfg.Workers running at once. Results are
// returned in the order of files. Once ctx is done no further file is
// started and the context error is returned.
func (p *Project) Check(ctx context.Context, files []*source.SourceFile) ([]*Result, error) {
	results := make([]*Result, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.cfg.Workers)
	for i, file := range files {
		if groupCtx.Err() != nil {
			break
		}
		i, file := i, file
		group.Go(func() error {
			r, err := p.checkOne(groupCtx, file)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		p.logger.Error("project check failed", zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckPaths reads and checks the files at paths.
func (p *Project) CheckPaths(ctx context.Context, paths []string) ([]*Result, error) {
	files := make([]*source.SourceFile, 0, len(paths))
	for _, path := range paths {
		file, err := ReadSource(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return p.Check(ctx, files)
}

// Cached reports how many results the cache holds.
func (p *Project) Cached() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.Len()
}

func (p *Project) checkOne(ctx context.Context, file *source.SourceFile) (*Result, error) {
	key := cacheKey{path: file.DisplayPath(), digest: file.Digest()}
	if p.cache != nil {
		if r, ok := p.cache.Get(key); ok {
			p.logger.Debug("cache hit", zap.String("file", key.path))
			return r, nil
		}
	}
	r, err := CheckSource(ctx, file, p.cfg)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Add(key, r)
	}
	return r, nil
}
