package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ExpandDirResult содержит результат раскрытия одного файла директории.
type ExpandDirResult struct {
	Path   string
	Result *ExpandResult
}

// listQLFiles возвращает отсортированный список всех *.ql файлов.
func listQLFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".ql") {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ExpandDir раскрывает все *.ql файлы директории параллельно. Каждый файл
// получает собственное состояние экспандера, поэтому раскрытия независимы;
// результаты возвращаются в порядке отсортированных путей.
func ExpandDir(ctx context.Context, dir string, jobs int, opts Options) ([]ExpandDirResult, error) {
	files, err := listQLFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]ExpandDirResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Expand(path, opts)
			if err != nil {
				return err
			}
			results[i] = ExpandDirResult{Path: path, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
