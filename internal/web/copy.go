package web

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/prettyresults/prettyresults/internal/ui"
)

// listResultFiles returns the regular, non-hidden files directly inside
// dir, sorted by name. A missing dir has no files.
func listResultFiles(dir string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []os.FileInfo
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	return files, nil
}

// copyFiles copies files from srcDir into dstDir using at most workers
// goroutines, reporting each copied file. The first failure cancels the
// remaining copies.
func copyFiles(ctx context.Context, srcDir, dstDir string, files []os.FileInfo, workers int, r ui.Renderer) error {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return err
	}
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var done atomic.Int32
	total := len(files)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := copyFile(filepath.Join(srcDir, f.Name()), filepath.Join(dstDir, f.Name()), f); err != nil {
				return fmt.Errorf("copy %s: %w", f.Name(), err)
			}
			r.UpdateProgress(ui.ProgressEvent{
				Stage:   ui.StageCopy,
				Current: int(done.Add(1)),
				Total:   total,
				File:    f.Name(),
			})
			return nil
		})
	}
	return g.Wait()
}

// copyFile copies one file, keeping its mode and modification time.
func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
