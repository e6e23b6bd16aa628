package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/logger"
)

var indexWatch bool

// watchDebounce coalesces bursts of filesystem events into one sweep.
const watchDebounce = 500 * time.Millisecond

var indexCmd = &cobra.Command{
	Use:   "index [paths...]",
	Short: "Index documents into the collection",
	Long: `Analyses the given files and directories and upserts them into the
vector index. Unchanged files are skipped, changed files re-analysed,
and documents whose files vanished are removed. With no arguments the
configured collection paths are swept.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep watching for file changes and re-index")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	roots := collectionPaths(args)
	if len(roots) == 0 {
		return errors.New("no paths given and no collection paths configured")
	}

	if err := sweep(ctx, cmd, roots); err != nil {
		return err
	}

	if indexWatch {
		return watch(ctx, cmd, roots)
	}
	return nil
}

// sweep expands the roots to indexable files and runs a freshness sweep.
func sweep(ctx context.Context, cmd *cobra.Command, roots []string) error {
	files, err := expandPaths(roots)
	if err != nil {
		return err
	}

	report, err := indexService.EnsureFresh(ctx, files)
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %d, skipped %d unchanged, removed %d.\n",
		report.Indexed, report.Skipped, report.Removed)
	for path, ferr := range report.Failures {
		cmd.Printf("  failed: %s: %v\n", path, ferr)
	}
	return nil
}

// watch re-sweeps whenever files under the roots change, debounced so
// editor save bursts trigger one sweep.
func watch(ctx context.Context, cmd *cobra.Command, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		dir := root
		if !info.IsDir() {
			dir = filepath.Dir(root)
		}
		if err := watcher.Add(dir); err != nil {
			return err
		}
		if info.IsDir() {
			err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() && path != dir {
					return watcher.Add(path)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Change detected: %s", event)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		case <-pending:
			if err := sweep(ctx, cmd, roots); err != nil {
				logger.Warn("Sweep failed: %v", err)
			}
		}
	}
}

// expandPaths walks the roots and returns the indexable files, sorted.
// Files with unrecognised extensions and dot-directories are skipped.
func expandPaths(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	addFile := func(path string) {
		if seen[path] {
			return
		}
		if _, err := registry.Classify(path); err != nil {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(abs)
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); name != "." && len(name) > 1 && name[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
