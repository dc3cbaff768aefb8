package options

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with freshly loaded Options every time the file at
// path changes, until ctx is cancelled.
//
// The parent directory is watched rather than the file, so a save that
// replaces the file (write a temp file, rename it over path) keeps being
// seen. A reload that fails is logged and onChange is not called; the
// caller keeps its previous options.
func Watch(ctx context.Context, path string, onChange func(Options)) error {
	target := filepath.Clean(path)
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("options: watch: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("options: watch: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("options: watch %s: %w", dir, err)
	}

	slog.Info("options: watching for changes", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !changesContent(event) {
				continue
			}
			reload(target, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("options: watcher error", "err", err)
		}
	}
}

// changesContent reports whether event may have left new content at its
// path. A rename over the target arrives as Create; a rename away as Rename.
func changesContent(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func reload(path string, onChange func(Options)) {
	opts, err := Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Moved away mid-save; the Create of the replacement follows.
		slog.Debug("options: file gone, waiting for replacement", "path", path)
	case err != nil:
		slog.Error("options: reload failed, keeping previous options", "path", path, "err", err)
	default:
		slog.Info("options: reloaded", "path", path)
		onChange(opts)
	}
}
