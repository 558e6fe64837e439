// Package watcher reports saved entry files under a directory tree.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/journaldb/internal/pathutil"
)

// DefaultDebounce is how long a file must stay quiet before it is handled.
// Editors usually save with several writes and renames in quick succession.
const DefaultDebounce = 250 * time.Millisecond

// HandlerFunc processes one saved file. Errors are logged and watching
// continues.
type HandlerFunc func(ctx context.Context, path string) error

type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	ext      string
	debounce time.Duration
	done     chan struct{}
	once     sync.Once
	log      zerolog.Logger
}

// New watches dir and every directory below it for files with extension
// ext.
func New(dir, ext string, logger zerolog.Logger) (*Watcher, error) {
	normalized := pathutil.NormalizePath(dir)
	if normalized == "" {
		return nil, errors.New("watch directory cannot be empty")
	}

	info, err := os.Stat(normalized)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(normalized + " is not a directory")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		dir:      normalized,
		ext:      ext,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
		log:      logger.With().Str("component", "watcher").Logger(),
	}

	if err := w.addRecursive(normalized); err != nil {
		_ = w.Close()
		return nil, err
	}

	return w, nil
}

// SetDebounce changes the quiet period before a changed file is handled.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Run blocks, calling handle for every saved entry file, until ctx is done
// or the watcher is closed. Files are handled one at a time in path order.
func (w *Watcher) Run(ctx context.Context, handle HandlerFunc) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-timer.C:
			w.flush(ctx, pending, handle)
			pending = make(map[string]struct{})
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
					continue
				}
			}

			if !w.isRelevant(event) {
				continue
			}

			pending[pathutil.NormalizePath(event.Name)] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				w.log.Warn().Err(err).Msg("watch error")
			}
		}
	}
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}, handle HandlerFunc) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := handle(ctx, p); err != nil {
			rel, _ := w.relativePath(p)
			w.log.Warn().Err(err).Str("file", rel).Msg("failed to sync entry file")
		}
	}
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
	})

	return closeErr
}

func (w *Watcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}
		if path != normalized && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		return w.watcher.Add(path)
	})
}

// isRelevant accepts creates, writes and rename targets. Removals never
// delete entries.
func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}

	rel, err := w.relativePath(event.Name)
	if err != nil || rel == "" {
		return false
	}

	return pathutil.IsEntryFile(rel, w.ext)
}

func (w *Watcher) relativePath(path string) (string, error) {
	rel, err := pathutil.Relative(w.dir, path)
	if err != nil {
		return "", err
	}

	if rel == "." || rel == "" || strings.HasPrefix(rel, "..") {
		return "", nil
	}

	return rel, nil
}
