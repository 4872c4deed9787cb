package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// TemplateWatcher calls onChange, debounced, whenever a file under a template
// directory is written, created, removed or renamed.
type TemplateWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	logger   *slog.Logger

	mu       sync.Mutex
	stopOnce sync.Once
	stop     chan struct{}
	pending  chan struct{}
	done     sync.WaitGroup
}

// NewTemplateWatcher watches dir and its subdirectories.
func NewTemplateWatcher(dir string, debounce time.Duration, onChange func(), logger *slog.Logger) (*TemplateWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("server: resolve templates dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("server: create file watcher: %w", err)
	}

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("server: watch %s: %w", abs, err)
	}

	return &TemplateWatcher{
		dir:      abs,
		watcher:  watcher,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		stop:     make(chan struct{}),
		pending:  make(chan struct{}, 1),
	}, nil
}

// Start runs the watch loops until ctx is done or Stop is called.
func (w *TemplateWatcher) Start(ctx context.Context) {
	w.logger.Info("watching templates", "dir", w.dir)
	w.done.Add(2)
	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
}

// Stop closes the watcher and waits for the loops to exit.
func (w *TemplateWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		err = w.watcher.Close()
	})
	w.done.Wait()
	return err
}

func (w *TemplateWatcher) watchLoop(ctx context.Context) {
	defer w.done.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.watchIfDir(event.Name)
			}
			w.logger.Debug("template change detected", "file", event.Name, "op", event.Op.String())
			w.trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("template watcher error", "error", err)
		}
	}
}

func (w *TemplateWatcher) reloadLoop(ctx context.Context) {
	defer w.done.Done()
	var timer *time.Timer
	stopTimer := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return
		case <-w.stop:
			stopTimer()
			return
		case <-w.pending:
			w.mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)
			w.mu.Unlock()
		}
	}
}

func (w *TemplateWatcher) trigger() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

func (w *TemplateWatcher) reload() {
	w.logger.Info("reloading templates", "dir", w.dir)
	if w.onChange != nil {
		w.onChange()
	}
}

func (w *TemplateWatcher) watchIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Debug("skip watching path", "path", path, "error", err)
	}
}
