package services

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher calls onChange after files under a directory tree settle
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func()
	watcher  *fsnotify.Watcher
	log      *zap.Logger

	started   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a watcher for root. Rapid bursts of events collapse into one onChange call.
func NewWatcher(root string, debounce time.Duration, onChange func(), log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		onChange: onChange,
		watcher:  fw,
		log:      log,
		done:     make(chan struct{}),
	}, nil
}

// Start adds root and its subdirectories and begins delivering changes in the background
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.log.Info("Watching gallery directory", zap.String("root", w.root))

	w.started.Store(true)
	go w.run(ctx)
	return nil
}

// Close stops the watcher and waits for the event loop to exit
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		if w.started.Load() {
			<-w.done
		}
	})
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if err := w.addTree(ev.Name); err != nil {
					w.log.Debug("Could not watch new path", zap.String("path", ev.Name), zap.Error(err))
				}
			}
			w.log.Debug("Gallery change", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Watcher error", zap.Error(err))
		}
	}
}
