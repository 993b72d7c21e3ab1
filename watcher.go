package sloginit

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/smazurov/sloginit/directive"
)

// WatchOption configures WatchFilter.
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

// WithDebounce sets the debounce duration for config file changes.
// Default is 1500ms.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		o.debounce = d
	}
}

// WatchFilter watches a TOML config file and re-applies its filter directive
// to the backend whenever the file changes. Only the filter is replaced; the
// sink set and the one-shot install slot are never touched. Invalid or
// unreadable config is logged and skipped, keeping the current filter.
//
// The returned function stops the watch.
func (b *Backend) WatchFilter(path string, opts ...WatchOption) (func() error, error) {
	o := watchOptions{debounce: 1500 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go b.watchFilter(ctx, watcher, path, o.debounce)

	return func() error {
		cancel()
		return watcher.Close()
	}, nil
}

func (b *Backend) watchFilter(ctx context.Context, watcher *fsnotify.Watcher, path string, debounce time.Duration) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Writes are the common case; some editors replace the file,
			// which shows up as a create.
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(debounce)
				timerC = timer.C
			}

		case <-timerC:
			timerC = nil
			b.reloadFilter(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("log config watch error", "error", err)
		}
	}
}

func (b *Backend) reloadFilter(path string) {
	c, err := LoadConfig(path)
	if err != nil {
		slog.Warn("cannot reload log config", "path", path, "error", err)
		return
	}
	if c.Filter == "" {
		return
	}
	d, err := directive.Parse(c.Filter)
	if err != nil {
		slog.Warn("ignoring invalid filter directive", "path", path, "error", err)
		return
	}
	b.SetFilter(d)
	slog.Debug("filter directive reloaded", "path", path, "filter", d.String())
}
