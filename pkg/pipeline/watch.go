package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/source"
	"github.com/pcleckler/UmlConversion/pkg/source/golang"
)

// watchDebounce is how long Watch waits after the last change.
var watchDebounce = DefaultWatchDebounce

// RunFunc receives the outcome of one watched run. On error, result and
// paths may be nil.
type RunFunc func(result *Result, paths []string, err error)

// Watch executes the pipeline and writes its outputs, then does so again
// after every change to the input's sources until ctx is done. Rapid
// changes are debounced into one run. Runs never overlap.
func (r *Runner) Watch(ctx context.Context, opts Options, onRun RunFunc) error {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer w.Close()

	dirs, err := watchDirs(opts)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", d)
		}
	}
	r.Logger.Debug("watching", "dirs", len(dirs), "input", opts.Input)

	run := func() {
		result, err := r.Execute(ctx, opts)
		var paths []string
		if err == nil {
			paths, err = r.Write(result, opts)
		}
		onRun(result, paths, err)
	}
	run()

	recursive := strings.HasSuffix(opts.Input, "...")
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-fire:
			run()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if recursive && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.Add(event.Name)
					continue
				}
			}
			if !relevant(opts, event) {
				continue
			}
			r.Logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.Logger.Warn("watcher error", "err", err)
		}
	}
}

// watchDirs lists the directories to watch. Model files are watched
// through their directory, since editors often replace files on save.
func watchDirs(opts Options) ([]string, error) {
	if opts.SourceKind() == source.KindModel {
		return []string{filepath.Dir(opts.Input)}, nil
	}
	return golang.SourceDirs(opts.Input)
}

func relevant(opts Options, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if opts.SourceKind() == source.KindModel {
		return filepath.Clean(event.Name) == filepath.Clean(opts.Input)
	}
	return golang.IsSource(event.Name)
}
