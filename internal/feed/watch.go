package feed

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-sends plot files to an element whenever they are written.
type Watcher struct {
	elementID string
	files     map[string]bool
	sink      Sink
	fw        *fsnotify.Watcher
	log       *log.Logger
}

// NewWatcher starts watching the directories holding paths. Watching the
// directory rather than the file survives writers that replace the file.
func NewWatcher(elementID string, paths []string, sink Sink, opts ...Option) (*Watcher, error) {
	o := newOptions(opts)
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		elementID: elementID,
		files:     make(map[string]bool),
		sink:      sink,
		fw:        fw,
		log:       o.log,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run handles file events until ctx is done. Failed reads and renders are
// logged; the watcher keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if !w.files[name] {
				continue
			}
			w.reload(ctx, name)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.log.Printf("watch: %v", err)
		}
	}
}

// Close stops a watcher that was never run.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) reload(ctx context.Context, path string) {
	s, err := ReadFile(ctx, path)
	if err != nil {
		w.log.Printf("reload %s: %v", path, err)
		return
	}
	if err := w.sink(ctx, w.elementID, s); err != nil {
		w.log.Printf("render %s into %s: %v", path, w.elementID, err)
		return
	}
	w.log.Printf("rendered %s into %s", path, w.elementID)
}
