package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeType describes what happened to a watched bill.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
)

// Change is a bill file that appeared or was rewritten.
type Change struct {
	Type ChangeType
	Path string
}

type pendingChange struct {
	change Change
	due    time.Time
}

// Watch reports PDFs created or written under root, including in
// subdirectories created later. A change is held back until the file has
// been quiet for the settle period, so a bill still being copied is
// reported once. The channel closes when ctx is cancelled.
func (c *Connector) Watch(ctx context.Context, root string) (<-chan Change, error) {
	if err := c.Validate(root); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := c.addTree(watcher, root, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan Change)
	go c.watchLoop(ctx, watcher, root, out)
	return out, nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, root string, out chan<- Change) {
	defer close(out)
	defer func() { _ = watcher.Close() }()

	tick := c.settle / 2
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]pendingChange)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := c.addTree(watcher, root, event.Name); err != nil {
					c.log().Warn("watch.add", "path", event.Name, "error", err)
				}
				continue
			}
			change := c.handleFsEvent(root, event)
			if change == nil {
				continue
			}
			if prev, ok := pending[change.Path]; ok && prev.change.Type == ChangeCreated {
				change.Type = ChangeCreated
			}
			pending[change.Path] = pendingChange{change: *change, due: time.Now().Add(c.settle)}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.log().Warn("watch.error", "root", root, "error", err)

		case now := <-ticker.C:
			var ready []string
			for path, p := range pending {
				if !now.Before(p.due) {
					ready = append(ready, path)
				}
			}
			sort.Strings(ready)
			for _, path := range ready {
				change := pending[path].change
				delete(pending, path)
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// handleFsEvent converts an fsnotify event into a Change. Events for
// hidden paths, directories, non-PDF files, removals and permission
// changes return nil.
func (c *Connector) handleFsEvent(root string, event fsnotify.Event) *Change {
	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		rel = event.Name
	}
	if isHidden(rel) || !isPDF(event.Name) {
		return nil
	}

	var changeType ChangeType
	switch {
	case event.Has(fsnotify.Create):
		changeType = ChangeCreated
	case event.Has(fsnotify.Write):
		changeType = ChangeUpdated
	default:
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return nil
	}
	return &Change{Type: changeType, Path: event.Name}
}

// addTree watches dir and every non-hidden directory below it.
func (c *Connector) addTree(watcher *fsnotify.Watcher, root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && isHidden(rel) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
