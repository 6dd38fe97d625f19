package document

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay gives editors time to finish writing before the file is re-read.
const settleDelay = 50 * time.Millisecond

// Watch calls fn with the freshly parsed layout every time the file at path
// is written, created or renamed into place. It blocks until ctx is done.
//
// The parent directory is watched instead of the file itself because many
// editors save by renaming a temporary file over the original.
func Watch(ctx context.Context, path string, fn func(Layout, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	var lastMod time.Time
	if st, err := os.Stat(target); err == nil {
		lastMod = st.ModTime()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			st, err := os.Stat(target)
			if err != nil || !st.ModTime().After(lastMod) {
				continue
			}
			lastMod = st.ModTime()

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(settleDelay):
			}
			fn(ReadFile(target))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(Layout{}, err)
		}
	}
}
