// Package sentinel watches a single file and reports content changes.
package sentinel

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is the delay after an fsnotify event before checking the checksum.
const DebounceInterval = 100 * time.Millisecond

// Watch calls onChange each time the content of path changes, until ctx is
// done. A file that does not exist yet hashes as empty, so creating it counts
// as a change. Calls to onChange never overlap.
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory, not the file itself. Atomic replace
	// (write temp file, rename) changes the inode.
	watchDir := filepath.Dir(path)
	name := filepath.Base(path)
	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", watchDir, err)
	}

	var (
		mu       sync.Mutex
		lastHash = hashOrEmpty(path)
		timer    *time.Timer
		stopped  bool
	)
	check := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		h := hashOrEmpty(path)
		if h == lastHash {
			return
		}
		slog.DebugContext(ctx, "watched file changed", "path", path, "old", fmt.Sprintf("%x", lastHash[:8]), "new", fmt.Sprintf("%x", h[:8]))
		lastHash = h
		onChange()
	}
	// Once Watch returns, onChange is neither running nor called again.
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(DebounceInterval, check)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "fsnotify error", "path", path, "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func hashOrEmpty(path string) [sha256.Size]byte {
	h, err := HashFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to hash watched file", "path", path, "error", err)
		}
		return [sha256.Size]byte{}
	}
	return h
}

// HashFile computes the SHA256 hash of the file at the given path.
func HashFile(path string) ([sha256.Size]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return [sha256.Size]byte{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return [sha256.Size]byte{}, fmt.Errorf("hash %s: %w", path, err)
	}

	var result [sha256.Size]byte
	copy(result[:], h.Sum(nil))
	return result, nil
}
