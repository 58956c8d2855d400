package sentinel

import (
	"context"
	"crypto/sha256"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	got, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, sha256.Sum256([]byte("hello")), got)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWatch_ReportsContentChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func() { changed <- struct{}{} })
	}()
	// Give the watcher time to register.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("two\n"), 0644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("change was not reported")
	}

	// Rewriting identical content is not a change.
	require.NoError(t, os.WriteFile(path, []byte("two\n"), 0644))
	select {
	case <-changed:
		t.Fatal("unchanged content was reported")
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_NoCallbackAfterReturn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.txt")

	var returned, lateCall atomic.Bool
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- Watch(ctx, path, func() {
				if returned.Load() {
					lateCall.Store(true)
				}
				time.Sleep(20 * time.Millisecond)
			})
		}()
		time.Sleep(100 * time.Millisecond)

		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0644))
		// Cancel close to the end of the debounce window.
		time.Sleep(DebounceInterval - 5*time.Millisecond)
		cancel()
		require.NoError(t, <-done)
		returned.Store(true)

		time.Sleep(2 * DebounceInterval)
		returned.Store(false)
	}
	assert.False(t, lateCall.Load(), "onChange ran after Watch returned")
}
