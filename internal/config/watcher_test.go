package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnceForWriteBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("argus: {}\n"), 0644))

	changed := make(chan struct{}, 10)
	w := NewWatcher(path, 50*time.Millisecond, func() {
		changed <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	// A save burst: several writes in quick succession.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("argus: {}\n"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never reported the change")
	}

	// Debounce means the burst collapses; allow the timer window to drain
	// and verify no flood of callbacks arrived.
	time.Sleep(200 * time.Millisecond)
	if len(changed) > 1 {
		t.Errorf("expected the burst to debounce, got %d extra callbacks", len(changed)+1)
	}
}

func TestWatcher_IgnoresOtherFilesInDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("argus: {}\n"), 0644))

	changed := make(chan struct{}, 1)
	w := NewWatcher(path, 20*time.Millisecond, func() {
		changed <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0644))

	select {
	case <-changed:
		t.Fatal("watcher fired for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
