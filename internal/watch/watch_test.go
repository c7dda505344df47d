package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapsched/internal/testutil"
)

func TestNew(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	w, err := New(Config{Files: []string{"a.yaml", "./b.yaml"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.Len(t, w.files, 2)
	assert.Len(t, w.dirs, 1, "files in one directory share a watch")
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	app := filepath.Join(dir, "app.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(app, []byte("name: a\n"), 0o600))

	w, err := New(Config{
		Files:    []string{app},
		Debounce: 50 * time.Millisecond,
		Logger:   testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(app, []byte("name: b\n"), 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a burst of writes triggers one run")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
