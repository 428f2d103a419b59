package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	d := &debouncer{delay: 20 * time.Millisecond, fn: func() { calls.Add(1) }}
	for i := 0; i < 5; i++ {
		d.trigger()
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	publicDir := filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "blog"), 0755))
	require.NoError(t, os.MkdirAll(publicDir, 0755))

	var calls atomic.Int32
	w, err := newWatcher(root, publicDir, func() { calls.Add(1) }, log.New(io.Discard))
	require.NoError(t, err)
	defer w.Close()
	w.debounce.delay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "index.html"), []byte("x"), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, calls.Load(), "output directory is ignored")

	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "blog", "post.md"), []byte("x"), 0644))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherIgnored(t *testing.T) {
	t.Parallel()

	w := &watcher{ignore: filepath.Join(string(filepath.Separator), "site", "public")}
	assert.True(t, w.ignored("/site/public"))
	assert.True(t, w.ignored("/site/public/blog/index.html"))
	assert.False(t, w.ignored("/site/publicity.md"))
	assert.False(t, w.ignored("/site/content/post.md"))
	assert.False(t, (&watcher{}).ignored("/anything"))
}
