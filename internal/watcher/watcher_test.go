package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
		gone      bool
	}{
		{EventTypeCreated, "created", false},
		{EventTypeModified, "modified", false},
		{EventTypeDeleted, "deleted", true},
		{EventTypeRenamed, "renamed", true},
		{EventType(42), "unknown", false},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
			assert.Equal(t, tc.gone, tc.eventType.Gone())
		})
	}
}

func TestConvertOp(t *testing.T) {
	assert.Equal(t, EventTypeCreated, convertOp(fsnotify.Create))
	assert.Equal(t, EventTypeModified, convertOp(fsnotify.Write))
	assert.Equal(t, EventTypeDeleted, convertOp(fsnotify.Remove))
	assert.Equal(t, EventTypeRenamed, convertOp(fsnotify.Rename))
	assert.Equal(t, EventTypeModified, convertOp(fsnotify.Chmod))
	assert.Equal(t, EventTypeCreated, convertOp(fsnotify.Create|fsnotify.Write))
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	assert.NoError(t, watcher.AddPath(dir))
	assert.Error(t, watcher.AddPath(filepath.Join(dir, "missing")))
	assert.Error(t, watcher.AddPath("../outside"))
}

func TestFileWatcherAddRecursive(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "forms", "inputs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	file := filepath.Join(dir, "forms", "card.yaml")
	require.NoError(t, os.WriteFile(file, []byte("id: card"), 0o644))

	require.NoError(t, watcher.AddRecursive(dir))
	assert.Equal(t, []string{
		dir,
		filepath.Join(dir, "forms"),
		filepath.Join(dir, "forms", "inputs"),
	}, watcher.WatchList())

	other, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer other.Stop()

	require.NoError(t, other.AddRecursive(file))
	assert.Equal(t, []string{filepath.Join(dir, "forms")}, other.WatchList())
}

func TestFileWatcherDeliversDefinitionChanges(t *testing.T) {
	watcher, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	require.NoError(t, watcher.AddRecursive(dir))
	watcher.AddFilter(DefinitionFilter)
	watcher.AddFilter(NoHiddenFilter)

	var mu sync.Mutex
	var received []ChangeEvent
	watcher.AddHandler(func(ctx context.Context, events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, events...)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swap.yaml"), []byte("x"), 0o644))
	target := filepath.Join(dir, "card.yaml")
	require.NoError(t, os.WriteFile(target, []byte("id: card"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) > 0
	}, 3*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, e := range received {
		assert.Equal(t, target, e.Path)
	}
}

func TestDebouncerCoalescesByPath(t *testing.T) {
	debouncer := NewDebouncer(30 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go debouncer.start(ctx)

	debouncer.events <- ChangeEvent{Type: EventTypeCreated, Path: "b.yaml"}
	debouncer.events <- ChangeEvent{Type: EventTypeModified, Path: "a.yaml"}
	debouncer.events <- ChangeEvent{Type: EventTypeModified, Path: "b.yaml"}
	debouncer.events <- ChangeEvent{Type: EventTypeDeleted, Path: "a.yaml"}

	select {
	case events := <-debouncer.output:
		require.Len(t, events, 2)
		assert.Equal(t, "a.yaml", events[0].Path)
		assert.Equal(t, EventTypeDeleted, events[0].Type, "last event per path wins")
		assert.Equal(t, "b.yaml", events[1].Path)
		assert.Equal(t, EventTypeModified, events[1].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestDebouncerFlushEmpty(t *testing.T) {
	debouncer := NewDebouncer(time.Millisecond)
	debouncer.flush()
	assert.Empty(t, debouncer.output)
}

func TestFilters(t *testing.T) {
	testCases := []struct {
		path       string
		definition bool
		hidden     bool
		git        bool
	}{
		{"components/card.yaml", true, true, true},
		{"components/card.yml", true, true, true},
		{"components/card.JSON", true, true, true},
		{"components/card.go", false, true, true},
		{"components/.card.yaml", true, false, true},
		{"components/card.yaml~", false, false, true},
		{".git/config", false, true, false},
		{"src/.git/hooks.yaml", true, true, false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.definition, DefinitionFilter(tc.path))
			assert.Equal(t, tc.hidden, NoHiddenFilter(tc.path))
			assert.Equal(t, tc.git, NoGitFilter(tc.path))
		})
	}
}

func TestExcludeFilter(t *testing.T) {
	filter := ExcludeFilter("*.bak", "draft-*")
	assert.True(t, filter("components/card.yaml"))
	assert.False(t, filter("components/card.bak"))
	assert.False(t, filter("components/draft-card.yaml"))
	assert.True(t, ExcludeFilter()("anything"))
}
